// Package view derives displayed lists from the canonical task sequence.
// Nothing here mutates its input unless the function says so.
package view

import (
	"sort"
	"strings"
	"time"

	"todo/internal/config"
	"todo/internal/service"
)

// DateMode selects how due dates are compared.
type DateMode string

const (
	// DatesCalendar parses due dates and compares them chronologically.
	DatesCalendar DateMode = config.DatesCalendar
	// DatesLexical compares due dates as plain strings.
	DatesLexical DateMode = config.DatesLexical
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
}

// ParseDate parses a due date in one of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter returns the tasks matching both the category and status predicates,
// in their original relative order.
func Filter(tasks []service.Task, category string, status service.Status) []service.Task {
	category = strings.ToLower(strings.TrimSpace(category))
	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchCategory(t, category) && matchStatus(t, status) {
			result = append(result, t)
		}
	}
	return result
}

func matchCategory(t service.Task, category string) bool {
	if category == "" || category == service.AllCategories {
		return true
	}
	return strings.ToLower(strings.TrimSpace(t.Category)) == category
}

func matchStatus(t service.Task, status service.Status) bool {
	switch status {
	case service.StatusDone:
		return t.Completed
	case service.StatusUndone:
		return !t.Completed
	default:
		return true
	}
}

// Sort orders tasks in place by due date, then incomplete before completed.
// OrderNone leaves the slice untouched. The sort is stable.
func Sort(tasks []service.Task, order service.Order, mode DateMode) {
	if order != service.OrderAsc && order != service.OrderDesc {
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j], order, mode)
	})
}

// Sorted is Sort on a copy.
func Sorted(tasks []service.Task, order service.Order, mode DateMode) []service.Task {
	result := make([]service.Task, len(tasks))
	copy(result, tasks)
	Sort(result, order, mode)
	return result
}

// Apply filters then sorts, returning a new slice.
func Apply(tasks []service.Task, f service.Filter, mode DateMode) []service.Task {
	result := Filter(tasks, f.Category, f.Status)
	Sort(result, f.Order, mode)
	return result
}

func less(a, b service.Task, order service.Order, mode DateMode) bool {
	if c := compareDue(a.DueDate, b.DueDate, order, mode); c != 0 {
		return c < 0
	}
	return !a.Completed && b.Completed
}

// compareDue compares two due dates for the given direction.
// In calendar mode absent dates come last and unparsed dates come after
// parsed ones regardless of direction.
func compareDue(a, b string, order service.Order, mode DateMode) int {
	dir := 1
	if order == service.OrderDesc {
		dir = -1
	}

	if mode == DatesLexical {
		return dir * strings.Compare(a, b)
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	switch {
	case okA && okB:
		return dir * ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return dir * strings.Compare(a, b)
}

// Categories returns the distinct non-empty categories in first-seen order,
// compared case-insensitively, followed by the "All" sentinel.
func Categories(tasks []service.Task) []service.Category {
	seen := make(map[string]bool)
	var result []service.Category
	for _, t := range tasks {
		label := strings.TrimSpace(t.Category)
		if label == "" {
			continue
		}
		value := strings.ToLower(label)
		if seen[value] {
			continue
		}
		seen[value] = true
		result = append(result, service.Category{Label: label, Value: value})
	}
	return append(result, service.AllCategory)
}
