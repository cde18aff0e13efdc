// Package service defines the task types and the operations the CLI drives.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a task id does not address an existing task.
var ErrNotFound = errors.New("task not found")

// Task is a single to-do item.
// DueDate and Category are empty when absent; they persist as JSON null.
type Task struct {
	ID        int
	Text      string
	DueDate   string
	Category  string
	Completed bool
}

// taskJSON is the persisted shape of a Task.
type taskJSON struct {
	ID        int     `json:"id,omitempty"`
	Text      string  `json:"text"`
	DueDate   *string `json:"dueDate"`
	Category  *string `json:"category"`
	Completed bool    `json:"completed"`
}

// MarshalJSON writes absent fields as null.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		DueDate:   optional(t.DueDate),
		Category:  optional(t.Category),
		Completed: t.Completed,
	})
}

// UnmarshalJSON accepts both the current shape and entries written without an id.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task{
		ID:        raw.ID,
		Text:      raw.Text,
		Completed: raw.Completed,
	}
	if raw.DueDate != nil {
		t.DueDate = *raw.DueDate
	}
	if raw.Category != nil {
		t.Category = *raw.Category
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Category is one entry of the category filter.
// Label keeps the case of its first occurrence; Value is case-folded.
type Category struct {
	Label string
	Value string
}

// AllCategories is the sentinel filter value matching every category.
const AllCategories = "all"

// AllCategory is the sentinel option appended after the real categories.
var AllCategory = Category{Label: "All", Value: AllCategories}

// Status selects tasks by completion.
type Status string

const (
	StatusAll    Status = "all"
	StatusDone   Status = "done"
	StatusUndone Status = "undone"
)

// ParseStatus parses a status filter. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "done":
		return StatusDone, nil
	case "undone":
		return StatusUndone, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// Order is a due-date sort direction.
type Order string

const (
	OrderNone Order = ""
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder parses a sort order. Empty and "none" leave the order unchanged.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return OrderNone, nil
	case "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	}
	return "", fmt.Errorf("invalid sort order: %s", s)
}

// Filter describes a derived view of the task list.
type Filter struct {
	// Category is "all", empty, or a category compared case-insensitively.
	Category string
	Status   Status
	Order    Order
}

// Edit holds replacement values for an edit. A nil field is left unchanged;
// a pointer to an empty string is a blank submission.
type Edit struct {
	Text     *string
	DueDate  *string
	Category *string
}

// IsZero reports whether the edit changes nothing.
func (e Edit) IsZero() bool {
	return e.Text == nil && e.DueDate == nil && e.Category == nil
}

// Field names reported by ValidationError, in reporting order.
const (
	FieldText     = "Task"
	FieldDueDate  = "Due Date"
	FieldCategory = "Category"
)

// ValidationError lists every required field left unfilled.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill the: %s field", strings.Join(e.Missing, ", "))
}

// TaskList is a list on a remote task service.
type TaskList struct {
	ID    string
	Title string
}
