// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/service"
)

// NoTasks is printed in place of an empty list.
const NoTasks = "No tasks found"

// Printer renders tasks to a writer. Styles degrade to plain text when the
// writer is not a terminal.
type Printer struct {
	w         io.Writer
	completed lipgloss.Style
	details   lipgloss.Style
}

// NewPrinter creates a Printer bound to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:         w,
		completed: r.NewStyle().Strikethrough(true).Faint(true),
		details:   r.NewStyle().Faint(true),
	}
}

// Task formats a task line.
// Format: "{ID:>4}  [{x| }] {TEXT}[  Due: {DATE}][  Category: {CAT}]\n"
func (p *Printer) Task(task service.Task) {
	mark := " "
	text := normalizeText(task.Text)
	if task.Completed {
		mark = "x"
		text = p.completed.Render(text)
	}

	line := fmt.Sprintf("%4d  [%s] %s", task.ID, mark, text)
	if d := details(task); d != "" {
		line += "  " + p.details.Render(d)
	}
	fmt.Fprintln(p.w, line)
}

// Tasks formats a list, or the NoTasks placeholder when it is empty.
func (p *Printer) Tasks(tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, NoTasks)
		return
	}
	for _, t := range tasks {
		p.Task(t)
	}
}

// Categories formats the category options, one label per line.
func (p *Printer) Categories(cats []service.Category) {
	for _, c := range cats {
		fmt.Fprintln(p.w, c.Label)
	}
}

func details(task service.Task) string {
	var parts []string
	if task.DueDate != "" {
		parts = append(parts, "Due: "+task.DueDate)
	}
	if task.Category != "" {
		parts = append(parts, "Category: "+task.Category)
	}
	return strings.Join(parts, "  ")
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
