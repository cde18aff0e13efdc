package service

import "context"

// Service is the task list state manager the commands operate on.
// Mutating operations persist the full list before returning; on a
// persistence failure the in-memory list is left as it was.
type Service interface {
	// Tasks returns a copy of the canonical task sequence.
	Tasks() []Task

	// Get returns the task with the given id.
	Get(id int) (Task, error)

	// Add validates and appends a new, incomplete task.
	// Returns *ValidationError naming every missing field.
	Add(ctx context.Context, text, dueDate, category string) (Task, error)

	// Edit replaces the fields set in e.
	Edit(ctx context.Context, id int, e Edit) (Task, error)

	// Toggle flips the completed flag.
	Toggle(ctx context.Context, id int) (Task, error)

	// MarkDone sets the completed flag.
	MarkDone(ctx context.Context, id int) (Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id int) (Task, error)

	// Categories returns the distinct categories followed by AllCategory.
	Categories() []Category

	// View returns a filtered and sorted copy; the canonical list is untouched.
	View(f Filter) []Task

	// Sort reorders the canonical list and persists the new order.
	Sort(ctx context.Context, order Order) error

	// Import adds tasks under fresh ids, replacing the list when replace is set.
	Import(ctx context.Context, tasks []Task, replace bool) (int, error)

	// Close releases the underlying storage.
	Close() error
}

// Remote publishes tasks to an external task service.
// Commands never import a remote SDK directly.
type Remote interface {
	// EnsureList finds a list by title (case-insensitive, trimmed),
	// creating it when missing.
	EnsureList(ctx context.Context, title string) (TaskList, error)

	// PushTask creates a task in the given list.
	PushTask(ctx context.Context, listID string, task Task) error
}
