// Package store implements the task list state manager: the in-memory task
// sequence, its synchronization with a key-value store, and derived views.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/kv"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/view"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "tasks"

// Options configures a TaskStore.
type Options struct {
	// Key is the fixed storage key. Defaults to DefaultKey.
	Key string

	// Blank is config.BlankKeep or config.BlankClear.
	Blank string

	// Dates selects due-date comparison for sorting.
	Dates view.DateMode

	Logger *log.Logger
}

// OptionsFromConfig maps configuration onto store options.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) Options {
	return Options{
		Key:    cfg.Storage.Key,
		Blank:  cfg.Edit.Blank,
		Dates:  view.DateMode(cfg.Sort.Dates),
		Logger: logger,
	}
}

// TaskStore owns the task list. It is not safe for concurrent use; a single
// command drives it for the life of the process.
type TaskStore struct {
	kv     kv.Store
	opts   Options
	log    *log.Logger
	tasks  []service.Task
	nextID int
}

var _ service.Service = (*TaskStore)(nil)

// Open creates a TaskStore over s and loads the persisted list.
func Open(ctx context.Context, s kv.Store, opts Options) (*TaskStore, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Blank == "" {
		opts.Blank = config.BlankKeep
	}
	if opts.Dates == "" {
		opts.Dates = view.DatesCalendar
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ts := &TaskStore{kv: s, opts: opts, log: logger}
	if err := ts.Load(ctx); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TaskStore) seqKey() string {
	return s.opts.Key + ":seq"
}

// Load replaces the in-memory list with the persisted one. An absent or
// unparseable value yields an empty list; only storage errors are returned.
func (s *TaskStore) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, s.opts.Key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		raw = ""
	case err != nil:
		return fmt.Errorf("load tasks: %w", err)
	}

	var tasks []service.Task
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
			s.log.Debug("discarding unreadable task list", "key", s.opts.Key, "err", err)
			tasks = nil
		}
	}

	seq := 0
	if rawSeq, err := s.kv.Get(ctx, s.seqKey()); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(rawSeq)); err == nil {
			seq = n
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.tasks, s.nextID = assignIDs(tasks, seq)
	s.log.Debug("loaded tasks", "key", s.opts.Key, "count", len(s.tasks), "next_id", s.nextID)
	return nil
}

// assignIDs gives every task without a usable id (missing or duplicate) a
// fresh one and returns the next id to hand out.
func assignIDs(tasks []service.Task, seq int) ([]service.Task, int) {
	next := seq
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if next < 1 {
		next = 1
	}

	seen := make(map[int]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID <= 0 || seen[tasks[i].ID] {
			tasks[i].ID = next
			next++
		}
		seen[tasks[i].ID] = true
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, next
}

// mutate applies fn to the list and persists the result. If fn or the
// write fails, the list and id counter are restored.
func (s *TaskStore) mutate(ctx context.Context, op string, fn func() error) error {
	saved := clone(s.tasks)
	savedNext := s.nextID

	if err := fn(); err != nil {
		s.tasks, s.nextID = saved, savedNext
		return err
	}
	if err := s.persist(ctx); err != nil {
		s.tasks, s.nextID = saved, savedNext
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("persisted tasks", "op", op, "count", len(s.tasks))
	return nil
}

// persist writes the id counter, then the list. The list write is the
// commit point: a counter left ahead of the list is absorbed by assignIDs.
// An empty list is stored as an absent key.
func (s *TaskStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, s.seqKey(), strconv.Itoa(s.nextID)); err != nil {
		return err
	}
	if len(s.tasks) == 0 {
		return s.kv.Delete(ctx, s.opts.Key)
	}
	return s.kv.Set(ctx, s.opts.Key, string(data))
}

func clone(tasks []service.Task) []service.Task {
	result := make([]service.Task, len(tasks))
	copy(result, tasks)
	return result
}

func (s *TaskStore) index(id int) (int, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", service.ErrNotFound, id)
}

// Tasks returns a copy of the canonical sequence.
func (s *TaskStore) Tasks() []service.Task {
	return clone(s.tasks)
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id int) (service.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return service.Task{}, err
	}
	return s.tasks[i], nil
}

// Add validates all three fields together and appends a new task.
func (s *TaskStore) Add(ctx context.Context, text, dueDate, category string) (service.Task, error) {
	text = strings.TrimSpace(text)
	dueDate = strings.TrimSpace(dueDate)
	category = strings.TrimSpace(category)

	var missing []string
	if text == "" {
		missing = append(missing, service.FieldText)
	}
	if dueDate == "" {
		missing = append(missing, service.FieldDueDate)
	}
	if category == "" {
		missing = append(missing, service.FieldCategory)
	}
	if len(missing) > 0 {
		return service.Task{}, &service.ValidationError{Missing: missing}
	}

	var task service.Task
	err := s.mutate(ctx, "add", func() error {
		task = service.Task{
			ID:       s.nextID,
			Text:     text,
			DueDate:  dueDate,
			Category: category,
		}
		s.nextID++
		s.tasks = append(s.tasks, task)
		return nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Edit replaces the fields set in e. A blank text never replaces the
// current text; a blank due date or category is cleared only under the
// clear policy.
func (s *TaskStore) Edit(ctx context.Context, id int, e service.Edit) (service.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return service.Task{}, err
	}

	err = s.mutate(ctx, "edit", func() error {
		t := &s.tasks[i]
		if e.Text != nil {
			if v := strings.TrimSpace(*e.Text); v != "" {
				t.Text = v
			}
		}
		t.DueDate = s.applyBlank(t.DueDate, e.DueDate)
		t.Category = s.applyBlank(t.Category, e.Category)
		return nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return s.tasks[i], nil
}

func (s *TaskStore) applyBlank(current string, v *string) string {
	if v == nil {
		return current
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" && s.opts.Blank != config.BlankClear {
		return current
	}
	return trimmed
}

// Toggle flips the completed flag.
func (s *TaskStore) Toggle(ctx context.Context, id int) (service.Task, error) {
	return s.setCompleted(ctx, "toggle", id, func(done bool) bool { return !done })
}

// MarkDone sets the completed flag.
func (s *TaskStore) MarkDone(ctx context.Context, id int) (service.Task, error) {
	return s.setCompleted(ctx, "done", id, func(bool) bool { return true })
}

func (s *TaskStore) setCompleted(ctx context.Context, op string, id int, next func(bool) bool) (service.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return service.Task{}, err
	}
	err = s.mutate(ctx, op, func() error {
		s.tasks[i].Completed = next(s.tasks[i].Completed)
		return nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return s.tasks[i], nil
}

// Delete removes a task; later tasks shift down one position.
func (s *TaskStore) Delete(ctx context.Context, id int) (service.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return service.Task{}, err
	}
	deleted := s.tasks[i]
	err = s.mutate(ctx, "delete", func() error {
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return deleted, nil
}

// Categories returns the distinct categories followed by the All sentinel.
func (s *TaskStore) Categories() []service.Category {
	return view.Categories(s.tasks)
}

// View returns a filtered, sorted copy of the list.
func (s *TaskStore) View(f service.Filter) []service.Task {
	return view.Apply(s.tasks, f, s.opts.Dates)
}

// Sort reorders the canonical list and persists it.
func (s *TaskStore) Sort(ctx context.Context, order service.Order) error {
	if order == service.OrderNone {
		return nil
	}
	return s.mutate(ctx, "sort", func() error {
		view.Sort(s.tasks, order, s.opts.Dates)
		return nil
	})
}

// Import appends tasks under fresh ids, or replaces the list when replace
// is set. Text is required; the other fields are taken as given.
func (s *TaskStore) Import(ctx context.Context, tasks []service.Task, replace bool) (int, error) {
	for i, t := range tasks {
		if strings.TrimSpace(t.Text) == "" {
			return 0, &service.ValidationError{Missing: []string{fmt.Sprintf("%s (entry %d)", service.FieldText, i+1)}}
		}
	}

	err := s.mutate(ctx, "import", func() error {
		if replace {
			s.tasks = s.tasks[:0:0]
		}
		for _, t := range tasks {
			t.ID = s.nextID
			t.Text = strings.TrimSpace(t.Text)
			s.nextID++
			s.tasks = append(s.tasks, t)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// Close closes the underlying key-value store.
func (s *TaskStore) Close() error {
	return s.kv.Close()
}
