package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a remote list does not exist.
var ErrNotFound = errors.New("not found")

// FakeRemote is an in-memory implementation of service.Remote for testing.
type FakeRemote struct {
	mu     sync.RWMutex
	lists  []service.TaskList
	pushed map[string][]service.Task // listID -> tasks

	// Error injection for testing
	EnsureListErr error
	PushTaskErr   error
}

// NewFakeRemote creates a FakeRemote with no lists.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{pushed: make(map[string][]service.Task)}
}

// AddList adds a list to the fake remote.
func (f *FakeRemote) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
}

// Lists returns the lists on the fake remote.
func (f *FakeRemote) Lists() []service.TaskList {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result
}

// Pushed returns the tasks pushed to a list.
func (f *FakeRemote) Pushed(listID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.pushed[listID]...)
}

// EnsureList implements service.Remote.
func (f *FakeRemote) EnsureList(ctx context.Context, title string) (service.TaskList, error) {
	if f.EnsureListErr != nil {
		return service.TaskList{}, f.EnsureListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	want := strings.ToLower(strings.TrimSpace(title))
	for _, l := range f.lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == want {
			return l, nil
		}
	}

	list := service.TaskList{ID: fmt.Sprintf("list-%d", len(f.lists)+1), Title: title}
	f.lists = append(f.lists, list)
	return list, nil
}

// PushTask implements service.Remote.
func (f *FakeRemote) PushTask(ctx context.Context, listID string, task service.Task) error {
	if f.PushTaskErr != nil {
		return f.PushTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.lists {
		if l.ID == listID {
			f.pushed[listID] = append(f.pushed[listID], task)
			return nil
		}
	}
	return ErrNotFound
}
