// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/kv"
)

// FakeKV is an in-memory kv.Store with error injection and write counting.
type FakeKV struct {
	*kv.Memory

	mu   sync.Mutex
	sets int

	// Error injection for testing. SetErr fails every write; KeyErrs
	// fails writes to the listed keys only.
	GetErr  error
	SetErr  error
	KeyErrs map[string]error
}

// NewFakeKV creates an empty FakeKV.
func NewFakeKV() *FakeKV {
	return &FakeKV{Memory: kv.NewMemory()}
}

// Seed stores a raw value without counting it as a write.
func (f *FakeKV) Seed(key, value string) {
	f.Memory.Set(context.Background(), key, value)
}

// Raw returns the stored value, or "" if unset.
func (f *FakeKV) Raw(key string) string {
	v, _ := f.Memory.Get(context.Background(), key)
	return v
}

// Sets returns the number of successful Set and Delete calls.
func (f *FakeKV) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// Get implements kv.Store.
func (f *FakeKV) Get(ctx context.Context, key string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	return f.Memory.Get(ctx, key)
}

// Set implements kv.Store.
func (f *FakeKV) Set(ctx context.Context, key, value string) error {
	if err := f.writeErr(key); err != nil {
		return err
	}
	f.count()
	return f.Memory.Set(ctx, key, value)
}

// Delete implements kv.Store.
func (f *FakeKV) Delete(ctx context.Context, key string) error {
	if err := f.writeErr(key); err != nil {
		return err
	}
	f.count()
	return f.Memory.Delete(ctx, key)
}

func (f *FakeKV) writeErr(key string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.KeyErrs[key]
}

func (f *FakeKV) count() {
	f.mu.Lock()
	f.sets++
	f.mu.Unlock()
}
