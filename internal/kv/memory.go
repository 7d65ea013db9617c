package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It records every write so tests can assert
// on persistence behavior, and can be told to fail reads or writes.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	// Writes tracks every Set call in order.
	Writes []Write

	// GetErr and SetErr, when non-nil, are returned by every Get or Set.
	GetErr error
	SetErr error
}

// Write records a single Set call.
type Write struct {
	Key   string
	Value string
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		Writes: make([]Write, 0),
	}
}

// Seed stores a value without recording a write.
func (m *Memory) Seed(key, value string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return m
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store. Failed writes are still recorded.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, Write{Key: key, Value: value})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

// WritesFor returns the recorded values written to key.
func (m *Memory) WritesFor(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, w := range m.Writes {
		if w.Key == key {
			out = append(out, w.Value)
		}
	}
	return out
}

// Reset clears values, recorded writes and injected errors.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	m.Writes = make([]Write, 0)
	m.GetErr = nil
	m.SetErr = nil
}
