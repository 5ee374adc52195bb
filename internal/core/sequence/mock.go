package sequence

import (
	"context"
	"sync"

	"restock/internal/core/busday"
)

// MockAllocator is a test implementation of Allocator backed by an in-memory
// per-scope counter. Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	// NextFunc overrides the default behavior when set.
	NextFunc func(ctx context.Context, branchCode string, kind Kind, day busday.Day) (int, error)

	mu       sync.Mutex
	counters map[string]int
}

// NewMockAllocator creates an empty in-memory allocator.
func NewMockAllocator() *MockAllocator {
	return &MockAllocator{counters: make(map[string]int)}
}

// Next implements Allocator.
func (m *MockAllocator) Next(ctx context.Context, branchCode string, kind Kind, day busday.Day) (int, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, branchCode, kind, day)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int)
	}
	key := branchCode + "|" + string(kind) + "|" + day.Compact()
	m.counters[key]++
	return m.counters[key], nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
