// Package store persists the district lookup history.
package store

import (
	"context"
	"sync"

	"rotunda/internal/district/models"
)

// DefaultCapacity is the number of entries kept by the in-memory history.
const DefaultCapacity = 100

// InMemoryHistory keeps the most recent lookups in a fixed-size ring.
type InMemoryHistory struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	next    int
	full    bool
}

// NewInMemoryHistory creates a ring holding capacity entries.
func NewInMemoryHistory(capacity int) *InMemoryHistory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryHistory{entries: make([]models.HistoryEntry, capacity)}
}

// Record stores entry, overwriting the oldest once the ring is full.
func (h *InMemoryHistory) Record(_ context.Context, entry models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = entry
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (h *InMemoryHistory) Recent(_ context.Context, limit int) ([]models.HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	size := h.next
	if h.full {
		size = len(h.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]models.HistoryEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out, nil
}
