// Package queue holds records waiting for a batched database write.
package queue

import "sync"

// Batch collects records between flushes. It is safe for concurrent use.
type Batch[T any] struct {
	mu      sync.Mutex
	pending []T
}

// New creates an empty batch.
func New[T any]() *Batch[T] {
	return &Batch[T]{}
}

// Add appends records.
func (b *Batch[T]) Add(items ...T) {
	b.mu.Lock()
	b.pending = append(b.pending, items...)
	b.mu.Unlock()
}

// Take removes and returns everything collected so far, oldest first.
func (b *Batch[T]) Take() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Return puts records from a failed write back ahead of anything added
// since they were taken.
func (b *Batch[T]) Return(items []T) {
	if len(items) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(items[:len(items):len(items)], b.pending...)
}

// Len returns the number of records waiting.
func (b *Batch[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
