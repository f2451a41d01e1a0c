// Package report collects the numerically coded messages produced while a
// phase resolves. Renderers look the id up in their own message catalogue
// and substitute Params in order.
package report

import (
	"fmt"
	"sync"
)

// Message is a single report line.
type Message struct {
	ID      int   `json:"id"`
	Subject int   `json:"subject,omitempty"` // entity id, 0 for none
	Player  int   `json:"player,omitempty"`  // owning player, 0 for none
	Public  bool  `json:"public"`
	Params  []any `json:"params,omitempty"`
	Indent  int   `json:"indent,omitempty"`
}

// New creates a public message with the given id.
func New(id int, params ...any) Message {
	return Message{ID: id, Public: true, Params: params}
}

// About creates a message concerning entity subject owned by player.
func About(id, subject, player int, params ...any) Message {
	return Message{ID: id, Subject: subject, Player: player, Public: true, Params: params}
}

// Indented returns a copy of m at the given indent level.
func (m Message) Indented(level int) Message {
	m.Indent = level
	return m
}

// Private returns a copy of m visible only to its owning player.
func (m Message) Private() Message {
	m.Public = false
	return m
}

func (m Message) String() string {
	return fmt.Sprintf("[%d] subject=%d %v", m.ID, m.Subject, m.Params)
}

// Buffer is the ordered per-phase report list. It is append-only until
// drained into the round log.
type Buffer struct {
	mu    sync.Mutex
	items []Message
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{items: make([]Message, 0)}
}

// Add appends messages.
func (b *Buffer) Add(msgs ...Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, msgs...)
}

// Len returns the number of messages.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// At returns message i. ok is false when i is out of range.
func (b *Buffer) At(i int) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.items) {
		return Message{}, false
	}
	return b.items[i], true
}

// All returns a copy of every message.
func (b *Buffer) All() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.items))
	copy(out, b.items)
	return out
}

// Drain returns all messages and empties the buffer.
func (b *Buffer) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := b.items
	b.items = make([]Message, 0, cap(result))
	return result
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = b.items[:0]
}

// Only reports whether the buffer holds nothing but placeholder-level
// content: at most one message, or two where the second is Nothing.
func (b *Buffer) Only() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) <= 1 || (len(b.items) == 2 && b.items[1].ID == Nothing)
}
