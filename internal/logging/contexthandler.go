package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// ContextProvider is a function that returns dynamic context attributes.
type ContextProvider func() []slog.Attr

// ContextHandler wraps another handler and injects dynamic context attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds dynamic context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds dynamic context attributes and delegates to the inner handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner:    h.inner.WithAttrs(attrs),
		provider: h.provider,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner:    h.inner.WithGroup(name),
		provider: h.provider,
	}
}

// Position is the round and phase the game is in. The worker updates it
// after every command; log records read it from any goroutine.
type Position struct {
	round atomic.Int64
	phase atomic.Pointer[string]
}

// Set records the current round and phase.
func (p *Position) Set(round int, phase string) {
	p.round.Store(int64(round))
	p.phase.Store(&phase)
}

// Attrs is a ContextProvider. Nothing is added before the first Set.
func (p *Position) Attrs() []slog.Attr {
	phase := p.phase.Load()
	if phase == nil {
		return nil
	}
	return []slog.Attr{
		slog.Int64("round", p.round.Load()),
		slog.String("phase", *phase),
	}
}
