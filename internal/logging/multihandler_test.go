package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("graylog unreachable")
}

func TestMultiHandler(t *testing.T) {
	t.Run("fans out and skips nil", func(t *testing.T) {
		var buf1, buf2 bytes.Buffer
		multi := NewMultiHandler(nil, slog.NewTextHandler(&buf1, nil), slog.NewTextHandler(&buf2, nil))
		require.Len(t, multi.handlers, 2)

		slog.New(multi).Info("fanned out")
		assert.Contains(t, buf1.String(), "fanned out")
		assert.Contains(t, buf2.String(), "fanned out")
	})

	t.Run("enabled if any handler is", func(t *testing.T) {
		info := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
		debug := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

		assert.False(t, NewMultiHandler(info).Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, NewMultiHandler(info, debug).Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("attrs and groups", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))

		slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "heat")})).WithGroup("unit").Info("x", "id", 4)
		assert.Contains(t, buf.String(), "component=heat")
		assert.Contains(t, buf.String(), "unit.id=4")
		assert.Equal(t, multi, multi.WithGroup(""))
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&buf, nil))
		slog.New(multi).Info("should reach spy")
		assert.Contains(t, buf.String(), "should reach spy")

		err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "again", 0))
		assert.ErrorContains(t, err, "graylog unreachable")
	})
}
