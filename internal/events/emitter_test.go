package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler remembers every event it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []*TaskEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		err := emitter.EmitEvent(context.Background(), NewTaskEvent(TaskCreated, 1, 2, nil))
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event := NewTaskEvent(TaskUpdated, 1, 2, map[string]any{"status": "completed"})
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Len(t, h1.events, 1)
		require.Len(t, h2.events, 1)
		assert.Same(t, event, h1.events[0])
		assert.Same(t, event, h2.events[0])
	})

	t.Run("failing handler does not stop dispatch", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		first := errors.New("first failure")
		failing := &recordingHandler{err: first}
		alsoFailing := &recordingHandler{err: errors.New("second failure")}
		ok := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(alsoFailing)
		emitter.RegisterHandler(ok)

		err := emitter.EmitEvent(context.Background(), NewTaskEvent(TaskDeleted, 1, 2, nil))
		assert.ErrorIs(t, err, first)
		assert.Len(t, ok.events, 1)
	})

	t.Run("handler func", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		var got *TaskEvent
		emitter.RegisterHandler(HandlerFunc(func(_ context.Context, e *TaskEvent) error {
			got = e
			return nil
		}))

		event := NewTaskEvent(TaskCreated, 3, 4, nil)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Same(t, event, got)
	})
}

func TestNewTaskEvent(t *testing.T) {
	t.Parallel()

	a := NewTaskEvent(TaskCreated, 1, 10, map[string]any{"title": "x"})
	b := NewTaskEvent(TaskCreated, 1, 10, nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, TaskCreated, a.Type)
	assert.Equal(t, int64(1), a.ActorID)
	assert.Equal(t, int64(10), a.TaskID)
	assert.False(t, a.OccurredAt.IsZero())
	assert.Equal(t, "x", a.Changes["title"])
}
