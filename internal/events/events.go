package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task event types
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent records a mutation of a task by an actor.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of TaskCreated, TaskUpdated or TaskDeleted
	Type string `json:"type"`

	ActorID int64 `json:"actor_id"`
	TaskID  int64 `json:"task_id"`

	// Changes maps changed field names to their new values.
	// Empty for deletions.
	Changes map[string]any `json:"changes,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent stamped with a new ID and the current time.
func NewTaskEvent(eventType string, actorID, taskID int64, changes map[string]any) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		ActorID:    actorID,
		TaskID:     taskID,
		Changes:    changes,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
