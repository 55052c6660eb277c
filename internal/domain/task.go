package domain

import (
	"strings"
	"time"
)

// TaskStatus represents where a task is in its lifecycle.
// Both transitions, pending to completed and back, are permitted.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// MaxTaskTitleLength is the maximum number of characters in a task title.
const MaxTaskTitleLength = 255

// DateLayout is the wire and storage format of a task due date.
const DateLayout = "2006-01-02"

// acceptedDateLayouts lists the formats ParseDate understands, most specific last.
var acceptedDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTaskStatus converts a string into a TaskStatus, rejecting unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusCompleted:
		return TaskStatus(s), nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

// ParseDate parses a due date given either as a calendar date ("2006-01-02")
// or as a timestamp. The result is truncated to midnight UTC of the calendar
// day written in the input.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range acceptedDateLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Task is a unit of work created by one user and optionally assigned to another.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     time.Time  `json:"due_date"`
	Status      TaskStatus `json:"status"`
	CreatorID   int64      `json:"creator_id"`
	AssignedTo  *int64     `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsAssignedTo reports whether the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// AssigneeID returns the assignee's ID, or 0 when the task is unassigned.
func (t *Task) AssigneeID() int64 {
	if t.AssignedTo == nil {
		return 0
	}
	return *t.AssignedTo
}

// TaskFilters narrows a task listing. Empty fields are not applied.
type TaskFilters struct {
	Status string
	Search string
}
