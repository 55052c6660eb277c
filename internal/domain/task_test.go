package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"pending", "completed"} {
		status, err := ParseTaskStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TaskStatus(s), status)
	}

	for _, s := range []string{"", "done", "PENDING", "in_progress"} {
		_, err := ParseTaskStatus(s)
		assert.ErrorIs(t, err, ErrInvalidTaskStatus, s)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"calendar date", "2025-03-14"},
		{"rfc3339", "2025-03-14T10:30:00Z"},
		{"rfc3339 with offset", "2025-03-14T23:30:00-05:00"},
		{"rfc3339 nano", "2025-03-14T10:30:00.123456Z"},
		{"local timestamp", "2025-03-14T10:30:00"},
		{"sql timestamp", "2025-03-14 10:30:00"},
		{"surrounding spaces", " 2025-03-14 "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "not-a-date", "2025-13-01", "2025-02-30", "14/03/2025"} {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}

func TestTaskAssignee(t *testing.T) {
	t.Parallel()

	task := Task{ID: 1, CreatorID: 10}
	assert.False(t, task.IsAssignedTo(10))
	assert.Equal(t, int64(0), task.AssigneeID())

	assignee := int64(20)
	task.AssignedTo = &assignee
	assert.True(t, task.IsAssignedTo(20))
	assert.False(t, task.IsAssignedTo(10))
	assert.Equal(t, int64(20), task.AssigneeID())
}

func TestTaskJSON(t *testing.T) {
	t.Parallel()

	task := Task{
		ID:        3,
		Title:     "Write report",
		DueDate:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Status:    TaskStatusPending,
		CreatorID: 1,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["description"])
	assert.Nil(t, decoded["assigned_to"])
	assert.Equal(t, "pending", decoded["status"])

	var roundTrip Task
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, task, roundTrip)
}
