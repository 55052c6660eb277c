package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory for testing.
// It applies the same visibility, status and search rules as the Postgres
// store and counts List calls so tests can observe cache hits.
type MockTaskStore struct {
	// Errors returned by the default implementation when set
	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	ListError   error

	// ListCalls counts List invocations.
	ListCalls int
	// LastQuery is the query passed to the most recent List call.
	LastQuery store.TaskQuery

	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64
	now    func() time.Time
}

// NewMockTaskStore creates an empty mock store.
func NewMockTaskStore(tasks ...domain.Task) *MockTaskStore {
	m := &MockTaskStore{
		tasks: make(map[int64]domain.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, t := range tasks {
		if t.ID > m.nextID {
			m.nextID = t.ID
		}
		m.tasks[t.ID] = t
	}
	return m
}

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	task.ID = m.nextID
	now := m.now()
	task.CreatedAt, task.UpdatedAt = now, now
	m.tasks[task.ID] = cloneTask(*task)
	return nil
}

// GetByID implements store.TaskStore
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := cloneTask(task)
	return &cp, nil
}

// Update implements store.TaskStore
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	task.UpdatedAt = m.now()
	m.tasks[task.ID] = cloneTask(*task)
	return nil
}

// Delete implements store.TaskStore
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// List implements store.TaskStore
func (m *MockTaskStore) List(ctx context.Context, q store.TaskQuery) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	m.LastQuery = q
	if m.ListError != nil {
		return nil, m.ListError
	}

	search := strings.ToLower(q.Search)
	result := []domain.Task{}
	for _, t := range m.tasks {
		if q.MemberID != 0 && t.CreatorID != q.MemberID && !t.IsAssignedTo(q.MemberID) {
			continue
		}
		if q.Status != "" && string(t.Status) != q.Status {
			continue
		}
		if search != "" {
			inTitle := strings.Contains(strings.ToLower(t.Title), search)
			inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), search)
			if !inTitle && !inDesc {
				continue
			}
		}
		result = append(result, cloneTask(t))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// cloneTask copies the pointer fields so callers cannot mutate stored state.
func cloneTask(t domain.Task) domain.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.AssignedTo != nil {
		a := *t.AssignedTo
		t.AssignedTo = &a
	}
	return t
}

var _ store.TaskStore = (*MockTaskStore)(nil)
