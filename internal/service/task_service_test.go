package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/cache"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin    = &domain.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	alice    = &domain.User{ID: 2, Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember}
	bob      = &domain.User{ID: 3, Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember}
	carol    = &domain.User{ID: 4, Name: "Carol", Email: "carol@example.com", Role: domain.RoleMember}
	someDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []*events.TaskEvent
}

func (r *recorder) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) all() []*events.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.TaskEvent(nil), r.events...)
}

type fixture struct {
	svc    service.TaskService
	tasks  *mocks.MockTaskStore
	store  *cache.MemoryStore
	cache  *cache.TaskListCache
	events *recorder
}

func newFixture(t *testing.T, tasks ...domain.Task) *fixture {
	t.Helper()

	log := logger.NewTestLogger(t)
	taskStore := mocks.NewMockTaskStore(tasks...)
	userStore := mocks.NewMockUserStore(
		&domain.User{ID: admin.ID, Email: admin.Email, Role: admin.Role},
		&domain.User{ID: alice.ID, Email: alice.Email, Role: alice.Role},
		&domain.User{ID: bob.ID, Email: bob.Email, Role: bob.Role},
		&domain.User{ID: carol.ID, Email: carol.Email, Role: carol.Role},
	)
	memory := cache.NewMemoryStore()
	listCache := cache.NewTaskListCache(memory, time.Minute)
	rec := &recorder{}
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(rec)

	svc, err := service.NewTaskService(taskStore, userStore, listCache, emitter, log)
	require.NoError(t, err)

	return &fixture{svc: svc, tasks: taskStore, store: memory, cache: listCache, events: rec}
}

func task(id int64, creator int64, assignee *int64, title string, status domain.TaskStatus) domain.Task {
	return domain.Task{
		ID:         id,
		Title:      title,
		DueDate:    someDate,
		Status:     status,
		CreatorID:  creator,
		AssignedTo: assignee,
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestNewTaskService_RequiresStores(t *testing.T) {
	t.Parallel()

	_, err := service.NewTaskService(nil, mocks.NewMockUserStore(), nil, nil, nil)
	require.Error(t, err)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)

	_, err = service.NewTaskService(mocks.NewMockTaskStore(), nil, nil, nil, nil)
	require.Error(t, err)

	svc, err := service.NewTaskService(mocks.NewMockTaskStore(), mocks.NewMockUserStore(), nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestListTasks_Visibility(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		task(1, alice.ID, nil, "alice own", domain.TaskStatusPending),
		task(2, bob.ID, ptr(alice.ID), "assigned to alice", domain.TaskStatusPending),
		task(3, bob.ID, nil, "bob own", domain.TaskStatusCompleted),
	)
	ctx := context.Background()

	t.Run("member sees created and assigned tasks newest first", func(t *testing.T) {
		got, err := f.svc.ListTasks(ctx, alice, domain.TaskFilters{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	})

	t.Run("admin sees every task", func(t *testing.T) {
		got, err := f.svc.ListTasks(ctx, admin, domain.TaskFilters{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
		assert.Equal(t, int64(0), f.tasks.LastQuery.MemberID)
	})

	t.Run("member with no tasks gets an empty list", func(t *testing.T) {
		got, err := f.svc.ListTasks(ctx, carol, domain.TaskFilters{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("nil actor is rejected", func(t *testing.T) {
		_, err := f.svc.ListTasks(ctx, nil, domain.TaskFilters{})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestListTasks_Filters(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		task(1, bob.ID, nil, "Write report", domain.TaskStatusPending),
		task(2, bob.ID, nil, "Review report", domain.TaskStatusCompleted),
		task(3, bob.ID, nil, "Plan sprint", domain.TaskStatusCompleted),
	)
	ctx := context.Background()

	got, err := f.svc.ListTasks(ctx, bob, domain.TaskFilters{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)

	got, err = f.svc.ListTasks(ctx, bob, domain.TaskFilters{Status: "completed", Search: "REPORT"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Equal(t, store.TaskQuery{MemberID: bob.ID, Status: "completed", Search: "REPORT"}, f.tasks.LastQuery)
}

func TestListTasks_ServesFromCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, alice.ID, nil, "first", domain.TaskStatusPending))
	ctx := context.Background()

	first, err := f.svc.ListTasks(ctx, alice, domain.TaskFilters{})
	require.NoError(t, err)
	second, err := f.svc.ListTasks(ctx, alice, domain.TaskFilters{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.tasks.ListCalls)
	assert.Equal(t, first, second)

	// A different filter combination is a different entry.
	_, err = f.svc.ListTasks(ctx, alice, domain.TaskFilters{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tasks.ListCalls)

	key := cache.TaskListKey(alice, domain.TaskFilters{})
	cached, hit, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, cached, 1)
}

func TestListTasks_AdminFilteredKeysAreDistinct(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		task(1, alice.ID, nil, "pending one", domain.TaskStatusPending),
		task(2, bob.ID, nil, "done one", domain.TaskStatusCompleted),
	)
	ctx := context.Background()

	all, err := f.svc.ListTasks(ctx, admin, domain.TaskFilters{})
	require.NoError(t, err)
	completed, err := f.svc.ListTasks(ctx, admin, domain.TaskFilters{Status: "completed"})
	require.NoError(t, err)

	assert.Len(t, all, 2)
	require.Len(t, completed, 1)
	assert.Equal(t, int64(2), completed[0].ID)
}

func TestListTasks_CacheFailureFallsBackToStore(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger(t)
	tasks := mocks.NewMockTaskStore(task(1, alice.ID, nil, "t", domain.TaskStatusPending))
	broken := cache.NewTaskListCache(brokenStore{}, time.Minute)
	svc, err := service.NewTaskService(tasks, mocks.NewMockUserStore(), broken, nil, log)
	require.NoError(t, err)

	got, err := svc.ListTasks(context.Background(), alice, domain.TaskFilters{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListTasks_StoreError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.tasks.ListError = errors.New("connection reset")

	_, err := f.svc.ListTasks(context.Background(), alice, domain.TaskFilters{})
	require.Error(t, err)
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list_tasks", svcErr.Operation)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, alice, service.CreateTaskInput{
		Title:       "  Write tests  ",
		Description: ptr("cover the service"),
		DueDate:     "2025-03-01",
		AssignedTo:  ptr(bob.ID),
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Write tests", created.Title)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.Equal(t, alice.ID, created.CreatorID)
	require.NotNil(t, created.AssignedTo)
	assert.Equal(t, bob.ID, *created.AssignedTo)
	assert.Equal(t, someDate, created.DueDate)

	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TaskCreated, evs[0].Type)
	assert.Equal(t, alice.ID, evs[0].ActorID)
	assert.Equal(t, created.ID, evs[0].TaskID)
	assert.Equal(t, "Write tests", evs[0].Changes["title"])
	assert.Equal(t, "2025-03-01", evs[0].Changes["due_date"])
}

func TestCreateTask_BlankDescriptionIsNil(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	created, err := f.svc.CreateTask(context.Background(), alice, service.CreateTaskInput{
		Title:       "t",
		Description: ptr("   "),
		DueDate:     "2025-03-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Nil(t, created.Description)
	assert.Nil(t, created.AssignedTo)
}

func TestCreateTask_Validation(t *testing.T) {
	t.Parallel()

	long := make([]rune, 256)
	for i := range long {
		long[i] = 'é'
	}

	tests := []struct {
		name   string
		input  service.CreateTaskInput
		fields map[string][]string
	}{
		{
			name:  "missing everything",
			input: service.CreateTaskInput{},
			fields: map[string][]string{
				"title":    {"The title field is required."},
				"due_date": {"The due date field is required."},
			},
		},
		{
			name:  "whitespace title",
			input: service.CreateTaskInput{Title: "   ", DueDate: "2025-03-01"},
			fields: map[string][]string{
				"title": {"The title field is required."},
			},
		},
		{
			name:  "title too long",
			input: service.CreateTaskInput{Title: string(long), DueDate: "2025-03-01"},
			fields: map[string][]string{
				"title": {"The title field must not be greater than 255 characters."},
			},
		},
		{
			name:  "bad date and unknown assignee",
			input: service.CreateTaskInput{Title: "t", DueDate: "next tuesday", AssignedTo: ptr(int64(999))},
			fields: map[string][]string{
				"due_date":    {"The due date field must be a valid date."},
				"assigned_to": {"The selected assigned to is invalid."},
			},
		},
		{
			name:  "non-positive assignee",
			input: service.CreateTaskInput{Title: "t", DueDate: "2025-03-01", AssignedTo: ptr(int64(0))},
			fields: map[string][]string{
				"assigned_to": {"The selected assigned to is invalid."},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			_, err := f.svc.CreateTask(context.Background(), alice, tc.input)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tc.fields, validationFields(t, err))
			assert.Zero(t, f.tasks.Len())
			assert.Empty(t, f.events.all())
		})
	}
}

func TestCreateTask_TitleAtLimit(t *testing.T) {
	t.Parallel()

	title := make([]rune, domain.MaxTaskTitleLength)
	for i := range title {
		title[i] = 'x'
	}

	f := newFixture(t)
	_, err := f.svc.CreateTask(context.Background(), alice, service.CreateTaskInput{
		Title:   string(title),
		DueDate: "2025-03-01",
	})
	assert.NoError(t, err)
}

func TestCreateTask_InvalidatesCreatorAssigneeAndAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, carol.ID, nil, "carol", domain.TaskStatusPending))
	ctx := context.Background()

	// Warm a filtered entry for each affected family and one bystander.
	_, err := f.svc.ListTasks(ctx, alice, domain.TaskFilters{Status: "pending", Search: "x"})
	require.NoError(t, err)
	_, err = f.svc.ListTasks(ctx, bob, domain.TaskFilters{})
	require.NoError(t, err)
	_, err = f.svc.ListTasks(ctx, admin, domain.TaskFilters{Search: "carol"})
	require.NoError(t, err)
	_, err = f.svc.ListTasks(ctx, carol, domain.TaskFilters{})
	require.NoError(t, err)
	require.Equal(t, 4, f.store.Len())

	_, err = f.svc.CreateTask(ctx, alice, service.CreateTaskInput{
		Title:      "new",
		DueDate:    "2025-03-01",
		AssignedTo: ptr(bob.ID),
	})
	require.NoError(t, err)

	// Only carol's entry survives.
	assert.Equal(t, 1, f.store.Len())
	_, hit, err := f.cache.Get(ctx, cache.TaskListKey(carol, domain.TaskFilters{}))
	require.NoError(t, err)
	assert.True(t, hit)

	// The next listing reflects the new task.
	got, err := f.svc.ListTasks(ctx, bob, domain.TaskFilters{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateTask_AssigneeRemovedConcurrently(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.tasks.CreateError = store.ErrInvalidEntity

	_, err := f.svc.CreateTask(context.Background(), alice, service.CreateTaskInput{
		Title:      "t",
		DueDate:    "2025-03-01",
		AssignedTo: ptr(bob.ID),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, validationFields(t, err), "assigned_to")
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		task(1, alice.ID, ptr(bob.ID), "shared", domain.TaskStatusPending),
	)
	ctx := context.Background()

	for _, actor := range []*domain.User{admin, alice, bob} {
		got, err := f.svc.GetTask(ctx, actor, 1)
		require.NoError(t, err, "actor %d", actor.ID)
		assert.Equal(t, int64(1), got.ID)
	}

	_, err := f.svc.GetTask(ctx, carol, 1)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = f.svc.GetTask(ctx, admin, 42)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, alice.ID, ptr(bob.ID), "old", domain.TaskStatusPending))
	ctx := context.Background()

	updated, err := f.svc.UpdateTask(ctx, bob, 1, service.TaskPatch{
		Title:  domain.Some("new title"),
		Status: domain.Some("completed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.AssignedTo, "absent fields are untouched")
	assert.Equal(t, bob.ID, *updated.AssignedTo)

	stored, err := f.tasks.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new title", stored.Title)

	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TaskUpdated, evs[0].Type)
	assert.Equal(t, bob.ID, evs[0].ActorID)
	assert.Equal(t, map[string]any{"title": "new title", "status": "completed"}, evs[0].Changes)

	// And back again.
	updated, err = f.svc.UpdateTask(ctx, alice, 1, service.TaskPatch{Status: domain.Some("pending")})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, updated.Status)
}

func TestUpdateTask_ClearsNullableFields(t *testing.T) {
	t.Parallel()

	existing := task(1, alice.ID, ptr(bob.ID), "t", domain.TaskStatusPending)
	existing.Description = ptr("details")
	f := newFixture(t, existing)

	updated, err := f.svc.UpdateTask(context.Background(), alice, 1, service.TaskPatch{
		Description: domain.Null[string](),
		AssignedTo:  domain.Null[int64](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.AssignedTo)

	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, map[string]any{"description": nil, "assigned_to": nil}, evs[0].Changes)
}

func TestUpdateTask_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		patch  service.TaskPatch
		fields map[string][]string
	}{
		{
			name:   "null title",
			patch:  service.TaskPatch{Title: domain.Null[string]()},
			fields: map[string][]string{"title": {"The title field is required."}},
		},
		{
			name:   "empty due date",
			patch:  service.TaskPatch{DueDate: domain.Some("")},
			fields: map[string][]string{"due_date": {"The due date field is required."}},
		},
		{
			name:   "unknown status",
			patch:  service.TaskPatch{Status: domain.Some("archived")},
			fields: map[string][]string{"status": {"The selected status is invalid."}},
		},
		{
			name:   "null status",
			patch:  service.TaskPatch{Status: domain.Null[string]()},
			fields: map[string][]string{"status": {"The selected status is invalid."}},
		},
		{
			name: "every bad field is reported and nothing changes",
			patch: service.TaskPatch{
				Title:      domain.Some("fine"),
				DueDate:    domain.Some("31/31/2025"),
				AssignedTo: domain.Some(int64(999)),
			},
			fields: map[string][]string{
				"due_date":    {"The due date field must be a valid date."},
				"assigned_to": {"The selected assigned to is invalid."},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, task(1, alice.ID, nil, "original", domain.TaskStatusPending))
			_, err := f.svc.UpdateTask(context.Background(), alice, 1, tc.patch)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tc.fields, validationFields(t, err))

			stored, err := f.tasks.GetByID(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, "original", stored.Title)
			assert.Empty(t, f.events.all())
		})
	}
}

func TestUpdateTask_AccessAndExistence(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, alice.ID, nil, "t", domain.TaskStatusPending))
	ctx := context.Background()

	_, err := f.svc.UpdateTask(ctx, bob, 1, service.TaskPatch{Title: domain.Some("x")})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = f.svc.UpdateTask(ctx, alice, 7, service.TaskPatch{Title: domain.Some("x")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	// Not-found wins over validation.
	_, err = f.svc.UpdateTask(ctx, alice, 7, service.TaskPatch{Title: domain.Null[string]()})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestUpdateTask_EmptyPatchHasNoSideEffects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, alice.ID, nil, "t", domain.TaskStatusPending))
	ctx := context.Background()
	_, err := f.svc.ListTasks(ctx, alice, domain.TaskFilters{})
	require.NoError(t, err)

	got, err := f.svc.UpdateTask(ctx, alice, 1, service.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Empty(t, f.events.all())
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdateTask_InvalidatesPreviousAndNewAssignee(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task(1, alice.ID, ptr(bob.ID), "t", domain.TaskStatusPending))
	ctx := context.Background()

	for _, u := range []*domain.User{alice, bob, carol, admin} {
		_, err := f.svc.ListTasks(ctx, u, domain.TaskFilters{})
		require.NoError(t, err)
	}
	require.Equal(t, 4, f.store.Len())

	_, err := f.svc.UpdateTask(ctx, alice, 1, service.TaskPatch{AssignedTo: domain.Some(carol.ID)})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Len())

	bobs, err := f.svc.ListTasks(ctx, bob, domain.TaskFilters{})
	require.NoError(t, err)
	assert.Empty(t, bobs)

	carols, err := f.svc.ListTasks(ctx, carol, domain.TaskFilters{})
	require.NoError(t, err)
	assert.Len(t, carols, 1)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creator deletes", func(t *testing.T) {
		f := newFixture(t, task(1, alice.ID, ptr(bob.ID), "t", domain.TaskStatusPending))
		require.NoError(t, f.svc.DeleteTask(ctx, alice, 1))
		assert.Zero(t, f.tasks.Len())

		evs := f.events.all()
		require.Len(t, evs, 1)
		assert.Equal(t, events.TaskDeleted, evs[0].Type)
		assert.Equal(t, int64(1), evs[0].TaskID)
		assert.Empty(t, evs[0].Changes)
	})

	t.Run("admin deletes", func(t *testing.T) {
		f := newFixture(t, task(1, alice.ID, nil, "t", domain.TaskStatusPending))
		require.NoError(t, f.svc.DeleteTask(ctx, admin, 1))
	})

	t.Run("assignee may not delete", func(t *testing.T) {
		f := newFixture(t, task(1, alice.ID, ptr(bob.ID), "t", domain.TaskStatusPending))
		err := f.svc.DeleteTask(ctx, bob, 1)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, 1, f.tasks.Len())
		assert.Empty(t, f.events.all())
	})

	t.Run("missing task", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.svc.DeleteTask(ctx, admin, 5), service.ErrTaskNotFound)
	})

	t.Run("invalidates admin family", func(t *testing.T) {
		f := newFixture(t, task(1, alice.ID, nil, "t", domain.TaskStatusPending))
		_, err := f.svc.ListTasks(ctx, admin, domain.TaskFilters{})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTask(ctx, alice, 1))

		_, hit, err := f.cache.Get(ctx, cache.TaskListKey(admin, domain.TaskFilters{}))
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestDeleteTask_StoreFailure(t *testing.T) {
	t.Parallel()

	tasks := &mocks.TestifyMockTaskStore{}
	existing := task(9, alice.ID, nil, "t", domain.TaskStatusPending)
	tasks.On("GetByID", mock.Anything, int64(9)).Return(&existing, nil)
	tasks.On("Delete", mock.Anything, int64(9)).Return(errors.New("disk full"))

	svc, err := service.NewTaskService(tasks, mocks.NewMockUserStore(), nil, nil, logger.NewTestLogger(t))
	require.NoError(t, err)

	err = svc.DeleteTask(context.Background(), alice, 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrTaskNotFound)
	tasks.AssertExpectations(t)
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.HandlerFunc(func(context.Context, *events.TaskEvent) error {
		return errors.New("audit sink down")
	}))

	svc, err := service.NewTaskService(
		mocks.NewMockTaskStore(), mocks.NewMockUserStore(), nil, emitter, log)
	require.NoError(t, err)

	_, err = svc.CreateTask(context.Background(), alice, service.CreateTaskInput{
		Title:   "t",
		DueDate: "2025-03-01",
	})
	assert.NoError(t, err)
}

// brokenStore fails every cache operation.
type brokenStore struct{}

var errBroken = errors.New("cache unavailable")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errBroken }
func (brokenStore) Delete(context.Context, ...string) error { return errBroken }
func (brokenStore) DeletePrefix(context.Context, string) error { return errBroken }
