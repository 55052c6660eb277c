package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/cache"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/policy"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TaskService provides task operations on behalf of an authenticated actor.
type TaskService interface {
	// ListTasks returns the tasks visible to actor that match filters, newest first.
	// Results are memoized per actor and filter combination.
	ListTasks(ctx context.Context, actor *domain.User, filters domain.TaskFilters) ([]domain.Task, error)

	// CreateTask validates input and creates a pending task owned by actor.
	// Returns a *domain.ValidationError when any field is invalid.
	CreateTask(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error)

	// GetTask returns a task the actor may access.
	// Returns ErrTaskNotFound or ErrUnauthorized.
	GetTask(ctx context.Context, actor *domain.User, taskID int64) (*domain.Task, error)

	// UpdateTask applies a partial update to a task the actor may access.
	// Returns ErrTaskNotFound, ErrUnauthorized or a *domain.ValidationError.
	UpdateTask(ctx context.Context, actor *domain.User, taskID int64, patch TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task. Only admins and the task's creator may delete.
	// Returns ErrTaskNotFound or ErrUnauthorized.
	DeleteTask(ctx context.Context, actor *domain.User, taskID int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	validator *taskValidator
	listCache *cache.TaskListCache
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// The task and user stores are required. A nil listCache disables list
// memoization and a nil emitter disables audit events.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	listCache *cache.TaskListCache,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &ServiceError{
			Service:   "task",
			Operation: "create_service",
			Message:   "tasks cannot be nil",
		}
	}
	if users == nil {
		return nil, &ServiceError{
			Service:   "task",
			Operation: "create_service",
			Message:   "users cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		validator: &taskValidator{rules: newInputValidator(), users: users},
		listCache: listCache,
		emitter:   emitter,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	actor *domain.User,
	filters domain.TaskFilters,
) ([]domain.Task, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	key := cache.TaskListKey(actor, filters)
	if s.listCache != nil {
		tasks, hit, err := s.listCache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("task list cache read failed",
				"error", err,
				"key", key)
		}
		if hit {
			s.logger.Debug("task list served from cache",
				"key", key,
				"count", len(tasks))
			return tasks, nil
		}
	}

	query := store.TaskQuery{Status: filters.Status, Search: filters.Search}
	if !actor.IsAdmin() {
		query.MemberID = actor.ID
	}

	tasks, err := s.tasks.List(ctx, query)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"actor_id", actor.ID)
		return nil, NewServiceError("task", "list_tasks", "failed to list tasks", err)
	}

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, key, tasks); err != nil {
			s.logger.Warn("task list cache write failed",
				"error", err,
				"key", key)
		}
	}

	return tasks, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	actor *domain.User,
	input CreateTaskInput,
) (*domain.Task, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	task, err := s.validator.validateCreate(ctx, actor.ID, input)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Error("failed to validate task",
				"error", err,
				"actor_id", actor.ID)
		}
		return nil, NewServiceError("task", "create_task", "failed to validate task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) && task.AssignedTo != nil {
			return nil, assigneeInvalid()
		}
		s.logger.Error("failed to save task",
			"error", err,
			"actor_id", actor.ID)
		return nil, NewServiceError("task", "create_task", "failed to save task", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"creator_id", task.CreatorID,
		"assigned_to", task.AssigneeID())

	s.invalidate(ctx, task.CreatorID, task.AssigneeID())
	s.emit(ctx, events.NewTaskEvent(events.TaskCreated, actor.ID, task.ID, taskFields(task)))

	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, actor *domain.User, taskID int64) (*domain.Task, error) {
	return s.accessibleTask(ctx, actor, taskID, "get_task")
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	actor *domain.User,
	taskID int64,
	patch TaskPatch,
) (*domain.Task, error) {
	task, err := s.accessibleTask(ctx, actor, taskID, "update_task")
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return task, nil
	}

	previousAssignee := task.AssigneeID()
	changes, err := s.validator.applyPatch(ctx, task, patch)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Error("failed to validate task update",
				"error", err,
				"task_id", taskID)
		}
		return nil, NewServiceError("task", "update_task", "failed to validate task update", err)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) && task.AssignedTo != nil {
			return nil, assigneeInvalid()
		}
		s.logger.Error("failed to save task update",
			"error", err,
			"task_id", taskID)
		return nil, NewServiceError("task", "update_task", "failed to save task", err)
	}

	s.logger.Info("task updated",
		"task_id", task.ID,
		"updated_by", actor.ID,
		"changes", changes)

	s.invalidate(ctx, task.CreatorID, previousAssignee, task.AssigneeID())
	s.emit(ctx, events.NewTaskEvent(events.TaskUpdated, actor.ID, task.ID, changes))

	return task, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, actor *domain.User, taskID int64) error {
	if actor == nil {
		return ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task for delete",
				"error", err,
				"task_id", taskID)
		}
		return NewServiceError("task", "delete_task", "failed to retrieve task", err)
	}

	if !policy.CanDelete(actor, task) {
		s.logger.Warn("task delete denied",
			"task_id", taskID,
			"actor_id", actor.ID)
		return ErrUnauthorized
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", taskID)
		}
		return NewServiceError("task", "delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"deleted_by", actor.ID)

	s.invalidate(ctx, task.CreatorID, task.AssigneeID())
	s.emit(ctx, events.NewTaskEvent(events.TaskDeleted, actor.ID, taskID, nil))

	return nil
}

// accessibleTask loads a task and checks that actor may access it.
func (s *taskServiceImpl) accessibleTask(
	ctx context.Context,
	actor *domain.User,
	taskID int64,
	operation string,
) (*domain.Task, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID,
				"operation", operation)
		}
		return nil, NewServiceError("task", operation, "failed to retrieve task", err)
	}

	if !policy.CanAccess(actor, task) {
		s.logger.Warn("task access denied",
			"task_id", taskID,
			"actor_id", actor.ID,
			"operation", operation)
		return nil, ErrUnauthorized
	}

	return task, nil
}

// invalidate drops the listing families of the given users and of admins.
// Zero IDs are skipped. Failures are logged; entries then expire by TTL.
func (s *taskServiceImpl) invalidate(ctx context.Context, userIDs ...int64) {
	if s.listCache == nil {
		return
	}

	prefixes := make([]string, 0, len(userIDs)+1)
	for _, id := range userIDs {
		if id > 0 {
			prefixes = append(prefixes, cache.UserFamily(id))
		}
	}
	prefixes = append(prefixes, cache.AdminFamily())

	if err := s.listCache.Invalidate(ctx, prefixes...); err != nil {
		s.logger.Warn("task list cache invalidation failed",
			"error", err,
			"prefixes", prefixes)
	}
}

// emit publishes an audit event. Failures never fail the request.
func (s *taskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("failed to emit task event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID,
			"task_id", event.TaskID)
	}
}

// taskFields lists the user-supplied fields of a new task for its audit event.
func taskFields(task *domain.Task) map[string]any {
	fields := map[string]any{
		"title":    task.Title,
		"due_date": task.DueDate.Format(domain.DateLayout),
		"status":   string(task.Status),
	}
	if task.Description != nil {
		fields["description"] = *task.Description
	}
	if task.AssignedTo != nil {
		fields["assigned_to"] = *task.AssignedTo
	}
	return fields
}
