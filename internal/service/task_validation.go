package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Task rule tags shared by create and update.
var (
	titleRule   = "required,max=" + strconv.Itoa(domain.MaxTaskTitleLength)
	dueDateRule = "required," + dateTag
	statusRule  = "oneof=" + string(domain.TaskStatusPending) + " " + string(domain.TaskStatusCompleted)
)

// CreateTaskInput holds the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// TaskPatch holds a partial update. Absent fields are left untouched.
// Description and AssignedTo may be null to clear them.
type TaskPatch struct {
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	DueDate     domain.Optional[string] `json:"due_date"`
	Status      domain.Optional[string] `json:"status"`
	AssignedTo  domain.Optional[int64]  `json:"assigned_to"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Present && !p.Description.Present && !p.DueDate.Present &&
		!p.Status.Present && !p.AssignedTo.Present
}

// taskValidator checks task input. Assignee existence requires a user lookup.
type taskValidator struct {
	rules *inputValidator
	users store.UserStore
}

// validateCreate checks every field and returns the task to persist.
// Every field is examined before a *domain.ValidationError is returned.
func (v *taskValidator) validateCreate(
	ctx context.Context,
	creatorID int64,
	input CreateTaskInput,
) (*domain.Task, error) {
	verr := domain.NewValidationError()

	title := strings.TrimSpace(input.Title)
	v.rules.Var(verr, "title", title, titleRule)

	var dueDate time.Time
	if v.rules.Var(verr, "due_date", strings.TrimSpace(input.DueDate), dueDateRule) {
		dueDate, _ = domain.ParseDate(input.DueDate)
	}

	if input.AssignedTo != nil {
		if err := v.checkAssignee(ctx, verr, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &domain.Task{
		Title:       title,
		Description: normalizeDescription(input.Description),
		DueDate:     dueDate,
		Status:      domain.TaskStatusPending,
		CreatorID:   creatorID,
		AssignedTo:  input.AssignedTo,
	}, nil
}

// applyPatch validates every present field of patch and, only if all of them
// pass, applies them to task. It returns the changed fields with their new values.
func (v *taskValidator) applyPatch(
	ctx context.Context,
	task *domain.Task,
	patch TaskPatch,
) (map[string]any, error) {
	verr := domain.NewValidationError()

	var title string
	if patch.Title.Present {
		title = strings.TrimSpace(patch.Title.Value)
		v.rules.Var(verr, "title", title, titleRule)
	}

	var dueDate time.Time
	if patch.DueDate.Present {
		raw := strings.TrimSpace(patch.DueDate.Value)
		if v.rules.Var(verr, "due_date", raw, dueDateRule) {
			dueDate, _ = domain.ParseDate(raw)
		}
	}

	var status domain.TaskStatus
	if patch.Status.Present {
		// A null status can never be stored.
		if v.rules.Var(verr, "status", patch.Status.Value, statusRule) {
			status, _ = domain.ParseTaskStatus(patch.Status.Value)
		}
	}

	if patch.AssignedTo.IsSet() {
		if err := v.checkAssignee(ctx, verr, patch.AssignedTo.Value); err != nil {
			return nil, err
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if patch.Title.Present {
		task.Title = title
		changes["title"] = title
	}
	if patch.Description.Present {
		var desc *string
		if !patch.Description.Null {
			desc = normalizeDescription(&patch.Description.Value)
		}
		task.Description = desc
		if desc == nil {
			changes["description"] = nil
		} else {
			changes["description"] = *desc
		}
	}
	if patch.DueDate.Present {
		task.DueDate = dueDate
		changes["due_date"] = dueDate.Format(domain.DateLayout)
	}
	if patch.Status.Present {
		task.Status = status
		changes["status"] = string(status)
	}
	if patch.AssignedTo.Present {
		if patch.AssignedTo.Null {
			task.AssignedTo = nil
			changes["assigned_to"] = nil
		} else {
			id := patch.AssignedTo.Value
			task.AssignedTo = &id
			changes["assigned_to"] = id
		}
	}
	return changes, nil
}

// checkAssignee records a validation message when id names no existing user.
// Lookup failures other than "not found" are returned.
func (v *taskValidator) checkAssignee(ctx context.Context, verr *domain.ValidationError, id int64) error {
	if id <= 0 {
		verr.Add("assigned_to", fieldMessage("assigned_to", "exists", ""))
		return nil
	}
	_, err := v.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		verr.Add("assigned_to", fieldMessage("assigned_to", "exists", ""))
		return nil
	}
	return err
}

// normalizeDescription trims the description; blank becomes nil.
func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// assigneeInvalid is the error reported when the store rejects an assignee
// that disappeared after validation.
func assigneeInvalid() error {
	verr := domain.NewValidationError()
	verr.Add("assigned_to", fieldMessage("assigned_to", "exists", ""))
	return verr
}
