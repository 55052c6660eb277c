package api

import (
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler handles the /api/tasks resource.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks handles GET /api/tasks?status=&search=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := domain.TaskFilters{
		Status: query.Get("status"),
		Search: query.Get("search"),
	}

	tasks, err := h.tasks.ListTasks(r.Context(), actor, filters)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req service.CreateTaskInput
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), actor, req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), actor, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT and PATCH /api/tasks/{id}. Both apply a partial update.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndTaskID(w, r)
	if !ok {
		return
	}

	var patch service.TaskPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), actor, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), actor, taskID); err != nil {
		message := ""
		if MapErrorToStatusCode(err) == http.StatusForbidden {
			message = "Only admin or task owner can delete"
		}
		HandleAPIError(w, r, err, message)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
