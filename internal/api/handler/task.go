package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/v1/workspaces/{workspaceID}/projects/{projectID}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, projectID, ok := workspaceAndProject(w, r)
	if !ok {
		return
	}

	var input domain.TaskCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, workspaceID, projectID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, task)
}

// taskListResponse wraps a task page with its total matching count
type taskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int64         `json:"total"`
}

// List handles GET /api/v1/workspaces/{workspaceID}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	filter, ok := taskFilterFromQuery(w, r)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.List(r.Context(), userID, workspaceID, filter)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, taskListResponse{Tasks: tasks, Total: total})
}

// Get handles GET /api/v1/workspaces/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, taskID, ok := workspaceAndTask(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), userID, workspaceID, taskID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, task)
}

// Update handles PUT /api/v1/workspaces/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, taskID, ok := workspaceAndTask(w, r)
	if !ok {
		return
	}

	var input domain.TaskUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, workspaceID, taskID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, task)
}

// Delete handles DELETE /api/v1/workspaces/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, taskID, ok := workspaceAndTask(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, workspaceID, taskID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

func workspaceAndTask(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return uuid.Nil, uuid.Nil, false
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return uuid.Nil, uuid.Nil, false
	}
	return workspaceID, taskID, true
}

func taskFilterFromQuery(w http.ResponseWriter, r *http.Request) (domain.TaskFilter, bool) {
	q := r.URL.Query()
	limit, offset := pagination(r)

	filter := domain.TaskFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Keyword:  q.Get("keyword"),
		Limit:    limit,
		Offset:   offset,
	}

	if v := q.Get("project_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid project_id filter")
			return domain.TaskFilter{}, false
		}
		filter.ProjectID = &id
	}
	if v := q.Get("assigned_to"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid assigned_to filter")
			return domain.TaskFilter{}, false
		}
		filter.AssignedTo = &id
	}

	return filter, true
}
