package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /api/v1/workspaces/{workspaceID}/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.ProjectCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, workspaceID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, project)
}

// List handles GET /api/v1/workspaces/{workspaceID}/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	limit, offset := pagination(r)
	projects, err := h.projectService.List(r.Context(), userID, workspaceID, limit, offset)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, projects)
}

// Get handles GET /api/v1/workspaces/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, projectID, ok := workspaceAndProject(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), userID, workspaceID, projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, project)
}

// Update handles PUT /api/v1/workspaces/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, projectID, ok := workspaceAndProject(w, r)
	if !ok {
		return
	}

	var input domain.ProjectUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	project, err := h.projectService.Update(r.Context(), userID, workspaceID, projectID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, project)
}

// Delete handles DELETE /api/v1/workspaces/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, projectID, ok := workspaceAndProject(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), userID, workspaceID, projectID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// Analytics handles GET /api/v1/workspaces/{workspaceID}/projects/{projectID}/analytics
func (h *ProjectHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, projectID, ok := workspaceAndProject(w, r)
	if !ok {
		return
	}

	analytics, err := h.projectService.Analytics(r.Context(), userID, workspaceID, projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, analytics)
}

func workspaceAndProject(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return uuid.Nil, uuid.Nil, false
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return uuid.Nil, uuid.Nil, false
	}
	return workspaceID, projectID, true
}

// pagination reads limit/offset query params with sane defaults
func pagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
