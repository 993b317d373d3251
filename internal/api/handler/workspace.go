package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create handles POST /api/v1/workspaces
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles GET /api/v1/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaces, err := h.workspaceService.ListByUser(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Get handles GET /api/v1/workspaces/{workspaceID}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	workspace, err := h.workspaceService.GetByID(r.Context(), userID, workspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Update handles PUT /api/v1/workspaces/{workspaceID}
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.WorkspaceUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Update(r.Context(), userID, workspaceID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete handles DELETE /api/v1/workspaces/{workspaceID}
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	if err := h.workspaceService.Delete(r.Context(), userID, workspaceID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// Analytics handles GET /api/v1/workspaces/{workspaceID}/analytics
func (h *WorkspaceHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	analytics, err := h.workspaceService.Analytics(r.Context(), userID, workspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, analytics)
}

// Join handles POST /api/v1/member/workspace/{inviteCode}/join
func (h *WorkspaceHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	inviteCode := chi.URLParam(r, "inviteCode")
	if inviteCode == "" {
		response.BadRequest(w, "missing invite code")
		return
	}

	workspace, err := h.workspaceService.Join(r.Context(), userID, inviteCode)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, workspace)
}
