package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetCurrent handles GET /api/v1/users/current
func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.userService.GetCurrent(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, user)
}

// UpdateCurrent handles PUT /api/v1/users/current
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.UserUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.userService.UpdateCurrent(r.Context(), userID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, user)
}

type setCurrentWorkspaceRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
}

// SetCurrentWorkspace handles PUT /api/v1/users/current/workspace
func (h *UserHandler) SetCurrentWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input setCurrentWorkspaceRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.userService.SetCurrentWorkspace(r.Context(), userID, input.WorkspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, user)
}
