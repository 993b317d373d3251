package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
	"github.com/workpulse/workpulse/internal/service"
)

// MemberHandler handles workspace member endpoints
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List handles GET /api/v1/workspaces/{workspaceID}/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	members, err := h.memberService.List(r.Context(), userID, workspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, members)
}

// ChangeRole handles PUT /api/v1/workspaces/{workspaceID}/members/role
func (h *MemberHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.ChangeRole
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.memberService.ChangeRole(r.Context(), userID, workspaceID, input); err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "role updated"})
}

// Remove handles DELETE /api/v1/workspaces/{workspaceID}/members/{memberUserID}
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	memberUserID, err := uuid.Parse(chi.URLParam(r, "memberUserID"))
	if err != nil {
		response.BadRequest(w, "invalid member user ID")
		return
	}

	if err := h.memberService.Remove(r.Context(), userID, workspaceID, memberUserID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// Reconcile handles POST /api/v1/workspaces/{workspaceID}/members/reconcile.
// It runs the global membership repair sweep; the caller must hold
// MANAGE_WORKSPACE_SETTINGS in the workspace they invoke it from.
func (h *MemberHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	if _, err := h.memberService.Authorize(r.Context(), userID, workspaceID, rbac.ManageWorkspaceSettings); err != nil {
		serviceError(w, err)
		return
	}

	report, err := h.memberService.ReconcileAll(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, report)
}
