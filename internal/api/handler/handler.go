package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
)

var validate = validator.New()

// decodeAndValidate decodes the request body into dst and runs validation.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.BadRequest(w, validationMessages(err))
		return false
	}
	return true
}

func validationMessages(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	messages := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		messages[fe.Field()] = validationMessage(fe)
	}
	return messages
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "invalid value"
	}
}

// serviceError maps domain errors to HTTP responses. Authorization failures
// of every kind collapse into one generic 403 so a caller cannot tell a
// missing membership from a missing permission.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAMember),
		errors.Is(err, rbac.ErrNoValidRole),
		errors.Is(err, rbac.ErrInsufficientPermissions):
		response.Forbidden(w, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		response.NotFound(w, "workspace not found")
	case errors.Is(err, domain.ErrProjectNotFound):
		response.NotFound(w, "project not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		response.NotFound(w, "task not found")
	case errors.Is(err, domain.ErrRoleNotFound):
		response.NotFound(w, "role not found")
	case errors.Is(err, domain.ErrInvalidInviteCode):
		response.NotFound(w, "invalid invite code")
	case errors.Is(err, domain.ErrOwnerImmutable):
		response.BadRequest(w, "the workspace owner's role cannot be changed or removed")
	case errors.Is(err, domain.ErrAssigneeNotMember):
		response.BadRequest(w, "assignee is not a member of this workspace")
	case errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(w, "an account with this email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, "invalid credentials")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		response.InternalError(w, "internal server error")
	}
}
