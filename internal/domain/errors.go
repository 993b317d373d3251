package domain

import "errors"

// Sentinel errors returned by services. Handlers translate these to HTTP
// responses with errors.Is; the wrapped storage error stays out of the
// response body.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrRoleNotFound      = errors.New("role not found")

	ErrNotAMember        = errors.New("user is not a member of this workspace")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrOwnerImmutable    = errors.New("the workspace owner's role cannot be changed or removed")
	ErrAssigneeNotMember = errors.New("assignee is not a member of this workspace")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
