package rbac

import "errors"

// Guard denial reasons. Handlers map both to the same authorization-failure
// response; the distinction exists for logging only.
var (
	ErrNoValidRole             = errors.New("no valid role in this workspace")
	ErrInsufficientPermissions = errors.New("insufficient permissions to perform this action")
)

// Authorize decides whether an actor holding role may perform an operation
// requiring every permission in required. It is a pure decision function:
// no I/O, no side effects.
func Authorize(role string, required ...Permission) error {
	if role == "" {
		return ErrNoValidRole
	}

	perms, ok := rolePermissions[role]
	if !ok || len(perms) == 0 {
		return ErrInsufficientPermissions
	}

	granted := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		granted[p] = struct{}{}
	}

	// All required permissions must be present; partial match is a failure.
	for _, p := range required {
		if _, ok := granted[p]; !ok {
			return ErrInsufficientPermissions
		}
	}

	return nil
}
