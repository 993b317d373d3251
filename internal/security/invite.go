package security

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateInviteCode returns an 8-character lowercase invite token derived
// from a random UUID with the dashes stripped. No uniqueness retry loop;
// the store's unique index on invite_code surfaces the rare collision.
func GenerateInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// GenerateTaskCode returns a short human-readable task identifier like
// TASK-3F9A2C.
func GenerateTaskCode() string {
	return "TASK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
