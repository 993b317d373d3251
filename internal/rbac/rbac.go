// Package rbac defines the role and permission vocabulary and the single
// authorization chokepoint used by every privileged operation.
package rbac

// Permission is an atomic capability gating one class of operation.
// The string values are wire-stable and shared with the client.
type Permission string

const (
	CreateWorkspace         Permission = "CREATE_WORKSPACE"
	DeleteWorkspace         Permission = "DELETE_WORKSPACE"
	EditWorkspace           Permission = "EDIT_WORKSPACE"
	ManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"

	AddMember        Permission = "ADD_MEMBER"
	ChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	RemoveMember     Permission = "REMOVE_MEMBER"

	CreateProject Permission = "CREATE_PROJECT"
	EditProject   Permission = "EDIT_PROJECT"
	DeleteProject Permission = "DELETE_PROJECT"

	CreateTask Permission = "CREATE_TASK"
	EditTask   Permission = "EDIT_TASK"
	DeleteTask Permission = "DELETE_TASK"

	ViewOnly Permission = "VIEW_ONLY"
)

// Role names
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// rolePermissions is the process-wide registry mapping each role to its
// grants. It is initialized once and never mutated at runtime; changing a
// role's grants is a deployment-time decision.
var rolePermissions = map[string][]Permission{
	RoleOwner: {
		CreateWorkspace,
		DeleteWorkspace,
		EditWorkspace,
		ManageWorkspaceSettings,
		AddMember,
		ChangeMemberRole,
		RemoveMember,
		CreateProject,
		EditProject,
		DeleteProject,
		CreateTask,
		EditTask,
		DeleteTask,
		ViewOnly,
	},
	RoleAdmin: {
		CreateWorkspace,
		EditWorkspace,
		ManageWorkspaceSettings,
		AddMember,
		ChangeMemberRole,
		RemoveMember,
		CreateProject,
		EditProject,
		DeleteProject,
		CreateTask,
		EditTask,
		DeleteTask,
		ViewOnly,
	},
	RoleMember: {
		CreateTask,
		EditTask,
		ViewOnly,
	},
}

// RoleNames returns the closed set of role names in seeding order.
func RoleNames() []string {
	return []string{RoleOwner, RoleAdmin, RoleMember}
}

// PermissionsFor returns the permission set for a role name. Unknown roles
// resolve to an empty set so callers fail closed.
func PermissionsFor(role string) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// IsValidRole reports whether name is one of the known role names.
func IsValidRole(name string) bool {
	_, ok := rolePermissions[name]
	return ok
}
