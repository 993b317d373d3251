package rbac

import "testing"

func TestPermissionsFor(t *testing.T) {
	t.Run("owner holds every permission", func(t *testing.T) {
		perms := PermissionsFor(RoleOwner)
		if len(perms) != 14 {
			t.Fatalf("owner permission count: got %d, want 14", len(perms))
		}
	})

	t.Run("admin holds everything except workspace deletion", func(t *testing.T) {
		perms := PermissionsFor(RoleAdmin)
		for _, p := range perms {
			if p == DeleteWorkspace {
				t.Fatal("admin must not hold DELETE_WORKSPACE")
			}
		}
		if len(perms) != 13 {
			t.Fatalf("admin permission count: got %d, want 13", len(perms))
		}
	})

	t.Run("member holds the minimal contributor set", func(t *testing.T) {
		perms := PermissionsFor(RoleMember)
		want := map[Permission]bool{CreateTask: true, EditTask: true, ViewOnly: true}
		if len(perms) != len(want) {
			t.Fatalf("member permission count: got %d, want %d", len(perms), len(want))
		}
		for _, p := range perms {
			if !want[p] {
				t.Errorf("unexpected member permission %q", p)
			}
		}
	})

	t.Run("unknown role resolves to nothing", func(t *testing.T) {
		if perms := PermissionsFor("SUPERUSER"); perms != nil {
			t.Errorf("unknown role permissions: got %v, want nil", perms)
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		perms := PermissionsFor(RoleMember)
		perms[0] = DeleteWorkspace

		again := PermissionsFor(RoleMember)
		if again[0] == DeleteWorkspace {
			t.Error("mutating the returned slice leaked into the registry")
		}
	})
}

func TestIsValidRole(t *testing.T) {
	for _, name := range RoleNames() {
		if !IsValidRole(name) {
			t.Errorf("IsValidRole(%q) = false, want true", name)
		}
	}
	if IsValidRole("owner") {
		t.Error("role names are case sensitive; got true for lowercase")
	}
	if IsValidRole("") {
		t.Error("empty role name must not be valid")
	}
}
