package rbac_test

import (
	"testing"

	"github.com/crewline/crewline/internal/rbac"
)

var ordered = []rbac.Role{
	rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleDispatcher, rbac.RoleTech, rbac.RoleViewer,
}

func TestHasPermission_TotalOrder(t *testing.T) {
	t.Parallel()

	for i, actual := range ordered {
		for j, required := range ordered {
			want := i <= j // earlier in the list outranks later
			if got := rbac.HasPermission(actual, required); got != want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", actual, required, got, want)
			}
		}
	}
}

func TestHasPermission_UnknownRoleSatisfiesNothing(t *testing.T) {
	t.Parallel()

	for _, required := range ordered {
		if rbac.HasPermission("superuser", required) {
			t.Errorf("unknown role should not satisfy %s", required)
		}
	}

	if rbac.HasPermission("", rbac.RoleViewer) {
		t.Error("empty role should not satisfy viewer")
	}
}

func TestHasPermission_UnknownRequiredRole(t *testing.T) {
	t.Parallel()

	// An unranked requirement sits below viewer, so any known role meets it.
	if !rbac.HasPermission(rbac.RoleViewer, "superuser") {
		t.Error("viewer should satisfy an unranked requirement")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]rbac.Role{
		"owner":      rbac.RoleOwner,
		"dispatcher": rbac.RoleDispatcher,
		"viewer":     rbac.RoleViewer,
		"":           rbac.RoleViewer,
		"superuser":  rbac.RoleViewer,
	}

	for in, want := range cases {
		if got := rbac.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %s, want %s", in, got, want)
		}
	}
}
