package access

import (
	"errors"
	"testing"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

func TestAuthorize_Exhaustive(t *testing.T) {
	roleSets := [][]domain.Role{
		{domain.RoleAdministrator},
		{domain.RoleVeterinarian},
		{domain.RoleStaff},
		{domain.RoleAdministrator, domain.RoleVeterinarian},
		{domain.RoleVeterinarian, domain.RoleStaff},
		{domain.RoleAdministrator, domain.RoleVeterinarian, domain.RoleStaff},
	}
	sessions := []*domain.SessionIdentity{nil}
	for _, r := range append(domain.Roles(), domain.Role("Administrator"), domain.Role("")) {
		sessions = append(sessions, &domain.SessionIdentity{Username: "u", Role: r})
	}

	for _, allowed := range roleSets {
		for _, s := range sessions {
			want := false
			if s != nil {
				for _, r := range allowed {
					if r == s.Role {
						want = true
					}
				}
			}
			got := Authorize(s, allowed)
			if got.Allowed != want {
				t.Fatalf("Authorize(%+v, %v) = %v, want %v", s, allowed, got.Allowed, want)
			}
			if !want && !errors.Is(got.Err(), domain.ErrForbidden) {
				t.Fatalf("denial must wrap ErrForbidden, got %v", got.Err())
			}
			if want && got.Err() != nil {
				t.Fatalf("allow must not carry an error, got %v", got.Err())
			}
		}
	}
}

func TestAuthorize_Reasons(t *testing.T) {
	if d := Authorize(nil, []domain.Role{domain.RoleStaff}); d.Reason != ReasonUnauthenticated {
		t.Fatalf("expected unauthenticated, got %q", d.Reason)
	}
	s := &domain.SessionIdentity{Username: "ana", Role: domain.RoleStaff}
	if d := Authorize(s, []domain.Role{domain.RoleAdministrator}); d.Reason != ReasonInsufficientRole {
		t.Fatalf("expected insufficient_role, got %q", d.Reason)
	}
}

func TestAuthorize_NoHierarchy(t *testing.T) {
	admin := &domain.SessionIdentity{Username: "root", Role: domain.RoleAdministrator}
	if err := Check(admin, ActionRecordClinicalVisit).Err(); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("administrator must not record visits, got %v", err)
	}
}

func TestCheck_ManageUsers(t *testing.T) {
	staff := &domain.SessionIdentity{Username: "ana", Role: domain.RoleStaff}
	if err := Check(staff, ActionManageUsers).Err(); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("staff must be forbidden, got %v", err)
	}
	admin := &domain.SessionIdentity{Username: "root", Role: domain.RoleAdministrator}
	if err := Check(admin, ActionManageUsers).Err(); err != nil {
		t.Fatalf("administrator must be allowed, got %v", err)
	}
}

func TestCheck_UnknownActionDenied(t *testing.T) {
	admin := &domain.SessionIdentity{Username: "root", Role: domain.RoleAdministrator}
	if err := Check(admin, Action("launch-rockets")).Err(); err == nil {
		t.Fatalf("unknown action must be denied")
	}
	if len(policy["launch-rockets"]) != 0 {
		t.Fatalf("unknown action must have no roles")
	}
}

func TestPolicy_ConfiguredActions(t *testing.T) {
	cases := map[Action][]domain.Role{
		ActionRegisterUser:        {domain.RoleAdministrator},
		ActionManageProducts:      {domain.RoleAdministrator},
		ActionRecordClinicalVisit: {domain.RoleVeterinarian},
		ActionManageUsers:         {domain.RoleAdministrator},
	}
	for action, want := range cases {
		got := policy[action]
		if len(got) != len(want) {
			t.Fatalf("%s: expected %v, got %v", action, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: expected %v, got %v", action, want, got)
			}
		}
	}
}

func TestPolicy_EveryActionUsesKnownRoles(t *testing.T) {
	for action, roles := range policy {
		if len(roles) == 0 {
			t.Fatalf("%s has no roles", action)
		}
		for _, r := range roles {
			if !r.Valid() {
				t.Fatalf("%s lists unknown role %q", action, r)
			}
		}
	}
}
