package tenancy

import (
	"context"
	"testing"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-1")
	orgID, ok := OrgIDFromContext(ctx)
	if !ok || orgID != "org-1" {
		t.Fatalf("got (%q, %v), want (org-1, true)", orgID, ok)
	}
}

func TestOrgIDMissing(t *testing.T) {
	if _, ok := OrgIDFromContext(context.Background()); ok {
		t.Fatal("expected missing org id")
	}
	if _, ok := OrgIDFromContext(WithOrgID(context.Background(), "")); ok {
		t.Fatal("empty org id should not be considered present")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"GROOMER", RoleGroomer},
		{"BATHER", RoleBather},
		{"ATTENDANT", RoleAttendant},
		{"", RoleAttendant},
		{"admin", RoleAttendant},
		{"OWNER", RoleAttendant},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisibilityAdminSeesAll(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-1")
	ctx = WithUser(ctx, "user-1", RoleAdmin)

	v, ok := VisibilityFromContext(ctx)
	if !ok {
		t.Fatal("expected visibility")
	}
	if v.OrgID != "org-1" {
		t.Errorf("OrgID = %q, want org-1", v.OrgID)
	}
	if v.AssignedToID != "" {
		t.Errorf("admin should have no assignee filter, got %q", v.AssignedToID)
	}
}

func TestVisibilityStaffScopedToAssignments(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-1")
	ctx = WithUser(ctx, "user-7", RoleGroomer)

	v, ok := VisibilityFromContext(ctx)
	if !ok {
		t.Fatal("expected visibility")
	}
	if v.AssignedToID != "user-7" {
		t.Errorf("AssignedToID = %q, want user-7", v.AssignedToID)
	}
}

func TestVisibilityRequiresOrg(t *testing.T) {
	ctx := WithUser(context.Background(), "user-7", RoleGroomer)
	if _, ok := VisibilityFromContext(ctx); ok {
		t.Fatal("visibility without org should fail")
	}
}
