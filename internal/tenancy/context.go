package tenancy

import "context"

type ctxKey string

const (
	orgKey  ctxKey = "grooming.org_id"
	userKey ctxKey = "grooming.user_id"
	roleKey ctxKey = "grooming.role"
)

// Role is the staff role attached to the authenticated user.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleGroomer   Role = "GROOMER"
	RoleBather    Role = "BATHER"
	RoleAttendant Role = "ATTENDANT"
)

// ParseRole maps a stored role string onto a known Role, defaulting to ATTENDANT.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleGroomer, RoleBather, RoleAttendant:
		return Role(s)
	default:
		return RoleAttendant
	}
}

// WithOrgID stores the org id in context.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgKey, orgID)
}

// OrgIDFromContext extracts the org id if present.
func OrgIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(orgKey)
	if val == nil {
		return "", false
	}
	orgID, ok := val.(string)
	return orgID, ok && orgID != ""
}

// WithUser stores the authenticated user id and role in context.
func WithUser(ctx context.Context, userID string, role Role) context.Context {
	ctx = context.WithValue(ctx, userKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext extracts the user id if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// RoleFromContext extracts the role, defaulting to ATTENDANT when absent.
func RoleFromContext(ctx context.Context) Role {
	val := ctx.Value(roleKey)
	if val == nil {
		return RoleAttendant
	}
	role, ok := val.(Role)
	if !ok {
		return RoleAttendant
	}
	return role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func IsAdmin(ctx context.Context) bool {
	return RoleFromContext(ctx) == RoleAdmin
}

// Visibility scopes read queries. Admins see every appointment in the org;
// other roles only see appointments assigned to them.
type Visibility struct {
	OrgID string
	// AssignedToID is empty for admins (no assignee filter).
	AssignedToID string
}

// VisibilityFromContext derives the read scope for the current caller.
// This is the single place the role-based filter is decided.
func VisibilityFromContext(ctx context.Context) (Visibility, bool) {
	orgID, ok := OrgIDFromContext(ctx)
	if !ok {
		return Visibility{}, false
	}
	v := Visibility{OrgID: orgID}
	if !IsAdmin(ctx) {
		if userID, ok := UserIDFromContext(ctx); ok {
			v.AssignedToID = userID
		}
	}
	return v, true
}
