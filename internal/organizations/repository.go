package organizations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caramelohq/grooming-platform/internal/database"
)

// ErrNotFound is returned when no organization matches the query.
var ErrNotFound = errors.New("organizations: not found")

// Repository provides persistence for organizations and their memberships.
type Repository struct {
	db database.DB
}

// NewRepository creates a repository over the shared persistence port.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("organizations: db required")
	}
	return &Repository{db: db}
}

// GetByID loads one organization.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	query := `
		SELECT id, name, email, phone, address, business_hours, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// MembershipForIdentity resolves the auth-provider identity to an existing
// org membership, or ErrNotFound for first-time callers.
func (r *Repository) MembershipForIdentity(ctx context.Context, identityID string) (*Membership, error) {
	query := `
		SELECT u.organization_id, u.id, u.role
		FROM users u
		WHERE u.identity_id = $1 AND u.active
	`
	var m Membership
	err := r.db.QueryRow(ctx, query, identityID).Scan(&m.OrgID, &m.UserID, &m.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organizations: membership lookup: %w", err)
	}
	return &m, nil
}

// Provision creates an organization together with its first admin user in a
// single transaction. Used on first login.
func (r *Repository) Provision(ctx context.Context, identity Identity) (*Membership, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("organizations: begin provision: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orgID := uuid.New()
	userID := uuid.New()
	name := identity.Name
	if name == "" {
		name = identity.Email
	}

	hours, err := json.Marshal(DefaultBusinessHours())
	if err != nil {
		return nil, fmt.Errorf("organizations: marshal default hours: %w", err)
	}

	insertOrg := `
		INSERT INTO organizations (id, name, email, identity_id, business_hours)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insertOrg, orgID, name, identity.Email, identity.ID, hours); err != nil {
		return nil, fmt.Errorf("organizations: insert org: %w", err)
	}

	insertUser := `
		INSERT INTO users (id, organization_id, identity_id, name, email, role)
		VALUES ($1, $2, $3, $4, $5, 'ADMIN')
	`
	if _, err := tx.Exec(ctx, insertUser, userID, orgID, identity.ID, name, identity.Email); err != nil {
		return nil, fmt.Errorf("organizations: insert admin user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("organizations: commit provision: %w", err)
	}
	return &Membership{OrgID: orgID, UserID: userID, Role: "ADMIN"}, nil
}

// UpdateSettings persists the editable organization fields.
type UpdateSettings struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	BusinessHours BusinessHours `json:"business_hours"`
}

// Update applies settings changes and returns the stored organization.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateSettings) (*Organization, error) {
	hours, err := json.Marshal(in.BusinessHours)
	if err != nil {
		return nil, fmt.Errorf("organizations: marshal hours: %w", err)
	}
	query := `
		UPDATE organizations
		SET name = $2, email = $3, phone = $4, address = $5, business_hours = $6, updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, phone, address, business_hours, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id, in.Name, in.Email, in.Phone, in.Address, hours))
}

func (r *Repository) scanOne(row pgx.Row) (*Organization, error) {
	var org Organization
	var hours []byte
	var createdAt, updatedAt time.Time
	err := row.Scan(&org.ID, &org.Name, &org.Email, &org.Phone, &org.Address, &hours, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organizations: scan: %w", err)
	}
	org.CreatedAt = createdAt
	org.UpdatedAt = updatedAt
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &org.BusinessHours); err != nil {
			return nil, fmt.Errorf("organizations: decode business hours: %w", err)
		}
	}
	if org.BusinessHours == nil {
		org.BusinessHours = DefaultBusinessHours()
	}
	return &org, nil
}
