package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caramelohq/grooming-platform/internal/database"
)

var (
	// ErrNotFound is returned when the user does not exist in the org.
	ErrNotFound = errors.New("staff: not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	// Emails are unique across all organizations.
	ErrDuplicateEmail = errors.New("staff: email already registered")
)

// Repository provides persistence for staff users.
type Repository struct {
	db database.DB
}

// NewRepository creates a staff repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("staff: db required")
	}
	return &Repository{db: db}
}

const userColumns = `id, organization_id, name, email, role, active, created_at, updated_at`

// Create inserts a pending staff user. The identity link is filled in when
// the person first signs in through the auth provider.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, in Input) (*User, error) {
	var exists bool
	dupQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRow(ctx, dupQuery, in.Email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("staff: duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	query := `
		INSERT INTO users (id, organization_id, name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, uuid.New(), orgID, in.Name, in.Email, in.Role))
}

// GetByID loads one user scoped to the org.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND organization_id = $2`
	return scanUser(r.db.QueryRow(ctx, query, id, orgID))
}

// List returns the organization's staff.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("staff: list: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update changes name and role. Email is immutable once created.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, name string, role string) (*User, error) {
	query := `
		UPDATE users
		SET name = $3, role = $4, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, orgID, name, role))
}

// Deactivate disables sign-in and hides the user from assignment lists.
func (r *Repository) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET active = FALSE, updated_at = now() WHERE id = $1 AND organization_id = $2`,
		id, orgID)
	if err != nil {
		return fmt.Errorf("staff: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("staff: scan: %w", err)
	}
	return &u, nil
}
