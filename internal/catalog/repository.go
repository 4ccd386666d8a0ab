package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caramelohq/grooming-platform/internal/database"
)

// ErrNotFound is returned when the service does not exist in the org.
var ErrNotFound = errors.New("catalog: not found")

// Repository provides persistence for the service catalog.
type Repository struct {
	db database.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("catalog: db required")
	}
	return &Repository{db: db}
}

const serviceColumns = `id, organization_id, name, description, active,
	price_mini_cents, price_small_cents, price_medium_cents, price_large_cents, price_giant_cents,
	duration_mini_minutes, duration_small_minutes, duration_medium_minutes, duration_large_minutes, duration_giant_minutes,
	created_at, updated_at`

// Create inserts a service with duration defaults filled in.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, in Input) (*Service, error) {
	in.applyDefaults()
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	query := `
		INSERT INTO services (id, organization_id, name, description, active,
			price_mini_cents, price_small_cents, price_medium_cents, price_large_cents, price_giant_cents,
			duration_mini_minutes, duration_small_minutes, duration_medium_minutes, duration_large_minutes, duration_giant_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + serviceColumns
	row := r.db.QueryRow(ctx, query, uuid.New(), orgID, in.Name, in.Description, active,
		in.Prices.Mini, in.Prices.Small, in.Prices.Medium, in.Prices.Large, in.Prices.Giant,
		in.Durations.Mini, in.Durations.Small, in.Durations.Medium, in.Durations.Large, in.Durations.Giant)
	return scanService(row)
}

// GetByID loads one service scoped to the org.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND organization_id = $2`
	return scanService(r.db.QueryRow(ctx, query, id, orgID))
}

// List returns the organization's services; activeOnly hides deactivated ones.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE organization_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

// Update applies the editable fields.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, in Input) (*Service, error) {
	in.applyDefaults()
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	query := `
		UPDATE services
		SET name = $3, description = $4, active = $5,
			price_mini_cents = $6, price_small_cents = $7, price_medium_cents = $8,
			price_large_cents = $9, price_giant_cents = $10,
			duration_mini_minutes = $11, duration_small_minutes = $12, duration_medium_minutes = $13,
			duration_large_minutes = $14, duration_giant_minutes = $15,
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + serviceColumns
	row := r.db.QueryRow(ctx, query, id, orgID, in.Name, in.Description, active,
		in.Prices.Mini, in.Prices.Small, in.Prices.Medium, in.Prices.Large, in.Prices.Giant,
		in.Durations.Mini, in.Durations.Small, in.Durations.Medium, in.Durations.Large, in.Durations.Giant)
	return scanService(row)
}

// Deactivate hides a service from booking without destroying history.
func (r *Repository) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE services SET active = FALSE, updated_at = now() WHERE id = $1 AND organization_id = $2`,
		id, orgID)
	if err != nil {
		return fmt.Errorf("catalog: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.Description, &s.Active,
		&s.Prices.Mini, &s.Prices.Small, &s.Prices.Medium, &s.Prices.Large, &s.Prices.Giant,
		&s.Durations.Mini, &s.Durations.Small, &s.Durations.Medium, &s.Durations.Large, &s.Durations.Giant,
		&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: scan: %w", err)
	}
	return &s, nil
}
