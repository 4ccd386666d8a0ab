package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caramelohq/grooming-platform/internal/database"
)

var (
	// ErrNotFound is returned when the client does not exist in the org.
	ErrNotFound = errors.New("clients: not found")
	// ErrDuplicatePhone is returned when another client in the org already
	// uses the phone number.
	ErrDuplicatePhone = errors.New("clients: phone already registered")
)

// Repository provides persistence for clients.
type Repository struct {
	db database.DB
}

// NewRepository creates a clients repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("clients: db required")
	}
	return &Repository{db: db}
}

const clientColumns = `c.id, c.organization_id, c.name, c.phone, c.email, c.cpf, c.address, c.notes,
	(SELECT COUNT(*) FROM pets p WHERE p.client_id = c.id) AS pet_count,
	c.created_at, c.updated_at`

// Create inserts a client, rejecting duplicate phones within the org.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, in Input) (*Client, error) {
	var exists bool
	dupQuery := `SELECT EXISTS(SELECT 1 FROM clients WHERE organization_id = $1 AND phone = $2)`
	if err := r.db.QueryRow(ctx, dupQuery, orgID, in.Phone).Scan(&exists); err != nil {
		return nil, fmt.Errorf("clients: duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePhone
	}

	query := `
		INSERT INTO clients (id, organization_id, name, phone, email, cpf, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, name, phone, email, cpf, address, notes, 0, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, uuid.New(), orgID, in.Name, in.Phone, in.Email, in.CPF, in.Address, in.Notes)
	return scanClient(row)
}

// GetByID loads one client scoped to the org.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.id = $1 AND c.organization_id = $2`
	return scanClient(r.db.QueryRow(ctx, query, id, orgID))
}

// List returns clients for the organization, newest first. search filters by
// name or phone prefix.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, search string) ([]*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.organization_id = $1`
	args := []any{orgID}
	if search != "" {
		query += ` AND (c.name ILIKE $2 OR c.phone LIKE $2)`
		args = append(args, search+"%")
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var out []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies the editable fields, preserving the duplicate-phone rule.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, in Input) (*Client, error) {
	var exists bool
	dupQuery := `
		SELECT EXISTS(
			SELECT 1 FROM clients
			WHERE organization_id = $1 AND phone = $2 AND id <> $3
		)
	`
	if err := r.db.QueryRow(ctx, dupQuery, orgID, in.Phone, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("clients: duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePhone
	}

	query := `
		UPDATE clients
		SET name = $3, phone = $4, email = $5, cpf = $6, address = $7, notes = $8, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING id, organization_id, name, phone, email, cpf, address, notes, 0, created_at, updated_at
	`
	return scanClient(r.db.QueryRow(ctx, query, id, orgID, in.Name, in.Phone, in.Email, in.CPF, in.Address, in.Notes))
}

// Delete removes a client without appointments. Clients with history are kept.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	var count int64
	countQuery := `SELECT COUNT(*) FROM appointments WHERE client_id = $1 AND organization_id = $2`
	if err := r.db.QueryRow(ctx, countQuery, id, orgID).Scan(&count); err != nil {
		return fmt.Errorf("clients: appointment count: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("clients: cannot delete client with %d appointments", count)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Phone, &c.Email, &c.CPF, &c.Address, &c.Notes, &c.PetCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("clients: scan: %w", err)
	}
	return &c, nil
}
