package pets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caramelohq/grooming-platform/internal/database"
)

// ErrNotFound is returned when the pet does not exist in the org.
var ErrNotFound = errors.New("pets: not found")

// Repository provides persistence for pets.
type Repository struct {
	db database.DB
}

// NewRepository creates a pets repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("pets: db required")
	}
	return &Repository{db: db}
}

const petColumns = `id, organization_id, client_id, name, species, size, breed, weight, birth_date,
	gender, color, medical_notes, behavior_notes, photo_url, created_at, updated_at`

// Create inserts a pet after checking the client belongs to the org.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, in Input) (*Pet, error) {
	var clientOK bool
	ownerQuery := `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1 AND organization_id = $2)`
	if err := r.db.QueryRow(ctx, ownerQuery, in.ClientID, orgID).Scan(&clientOK); err != nil {
		return nil, fmt.Errorf("pets: owner check: %w", err)
	}
	if !clientOK {
		return nil, ErrNotFound
	}

	query := `
		INSERT INTO pets (id, organization_id, client_id, name, species, size, breed, weight,
			birth_date, gender, color, medical_notes, behavior_notes, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + petColumns
	row := r.db.QueryRow(ctx, query, uuid.New(), orgID, in.ClientID, in.Name, in.Species, in.Size,
		in.Breed, in.WeightKg, in.BirthDate, in.Gender, in.Color, in.MedicalNotes, in.BehaviorNotes, in.PhotoURL)
	return scanPet(row)
}

// GetByID loads one pet scoped to the org.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1 AND organization_id = $2`
	return scanPet(r.db.QueryRow(ctx, query, id, orgID))
}

// ListByClient returns a client's pets.
func (r *Repository) ListByClient(ctx context.Context, orgID, clientID uuid.UUID) ([]*Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE organization_id = $1 AND client_id = $2 ORDER BY name`
	return r.list(ctx, query, orgID, clientID)
}

// List returns all pets in the organization.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]*Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE organization_id = $1 ORDER BY name`
	return r.list(ctx, query, orgID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Pet, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pets: list: %w", err)
	}
	defer rows.Close()

	var out []*Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies the editable fields.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, in Input) (*Pet, error) {
	query := `
		UPDATE pets
		SET client_id = $3, name = $4, species = $5, size = $6, breed = $7, weight = $8,
			birth_date = $9, gender = $10, color = $11, medical_notes = $12,
			behavior_notes = $13, photo_url = $14, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + petColumns
	row := r.db.QueryRow(ctx, query, id, orgID, in.ClientID, in.Name, in.Species, in.Size,
		in.Breed, in.WeightKg, in.BirthDate, in.Gender, in.Color, in.MedicalNotes, in.BehaviorNotes, in.PhotoURL)
	return scanPet(row)
}

// Delete removes a pet unless it still has non-terminal appointments.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	var active int64
	activeQuery := `
		SELECT COUNT(*) FROM appointments
		WHERE pet_id = $1 AND organization_id = $2
		  AND status NOT IN ('CANCELLED', 'COMPLETED', 'NO_SHOW')
	`
	if err := r.db.QueryRow(ctx, activeQuery, id, orgID).Scan(&active); err != nil {
		return fmt.Errorf("pets: active appointment count: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("pets: cannot delete pet with %d open appointments", active)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM pets WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("pets: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPet(row pgx.Row) (*Pet, error) {
	var p Pet
	err := row.Scan(&p.ID, &p.OrganizationID, &p.ClientID, &p.Name, &p.Species, &p.Size, &p.Breed,
		&p.WeightKg, &p.BirthDate, &p.Gender, &p.Color, &p.MedicalNotes, &p.BehaviorNotes, &p.PhotoURL,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pets: scan: %w", err)
	}
	return &p, nil
}
