package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caramelohq/grooming-platform/internal/database"
	"github.com/caramelohq/grooming-platform/internal/tenancy"
)

// Repository provides persistence for appointments.
type Repository struct {
	db database.DB
}

// NewRepository creates an appointments repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("scheduling: db required")
	}
	return &Repository{db: db}
}

const appointmentColumns = `id, organization_id, pet_id, client_id, service_id, assigned_to_id,
	start_time, end_time, price_cents, notes, status, paid, payment_method, reminder_sent_at,
	created_at, updated_at`

// exclusionConstraint is the database-level guard against double booking.
const exclusionConstraint = "appointments_no_overlap"

// isSlotTaken maps a violation of the overlap exclusion constraint
// (SQLSTATE 23P01) to the booking conflict error.
func isSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23P01" &&
		pgErr.ConstraintName == exclusionConstraint
}

// FindConflict returns the first active appointment in the organization whose
// half-open interval overlaps the candidate one, or nil. excludeID skips the
// appointment being edited.
func (r *Repository) FindConflict(ctx context.Context, orgID uuid.UUID, iv Interval, excludeID *uuid.UUID) (*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
		  AND status NOT IN ('CANCELLED', 'COMPLETED')
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		LIMIT 1
	`
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, orgID, iv.Start, iv.End, excludeID))
	if errors.Is(err, ErrAppointmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scheduling: find conflict: %w", err)
	}
	return appt, nil
}

// Insert persists a new appointment. The overlap exclusion constraint is the
// last line of defense against concurrent bookings; a violation comes back as
// ErrConflict.
func (r *Repository) Insert(ctx context.Context, appt *Appointment) (*Appointment, error) {
	query := `
		INSERT INTO appointments (id, organization_id, pet_id, client_id, service_id, assigned_to_id,
			start_time, end_time, price_cents, notes, status, paid, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, appt.ID, appt.OrganizationID, appt.PetID, appt.ClientID,
		appt.ServiceID, appt.AssignedToID, appt.StartTime, appt.EndTime, appt.PriceCents,
		appt.Notes, appt.Status, appt.Paid, appt.PaymentMethod)
	stored, err := scanAppointment(row)
	if isSlotTaken(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("scheduling: insert: %w", err)
	}
	return stored, nil
}

// GetByID loads one appointment scoped to the org.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND organization_id = $2`
	return scanAppointment(r.db.QueryRow(ctx, query, id, orgID))
}

// Update rewrites the bookable fields of an existing appointment. Same
// constraint mapping as Insert.
func (r *Repository) Update(ctx context.Context, appt *Appointment) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET pet_id = $3, client_id = $4, service_id = $5, assigned_to_id = $6,
			start_time = $7, end_time = $8, price_cents = $9, notes = $10,
			status = $11, paid = $12, payment_method = $13, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, appt.ID, appt.OrganizationID, appt.PetID, appt.ClientID,
		appt.ServiceID, appt.AssignedToID, appt.StartTime, appt.EndTime, appt.PriceCents,
		appt.Notes, appt.Status, appt.Paid, appt.PaymentMethod)
	stored, err := scanAppointment(row)
	if isSlotTaken(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SetStatus flips only the status. Returns ErrAppointmentNotFound when the id
// is not in the org.
func (r *Repository) SetStatus(ctx context.Context, orgID, id uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = now() WHERE id = $1 AND organization_id = $2`,
		id, orgID, status)
	if err != nil {
		return fmt.Errorf("scheduling: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// SetPaid marks the appointment paid with an optional method.
func (r *Repository) SetPaid(ctx context.Context, orgID, id uuid.UUID, method *PaymentMethod) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET paid = TRUE, payment_method = $3, updated_at = now() WHERE id = $1 AND organization_id = $2`,
		id, orgID, method)
	if err != nil {
		return fmt.Errorf("scheduling: set paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ListRange returns appointments ordered by start time, optionally bounded by
// [from, to]. Non-admin visibility narrows to the caller's assignments.
func (r *Repository) ListRange(ctx context.Context, vis tenancy.Visibility, from, to *time.Time) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE organization_id = $1`
	args := []any{vis.OrgID}
	idx := 2
	if from != nil && to != nil {
		query += fmt.Sprintf(` AND start_time >= $%d AND start_time <= $%d`, idx, idx+1)
		args = append(args, *from, *to)
		idx += 2
	}
	if vis.AssignedToID != "" {
		query += fmt.Sprintf(` AND assigned_to_id = $%d`, idx)
		args = append(args, vis.AssignedToID)
	}
	query += ` ORDER BY start_time`
	return r.list(ctx, query, args...)
}

// ListHistory returns terminal appointments, newest first.
func (r *Repository) ListHistory(ctx context.Context, vis tenancy.Visibility, limit int) ([]*Appointment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
		  AND status IN ('COMPLETED', 'CANCELLED', 'NO_SHOW')
	`
	args := []any{vis.OrgID}
	idx := 2
	if vis.AssignedToID != "" {
		query += fmt.Sprintf(` AND assigned_to_id = $%d`, idx)
		args = append(args, vis.AssignedToID)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY start_time DESC LIMIT $%d`, idx)
	args = append(args, limit)
	return r.list(ctx, query, args...)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.OrganizationID, &a.PetID, &a.ClientID, &a.ServiceID, &a.AssignedToID,
		&a.StartTime, &a.EndTime, &a.PriceCents, &a.Notes, &a.Status, &a.Paid, &a.PaymentMethod,
		&a.ReminderSentAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
