package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/database"
	"github.com/caramelohq/grooming-platform/internal/scheduling"
	"github.com/caramelohq/grooming-platform/internal/tenancy"
)

// DayCounters are the single-day aggregates behind the stat cards.
type DayCounters struct {
	Count         int64
	RevenueCents  int64
	PetsServed    int64
	BookedMinutes int64
}

// Repository runs the read-only aggregation queries. No write side effects.
type Repository struct {
	db database.DB
}

// NewRepository creates a dashboard repository.
func NewRepository(db database.DB) *Repository {
	if db == nil {
		panic("dashboard: db required")
	}
	return &Repository{db: db}
}

// CountersForDay aggregates one day's appointment counters. Cancelled
// appointments are excluded everywhere; revenue only counts paid ones.
func (r *Repository) CountersForDay(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) (DayCounters, error) {
	var c DayCounters

	countQuery := `
		SELECT COUNT(*) FROM appointments
		WHERE organization_id = $1 AND start_time >= $2 AND start_time < $3
		  AND status <> 'CANCELLED'`
	if err := r.db.QueryRow(ctx, countQuery, orgID, dayStart, dayEnd).Scan(&c.Count); err != nil {
		return c, fmt.Errorf("dashboard: count today: %w", err)
	}

	revenueQuery := `
		SELECT COALESCE(SUM(price_cents), 0) FROM appointments
		WHERE organization_id = $1 AND start_time >= $2 AND start_time < $3
		  AND paid = TRUE AND status <> 'CANCELLED'`
	if err := r.db.QueryRow(ctx, revenueQuery, orgID, dayStart, dayEnd).Scan(&c.RevenueCents); err != nil {
		return c, fmt.Errorf("dashboard: sum revenue: %w", err)
	}

	petsQuery := `
		SELECT COUNT(DISTINCT pet_id) FROM appointments
		WHERE organization_id = $1 AND start_time >= $2 AND start_time < $3
		  AND status <> 'CANCELLED'`
	if err := r.db.QueryRow(ctx, petsQuery, orgID, dayStart, dayEnd).Scan(&c.PetsServed); err != nil {
		return c, fmt.Errorf("dashboard: count pets: %w", err)
	}

	// Completed and no-show appointments still occupied their slot, so they
	// count toward booked minutes. Only cancellation frees the time.
	bookedQuery := `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 60), 0)::bigint
		FROM appointments
		WHERE organization_id = $1 AND start_time >= $2 AND start_time < $3
		  AND status <> 'CANCELLED'`
	if err := r.db.QueryRow(ctx, bookedQuery, orgID, dayStart, dayEnd).Scan(&c.BookedMinutes); err != nil {
		return c, fmt.Errorf("dashboard: sum booked minutes: %w", err)
	}

	return c, nil
}

// MonthRevenueCents sums paid revenue inside [monthStart, monthEnd).
func (r *Repository) MonthRevenueCents(ctx context.Context, orgID uuid.UUID, monthStart, monthEnd time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(price_cents), 0) FROM appointments
		WHERE organization_id = $1 AND start_time >= $2 AND start_time < $3
		  AND paid = TRUE AND status <> 'CANCELLED'`
	var total int64
	if err := r.db.QueryRow(ctx, query, orgID, monthStart, monthEnd).Scan(&total); err != nil {
		return 0, fmt.Errorf("dashboard: month revenue: %w", err)
	}
	return total, nil
}

// RevenueSeries returns one row per day over [from, from+days), zero-filled
// for days without appointments.
func (r *Repository) RevenueSeries(ctx context.Context, orgID uuid.UUID, from time.Time, days int) ([]DayRevenue, error) {
	query := `
		SELECT to_char(d.day, 'YYYY-MM-DD') AS day,
		       COUNT(a.id),
		       COALESCE(SUM(a.price_cents) FILTER (WHERE a.paid), 0)
		FROM generate_series($2::date, $2::date + ($3 - 1) * interval '1 day', interval '1 day') AS d(day)
		LEFT JOIN appointments a
		  ON a.organization_id = $1
		 AND a.start_time >= d.day
		 AND a.start_time < d.day + interval '1 day'
		 AND a.status <> 'CANCELLED'
		GROUP BY d.day
		ORDER BY d.day`
	rows, err := r.db.Query(ctx, query, orgID, from, days)
	if err != nil {
		return nil, fmt.Errorf("dashboard: revenue series: %w", err)
	}
	defer rows.Close()

	var series []DayRevenue
	for rows.Next() {
		var p DayRevenue
		if err := rows.Scan(&p.Day, &p.Count, &p.RevenueCents); err != nil {
			return nil, fmt.Errorf("dashboard: scan series row: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

const apptColumns = `id, organization_id, pet_id, client_id, service_id, assigned_to_id,
	start_time, end_time, price_cents, notes, status, paid, payment_method, reminder_sent_at,
	created_at, updated_at`

// Upcoming returns the next appointments starting inside [now, now+window),
// soonest first. Non-admin visibility narrows to the caller's assignments.
func (r *Repository) Upcoming(ctx context.Context, vis tenancy.Visibility, now time.Time, window time.Duration, limit int) ([]*scheduling.Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE organization_id = $1
		  AND status NOT IN ('CANCELLED', 'COMPLETED', 'NO_SHOW')
		  AND start_time >= $2 AND start_time < $3`
	args := []any{vis.OrgID, now, now.Add(window)}
	idx := 4
	if vis.AssignedToID != "" {
		query += fmt.Sprintf(` AND assigned_to_id = $%d`, idx)
		args = append(args, vis.AssignedToID)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY start_time LIMIT $%d`, idx)
	args = append(args, limit)
	return r.listAppointments(ctx, query, args...)
}

// Pending returns appointments still waiting for confirmation.
func (r *Repository) Pending(ctx context.Context, vis tenancy.Visibility, now time.Time, limit int) ([]*scheduling.Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE organization_id = $1 AND status = 'SCHEDULED' AND start_time >= $2`
	args := []any{vis.OrgID, now}
	idx := 3
	if vis.AssignedToID != "" {
		query += fmt.Sprintf(` AND assigned_to_id = $%d`, idx)
		args = append(args, vis.AssignedToID)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY start_time LIMIT $%d`, idx)
	args = append(args, limit)
	return r.listAppointments(ctx, query, args...)
}

func (r *Repository) listAppointments(ctx context.Context, query string, args ...any) ([]*scheduling.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list appointments: %w", err)
	}
	defer rows.Close()

	var out []*scheduling.Appointment
	for rows.Next() {
		var a scheduling.Appointment
		err := rows.Scan(&a.ID, &a.OrganizationID, &a.PetID, &a.ClientID, &a.ServiceID, &a.AssignedToID,
			&a.StartTime, &a.EndTime, &a.PriceCents, &a.Notes, &a.Status, &a.Paid, &a.PaymentMethod,
			&a.ReminderSentAt, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("dashboard: scan appointment: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
