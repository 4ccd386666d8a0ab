package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/database"
)

// Reminder is one appointment due a reminder email, joined with the contact
// details needed to write it.
type Reminder struct {
	AppointmentID uuid.UUID
	OrgID         uuid.UUID
	StartTime     time.Time
	ClientName    string
	ClientEmail   string
	PetName       string
	ServiceName   string
}

// Store reads due reminders and stamps sent ones.
type Store struct {
	db database.DB
}

func NewStore(db database.DB) *Store {
	if db == nil {
		panic("reminders: db required")
	}
	return &Store{db: db}
}

// FetchDue returns appointments starting inside [now, now+window) that have
// not yet been reminded. Clients without an email address are skipped, there
// is nowhere to send to.
func (s *Store) FetchDue(ctx context.Context, now time.Time, window time.Duration, limit int) ([]Reminder, error) {
	query := `
		SELECT a.id, a.organization_id, a.start_time,
		       c.name, c.email, p.name, s.name
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		JOIN pets p ON p.id = a.pet_id
		JOIN services s ON s.id = a.service_id
		WHERE a.reminder_sent_at IS NULL
		  AND a.status IN ('SCHEDULED', 'CONFIRMED')
		  AND a.start_time >= $1 AND a.start_time < $2
		  AND c.email IS NOT NULL
		ORDER BY a.start_time
		LIMIT $3
	`
	rows, err := s.db.Query(ctx, query, now, now.Add(window), limit)
	if err != nil {
		return nil, fmt.Errorf("reminders: fetch due: %w", err)
	}
	defer rows.Close()

	var due []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.AppointmentID, &r.OrgID, &r.StartTime,
			&r.ClientName, &r.ClientEmail, &r.PetName, &r.ServiceName); err != nil {
			return nil, fmt.Errorf("reminders: scan due row: %w", err)
		}
		due = append(due, r)
	}
	return due, rows.Err()
}

// MarkSent stamps reminder_sent_at so the appointment is reminded once.
func (s *Store) MarkSent(ctx context.Context, appointmentID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE appointments SET reminder_sent_at = now() WHERE id = $1 AND reminder_sent_at IS NULL`,
		appointmentID)
	if err != nil {
		return fmt.Errorf("reminders: mark sent: %w", err)
	}
	return nil
}
