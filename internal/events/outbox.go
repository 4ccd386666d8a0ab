package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/database"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// OutboxEntry is one recorded appointment change awaiting delivery.
type OutboxEntry struct {
	ID        uuid.UUID
	OrgID     string
	Type      string
	Payload   json.RawMessage
	Attempts  int32
	CreatedAt time.Time
}

// DeliveryHandler pushes entries to a downstream transport. A nil error marks
// the entry delivered; any other result leaves it pending for a retry.
type DeliveryHandler interface {
	Handle(ctx context.Context, entry OutboxEntry) error
}

// OutboxStore records events inside the same database the appointment writes
// go to, so an event exists exactly when its row change committed.
type OutboxStore struct {
	db database.DB
}

func NewOutboxStore(db database.DB) *OutboxStore {
	if db == nil {
		panic("events: db required")
	}
	return &OutboxStore{db: db}
}

// Insert records a pending event. Payload is marshalled to JSON as-is.
func (s *OutboxStore) Insert(ctx context.Context, orgID string, eventType string, payload any) (uuid.UUID, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	id := uuid.New()
	_, err = s.db.Exec(ctx,
		`INSERT INTO outbox (id, org_id, type, payload) VALUES ($1, $2, $3, $4)`,
		id, orgID, eventType, body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("events: record event: %w", err)
	}
	return id, nil
}

// FetchPending returns undelivered entries oldest first, skipping entries
// that already burned through maxAttempts deliveries.
func (s *OutboxStore) FetchPending(ctx context.Context, limit, maxAttempts int32) ([]OutboxEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, org_id, type, payload, attempts, created_at
		 FROM outbox
		 WHERE delivered_at IS NULL AND attempts < $2
		 ORDER BY created_at
		 LIMIT $1`,
		limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("events: fetch pending: %w", err)
	}
	defer rows.Close()

	var pending []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		var body []byte
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Type, &body, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("events: scan entry: %w", err)
		}
		e.Payload = append([]byte(nil), body...)
		pending = append(pending, e)
	}
	return pending, rows.Err()
}

// MarkDelivered stamps the entry. Returns false when the entry was already
// stamped, which happens when two deliverers race on the same row.
func (s *OutboxStore) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := s.db.Exec(ctx,
		`UPDATE outbox SET delivered_at = now() WHERE id = $1 AND delivered_at IS NULL`,
		id)
	if err != nil {
		return false, fmt.Errorf("events: mark delivered: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// MarkFailed bumps the attempt counter after a failed delivery.
func (s *OutboxStore) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx,
		`UPDATE outbox SET attempts = attempts + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("events: mark failed: %w", err)
	}
	return nil
}

const (
	defaultBatchSize   = 25
	defaultInterval    = 5 * time.Second
	defaultMaxAttempts = 10
)

// Deliverer drains the outbox on a fixed cadence, handing each pending entry
// to the delivery handler.
type Deliverer struct {
	store       *OutboxStore
	handler     DeliveryHandler
	logger      *logging.Logger
	batchSize   int32
	interval    time.Duration
	maxAttempts int32
}

func NewDeliverer(store *OutboxStore, handler DeliveryHandler, logger *logging.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Deliverer{
		store:       store,
		handler:     handler,
		logger:      logger,
		batchSize:   defaultBatchSize,
		interval:    defaultInterval,
		maxAttempts: defaultMaxAttempts,
	}
}

func (d *Deliverer) WithBatchSize(size int32) *Deliverer {
	if size > 0 {
		d.batchSize = size
	}
	return d
}

func (d *Deliverer) WithInterval(interval time.Duration) *Deliverer {
	if interval > 0 {
		d.interval = interval
	}
	return d
}

func (d *Deliverer) WithMaxAttempts(n int32) *Deliverer {
	if n > 0 {
		d.maxAttempts = n
	}
	return d
}

// Start blocks until ctx is cancelled, draining once per interval.
func (d *Deliverer) Start(ctx context.Context) {
	if d.store == nil || d.handler == nil {
		return
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Deliverer) drain(ctx context.Context) {
	pending, err := d.store.FetchPending(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		d.logger.Error("outbox fetch failed", "error", err)
		return
	}
	for _, e := range pending {
		if err := d.handler.Handle(ctx, e); err != nil {
			if markErr := d.store.MarkFailed(ctx, e.ID); markErr != nil {
				d.logger.Error("failed to record delivery failure", "error", markErr, "event_id", e.ID)
			}
			if e.Attempts+1 >= d.maxAttempts {
				d.logger.Error("giving up on event", "event_id", e.ID, "type", e.Type, "attempts", e.Attempts+1, "error", err)
			} else {
				d.logger.Warn("event delivery failed, will retry", "event_id", e.ID, "type", e.Type, "error", err)
			}
			continue
		}
		if ok, err := d.store.MarkDelivered(ctx, e.ID); err != nil {
			d.logger.Error("failed to mark event delivered", "error", err, "event_id", e.ID)
		} else if ok {
			d.logger.Debug("event delivered", "event_id", e.ID, "type", e.Type)
		}
	}
}
