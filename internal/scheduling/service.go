package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caramelohq/grooming-platform/internal/catalog"
	"github.com/caramelohq/grooming-platform/internal/observability/metrics"
	"github.com/caramelohq/grooming-platform/internal/pets"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

var schedulingTracer = otel.Tracer("grooming.internal.scheduling")

// petLoader loads pets scoped to an organization.
type petLoader interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*pets.Pet, error)
}

// serviceLoader loads catalog services scoped to an organization.
type serviceLoader interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Service, error)
}

// appointmentStore is the slice of Repository the scheduler writes through.
type appointmentStore interface {
	FindConflict(ctx context.Context, orgID uuid.UUID, iv Interval, excludeID *uuid.UUID) (*Appointment, error)
	Insert(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, appt *Appointment) (*Appointment, error)
	SetStatus(ctx context.Context, orgID, id uuid.UUID, status Status) error
	SetPaid(ctx context.Context, orgID, id uuid.UUID, method *PaymentMethod) error
}

// eventRecorder queues appointment change events for downstream consumers.
type eventRecorder interface {
	Insert(ctx context.Context, orgID string, eventType string, payload any) (uuid.UUID, error)
}

// cacheInvalidator drops cached views derived from appointment data.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, orgID uuid.UUID)
}

// Scheduler orchestrates booking operations end-to-end: load pet and service,
// resolve the tier quote, derive the end time, reject overlaps and persist.
type Scheduler struct {
	store   appointmentStore
	pets    petLoader
	catalog serviceLoader
	events  eventRecorder
	cache   cacheInvalidator
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewScheduler constructs the scheduler. events, cache and m may be nil.
func NewScheduler(store appointmentStore, petRepo petLoader, catalogRepo serviceLoader,
	events eventRecorder, cache cacheInvalidator, m *metrics.BookingMetrics, logger *logging.Logger) *Scheduler {
	if store == nil {
		panic("scheduling: appointment store required")
	}
	if petRepo == nil || catalogRepo == nil {
		panic("scheduling: pet and catalog loaders required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		store:   store,
		pets:    petRepo,
		catalog: catalogRepo,
		events:  events,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Create books a new appointment in SCHEDULED status.
func (s *Scheduler) Create(ctx context.Context, orgID uuid.UUID, in CreateInput) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.create")
	defer span.End()
	span.SetAttributes(attribute.String("grooming.org_id", orgID.String()))
	started := time.Now()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	appt, err := s.buildAppointment(ctx, orgID, in, nil)
	if err != nil {
		s.observeFailure("create", err)
		span.RecordError(err)
		return nil, err
	}
	appt.ID = uuid.New()
	appt.Status = StatusScheduled
	appt.Paid = false

	stored, err := s.store.Insert(ctx, appt)
	if err != nil {
		s.observeFailure("create", err)
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveWrite("create", "ok")
	s.metrics.ObserveLatency("create", time.Since(started).Seconds())
	s.logger.Info("appointment booked",
		"org_id", orgID,
		"appointment_id", stored.ID,
		"start_time", stored.StartTime,
		"end_time", stored.EndTime,
		"price_cents", stored.PriceCents,
	)
	s.signalChanged(ctx, orgID, "appointment.created", stored)
	return stored, nil
}

// Update rebooks an existing appointment through the same validation and
// conflict pipeline, excluding itself from the overlap check.
func (s *Scheduler) Update(ctx context.Context, orgID, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.update")
	defer span.End()
	span.SetAttributes(
		attribute.String("grooming.org_id", orgID.String()),
		attribute.String("grooming.appointment_id", id.String()),
	)
	started := time.Now()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	appt, err := s.buildAppointment(ctx, orgID, in.CreateInput, &id)
	if err != nil {
		s.observeFailure("update", err)
		span.RecordError(err)
		return nil, err
	}
	appt.ID = current.ID
	appt.Status = current.Status
	appt.Paid = current.Paid
	appt.PaymentMethod = current.PaymentMethod
	if in.Status != nil {
		appt.Status = *in.Status
	}
	if in.Paid != nil {
		appt.Paid = *in.Paid
	}
	if in.PaymentMethod != nil {
		appt.PaymentMethod = ParsePaymentMethod(*in.PaymentMethod)
	}

	stored, err := s.store.Update(ctx, appt)
	if err != nil {
		s.observeFailure("update", err)
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveWrite("update", "ok")
	s.metrics.ObserveLatency("update", time.Since(started).Seconds())
	s.logger.Info("appointment updated", "org_id", orgID, "appointment_id", stored.ID)
	s.signalChanged(ctx, orgID, "appointment.updated", stored)
	return stored, nil
}

// Cancel soft-cancels the appointment: the row survives for the history view,
// the slot is freed.
func (s *Scheduler) Cancel(ctx context.Context, orgID, id uuid.UUID) error {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.cancel")
	defer span.End()

	if err := s.store.SetStatus(ctx, orgID, id, StatusCancelled); err != nil {
		span.RecordError(err)
		return err
	}
	s.metrics.ObserveWrite("cancel", "ok")
	s.logger.Info("appointment cancelled", "org_id", orgID, "appointment_id", id)
	s.signalChanged(ctx, orgID, "appointment.cancelled", map[string]any{"id": id})
	return nil
}

// MarkCompleted is idempotent: completing a completed appointment is a no-op.
func (s *Scheduler) MarkCompleted(ctx context.Context, orgID, id uuid.UUID) error {
	current, err := s.store.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if current.Status == StatusCompleted {
		return nil
	}
	if err := s.store.SetStatus(ctx, orgID, id, StatusCompleted); err != nil {
		return err
	}
	s.metrics.ObserveWrite("complete", "ok")
	s.signalChanged(ctx, orgID, "appointment.updated", map[string]any{"id": id, "status": StatusCompleted})
	return nil
}

// MarkPaid flags the appointment as paid. Unrecognized payment methods are
// stored as no method rather than rejected.
func (s *Scheduler) MarkPaid(ctx context.Context, orgID, id uuid.UUID, method string) error {
	if err := s.store.SetPaid(ctx, orgID, id, ParsePaymentMethod(method)); err != nil {
		return err
	}
	s.metrics.ObserveWrite("pay", "ok")
	s.signalChanged(ctx, orgID, "appointment.updated", map[string]any{"id": id, "paid": true})
	return nil
}

// buildAppointment runs the shared create/update pipeline: org-scoped loads,
// quote resolution, end-time derivation and the advisory conflict pre-check.
func (s *Scheduler) buildAppointment(ctx context.Context, orgID uuid.UUID, in CreateInput, excludeID *uuid.UUID) (*Appointment, error) {
	pet, err := s.pets.GetByID(ctx, orgID, in.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	if pet.ClientID != in.ClientID {
		return nil, &ValidationError{Fields: map[string]string{"client_id": "pet belongs to another client"}}
	}

	svc, err := s.catalog.GetByID(ctx, orgID, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	quote := ResolvePriceAndDuration(svc, pet.Size)
	interval := Interval{Start: in.StartTime, End: in.StartTime.Add(quote.Duration())}

	// Advisory pre-check for a friendly error. The exclusion constraint
	// still decides under concurrency.
	conflict, err := s.store.FindConflict(ctx, orgID, interval, excludeID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrConflict
	}

	price := quote.PriceCents
	if in.PriceCents != nil && *in.PriceCents > 0 {
		price = *in.PriceCents
	}

	return &Appointment{
		OrganizationID: orgID,
		PetID:          in.PetID,
		ClientID:       in.ClientID,
		ServiceID:      in.ServiceID,
		AssignedToID:   in.AssignedToID,
		StartTime:      interval.Start,
		EndTime:        interval.End,
		PriceCents:     price,
		Notes:          in.Notes,
	}, nil
}

func (s *Scheduler) observeFailure(operation string, err error) {
	if errors.Is(err, ErrConflict) {
		s.metrics.ObserveConflict(operation)
		return
	}
	s.metrics.ObserveWrite(operation, "error")
}

// signalChanged notifies downstream consumers that appointment lists changed.
// Failures are logged, never surfaced: the booking already committed.
func (s *Scheduler) signalChanged(ctx context.Context, orgID uuid.UUID, eventType string, payload any) {
	if s.events != nil {
		if _, err := s.events.Insert(ctx, orgID.String(), eventType, payload); err != nil {
			s.logger.Error("failed to enqueue appointment event", "error", err, "type", eventType, "org_id", orgID)
		}
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, orgID)
	}
}
