package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/catalog"
	"github.com/caramelohq/grooming-platform/internal/pets"
)

var (
	orgID     = uuid.MustParse("7d17c5bc-34a0-4a79-8f0a-000000000001")
	petID     = uuid.MustParse("7d17c5bc-34a0-4a79-8f0a-000000000002")
	clientID  = uuid.MustParse("7d17c5bc-34a0-4a79-8f0a-000000000003")
	serviceID = uuid.MustParse("7d17c5bc-34a0-4a79-8f0a-000000000004")
)

// memStore is an in-memory appointmentStore that reuses the same overlap
// semantics the exclusion constraint enforces.
type memStore struct {
	appts map[uuid.UUID]*Appointment
}

func newMemStore() *memStore {
	return &memStore{appts: map[uuid.UUID]*Appointment{}}
}

func (m *memStore) FindConflict(_ context.Context, org uuid.UUID, iv Interval, excludeID *uuid.UUID) (*Appointment, error) {
	for _, a := range m.appts {
		if a.OrganizationID != org || !a.Status.Blocking() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if iv.Overlaps(Interval{Start: a.StartTime, End: a.EndTime}) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memStore) Insert(ctx context.Context, appt *Appointment) (*Appointment, error) {
	if c, _ := m.FindConflict(ctx, appt.OrganizationID, Interval{Start: appt.StartTime, End: appt.EndTime}, nil); c != nil {
		return nil, ErrConflict
	}
	cp := *appt
	m.appts[cp.ID] = &cp
	return &cp, nil
}

func (m *memStore) GetByID(_ context.Context, org, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok || a.OrganizationID != org {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, appt *Appointment) (*Appointment, error) {
	if _, ok := m.appts[appt.ID]; !ok {
		return nil, ErrAppointmentNotFound
	}
	if c, _ := m.FindConflict(ctx, appt.OrganizationID, Interval{Start: appt.StartTime, End: appt.EndTime}, &appt.ID); c != nil {
		return nil, ErrConflict
	}
	cp := *appt
	m.appts[cp.ID] = &cp
	return &cp, nil
}

func (m *memStore) SetStatus(_ context.Context, org, id uuid.UUID, status Status) error {
	a, ok := m.appts[id]
	if !ok || a.OrganizationID != org {
		return ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (m *memStore) SetPaid(_ context.Context, org, id uuid.UUID, method *PaymentMethod) error {
	a, ok := m.appts[id]
	if !ok || a.OrganizationID != org {
		return ErrAppointmentNotFound
	}
	a.Paid = true
	a.PaymentMethod = method
	return nil
}

type fakePets struct {
	pet *pets.Pet
}

func (f *fakePets) GetByID(_ context.Context, org, id uuid.UUID) (*pets.Pet, error) {
	if f.pet == nil || f.pet.ID != id || f.pet.OrganizationID != org {
		return nil, pets.ErrNotFound
	}
	return f.pet, nil
}

type fakeCatalog struct {
	svc *catalog.Service
}

func (f *fakeCatalog) GetByID(_ context.Context, org, id uuid.UUID) (*catalog.Service, error) {
	if f.svc == nil || f.svc.ID != id || f.svc.OrganizationID != org {
		return nil, catalog.ErrNotFound
	}
	return f.svc, nil
}

type recordedEvent struct {
	eventType string
	payload   any
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Insert(_ context.Context, _ string, eventType string, payload any) (uuid.UUID, error) {
	f.events = append(f.events, recordedEvent{eventType: eventType, payload: payload})
	return uuid.New(), nil
}

type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Invalidate(context.Context, uuid.UUID) { f.invalidations++ }

func mediumDog() *pets.Pet {
	return &pets.Pet{
		ID:             petID,
		OrganizationID: orgID,
		ClientID:       clientID,
		Name:           "Thor",
		Species:        pets.SpeciesDog,
		Size:           pets.SizeMedium,
	}
}

func bathService() *catalog.Service {
	svc := fullBath()
	svc.ID = serviceID
	svc.OrganizationID = orgID
	return svc
}

type harness struct {
	scheduler *Scheduler
	store     *memStore
	events    *fakeEvents
	cache     *fakeCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	events := &fakeEvents{}
	cache := &fakeCache{}
	s := NewScheduler(store, &fakePets{pet: mediumDog()}, &fakeCatalog{svc: bathService()}, events, cache, nil, nil)
	return &harness{scheduler: s, store: store, events: events, cache: cache}
}

func baseInput(start time.Time) CreateInput {
	return CreateInput{
		PetID:     petID,
		ClientID:  clientID,
		ServiceID: serviceID,
		StartTime: start,
	}
}

func TestCreateResolvesTierPriceAndEndTime(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	appt, err := h.scheduler.Create(context.Background(), orgID, baseInput(start))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := appt.EndTime; !got.Equal(start.Add(time.Hour)) {
		t.Errorf("end time = %v, want %v", got, start.Add(time.Hour))
	}
	if appt.PriceCents != 5000 {
		t.Errorf("price = %d, want 5000", appt.PriceCents)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("status = %s, want SCHEDULED", appt.Status)
	}
	if appt.Paid {
		t.Error("new appointment should not be paid")
	}
	if len(h.events.events) != 1 || h.events.events[0].eventType != "appointment.created" {
		t.Errorf("events = %+v", h.events.events)
	}
	if h.cache.invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", h.cache.invalidations)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	if _, err := h.scheduler.Create(ctx, orgID, baseInput(start)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := h.scheduler.Create(ctx, orgID, baseInput(start.Add(30*time.Minute)))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestCreateAllowsBackToBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	if _, err := h.scheduler.Create(ctx, orgID, baseInput(start)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := h.scheduler.Create(ctx, orgID, baseInput(start.Add(time.Hour))); err != nil {
		t.Fatalf("back-to-back booking failed: %v", err)
	}
}

func TestCancelledAppointmentFreesSlot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	first, err := h.scheduler.Create(ctx, orgID, baseInput(start))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := h.scheduler.Cancel(ctx, orgID, first.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := h.scheduler.Create(ctx, orgID, baseInput(start)); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestNoShowStillBlocksSlot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	first, err := h.scheduler.Create(ctx, orgID, baseInput(start))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	h.store.appts[first.ID].Status = StatusNoShow

	_, err = h.scheduler.Create(ctx, orgID, baseInput(start))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict for a NO_SHOW slot", err)
	}
}

func TestCreateHonorsPriceOverride(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	in := baseInput(start)
	override := int64(12345)
	in.PriceCents = &override

	appt, err := h.scheduler.Create(context.Background(), orgID, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if appt.PriceCents != 12345 {
		t.Errorf("price = %d, want 12345", appt.PriceCents)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	h := newHarness(t)

	_, err := h.scheduler.Create(context.Background(), orgID, CreateInput{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"pet_id", "client_id", "service_id", "start_time"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing validation message for %s", field)
		}
	}
}

func TestCreateRejectsPetFromOtherOrg(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	_, err := h.scheduler.Create(context.Background(), uuid.New(), baseInput(start))
	if !errors.Is(err, ErrPetNotFound) {
		t.Fatalf("err = %v, want ErrPetNotFound", err)
	}
}

func TestCreateRejectsPetClientMismatch(t *testing.T) {
	h := newHarness(t)
	in := baseInput(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	in.ClientID = uuid.New()

	_, err := h.scheduler.Create(context.Background(), orgID, in)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["client_id"]; !ok {
		t.Errorf("fields = %v, want client_id message", ve.Fields)
	}
}

func TestUpdateExcludesSelfFromConflictCheck(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	appt, err := h.scheduler.Create(ctx, orgID, baseInput(start))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Nudging the same appointment within its own slot must not conflict
	// with itself.
	in := UpdateInput{CreateInput: baseInput(start.Add(15 * time.Minute))}
	updated, err := h.scheduler.Update(ctx, orgID, appt.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.StartTime.Equal(start.Add(15 * time.Minute)) {
		t.Errorf("start time = %v", updated.StartTime)
	}
	if updated.Status != StatusScheduled {
		t.Errorf("status should carry over, got %s", updated.Status)
	}
}

func TestUpdateAppliesStatusAndPayment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	appt, err := h.scheduler.Create(ctx, orgID, baseInput(start))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := StatusConfirmed
	paid := true
	method := "PIX"
	in := UpdateInput{CreateInput: baseInput(start), Status: &status, Paid: &paid, PaymentMethod: &method}

	updated, err := h.scheduler.Update(ctx, orgID, appt.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != StatusConfirmed || !updated.Paid {
		t.Errorf("updated = status %s paid %v", updated.Status, updated.Paid)
	}
	if updated.PaymentMethod == nil || *updated.PaymentMethod != PaymentPix {
		t.Errorf("payment method = %v", updated.PaymentMethod)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	h := newHarness(t)
	bad := Status("TELEPORTED")
	in := UpdateInput{CreateInput: baseInput(time.Now()), Status: &bad}

	_, err := h.scheduler.Update(context.Background(), orgID, uuid.New(), in)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	appt, err := h.scheduler.Create(ctx, orgID, baseInput(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := h.scheduler.MarkCompleted(ctx, orgID, appt.ID); err != nil {
		t.Fatalf("first MarkCompleted failed: %v", err)
	}
	if err := h.scheduler.MarkCompleted(ctx, orgID, appt.ID); err != nil {
		t.Fatalf("second MarkCompleted failed: %v", err)
	}
	got, _ := h.store.GetByID(ctx, orgID, appt.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}
}

func TestMarkPaidCoercesUnknownMethod(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	appt, err := h.scheduler.Create(ctx, orgID, baseInput(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := h.scheduler.MarkPaid(ctx, orgID, appt.ID, "BARTER"); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	got, _ := h.store.GetByID(ctx, orgID, appt.ID)
	if !got.Paid {
		t.Error("appointment should be paid")
	}
	if got.PaymentMethod != nil {
		t.Errorf("unknown method should be stored as none, got %v", *got.PaymentMethod)
	}
}
