package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caramelohq/grooming-platform/internal/organizations"
	"github.com/caramelohq/grooming-platform/internal/scheduling"
	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

var dashboardTracer = otel.Tracer("grooming.internal.dashboard")

// UpcomingWindow bounds the "next up" list on the dashboard.
const UpcomingWindow = 2 * time.Hour

// listLimit caps the upcoming and pending lists.
const listLimit = 5

type statsStore interface {
	CountersForDay(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) (DayCounters, error)
	MonthRevenueCents(ctx context.Context, orgID uuid.UUID, monthStart, monthEnd time.Time) (int64, error)
	RevenueSeries(ctx context.Context, orgID uuid.UUID, from time.Time, days int) ([]DayRevenue, error)
	Upcoming(ctx context.Context, vis tenancy.Visibility, now time.Time, window time.Duration, limit int) ([]*scheduling.Appointment, error)
	Pending(ctx context.Context, vis tenancy.Visibility, now time.Time, limit int) ([]*scheduling.Appointment, error)
}

type orgLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*organizations.Organization, error)
}

type statsCache interface {
	Get(ctx context.Context, orgID uuid.UUID, day string) *Stats
	Set(ctx context.Context, stats *Stats)
}

// Service computes dashboard stats, reading through the cache when one is
// configured.
type Service struct {
	store  statsStore
	orgs   orgLoader
	cache  statsCache
	logger *logging.Logger
}

// NewService constructs the dashboard service. cache may be nil.
func NewService(store statsStore, orgs orgLoader, cache statsCache, logger *logging.Logger) *Service {
	if store == nil || orgs == nil {
		panic("dashboard: store and org loader required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, orgs: orgs, cache: cache, logger: logger}
}

// GetStats returns the dashboard payload for the reference day. Non-admin
// callers get the upcoming and pending lists narrowed to their own
// assignments; those responses skip the cache, which only holds the org-wide
// admin view.
func (s *Service) GetStats(ctx context.Context, vis tenancy.Visibility, ref time.Time) (*Stats, error) {
	ctx, span := dashboardTracer.Start(ctx, "dashboard.get_stats")
	defer span.End()
	span.SetAttributes(attribute.String("grooming.org_id", vis.OrgID))

	orgID, err := uuid.Parse(vis.OrgID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: invalid org id: %w", err)
	}

	day := ref.Format("2006-01-02")
	cacheable := vis.AssignedToID == ""
	if s.cache != nil && cacheable {
		if cached := s.cache.Get(ctx, orgID, day); cached != nil {
			span.SetAttributes(attribute.Bool("grooming.cache_hit", true))
			return cached, nil
		}
	}

	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	counters, err := s.store.CountersForDay(ctx, orgID, dayStart, dayEnd)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	monthRevenue, err := s.store.MonthRevenueCents(ctx, orgID, monthStart, monthEnd)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	series, err := s.store.RevenueSeries(ctx, orgID, dayStart.AddDate(0, 0, -6), 7)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	upcoming, err := s.store.Upcoming(ctx, vis, ref, UpcomingWindow, listLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	pending, err := s.store.Pending(ctx, vis, ref, listLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats := &Stats{
		OrgID:             orgID.String(),
		Date:              day,
		TodayCount:        counters.Count,
		TodayRevenueCents: counters.RevenueCents,
		TodayPetsServed:   counters.PetsServed,
		OccupancyRate:     s.occupancy(ctx, orgID, ref.Weekday(), counters.BookedMinutes),
		MonthRevenueCents: monthRevenue,
		Last7Days:         series,
		Upcoming:          upcoming,
		Pending:           pending,
		ComputedAt:        time.Now(),
	}
	if s.cache != nil && cacheable {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// occupancy divides booked minutes by the day's open minutes. A closed day
// or an unreadable schedule reads as zero; an overbooked day caps at 1.
func (s *Service) occupancy(ctx context.Context, orgID uuid.UUID, day time.Weekday, bookedMinutes int64) float64 {
	hours := organizations.DefaultBusinessHours()
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		s.logger.Error("failed to load organization for occupancy", "error", err, "org_id", orgID)
	} else if org.BusinessHours != nil {
		hours = org.BusinessHours
	}

	open, ok := hours.OpenMinutes(day)
	if !ok || open <= 0 {
		return 0
	}
	rate := float64(bookedMinutes) / float64(open)
	if rate > 1 {
		return 1
	}
	return rate
}
