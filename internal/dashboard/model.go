package dashboard

import (
	"time"

	"github.com/caramelohq/grooming-platform/internal/scheduling"
)

// DayRevenue is one point of the trailing revenue series.
type DayRevenue struct {
	Day          string `json:"day"`
	Count        int64  `json:"count"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Stats is the dashboard payload for one organization and reference day.
// OccupancyRate is booked minutes over open minutes, 0..1, zero on closed
// days.
type Stats struct {
	OrgID             string                    `json:"org_id"`
	Date              string                    `json:"date"`
	TodayCount        int64                     `json:"today_count"`
	TodayRevenueCents int64                     `json:"today_revenue_cents"`
	TodayPetsServed   int64                     `json:"today_pets_served"`
	OccupancyRate     float64                   `json:"occupancy_rate"`
	MonthRevenueCents int64                     `json:"month_revenue_cents"`
	Last7Days         []DayRevenue              `json:"last_7_days"`
	Upcoming          []*scheduling.Appointment `json:"upcoming"`
	Pending           []*scheduling.Appointment `json:"pending"`
	ComputedAt        time.Time                 `json:"computed_at"`
}
