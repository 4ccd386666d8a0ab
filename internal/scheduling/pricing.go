package scheduling

import (
	"time"

	"github.com/caramelohq/grooming-platform/internal/catalog"
	"github.com/caramelohq/grooming-platform/internal/pets"
)

// DefaultDurationMinutes backstops a service whose tier duration is missing.
const DefaultDurationMinutes = 60

// Quote is the resolved price and duration for one service/size pairing.
type Quote struct {
	PriceCents      int64
	DurationMinutes int
}

// Duration returns the quote's duration as a time.Duration.
func (q Quote) Duration() time.Duration {
	return time.Duration(q.DurationMinutes) * time.Minute
}

// ResolvePriceAndDuration looks up the service's price and duration for the
// pet's size tier. Pure function: missing prices resolve to 0, missing or
// non-positive durations to DefaultDurationMinutes.
func ResolvePriceAndDuration(svc *catalog.Service, size pets.Size) Quote {
	q := Quote{
		PriceCents:      svc.PriceCents(size),
		DurationMinutes: svc.DurationMinutes(size),
	}
	if q.DurationMinutes <= 0 {
		q.DurationMinutes = DefaultDurationMinutes
	}
	return q
}
