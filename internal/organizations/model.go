package organizations

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Closed marks a weekday with no business hours.
const Closed = "closed"

// BusinessHours maps a weekday key ("mon".."sun") to an "HH:MM-HH:MM" range
// or to Closed.
type BusinessHours map[string]string

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// DefaultBusinessHours is the schedule assumed when an organization has not
// configured one: weekdays 08-18, saturday 08-14, sunday closed.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		"mon": "08:00-18:00",
		"tue": "08:00-18:00",
		"wed": "08:00-18:00",
		"thu": "08:00-18:00",
		"fri": "08:00-18:00",
		"sat": "08:00-14:00",
		"sun": Closed,
	}
}

// OpenMinutes returns how many minutes the business is open on the given
// weekday. ok is false when the day is closed. Days missing from the map fall
// back to the default schedule.
func (bh BusinessHours) OpenMinutes(day time.Weekday) (int, bool) {
	key := weekdayKeys[day]
	rangeStr, found := bh[key]
	if !found || strings.TrimSpace(rangeStr) == "" {
		rangeStr = DefaultBusinessHours()[key]
	}
	if strings.EqualFold(strings.TrimSpace(rangeStr), Closed) {
		return 0, false
	}
	open, close, err := parseRange(rangeStr)
	if err != nil || close <= open {
		return 0, false
	}
	return close - open, true
}

// Validate rejects malformed day keys or hour ranges.
func (bh BusinessHours) Validate() error {
	valid := map[string]struct{}{}
	for _, key := range weekdayKeys {
		valid[key] = struct{}{}
	}
	for key, rangeStr := range bh {
		if _, ok := valid[key]; !ok {
			return fmt.Errorf("organizations: unknown weekday %q", key)
		}
		if strings.EqualFold(strings.TrimSpace(rangeStr), Closed) {
			continue
		}
		open, close, err := parseRange(rangeStr)
		if err != nil {
			return fmt.Errorf("organizations: day %q: %w", key, err)
		}
		if close <= open {
			return fmt.Errorf("organizations: day %q: close must be after open", key)
		}
	}
	return nil
}

func parseRange(s string) (openMin, closeMin int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid hours range %q", s)
	}
	openMin, err = parseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	closeMin, err = parseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return openMin, closeMin, nil
}

func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// Organization is the tenant boundary. Every other entity belongs to exactly
// one organization.
type Organization struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	BusinessHours BusinessHours `json:"business_hours"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Identity is what the external auth provider knows about a caller.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Membership resolves an identity to its organization, user and role.
type Membership struct {
	OrgID  uuid.UUID
	UserID uuid.UUID
	Role   string
}
