package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/pets"
)

// Default per-tier durations applied at creation, in minutes.
const (
	DefaultDurationMini   = 30
	DefaultDurationSmall  = 45
	DefaultDurationMedium = 60
	DefaultDurationLarge  = 90
	DefaultDurationGiant  = 120
)

// TierPrices holds the optional price per size tier, in cents.
type TierPrices struct {
	Mini   *int64 `json:"mini,omitempty"`
	Small  *int64 `json:"small,omitempty"`
	Medium *int64 `json:"medium,omitempty"`
	Large  *int64 `json:"large,omitempty"`
	Giant  *int64 `json:"giant,omitempty"`
}

// TierDurations holds the required duration per size tier, in minutes.
type TierDurations struct {
	Mini   int `json:"mini"`
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
	Giant  int `json:"giant"`
}

// Service is a bookable grooming offering.
type Service struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	Name           string        `json:"name"`
	Description    *string       `json:"description,omitempty"`
	Active         bool          `json:"active"`
	Prices         TierPrices    `json:"prices"`
	Durations      TierDurations `json:"durations"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PriceCents returns the price for a size tier; missing tiers price at 0.
func (s *Service) PriceCents(size pets.Size) int64 {
	var p *int64
	switch size {
	case pets.SizeMini:
		p = s.Prices.Mini
	case pets.SizeSmall:
		p = s.Prices.Small
	case pets.SizeMedium:
		p = s.Prices.Medium
	case pets.SizeLarge:
		p = s.Prices.Large
	case pets.SizeGiant:
		p = s.Prices.Giant
	}
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

// DurationMinutes returns the stored duration for a size tier. Zero means the
// tier has no usable value; callers apply their own fallback.
func (s *Service) DurationMinutes(size pets.Size) int {
	switch size {
	case pets.SizeMini:
		return s.Durations.Mini
	case pets.SizeSmall:
		return s.Durations.Small
	case pets.SizeMedium:
		return s.Durations.Medium
	case pets.SizeLarge:
		return s.Durations.Large
	case pets.SizeGiant:
		return s.Durations.Giant
	}
	return 0
}

// Input carries the editable service fields.
type Input struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Active      *bool         `json:"active"`
	Prices      TierPrices    `json:"prices"`
	Durations   TierDurations `json:"durations"`
}

// applyDefaults fills missing durations with the per-tier defaults.
func (in *Input) applyDefaults() {
	if in.Durations.Mini <= 0 {
		in.Durations.Mini = DefaultDurationMini
	}
	if in.Durations.Small <= 0 {
		in.Durations.Small = DefaultDurationSmall
	}
	if in.Durations.Medium <= 0 {
		in.Durations.Medium = DefaultDurationMedium
	}
	if in.Durations.Large <= 0 {
		in.Durations.Large = DefaultDurationLarge
	}
	if in.Durations.Giant <= 0 {
		in.Durations.Giant = DefaultDurationGiant
	}
}
