package pets

import (
	"time"

	"github.com/google/uuid"
)

// Species of a pet.
type Species string

const (
	SpeciesDog   Species = "DOG"
	SpeciesCat   Species = "CAT"
	SpeciesOther Species = "OTHER"
)

// Valid reports whether the species is one of the known values.
func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return true
	}
	return false
}

// Size tier drives service duration and price.
type Size string

const (
	SizeMini   Size = "MINI"
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
	SizeGiant  Size = "GIANT"
)

// Valid reports whether the size is one of the five tiers.
func (s Size) Valid() bool {
	switch s {
	case SizeMini, SizeSmall, SizeMedium, SizeLarge, SizeGiant:
		return true
	}
	return false
}

// Pet belongs to one client and one organization.
type Pet struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	ClientID       uuid.UUID  `json:"client_id"`
	Name           string     `json:"name"`
	Species        Species    `json:"species"`
	Size           Size       `json:"size"`
	Breed          *string    `json:"breed,omitempty"`
	WeightKg       *float64   `json:"weight_kg,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         *string    `json:"gender,omitempty"`
	Color          *string    `json:"color,omitempty"`
	MedicalNotes   *string    `json:"medical_notes,omitempty"`
	BehaviorNotes  *string    `json:"behavior_notes,omitempty"`
	PhotoURL       *string    `json:"photo_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Input carries the editable pet fields.
type Input struct {
	ClientID      uuid.UUID  `json:"client_id"`
	Name          string     `json:"name"`
	Species       Species    `json:"species"`
	Size          Size       `json:"size"`
	Breed         *string    `json:"breed"`
	WeightKg      *float64   `json:"weight_kg"`
	BirthDate     *time.Time `json:"birth_date"`
	Gender        *string    `json:"gender"`
	Color         *string    `json:"color"`
	MedicalNotes  *string    `json:"medical_notes"`
	BehaviorNotes *string    `json:"behavior_notes"`
	PhotoURL      *string    `json:"photo_url"`
}
