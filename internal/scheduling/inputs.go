package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// CreateInput is the validated payload for booking an appointment.
type CreateInput struct {
	PetID        uuid.UUID  `json:"pet_id"`
	ClientID     uuid.UUID  `json:"client_id"`
	ServiceID    uuid.UUID  `json:"service_id"`
	StartTime    time.Time  `json:"start_time"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
	Notes        *string    `json:"notes"`
	// PriceCents overrides the resolved tier price when set and positive.
	PriceCents *int64 `json:"price_cents"`
}

// Validate checks required selections and value ranges.
func (in CreateInput) Validate() error {
	fields := map[string]string{}
	if in.PetID == uuid.Nil {
		fields["pet_id"] = "select a pet"
	}
	if in.ClientID == uuid.Nil {
		fields["client_id"] = "select a client"
	}
	if in.ServiceID == uuid.Nil {
		fields["service_id"] = "select a service"
	}
	if in.StartTime.IsZero() {
		fields["start_time"] = "select a date and time"
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		fields["price_cents"] = "price must be zero or greater"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// UpdateInput extends CreateInput with the fields only the privileged edit
// path may change.
type UpdateInput struct {
	CreateInput
	Status        *Status `json:"status"`
	Paid          *bool   `json:"paid"`
	PaymentMethod *string `json:"payment_method"`
}

// Validate checks the base fields plus the status value.
func (in UpdateInput) Validate() error {
	err := in.CreateInput.Validate()
	if in.Status != nil && !in.Status.Valid() {
		ve, ok := err.(*ValidationError)
		if !ok {
			ve = &ValidationError{Fields: map[string]string{}}
		}
		ve.Fields["status"] = "unknown status"
		return ve
	}
	return err
}
