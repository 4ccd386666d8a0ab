package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Status of an appointment.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Blocking reports whether an appointment in this status occupies its time
// slot. CANCELLED and COMPLETED free the slot; NO_SHOW deliberately does not,
// so the team has to clear no-shows by hand before rebooking the slot.
func (s Status) Blocking() bool {
	return s != StatusCancelled && s != StatusCompleted
}

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
	PaymentVoucher    PaymentMethod = "VOUCHER"
)

// ParsePaymentMethod returns the method, or nil for empty or unrecognized
// values. Unknown methods are coerced to "no method" rather than rejected.
func ParsePaymentMethod(s string) *PaymentMethod {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentPix, PaymentVoucher:
		m := PaymentMethod(s)
		return &m
	default:
		return nil
	}
}

// Appointment is a booked time slot for one pet and one service.
type Appointment struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	PetID          uuid.UUID      `json:"pet_id"`
	ClientID       uuid.UUID      `json:"client_id"`
	ServiceID      uuid.UUID      `json:"service_id"`
	AssignedToID   *uuid.UUID     `json:"assigned_to_id,omitempty"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	PriceCents     int64          `json:"price_cents"`
	Notes          *string        `json:"notes,omitempty"`
	Status         Status         `json:"status"`
	Paid           bool           `json:"paid"`
	PaymentMethod  *PaymentMethod `json:"payment_method,omitempty"`
	ReminderSentAt *time.Time     `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap, so back-to-back bookings are allowed.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
