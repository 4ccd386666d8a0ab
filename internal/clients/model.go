package clients

import (
	"time"

	"github.com/google/uuid"
)

// Client is a pet owner within one organization.
type Client struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	CPF            *string   `json:"cpf,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	PetCount       int       `json:"pet_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Input carries the editable client fields.
type Input struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	CPF     *string `json:"cpf"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}
