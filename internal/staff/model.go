package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
)

// User is a staff member of an organization.
type User struct {
	ID             uuid.UUID    `json:"id"`
	OrganizationID uuid.UUID    `json:"organization_id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Role           tenancy.Role `json:"role"`
	Active         bool         `json:"active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Input carries the editable staff fields.
type Input struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  tenancy.Role `json:"role"`
}
