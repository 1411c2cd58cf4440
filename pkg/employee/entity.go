package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an employee id does not resolve.
var ErrNotFound = errors.New("employee not found")

// Employee is an internal consultant who can be assigned to a bench candidate.
type Employee struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email,omitempty"`
	Title    string    `json:"title,omitempty"`
}

// Directory is the read-side port for employee lookups.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (Employee, error)
}
