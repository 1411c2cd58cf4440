package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a staffing-agency system user. Candidate and document records
// reference users for audit attribution.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
