package candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors used by the repository and use case.
var (
	ErrNotFound           = errors.New("bench candidate not found")
	ErrConsultantNotFound = errors.New("consultant not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoResume           = errors.New("no resume file for candidate")
)

// ValidationError reports a payload field that fails an invariant. It is
// returned before any persistence write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// StorageError wraps a blob-store failure with the offending original
// filename.
type StorageError struct {
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store document %q: %v", e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Filters are the independently-optional search predicates, combined
// with AND. Blank fields impose no constraint. FullName, PrimarySkill,
// State and ConsultantName match partially and case-insensitively;
// VisaStatus matches exactly.
type Filters struct {
	FullName       string
	VisaStatus     VisaStatus
	PrimarySkill   string
	State          string
	ConsultantName string
}

// PageRequest is zero-based offset/limit pagination.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Size
}

// Page is one page of search results with total-count metadata.
type Page struct {
	Items []Candidate `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// Repository is the persistence port for bench candidates.
// FindPage returns candidates matching the filters ordered by creation
// time descending; implementations must return an empty page, not an
// error, when nothing matches.
type Repository interface {
	Save(ctx context.Context, c Candidate) (Candidate, error)
	FindByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	FindPage(ctx context.Context, f Filters, p PageRequest) (Page, error)
	FindByConsultant(ctx context.Context, employeeID uuid.UUID) ([]Candidate, error)
	FindRecent(ctx context.Context, limit int) ([]Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
