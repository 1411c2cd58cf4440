package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors used by the document use case and its stores.
var ErrNotFound = errors.New("document not found")

// Type classifies a candidate document.
type Type string

const (
	TypeI94        Type = "I94"
	TypePassport   Type = "PASSPORT"
	TypeResume     Type = "RESUME"
	TypeVisa       Type = "VISA_DOCUMENT"
	TypeEAD        Type = "EAD"
	TypeSSN        Type = "SSN"
	TypeDiploma    Type = "DIPLOMA"
	TypeTranscript Type = "TRANSCRIPT"
	TypeOther      Type = "OTHER"
)

var typeDisplayNames = map[Type]string{
	TypeI94:        "I-94 Document",
	TypePassport:   "Passport",
	TypeResume:     "Resume/CV",
	TypeVisa:       "Visa Document",
	TypeEAD:        "EAD Card",
	TypeSSN:        "SSN Card",
	TypeDiploma:    "Diploma/Degree",
	TypeTranscript: "Transcript",
	TypeOther:      "Other",
}

// DisplayName returns the human-readable label for the type.
func (t Type) DisplayName() string {
	if name, ok := typeDisplayNames[t]; ok {
		return name
	}
	return typeDisplayNames[TypeOther]
}

// ParseType maps a caller-supplied string onto a known type.
// Unrecognized values resolve to TypeOther.
func ParseType(s string) Type {
	t := Type(s)
	if _, ok := typeDisplayNames[t]; ok {
		return t
	}
	return TypeOther
}

// Document holds the metadata of one uploaded file belonging to a candidate.
// The blob itself lives in the file store under Filename; FilePath mirrors
// the storage key.
type Document struct {
	ID               uuid.UUID `json:"id"`
	CandidateID      uuid.UUID `json:"candidateId"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	FilePath         string    `json:"filePath"`
	FileSize         int64     `json:"fileSize"`
	ContentType      string    `json:"contentType"`
	Type             Type      `json:"documentType"`
	UploadedAt       time.Time `json:"uploadedAt"`
	UploadedBy       uuid.UUID `json:"uploadedBy,omitempty"`
	Description      string    `json:"description,omitempty"`
	IsVerified       bool      `json:"isVerified"`
}

// Store is the persistence port for document records.
// FindByCandidate returns documents ordered by upload time descending.
type Store interface {
	Save(ctx context.Context, d Document) (Document, error)
	FindByCandidateAndID(ctx context.Context, candidateID, id uuid.UUID) (Document, error)
	FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Document, error)
	DeleteByCandidate(ctx context.Context, candidateID uuid.UUID) error
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}
