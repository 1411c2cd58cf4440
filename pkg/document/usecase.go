package document

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rkotari/benchtrack/pkg/auth"
	"github.com/rkotari/benchtrack/pkg/filestore"
)

// Upload is one incoming file payload.
type Upload struct {
	Data             []byte
	OriginalFilename string
	Size             int64
	ContentType      string
}

// Empty reports whether the upload carries no content.
func (u Upload) Empty() bool {
	return u.Size == 0 && len(u.Data) == 0
}

// Candidates confirms candidate existence. Declared here because the
// candidate package depends on this one.
type Candidates interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// UseCase describes document lifecycle operations for one candidate.
type UseCase interface {
	Attach(ctx context.Context, candidateID uuid.UUID, up Upload, declaredType string, actorID uuid.UUID) (Document, error)
	UploadSingle(ctx context.Context, candidateID uuid.UUID, up Upload, actorID uuid.UUID) (Document, error)
	List(ctx context.Context, candidateID uuid.UUID) ([]Document, error)
	Download(ctx context.Context, candidateID, documentID uuid.UUID) ([]byte, Document, error)
	Delete(ctx context.Context, candidateID, documentID uuid.UUID) error
	GetMetadata(ctx context.Context, candidateID, documentID uuid.UUID) (Document, error)
}

type service struct {
	docs       Store
	blobs      filestore.Store
	candidates Candidates
	users      auth.UserRepository
}

// NewService returns the default implementation of UseCase.
func NewService(docs Store, blobs filestore.Store, candidates Candidates, users auth.UserRepository) UseCase {
	return &service{docs: docs, blobs: blobs, candidates: candidates, users: users}
}

// Attach stores the blob and records a document of the declared type.
// Unrecognized declared types fall back to OTHER. The caller is expected
// to have resolved the candidate and actor already.
func (s *service) Attach(ctx context.Context, candidateID uuid.UUID, up Upload, declaredType string, actorID uuid.UUID) (Document, error) {
	key, err := s.blobs.Put(ctx, up.Data, up.OriginalFilename)
	if err != nil {
		return Document{}, fmt.Errorf("store blob: %w", err)
	}
	doc := Document{
		ID:               uuid.New(),
		CandidateID:      candidateID,
		Filename:         key,
		OriginalFilename: up.OriginalFilename,
		FilePath:         key,
		FileSize:         up.Size,
		ContentType:      up.ContentType,
		Type:             ParseType(declaredType),
		UploadedAt:       time.Now().UTC(),
		UploadedBy:       actorID,
	}
	return s.docs.Save(ctx, doc)
}

// UploadSingle is the auto-classify path: the type is inferred from the
// original filename instead of being supplied by the caller.
func (s *service) UploadSingle(ctx context.Context, candidateID uuid.UUID, up Upload, actorID uuid.UUID) (Document, error) {
	if err := s.candidates.Exists(ctx, candidateID); err != nil {
		return Document{}, err
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return Document{}, err
	}
	return s.Attach(ctx, candidateID, up, string(Classify(up.OriginalFilename)), actor.ID)
}

func (s *service) List(ctx context.Context, candidateID uuid.UUID) ([]Document, error) {
	return s.docs.FindByCandidate(ctx, candidateID)
}

func (s *service) Download(ctx context.Context, candidateID, documentID uuid.UUID) ([]byte, Document, error) {
	doc, err := s.docs.FindByCandidateAndID(ctx, candidateID, documentID)
	if err != nil {
		return nil, Document{}, err
	}
	data, err := s.blobs.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, Document{}, err
	}
	return data, doc, nil
}

// Delete removes the blob, then the record. A blob-store failure is
// logged and does not block record deletion.
func (s *service) Delete(ctx context.Context, candidateID, documentID uuid.UUID) error {
	doc, err := s.docs.FindByCandidateAndID(ctx, candidateID, documentID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, doc.FilePath); err != nil {
		log.Printf("delete blob %s: %v", doc.FilePath, err)
	}
	return s.docs.Delete(ctx, candidateID, documentID)
}

func (s *service) GetMetadata(ctx context.Context, candidateID, documentID uuid.UUID) (Document, error) {
	return s.docs.FindByCandidateAndID(ctx, candidateID, documentID)
}
