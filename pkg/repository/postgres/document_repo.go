package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkotari/benchtrack/pkg/document"
)

// DocumentRepository stores candidate document metadata.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) (*DocumentRepository, error) {
	r := &DocumentRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DocumentRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS candidate_documents (
	id UUID PRIMARY KEY,
	candidate_id UUID NOT NULL,
	filename TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	document_type TEXT NOT NULL DEFAULT 'OTHER',
	uploaded_at TIMESTAMPTZ NOT NULL,
	uploaded_by UUID,
	description TEXT NOT NULL DEFAULT '',
	is_verified BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_candidate_documents_candidate ON candidate_documents(candidate_id, uploaded_at DESC);
`)
	return err
}

const documentColumns = `
id, candidate_id, filename, original_filename, file_path, file_size,
content_type, document_type, uploaded_at, uploaded_by, description, is_verified`

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	var docType string
	var uploadedBy *uuid.UUID
	var uploadedAt time.Time
	err := row.Scan(
		&d.ID, &d.CandidateID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize,
		&d.ContentType, &docType, &uploadedAt, &uploadedBy, &d.Description, &d.IsVerified,
	)
	if err != nil {
		return document.Document{}, err
	}
	d.Type = document.Type(docType)
	if uploadedBy != nil {
		d.UploadedBy = *uploadedBy
	}
	d.UploadedAt = uploadedAt.UTC()
	return d, nil
}

func (r *DocumentRepository) Save(ctx context.Context, d document.Document) (document.Document, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	var uploadedBy *uuid.UUID
	if d.UploadedBy != uuid.Nil {
		uploadedBy = &d.UploadedBy
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO candidate_documents (`+documentColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`, d.ID, d.CandidateID, d.Filename, d.OriginalFilename, d.FilePath, d.FileSize,
		d.ContentType, string(d.Type), d.UploadedAt, uploadedBy, d.Description, d.IsVerified)
	if err != nil {
		return document.Document{}, err
	}
	return d, nil
}

func (r *DocumentRepository) FindByCandidateAndID(ctx context.Context, candidateID, id uuid.UUID) (document.Document, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+documentColumns+` FROM candidate_documents
WHERE id = $1 AND candidate_id = $2
`, id, candidateID)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}
	return d, nil
}

func (r *DocumentRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]document.Document, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+documentColumns+` FROM candidate_documents
WHERE candidate_id = $1
ORDER BY uploaded_at DESC
`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *DocumentRepository) DeleteByCandidate(ctx context.Context, candidateID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM candidate_documents WHERE candidate_id = $1`, candidateID)
	return err
}

func (r *DocumentRepository) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM candidate_documents WHERE id = $1 AND candidate_id = $2
`, id, candidateID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}
