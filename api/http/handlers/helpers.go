package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rkotari/benchtrack/api/http/presenter"
	"github.com/rkotari/benchtrack/pkg/auth"
	"github.com/rkotari/benchtrack/pkg/candidate"
	"github.com/rkotari/benchtrack/pkg/document"
	"github.com/rkotari/benchtrack/pkg/employee"
	"github.com/rkotari/benchtrack/pkg/filestore"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *candidate.ValidationError
	var sErr *candidate.StorageError
	switch {
	case errors.Is(err, candidate.ErrNotFound),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, employee.ErrNotFound),
		errors.Is(err, candidate.ErrConsultantNotFound),
		errors.Is(err, candidate.ErrUserNotFound),
		errors.Is(err, candidate.ErrNoResume),
		errors.Is(err, auth.ErrNotFound),
		errors.Is(err, filestore.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &vErr):
		return presenter.Error(c, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &sErr):
		return presenter.Error(c, http.StatusInternalServerError, sErr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// actorID extracts the authenticated user id set by the JWT middleware.
func actorID(c *fiber.Ctx) (uuid.UUID, error) {
	idStr, _ := c.Locals("userId").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unresolved user identity")
	}
	return id, nil
}

// readAtMost reads the whole stream, rejecting payloads over the limit.
func readAtMost(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file")
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds the %d byte limit", maxBytes)
	}
	return data, nil
}

// readUpload converts one multipart file header into a document upload.
func readUpload(fh *multipart.FileHeader, maxBytes int64) (document.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return document.Upload{}, fmt.Errorf("failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, maxBytes)
	if err != nil {
		return document.Upload{}, err
	}
	return document.Upload{
		Data:             data,
		OriginalFilename: fh.Filename,
		Size:             fh.Size,
		ContentType:      fh.Header.Get("Content-Type"),
	}, nil
}
