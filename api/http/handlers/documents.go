package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rkotari/benchtrack/api/http/presenter"
	"github.com/rkotari/benchtrack/pkg/document"
)

type DocumentHandler struct {
	uc       document.UseCase
	maxBytes int64
}

func NewDocumentHandler(uc document.UseCase, maxUploadMB int) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 15
	}
	return &DocumentHandler{uc: uc, maxBytes: int64(maxUploadMB) << 20}
}

func candidateParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// List returns all documents of a candidate, newest first.
// @Summary List candidate documents
// @Tags    documents
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Security BearerAuth
// @Success 200 {array} document.Document
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	docs, err := h.uc.List(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return presenter.JSON(c, http.StatusOK, docs)
}

// Upload stores one file for a candidate; the type is inferred from the
// original filename.
// @Summary Upload a document
// @Tags    documents
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Param   file formData file true "document file"
// @Security BearerAuth
// @Success 201 {object} document.Document
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	actor, err := actorID(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, err.Error())
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required")
	}
	up, err := readUpload(fh, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	doc, err := h.uc.UploadSingle(c.Context(), id, up, actor)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, doc)
}

// UploadBatch stores several files at once, pairing them with the
// declared documentTypes values by position.
// @Summary Upload several documents
// @Tags    documents
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Param   documents formData file true "document files"
// @Security BearerAuth
// @Success 201 {array} document.Document
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents/batch [post]
func (h *DocumentHandler) UploadBatch(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	actor, err := actorID(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, err.Error())
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil || len(form.File["documents"]) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "documents are required")
	}
	files := form.File["documents"]
	declaredTypes := form.Value["documentTypes"]

	saved := make([]document.Document, 0, len(files))
	for i, fh := range files {
		if i >= len(declaredTypes) {
			break
		}
		up, err := readUpload(fh, h.maxBytes)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		if up.Empty() || strings.TrimSpace(declaredTypes[i]) == "" {
			continue
		}
		doc, err := h.uc.Attach(c.Context(), id, up, declaredTypes[i], actor)
		if err != nil {
			return respondError(c, err)
		}
		saved = append(saved, doc)
	}
	return presenter.JSON(c, http.StatusCreated, saved)
}

// Download serves the stored file of one document.
// @Summary Download a document
// @Tags    documents
// @Produce application/octet-stream
// @Param   id path string true "candidate id (UUID)"
// @Param   docId path string true "document id (UUID)"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents/{docId} [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	docID, err := uuid.Parse(c.Params("docId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid document id")
	}
	data, doc, err := h.uc.Download(c.Context(), id, docID)
	if err != nil {
		return respondError(c, err)
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// GetInfo returns the metadata of one document without its content.
// @Summary Document metadata
// @Tags    documents
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Param   docId path string true "document id (UUID)"
// @Security BearerAuth
// @Success 200 {object} document.Document
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents/{docId}/info [get]
func (h *DocumentHandler) GetInfo(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	docID, err := uuid.Parse(c.Params("docId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid document id")
	}
	doc, err := h.uc.GetMetadata(c.Context(), id, docID)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, doc)
}

// Delete removes the document record and its stored file.
// @Summary Delete a document
// @Tags    documents
// @Param   id path string true "candidate id (UUID)"
// @Param   docId path string true "document id (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/documents/{docId} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := candidateParam(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	docID, err := uuid.Parse(c.Params("docId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid document id")
	}
	if err := h.uc.Delete(c.Context(), id, docID); err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "document deleted"})
}
