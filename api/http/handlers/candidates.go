package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rkotari/benchtrack/api/http/presenter"
	"github.com/rkotari/benchtrack/pkg/candidate"
	"github.com/rkotari/benchtrack/pkg/document"
)

type CandidateHandler struct {
	uc       candidate.UseCase
	maxBytes int64
}

func NewCandidateHandler(uc candidate.UseCase, maxUploadMB int) *CandidateHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 15
	}
	return &CandidateHandler{uc: uc, maxBytes: int64(maxUploadMB) << 20}
}

// parseInput maps the multipart form fields onto the candidate payload.
func parseInput(c *fiber.Ctx) (candidate.Input, error) {
	in := candidate.Input{
		FirstName:            strings.TrimSpace(c.FormValue("firstName")),
		MiddleName:           strings.TrimSpace(c.FormValue("middleName")),
		LastName:             strings.TrimSpace(c.FormValue("lastName")),
		FullName:             strings.TrimSpace(c.FormValue("fullName")),
		PhoneNumber:          strings.TrimSpace(c.FormValue("phoneNumber")),
		Email:                strings.TrimSpace(c.FormValue("email")),
		PassportNumber:       strings.TrimSpace(c.FormValue("passportNumber")),
		CountryOfCitizenship: strings.TrimSpace(c.FormValue("countryOfCitizenship")),
		LinkedinURL:          strings.TrimSpace(c.FormValue("linkedinUrl")),
		Address1:             strings.TrimSpace(c.FormValue("address1")),
		Address2:             strings.TrimSpace(c.FormValue("address2")),
		City:                 strings.TrimSpace(c.FormValue("city")),
		State:                strings.TrimSpace(c.FormValue("state")),
		Country:              strings.TrimSpace(c.FormValue("country")),
		OtherVisaStatus:      strings.TrimSpace(c.FormValue("otherVisaStatus")),
		StartDate:            c.FormValue("startDate"),
		EndDate:              c.FormValue("endDate"),
		PrimarySkill:         strings.TrimSpace(c.FormValue("primarySkill")),
		OtherPrimarySkill:    strings.TrimSpace(c.FormValue("otherPrimarySkill")),
		AdditionalSkills:     strings.TrimSpace(c.FormValue("additionalSkills")),
		Notes:                strings.TrimSpace(c.FormValue("notes")),
	}
	// The status string passes through so validation can flag unknown values.
	in.VisaStatus = candidate.VisaStatus(strings.ToUpper(strings.TrimSpace(c.FormValue("visaStatus"))))

	if v := strings.TrimSpace(c.FormValue("experienceYears")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("experienceYears must be an integer")
		}
		in.ExperienceYears = n
	}
	if v := strings.TrimSpace(c.FormValue("targetRate")); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return in, fmt.Errorf("targetRate must be a decimal number")
		}
		in.TargetRate = rate
	}
	if v := strings.TrimSpace(c.FormValue("assignedConsultantId")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, fmt.Errorf("assignedConsultantId must be a UUID")
		}
		in.AssignedConsultantID = &id
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals := form.Value["domains"]; len(vals) > 1 {
			in.Domains = vals
		} else if len(vals) == 1 && strings.TrimSpace(vals[0]) != "" {
			in.Domains = strings.Split(vals[0], ",")
		}
	}
	return in, nil
}

// formUploads collects the (file, declaredType) pairs from the form.
func (h *CandidateHandler) formUploads(c *fiber.Ctx) ([]document.Upload, []string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil, nil
	}
	var uploads []document.Upload
	for _, fh := range form.File["documents"] {
		up, err := readUpload(fh, h.maxBytes)
		if err != nil {
			return nil, nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, form.Value["documentTypes"], nil
}

// Create registers a new bench candidate with optional documents.
// @Summary Create bench candidate
// @Tags    candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   documents formData file false "Documents, paired with documentTypes"
// @Security BearerAuth
// @Success 201 {object} candidate.Candidate
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates [post]
func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, err.Error())
	}
	in, err := parseInput(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	uploads, declaredTypes, err := h.formUploads(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	created, err := h.uc.Create(c.Context(), in, uploads, declaredTypes, actor)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, created)
}

// List returns a page of candidates ordered by creation time descending.
// @Summary List bench candidates
// @Tags    candidates
// @Produce json
// @Param   page query int false "zero-based page index"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} candidate.Page
// @Router  /candidates [get]
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	page, err := h.uc.List(c.Context(), parsePageRequest(c, 10))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, page)
}

// Search filters candidates by optional predicates combined with AND.
// @Summary Search bench candidates
// @Tags    candidates
// @Produce json
// @Param   fullName query string false "partial, case-insensitive"
// @Param   visaStatus query string false "exact match"
// @Param   primarySkill query string false "partial"
// @Param   state query string false "partial"
// @Param   assignedConsultantName query string false "partial"
// @Security BearerAuth
// @Success 200 {object} candidate.Page
// @Router  /candidates/search [get]
func (h *CandidateHandler) Search(c *fiber.Ctx) error {
	f := candidate.Filters{
		FullName:       c.Query("fullName"),
		PrimarySkill:   c.Query("primarySkill"),
		State:          c.Query("state"),
		ConsultantName: c.Query("assignedConsultantName"),
	}
	if v := strings.TrimSpace(c.Query("visaStatus")); v != "" {
		status, ok := candidate.ParseVisaStatus(v)
		if !ok {
			return presenter.Error(c, http.StatusBadRequest, "unknown visa status")
		}
		f.VisaStatus = status
	}
	page, err := h.uc.Search(c.Context(), f, parsePageRequest(c, 10))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, page)
}

// GetByID returns one candidate.
// @Summary Get bench candidate
// @Tags    candidates
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Security BearerAuth
// @Success 200 {object} candidate.Candidate
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [get]
func (h *CandidateHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	found, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, found)
}

// Update overwrites every mutable field and ingests any new documents.
// @Summary Update bench candidate
// @Tags    candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "candidate id (UUID)"
// @Security BearerAuth
// @Success 200 {object} candidate.Candidate
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [put]
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	in, err := parseInput(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	uploads, declaredTypes, err := h.formUploads(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	updated, err := h.uc.Update(c.Context(), id, in, uploads, declaredTypes)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, updated)
}

// Delete removes a candidate with all documents and blobs.
// @Summary Delete bench candidate
// @Tags    candidates
// @Param   id path string true "candidate id (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "bench candidate deleted"})
}

// BulkDelete removes several candidates; ids is a comma-separated list.
// @Summary Delete several bench candidates
// @Tags    candidates
// @Param   ids query string true "comma-separated candidate ids"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /candidates/bulk [delete]
func (h *CandidateHandler) BulkDelete(c *fiber.Ctx) error {
	raw := strings.Split(c.Query("ids"), ",")
	var ids []uuid.UUID
	for _, s := range raw {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid id: "+s)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "ids are required")
	}
	for _, id := range ids {
		if err := h.uc.Delete(c.Context(), id); err != nil {
			return respondError(c, err)
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"deleted": len(ids)})
}

// ByConsultant lists candidates assigned to one consultant.
// @Summary Candidates by consultant
// @Tags    candidates
// @Produce json
// @Param   employeeId path string true "employee id (UUID)"
// @Security BearerAuth
// @Success 200 {array} candidate.Candidate
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/consultant/{employeeId} [get]
func (h *CandidateHandler) ByConsultant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("employeeId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid employee id")
	}
	items, err := h.uc.ByConsultant(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []candidate.Candidate{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Recent returns the most recently created candidates.
// @Summary Recent bench candidates
// @Tags    candidates
// @Produce json
// @Param   limit query int false "max items, default 5"
// @Security BearerAuth
// @Success 200 {array} candidate.Candidate
// @Router  /candidates/recent [get]
func (h *CandidateHandler) Recent(c *fiber.Ctx) error {
	items, err := h.uc.Recent(c.Context(), parseLimit(c, 5))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []candidate.Candidate{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Count returns the total number of candidates.
// @Summary Count bench candidates
// @Tags    candidates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /candidates/count [get]
func (h *CandidateHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"count": n})
}

// DownloadResume serves the legacy single-resume file.
// @Summary Download legacy resume
// @Tags    candidates
// @Produce application/octet-stream
// @Param   id path string true "candidate id (UUID)"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/resume [get]
func (h *CandidateHandler) DownloadResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	data, found, err := h.uc.ResumeFile(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	filename := found.ResumeFilename
	if filename == "" {
		filename = "resume.pdf"
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	return c.Send(data)
}
