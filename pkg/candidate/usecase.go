package candidate

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rkotari/benchtrack/pkg/auth"
	"github.com/rkotari/benchtrack/pkg/document"
	"github.com/rkotari/benchtrack/pkg/employee"
	"github.com/rkotari/benchtrack/pkg/filestore"
)

// Input carries every mutable candidate field. Create and Update apply
// it with full-replace semantics: blank optional fields clear the
// stored value. Dates arrive as free text and are parsed leniently.
type Input struct {
	FirstName            string
	MiddleName           string
	LastName             string
	FullName             string
	PhoneNumber          string
	Email                string
	PassportNumber       string
	CountryOfCitizenship string
	LinkedinURL          string

	Address1 string
	Address2 string
	City     string
	State    string
	Country  string

	VisaStatus      VisaStatus
	OtherVisaStatus string
	StartDate       string
	EndDate         string

	PrimarySkill      string
	OtherPrimarySkill string
	AdditionalSkills  string
	ExperienceYears   int
	Domains           []string

	TargetRate           decimal.Decimal
	AssignedConsultantID *uuid.UUID
	Notes                string
}

// UseCase describes the candidate lifecycle and retrieval operations.
type UseCase interface {
	Create(ctx context.Context, in Input, uploads []document.Upload, declaredTypes []string, actorID uuid.UUID) (Candidate, error)
	Update(ctx context.Context, id uuid.UUID, in Input, uploads []document.Upload, declaredTypes []string) (Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	List(ctx context.Context, p PageRequest) (Page, error)
	Search(ctx context.Context, f Filters, p PageRequest) (Page, error)
	ByConsultant(ctx context.Context, employeeID uuid.UUID) ([]Candidate, error)
	Recent(ctx context.Context, limit int) ([]Candidate, error)
	Count(ctx context.Context) (int64, error)
	ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, Candidate, error)
}

type service struct {
	repo      Repository
	docSvc    document.UseCase
	docs      document.Store
	blobs     filestore.Store
	employees employee.Directory
	users     auth.UserRepository
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, docSvc document.UseCase, docs document.Store, blobs filestore.Store, employees employee.Directory, users auth.UserRepository) UseCase {
	return &service{
		repo:      repo,
		docSvc:    docSvc,
		docs:      docs,
		blobs:     blobs,
		employees: employees,
		users:     users,
	}
}

// applyInput overwrites every mutable field from the payload.
func applyInput(c *Candidate, in Input) {
	c.FirstName = in.FirstName
	c.MiddleName = in.MiddleName
	c.LastName = in.LastName
	c.FullName = in.FullName
	c.PhoneNumber = in.PhoneNumber
	c.Email = in.Email
	c.PassportNumber = in.PassportNumber
	c.CountryOfCitizenship = in.CountryOfCitizenship
	c.LinkedinURL = in.LinkedinURL

	c.Address1 = in.Address1
	c.Address2 = in.Address2
	c.City = in.City
	c.State = in.State
	c.Country = in.Country

	c.VisaStatus = in.VisaStatus
	c.OtherVisaStatus = in.OtherVisaStatus
	c.StartDate = parseOptionalDate(in.StartDate)
	c.EndDate = parseOptionalDate(in.EndDate)

	c.PrimarySkill = in.PrimarySkill
	c.OtherPrimarySkill = in.OtherPrimarySkill
	c.AdditionalSkills = in.AdditionalSkills
	c.ExperienceYears = in.ExperienceYears
	c.SetDomainList(in.Domains)

	c.TargetRate = in.TargetRate
	c.Notes = in.Notes
}

// resolveConsultant fills the assignment fields, or clears them when no
// consultant id is supplied.
func (s *service) resolveConsultant(ctx context.Context, c *Candidate, id *uuid.UUID) error {
	if id == nil {
		c.AssignedConsultantID = nil
		c.AssignedConsultantName = ""
		return nil
	}
	emp, err := s.employees.FindByID(ctx, *id)
	if err != nil {
		return ErrConsultantNotFound
	}
	c.AssignedConsultantID = &emp.ID
	c.AssignedConsultantName = emp.FullName
	return nil
}

// ingest attaches the (upload, declaredType) pairs taken pairwise up to
// the shorter list; extras are silently ignored, as are empty files and
// blank declared types. When setLegacyResume is true, the first attached
// RESUME document populates the legacy resume pointer if it is still
// unset; the update path intentionally never does this, so a resume
// uploaded after creation without one leaves the pointer empty.
func (s *service) ingest(ctx context.Context, c *Candidate, uploads []document.Upload, declaredTypes []string, actorID uuid.UUID, setLegacyResume bool) error {
	n := min(len(uploads), len(declaredTypes))
	for i := 0; i < n; i++ {
		up := uploads[i]
		declared := strings.TrimSpace(declaredTypes[i])
		if up.Empty() || declared == "" {
			continue
		}
		doc, err := s.docSvc.Attach(ctx, c.ID, up, declared, actorID)
		if err != nil {
			return &StorageError{Filename: up.OriginalFilename, Err: err}
		}
		if setLegacyResume && c.ResumeFilename == "" && doc.Type == document.TypeResume {
			c.ResumeFilename = up.OriginalFilename
			c.ResumePath = doc.Filename
			c.UpdatedAt = time.Now().UTC()
			saved, err := s.repo.Save(ctx, *c)
			if err != nil {
				return err
			}
			*c = saved
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, in Input, uploads []document.Upload, declaredTypes []string, actorID uuid.UUID) (Candidate, error) {
	c := Candidate{ID: uuid.New()}
	applyInput(&c, in)
	c.Normalize()
	if err := c.Validate(); err != nil {
		return Candidate{}, err
	}
	if err := s.resolveConsultant(ctx, &c, in.AssignedConsultantID); err != nil {
		return Candidate{}, err
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return Candidate{}, ErrUserNotFound
	}
	c.CreatedBy = actor.ID

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return Candidate{}, err
	}
	if err := s.ingest(ctx, &saved, uploads, declaredTypes, actor.ID, true); err != nil {
		// The candidate and any documents attached before the failure
		// stay persisted; each document in a batch is independent.
		return Candidate{}, err
	}
	return saved, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input, uploads []document.Upload, declaredTypes []string) (Candidate, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	applyInput(&c, in)
	c.Normalize()
	if err := c.Validate(); err != nil {
		return Candidate{}, err
	}
	if err := s.resolveConsultant(ctx, &c, in.AssignedConsultantID); err != nil {
		return Candidate{}, err
	}
	c.UpdatedAt = time.Now().UTC()
	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return Candidate{}, err
	}
	// Uploads on the update path are attributed to the candidate's creator.
	if err := s.ingest(ctx, &saved, uploads, declaredTypes, saved.CreatedBy, false); err != nil {
		return Candidate{}, err
	}
	return saved, nil
}

// Delete cascades: every owned document's blob is deleted best-effort,
// then the document records, then the legacy resume blob, then the
// candidate record. A failing blob delete is logged and never blocks
// the remaining deletions.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	docs, err := s.docs.FindByCandidate(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.blobs.Delete(ctx, d.FilePath); err != nil {
			log.Printf("delete blob %s for candidate %s: %v", d.FilePath, id, err)
		}
	}
	if err := s.docs.DeleteByCandidate(ctx, id); err != nil {
		return err
	}
	if c.ResumePath != "" {
		if err := s.blobs.Delete(ctx, c.ResumePath); err != nil {
			log.Printf("delete legacy resume blob %s for candidate %s: %v", c.ResumePath, id, err)
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, p PageRequest) (Page, error) {
	return s.Search(ctx, Filters{}, p)
}

func (s *service) Search(ctx context.Context, f Filters, p PageRequest) (Page, error) {
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return s.repo.FindPage(ctx, f, p)
}

func (s *service) ByConsultant(ctx context.Context, employeeID uuid.UUID) ([]Candidate, error) {
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, ErrConsultantNotFound
	}
	return s.repo.FindByConsultant(ctx, employeeID)
}

func (s *service) Recent(ctx context.Context, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.FindRecent(ctx, limit)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ResumeFile serves the legacy single-resume download.
func (s *service) ResumeFile(ctx context.Context, id uuid.UUID) ([]byte, Candidate, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, Candidate{}, err
	}
	if c.ResumePath == "" {
		return nil, Candidate{}, ErrNoResume
	}
	data, err := s.blobs.Get(ctx, c.ResumePath)
	if err != nil {
		return nil, Candidate{}, err
	}
	return data, c, nil
}
