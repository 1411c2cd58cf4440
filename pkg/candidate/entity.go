package candidate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VisaStatus is the immigration category of a candidate.
type VisaStatus string

const (
	VisaH1B       VisaStatus = "H1B"
	VisaH4EAD     VisaStatus = "H4EAD"
	VisaL1        VisaStatus = "L1"
	VisaL2EAD     VisaStatus = "L2EAD"
	VisaOPT       VisaStatus = "OPT"
	VisaStemOPT   VisaStatus = "STEM_OPT"
	VisaCPT       VisaStatus = "CPT"
	VisaF1        VisaStatus = "F1"
	VisaGreenCard VisaStatus = "GREEN_CARD"
	VisaCitizen   VisaStatus = "CITIZEN"
	VisaOther     VisaStatus = "OTHER"
)

var visaDisplayNames = map[VisaStatus]string{
	VisaH1B:       "H1B",
	VisaH4EAD:     "H4EAD",
	VisaL1:        "L1",
	VisaL2EAD:     "L2EAD",
	VisaOPT:       "OPT",
	VisaStemOPT:   "STEM OPT",
	VisaCPT:       "CPT",
	VisaF1:        "F1",
	VisaGreenCard: "Green Card",
	VisaCitizen:   "US Citizen",
	VisaOther:     "Other",
}

// DisplayName returns the human-readable label for the status.
func (v VisaStatus) DisplayName() string {
	if name, ok := visaDisplayNames[v]; ok {
		return name
	}
	return string(v)
}

// ParseVisaStatus resolves a string against the known statuses.
func ParseVisaStatus(s string) (VisaStatus, bool) {
	v := VisaStatus(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := visaDisplayNames[v]
	return v, ok
}

// OtherPrimarySkill is required when PrimarySkill equals this sentinel.
const PrimarySkillOther = "OTHER"

// Candidate is a consultant on the bench, tracked for placement.
// Documents are stored separately and reference the candidate by id;
// ResumeFilename/ResumePath mirror the first RESUME document for old
// clients that expect a single resume per candidate.
type Candidate struct {
	ID uuid.UUID `json:"id"`

	// Personal details
	FirstName            string `json:"firstName"`
	MiddleName           string `json:"middleName,omitempty"`
	LastName             string `json:"lastName"`
	FullName             string `json:"fullName"`
	PhoneNumber          string `json:"phoneNumber"`
	Email                string `json:"email"`
	PassportNumber       string `json:"passportNumber,omitempty"`
	CountryOfCitizenship string `json:"countryOfCitizenship,omitempty"`
	LinkedinURL          string `json:"linkedinUrl,omitempty"`

	// Address
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country,omitempty"`

	// Immigration
	VisaStatus      VisaStatus `json:"visaStatus"`
	OtherVisaStatus string     `json:"otherVisaStatus,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`

	// Professional skills
	PrimarySkill      string `json:"primarySkill"`
	OtherPrimarySkill string `json:"otherPrimarySkill,omitempty"`
	AdditionalSkills  string `json:"additionalSkills,omitempty"`
	ExperienceYears   int    `json:"experienceYears"`
	Domains           string `json:"domains,omitempty"` // comma-joined

	// Commercial
	TargetRate              decimal.Decimal `json:"targetRate"`
	AssignedConsultantID    *uuid.UUID      `json:"assignedConsultantId,omitempty"`
	AssignedConsultantName  string          `json:"assignedConsultantName,omitempty"`
	Notes                   string          `json:"notes,omitempty"`

	// Legacy single-resume fields
	ResumeFilename string `json:"resumeFilename,omitempty"`
	ResumePath     string `json:"resumePath,omitempty"`

	// Audit
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy uuid.UUID `json:"createdBy,omitempty"`
}

// DomainList splits the stored comma-joined domains into an ordered slice.
func (c *Candidate) DomainList() []string {
	if strings.TrimSpace(c.Domains) == "" {
		return nil
	}
	return strings.Split(c.Domains, ",")
}

// SetDomainList stores the given domains as a comma-joined string.
func (c *Candidate) SetDomainList(domains []string) {
	c.Domains = strings.Join(domains, ",")
}

// Location is the short "City, State" form used in listings.
func (c *Candidate) Location() string {
	return c.City + ", " + c.State
}

// deriveFullName concatenates the non-blank trimmed name components
// with single spaces.
func (c *Candidate) deriveFullName() string {
	var parts []string
	for _, p := range []string{c.FirstName, c.MiddleName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Normalize fills derived fields. After Normalize, FullName is never
// blank for a candidate that passes Validate.
func (c *Candidate) Normalize() {
	if strings.TrimSpace(c.FullName) == "" {
		c.FullName = c.deriveFullName()
	}
}

// Validate checks the invariants that must hold before the candidate is
// persisted. It assumes Normalize has run.
func (c *Candidate) Validate() error {
	required := []struct {
		field, value string
	}{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"fullName", c.FullName},
		{"phoneNumber", c.PhoneNumber},
		{"email", c.Email},
		{"city", c.City},
		{"state", c.State},
		{"primarySkill", c.PrimarySkill},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}
	if _, ok := visaDisplayNames[c.VisaStatus]; !ok {
		return &ValidationError{Field: "visaStatus", Reason: "unknown visa status"}
	}
	if c.VisaStatus == VisaOther && strings.TrimSpace(c.OtherVisaStatus) == "" {
		return &ValidationError{Field: "otherVisaStatus", Reason: "is required when visa status is OTHER"}
	}
	if c.PrimarySkill == PrimarySkillOther && strings.TrimSpace(c.OtherPrimarySkill) == "" {
		return &ValidationError{Field: "otherPrimarySkill", Reason: "is required when primary skill is OTHER"}
	}
	if c.ExperienceYears < 0 || c.ExperienceYears > 50 {
		return &ValidationError{Field: "experienceYears", Reason: "must be between 0 and 50"}
	}
	return nil
}
