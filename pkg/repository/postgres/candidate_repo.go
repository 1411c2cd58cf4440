package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rkotari/benchtrack/pkg/candidate"
)

// CandidateRepository stores bench candidates. The consultant display
// name is read through a join against employees rather than being
// denormalized onto the candidate row.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) (*CandidateRepository, error) {
	r := &CandidateRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CandidateRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS bench_candidates (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	middle_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL,
	full_name TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	email TEXT NOT NULL,
	passport_number TEXT NOT NULL DEFAULT '',
	country_of_citizenship TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	address1 TEXT NOT NULL DEFAULT '',
	address2 TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	country TEXT NOT NULL DEFAULT '',
	visa_status TEXT NOT NULL,
	other_visa_status TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	primary_skill TEXT NOT NULL,
	other_primary_skill TEXT NOT NULL DEFAULT '',
	additional_skills TEXT NOT NULL DEFAULT '',
	experience_years INT NOT NULL,
	domains TEXT NOT NULL DEFAULT '',
	target_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
	assigned_consultant_id UUID,
	notes TEXT NOT NULL DEFAULT '',
	resume_filename TEXT NOT NULL DEFAULT '',
	resume_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	created_by UUID
);
CREATE INDEX IF NOT EXISTS idx_bench_candidates_created ON bench_candidates(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_bench_candidates_consultant ON bench_candidates(assigned_consultant_id);
`)
	return err
}

const candidateColumns = `
c.id, c.first_name, c.middle_name, c.last_name, c.full_name,
c.phone_number, c.email, c.passport_number, c.country_of_citizenship, c.linkedin_url,
c.address1, c.address2, c.city, c.state, c.country,
c.visa_status, c.other_visa_status, c.start_date, c.end_date,
c.primary_skill, c.other_primary_skill, c.additional_skills, c.experience_years, c.domains,
c.target_rate::text, c.assigned_consultant_id, COALESCE(e.full_name, ''), c.notes,
c.resume_filename, c.resume_path, c.created_at, c.updated_at, c.created_by`

const candidateFrom = `
FROM bench_candidates c
LEFT JOIN employees e ON e.id = c.assigned_consultant_id`

func scanCandidate(row pgx.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var visa string
	var start, end *time.Time
	var rate string
	var createdBy *uuid.UUID
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&c.ID, &c.FirstName, &c.MiddleName, &c.LastName, &c.FullName,
		&c.PhoneNumber, &c.Email, &c.PassportNumber, &c.CountryOfCitizenship, &c.LinkedinURL,
		&c.Address1, &c.Address2, &c.City, &c.State, &c.Country,
		&visa, &c.OtherVisaStatus, &start, &end,
		&c.PrimarySkill, &c.OtherPrimarySkill, &c.AdditionalSkills, &c.ExperienceYears, &c.Domains,
		&rate, &c.AssignedConsultantID, &c.AssignedConsultantName, &c.Notes,
		&c.ResumeFilename, &c.ResumePath, &createdAt, &updatedAt, &createdBy,
	)
	if err != nil {
		return candidate.Candidate{}, err
	}
	c.VisaStatus = candidate.VisaStatus(visa)
	c.StartDate = start
	c.EndDate = end
	c.TargetRate, err = decimal.NewFromString(rate)
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("parse target rate: %w", err)
	}
	if createdBy != nil {
		c.CreatedBy = *createdBy
	}
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

// Save inserts or fully overwrites the candidate row.
func (r *CandidateRepository) Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var createdBy *uuid.UUID
	if c.CreatedBy != uuid.Nil {
		createdBy = &c.CreatedBy
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO bench_candidates (
	id, first_name, middle_name, last_name, full_name,
	phone_number, email, passport_number, country_of_citizenship, linkedin_url,
	address1, address2, city, state, country,
	visa_status, other_visa_status, start_date, end_date,
	primary_skill, other_primary_skill, additional_skills, experience_years, domains,
	target_rate, assigned_consultant_id, notes,
	resume_filename, resume_path, created_at, updated_at, created_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
)
ON CONFLICT (id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	middle_name = EXCLUDED.middle_name,
	last_name = EXCLUDED.last_name,
	full_name = EXCLUDED.full_name,
	phone_number = EXCLUDED.phone_number,
	email = EXCLUDED.email,
	passport_number = EXCLUDED.passport_number,
	country_of_citizenship = EXCLUDED.country_of_citizenship,
	linkedin_url = EXCLUDED.linkedin_url,
	address1 = EXCLUDED.address1,
	address2 = EXCLUDED.address2,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	country = EXCLUDED.country,
	visa_status = EXCLUDED.visa_status,
	other_visa_status = EXCLUDED.other_visa_status,
	start_date = EXCLUDED.start_date,
	end_date = EXCLUDED.end_date,
	primary_skill = EXCLUDED.primary_skill,
	other_primary_skill = EXCLUDED.other_primary_skill,
	additional_skills = EXCLUDED.additional_skills,
	experience_years = EXCLUDED.experience_years,
	domains = EXCLUDED.domains,
	target_rate = EXCLUDED.target_rate,
	assigned_consultant_id = EXCLUDED.assigned_consultant_id,
	notes = EXCLUDED.notes,
	resume_filename = EXCLUDED.resume_filename,
	resume_path = EXCLUDED.resume_path,
	updated_at = EXCLUDED.updated_at,
	created_by = EXCLUDED.created_by
`,
		c.ID, c.FirstName, c.MiddleName, c.LastName, c.FullName,
		c.PhoneNumber, c.Email, c.PassportNumber, c.CountryOfCitizenship, c.LinkedinURL,
		c.Address1, c.Address2, c.City, c.State, c.Country,
		string(c.VisaStatus), c.OtherVisaStatus, c.StartDate, c.EndDate,
		c.PrimarySkill, c.OtherPrimarySkill, c.AdditionalSkills, c.ExperienceYears, c.Domains,
		c.TargetRate.String(), c.AssignedConsultantID, c.Notes,
		c.ResumeFilename, c.ResumePath, c.CreatedAt, c.UpdatedAt, createdBy,
	)
	if err != nil {
		return candidate.Candidate{}, err
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+candidateColumns+candidateFrom+` WHERE c.id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	return c, nil
}

// Exists satisfies the document package's candidate lookup port.
func (r *CandidateRepository) Exists(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM bench_candidates WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return candidate.ErrNotFound
	}
	return err
}

// buildFilter renders the AND-combined optional predicates.
func buildFilter(f candidate.Filters) (string, []any) {
	var conds []string
	var args []any
	add := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if s := strings.TrimSpace(f.FullName); s != "" {
		add("c.full_name ILIKE $%d", "%"+s+"%")
	}
	if f.VisaStatus != "" {
		add("c.visa_status = $%d", string(f.VisaStatus))
	}
	if s := strings.TrimSpace(f.PrimarySkill); s != "" {
		add("c.primary_skill ILIKE $%d", "%"+s+"%")
	}
	if s := strings.TrimSpace(f.State); s != "" {
		add("c.state ILIKE $%d", "%"+s+"%")
	}
	if s := strings.TrimSpace(f.ConsultantName); s != "" {
		add("e.full_name ILIKE $%d", "%"+s+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *CandidateRepository) FindPage(ctx context.Context, f candidate.Filters, p candidate.PageRequest) (candidate.Page, error) {
	where, args := buildFilter(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+candidateFrom+where, args...).Scan(&total); err != nil {
		return candidate.Page{}, err
	}

	limit := p.Size
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, p.Offset())
	query := fmt.Sprintf(`SELECT%s%s%s ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d`,
		candidateColumns, candidateFrom, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return candidate.Page{}, err
	}
	defer rows.Close()

	items := make([]candidate.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return candidate.Page{}, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return candidate.Page{}, err
	}
	return candidate.Page{Items: items, Total: total, Page: p.Page, Size: limit}, nil
}

func (r *CandidateRepository) FindByConsultant(ctx context.Context, employeeID uuid.UUID) ([]candidate.Candidate, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+candidateColumns+candidateFrom+`
WHERE c.assigned_consultant_id = $1
ORDER BY c.created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CandidateRepository) FindRecent(ctx context.Context, limit int) ([]candidate.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.pool.Query(ctx, `SELECT`+candidateColumns+candidateFrom+`
ORDER BY c.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bench_candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bench_candidates`).Scan(&n)
	return n, err
}
