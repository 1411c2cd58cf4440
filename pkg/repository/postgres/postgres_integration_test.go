//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkotari/benchtrack/pkg/auth"
	"github.com/rkotari/benchtrack/pkg/candidate"
	"github.com/rkotari/benchtrack/pkg/document"
	"github.com/rkotari/benchtrack/pkg/employee"
	"github.com/rkotari/benchtrack/pkg/storage/postgres"
)

// These tests run against a real database:
//
//	DATABASE_URL=postgres://... go test -tags integration ./pkg/repository/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := postgres.Connect(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func testCandidate(email string) candidate.Candidate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return candidate.Candidate{
		ID:           uuid.New(),
		FirstName:    "Priya",
		LastName:     "Sharma",
		FullName:     "Priya Sharma",
		PhoneNumber:  "555-0100",
		Email:        email,
		City:         "Austin",
		State:        "TX",
		VisaStatus:   candidate.VisaH1B,
		PrimarySkill: "Java",
		TargetRate:   decimal.RequireFromString("85.50"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCandidateRepositoryRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := NewCandidateRepository(pool)
	require.NoError(t, err)

	c := testCandidate(fmt.Sprintf("it-%s@example.com", uuid.NewString()[:8]))
	saved, err := repo.Save(ctx, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(ctx, saved.ID) })

	assert.Equal(t, c.FullName, saved.FullName)
	assert.True(t, saved.TargetRate.Equal(c.TargetRate))
	assert.Equal(t, c.CreatedAt, saved.CreatedAt)

	// Overwrite on conflict keeps created_at.
	saved.City = "Dallas"
	saved.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	again, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Dallas", again.City)
	assert.Equal(t, saved.CreatedAt, again.CreatedAt)

	require.NoError(t, repo.Exists(ctx, saved.ID))
	assert.ErrorIs(t, repo.Exists(ctx, uuid.New()), candidate.ErrNotFound)
}

func TestCandidateRepositoryFindPageFilters(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := NewCandidateRepository(pool)
	require.NoError(t, err)

	marker := uuid.NewString()[:8]
	c := testCandidate(fmt.Sprintf("it-%s@example.com", marker))
	c.FullName = "Zed Filterable " + marker
	_, err = repo.Save(ctx, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(ctx, c.ID) })

	page, err := repo.FindPage(ctx, candidate.Filters{FullName: marker}, candidate.PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)

	empty, err := repo.FindPage(ctx, candidate.Filters{FullName: "no-such-" + marker}, candidate.PageRequest{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestCandidateRepositoryConsultantJoin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	employees, err := NewEmployeeRepository(pool)
	require.NoError(t, err)
	repo, err := NewCandidateRepository(pool)
	require.NoError(t, err)

	emp, err := employees.Save(ctx, employee.Employee{FullName: "Maria Lopez", Email: "maria@agency.example", Title: "Account Manager"})
	require.NoError(t, err)

	c := testCandidate(fmt.Sprintf("it-%s@example.com", uuid.NewString()[:8]))
	c.AssignedConsultantID = &emp.ID
	saved, err := repo.Save(ctx, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(ctx, saved.ID) })

	assert.Equal(t, "Maria Lopez", saved.AssignedConsultantName)

	byConsultant, err := repo.FindByConsultant(ctx, emp.ID)
	require.NoError(t, err)
	require.NotEmpty(t, byConsultant)
	assert.Equal(t, saved.ID, byConsultant[0].ID)
}

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := NewDocumentRepository(pool)
	require.NoError(t, err)

	candidateID := uuid.New()
	d, err := repo.Save(ctx, document.Document{
		CandidateID:      candidateID,
		Filename:         "key-1.pdf",
		OriginalFilename: "resume.pdf",
		FilePath:         "key-1.pdf",
		FileSize:         4,
		ContentType:      "application/pdf",
		Type:             document.TypeResume,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.DeleteByCandidate(ctx, candidateID) })

	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.False(t, d.UploadedAt.IsZero())

	got, err := repo.FindByCandidateAndID(ctx, candidateID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, document.TypeResume, got.Type)

	// Scoped lookup must miss under another candidate.
	_, err = repo.FindByCandidateAndID(ctx, uuid.New(), d.ID)
	assert.ErrorIs(t, err, document.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, candidateID, d.ID))
	assert.ErrorIs(t, repo.Delete(ctx, candidateID, d.ID), document.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := NewUserRepository(pool)
	require.NoError(t, err)

	email := fmt.Sprintf("it-%s@example.com", uuid.NewString()[:8])
	u := auth.User{ID: uuid.New(), Email: email, FullName: "Dana", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, u))

	dup := auth.User{ID: uuid.New(), Email: email, PasswordHash: "y", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, repo.Create(ctx, dup), auth.ErrUserAlreadyExists)

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Dana", got.FullName)
}
