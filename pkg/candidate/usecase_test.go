package candidate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkotari/benchtrack/pkg/auth"
	"github.com/rkotari/benchtrack/pkg/document"
	"github.com/rkotari/benchtrack/pkg/employee"
	"github.com/rkotari/benchtrack/pkg/filestore"
)

type fakeRepo struct {
	candidates map[uuid.UUID]Candidate
	saveErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{candidates: make(map[uuid.UUID]Candidate)}
}

func (r *fakeRepo) Save(ctx context.Context, c Candidate) (Candidate, error) {
	if r.saveErr != nil {
		return Candidate{}, r.saveErr
	}
	r.candidates[c.ID] = c
	return c, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// Exists lets the repo double as the candidate port of the document
// service, the way the Postgres repository does.
func (r *fakeRepo) Exists(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.candidates[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (r *fakeRepo) all() []Candidate {
	out := make([]Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeRepo) FindPage(ctx context.Context, f Filters, p PageRequest) (Page, error) {
	var matched []Candidate
	for _, c := range r.all() {
		if f.FullName != "" && !strings.Contains(strings.ToLower(c.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		if f.VisaStatus != "" && c.VisaStatus != f.VisaStatus {
			continue
		}
		matched = append(matched, c)
	}
	total := int64(len(matched))
	lo := p.Offset()
	if lo > len(matched) {
		lo = len(matched)
	}
	hi := lo + p.Size
	if hi > len(matched) {
		hi = len(matched)
	}
	items := matched[lo:hi]
	if items == nil {
		items = []Candidate{}
	}
	return Page{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (r *fakeRepo) FindByConsultant(ctx context.Context, employeeID uuid.UUID) ([]Candidate, error) {
	var out []Candidate
	for _, c := range r.all() {
		if c.AssignedConsultantID != nil && *c.AssignedConsultantID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindRecent(ctx context.Context, limit int) ([]Candidate, error) {
	all := r.all()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.candidates[id]; !ok {
		return ErrNotFound
	}
	delete(r.candidates, id)
	return nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.candidates)), nil
}

type memDocs struct {
	docs map[uuid.UUID]document.Document
}

func newMemDocs() *memDocs { return &memDocs{docs: make(map[uuid.UUID]document.Document)} }

func (m *memDocs) Save(ctx context.Context, d document.Document) (document.Document, error) {
	m.docs[d.ID] = d
	return d, nil
}

func (m *memDocs) FindByCandidateAndID(ctx context.Context, candidateID, id uuid.UUID) (document.Document, error) {
	d, ok := m.docs[id]
	if !ok || d.CandidateID != candidateID {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (m *memDocs) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]document.Document, error) {
	var out []document.Document
	for _, d := range m.docs {
		if d.CandidateID == candidateID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocs) DeleteByCandidate(ctx context.Context, candidateID uuid.UUID) error {
	for id, d := range m.docs {
		if d.CandidateID == candidateID {
			delete(m.docs, id)
		}
	}
	return nil
}

func (m *memDocs) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	d, ok := m.docs[id]
	if !ok || d.CandidateID != candidateID {
		return document.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memBlobs struct {
	blobs    map[string][]byte
	seq      int
	failPut  map[string]bool // original filenames whose Put fails
	failDel  map[string]bool // keys whose Delete fails
	delCalls []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{
		blobs:   make(map[string][]byte),
		failPut: make(map[string]bool),
		failDel: make(map[string]bool),
	}
}

func (m *memBlobs) Put(ctx context.Context, data []byte, originalFilename string) (string, error) {
	if m.failPut[originalFilename] {
		return "", errors.New("disk full")
	}
	m.seq++
	key := fmt.Sprintf("blob-%d", m.seq)
	m.blobs[key] = data
	return key, nil
}

func (m *memBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, filestore.ErrNotFound
	}
	return data, nil
}

func (m *memBlobs) Delete(ctx context.Context, key string) error {
	m.delCalls = append(m.delCalls, key)
	if m.failDel[key] {
		return errors.New("io error")
	}
	delete(m.blobs, key)
	return nil
}

type fakeEmployees struct {
	employees map[uuid.UUID]employee.Employee
}

func (f *fakeEmployees) FindByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

type fakeUsers struct {
	users map[uuid.UUID]auth.User
}

func (f *fakeUsers) Create(ctx context.Context, user auth.User) error { return nil }

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return auth.User{}, auth.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

type fixture struct {
	svc          UseCase
	repo         *fakeRepo
	docs         *memDocs
	blobs        *memBlobs
	actorID      uuid.UUID
	consultantID uuid.UUID
}

func newFixture() *fixture {
	repo := newFakeRepo()
	docs := newMemDocs()
	blobs := newMemBlobs()
	actorID := uuid.New()
	consultantID := uuid.New()
	employees := &fakeEmployees{employees: map[uuid.UUID]employee.Employee{
		consultantID: {ID: consultantID, FullName: "Maria Lopez", Email: "maria@agency.example"},
	}}
	users := &fakeUsers{users: map[uuid.UUID]auth.User{
		actorID: {ID: actorID, Email: "recruiter@agency.example"},
	}}
	docSvc := document.NewService(docs, blobs, repo, users)
	return &fixture{
		svc:          NewService(repo, docSvc, docs, blobs, employees, users),
		repo:         repo,
		docs:         docs,
		blobs:        blobs,
		actorID:      actorID,
		consultantID: consultantID,
	}
}

func validInput() Input {
	return Input{
		FirstName:    "Priya",
		LastName:     "Sharma",
		PhoneNumber:  "555-0100",
		Email:        "priya@example.com",
		City:         "Austin",
		State:        "TX",
		VisaStatus:   VisaH1B,
		PrimarySkill: "Java",
		TargetRate:   decimal.NewFromInt(85),
	}
}

func upload(name, content string) document.Upload {
	return document.Upload{
		Data:             []byte(content),
		OriginalFilename: name,
		Size:             int64(len(content)),
		ContentType:      "application/pdf",
	}
}

func TestCreatePersistsWithDerivedFullName(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)

	assert.Equal(t, "Priya Sharma", created.FullName)
	assert.Equal(t, f.actorID, created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, created.TargetRate.Equal(decimal.NewFromInt(85)))

	stored, err := f.repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FullName, stored.FullName)
}

func TestCreateValidationFailureWritesNothing(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Email = ""

	_, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Empty(t, f.repo.candidates)
}

func TestCreateUnknownConsultant(t *testing.T) {
	f := newFixture()
	in := validInput()
	missing := uuid.New()
	in.AssignedConsultantID = &missing

	_, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
	assert.ErrorIs(t, err, ErrConsultantNotFound)
	assert.Empty(t, f.repo.candidates)
}

func TestCreateUnknownActor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), validInput(), nil, nil, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.repo.candidates)
}

func TestCreateResolvesConsultantName(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.AssignedConsultantID = &f.consultantID

	created, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
	require.NoError(t, err)
	require.NotNil(t, created.AssignedConsultantID)
	assert.Equal(t, f.consultantID, *created.AssignedConsultantID)
	assert.Equal(t, "Maria Lopez", created.AssignedConsultantName)
}

func TestCreateFirstResumeSetsLegacyPointer(t *testing.T) {
	f := newFixture()
	uploads := []document.Upload{
		upload("passport.pdf", "p"),
		upload("priya_resume.pdf", "r1"),
		upload("priya_resume_v2.pdf", "r2"),
	}
	types := []string{"PASSPORT", "RESUME", "RESUME"}

	created, err := f.svc.Create(context.Background(), validInput(), uploads, types, f.actorID)
	require.NoError(t, err)

	// The first RESUME wins; the second never displaces it.
	assert.Equal(t, "priya_resume.pdf", created.ResumeFilename)
	assert.NotEmpty(t, created.ResumePath)

	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestCreatePairsUploadsWithTypes(t *testing.T) {
	f := newFixture()
	uploads := []document.Upload{
		upload("a.pdf", "a"),
		upload("b.pdf", "b"),
		upload("c.pdf", "c"),
	}
	// Only one declared type: the extra uploads are ignored.
	created, err := f.svc.Create(context.Background(), validInput(), uploads, []string{"I94"}, f.actorID)
	require.NoError(t, err)

	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].OriginalFilename)
}

func TestCreateSkipsEmptyFilesAndBlankTypes(t *testing.T) {
	f := newFixture()
	uploads := []document.Upload{
		{OriginalFilename: "empty.pdf"},
		upload("b.pdf", "b"),
		upload("c.pdf", "c"),
	}
	types := []string{"RESUME", "   ", "PASSPORT"}

	created, err := f.svc.Create(context.Background(), validInput(), uploads, types, f.actorID)
	require.NoError(t, err)

	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "c.pdf", docs[0].OriginalFilename)
	assert.Empty(t, created.ResumeFilename, "a skipped empty file must not set the legacy pointer")
}

func TestCreateStorageFailureKeepsCandidateAndPriorDocuments(t *testing.T) {
	f := newFixture()
	f.blobs.failPut["bad.pdf"] = true
	uploads := []document.Upload{
		upload("good.pdf", "g"),
		upload("bad.pdf", "b"),
		upload("never.pdf", "n"),
	}
	types := []string{"PASSPORT", "EAD", "SSN"}

	_, err := f.svc.Create(context.Background(), validInput(), uploads, types, f.actorID)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "bad.pdf", serr.Filename)

	// The candidate record and the document attached before the failure
	// survive; the batch stops at the failing file.
	require.Len(t, f.repo.candidates, 1)
	var all []document.Document
	for _, d := range f.docs.docs {
		all = append(all, d)
	}
	require.Len(t, all, 1)
	assert.Equal(t, "good.pdf", all[0].OriginalFilename)
}

func TestUpdateReplacesFieldsAndClearsConsultant(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.AssignedConsultantID = &f.consultantID
	in.Notes = "on bench since June"
	created, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
	require.NoError(t, err)

	upd := validInput()
	upd.City = "Dallas"
	upd.Notes = "" // blank clears

	updated, err := f.svc.Update(context.Background(), created.ID, upd, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dallas", updated.City)
	assert.Empty(t, updated.Notes)
	assert.Nil(t, updated.AssignedConsultantID)
	assert.Empty(t, updated.AssignedConsultantName)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateNeverSetsLegacyResumePointer(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)
	require.Empty(t, created.ResumeFilename)

	uploads := []document.Upload{upload("late_resume.pdf", "r")}
	updated, err := f.svc.Update(context.Background(), created.ID, validInput(), uploads, []string{"RESUME"})
	require.NoError(t, err)

	// The document is attached but the legacy pointer stays empty.
	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, updated.ResumeFilename)
	assert.Empty(t, updated.ResumePath)
}

func TestUpdateAttributesUploadsToCreator(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), created.ID, validInput(), []document.Upload{upload("x.pdf", "x")}, []string{"OTHER"})
	require.NoError(t, err)

	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, f.actorID, docs[0].UploadedBy)
}

func TestUpdateUnknownCandidate(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Update(context.Background(), uuid.New(), validInput(), nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture()
	uploads := []document.Upload{
		upload("resume.pdf", "r"),
		upload("passport.pdf", "p"),
	}
	created, err := f.svc.Create(context.Background(), validInput(), uploads, []string{"RESUME", "PASSPORT"}, f.actorID)
	require.NoError(t, err)
	require.NotEmpty(t, created.ResumePath)

	require.NoError(t, f.svc.Delete(context.Background(), created.ID))

	assert.Empty(t, f.repo.candidates)
	assert.Empty(t, f.docs.docs)
	assert.Empty(t, f.blobs.blobs)
}

func TestDeleteSurvivesBlobFailures(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validInput(),
		[]document.Upload{upload("passport.pdf", "p")}, []string{"PASSPORT"}, f.actorID)
	require.NoError(t, err)

	docs, err := f.docs.FindByCandidate(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	f.blobs.failDel[docs[0].FilePath] = true

	// A failing blob delete is logged, never fatal: records still go.
	require.NoError(t, f.svc.Delete(context.Background(), created.ID))
	assert.Empty(t, f.repo.candidates)
	assert.Empty(t, f.docs.docs)
}

func TestDeleteUnknownCandidate(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.svc.Delete(context.Background(), uuid.New()), ErrNotFound)
}

func TestSearchDefaultsAndEmptyPage(t *testing.T) {
	f := newFixture()

	page, err := f.svc.Search(context.Background(), Filters{FullName: "nobody"}, PageRequest{Page: -3, Size: 0})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)
}

func TestSearchFiltersByName(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)
	other := validInput()
	other.FirstName = "Anil"
	other.LastName = "Rao"
	other.Email = "anil@example.com"
	_, err = f.svc.Create(context.Background(), other, nil, nil, f.actorID)
	require.NoError(t, err)

	page, err := f.svc.Search(context.Background(), Filters{FullName: "sharma"}, PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Priya Sharma", page.Items[0].FullName)
	assert.Equal(t, int64(1), page.Total)
}

func TestByConsultantUnknownEmployee(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ByConsultant(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrConsultantNotFound)
}

func TestByConsultant(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.AssignedConsultantID = &f.consultantID
	created, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
	require.NoError(t, err)

	items, err := f.svc.ByConsultant(context.Background(), f.consultantID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestRecentDefaultsLimit(t *testing.T) {
	f := newFixture()
	for i := 0; i < 7; i++ {
		in := validInput()
		in.Email = fmt.Sprintf("c%d@example.com", i)
		_, err := f.svc.Create(context.Background(), in, nil, nil, f.actorID)
		require.NoError(t, err)
	}

	items, err := f.svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestResumeFile(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validInput(),
		[]document.Upload{upload("priya_resume.pdf", "pdf-bytes")}, []string{"RESUME"}, f.actorID)
	require.NoError(t, err)

	data, c, err := f.svc.ResumeFile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), data)
	assert.Equal(t, "priya_resume.pdf", c.ResumeFilename)
}

func TestResumeFileMissing(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)

	_, _, err = f.svc.ResumeFile(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestCountReflectsRepo(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), validInput(), nil, nil, f.actorID)
	require.NoError(t, err)

	n, err := f.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
