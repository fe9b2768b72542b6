package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"jobbee-api/internal/config"
	domainJob "jobbee-api/internal/domain/job"
	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/infrastructure/geocode"
	appErrors "jobbee-api/pkg/errors"

	"github.com/google/uuid"
)

type fakeJobRepo struct {
	jobs map[uuid.UUID]*domainJob.Job

	appended      []domainJob.Applicant
	appendErr     error
	deleted       []uuid.UUID
	lastRadius    float64
	lastLatitude  float64
	lastLongitude float64
	stats         []*domainJob.TopicStats
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*domainJob.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, j *domainJob.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) List(_ context.Context, _ *domainJob.Filter) ([]*domainJob.Job, error) {
	out := make([]*domainJob.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) GetByIDAndSlug(_ context.Context, jobID uuid.UUID, slug string) (*domainJob.Job, error) {
	j, ok := r.jobs[jobID]
	if !ok || j.Slug != slug {
		return nil, domainJob.ErrJobNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, jobID uuid.UUID) (*domainJob.Job, error) {
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, domainJob.ErrJobNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) GetWithApplicants(ctx context.Context, jobID uuid.UUID) (*domainJob.Job, error) {
	return r.GetByID(ctx, jobID)
}

func (r *fakeJobRepo) Update(_ context.Context, j *domainJob.Job) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, jobID uuid.UUID) error {
	delete(r.jobs, jobID)
	r.deleted = append(r.deleted, jobID)
	return nil
}

func (r *fakeJobRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domainJob.Job, error) {
	var out []*domainJob.Job
	for _, j := range r.jobs {
		if j.UserID == ownerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListAppliedBy(_ context.Context, userID uuid.UUID) ([]*domainJob.Job, error) {
	var out []*domainJob.Job
	for _, j := range r.jobs {
		if j.HasApplicant(userID) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListApplicationsBy(_ context.Context, userID uuid.UUID) ([]domainJob.Applicant, error) {
	var out []domainJob.Applicant
	for _, j := range r.jobs {
		for _, a := range j.Applicants {
			if a.UserID == userID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (r *fakeJobRepo) WithinRadius(_ context.Context, latitude, longitude, radius float64) ([]*domainJob.Job, error) {
	r.lastLatitude = latitude
	r.lastLongitude = longitude
	r.lastRadius = radius
	return nil, nil
}

func (r *fakeJobRepo) Stats(_ context.Context, _ string) ([]*domainJob.TopicStats, error) {
	return r.stats, nil
}

func (r *fakeJobRepo) AppendApplicant(_ context.Context, jobID uuid.UUID, applicant domainJob.Applicant) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	j, ok := r.jobs[jobID]
	if !ok {
		return domainJob.ErrJobNotFound
	}
	j.Applicants = append(j.Applicants, applicant)
	r.appended = append(r.appended, applicant)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domainUser.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*domainUser.User, error) {
	out := make([]*domainUser.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domainUser.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHashed = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, userID uuid.UUID, tokenHash *string, expiresAt *time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.ResetPasswordToken = tokenHash
	u.ResetPasswordExpire = expiresAt
	return nil
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return u, nil
		}
	}
	return nil, domainUser.ErrResetTokenInvalid
}

func (r *fakeUserRepo) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	var cleared int64
	for _, u := range r.users {
		if u.ResetPasswordExpire != nil && u.ResetPasswordExpire.Before(now) {
			u.ClearResetToken()
			cleared++
		}
	}
	return cleared, nil
}

type fakeStore struct {
	saved      map[string][]byte
	saveErr    error
	removed    []string
	removeErrs map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte), removeErrs: make(map[string]error)}
}

func (s *fakeStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.saved[name] = data
	return nil
}

func (s *fakeStore) Remove(_ context.Context, name string) error {
	if err, ok := s.removeErrs[name]; ok {
		return err
	}
	s.removed = append(s.removed, name)
	delete(s.saved, name)
	return nil
}

type fakeGeocoder struct {
	location *geocode.Location
	err      error
	calls    int
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (*geocode.Location, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.location, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{MaxFileSize: 2 << 20},
		API:    config.APIConfig{PageSize: 10},
	}
}

func newTestService() (*Service, *fakeJobRepo, *fakeUserRepo, *fakeStore, *fakeGeocoder) {
	jobRepo := newFakeJobRepo()
	userRepo := newFakeUserRepo()
	store := newFakeStore()
	geocoder := &fakeGeocoder{location: &geocode.Location{Latitude: 42.5, Longitude: -71.1, City: "Boston"}}

	return NewService(jobRepo, userRepo, store, geocoder, testConfig()), jobRepo, userRepo, store, geocoder
}

func validCreateRequest() *CreateJobRequest {
	return &CreateJobRequest{
		Title:       "Go Developer",
		Description: "Build backend services",
		Address:     "1 Main St, Boston",
		Company:     "Acme",
		Industry:    "Information Technology",
		JobType:     "Permanent",
		Education:   "Bachelors",
		Experience:  "1 Year - 2 Years",
		Salary:      90000,
		Positions:   2,
		LastDate:    time.Now().Add(30 * 24 * time.Hour),
	}
}

func seedJob(repo *fakeJobRepo, ownerID uuid.UUID, lastDate time.Time) *domainJob.Job {
	j := &domainJob.Job{
		ID:       uuid.New(),
		Title:    "Go Developer",
		Slug:     "go-developer",
		UserID:   ownerID,
		LastDate: lastDate,
	}
	repo.jobs[j.ID] = j
	return j
}

func TestCreateGeocodesAndSlugifies(t *testing.T) {
	svc, repo, _, _, geocoder := newTestService()
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.Slug != "go-developer" {
		t.Errorf("slug = %q, want %q", created.Slug, "go-developer")
	}
	if created.Latitude != 42.5 || created.Longitude != -71.1 {
		t.Errorf("coordinates = (%v, %v), want (42.5, -71.1)", created.Latitude, created.Longitude)
	}
	if created.City != "Boston" {
		t.Errorf("city = %q, want %q", created.City, "Boston")
	}
	if geocoder.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geocoder.calls)
	}
	if _, ok := repo.jobs[created.ID]; !ok {
		t.Error("job was not persisted")
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	req := validCreateRequest()
	req.JobType = "Freelance"

	_, err := svc.Create(context.Background(), uuid.New(), req)
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestCreateSurfacesGeocodingFailure(t *testing.T) {
	svc, _, _, _, geocoder := newTestService()
	geocoder.err = fmt.Errorf("provider unreachable")

	_, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != "GEOCODING_FAILED" {
		t.Fatalf("error = %v, want GEOCODING_FAILED", err)
	}
}

func TestGetByIDAndSlugRequiresMatchingSlug(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	j := seedJob(repo, uuid.New(), time.Now().Add(time.Hour))

	if _, err := svc.GetByIDAndSlug(context.Background(), j.ID, "go-developer"); err != nil {
		t.Fatalf("matching slug returned error: %v", err)
	}

	_, err := svc.GetByIDAndSlug(context.Background(), j.ID, "other-slug")
	if !errors.Is(err, appErrors.ErrJobNotFound) {
		t.Fatalf("error = %v, want ErrJobNotFound", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ownerID := uuid.New()
	j := seedJob(repo, ownerID, time.Now().Add(time.Hour))

	req := validCreateRequest()

	stranger := &domainUser.User{ID: uuid.New(), Role: domainUser.RoleEmployer}
	if _, err := svc.Update(context.Background(), j.ID, stranger, req); !errors.Is(err, appErrors.ErrNotJobOwner) {
		t.Fatalf("stranger update error = %v, want ErrNotJobOwner", err)
	}

	admin := &domainUser.User{ID: uuid.New(), Role: domainUser.RoleAdmin}
	if _, err := svc.Update(context.Background(), j.ID, admin, req); err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}

	owner := &domainUser.User{ID: ownerID, Role: domainUser.RoleEmployer}
	updated, err := svc.Update(context.Background(), j.ID, owner, req)
	if err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}
	if updated.Company != "Acme" {
		t.Errorf("company = %q, want %q", updated.Company, "Acme")
	}
}

func TestUpdateRegeocodesOnlyWhenAddressChanges(t *testing.T) {
	svc, repo, _, _, geocoder := newTestService()
	ownerID := uuid.New()
	j := seedJob(repo, ownerID, time.Now().Add(time.Hour))
	j.Address = "1 Main St, Boston"

	owner := &domainUser.User{ID: ownerID, Role: domainUser.RoleEmployer}

	req := validCreateRequest()
	if _, err := svc.Update(context.Background(), j.ID, owner, req); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder calls = %d, want 0 for an unchanged address", geocoder.calls)
	}

	req.Address = "500 Market St, San Francisco"
	if _, err := svc.Update(context.Background(), j.ID, owner, req); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if geocoder.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1 after an address change", geocoder.calls)
	}
}

func TestDeleteRemovesResumesBestEffort(t *testing.T) {
	svc, repo, _, store, _ := newTestService()
	ownerID := uuid.New()
	j := seedJob(repo, ownerID, time.Now().Add(time.Hour))
	j.Applicants = []domainJob.Applicant{
		{UserID: uuid.New(), Resume: "a.pdf"},
		{UserID: uuid.New(), Resume: "b.pdf"},
	}
	store.removeErrs["a.pdf"] = fmt.Errorf("object missing")

	owner := &domainUser.User{ID: ownerID, Role: domainUser.RoleEmployer}
	if err := svc.Delete(context.Background(), j.ID, owner); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(store.removed) != 1 || store.removed[0] != "b.pdf" {
		t.Errorf("removed = %v, want [b.pdf]", store.removed)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != j.ID {
		t.Error("job record was not deleted despite a resume removal failure")
	}
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	j := seedJob(repo, uuid.New(), time.Now().Add(time.Hour))

	stranger := &domainUser.User{ID: uuid.New(), Role: domainUser.RoleEmployer}
	if err := svc.Delete(context.Background(), j.ID, stranger); !errors.Is(err, appErrors.ErrNotJobOwner) {
		t.Fatalf("error = %v, want ErrNotJobOwner", err)
	}
}

func TestWithinRadiusConvertsMilesToSphericalRadius(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	if _, err := svc.WithinRadius(context.Background(), "02108", 100); err != nil {
		t.Fatalf("WithinRadius returned error: %v", err)
	}

	want := 100.0 / 3963.0
	if diff := repo.lastRadius - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("radius = %v, want %v", repo.lastRadius, want)
	}
	if repo.lastLatitude != 42.5 || repo.lastLongitude != -71.1 {
		t.Errorf("center = (%v, %v), want (42.5, -71.1)", repo.lastLatitude, repo.lastLongitude)
	}
}

func TestStatsEmptyAggregationIsValid(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	stats, err := svc.Stats(context.Background(), "no-such-topic")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("stats = %v, want empty", stats)
	}
}

func TestApply(t *testing.T) {
	applicantID := uuid.New()

	setup := func() (*Service, *fakeJobRepo, *fakeStore, *domainJob.Job) {
		svc, repo, userRepo, store, _ := newTestService()
		userRepo.users[applicantID] = &domainUser.User{
			ID: applicantID, Name: "Jane Doe", Role: domainUser.RoleUser,
		}
		j := seedJob(repo, uuid.New(), time.Now().Add(time.Hour))
		return svc, repo, store, j
	}

	upload := func(name string, size int64) *ResumeUpload {
		return &ResumeUpload{
			FileName:    name,
			Size:        size,
			ContentType: "application/pdf",
			Content:     strings.NewReader("resume body"),
		}
	}

	t.Run("deadline passed", func(t *testing.T) {
		svc, repo, _, _ := setup()
		expired := seedJob(repo, uuid.New(), time.Now().Add(-time.Hour))

		_, err := svc.Apply(context.Background(), expired.ID, applicantID, upload("cv.pdf", 100))
		if !errors.Is(err, appErrors.ErrDeadlinePassed) {
			t.Fatalf("error = %v, want ErrDeadlinePassed", err)
		}
	})

	t.Run("already applied", func(t *testing.T) {
		svc, _, _, j := setup()
		j.Applicants = []domainJob.Applicant{{UserID: applicantID, Resume: "cv.pdf"}}

		_, err := svc.Apply(context.Background(), j.ID, applicantID, upload("cv.pdf", 100))
		if !errors.Is(err, appErrors.ErrAlreadyApplied) {
			t.Fatalf("error = %v, want ErrAlreadyApplied", err)
		}
	})

	t.Run("missing resume", func(t *testing.T) {
		svc, _, _, j := setup()

		_, err := svc.Apply(context.Background(), j.ID, applicantID, nil)
		if !errors.Is(err, appErrors.ErrNoResume) {
			t.Fatalf("error = %v, want ErrNoResume", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		svc, _, _, j := setup()

		_, err := svc.Apply(context.Background(), j.ID, applicantID, upload("cv.exe", 100))
		if !errors.Is(err, appErrors.ErrBadResumeType) {
			t.Fatalf("error = %v, want ErrBadResumeType", err)
		}
	})

	t.Run("oversize resume", func(t *testing.T) {
		svc, _, _, j := setup()

		_, err := svc.Apply(context.Background(), j.ID, applicantID, upload("cv.pdf", 3<<20))
		if !errors.Is(err, appErrors.ErrResumeTooLarge) {
			t.Fatalf("error = %v, want ErrResumeTooLarge", err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, _, store, j := setup()
		store.saveErr = fmt.Errorf("bucket unavailable")

		_, err := svc.Apply(context.Background(), j.ID, applicantID, upload("cv.pdf", 100))
		var appErr *appErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != "UPLOAD_FAILED" {
			t.Fatalf("error = %v, want UPLOAD_FAILED", err)
		}
	})

	t.Run("concurrent duplicate", func(t *testing.T) {
		svc, repo, _, j := setup()
		repo.appendErr = domainJob.ErrAlreadyApplied

		_, err := svc.Apply(context.Background(), j.ID, applicantID, upload("cv.pdf", 100))
		if !errors.Is(err, appErrors.ErrAlreadyApplied) {
			t.Fatalf("error = %v, want ErrAlreadyApplied", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		svc, repo, store, j := setup()

		resumeName, err := svc.Apply(context.Background(), j.ID, applicantID, upload("my resume.PDF", 100))
		if err != nil {
			t.Fatalf("Apply returned error: %v", err)
		}

		want := fmt.Sprintf("Jane_Doe_%s.pdf", j.ID)
		if resumeName != want {
			t.Errorf("resume name = %q, want %q", resumeName, want)
		}
		if _, ok := store.saved[want]; !ok {
			t.Error("resume content was not saved")
		}
		if len(repo.appended) != 1 || repo.appended[0].UserID != applicantID {
			t.Error("applicant was not recorded")
		}
	})
}
