package job

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"jobbee-api/internal/config"
	domainJob "jobbee-api/internal/domain/job"
	domainUser "jobbee-api/internal/domain/user"
	"jobbee-api/internal/infrastructure/geocode"
	"jobbee-api/internal/infrastructure/storage"
	"jobbee-api/internal/logger"
	appErrors "jobbee-api/pkg/errors"
	"jobbee-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// earthRadiusMiles converts a linear search distance into a spherical
// radius (a fraction of Earth's radius).
const earthRadiusMiles = 3963.0

var allowedResumeExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
}

// Service implements job listing use cases.
type Service struct {
	jobRepo  domainJob.Repository
	userRepo domainUser.Repository
	store    storage.ResumeStore
	geocoder geocode.Geocoder
	config   *config.Config
}

func NewService(
	jobRepo domainJob.Repository,
	userRepo domainUser.Repository,
	store storage.ResumeStore,
	geocoder geocode.Geocoder,
	cfg *config.Config,
) *Service {
	return &Service{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		store:    store,
		geocoder: geocoder,
		config:   cfg,
	}
}

// List executes a filtered, sorted, paginated job query built from the raw
// request parameters.
func (s *Service) List(ctx context.Context, params url.Values) ([]*Response, error) {
	jobs, err := s.jobRepo.List(ctx, &domainJob.Filter{
		Params:   params,
		PageSize: s.config.API.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return ToResponses(jobs), nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateJobRequest) (*Response, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	j := &domainJob.Job{
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Address:     req.Address,
		Company:     req.Company,
		Email:       req.Email,
		Industry:    req.Industry,
		JobType:     req.JobType,
		Education:   req.Education,
		Experience:  req.Experience,
		Salary:      req.Salary,
		Positions:   req.Positions,
		LastDate:    req.LastDate,
		UserID:      ownerID,
	}

	if err := s.resolveLocation(ctx, j); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, err
	}

	logger.Info("Job created",
		zap.String("job_id", j.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("event", "job_created"),
	)

	return ToResponse(j), nil
}

// GetByIDAndSlug returns the job only when both identifier and slug match
// the same record.
func (s *Service) GetByIDAndSlug(ctx context.Context, jobID uuid.UUID, jobSlug string) (*Response, error) {
	j, err := s.jobRepo.GetByIDAndSlug(ctx, jobID, jobSlug)
	if err != nil {
		if errors.Is(err, domainJob.ErrJobNotFound) {
			return nil, appErrors.ErrJobNotFound
		}
		return nil, err
	}

	return ToResponse(j), nil
}

func (s *Service) Update(ctx context.Context, jobID uuid.UUID, caller *domainUser.User, req *CreateJobRequest) (*Response, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domainJob.ErrJobNotFound) {
			return nil, appErrors.ErrJobNotFound
		}
		return nil, err
	}

	if !caller.CanModify(j.UserID) {
		return nil, appErrors.ErrNotJobOwner
	}

	addressChanged := j.Address != req.Address

	j.Title = req.Title
	j.Slug = slug.Make(req.Title)
	j.Description = req.Description
	j.Address = req.Address
	j.Company = req.Company
	j.Email = req.Email
	j.Industry = req.Industry
	j.JobType = req.JobType
	j.Education = req.Education
	j.Experience = req.Experience
	j.Salary = req.Salary
	j.Positions = req.Positions
	j.LastDate = req.LastDate

	if addressChanged {
		if err := s.resolveLocation(ctx, j); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	logger.Info("Job updated",
		zap.String("job_id", j.ID.String()),
		zap.String("caller_id", caller.ID.String()),
		zap.String("event", "job_updated"),
	)

	return ToResponse(j), nil
}

// Delete removes a job after removing its applicants' resumes from storage.
// Resume removal is best-effort: failures are logged and collected, never
// blocking record deletion.
func (s *Service) Delete(ctx context.Context, jobID uuid.UUID, caller *domainUser.User) error {
	j, err := s.jobRepo.GetWithApplicants(ctx, jobID)
	if err != nil {
		if errors.Is(err, domainJob.ErrJobNotFound) {
			return appErrors.ErrJobNotFound
		}
		return err
	}

	if !caller.CanModify(j.UserID) {
		return appErrors.ErrNotJobOwner
	}

	var removalFailures int
	for _, applicant := range j.Applicants {
		if err := s.store.Remove(ctx, applicant.Resume); err != nil {
			removalFailures++
			logger.Warn("Failed to remove resume file",
				zap.String("job_id", j.ID.String()),
				zap.String("resume", applicant.Resume),
				zap.Error(err),
			)
		}
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}

	logger.Info("Job deleted",
		zap.String("job_id", j.ID.String()),
		zap.String("caller_id", caller.ID.String()),
		zap.Int("resumes_removed", len(j.Applicants)-removalFailures),
		zap.Int("resume_removal_failures", removalFailures),
		zap.String("event", "job_deleted"),
	)

	return nil
}

// WithinRadius resolves a postal code and returns jobs inside the given
// distance (miles) of it.
func (s *Service) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]*Response, error) {
	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, appErrors.NewAppError("GEOCODING_FAILED",
			fmt.Sprintf("Could not resolve location for %q", zipcode), err)
	}

	radius := distanceMiles / earthRadiusMiles

	jobs, err := s.jobRepo.WithinRadius(ctx, loc.Latitude, loc.Longitude, radius)
	if err != nil {
		return nil, err
	}

	return ToResponses(jobs), nil
}

// Stats aggregates listings matching a topic, grouped by uppercased
// experience level. An empty aggregation is a valid empty result, not an
// error.
func (s *Service) Stats(ctx context.Context, topic string) ([]*domainJob.TopicStats, error) {
	return s.jobRepo.Stats(ctx, topic)
}

// Apply records one user's application with an uploaded resume.
func (s *Service) Apply(ctx context.Context, jobID, applicantID uuid.UUID, upload *ResumeUpload) (string, error) {
	j, err := s.jobRepo.GetWithApplicants(ctx, jobID)
	if err != nil {
		if errors.Is(err, domainJob.ErrJobNotFound) {
			return "", appErrors.ErrJobNotFound
		}
		return "", err
	}

	if !j.AcceptsApplications(time.Now()) {
		return "", appErrors.ErrDeadlinePassed
	}

	if j.HasApplicant(applicantID) {
		return "", appErrors.ErrAlreadyApplied
	}

	if upload == nil || upload.Content == nil {
		return "", appErrors.ErrNoResume
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if _, ok := allowedResumeExtensions[ext]; !ok {
		return "", appErrors.ErrBadResumeType
	}

	if upload.Size > s.config.Upload.MaxFileSize {
		return "", appErrors.ErrResumeTooLarge
	}

	applicant, err := s.userRepo.GetByID(ctx, applicantID)
	if err != nil {
		return "", err
	}

	resumeName := fmt.Sprintf("%s_%s%s",
		strings.ReplaceAll(applicant.Name, " ", "_"), j.ID.String(), ext)

	if err := s.store.Save(ctx, resumeName, upload.Content, upload.Size, upload.ContentType); err != nil {
		logger.Error("Resume upload failed",
			zap.String("job_id", j.ID.String()),
			zap.String("applicant_id", applicantID.String()),
			zap.Error(err),
		)
		return "", appErrors.NewAppError("UPLOAD_FAILED", "Resume upload failed", err)
	}

	err = s.jobRepo.AppendApplicant(ctx, j.ID, domainJob.Applicant{
		UserID: applicantID,
		Resume: resumeName,
	})
	if err != nil {
		// The unique index closes the race the pre-check cannot: a
		// concurrent duplicate surfaces here.
		if errors.Is(err, domainJob.ErrAlreadyApplied) {
			return "", appErrors.ErrAlreadyApplied
		}
		return "", err
	}

	logger.Info("Application recorded",
		zap.String("job_id", j.ID.String()),
		zap.String("applicant_id", applicantID.String()),
		zap.String("resume", resumeName),
		zap.String("event", "job_application_recorded"),
	)

	return resumeName, nil
}

// resolveLocation geocodes the job's free-text address into coordinates and
// derived address fields.
func (s *Service) resolveLocation(ctx context.Context, j *domainJob.Job) error {
	loc, err := s.geocoder.Geocode(ctx, j.Address)
	if err != nil {
		return appErrors.NewAppError("GEOCODING_FAILED",
			fmt.Sprintf("Could not resolve location for %q", j.Address), err)
	}

	j.Latitude = loc.Latitude
	j.Longitude = loc.Longitude
	j.FormattedAddress = loc.FormattedAddress
	j.City = loc.City
	j.State = loc.State
	j.Zipcode = loc.Zipcode
	j.Country = loc.Country

	return nil
}
