package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainJob "jobbee-api/internal/domain/job"
	"jobbee-api/internal/infrastructure/database/postgres/models"
	"jobbee-api/pkg/apifilters"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRepository implements the job domain repository on gorm.
type JobRepository struct {
	db *DB
}

func NewJobRepository(db *DB) domainJob.Repository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j *domainJob.Job) error {
	j.ID = uuid.New()
	j.CreatedAt = time.Now()
	j.UpdatedAt = time.Now()

	dbModel := toJobModel(j)
	if err := r.db.DB.WithContext(ctx).Omit("User", "Applicants").Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	j.ID = dbModel.ID
	j.CreatedAt = dbModel.CreatedAt
	j.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *JobRepository) List(ctx context.Context, filter *domainJob.Filter) ([]*domainJob.Job, error) {
	var dbModels []models.JobModel

	query := r.db.DB.WithContext(ctx).Model(&models.JobModel{})
	query = apifilters.New(query, filter.Params).
		WithPageSize(filter.PageSize).
		Filter().
		Search().
		Sort().
		LimitFields().
		Paginate().
		Query()

	if err := query.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]*domainJob.Job, len(dbModels))
	for i := range dbModels {
		jobs[i] = toJobEntity(&dbModels[i])
	}
	return jobs, nil
}

func (r *JobRepository) GetByIDAndSlug(ctx context.Context, jobID uuid.UUID, slug string) (*domainJob.Job, error) {
	var dbModel models.JobModel
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		Where("id = ? AND slug = ?", jobID, slug).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainJob.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := toJobEntity(&dbModel)
	job.OwnerName = dbModel.User.Name
	return job, nil
}

func (r *JobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*domainJob.Job, error) {
	var dbModel models.JobModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", jobID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainJob.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return toJobEntity(&dbModel), nil
}

func (r *JobRepository) GetWithApplicants(ctx context.Context, jobID uuid.UUID) (*domainJob.Job, error) {
	var dbModel models.JobModel
	err := r.db.DB.WithContext(ctx).
		Preload("Applicants").
		Where("id = ?", jobID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainJob.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return toJobEntity(&dbModel), nil
}

func (r *JobRepository) Update(ctx context.Context, j *domainJob.Job) error {
	j.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("id = ?", j.ID).
		Updates(map[string]interface{}{
			"title":             j.Title,
			"slug":              j.Slug,
			"description":       j.Description,
			"address":           j.Address,
			"longitude":         j.Longitude,
			"latitude":          j.Latitude,
			"formatted_address": j.FormattedAddress,
			"city":              j.City,
			"state":             j.State,
			"zipcode":           j.Zipcode,
			"country":           j.Country,
			"company":           j.Company,
			"email":             j.Email,
			"industry":          j.Industry,
			"job_type":          j.JobType,
			"education":         j.Education,
			"experience":        j.Experience,
			"salary":            j.Salary,
			"positions":         j.Positions,
			"last_date":         j.LastDate,
			"updated_at":        j.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainJob.ErrJobNotFound
	}

	return nil
}

func (r *JobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Select("Applicants").
		Delete(&models.JobModel{ID: jobID})

	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainJob.ErrJobNotFound
	}

	return nil
}

func (r *JobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domainJob.Job, error) {
	var dbModels []models.JobModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by owner: %w", err)
	}

	jobs := make([]*domainJob.Job, len(dbModels))
	for i := range dbModels {
		jobs[i] = toJobEntity(&dbModels[i])
	}
	return jobs, nil
}

func (r *JobRepository) ListAppliedBy(ctx context.Context, userID uuid.UUID) ([]*domainJob.Job, error) {
	var dbModels []models.JobModel
	err := r.db.DB.WithContext(ctx).
		Joins("JOIN job_applicants ON job_applicants.job_id = jobs.id").
		Where("job_applicants.user_id = ?", userID).
		Order("job_applicants.created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applied jobs: %w", err)
	}

	jobs := make([]*domainJob.Job, len(dbModels))
	for i := range dbModels {
		jobs[i] = toJobEntity(&dbModels[i])
	}
	return jobs, nil
}

func (r *JobRepository) ListApplicationsBy(ctx context.Context, userID uuid.UUID) ([]domainJob.Applicant, error) {
	var dbModels []models.JobApplicantModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	applicants := make([]domainJob.Applicant, len(dbModels))
	for i, m := range dbModels {
		applicants[i] = domainJob.Applicant{UserID: m.UserID, Resume: m.Resume}
	}
	return applicants, nil
}

// WithinRadius compares the great-circle central angle between each job's
// location and the search point against the given radius (a fraction of
// Earth's radius, so distance-unit free).
func (r *JobRepository) WithinRadius(ctx context.Context, latitude, longitude, radius float64) ([]*domainJob.Job, error) {
	var dbModels []models.JobModel
	err := r.db.DB.WithContext(ctx).
		Where(`acos(LEAST(1.0,
			sin(radians(?)) * sin(radians(latitude)) +
			cos(radians(?)) * cos(radians(latitude)) *
			cos(radians(longitude) - radians(?)))) <= ?`,
			latitude, latitude, longitude, radius).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs in radius: %w", err)
	}

	jobs := make([]*domainJob.Job, len(dbModels))
	for i := range dbModels {
		jobs[i] = toJobEntity(&dbModels[i])
	}
	return jobs, nil
}

func (r *JobRepository) Stats(ctx context.Context, topic string) ([]*domainJob.TopicStats, error) {
	var stats []*domainJob.TopicStats
	err := r.db.DB.WithContext(ctx).Raw(`
        SELECT
            UPPER(experience) AS experience,
            COUNT(*) AS total_jobs,
            AVG(positions) AS avg_positions,
            AVG(salary) AS avg_salary,
            MIN(salary) AS min_salary,
            MAX(salary) AS max_salary
        FROM jobs
        WHERE to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', ?)
        GROUP BY UPPER(experience)
    `, topic).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate job stats: %w", err)
	}

	return stats, nil
}

func (r *JobRepository) AppendApplicant(ctx context.Context, jobID uuid.UUID, applicant domainJob.Applicant) error {
	dbModel := &models.JobApplicantModel{
		ID:        uuid.New(),
		JobID:     jobID,
		UserID:    applicant.UserID,
		Resume:    applicant.Resume,
		CreatedAt: time.Now(),
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainJob.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to record application: %w", err)
	}

	return nil
}

func toJobModel(j *domainJob.Job) *models.JobModel {
	return &models.JobModel{
		ID:               j.ID,
		Title:            j.Title,
		Slug:             j.Slug,
		Description:      j.Description,
		Address:          j.Address,
		Longitude:        j.Longitude,
		Latitude:         j.Latitude,
		FormattedAddress: j.FormattedAddress,
		City:             j.City,
		State:            j.State,
		Zipcode:          j.Zipcode,
		Country:          j.Country,
		Company:          j.Company,
		Email:            j.Email,
		Industry:         j.Industry,
		JobType:          j.JobType,
		Education:        j.Education,
		Experience:       j.Experience,
		Salary:           j.Salary,
		Positions:        j.Positions,
		LastDate:         j.LastDate,
		UserID:           j.UserID,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func toJobEntity(m *models.JobModel) *domainJob.Job {
	job := &domainJob.Job{
		ID:               m.ID,
		Title:            m.Title,
		Slug:             m.Slug,
		Description:      m.Description,
		Address:          m.Address,
		Longitude:        m.Longitude,
		Latitude:         m.Latitude,
		FormattedAddress: m.FormattedAddress,
		City:             m.City,
		State:            m.State,
		Zipcode:          m.Zipcode,
		Country:          m.Country,
		Company:          m.Company,
		Email:            m.Email,
		Industry:         m.Industry,
		JobType:          m.JobType,
		Education:        m.Education,
		Experience:       m.Experience,
		Salary:           m.Salary,
		Positions:        m.Positions,
		LastDate:         m.LastDate,
		UserID:           m.UserID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	for _, a := range m.Applicants {
		job.Applicants = append(job.Applicants, domainJob.Applicant{
			UserID: a.UserID,
			Resume: a.Resume,
		})
	}

	return job
}
