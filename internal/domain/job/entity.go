package job

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Job represents a job listing in the domain.
type Job struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string

	// Address is the free-text location supplied by the employer; the
	// remaining location fields are derived from it by geocoding.
	Address          string
	Longitude        float64
	Latitude         float64
	FormattedAddress string
	City             string
	State            string
	Zipcode          string
	Country          string

	Company    string
	Email      string
	Industry   string
	JobType    string
	Education  string
	Experience string
	Salary     float64
	Positions  int
	LastDate   time.Time

	// UserID is the owning user; immutable after creation.
	UserID uuid.UUID
	// OwnerName is populated on single-job reads.
	OwnerName string

	Applicants []Applicant

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Applicant links one user's application (and uploaded resume) to a job.
type Applicant struct {
	UserID uuid.UUID
	Resume string
}

// AcceptsApplications reports whether the application deadline is still open.
func (j *Job) AcceptsApplications(now time.Time) bool {
	return j.LastDate.After(now)
}

// HasApplicant reports whether the given user already applied.
func (j *Job) HasApplicant(userID uuid.UUID) bool {
	for _, a := range j.Applicants {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// Filter carries the raw listing query parameters plus the configured page
// size; interpretation happens in the query-filter builder.
type Filter struct {
	Params   url.Values
	PageSize int
}

// TopicStats is one aggregation bucket of the per-topic statistics,
// grouped by uppercased experience level.
type TopicStats struct {
	Experience   string  `json:"experience"`
	TotalJobs    int64   `json:"total_jobs"`
	AvgPositions float64 `json:"avg_positions"`
	AvgSalary    float64 `json:"avg_salary"`
	MinSalary    float64 `json:"min_salary"`
	MaxSalary    float64 `json:"max_salary"`
}
