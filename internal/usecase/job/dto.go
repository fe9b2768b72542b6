package job

import (
	"io"
	"time"

	domainJob "jobbee-api/internal/domain/job"

	"github.com/google/uuid"
)

// CreateJobRequest is also used for updates: job mutation is a
// full-document write with validation re-run.
type CreateJobRequest struct {
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"required,max=1000"`
	Address     string    `json:"address" validate:"required"`
	Company     string    `json:"company" validate:"required"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Industry    string    `json:"industry" validate:"required"`
	JobType     string    `json:"job_type" validate:"required,oneof=Permanent Temporary Internship"`
	Education   string    `json:"education" validate:"required"`
	Experience  string    `json:"experience" validate:"required"`
	Salary      float64   `json:"salary" validate:"gte=0"`
	Positions   int       `json:"positions" validate:"gte=1"`
	LastDate    time.Time `json:"last_date" validate:"required,future_date"`
}

// ResumeUpload carries one uploaded resume through the apply flow.
type ResumeUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// Response is the serialized form of a job listing.
type Response struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	Address          string    `json:"address"`
	Longitude        float64   `json:"longitude"`
	Latitude         float64   `json:"latitude"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
	Company          string    `json:"company"`
	Email            string    `json:"email,omitempty"`
	Industry         string    `json:"industry"`
	JobType          string    `json:"job_type"`
	Education        string    `json:"education"`
	Experience       string    `json:"experience"`
	Salary           float64   `json:"salary"`
	Positions        int       `json:"positions"`
	LastDate         time.Time `json:"last_date"`
	OwnerName        string    `json:"owner_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToResponse(j *domainJob.Job) *Response {
	if j == nil {
		return nil
	}
	return &Response{
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
		OwnerName:        j.OwnerName,
		CreatedAt:        j.CreatedAt,
	}
}

func ToResponses(jobs []*domainJob.Job) []*Response {
	responses := make([]*Response, len(jobs))
	for i, j := range jobs {
		responses[i] = ToResponse(j)
	}
	return responses
}
