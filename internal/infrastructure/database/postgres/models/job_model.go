package models

import (
	"time"

	"github.com/google/uuid"
)

// JobModel represents the database model for Job listings.
type JobModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text;not null"`

	Address          string  `gorm:"type:text;not null"`
	Longitude        float64 `gorm:"type:double precision;index:idx_jobs_location"`
	Latitude         float64 `gorm:"type:double precision;index:idx_jobs_location"`
	FormattedAddress string  `gorm:"type:text"`
	City             string  `gorm:"type:varchar(255)"`
	State            string  `gorm:"type:varchar(255)"`
	Zipcode          string  `gorm:"type:varchar(20)"`
	Country          string  `gorm:"type:varchar(100)"`

	Company    string    `gorm:"type:varchar(255);not null"`
	Email      string    `gorm:"type:varchar(255)"`
	Industry   string    `gorm:"type:varchar(255);index"`
	JobType    string    `gorm:"type:varchar(100)"`
	Education  string    `gorm:"type:varchar(100)"`
	Experience string    `gorm:"type:varchar(100);index"`
	Salary     float64   `gorm:"type:numeric;not null"`
	Positions  int       `gorm:"type:integer;not null;default:1"`
	LastDate   time.Time `gorm:"not null"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   UserModel `gorm:"foreignKey:UserID"`

	Applicants []JobApplicantModel `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (JobModel) TableName() string {
	return "jobs"
}

// JobApplicantModel records one user's application to one job. The unique
// index over (job_id, user_id) makes duplicate applications impossible even
// under concurrent requests.
type JobApplicantModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	JobID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applicant"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applicant"`
	Resume string    `gorm:"type:varchar(512);not null"`

	CreatedAt time.Time `gorm:"not null"`
}

func (JobApplicantModel) TableName() string {
	return "job_applicants"
}
