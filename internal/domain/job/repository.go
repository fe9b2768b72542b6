package job

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for job persistence.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	List(ctx context.Context, filter *Filter) ([]*Job, error)
	// GetByIDAndSlug returns the job only when both identifier and slug
	// match the same record. Includes the owner's name.
	GetByIDAndSlug(ctx context.Context, jobID uuid.UUID, slug string) (*Job, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*Job, error)
	// GetWithApplicants loads the normally-hidden applicants list.
	GetWithApplicants(ctx context.Context, jobID uuid.UUID) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, jobID uuid.UUID) error

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Job, error)
	ListAppliedBy(ctx context.Context, userID uuid.UUID) ([]*Job, error)
	// ListApplicationsBy returns the user's applicant rows across all jobs.
	ListApplicationsBy(ctx context.Context, userID uuid.UUID) ([]Applicant, error)

	// WithinRadius selects jobs whose location falls inside the spherical
	// cap of the given radius (expressed as a fraction of Earth's radius)
	// around the point.
	WithinRadius(ctx context.Context, latitude, longitude, radius float64) ([]*Job, error)
	// Stats aggregates jobs matching the topic, grouped by uppercased
	// experience level.
	Stats(ctx context.Context, topic string) ([]*TopicStats, error)

	// AppendApplicant atomically records an application; a duplicate
	// (job, user) pair yields ErrAlreadyApplied.
	AppendApplicant(ctx context.Context, jobID uuid.UUID, applicant Applicant) error
}
