package user

import (
	"time"

	domainUser "jobbee-api/internal/domain/user"
	jobUsecase "jobbee-api/internal/usecase/job"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserResponse is the safe serialization of a user; it never carries the
// password hash or reset-token state.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is the session-issuance payload.
type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expires_at"`
}

// ProfileResponse is the authenticated user's own view: employers see the
// jobs they published, applicants see the jobs they applied to.
type ProfileResponse struct {
	User          *UserResponse          `json:"user"`
	PublishedJobs []*jobUsecase.Response `json:"published_jobs,omitempty"`
	AppliedJobs   []*jobUsecase.Response `json:"applied_jobs,omitempty"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
