package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account in the domain.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHashed string
	Role           Role

	// Reset fields are set only while a password-reset flow is in flight.
	// The token is stored as a sha-256 hex digest, never in clear.
	ResetPasswordToken  *string
	ResetPasswordExpire *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleUser     Role = "user"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// CanModify reports whether the user may mutate a resource owned by ownerID.
func (u *User) CanModify(ownerID uuid.UUID) bool {
	return u.ID == ownerID || u.Role == RoleAdmin
}

// ClearResetToken drops any pending password-reset state.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
}
