package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, userID uuid.UUID) error

	// SetResetToken persists the hashed reset token and its expiry without
	// re-running full entity validation. Passing nils clears the fields.
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash *string, expiresAt *time.Time) error
	// GetByResetToken returns the user whose stored token hash matches and
	// whose expiry is still in the future, or ErrResetTokenInvalid.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	// ClearExpiredResetTokens drops reset state whose expiry has passed.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
