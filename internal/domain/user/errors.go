package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUserRole   = errors.New("invalid user role")

	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")
)
