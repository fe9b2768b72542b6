package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrMissingCredentials      = errors.New("please enter email and password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUserRole   = errors.New("invalid user role")

	ErrJobNotFound    = errors.New("job not found")
	ErrNotJobOwner    = errors.New("user is not allowed to modify this job")
	ErrDeadlinePassed = errors.New("the application deadline for this job has passed")
	ErrAlreadyApplied = errors.New("you have already applied to this job")
	ErrNoResume       = errors.New("please upload a resume file")
	ErrBadResumeType  = errors.New("please upload a document file (.pdf or .docx)")
	ErrResumeTooLarge = errors.New("resume exceeds the maximum upload size")

	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")
	ErrEmailNotSent      = errors.New("email could not be sent")

	ErrInvalidInput = errors.New("invalid input data")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
