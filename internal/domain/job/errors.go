package job

import "errors"

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrAlreadyApplied = errors.New("user has already applied to this job")
)
