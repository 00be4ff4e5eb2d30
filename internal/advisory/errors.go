package advisory

import "errors"

var (
	// ErrAdvisorUnavailable indicates the advisory service is unreachable.
	ErrAdvisorUnavailable = errors.New("advisory service unavailable")

	// ErrTimeout indicates the advisory request exceeded the configured timeout.
	ErrTimeout = errors.New("advisory request timed out")

	// ErrInvalidOutput indicates the advisory response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid advisory output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("advisory retry attempts exhausted")
)
