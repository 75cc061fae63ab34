package fetch

import "time"

// ServiceError means an upstream API reported a client-side failure:
// a 4xx status or a body that could not be decoded. The message is
// human-readable and safe to show without a stack trace.
type ServiceError struct {
	URL     string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// RateLimitError is raised when the upstream throttles us. The message
// includes an estimated wait time.
type RateLimitError struct {
	ServiceError
	Reset time.Time
}

func (e *RateLimitError) Unwrap() error {
	return &e.ServiceError
}
