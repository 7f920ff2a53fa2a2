package traffic

import "errors"

// Error constants.
var (
	ErrInvalidConfig   = errors.New("invalid traffic config")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrUnhealthy       = errors.New("api health check failed")
)
