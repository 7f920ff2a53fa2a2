package dashboard

import "errors"

// Error constants.
var (
	ErrRequest          = errors.New("api request failed")
	ErrUnexpectedStatus = errors.New("unexpected api status")
	ErrDecode           = errors.New("api response decode failed")
)
