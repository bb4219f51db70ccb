package source

import "errors"

var (
	// ErrInvalidBaseURL is returned by NewCache for a base URL that is not an
	// absolute http(s) URL with a host.
	ErrInvalidBaseURL = errors.New("source: invalid base url")

	// ErrUnexpectedStatus wraps any non-2xx answer other than not found.
	ErrUnexpectedStatus = errors.New("source: unexpected status")
)
