package httpmessenger

import "errors"

var (
	// ErrMissingEndpoints ...
	ErrMissingEndpoints = errors.New("at least one peer endpoint is required")
	// ErrUnknownDomain is returned when delivering to a domain without a
	// configured endpoint.
	ErrUnknownDomain = errors.New("no endpoint configured for destination domain")
)
