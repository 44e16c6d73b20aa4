package kafkamessenger

import "errors"

var (
	// ErrMissingBrokers ...
	ErrMissingBrokers = errors.New("at least one kafka broker is required")
	// ErrMissingHandler ...
	ErrMissingHandler = errors.New("missing inbound message handler")
)
