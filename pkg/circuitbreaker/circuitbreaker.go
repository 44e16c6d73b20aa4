package circuitbreaker

import "github.com/sony/gobreaker"

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// that trips once more than MaxNumOfFailingRequests requests have been made
// and the failing ratio has met FailingRatio. The optional onStateChange hook
// is invoked on every transition.
func NewCircuitBreaker(
	name string, onStateChange func(name string, from, to gobreaker.State),
) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: onStateChange,
	})
}
