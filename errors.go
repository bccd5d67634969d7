package gate

import (
	"errors"
	"fmt"
)

var (
	// ErrNilCallback is returned by Submit when no callback was supplied.
	ErrNilCallback = errors.New("callback must not be nil")
)

// ConfigError indicates an invalid configuration value: a non-positive
// capacity or submission amount, or an admission rate limiter whose burst
// could never clear a request.
type ConfigError struct {
	Category string
	Amount   int64
	// Rate is true when the offending value is an admission rate burst
	// rather than a capacity or submission amount.
	Rate bool
}

func (e *ConfigError) Error() string {
	if e.Rate {
		return fmt.Sprintf("invalid admission burst %d for category %q: a finite rate needs a burst of at least 1",
			e.Amount, e.Category)
	}
	return fmt.Sprintf("invalid amount %d for category %q: must be positive", e.Amount, e.Category)
}

// AdmissionError indicates a request whose amount exceeds its category's
// capacity, so it could never be admitted even with the category idle.
//
// Submit returns it synchronously and enqueues nothing. SetCapacity returns
// it (joined, if several requests are affected) when lowering the capacity
// strands already-queued requests; the capacity change still applies, and
// the stranded requests stay queued until canceled through their tokens.
type AdmissionError struct {
	Category string
	Amount   int64
	Capacity int64
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("amount %d can never be admitted to category %q with capacity %d",
		e.Amount, e.Category, e.Capacity)
}
