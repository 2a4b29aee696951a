// Package clock lets repositories stamp battles with a time source tests can
// control.
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-campaign/internal/pkg/clock Clock

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// Func adapts a function to Clock
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time {
	return f()
}

// New returns the wall clock in UTC
func New() Clock {
	return Func(func() time.Time { return time.Now().UTC() })
}

// Fixed returns a clock stuck at t
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
