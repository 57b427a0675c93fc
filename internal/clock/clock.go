// Package clock abstracts time.Now so time-window logic stays
// deterministic under test.
package clock

import "time"

// Clock provides the current time. Freshness and scheduling logic depend
// on this interface, not on time.Now directly.
type Clock interface {
	Now() time.Time
}

// Real returns the actual system time. Used at the cmd/server entry point.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Used in tests.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }
