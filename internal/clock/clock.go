// Package clock provides the time capability injected into the engines so
// tests can pin "now" instead of reading the wall clock ad hoc.
package clock

import "time"

// Clock returns the current clinic time.
type Clock func() time.Time

// System reads the wall clock in UTC.
func System() time.Time {
	return time.Now().UTC()
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
