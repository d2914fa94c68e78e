package engine

import "time"

// Clock supplies the current time for deadline checks.
// It is read once per precondition check and never polled.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns time.Now in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
