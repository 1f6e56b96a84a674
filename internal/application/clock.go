package application

import "time"

// SystemClock is the wall-clock implementation of domain.Clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}
