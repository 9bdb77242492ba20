package session

import "time"

// Clock abstracts time for the session timers.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f on its own goroutine after d and returns a function
	// that cancels the call. stop reports whether the call was prevented.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Clock using time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
