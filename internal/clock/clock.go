// Package clock abstracts the one-shot timer facility the game session
// runs on, so tests can drive timer callbacks deterministically.
package clock

import "time"

type Timer interface {
	// Cancel stops the timer. A canceled timer's callback is guaranteed
	// not to run afterwards as long as callbacks and Cancel are
	// serialized by the caller's lock; canceling an already-fired or
	// already-canceled timer is a no-op.
	Cancel()
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Cancel() {
	r.t.Stop()
}
