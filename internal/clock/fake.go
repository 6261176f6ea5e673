package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manual clock for tests. Advance moves time forward and runs
// due callbacks in firing order on the calling goroutine.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{clock: f, at: f.now.Add(d), fn: fn}
	f.pending = append(f.pending, t)
	return t
}

// Advance moves the clock by d, firing every timer due on the way, in
// timestamp order. Callbacks may schedule new timers; those fire too if
// they fall within the advanced window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		t := f.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	f.mu.Lock()
	f.now = target
	f.mu.Unlock()
}

// nextDue pops the earliest pending timer at or before target, setting
// now to its fire time.
func (f *Fake) nextDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	sort.SliceStable(f.pending, func(i, j int) bool {
		return f.pending[i].at.Before(f.pending[j].at)
	})
	for i, t := range f.pending {
		if t.canceled {
			continue
		}
		if t.at.After(target) {
			break
		}
		f.pending = append(f.pending[:i:i], f.pending[i+1:]...)
		f.now = t.at
		return t
	}
	return nil
}

// Jump moves the clock forward without running due callbacks. It models
// the real-clock window where a timer has expired but its callback has
// not been scheduled onto the CPU yet.
func (f *Fake) Jump(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Pending reports how many live timers are scheduled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.pending {
		if !t.canceled {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	clock    *Fake
	at       time.Time
	fn       func()
	canceled bool
}

func (t *fakeTimer) Cancel() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.canceled = true
}
