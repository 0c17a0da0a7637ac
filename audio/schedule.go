package audio

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it
	// before it ran.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Engine teardowns go through it.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock schedules callbacks on real time.
var WallClock Scheduler = wallClock{}

// ManualScheduler is a Scheduler driven by explicit Advance calls. Offline
// rendering advances it in step with the rendered audio; tests use it to
// fire teardowns deterministically.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	s     *ManualScheduler
	at    time.Duration
	seq   uint64
	f     func()
	state int // 0 pending, 1 fired, 2 stopped
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the scheduler's elapsed time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of callbacks that have neither fired nor been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves time forward by d, running due callbacks in deadline order
// on the calling goroutine. Callbacks may schedule further callbacks; those
// that fall within the window also run.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		t := s.nextDueLocked(target)
		if t == nil {
			break
		}
		s.now = t.at
		t.state = 1
		s.mu.Unlock()
		t.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	t := s.timers[0]
	if t.at > target {
		return nil
	}
	s.timers = s.timers[1:]
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.state != 0 {
		return false
	}
	t.state = 2
	for i, other := range t.s.timers {
		if other == t {
			t.s.timers = append(t.s.timers[:i], t.s.timers[i+1:]...)
			break
		}
	}
	return true
}
