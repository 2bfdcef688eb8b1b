package clock

import (
	"context"
	"sort"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Handle identifies a scheduled task. The zero Handle is never issued, so it
// is safe to Clear a Handle that was never assigned.
type Handle int64

type task struct {
	handle   Handle
	fn       func()
	nextDue  int64
	interval int64 // 0 for one-shot tasks
}

// Scheduler drives all game logic on a single goroutine over a fixed-rate
// logical clock. Handlers run to completion each tick; no two handlers ever
// execute concurrently. Registration and clearing are safe from any
// goroutine, including from within a running handler.
type Scheduler struct {
	mutex    deadlock.Mutex
	tick     int64
	nextID   Handle
	tasks    map[Handle]*task
	duration time.Duration
}

// NewScheduler returns a scheduler whose real-time cadence is one tick per
// d. Tests drive it manually with Advance instead of Poll.
func NewScheduler(d time.Duration) *Scheduler {
	return &Scheduler{
		tasks:    make(map[Handle]*task),
		duration: d,
	}
}

func (s *Scheduler) CurrentTick() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.tick
}

func (s *Scheduler) schedule(fn func(), delay int64, interval int64) Handle {
	if delay < 1 {
		delay = 1
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++
	handle := s.nextID
	s.tasks[handle] = &task{
		handle:   handle,
		fn:       fn,
		nextDue:  s.tick + delay,
		interval: interval,
	}
	return handle
}

// Run schedules fn to run once on the next tick.
func (s *Scheduler) Run(fn func()) Handle {
	return s.schedule(fn, 1, 0)
}

// RunTimeout schedules fn to run once after delay ticks.
func (s *Scheduler) RunTimeout(fn func(), delay int64) Handle {
	return s.schedule(fn, delay, 0)
}

// RunInterval schedules fn to run every `every` ticks, first firing after
// `every` ticks.
func (s *Scheduler) RunInterval(fn func(), every int64) Handle {
	if every < 1 {
		every = 1
	}
	return s.schedule(fn, every, every)
}

// Clear cancels a scheduled task. Clearing an expired, cleared, or
// never-issued handle is a no-op.
func (s *Scheduler) Clear(handle Handle) {
	s.mutex.Lock()
	delete(s.tasks, handle)
	s.mutex.Unlock()
}

// Advance steps the logical clock n ticks, running every task that comes due
// along the way. Tasks due on the same tick run in registration order; a task
// cleared by an earlier handler on the same tick does not run.
func (s *Scheduler) Advance(n int64) {
	for ; n > 0; n-- {
		s.mutex.Lock()
		s.tick++
		now := s.tick

		due := make([]*task, 0)
		for _, t := range s.tasks {
			if t.nextDue <= now {
				due = append(due, t)
			}
		}
		sort.Slice(due, func(i, j int) bool {
			return due[i].handle < due[j].handle
		})
		s.mutex.Unlock()

		for _, t := range due {
			s.mutex.Lock()
			_, alive := s.tasks[t.handle]
			if alive {
				if t.interval > 0 {
					t.nextDue = now + t.interval
				} else {
					delete(s.tasks, t.handle)
				}
			}
			s.mutex.Unlock()

			if alive {
				t.fn()
			}
		}
	}
}

// Poll drives the scheduler in real time until ctx is canceled.
func (s *Scheduler) Poll(ctx context.Context) {
	ticker := time.NewTicker(s.duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(1)
		}
	}
}
