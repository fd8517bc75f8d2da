package services

import (
	"sync"
	"time"
)

// CancelFunc cancels a scheduled task. Safe to call more than once, and safe
// to call after the task has fired.
type CancelFunc func()

// Scheduler owns every timer in the process: one-shot per-user queue timeouts
// (keyed so they can be replaced and cancelled) and fixed-interval sweeps.
// Handing out explicit cancel funcs avoids leaked timers holding references
// to entities that were already cleaned up by another path.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stops   []CancelFunc
	stopped bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[string]*time.Timer)}
}

// After runs fn once after d. A pending task with the same id is replaced.
// The returned cancel only affects this registration, never a successor that
// reused the id.
func (s *Scheduler) After(id string, d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}
	if prev, ok := s.timers[id]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		stale := s.stopped || s.timers[id] != t
		if !stale {
			delete(s.timers, id)
		}
		s.mu.Unlock()
		if !stale {
			fn()
		}
	})
	s.timers[id] = t
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timers[id] == t {
			delete(s.timers, id)
		}
		t.Stop()
	}
}

// Cancel stops the pending task with the given id, if any.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Every runs fn on a fixed interval until the returned stop func is called
// or the scheduler is stopped.
func (s *Scheduler) Every(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(done) })
	}
	s.stops = append(s.stops, stop)

	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return stop
}

// Stop cancels all pending tasks and interval sweeps.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	for _, stop := range s.stops {
		stop()
	}
	s.stops = nil
}
