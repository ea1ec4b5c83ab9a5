package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds configuration for the timer scheduler
type Config struct {
	Logger zerolog.Logger
}

type entry struct {
	timer *time.Timer
	seq   uint64
}

// TimerScheduler is a Scheduler backed by time.AfterFunc
type TimerScheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
	stopped bool
	logger  zerolog.Logger
}

// New creates a new timer scheduler
func New(cfg *Config) *TimerScheduler {
	logger := zerolog.Nop()
	if cfg != nil {
		logger = cfg.Logger
	}

	return &TimerScheduler{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Schedule cancels any callback pending under key and arms a new one.
// The callback runs on its own goroutine, outside the scheduler lock.
func (s *TimerScheduler) Schedule(key string, after time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn().Str("key", key).Msg("schedule after stop ignored")
		return
	}

	if existing, ok := s.entries[key]; ok {
		existing.timer.Stop()
	}

	s.seq++
	seq := s.seq
	e := &entry{seq: seq}
	e.timer = time.AfterFunc(after, func() {
		if !s.claim(key, seq) {
			return
		}
		s.logger.Debug().Str("key", key).Msg("deadline fired")
		fn()
	})
	s.entries[key] = e
}

// claim removes the entry if it is still the one armed with seq.
// A replaced or cancelled timer whose func already started loses here.
func (s *TimerScheduler) claim(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.seq != seq {
		return false
	}
	delete(s.entries, key)
	return true
}

// Cancel drops the callback pending under key
func (s *TimerScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.entries, key)
	return true
}

// Pending returns the number of armed callbacks
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Stop cancels everything and refuses new callbacks
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, key)
	}
	s.stopped = true
}
