package scheduler

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_scheduler.go github.com/KirkDiggler/taskguess/internal/services/scheduler Scheduler

// Scheduler runs one-shot callbacks keyed by an identifier
type Scheduler interface {
	// Schedule replaces any pending callback under key
	Schedule(key string, after time.Duration, fn func())

	// Cancel drops the pending callback under key, reporting whether one existed
	Cancel(key string) bool

	// Pending returns the number of callbacks waiting to fire
	Pending() int

	// Stop cancels every pending callback
	Stop()
}
