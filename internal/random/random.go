package random

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_picker.go github.com/KirkDiggler/taskguess/internal/random Picker

// Picker picks uniformly distributed indexes
type Picker interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// Roller is a Picker backed by math/rand, safe for concurrent use
type Roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random index in [0, n). n < 1 is treated as 1.
func (r *Roller) Intn(n int) int {
	if n < 1 {
		n = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.random.Intn(n)
}
