package round

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// ErrRoundNotFound is returned when a round is not found
var ErrRoundNotFound = errors.New("round not found")

type memoryRepository struct {
	mu     sync.RWMutex
	rounds map[models.RoundID]*models.Round
}

// NewMemory creates a new in-memory round repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		rounds: make(map[models.RoundID]*models.Round),
	}
}

func (r *memoryRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Round == nil {
		return errors.New("input and round cannot be nil")
	}

	if input.Round.ID == "" {
		return errors.New("round ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rounds[input.Round.ID] = input.Round.Clone()

	return nil
}

func (r *memoryRepository) GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	round, ok := r.rounds[input.RoundID]
	if !ok {
		return nil, ErrRoundNotFound
	}

	return round.Clone(), nil
}

func (r *memoryRepository) DeleteRoundsForRoom(ctx context.Context, input *DeleteRoundsForRoomInput) error {
	if input == nil || input.RoomCode == "" {
		return errors.New("input and room code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, round := range r.rounds {
		if round.RoomCode == input.RoomCode {
			delete(r.rounds, id)
		}
	}

	return nil
}
