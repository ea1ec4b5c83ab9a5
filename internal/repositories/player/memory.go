package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KirkDiggler/taskguess/internal/models"
)

var (
	// ErrPlayerNotFound is returned when a player is not found
	ErrPlayerNotFound = errors.New("player not found")

	// ErrPlayerExists is returned when rebinding onto an id that is already taken
	ErrPlayerExists = errors.New("player already exists")
)

// memoryRepository implements the Repository interface in process memory
type memoryRepository struct {
	mu      sync.RWMutex
	players map[models.PlayerID]*models.Player
}

// NewMemory creates a new in-memory player registry
func NewMemory() *memoryRepository {
	return &memoryRepository{
		players: make(map[models.PlayerID]*models.Player),
	}
}

// SavePlayer creates or replaces a player
func (r *memoryRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}

	if input.Player.ID == "" {
		return errors.New("player ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[input.Player.ID] = input.Player.Clone()

	return nil
}

// GetPlayer retrieves a player by ID
func (r *memoryRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return player.Clone(), nil
}

// GetPlayers retrieves players in the order of the given ids
func (r *memoryRepository) GetPlayers(ctx context.Context, input *GetPlayersInput) (*GetPlayersOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*models.Player, 0, len(input.PlayerIDs))
	for _, id := range input.PlayerIDs {
		player, ok := r.players[id]
		if !ok {
			return nil, fmt.Errorf("failed to get player %s: %w", id, ErrPlayerNotFound)
		}
		players = append(players, player.Clone())
	}

	return &GetPlayersOutput{
		Players: players,
	}, nil
}

// DeletePlayer removes a player
func (r *memoryRepository) DeletePlayer(ctx context.Context, input *DeletePlayerInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[input.PlayerID]; !ok {
		return ErrPlayerNotFound
	}

	delete(r.players, input.PlayerID)

	return nil
}

// RebindPlayer moves a player record to a new connection id
func (r *memoryRepository) RebindPlayer(ctx context.Context, input *RebindPlayerInput) (*models.Player, error) {
	if input == nil || input.OldPlayerID == "" || input.NewPlayerID == "" {
		return nil, errors.New("input and player IDs cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[input.OldPlayerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if _, taken := r.players[input.NewPlayerID]; taken {
		return nil, ErrPlayerExists
	}

	delete(r.players, input.OldPlayerID)
	player.ID = input.NewPlayerID
	r.players[input.NewPlayerID] = player

	return player.Clone(), nil
}

// CountPlayers returns the number of registered players
func (r *memoryRepository) CountPlayers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players), nil
}
