package player

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// Repository is the player registry. It owns the canonical Player records.
type Repository interface {
	// SavePlayer creates or replaces a player
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// GetPlayers retrieves players in the order of the given ids
	GetPlayers(ctx context.Context, input *GetPlayersInput) (*GetPlayersOutput, error)

	// DeletePlayer removes a player
	DeletePlayer(ctx context.Context, input *DeletePlayerInput) error

	// RebindPlayer moves a player record to a new connection id
	RebindPlayer(ctx context.Context, input *RebindPlayerInput) (*models.Player, error)

	// CountPlayers returns the number of registered players
	CountPlayers(ctx context.Context) (int, error)
}
