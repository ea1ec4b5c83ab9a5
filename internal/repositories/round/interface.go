package round

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// Repository defines the interface for round storage
type Repository interface {
	// SaveRound creates or replaces a round
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// GetRound retrieves a round by ID
	GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error)

	// DeleteRoundsForRoom drops every round that belongs to a room
	DeleteRoundsForRoom(ctx context.Context, input *DeleteRoundsForRoomInput) error
}

type SaveRoundInput struct {
	Round *models.Round
}

type GetRoundInput struct {
	RoundID models.RoundID
}

type DeleteRoundsForRoomInput struct {
	RoomCode models.RoomCode
}
