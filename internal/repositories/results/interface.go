package results

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/taskguess/internal/repositories/results Repository

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// Repository archives the outcome of finished games
type Repository interface {
	// SaveResult records a finished game
	SaveResult(ctx context.Context, input *SaveResultInput) error

	// GetResult retrieves a finished game by ID
	GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error)

	// GetRecentResults returns the latest finished games, newest first
	GetRecentResults(ctx context.Context, input *GetRecentResultsInput) (*GetRecentResultsOutput, error)

	// GetResultsForRoom returns the latest archived games played under a room code, newest first
	GetResultsForRoom(ctx context.Context, input *GetResultsForRoomInput) (*GetResultsForRoomOutput, error)
}
