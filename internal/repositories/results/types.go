package results

import "github.com/KirkDiggler/taskguess/internal/models"

// SaveResultInput contains parameters for archiving a game
type SaveResultInput struct {
	Result *models.GameResult
}

// GetResultInput contains parameters for retrieving an archived game
type GetResultInput struct {
	ResultID string
}

// GetRecentResultsInput contains parameters for listing recent games
type GetRecentResultsInput struct {
	// Limit defaults to 20 when zero
	Limit int
}

// GetRecentResultsOutput contains recent games, newest first
type GetRecentResultsOutput struct {
	Results []*models.GameResult
}

// GetResultsForRoomInput contains parameters for listing a room's games
type GetResultsForRoomInput struct {
	RoomCode models.RoomCode
}

// GetResultsForRoomOutput contains the room's games, newest first
type GetResultsForRoomOutput struct {
	Results []*models.GameResult
}
