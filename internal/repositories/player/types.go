package player

import "github.com/KirkDiggler/taskguess/internal/models"

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID models.PlayerID
}

// GetPlayersInput contains parameters for retrieving several players
type GetPlayersInput struct {
	PlayerIDs []models.PlayerID
}

// GetPlayersOutput contains the players in request order
type GetPlayersOutput struct {
	Players []*models.Player
}

// DeletePlayerInput contains parameters for removing a player
type DeletePlayerInput struct {
	PlayerID models.PlayerID
}

// RebindPlayerInput contains parameters for moving a player to a new id
type RebindPlayerInput struct {
	OldPlayerID models.PlayerID
	NewPlayerID models.PlayerID
}
