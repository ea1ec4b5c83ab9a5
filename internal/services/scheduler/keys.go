package scheduler

import (
	"fmt"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// GuessKey is the deadline key of a round's guess window
func GuessKey(code models.RoomCode, roundID models.RoundID) string {
	return fmt.Sprintf("%s:%s:guess", code, roundID)
}

// VoteKey is the deadline key of a round's voting window
func VoteKey(code models.RoomCode, roundID models.RoundID) string {
	return fmt.Sprintf("%s:%s:vote", code, roundID)
}

// TransitionKey is the key of the delay between scoring and the next round
func TransitionKey(code models.RoomCode) string {
	return fmt.Sprintf("%s:transition", code)
}

// GraceKey is the key of a disconnected player's reconnect grace period
func GraceKey(id models.PlayerID) string {
	return fmt.Sprintf("player:%s:grace", id)
}
