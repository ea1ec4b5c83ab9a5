package models

import (
	"time"
)

// GameResult is the archived outcome of a finished game
type GameResult struct {
	// ID is unique per finished game; room codes are reused
	ID string `json:"id"`

	RoomCode RoomCode `json:"roomCode"`
	RoomName string   `json:"roomName"`

	// Rounds is the number of rounds played
	Rounds int `json:"rounds"`

	FinalScores []*FinalScore `json:"finalScores"`

	EndedAt time.Time `json:"endedAt"`
}

// Winner returns the highest final score, first entry on ties
func (r *GameResult) Winner() *FinalScore {
	var winner *FinalScore
	for _, s := range r.FinalScores {
		if winner == nil || s.Score > winner.Score {
			winner = s
		}
	}
	return winner
}
