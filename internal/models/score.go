package models

// ScoreBreakdown itemises the points of a round score
type ScoreBreakdown struct {
	TaskCompletion int `json:"taskCompletion"`
	CorrectGuesses int `json:"correctGuesses"`
	AccurateGuess  int `json:"accurateGuess"`
	TargetBonus    int `json:"targetBonus"`
}

// Total sums every component
func (b ScoreBreakdown) Total() int {
	return b.TaskCompletion + b.CorrectGuesses + b.AccurateGuess + b.TargetBonus
}

// RoundScore is computed once per round, applied to Player.Score and discarded
type RoundScore struct {
	PlayerID       PlayerID       `json:"playerId"`
	PlayerNickname string         `json:"playerNickname"`
	Points         int            `json:"points"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	IsTarget       bool           `json:"isTarget"`
}

// FinalScore is a player's standing when the game ends
type FinalScore struct {
	PlayerID PlayerID `json:"playerId"`
	Nickname string   `json:"nickname"`
	Score    int      `json:"score"`
}
