// Package scoring turns a closed round into per-player point breakdowns.
package scoring

import (
	"github.com/KirkDiggler/taskguess/internal/models"
)

const (
	// TaskCompletionPoints is awarded to every player each round
	TaskCompletionPoints = 10

	// MajorityVotePoints is awarded per guess where the player's vote matched the majority verdict
	MajorityVotePoints = 5

	// AccurateGuessPoints is awarded to the author of a guess voted correct often enough
	AccurateGuessPoints = 15

	// AccurateGuessThreshold is the share of correct votes a guess needs for the bonus
	AccurateGuessThreshold = 0.6

	// TargetPointsPerGuess is awarded to the target for every guess received
	TargetPointsPerGuess = 3

	// MaxTargetBonus caps the target bonus
	MaxTargetBonus = 20
)

// Score computes the round score for every player in the given order.
// It never mutates its arguments.
func Score(round *models.Round, players []*models.Player) []*models.RoundScore {
	scores := make([]*models.RoundScore, 0, len(players))
	if round == nil {
		return scores
	}

	for _, player := range players {
		if player == nil {
			continue
		}

		score := &models.RoundScore{
			PlayerID:       player.ID,
			PlayerNickname: player.Nickname,
			IsTarget:       player.ID == round.TargetPlayerID,
		}
		score.Breakdown.TaskCompletion = TaskCompletionPoints

		if score.IsTarget {
			score.Breakdown.TargetBonus = targetBonus(len(round.Guesses))
		} else {
			score.Breakdown.CorrectGuesses = majorityPoints(round, player.ID)
			score.Breakdown.AccurateGuess = accuratePoints(round, player.ID)
		}

		score.Points = score.Breakdown.Total()
		scores = append(scores, score)
	}

	return scores
}

func targetBonus(guesses int) int {
	bonus := TargetPointsPerGuess * guesses
	if bonus > MaxTargetBonus {
		return MaxTargetBonus
	}
	return bonus
}

// majorityPoints awards every vote that agrees with a strict majority; ties award nothing
func majorityPoints(round *models.Round, playerID models.PlayerID) int {
	points := 0
	for _, guess := range round.Guesses {
		vote := guess.VoteBy(playerID)
		if vote == nil {
			continue
		}

		correct, incorrect := guess.Tally()
		if correct == incorrect {
			continue
		}

		if vote.IsCorrect == (correct > incorrect) {
			points += MajorityVotePoints
		}
	}
	return points
}

func accuratePoints(round *models.Round, playerID models.PlayerID) int {
	guess := round.GuessBy(playerID)
	if guess == nil || len(guess.Votes) == 0 {
		return 0
	}

	correct, _ := guess.Tally()
	if float64(correct)/float64(len(guess.Votes)) >= AccurateGuessThreshold {
		return AccurateGuessPoints
	}
	return 0
}
