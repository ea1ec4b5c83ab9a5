package models

import (
	"math"
	"time"
)

// RoundStatus represents the phase of a round
type RoundStatus string

const (
	RoundStatusTasks    RoundStatus = "tasks"
	RoundStatusGuessing RoundStatus = "guessing"
	RoundStatusVoting   RoundStatus = "voting"
	RoundStatusScoring  RoundStatus = "scoring"
	RoundStatusDone     RoundStatus = "done"
)

// Round is one complete task, guess, vote and score cycle for a single target
type Round struct {
	ID       RoundID     `json:"id"`
	RoomCode RoomCode    `json:"roomCode"`
	Number   int         `json:"number"`
	Status   RoundStatus `json:"status"`

	// TargetPlayerID is empty until the round reaches guessing
	TargetPlayerID PlayerID `json:"targetPlayerId,omitempty"`

	// Tasks are private to their owners and never serialized with the round
	Tasks []*Task `json:"-"`

	// Guesses are append-only; text is revealed through dedicated events
	Guesses []*Guess `json:"-"`

	GuessDeadline  *time.Time `json:"guessDeadline,omitempty"`
	VotingDeadline *time.Time `json:"votingDeadline,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Task is a private assignment for a single player in a single round
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	PlayerID    PlayerID   `json:"playerId"`
	AssignedAt  time.Time  `json:"assignedAt"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Guess is a free-text claim about what the target's task was
type Guess struct {
	ID             string    `json:"id"`
	RoundID        RoundID   `json:"roundId"`
	FromPlayerID   PlayerID  `json:"fromPlayerId"`
	TargetPlayerID PlayerID  `json:"targetPlayerId"`
	Text           string    `json:"text,omitempty"`
	Votes          []*Vote   `json:"votes"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Vote is a binary correctness judgement on a guess
type Vote struct {
	ID           string    `json:"id"`
	FromPlayerID PlayerID  `json:"fromPlayerId"`
	GuessID      string    `json:"guessId"`
	IsCorrect    bool      `json:"isCorrect"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// TaskStats summarises task completion for a round
type TaskStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completionRate"`
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}

	clone := *r
	clone.GuessDeadline = cloneTime(r.GuessDeadline)
	clone.VotingDeadline = cloneTime(r.VotingDeadline)

	clone.Tasks = make([]*Task, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		task := *t
		task.CompletedAt = cloneTime(t.CompletedAt)
		clone.Tasks = append(clone.Tasks, &task)
	}

	clone.Guesses = make([]*Guess, 0, len(r.Guesses))
	for _, g := range r.Guesses {
		clone.Guesses = append(clone.Guesses, g.Clone())
	}

	return &clone
}

// Clone returns a deep copy of the guess
func (g *Guess) Clone() *Guess {
	if g == nil {
		return nil
	}

	clone := *g
	clone.Votes = make([]*Vote, 0, len(g.Votes))
	for _, v := range g.Votes {
		vote := *v
		clone.Votes = append(clone.Votes, &vote)
	}

	return &clone
}

// Withheld returns a copy of the guess without its text or votes
func (g *Guess) Withheld() *Guess {
	return &Guess{
		ID:             g.ID,
		RoundID:        g.RoundID,
		FromPlayerID:   g.FromPlayerID,
		TargetPlayerID: g.TargetPlayerID,
		Votes:          []*Vote{},
		SubmittedAt:    g.SubmittedAt,
	}
}

// VoteBy returns the vote cast by the player on this guess, if any
func (g *Guess) VoteBy(id PlayerID) *Vote {
	for _, v := range g.Votes {
		if v.FromPlayerID == id {
			return v
		}
	}
	return nil
}

// Tally counts correct and incorrect votes
func (g *Guess) Tally() (correct, incorrect int) {
	for _, v := range g.Votes {
		if v.IsCorrect {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// TaskFor returns the player's task in this round
func (r *Round) TaskFor(id PlayerID) *Task {
	for _, t := range r.Tasks {
		if t.PlayerID == id {
			return t
		}
	}
	return nil
}

// RemoveTask drops the player's task, used when a player leaves mid-round
func (r *Round) RemoveTask(id PlayerID) bool {
	for i, t := range r.Tasks {
		if t.PlayerID == id {
			r.Tasks = append(r.Tasks[:i], r.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// GuessBy returns the guess authored by the player in this round
func (r *Round) GuessBy(id PlayerID) *Guess {
	for _, g := range r.Guesses {
		if g.FromPlayerID == id {
			return g
		}
	}
	return nil
}

// FindGuess looks a guess up by id
func (r *Round) FindGuess(id string) *Guess {
	for _, g := range r.Guesses {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// TaskStats computes completion statistics for the round
func (r *Round) TaskStats() TaskStats {
	stats := TaskStats{Total: len(r.Tasks)}
	for _, t := range r.Tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// AllTasksCompleted reports whether every task of the round is done
func (r *Round) AllTasksCompleted() bool {
	if len(r.Tasks) == 0 {
		return false
	}
	for _, t := range r.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// ReplacePlayerID rebinds every reference from oldID to newID
func (r *Round) ReplacePlayerID(oldID, newID PlayerID) {
	if r.TargetPlayerID == oldID {
		r.TargetPlayerID = newID
	}
	for _, t := range r.Tasks {
		if t.PlayerID == oldID {
			t.PlayerID = newID
		}
	}
	for _, g := range r.Guesses {
		if g.FromPlayerID == oldID {
			g.FromPlayerID = newID
		}
		if g.TargetPlayerID == oldID {
			g.TargetPlayerID = newID
		}
		for _, v := range g.Votes {
			if v.FromPlayerID == oldID {
				v.FromPlayerID = newID
			}
		}
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
