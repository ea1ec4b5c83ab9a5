package session

import (
	"time"

	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	roomRepo "github.com/KirkDiggler/taskguess/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/taskguess/internal/repositories/round"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
	"github.com/KirkDiggler/taskguess/internal/services/tasks"
	"github.com/rs/zerolog"
)

// Default phase timings
const (
	DefaultGuessWindow     = 60 * time.Second
	DefaultVotingWindow    = 45 * time.Second
	DefaultReconnectGrace  = 10 * time.Second
	DefaultRoundTransition = 3 * time.Second
)

// Config holds configuration for the session service
type Config struct {
	// Repository dependencies
	RoomRepo   roomRepo.Repository
	PlayerRepo playerRepo.Repository
	RoundRepo  roundRepo.Repository

	// ResultsRepo archives finished games (optional)
	ResultsRepo resultsRepo.Repository

	// Service dependencies
	TaskService   tasks.Service
	Scheduler     scheduler.Scheduler
	Publisher     Publisher
	Picker        random.Picker
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	Logger zerolog.Logger

	// Phase timings, zero means default
	GuessWindow     time.Duration
	VotingWindow    time.Duration
	ReconnectGrace  time.Duration
	RoundTransition time.Duration
}

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	// PlayerID is the connection id of the creator
	PlayerID models.PlayerID `validate:"required"`

	Nickname string `validate:"required,min=2,max=20"`

	IsPublic bool

	// RoomName defaults to "<nickname>'s Room"
	RoomName string `validate:"max=40"`
}

// CreateRoomOutput contains the result of creating a room
type CreateRoomOutput struct {
	Room *models.RoomView
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode `validate:"required,len=6,alphanum"`
	Nickname string          `validate:"required,min=2,max=20"`
}

// JoinRoomOutput contains the result of joining a room
type JoinRoomOutput struct {
	Room   *models.RoomView
	Player *models.Player
}

// LeaveRoomInput contains parameters for leaving a room
type LeaveRoomInput struct {
	PlayerID models.PlayerID `validate:"required"`

	// RoomCode must match the player's room when set
	RoomCode models.RoomCode
}

// LeaveRoomOutput contains the result of leaving a room
type LeaveRoomOutput struct {
	RoomCode models.RoomCode

	// RoomDeleted is set when the leaving player was the last one
	RoomDeleted bool

	// NewHostID is set when host was handed over
	NewHostID models.PlayerID
}

// ToggleReadyInput contains parameters for toggling readiness
type ToggleReadyInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode
}

// ToggleReadyOutput contains the result of toggling readiness
type ToggleReadyOutput struct {
	Player *models.Player
}

// ListPublicRoomsInput contains parameters for listing public rooms
type ListPublicRoomsInput struct{}

// ListPublicRoomsOutput contains joinable public rooms, oldest first
type ListPublicRoomsOutput struct {
	Rooms []*models.RoomSummary
}

// GetRoomStateInput contains parameters for a room snapshot
type GetRoomStateInput struct {
	RoomCode models.RoomCode `validate:"required"`
}

// GetRoomStateOutput contains a room snapshot
type GetRoomStateOutput struct {
	Room *models.RoomView
}

// GetStatsOutput contains process wide counters
type GetStatsOutput struct {
	TotalRooms   int `json:"totalRooms"`
	PublicRooms  int `json:"publicRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode `validate:"required"`
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	Room  *models.RoomView
	Round *models.Round
}

// SubmitTaskDoneInput contains parameters for completing a task
type SubmitTaskDoneInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode `validate:"required"`
}

// SubmitTaskDoneOutput contains the result of completing a task
type SubmitTaskDoneOutput struct {
	Task         *models.Task
	Stats        models.TaskStats
	AllCompleted bool

	// TargetPlayerID is set when completing the last task opened the guess window
	TargetPlayerID models.PlayerID

	// GameEnded is set when no target was left to pick
	GameEnded bool
}

// SubmitGuessInput contains parameters for submitting a guess
type SubmitGuessInput struct {
	PlayerID       models.PlayerID `validate:"required"`
	RoomCode       models.RoomCode `validate:"required"`
	TargetPlayerID models.PlayerID `validate:"required"`
	Text           string          `validate:"required,max=100"`
}

// SubmitGuessOutput contains the result of submitting a guess
type SubmitGuessOutput struct {
	Guess        *models.Guess
	TotalGuesses int
}

// CloseGuessWindowInput contains parameters for closing the guess window
type CloseGuessWindowInput struct {
	PlayerID       models.PlayerID `validate:"required"`
	RoomCode       models.RoomCode `validate:"required"`
	TargetPlayerID models.PlayerID `validate:"required"`
}

// CloseGuessWindowOutput contains the result of closing the guess window
type CloseGuessWindowOutput struct {
	Guesses        []*models.Guess
	VotingDeadline time.Time
}

// SubmitVoteInput contains parameters for submitting a vote
type SubmitVoteInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode `validate:"required"`
	GuessID  string          `validate:"required"`

	// IsCorrect is a pointer so a missing verdict fails validation
	IsCorrect *bool `validate:"required"`
}

// SubmitVoteOutput contains the result of submitting a vote
type SubmitVoteOutput struct {
	Vote       *models.Vote
	TotalVotes int
}

// CloseVotingInput contains parameters for closing the vote
type CloseVotingInput struct {
	PlayerID models.PlayerID `validate:"required"`
	RoomCode models.RoomCode `validate:"required"`
}

// CloseVotingOutput contains the scores of the round
type CloseVotingOutput struct {
	Scores []*models.RoundScore
}

// DisconnectInput contains parameters for a lost connection
type DisconnectInput struct {
	PlayerID models.PlayerID `validate:"required"`
}

// DisconnectOutput contains the result of a lost connection
type DisconnectOutput struct {
	RoomCode models.RoomCode
}

// ReconnectInput contains parameters for rebinding a player
type ReconnectInput struct {
	// PlayerID is the new connection id
	PlayerID models.PlayerID `validate:"required"`

	PreviousPlayerID models.PlayerID `validate:"required,nefield=PlayerID"`
}

// ReconnectOutput contains the result of rebinding a player
type ReconnectOutput struct {
	Room   *models.RoomView
	Player *models.Player
}
