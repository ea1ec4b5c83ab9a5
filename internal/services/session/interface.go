package session

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/taskguess/internal/services/session Service
//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/taskguess/internal/services/session Publisher

// Service runs rooms and rounds. Every command for a room is serialized with
// the deadline callbacks of that room.
type Service interface {
	// CreateRoom opens a new lobby with the caller as host
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds the caller to a lobby
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// LeaveRoom removes the caller from their room
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)

	// ToggleReady flips the caller's ready flag
	ToggleReady(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error)

	// ListPublicRooms lists joinable public lobbies
	ListPublicRooms(ctx context.Context, input *ListPublicRoomsInput) (*ListPublicRoomsOutput, error)

	// GetRoomState returns a full room snapshot
	GetRoomState(ctx context.Context, input *GetRoomStateInput) (*GetRoomStateOutput, error)

	// GetStats counts rooms and players
	GetStats(ctx context.Context) (*GetStatsOutput, error)

	// StartGame moves a lobby into its first round
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// SubmitTaskDone marks the caller's task as completed
	SubmitTaskDone(ctx context.Context, input *SubmitTaskDoneInput) (*SubmitTaskDoneOutput, error)

	// SubmitGuess records the caller's guess about the target's task
	SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error)

	// CloseGuessWindow moves the round into voting
	CloseGuessWindow(ctx context.Context, input *CloseGuessWindowInput) (*CloseGuessWindowOutput, error)

	// SubmitVote records the caller's verdict on a guess
	SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error)

	// CloseVoting scores the round
	CloseVoting(ctx context.Context, input *CloseVotingInput) (*CloseVotingOutput, error)

	// Disconnect starts the caller's reconnect grace period
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Reconnect binds a new connection to a disconnected player
	Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error)
}

// Publisher delivers events to their recipients
type Publisher interface {
	Publish(ctx context.Context, event *models.Event)
}
