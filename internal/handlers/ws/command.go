package ws

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// CommandType names an inbound command
type CommandType string

const (
	CommandCreateRoom     CommandType = "create_room"
	CommandJoinRoom       CommandType = "join_room"
	CommandLeaveRoom      CommandType = "leave_room"
	CommandToggleReady    CommandType = "toggle_ready"
	CommandStartGame      CommandType = "start_game"
	CommandSubmitTaskDone CommandType = "submit_task_done"
	CommandSubmitGuess    CommandType = "submit_guess"
	CommandCloseGuesses   CommandType = "close_guesses"
	CommandSubmitVote     CommandType = "submit_vote"
	CommandCloseVoting    CommandType = "close_voting"
	CommandGetPublicRooms CommandType = "get_public_rooms"
	CommandGetRoomState   CommandType = "get_room_state"
	CommandReconnect      CommandType = "reconnect"
	CommandPing           CommandType = "ping"
)

// Command is the inbound envelope sent by clients
type Command struct {
	Type CommandType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message is the outbound envelope sent to clients
type Message struct {
	Type models.EventType `json:"type"`
	Data any              `json:"data,omitempty"`
}

// CommandHandler runs one command on behalf of a connection
type CommandHandler func(ctx context.Context, c *client, data json.RawMessage) error

type createRoomData struct {
	Nickname string `json:"nickname"`
	IsPublic bool   `json:"isPublic"`
	RoomName string `json:"roomName"`
}

type joinRoomData struct {
	RoomCode models.RoomCode `json:"roomCode"`
	Nickname string          `json:"nickname"`
}

type roomData struct {
	RoomCode models.RoomCode `json:"roomCode"`
}

type submitGuessData struct {
	RoomCode       models.RoomCode `json:"roomCode"`
	TargetPlayerID models.PlayerID `json:"targetPlayerId"`
	Text           string          `json:"text"`
}

type closeGuessesData struct {
	RoomCode       models.RoomCode `json:"roomCode"`
	TargetPlayerID models.PlayerID `json:"targetPlayerId"`
}

type submitVoteData struct {
	RoomCode  models.RoomCode `json:"roomCode"`
	GuessID   string          `json:"guessId"`
	IsCorrect *bool           `json:"isCorrect"`
}

type reconnectData struct {
	PreviousPlayerID models.PlayerID `json:"previousPlayerId"`
}

// decode unmarshals command data; an empty payload leaves v untouched
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errMalformed
	}
	return nil
}
