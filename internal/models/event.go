package models

import (
	"time"
)

// EventType names an outbound event
type EventType string

const (
	EventRoomCreated        EventType = "room_created"
	EventRoomJoined         EventType = "room_joined"
	EventRoomLeft           EventType = "room_left"
	EventRoomState          EventType = "room_state"
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerLeft         EventType = "player_left"
	EventPlayerReadyChanged EventType = "player_ready_changed"
	EventPlayerDisconnected EventType = "player_disconnected"
	EventPlayerReconnected  EventType = "player_reconnected"
	EventGameStarted        EventType = "game_started"
	EventTaskAssigned       EventType = "task_assigned"
	EventTaskCompleted      EventType = "task_completed"
	EventTaskProgress       EventType = "task_progress"
	EventGuessPhaseStarted  EventType = "guess_phase_started"
	EventGuessWindowOpened  EventType = "guess_window_open"
	EventGuessSubmitted     EventType = "guess_submitted"
	EventGuessWindowClosed  EventType = "guess_window_closed"
	EventVotingStarted      EventType = "voting_started"
	EventVoteSubmitted      EventType = "vote_submitted"
	EventVotingClosed       EventType = "voting_closed"
	EventNextRoundStarted   EventType = "next_round_started"
	EventGameEnded          EventType = "game_ended"
	EventPublicRooms        EventType = "public_rooms"
	EventError              EventType = "error"
	EventPong               EventType = "pong"
	EventConnected          EventType = "connected"
)

// Event is an outbound message addressed to a set of players
type Event struct {
	Type     EventType
	RoomCode RoomCode

	// Recipients are resolved when the event is produced
	Recipients []PlayerID

	Payload any
}

type RoomPayload struct {
	RoomCode RoomCode  `json:"roomCode"`
	Room     *RoomView `json:"room"`
}

type RoomLeftPayload struct {
	RoomCode RoomCode `json:"roomCode"`
}

type PlayerJoinedPayload struct {
	Player *Player `json:"player"`
}

type PlayerLeftPayload struct {
	PlayerID       PlayerID `json:"playerId"`
	PlayerNickname string   `json:"playerNickname"`
	NewHostID      PlayerID `json:"newHostId,omitempty"`
}

type PlayerReadyChangedPayload struct {
	PlayerID       PlayerID `json:"playerId"`
	IsReady        bool     `json:"isReady"`
	PlayerNickname string   `json:"playerNickname"`
}

type PlayerDisconnectedPayload struct {
	PlayerID       PlayerID `json:"playerId"`
	PlayerNickname string   `json:"playerNickname"`
}

type PlayerReconnectedPayload struct {
	PreviousPlayerID PlayerID `json:"previousPlayerId"`
	PlayerID         PlayerID `json:"playerId"`
	PlayerNickname   string   `json:"playerNickname"`
}

type GameStartedPayload struct {
	RoomCode RoomCode  `json:"roomCode"`
	RoundID  RoundID   `json:"roundId"`
	Room     *RoomView `json:"room"`
}

type TaskAssignedPayload struct {
	TaskID string `json:"taskId"`
	Text   string `json:"text"`
}

type TaskCompletedPayload struct {
	TaskID      string    `json:"taskId"`
	CompletedAt time.Time `json:"completedAt"`
}

type TaskProgressPayload struct {
	Stats          TaskStats `json:"stats"`
	PlayerNickname string    `json:"playerNickname"`
	AllCompleted   bool      `json:"allCompleted"`
}

// GuessPhaseStartedPayload announces the target ahead of guess_window_open
type GuessPhaseStartedPayload struct {
	Round        int       `json:"round"`
	RoundID      RoundID   `json:"roundId"`
	TargetPlayer *Player   `json:"targetPlayer"`
	Deadline     time.Time `json:"deadline"`
}

type GuessWindowOpenedPayload struct {
	RoundID              RoundID   `json:"roundId"`
	TargetPlayerID       PlayerID  `json:"targetPlayerId"`
	TargetPlayerNickname string    `json:"targetPlayerNickname"`
	Deadline             time.Time `json:"deadline"`
}

type GuessSubmittedPayload struct {
	Guess              *Guess `json:"guess"`
	FromPlayerNickname string `json:"fromPlayerNickname"`
	TotalGuesses       int    `json:"totalGuesses"`
}

type GuessWindowClosedPayload struct {
	TargetPlayerID PlayerID `json:"targetPlayerId"`
}

type VotingStartedPayload struct {
	TargetPlayerID       PlayerID  `json:"targetPlayerId"`
	TargetPlayerNickname string    `json:"targetPlayerNickname"`
	TaskID               string    `json:"taskId,omitempty"`
	TaskText             string    `json:"taskText"`
	Guesses              []*Guess  `json:"guesses"`
	Deadline             time.Time `json:"votingDeadline"`
}

type VoteSubmittedPayload struct {
	GuessID       string `json:"guessId"`
	TotalVotes    int    `json:"totalVotes"`
	VoterNickname string `json:"voterNickname"`

	// Vote is only present for the voter
	Vote *Vote `json:"vote,omitempty"`
}

type VotingClosedPayload struct {
	Scores  []*RoundScore `json:"scores"`
	Players []*Player     `json:"players"`
}

type NextRoundStartedPayload struct {
	Room  *RoomView `json:"room"`
	Round *Round    `json:"round"`
}

type GameEndedPayload struct {
	FinalScores []*FinalScore `json:"finalScores"`
	Winner      *FinalScore   `json:"winner,omitempty"`
}

type PublicRoomsPayload struct {
	Rooms []*RoomSummary `json:"rooms"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// ConnectedPayload tells a new connection the player id it acts as
type ConnectedPayload struct {
	PlayerID PlayerID `json:"playerId"`
}

type PongPayload struct {
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"playerId"`
	Data      any       `json:"data,omitempty"`
}
