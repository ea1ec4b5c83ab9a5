package models

import (
	"time"
)

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	// RoomStatusLobby indicates players are gathering and readying up
	RoomStatusLobby RoomStatus = "lobby"

	// RoomStatusRunning indicates a game is in progress
	RoomStatusRunning RoomStatus = "running"

	// RoomStatusEnded indicates every eligible player has been a target
	RoomStatusEnded RoomStatus = "ended"
)

// MaxPlayersPerRoom is fixed for every room
const MaxPlayersPerRoom = 8

// Room is a coded container for players playing one game together.
// Players are referenced by id; their state lives in the player registry.
type Room struct {
	Code RoomCode
	Name string

	Status RoomStatus

	Public     bool
	MaxPlayers int

	// HostID always references a player in PlayerIDs
	HostID PlayerID

	CurrentRoundID RoundID

	// RoundNumber counts rounds started in the current game
	RoundNumber int

	// PlayerIDs is ordered by join time
	PlayerIDs []PlayerID

	// TargetHistory holds every player that has already been a target this game
	TargetHistory []PlayerID

	CreatedAt time.Time
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}

	clone := *r
	clone.PlayerIDs = append([]PlayerID(nil), r.PlayerIDs...)
	clone.TargetHistory = append([]PlayerID(nil), r.TargetHistory...)

	return &clone
}

// HasPlayer reports whether the player is a member of the room
func (r *Room) HasPlayer(id PlayerID) bool {
	for _, pid := range r.PlayerIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// RemovePlayer drops the player from the membership list
func (r *Room) RemovePlayer(id PlayerID) bool {
	for i, pid := range r.PlayerIDs {
		if pid == id {
			r.PlayerIDs = append(r.PlayerIDs[:i], r.PlayerIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ReplacePlayerID rebinds every reference from oldID to newID
func (r *Room) ReplacePlayerID(oldID, newID PlayerID) {
	for i, pid := range r.PlayerIDs {
		if pid == oldID {
			r.PlayerIDs[i] = newID
		}
	}
	for i, pid := range r.TargetHistory {
		if pid == oldID {
			r.TargetHistory[i] = newID
		}
	}
	if r.HostID == oldID {
		r.HostID = newID
	}
}

// RoomSummary is the public listing entry for a joinable room
type RoomSummary struct {
	Code        RoomCode `json:"code"`
	Name        string   `json:"name"`
	PlayerCount int      `json:"playerCount"`
	MaxPlayers  int      `json:"maxPlayers"`
	IsPublic    bool     `json:"isPublic"`
}

// RoomView is the full snapshot of a room sent to clients
type RoomView struct {
	Code           RoomCode   `json:"code"`
	Name           string     `json:"name"`
	Status         RoomStatus `json:"status"`
	Public         bool       `json:"public"`
	MaxPlayers     int        `json:"maxPlayers"`
	CurrentRoundID RoundID    `json:"currentRoundId,omitempty"`
	HostID         PlayerID   `json:"hostId"`
	Players        []*Player  `json:"players"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewRoomView builds a snapshot from a room and its resolved players
func NewRoomView(room *Room, players []*Player) *RoomView {
	view := &RoomView{
		Code:           room.Code,
		Name:           room.Name,
		Status:         room.Status,
		Public:         room.Public,
		MaxPlayers:     room.MaxPlayers,
		CurrentRoundID: room.CurrentRoundID,
		HostID:         room.HostID,
		Players:        make([]*Player, 0, len(players)),
		CreatedAt:      room.CreatedAt,
	}
	for _, p := range players {
		view.Players = append(view.Players, p.Clone())
	}
	return view
}
