package models

import (
	"time"
)

// Player represents a participant in a room
type Player struct {
	// ID is the connection identity of the player; it changes on reconnect
	ID PlayerID `json:"id"`

	// Nickname is unique within the room
	Nickname string `json:"nickname"`

	IsReady bool `json:"isReady"`
	IsHost  bool `json:"isHost"`

	// Score only ever grows
	Score int `json:"score"`

	IsConnected bool `json:"isConnected"`

	// JoinedAt orders players for host promotion
	JoinedAt time.Time `json:"joinedAt"`

	// DisconnectedAt is set while the player is inside the reconnect grace period
	DisconnectedAt *time.Time `json:"disconnectedAt,omitempty"`

	// RoomCode is the room the player currently belongs to
	RoomCode RoomCode `json:"-"`
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}

	clone := *p
	if p.DisconnectedAt != nil {
		at := *p.DisconnectedAt
		clone.DisconnectedAt = &at
	}

	return &clone
}
