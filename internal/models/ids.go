package models

// PlayerID is the connection-scoped identity of a player
type PlayerID string

// RoomCode is the 6 character public code of a room
type RoomCode string

// RoundID identifies a single task-guess-vote-score cycle
type RoundID string

// String returns the raw id
func (id PlayerID) String() string { return string(id) }

// String returns the raw code
func (c RoomCode) String() string { return string(c) }

// String returns the raw id
func (id RoundID) String() string { return string(id) }
