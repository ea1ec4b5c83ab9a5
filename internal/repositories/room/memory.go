package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	maxCodeAttempts = 1000
)

var (
	// ErrRoomNotFound is returned when a room is not found
	ErrRoomNotFound = errors.New("room not found")

	// ErrCodeSpaceExhausted is returned when no free code could be generated
	ErrCodeSpaceExhausted = errors.New("could not generate a unique room code")
)

// Config holds configuration for the in-memory room repository
type Config struct {
	// Picker drives room code generation
	Picker random.Picker
}

// memoryRepository implements the Repository interface in process memory.
// Rooms are stored and returned as clones.
type memoryRepository struct {
	mu     sync.RWMutex
	rooms  map[models.RoomCode]*models.Room
	picker random.Picker
}

// NewMemory creates a new in-memory room repository
func NewMemory(cfg *Config) (*memoryRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Picker == nil {
		return nil, errors.New("picker cannot be nil")
	}

	return &memoryRepository{
		rooms:  make(map[models.RoomCode]*models.Room),
		picker: cfg.Picker,
	}, nil
}

// CreateRoom stores a new room under a unique code, regenerating on collision
func (r *memoryRepository) CreateRoom(ctx context.Context, input *CreateRoomInput) (*models.Room, error) {
	if input == nil || input.Room == nil {
		return nil, errors.New("input and room cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := r.generateCode()
		if _, exists := r.rooms[code]; exists {
			continue
		}

		stored := input.Room.Clone()
		stored.Code = code
		r.rooms[code] = stored

		return stored.Clone(), nil
	}

	return nil, ErrCodeSpaceExhausted
}

// GetRoom retrieves a room by code
func (r *memoryRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and room code cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[input.Code]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

// SaveRoom replaces an existing room
func (r *memoryRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[input.Room.Code]; !ok {
		return fmt.Errorf("failed to save room %s: %w", input.Room.Code, ErrRoomNotFound)
	}

	r.rooms[input.Room.Code] = input.Room.Clone()

	return nil
}

// DeleteRoom removes a room
func (r *memoryRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and room code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[input.Code]; !ok {
		return ErrRoomNotFound
	}

	delete(r.rooms, input.Code)

	return nil
}

// ListRooms returns matching rooms ordered by creation time
func (r *memoryRepository) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	if input == nil {
		input = &ListRoomsInput{}
	}

	r.mu.RLock()
	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if input.PublicOnly && !room.Public {
			continue
		}
		if input.Status != "" && room.Status != input.Status {
			continue
		}
		rooms = append(rooms, room.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].Code < rooms[j].Code
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	return &ListRoomsOutput{
		Rooms: rooms,
	}, nil
}

func (r *memoryRepository) generateCode() models.RoomCode {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[r.picker.Intn(len(codeAlphabet))])
	}
	return models.RoomCode(b.String())
}
