package room

import (
	"context"

	"github.com/KirkDiggler/taskguess/internal/models"
)

// Repository defines the interface for room storage
type Repository interface {
	// CreateRoom stores a new room under a freshly generated unique code
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*models.Room, error)

	// GetRoom retrieves a room by code
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// SaveRoom replaces an existing room
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// DeleteRoom removes a room
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// ListRooms returns a consistent snapshot of rooms matching the filter
	ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error)
}
