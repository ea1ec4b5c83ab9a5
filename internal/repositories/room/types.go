package room

import "github.com/KirkDiggler/taskguess/internal/models"

type CreateRoomInput struct {
	// Room is stored with its Code overwritten by the generated one
	Room *models.Room
}

type GetRoomInput struct {
	Code models.RoomCode
}

type SaveRoomInput struct {
	Room *models.Room
}

type DeleteRoomInput struct {
	Code models.RoomCode
}

type ListRoomsInput struct {
	// PublicOnly limits the result to public rooms
	PublicOnly bool

	// Status limits the result to one status when set
	Status models.RoomStatus
}

type ListRoomsOutput struct {
	Rooms []*models.Room
}
