package tasks

import (
	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
)

// Config holds configuration for the task service
type Config struct {
	// Picker draws tasks from the pool
	Picker random.Picker

	// Clock stamps AssignedAt
	Clock clock.Clock

	// UUIDGenerator creates task ids
	UUIDGenerator uuid.UUID

	// Pool overrides the built-in task list (optional)
	Pool []string
}

// AssignTasksInput is the input for AssignTasks
type AssignTasksInput struct {
	RoomCode  models.RoomCode
	PlayerIDs []models.PlayerID
}

// AssignTasksOutput is the output for AssignTasks
type AssignTasksOutput struct {
	// Tasks are in the same order as the requested players
	Tasks []*models.Task
}
