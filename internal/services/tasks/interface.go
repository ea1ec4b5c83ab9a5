package tasks

import "context"

// Service hands out private tasks to the players of a room
type Service interface {
	// AssignTasks draws one task per player, avoiding repeats within the call
	AssignTasks(ctx context.Context, input *AssignTasksInput) (*AssignTasksOutput, error)
}
