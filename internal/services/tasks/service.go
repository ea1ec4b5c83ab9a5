package tasks

import (
	"context"
	"errors"

	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
)

// MaxDrawAttempts bounds the search for an unused task before a repeat is accepted
const MaxDrawAttempts = 50

// service implements the Service interface
type service struct {
	picker        random.Picker
	clock         clock.Clock
	uuidGenerator uuid.UUID
	pool          []string
}

// New creates a new task service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Picker == nil {
		return nil, errors.New("picker cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}

	pool := cfg.Pool
	if len(pool) == 0 {
		pool = DefaultPool()
	}

	return &service{
		picker:        cfg.Picker,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		pool:          pool,
	}, nil
}

// AssignTasks draws one task per player. Repeats are only avoided within a
// single assignment; earlier rounds of the room do not count.
func (s *service) AssignTasks(ctx context.Context, input *AssignTasksInput) (*AssignTasksOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.RoomCode == "" {
		return nil, errors.New("room code cannot be empty")
	}

	used := make(map[string]struct{}, len(input.PlayerIDs))
	now := s.clock.Now()

	tasks := make([]*models.Task, 0, len(input.PlayerIDs))
	for _, playerID := range input.PlayerIDs {
		text := s.draw(used)
		used[text] = struct{}{}

		tasks = append(tasks, &models.Task{
			ID:         s.uuidGenerator.NewUUID(),
			Text:       text,
			PlayerID:   playerID,
			AssignedAt: now,
		})
	}

	return &AssignTasksOutput{
		Tasks: tasks,
	}, nil
}

// draw picks a task not yet in used, giving up after MaxDrawAttempts
func (s *service) draw(used map[string]struct{}) string {
	var text string
	for attempt := 0; attempt < MaxDrawAttempts; attempt++ {
		text = s.pool[s.picker.Intn(len(s.pool))]
		if _, taken := used[text]; !taken {
			return text
		}
	}
	return text
}
