package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	roomRepo "github.com/KirkDiggler/taskguess/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/taskguess/internal/repositories/round"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
	"github.com/KirkDiggler/taskguess/internal/services/tasks"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// service implements the Service interface
type service struct {
	roomRepo    roomRepo.Repository
	playerRepo  playerRepo.Repository
	roundRepo   roundRepo.Repository
	resultsRepo resultsRepo.Repository

	taskService   tasks.Service
	scheduler     scheduler.Scheduler
	publisher     Publisher
	picker        random.Picker
	clock         clock.Clock
	uuidGenerator uuid.UUID

	validate *validator.Validate
	logger   zerolog.Logger

	guessWindow     time.Duration
	votingWindow    time.Duration
	reconnectGrace  time.Duration
	roundTransition time.Duration

	locksMu sync.Mutex
	locks   map[models.RoomCode]*roomLock

	// archiving runs off the room lock
	archiving sync.WaitGroup
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a new session service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}

	if cfg.TaskService == nil {
		return nil, ErrNilTaskService
	}

	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}

	if cfg.Picker == nil {
		return nil, ErrNilPicker
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		roomRepo:        cfg.RoomRepo,
		playerRepo:      cfg.PlayerRepo,
		roundRepo:       cfg.RoundRepo,
		resultsRepo:     cfg.ResultsRepo,
		taskService:     cfg.TaskService,
		scheduler:       cfg.Scheduler,
		publisher:       cfg.Publisher,
		picker:          cfg.Picker,
		clock:           cfg.Clock,
		uuidGenerator:   cfg.UUIDGenerator,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		logger:          cfg.Logger,
		guessWindow:     orDefault(cfg.GuessWindow, DefaultGuessWindow),
		votingWindow:    orDefault(cfg.VotingWindow, DefaultVotingWindow),
		reconnectGrace:  orDefault(cfg.ReconnectGrace, DefaultReconnectGrace),
		roundTransition: orDefault(cfg.RoundTransition, DefaultRoundTransition),
		locks:           make(map[models.RoomCode]*roomLock),
	}, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Close waits for in-flight result archiving
func (s *service) Close() {
	s.archiving.Wait()
}

// lockRoom takes the exclusive lock of a room. Lock entries are dropped once
// nobody holds or waits for them.
func (s *service) lockRoom(code models.RoomCode) func() {
	s.locksMu.Lock()
	l, ok := s.locks[code]
	if !ok {
		l = &roomLock{}
		s.locks[code] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, code)
		}
		s.locksMu.Unlock()
	}
}

// lockPlayerRoom locks the room the player currently belongs to
func (s *service) lockPlayerRoom(ctx context.Context, id models.PlayerID) (*models.Player, func(), error) {
	for attempt := 0; attempt < 3; attempt++ {
		player, err := s.getPlayer(ctx, id)
		if err != nil {
			return nil, nil, err
		}

		if player.RoomCode == "" {
			return nil, nil, ErrNotInRoom
		}

		unlock := s.lockRoom(player.RoomCode)

		current, err := s.getPlayer(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}

		if current.RoomCode == player.RoomCode {
			return current, unlock, nil
		}
		unlock()
	}

	return nil, nil, ErrPlayerMovedRooms
}

// validateInput runs struct validation and reports the first failure
func (s *service) validateInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return newError(KindValidation, err.Error())
	}

	fe := validationErrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return newError(KindValidation, fmt.Sprintf("%s is required", field))
	case "min":
		return newError(KindValidation, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "max":
		return newError(KindValidation, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	case "len":
		return newError(KindValidation, fmt.Sprintf("%s must be %s characters", field, fe.Param()))
	case "alphanum":
		return newError(KindValidation, fmt.Sprintf("%s must be letters and digits only", field))
	default:
		return newError(KindValidation, fmt.Sprintf("%s is invalid", field))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func normalizeCode(code models.RoomCode) models.RoomCode {
	return models.RoomCode(strings.ToUpper(strings.TrimSpace(string(code))))
}

func (s *service) getPlayer(ctx context.Context, id models.PlayerID) (*models.Player, error) {
	player, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{PlayerID: id})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (s *service) getRoom(ctx context.Context, code models.RoomCode) (*models.Room, error) {
	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: code})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// getMemberRoom loads a room and checks the player belongs to it
func (s *service) getMemberRoom(ctx context.Context, code models.RoomCode, id models.PlayerID) (*models.Room, error) {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if !room.HasPlayer(id) {
		return nil, ErrNotInRoom
	}

	return room, nil
}

func (s *service) getRoomPlayers(ctx context.Context, room *models.Room) ([]*models.Player, error) {
	out, err := s.playerRepo.GetPlayers(ctx, &playerRepo.GetPlayersInput{PlayerIDs: room.PlayerIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to get room players: %w", err)
	}
	return out.Players, nil
}

// getCurrentRound loads the running round of a room
func (s *service) getCurrentRound(ctx context.Context, room *models.Room) (*models.Round, error) {
	if room.Status != models.RoomStatusRunning || room.CurrentRoundID == "" {
		return nil, ErrGameNotRunning
	}

	round, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: room.CurrentRoundID})
	if err != nil {
		if errors.Is(err, roundRepo.ErrRoundNotFound) {
			return nil, ErrGameNotRunning
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

func (s *service) saveRoom(ctx context.Context, room *models.Room) error {
	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

func (s *service) saveRound(ctx context.Context, round *models.Round) error {
	if err := s.roundRepo.SaveRound(ctx, &roundRepo.SaveRoundInput{Round: round}); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

func (s *service) savePlayer(ctx context.Context, player *models.Player) error {
	if err := s.playerRepo.SavePlayer(ctx, &playerRepo.SavePlayerInput{Player: player}); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (s *service) roomView(ctx context.Context, room *models.Room) (*models.RoomView, error) {
	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}
	return models.NewRoomView(room, players), nil
}

func findPlayer(players []*models.Player, id models.PlayerID) *models.Player {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func nickname(players []*models.Player, id models.PlayerID) string {
	if p := findPlayer(players, id); p != nil {
		return p.Nickname
	}
	return ""
}
