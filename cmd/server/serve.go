package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/logging"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/handlers/ws"
	"github.com/KirkDiggler/taskguess/internal/random"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	roomRepo "github.com/KirkDiggler/taskguess/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/taskguess/internal/repositories/round"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
	"github.com/KirkDiggler/taskguess/internal/services/session"
	"github.com/KirkDiggler/taskguess/internal/services/tasks"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// serve wires the process together and blocks until ctx is cancelled
func serve(ctx context.Context, cfg *Config) error {
	logger, err := logging.New(&logging.Config{
		Level:  cfg.logLevel,
		Pretty: cfg.logPretty,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	// Finished games are archived only when Redis is configured
	var results resultsRepo.Repository
	if cfg.redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer redisClient.Close()

		repo, err := resultsRepo.NewRedis(&resultsRepo.Config{
			RedisClient: redisClient,
			Expiration:  cfg.resultsTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to create results repository: %w", err)
		}
		results = repo
	} else {
		logger.Warn().Msg("no redis address configured, finished games will not be recorded")
	}

	systemClock := clock.New()
	uuidGenerator := uuid.New()

	roomRepository, err := roomRepo.NewMemory(&roomRepo.Config{
		Picker: random.New(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create room repository: %w", err)
	}

	taskService, err := tasks.New(&tasks.Config{
		Picker:        random.New(nil),
		Clock:         systemClock,
		UUIDGenerator: uuidGenerator,
	})
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	timers := scheduler.New(&scheduler.Config{Logger: logger})
	hub := ws.NewHub(&ws.HubConfig{Logger: logger})

	sessionService, err := session.New(&session.Config{
		RoomRepo:        roomRepository,
		PlayerRepo:      playerRepo.NewMemory(),
		RoundRepo:       roundRepo.NewMemory(),
		ResultsRepo:     results,
		TaskService:     taskService,
		Scheduler:       timers,
		Publisher:       hub,
		Picker:          random.New(nil),
		Clock:           systemClock,
		UUIDGenerator:   uuidGenerator,
		Logger:          logger.With().Str("component", "session").Logger(),
		GuessWindow:     cfg.guessWindow,
		VotingWindow:    cfg.votingWindow,
		ReconnectGrace:  cfg.reconnectGrace,
		RoundTransition: cfg.roundTransition,
	})
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}

	gateway, err := ws.New(&ws.Config{
		Hub:            hub,
		SessionService: sessionService,
		ResultsRepo:    results,
		UUIDGenerator:  uuidGenerator,
		Clock:          systemClock,
		Logger:         logger.With().Str("component", "gateway").Logger(),
		AllowedOrigins: cfg.allowedOrigins,
		CommandRate:    cfg.commandRate,
		CommandBurst:   cfg.commandBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           gateway.Router(),
		IdleTimeout:       2 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("version", releaseVersion).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown incomplete")
	}

	// Dropping connections starts grace timers, stop them after
	gateway.Close()
	timers.Stop()
	sessionService.Close()

	return nil
}
