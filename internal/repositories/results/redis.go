package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	resultKeyPrefix      = "result:"
	roomResultsKeyPrefix = "room_results:"
	recentResultsKey     = "results:recent"

	defaultLimit = 20
	maxRecent    = 500
	maxPerRoom   = 50
)

// ErrResultNotFound is returned when a result is not found
var ErrResultNotFound = errors.New("result not found")

// Config holds configuration for the Redis results repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Expiration of archived results; zero keeps them forever
	Expiration time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedis creates a new Redis-backed results repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client:     cfg.RedisClient,
		expiration: cfg.Expiration,
	}, nil
}

// SaveResult records a finished game
func (r *redisRepository) SaveResult(ctx context.Context, input *SaveResultInput) error {
	if input == nil || input.Result == nil {
		return errors.New("input and result cannot be nil")
	}

	result := input.Result
	if result.ID == "" {
		return errors.New("result ID cannot be empty")
	}

	if result.EndedAt.IsZero() {
		result.EndedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	score := float64(result.EndedAt.UnixNano())

	pipe := r.client.TxPipeline()

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, result.ID)
	pipe.Set(ctx, resultKey, resultJSON, r.expiration)

	pipe.ZAdd(ctx, recentResultsKey, redis.Z{
		Score:  score,
		Member: result.ID,
	})
	// keep the recent index bounded
	pipe.ZRemRangeByRank(ctx, recentResultsKey, 0, -maxRecent-1)

	roomKey := fmt.Sprintf("%s%s", roomResultsKeyPrefix, result.RoomCode)
	pipe.ZAdd(ctx, roomKey, redis.Z{
		Score:  score,
		Member: result.ID,
	})
	pipe.ZRemRangeByRank(ctx, roomKey, 0, -maxPerRoom-1)
	// the room index expires together with its newest result
	if r.expiration > 0 {
		pipe.Expire(ctx, roomKey, r.expiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// GetResult retrieves a finished game by ID
func (r *redisRepository) GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error) {
	if input == nil || input.ResultID == "" {
		return nil, errors.New("input and result ID cannot be empty")
	}

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, input.ResultID)
	resultJSON, err := r.client.Get(ctx, resultKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.GameResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// GetRecentResults returns the latest finished games, newest first
func (r *redisRepository) GetRecentResults(ctx context.Context, input *GetRecentResultsInput) (*GetRecentResultsOutput, error) {
	limit := defaultLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	ids, err := r.client.ZRevRange(ctx, recentResultsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent result IDs: %w", err)
	}

	results, err := r.loadResults(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &GetRecentResultsOutput{
		Results: results,
	}, nil
}

// GetResultsForRoom returns the archived games played under a room code, newest first
func (r *redisRepository) GetResultsForRoom(ctx context.Context, input *GetResultsForRoomInput) (*GetResultsForRoomOutput, error) {
	if input == nil || input.RoomCode == "" {
		return nil, errors.New("input and room code cannot be empty")
	}

	roomKey := fmt.Sprintf("%s%s", roomResultsKeyPrefix, input.RoomCode)
	ids, err := r.client.ZRevRange(ctx, roomKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result IDs for room: %w", err)
	}

	results, err := r.loadResults(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &GetResultsForRoomOutput{
		Results: results,
	}, nil
}

// loadResults fetches results in id order, skipping expired ones
func (r *redisRepository) loadResults(ctx context.Context, ids []string) ([]*models.GameResult, error) {
	results := make([]*models.GameResult, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, pipe.Get(ctx, fmt.Sprintf("%s%s", resultKeyPrefix, id)))
	}

	// redis.Nil from an expired entry is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	for i, cmd := range cmds {
		resultJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get result %s: %w", ids[i], err)
		}

		var result models.GameResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result %s: %w", ids[i], err)
		}

		results = append(results, &result)
	}

	return results, nil
}
