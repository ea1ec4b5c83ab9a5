package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/taskguess/internal/models"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
)

// Disconnect marks the caller as disconnected and starts the grace period.
// The player is removed from their room if they do not come back in time.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	player, unlock, err := s.lockPlayerRoom(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := &DisconnectOutput{RoomCode: player.RoomCode}
	if !player.IsConnected {
		return out, nil
	}

	room, err := s.getRoom(ctx, player.RoomCode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player.IsConnected = false
	player.DisconnectedAt = &now
	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	id := player.ID
	s.scheduler.Schedule(scheduler.GraceKey(id), s.reconnectGrace, func() {
		s.onGraceExpired(id)
	})

	o := &outbox{}
	o.toOthers(room, id, models.EventPlayerDisconnected, &models.PlayerDisconnectedPayload{
		PlayerID:       id,
		PlayerNickname: player.Nickname,
	})
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("player", id.String()).
		Dur("grace", s.reconnectGrace).
		Msg("player disconnected")

	return out, nil
}

// onGraceExpired removes a player that did not reconnect in time
func (s *service) onGraceExpired(id models.PlayerID) {
	ctx := context.Background()
	log := s.logger.With().Str("player", id.String()).Logger()

	player, unlock, err := s.lockPlayerRoom(ctx, id)
	if err != nil {
		log.Debug().Err(err).Msg("grace expiry dropped")
		return
	}
	defer unlock()

	if player.IsConnected {
		return
	}

	room, err := s.getRoom(ctx, player.RoomCode)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room for grace expiry")
		return
	}

	o := &outbox{}
	out, err := s.removePlayer(ctx, room, player, o)
	if err != nil {
		log.Error().Err(err).Msg("failed to remove player after grace")
		return
	}
	s.publish(ctx, o)

	log.Info().
		Str("room", room.Code.String()).
		Bool("room_deleted", out.RoomDeleted).
		Msg("reconnect grace expired")
}

// Reconnect binds a new connection to a disconnected player, keeping their
// nickname, score and progress
func (s *service) Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if err := s.ensureUnregistered(ctx, input.PlayerID); err != nil {
		return nil, err
	}

	previous, unlock, err := s.lockPlayerRoom(ctx, input.PreviousPlayerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if previous.IsConnected {
		return nil, ErrStillConnected
	}

	room, err := s.getRoom(ctx, previous.RoomCode)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.RebindPlayer(ctx, &playerRepo.RebindPlayerInput{
		OldPlayerID: previous.ID,
		NewPlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerExists) {
			return nil, ErrAlreadyInRoom
		}
		return nil, fmt.Errorf("failed to rebind player: %w", err)
	}

	s.scheduler.Cancel(scheduler.GraceKey(previous.ID))

	player.IsConnected = true
	player.DisconnectedAt = nil
	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	room.ReplacePlayerID(previous.ID, player.ID)

	var round *models.Round
	if room.Status == models.RoomStatusRunning && room.CurrentRoundID != "" {
		round, err = s.getCurrentRound(ctx, room)
		if err != nil {
			return nil, err
		}
		round.ReplacePlayerID(previous.ID, player.ID)
		if err := s.saveRound(ctx, round); err != nil {
			return nil, err
		}
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}
	view := models.NewRoomView(room, players)

	o := &outbox{}
	o.toOthers(room, player.ID, models.EventPlayerReconnected, &models.PlayerReconnectedPayload{
		PreviousPlayerID: previous.ID,
		PlayerID:         player.ID,
		PlayerNickname:   player.Nickname,
	})
	o.toRoom(room, models.EventRoomState, view)
	if round != nil {
		resendPhase(room, round, players, player.ID, o)
	}
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("previous", previous.ID.String()).
		Str("player", player.ID.String()).
		Msg("player reconnected")

	return &ReconnectOutput{
		Room:   view,
		Player: player.Clone(),
	}, nil
}

// resendPhase brings a reconnected player back up to date with the round
func resendPhase(room *models.Room, round *models.Round, players []*models.Player, id models.PlayerID, o *outbox) {
	switch round.Status {
	case models.RoundStatusTasks:
		if task := round.TaskFor(id); task != nil && !task.Completed {
			o.toPlayer(room.Code, id, models.EventTaskAssigned, &models.TaskAssignedPayload{
				TaskID: task.ID,
				Text:   task.Text,
			})
		}
	case models.RoundStatusGuessing:
		payload := &models.GuessWindowOpenedPayload{
			RoundID:              round.ID,
			TargetPlayerID:       round.TargetPlayerID,
			TargetPlayerNickname: nickname(players, round.TargetPlayerID),
		}
		if round.GuessDeadline != nil {
			payload.Deadline = *round.GuessDeadline
		}
		o.toPlayer(room.Code, id, models.EventGuessWindowOpened, payload)
	case models.RoundStatusVoting:
		o.toPlayer(room.Code, id, models.EventVotingStarted, votingStartedPayload(round, players))
	}
}
