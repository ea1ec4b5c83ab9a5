package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/taskguess/internal/models"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	roomRepo "github.com/KirkDiggler/taskguess/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/taskguess/internal/repositories/round"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
)

// CreateRoom opens a new lobby with the caller as host
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	in := *input
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.RoomName = strings.TrimSpace(in.RoomName)
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	if err := s.ensureUnregistered(ctx, in.PlayerID); err != nil {
		return nil, err
	}

	name := in.RoomName
	if name == "" {
		name = fmt.Sprintf("%s's Room", in.Nickname)
	}

	now := s.clock.Now()
	host := &models.Player{
		ID:          in.PlayerID,
		Nickname:    in.Nickname,
		IsHost:      true,
		IsConnected: true,
		JoinedAt:    now,
	}

	// The host is registered before the room exists so that the room never
	// references an unknown player
	if err := s.savePlayer(ctx, host); err != nil {
		return nil, err
	}

	created, err := s.roomRepo.CreateRoom(ctx, &roomRepo.CreateRoomInput{
		Room: &models.Room{
			Name:       name,
			Status:     models.RoomStatusLobby,
			Public:     in.IsPublic,
			MaxPlayers: models.MaxPlayersPerRoom,
			HostID:     host.ID,
			PlayerIDs:  []models.PlayerID{host.ID},
			CreatedAt:  now,
		},
	})
	if err != nil {
		s.deletePlayer(ctx, host.ID)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	unlock := s.lockRoom(created.Code)
	defer unlock()

	host.RoomCode = created.Code
	if err := s.savePlayer(ctx, host); err != nil {
		return nil, err
	}

	room, err := s.getRoom(ctx, created.Code)
	if err != nil {
		return nil, err
	}

	view, err := s.roomView(ctx, room)
	if err != nil {
		return nil, err
	}

	o := &outbox{}
	o.toPlayer(room.Code, host.ID, models.EventRoomCreated, &models.RoomPayload{RoomCode: room.Code, Room: view})
	o.toPlayer(room.Code, host.ID, models.EventRoomState, view)
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("player", host.ID.String()).
		Bool("public", room.Public).
		Msg("room created")

	return &CreateRoomOutput{
		Room: view,
	}, nil
}

// JoinRoom adds the caller to a lobby
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	in := *input
	in.RoomCode = normalizeCode(in.RoomCode)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	if err := s.ensureUnregistered(ctx, in.PlayerID); err != nil {
		return nil, err
	}

	unlock := s.lockRoom(in.RoomCode)
	defer unlock()

	room, err := s.getRoom(ctx, in.RoomCode)
	if err != nil {
		return nil, err
	}

	if room.Status != models.RoomStatusLobby {
		return nil, ErrGameAlreadyRunning
	}

	if len(room.PlayerIDs) >= room.MaxPlayers {
		return nil, ErrRoomFull
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	for _, p := range players {
		if p.Nickname == in.Nickname {
			return nil, ErrNicknameTaken
		}
	}

	player := &models.Player{
		ID:          in.PlayerID,
		Nickname:    in.Nickname,
		IsConnected: true,
		JoinedAt:    s.clock.Now(),
		RoomCode:    room.Code,
	}
	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	room.PlayerIDs = append(room.PlayerIDs, player.ID)
	if err := s.saveRoom(ctx, room); err != nil {
		s.deletePlayer(ctx, player.ID)
		return nil, err
	}

	players = append(players, player)
	view := models.NewRoomView(room, players)

	o := &outbox{}
	o.toPlayer(room.Code, player.ID, models.EventRoomJoined, &models.RoomPayload{RoomCode: room.Code, Room: view})
	o.toRoom(room, models.EventRoomState, view)
	o.toOthers(room, player.ID, models.EventPlayerJoined, &models.PlayerJoinedPayload{Player: player.Clone()})
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("player", player.ID.String()).
		Int("players", len(room.PlayerIDs)).
		Msg("player joined")

	return &JoinRoomOutput{
		Room:   view,
		Player: player.Clone(),
	}, nil
}

// LeaveRoom removes the caller from their room
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
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

	if input.RoomCode != "" && normalizeCode(input.RoomCode) != player.RoomCode {
		return nil, ErrNotInRoom
	}

	room, err := s.getRoom(ctx, player.RoomCode)
	if err != nil {
		return nil, err
	}

	o := &outbox{}
	o.toPlayer(room.Code, player.ID, models.EventRoomLeft, &models.RoomLeftPayload{RoomCode: room.Code})

	out, err := s.removePlayer(ctx, room, player, o)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("player", player.ID.String()).
		Bool("room_deleted", out.RoomDeleted).
		Msg("player left")

	return out, nil
}

// ToggleReady flips the caller's ready flag. The host has no ready flag to flip.
func (s *service) ToggleReady(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error) {
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

	if input.RoomCode != "" && normalizeCode(input.RoomCode) != player.RoomCode {
		return nil, ErrNotInRoom
	}

	room, err := s.getRoom(ctx, player.RoomCode)
	if err != nil {
		return nil, err
	}

	if room.HostID == player.ID {
		return &ToggleReadyOutput{Player: player}, nil
	}

	player.IsReady = !player.IsReady
	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	view, err := s.roomView(ctx, room)
	if err != nil {
		return nil, err
	}

	o := &outbox{}
	o.toRoom(room, models.EventRoomState, view)
	o.toRoom(room, models.EventPlayerReadyChanged, &models.PlayerReadyChangedPayload{
		PlayerID:       player.ID,
		IsReady:        player.IsReady,
		PlayerNickname: player.Nickname,
	})
	s.publish(ctx, o)

	return &ToggleReadyOutput{
		Player: player,
	}, nil
}

// ListPublicRooms lists public rooms that are still in the lobby
func (s *service) ListPublicRooms(ctx context.Context, input *ListPublicRoomsInput) (*ListPublicRoomsOutput, error) {
	out, err := s.roomRepo.ListRooms(ctx, &roomRepo.ListRoomsInput{
		PublicOnly: true,
		Status:     models.RoomStatusLobby,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	summaries := make([]*models.RoomSummary, 0, len(out.Rooms))
	for _, room := range out.Rooms {
		summaries = append(summaries, &models.RoomSummary{
			Code:        room.Code,
			Name:        room.Name,
			PlayerCount: len(room.PlayerIDs),
			MaxPlayers:  room.MaxPlayers,
			IsPublic:    room.Public,
		})
	}

	return &ListPublicRoomsOutput{
		Rooms: summaries,
	}, nil
}

// GetRoomState returns a full room snapshot
func (s *service) GetRoomState(ctx context.Context, input *GetRoomStateInput) (*GetRoomStateOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	in := *input
	in.RoomCode = normalizeCode(in.RoomCode)
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	unlock := s.lockRoom(in.RoomCode)
	defer unlock()

	room, err := s.getRoom(ctx, in.RoomCode)
	if err != nil {
		return nil, err
	}

	view, err := s.roomView(ctx, room)
	if err != nil {
		return nil, err
	}

	return &GetRoomStateOutput{
		Room: view,
	}, nil
}

// GetStats counts rooms and players
func (s *service) GetStats(ctx context.Context) (*GetStatsOutput, error) {
	all, err := s.roomRepo.ListRooms(ctx, &roomRepo.ListRoomsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	public, err := s.ListPublicRooms(ctx, &ListPublicRoomsInput{})
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.CountPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	return &GetStatsOutput{
		TotalRooms:   len(all.Rooms),
		PublicRooms:  len(public.Rooms),
		TotalPlayers: players,
	}, nil
}

// ensureUnregistered fails when the connection already belongs to a room
func (s *service) ensureUnregistered(ctx context.Context, id models.PlayerID) error {
	_, err := s.getPlayer(ctx, id)
	if err == nil {
		return ErrAlreadyInRoom
	}
	if errors.Is(err, ErrPlayerNotFound) {
		return nil
	}
	return err
}

func (s *service) deletePlayer(ctx context.Context, id models.PlayerID) {
	err := s.playerRepo.DeletePlayer(ctx, &playerRepo.DeletePlayerInput{PlayerID: id})
	if err != nil && !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		s.logger.Error().Err(err).Str("player", id.String()).Msg("failed to delete player")
	}
}

// removePlayer drops a player from their room under the room lock. It hands
// over host, deletes the room once empty and repairs a running round.
func (s *service) removePlayer(ctx context.Context, room *models.Room, player *models.Player, o *outbox) (*LeaveRoomOutput, error) {
	out := &LeaveRoomOutput{RoomCode: room.Code}

	room.RemovePlayer(player.ID)
	s.scheduler.Cancel(scheduler.GraceKey(player.ID))

	if len(room.PlayerIDs) == 0 {
		if err := s.destroyRoom(ctx, room); err != nil {
			return nil, err
		}
		s.deletePlayer(ctx, player.ID)
		out.RoomDeleted = true
		return out, nil
	}

	remaining, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	if room.HostID == player.ID {
		newHost := pickHost(remaining)
		newHost.IsHost = true
		room.HostID = newHost.ID
		if err := s.savePlayer(ctx, newHost); err != nil {
			return nil, err
		}
		out.NewHostID = newHost.ID
	}

	// consequences for a running game are announced after the departure itself
	follow := &outbox{}
	if err := s.handleDeparture(ctx, room, player.ID, remaining, follow); err != nil {
		return nil, err
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}
	s.deletePlayer(ctx, player.ID)

	o.toRoom(room, models.EventRoomState, models.NewRoomView(room, remaining))
	o.toRoom(room, models.EventPlayerLeft, &models.PlayerLeftPayload{
		PlayerID:       player.ID,
		PlayerNickname: player.Nickname,
		NewHostID:      out.NewHostID,
	})
	o.events = append(o.events, follow.events...)

	return out, nil
}

// pickHost prefers the longest-tenured connected player
func pickHost(players []*models.Player) *models.Player {
	for _, p := range players {
		if p.IsConnected {
			return p
		}
	}
	return players[0]
}

// destroyRoom removes an empty room and everything attached to it
func (s *service) destroyRoom(ctx context.Context, room *models.Room) error {
	s.cancelRoomTimers(room)

	if err := s.roomRepo.DeleteRoom(ctx, &roomRepo.DeleteRoomInput{Code: room.Code}); err != nil && !errors.Is(err, roomRepo.ErrRoomNotFound) {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if err := s.roundRepo.DeleteRoundsForRoom(ctx, &roundRepo.DeleteRoundsForRoomInput{RoomCode: room.Code}); err != nil {
		return fmt.Errorf("failed to delete rounds: %w", err)
	}

	s.logger.Info().Str("room", room.Code.String()).Msg("empty room deleted")

	return nil
}

// cancelRoomTimers drops every deadline of the room's current round
func (s *service) cancelRoomTimers(room *models.Room) {
	if room.CurrentRoundID != "" {
		s.scheduler.Cancel(scheduler.GuessKey(room.Code, room.CurrentRoundID))
		s.scheduler.Cancel(scheduler.VoteKey(room.Code, room.CurrentRoundID))
	}
	s.scheduler.Cancel(scheduler.TransitionKey(room.Code))
}
