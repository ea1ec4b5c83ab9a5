package ws

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/services/session"
)

// registerCommands maps every inbound command to its handler
func (g *Gateway) registerCommands() {
	g.commands = map[CommandType]CommandHandler{
		CommandCreateRoom:     g.handleCreateRoom,
		CommandJoinRoom:       g.handleJoinRoom,
		CommandLeaveRoom:      g.handleLeaveRoom,
		CommandToggleReady:    g.handleToggleReady,
		CommandStartGame:      g.handleStartGame,
		CommandSubmitTaskDone: g.handleSubmitTaskDone,
		CommandSubmitGuess:    g.handleSubmitGuess,
		CommandCloseGuesses:   g.handleCloseGuesses,
		CommandSubmitVote:     g.handleSubmitVote,
		CommandCloseVoting:    g.handleCloseVoting,
		CommandGetPublicRooms: g.handleGetPublicRooms,
		CommandGetRoomState:   g.handleGetRoomState,
		CommandReconnect:      g.handleReconnect,
		CommandPing:           g.handlePing,
	}
}

func (g *Gateway) handleCreateRoom(ctx context.Context, c *client, data json.RawMessage) error {
	var in createRoomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.CreateRoom(ctx, &session.CreateRoomInput{
		PlayerID: c.id,
		Nickname: in.Nickname,
		IsPublic: in.IsPublic,
		RoomName: in.RoomName,
	})
	return err
}

func (g *Gateway) handleJoinRoom(ctx context.Context, c *client, data json.RawMessage) error {
	var in joinRoomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.JoinRoom(ctx, &session.JoinRoomInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
		Nickname: in.Nickname,
	})
	return err
}

func (g *Gateway) handleLeaveRoom(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.LeaveRoom(ctx, &session.LeaveRoomInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
	})
	return err
}

func (g *Gateway) handleToggleReady(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.ToggleReady(ctx, &session.ToggleReadyInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
	})
	return err
}

func (g *Gateway) handleStartGame(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.StartGame(ctx, &session.StartGameInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
	})
	return err
}

func (g *Gateway) handleSubmitTaskDone(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.SubmitTaskDone(ctx, &session.SubmitTaskDoneInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
	})
	return err
}

func (g *Gateway) handleSubmitGuess(ctx context.Context, c *client, data json.RawMessage) error {
	var in submitGuessData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.SubmitGuess(ctx, &session.SubmitGuessInput{
		PlayerID:       c.id,
		RoomCode:       in.RoomCode,
		TargetPlayerID: in.TargetPlayerID,
		Text:           in.Text,
	})
	return err
}

func (g *Gateway) handleCloseGuesses(ctx context.Context, c *client, data json.RawMessage) error {
	var in closeGuessesData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.CloseGuessWindow(ctx, &session.CloseGuessWindowInput{
		PlayerID:       c.id,
		RoomCode:       in.RoomCode,
		TargetPlayerID: in.TargetPlayerID,
	})
	return err
}

func (g *Gateway) handleSubmitVote(ctx context.Context, c *client, data json.RawMessage) error {
	var in submitVoteData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.SubmitVote(ctx, &session.SubmitVoteInput{
		PlayerID:  c.id,
		RoomCode:  in.RoomCode,
		GuessID:   in.GuessID,
		IsCorrect: in.IsCorrect,
	})
	return err
}

func (g *Gateway) handleCloseVoting(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.CloseVoting(ctx, &session.CloseVotingInput{
		PlayerID: c.id,
		RoomCode: in.RoomCode,
	})
	return err
}

// handleGetPublicRooms answers the caller directly
func (g *Gateway) handleGetPublicRooms(ctx context.Context, c *client, _ json.RawMessage) error {
	out, err := g.sessionService.ListPublicRooms(ctx, &session.ListPublicRoomsInput{})
	if err != nil {
		return err
	}

	rooms := out.Rooms
	if rooms == nil {
		rooms = []*models.RoomSummary{}
	}

	g.hub.send(c, models.EventPublicRooms, &models.PublicRoomsPayload{Rooms: rooms})
	return nil
}

// handleGetRoomState answers the caller directly
func (g *Gateway) handleGetRoomState(ctx context.Context, c *client, data json.RawMessage) error {
	var in roomData
	if err := decode(data, &in); err != nil {
		return err
	}

	out, err := g.sessionService.GetRoomState(ctx, &session.GetRoomStateInput{RoomCode: in.RoomCode})
	if err != nil {
		return err
	}

	g.hub.send(c, models.EventRoomState, out.Room)
	return nil
}

func (g *Gateway) handleReconnect(ctx context.Context, c *client, data json.RawMessage) error {
	var in reconnectData
	if err := decode(data, &in); err != nil {
		return err
	}

	_, err := g.sessionService.Reconnect(ctx, &session.ReconnectInput{
		PlayerID:         c.id,
		PreviousPlayerID: in.PreviousPlayerID,
	})
	return err
}

// handlePing echoes the payload back with the server time
func (g *Gateway) handlePing(_ context.Context, c *client, data json.RawMessage) error {
	payload := &models.PongPayload{
		Timestamp: g.clock.Now(),
		PlayerID:  c.id,
	}
	if len(data) > 0 && string(data) != "null" {
		payload.Data = data
	}

	g.hub.send(c, models.EventPong, payload)
	return nil
}
