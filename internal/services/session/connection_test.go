package session

import (
	"time"

	"github.com/KirkDiggler/taskguess/internal/models"
	playerRepo "github.com/KirkDiggler/taskguess/internal/repositories/player"
	roomRepo "github.com/KirkDiggler/taskguess/internal/repositories/room"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
)

func (s *SessionServiceTestSuite) TestDisconnectKeepsMembership() {
	code := s.lobby("p-a", "p-b")
	s.publisher.reset()

	out, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)
	s.Equal(code, out.RoomCode)

	player := s.player("p-a")
	s.False(player.IsConnected)
	s.Require().NotNil(player.DisconnectedAt)
	s.Equal(s.now, *player.DisconnectedAt)

	room := s.room(code)
	s.True(room.HasPlayer("p-a"))
	s.Equal(models.PlayerID("p-a"), room.HostID)

	s.True(s.hasTimer(scheduler.GraceKey("p-a")))
	s.Equal(DefaultReconnectGrace, s.delays[scheduler.GraceKey("p-a")])

	s.Len(s.eventsFor(models.EventPlayerDisconnected, "p-b"), 1)
	s.Empty(s.eventsFor(models.EventPlayerDisconnected, "p-a"))

	// a second disconnect changes nothing
	_, err = s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)
	s.Len(s.events(models.EventPlayerDisconnected), 1)
}

func (s *SessionServiceTestSuite) TestDisconnectOutsideRoom() {
	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-ghost"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *SessionServiceTestSuite) TestReconnectWithinGracePreservesPlayer() {
	code := s.guessingGame("p-a", "p-b")
	s.playRound(code, "p-a", "p-b")
	s.Require().Equal(13, s.player("p-a").Score)

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)

	s.now = s.now.Add(9 * time.Second)
	out, err := s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-a2", PreviousPlayerID: "p-a"})
	s.Require().NoError(err)

	s.Equal(models.PlayerID("p-a2"), out.Player.ID)
	s.Equal("nick-p-a", out.Player.Nickname)
	s.True(out.Player.IsHost)
	s.True(out.Player.IsConnected)
	s.Nil(out.Player.DisconnectedAt)
	s.Equal(13, out.Player.Score)
	s.Equal(code, out.Room.Code)

	room := s.room(code)
	s.Equal(models.PlayerID("p-a2"), room.HostID)
	s.Equal([]models.PlayerID{"p-a2", "p-b"}, room.PlayerIDs)
	s.Equal([]models.PlayerID{"p-a2"}, room.TargetHistory)
	s.Equal(models.PlayerID("p-a2"), s.round(code).TargetPlayerID)
	s.Equal(code, s.player("p-a2").RoomCode)
	s.requireOneHost(code)

	_, err = s.playerRepo.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p-a"})
	s.ErrorIs(err, playerRepo.ErrPlayerNotFound)

	s.False(s.hasTimer(scheduler.GraceKey("p-a")))
	s.Empty(s.events(models.EventPlayerLeft))

	reconnected := s.eventsFor(models.EventPlayerReconnected, "p-b")
	s.Require().Len(reconnected, 1)
	payload := reconnected[0].Payload.(*models.PlayerReconnectedPayload)
	s.Equal(models.PlayerID("p-a"), payload.PreviousPlayerID)
	s.Equal(models.PlayerID("p-a2"), payload.PlayerID)

	// the rebound player keeps host rights and the old target stays excluded
	s.fire(scheduler.TransitionKey(code))
	s.completeTasks(code, "p-a2", "p-b")
	s.Equal(models.PlayerID("p-b"), s.round(code).TargetPlayerID)
}

func (s *SessionServiceTestSuite) TestReconnectErrors() {
	s.lobby("p-a", "p-b")

	_, err := s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-new", PreviousPlayerID: "p-b"})
	s.ErrorIs(err, ErrStillConnected)

	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-b", PreviousPlayerID: "p-b"})
	s.ErrorIs(err, ErrValidation)

	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-new", PreviousPlayerID: "p-ghost"})
	s.ErrorIs(err, ErrPlayerNotFound)

	_, err = s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)

	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-b", PreviousPlayerID: "p-a"})
	s.ErrorIs(err, ErrAlreadyInRoom)
	s.False(s.player("p-a").IsConnected)
}

func (s *SessionServiceTestSuite) TestGraceExpiryRemovesHost() {
	code := s.lobby("p-a", "p-b", "p-c")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)
	s.Empty(s.events(models.EventPlayerLeft))

	s.now = s.now.Add(DefaultReconnectGrace)
	s.fire(scheduler.GraceKey("p-a"))

	left := s.events(models.EventPlayerLeft)
	s.Require().Len(left, 1)
	payload := left[0].Payload.(*models.PlayerLeftPayload)
	s.Equal(models.PlayerID("p-a"), payload.PlayerID)
	s.Equal(models.PlayerID("p-b"), payload.NewHostID)

	room := s.room(code)
	s.Equal(models.PlayerID("p-b"), room.HostID)
	s.False(room.HasPlayer("p-a"))
	s.requireOneHost(code)

	_, err = s.playerRepo.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p-a"})
	s.ErrorIs(err, playerRepo.ErrPlayerNotFound)
}

func (s *SessionServiceTestSuite) TestGraceExpiryPrefersConnectedHost() {
	code := s.lobby("p-a", "p-b", "p-c")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-b"})
	s.Require().NoError(err)
	_, err = s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)

	s.fire(scheduler.GraceKey("p-a"))

	s.Equal(models.PlayerID("p-c"), s.room(code).HostID)
	s.requireOneHost(code)
}

func (s *SessionServiceTestSuite) TestGraceExpiryAfterReconnectIsDropped() {
	code := s.lobby("p-a", "p-b")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-b"})
	s.Require().NoError(err)

	s.timersMu.Lock()
	expire := s.timers[scheduler.GraceKey("p-b")]
	s.timersMu.Unlock()
	s.Require().NotNil(expire)

	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-b2", PreviousPlayerID: "p-b"})
	s.Require().NoError(err)

	expire()

	s.Empty(s.events(models.EventPlayerLeft))
	s.True(s.room(code).HasPlayer("p-b2"))
}

func (s *SessionServiceTestSuite) TestGraceExpiryOfLastPlayerDeletesRoom() {
	code := s.createRoom("p-a", "Alice", false)

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-a"})
	s.Require().NoError(err)

	s.fire(scheduler.GraceKey("p-a"))

	_, err = s.roomRepo.GetRoom(s.ctx, &roomRepo.GetRoomInput{Code: code})
	s.ErrorIs(err, roomRepo.ErrRoomNotFound)
}

func (s *SessionServiceTestSuite) TestReconnectResendsOutstandingTask() {
	code := s.startedGame("p-a", "p-b")
	assigned := s.eventsFor(models.EventTaskAssigned, "p-b")
	s.Require().Len(assigned, 1)
	text := assigned[0].Payload.(*models.TaskAssignedPayload).Text

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-b"})
	s.Require().NoError(err)
	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-b2", PreviousPlayerID: "p-b"})
	s.Require().NoError(err)

	resent := s.eventsFor(models.EventTaskAssigned, "p-b2")
	s.Require().Len(resent, 1)
	s.Equal(text, resent[0].Payload.(*models.TaskAssignedPayload).Text)

	s.completeTasks(code, "p-b2")
	task := s.round(code).TaskFor("p-b2")
	s.Require().NotNil(task)
	s.True(task.Completed)
}

func (s *SessionServiceTestSuite) TestReconnectDuringVotingResendsGuesses() {
	code := s.guessingGame("p-a", "p-b", "p-c")
	g := s.guess(code, "p-b", "jumping jacks")
	s.closeGuesses(code, "p-a")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-c"})
	s.Require().NoError(err)
	_, err = s.svc.Reconnect(s.ctx, &ReconnectInput{PlayerID: "p-c2", PreviousPlayerID: "p-c"})
	s.Require().NoError(err)

	resent := s.eventsFor(models.EventVotingStarted, "p-c2")
	s.Require().Len(resent, 1)
	payload := resent[0].Payload.(*models.VotingStartedPayload)
	s.Require().Len(payload.Guesses, 1)
	s.Equal("jumping jacks", payload.Guesses[0].Text)

	s.vote(code, "p-c2", g.ID, true)
}
