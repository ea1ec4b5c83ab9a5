package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
)

// indexOf returns the position of the first event of a type, -1 when absent
func (s *SessionServiceTestSuite) indexOf(t models.EventType) int {
	for i, e := range s.publisher.all() {
		if e.Type == t {
			return i
		}
	}
	return -1
}

func (s *SessionServiceTestSuite) archivedResults() []*models.GameResult {
	s.svc.Close()
	s.archivedMu.Lock()
	defer s.archivedMu.Unlock()
	return append([]*models.GameResult(nil), s.archived...)
}

func (s *SessionServiceTestSuite) TestStartGameReadySubsets() {
	for n := 1; n <= 4; n++ {
		guests := n - 1
		for mask := 0; mask < 1<<guests; mask++ {
			ids := make([]models.PlayerID, n)
			for i := range ids {
				ids[i] = models.PlayerID(fmt.Sprintf("p%d-%d-%d", n, mask, i))
			}

			code := s.lobby(ids...)
			for i := 1; i < n; i++ {
				if mask&(1<<(i-1)) != 0 {
					_, err := s.svc.ToggleReady(s.ctx, &ToggleReadyInput{PlayerID: ids[i]})
					s.Require().NoError(err)
				}
			}

			_, err := s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: ids[0], RoomCode: code})

			allReady := mask == 1<<guests-1
			switch {
			case n >= 2 && allReady:
				s.NoError(err, "players=%d mask=%b", n, mask)
				s.Equal(models.RoomStatusRunning, s.room(code).Status)
			case n < 2:
				s.ErrorIs(err, ErrNotEnoughPlayers, "players=%d mask=%b", n, mask)
				s.Equal(models.RoomStatusLobby, s.room(code).Status)
			default:
				s.ErrorIs(err, ErrPlayersNotReady, "players=%d mask=%b", n, mask)
				s.Equal(models.RoomStatusLobby, s.room(code).Status)
			}
		}
	}
}

func (s *SessionServiceTestSuite) TestStartGameErrors() {
	code := s.lobby("p-a", "p-b")
	_, err := s.svc.ToggleReady(s.ctx, &ToggleReadyInput{PlayerID: "p-b"})
	s.Require().NoError(err)
	s.createRoom("p-z", "Zed", false)

	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-b", RoomCode: code})
	s.ErrorIs(err, ErrNotHost)
	s.ErrorIs(err, ErrAuthorization)

	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-z", RoomCode: code})
	s.ErrorIs(err, ErrNotInRoom)

	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-a", RoomCode: code})
	s.Require().NoError(err)

	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrGameAlreadyRunning)
}

func (s *SessionServiceTestSuite) TestTwoPlayerRoundOpensGuessWindow() {
	code := s.startedGame("p-a", "p-b")

	started := s.events(models.EventGameStarted)
	s.Require().Len(started, 1)
	s.ElementsMatch([]models.PlayerID{"p-a", "p-b"}, started[0].Recipients)

	assignedA := s.eventsFor(models.EventTaskAssigned, "p-a")
	assignedB := s.eventsFor(models.EventTaskAssigned, "p-b")
	s.Require().Len(assignedA, 1)
	s.Require().Len(assignedB, 1)
	s.Equal([]models.PlayerID{"p-a"}, assignedA[0].Recipients)
	s.Equal([]models.PlayerID{"p-b"}, assignedB[0].Recipients)
	textA := assignedA[0].Payload.(*models.TaskAssignedPayload).Text
	textB := assignedB[0].Payload.(*models.TaskAssignedPayload).Text
	s.NotEmpty(textA)
	s.NotEqual(textA, textB)

	s.completeTasks(code, "p-a")
	progress := s.events(models.EventTaskProgress)
	s.Require().Len(progress, 1)
	first := progress[0].Payload.(*models.TaskProgressPayload)
	s.Equal(models.TaskStats{Total: 2, Completed: 1, Pending: 1, CompletionRate: 50}, first.Stats)
	s.False(first.AllCompleted)
	s.Empty(s.events(models.EventGuessWindowOpened))

	out := s.completeTasks(code, "p-b")
	s.True(out.AllCompleted)
	s.Equal(models.PlayerID("p-a"), out.TargetPlayerID)
	s.False(out.GameEnded)

	progress = s.events(models.EventTaskProgress)
	s.Require().Len(progress, 2)
	last := progress[1].Payload.(*models.TaskProgressPayload)
	s.Equal(models.TaskStats{Total: 2, Completed: 2, Pending: 0, CompletionRate: 100}, last.Stats)
	s.True(last.AllCompleted)
	s.Equal("nick-p-b", last.PlayerNickname)

	opened := s.events(models.EventGuessWindowOpened)
	s.Require().Len(opened, 1)
	s.ElementsMatch([]models.PlayerID{"p-a", "p-b"}, opened[0].Recipients)
	payload := opened[0].Payload.(*models.GuessWindowOpenedPayload)
	s.Equal(models.PlayerID("p-a"), payload.TargetPlayerID)
	s.Equal(s.now.Add(DefaultGuessWindow), payload.Deadline)
	s.Greater(s.indexOf(models.EventGuessWindowOpened), s.indexOf(models.EventTaskProgress))

	started = s.events(models.EventGuessPhaseStarted)
	s.Require().Len(started, 1)
	s.ElementsMatch([]models.PlayerID{"p-a", "p-b"}, started[0].Recipients)
	phase := started[0].Payload.(*models.GuessPhaseStartedPayload)
	s.Equal(1, phase.Round)
	s.Require().NotNil(phase.TargetPlayer)
	s.Equal(models.PlayerID("p-a"), phase.TargetPlayer.ID)
	s.Equal(payload.Deadline, phase.Deadline)
	s.Less(s.indexOf(models.EventGuessPhaseStarted), s.indexOf(models.EventGuessWindowOpened))

	round := s.round(code)
	s.Equal(models.RoundStatusGuessing, round.Status)
	s.Equal(models.PlayerID("p-a"), round.TargetPlayerID)
	s.Equal([]models.PlayerID{"p-a"}, s.room(code).TargetHistory)

	key := scheduler.GuessKey(code, round.ID)
	s.True(s.hasTimer(key))
	s.Equal(DefaultGuessWindow, s.delays[key])
}

func (s *SessionServiceTestSuite) TestSubmitTaskDoneErrors() {
	code := s.lobby("p-a", "p-b")

	_, err := s.svc.SubmitTaskDone(s.ctx, &SubmitTaskDoneInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrGameNotRunning)

	_, err = s.svc.ToggleReady(s.ctx, &ToggleReadyInput{PlayerID: "p-b"})
	s.Require().NoError(err)
	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-a", RoomCode: code})
	s.Require().NoError(err)

	s.completeTasks(code, "p-a")
	_, err = s.svc.SubmitTaskDone(s.ctx, &SubmitTaskDoneInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrNoOutstandingTask)
	s.Equal(1, s.round(code).TaskStats().Completed)

	_, err = s.svc.SubmitTaskDone(s.ctx, &SubmitTaskDoneInput{PlayerID: "p-z", RoomCode: code})
	s.ErrorIs(err, ErrNotInRoom)

	s.completeTasks(code, "p-b")
	_, err = s.svc.SubmitTaskDone(s.ctx, &SubmitTaskDoneInput{PlayerID: "p-b", RoomCode: code})
	s.ErrorIs(err, ErrNoOutstandingTask)
}

func (s *SessionServiceTestSuite) TestSubmitGuessRules() {
	code := s.guessingGame("p-a", "p-b", "p-c")
	s.Require().Equal(models.PlayerID("p-a"), s.round(code).TargetPlayerID)

	out, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{
		PlayerID:       "p-b",
		RoomCode:       code,
		TargetPlayerID: "p-a",
		Text:           "  jumping jacks ",
	})
	s.Require().NoError(err)
	s.Equal("jumping jacks", out.Guess.Text)
	s.Equal(1, out.TotalGuesses)

	s.Run("duplicate guess", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-b", RoomCode: code, TargetPlayerID: "p-a", Text: "push ups"})
		s.ErrorIs(err, ErrDuplicateGuess)
		s.ErrorIs(err, ErrConflict)
		s.Len(s.round(code).Guesses, 1)
	})

	s.Run("target guessing", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-a", RoomCode: code, TargetPlayerID: "p-a", Text: "dancing"})
		s.ErrorIs(err, ErrSelfTarget)
		s.ErrorIs(err, ErrAuthorization)
	})

	s.Run("wrong target", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-c", RoomCode: code, TargetPlayerID: "p-b", Text: "dancing"})
		s.ErrorIs(err, ErrTargetMismatch)
	})

	s.Run("target naming the wrong target", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-a", RoomCode: code, TargetPlayerID: "C0FFEE", Text: "dancing"})
		s.ErrorIs(err, ErrTargetMismatch)
		s.NotErrorIs(err, ErrSelfTarget)
	})

	s.Run("blank text", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-c", RoomCode: code, TargetPlayerID: "p-a", Text: "   "})
		s.ErrorIs(err, ErrValidation)
	})

	s.Run("text too long", func() {
		_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-c", RoomCode: code, TargetPlayerID: "p-a", Text: strings.Repeat("x", 101)})
		s.ErrorIs(err, ErrValidation)
	})

	s.Len(s.round(code).Guesses, 1)

	// text is only echoed back to its author
	own := s.eventsFor(models.EventGuessSubmitted, "p-b")
	s.Require().Len(own, 1)
	s.Equal("jumping jacks", own[0].Payload.(*models.GuessSubmittedPayload).Guess.Text)
	for _, id := range []models.PlayerID{"p-a", "p-c"} {
		others := s.eventsFor(models.EventGuessSubmitted, id)
		s.Require().Len(others, 1)
		payload := others[0].Payload.(*models.GuessSubmittedPayload)
		s.Empty(payload.Guess.Text)
		s.Equal(1, payload.TotalGuesses)
		s.Equal("nick-p-b", payload.FromPlayerNickname)
	}

	s.now = s.now.Add(DefaultGuessWindow + time.Second)
	_, err = s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-c", RoomCode: code, TargetPlayerID: "p-a", Text: "dancing"})
	s.ErrorIs(err, ErrGuessDeadlineExpired)
	s.ErrorIs(err, ErrDeadlineExpired)
}

func (s *SessionServiceTestSuite) TestSubmitGuessOutsideGuessing() {
	code := s.startedGame("p-a", "p-b")

	_, err := s.svc.SubmitGuess(s.ctx, &SubmitGuessInput{PlayerID: "p-b", RoomCode: code, TargetPlayerID: "p-a", Text: "dancing"})
	s.ErrorIs(err, ErrWrongPhase)
	s.ErrorIs(err, ErrState)
}

func (s *SessionServiceTestSuite) TestCloseGuessWindow() {
	s.targetIndex = 1
	code := s.guessingGame("p-a", "p-b", "p-c")
	round := s.round(code)
	s.Require().Equal(models.PlayerID("p-b"), round.TargetPlayerID)
	s.guess(code, "p-a", "juggling")

	_, err := s.svc.CloseGuessWindow(s.ctx, &CloseGuessWindowInput{PlayerID: "p-c", RoomCode: code, TargetPlayerID: "p-b"})
	s.ErrorIs(err, ErrNotGuessCloser)

	_, err = s.svc.CloseGuessWindow(s.ctx, &CloseGuessWindowInput{PlayerID: "p-a", RoomCode: code, TargetPlayerID: "p-c"})
	s.ErrorIs(err, ErrTargetMismatch)

	out, err := s.svc.CloseGuessWindow(s.ctx, &CloseGuessWindowInput{PlayerID: "p-b", RoomCode: code, TargetPlayerID: "p-b"})
	s.Require().NoError(err)
	s.Equal(s.now.Add(DefaultVotingWindow), out.VotingDeadline)
	s.Require().Len(out.Guesses, 1)
	s.Equal("juggling", out.Guesses[0].Text)

	s.Equal(models.RoundStatusVoting, s.round(code).Status)
	s.False(s.hasTimer(scheduler.GuessKey(code, round.ID)))
	s.True(s.hasTimer(scheduler.VoteKey(code, round.ID)))
	s.Equal(DefaultVotingWindow, s.delays[scheduler.VoteKey(code, round.ID)])

	started := s.events(models.EventVotingStarted)
	s.Require().Len(started, 1)
	s.Len(started[0].Recipients, 3)
	payload := started[0].Payload.(*models.VotingStartedPayload)
	s.Equal(round.TaskFor("p-b").Text, payload.TaskText)
	s.Equal("nick-p-b", payload.TargetPlayerNickname)
	s.Require().Len(payload.Guesses, 1)
	s.Equal("juggling", payload.Guesses[0].Text)
	s.Less(s.indexOf(models.EventGuessWindowClosed), s.indexOf(models.EventVotingStarted))

	_, err = s.svc.CloseGuessWindow(s.ctx, &CloseGuessWindowInput{PlayerID: "p-b", RoomCode: code, TargetPlayerID: "p-b"})
	s.ErrorIs(err, ErrWrongPhase)
}

func (s *SessionServiceTestSuite) TestSubmitVoteRules() {
	code := s.guessingGame("p-a", "p-b", "p-c", "p-d")
	guessB := s.guess(code, "p-b", "jumping jacks")
	guessC := s.guess(code, "p-c", "push ups")
	yes := true

	_, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-c", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
	s.ErrorIs(err, ErrWrongPhase)

	s.closeGuesses(code, "p-a")

	s.Run("target cannot vote", func() {
		_, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-a", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
		s.ErrorIs(err, ErrTargetCannotVote)
		s.ErrorIs(err, ErrAuthorization)
	})

	s.Run("own guess", func() {
		_, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-b", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
		s.ErrorIs(err, ErrSelfVote)
	})

	s.Run("unknown guess", func() {
		_, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-c", RoomCode: code, GuessID: "missing", IsCorrect: &yes})
		s.ErrorIs(err, ErrGuessNotFound)
		s.ErrorIs(err, ErrNotFound)
	})

	s.Run("missing verdict", func() {
		_, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-c", RoomCode: code, GuessID: guessB.ID})
		s.ErrorIs(err, ErrValidation)
	})

	s.publisher.reset()
	out, err := s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-c", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
	s.Require().NoError(err)
	s.True(out.Vote.IsCorrect)
	s.Equal(1, out.TotalVotes)

	_, err = s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-c", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
	s.ErrorIs(err, ErrDuplicateVote)
	s.ErrorIs(err, ErrConflict)
	s.Len(s.round(code).FindGuess(guessB.ID).Votes, 1)

	// the verdict is only echoed to the voter
	own := s.eventsFor(models.EventVoteSubmitted, "p-c")
	s.Require().Len(own, 1)
	s.Require().NotNil(own[0].Payload.(*models.VoteSubmittedPayload).Vote)
	for _, id := range []models.PlayerID{"p-a", "p-b", "p-d"} {
		others := s.eventsFor(models.EventVoteSubmitted, id)
		s.Require().Len(others, 1)
		payload := others[0].Payload.(*models.VoteSubmittedPayload)
		s.Nil(payload.Vote)
		s.Equal(1, payload.TotalVotes)
		s.Equal(guessB.ID, payload.GuessID)
	}

	// voting on another guess is allowed
	s.vote(code, "p-b", guessC.ID, false)

	s.now = s.now.Add(DefaultVotingWindow + time.Second)
	_, err = s.svc.SubmitVote(s.ctx, &SubmitVoteInput{PlayerID: "p-d", RoomCode: code, GuessID: guessB.ID, IsCorrect: &yes})
	s.ErrorIs(err, ErrVotingDeadlineExpired)
}

func (s *SessionServiceTestSuite) TestCloseVotingScoresRound() {
	code := s.guessingGame("p-a", "p-b", "p-c", "p-d")
	round := s.round(code)
	s.Require().Equal(models.PlayerID("p-a"), round.TargetPlayerID)

	g := s.guess(code, "p-b", "jumping jacks")
	s.closeGuesses(code, "p-a")
	s.vote(code, "p-c", g.ID, true)
	s.vote(code, "p-d", g.ID, true)

	_, err := s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: "p-b", RoomCode: code})
	s.ErrorIs(err, ErrNotHost)

	out, err := s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: "p-a", RoomCode: code})
	s.Require().NoError(err)

	scores := make(map[models.PlayerID]*models.RoundScore, len(out.Scores))
	for _, score := range out.Scores {
		s.GreaterOrEqual(score.Points, 0)
		scores[score.PlayerID] = score
	}
	s.Require().Len(scores, 4)

	s.True(scores["p-a"].IsTarget)
	s.Equal(3, scores["p-a"].Breakdown.TargetBonus)
	s.Equal(13, scores["p-a"].Points)
	s.Equal(15, scores["p-b"].Breakdown.AccurateGuess)
	s.Equal(25, scores["p-b"].Points)
	s.Equal(5, scores["p-c"].Breakdown.CorrectGuesses)
	s.Equal(15, scores["p-c"].Points)
	s.Equal(15, scores["p-d"].Points)

	s.Equal(13, s.player("p-a").Score)
	s.Equal(25, s.player("p-b").Score)
	s.Equal(15, s.player("p-c").Score)
	s.Equal(15, s.player("p-d").Score)

	s.Equal(models.RoundStatusDone, s.round(code).Status)
	s.False(s.hasTimer(scheduler.VoteKey(code, round.ID)))
	s.True(s.hasTimer(scheduler.TransitionKey(code)))
	s.Equal(DefaultRoundTransition, s.delays[scheduler.TransitionKey(code)])

	closed := s.events(models.EventVotingClosed)
	s.Require().Len(closed, 1)
	payload := closed[0].Payload.(*models.VotingClosedPayload)
	s.Len(payload.Scores, 4)
	s.Require().Len(payload.Players, 4)
	s.Equal(25, payload.Players[1].Score)

	_, err = s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrWrongPhase)
}

func (s *SessionServiceTestSuite) TestCloseVotingOutsideVoting() {
	code := s.guessingGame("p-a", "p-b")

	_, err := s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrWrongPhase)
}

// playRound takes a round in guessing through to scoring with one guess from
// the given author
func (s *SessionServiceTestSuite) playRound(code models.RoomCode, host, author models.PlayerID) {
	s.guess(code, author, "something silly")
	s.closeGuesses(code, host)
	_, err := s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: host, RoomCode: code})
	s.Require().NoError(err)
}

func (s *SessionServiceTestSuite) TestGameRunsUntilEveryoneWasTarget() {
	code := s.guessingGame("p-a", "p-b")
	first := s.round(code)
	s.playRound(code, "p-a", "p-b")

	s.fire(scheduler.TransitionKey(code))

	next := s.events(models.EventNextRoundStarted)
	s.Require().Len(next, 1)
	second := s.round(code)
	s.NotEqual(first.ID, second.ID)
	s.Equal(2, second.Number)
	s.Equal(models.RoundStatusTasks, second.Status)
	s.Equal(second.ID, next[0].Payload.(*models.NextRoundStartedPayload).Round.ID)
	s.Len(s.eventsFor(models.EventTaskAssigned, "p-a"), 2)
	s.Len(s.eventsFor(models.EventTaskAssigned, "p-b"), 2)

	s.completeTasks(code, "p-a", "p-b")
	s.Equal(models.PlayerID("p-b"), s.round(code).TargetPlayerID)
	s.playRound(code, "p-a", "p-a")

	s.fire(scheduler.TransitionKey(code))

	var targets []models.PlayerID
	for _, e := range s.events(models.EventGuessWindowOpened) {
		targets = append(targets, e.Payload.(*models.GuessWindowOpenedPayload).TargetPlayerID)
	}
	s.Equal([]models.PlayerID{"p-a", "p-b"}, targets)

	ended := s.events(models.EventGameEnded)
	s.Require().Len(ended, 1)
	payload := ended[0].Payload.(*models.GameEndedPayload)
	s.Require().Len(payload.FinalScores, 2)
	s.Equal(23, payload.FinalScores[0].Score)
	s.Equal(23, payload.FinalScores[1].Score)
	s.Equal(models.PlayerID("p-a"), payload.Winner.PlayerID)

	room := s.room(code)
	s.Equal(models.RoomStatusEnded, room.Status)
	s.Equal(2, room.RoundNumber)
	s.Len(s.events(models.EventNextRoundStarted), 1)

	_, err := s.svc.SubmitTaskDone(s.ctx, &SubmitTaskDoneInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrGameNotRunning)
	_, err = s.svc.StartGame(s.ctx, &StartGameInput{PlayerID: "p-a", RoomCode: code})
	s.ErrorIs(err, ErrGameAlreadyRunning)

	archived := s.archivedResults()
	s.Require().Len(archived, 1)
	s.Equal(code, archived[0].RoomCode)
	s.Equal(2, archived[0].Rounds)
	s.Len(archived[0].FinalScores, 2)
	s.NotEmpty(archived[0].ID)
}

func (s *SessionServiceTestSuite) TestGuessDeadlineClosesWindow() {
	code := s.guessingGame("p-a", "p-b", "p-c")
	round := s.round(code)
	g := s.guess(code, "p-b", "jumping jacks")

	s.fire(scheduler.GuessKey(code, round.ID))

	s.Equal(models.RoundStatusVoting, s.round(code).Status)
	s.Len(s.events(models.EventVotingStarted), 1)

	_, err := s.svc.CloseGuessWindow(s.ctx, &CloseGuessWindowInput{PlayerID: "p-a", RoomCode: code, TargetPlayerID: "p-a"})
	s.ErrorIs(err, ErrWrongPhase)

	s.vote(code, "p-c", g.ID, true)
	s.fire(scheduler.VoteKey(code, round.ID))

	s.Equal(models.RoundStatusDone, s.round(code).Status)
	s.Len(s.events(models.EventVotingClosed), 1)
	s.Equal(25, s.player("p-b").Score)
	s.True(s.hasTimer(scheduler.TransitionKey(code)))
}

func (s *SessionServiceTestSuite) TestStaleDeadlinesAreDropped() {
	code := s.guessingGame("p-a", "p-b")
	round := s.round(code)

	s.timersMu.Lock()
	guessDeadline := s.timers[scheduler.GuessKey(code, round.ID)]
	s.timersMu.Unlock()
	s.Require().NotNil(guessDeadline)

	s.closeGuesses(code, "p-a")
	votingDeadline := s.round(code).VotingDeadline

	guessDeadline()
	s.Len(s.events(models.EventVotingStarted), 1)
	s.Equal(votingDeadline, s.round(code).VotingDeadline)

	s.timersMu.Lock()
	voteDeadline := s.timers[scheduler.VoteKey(code, round.ID)]
	s.timersMu.Unlock()
	s.Require().NotNil(voteDeadline)

	_, err := s.svc.CloseVoting(s.ctx, &CloseVotingInput{PlayerID: "p-a", RoomCode: code})
	s.Require().NoError(err)
	score := s.player("p-a").Score

	voteDeadline()
	s.Len(s.events(models.EventVotingClosed), 1)
	s.Equal(score, s.player("p-a").Score)
}

func (s *SessionServiceTestSuite) TestLeavingLastPendingTaskOpensGuessWindow() {
	code := s.startedGame("p-a", "p-b", "p-c")
	s.completeTasks(code, "p-a", "p-b")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{PlayerID: "p-c"})
	s.Require().NoError(err)

	round := s.round(code)
	s.Equal(models.RoundStatusGuessing, round.Status)
	s.Len(round.Tasks, 2)
	s.Equal(models.PlayerID("p-a"), round.TargetPlayerID)
	s.Less(s.indexOf(models.EventPlayerLeft), s.indexOf(models.EventGuessWindowOpened))
}

func (s *SessionServiceTestSuite) TestLeavingDuringTasksDropsTask() {
	code := s.startedGame("p-a", "p-b", "p-c")
	s.completeTasks(code, "p-a")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{PlayerID: "p-c"})
	s.Require().NoError(err)

	round := s.round(code)
	s.Equal(models.RoundStatusTasks, round.Status)
	s.Len(round.Tasks, 2)
	s.Nil(round.TaskFor("p-c"))
	s.Empty(s.events(models.EventGuessWindowOpened))
}

func (s *SessionServiceTestSuite) TestTargetLeavingAbandonsRound() {
	s.targetIndex = 1
	code := s.guessingGame("p-a", "p-b", "p-c")
	round := s.round(code)
	s.Require().Equal(models.PlayerID("p-b"), round.TargetPlayerID)
	s.guess(code, "p-c", "juggling")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{PlayerID: "p-b"})
	s.Require().NoError(err)

	s.Equal(models.RoundStatusDone, s.round(code).Status)
	s.False(s.hasTimer(scheduler.GuessKey(code, round.ID)))
	s.True(s.hasTimer(scheduler.TransitionKey(code)))

	closed := s.events(models.EventVotingClosed)
	s.Require().Len(closed, 1)
	s.Empty(closed[0].Payload.(*models.VotingClosedPayload).Scores)
	s.Equal(0, s.player("p-c").Score)

	s.fire(scheduler.TransitionKey(code))

	s.Len(s.events(models.EventNextRoundStarted), 1)
	next := s.round(code)
	s.Equal(2, next.Number)
	s.Len(next.Tasks, 2)
	s.Equal(models.RoomStatusRunning, s.room(code).Status)
}

func (s *SessionServiceTestSuite) TestLeavingBelowTwoPlayersEndsGame() {
	code := s.startedGame("p-a", "p-b")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{PlayerID: "p-b"})
	s.Require().NoError(err)

	s.Equal(models.RoomStatusEnded, s.room(code).Status)
	ended := s.eventsFor(models.EventGameEnded, "p-a")
	s.Require().Len(ended, 1)
	s.Len(ended[0].Payload.(*models.GameEndedPayload).FinalScores, 1)
	s.Less(s.indexOf(models.EventPlayerLeft), s.indexOf(models.EventGameEnded))

	s.Len(s.archivedResults(), 1)
}

func (s *SessionServiceTestSuite) TestNoConnectedTargetEndsGameAtTransition() {
	code := s.guessingGame("p-a", "p-b")
	s.playRound(code, "p-a", "p-b")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-b"})
	s.Require().NoError(err)

	s.fire(scheduler.TransitionKey(code))

	s.Equal(models.RoomStatusEnded, s.room(code).Status)
	s.Len(s.events(models.EventGameEnded), 1)
	s.Empty(s.events(models.EventNextRoundStarted))
}

func (s *SessionServiceTestSuite) TestNoConnectedTargetEndsGameAtGuessPhase() {
	code := s.guessingGame("p-a", "p-b")
	s.playRound(code, "p-a", "p-b")
	s.fire(scheduler.TransitionKey(code))

	s.completeTasks(code, "p-b")
	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{PlayerID: "p-b"})
	s.Require().NoError(err)

	out := s.completeTasks(code, "p-a")
	s.True(out.AllCompleted)
	s.True(out.GameEnded)
	s.Empty(out.TargetPlayerID)
	s.Equal(models.RoomStatusEnded, s.room(code).Status)
	s.Len(s.events(models.EventGameEnded), 1)
}
