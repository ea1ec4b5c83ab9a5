package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/taskguess/internal/models"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	"github.com/KirkDiggler/taskguess/internal/services/scheduler"
	"github.com/KirkDiggler/taskguess/internal/services/scoring"
	"github.com/KirkDiggler/taskguess/internal/services/tasks"
)

// archiveTimeout bounds a single results write
const archiveTimeout = 5 * time.Second

// StartGame moves a lobby into its first round
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
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

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	if room.HostID != in.PlayerID {
		return nil, ErrNotHost
	}

	if room.Status != models.RoomStatusLobby {
		return nil, ErrGameAlreadyRunning
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	if len(players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	for _, p := range players {
		if p.ID != room.HostID && !p.IsReady {
			return nil, ErrPlayersNotReady
		}
	}

	room.Status = models.RoomStatusRunning
	room.TargetHistory = nil
	room.RoundNumber = 0

	round, err := s.newRound(ctx, room)
	if err != nil {
		return nil, err
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	view := models.NewRoomView(room, players)

	o := &outbox{}
	o.toRoom(room, models.EventGameStarted, &models.GameStartedPayload{
		RoomCode: room.Code,
		RoundID:  round.ID,
		Room:     view,
	})
	announceTasks(room.Code, round, o)
	s.publish(ctx, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("round", round.ID.String()).
		Int("players", len(players)).
		Msg("game started")

	return &StartGameOutput{
		Room:  view,
		Round: round.Clone(),
	}, nil
}

// newRound deals fresh tasks to every player and makes the round current
func (s *service) newRound(ctx context.Context, room *models.Room) (*models.Round, error) {
	assigned, err := s.taskService.AssignTasks(ctx, &tasks.AssignTasksInput{
		RoomCode:  room.Code,
		PlayerIDs: room.PlayerIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign tasks: %w", err)
	}

	round := &models.Round{
		ID:        models.RoundID(s.uuidGenerator.NewUUID()),
		RoomCode:  room.Code,
		Number:    room.RoundNumber + 1,
		Status:    models.RoundStatusTasks,
		Tasks:     assigned.Tasks,
		Guesses:   []*models.Guess{},
		CreatedAt: s.clock.Now(),
	}

	if err := s.saveRound(ctx, round); err != nil {
		return nil, err
	}

	room.CurrentRoundID = round.ID
	room.RoundNumber = round.Number

	return round, nil
}

// announceTasks sends every task to its owner only
func announceTasks(code models.RoomCode, round *models.Round, o *outbox) {
	for _, task := range round.Tasks {
		o.toPlayer(code, task.PlayerID, models.EventTaskAssigned, &models.TaskAssignedPayload{
			TaskID: task.ID,
			Text:   task.Text,
		})
	}
}

// SubmitTaskDone marks the caller's task as completed. Completing the last
// task opens the guess window.
func (s *service) SubmitTaskDone(ctx context.Context, input *SubmitTaskDoneInput) (*SubmitTaskDoneOutput, error) {
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

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		return nil, err
	}

	task := round.TaskFor(in.PlayerID)
	if round.Status != models.RoundStatusTasks || task == nil || task.Completed {
		return nil, ErrNoOutstandingTask
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	task.Completed = true
	task.CompletedAt = &now

	stats := round.TaskStats()
	allCompleted := round.AllTasksCompleted()

	o := &outbox{}
	o.toPlayer(room.Code, in.PlayerID, models.EventTaskCompleted, &models.TaskCompletedPayload{
		TaskID:      task.ID,
		CompletedAt: now,
	})
	o.toRoom(room, models.EventTaskProgress, &models.TaskProgressPayload{
		Stats:          stats,
		PlayerNickname: nickname(players, in.PlayerID),
		AllCompleted:   allCompleted,
	})

	if allCompleted {
		if err := s.startGuessPhase(ctx, room, round, players, o); err != nil {
			return nil, err
		}
	} else if err := s.saveRound(ctx, round); err != nil {
		return nil, err
	}

	s.publish(ctx, o)

	completed := *task
	return &SubmitTaskDoneOutput{
		Task:           &completed,
		Stats:          stats,
		AllCompleted:   allCompleted,
		TargetPlayerID: round.TargetPlayerID,
		GameEnded:      room.Status == models.RoomStatusEnded,
	}, nil
}

// startGuessPhase picks the target and opens the guess window. With nobody
// left to target the game ends instead.
func (s *service) startGuessPhase(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
	target := SelectTarget(players, room.TargetHistory, s.picker)
	if target == nil {
		s.logger.Info().Str("room", room.Code.String()).Msg("no eligible target left")
		return s.endGame(ctx, room, round, players, o)
	}

	deadline := s.clock.Now().Add(s.guessWindow)
	round.Status = models.RoundStatusGuessing
	round.TargetPlayerID = target.ID
	round.GuessDeadline = &deadline
	room.TargetHistory = append(room.TargetHistory, target.ID)

	if err := s.saveRound(ctx, round); err != nil {
		return err
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return err
	}

	code, roundID := room.Code, round.ID
	s.scheduler.Schedule(scheduler.GuessKey(code, roundID), s.guessWindow, func() {
		s.onGuessDeadline(code, roundID)
	})

	o.toRoom(room, models.EventGuessPhaseStarted, &models.GuessPhaseStartedPayload{
		Round:        round.Number,
		RoundID:      round.ID,
		TargetPlayer: target.Clone(),
		Deadline:     deadline,
	})
	o.toRoom(room, models.EventGuessWindowOpened, &models.GuessWindowOpenedPayload{
		RoundID:              round.ID,
		TargetPlayerID:       target.ID,
		TargetPlayerNickname: target.Nickname,
		Deadline:             deadline,
	})

	return nil
}

// SubmitGuess records the caller's guess about the target's task
func (s *service) SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error) {
	if input == nil {
		return nil, newError(KindValidation, "input cannot be nil")
	}

	in := *input
	in.RoomCode = normalizeCode(in.RoomCode)
	in.Text = strings.TrimSpace(in.Text)
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	unlock := s.lockRoom(in.RoomCode)
	defer unlock()

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		return nil, err
	}

	if round.Status != models.RoundStatusGuessing {
		return nil, ErrWrongPhase
	}

	if in.TargetPlayerID != round.TargetPlayerID {
		return nil, ErrTargetMismatch
	}

	if in.PlayerID == round.TargetPlayerID {
		return nil, ErrSelfTarget
	}

	now := s.clock.Now()
	if round.GuessDeadline != nil && now.After(*round.GuessDeadline) {
		return nil, ErrGuessDeadlineExpired
	}

	if round.GuessBy(in.PlayerID) != nil {
		return nil, ErrDuplicateGuess
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	guess := &models.Guess{
		ID:             s.uuidGenerator.NewUUID(),
		RoundID:        round.ID,
		FromPlayerID:   in.PlayerID,
		TargetPlayerID: round.TargetPlayerID,
		Text:           in.Text,
		Votes:          []*models.Vote{},
		SubmittedAt:    now,
	}
	round.Guesses = append(round.Guesses, guess)

	if err := s.saveRound(ctx, round); err != nil {
		return nil, err
	}

	from := nickname(players, in.PlayerID)
	total := len(round.Guesses)

	o := &outbox{}
	o.toPlayer(room.Code, in.PlayerID, models.EventGuessSubmitted, &models.GuessSubmittedPayload{
		Guess:              guess.Clone(),
		FromPlayerNickname: from,
		TotalGuesses:       total,
	})
	o.toOthers(room, in.PlayerID, models.EventGuessSubmitted, &models.GuessSubmittedPayload{
		Guess:              guess.Withheld(),
		FromPlayerNickname: from,
		TotalGuesses:       total,
	})
	s.publish(ctx, o)

	return &SubmitGuessOutput{
		Guess:        guess.Clone(),
		TotalGuesses: total,
	}, nil
}

// CloseGuessWindow moves the round into voting. Only the host or the target may close it.
func (s *service) CloseGuessWindow(ctx context.Context, input *CloseGuessWindowInput) (*CloseGuessWindowOutput, error) {
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

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		return nil, err
	}

	if round.Status != models.RoundStatusGuessing {
		return nil, ErrWrongPhase
	}

	if in.PlayerID != room.HostID && in.PlayerID != round.TargetPlayerID {
		return nil, ErrNotGuessCloser
	}

	if in.TargetPlayerID != round.TargetPlayerID {
		return nil, ErrTargetMismatch
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	o := &outbox{}
	if err := s.closeGuessWindow(ctx, room, round, players, o); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	guesses := make([]*models.Guess, 0, len(round.Guesses))
	for _, g := range round.Guesses {
		guesses = append(guesses, g.Clone())
	}

	return &CloseGuessWindowOutput{
		Guesses:        guesses,
		VotingDeadline: *round.VotingDeadline,
	}, nil
}

// closeGuessWindow reveals the guesses and the target's task and opens voting
func (s *service) closeGuessWindow(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
	s.scheduler.Cancel(scheduler.GuessKey(room.Code, round.ID))

	deadline := s.clock.Now().Add(s.votingWindow)
	round.Status = models.RoundStatusVoting
	round.VotingDeadline = &deadline

	if err := s.saveRound(ctx, round); err != nil {
		return err
	}

	code, roundID := room.Code, round.ID
	s.scheduler.Schedule(scheduler.VoteKey(code, roundID), s.votingWindow, func() {
		s.onVotingDeadline(code, roundID)
	})

	o.toRoom(room, models.EventGuessWindowClosed, &models.GuessWindowClosedPayload{
		TargetPlayerID: round.TargetPlayerID,
	})
	o.toRoom(room, models.EventVotingStarted, votingStartedPayload(round, players))

	s.logger.Debug().
		Str("room", room.Code.String()).
		Int("guesses", len(round.Guesses)).
		Msg("voting started")

	return nil
}

func votingStartedPayload(round *models.Round, players []*models.Player) *models.VotingStartedPayload {
	payload := &models.VotingStartedPayload{
		TargetPlayerID:       round.TargetPlayerID,
		TargetPlayerNickname: nickname(players, round.TargetPlayerID),
		Guesses:              make([]*models.Guess, 0, len(round.Guesses)),
	}
	if round.VotingDeadline != nil {
		payload.Deadline = *round.VotingDeadline
	}
	if task := round.TaskFor(round.TargetPlayerID); task != nil {
		payload.TaskID = task.ID
		payload.TaskText = task.Text
	}
	for _, g := range round.Guesses {
		payload.Guesses = append(payload.Guesses, g.Clone())
	}
	return payload
}

// SubmitVote records the caller's verdict on a guess
func (s *service) SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error) {
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

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		return nil, err
	}

	if round.Status != models.RoundStatusVoting {
		return nil, ErrWrongPhase
	}

	now := s.clock.Now()
	if round.VotingDeadline != nil && now.After(*round.VotingDeadline) {
		return nil, ErrVotingDeadlineExpired
	}

	if in.PlayerID == round.TargetPlayerID {
		return nil, ErrTargetCannotVote
	}

	guess := round.FindGuess(in.GuessID)
	if guess == nil {
		return nil, ErrGuessNotFound
	}

	if guess.FromPlayerID == in.PlayerID {
		return nil, ErrSelfVote
	}

	if guess.VoteBy(in.PlayerID) != nil {
		return nil, ErrDuplicateVote
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	vote := &models.Vote{
		ID:           s.uuidGenerator.NewUUID(),
		FromPlayerID: in.PlayerID,
		GuessID:      guess.ID,
		IsCorrect:    *in.IsCorrect,
		SubmittedAt:  now,
	}
	guess.Votes = append(guess.Votes, vote)

	if err := s.saveRound(ctx, round); err != nil {
		return nil, err
	}

	voter := nickname(players, in.PlayerID)
	total := len(guess.Votes)
	own := *vote

	o := &outbox{}
	o.toPlayer(room.Code, in.PlayerID, models.EventVoteSubmitted, &models.VoteSubmittedPayload{
		GuessID:       guess.ID,
		TotalVotes:    total,
		VoterNickname: voter,
		Vote:          &own,
	})
	o.toOthers(room, in.PlayerID, models.EventVoteSubmitted, &models.VoteSubmittedPayload{
		GuessID:       guess.ID,
		TotalVotes:    total,
		VoterNickname: voter,
	})
	s.publish(ctx, o)

	result := *vote
	return &SubmitVoteOutput{
		Vote:       &result,
		TotalVotes: total,
	}, nil
}

// CloseVoting scores the round. Only the host may close voting.
func (s *service) CloseVoting(ctx context.Context, input *CloseVotingInput) (*CloseVotingOutput, error) {
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

	room, err := s.getMemberRoom(ctx, in.RoomCode, in.PlayerID)
	if err != nil {
		return nil, err
	}

	if room.HostID != in.PlayerID {
		return nil, ErrNotHost
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		return nil, err
	}

	if round.Status != models.RoundStatusVoting {
		return nil, ErrWrongPhase
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		return nil, err
	}

	o := &outbox{}
	scores, err := s.closeVoting(ctx, room, round, players, o)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	return &CloseVotingOutput{
		Scores: scores,
	}, nil
}

// closeVoting applies the round's scores and schedules the next round
func (s *service) closeVoting(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) ([]*models.RoundScore, error) {
	s.scheduler.Cancel(scheduler.VoteKey(room.Code, round.ID))

	round.Status = models.RoundStatusScoring
	scores := scoring.Score(round, players)

	points := make(map[models.PlayerID]int, len(scores))
	for _, score := range scores {
		points[score.PlayerID] = score.Points
	}

	updated := make([]*models.Player, 0, len(players))
	for _, p := range players {
		player := p.Clone()
		player.Score += points[p.ID]
		updated = append(updated, player)
	}

	for _, player := range updated {
		if err := s.savePlayer(ctx, player); err != nil {
			return nil, err
		}
	}

	round.Status = models.RoundStatusDone
	if err := s.saveRound(ctx, round); err != nil {
		return nil, err
	}

	s.scheduleTransition(room.Code, round.ID)

	o.toRoom(room, models.EventVotingClosed, &models.VotingClosedPayload{
		Scores:  scores,
		Players: updated,
	})

	s.logger.Info().
		Str("room", room.Code.String()).
		Str("round", round.ID.String()).
		Msg("round scored")

	return scores, nil
}

func (s *service) scheduleTransition(code models.RoomCode, roundID models.RoundID) {
	s.scheduler.Schedule(scheduler.TransitionKey(code), s.roundTransition, func() {
		s.onTransition(code, roundID)
	})
}

// abandonRound ends a round without scoring when its target has left
func (s *service) abandonRound(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
	s.scheduler.Cancel(scheduler.GuessKey(room.Code, round.ID))
	s.scheduler.Cancel(scheduler.VoteKey(room.Code, round.ID))

	round.Status = models.RoundStatusDone
	if err := s.saveRound(ctx, round); err != nil {
		return err
	}

	s.scheduleTransition(room.Code, round.ID)

	clones := make([]*models.Player, 0, len(players))
	for _, p := range players {
		clones = append(clones, p.Clone())
	}
	o.toRoom(room, models.EventVotingClosed, &models.VotingClosedPayload{
		Scores:  []*models.RoundScore{},
		Players: clones,
	})

	return nil
}

// handleDeparture repairs a running round after a player has been removed
func (s *service) handleDeparture(ctx context.Context, room *models.Room, leaver models.PlayerID, remaining []*models.Player, o *outbox) error {
	if room.Status != models.RoomStatusRunning {
		return nil
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		if errors.Is(err, ErrGameNotRunning) {
			return nil
		}
		return err
	}

	if len(remaining) < 2 {
		return s.endGame(ctx, room, round, remaining, o)
	}

	switch round.Status {
	case models.RoundStatusTasks:
		if !round.RemoveTask(leaver) {
			return nil
		}
		if round.AllTasksCompleted() {
			return s.startGuessPhase(ctx, room, round, remaining, o)
		}
		return s.saveRound(ctx, round)
	case models.RoundStatusGuessing, models.RoundStatusVoting:
		if round.TargetPlayerID == leaver {
			return s.abandonRound(ctx, room, round, remaining, o)
		}
	}

	return nil
}

// advance starts the next round, or ends the game when nobody is left to target
func (s *service) advance(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
	if len(players) < 2 || len(eligibleTargets(players, room.TargetHistory)) == 0 {
		return s.endGame(ctx, room, round, players, o)
	}

	next, err := s.newRound(ctx, room)
	if err != nil {
		return err
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return err
	}

	o.toRoom(room, models.EventNextRoundStarted, &models.NextRoundStartedPayload{
		Room:  models.NewRoomView(room, players),
		Round: next.Clone(),
	})
	announceTasks(room.Code, next, o)

	s.logger.Info().
		Str("room", room.Code.String()).
		Int("round", next.Number).
		Msg("next round started")

	return nil
}

// endGame closes the room's game, announces the final standings and archives them
func (s *service) endGame(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
	s.cancelRoomTimers(room)

	room.Status = models.RoomStatusEnded
	if round != nil && round.Status != models.RoundStatusDone {
		round.Status = models.RoundStatusDone
		if err := s.saveRound(ctx, round); err != nil {
			return err
		}
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return err
	}

	finals := finalScores(players)
	payload := &models.GameEndedPayload{FinalScores: finals}
	if len(finals) > 0 {
		payload.Winner = finals[0]
	}
	o.toRoom(room, models.EventGameEnded, payload)

	s.archive(&models.GameResult{
		ID:          s.uuidGenerator.NewUUID(),
		RoomCode:    room.Code,
		RoomName:    room.Name,
		Rounds:      room.RoundNumber,
		FinalScores: finals,
		EndedAt:     s.clock.Now(),
	})

	s.logger.Info().
		Str("room", room.Code.String()).
		Int("rounds", room.RoundNumber).
		Msg("game ended")

	return nil
}

// finalScores orders players by score; ties keep join order
func finalScores(players []*models.Player) []*models.FinalScore {
	finals := make([]*models.FinalScore, 0, len(players))
	for _, p := range players {
		finals = append(finals, &models.FinalScore{
			PlayerID: p.ID,
			Nickname: p.Nickname,
			Score:    p.Score,
		})
	}
	sort.SliceStable(finals, func(i, j int) bool {
		return finals[i].Score > finals[j].Score
	})
	return finals
}

// archive stores a finished game without holding up the room
func (s *service) archive(result *models.GameResult) {
	if s.resultsRepo == nil {
		return
	}

	s.archiving.Add(1)
	go func() {
		defer s.archiving.Done()

		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := s.resultsRepo.SaveResult(ctx, &resultsRepo.SaveResultInput{Result: result}); err != nil {
			s.logger.Error().Err(err).Str("room", result.RoomCode.String()).Msg("failed to archive result")
		}
	}()
}

// onGuessDeadline closes the guess window unless the round already moved on
func (s *service) onGuessDeadline(code models.RoomCode, roundID models.RoundID) {
	s.onDeadline(code, roundID, models.RoundStatusGuessing, func(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
		return s.closeGuessWindow(ctx, room, round, players, o)
	})
}

// onVotingDeadline closes voting unless the round already moved on
func (s *service) onVotingDeadline(code models.RoomCode, roundID models.RoundID) {
	s.onDeadline(code, roundID, models.RoundStatusVoting, func(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error {
		_, err := s.closeVoting(ctx, room, round, players, o)
		return err
	})
}

// onTransition starts the next round after the scoring pause
func (s *service) onTransition(code models.RoomCode, roundID models.RoundID) {
	s.onDeadline(code, roundID, models.RoundStatusDone, s.advance)
}

type roundStep func(ctx context.Context, room *models.Room, round *models.Round, players []*models.Player, o *outbox) error

// onDeadline runs a timed step through the room lock. A step whose round is
// no longer current or no longer in the expected phase is dropped.
func (s *service) onDeadline(code models.RoomCode, roundID models.RoundID, expected models.RoundStatus, step roundStep) {
	ctx := context.Background()
	log := s.logger.With().Str("room", code.String()).Str("round", roundID.String()).Str("phase", string(expected)).Logger()

	unlock := s.lockRoom(code)
	defer unlock()

	room, err := s.getRoom(ctx, code)
	if err != nil {
		log.Debug().Err(err).Msg("deadline for missing room dropped")
		return
	}

	if room.Status != models.RoomStatusRunning || room.CurrentRoundID != roundID {
		log.Debug().Msg("stale deadline dropped")
		return
	}

	round, err := s.getCurrentRound(ctx, room)
	if err != nil {
		log.Error().Err(err).Msg("failed to load round for deadline")
		return
	}

	if round.Status != expected {
		log.Debug().Str("status", string(round.Status)).Msg("deadline lost the race")
		return
	}

	players, err := s.getRoomPlayers(ctx, room)
	if err != nil {
		log.Error().Err(err).Msg("failed to load players for deadline")
		return
	}

	o := &outbox{}
	if err := step(ctx, room, round, players, o); err != nil {
		log.Error().Err(err).Msg("deadline step failed")
		return
	}
	s.publish(ctx, o)

	log.Info().Msg("deadline fired")
}
