package game

import (
	"context"
	"errors"
	"time"

	"github.com/emberlit/guessparty/internal/domain"
	"github.com/emberlit/guessparty/internal/infrastructure/logging"
	"github.com/emberlit/guessparty/internal/infrastructure/metrics"
	"github.com/emberlit/guessparty/internal/infrastructure/ws"
)

const callbackTimeout = 10 * time.Second

// Broadcaster fans an event out to every subscriber of a session's room.
type Broadcaster interface {
	Publish(msg *ws.Message)
}

// Publisher pushes session events onto the message bus. Publishing is
// fire-and-forget from the engine's point of view; failures are logged,
// never surfaced to players.
type Publisher interface {
	PublishSessionEvent(ctx context.Context, log *domain.SessionAuditLog) error
}

type Config struct {
	RoundDuration time.Duration
	IdleExpiry    time.Duration
	GuessLimit    int
	WinAward      int
}

func DefaultConfig() Config {
	return Config{
		RoundDuration: 60 * time.Second,
		IdleExpiry:    30 * time.Minute,
		GuessLimit:    3,
		WinAward:      10,
	}
}

type GuessResult struct {
	Correct           bool
	RemainingAttempts int
	Winner            string
}

// Engine owns the round lifecycle of every session. All mutations of one
// session run under that session's lock, so the two triggers racing to end a
// round (a winning guess and the round timer) are serialized; the generation
// check inside CloseRound then lets exactly one of them commit.
type Engine struct {
	sessions    domain.SessionRepository
	broadcaster Broadcaster
	timers      *Scheduler
	logger      logging.Logger
	metrics     *metrics.Metrics
	publisher   Publisher
	cfg         Config
	locks       sessionLocks
}

func NewEngine(
	sessions domain.SessionRepository,
	broadcaster Broadcaster,
	timers *Scheduler,
	logger logging.Logger,
	m *metrics.Metrics,
	publisher Publisher,
	cfg Config,
) *Engine {
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = DefaultConfig().RoundDuration
	}
	if cfg.IdleExpiry <= 0 {
		cfg.IdleExpiry = DefaultConfig().IdleExpiry
	}
	if cfg.GuessLimit <= 0 {
		cfg.GuessLimit = DefaultConfig().GuessLimit
	}
	if cfg.WinAward <= 0 {
		cfg.WinAward = DefaultConfig().WinAward
	}

	return &Engine{
		sessions:    sessions,
		broadcaster: broadcaster,
		timers:      timers,
		logger:      logger,
		metrics:     m,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// CreateSession creates the session with its first player as master and arms
// the one-shot idle-expiry trigger. The trigger runs on a fixed deadline
// from creation and is not refreshed by activity.
func (e *Engine) CreateSession(ctx context.Context, sessionID, username string) (*domain.Session, *domain.Player, error) {
	player, err := domain.NewPlayer(username)
	if err != nil {
		return nil, nil, err
	}

	session, err := domain.NewSession(sessionID, player)
	if err != nil {
		return nil, nil, err
	}

	lock := e.locks.get(session.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	e.timers.ArmIdle(session.ID, e.cfg.IdleExpiry, func() {
		e.expireSession(session.ID)
	})

	e.metrics.SessionsCreated.Inc()
	e.publish(ctx, domain.NewSessionAuditLog(session.ID, domain.EventSessionCreated, map[string]any{
		"creator": player.Username,
	}))

	e.logger.Info(logging.Game, logging.SessionLifecycle, "session created", map[logging.ExtraKey]any{
		logging.SessionID: session.ID,
		logging.PlayerID:  player.ID,
	})

	return session, player, nil
}

// JoinSession appends a player to the roster. Joining is only legal between
// rounds.
func (e *Engine) JoinSession(ctx context.Context, sessionID, username string) (*domain.Session, *domain.Player, error) {
	player, err := domain.NewPlayer(username)
	if err != nil {
		return nil, nil, err
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if session.Status != domain.StatusWaiting {
		return nil, nil, domain.ErrRoundInProgress
	}

	if err := session.AddPlayer(player); err != nil {
		return nil, nil, err
	}
	session.Touch()

	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	e.broadcaster.Publish(ws.NewRosterUpdated(session.ID, session.Roster))
	e.publish(ctx, domain.NewSessionAuditLog(session.ID, domain.EventPlayerJoined, map[string]any{
		"player":       player.Username,
		"player_count": len(session.Roster),
	}))

	return session, player, nil
}

// StartRound opens a round: only the current master may call it, only while
// the session is Waiting. It stamps a fresh generation and arms the timeout
// trigger tagged with that generation.
func (e *Engine) StartRound(ctx context.Context, sessionID, playerID, question, answer string) error {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.FindPlayer(playerID) == nil {
		return domain.ErrPlayerNotFound
	}
	master := session.Master()
	if master == nil || master.ID != playerID {
		return domain.ErrNotMaster
	}

	endsAt := time.Now().UTC().Add(e.cfg.RoundDuration)
	if err := session.OpenRound(question, answer, endsAt); err != nil {
		return err
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		return err
	}

	generation := session.RoundGeneration
	e.timers.ArmRound(session.ID, generation, e.cfg.RoundDuration, func() {
		e.timeoutRound(session.ID, generation)
	})

	// The answer stays server-side until the round ends.
	e.broadcaster.Publish(ws.NewRoundStarted(session.ID, session.Question, endsAt))

	e.metrics.RoundsStarted.Inc()
	e.publish(ctx, domain.NewRoundStartedLog(session.ID, generation, len(session.Roster)))

	e.logger.Info(logging.Game, logging.RoundLifecycle, "round started", map[logging.ExtraKey]any{
		logging.SessionID:  session.ID,
		logging.PlayerID:   playerID,
		logging.Generation: generation,
	})

	return nil
}

// SubmitGuess validates and scores one guess against the live round. A
// correct guess ends the round through the same generation-guarded commit
// the timeout uses; the award is only paid when that commit actually went
// through.
func (e *Engine) SubmitGuess(ctx context.Context, sessionID, playerID, text string) (GuessResult, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return GuessResult{}, err
	}

	if session.Status != domain.StatusLive {
		return GuessResult{}, domain.ErrRoundNotLive
	}

	player := session.FindPlayer(playerID)
	if player == nil {
		return GuessResult{}, domain.ErrPlayerNotFound
	}
	if player.IsMaster {
		return GuessResult{}, domain.ErrMasterCannotGuess
	}

	remaining, err := session.RecordGuess(playerID, text, e.cfg.GuessLimit)
	if err != nil {
		return GuessResult{}, err
	}

	if !session.AnswerMatches(text) {
		if err := e.sessions.Save(ctx, session); err != nil {
			return GuessResult{}, err
		}

		e.metrics.Guesses.WithLabelValues("incorrect").Inc()
		// Spectators see the guess traffic reflected even though scores are
		// unchanged.
		e.broadcaster.Publish(ws.NewLeaderboardUpdated(session.ID, domain.Standings(session.Roster)))

		return GuessResult{Correct: false, RemainingAttempts: remaining}, nil
	}

	generation := session.RoundGeneration
	answer := session.Answer
	session.WinnerID = playerID

	if !session.CloseRound(generation) {
		// A concurrent timeout won the race for this generation; the guess
		// arrived for a round that no longer exists.
		return GuessResult{}, domain.ErrRoundNotLive
	}

	player.Score += e.cfg.WinAward
	session.Touch()

	if err := e.sessions.Save(ctx, session); err != nil {
		return GuessResult{}, err
	}

	e.timers.DisarmRound(session.ID, generation)

	e.broadcaster.Publish(ws.NewRoundWon(session.ID, player.Username, answer))
	e.broadcaster.Publish(ws.NewLeaderboardUpdated(session.ID, domain.Standings(session.Roster)))

	e.metrics.Guesses.WithLabelValues("correct").Inc()
	e.metrics.RoundsEnded.WithLabelValues("won").Inc()
	e.publish(ctx, domain.NewRoundWonLog(session.ID, generation, player.Username))

	e.logger.Info(logging.Game, logging.RoundLifecycle, "round won", map[logging.ExtraKey]any{
		logging.SessionID:  session.ID,
		logging.PlayerID:   playerID,
		logging.Generation: generation,
	})

	return GuessResult{Correct: true, RemainingAttempts: remaining, Winner: player.Username}, nil
}

// timeoutRound is the timer-driven half of the race. The generation check in
// CloseRound makes a late fire, or a fire after a failed cancellation, a
// harmless no-op.
func (e *Engine) timeoutRound(sessionID string, generation uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		// Session already gone; the trigger has nothing to do.
		return
	}

	answer := session.Answer
	if !session.CloseRound(generation) {
		return
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		e.logger.Error(logging.Game, logging.RoundLifecycle, "failed to persist round timeout", map[logging.ExtraKey]any{
			logging.SessionID:    sessionID,
			logging.Generation:   generation,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	e.broadcaster.Publish(ws.NewRoundTimedOut(session.ID, answer))
	e.broadcaster.Publish(ws.NewLeaderboardUpdated(session.ID, domain.Standings(session.Roster)))

	e.metrics.RoundsEnded.WithLabelValues("timed_out").Inc()
	e.publish(ctx, domain.NewRoundTimedOutLog(session.ID, generation))

	e.logger.Info(logging.Game, logging.RoundLifecycle, "round timed out", map[logging.ExtraKey]any{
		logging.SessionID:  sessionID,
		logging.Generation: generation,
	})
}

// LeaveSession removes the player and destroys their record. Leaving twice,
// or leaving a session that is already gone, is not an error. A master
// leaving mid-round does not end the round; the vacancy is resolved by the
// rotation when the round ends.
func (e *Engine) LeaveSession(ctx context.Context, sessionID, playerID string) error {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	removed, found := session.RemovePlayer(playerID)
	if !found {
		return nil
	}

	if len(session.Roster) == 0 {
		if err := e.sessions.Delete(ctx, session.ID); err != nil {
			return err
		}

		e.timers.Forget(session.ID)
		e.locks.forget(session.ID)

		e.broadcaster.Publish(ws.NewSessionDeleted(session.ID))
		e.metrics.SessionsDeleted.Inc()
		e.publish(ctx, domain.NewSessionAuditLog(session.ID, domain.EventSessionDeleted, map[string]any{
			"last_player": removed.Username,
		}))

		return nil
	}

	session.Touch()
	if err := e.sessions.Save(ctx, session); err != nil {
		return err
	}

	e.broadcaster.Publish(ws.NewRosterUpdated(session.ID, session.Roster))
	e.publish(ctx, domain.NewSessionAuditLog(session.ID, domain.EventPlayerLeft, map[string]any{
		"player":       removed.Username,
		"was_master":   removed.IsMaster,
		"player_count": len(session.Roster),
	}))

	return nil
}

// expireSession is the idle-expiry trigger. It tears the session down
// unconditionally, mid-round or not.
func (e *Engine) expireSession(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := e.sessions.GetByID(ctx, sessionID); err != nil {
		return
	}

	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		e.logger.Error(logging.Game, logging.IdleExpiry, "failed to delete expired session", map[logging.ExtraKey]any{
			logging.SessionID:    sessionID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	e.timers.Forget(sessionID)
	e.locks.forget(sessionID)

	e.broadcaster.Publish(ws.NewSessionExpired(sessionID))
	e.metrics.SessionsExpired.Inc()
	e.publish(ctx, domain.NewSessionAuditLog(sessionID, domain.EventSessionExpired, nil))

	e.logger.Info(logging.Game, logging.IdleExpiry, "session expired", map[logging.ExtraKey]any{
		logging.SessionID: sessionID,
	})
}

func (e *Engine) Leaderboard(ctx context.Context, sessionID string) ([]domain.Standing, error) {
	session, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return domain.Standings(session.Roster), nil
}

func (e *Engine) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.sessions.GetByID(ctx, sessionID)
}

// Shutdown cancels every pending trigger.
func (e *Engine) Shutdown() {
	e.timers.Stop()
}

func (e *Engine) publish(ctx context.Context, log *domain.SessionAuditLog) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishSessionEvent(ctx, log); err != nil {
		e.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish session event", map[logging.ExtraKey]any{
			logging.SessionID:    log.SessionID,
			logging.ErrorMessage: err.Error(),
		})
	}
}
