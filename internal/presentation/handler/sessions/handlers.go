package sessions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emberlit/guessparty/internal/domain"
	"github.com/emberlit/guessparty/internal/game"
	"github.com/emberlit/guessparty/internal/infrastructure/json"
	"github.com/emberlit/guessparty/internal/infrastructure/logging"
	"github.com/emberlit/guessparty/internal/infrastructure/profanity"
	"github.com/emberlit/guessparty/internal/infrastructure/validate"
	"github.com/emberlit/guessparty/internal/infrastructure/ws"
)

const (
	maxQuestionLength = 200
	maxAnswerLength   = 64
)

type Handler struct {
	engine  *game.Engine
	roomMgr *ws.RoomManager
	core    *ws.Core
	logger  logging.Logger
}

func NewHandler(engine *game.Engine, roomMgr *ws.RoomManager, core *ws.Core, logger logging.Logger) *Handler {
	return &Handler{
		engine:  engine,
		roomMgr: roomMgr,
		core:    core,
		logger:  logger,
	}
}

// Create handles POST /api/sessions. The caller becomes the session's first
// player and its initial master.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, err.Error())
		return
	}

	if err := validate.Field("sessionId",
		validate.Required(),
		validate.LengthBetween(1, 64),
		validate.NoSpaces(),
	)(req.SessionID); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	session, player, err := h.engine.CreateSession(r.Context(), req.SessionID, req.Username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, sessionEnvelope{
		Session: mapSession(session),
		Player:  mapPlayer(*player),
	})
}

// Join handles POST /api/sessions/{sessionId}/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req joinSessionRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, err.Error())
		return
	}

	session, player, err := h.engine.JoinSession(r.Context(), sessionID, req.Username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, sessionEnvelope{
		Session: mapSession(session),
		Player:  mapPlayer(*player),
	})
}

// StartRound handles POST /api/sessions/{sessionId}/start. Only the current
// master may open a round.
func (h *Handler) StartRound(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req startRoundRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, err.Error())
		return
	}

	if err := validate.Field("playerId", validate.Required())(req.PlayerID); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := freeText("question", maxQuestionLength)(req.Question); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := freeText("answer", maxAnswerLength)(req.Answer); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if profanity.NewFilter().ContainsProfanity(req.Question) {
		json.WriteBadRequestError(w, "question contains blocked language")
		return
	}

	if err := h.engine.StartRound(r.Context(), sessionID, req.PlayerID, req.Question, req.Answer); err != nil {
		h.writeDomainError(w, err)
		return
	}

	session, err := h.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, mapSession(session))
}

// Guess handles POST /api/sessions/{sessionId}/guess.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req guessRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, err.Error())
		return
	}

	if strings.TrimSpace(req.Guess) == "" {
		json.WriteBadRequestError(w, "guess must not be empty")
		return
	}

	result, err := h.engine.SubmitGuess(r.Context(), sessionID, req.PlayerID, req.Guess)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := guessResponse{Correct: result.Correct, Winner: result.Winner}
	if !result.Correct {
		remaining := result.RemainingAttempts
		resp.RemainingAttempts = &remaining
	}

	json.Write(w, http.StatusOK, resp)
}

// Leave handles POST /api/sessions/{sessionId}/leave. Leaving is idempotent:
// an unknown session or player is not an error.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req leaveRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, err.Error())
		return
	}

	if err := h.engine.LeaveSession(r.Context(), sessionID, req.PlayerID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/sessions/{sessionId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	session, err := h.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, mapSession(session))
}

// Leaderboard handles GET /api/sessions/{sessionId}/leaderboard.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	standings, err := h.engine.Leaderboard(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, leaderboardResponse{Leaderboard: standings})
}

// Subscribe handles GET /api/sessions/{sessionId}/ws. It upgrades the
// connection and registers the client with the session's room, which replays
// the current roster, leaderboard and any live round to the new subscriber.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	playerID := r.URL.Query().Get("playerId")

	session, err := h.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	player := session.FindPlayer(playerID)
	if player == nil {
		json.WriteError(w, http.StatusNotFound, domain.ErrPlayerNotFound, "player is not in this session")
		return
	}

	conn, err := h.roomMgr.Upgrade(w, r)
	if err != nil {
		h.logger.Error(logging.Game, logging.SessionLifecycle, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.SessionID: sessionID,
			logging.PlayerID:  playerID,
		})
		return
	}

	client := ws.NewClient(conn, player.ID, sessionID, player.Username)
	h.core.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.core)

	h.logger.Debug(logging.Game, logging.SessionLifecycle, "subscriber connected", map[logging.ExtraKey]any{
		logging.SessionID: sessionID,
		logging.PlayerID:  player.ID,
		"room_size":       h.roomMgr.RoomSize(sessionID),
	})
}

// freeText validates a free-text field whose surrounding whitespace is not
// significant.
func freeText(name string, max int) validate.Validator {
	return func(value string) error {
		return validate.Field(name,
			validate.Required(),
			validate.MaxLength(max),
		)(strings.TrimSpace(value))
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		json.WriteError(w, http.StatusBadRequest, err, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		json.WriteError(w, http.StatusNotFound, err, err.Error())
	case errors.Is(err, domain.ErrSessionExists), errors.Is(err, domain.ErrAlreadyJoined):
		json.WriteError(w, http.StatusConflict, err, err.Error())
	case errors.Is(err, domain.ErrSessionFull):
		json.WriteError(w, http.StatusConflict, err, err.Error())
	case errors.Is(err, domain.ErrRoundInProgress), errors.Is(err, domain.ErrRoundNotLive):
		json.WriteError(w, http.StatusConflict, err, err.Error())
	case errors.Is(err, domain.ErrNotMaster), errors.Is(err, domain.ErrMasterCannotGuess):
		json.WriteError(w, http.StatusForbidden, err, err.Error())
	case errors.Is(err, domain.ErrGuessLimitReached):
		json.WriteError(w, http.StatusTooManyRequests, err, err.Error())
	default:
		h.logger.Error(logging.Game, logging.SessionLifecycle, "unhandled error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
	}
}
