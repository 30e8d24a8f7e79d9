package sessions

import (
	"time"

	"github.com/emberlit/guessparty/internal/domain"
)

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
}

type joinSessionRequest struct {
	Username string `json:"username"`
}

type startRoundRequest struct {
	PlayerID string `json:"playerId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type guessRequest struct {
	PlayerID string `json:"playerId"`
	Guess    string `json:"guess"`
}

type leaveRequest struct {
	PlayerID string `json:"playerId"`
}

type playerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	IsMaster bool   `json:"isMaster"`
}

type sessionResponse struct {
	SessionID       string           `json:"sessionId"`
	Status          domain.Status    `json:"status"`
	Players         []playerResponse `json:"players"`
	Question        string           `json:"question,omitempty"`
	TimerEndsAt     *time.Time       `json:"timerEndsAt,omitempty"`
	RoundGeneration uint64           `json:"roundGeneration"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type sessionEnvelope struct {
	Session sessionResponse `json:"session"`
	Player  playerResponse  `json:"player"`
}

type guessResponse struct {
	Correct           bool   `json:"correct"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
	Winner            string `json:"winner,omitempty"`
}

type leaderboardResponse struct {
	Leaderboard []domain.Standing `json:"leaderboard"`
}

func mapPlayer(p domain.Player) playerResponse {
	return playerResponse{
		ID:       p.ID,
		Username: p.Username,
		Score:    p.Score,
		IsMaster: p.IsMaster,
	}
}

func mapSession(s *domain.Session) sessionResponse {
	players := make([]playerResponse, 0, len(s.Roster))
	for _, p := range s.Roster {
		players = append(players, mapPlayer(p))
	}

	return sessionResponse{
		SessionID:       s.ID,
		Status:          s.Status,
		Players:         players,
		Question:        s.Question,
		TimerEndsAt:     s.TimerEndsAt,
		RoundGeneration: s.RoundGeneration,
		CreatedAt:       s.CreatedAt,
	}
}
