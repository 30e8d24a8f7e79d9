package ws

import (
	"time"

	"github.com/emberlit/guessparty/internal/domain"
)

type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
}

// Payload structs
type PlayerPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	IsMaster bool   `json:"isMaster"`
}

type RosterPayload struct {
	Players []PlayerPayload `json:"players"`
}

type RoundStartedPayload struct {
	Question string `json:"question"`
	Deadline string `json:"deadline"`
}

type RoundWonPayload struct {
	Winner string `json:"winner"`
	Answer string `json:"answer"`
}

type RoundTimedOutPayload struct {
	Answer string `json:"answer"`
}

type LeaderboardPayload struct {
	Leaderboard []domain.Standing `json:"leaderboard"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func rosterPayload(roster []domain.Player) RosterPayload {
	players := make([]PlayerPayload, 0, len(roster))
	for _, p := range roster {
		players = append(players, PlayerPayload{
			ID:       p.ID,
			Username: p.Username,
			Score:    p.Score,
			IsMaster: p.IsMaster,
		})
	}
	return RosterPayload{Players: players}
}

func NewRosterUpdated(sessionID string, roster []domain.Player) *Message {
	return &Message{
		Type:      RosterUpdated,
		SessionID: sessionID,
		Data:      rosterPayload(roster),
	}
}

// NewRoundStarted carries the question and the deadline. The answer is never
// part of any broadcast until the round has ended.
func NewRoundStarted(sessionID, question string, deadline time.Time) *Message {
	return &Message{
		Type:      RoundStarted,
		SessionID: sessionID,
		Data: RoundStartedPayload{
			Question: question,
			Deadline: deadline.UTC().Format(time.RFC3339),
		},
	}
}

func NewRoundWon(sessionID, winner, answer string) *Message {
	return &Message{
		Type:      RoundWon,
		SessionID: sessionID,
		Data: RoundWonPayload{
			Winner: winner,
			Answer: answer,
		},
	}
}

func NewRoundTimedOut(sessionID, answer string) *Message {
	return &Message{
		Type:      RoundTimedOut,
		SessionID: sessionID,
		Data: RoundTimedOutPayload{
			Answer: answer,
		},
	}
}

func NewLeaderboardUpdated(sessionID string, standings []domain.Standing) *Message {
	return &Message{
		Type:      LeaderboardUpdated,
		SessionID: sessionID,
		Data: LeaderboardPayload{
			Leaderboard: standings,
		},
	}
}

func NewSessionExpired(sessionID string) *Message {
	return &Message{
		Type:      SessionExpired,
		SessionID: sessionID,
	}
}

func NewSessionDeleted(sessionID string) *Message {
	return &Message{
		Type:      SessionDeleted,
		SessionID: sessionID,
	}
}

func NewError(sessionID, message string) *Message {
	return &Message{
		Type:      ErrorEvent,
		SessionID: sessionID,
		Data: ErrorPayload{
			Message: message,
			Retry:   false,
		},
	}
}
