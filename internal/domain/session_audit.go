package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SessionEventType string

const (
	EventSessionCreated SessionEventType = "session_created"
	EventSessionDeleted SessionEventType = "session_deleted"
	EventSessionExpired SessionEventType = "session_expired"
	EventPlayerJoined   SessionEventType = "player_joined"
	EventPlayerLeft     SessionEventType = "player_left"
	EventRoundStarted   SessionEventType = "round_started"
	EventRoundWon       SessionEventType = "round_won"
	EventRoundTimedOut  SessionEventType = "round_timed_out"
)

type SessionAuditLog struct {
	ID        string           `bson:"_id" json:"id"`
	SessionID string           `bson:"session_id" json:"sessionId"`
	EventType SessionEventType `bson:"event_type" json:"eventType"`
	Timestamp time.Time        `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any   `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type SessionAuditRepository interface {
	Log(ctx context.Context, log *SessionAuditLog) error
	GetBySessionID(ctx context.Context, sessionID string, limit int) ([]SessionAuditLog, error)
	GetByEventType(ctx context.Context, eventType SessionEventType, from, to time.Time) ([]SessionAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewSessionAuditLog(sessionID string, eventType SessionEventType, metadata map[string]any) *SessionAuditLog {
	return &SessionAuditLog{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

func NewRoundStartedLog(sessionID string, generation uint64, playerCount int) *SessionAuditLog {
	return NewSessionAuditLog(sessionID, EventRoundStarted, map[string]any{
		"round_generation": generation,
		"player_count":     playerCount,
	})
}

func NewRoundWonLog(sessionID string, generation uint64, winner string) *SessionAuditLog {
	return NewSessionAuditLog(sessionID, EventRoundWon, map[string]any{
		"round_generation": generation,
		"winner":           winner,
	})
}

func NewRoundTimedOutLog(sessionID string, generation uint64) *SessionAuditLog {
	return NewSessionAuditLog(sessionID, EventRoundTimedOut, map[string]any{
		"round_generation": generation,
	})
}
