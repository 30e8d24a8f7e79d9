package messaging

import "github.com/emberlit/guessparty/internal/domain"

const (
	SessionEventsQueue = "session_events"
	DeadLetterQueue    = "dead_letter_queue"
)

type SessionEventData struct {
	Event domain.SessionAuditLog `json:"event"`
}
