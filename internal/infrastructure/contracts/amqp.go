package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	SessionID string `json:"sessionId"`
	Data      []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventSessionCreated = "session.created"
	EventSessionDeleted = "session.deleted"
	EventSessionExpired = "session.expired"
	EventPlayerJoined   = "player.joined"
	EventPlayerLeft     = "player.left"
	EventRoundStarted   = "round.started"
	EventRoundWon       = "round.won"
	EventRoundTimedOut  = "round.timed_out"
)
