package events

import (
	"context"
	"encoding/json"

	"github.com/emberlit/guessparty/internal/domain"
	"github.com/emberlit/guessparty/internal/infrastructure/contracts"
	"github.com/emberlit/guessparty/internal/infrastructure/messaging"
)

// SessionPublisher mirrors the room broadcast onto the message bus so
// out-of-process consumers (the audit writer) see every session event.
type SessionPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewSessionPublisher(rabbitmq *messaging.RabbitMQ) *SessionPublisher {
	return &SessionPublisher{
		rabbitmq: rabbitmq,
	}
}

var routingKeys = map[domain.SessionEventType]string{
	domain.EventSessionCreated: contracts.EventSessionCreated,
	domain.EventSessionDeleted: contracts.EventSessionDeleted,
	domain.EventSessionExpired: contracts.EventSessionExpired,
	domain.EventPlayerJoined:   contracts.EventPlayerJoined,
	domain.EventPlayerLeft:     contracts.EventPlayerLeft,
	domain.EventRoundStarted:   contracts.EventRoundStarted,
	domain.EventRoundWon:       contracts.EventRoundWon,
	domain.EventRoundTimedOut:  contracts.EventRoundTimedOut,
}

func (p *SessionPublisher) PublishSessionEvent(ctx context.Context, log *domain.SessionAuditLog) error {
	payload := messaging.SessionEventData{
		Event: *log,
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	routingKey, ok := routingKeys[log.EventType]
	if !ok {
		routingKey = string(log.EventType)
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		SessionID: log.SessionID,
		Data:      eventJSON,
	})
}
