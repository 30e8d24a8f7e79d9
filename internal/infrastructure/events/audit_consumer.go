package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/emberlit/guessparty/internal/domain"
	"github.com/emberlit/guessparty/internal/infrastructure/contracts"
	"github.com/emberlit/guessparty/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// auditConsumer drains the session events queue and persists each event as
// an audit log row.
type auditConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.SessionAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, audit domain.SessionAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.SessionEventsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.SessionEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		return c.audit.Log(ctx, &payload.Event)
	})
}
