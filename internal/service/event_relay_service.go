// FILE: internal/service/event_relay_service.go
package service

import (
	"context"

	"cancel-flow-be/internal/pkg/logger"
	"cancel-flow-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const relayModule = "EVENT_RELAY"

type IEventRelayService interface {
	Consume(ctx context.Context) error
}

type eventRelayService struct {
	bus    *events.Bus
	sink   events.Publisher // nil: log only
	logger logger.ILogger
}

// NewEventRelayService drains the in-process bus. Each event is written to the
// relay log and, when sink is set, forwarded to it.
func NewEventRelayService(bus *events.Bus, sink events.Publisher, logger logger.ILogger) IEventRelayService {
	return &eventRelayService{
		bus:    bus,
		sink:   sink,
		logger: logger,
	}
}

func (rs *eventRelayService) Consume(ctx context.Context) error {
	messages, err := rs.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *eventRelayService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		rs.logger.Error(relayModule, "Failed to decode event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		// not retriable
		msg.Ack()
		return
	}

	rs.logger.Info(relayModule, event.Type, map[string]interface{}{
		"event_id":    event.Id,
		"occurred_at": event.OccurredAt,
		"data":        event.Data,
	})

	if rs.sink != nil {
		if err := rs.sink.Publish(ctx, event); err != nil {
			rs.logger.Error(relayModule, "Failed to forward event", map[string]interface{}{
				"error":    err.Error(),
				"event_id": event.Id,
				"type":     event.Type,
			})
			// a nack would be redelivered immediately by the channel bus; drop instead
		}
	}

	msg.Ack()
}
