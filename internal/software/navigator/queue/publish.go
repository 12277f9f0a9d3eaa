package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"city-guide/internal/domain/session"
	"city-guide/internal/general/contracts"
	"city-guide/internal/general/guidance"
	"city-guide/internal/general/logger"
	"city-guide/internal/general/rabbitmq"
	"city-guide/internal/ports"
)

// EventSink receives events for live delivery, typically the WebSocket
// hub. Push is best-effort; users without an open connection miss
// nothing because the fanout exchange still carries the event.
type EventSink interface {
	Push(userID string, msg contracts.NavigationEventMessage)
}

// Publisher fans navigation events out to RabbitMQ and, when a sink is
// attached, to connected WebSocket clients.
type Publisher struct {
	pub    *rabbitmq.MQPublisher
	logger *logger.Logger
	sink   EventSink // may be nil
}

// NewPublisher constructs an event publisher.
func NewPublisher(pub *rabbitmq.MQPublisher, logger *logger.Logger, sink EventSink) *Publisher {
	return &Publisher{pub: pub, logger: logger, sink: sink}
}

// AttachSink wires the live-delivery sink. Called once during startup,
// before any events are published.
func (p *Publisher) AttachSink(sink EventSink) {
	p.sink = sink
}

var _ ports.EventPublisher = (*Publisher)(nil)

// PublishEvent sends one navigation event to the fanout exchange.
func (p *Publisher) PublishEvent(ctx context.Context, userID, routeID string, event session.Event) error {
	msg := contracts.NavigationEventMessage{
		Envelope: contracts.Envelope{
			Producer: contracts.ProducerNavigationService,
			SentAt:   time.Now().UTC(),
		},
		UserID:          userID,
		RouteID:         routeID,
		Type:            event.Type.String(),
		LegIndex:        event.LegIndex,
		CurrentName:     event.CurrentName,
		NextName:        event.NextName,
		AngleDegrees:    event.AngleDegrees,
		LegLengthMeters: event.LegLengthMeters,
		DistanceMeters:  event.DistanceMeters,
		Text:            guidance.EventText(event),
		Timestamp:       time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal navigation event: %w", err)
	}

	if err := p.pub.Publish(contracts.ExchangeNavigationFanout, "", body); err != nil {
		return fmt.Errorf("publish navigation event: %w", err)
	}

	if p.sink != nil {
		p.sink.Push(userID, msg)
	}

	p.logger.Info(ctx, "nav_event_published", "Published navigation event", map[string]any{
		"user_id": userID,
		"type":    msg.Type,
	})

	return nil
}
