package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/careflow/appointment-booking/internal/appointment"
)

const (
	RoutingKeyCreated   = "appointment.created"
	RoutingKeyConfirmed = "appointment.confirmed"
	RoutingKeyCancelled = "appointment.cancelled"

	routingKeyUnknown = "appointment.unknown"
)

// broker is the slice of Client the publisher needs; tests swap in a fake.
type broker interface {
	publish(ctx context.Context, routingKey string, body []byte) error
}

// Publisher serializes domain events and delivers them to the
// appointments exchange. Failures are not retried here.
type Publisher struct {
	b broker
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{b: client}
}

func (p *Publisher) Publish(ctx context.Context, ev appointment.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return appointment.WrapError(appointment.KindInfrastructure,
			fmt.Sprintf("serialize event %s", ev.EventType), err)
	}

	if err := p.b.publish(ctx, routingKeyFor(ev.EventType), body); err != nil {
		return appointment.WrapError(appointment.KindInfrastructure,
			fmt.Sprintf("publish event %s", ev.EventType), err)
	}

	log.Printf("published event type=%s event_id=%s aggregate_id=%s", ev.EventType, ev.EventID, ev.AggregateID)

	return nil
}

// PublishBatch publishes events strictly in input order, one at a time.
// The first failure aborts the batch, so a delivered prefix and a lost
// suffix are possible; consumers must tolerate that.
func (p *Publisher) PublishBatch(ctx context.Context, events []appointment.Event) error {
	for _, ev := range events {
		if err := p.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func routingKeyFor(eventType string) string {
	switch eventType {
	case appointment.EventAppointmentCreated:
		return RoutingKeyCreated
	case appointment.EventAppointmentConfirmed:
		return RoutingKeyConfirmed
	case appointment.EventAppointmentCancelled:
		return RoutingKeyCancelled
	default:
		return routingKeyUnknown
	}
}
