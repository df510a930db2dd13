package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentCreated   = "AppointmentCreated"
	EventAppointmentConfirmed = "AppointmentConfirmed"
	EventAppointmentCancelled = "AppointmentCancelled"
)

// Event is an immutable record of a state transition that already
// happened to one aggregate. The JSON shape is the wire format consumed
// downstream, so the field tags are part of the contract.
type Event struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	OccurredAt  time.Time `json:"occurredAt"`
	AggregateID string    `json:"aggregateId"`
	Payload     any       `json:"payload"`
}

type CreatedPayload struct {
	PatientName  string    `json:"patientName"`
	PatientEmail string    `json:"patientEmail"`
	ScheduledAt  time.Time `json:"appointmentDate"`
	Reason       string    `json:"reason"`
}

type ConfirmedPayload struct {
	ConfirmedAt time.Time `json:"confirmedAt"`
}

type CancelledPayload struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy"`
}

func newEvent(eventType string, aggregateID ID, payload any) Event {
	return Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OccurredAt:  time.Now().UTC(),
		AggregateID: aggregateID.String(),
		Payload:     payload,
	}
}
