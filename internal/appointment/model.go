package appointment

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// minLeadTime is how far in the future a new appointment must be scheduled.
const minLeadTime = time.Hour

// Appointment is the aggregate root. It is only constructed through New
// or fromRecord, and only mutated through its own methods, which are
// the sole producers of domain events.
type Appointment struct {
	id                 ID
	patientName        string
	patientEmail       EmailAddress
	patientPhone       PhoneNumber
	scheduledAt        time.Time
	reason             string
	status             Status
	createdAt          time.Time
	updatedAt          time.Time
	confirmedAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string

	events []Event
}

// New creates a scheduled appointment and buffers one Created event.
// The scheduled time must be strictly in the future and at least one
// hour ahead of now.
func New(patientName, patientEmail, patientPhone string, scheduledAt time.Time, reason string) (*Appointment, error) {
	now := time.Now()

	if !scheduledAt.After(now) {
		return nil, NewError(KindValidation, "appointment date must be in the future")
	}
	if scheduledAt.Before(now.Add(minLeadTime)) {
		return nil, NewError(KindValidation, "appointment must be at least 1 hour in the future")
	}

	email, err := NewEmailAddress(patientEmail)
	if err != nil {
		return nil, err
	}
	phone, err := NewPhoneNumber(patientPhone)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		id:           NewID(),
		patientName:  strings.TrimSpace(patientName),
		patientEmail: email,
		patientPhone: phone,
		scheduledAt:  scheduledAt,
		reason:       strings.TrimSpace(reason),
		status:       StatusScheduled,
		createdAt:    now,
		updatedAt:    now,
	}

	a.raise(newEvent(EventAppointmentCreated, a.id, CreatedPayload{
		PatientName:  a.patientName,
		PatientEmail: a.patientEmail.String(),
		ScheduledAt:  a.scheduledAt,
		Reason:       a.reason,
	}))

	return a, nil
}

// Confirm moves a scheduled appointment to confirmed and buffers one
// Confirmed event.
func (a *Appointment) Confirm() error {
	if a.status != StatusScheduled {
		return Errorf(KindBusinessRule, "cannot confirm appointment in %s status", a.status)
	}

	now := time.Now()
	a.status = StatusConfirmed
	a.confirmedAt = &now
	a.updatedAt = now

	a.raise(newEvent(EventAppointmentConfirmed, a.id, ConfirmedPayload{
		ConfirmedAt: now,
	}))

	return nil
}

// Cancel is valid from SCHEDULED or CONFIRMED. The canceller identity
// is recorded only in the event payload, not on the aggregate.
func (a *Appointment) Cancel(reason, cancelledBy string) error {
	if a.status == StatusCancelled {
		return NewError(KindBusinessRule, "appointment is already cancelled")
	}
	if a.status == StatusCompleted {
		return NewError(KindBusinessRule, "cannot cancel a completed appointment")
	}

	now := time.Now()
	a.status = StatusCancelled
	a.cancelledAt = &now
	a.cancellationReason = reason
	a.updatedAt = now

	a.raise(newEvent(EventAppointmentCancelled, a.id, CancelledPayload{
		Reason:      reason,
		CancelledBy: cancelledBy,
	}))

	return nil
}

// Complete marks a past appointment as completed. Unlike the other
// transitions it emits no event.
func (a *Appointment) Complete() error {
	if a.status == StatusCancelled {
		return NewError(KindBusinessRule, "cannot complete a cancelled appointment")
	}
	if a.scheduledAt.After(time.Now()) {
		return NewError(KindBusinessRule, "cannot complete a future appointment")
	}

	a.status = StatusCompleted
	a.updatedAt = time.Now()

	return nil
}

func (a *Appointment) raise(ev Event) {
	a.events = append(a.events, ev)
}

// DrainEvents returns the buffered events in append order and empties
// the buffer. Subsequent calls return nothing until a new mutation.
func (a *Appointment) DrainEvents() []Event {
	events := a.events
	a.events = nil
	return events
}

// Accessors. None of these mutate.

func (a *Appointment) ID() ID                     { return a.id }
func (a *Appointment) PatientName() string        { return a.patientName }
func (a *Appointment) PatientEmail() EmailAddress { return a.patientEmail }
func (a *Appointment) PatientPhone() PhoneNumber  { return a.patientPhone }
func (a *Appointment) ScheduledAt() time.Time     { return a.scheduledAt }
func (a *Appointment) Reason() string             { return a.reason }
func (a *Appointment) Status() Status             { return a.status }
func (a *Appointment) CreatedAt() time.Time       { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time       { return a.updatedAt }
func (a *Appointment) ConfirmedAt() *time.Time    { return a.confirmedAt }
func (a *Appointment) CancelledAt() *time.Time    { return a.cancelledAt }

func (a *Appointment) CancellationReason() string { return a.cancellationReason }
