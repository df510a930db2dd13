package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestAppointment(t *testing.T) *Appointment {
	t.Helper()
	a, err := New("Jane Doe", "jane@x.com", "5125551234", time.Now().Add(2*time.Hour), "checkup")
	require.NoError(t, err)
	return a
}

func TestNewBuffersOneCreatedEvent(t *testing.T) {
	a := newTestAppointment(t)

	require.Equal(t, StatusScheduled, a.Status())
	require.Equal(t, "Jane Doe", a.PatientName())
	require.Equal(t, "jane@x.com", a.PatientEmail().String())
	require.Equal(t, "5125551234", a.PatientPhone().String())
	require.Equal(t, "checkup", a.Reason())
	require.Nil(t, a.ConfirmedAt())
	require.Nil(t, a.CancelledAt())

	events := a.DrainEvents()
	require.Len(t, events, 1)
	require.Equal(t, EventAppointmentCreated, events[0].EventType)
	require.Equal(t, a.ID().String(), events[0].AggregateID)
	require.NotEmpty(t, events[0].EventID)

	payload, ok := events[0].Payload.(CreatedPayload)
	require.True(t, ok)
	require.Equal(t, "Jane Doe", payload.PatientName)
	require.Equal(t, "jane@x.com", payload.PatientEmail)
	require.Equal(t, "checkup", payload.Reason)
}

func TestNewTrimsNameAndReason(t *testing.T) {
	a, err := New("  Jane Doe  ", "jane@x.com", "5125551234", time.Now().Add(2*time.Hour), "  checkup  ")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", a.PatientName())
	require.Equal(t, "checkup", a.Reason())
}

func TestNewRejectsPastDate(t *testing.T) {
	_, err := New("Jane Doe", "jane@x.com", "5125551234", time.Now().Add(-time.Hour), "checkup")
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Contains(t, err.Error(), "future")
}

func TestNewRejectsDateInsideLeadTime(t *testing.T) {
	_, err := New("Jane Doe", "jane@x.com", "5125551234", time.Now().Add(30*time.Minute), "checkup")
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Contains(t, err.Error(), "1 hour")
}

func TestNewRejectsBadValueObjects(t *testing.T) {
	_, err := New("Jane Doe", "not-an-email", "5125551234", time.Now().Add(2*time.Hour), "checkup")
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))

	_, err = New("Jane Doe", "jane@x.com", "123", time.Now().Add(2*time.Hour), "checkup")
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
}

func TestConfirmFromScheduled(t *testing.T) {
	a := newTestAppointment(t)
	a.DrainEvents()

	before := a.UpdatedAt()
	require.NoError(t, a.Confirm())

	require.Equal(t, StatusConfirmed, a.Status())
	require.NotNil(t, a.ConfirmedAt())
	require.False(t, a.UpdatedAt().Before(before))

	events := a.DrainEvents()
	require.Len(t, events, 1)
	require.Equal(t, EventAppointmentConfirmed, events[0].EventType)
}

func TestConfirmOnlyFromScheduled(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Confirm())
	a.DrainEvents()

	err := a.Confirm()
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, StatusConfirmed, a.Status())
	require.Empty(t, a.DrainEvents(), "failed transition must not buffer events")
}

func TestConfirmAfterCancelFails(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Cancel("patient request", "staff-1"))
	a.DrainEvents()

	err := a.Confirm()
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, StatusCancelled, a.Status())
	require.Empty(t, a.DrainEvents())
}

func TestCancelFromConfirmed(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Confirm())
	a.DrainEvents()

	require.NoError(t, a.Cancel("patient request", "staff-1"))

	require.Equal(t, StatusCancelled, a.Status())
	require.NotNil(t, a.CancelledAt())
	require.Equal(t, "patient request", a.CancellationReason())

	events := a.DrainEvents()
	require.Len(t, events, 1)
	require.Equal(t, EventAppointmentCancelled, events[0].EventType)

	payload, ok := events[0].Payload.(CancelledPayload)
	require.True(t, ok)
	require.Equal(t, "patient request", payload.Reason)
	require.Equal(t, "staff-1", payload.CancelledBy)
}

func TestCancelTwiceFails(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Cancel("first", "staff-1"))
	a.DrainEvents()

	err := a.Cancel("second", "staff-2")
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, "first", a.CancellationReason())
	require.Empty(t, a.DrainEvents())
}

func TestCompleteRequiresPastDate(t *testing.T) {
	a := newTestAppointment(t)

	err := a.Complete()
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, StatusScheduled, a.Status())
}

func TestCompletePastAppointmentEmitsNoEvent(t *testing.T) {
	a := newTestAppointment(t)
	a.DrainEvents()

	// Move the scheduled time into the past; Complete is only valid
	// once the appointment time has gone by.
	a.scheduledAt = time.Now().Add(-time.Hour)

	require.NoError(t, a.Complete())
	require.Equal(t, StatusCompleted, a.Status())
	require.Empty(t, a.DrainEvents())
}

func TestCompleteCancelledFails(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Cancel("no longer needed", "patient"))
	a.scheduledAt = time.Now().Add(-time.Hour)
	a.DrainEvents()

	err := a.Complete()
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, StatusCancelled, a.Status())
}

func TestCancelCompletedFails(t *testing.T) {
	a := newTestAppointment(t)
	a.scheduledAt = time.Now().Add(-time.Hour)
	require.NoError(t, a.Complete())
	a.DrainEvents()

	err := a.Cancel("too late", "staff-1")
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))
	require.Equal(t, StatusCompleted, a.Status())
}

func TestDrainEventsEmptiesBufferInOrder(t *testing.T) {
	a := newTestAppointment(t)
	require.NoError(t, a.Confirm())
	require.NoError(t, a.Cancel("schedule conflict", "staff-1"))

	events := a.DrainEvents()
	require.Len(t, events, 3)
	require.Equal(t, EventAppointmentCreated, events[0].EventType)
	require.Equal(t, EventAppointmentConfirmed, events[1].EventType)
	require.Equal(t, EventAppointmentCancelled, events[2].EventType)

	require.Empty(t, a.DrainEvents())
	require.Empty(t, a.DrainEvents())
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"SCHEDULED", "CONFIRMED", "CANCELLED", "COMPLETED", "NO_SHOW"} {
		require.True(t, IsValidStatus(s))
	}
	require.False(t, IsValidStatus("PENDING"))
	require.False(t, IsValidStatus("scheduled"))
}
