package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID      map[string]record
	saves     int
	lastLimit int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]record{}}
}

func (f *fakeRepo) Save(_ context.Context, a *Appointment) error {
	f.saves++
	f.byID[a.ID().String()] = newRecord(a)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id ID) (*Appointment, error) {
	r, ok := f.byID[id.String()]
	if !ok {
		return nil, nil
	}
	return fromRecord(r)
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) ([]*Appointment, error) {
	var result []*Appointment
	for _, r := range f.byID {
		if r.PatientEmail == email {
			a, err := fromRecord(r)
			if err != nil {
				return nil, err
			}
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeRepo) FindUpcoming(_ context.Context, limit int) ([]*Appointment, error) {
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeRepo) Delete(_ context.Context, id ID) error {
	delete(f.byID, id.String())
	return nil
}

type fakePublisher struct {
	published []Event
	failAfter int // fail the publish at this 0-based index; -1 never fails
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{failAfter: -1}
}

func (f *fakePublisher) Publish(_ context.Context, ev Event) error {
	if f.failAfter >= 0 && len(f.published) == f.failAfter {
		return WrapError(KindInfrastructure, "publish event", errors.New("channel closed"))
	}
	f.published = append(f.published, ev)
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, events []Event) error {
	for _, ev := range events {
		if err := f.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func testCreateParams() CreateParams {
	return CreateParams{
		PatientName:  "Jane Doe",
		PatientEmail: "jane@x.com",
		PatientPhone: "5125551234",
		ScheduledAt:  time.Now().Add(2 * time.Hour),
		Reason:       "checkup",
	}
}

func TestServiceCreatePersistsThenPublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	svc := NewService(repo, pub)

	a, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, a.Status())

	require.Contains(t, repo.byID, a.ID().String())
	require.Len(t, pub.published, 1)
	require.Equal(t, EventAppointmentCreated, pub.published[0].EventType)

	// The buffer was drained by the service.
	require.Empty(t, a.DrainEvents())
}

func TestServiceCreateValidationFailureSkipsRepo(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	svc := NewService(repo, pub)

	params := testCreateParams()
	params.ScheduledAt = time.Now().Add(30 * time.Minute)

	_, err := svc.CreateAppointment(context.Background(), params)
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Zero(t, repo.saves)
	require.Empty(t, pub.published)
}

func TestServiceCreatePublishFailureLeavesStateSaved(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	pub.failAfter = 0
	svc := NewService(repo, pub)

	_, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.Error(t, err)
	require.Equal(t, KindInfrastructure, KindOf(err))

	// Dual write: the save already happened, the event is lost.
	require.Equal(t, 1, repo.saves)
	require.Empty(t, pub.published)
}

func TestServiceConfirmFlow(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	svc := NewService(repo, pub)

	created, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)

	confirmed, err := svc.ConfirmAppointment(context.Background(), created.ID().String())
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status())
	require.NotNil(t, confirmed.ConfirmedAt())

	require.Len(t, pub.published, 2)
	require.Equal(t, EventAppointmentConfirmed, pub.published[1].EventType)
	require.Equal(t, string(StatusConfirmed), repo.byID[created.ID().String()].Status)
}

func TestServiceConfirmNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakePublisher())

	_, err := svc.ConfirmAppointment(context.Background(), "missing-id")
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestServiceConfirmCancelledAppointment(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	svc := NewService(repo, pub)

	created, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)

	_, err = svc.CancelAppointment(context.Background(), created.ID().String(), "patient request", "staff-1")
	require.NoError(t, err)

	_, err = svc.ConfirmAppointment(context.Background(), created.ID().String())
	require.Error(t, err)
	require.Equal(t, KindBusinessRule, KindOf(err))

	// Created + cancelled only; the failed confirm published nothing.
	require.Len(t, pub.published, 2)
}

func TestServiceCancelRecordsReasonAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := newFakePublisher()
	svc := NewService(repo, pub)

	created, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)

	cancelled, err := svc.CancelAppointment(context.Background(), created.ID().String(), "patient request", "staff-1")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status())
	require.Equal(t, "patient request", cancelled.CancellationReason())
	require.NotNil(t, cancelled.CancelledAt())

	require.Equal(t, EventAppointmentCancelled, pub.published[len(pub.published)-1].EventType)
}

func TestServiceListClampsUpcomingLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakePublisher())

	_, err := svc.ListAppointments(context.Background(), "", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultUpcomingLimit, repo.lastLimit)

	_, err = svc.ListAppointments(context.Background(), "", 500)
	require.NoError(t, err)
	require.Equal(t, MaxUpcomingLimit, repo.lastLimit)

	_, err = svc.ListAppointments(context.Background(), "", 7)
	require.NoError(t, err)
	require.Equal(t, 7, repo.lastLimit)
}

func TestServiceListByEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakePublisher())

	created, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)

	result, err := svc.ListAppointments(context.Background(), "jane@x.com", 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.True(t, result[0].ID().Equals(created.ID()))
}

func TestServiceDeleteIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakePublisher())

	created, err := svc.CreateAppointment(context.Background(), testCreateParams())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(context.Background(), created.ID().String()))
	require.NoError(t, svc.DeleteAppointment(context.Background(), created.ID().String()))

	_, err = svc.GetAppointment(context.Background(), created.ID().String())
	require.Equal(t, KindNotFound, KindOf(err))
}
