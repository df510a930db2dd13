package appointment

import (
	"context"
	"fmt"
	"time"
)

// Service orchestrates one logical operation: mutate the aggregate,
// persist it, then flush its event buffer to the broker. Persistence
// and publication are two independent calls with no shared transaction,
// so a publish failure after a successful save leaves state written but
// events partially delivered. Downstream consumers are expected to be
// idempotent on eventId.
type Service struct {
	repo      Repository
	publisher EventPublisher
}

func NewService(repo Repository, publisher EventPublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

type CreateParams struct {
	PatientName  string
	PatientEmail string
	PatientPhone string
	ScheduledAt  time.Time
	Reason       string
}

func (s *Service) CreateAppointment(ctx context.Context, params CreateParams) (*Appointment, error) {
	a, err := New(params.PatientName, params.PatientEmail, params.PatientPhone, params.ScheduledAt, params.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}

	if err := s.publisher.PublishBatch(ctx, a.DrainEvents()); err != nil {
		return nil, fmt.Errorf("publish appointment events: %w", err)
	}

	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, rawID string) (*Appointment, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if a == nil {
		return nil, Errorf(KindNotFound, "appointment %s not found", id)
	}

	return a, nil
}

// ListAppointments returns the patient's history when email is set,
// otherwise the next upcoming appointments.
func (s *Service) ListAppointments(ctx context.Context, email string, limit int) ([]*Appointment, error) {
	if email != "" {
		result, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("list appointments by email: %w", err)
		}
		return result, nil
	}

	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	if limit > MaxUpcomingLimit {
		limit = MaxUpcomingLimit
	}

	result, err := s.repo.FindUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	return result, nil
}

func (s *Service) ConfirmAppointment(ctx context.Context, rawID string) (*Appointment, error) {
	a, err := s.GetAppointment(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := a.Confirm(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}

	if err := s.publisher.PublishBatch(ctx, a.DrainEvents()); err != nil {
		return nil, fmt.Errorf("publish appointment events: %w", err)
	}

	return a, nil
}

func (s *Service) CancelAppointment(ctx context.Context, rawID, reason, cancelledBy string) (*Appointment, error) {
	a, err := s.GetAppointment(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := a.Cancel(reason, cancelledBy); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}

	if err := s.publisher.PublishBatch(ctx, a.DrainEvents()); err != nil {
		return nil, fmt.Errorf("publish appointment events: %w", err)
	}

	return a, nil
}

func (s *Service) CompleteAppointment(ctx context.Context, rawID string) (*Appointment, error) {
	a, err := s.GetAppointment(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := a.Complete(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}

	// Complete emits no event; the drain keeps the save/publish shape
	// uniform across operations.
	if err := s.publisher.PublishBatch(ctx, a.DrainEvents()); err != nil {
		return nil, fmt.Errorf("publish appointment events: %w", err)
	}

	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	return nil
}
