package appointment

import (
	"context"
)

const (
	DefaultUpcomingLimit = 50
	MaxUpcomingLimit     = 100
)

// Repository is the persistence boundary the aggregate is saved through
// and reloaded from. Save is an upsert keyed by the appointment id:
// idempotent at the data level, last write wins under concurrency.
type Repository interface {
	// Save inserts the appointment or fully overwrites the existing row.
	Save(ctx context.Context, a *Appointment) error

	// FindByID returns (nil, nil) when no appointment exists for id.
	FindByID(ctx context.Context, id ID) (*Appointment, error)

	// FindByEmail matches case-insensitively against the normalized
	// email, ordered by scheduled date descending.
	FindByEmail(ctx context.Context, email string) ([]*Appointment, error)

	// FindUpcoming returns SCHEDULED or CONFIRMED appointments with a
	// scheduled date at or after now, ascending, at most limit rows.
	FindUpcoming(ctx context.Context, limit int) ([]*Appointment, error)

	// Delete removes the appointment; a no-op when absent.
	Delete(ctx context.Context, id ID) error
}

// EventPublisher delivers drained domain events to the message broker.
// PublishBatch sends events strictly in input order and stops at the
// first failure, leaving the remaining events unpublished.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
	PublishBatch(ctx context.Context, events []Event) error
}
