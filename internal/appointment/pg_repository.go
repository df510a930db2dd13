package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, patient_name, patient_email, patient_phone, scheduled_at,
	reason, status, created_at, updated_at, confirmed_at, cancelled_at,
	cancellation_reason
`

func scanRecord(row pgx.Row) (record, error) {
	var r record
	err := row.Scan(
		&r.ID,
		&r.PatientName,
		&r.PatientEmail,
		&r.PatientPhone,
		&r.ScheduledAt,
		&r.Reason,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.ConfirmedAt,
		&r.CancelledAt,
		&r.CancellationReason,
	)
	return r, err
}

func (repo *PgRepository) Save(ctx context.Context, a *Appointment) error {
	r := newRecord(a)

	_, err := repo.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_name, patient_email, patient_phone, scheduled_at,
			reason, status, created_at, updated_at, confirmed_at, cancelled_at,
			cancellation_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			patient_name        = EXCLUDED.patient_name,
			patient_email       = EXCLUDED.patient_email,
			patient_phone       = EXCLUDED.patient_phone,
			scheduled_at        = EXCLUDED.scheduled_at,
			reason              = EXCLUDED.reason,
			status              = EXCLUDED.status,
			created_at          = EXCLUDED.created_at,
			updated_at          = EXCLUDED.updated_at,
			confirmed_at        = EXCLUDED.confirmed_at,
			cancelled_at        = EXCLUDED.cancelled_at,
			cancellation_reason = EXCLUDED.cancellation_reason
	`, r.ID, r.PatientName, r.PatientEmail, r.PatientPhone, r.ScheduledAt,
		r.Reason, r.Status, r.CreatedAt, r.UpdatedAt, r.ConfirmedAt, r.CancelledAt,
		r.CancellationReason)
	if err != nil {
		return WrapError(KindInfrastructure, "save appointment", err)
	}

	return nil
}

func (repo *PgRepository) FindByID(ctx context.Context, id ID) (*Appointment, error) {
	row := repo.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id.String())

	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, WrapError(KindInfrastructure, "find appointment by id", err)
	}

	return fromRecord(r)
}

func (repo *PgRepository) FindByEmail(ctx context.Context, email string) ([]*Appointment, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	rows, err := repo.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_email = $1
		ORDER BY scheduled_at DESC
	`, normalized)
	if err != nil {
		return nil, WrapError(KindInfrastructure, "find appointments by email", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (repo *PgRepository) FindUpcoming(ctx context.Context, limit int) ([]*Appointment, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	if limit > MaxUpcomingLimit {
		limit = MaxUpcomingLimit
	}

	rows, err := repo.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status IN ($1, $2)
		  AND scheduled_at >= $3
		ORDER BY scheduled_at ASC
		LIMIT $4
	`, string(StatusScheduled), string(StatusConfirmed), time.Now(), limit)
	if err != nil {
		return nil, WrapError(KindInfrastructure, "find upcoming appointments", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (repo *PgRepository) Delete(ctx context.Context, id ID) error {
	_, err := repo.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id.String())
	if err != nil {
		return WrapError(KindInfrastructure, "delete appointment", err)
	}

	return nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var result []*Appointment
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, WrapError(KindInfrastructure, "scan appointment row", err)
		}

		a, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapError(KindInfrastructure, "iterate appointment rows", err)
	}

	return result, nil
}
