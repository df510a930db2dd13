package appointment

import (
	"time"
)

// record is the flattened persisted form of an aggregate. The postgres
// repository scans into it and the redis cache serializes it, so the
// JSON tags double as the cache encoding.
type record struct {
	ID                 string     `json:"id"`
	PatientName        string     `json:"patientName"`
	PatientEmail       string     `json:"patientEmail"`
	PatientPhone       string     `json:"patientPhone"`
	ScheduledAt        time.Time  `json:"appointmentDate"`
	Reason             string     `json:"reason"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
}

func newRecord(a *Appointment) record {
	var cancellationReason *string
	if a.cancellationReason != "" {
		reason := a.cancellationReason
		cancellationReason = &reason
	}

	return record{
		ID:                 a.id.String(),
		PatientName:        a.patientName,
		PatientEmail:       a.patientEmail.String(),
		PatientPhone:       a.patientPhone.String(),
		ScheduledAt:        a.scheduledAt,
		Reason:             a.reason,
		Status:             string(a.status),
		CreatedAt:          a.createdAt,
		UpdatedAt:          a.updatedAt,
		ConfirmedAt:        a.confirmedAt,
		CancelledAt:        a.cancelledAt,
		CancellationReason: cancellationReason,
	}
}

// fromRecord reconstitutes an aggregate from its persisted form. No
// events are emitted and the creation-time date invariant is not
// re-checked; only the value-object formats are.
func fromRecord(r record) (*Appointment, error) {
	id, err := ParseID(r.ID)
	if err != nil {
		return nil, err
	}
	email, err := NewEmailAddress(r.PatientEmail)
	if err != nil {
		return nil, err
	}
	phone, err := NewPhoneNumber(r.PatientPhone)
	if err != nil {
		return nil, err
	}
	if !IsValidStatus(r.Status) {
		return nil, Errorf(KindValidation, "unknown appointment status: %s", r.Status)
	}

	a := &Appointment{
		id:           id,
		patientName:  r.PatientName,
		patientEmail: email,
		patientPhone: phone,
		scheduledAt:  r.ScheduledAt,
		reason:       r.Reason,
		status:       Status(r.Status),
		createdAt:    r.CreatedAt,
		updatedAt:    r.UpdatedAt,
		confirmedAt:  r.ConfirmedAt,
		cancelledAt:  r.CancelledAt,
	}
	if r.CancellationReason != nil {
		a.cancellationReason = *r.CancellationReason
	}

	return a, nil
}
