package api

import (
	"time"

	"github.com/careflow/appointment-booking/internal/appointment"
)

type CreateAppointmentRequest struct {
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	PatientPhone    string `json:"patientPhone"`
	AppointmentDate string `json:"appointmentDate"` // RFC 3339
	Reason          string `json:"reason"`
}

type CancelAppointmentRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy"`
}

type AppointmentResponse struct {
	ID                 string     `json:"id"`
	PatientName        string     `json:"patientName"`
	PatientEmail       string     `json:"patientEmail"`
	PatientPhone       string     `json:"patientPhone"`
	AppointmentDate    time.Time  `json:"appointmentDate"`
	Reason             string     `json:"reason"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                 a.ID().String(),
		PatientName:        a.PatientName(),
		PatientEmail:       a.PatientEmail().String(),
		PatientPhone:       a.PatientPhone().String(),
		AppointmentDate:    a.ScheduledAt(),
		Reason:             a.Reason(),
		Status:             string(a.Status()),
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
		ConfirmedAt:        a.ConfirmedAt(),
		CancelledAt:        a.CancelledAt(),
		CancellationReason: a.CancellationReason(),
	}
}
