// Package queue defines message payloads exchanged over the message broker.
package queue

// VerificationEmailEvent is published when an account needs its email
// verified. The consumer delivers the one-time code over SMTP (or appends it
// to the notify log when no mail server is configured).
type VerificationEmailEvent struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
	IssuedAt string `json:"issued_at"`
}

// AppointmentBookedEvent is published when a patient books an appointment.
// It carries enough information for downstream consumers to notify the
// doctor without querying the primary database.
type AppointmentBookedEvent struct {
	AppointmentID  uint64 `json:"appointment_id"`
	PatientID      uint64 `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	DoctorID       uint64 `json:"doctor_id"`
	DoctorEmail    string `json:"doctor_email"`
	DoctorName     string `json:"doctor_name"`
	Specialization string `json:"specialization"`
	ScheduledAt    string `json:"scheduled_at"`
	Reason         string `json:"reason"`
	BookedAt       string `json:"booked_at"`
}
