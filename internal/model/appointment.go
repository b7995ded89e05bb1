package model

import "time"

// Appointment status values stored in appointments.status.
const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCancelled = "CANCELLED"
	AppointmentCompleted = "COMPLETED"
)

// Appointment records a patient's booking with a doctor.
//
// Fields:
//  ID          – primary key identifier.
//  PatientID   – patient who booked.
//  DoctorID    – doctor being booked.
//  ScheduledAt – agreed time of the consultation.
//  Status      – PENDING, CONFIRMED, CANCELLED or COMPLETED.
//  Reason      – patient-stated reason for the visit.
//  Notes       – doctor notes added while working the queue.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Appointment struct {
	ID          uint64    // appointments.id
	PatientID   uint64    // appointments.patient_id
	DoctorID    uint64    // appointments.doctor_id
	ScheduledAt time.Time // appointments.scheduled_at
	Status      string    // appointments.status
	Reason      string    // appointments.reason
	Notes       string    // appointments.notes
	CreatedAt   time.Time // appointments.created_at
	UpdatedAt   time.Time // appointments.updated_at
}
