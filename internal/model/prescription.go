package model

import "time"

// Prescription status values stored in prescriptions.status.
const (
	PrescriptionRequested = "REQUESTED"
	PrescriptionApproved  = "APPROVED"
	PrescriptionRejected  = "REJECTED"
)

// Prescription records a patient's medication request and the doctor's
// decision on it.
type Prescription struct {
	ID         uint64    // prescriptions.id
	PatientID  uint64    // prescriptions.patient_id
	DoctorID   uint64    // prescriptions.doctor_id
	Medication string    // prescriptions.medication
	Dosage     string    // prescriptions.dosage
	Status     string    // prescriptions.status
	Notes      string    // prescriptions.notes
	CreatedAt  time.Time // prescriptions.created_at
	UpdatedAt  time.Time // prescriptions.updated_at
}
