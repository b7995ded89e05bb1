package repository

import (
	"context"
	"database/sql"

	"github.com/Maxzi3/health-app-sub000/internal/model"
)

// PrescriptionRepo provides data access to the prescriptions table.
type PrescriptionRepo struct{ DB *sql.DB }

func NewPrescriptionRepo(db *sql.DB) *PrescriptionRepo { return &PrescriptionRepo{DB: db} }

const prescriptionColumns = `id, patient_id, doctor_id, medication, dosage,
	status, notes, created_at, updated_at`

// CreateRequest files a prescription request in REQUESTED state.
func (r *PrescriptionRepo) CreateRequest(ctx context.Context, patientID, doctorID uint64, medication, dosage, notes string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO prescriptions (patient_id, doctor_id, medication, dosage, status, notes)
		 VALUES (?,?,?,?,?,?)`,
		patientID, doctorID, medication, dosage, model.PrescriptionRequested, notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByPatient returns a patient's prescriptions, newest first.
func (r *PrescriptionRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.Prescription, error) {
	return r.list(ctx,
		"SELECT "+prescriptionColumns+` FROM prescriptions
		 WHERE patient_id=? ORDER BY created_at DESC`, patientID)
}

// ListByDoctor returns a doctor's prescription workload, open requests first.
func (r *PrescriptionRepo) ListByDoctor(ctx context.Context, doctorID uint64) ([]model.Prescription, error) {
	return r.list(ctx,
		"SELECT "+prescriptionColumns+` FROM prescriptions
		 WHERE doctor_id=?
		 ORDER BY FIELD(status, ?, ?, ?), created_at ASC`,
		doctorID, model.PrescriptionRequested,
		model.PrescriptionApproved, model.PrescriptionRejected)
}

func (r *PrescriptionRepo) list(ctx context.Context, q string, args ...any) ([]model.Prescription, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Prescription
	for rows.Next() {
		var p model.Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.Medication, &p.Dosage,
			&p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DecideByDoctor approves or rejects a request owned by the doctor. Only
// rows still in REQUESTED state can be decided.
func (r *PrescriptionRepo) DecideByDoctor(ctx context.Context, id, doctorID uint64, status, dosage, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE prescriptions SET status=?, dosage=?, notes=?
		 WHERE id=? AND doctor_id=? AND status=?`,
		status, dosage, notes, id, doctorID, model.PrescriptionRequested)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var owner uint64
	var current string
	err = r.DB.QueryRowContext(ctx,
		"SELECT doctor_id, status FROM prescriptions WHERE id=?", id).Scan(&owner, &current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != doctorID {
		return ErrForbidden
	}
	return ErrConflict
}
