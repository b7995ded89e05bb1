package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Maxzi3/health-app-sub000/internal/model"
)

// AppointmentRepo provides data access to the appointments table.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

const appointmentColumns = `id, patient_id, doctor_id, scheduled_at, status,
	reason, notes, created_at, updated_at`

func scanAppointment(rows *sql.Rows) (model.Appointment, error) {
	var a model.Appointment
	err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Status,
		&a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create books an appointment in PENDING state and returns its ID.
func (r *AppointmentRepo) Create(ctx context.Context, patientID, doctorID uint64, scheduledAt time.Time, reason string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO appointments (patient_id, doctor_id, scheduled_at, status, reason)
		 VALUES (?,?,?,?,?)`,
		patientID, doctorID, scheduledAt.UTC(), model.AppointmentPending, reason)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns an appointment by id.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (model.Appointment, error) {
	var a model.Appointment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Status,
			&a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// ListByPatient returns a patient's appointments, newest first.
func (r *AppointmentRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+appointmentColumns+` FROM appointments
		 WHERE patient_id=? ORDER BY scheduled_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

// ListByDoctor returns a doctor's queue: pending work first, then by
// scheduled time ascending so the next consultation is on top.
func (r *AppointmentRepo) ListByDoctor(ctx context.Context, doctorID uint64) ([]model.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+appointmentColumns+` FROM appointments
		 WHERE doctor_id=?
		 ORDER BY FIELD(status, ?, ?, ?, ?), scheduled_at ASC`,
		doctorID,
		model.AppointmentPending, model.AppointmentConfirmed,
		model.AppointmentCompleted, model.AppointmentCancelled)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func collectAppointments(rows *sql.Rows) ([]model.Appointment, error) {
	defer rows.Close()
	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateStatusByDoctor moves an appointment owned by the doctor to a new
// status, optionally replacing notes. Completed and cancelled rows are
// terminal.
func (r *AppointmentRepo) UpdateStatusByDoctor(ctx context.Context, id, doctorID uint64, status, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE appointments SET status=?, notes=?
		 WHERE id=? AND doctor_id=? AND status NOT IN (?,?)`,
		status, notes, id, doctorID,
		model.AppointmentCompleted, model.AppointmentCancelled)
	if err != nil {
		return err
	}
	return r.explainNoop(ctx, res, id, "doctor_id", doctorID)
}

// CancelByPatient cancels a patient's own appointment unless it already
// completed or was cancelled.
func (r *AppointmentRepo) CancelByPatient(ctx context.Context, id, patientID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE appointments SET status=?
		 WHERE id=? AND patient_id=? AND status NOT IN (?,?)`,
		model.AppointmentCancelled, id, patientID,
		model.AppointmentCompleted, model.AppointmentCancelled)
	if err != nil {
		return err
	}
	return r.explainNoop(ctx, res, id, "patient_id", patientID)
}

// explainNoop turns a zero-row update into the right sentinel: missing row,
// foreign owner, or terminal status.
func (r *AppointmentRepo) explainNoop(ctx context.Context, res sql.Result, id uint64, ownerCol string, ownerID uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var owner uint64
	var status string
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+ownerCol+", status FROM appointments WHERE id=?", id).Scan(&owner, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	return ErrConflict
}
