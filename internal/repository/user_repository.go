package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/utils"
)

// UserRepo provides data access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, full_name, role, email_verified,
	is_approved, needs_profile_completion, specialization, license_number,
	created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.EmailVerified, &u.IsApproved, &u.NeedsProfileCompletion,
		&u.Specialization, &u.LicenseNumber, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts a user and returns its ID. Patients are approved from the
// start; doctors begin unapproved with an incomplete profile.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	isApproved := role == model.RolePatient
	needsProfile := role == model.RoleDoctor
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, is_approved, needs_profile_completion)
		 VALUES (?,?,?,?,?,?)`,
		email, hash, fullName, role, isApproved, needsProfile)
	if err != nil {
		// 1062 = duplicate entry on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// MarkEmailVerified flips the email_verified flag after an OTP check.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows both for a missing user and for
		// an already-verified one; only the former is an error, keeping the
		// verification endpoint idempotent.
		var verified bool
		err := r.DB.QueryRowContext(ctx,
			"SELECT email_verified FROM users WHERE id=?", id).Scan(&verified)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// CompleteDoctorProfile stores the specialization and license number and
// clears needs_profile_completion. Only doctor rows are eligible.
func (r *UserRepo) CompleteDoctorProfile(ctx context.Context, id uint64, specialization, license string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET specialization=?, license_number=?, needs_profile_completion=0
		 WHERE id=? AND role=?`,
		specialization, license, id, model.RoleDoctor)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveDoctor marks a profile-complete doctor as approved.
func (r *UserRepo) ApproveDoctor(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_approved=1
		 WHERE id=? AND role=? AND needs_profile_completion=0`,
		id, model.RoleDoctor)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either no such doctor or the profile is still incomplete.
		var needsProfile bool
		err := r.DB.QueryRowContext(ctx,
			"SELECT needs_profile_completion FROM users WHERE id=? AND role=?",
			id, model.RoleDoctor).Scan(&needsProfile)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if needsProfile {
			return ErrConflict
		}
	}
	return nil
}

// ListApprovedDoctors returns approved, profile-complete doctors, optionally
// filtered by specialization (case-insensitive substring match).
func (r *UserRepo) ListApprovedDoctors(ctx context.Context, specialization string) ([]model.User, error) {
	q := "SELECT " + userColumns + ` FROM users
		 WHERE role=? AND is_approved=1 AND needs_profile_completion=0`
	args := []any{model.RoleDoctor}
	if s := strings.TrimSpace(specialization); s != "" {
		q += " AND LOWER(specialization) LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	q += " ORDER BY full_name"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
			&u.EmailVerified, &u.IsApproved, &u.NeedsProfileCompletion,
			&u.Specialization, &u.LicenseNumber, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
