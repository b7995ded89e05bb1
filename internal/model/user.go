package model

import "time"

// Role values stored in users.role and embedded in access-token claims.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
)

// User represents an application user record as stored in the `users`
// table.  Patients are implicitly approved; doctors register with
// needs_profile_completion set and stay unapproved until an administrator
// reviews their specialization and license.
//
// Fields:
//  ID                     – primary key identifier of the user.
//  Email                  – unique email address.
//  PasswordHash           – bcrypt hashed password.
//  FullName               – display name.
//  Role                   – PATIENT or DOCTOR.
//  EmailVerified          – whether the OTP email verification succeeded.
//  IsApproved             – doctor approval flag (always true for patients).
//  NeedsProfileCompletion – doctor must still submit specialization/license.
//  Specialization         – doctor specialization (nullable).
//  LicenseNumber          – doctor license number (nullable).
//  CreatedAt              – timestamp of creation.
//  UpdatedAt              – timestamp of last update.
type User struct {
	ID                     uint64    // users.id
	Email                  string    // users.email
	PasswordHash           string    // users.password_hash
	FullName               string    // users.full_name
	Role                   string    // users.role
	EmailVerified          bool      // users.email_verified
	IsApproved             bool      // users.is_approved
	NeedsProfileCompletion bool      // users.needs_profile_completion
	Specialization         *string   // users.specialization (nullable)
	LicenseNumber          *string   // users.license_number (nullable)
	CreatedAt              time.Time // users.created_at
	UpdatedAt              time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
