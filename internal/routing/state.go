// Package routing decides where a session is allowed to land.  It is the
// single authority consulted by both the server-side route guard and the
// client bootstrap endpoint, so role/approval screening cannot drift
// between call sites.
package routing

// State is the routing classification of a session.
type State int

const (
	Unauthenticated State = iota
	DoctorNeedsProfile
	DoctorPendingApproval
	DoctorActive
	PatientActive
)

func (s State) String() string {
	switch s {
	case DoctorNeedsProfile:
		return "DOCTOR_NEEDS_PROFILE"
	case DoctorPendingApproval:
		return "DOCTOR_PENDING_APPROVAL"
	case DoctorActive:
		return "DOCTOR_ACTIVE"
	case PatientActive:
		return "PATIENT_ACTIVE"
	default:
		return "UNAUTHENTICATED"
	}
}

// Target returns the landing path for a state.  Clients redirect here when
// the guard refuses the requested screen.
func (s State) Target() string {
	switch s {
	case DoctorNeedsProfile:
		return "/doctor/complete-profile"
	case DoctorPendingApproval:
		return "/doctor/pending-approval"
	case DoctorActive:
		return "/doctor/dashboard"
	case PatientActive:
		return "/dashboard"
	default:
		return "/login"
	}
}

// Claims are the token fields the classification depends on.  They are
// minted at sign-in and not re-read from the database per request; a
// mid-session approval takes effect after a token refresh.
type Claims struct {
	Authenticated          bool
	Role                   string
	IsApproved             bool
	NeedsProfileCompletion bool
	Specialization         string
	LicenseNumber          string
}

// Classify maps token claims to a routing state.  Pure: same claims, same
// state.  For doctors, an incomplete profile outranks a missing approval,
// so a freshly registered doctor is always sent to profile completion
// first.  Unknown roles classify as Unauthenticated rather than guessing.
func Classify(c Claims) State {
	if !c.Authenticated {
		return Unauthenticated
	}
	switch c.Role {
	case "DOCTOR":
		if c.NeedsProfileCompletion || c.Specialization == "" || c.LicenseNumber == "" {
			return DoctorNeedsProfile
		}
		if !c.IsApproved {
			return DoctorPendingApproval
		}
		return DoctorActive
	case "PATIENT":
		return PatientActive
	default:
		return Unauthenticated
	}
}
