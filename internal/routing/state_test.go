package routing

import "testing"

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name   string
		claims Claims
		want   State
	}{
		{"no session", Claims{}, Unauthenticated},
		{"unknown role", Claims{Authenticated: true, Role: "ADMIN"}, Unauthenticated},
		{"patient", Claims{Authenticated: true, Role: "PATIENT"}, PatientActive},
		{
			"patient flags ignored",
			Claims{Authenticated: true, Role: "PATIENT", NeedsProfileCompletion: true},
			PatientActive,
		},
		{
			"doctor fresh registration",
			Claims{Authenticated: true, Role: "DOCTOR", NeedsProfileCompletion: true},
			DoctorNeedsProfile,
		},
		{
			"doctor flag cleared but specialization missing",
			Claims{Authenticated: true, Role: "DOCTOR", LicenseNumber: "MD-1"},
			DoctorNeedsProfile,
		},
		{
			"doctor flag cleared but license missing",
			Claims{Authenticated: true, Role: "DOCTOR", Specialization: "Cardiology"},
			DoctorNeedsProfile,
		},
		{
			"doctor complete, unapproved",
			Claims{Authenticated: true, Role: "DOCTOR", Specialization: "Cardiology", LicenseNumber: "MD-1"},
			DoctorPendingApproval,
		},
		{
			"doctor complete, approved",
			Claims{Authenticated: true, Role: "DOCTOR", IsApproved: true, Specialization: "Cardiology", LicenseNumber: "MD-1"},
			DoctorActive,
		},
	}
	for _, tc := range cases {
		if got := Classify(tc.claims); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

// A doctor who both needs profile completion and is unapproved must land on
// profile completion, never the pending page.
func TestClassifyProfileOutranksApproval(t *testing.T) {
	c := Claims{
		Authenticated:          true,
		Role:                   "DOCTOR",
		IsApproved:             false,
		NeedsProfileCompletion: true,
		Specialization:         "Dermatology",
		LicenseNumber:          "MD-9",
	}
	if got := Classify(c); got != DoctorNeedsProfile {
		t.Fatalf("got %v want DoctorNeedsProfile", got)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := Claims{Authenticated: true, Role: "DOCTOR", Specialization: "Neurology", LicenseNumber: "MD-2"}
	first := Classify(c)
	second := Classify(c)
	if first != second {
		t.Fatalf("classification mutated between calls: %v then %v", first, second)
	}
	if first.Target() != second.Target() {
		t.Fatalf("target mutated between calls: %q then %q", first.Target(), second.Target())
	}
}

func TestTargets(t *testing.T) {
	pairs := map[State]string{
		Unauthenticated:       "/login",
		DoctorNeedsProfile:    "/doctor/complete-profile",
		DoctorPendingApproval: "/doctor/pending-approval",
		DoctorActive:          "/doctor/dashboard",
		PatientActive:         "/dashboard",
	}
	for s, want := range pairs {
		if got := s.Target(); got != want {
			t.Fatalf("%v target: got %q want %q", s, got, want)
		}
	}
}
