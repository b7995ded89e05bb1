package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/routing"
)

func guardRequest(t *testing.T, claims routing.Claims, allowed ...routing.State) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/doctor/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("claims", claims)

	handler := RouteGuard(allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRouteGuardAdmitsAllowedState(t *testing.T) {
	claims := routing.Claims{
		Authenticated:  true,
		Role:           "DOCTOR",
		IsApproved:     true,
		Specialization: "Cardiology",
		LicenseNumber:  "MD-1",
	}
	rec := guardRequest(t, claims, routing.DoctorActive)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouteGuardRedirectsPendingDoctor(t *testing.T) {
	claims := routing.Claims{
		Authenticated:  true,
		Role:           "DOCTOR",
		Specialization: "Cardiology",
		LicenseNumber:  "MD-1",
	}
	rec := guardRequest(t, claims, routing.DoctorActive)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body struct {
		State    string `json:"state"`
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.State != "DOCTOR_PENDING_APPROVAL" || body.Redirect != "/doctor/pending-approval" {
		t.Fatalf("unexpected guard response: %+v", body)
	}
}

func TestRouteGuardTreatsMissingClaimsAsUnauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RouteGuard(routing.PatientActive)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body struct {
		Redirect string `json:"redirect"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Redirect != "/login" {
		t.Fatalf("expected /login redirect, got %q", body.Redirect)
	}
}
