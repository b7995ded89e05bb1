package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// DoctorHandler covers the doctor workspace: profile completion, the
// appointment queue and prescription decisions.
type DoctorHandler struct {
	Users         *repository.UserRepo
	Appointments  *repository.AppointmentRepo
	Prescriptions *repository.PrescriptionRepo
}

func NewDoctorHandler(u *repository.UserRepo, a *repository.AppointmentRepo, p *repository.PrescriptionRepo) *DoctorHandler {
	return &DoctorHandler{Users: u, Appointments: a, Prescriptions: p}
}

type completeProfileReq struct {
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

type appointmentStatusReq struct {
	Status string `json:"status"` // CONFIRMED | CANCELLED | COMPLETED
	Notes  string `json:"notes"`
}

type prescriptionDecisionReq struct {
	Status string `json:"status"` // APPROVED | REJECTED
	Dosage string `json:"dosage"`
	Notes  string `json:"notes"`
}

// CompleteProfile stores the doctor's specialization and license number.
// After this the session classifies as pending approval; the client picks
// the change up by refreshing its tokens.
func (h *DoctorHandler) CompleteProfile(c echo.Context) error {
	var req completeProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Specialization = strings.TrimSpace(req.Specialization)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	if req.Specialization == "" || req.LicenseNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "specialization/license_number required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.CompleteDoctorProfile(ctx, currentUserID(c), req.Specialization, req.LicenseNumber); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile completed, awaiting approval",
	})
}

// Queue returns the doctor's appointment workload, pending first.
func (h *DoctorHandler) Queue(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Appointments.ListByDoctor(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"appointments": out})
}

// UpdateAppointment moves one of the doctor's appointments to a new status.
func (h *DoctorHandler) UpdateAppointment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	var req appointmentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.AppointmentConfirmed, model.AppointmentCancelled, model.AppointmentCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED, CANCELLED or COMPLETED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Appointments.UpdateStatusByDoctor(ctx, id, currentUserID(c), status, strings.TrimSpace(req.Notes)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your appointment"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "appointment already closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// Prescriptions returns the doctor's prescription workload, open requests
// first.
func (h *DoctorHandler) ListPrescriptions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Prescriptions.ListByDoctor(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"prescriptions": out})
}

// DecidePrescription approves or rejects an open request.
func (h *DoctorHandler) DecidePrescription(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prescription id"})
	}
	var req prescriptionDecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.PrescriptionApproved && status != model.PrescriptionRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be APPROVED or REJECTED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Prescriptions.DecideByDoctor(ctx, id, currentUserID(c), status,
		strings.TrimSpace(req.Dosage), strings.TrimSpace(req.Notes)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prescription not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your prescription"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already decided"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}
