package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/queue"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
	queue_publisher "github.com/Maxzi3/health-app-sub000/internal/service"
)

// PatientHandler covers the signed-in patient surface: booking and managing
// appointments and filing prescription requests.
type PatientHandler struct {
	Users         *repository.UserRepo
	Appointments  *repository.AppointmentRepo
	Prescriptions *repository.PrescriptionRepo
	Conv          *repository.ConversationRepo
}

func NewPatientHandler(u *repository.UserRepo, a *repository.AppointmentRepo, p *repository.PrescriptionRepo, conv *repository.ConversationRepo) *PatientHandler {
	return &PatientHandler{Users: u, Appointments: a, Prescriptions: p, Conv: conv}
}

type bookAppointmentReq struct {
	DoctorID       uint64 `json:"doctor_id"`
	ScheduledAt    string `json:"scheduled_at"` // RFC3339
	Reason         string `json:"reason"`
	ConversationID uint64 `json:"conversation_id"` // optional: link the booking to a chat
}

type prescriptionReq struct {
	DoctorID       uint64 `json:"doctor_id"`
	Medication     string `json:"medication"`
	Dosage         string `json:"dosage"`
	Notes          string `json:"notes"`
	ConversationID uint64 `json:"conversation_id"`
}

// approvedDoctor loads the target doctor and checks they can take patients.
func (h *PatientHandler) approvedDoctor(ctx context.Context, id uint64) (model.User, error) {
	doc, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if doc.Role != model.RoleDoctor || !doc.IsApproved || doc.NeedsProfileCompletion {
		return model.User{}, repository.ErrConflict
	}
	return doc, nil
}

// linkConversation attaches a booking or prescription to the patient's chat
// when a conversation id was sent along. Failures only log: the booking
// itself already succeeded.
func (h *PatientHandler) linkConversation(ctx context.Context, convID, patientID uint64, link func(context.Context, uint64, uint64) error, refID uint64) {
	if convID == 0 {
		return
	}
	conv, err := h.Conv.GetByID(ctx, convID)
	if err != nil || conv.PatientID != patientID {
		log.Printf("patient: skip conversation link conv=%d patient=%d: %v", convID, patientID, err)
		return
	}
	if err := link(ctx, convID, refID); err != nil {
		log.Printf("patient: conversation link failed conv=%d ref=%d: %v", convID, refID, err)
	}
}

// BookAppointment creates a PENDING appointment with an approved doctor at a
// future time and notifies the doctor through the broker.
func (h *PatientHandler) BookAppointment(c echo.Context) error {
	var req bookAppointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DoctorID == 0 || strings.TrimSpace(req.ScheduledAt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "doctor_id/scheduled_at required"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_at must be RFC3339"})
	}
	if !scheduledAt.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_at must be in the future"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patientID := currentUserID(c)
	doc, err := h.approvedDoctor(ctx, req.DoctorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "doctor not accepting appointments"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Appointments.Create(ctx, patientID, doc.ID, scheduledAt, strings.TrimSpace(req.Reason))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create appointment failed"})
	}
	h.linkConversation(ctx, req.ConversationID, patientID, h.Conv.LinkAppointment, id)

	patient, err := h.Users.GetByID(ctx, patientID)
	if err == nil {
		ev := queue.AppointmentBookedEvent{
			AppointmentID:  id,
			PatientID:      patientID,
			PatientName:    patient.FullName,
			DoctorID:       doc.ID,
			DoctorEmail:    doc.Email,
			DoctorName:     doc.FullName,
			Specialization: strOrEmpty(doc.Specialization),
			ScheduledAt:    scheduledAt.UTC().Format(time.RFC3339),
			Reason:         strings.TrimSpace(req.Reason),
			BookedAt:       time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishAppointmentBooked(ctx, ev); err != nil {
			log.Printf("patient: publish appointment booked failed id=%d: %v", id, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"appointment_id": id,
		"status":         model.AppointmentPending,
	})
}

// ListAppointments returns the caller's appointments, newest first.
func (h *PatientHandler) ListAppointments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Appointments.ListByPatient(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"appointments": out})
}

// CancelAppointment cancels one of the caller's own appointments.
func (h *PatientHandler) CancelAppointment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Appointments.CancelByPatient(ctx, id, currentUserID(c)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your appointment"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "appointment already closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.AppointmentCancelled})
}

// RequestPrescription files a prescription request with an approved doctor.
func (h *PatientHandler) RequestPrescription(c echo.Context) error {
	var req prescriptionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Medication = strings.TrimSpace(req.Medication)
	if req.DoctorID == 0 || req.Medication == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "doctor_id/medication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patientID := currentUserID(c)
	doc, err := h.approvedDoctor(ctx, req.DoctorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "doctor not accepting requests"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Prescriptions.CreateRequest(ctx, patientID, doc.ID,
		req.Medication, strings.TrimSpace(req.Dosage), strings.TrimSpace(req.Notes))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	h.linkConversation(ctx, req.ConversationID, patientID, h.Conv.LinkPrescription, id)

	return c.JSON(http.StatusCreated, echo.Map{
		"prescription_id": id,
		"status":          model.PrescriptionRequested,
	})
}

// ListPrescriptions returns the caller's prescription requests, newest first.
func (h *PatientHandler) ListPrescriptions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Prescriptions.ListByPatient(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"prescriptions": out})
}
