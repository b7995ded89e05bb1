package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/assistant"
	"github.com/Maxzi3/health-app-sub000/internal/config"
	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// AssistantHandler exposes the triage chat. The message endpoint serves both
// guests and signed-in patients, so it parses the bearer token itself
// instead of sitting behind the JWT middleware.
type AssistantHandler struct {
	Cfg  config.Config
	Svc  *assistant.Service
	Conv *repository.ConversationRepo
}

func NewAssistantHandler(cfg config.Config, svc *assistant.Service, conv *repository.ConversationRepo) *AssistantHandler {
	return &AssistantHandler{Cfg: cfg, Svc: svc, Conv: conv}
}

type messageReq struct {
	Message        string `json:"message"`
	ConversationID uint64 `json:"conversation_id"`
}

type messagesResp struct {
	ConversationID uint64              `json:"conversation_id"`
	Messages       []model.ChatMessage `json:"messages"`
}

// Message answers one chat turn. Without a valid bearer token the caller is
// a guest: one free message per IP per day, nothing persisted. With a
// patient token the message lands in the given conversation (created on the
// fly when none is supplied) under the per-conversation daily quota.
func (h *AssistantHandler) Message(c echo.Context) error {
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	patientID, ok := h.bearerPatient(c)
	if !ok {
		ip := c.RealIP()
		if ip == "" {
			ip = "unknown"
		}
		reply, err := h.Svc.GuestMessage(ctx, ip, req.Message)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assistant unavailable"})
		}
		return c.JSON(http.StatusOK, reply)
	}

	convID := req.ConversationID
	if convID == 0 {
		var err error
		convID, err = h.Svc.InitConversation(ctx, patientID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "init conversation failed"})
		}
	}

	reply, err := h.Svc.PatientMessage(ctx, patientID, convID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your conversation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assistant unavailable"})
	}
	return c.JSON(http.StatusOK, reply)
}

// InitConversation returns the patient's active conversation id, creating a
// conversation when they have none. Mounted behind the JWT middleware.
func (h *AssistantHandler) InitConversation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	convID, err := h.Svc.InitConversation(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "init conversation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversation_id": convID})
}

// ListMessages returns the transcript of one of the caller's conversations,
// oldest first.
func (h *AssistantHandler) ListMessages(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || convID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	conv, err := h.Conv.GetByID(ctx, convID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if conv.PatientID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your conversation"})
	}

	msgs, err := h.Conv.ListMessages(ctx, convID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, messagesResp{ConversationID: convID, Messages: msgs})
}

// bearerPatient reports whether the request carries a valid access token for
// a patient, returning the patient id when it does. Doctors get no chat
// quota, so their tokens read as guests here.
func (h *AssistantHandler) bearerPatient(c echo.Context) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	if role, _ := claims["role"].(string); role != model.RolePatient {
		return 0, false
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, false
	}
	return uint64(sub), true
}
