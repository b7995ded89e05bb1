// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Maxzi3/health-app-sub000/internal/config"
	"github.com/Maxzi3/health-app-sub000/internal/handler"
	"github.com/Maxzi3/health-app-sub000/internal/middleware"
	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/routing"
)

// RegisterRoutes registers routes that require no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the account endpoints. Unauthenticated operations live
// under /v1/auth behind the burst limiter; session endpoints live under /v1
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.POST("/register", a.Register)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/resend-code", a.ResendCode)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes either a bearer token or a refresh token, so it stays
	// outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.GET("/session/route", a.SessionRoute)
}

// RegisterAssistant wires the triage chat. The message endpoint serves
// guests too and therefore does its own token handling; the transcript
// endpoints require a patient session on the active-patient screen.
func RegisterAssistant(e *echo.Echo, h *handler.AssistantHandler, jwtSecret string) {
	e.POST("/v1/assistant", h.Message)

	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePatient),
		middleware.RouteGuard(routing.PatientActive))
	g.POST("/conversation/init", h.InitConversation)
	g.GET("/conversations/:id/messages", h.ListMessages)
}

// RegisterPatient wires the patient workspace.
func RegisterPatient(e *echo.Echo, h *handler.PatientHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePatient),
		middleware.RouteGuard(routing.PatientActive))
	g.POST("/appointments", h.BookAppointment)
	g.GET("/appointments", h.ListAppointments)
	g.DELETE("/appointments/:id", h.CancelAppointment)
	g.POST("/prescriptions", h.RequestPrescription)
	g.GET("/prescriptions", h.ListPrescriptions)
}

// RegisterDoctor wires the doctor workspace. Profile completion is the one
// endpoint reachable before approval; everything else requires an active
// doctor session.
func RegisterDoctor(e *echo.Echo, h *handler.DoctorHandler, jwtSecret string) {
	base := e.Group("/v1/doctor",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleDoctor))

	base.POST("/profile", h.CompleteProfile,
		middleware.RouteGuard(routing.DoctorNeedsProfile, routing.DoctorActive))

	active := base.Group("", middleware.RouteGuard(routing.DoctorActive))
	active.GET("/appointments", h.Queue)
	active.PATCH("/appointments/:id", h.UpdateAppointment)
	active.GET("/prescriptions", h.ListPrescriptions)
	active.PATCH("/prescriptions/:id", h.DecidePrescription)
}

// RegisterPublic wires unauthenticated browse endpoints.
func RegisterPublic(e *echo.Echo, d *handler.DirectoryHandler) {
	e.GET("/v1/doctors", d.List)
}

// RegisterAdmin wires the operator endpoints behind the static API key.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	g := e.Group("/v1/admin", h.RequireKey)
	g.POST("/doctors/:id/approve", h.ApproveDoctor)
}
