// Entry point for the telehealth API server.
package main

import (
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/assistant"
	"github.com/Maxzi3/health-app-sub000/internal/config"
	"github.com/Maxzi3/health-app-sub000/internal/database"
	"github.com/Maxzi3/health-app-sub000/internal/handler"
	"github.com/Maxzi3/health-app-sub000/internal/limiter"
	"github.com/Maxzi3/health-app-sub000/internal/queue"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
	"github.com/Maxzi3/health-app-sub000/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional. Without it the guest limiter and verification codes
	// fall back to per-process memory and the auth burst limiter disables
	// itself, which is acceptable for a single dev instance.
	rdb := config.NewRedisClient()

	var guests limiter.DailyLimiter
	var codes repository.VerificationStore
	if rdb != nil {
		guests = limiter.NewRedisLimiter(rdb, cfg.GuestDailyLimit, "guest_chat")
		codes = repository.NewRedisVerificationStore(rdb)
	} else {
		log.Println("redis unavailable: guest limits and verification codes are per-process only")
		guests = limiter.NewMemoryLimiter(cfg.GuestDailyLimit, time.Hour)
		codes = repository.NewMemoryVerificationStore()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	conversations := repository.NewConversationRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	prescriptions := repository.NewPrescriptionRepo(db)

	provider := assistant.NewCompletionClient(cfg.AssistantBaseURL, cfg.AssistantAPIKey, cfg.AssistantModel)
	chat := assistant.NewService(conversations, users, guests, provider, cfg.PatientDailyLimit)

	authH := handler.NewAuthHandler(cfg, users, tokens, codes)
	assistantH := handler.NewAssistantHandler(cfg, chat, conversations)
	patientH := handler.NewPatientHandler(users, appointments, prescriptions, conversations)
	doctorH := handler.NewDoctorHandler(users, appointments, prescriptions)
	adminH := handler.NewAdminHandler(cfg, users)
	directoryH := handler.NewDirectoryHandler(users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, rdb, cfg.JWTSecret)
	router.RegisterAssistant(e, assistantH, cfg.JWTSecret)
	router.RegisterPatient(e, patientH, cfg.JWTSecret)
	router.RegisterDoctor(e, doctorH, cfg.JWTSecret)
	router.RegisterPublic(e, directoryH)
	router.RegisterAdmin(e, adminH)

	// Notification consumer runs for the life of the process and reconnects
	// on its own when the broker drops.
	go queue.StartNotifyConsumer(&queue.Mailer{
		Host:     cfg.SMTPHost,
		Port:     strconv.Itoa(cfg.SMTPPort),
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
