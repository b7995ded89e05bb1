package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); optional
// values fall back to sensible defaults so a bare dev environment still boots.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	// Assistant completion service (OpenAI-compatible).
	AssistantBaseURL string // base URL of the completion API (optional)
	AssistantAPIKey  string // API key for the completion API
	AssistantModel   string // model identifier to request

	// Daily message quotas.
	GuestDailyLimit   int // assistant messages per IP per calendar day (guests)
	PatientDailyLimit int // assistant messages per conversation per calendar day

	// Doctor approval.
	AdminAPIKey string // static key guarding the doctor approval endpoint

	// Outbound mail.  When SMTPHost is empty the notification consumer
	// appends to logs/notify.log instead of sending.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		AssistantBaseURL: os.Getenv("ASSISTANT_BASE_URL"),
		AssistantAPIKey:  os.Getenv("ASSISTANT_API_KEY"),
		AssistantModel:   envStr("ASSISTANT_MODEL", "gpt-4o-mini"),

		GuestDailyLimit:   envInt("GUEST_DAILY_LIMIT", 1),
		PatientDailyLimit: envInt("PATIENT_DAILY_LIMIT", 3),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: envStr("SMTP_FROM", os.Getenv("SMTP_USER")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
