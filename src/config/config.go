package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// Tienda Nube API access. The store ID and access token come from the
	// partner dashboard (or a prior OAuth exchange, which this backend does
	// not perform itself).
	TiendaNubeBaseURL     string
	TiendaNubeStoreID     string
	TiendaNubeAccessToken string
	TiendaNubeUserAgent   string

	// Sync behaviour.
	SyncSchedule       string // cron spec for the periodic order sync
	SyncPageSize       int
	SyncMaxPages       int
	FetchFulfillments  bool // query the fulfillment sub-resource for real shipping costs
	SyncRequestTimeout time.Duration

	// Fallback percentages when the store has no persisted settings yet.
	DefaultPlatformFeePct float64

	EmailServiceProvider string

	MailgunDomain        string
	MailgunPrivateAPIKey string

	SenderEmail string
	SenderName  string

	// SyncReportRecipient receives the post-sync summary email. Empty
	// disables the report.
	SyncReportRecipient string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	storeID := getEnv("TIENDANUBE_STORE_ID", "")
	accessToken := getEnv("TIENDANUBE_ACCESS_TOKEN", "")

	syncTimeoutStr := getEnv("SYNC_REQUEST_TIMEOUT", "20s")
	syncTimeout, err := time.ParseDuration(syncTimeoutStr)
	if err != nil {
		log.Printf("WARNING: Invalid SYNC_REQUEST_TIMEOUT format '%s'. Using default 20s. Error: %v", syncTimeoutStr, err)
		syncTimeout = 20 * time.Second
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./lucroclaro.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		TiendaNubeBaseURL:     getEnv("TIENDANUBE_BASE_URL", "https://api.tiendanube.com/v1"),
		TiendaNubeStoreID:     storeID,
		TiendaNubeAccessToken: accessToken,
		TiendaNubeUserAgent:   getEnv("TIENDANUBE_USER_AGENT", "LucroClaro (noreply@example.com)"),

		SyncSchedule:       getEnv("SYNC_SCHEDULE", "@every 6h"),
		SyncPageSize:       getEnvAsInt("SYNC_PAGE_SIZE", 200),
		SyncMaxPages:       getEnvAsInt("SYNC_MAX_PAGES", 100),
		FetchFulfillments:  getEnvAsBool("FETCH_FULFILLMENTS", false),
		SyncRequestTimeout: syncTimeout,

		DefaultPlatformFeePct: getEnvAsFloat("DEFAULT_PLATFORM_FEE_PCT", 5.31),

		EmailServiceProvider: getEnv("EMAIL_SERVICE_PROVIDER", "none"),

		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),

		SenderEmail: getEnv("SENDER_EMAIL", "noreply@example.com"),
		SenderName:  getEnv("SENDER_NAME", "LucroClaro"),

		SyncReportRecipient: getEnv("SYNC_REPORT_RECIPIENT", ""),
	}

	if Cfg.TiendaNubeStoreID == "" || Cfg.TiendaNubeAccessToken == "" {
		log.Println("WARNING: TIENDANUBE_STORE_ID / TIENDANUBE_ACCESS_TOKEN not set. Order sync will fail until configured.")
	}

	if Cfg.EmailServiceProvider == "mailgun" {
		if Cfg.MailgunDomain == "" || Cfg.MailgunPrivateAPIKey == "" {
			log.Fatalf("FATAL: MAILGUN_DOMAIN and MAILGUN_PRIVATE_API_KEY are required when EMAIL_SERVICE_PROVIDER is 'mailgun'.")
		}
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, StoreID=%s, EmailProvider=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.TiendaNubeStoreID, Cfg.EmailServiceProvider)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
