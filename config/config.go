package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	JWTSecret        string
	JWTExpiration    time.Duration
	ServerPort       string
	InviteExpiration time.Duration
	// GraceHour/GraceMinute is the time of day after which a clock-in is
	// classified late.
	GraceHour   int
	GraceMinute int
}

func Load() *Config {
	// Optional .env file for local development
	_ = godotenv.Load()

	graceHour, graceMinute := parseGraceCutoff(getEnv("GRACE_CUTOFF", "09:30"))

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/timeclock"),
		JWTSecret:        getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:    24 * time.Hour,
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		InviteExpiration: 7 * 24 * time.Hour, // 7 days
		GraceHour:        graceHour,
		GraceMinute:      graceMinute,
	}
}

func parseGraceCutoff(value string) (int, int) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		log.Printf("Invalid GRACE_CUTOFF %q, falling back to 09:30", value)
		return 9, 30
	}
	return t.Hour(), t.Minute()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
