package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string

	// Engine settings. Defaults mirror the ops runbook: 100 m GPS
	// verification threshold, 8 h session timeout, 30 d ping retention.
	GPSAccuracyThresholdMeters float64
	SessionTimeoutMinutes      int
	LocationRetentionDays      int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set")
	}

	GPSAccuracyThresholdMeters = float64(GetEnvInt("GPS_ACCURACY_THRESHOLD_METERS", 100))
	SessionTimeoutMinutes = GetEnvInt("SESSION_TIMEOUT_MINUTES", 480)
	LocationRetentionDays = GetEnvInt("LOCATION_RETENTION_DAYS", 30)

	log.Printf("[CONFIG] gps_threshold=%.0fm session_timeout=%dm retention=%dd",
		GPSAccuracyThresholdMeters, SessionTimeoutMinutes, LocationRetentionDays)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("[WARN] %s is not a number, using default %d", key, defaultValue)
	}
	return defaultValue
}
