// internal/infra/config/config.go
package config

import "os"

// Config holds the environment configuration for the whole process.
type Config struct {
	Port          string
	AllowedOrigin string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// DBPasswordSecret, when set, names a Secret Manager secret that
	// overrides DBPassword at boot.
	DBPasswordSecret string

	GCPProjectID       string
	FirestoreProjectID string
	FirebaseProjectID  string
	GCSBucket          string
	GCPCreds           string

	SendGridAPIKey string
	MailFrom       string
}

// Load reads the environment and returns the configuration.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port:          getenvDefault("PORT", "8080"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		DBHost:           getenvDefault("DB_HOST", "localhost"),
		DBPort:           getenvDefault("DB_PORT", "5432"),
		DBUser:           getenvDefault("DB_USER", "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenvDefault("DB_NAME", "localix"),
		DBPasswordSecret: os.Getenv("DB_PASSWORD_SECRET"),

		GCPProjectID:       defaultProject,
		FirestoreProjectID: getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirebaseProjectID:  getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCPCreds:           os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "no-reply@localix.app"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
