package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper to get an env var with a fallback for the ones that have
	// sensible defaults.
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		Port:          getEnv("PORT", "5200"),
		DBName:        getEnv("DB_NAME", "game-record"),
		MigrationsDir: "./migrations",
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Client: ClientConfig{
			APIURL:  os.Getenv("API_URL"),
			UserID:  getEnv("USER_ID", "default"),
			DataDir: getEnv("DATA_DIR", "."),
		},
	}
	return cfg
}
