package config

// Config holds all configuration for the application.
type Config struct {
	Port          string
	DBName        string
	MigrationsDir string
	FrontendURL   string
	Turso         TursoConfig
	Client        ClientConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ClientConfig configures the headless client (CLI / syncer) side.
// A non-empty APIURL switches persistence from the local file store to the
// remote API.
type ClientConfig struct {
	APIURL  string
	UserID  string
	DataDir string
}
