package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, parsed from the environment.
// Storage selects the game repository backend: postgres, mongo or memory.
type Config struct {
	HTTPAddr string `env:"STRATFORGE_HTTP_ADDR" envDefault:":8080"`

	Storage      string        `env:"STRATFORGE_STORAGE" envDefault:"memory"`
	PostgresDSN  string        `env:"STRATFORGE_DB_DSN"`
	MigrateDir   string        `env:"STRATFORGE_MIGRATE_DIR" envDefault:"migrations"`
	MongoURI     string        `env:"STRATFORGE_MONGO_URI"`
	MongoDB      string        `env:"STRATFORGE_MONGO_DB" envDefault:"stratforge"`
	MongoTimeout time.Duration `env:"STRATFORGE_MONGO_CONNECT_TIMEOUT" envDefault:"3s"`

	ScenarioDir string `env:"STRATFORGE_SCENARIO_DIR" envDefault:"scenarios"`

	TokenSecret string        `env:"STRATFORGE_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"STRATFORGE_TOKEN_TTL" envDefault:"168h"`

	OracleBaseURL string        `env:"STRATFORGE_ORACLE_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OracleAPIKey  string        `env:"STRATFORGE_ORACLE_API_KEY"`
	OracleModel   string        `env:"STRATFORGE_ORACLE_MODEL" envDefault:"gpt-4o-mini"`
	OracleTimeout time.Duration `env:"STRATFORGE_ORACLE_TIMEOUT" envDefault:"30s"`
	// TurnMode selects the AI resolution path: action-list or roster-merge.
	TurnMode string `env:"STRATFORGE_TURN_MODE" envDefault:"action-list"`

	LogLevel      string `env:"STRATFORGE_LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"STRATFORGE_LOG_FILE"`
	LogMaxSizeMB  int    `env:"STRATFORGE_LOG_MAX_SIZE_MB" envDefault:"64"`
	LogMaxBackups int    `env:"STRATFORGE_LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"STRATFORGE_LOG_MAX_AGE_DAYS" envDefault:"14"`
	LogDev        bool   `env:"STRATFORGE_LOG_DEV" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
