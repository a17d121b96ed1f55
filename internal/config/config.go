package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Log      Log
	Trivia   Trivia
	CORS     CORS
	OpenTDB  OpenTDB
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host            string        `env:"PG_HOST,notEmpty"`
	Port            int           `env:"PG_PORT" envDefault:"5432"`
	User            string        `env:"PG_USER,notEmpty"`
	Password        string        `env:"PG_PASSWORD,notEmpty"`
	Database        string        `env:"PG_DATABASE,notEmpty"`
	SSLMode         string        `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// DSN renders the keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Log configures the structured logger and its optional rotating file sink.
type Log struct {
	Level         string `env:"LOG_LEVEL" envDefault:"info"`
	File          string `env:"LOG_FILE" envDefault:""`
	FileMaxSizeMB int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"50"`
	FileBackups   int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
	FileMaxAge    int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"14"`
}

// Trivia groups API behaviour knobs.
type Trivia struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

// OpenTDB configures the question importer.
type OpenTDB struct {
	BaseURL string        `env:"OPENTDB_BASE_URL" envDefault:"https://opentdb.com"`
	Timeout time.Duration `env:"OPENTDB_TIMEOUT" envDefault:"5s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Trivia.QuestionsPerPage <= 0 {
		return nil, fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", cfg.Trivia.QuestionsPerPage)
	}
	return cfg, nil
}

// LoadPostgres parses only the database section; used by the migration and
// import tools which do not need the HTTP settings.
func LoadPostgres() (Postgres, error) {
	var pg Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		return Postgres{}, fmt.Errorf("parse postgres config: %w", err)
	}
	return pg, nil
}
