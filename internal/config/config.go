package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBDriver               string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	PostgresDSN            string `env:"POSTGRES_DSN"`
	SQLitePath             string `env:"SQLITE_PATH" envDefault:"blockguess.db"`

	AutoCloseInterval time.Duration `env:"AUTO_CLOSE_INTERVAL" envDefault:"5s"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"LOG_FILE"`
	ErrorLogFile string `env:"ERROR_LOG_FILE"`
	LogConsole   bool   `env:"LOG_CONSOLE" envDefault:"true"`

	FirebaseProjectID string   `env:"FIREBASE_PROJECT_ID"`
	AdminUIDs         []string `env:"ADMIN_UIDS" envSeparator:","`

	AnnounceWithAI      bool   `env:"ANNOUNCE_WITH_AI" envDefault:"false"`
	GeminiAnnounceModel string `env:"GEMINI_ANNOUNCE_MODEL" envDefault:"gemini-2.5-flash"`
	AnnounceTone        string `env:"ANNOUNCE_TONE" envDefault:"hype"`

	ArchiveBucket string `env:"ARCHIVE_BUCKET"`

	CORSOriginSuffixes []string `env:"CORS_ORIGIN_SUFFIXES" envSeparator:"," envDefault:"vercel.app"`

	GitSHA    string `env:"GIT_SHA"`
	BuildTime string `env:"BUILD_TIME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the keys the selected database driver depends on.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		var missing []string
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBPassword == "" {
			missing = append(missing, "DB_PASSWORD")
		}
		if c.DBHost == "" && c.InstanceConnectionName == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if len(missing) > 0 {
			return fmt.Errorf("mysql driver requires %v", missing)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres driver requires POSTGRES_DSN")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite driver requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.AutoCloseInterval <= 0 {
		return errors.New("AUTO_CLOSE_INTERVAL must be positive")
	}
	return nil
}

// IsAdmin reports whether uid is listed in ADMIN_UIDS.
func (c *Config) IsAdmin(uid string) bool {
	if uid == "" {
		return false
	}
	for _, a := range c.AdminUIDs {
		if a == uid {
			return true
		}
	}
	return false
}
