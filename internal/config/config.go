package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	RemoteNone = "none"
	RemoteGist = "gist"
	RemoteGCS  = "gcs"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Pocket"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Store struct {
		Driver     string `envconfig:"STORE_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"pocket.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocket"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Remote struct {
		Backend            string        `envconfig:"REMOTE_BACKEND" default:"none"`
		GistToken          string        `envconfig:"GITHUB_TOKEN"`
		GistAPIURL         string        `envconfig:"GIST_API_URL" default:"https://api.github.com"`
		GCSBucket          string        `envconfig:"GCS_BUCKET"`
		GCSObject          string        `envconfig:"GCS_OBJECT" default:"accounting-data.json"`
		GCSCredentialsFile string        `envconfig:"GCS_CREDENTIALS_FILE"`
		Timeout            time.Duration `envconfig:"REMOTE_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// Empty disables authentication.
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Classifier struct {
		RulesPath string `envconfig:"CLASSIFIER_RULES"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	if !slices.Contains([]string{StorePostgres, StoreSQLite, StoreMemory}, c.Store.Driver) {
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Remote.Backend {
	case RemoteNone:
	case RemoteGist:
		if c.Remote.GistToken == "" {
			return errors.New("REMOTE_BACKEND=gist requires GITHUB_TOKEN")
		}
	case RemoteGCS:
		if c.Remote.GCSBucket == "" {
			return errors.New("REMOTE_BACKEND=gcs requires GCS_BUCKET")
		}
	default:
		return fmt.Errorf("unknown REMOTE_BACKEND %q", c.Remote.Backend)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
