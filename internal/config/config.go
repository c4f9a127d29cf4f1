package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
	"log"
	"os"
	"time"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	ErrorLog   string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	HTTPServer `yaml:"http_server"`
	Sheet      Sheet  `yaml:"sheet"`
	CORS       CORS   `yaml:"cors"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// Sheet describes the remote rate sheet. An empty URL means the compiled-in
// defaults are served. FetchTimeout must stay below HTTPServer.Timeout so the
// fallback still reaches the client before the write deadline.
type Sheet struct {
	URL                  string        `yaml:"url" env:"SHEET_CSV_URL"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout" env:"SHEET_FETCH_TIMEOUT" env-default:"3s"`
	CacheMaxAge          time.Duration `yaml:"cache_max_age" env-default:"60s"`
	StaleWhileRevalidate time.Duration `yaml:"stale_while_revalidate" env-default:"300s"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// Load reads the YAML file at path with env overrides. A missing file is not an
// error: the configuration then comes from the environment alone.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: read env: %w", op, err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", op, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Sheet.FetchTimeout <= 0 {
		return fmt.Errorf("sheet.fetch_timeout must be positive, got %s", c.Sheet.FetchTimeout)
	}
	if c.HTTPServer.Timeout > 0 && c.Sheet.FetchTimeout >= c.HTTPServer.Timeout {
		return fmt.Errorf("sheet.fetch_timeout (%s) must be shorter than http_server.timeout (%s)",
			c.Sheet.FetchTimeout, c.HTTPServer.Timeout)
	}
	return nil
}

func MustConfig() *Config {
	// .env is optional
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
