package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	CameraSourceWebcam = "webcam"
	CameraSourceUDP    = "udp"
)

type Config struct {
	BackendURL    string        `env:"BACKEND_URL"     env-default:"http://localhost:8000"`
	Port          int           `env:"PORT"            env-default:"8080"`
	SessionDBPath string        `env:"SESSION_DB_PATH" env-default:"data/session.db"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT"    env-default:"30s"`

	CameraSource      string        `env:"CAMERA_SOURCE"       env-default:"webcam"` // webcam or udp
	CameraDevice      int           `env:"CAMERA_DEVICE"       env-default:"0"`
	CameraUDPAddr     string        `env:"CAMERA_UDP_ADDR"     env-default:":5005"`
	CaptureGatePeriod time.Duration `env:"CAPTURE_GATE_PERIOD" env-default:"1s"` // minimum time between two uploaded frames
	CaptureWidth      int           `env:"CAPTURE_WIDTH"       env-default:"640"`
	CaptureHeight     int           `env:"CAPTURE_HEIGHT"      env-default:"480"`

	PageSize          int    `env:"PAGE_SIZE"           env-default:"10"`
	PresentMinDefault int    `env:"PRESENT_MIN_DEFAULT" env-default:"1"`
	RefreshSchedule   string `env:"REFRESH_SCHEDULE"` // cron spec, empty disables scheduled refresh

	LogDirectory  string `env:"LOG_DIR"         env-default:"logs"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" env-default:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" env-default:"3"`
}

// Load reads an optional .env file (ENV_FILE, fallback "./.env") and then the
// process environment. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	explicitPath := path != ""
	if !explicitPath {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if explicitPath || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that would otherwise break the client at runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.CameraSource != CameraSourceWebcam && c.CameraSource != CameraSourceUDP {
		return fmt.Errorf("CAMERA_SOURCE must be %q or %q, got %q", CameraSourceWebcam, CameraSourceUDP, c.CameraSource)
	}
	if c.CaptureGatePeriod <= 0 {
		return fmt.Errorf("CAPTURE_GATE_PERIOD must be positive, got %s", c.CaptureGatePeriod)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.PresentMinDefault < 1 {
		return fmt.Errorf("PRESENT_MIN_DEFAULT must be at least 1, got %d", c.PresentMinDefault)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
