package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CUSTODYKEEPER_"

type Config struct {
	BackendURL       string
	Port             string
	DBPath           string
	LogLevel         string
	StateKey         string
	HTTPTimeout      time.Duration
	HorizonMonths    int
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
	// AllowedOrigins are extra host patterns allowed to open the websocket.
	AllowedOrigins []string
	Archive        ArchiveConfig
}

// ArchiveConfig points at the S3-compatible bucket holding sealed export
// archives.
type ArchiveConfig struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	Keep       int
}

func Default() Config {
	return Config{
		Port:             "8080",
		DBPath:           "custodykeeper.db",
		LogLevel:         "info",
		HTTPTimeout:      15 * time.Second,
		HorizonMonths:    6,
		ReminderInterval: 5 * time.Minute,
		ReminderWindow:   24 * time.Hour,
		Archive:          ArchiveConfig{Region: "us-east-1", Keep: 10},
	}
}

// Load reads .env files (missing files are ignored) and then the
// CUSTODYKEEPER_* environment on top of the defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("BACKEND_URL"); ok {
		cfg.BackendURL = strings.TrimRight(v, "/")
	}
	if v, ok := get("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := get("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("STATE_KEY"); ok {
		cfg.StateKey = v
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	for key, dst := range map[string]*string{
		"ARCHIVE_ENDPOINT":   &cfg.Archive.Endpoint,
		"ARCHIVE_BUCKET":     &cfg.Archive.Bucket,
		"ARCHIVE_REGION":     &cfg.Archive.Region,
		"ARCHIVE_ACCESS_KEY": &cfg.Archive.AccessKey,
		"ARCHIVE_SECRET_KEY": &cfg.Archive.SecretKey,
		"ARCHIVE_KEY":        &cfg.Archive.Passphrase,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	var err error
	if v, ok := get("HTTP_TIMEOUT"); ok {
		if cfg.HTTPTimeout, err = parseDuration("HTTP_TIMEOUT", v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := get("REMINDER_INTERVAL"); ok {
		if cfg.ReminderInterval, err = parseDuration("REMINDER_INTERVAL", v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := get("REMINDER_WINDOW"); ok {
		if cfg.ReminderWindow, err = parseDuration("REMINDER_WINDOW", v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := get("RECURRENCE_HORIZON_MONTHS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%sRECURRENCE_HORIZON_MONTHS: want a positive integer, got %q", envPrefix, v)
		}
		cfg.HorizonMonths = n
	}
	if v, ok := get("ARCHIVE_KEEP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%sARCHIVE_KEEP: want a positive integer, got %q", envPrefix, v)
		}
		cfg.Archive.Keep = n
	}

	return cfg, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s%s: want a positive duration, got %q", envPrefix, key, v)
	}
	return d, nil
}

// RequireBackend checks that a usable backend URL is configured.
func (c Config) RequireBackend() error {
	if c.BackendURL == "" {
		return fmt.Errorf("%sBACKEND_URL is not set", envPrefix)
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%sBACKEND_URL: invalid url %q", envPrefix, c.BackendURL)
	}
	return nil
}

// APIBase is the backend's REST root.
func (c Config) APIBase() string {
	return c.BackendURL + "/api"
}

func (c Config) Addr() string {
	return ":" + c.Port
}
