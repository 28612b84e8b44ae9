package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupMap(nil))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupMap(map[string]string{
		"CUSTODYKEEPER_BACKEND_URL":               "https://ck.example.com/",
		"CUSTODYKEEPER_PORT":                      "9000",
		"CUSTODYKEEPER_DB_PATH":                   "/tmp/ck.db",
		"CUSTODYKEEPER_LOG_LEVEL":                 "debug",
		"CUSTODYKEEPER_STATE_KEY":                 "s3cret",
		"CUSTODYKEEPER_HTTP_TIMEOUT":              "30s",
		"CUSTODYKEEPER_RECURRENCE_HORIZON_MONTHS": "12",
		"CUSTODYKEEPER_REMINDER_INTERVAL":         "1m",
		"CUSTODYKEEPER_REMINDER_WINDOW":           "48h",
		"CUSTODYKEEPER_ALLOWED_ORIGINS":           "app.example.com, *.example.org,",
		"CUSTODYKEEPER_ARCHIVE_BUCKET":            "records",
		"CUSTODYKEEPER_ARCHIVE_ENDPOINT":          "https://s3.example.com",
		"CUSTODYKEEPER_ARCHIVE_ACCESS_KEY":        "AK",
		"CUSTODYKEEPER_ARCHIVE_SECRET_KEY":        "SK",
		"CUSTODYKEEPER_ARCHIVE_KEY":               "pass",
		"CUSTODYKEEPER_ARCHIVE_KEEP":              "3",
	}))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	want := Config{
		BackendURL:       "https://ck.example.com",
		Port:             "9000",
		DBPath:           "/tmp/ck.db",
		LogLevel:         "debug",
		StateKey:         "s3cret",
		HTTPTimeout:      30 * time.Second,
		HorizonMonths:    12,
		ReminderInterval: time.Minute,
		ReminderWindow:   48 * time.Hour,
		AllowedOrigins:   []string{"app.example.com", "*.example.org"},
		Archive: ArchiveConfig{
			Endpoint:   "https://s3.example.com",
			Bucket:     "records",
			Region:     "us-east-1",
			AccessKey:  "AK",
			SecretKey:  "SK",
			Passphrase: "pass",
			Keep:       3,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.APIBase(); got != "https://ck.example.com/api" {
		t.Errorf("APIBase = %q", got)
	}
	if got := cfg.Addr(); got != ":9000" {
		t.Errorf("Addr = %q", got)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		"CUSTODYKEEPER_HTTP_TIMEOUT":              "soon",
		"CUSTODYKEEPER_REMINDER_INTERVAL":         "-5m",
		"CUSTODYKEEPER_REMINDER_WINDOW":           "0s",
		"CUSTODYKEEPER_RECURRENCE_HORIZON_MONTHS": "0",
		"CUSTODYKEEPER_ARCHIVE_KEEP":              "none",
	}
	for key, val := range tests {
		if _, err := FromEnv(lookupMap(map[string]string{key: val})); err == nil {
			t.Errorf("%s=%q: expected error", key, val)
		}
	}
}

func TestRequireBackend(t *testing.T) {
	if err := (Config{}).RequireBackend(); err == nil {
		t.Error("expected error for missing backend url")
	}
	if err := (Config{BackendURL: "not a url"}).RequireBackend(); err == nil {
		t.Error("expected error for invalid backend url")
	}
	if err := (Config{BackendURL: "http://localhost:8001"}).RequireBackend(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CUSTODYKEEPER_PORT=7070\n"), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CUSTODYKEEPER_PORT", "")
	os.Unsetenv("CUSTODYKEEPER_PORT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want 7070", cfg.Port)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}
