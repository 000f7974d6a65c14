package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("INTERNHUNT_CONFIG_DIR", dir)
	for _, key := range []string{
		"DATABASE_URL", "INTERNHUNT_LISTEN", "INTERNHUNT_STORE_DRIVER", "INTERNHUNT_STORE_DSN",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER", "LINKEDIN_EMAIL",
		"LINKEDIN_PASSWORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "INTERNHUNT_BROWSER",
		"INTERNHUNT_ADAPTER_TIMEOUT", "INTERNHUNT_PROXIES",
	} {
		t.Setenv(key, "")
	}
	keyring.MockInit()
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:3001" {
		t.Fatalf("Listen = %q", cfg.Listen)
	}
	if cfg.Search.AdapterTimeout() != 45*time.Second || cfg.Search.RequestTimeout() != 120*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.Search)
	}
	if cfg.Search.HTTPTimeout() != 10*time.Second || cfg.Search.MaxResults != 10 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if !cfg.Browser.Enabled || cfg.SMS.CountryPrefix != "+91" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadLayersFileEnvFileAndEnv(t *testing.T) {
	dir := isolate(t)

	file := `{
  // json5 comments are fine
  listen: "0.0.0.0:9000",
  search: {max_results: 5, adapter_timeout_seconds: 30},
  linkedin: {email: "bot@example.com"},
}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(file), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("TWILIO_ACCOUNT_SID=AC123\nTWILIO_PHONE_NUMBER=+15550001111\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	os.Unsetenv("TWILIO_ACCOUNT_SID")
	os.Unsetenv("TWILIO_PHONE_NUMBER")
	t.Setenv("INTERNHUNT_ADAPTER_TIMEOUT", "20")
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example.com:5432/app")

	if err := SetLinkedInPassword("bot@example.com", "s3cret"); err != nil {
		t.Fatalf("SetLinkedInPassword() error = %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" || cfg.Search.MaxResults != 5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Search.AdapterTimeoutSeconds != 20 {
		t.Fatalf("env override not applied: %d", cfg.Search.AdapterTimeoutSeconds)
	}
	if cfg.SMS.AccountSID != "AC123" || cfg.SMS.From != "+15550001111" {
		t.Fatalf(".env values not applied: %+v", cfg.SMS)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN == "" {
		t.Fatalf("DATABASE_URL not applied: %+v", cfg.Store)
	}
	if cfg.LinkedIn.Password != "s3cret" {
		t.Fatalf("keyring password not applied")
	}
}

func TestInitCreatesFiles(t *testing.T) {
	isolate(t)
	created, err := Init()
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 files, got %v", created)
	}
	again, err := Init()
	if err != nil || len(again) != 0 {
		t.Fatalf("second Init() = %v, %v", again, err)
	}
}

func TestLoadProxies(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ProxiesFileName), []byte("# comment\nhttp://p1:8080\n\nhttp://p2:8080\n"), 0o644); err != nil {
		t.Fatalf("write proxies: %v", err)
	}

	got, err := LoadProxies("")
	if err != nil || len(got) != 2 {
		t.Fatalf("LoadProxies() = %v, %v", got, err)
	}
	got, _ = LoadProxies("http://a:1, http://b:2")
	if len(got) != 2 || got[1] != "http://b:2" {
		t.Fatalf("flag proxies = %v", got)
	}
}
