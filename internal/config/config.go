package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "internhunt"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	HistoryFileName = "seen.json"
)

var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

type Config struct {
	Listen         string         `json:"listen"`
	AllowedOrigins []string       `json:"allowed_origins"`
	Store          StoreConfig    `json:"store"`
	SMS            SMSConfig      `json:"sms"`
	Telegram       TelegramConfig `json:"telegram"`
	LinkedIn       LinkedInConfig `json:"linkedin"`
	Browser        BrowserConfig  `json:"browser"`
	Search         SearchConfig   `json:"search"`
}

type StoreConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

type SMSConfig struct {
	AccountSID    string `json:"account_sid"`
	AuthToken     string `json:"auth_token,omitempty"`
	From          string `json:"from"`
	CountryPrefix string `json:"country_prefix"`
}

type TelegramConfig struct {
	Token  string `json:"token,omitempty"`
	ChatID int64  `json:"chat_id"`
}

// LinkedInConfig holds the scripted-login account. The password is usually
// kept in the OS keyring rather than in the file.
type LinkedInConfig struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type BrowserConfig struct {
	Enabled  bool `json:"enabled"`
	Headless bool `json:"headless"`
}

type SearchConfig struct {
	Sites                 []string `json:"sites"`
	AdapterTimeoutSeconds int      `json:"adapter_timeout_seconds"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds"`
	HTTPTimeoutSeconds    int      `json:"http_timeout_seconds"`
	MaxResults            int      `json:"max_results"`
	PerSourceLimit        int      `json:"per_source_limit"`
	HostRatePerSecond     float64  `json:"host_rate_per_second"`
	LoginDelayMinMs       int      `json:"login_delay_min_ms"`
	LoginDelayMaxMs       int      `json:"login_delay_max_ms"`
	ScrollDelayMinMs      int      `json:"scroll_delay_min_ms"`
	ScrollDelayMaxMs      int      `json:"scroll_delay_max_ms"`
}

func DefaultConfig() Config {
	return Config{
		Listen:         "127.0.0.1:3001",
		AllowedOrigins: append([]string{}, DefaultAllowedOrigins...),
		Store:          StoreConfig{Driver: "sqlite"},
		SMS:            SMSConfig{CountryPrefix: "+91"},
		Browser:        BrowserConfig{Enabled: true, Headless: true},
		Search: SearchConfig{
			AdapterTimeoutSeconds: 45,
			RequestTimeoutSeconds: 120,
			HTTPTimeoutSeconds:    10,
			MaxResults:            10,
			PerSourceLimit:        10,
			HostRatePerSecond:     1,
			LoginDelayMinMs:       2000,
			LoginDelayMaxMs:       4000,
			ScrollDelayMinMs:      1000,
			ScrollDelayMaxMs:      3000,
		},
	}
}

func (s SearchConfig) AdapterTimeout() time.Duration {
	return seconds(s.AdapterTimeoutSeconds, 45)
}

func (s SearchConfig) RequestTimeout() time.Duration {
	return seconds(s.RequestTimeoutSeconds, 120)
}

func (s SearchConfig) HTTPTimeout() time.Duration {
	return seconds(s.HTTPTimeoutSeconds, 10)
}

func seconds(value int, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}

func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("INTERNHUNT_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	return inConfigDir(ConfigFileName)
}

func ProxiesPath() (string, error) {
	return inConfigDir(ProxiesFileName)
}

func HistoryPath() (string, error) {
	return inConfigDir(HistoryFileName)
}

func inConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Load layers the config file, any .env files, the process environment and
// finally the keyring. Missing files are not an error.
func Load(envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if err := readFile(path, &cfg); err != nil {
		return cfg, err
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.LinkedIn.Password == "" && cfg.LinkedIn.Email != "" {
		if pw, err := LinkedInPassword(cfg.LinkedIn.Email); err == nil {
			cfg.LinkedIn.Password = pw
		}
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return json5.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Listen = envString("INTERNHUNT_LISTEN", cfg.Listen)
	if origins := envString("INTERNHUNT_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}

	if dsn := envString("DATABASE_URL", ""); dsn != "" {
		cfg.Store = StoreConfig{Driver: "postgres", DSN: dsn}
	}
	cfg.Store.Driver = envString("INTERNHUNT_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = envString("INTERNHUNT_STORE_DSN", cfg.Store.DSN)

	cfg.SMS.AccountSID = envString("TWILIO_ACCOUNT_SID", cfg.SMS.AccountSID)
	cfg.SMS.AuthToken = envString("TWILIO_AUTH_TOKEN", cfg.SMS.AuthToken)
	cfg.SMS.From = envString("TWILIO_PHONE_NUMBER", cfg.SMS.From)
	cfg.SMS.CountryPrefix = envString("INTERNHUNT_SMS_COUNTRY_PREFIX", cfg.SMS.CountryPrefix)

	cfg.Telegram.Token = envString("TELEGRAM_BOT_TOKEN", cfg.Telegram.Token)
	cfg.Telegram.ChatID = envInt64("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)

	cfg.LinkedIn.Email = envString("LINKEDIN_EMAIL", cfg.LinkedIn.Email)
	cfg.LinkedIn.Password = envString("LINKEDIN_PASSWORD", cfg.LinkedIn.Password)

	cfg.Browser.Enabled = envBool("INTERNHUNT_BROWSER", cfg.Browser.Enabled)
	cfg.Browser.Headless = envBool("INTERNHUNT_HEADLESS", cfg.Browser.Headless)

	if sites := envString("INTERNHUNT_SITES", ""); sites != "" {
		cfg.Search.Sites = splitCSV(sites)
	}
	cfg.Search.AdapterTimeoutSeconds = envInt("INTERNHUNT_ADAPTER_TIMEOUT", cfg.Search.AdapterTimeoutSeconds)
	cfg.Search.RequestTimeoutSeconds = envInt("INTERNHUNT_REQUEST_TIMEOUT", cfg.Search.RequestTimeoutSeconds)
	cfg.Search.MaxResults = envInt("INTERNHUNT_MAX_RESULTS", cfg.Search.MaxResults)
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("INTERNHUNT_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
