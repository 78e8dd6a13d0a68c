package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyAPIBaseURL         = "api.base_url"
	KeyAPITimeout         = "api.timeout"
	KeyLogoutTimeout      = "session.logout_timeout"
	KeyDashboardLimit     = "dashboard.limit"
	KeyCostDays           = "costs.days"
	KeyConversationWindow = "conversation.window"
	KeyConversationPath   = "conversation.path"
	KeySnapshotPath       = "dashboard.snapshot_path"
	KeyLedgerPath         = "ledger.path"
	KeySecretsDir         = "secrets.dir"
	KeySecretsBackend     = "secrets.backend"
	KeyLogLevel           = "log.level"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".opsc"
	envPrefix  = "OPSC"
)

// Secret backends.
const (
	SecretsBackendAuto = "auto"
	SecretsBackendPass = "pass"
	SecretsBackendFile = "file"
)

type Config struct {
	APIBaseURL         string
	APITimeout         time.Duration
	LogoutTimeout      time.Duration
	DashboardLimit     int
	CostDays           int
	ConversationWindow int
	ConversationPath   string
	SnapshotPath       string
	LedgerPath         string
	SecretsDir         string
	SecretsBackend     string
	LogLevel           string
}

// Load layers defaults, ~/.opsc/config.toml and OPSC_* environment
// variables onto v. A missing config file is fine.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	base := filepath.Join(homeDir, configDir)

	v.SetDefault(KeyAPIBaseURL, "http://127.0.0.1:8000")
	v.SetDefault(KeyAPITimeout, 60*time.Second)
	v.SetDefault(KeyLogoutTimeout, 5*time.Second)
	v.SetDefault(KeyDashboardLimit, 20)
	v.SetDefault(KeyCostDays, 30)
	v.SetDefault(KeyConversationWindow, 8)
	v.SetDefault(KeyConversationPath, filepath.Join(base, "conversation.toml"))
	v.SetDefault(KeySnapshotPath, filepath.Join(base, "dashboard.toml"))
	v.SetDefault(KeyLedgerPath, filepath.Join(base, "runs.db"))
	v.SetDefault(KeySecretsDir, filepath.Join(base, "secrets"))
	v.SetDefault(KeySecretsBackend, SecretsBackendAuto)
	v.SetDefault(KeyLogLevel, "warn")

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(base)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		APIBaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
		APITimeout:         v.GetDuration(KeyAPITimeout),
		LogoutTimeout:      v.GetDuration(KeyLogoutTimeout),
		DashboardLimit:     v.GetInt(KeyDashboardLimit),
		CostDays:           v.GetInt(KeyCostDays),
		ConversationWindow: v.GetInt(KeyConversationWindow),
		ConversationPath:   v.GetString(KeyConversationPath),
		SnapshotPath:       v.GetString(KeySnapshotPath),
		LedgerPath:         v.GetString(KeyLedgerPath),
		SecretsDir:         v.GetString(KeySecretsDir),
		SecretsBackend:     strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsBackend))),
		LogLevel:           v.GetString(KeyLogLevel),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid %s %q: want an http(s) URL", KeyAPIBaseURL, c.APIBaseURL)
	}
	if c.DashboardLimit <= 0 {
		return fmt.Errorf("invalid %s %d: must be positive", KeyDashboardLimit, c.DashboardLimit)
	}
	if c.CostDays <= 0 {
		return fmt.Errorf("invalid %s %d: must be positive", KeyCostDays, c.CostDays)
	}
	if c.ConversationWindow < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyConversationWindow, c.ConversationWindow)
	}
	switch c.SecretsBackend {
	case SecretsBackendAuto, SecretsBackendPass, SecretsBackendFile:
	default:
		return fmt.Errorf("invalid %s %q: want auto, pass or file", KeySecretsBackend, c.SecretsBackend)
	}
	return nil
}
