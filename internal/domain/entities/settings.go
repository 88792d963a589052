package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultSecurityModel   = "gemini-2.5-flash"
	defaultSecurityTimeout = 60 * time.Second
	defaultResolverTimeout = 15 * time.Second
	defaultCacheSize       = 1024
)

// Settings is the top-level configuration for safeupdate. It is loaded once
// and handed explicitly to the commands that need it.
type Settings struct {
	Providers     []ProviderConfig           `yaml:"providers"`
	Ecosystems    map[string]EcosystemConfig `yaml:"ecosystems"`
	Security      SecurityConfig             `yaml:"security"`
	Policy        PolicyConfig               `yaml:"policy"`
	Report        ReportConfig               `yaml:"report"`
	Metrics       MetricsConfig              `yaml:"metrics"`
	Notifications NotificationsConfig        `yaml:"notifications"`
	Resolver      ResolverConfig             `yaml:"resolver"`
	TargetBranch  string                     `yaml:"target_branch"`
}

// ProviderConfig describes a single Git hosting provider instance.
type ProviderConfig struct {
	Type          string   `yaml:"type"`          // "github", "gitlab"
	Token         string   `yaml:"token"`         // Inline, ${ENV_VAR}, or file path
	Organizations []string `yaml:"organizations"` // Org, group or user names
}

// EcosystemConfig holds per-ecosystem settings.
type EcosystemConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SecurityConfig configures the security-advisory oracle.
type SecurityConfig struct {
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// PolicyConfig holds the optional approval policy expression.
type PolicyConfig struct {
	Expression string `yaml:"expression"`
}

// ReportConfig controls where audit reports are persisted.
type ReportConfig struct {
	Directory       string `yaml:"directory"`
	HistoryDatabase string `yaml:"history_database"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotificationsConfig controls the end-of-run notification.
type NotificationsConfig struct {
	SlackWebhook string `yaml:"slack_webhook"`
}

// ResolverConfig tunes the registry lookups.
type ResolverConfig struct {
	CacheSize int           `yaml:"cache_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for i := range settings.Providers {
		settings.Providers[i].Token = resolveToken(settings.Providers[i].Token)
	}
	settings.Security.APIKey = resolveToken(settings.Security.APIKey)
	settings.Notifications.SlackWebhook = resolveToken(settings.Notifications.SlackWebhook)
	settings.ApplyDefaults()

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// SettingsLoader loads settings from an explicit path, or discovers a config
// file when the path is empty.
type SettingsLoader func(path string) (*Settings, error)

// LoadSettings is the default SettingsLoader. When no path is given and no
// config file is found, DefaultSettings is returned.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return DefaultSettings(), nil
		}
		path = found
	}
	logger.Infof("Using config file: %s", path)
	return NewSettings(path)
}

// DefaultSettings returns the settings used when no config file is present.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults fills unset optional values.
func (s *Settings) ApplyDefaults() {
	if s.Security.Model == "" {
		s.Security.Model = defaultSecurityModel
	}
	if s.Security.Timeout <= 0 {
		s.Security.Timeout = defaultSecurityTimeout
	}
	if s.Security.APIKey == "" {
		s.Security.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	if s.Resolver.CacheSize <= 0 {
		s.Resolver.CacheSize = defaultCacheSize
	}
	if s.Resolver.Timeout <= 0 {
		s.Resolver.Timeout = defaultResolverTimeout
	}
	if s.Notifications.SlackWebhook == "" {
		s.Notifications.SlackWebhook = os.Getenv("SLACK_WEBHOOK_URL")
	}
}

// EcosystemEnabled returns false only when the ecosystem is explicitly disabled.
func (s *Settings) EcosystemEnabled(ecosystem Ecosystem) bool {
	cfg, ok := s.Ecosystems[ecosystem.String()]
	return !ok || cfg.Enabled
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".safeupdate.yaml",
		".safeupdate.yml",
		"safeupdate.yaml",
		"safeupdate.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if resolved == "" || strings.Contains(resolved, "://") {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values. An empty provider list
// is valid here: scan mode only needs a token, batch mode rejects it later.
func validate(settings *Settings) error {
	for i, p := range settings.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if p.Token == "" {
			return fmt.Errorf(
				"providers[%d].token is required (set inline, via ${ENV_VAR}, or as file path)",
				i,
			)
		}
		if len(p.Organizations) == 0 {
			return fmt.Errorf(
				"providers[%d].organizations must have at least one entry",
				i,
			)
		}
	}

	for name := range settings.Ecosystems {
		switch Ecosystem(name) {
		case EcosystemNpm, EcosystemPython, EcosystemGo, EcosystemTerraform:
		default:
			return fmt.Errorf("ecosystems.%s is not a supported ecosystem", name)
		}
	}

	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
