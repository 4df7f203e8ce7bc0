package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/querykiln/kiln/internal/logger"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "KILN"

	configName = "config"
	configType = "toml"
	appDirName = "querykiln"

	licenseFile  = "querykiln-license.toml"
	settingsFile = "querykiln-store.toml"
)

const (
	KeyAPIBaseURL         = "api.base_url"
	KeyAPITimeout         = "api.timeout"
	KeyDataDir            = "data_dir"
	KeyLicenseDevMode     = "license.dev_mode"
	KeyLicenseDevKey      = "license.dev_key"
	KeySecretsBackend     = "secrets.backend"
	KeyUpdateFeedURL      = "update.feed_url"
	KeyUpdateStartupDelay = "update.startup_delay"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
	KeyServeAddr          = "serve.addr"
)

const (
	DefaultBaseURL = "https://querykiln-api.gerkinonfire.workers.dev"
	DefaultDevKey  = "D3V-K3Y-1313"
	DefaultAddr    = "127.0.0.1:4650"
)

const (
	SecretsChain  = "chain"
	SecretsFile   = "file"
	SecretsInline = "inline"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	DataDir string        `mapstructure:"data_dir"`
	License LicenseConfig `mapstructure:"license"`
	Secrets SecretsConfig `mapstructure:"secrets"`
	Update  UpdateConfig  `mapstructure:"update"`
	Log     LogConfig     `mapstructure:"log"`
	Serve   ServeConfig   `mapstructure:"serve"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LicenseConfig struct {
	DevMode bool   `mapstructure:"dev_mode"`
	DevKey  string `mapstructure:"dev_key"`
}

type SecretsConfig struct {
	Backend string `mapstructure:"backend"`
}

type UpdateConfig struct {
	FeedURL      string        `mapstructure:"feed_url"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load resolves configuration from defaults, an optional config.toml in the
// data dir, .env files and KILN_* environment variables, in increasing order
// of precedence.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}

	defaultDataDir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}

	cfg.SetEnvPrefix(EnvPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyAPIBaseURL, DefaultBaseURL)
	cfg.SetDefault(KeyAPITimeout, time.Duration(0))
	cfg.SetDefault(KeyDataDir, defaultDataDir)
	cfg.SetDefault(KeyLicenseDevMode, false)
	cfg.SetDefault(KeyLicenseDevKey, DefaultDevKey)
	cfg.SetDefault(KeySecretsBackend, SecretsChain)
	cfg.SetDefault(KeyUpdateFeedURL, "")
	cfg.SetDefault(KeyUpdateStartupDelay, 1200*time.Millisecond)
	cfg.SetDefault(KeyLogLevel, "warn")
	cfg.SetDefault(KeyLogFormat, "console")
	cfg.SetDefault(KeyServeAddr, DefaultAddr)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(cfg.GetString(KeyDataDir))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var out Config
	if err := cfg.Unmarshal(&out); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	dataDir, err := filepath.Abs(out.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	out.DataDir = filepath.Clean(dataDir)

	if err := out.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return out, nil
}

func (c Config) Validate() error {
	var errs []error

	if err := validateHTTPURL(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyAPIBaseURL, err))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyAPITimeout))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, fmt.Errorf("%s is empty", KeyDataDir))
	}
	if c.License.DevMode && strings.TrimSpace(c.License.DevKey) == "" {
		errs = append(errs, fmt.Errorf("%s is empty while dev mode is enabled", KeyLicenseDevKey))
	}
	switch c.Secrets.Backend {
	case SecretsChain, SecretsFile, SecretsInline:
	default:
		errs = append(errs, fmt.Errorf("%s must be one of chain, file, inline; got %q", KeySecretsBackend, c.Secrets.Backend))
	}
	if c.Update.FeedURL != "" {
		if err := validateHTTPURL(c.Update.FeedURL); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyUpdateFeedURL, err))
		}
	}
	if c.Update.StartupDelay < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyUpdateStartupDelay))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		errs = append(errs, fmt.Errorf("%s is empty", KeyServeAddr))
	}

	return errors.Join(errs...)
}

func (c Config) LicensePath() string {
	return filepath.Join(c.DataDir, licenseFile)
}

func (c Config) SettingsPath() string {
	return filepath.Join(c.DataDir, settingsFile)
}

func (c Config) SecretsDir() string {
	return filepath.Join(c.DataDir, "secrets")
}

func (c Config) DownloadDir() string {
	return filepath.Join(c.DataDir, "updates")
}

// ServeTokenPath is where kiln serve publishes its bearer token for local
// clients. The file exists only while the server runs.
func (c Config) ServeTokenPath() string {
	return filepath.Join(c.DataDir, "serve.token")
}

// loadEnvFiles reads KILN_ENV_FILE when set, then ./.env. Variables already
// present in the environment are never overridden.
func loadEnvFiles() error {
	var files []string
	if explicit := os.Getenv(EnvPrefix + "_ENV_FILE"); explicit != "" {
		files = append(files, explicit)
	}
	files = append(files, ".env")

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat env file %s: %w", file, err)
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	return nil
}

func defaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("resolve config directory: %w", errors.Join(err, homeErr))
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, appDirName), nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("url host is required")
	}
	return nil
}
