package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultServerURL = "http://localhost:1337"
	DefaultTimeout   = 10 * time.Second
	DefaultPort      = "8081"

	apiPrefix = "/api"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	RootURL          string        `yaml:"root_url" validate:"omitempty,url"`            // backend origin without /api
	LegacyAPIBaseURL string        `yaml:"legacy_api_base_url" validate:"omitempty,url"` // older deployments: origin with /api
	DevMode          bool          `yaml:"dev_mode"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	Port             string        `yaml:"port" validate:"required,numeric"`
	SecureCookies    bool          `yaml:"secure_cookies"`
	ExplicitAuth     bool          `yaml:"explicit_auth"` // when true every route declares its own auth flag
	LogLevel         string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogJSON          bool          `yaml:"log_json"`
	TokenFile        string        `yaml:"token_file"`
}

type Private struct {
	SessionKey string `yaml:"session_key"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Public: Public{
			Timeout:  DefaultTimeout,
			Port:     DefaultPort,
			LogLevel: "info",
		},
	}
}

func (c *Config) SessionKey() string {
	return c.private.SessionKey
}

// ServerURL is the backend root without the /api prefix (used by /ocr/* routes).
// RootURL wins, then LegacyAPIBaseURL with a trailing /api removed, then DefaultServerURL.
func (c *Config) ServerURL() string {
	root := DefaultServerURL
	switch {
	case c.Public.RootURL != "":
		root = c.Public.RootURL
	case c.Public.LegacyAPIBaseURL != "":
		root = strings.TrimSuffix(c.Public.LegacyAPIBaseURL, apiPrefix)
	}
	return strings.TrimRight(root, "/")
}

// APIURL is the backend root with the /api prefix.
func (c *Config) APIURL() string {
	return c.ServerURL() + apiPrefix
}

// ToAbsoluteURL resolves a backend-relative media URL against ServerURL.
// Input that cannot be parsed is returned as is.
func (c *Config) ToAbsoluteURL(rel string) string {
	base, err := url.Parse(c.ServerURL() + "/")
	if err != nil {
		return rel
	}
	ref, err := url.Parse(rel)
	if err != nil {
		return rel
	}
	return base.ResolveReference(ref).String()
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c.Public); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(envPath string) error {
	if envPath == "" {
		return nil
	}
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("config.godotenv(%s): %w", envPath, err)
	}
	return nil
}

func loadPath(configPath string, output interface{}) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads optional public.yaml and private.yaml from configFolder, applies
// environment overrides and validates the result.
func Load(configFolder string) (*Config, error) {
	return load(configFolder, os.LookupEnv)
}

func load(configFolder string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if configFolder != "" {
		if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
			return nil, err
		}
		if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.private); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
		*dst = b
		return nil
	}

	str("API_URL", &cfg.Public.RootURL)
	str("API_BASE_URL", &cfg.Public.LegacyAPIBaseURL)
	str("PORT", &cfg.Public.Port)
	str("LOG_LEVEL", &cfg.Public.LogLevel)
	str("TOKEN_FILE", &cfg.Public.TokenFile)
	str("SESSION_KEY", &cfg.private.SessionKey)

	for key, dst := range map[string]*bool{
		"DEV":            &cfg.Public.DevMode,
		"LOG_JSON":       &cfg.Public.LogJSON,
		"SECURE_COOKIES": &cfg.Public.SecureCookies,
		"EXPLICIT_AUTH":  &cfg.Public.ExplicitAuth,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup("NODE_ENV"); ok && v == "development" {
		cfg.Public.DevMode = true
	}

	if v, ok := lookup("API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid API_TIMEOUT=%q: %w", v, err)
		}
		cfg.Public.Timeout = d
	}
	if cfg.Public.DevMode && cfg.Public.LogLevel == "info" {
		cfg.Public.LogLevel = "debug"
	}
	return nil
}
