package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// Environment variables that override the config file.
const (
	EnvAPIBase     = "SHIFTDESK_API_BASE"
	EnvCredentials = "SHIFTDESK_CREDENTIALS"
	EnvPageSize    = "SHIFTDESK_PAGE_SIZE"
)

// Credential backends
const (
	CredentialsKeyring = "keyring"
	CredentialsSQLite  = "sqlite"
	CredentialsMemory  = "memory"
)

// LocalAPIBase asks the client to discover a running stub backend.
const LocalAPIBase = "local"

// Config is the client configuration.
type Config struct {
	APIBase         string        `yaml:"api_base"`
	Credentials     string        `yaml:"credentials"`
	CredentialsPath string        `yaml:"credentials_path"`
	PageSize        int           `yaml:"page_size"`
	Timeout         time.Duration `yaml:"timeout"`
	RedirectDelay   time.Duration `yaml:"redirect_delay"`

	// Dir is the directory holding the config file, logs and credentials.
	Dir string `yaml:"-"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		Credentials:     constants.DefaultCredentialKind,
		CredentialsPath: filepath.Join(dir, constants.DefaultCredentials),
		PageSize:        constants.DefaultPageSize,
		Timeout:         constants.DefaultTimeout,
		RedirectDelay:   constants.DefaultRedirectDelay,
		Dir:             dir,
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvAPIBase); ok {
		c.APIBase = v
	}
	if v, ok := os.LookupEnv(EnvCredentials); ok && strings.TrimSpace(v) != "" {
		c.Credentials = v
	}
	if v, ok := os.LookupEnv(EnvPageSize); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPageSize, v, err)
		}
		c.PageSize = n
	}
	return nil
}

// Normalize validates the configuration and fills zero values.
func (c *Config) Normalize() error {
	c.APIBase = NormalizeBase(c.APIBase)
	c.Credentials = strings.ToLower(strings.TrimSpace(c.Credentials))
	if c.Credentials == "" {
		c.Credentials = constants.DefaultCredentialKind
	}
	switch c.Credentials {
	case CredentialsKeyring, CredentialsSQLite, CredentialsMemory:
	default:
		return fmt.Errorf("unknown credentials backend %q (want keyring, sqlite or memory)", c.Credentials)
	}
	if c.PageSize <= 0 {
		c.PageSize = constants.DefaultPageSize
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultTimeout
	}
	if c.RedirectDelay < 0 {
		c.RedirectDelay = constants.DefaultRedirectDelay
	}
	if c.CredentialsPath == "" {
		c.CredentialsPath = filepath.Join(c.Dir, constants.DefaultCredentials)
	}
	expanded, err := ExpandPath(c.CredentialsPath)
	if err != nil {
		return err
	}
	c.CredentialsPath = expanded
	return nil
}

// NormalizeBase trims the base address and drops one trailing slash.
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	return strings.TrimSuffix(base, "/")
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
