package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. DEVDASH_ADDR.
const EnvPrefix = "DEVDASH_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DEVDASH_CONFIG is set
//  3. env (prefix DEVDASH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DEVDASH_POLL_INTERVAL_MS -> poll_interval_ms. Underscores are kept so
	// keys match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the binaries rely on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ServiceName) == "":
		return fmt.Errorf("%w: service_name must not be empty", ErrInvalidConfig)
	case c.UsersDelayMaxMS < 0 || c.CreateDelayMaxMS < 0:
		return fmt.Errorf("%w: delay bounds must not be negative", ErrInvalidConfig)
	case c.SlowDelayMinMS < 0 || c.SlowDelayMaxMS < c.SlowDelayMinMS:
		return fmt.Errorf("%w: slow delay range [%d, %d) is invalid", ErrInvalidConfig, c.SlowDelayMinMS, c.SlowDelayMaxMS)
	case c.SlowDelayMaxMS >= c.WriteTimeoutMS:
		return fmt.Errorf("%w: slow_delay_max_ms %d must be below write_timeout_ms %d", ErrInvalidConfig, c.SlowDelayMaxMS, c.WriteTimeoutMS)
	case c.PollIntervalMS <= 0:
		return fmt.Errorf("%w: poll_interval_ms must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api_base_url %q is not an absolute URL", ErrInvalidConfig, c.APIBaseURL)
	}
	return nil
}
