package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/devdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
			convey.So(cfg.ServiceName, convey.ShouldEqual, "devops-dashboard-api")
			convey.So(cfg.UsersDelayMaxMS, convey.ShouldEqual, 500)
			convey.So(cfg.CreateDelayMaxMS, convey.ShouldEqual, 1000)
			convey.So(cfg.SlowDelayMinMS, convey.ShouldEqual, 2000)
			convey.So(cfg.SlowDelayMaxMS, convey.ShouldEqual, 5000)
			convey.So(cfg.PollInterval(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.WriteTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"*"})
			convey.So(cfg.MetricsURL(), convey.ShouldEqual, "http://localhost:3001/metrics")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "http://localhost:3001")
				convey.So(cfg.PollIntervalMS, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DEVDASH_ADDR", ":8081")
			_ = os.Setenv("DEVDASH_SERVICE_NAME", "demo-api")
			_ = os.Setenv("DEVDASH_POLL_INTERVAL_MS", "1000")
			_ = os.Setenv("DEVDASH_CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.ServiceName, convey.ShouldEqual, "demo-api")
				convey.So(cfg.PollInterval(), convey.ShouldEqual, time.Second)
				convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
slow_delay_min_ms: 100
slow_delay_max_ms: 200
grafana_url: "http://grafana.internal"
environment: "Staging"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DEVDASH_CONFIG", tmpFile)
			_ = os.Setenv("DEVDASH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                     // env
				convey.So(cfg.SlowDelayMinMS, convey.ShouldEqual, 100)              // file
				convey.So(cfg.SlowDelayMaxMS, convey.ShouldEqual, 200)              // file
				convey.So(cfg.GrafanaURL, convey.ShouldEqual, "http://grafana.internal")
				convey.So(cfg.Environment, convey.ShouldEqual, "Staging")
				convey.So(cfg.UsersDelayMaxMS, convey.ShouldEqual, 500)             // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DEVDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DEVDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DEVDASH_POLL_INTERVAL_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := map[string]map[string]string{
			"empty addr":          {"DEVDASH_ADDR": ""},
			"empty service name":  {"DEVDASH_SERVICE_NAME": " "},
			"inverted slow range": {"DEVDASH_SLOW_DELAY_MIN_MS": "300", "DEVDASH_SLOW_DELAY_MAX_MS": "100"},
			"negative delay":      {"DEVDASH_USERS_DELAY_MAX_MS": "-1"},
			"slow beyond write":   {"DEVDASH_SLOW_DELAY_MAX_MS": "10000"},
			"short write timeout": {"DEVDASH_WRITE_TIMEOUT_MS": "3000"},
			"zero poll interval":  {"DEVDASH_POLL_INTERVAL_MS": "0"},
			"relative base url":   {"DEVDASH_API_BASE_URL": "localhost"},
		}

		for name, env := range cases {
			convey.Convey("When loading with "+name, func() {
				for k, v := range env {
					_ = os.Setenv(k, v)
				}
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(cfg, convey.ShouldBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "devdash-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
