package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/homespark/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/catalog.json")
				convey.So(cfg.MinCandidates, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HOMESPARK_ADDR", ":8080")
			_ = os.Setenv("HOMESPARK_CATALOG_PATH", "/srv/catalog.db")
			_ = os.Setenv("HOMESPARK_CATALOG_SOURCE", "sqlite")
			_ = os.Setenv("HOMESPARK_MIN_CANDIDATES", "8")
			_ = os.Setenv("HOMESPARK_FALLBACK_SEED", "42")
			_ = os.Setenv("HOMESPARK_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/srv/catalog.db")
				convey.So(cfg.CatalogSource, convey.ShouldEqual, "sqlite")
				convey.So(cfg.MinCandidates, convey.ShouldEqual, 8)
				convey.So(cfg.FallbackSeed, convey.ShouldEqual, 42)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# service
addr: ":9090"  # inline
log_format: json
catalog_max_cost: 800
max_results_limit: 10
cors_allowed_origins:
  - https://homespark.example
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("HOMESPARK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CatalogMaxCost, convey.ShouldEqual, 800)
				convey.So(cfg.MaxResultsLimit, convey.ShouldEqual, 10)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://homespark.example"})
				convey.So(cfg.DefaultMaxResults, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nmin_candidates: 7\n")
			_ = os.Setenv("HOMESPARK_CONFIG", tmpFile)
			_ = os.Setenv("HOMESPARK_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.MinCandidates, convey.ShouldEqual, 7) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("HOMESPARK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("HOMESPARK_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("HOMESPARK_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("HOMESPARK_MIN_CANDIDATES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx)
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"HOMESPARK_CONFIG",
		"HOMESPARK_ADDR",
		"HOMESPARK_CATALOG_PATH",
		"HOMESPARK_CATALOG_SOURCE",
		"HOMESPARK_MIN_CANDIDATES",
		"HOMESPARK_FALLBACK_SEED",
		"HOMESPARK_CORS_ALLOWED_ORIGINS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "homespark-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
