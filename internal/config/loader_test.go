package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/ladder/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.UserCount, convey.ShouldEqual, 20_000)
				convey.So(cfg.MinScore, convey.ShouldEqual, 100)
				convey.So(cfg.MaxScore, convey.ShouldEqual, 5000)
				convey.So(cfg.RebuildThreshold, convey.ShouldEqual, 50)
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 45)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LADDER_ADDR", ":8080")
			_ = os.Setenv("LADDER_USER_COUNT", "5000")
			_ = os.Setenv("LADDER_REBUILD_THRESHOLD", "25")
			_ = os.Setenv("LADDER_CACHE_TTL_MS", "500")
			_ = os.Setenv("LADDER_AUTO_MUTATE", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.UserCount, convey.ShouldEqual, 5000)
				convey.So(cfg.RebuildThreshold, convey.ShouldEqual, 25)
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 500)
				convey.So(cfg.AutoMutate, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
user_count: 1000
min_score: 0
max_score: 10000
rebuild_threshold: 10
default_page_size: 20
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LADDER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.UserCount, convey.ShouldEqual, 1000)
				convey.So(cfg.MinScore, convey.ShouldEqual, 0)
				convey.So(cfg.MaxScore, convey.ShouldEqual, 10000)
				convey.So(cfg.RebuildThreshold, convey.ShouldEqual, 10)
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
user_count: 1000
rebuild_threshold: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LADDER_CONFIG", tmpFile)
			_ = os.Setenv("LADDER_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("LADDER_USER_COUNT", "2500") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")          // Overridden by env
				convey.So(cfg.UserCount, convey.ShouldEqual, 2500)        // Overridden by env
				convey.So(cfg.RebuildThreshold, convey.ShouldEqual, 10)   // From file
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("LADDER_CONFIG", "/nonexistent/ladder.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "load config failed")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("LADDER_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When user_count is not positive", func() {
			_ = os.Setenv("LADDER_USER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "user_count must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the score range is inverted", func() {
			_ = os.Setenv("LADDER_MIN_SCORE", "5000")
			_ = os.Setenv("LADDER_MAX_SCORE", "100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_score must be below max_score")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When rebuild_threshold is not positive", func() {
			_ = os.Setenv("LADDER_REBUILD_THRESHOLD", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rebuild_threshold must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the mutation interval range is inverted", func() {
			_ = os.Setenv("LADDER_MUTATE_MIN_INTERVAL_MS", "10000")
			_ = os.Setenv("LADDER_MUTATE_MAX_INTERVAL_MS", "1000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "mutate_min_interval_ms must not exceed")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"LADDER_CONFIG",
		"LADDER_ADDR",
		"LADDER_USER_COUNT",
		"LADDER_MIN_SCORE",
		"LADDER_MAX_SCORE",
		"LADDER_REBUILD_THRESHOLD",
		"LADDER_CACHE_TTL_MS",
		"LADDER_AUTO_MUTATE",
		"LADDER_MUTATE_MIN_INTERVAL_MS",
		"LADDER_MUTATE_MAX_INTERVAL_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "ladder-config-*.yaml")
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
