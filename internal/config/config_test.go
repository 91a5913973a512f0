package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/ladder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.UserCount, convey.ShouldEqual, 20_000)
			convey.So(cfg.SeedWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MinScore, convey.ShouldEqual, 100)
			convey.So(cfg.MaxScore, convey.ShouldEqual, 5000)
			convey.So(cfg.RebuildThreshold, convey.ShouldEqual, 50)
			convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 1000)
			convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 45)
			convey.So(cfg.MaxPageSize, convey.ShouldEqual, 100)
			convey.So(cfg.SearchMinPrefix, convey.ShouldEqual, 2)
			convey.So(cfg.SearchResultCap, convey.ShouldEqual, 1000)
			convey.So(cfg.AutoMutate, convey.ShouldBeTrue)
			convey.So(cfg.MutateMaxBatch, convey.ShouldEqual, 200)
			convey.So(cfg.MutateMaxDelta, convey.ShouldEqual, 200)
			convey.So(cfg.MutateMinIntervalMS, convey.ShouldEqual, 1000)
			convey.So(cfg.MutateMaxIntervalMS, convey.ShouldEqual, 10_000)
		})
	})
}
