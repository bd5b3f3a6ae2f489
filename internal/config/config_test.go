package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/rankvote/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StrictRankings, convey.ShouldBeTrue)
			convey.So(cfg.Methods, convey.ShouldResemble, []string{"plurality", "borda", "pairwise"})
			convey.So(cfg.TallyWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxCandidates, convey.ShouldEqual, 64)
			convey.So(cfg.MaxBallots, convey.ShouldEqual, 100_000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When a method is unknown", func() {
			cfg.Methods = []string{"borda", "approval"}
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "approval")
		})

		convey.Convey("When aliases are used", func() {
			cfg.Methods = []string{"IRV", "condorcet"}
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When methods are empty", func() {
			cfg.Methods = nil
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When limits are out of range", func() {
			cfg.TallyWorkers = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			cfg.TallyWorkers = 1
			cfg.MaxBallots = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When election limits are zero", func() {
			cfg.MaxCandidates = 0
			cfg.MaxBallots = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the log settings are unknown", func() {
			cfg.LogFormat = "xml"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			cfg.LogFormat = "json"
			cfg.LogLevel = "trace"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
