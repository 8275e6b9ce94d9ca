package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestProfilePlotWritesFile(t *testing.T) {
	t.Parallel()
	regions := []RegionProfile{
		{Label: "accel", Samples: []Sample{{0, 0}, {0.001, 1000}, {0.002, 2000}}},
		{Label: "cruise", Samples: []Sample{{0, 2000}, {0.01, 2000}}},
		{Label: "decel", Samples: []Sample{{0, 2000}, {0.001, 1000}, {0.002, 0}}},
	}
	path := filepath.Join(t.TempDir(), "profile.png")
	err := ProfilePlot(regions, "test move", path)
	test.That(t, err, test.ShouldBeNil)

	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size() > 0, test.ShouldBeTrue)
}

func TestProfilePlotRejectsEmpty(t *testing.T) {
	t.Parallel()
	err := ProfilePlot(nil, "empty", filepath.Join(t.TempDir(), "x.png"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPeakJerkZeroForLinearAccel(t *testing.T) {
	t.Parallel()
	// Constant acceleration (linear velocity ramp): zero jerk throughout.
	samples := []Sample{{0, 0}, {1, 10}, {2, 20}, {3, 30}}
	test.That(t, PeakJerk(samples), test.ShouldAlmostEqual, 0.0)
}

func TestPeakJerkTooFewSamples(t *testing.T) {
	t.Parallel()
	test.That(t, PeakJerk([]Sample{{0, 0}, {1, 1}}), test.ShouldEqual, 0.0)
}
