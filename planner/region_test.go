package planner

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/dan-nab/TinyG/logging"
)

func TestSolveRegionsHBT(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	cfg := DefaultConfig()
	cfg.LinearJerkMax = 1000 // mm/min^3, generous so HBT fits in 100mm easily

	r := solveRegions(context.Background(), logger, cfg, 0, 100, 0, 100)
	test.That(t, r.count, test.ShouldEqual, 3)
	test.That(t, r.headLen > 0, test.ShouldBeTrue)
	test.That(t, r.bodyLen > 0, test.ShouldBeTrue)
	test.That(t, r.tailLen > 0, test.ShouldBeTrue)
	test.That(t, r.headLen+r.bodyLen+r.tailLen, test.ShouldAlmostEqual, 100.0)
}

func TestSolveRegionsBodyOnly(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	cfg := DefaultConfig()

	// Already cruising: vir == vt == vf, so the whole length is body. The HBT
	// trial runs first and folds the zero-length head and tail into the body,
	// so the result still reports the HBT region count.
	r := solveRegions(context.Background(), logger, cfg, 50, 50, 50, 100)
	test.That(t, r.count, test.ShouldEqual, 3)
	test.That(t, r.bodyLen, test.ShouldAlmostEqual, 100.0)
	test.That(t, r.headLen, test.ShouldEqual, 0.0)
	test.That(t, r.tailLen, test.ShouldEqual, 0.0)
}

func TestSolveRegionsHTNoBody(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	cfg := DefaultConfig()
	cfg.LinearJerkMax = 50000000

	// A short move targeting a high cruise velocity it can never sustain:
	// head and tail should consume the whole length with no body.
	r := solveRegions(context.Background(), logger, cfg, 0, 1e9, 0, 1.0)
	test.That(t, r.bodyLen, test.ShouldAlmostEqual, 0.0)
	test.That(t, r.headLen+r.tailLen, test.ShouldAlmostEqual, 1.0)
}

func TestSolveRegionsZeroLength(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	cfg := DefaultConfig()

	r := solveRegions(context.Background(), logger, cfg, 10, 20, 0, 0)
	test.That(t, r.count, test.ShouldEqual, 0)
	test.That(t, r.initialVelocity, test.ShouldEqual, 10.0)
}

func TestSolveRegionsClampsInvertedVelocities(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	cfg := DefaultConfig()
	cfg.LinearJerkMax = 1000

	// vir > vt is an invariant violation by construction; solveRegions must
	// clamp rather than produce a nonsensical profile.
	r := solveRegions(context.Background(), logger, cfg, 200, 100, 0, 100)
	test.That(t, r.initialVelocity <= 100.0, test.ShouldBeTrue)
}

func TestClampResultScalesDownOverlength(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	r := clampResult(logger, context.Background(), regionResult{
		headLen: 60, bodyLen: 60, tailLen: 0,
	}, 100)
	test.That(t, r.headLen+r.bodyLen+r.tailLen, test.ShouldAlmostEqual, 100.0)
}

func TestClampResultFloorsNegative(t *testing.T) {
	t.Parallel()
	logger := logging.NewTestLogger(t)
	r := clampResult(logger, context.Background(), regionResult{
		headLen: -5, bodyLen: 10, tailLen: 10,
	}, 20)
	test.That(t, r.headLen, test.ShouldEqual, 0.0)
}
