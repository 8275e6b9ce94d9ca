package planner

import (
	"context"
	"math"

	"github.com/dan-nab/TinyG/logging"
)

// regionResult is the region solver's output: the head/body/tail
// lengths and the velocities actually achieved, plus a region count in
// [0,3].
type regionResult struct {
	headLen, bodyLen, tailLen float64
	initialVelocity           float64
	cruiseVelocity            float64
	finalVelocity             float64
	count                     int
}

// solveRegions computes, given the requested (Vir, Vt, Vf, L) for one
// aline and the configured jerk, the achieved head/body/tail lengths and
// velocities.
//
// Callers are required by construction to pass vir <= vt and vf <= vt;
// solveRegions clamps and logs if that invariant is ever violated rather
// than producing a nonsensical profile.
func solveRegions(ctx context.Context, logger logging.Logger, cfg Config, vir, vt, vf, length float64) regionResult {
	jm := cfg.LinearJerkMax

	if vir > vt {
		logger.CWarnw(ctx, "region solver: initial velocity exceeds target, clamping", "vir", vir, "vt", vt)
		vir = vt
	}
	if vf > vt {
		logger.CWarnw(ctx, "region solver: final velocity exceeds target, clamping", "vf", vf, "vt", vt)
		vf = vt
	}

	if length < cfg.MinLineLength {
		return regionResult{initialVelocity: vir, cruiseVelocity: vt, finalVelocity: vf}
	}

	// HBT trial: try to reach the full requested cruise.
	h := jerkLen(vir, vt, jm)
	t := jerkLen(vt, vf, jm)
	b := length - h - t

	const foldTolerance = 0.01 // mm: a region shorter than this folds into its neighbor

	if b > -foldTolerance {
		if b < 0 {
			b = 0
		}
		if h < cfg.MinLineLength {
			b += h
			h = 0
		}
		if t < cfg.MinLineLength {
			b += t
			t = 0
		}
		return clampResult(logger, ctx, regionResult{
			headLen: h, bodyLen: b, tailLen: t,
			initialVelocity: vir, cruiseVelocity: vt, finalVelocity: vf,
			count: 3,
		}, length)
	}

	// Body-only: already cruising at a velocity that satisfies both ends.
	if withinEpsilon(vf, vir, cfg.Epsilon) && withinEpsilon(vf, vt, cfg.Epsilon) {
		return regionResult{
			headLen: 0, bodyLen: length, tailLen: 0,
			initialVelocity: vir, cruiseVelocity: vt, finalVelocity: vf,
			count: 1,
		}
	}

	// Tail-only: net deceleration (vf < vir) and the chord is too short to
	// pass through the requested cruise at all; the achievable entry
	// velocity is capped by what a full-length jerk-limited brake to vf
	// supports.
	if vf < vir {
		achievedVi := jerkVel(vf, length, jm)
		if achievedVi <= vir+cfg.Epsilon {
			return regionResult{
				headLen: 0, bodyLen: 0, tailLen: length,
				initialVelocity: achievedVi, cruiseVelocity: achievedVi, finalVelocity: vf,
				count: 1,
			}
		}
	}

	// Head-only: net acceleration (vf > vir) and the chord is too short to
	// pass through the requested cruise; the move ends wherever the
	// available length lets it accelerate to.
	if vf > vir {
		achievedVc := jerkVel(vir, length, jm)
		if achievedVc <= vt+cfg.Epsilon {
			return regionResult{
				headLen: length, bodyLen: 0, tailLen: 0,
				initialVelocity: vir, cruiseVelocity: achievedVc, finalVelocity: achievedVc,
				count: 1,
			}
		}
	}

	// HT (no body): iteratively split L between head and tail while
	// preserving the jerk law.
	vc := vt
	bPrev := math.Inf(1)
	const maxIter = 100
	for i := 0; i < maxIter; i++ {
		dVh := math.Abs(vir - vc)
		dVt := math.Abs(vc - vf)
		denom := dVh + dVt
		if denom < cfg.Epsilon {
			break
		}
		h = length * dVh / denom
		vc = jerkVel(vir, h, jm)
		h = jerkLen(vir, vc, jm)
		t = jerkLen(vc, vf, jm)
		b = length - h - t
		if math.Abs(bPrev-b) < cfg.Epsilon {
			bPrev = b
			break
		}
		bPrev = b
	}
	if math.Abs(bPrev) < cfg.Epsilon {
		bPrev = 0
	}
	if bPrev > cfg.Epsilon {
		// Did not converge to zero body; log and return the best-effort
		// split with any residual folded into the tail.
		logger.CWarnw(ctx, "region solver: HT split did not converge, using best effort",
			"residual_body", bPrev, "length", length)
		t += bPrev
	}

	return clampResult(logger, ctx, regionResult{
		headLen: h, bodyLen: 0, tailLen: t,
		initialVelocity: vir, cruiseVelocity: vc, finalVelocity: vf,
		count: 2,
	}, length)
}

// clampResult enforces the edge-case policy for region lengths: they must
// never be negative or non-finite (a bug, logged and floored to zero), and
// their sum must not exceed L by more than the fold tolerance.
func clampResult(logger logging.Logger, ctx context.Context, r regionResult, length float64) regionResult {
	clampOne := func(name string, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			logger.CWarnw(ctx, "region solver: non-finite or negative region length, trapping to zero", "region", name, "value", v)
			return 0
		}
		return v
	}
	r.headLen = clampOne("head", r.headLen)
	r.bodyLen = clampOne("body", r.bodyLen)
	r.tailLen = clampOne("tail", r.tailLen)

	sum := r.headLen + r.bodyLen + r.tailLen
	const tolerance = 0.01
	if sum > length+tolerance {
		scale := length / sum
		r.headLen *= scale
		r.bodyLen *= scale
		r.tailLen *= scale
	}
	return r
}
