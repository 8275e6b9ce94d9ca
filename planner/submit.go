package planner

import (
	"context"
	"math"

	"github.com/dan-nab/TinyG/status"
)

// SubmitLine implements submit_line: a straight feed at a fixed,
// already-known velocity (no jerk-limited ramp). Used for positioning moves
// that do not need the aline treatment.
func (pl *Planner) SubmitLine(ctx context.Context, target []float64, minutes float64) status.Status {
	length := vecLen(pl.position, target)
	if minutes < pl.cfg.Epsilon || length < pl.cfg.MinLineLength {
		return status.ZeroLengthMove
	}

	buf, ok := pl.pool.reserve()
	if !ok {
		pl.logger.CWarnw(ctx, "submit_line: buffer pool exhausted", "target", target)
		return status.BufferFullFatal
	}
	buf.length = length
	buf.time = minutes
	copy(buf.target, target)
	copy(buf.unitVec, unitVector(target, pl.position))
	buf.requestVelocity = length / minutes
	buf.startVelocity = buf.requestVelocity
	buf.endVelocity = buf.requestVelocity

	pl.pool.commit(MoveLine)
	buf.groupSize = 1
	pl.advancePosition(target)
	return status.OK
}

// ArcRequest is the already-decomposed (polar) description of a helical
// feed submit_arc expects: the upstream canonical-machine / G-code layer is
// responsible for turning an I/J/K-style offset specification into
// theta/radius/angular_travel before calling SubmitArc.
type ArcRequest struct {
	Target        []float64
	Theta         float64
	Radius        float64
	AngularTravel float64
	LinearTravel  float64
	Axis1         int
	Axis2         int
	AxisLinear    int
	Minutes       float64
}

// SubmitArc implements submit_arc.
func (pl *Planner) SubmitArc(ctx context.Context, req ArcRequest) status.Status {
	length := math.Hypot(req.AngularTravel*req.Radius, math.Abs(req.LinearTravel))
	if req.Minutes < pl.cfg.Epsilon || length < pl.cfg.MinSegmentLen {
		return status.ZeroLengthMove
	}

	buf, ok := pl.pool.reserve()
	if !ok {
		pl.logger.CWarnw(ctx, "submit_arc: buffer pool exhausted")
		return status.BufferFullFatal
	}

	buf.length = length
	buf.time = req.Minutes
	copy(buf.target, req.Target)
	buf.arc = ArcData{
		Theta:         req.Theta,
		Radius:        req.Radius,
		AngularTravel: req.AngularTravel,
		LinearTravel:  req.LinearTravel,
		Axis1:         req.Axis1,
		Axis2:         req.Axis2,
		AxisLinear:    req.AxisLinear,
	}
	vel := length / req.Minutes
	buf.startVelocity = vel
	buf.endVelocity = vel
	buf.requestVelocity = vel

	// Populate the arc's end-tangent unit vector so a following aline can
	// corner against it instead of being forced to treat the arc as a
	// non-line predecessor.
	copy(buf.unitVec, arcEndTangent(req, pl.cfg.Axes))

	pl.pool.commit(MoveArc)
	buf.groupSize = 1
	pl.advancePosition(req.Target)
	return status.OK
}

// arcEndTangent computes the unit tangent of the arc's path at its end
// point, projected across the arc's two planar axes and its linear axis.
// The circle is parameterised as runArc walks it: axis 1 at
// center1+R*sin(theta), axis 2 at center2+R*cos(theta).
func arcEndTangent(req ArcRequest, axes int) []float64 {
	thetaEnd := req.Theta + req.AngularTravel
	sign := 1.0
	if req.AngularTravel < 0 {
		sign = -1.0
	}
	angularMag := req.Radius * math.Abs(req.AngularTravel)

	raw := make([]float64, axes)
	raw[req.Axis1] = math.Cos(thetaEnd) * sign * angularMag
	raw[req.Axis2] = -math.Sin(thetaEnd) * sign * angularMag
	raw[req.AxisLinear] += req.LinearTravel

	norm := 0.0
	for _, v := range raw {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm < 1e-12 {
		// Degenerate (zero-radius and zero-linear-travel) arc: no
		// well-defined tangent, so the unnormalised vector is returned
		// as-is. SubmitArc never gets here: such an arc is shorter than
		// MinSegmentLen and is rejected before this is called.
		return raw
	}
	for i := range raw {
		raw[i] /= norm
	}
	return raw
}

// SubmitDwell implements submit_dwell. Duration is stored as minutes
// internally (consistent with every other buffer's `time` field) but the
// caller-facing unit is seconds.
func (pl *Planner) SubmitDwell(ctx context.Context, seconds float64) status.Status {
	if seconds < pl.cfg.Epsilon {
		return status.ZeroLengthMove
	}
	buf, ok := pl.pool.reserve()
	if !ok {
		pl.logger.CWarnw(ctx, "submit_dwell: buffer pool exhausted")
		return status.BufferFullFatal
	}
	buf.time = seconds / 60
	pl.pool.commit(MoveDwell)
	buf.groupSize = 1
	return status.OK
}

// submitMarker is the shared implementation of submit_stop/submit_start/
// submit_end: reserve, commit, no fields beyond move_type.
func (pl *Planner) submitMarker(ctx context.Context, moveType MoveType) status.Status {
	buf, ok := pl.pool.reserve()
	if !ok {
		pl.logger.CWarnw(ctx, "submit marker: buffer pool exhausted", "move_type", moveType.String())
		return status.BufferFullFatal
	}
	pl.pool.commit(moveType)
	buf.groupSize = 1
	return status.OK
}

// SubmitStop implements submit_stop.
func (pl *Planner) SubmitStop(ctx context.Context) status.Status { return pl.submitMarker(ctx, MoveStop) }

// SubmitStart implements submit_start.
func (pl *Planner) SubmitStart(ctx context.Context) status.Status {
	return pl.submitMarker(ctx, MoveStart)
}

// SubmitEnd implements submit_end. The caller (not the planner) is
// responsible for resetting canonical machine modes once Step reports
// OK for this buffer.
func (pl *Planner) SubmitEnd(ctx context.Context) status.Status { return pl.submitMarker(ctx, MoveEnd) }

// SubmitAline implements submit_aline: the jerk-limited line planner
// this module exists to specify.
func (pl *Planner) SubmitAline(ctx context.Context, target []float64, minutes float64) status.Status {
	if !pl.pool.haveFree(3) {
		return status.BufferFullFatal
	}

	length := vecLen(pl.position, target)
	if minutes < pl.cfg.Epsilon || length < pl.cfg.MinLineLength {
		return status.ZeroLengthMove
	}
	targetVelocity := length / minutes
	unit := unitVector(target, pl.position)

	prev := pl.pool.prevImplicit()
	var initialVelocityReq float64
	forceExactStop := false
	skipBackplan := false

	switch {
	case prev.moveType == MoveArc && prev.state != bufEmpty:
		factor := corneringFactor(prev.unitVec, unit)
		initialVelocityReq = prev.endVelocity * factor
		skipBackplan = true
	case prev.groupSize == 0:
		// No predecessor at all (first move since the ring was last
		// empty, or the predecessor already ran past replanning):
		// downgrade to exact_stop.
		initialVelocityReq = 0
		forceExactStop = true
	case prev.moveType == MoveAccel || prev.moveType == MoveCruise || prev.moveType == MoveDecel:
		// prev (prevImplicit) is the previous aline's tail, whose
		// requestVelocity is pinned to 0 (it always decelerates to a full
		// stop at the triple boundary). The velocity the chain is actually
		// cruising at is the body's requestVelocity; corner against that.
		body := pl.pool.at(1)
		initialVelocityReq = body.requestVelocity * corneringFactor(prev.unitVec, unit)
	default:
		// Predecessor is a dwell/stop/start/end/line marker: not a queued
		// line region, downgrade path mode to exact_stop.
		initialVelocityReq = 0
		forceExactStop = true
	}

	if pl.canonical.PathControlMode() == PathExactStop {
		initialVelocityReq = 0
		forceExactStop = true
	}

	if initialVelocityReq > targetVelocity {
		initialVelocityReq = targetVelocity
	}
	if initialVelocityReq < 0 {
		initialVelocityReq = 0
	}

	result := solveRegions(ctx, pl.logger, pl.cfg, initialVelocityReq, targetVelocity, 0, length)

	if _, ok := pl.pool.reserve(); !ok {
		return status.BufferFullFatal
	}
	if _, ok := pl.pool.reserve(); !ok {
		pl.pool.release()
		return status.BufferFullFatal
	}
	if _, ok := pl.pool.reserve(); !ok {
		pl.pool.release()
		pl.pool.release()
		return status.BufferFullFatal
	}

	// Commit in execution order: head first (oldest/first to run), then
	// body, then tail. commit always operates on the slot at q, which after
	// these three reserves is the head's slot.
	committedHead := pl.pool.commit(MoveAccel)
	committedBody := pl.pool.commit(MoveCruise)
	committedTail := pl.pool.commit(MoveDecel)
	for _, b := range []*Buffer{committedHead, committedBody, committedTail} {
		b.groupSize = 3
		copy(b.target, target)
		copy(b.unitVec, unit)
	}
	committedHead.requestVelocity = initialVelocityReq
	committedBody.requestVelocity = targetVelocity
	committedTail.requestVelocity = 0

	m := moveTriple{tail: committedTail, body: committedBody, head: committedHead}
	writeRegions(m, result, pl.cfg)
	// The loop above copied the move's overall target onto all three
	// regions; only the tail's target is correct as-is (it's the move's
	// actual end point). Head and body end partway through the move, along
	// the same unit vector, at their own region's length.
	setPartialTargets(m, pl.position, unit)

	pl.advancePosition(target)

	// An arc predecessor (skipBackplan) is a backplanning boundary, so
	// backplan is not called at all. Every other case calls it; against a
	// dwell/stop/start/end/line predecessor its chain walk stops at once,
	// since only 3-slot aline groups extend the chain.
	if !skipBackplan {
		pl.backplan(ctx, forceExactStop)
	}

	return status.OK
}

// setPartialTargets fills in the absolute position each region's buffer
// ends at: head ends position+unit*headLen, body ends position+unit*(headLen+bodyLen),
// tail ends at the move's true target (already copied onto all three above).
func setPartialTargets(m moveTriple, start, unit []float64) {
	axes := len(start)
	headEnd := make([]float64, axes)
	bodyEnd := make([]float64, axes)
	for i := 0; i < axes; i++ {
		headEnd[i] = start[i] + unit[i]*m.head.length
		bodyEnd[i] = start[i] + unit[i]*(m.head.length+m.body.length)
	}
	copy(m.head.target, headEnd)
	copy(m.body.target, bodyEnd)
}

func (pl *Planner) advancePosition(target []float64) {
	copy(pl.position, target)
}
