package planner

import (
	"context"
	"math"

	"github.com/dan-nab/TinyG/status"
)

// runtimeState is the dispatcher-exclusive singleton that tracks progress
// through whichever buffer is currently the run head. Exactly one exists
// per Planner; it is never touched by a submit call.
type runtimeState struct {
	position []float64
	target   []float64

	elapsedTime          float64
	midpointVelocity     float64
	midpointAcceleration float64

	segments     int // total segments in the current half (accel/decel)
	segmentCount int // segments remaining in the current half
	segmentTime  float64
	segmentVelocity float64
	segmentLength   float64
	segmentTheta    float64

	arcTheta      float64
	center1       float64
	center2       float64
}

// usec converts a duration in minutes to microseconds, the unit the motor
// queue's timing APIs expect.
func usec(minutes float64) float64 {
	return minutes * OneMinuteOfMicroseconds
}

// runSegment emits one constant-time slice of travel at velocity v for
// segmentTime minutes along the buffer's unit vector, then advances
// runtime.position. Returns EAGAIN if more segments remain in the current
// half, OK otherwise.
func runSegment(ctx context.Context, pl *Planner, buf *Buffer, v float64) status.Status {
	rt := &pl.rt
	rt.segmentVelocity = v
	newTarget := make([]float64, len(rt.position))
	for i := range newTarget {
		newTarget[i] = rt.position[i] + buf.unitVec[i]*v*rt.segmentTime
	}
	travel := make([]float64, len(rt.position))
	for i := range travel {
		travel[i] = newTarget[i] - rt.position[i]
	}

	steps, err := pl.kinematics.Solve(travel, usec(rt.segmentTime))
	if err != nil {
		pl.logger.CWarnw(ctx, "run_segment: kinematics solve failed", "error", err.Error())
		return status.Err
	}
	if err := pl.motorQueue.QueueLine(steps, usec(rt.segmentTime)); err != nil {
		pl.logger.CWarnw(ctx, "run_segment: queue_line failed", "error", err.Error())
		return status.Err
	}

	rt.position = newTarget
	rt.elapsedTime += rt.segmentTime
	rt.segmentCount--
	if rt.segmentCount > 0 {
		return status.EAGAIN
	}
	return status.OK
}

// runFinalize emits one last segment that takes runtime.position exactly to
// the buffer's target, snapping out any drift accumulated across segments.
func runFinalize(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	rt := &pl.rt
	residual := vecLen(rt.position, buf.target)
	if residual < 1e-12 || buf.endVelocity < 1e-12 {
		rt.position = copyVec(buf.target)
		return status.OK
	}
	finishTime := residual / buf.endVelocity

	travel := make([]float64, len(rt.position))
	for i := range travel {
		travel[i] = buf.target[i] - rt.position[i]
	}
	steps, err := pl.kinematics.Solve(travel, usec(finishTime))
	if err != nil {
		pl.logger.CWarnw(ctx, "run_finalize: kinematics solve failed", "error", err.Error())
		return status.Err
	}
	if err := pl.motorQueue.QueueLine(steps, usec(finishTime)); err != nil {
		pl.logger.CWarnw(ctx, "run_finalize: queue_line failed", "error", err.Error())
		return status.Err
	}
	rt.position = copyVec(buf.target)
	return status.OK
}

// runCruise drives a constant-velocity body region: one segment covering
// the whole region, emitted at its already-solved end_velocity.
func runCruise(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	buf.replannable = false
	if buf.length < pl.cfg.MinLineLength || buf.endVelocity < pl.cfg.Epsilon {
		return status.OK
	}

	rt := &pl.rt
	moveTime := buf.length / buf.endVelocity
	copy(rt.target, buf.target)

	travel := make([]float64, len(rt.position))
	for i := range travel {
		travel[i] = rt.target[i] - rt.position[i]
	}
	steps, err := pl.kinematics.Solve(travel, usec(moveTime))
	if err != nil {
		pl.logger.CWarnw(ctx, "run_cruise: kinematics solve failed", "error", err.Error())
		return status.Err
	}
	if err := pl.motorQueue.QueueLine(steps, usec(moveTime)); err != nil {
		pl.logger.CWarnw(ctx, "run_cruise: queue_line failed", "error", err.Error())
		return status.Err
	}
	rt.position = copyVec(rt.target)
	return status.OK
}

// runLine drives a standalone (non-aline) line buffer: a single segment at
// its fixed requested velocity, with no jerk-limited ramp.
func runLine(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	if buf.length < pl.cfg.MinLineLength || buf.time < pl.cfg.Epsilon {
		return status.OK
	}

	rt := &pl.rt
	travel := make([]float64, len(rt.position))
	for i := range travel {
		travel[i] = buf.target[i] - rt.position[i]
	}
	steps, err := pl.kinematics.Solve(travel, usec(buf.time))
	if err != nil {
		pl.logger.CWarnw(ctx, "run_line: kinematics solve failed", "error", err.Error())
		return status.Err
	}
	if err := pl.motorQueue.QueueLine(steps, usec(buf.time)); err != nil {
		pl.logger.CWarnw(ctx, "run_line: queue_line failed", "error", err.Error())
		return status.Err
	}
	rt.position = copyVec(buf.target)
	return status.OK
}

// segmentsPerHalf rounds the requested duration T (minutes) into a whole
// segment count, nearest-integer twice (once over the full duration, once
// halving it) so an odd total segment count never leaves a lone unmatched
// segment between the two halves.
func segmentsPerHalf(t, minSegmentTime float64) int {
	total := math.Round(t / minSegmentTime)
	return int(math.Round(total / 2))
}

// runAccel drives an acceleration region (Vs -> Ve, Vs < Ve) as two
// jerk-limited S-curve halves: the first half's velocity is concave in
// elapsed time, the second convex, meeting at the midpoint velocity Vm.
func runAccel(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	rt := &pl.rt

	switch buf.moveState {
	case moveNew:
		buf.replannable = false
		if buf.length < pl.cfg.MinLineLength {
			return status.OK
		}
		vm := (buf.startVelocity + buf.endVelocity) / 2
		t := buf.length / vm
		am := t * pl.linearJerkDiv2

		segments := segmentsPerHalf(t, pl.cfg.MinSegmentTime)
		if segments == 0 {
			return status.OK
		}

		rt.midpointVelocity = vm
		rt.midpointAcceleration = am
		rt.segments = segments
		rt.segmentCount = segments
		rt.segmentTime = t / (2 * float64(segments))
		rt.elapsedTime = rt.segmentTime / 2
		buf.moveState = moveRunning1
		fallthrough

	case moveRunning1:
		v := buf.startVelocity + pl.linearJerkDiv2*rt.elapsedTime*rt.elapsedTime
		s := runSegment(ctx, pl, buf, v)
		if s == status.EAGAIN {
			return status.EAGAIN
		}
		rt.segmentCount = rt.segments
		rt.elapsedTime = rt.segmentTime / 2
		buf.moveState = moveRunning2
		return status.EAGAIN

	case moveRunning2:
		if rt.segmentCount == 1 {
			buf.moveState = moveFinalize
			return runFinalize(ctx, pl, buf)
		}
		v := rt.midpointVelocity + rt.elapsedTime*rt.midpointAcceleration - pl.linearJerkDiv2*rt.elapsedTime*rt.elapsedTime
		return runSegment(ctx, pl, buf, v)

	case moveSubEnd:
		// Forced by cancelCurrent: retire this buffer now instead of
		// resuming mid-segment or running out the rest of the ramp.
		buf.replannable = false
		return status.OK
	}
	return status.Err
}

// runDecel is runAccel's mirror image: Vs > Ve, first half convex, second
// half concave.
func runDecel(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	rt := &pl.rt

	switch buf.moveState {
	case moveNew:
		buf.replannable = false
		if buf.length < pl.cfg.MinLineLength {
			return status.OK
		}
		vm := (buf.startVelocity + buf.endVelocity) / 2
		t := buf.length / vm
		am := t * pl.linearJerkDiv2

		segments := segmentsPerHalf(t, pl.cfg.MinSegmentTime)
		if segments == 0 {
			return status.OK
		}

		rt.midpointVelocity = vm
		rt.midpointAcceleration = am
		rt.segments = segments
		rt.segmentCount = segments
		rt.segmentTime = t / (2 * float64(segments))
		rt.elapsedTime = rt.segmentTime / 2
		buf.moveState = moveRunning1
		fallthrough

	case moveRunning1:
		v := buf.startVelocity - pl.linearJerkDiv2*rt.elapsedTime*rt.elapsedTime
		s := runSegment(ctx, pl, buf, v)
		if s == status.EAGAIN {
			return status.EAGAIN
		}
		rt.segmentCount = rt.segments
		rt.elapsedTime = rt.segmentTime / 2
		buf.moveState = moveRunning2
		return status.EAGAIN

	case moveRunning2:
		if rt.segmentCount == 1 {
			buf.moveState = moveFinalize
			return runFinalize(ctx, pl, buf)
		}
		v := rt.midpointVelocity - rt.elapsedTime*rt.midpointAcceleration + pl.linearJerkDiv2*rt.elapsedTime*rt.elapsedTime
		return runSegment(ctx, pl, buf, v)

	case moveSubEnd:
		// Forced by cancelCurrent: retire this buffer now instead of
		// resuming mid-segment or running out the rest of the ramp.
		buf.replannable = false
		return status.OK
	}
	return status.Err
}
