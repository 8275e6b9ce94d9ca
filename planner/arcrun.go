package planner

import (
	"context"
	"math"

	"github.com/dan-nab/TinyG/status"
)

// runArc drives an arc buffer as a sequence of short chord segments
// approximating the circle, one constant-time kinematic line per chord.
func runArc(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	rt := &pl.rt

	if buf.moveState == moveSubEnd {
		// Forced by cancelCurrent: retire this buffer now instead of
		// continuing to emit the remaining chords.
		buf.replannable = false
		return status.OK
	}

	if buf.moveState == moveNew {
		buf.replannable = false
		a := buf.arc
		segments := int(math.Ceil(buf.length / pl.cfg.MinSegmentLen))
		if segments <= 0 {
			return status.OK
		}
		rt.segments = segments
		rt.segmentCount = segments
		rt.segmentTheta = a.AngularTravel / float64(segments)
		rt.segmentLength = a.LinearTravel / float64(segments)
		rt.segmentTime = buf.time / float64(segments)
		rt.arcTheta = a.Theta
		rt.center1 = rt.position[a.Axis1] - math.Sin(a.Theta)*a.Radius
		rt.center2 = rt.position[a.Axis2] - math.Cos(a.Theta)*a.Radius
		buf.moveState = moveRunning1
	}

	a := buf.arc
	rt.arcTheta += rt.segmentTheta
	rt.segmentCount--

	newTarget := copyVec(rt.position)
	if rt.segmentCount == 0 {
		// Last chord: snap exactly to the buffer's recorded target instead
		// of accumulating one more rounding error onto the circle.
		copy(newTarget, buf.target)
	} else {
		newTarget[a.Axis1] = rt.center1 + math.Sin(rt.arcTheta)*a.Radius
		newTarget[a.Axis2] = rt.center2 + math.Cos(rt.arcTheta)*a.Radius
		newTarget[a.AxisLinear] = rt.position[a.AxisLinear] + rt.segmentLength
	}

	travel := make([]float64, len(rt.position))
	for i := range travel {
		travel[i] = newTarget[i] - rt.position[i]
	}
	steps, err := pl.kinematics.Solve(travel, usec(rt.segmentTime))
	if err != nil {
		pl.logger.CWarnw(ctx, "run_arc: kinematics solve failed", "error", err.Error())
		return status.Err
	}
	if err := pl.motorQueue.QueueLine(steps, usec(rt.segmentTime)); err != nil {
		pl.logger.CWarnw(ctx, "run_arc: queue_line failed", "error", err.Error())
		return status.Err
	}
	rt.position = newTarget

	if rt.segmentCount > 0 {
		return status.EAGAIN
	}
	return status.OK
}
