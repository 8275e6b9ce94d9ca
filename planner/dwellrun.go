package planner

import (
	"context"

	"github.com/dan-nab/TinyG/status"
)

// runDwell emits one timed dwell to the motor queue and completes.
func runDwell(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	if err := pl.motorQueue.QueueDwell(usec(buf.time)); err != nil {
		pl.logger.CWarnw(ctx, "run_dwell: queue_dwell failed", "error", err.Error())
		return status.Err
	}
	return status.OK
}

// runStops emits one stop/start/end marker and completes. `end` is
// interpreted by the caller (not the planner) to additionally reset
// canonical machine state once Step reports OK for this buffer.
func runStops(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	if !pl.motorQueue.Ready() {
		return status.EAGAIN
	}
	if err := pl.motorQueue.QueueStops(buf.moveType); err != nil {
		pl.logger.CWarnw(ctx, "run_stops: queue_stops failed", "error", err.Error())
		return status.Err
	}
	return status.OK
}
