package planner

import (
	"context"

	"github.com/dan-nab/TinyG/status"
)

// runFunc is one run function: the per-buffer state machine step invoked by
// the dispatcher while a buffer is the run head. It must never block; the
// only permitted wait is returning EAGAIN for the caller to poll again.
type runFunc func(ctx context.Context, pl *Planner, buf *Buffer) status.Status

// dispatcher holds the run-function lookup table and tracks which function
// is currently driving the run head, across calls to step.
type dispatcher struct {
	table   map[MoveType]runFunc
	runFlag bool
	runMove runFunc
}

// defaultRunTable builds the move_type → run function table.
func defaultRunTable() map[MoveType]runFunc {
	return map[MoveType]runFunc{
		MoveNull:   runNull,
		MoveAccel:  runAccel,
		MoveCruise: runCruise,
		MoveDecel:  runDecel,
		MoveLine:   runLine,
		MoveArc:    runArc,
		MoveDwell:  runDwell,
		MoveStart:  runStops,
		MoveStop:   runStops,
		MoveEnd:    runStops,
	}
}

// step drives the run head one cooperative tick. It is the single entry
// point the caller's main loop invokes repeatedly; it must never be called
// from an interrupt context.
func (d *dispatcher) step(ctx context.Context, pl *Planner) status.Status {
	buf, ok := pl.pool.runHead()
	if !ok {
		return status.NOOP
	}

	if buf.moveState == moveNew {
		d.runFlag = true
		fn, ok := d.table[buf.moveType]
		if !ok {
			pl.logger.CWarnw(ctx, "dispatcher: no run function for move type", "move_type", buf.moveType.String())
			return status.Err
		}
		d.runMove = fn
	}

	s := d.runMove(ctx, pl, buf)
	if s == status.EAGAIN {
		return status.EAGAIN
	}

	d.runFlag = false
	if err := pl.pool.finalizeRun(); err != nil {
		pl.logger.CWarnw(ctx, "dispatcher: finalize failed", "error", err.Error())
		return status.Err
	}
	return s
}

// runNull handles a folded (zero-length) region: nothing to emit, just clear
// replannable and retire the slot.
func runNull(ctx context.Context, pl *Planner, buf *Buffer) status.Status {
	buf.replannable = false
	return status.OK
}

// cancelCurrent implements "cancel current move": force the running buffer
// to its end state and drop the dispatcher's run flag so the next step()
// finalises it instead of resuming mid-segment.
func (pl *Planner) cancelCurrent() {
	buf, ok := pl.pool.runHead()
	if !ok {
		return
	}
	buf.moveState = moveSubEnd
	pl.disp.runFlag = false
}
