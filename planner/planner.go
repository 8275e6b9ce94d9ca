// Package planner implements the aline subsystem: the bounded ring of
// motion buffers, the S-curve region solver, the multi-move backplanner,
// and the segment-emitting runtime at the core of jerk-limited motion
// planning. It turns a stream of absolute-millimetre motion commands into
// short constant-time segments handed to a MotorQueue collaborator.
package planner

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dan-nab/TinyG/logging"
	"github.com/dan-nab/TinyG/status"
)

// Planner owns the ring, the planner-master state, and the runtime state
// that carries a queued move from submission to its last emitted segment.
// A process hosts exactly one Planner per physical machine: it carries no
// locks because the producer (submit calls) and the consumer (Step) are
// only ever driven from the same single-threaded cooperative loop.
type Planner struct {
	cfg    Config
	logger logging.Logger

	motorQueue   MotorQueue
	kinematics   Kinematics
	canonical    CanonicalMachine
	asyncStepper AsyncStepper

	pool *pool

	// planner-master state: moves forward as moves are planned, not
	// the tool's physical position.
	position []float64

	// linearJerkDiv2 is Jm/2, precomputed once since every accel/decel
	// segment's velocity formula uses it.
	linearJerkDiv2 float64

	rt   runtimeState
	disp dispatcher
}

// NewPlanner allocates the ring (once; never resized) and wires the
// external collaborators (motor queue, kinematics, canonical machine).
func NewPlanner(cfg Config, logger logging.Logger, mq MotorQueue, kin Kinematics, cm CanonicalMachine) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid planner config")
	}
	if mq == nil || kin == nil || cm == nil {
		return nil, errors.New("planner requires non-nil MotorQueue, Kinematics and CanonicalMachine collaborators")
	}

	pl := &Planner{
		cfg:            cfg,
		logger:         logger,
		motorQueue:     mq,
		kinematics:     kin,
		canonical:      cm,
		pool:           newPool(cfg.BufferSize, cfg.Axes),
		position:       make([]float64, cfg.Axes),
		linearJerkDiv2: cfg.LinearJerkMax / 2,
	}
	pl.rt.position = make([]float64, cfg.Axes)
	pl.rt.target = make([]float64, cfg.Axes)
	pl.disp.table = defaultRunTable()
	return pl, nil
}

// SetPosition overwrites both the planner-master and runtime positions
// (used by coordinate-offset commands); it never touches the ring.
func (pl *Planner) SetPosition(pos []float64) {
	copy(pl.position, pos)
	copy(pl.rt.position, pos)
}

// Position returns a copy of the planner-master's current end-of-plan
// position.
func (pl *Planner) Position() []float64 {
	return copyVec(pl.position)
}

// Step drives the dispatcher one cooperative tick. It must be called
// repeatedly from the caller's main loop and never from an ISR.
func (pl *Planner) Step(ctx context.Context) status.Status {
	return pl.disp.step(ctx, pl)
}

// HaveFree reports whether n buffers are free for a submit that needs them
// atomically: exposed so callers can check the "three free buffers before
// an aline" precondition themselves before deciding to submit at all.
func (pl *Planner) HaveFree(n int) bool {
	return pl.pool.haveFree(n)
}

// CancelCurrent models "cancel current move": it forces the running buffer
// to its end sub-state, so the next Step finalises it instead of resuming
// mid-segment. There is no timeout in this model; cancellation is the only
// way to abort a running move.
func (pl *Planner) CancelCurrent() {
	pl.cancelCurrent()
}

// SetAsyncStepper wires the ISR-safe stepper-control collaborator consulted
// by AsyncStop/AsyncStart/AsyncEnd. It is optional: those three calls return
// status.Err until one has been set. Unlike MotorQueue/Kinematics/
// CanonicalMachine, this is not required at NewPlanner time, since an
// embedder with no ISR-safe stop path (e.g. a pure simulation) has nothing
// to wire here.
func (pl *Planner) SetAsyncStepper(as AsyncStepper) {
	pl.asyncStepper = as
}

// AsyncStop implements async_stop(): it calls directly into the stepper
// collaborator and touches neither the buffer pool nor any planner-master
// state, so it is safe to invoke from an interrupt context, unlike
// CancelCurrent (which runs on the cooperative Step path).
func (pl *Planner) AsyncStop(ctx context.Context) status.Status {
	if pl.asyncStepper == nil {
		return status.Err
	}
	if err := pl.asyncStepper.Stop(ctx); err != nil {
		pl.logger.CWarnw(ctx, "async_stop: stepper stop failed", "error", err.Error())
		return status.Err
	}
	return status.OK
}

// AsyncStart implements async_start(): the ISR-safe counterpart to
// AsyncStop.
func (pl *Planner) AsyncStart(ctx context.Context) status.Status {
	if pl.asyncStepper == nil {
		return status.Err
	}
	if err := pl.asyncStepper.Start(ctx); err != nil {
		pl.logger.CWarnw(ctx, "async_start: stepper start failed", "error", err.Error())
		return status.Err
	}
	return status.OK
}

// AsyncEnd implements async_end(). The stepper collaborator exposes no
// primitive beyond start/stop/is_busy, so ending is the same ISR-safe stop
// call as AsyncStop; the distinction is at the caller's semantic level
// (program end vs. an abort), not in what this module calls downstream.
func (pl *Planner) AsyncEnd(ctx context.Context) status.Status {
	return pl.AsyncStop(ctx)
}

// AsyncIsBusy implements st_isbusy() pass-through for a caller that needs to
// poll stepper activity from the same ISR-safe context as AsyncStop/Start.
func (pl *Planner) AsyncIsBusy() bool {
	return pl.asyncStepper != nil && pl.asyncStepper.IsBusy()
}
