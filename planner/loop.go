package planner

import (
	"context"
	"time"

	"go.viam.com/utils"

	"github.com/dan-nab/TinyG/status"
)

// RunLoop launches the cooperative dispatch loop on its own goroutine,
// calling Step repeatedly until ctx is cancelled. It is the demo driver's
// equivalent of the caller's "main loop" the rest of this package assumes:
// production embedders are free to call Step from their own loop instead
// and skip RunLoop entirely.
//
// The goroutine is wrapped in utils.PanicCapturingGo so a bug in a run
// function logs and dies without taking the rest of the process with it.
// It polls at interval between ticks that find nothing to do (status.NOOP),
// and as fast as the loop can go while a move is in progress.
func (pl *Planner) RunLoop(ctx context.Context, interval time.Duration) {
	utils.PanicCapturingGo(func() {
		for {
			s := pl.Step(ctx)
			if s.IsError() {
				pl.logger.CWarnw(ctx, "run loop: step failed", "status", s.String())
			}
			if s == status.NOOP {
				if !utils.SelectContextOrWait(ctx, interval) {
					return
				}
				continue
			}
			if ctx.Err() != nil {
				return
			}
		}
	})
}
