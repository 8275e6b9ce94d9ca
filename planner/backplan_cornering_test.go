package planner

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/dan-nab/TinyG/status"
)

// TestSubmitAlineChainCornersAgainstBodyRequestVelocity is the white-box
// counterpart to submit_test.go's TestSubmitAlineChainCornersAtFullSpeed,
// which only checks the returned status and would not have caught cornering
// against the wrong buffer's requestVelocity (the previous tail's, pinned to
// 0, instead of the previous body's, the chain's actual cruise target).
func TestSubmitAlineChainCornersAgainstBodyRequestVelocity(t *testing.T) {
	t.Parallel()
	pl, _ := newTestPlanner(t)
	ctx := context.Background()

	test.That(t, pl.SubmitAline(ctx, []float64{0, 0, 100}, 100.0/3000), test.ShouldEqual, status.OK)
	test.That(t, pl.SubmitAline(ctx, []float64{0, 0, 200}, 100.0/3000), test.ShouldEqual, status.OK)

	// Second move's head is 2 slots back from the second triple's own tail
	// (at(0)): at(1) is its body, at(2) is its head.
	head2 := pl.pool.at(2)
	// Colinear continuation: cornering factor 1 against the first move's
	// body (cruise) requestVelocity of 3000 mm/min, clamped to the second
	// move's own 3000 mm/min target. Before the fix this was always 0.
	test.That(t, head2.requestVelocity, test.ShouldAlmostEqual, 3000.0)
}
