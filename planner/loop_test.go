package planner

import (
	"context"
	"testing"
	"time"
)

func TestRunLoopReturnsControlImmediately(t *testing.T) {
	t.Parallel()
	pl, _ := newTestPlanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		pl.RunLoop(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not return control to the caller")
	}
	cancel()
}
