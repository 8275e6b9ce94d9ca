package planner

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/dan-nab/TinyG/status"
)

func TestRunDwell(t *testing.T) {
	t.Parallel()
	pl, mq := newTestPlanner(t)
	buf := &Buffer{moveType: MoveDwell, time: 0.5}
	s := runDwell(context.Background(), pl, buf)
	test.That(t, s, test.ShouldEqual, status.OK)
	test.That(t, mq.dwells, test.ShouldEqual, 1)
}

func TestRunDwellBlocksOnNotReady(t *testing.T) {
	t.Parallel()
	pl, mq := newTestPlanner(t)
	mq.ready = false
	s := runDwell(context.Background(), pl, &Buffer{time: 0.5})
	test.That(t, s, test.ShouldEqual, status.EAGAIN)
	test.That(t, mq.dwells, test.ShouldEqual, 0)
}

func TestRunStopsEmitsMarker(t *testing.T) {
	t.Parallel()
	pl, mq := newTestPlanner(t)
	buf := &Buffer{moveType: MoveStop}
	s := runStops(context.Background(), pl, buf)
	test.That(t, s, test.ShouldEqual, status.OK)
	test.That(t, mq.stops, test.ShouldResemble, []MoveType{MoveStop})
}
