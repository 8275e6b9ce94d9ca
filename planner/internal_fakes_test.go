package planner

import (
	"context"
	"testing"

	"github.com/dan-nab/TinyG/logging"
)

// Minimal collaborator fakes for this package's own white-box tests, which
// exercise unexported run functions and so cannot live in an external
// planner_test package (internal/testfakes imports this package and would
// create an import cycle if used from here). The black-box submit/dispatch
// integration tests use internal/testfakes instead.

type fakeMotorQueue struct {
	ready bool
	lines int
	dwells int
	stops  []MoveType
}

func newFakeMotorQueue() *fakeMotorQueue { return &fakeMotorQueue{ready: true} }

func (q *fakeMotorQueue) Ready() bool { return q.ready }
func (q *fakeMotorQueue) QueueLine(steps []int32, microseconds float64) error {
	q.lines++
	return nil
}
func (q *fakeMotorQueue) QueueDwell(microseconds float64) error {
	q.dwells++
	return nil
}
func (q *fakeMotorQueue) QueueStops(moveType MoveType) error {
	q.stops = append(q.stops, moveType)
	return nil
}

type fakeKinematics struct{}

func (fakeKinematics) Solve(deltaMM []float64, microseconds float64) ([]int32, error) {
	steps := make([]int32, len(deltaMM))
	for i, d := range deltaMM {
		steps[i] = int32(d)
	}
	return steps, nil
}

type fakeCanonical struct {
	mode PathControlMode
}

func (c *fakeCanonical) PathControlMode() PathControlMode { return c.mode }

type fakeAsyncStepper struct {
	starts   int
	stops    int
	busy     bool
	failNext error
}

func (s *fakeAsyncStepper) Start(ctx context.Context) error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.starts++
	s.busy = true
	return nil
}

func (s *fakeAsyncStepper) Stop(ctx context.Context) error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.stops++
	s.busy = false
	return nil
}

func (s *fakeAsyncStepper) IsBusy() bool { return s.busy }

func newTestPlanner(t *testing.T) (*Planner, *fakeMotorQueue) {
	t.Helper()
	mq := newFakeMotorQueue()
	cfg := DefaultConfig()
	cfg.LinearJerkMax = 50000000
	cfg.BufferSize = 16
	logger := logging.NewTestLogger(t)
	pl, err := NewPlanner(cfg, logger, mq, fakeKinematics{}, &fakeCanonical{mode: PathContinuous})
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return pl, mq
}
