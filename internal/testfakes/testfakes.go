// Package testfakes provides in-memory stand-ins for the planner's external
// collaborators (MotorQueue, Kinematics, CanonicalMachine), in the style of
// go.viam.com/rdk/components/*/fake: no goroutines, no I/O, just enough
// state to make assertions against in a test.
package testfakes

import (
	"sync"

	"github.com/dan-nab/TinyG/planner"
)

// QueuedLine records one call to QueueLine.
type QueuedLine struct {
	Steps        []int32
	Microseconds float64
}

// MotorQueue is a fake planner.MotorQueue. Ready defaults to true; a test
// that needs to exercise EAGAIN-on-backpressure sets Readiness to false
// directly.
type MotorQueue struct {
	mu sync.Mutex

	Readiness bool
	Lines     []QueuedLine
	Dwells    []float64
	Stops     []planner.MoveType

	// FailNext, if set, makes the next Queue* call return this error once
	// and then clear itself.
	FailNext error
}

// NewMotorQueue returns a MotorQueue ready to accept segments.
func NewMotorQueue() *MotorQueue {
	return &MotorQueue{Readiness: true}
}

// Ready implements planner.MotorQueue.
func (q *MotorQueue) Ready() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.Readiness
}

// QueueLine implements planner.MotorQueue.
func (q *MotorQueue) QueueLine(steps []int32, microseconds float64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.FailNext != nil {
		err := q.FailNext
		q.FailNext = nil
		return err
	}
	cp := make([]int32, len(steps))
	copy(cp, steps)
	q.Lines = append(q.Lines, QueuedLine{Steps: cp, Microseconds: microseconds})
	return nil
}

// QueueDwell implements planner.MotorQueue.
func (q *MotorQueue) QueueDwell(microseconds float64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.FailNext != nil {
		err := q.FailNext
		q.FailNext = nil
		return err
	}
	q.Dwells = append(q.Dwells, microseconds)
	return nil
}

// QueueStops implements planner.MotorQueue.
func (q *MotorQueue) QueueStops(moveType planner.MoveType) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.FailNext != nil {
		err := q.FailNext
		q.FailNext = nil
		return err
	}
	q.Stops = append(q.Stops, moveType)
	return nil
}

// LineCount returns the number of QueueLine calls observed so far.
func (q *MotorQueue) LineCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Lines)
}

// Kinematics is a fake planner.Kinematics: a trivial one-motor-per-axis
// identity mapping, truncating millimetres to whole steps. Good enough to
// exercise the planner's segment-emission logic without a real IK solver.
type Kinematics struct {
	// StepsPerMM scales each axis's travel into step counts; defaults to 1
	// per axis if left nil (set by NewKinematics).
	StepsPerMM []float64

	mu    sync.Mutex
	Calls int
}

// NewKinematics returns a Kinematics with unit steps-per-mm on every axis.
func NewKinematics(axes int) *Kinematics {
	spm := make([]float64, axes)
	for i := range spm {
		spm[i] = 1
	}
	return &Kinematics{StepsPerMM: spm}
}

// Solve implements planner.Kinematics.
func (k *Kinematics) Solve(deltaMM []float64, microseconds float64) ([]int32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.Calls++
	steps := make([]int32, len(deltaMM))
	for i, d := range deltaMM {
		scale := 1.0
		if i < len(k.StepsPerMM) {
			scale = k.StepsPerMM[i]
		}
		steps[i] = int32(d * scale)
	}
	return steps, nil
}

// CanonicalMachine is a fake planner.CanonicalMachine with a settable mode.
type CanonicalMachine struct {
	Mode planner.PathControlMode
}

// NewCanonicalMachine returns a CanonicalMachine defaulting to continuous
// path mode (the common case: most joins should blend, not stop).
func NewCanonicalMachine() *CanonicalMachine {
	return &CanonicalMachine{Mode: planner.PathContinuous}
}

// PathControlMode implements planner.CanonicalMachine.
func (c *CanonicalMachine) PathControlMode() planner.PathControlMode {
	return c.Mode
}
