// Package gpiomotorqueue is a reference implementation of the planner's
// MotorQueue and Kinematics collaborators over raw GPIO step/dir pins,
// built on periph.io's host initialisation and GPIO pin registry. It is a
// userspace bit-banged demo driver, not
// a production stepper ISR: real deployments replace this package with a
// microcontroller-backed queue, keeping the planner side unchanged.
package gpiomotorqueue

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/dan-nab/TinyG/logging"
	"github.com/dan-nab/TinyG/planner"
)

// MotorPins names the step/dir GPIO pins backing one stepper motor.
type MotorPins struct {
	Step string
	Dir  string
}

type motor struct {
	step gpio.PinIO
	dir  gpio.PinIO
}

// Queue drives a set of stepper motors by toggling their step pins in
// userspace, one QueueLine call at a time. It satisfies planner.MotorQueue.
type Queue struct {
	logger logging.Logger
	motors []motor
}

// NewQueue initializes periph.io's host drivers and resolves each motor's
// step/dir pins by name (as reported by gpioreg, e.g. "GPIO6").
func NewQueue(logger logging.Logger, pins []MotorPins) (*Queue, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "gpiomotorqueue: host init")
	}

	motors := make([]motor, len(pins))
	for i, p := range pins {
		stepPin := gpioreg.ByName(p.Step)
		if stepPin == nil {
			return nil, errors.Errorf("gpiomotorqueue: unknown step pin %q for motor %d", p.Step, i)
		}
		dirPin := gpioreg.ByName(p.Dir)
		if dirPin == nil {
			return nil, errors.Errorf("gpiomotorqueue: unknown dir pin %q for motor %d", p.Dir, i)
		}
		if err := stepPin.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "gpiomotorqueue: configuring step pin for motor %d", i)
		}
		if err := dirPin.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "gpiomotorqueue: configuring dir pin for motor %d", i)
		}
		motors[i] = motor{step: stepPin, dir: dirPin}
	}
	return &Queue{logger: logger, motors: motors}, nil
}

// Ready always reports true: this reference driver is purely synchronous
// (QueueLine blocks for the segment's duration), so there is never a
// software queue to be full.
func (q *Queue) Ready() bool { return true }

// QueueLine pulses each motor's step pin the requested number of times,
// evenly spaced across microseconds, after setting that motor's direction
// pin from the sign of its step count.
func (q *Queue) QueueLine(steps []int32, microseconds float64) error {
	if len(steps) != len(q.motors) {
		return errors.Errorf("gpiomotorqueue: queue_line got %d step counts, have %d motors", len(steps), len(q.motors))
	}
	maxSteps := int32(0)
	for i, s := range steps {
		n := s
		if n < 0 {
			n = -n
		}
		if n > maxSteps {
			maxSteps = n
		}
		level := gpio.Low
		if s < 0 {
			level = gpio.High
		}
		if err := q.motors[i].dir.Out(level); err != nil {
			return errors.Wrapf(err, "gpiomotorqueue: setting direction for motor %d", i)
		}
	}
	if maxSteps == 0 {
		return nil
	}

	interval := time.Duration(microseconds*float64(time.Microsecond)) / time.Duration(maxSteps)
	if interval <= 0 {
		interval = time.Microsecond
	}

	for tick := int32(0); tick < maxSteps; tick++ {
		for i, s := range steps {
			n := s
			if n < 0 {
				n = -n
			}
			// Bresenham-style accumulation: emit this motor's step only on
			// the ticks its own (sparser) step count actually lands on, so
			// motors stepping fewer counts than maxSteps stay evenly spaced.
			if n == 0 {
				continue
			}
			if (tick*n)/maxSteps != ((tick-1)*n)/maxSteps || tick == 0 {
				if err := q.motors[i].step.Out(gpio.High); err != nil {
					return errors.Wrapf(err, "gpiomotorqueue: step pulse for motor %d", i)
				}
			}
		}
		time.Sleep(interval / 2)
		for i := range q.motors {
			if err := q.motors[i].step.Out(gpio.Low); err != nil {
				return errors.Wrapf(err, "gpiomotorqueue: step release for motor %d", i)
			}
		}
		time.Sleep(interval / 2)
	}
	return nil
}

// QueueDwell simply sleeps for the requested duration.
func (q *Queue) QueueDwell(microseconds float64) error {
	time.Sleep(time.Duration(microseconds * float64(time.Microsecond)))
	return nil
}

// QueueStops logs the marker; this reference driver has no motor-enable
// lines to toggle.
func (q *Queue) QueueStops(moveType planner.MoveType) error {
	q.logger.Debugf("gpiomotorqueue: %s marker", moveType.String())
	return nil
}

// LinearKinematics is the trivial Kinematics reference implementation: a
// fixed steps-per-millimetre scale per axis, one motor per axis. It is not
// a general inverse-kinematics solver (out of scope); a CoreXY or other
// coupled-motor machine supplies its own Kinematics instead.
type LinearKinematics struct {
	StepsPerMM []float64
}

// Solve implements planner.Kinematics.
func (k LinearKinematics) Solve(deltaMM []float64, microseconds float64) ([]int32, error) {
	if len(deltaMM) != len(k.StepsPerMM) {
		return nil, errors.Errorf("gpiomotorqueue: delta has %d axes, steps_per_mm has %d", len(deltaMM), len(k.StepsPerMM))
	}
	steps := make([]int32, len(deltaMM))
	for i, d := range deltaMM {
		steps[i] = int32(math.Round(d * k.StepsPerMM[i]))
	}
	return steps, nil
}
