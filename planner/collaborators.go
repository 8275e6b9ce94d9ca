package planner

import "context"

// MoveType is the buffer's move_type: what kind of motion a buffer
// represents.
type MoveType int

const (
	MoveNull MoveType = iota
	MoveAccel
	MoveCruise
	MoveDecel
	MoveLine
	MoveArc
	MoveDwell
	MoveStart
	MoveStop
	MoveEnd
)

func (t MoveType) String() string {
	switch t {
	case MoveNull:
		return "null"
	case MoveAccel:
		return "accel"
	case MoveCruise:
		return "cruise"
	case MoveDecel:
		return "decel"
	case MoveLine:
		return "line"
	case MoveArc:
		return "arc"
	case MoveDwell:
		return "dwell"
	case MoveStart:
		return "start"
	case MoveStop:
		return "stop"
	case MoveEnd:
		return "end"
	default:
		return "unknown"
	}
}

// PathControlMode is cm_get_path_control_mode()'s result.
type PathControlMode int

const (
	// PathContinuous maximises velocity at joins.
	PathContinuous PathControlMode = iota
	// PathExactPath decelerates to a safe join speed.
	PathExactPath
	// PathExactStop forces zero velocity at joins.
	PathExactStop
)

// MotorQueue is the downstream stepper queue collaborator. The planner
// never touches hardware directly; it only calls this interface, which is
// the ISR-driven consumer's only contact with the planner.
type MotorQueue interface {
	// Ready reports mq_test_motor_buffer(): whether the queue can accept
	// another segment right now.
	Ready() bool
	// QueueLine emits one constant-time step segment (mq_queue_line).
	QueueLine(steps []int32, microseconds float64) error
	// QueueDwell emits one timed dwell (mq_queue_dwell).
	QueueDwell(microseconds float64) error
	// QueueStops emits one stop/start/end marker (mq_queue_stops).
	QueueStops(moveType MoveType) error
}

// Kinematics is the ik_kinematics() collaborator: converts a Cartesian
// delta over the duration of one segment into per-motor step counts.
type Kinematics interface {
	Solve(deltaMM []float64, microseconds float64) (steps []int32, err error)
}

// CanonicalMachine is the minimal slice of the canonical machine state the
// planner reads; everything else about canonical state (feed mode,
// plane selection, ...) lives outside this module.
type CanonicalMachine interface {
	PathControlMode() PathControlMode
}

// AsyncStepper is the ISR-safe subset of stepper control: start/stop/end
// never touch the buffer pool and may be called from an interrupt context.
type AsyncStepper interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsBusy() bool
}
