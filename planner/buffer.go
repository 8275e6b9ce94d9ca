package planner

// bufferState is a buffer's place in the producer/consumer lifecycle.
type bufferState int

const (
	bufEmpty bufferState = iota
	bufLoading
	bufQueued
	bufPending
	bufRunning
)

func (s bufferState) String() string {
	switch s {
	case bufEmpty:
		return "empty"
	case bufLoading:
		return "loading"
	case bufQueued:
		return "queued"
	case bufPending:
		return "pending"
	case bufRunning:
		return "running"
	default:
		return "unknown"
	}
}

// moveSubState is move_state: the runtime's sub-phase within a single
// buffer's execution.
type moveSubState int

const (
	moveNew moveSubState = iota
	moveRunning1
	moveRunning2
	moveFinalize
	moveSubEnd
)

// ArcData holds the fields used only by arc buffers.
type ArcData struct {
	Theta         float64
	Radius        float64
	AngularTravel float64
	LinearTravel  float64
	Axis1         int
	Axis2         int
	AxisLinear    int
}

// Buffer is the motion buffer: the atomic planning/runtime unit. Most
// represent one region (head, body or tail) of a user move; line, arc,
// dwell and stop/start/end buffers stand alone.
type Buffer struct {
	state     bufferState
	moveType  MoveType
	moveState moveSubState
	replannable bool
	// groupSize is the number of consecutive ring slots this buffer's
	// submission committed together: 3 for an aline's head/body/tail, 1 for
	// every other move type. It lets the backplanner discover move
	// boundaries when walking backward through a ring that interleaves
	// 3-slot alines with 1-slot lines/arcs/dwells/stops, without assuming a
	// fixed stride.
	groupSize int

	target  []float64
	unitVec []float64

	length float64 // mm
	time   float64 // minutes

	startVelocity   float64 // mm/min
	endVelocity     float64 // mm/min
	requestVelocity float64 // mm/min

	arc ArcData
}

// MoveType returns the buffer's move type, for read-only inspection by
// callers (e.g. diagnostics).
func (b *Buffer) MoveType() MoveType { return b.moveType }

// Length returns the buffer's geometric length in mm.
func (b *Buffer) Length() float64 { return b.length }

// StartVelocity returns the region's actual start velocity in mm/min.
func (b *Buffer) StartVelocity() float64 { return b.startVelocity }

// EndVelocity returns the region's actual end velocity in mm/min.
func (b *Buffer) EndVelocity() float64 { return b.endVelocity }

// Replannable reports whether the backplanner may still mutate this buffer.
func (b *Buffer) Replannable() bool { return b.replannable }

// Target returns a copy of the buffer's absolute end position.
func (b *Buffer) Target() []float64 { return copyVec(b.target) }

// reset clears a slot back to its zero value while preserving the
// axis-sized slices already allocated for it, so newPool's one-time
// allocation is never revisited at runtime (Non-goals: no dynamic
// allocation at runtime).
func (b *Buffer) reset(axes int) {
	target := b.target
	unitVec := b.unitVec
	if target == nil {
		target = make([]float64, axes)
	}
	if unitVec == nil {
		unitVec = make([]float64, axes)
	}
	for i := range target {
		target[i] = 0
	}
	for i := range unitVec {
		unitVec[i] = 0
	}
	*b = Buffer{
		state:   bufEmpty,
		target:  target,
		unitVec: unitVec,
	}
}
