package planner

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// OneMinuteOfMicroseconds is the constant used throughout the runtime to
// convert a duration expressed in minutes (the unit every velocity/time
// field in the buffer uses) into the microsecond durations the downstream
// motor queue wants.
const OneMinuteOfMicroseconds = 6e7

// Config carries the planner's read-only tuning parameters. It is validated
// once at NewPlanner time; nothing in the hot submit/dispatch path re-checks
// it.
type Config struct {
	// Axes is the number of Cartesian axes a move's target/unit vector is
	// dimensioned over (commonly 3-6 for a gantry or arm).
	Axes int `json:"axes"`
	// Motors is the number of stepper motors the Kinematics collaborator
	// emits step counts for; not necessarily equal to Axes (e.g. CoreXY).
	Motors int `json:"motors"`

	// LinearJerkMax is Jm, the maximum linear jerk in mm/min^3.
	LinearJerkMax float64 `json:"linear_jerk_max"`
	// MinSegmentLen is the minimum chord length (mm) the arc runtime
	// will emit as its own segment.
	MinSegmentLen float64 `json:"min_segment_len"`
	// MinSegmentTime is the minimum duration (minutes) a single emitted
	// segment may span.
	MinSegmentTime float64 `json:"min_segment_time"`

	// BufferSize is N, the ring's fixed capacity (typical 8-32).
	BufferSize int `json:"buffer_size"`
	// MaxLookbackDepth is MP_MAX_LOOKBACK_DEPTH, the backplanner's walk-back
	// iteration cap.
	MaxLookbackDepth int `json:"max_lookback_depth"`

	// MinLineLength is the minimum geometric length (mm) a line or aline
	// submit will accept.
	MinLineLength float64 `json:"min_line_length"`
	// Epsilon is the tolerance used for all the "close enough" velocity and
	// length comparisons throughout region solving and backplanning.
	Epsilon float64 `json:"epsilon"`
}

// DefaultConfig returns reasonable defaults for a conservative desktop-class
// CNC gantry; callers are expected to override LinearJerkMax, Axes and
// Motors for their own machine.
func DefaultConfig() Config {
	return Config{
		Axes:             3,
		Motors:           3,
		LinearJerkMax:    50000000, // mm/min^3
		MinSegmentLen:    0.1,
		MinSegmentTime:   0.0000005, // minutes; ~30us
		BufferSize:       16,
		MaxLookbackDepth: 8,
		MinLineLength:    0.001,
		Epsilon:          0.0001,
	}
}

// Validate aggregates every independent configuration failure into a single
// error via multierr, reporting every bad field at once rather than failing
// fast on the first.
func (c Config) Validate() error {
	var err error
	if c.Axes <= 0 {
		err = multierr.Append(err, errors.New("axes must be positive"))
	}
	if c.Motors <= 0 {
		err = multierr.Append(err, errors.New("motors must be positive"))
	}
	if c.LinearJerkMax <= 0 {
		err = multierr.Append(err, errors.New("linear_jerk_max must be positive"))
	}
	if c.MinSegmentLen <= 0 {
		err = multierr.Append(err, errors.New("min_segment_len must be positive"))
	}
	if c.MinSegmentTime <= 0 {
		err = multierr.Append(err, errors.New("min_segment_time must be positive"))
	}
	if c.BufferSize < 3 {
		// submit_aline always requires three free buffers; a ring
		// smaller than that can never accept a single aline.
		err = multierr.Append(err, errors.New("buffer_size must be at least 3"))
	}
	if c.MaxLookbackDepth <= 0 {
		err = multierr.Append(err, errors.New("max_lookback_depth must be positive"))
	}
	if c.MinLineLength <= 0 {
		err = multierr.Append(err, errors.New("min_line_length must be positive"))
	}
	if c.Epsilon <= 0 {
		err = multierr.Append(err, errors.New("epsilon must be positive"))
	}
	return err
}
