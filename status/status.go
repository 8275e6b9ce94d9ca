// Package status defines the result codes shared by the planner's submit and
// dispatch APIs.
package status

// Status is the result of a submit or dispatch call. It implements error so
// it can be returned where an error is expected; IsError tells failures
// apart from OK, EAGAIN, NOOP and COMPLETE, which cooperative callers switch
// on directly rather than treat as failure.
type Status int

const (
	// OK indicates the call completed its unit of work normally.
	OK Status = iota
	// EAGAIN indicates the caller must retry; no state was mutated by the
	// non-blocking call that returned it.
	EAGAIN
	// NOOP indicates nothing was available to do (e.g. Step called with no
	// queued buffer).
	NOOP
	// COMPLETE is reserved for a collaborator that wants to distinguish
	// buffer completion from a mid-run OK explicitly; no run function in
	// this package returns it today, since the dispatcher already finalizes
	// the slot on any non-EAGAIN return and forwards that status as-is, so
	// callers observe buffer completion as OK.
	COMPLETE
	// ZeroLengthMove indicates a submit was rejected for being degenerate
	// (distance below MinLineLength, or time below Epsilon).
	ZeroLengthMove
	// BufferFullFatal indicates the ring did not have the buffers a submit
	// required.
	BufferFullFatal
	// Err is a generic failure not covered by the above.
	Err
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case EAGAIN:
		return "EAGAIN"
	case NOOP:
		return "NOOP"
	case COMPLETE:
		return "COMPLETE"
	case ZeroLengthMove:
		return "ZERO_LENGTH_MOVE"
	case BufferFullFatal:
		return "BUFFER_FULL_FATAL"
	case Err:
		return "ERR"
	default:
		return "UNKNOWN_STATUS"
	}
}

// Error satisfies the error interface so a Status can be returned directly
// from functions with an (T, error) signature when that is more idiomatic
// than a bare status return. It returns the same text as String for every
// value; use IsError to tell whether a value is a failure.
func (s Status) Error() string {
	return s.String()
}

// IsError reports whether s represents a failure rather than a normal
// (possibly still-in-progress) outcome.
func (s Status) IsError() bool {
	switch s {
	case OK, EAGAIN, NOOP, COMPLETE:
		return false
	default:
		return true
	}
}
