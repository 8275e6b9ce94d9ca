package status

import (
	"testing"

	"go.viam.com/test"
)

func TestStatusString(t *testing.T) {
	t.Parallel()
	cases := []struct {
		s    Status
		want string
	}{
		{OK, "OK"},
		{EAGAIN, "EAGAIN"},
		{NOOP, "NOOP"},
		{COMPLETE, "COMPLETE"},
		{ZeroLengthMove, "ZERO_LENGTH_MOVE"},
		{BufferFullFatal, "BUFFER_FULL_FATAL"},
		{Err, "ERR"},
		{Status(99), "UNKNOWN_STATUS"},
	}
	for _, c := range cases {
		test.That(t, c.s.String(), test.ShouldEqual, c.want)
		test.That(t, c.s.Error(), test.ShouldEqual, c.want)
	}
}

func TestIsError(t *testing.T) {
	t.Parallel()
	notErrors := []Status{OK, EAGAIN, NOOP, COMPLETE}
	for _, s := range notErrors {
		test.That(t, s.IsError(), test.ShouldBeFalse)
	}
	errors := []Status{ZeroLengthMove, BufferFullFatal, Err}
	for _, s := range errors {
		test.That(t, s.IsError(), test.ShouldBeTrue)
	}
}
