package planner

import (
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
}

func TestValidateAggregatesFailures(t *testing.T) {
	t.Parallel()
	var cfg Config
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	// Every zero-value field is independently invalid; multierr should report
	// more than one of them at once rather than stopping at the first.
	test.That(t, len(multierr.Errors(err)) > 1, test.ShouldBeTrue)
}

func TestValidateRejectsUndersizedRing(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.BufferSize = 2
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)
}
