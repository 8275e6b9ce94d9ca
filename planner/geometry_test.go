package planner

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestVecLen(t *testing.T) {
	t.Parallel()
	a := []float64{0, 0, 0}
	b := []float64{3, 4, 0}
	test.That(t, vecLen(a, b), test.ShouldAlmostEqual, 5.0)
}

func TestUnitVector(t *testing.T) {
	t.Parallel()
	u := unitVector([]float64{10, 0}, []float64{0, 0})
	test.That(t, u[0], test.ShouldAlmostEqual, 1.0)
	test.That(t, u[1], test.ShouldAlmostEqual, 0.0)
}

func TestJerkLenAndJerkVelRoundTrip(t *testing.T) {
	t.Parallel()
	jm := 50000000.0
	l := jerkLen(0, 1000, jm)
	test.That(t, l > 0, test.ShouldBeTrue)
	v := jerkVel(0, l, jm)
	test.That(t, v, test.ShouldAlmostEqual, 1000.0)
}

func TestCorneringFactorStraightAndReversal(t *testing.T) {
	t.Parallel()
	straight := corneringFactor([]float64{1, 0}, []float64{1, 0})
	test.That(t, straight, test.ShouldAlmostEqual, 1.0)

	reversal := corneringFactor([]float64{1, 0}, []float64{-1, 0})
	test.That(t, math.Abs(reversal), test.ShouldBeLessThan, 1e-9)

	rightAngle := corneringFactor([]float64{1, 0}, []float64{0, 1})
	test.That(t, rightAngle, test.ShouldAlmostEqual, math.Cos(math.Pi/4))
}

func TestCornerDotClampsDrift(t *testing.T) {
	t.Parallel()
	// A unit vector dotted with itself after floating point noise can drift
	// slightly above 1; cornerDot must clamp before acos ever sees it.
	d := cornerDot([]float64{1.0000000001, 0}, []float64{1, 0})
	test.That(t, d, test.ShouldEqual, 1.0)
}

func TestWithinEpsilon(t *testing.T) {
	t.Parallel()
	test.That(t, withinEpsilon(1.0, 1.00001, 0.001), test.ShouldBeTrue)
	test.That(t, withinEpsilon(1.0, 1.1, 0.001), test.ShouldBeFalse)
}
