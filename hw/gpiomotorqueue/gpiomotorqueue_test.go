package gpiomotorqueue

import (
	"testing"

	"go.viam.com/test"
)

func TestLinearKinematicsSolve(t *testing.T) {
	t.Parallel()
	k := LinearKinematics{StepsPerMM: []float64{80, 80, 400}}
	steps, err := k.Solve([]float64{1, -2, 0.5}, 1000)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, steps, test.ShouldResemble, []int32{80, -160, 200})
}

func TestLinearKinematicsRejectsAxisMismatch(t *testing.T) {
	t.Parallel()
	k := LinearKinematics{StepsPerMM: []float64{80}}
	_, err := k.Solve([]float64{1, 2}, 1000)
	test.That(t, err, test.ShouldNotBeNil)
}
