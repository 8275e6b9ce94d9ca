package planner

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// vecLen returns |a - b| over axis vectors of equal dimension.
func vecLen(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Norm(diff, 2)
}

// unitVector returns (a-b)/|a-b|. Callers must not invoke this with a == b;
// the region solver and submit front-ends always reject degenerate moves
// before computing a unit vector.
func unitVector(a, b []float64) []float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	l := floats.Norm(diff, 2)
	floats.Scale(1/l, diff)
	return diff
}

// jerkLen is the distance required for a jerk-limited S-curve velocity
// transition between Vi and Vf under jerk jm.
//
//	len(Vi,Vf) = |Vf - Vi| * sqrt(|Vf - Vi| / Jm)
func jerkLen(vi, vf, jm float64) float64 {
	dv := math.Abs(vf - vi)
	return dv * math.Sqrt(dv/jm)
}

// jerkVel is the velocity attainable after travelling distance L from
// starting velocity V under jerk jm.
//
//	vel(V,L) = Jm^(1/3) * L^(2/3) + V
func jerkVel(v, l, jm float64) float64 {
	return math.Cbrt(jm)*math.Pow(l, 2.0/3.0) + v
}

// cornerDot is the dot product of two equal-length unit vectors, clamped to
// [-1, 1] to absorb floating point drift before it reaches math.Acos.
func cornerDot(u, v []float64) float64 {
	d := floats.Dot(u, v)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return d
}

// corneringFactor computes the velocity-blending factor at a move join:
//
//	cos(acos(dot(u_prev, u_cur)) / 2)
//
// 1 for a straight join, 0 for a 180-degree reversal.
func corneringFactor(prev, cur []float64) float64 {
	return math.Cos(math.Acos(cornerDot(prev, cur)) / 2)
}

func withinEpsilon(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func copyVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
