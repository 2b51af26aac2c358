package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Twist is a 6D spatial vector representing an instantaneous rigid-body velocity
// or a Lie-algebra element of a rigid motion. The linear part comes first, the
// angular part second, in all serialized forms.
type Twist struct {
	Linear  r3.Vector
	Angular r3.Vector
}

// ZeroTwist returns the zero spatial vector.
func ZeroTwist() Twist {
	return Twist{}
}

// Add returns the componentwise sum of two twists.
func (tw Twist) Add(other Twist) Twist {
	return Twist{tw.Linear.Add(other.Linear), tw.Angular.Add(other.Angular)}
}

// Sub returns the componentwise difference of two twists.
func (tw Twist) Sub(other Twist) Twist {
	return Twist{tw.Linear.Sub(other.Linear), tw.Angular.Sub(other.Angular)}
}

// Mul scales the twist by a scalar.
func (tw Twist) Mul(s float64) Twist {
	return Twist{tw.Linear.Mul(s), tw.Angular.Mul(s)}
}

// Cross is the Lie bracket of two spatial velocities,
// (w1 x v2 + v1 x w2, w1 x w2).
func (tw Twist) Cross(other Twist) Twist {
	return Twist{
		Linear:  tw.Angular.Cross(other.Linear).Add(tw.Linear.Cross(other.Angular)),
		Angular: tw.Angular.Cross(other.Angular),
	}
}

// Norm returns the Euclidean norm over all six components.
func (tw Twist) Norm() float64 {
	return math.Sqrt(tw.Linear.Norm2() + tw.Angular.Norm2())
}

// AlmostEqual returns whether the two twists agree componentwise to within tol.
func (tw Twist) AlmostEqual(other Twist, tol float64) bool {
	d := tw.Sub(other)
	return math.Abs(d.Linear.X) <= tol && math.Abs(d.Linear.Y) <= tol && math.Abs(d.Linear.Z) <= tol &&
		math.Abs(d.Angular.X) <= tol && math.Abs(d.Angular.Y) <= tol && math.Abs(d.Angular.Z) <= tol
}
