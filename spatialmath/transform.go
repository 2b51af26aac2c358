package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is an element of the rigid-motion group: a rotation plus a translation.
type Transform struct {
	R RotationMatrix
	P r3.Vector
}

// NewTransform creates a transform from a rotation and a translation.
func NewTransform(r RotationMatrix, p r3.Vector) Transform {
	return Transform{R: r, P: p}
}

// NewIdentityTransform returns the transform representing no motion.
func NewIdentityTransform() Transform {
	return Transform{R: NewIdentityRotationMatrix()}
}

// NewTransformFromPoint creates a pure translation.
func NewTransformFromPoint(p r3.Vector) Transform {
	return Transform{R: NewIdentityRotationMatrix(), P: p}
}

// NewTransformFromQuaternion creates a transform from a unit quaternion and a translation.
func NewTransformFromQuaternion(q quat.Number, p r3.Vector) Transform {
	return Transform{R: NewRotationMatrixFromQuaternion(q), P: p}
}

// NewTransformFromDH creates a transform from a DH parameter triple.
func NewTransformFromDH(a, d, alpha float64) Transform {
	m := mgl64.Ident4()

	m.Set(1, 1, math.Cos(alpha))
	m.Set(1, 2, -1*math.Sin(alpha))

	m.Set(2, 0, 0)
	m.Set(2, 1, math.Sin(alpha))
	m.Set(2, 2, math.Cos(alpha))

	qRot := mgl64.Mat4ToQuat(m)
	q := quat.Number{Real: qRot.W, Imag: qRot.X(), Jmag: qRot.Y(), Kmag: qRot.Z()}
	return NewTransformFromQuaternion(q, r3.Vector{X: a, Y: 0, Z: d})
}

// NewTransformFromDualQuaternion converts a unit dual quaternion into a transform.
func NewTransformFromDualQuaternion(dq dualquat.Number) Transform {
	if vecLen := quat.Abs(dq.Real); vecLen != 1 {
		dq.Real = quat.Scale(1/vecLen, dq.Real)
	}
	cart := dualquat.Mul(dq, dualquat.Conj(dq))
	return Transform{
		R: NewRotationMatrixFromQuaternion(dq.Real),
		P: r3.Vector{X: cart.Dual.Imag, Y: cart.Dual.Jmag, Z: cart.Dual.Kmag},
	}
}

// DualQuaternion returns the unit dual quaternion representing the transform. The dual
// part is set against the rotation so that multiplying the result by its conjugate
// recovers the translation.
func (t Transform) DualQuaternion() dualquat.Number {
	rot := t.R.Quaternion()
	dual := quat.Mul(quat.Number{Imag: t.P.X / 2, Jmag: t.P.Y / 2, Kmag: t.P.Z / 2}, rot)
	return dualquat.Number{Real: rot, Dual: dual}
}

// Compose returns the transform t * other, applying other first.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		R: t.R.Mul(other.R),
		P: t.P.Add(t.R.Apply(other.P)),
	}
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	rt := t.R.Transpose()
	return Transform{R: rt, P: rt.Apply(t.P).Mul(-1)}
}

// ApplyPoint maps a point expressed in the transform's frame into the parent frame.
func (t Transform) ApplyPoint(v r3.Vector) r3.Vector {
	return t.R.Apply(v).Add(t.P)
}

// ApplyInversePoint maps a point expressed in the parent frame into the transform's frame.
func (t Transform) ApplyInversePoint(v r3.Vector) r3.Vector {
	return t.R.ApplyInverse(v.Sub(t.P))
}

// Act re-expresses a spatial velocity from the transform's frame into the parent frame.
func (t Transform) Act(tw Twist) Twist {
	ang := t.R.Apply(tw.Angular)
	return Twist{
		Linear:  t.R.Apply(tw.Linear).Add(t.P.Cross(ang)),
		Angular: ang,
	}
}

// ActInv re-expresses a spatial velocity from the parent frame into the transform's frame.
func (t Transform) ActInv(tw Twist) Twist {
	return Twist{
		Linear:  t.R.ApplyInverse(tw.Linear.Sub(t.P.Cross(tw.Angular))),
		Angular: t.R.ApplyInverse(tw.Angular),
	}
}

// AlmostEqual returns whether the rotations and translations agree to within tol.
func (t Transform) AlmostEqual(other Transform, tol float64) bool {
	return t.R.AlmostEqual(other.R, tol) &&
		math.Abs(t.P.X-other.P.X) <= tol &&
		math.Abs(t.P.Y-other.P.Y) <= tol &&
		math.Abs(t.P.Z-other.P.Z) <= tol
}
