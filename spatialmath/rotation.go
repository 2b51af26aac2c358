// Package spatialmath defines spatial mathematical operations for rigid bodies:
// rotations, rigid transforms, 6D spatial vectors, and the exponential and
// logarithm maps between the rotation/rigid-motion groups and their Lie algebras.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix in row major order.
//
//	mat[0] mat[1] mat[2]
//	mat[3] mat[4] mat[5]
//	mat[6] mat[7] mat[8]
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of floats in row major order.
// The input must already be orthonormal with determinant +1; this is a caller contract
// and is not checked.
func NewRotationMatrix(m [9]float64) RotationMatrix {
	return RotationMatrix{m}
}

// NewIdentityRotationMatrix returns the rotation representing no rotation.
func NewIdentityRotationMatrix() RotationMatrix {
	return RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewRotationMatrixFromQuaternion converts a unit quaternion to a rotation matrix.
func NewRotationMatrixFromQuaternion(q quat.Number) RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return RotationMatrix{[9]float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*z*w, 2*x*z + 2*y*w,
		2*x*y + 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z - 2*x*w,
		2*x*z - 2*y*w, 2*y*z + 2*x*w, 1 - 2*x*x - 2*y*y,
	}}
}

// NewRotationMatrixFromAxisAngle returns the rotation of theta radians about the given
// axis. The axis is normalized before use.
func NewRotationMatrixFromAxisAngle(axis r3.Vector, theta float64) RotationMatrix {
	return Exp3(axis.Normalize().Mul(theta))
}

// At returns the float corresponding to the given row and column.
func (rm RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the a vector corresponding to the given row index.
func (rm RotationMatrix) Row(i int) r3.Vector {
	return r3.Vector{X: rm.mat[3*i], Y: rm.mat[3*i+1], Z: rm.mat[3*i+2]}
}

// Col returns the a vector corresponding to the given column index.
func (rm RotationMatrix) Col(i int) r3.Vector {
	return r3.Vector{X: rm.mat[i], Y: rm.mat[3+i], Z: rm.mat[6+i]}
}

// Trace returns the sum of the diagonal elements.
func (rm RotationMatrix) Trace() float64 {
	return rm.mat[0] + rm.mat[4] + rm.mat[8]
}

// Transpose returns the transpose, which for a rotation matrix is also its inverse.
func (rm RotationMatrix) Transpose() RotationMatrix {
	m := rm.mat
	return RotationMatrix{[9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Mul composes two rotations, returning rm * other.
func (rm RotationMatrix) Mul(other RotationMatrix) RotationMatrix {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = rm.mat[3*i]*other.mat[j] + rm.mat[3*i+1]*other.mat[3+j] + rm.mat[3*i+2]*other.mat[6+j]
		}
	}
	return RotationMatrix{out}
}

// Apply rotates the given vector.
func (rm RotationMatrix) Apply(v r3.Vector) r3.Vector {
	m := rm.mat
	return r3.Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// ApplyInverse rotates the given vector by the inverse rotation.
func (rm RotationMatrix) ApplyInverse(v r3.Vector) r3.Vector {
	m := rm.mat
	return r3.Vector{
		X: m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		Y: m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		Z: m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Quaternion returns the unit quaternion associated with the rotation matrix.
func (rm RotationMatrix) Quaternion() quat.Number {
	m := rm.mat
	var q quat.Number

	// converting to quaternion form involves taking the square root of the trace and depending
	// on the sign of its components, the equation takes a different form to maintain stability
	tr := m[0] + m[4] + m[8]
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1.0)
		q = quat.Number{Real: 0.25 / s, Imag: (m[7] - m[5]) * s, Jmag: (m[2] - m[6]) * s, Kmag: (m[3] - m[1]) * s}
	case m[0] > m[4] && m[0] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[0]-m[4]-m[8])
		q = quat.Number{Real: (m[7] - m[5]) / s, Imag: 0.25 * s, Jmag: (m[1] + m[3]) / s, Kmag: (m[2] + m[6]) / s}
	case m[4] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[4]-m[0]-m[8])
		q = quat.Number{Real: (m[2] - m[6]) / s, Imag: (m[1] + m[3]) / s, Jmag: 0.25 * s, Kmag: (m[5] + m[7]) / s}
	default:
		s := 2.0 * math.Sqrt(1.0+m[8]-m[0]-m[4])
		q = quat.Number{Real: (m[3] - m[1]) / s, Imag: (m[2] + m[6]) / s, Jmag: (m[5] + m[7]) / s, Kmag: 0.25 * s}
	}
	return q
}

// AlmostEqual returns whether the two matrices agree entrywise to within tol.
func (rm RotationMatrix) AlmostEqual(other RotationMatrix, tol float64) bool {
	for i := range rm.mat {
		if math.Abs(rm.mat[i]-other.mat[i]) > tol {
			return false
		}
	}
	return true
}
