package kinematics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/multibody/spatialmath"
)

// Data is the per-query snapshot a model's algorithms read and write: joint
// placements from the latest forward-kinematics pass, joint spatial velocities,
// and the model Jacobian and its time derivative. All buffers are sized at
// construction and overwritten in place by each computing call; results are
// valid until the next call that writes them.
//
// A Data is owned by one query stream at a time. Concurrent calls sharing a
// Data must be externally serialized; independent Data snapshots of the same
// Model may be used concurrently.
type Data struct {
	// oMi[i] is the placement of joint i relative to the world frame.
	oMi []spatialmath.Transform
	// liMi[i] is the placement of joint i relative to its parent's joint frame.
	liMi []spatialmath.Transform
	// v[i] is the spatial velocity of joint i expressed in its own frame.
	v []spatialmath.Twist
	// ov[i] is the spatial velocity of joint i expressed in the world frame.
	ov []spatialmath.Twist
	// jac is the 6 x Nv model Jacobian: every joint's motion subspace stacked in
	// world coordinates, column blocks in tree order.
	jac *mat.Dense
	// djac is the 6 x Nv time derivative of jac.
	djac *mat.Dense
}

// NewData allocates a snapshot sized for the given model. Placements start at
// identity and all velocities and Jacobian entries at zero.
func NewData(m *Model) *Data {
	n := len(m.joints)
	d := &Data{
		oMi:  make([]spatialmath.Transform, n),
		liMi: make([]spatialmath.Transform, n),
		v:    make([]spatialmath.Twist, n),
		ov:   make([]spatialmath.Twist, n),
	}
	for i := range d.oMi {
		d.oMi[i] = spatialmath.NewIdentityTransform()
		d.liMi[i] = spatialmath.NewIdentityTransform()
	}
	nv := m.Nv()
	if nv == 0 {
		nv = 1 // mat.NewDense rejects zero-sized matrices
	}
	d.jac = mat.NewDense(6, nv, nil)
	d.djac = mat.NewDense(6, nv, nil)
	return d
}

// Placement returns the world placement of the given joint as of the latest
// forward-kinematics pass.
func (d *Data) Placement(jointID int) spatialmath.Transform {
	return d.oMi[jointID]
}

// Velocity returns the spatial velocity of the given joint in its own frame as
// of the latest velocity pass.
func (d *Data) Velocity(jointID int) spatialmath.Twist {
	return d.v[jointID]
}

// Jacobian returns the shared 6 x Nv model Jacobian buffer. It is overwritten
// by every Jacobian-computing call; callers must not assume it is stable across
// calls with different configurations.
func (d *Data) Jacobian() *mat.Dense {
	return d.jac
}

// JacobianTimeVariation returns the shared 6 x Nv buffer holding dJ/dt.
func (d *Data) JacobianTimeVariation() *mat.Dense {
	return d.djac
}

func setTwistCol(dst *mat.Dense, col int, tw spatialmath.Twist) {
	dst.Set(0, col, tw.Linear.X)
	dst.Set(1, col, tw.Linear.Y)
	dst.Set(2, col, tw.Linear.Z)
	dst.Set(3, col, tw.Angular.X)
	dst.Set(4, col, tw.Angular.Y)
	dst.Set(5, col, tw.Angular.Z)
}

func twistCol(src *mat.Dense, col int) spatialmath.Twist {
	return spatialmath.Twist{
		Linear:  r3VectorAt(src, 0, col),
		Angular: r3VectorAt(src, 3, col),
	}
}

func r3VectorAt(m *mat.Dense, row, col int) r3.Vector {
	return r3.Vector{X: m.At(row, col), Y: m.At(row+1, col), Z: m.At(row+2, col)}
}
