package kinematics

import (
	"github.com/pkg/errors"

	"go.viam.com/multibody/spatialmath"
)

// checkVectorDim panics when a caller-supplied coordinate vector has the wrong
// length. Size mismatches are programming errors, fatal by design.
func checkVectorDim(name string, got, want int) {
	if got != want {
		panic(errors.Errorf("%s vector has length %d, model expects %d", name, got, want))
	}
}

// ForwardKinematics computes the placement of every joint frame, both relative
// to its parent and relative to the world, for configuration q (length Nq).
// Results are stored in d and consumed by the Jacobian extraction steps.
func ForwardKinematics(m *Model, d *Data, q []float64) {
	checkVectorDim("configuration", len(q), m.Nq())
	for i := 1; i < len(m.joints); i++ {
		rec := &m.joints[i]
		jXf := rec.joint.Transform(q[rec.idxQ : rec.idxQ+rec.joint.DoF()])
		d.liMi[i] = rec.placement.Compose(jXf)
		d.oMi[i] = d.oMi[rec.parent].Compose(d.liMi[i])
	}
}

// ForwardKinematicsVelocity runs ForwardKinematics and additionally propagates
// spatial velocities down the tree for joint velocities v (length Nv), storing
// each joint's velocity both in its own frame and in the world frame.
func ForwardKinematicsVelocity(m *Model, d *Data, q, v []float64) {
	checkVectorDim("configuration", len(q), m.Nq())
	checkVectorDim("velocity", len(v), m.Nv())
	d.v[WorldJointIndex] = spatialmath.ZeroTwist()
	d.ov[WorldJointIndex] = spatialmath.ZeroTwist()
	for i := 1; i < len(m.joints); i++ {
		rec := &m.joints[i]
		jXf := rec.joint.Transform(q[rec.idxQ : rec.idxQ+rec.joint.DoF()])
		d.liMi[i] = rec.placement.Compose(jXf)
		d.oMi[i] = d.oMi[rec.parent].Compose(d.liMi[i])

		vJ := spatialmath.ZeroTwist()
		for k, s := range rec.joint.MotionSubspace() {
			vJ = vJ.Add(s.Mul(v[rec.idxV+k]))
		}
		d.v[i] = d.liMi[i].ActInv(d.v[rec.parent]).Add(vJ)
		d.ov[i] = d.oMi[i].Act(d.v[i])
	}
}
