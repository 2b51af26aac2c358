package kinematics

import (
	"gonum.org/v1/gonum/mat"
)

// ReferenceFrame selects the basis in which an extracted Jacobian block is
// expressed.
type ReferenceFrame int

const (
	// World expresses columns at the world origin in the world basis, as stored
	// in the model Jacobian.
	World ReferenceFrame = iota
	// LocalWorldAligned re-centers columns at the joint's current position while
	// keeping the world orientation.
	LocalWorldAligned
	// Local expresses columns fully in the joint's own frame.
	Local
)

func checkJacobianDims(m *Model, out *mat.Dense) {
	if r, c := out.Dims(); r != 6 || c != m.Nv() {
		panic(mat.ErrShape)
	}
}

// ComputeJointJacobians runs forward kinematics for configuration q and stacks
// every joint's motion subspace, re-expressed at the world origin, into the
// model Jacobian owned by d. It must be called (or FillJointJacobians after a
// separate ForwardKinematics pass) before JointJacobian.
func ComputeJointJacobians(m *Model, d *Data, q []float64) *mat.Dense {
	ForwardKinematics(m, d, q)
	return FillJointJacobians(m, d)
}

// FillJointJacobians stacks the world-frame motion subspaces into the model
// Jacobian using whatever placements are already stored in d. The placements
// must come from a prior forward-kinematics pass; this is a documented
// precondition, not validated here.
func FillJointJacobians(m *Model, d *Data) *mat.Dense {
	for i := 1; i < len(m.joints); i++ {
		rec := &m.joints[i]
		for k, s := range rec.joint.MotionSubspace() {
			setTwistCol(d.jac, rec.idxV+k, d.oMi[i].Act(s))
		}
	}
	return d.jac
}

// JointJacobian writes into out (6 x Nv, fully overwritten) the Jacobian of the
// given joint expressed in the requested reference frame: for every column
// belonging to an ancestor of jointID (itself included) the corresponding model
// Jacobian column re-expressed, and exact zeros elsewhere. The model Jacobian
// must be current; run ComputeJointJacobians first.
func JointJacobian(m *Model, d *Data, jointID int, frame ReferenceFrame, out *mat.Dense) {
	m.checkJointID(jointID)
	checkJacobianDims(m, out)
	out.Zero()

	oMj := d.oMi[jointID]
	for i := jointID; i != WorldJointIndex; i = m.joints[i].parent {
		rec := &m.joints[i]
		for k := 0; k < rec.joint.DoF(); k++ {
			col := rec.idxV + k
			tw := twistCol(d.jac, col)
			switch frame {
			case World:
			case LocalWorldAligned:
				tw.Linear = tw.Linear.Sub(oMj.P.Cross(tw.Angular))
			case Local:
				tw = oMj.ActInv(tw)
			}
			setTwistCol(out, col, tw)
		}
	}
}

// ComputeJointJacobian writes into out (6 x Nv, fully overwritten) the Jacobian
// of the given joint expressed in its local frame, for configuration q. It is
// equivalent to ComputeJointJacobians followed by JointJacobian with Local, but
// only computes placements along joints 1..jointID and never assembles the
// global Jacobian; prefer the two-step form when several joints' Jacobians are
// needed from the same configuration.
func ComputeJointJacobian(m *Model, d *Data, q []float64, jointID int, out *mat.Dense) {
	m.checkJointID(jointID)
	checkVectorDim("configuration", len(q), m.Nq())
	checkJacobianDims(m, out)
	out.Zero()

	for i := 1; i <= jointID; i++ {
		rec := &m.joints[i]
		jXf := rec.joint.Transform(q[rec.idxQ : rec.idxQ+rec.joint.DoF()])
		d.liMi[i] = rec.placement.Compose(jXf)
		d.oMi[i] = d.oMi[rec.parent].Compose(d.liMi[i])
	}

	jMo := d.oMi[jointID].Inverse()
	for i := jointID; i != WorldJointIndex; i = m.joints[i].parent {
		rec := &m.joints[i]
		jMi := jMo.Compose(d.oMi[i])
		for k, s := range rec.joint.MotionSubspace() {
			setTwistCol(out, rec.idxV+k, jMi.Act(s))
		}
	}
}

// ComputeJointJacobiansTimeVariation computes both the model Jacobian and its
// time derivative for configuration q and velocity v, storing them in the J and
// dJ buffers owned by d. The derivative of a world column S is the spatial
// cross product of the owning joint's world velocity with S.
func ComputeJointJacobiansTimeVariation(m *Model, d *Data, q, v []float64) *mat.Dense {
	ForwardKinematicsVelocity(m, d, q, v)
	for i := 1; i < len(m.joints); i++ {
		rec := &m.joints[i]
		for k, s := range rec.joint.MotionSubspace() {
			sWorld := d.oMi[i].Act(s)
			setTwistCol(d.jac, rec.idxV+k, sWorld)
			setTwistCol(d.djac, rec.idxV+k, d.ov[i].Cross(sWorld))
		}
	}
	return d.djac
}

// JointJacobianTimeVariation writes into out (6 x Nv, fully overwritten) the
// time derivative of the given joint's Jacobian in the requested frame, with
// exact zeros outside the joint's ancestor columns. For the moving Local and
// LocalWorldAligned frames the extraction applies the frame-motion correction
// to the stored world-frame derivative. ComputeJointJacobiansTimeVariation must
// have run first.
func JointJacobianTimeVariation(m *Model, d *Data, jointID int, frame ReferenceFrame, out *mat.Dense) {
	m.checkJointID(jointID)
	checkJacobianDims(m, out)
	out.Zero()

	oMj := d.oMi[jointID]
	ovj := d.ov[jointID]
	// velocity of the joint frame origin, as a point moving through the world
	originVel := ovj.Linear.Add(ovj.Angular.Cross(oMj.P))

	for i := jointID; i != WorldJointIndex; i = m.joints[i].parent {
		rec := &m.joints[i]
		for k := 0; k < rec.joint.DoF(); k++ {
			col := rec.idxV + k
			dtw := twistCol(d.djac, col)
			jtw := twistCol(d.jac, col)
			switch frame {
			case World:
			case LocalWorldAligned:
				dtw.Linear = dtw.Linear.
					Sub(oMj.P.Cross(dtw.Angular)).
					Sub(originVel.Cross(jtw.Angular))
			case Local:
				dtw = oMj.ActInv(dtw.Sub(ovj.Cross(jtw)))
			}
			setTwistCol(out, col, dtw)
		}
	}
}
