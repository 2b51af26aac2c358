// Package kinematics implements kinematic-tree models of articulated mechanisms
// and the algorithms that read them: forward kinematics and the assembly and
// extraction of whole-model velocity Jacobians.
package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/multibody/spatialmath"
)

// WorldJointIndex is the index of the implicit root of every model, representing
// the fixed world frame. Joints added by callers are indexed 1..NumJoints.
const WorldJointIndex = 0

// Joint is the motion model of a single joint: how many velocity coordinates it
// has, the displacement it produces for a configuration, and the linear map from
// its velocity coordinates to a spatial velocity in its own frame.
type Joint interface {
	// DoF is the number of velocity coordinates of the joint.
	DoF() int

	// Transform returns the joint displacement for configuration q, len(q) == DoF().
	Transform(q []float64) spatialmath.Transform

	// MotionSubspace returns the columns of the joint motion subspace, expressed in
	// the joint's local frame, one twist per degree of freedom.
	MotionSubspace() []spatialmath.Twist
}

// RevoluteJoint rotates about a fixed axis through the joint origin.
type RevoluteJoint struct {
	axis r3.Vector
}

// NewRevoluteJoint creates a revolute joint about the given axis.
func NewRevoluteJoint(axis r3.Vector) (*RevoluteJoint, error) {
	if axis.Norm() < 1e-8 {
		return nil, errors.New("cannot use zero vector as rotation axis")
	}
	return &RevoluteJoint{axis: axis.Normalize()}, nil
}

// DoF returns 1.
func (j *RevoluteJoint) DoF() int { return 1 }

// Transform returns the rotation of q[0] radians about the joint axis.
func (j *RevoluteJoint) Transform(q []float64) spatialmath.Transform {
	return spatialmath.NewTransform(spatialmath.Exp3(j.axis.Mul(q[0])), r3.Vector{})
}

// MotionSubspace returns the single angular column along the joint axis.
func (j *RevoluteJoint) MotionSubspace() []spatialmath.Twist {
	return []spatialmath.Twist{{Angular: j.axis}}
}

// PrismaticJoint translates along a fixed axis.
type PrismaticJoint struct {
	axis r3.Vector
}

// NewPrismaticJoint creates a prismatic joint along the given axis.
func NewPrismaticJoint(axis r3.Vector) (*PrismaticJoint, error) {
	if axis.Norm() < 1e-8 {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	return &PrismaticJoint{axis: axis.Normalize()}, nil
}

// DoF returns 1.
func (j *PrismaticJoint) DoF() int { return 1 }

// Transform returns the translation of q[0] along the joint axis.
func (j *PrismaticJoint) Transform(q []float64) spatialmath.Transform {
	return spatialmath.NewTransformFromPoint(j.axis.Mul(q[0]))
}

// MotionSubspace returns the single linear column along the joint axis.
func (j *PrismaticJoint) MotionSubspace() []spatialmath.Twist {
	return []spatialmath.Twist{{Linear: j.axis}}
}

// HelicalJoint rotates about a fixed axis while translating along it, coupling
// the two through a pitch: a configuration q produces a rotation of q radians
// and a translation of pitch*q.
type HelicalJoint struct {
	axis  r3.Vector
	pitch float64
}

// NewHelicalJoint creates a helical (screw) joint about the given axis with the
// given pitch.
func NewHelicalJoint(axis r3.Vector, pitch float64) (*HelicalJoint, error) {
	if axis.Norm() < 1e-8 {
		return nil, errors.New("cannot use zero vector as screw axis")
	}
	return &HelicalJoint{axis: axis.Normalize(), pitch: pitch}, nil
}

// DoF returns 1.
func (j *HelicalJoint) DoF() int { return 1 }

// Pitch returns the translation per radian of rotation.
func (j *HelicalJoint) Pitch() float64 { return j.pitch }

// Transform returns the screw displacement for configuration q.
func (j *HelicalJoint) Transform(q []float64) spatialmath.Transform {
	return spatialmath.NewTransform(
		spatialmath.Exp3(j.axis.Mul(q[0])),
		j.axis.Mul(j.pitch*q[0]),
	)
}

// MotionSubspace returns the single screw column: linear part pitch*axis,
// angular part axis.
func (j *HelicalJoint) MotionSubspace() []spatialmath.Twist {
	return []spatialmath.Twist{{Linear: j.axis.Mul(j.pitch), Angular: j.axis}}
}

type jointRecord struct {
	name      string
	parent    int
	placement spatialmath.Transform
	joint     Joint
	idxQ      int
	idxV      int
}

// Model is a read-only view of a kinematic tree: per joint, its parent index,
// its static placement relative to the parent joint frame, and its motion
// model. Index 0 is the fixed world root. A Model is immutable once built and
// safe for concurrent readers; the mutable per-query state lives in Data.
type Model struct {
	name   string
	joints []jointRecord
	nq     int
	nv     int
}

// NewModel returns an empty model containing only the world root.
func NewModel(name string) *Model {
	return &Model{
		name: name,
		joints: []jointRecord{{
			name:      "world",
			parent:    WorldJointIndex,
			placement: spatialmath.NewIdentityTransform(),
		}},
	}
}

// Name returns the name of the model.
func (m *Model) Name() string { return m.name }

// NumJoints returns the number of joints, not counting the world root.
func (m *Model) NumJoints() int { return len(m.joints) - 1 }

// Nq returns the total number of position coordinates.
func (m *Model) Nq() int { return m.nq }

// Nv returns the total number of velocity coordinates, the column count of the
// model Jacobian.
func (m *Model) Nv() int { return m.nv }

// AddJoint appends a joint under the given parent with a static placement
// relative to the parent's joint frame, returning the new joint's index.
// Parents must be added before children, so joint indices are in tree order.
func (m *Model) AddJoint(name string, parent int, placement spatialmath.Transform, j Joint) (int, error) {
	if parent < 0 || parent >= len(m.joints) {
		return 0, errors.Errorf("parent index %d out of range for model with %d joints", parent, m.NumJoints())
	}
	if j == nil {
		return 0, errors.New("joint is not allowed to be nil")
	}
	if j.DoF() < 1 {
		return 0, errors.Errorf("joint %q must have at least one degree of freedom", name)
	}
	for _, rec := range m.joints {
		if rec.name == name {
			return 0, errors.Errorf("joint name %q already in model", name)
		}
	}
	m.joints = append(m.joints, jointRecord{
		name:      name,
		parent:    parent,
		placement: placement,
		joint:     j,
		idxQ:      m.nq,
		idxV:      m.nv,
	})
	m.nq += j.DoF()
	m.nv += j.DoF()
	return len(m.joints) - 1, nil
}

// Parent returns the parent index of the given joint.
func (m *Model) Parent(jointID int) int {
	return m.joints[jointID].parent
}

// JointName returns the name of the given joint.
func (m *Model) JointName(jointID int) string {
	return m.joints[jointID].name
}

// JointIndex returns the index of the named joint, or an error if absent.
func (m *Model) JointIndex(name string) (int, error) {
	for i, rec := range m.joints {
		if rec.name == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("no joint named %q in model %q", name, m.name)
}

// VelocityIndex returns the first Jacobian column belonging to the given joint.
func (m *Model) VelocityIndex(jointID int) int {
	return m.joints[jointID].idxV
}

// checkJointID panics when the id does not name a caller-added joint. Passing a
// bad id is a programming error, not a runtime condition.
func (m *Model) checkJointID(jointID int) {
	if jointID <= WorldJointIndex || jointID >= len(m.joints) {
		panic(errors.Errorf("joint index %d out of range for model with %d joints", jointID, m.NumJoints()))
	}
}
