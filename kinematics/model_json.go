package kinematics

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/multibody/spatialmath"
)

// AxisConfig specifies a 3D axis in a model config file.
type AxisConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParsedAxis returns the axis as a vector, unnormalized.
func (a AxisConfig) ParsedAxis() r3.Vector {
	return r3.Vector{X: a.X, Y: a.Y, Z: a.Z}
}

// TranslationConfig specifies a translation in a model config file.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// OrientationConfig specifies an orientation as an axis and an angle in radians.
type OrientationConfig struct {
	Axis  AxisConfig `json:"axis"`
	Theta float64    `json:"th"`
}

// JointConfig is the JSON description of one joint: its motion type, its parent
// joint (empty or "world" for the root), its static placement relative to the
// parent, and the joint axis.
type JointConfig struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Parent      string             `json:"parent"`
	Axis        AxisConfig         `json:"axis"`
	Pitch       float64            `json:"pitch,omitempty"`
	Translation TranslationConfig  `json:"translation"`
	Orientation *OrientationConfig `json:"orientation,omitempty"`
}

// ModelConfig is the JSON description of a whole kinematic tree. Joints must be
// listed parents-first.
type ModelConfig struct {
	Name   string        `json:"name"`
	Joints []JointConfig `json:"joints"`
}

// ParseModelJSON converts a JSON model description into a Model.
func ParseModelJSON(jsonData []byte) (*Model, error) {
	cfg := &ModelConfig{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal model config")
	}
	return cfg.ParseConfig()
}

// ParseConfig converts the config into a Model, collecting all per-joint errors.
func (cfg *ModelConfig) ParseConfig() (*Model, error) {
	m := NewModel(cfg.Name)
	var errAll error
	for _, jc := range cfg.Joints {
		if err := addConfiguredJoint(m, jc); err != nil {
			multierr.AppendInto(&errAll, errors.Wrapf(err, "joint %q", jc.ID))
		}
	}
	if errAll != nil {
		return nil, errAll
	}
	return m, nil
}

func addConfiguredJoint(m *Model, jc JointConfig) error {
	parent := WorldJointIndex
	if jc.Parent != "" && jc.Parent != "world" {
		var err error
		parent, err = m.JointIndex(jc.Parent)
		if err != nil {
			return err
		}
	}

	rot := spatialmath.NewIdentityRotationMatrix()
	if jc.Orientation != nil {
		axis := jc.Orientation.Axis.ParsedAxis()
		if axis.Norm() < 1e-8 {
			return errors.New("orientation axis may not be the zero vector")
		}
		rot = spatialmath.NewRotationMatrixFromAxisAngle(axis, jc.Orientation.Theta)
	}
	placement := spatialmath.NewTransform(rot, r3.Vector{X: jc.Translation.X, Y: jc.Translation.Y, Z: jc.Translation.Z})

	var joint Joint
	var err error
	switch jc.Type {
	case "revolute":
		joint, err = NewRevoluteJoint(jc.Axis.ParsedAxis())
	case "prismatic":
		joint, err = NewPrismaticJoint(jc.Axis.ParsedAxis())
	case "helical":
		joint, err = NewHelicalJoint(jc.Axis.ParsedAxis(), jc.Pitch)
	default:
		return errors.Errorf("unsupported joint type %q", jc.Type)
	}
	if err != nil {
		return err
	}
	_, err = m.AddJoint(jc.ID, parent, placement, joint)
	return err
}
