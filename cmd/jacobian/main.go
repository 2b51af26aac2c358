// Package main is a command line tool that loads a kinematic model config and
// prints joint Jacobians for a given configuration.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/multibody/kinematics"
)

const (
	flagModel         = "model"
	flagJoint         = "joint"
	flagFrame         = "frame"
	flagConfig        = "q"
	flagVelocity      = "v"
	flagTimeVariation = "time-variation"
	flagDebug         = "debug"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "jacobian",
		Usage: "compute joint Jacobians for a kinematic model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagModel,
				Usage:    "path to a JSON model config",
				Required: true,
			},
			&cli.StringFlag{
				Name:     flagJoint,
				Usage:    "name of the joint whose Jacobian to print",
				Required: true,
			},
			&cli.StringFlag{
				Name:  flagFrame,
				Value: "local",
				Usage: "reference frame: world, local_world_aligned, or local",
			},
			&cli.StringFlag{
				Name:     flagConfig,
				Usage:    "comma-separated configuration vector, length Nq",
				Required: true,
			},
			&cli.StringFlag{
				Name:  flagVelocity,
				Usage: "comma-separated velocity vector, length Nv",
			},
			&cli.BoolFlag{
				Name:  flagTimeVariation,
				Usage: "also print dJ/dt (requires --v)",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("jacobian")
			} else {
				logger = golog.NewDevelopmentLogger("jacobian")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return printJacobian(c, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseVector(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		val, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad vector element %q", f)
		}
		out = append(out, val)
	}
	return out, nil
}

func parseFrame(s string) (kinematics.ReferenceFrame, error) {
	switch s {
	case "world":
		return kinematics.World, nil
	case "local_world_aligned":
		return kinematics.LocalWorldAligned, nil
	case "local":
		return kinematics.Local, nil
	default:
		return 0, errors.Errorf("unknown reference frame %q", s)
	}
}

func printJacobian(c *cli.Context, logger golog.Logger) error {
	jsonData, err := os.ReadFile(c.String(flagModel))
	if err != nil {
		return errors.Wrap(err, "failed to read model config")
	}
	model, err := kinematics.ParseModelJSON(jsonData)
	if err != nil {
		return err
	}
	logger.Infow("loaded model", "name", model.Name(), "joints", model.NumJoints(), "nv", model.Nv())

	jointID, err := model.JointIndex(c.String(flagJoint))
	if err != nil {
		return err
	}
	frame, err := parseFrame(c.String(flagFrame))
	if err != nil {
		return err
	}
	q, err := parseVector(c.String(flagConfig))
	if err != nil {
		return err
	}
	if len(q) != model.Nq() {
		return errors.Errorf("configuration has length %d, model expects %d", len(q), model.Nq())
	}
	v, err := parseVector(c.String(flagVelocity))
	if err != nil {
		return err
	}

	data := kinematics.NewData(model)
	out := mat.NewDense(6, model.Nv(), nil)

	if c.Bool(flagTimeVariation) {
		if len(v) != model.Nv() {
			return errors.Errorf("time variation requires a velocity of length %d", model.Nv())
		}
		kinematics.ComputeJointJacobiansTimeVariation(model, data, q, v)
	} else {
		kinematics.ComputeJointJacobians(model, data, q)
	}

	kinematics.JointJacobian(model, data, jointID, frame, out)
	//nolint:forbidigo
	fmt.Printf("J =\n%v\n", mat.Formatted(out, mat.Prefix(""), mat.Squeeze()))

	if c.Bool(flagTimeVariation) {
		kinematics.JointJacobianTimeVariation(model, data, jointID, frame, out)
		//nolint:forbidigo
		fmt.Printf("dJ/dt =\n%v\n", mat.Formatted(out, mat.Prefix(""), mat.Squeeze()))
	}
	return nil
}
