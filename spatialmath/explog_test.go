package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func randomUnitAxis(rSeed *rand.Rand) r3.Vector {
	for {
		v := r3.Vector{X: rSeed.Float64()*2 - 1, Y: rSeed.Float64()*2 - 1, Z: rSeed.Float64()*2 - 1}
		if n := v.Norm(); n > 1e-3 {
			return v.Mul(1 / n)
		}
	}
}

func TestLog3Identity(t *testing.T) {
	theta, w := Log3(NewIdentityRotationMatrix())
	test.That(t, theta, test.ShouldEqual, 0)
	test.That(t, w, test.ShouldResemble, r3.Vector{})
}

func TestLog3RoundTrip(t *testing.T) {
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(17))
	for i := 0; i < 100; i++ {
		axis := randomUnitAxis(rSeed)
		angle := rSeed.Float64() * math.Pi
		r := Exp3(axis.Mul(angle))

		theta, w := Log3(r)
		test.That(t, math.IsNaN(theta), test.ShouldBeFalse)
		test.That(t, theta, test.ShouldAlmostEqual, angle, 1e-7)
		test.That(t, Exp3(w).AlmostEqual(r, 1e-7), test.ShouldBeTrue)
	}
}

func TestLog3SmallAngles(t *testing.T) {
	for _, angle := range []float64{0, 1e-12, 1e-8, 1e-5} {
		axis := r3.Vector{X: 1, Y: 2, Z: -2}.Normalize()
		theta, w := Log3(Exp3(axis.Mul(angle)))
		test.That(t, math.IsNaN(theta), test.ShouldBeFalse)
		test.That(t, w.X, test.ShouldAlmostEqual, axis.X*angle, 1e-12)
		test.That(t, w.Y, test.ShouldAlmostEqual, axis.Y*angle, 1e-12)
		test.That(t, w.Z, test.ShouldAlmostEqual, axis.Z*angle, 1e-12)
	}
}

func TestLog3PiSingularity(t *testing.T) {
	for _, tc := range []struct {
		name string
		axis r3.Vector
	}{
		{"x axis", r3.Vector{X: 1}},
		{"y axis", r3.Vector{Y: 1}},
		{"z axis", r3.Vector{Z: 1}},
		{"oblique axis", r3.Vector{X: 1, Y: 1, Z: 1}.Normalize()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := Exp3(tc.axis.Mul(math.Pi))
			theta, w := Log3(r)
			test.That(t, math.IsNaN(theta), test.ShouldBeFalse)
			test.That(t, math.IsNaN(w.X) || math.IsNaN(w.Y) || math.IsNaN(w.Z), test.ShouldBeFalse)
			test.That(t, theta, test.ShouldAlmostEqual, math.Pi, 1e-7)
			// w must be the axis scaled by pi, up to the theta=pi sign ambiguity.
			same := w.Sub(tc.axis.Mul(math.Pi)).Norm() < 1e-6
			flipped := w.Add(tc.axis.Mul(math.Pi)).Norm() < 1e-6
			test.That(t, same || flipped, test.ShouldBeTrue)
			test.That(t, Exp3(w).AlmostEqual(r, 1e-6), test.ShouldBeTrue)
		})
	}
}

func TestLog3NearPi(t *testing.T) {
	// Angles straddling the singularity margin must stay finite and round-trip.
	axis := r3.Vector{X: -2, Y: 1, Z: 3}.Normalize()
	for _, angle := range []float64{math.Pi - 2e-2, math.Pi - 1e-2, math.Pi - 1e-3, math.Pi - 1e-6} {
		r := Exp3(axis.Mul(angle))
		theta, w := Log3(r)
		test.That(t, math.IsNaN(theta), test.ShouldBeFalse)
		test.That(t, theta, test.ShouldAlmostEqual, angle, 1e-6)
		test.That(t, Exp3(w).AlmostEqual(r, 1e-6), test.ShouldBeTrue)
	}
}

func TestJlog3FiniteDifference(t *testing.T) {
	const h = 1e-6
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(42))
	for _, angle := range []float64{1e-8, 1e-4, 0.1, 1.0, 2.0, 3.0, math.Pi - 1e-3} {
		axis := randomUnitAxis(rSeed)
		r := Exp3(axis.Mul(angle))
		theta, w := Log3(r)
		jlog := Jlog3(theta, w)

		for k := 0; k < 3; k++ {
			var delta r3.Vector
			switch k {
			case 0:
				delta = r3.Vector{X: h}
			case 1:
				delta = r3.Vector{Y: h}
			case 2:
				delta = r3.Vector{Z: h}
			}
			_, wPlus := Log3(r.Mul(Exp3(delta)))
			_, wMinus := Log3(r.Mul(Exp3(delta.Mul(-1))))
			fd := wPlus.Sub(wMinus).Mul(1 / (2 * h))
			test.That(t, jlog.At(0, k), test.ShouldAlmostEqual, fd.X, 1e-4)
			test.That(t, jlog.At(1, k), test.ShouldAlmostEqual, fd.Y, 1e-4)
			test.That(t, jlog.At(2, k), test.ShouldAlmostEqual, fd.Z, 1e-4)
		}
	}
}

func TestLog6DegenerateCases(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		tw := Log6(NewIdentityTransform())
		test.That(t, tw.Norm(), test.ShouldEqual, 0)
	})
	t.Run("pure translation", func(t *testing.T) {
		p := r3.Vector{X: 1, Y: -2, Z: 3}
		tw := Log6(NewTransformFromPoint(p))
		test.That(t, tw.Angular.Norm(), test.ShouldEqual, 0)
		test.That(t, tw.Linear.X, test.ShouldAlmostEqual, p.X)
		test.That(t, tw.Linear.Y, test.ShouldAlmostEqual, p.Y)
		test.That(t, tw.Linear.Z, test.ShouldAlmostEqual, p.Z)
	})
	t.Run("pure rotation", func(t *testing.T) {
		axis := r3.Vector{Z: 1}
		m := NewTransform(Exp3(axis.Mul(0.5)), r3.Vector{})
		tw := Log6(m)
		test.That(t, tw.Linear.Norm(), test.ShouldAlmostEqual, 0, 1e-12)
		test.That(t, tw.Angular.Z, test.ShouldAlmostEqual, 0.5)
	})
}

func TestLog6RoundTrip(t *testing.T) {
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(99))
	for i := 0; i < 100; i++ {
		axis := randomUnitAxis(rSeed)
		angle := rSeed.Float64() * (math.Pi - 1e-3)
		p := r3.Vector{X: rSeed.NormFloat64(), Y: rSeed.NormFloat64(), Z: rSeed.NormFloat64()}
		m := NewTransform(Exp3(axis.Mul(angle)), p)

		back := Exp6(Log6(m))
		test.That(t, back.AlmostEqual(m, 1e-7), test.ShouldBeTrue)
	}
}

func TestJlog6FiniteDifference(t *testing.T) {
	const h = 1e-6
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(7))
	for _, angle := range []float64{1e-8, 1e-4, 0.5, 1.5, 2.8} {
		axis := randomUnitAxis(rSeed)
		p := r3.Vector{X: rSeed.NormFloat64(), Y: rSeed.NormFloat64(), Z: rSeed.NormFloat64()}
		m := NewTransform(Exp3(axis.Mul(angle)), p)
		jlog := Jlog6(m)

		for k := 0; k < 6; k++ {
			var delta Twist
			switch {
			case k < 3:
				lv := []float64{0, 0, 0}
				lv[k] = h
				delta.Linear = r3.Vector{X: lv[0], Y: lv[1], Z: lv[2]}
			default:
				av := []float64{0, 0, 0}
				av[k-3] = h
				delta.Angular = r3.Vector{X: av[0], Y: av[1], Z: av[2]}
			}
			plus := Log6(m.Compose(Exp6(delta)))
			minus := Log6(m.Compose(Exp6(delta.Mul(-1))))
			fd := plus.Sub(minus).Mul(1 / (2 * h))

			fdCol := []float64{fd.Linear.X, fd.Linear.Y, fd.Linear.Z, fd.Angular.X, fd.Angular.Y, fd.Angular.Z}
			for i := 0; i < 6; i++ {
				test.That(t, jlog.At(i, k), test.ShouldAlmostEqual, fdCol[i], 1e-4)
			}
		}
	}
}

func TestJlog6BlockStructure(t *testing.T) {
	axis := r3.Vector{X: 1, Y: -1, Z: 2}.Normalize()
	m := NewTransform(Exp3(axis.Mul(1.2)), r3.Vector{X: 0.3, Y: 0.7, Z: -0.2})
	jlog := Jlog6(m)

	theta, w := Log3(m.R)
	a := Jlog3(theta, w)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// top-left and bottom-right blocks are both Jlog3
			test.That(t, jlog.At(i, j), test.ShouldAlmostEqual, a.At(i, j))
			test.That(t, jlog.At(i+3, j+3), test.ShouldAlmostEqual, a.At(i, j))
			// bottom-left block is zero
			test.That(t, jlog.At(i+3, j), test.ShouldEqual, 0)
		}
	}
}

func TestJlogIntoShapePanics(t *testing.T) {
	test.That(t, func() { Jlog3Into(0, r3.Vector{}, mat.NewDense(2, 3, nil)) }, test.ShouldPanic)
	test.That(t, func() { Jlog6Into(NewIdentityTransform(), mat.NewDense(6, 5, nil)) }, test.ShouldPanic)
}
