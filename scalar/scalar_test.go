package scalar

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestIf(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cmp      Comparison
		lhs, rhs float64
		want     float64
	}{
		{"lt true", LT, 1, 2, 10},
		{"lt false", LT, 2, 2, 20},
		{"le true", LE, 2, 2, 10},
		{"le false", LE, 3, 2, 20},
		{"gt true", GT, 3, 2, 10},
		{"gt false", GT, 2, 2, 20},
		{"ge true", GE, 2, 2, 10},
		{"ge false", GE, 1, 2, 20},
		{"eq true", EQ, 2, 2, 10},
		{"eq false", EQ, 1, 2, 20},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, If(tc.cmp, tc.lhs, tc.rhs, 10, 20), test.ShouldEqual, tc.want)
		})
	}
}

func TestIfDiscardsNaN(t *testing.T) {
	// The unselected branch may be NaN without poisoning the result.
	test.That(t, If(GT, 1, 0, 5, math.NaN()), test.ShouldEqual, 5)
	test.That(t, If(LT, 1, 0, math.NaN(), 5), test.ShouldEqual, 5)
}

func TestSign(t *testing.T) {
	test.That(t, Sign(2, 1), test.ShouldEqual, 1)
	test.That(t, Sign(1, 2), test.ShouldEqual, -1)
	test.That(t, Sign(1, 1), test.ShouldEqual, -1)
}

func TestTaylorSeriesPrecision(t *testing.T) {
	// Higher degree expansions remain valid over a wider range.
	prev := 0.0
	for degree := 1; degree <= 6; degree++ {
		p := TaylorSeriesPrecision(degree)
		test.That(t, p, test.ShouldBeGreaterThan, prev)
		test.That(t, p, test.ShouldBeLessThan, 1)
		prev = p
	}
	eps := math.Nextafter(1, 2) - 1
	test.That(t, TaylorSeriesPrecision(1), test.ShouldAlmostEqual, math.Sqrt(eps))
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(5, -1, 3), test.ShouldEqual, 3)
	test.That(t, Clamp(-5, -1, 3), test.ShouldEqual, -1)
	test.That(t, Clamp(2, -1, 3), test.ShouldEqual, 2)
}

func TestSinCos(t *testing.T) {
	s, c := SinCos(math.Pi / 3)
	test.That(t, s, test.ShouldAlmostEqual, math.Sin(math.Pi/3))
	test.That(t, c, test.ShouldAlmostEqual, math.Cos(math.Pi/3))
}
