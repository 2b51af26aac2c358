// Package scalar provides the branchless numeric selection primitives used by the
// exp/log engines in spatialmath. Singularity and Taylor-series switching routes
// through If rather than native control flow, so the case analysis stays expressible
// on scalar back-ends that cannot branch; on float64 both candidate values are
// evaluated eagerly and one is returned.
package scalar

import "math"

// Comparison is the predicate applied by If to its two operands.
type Comparison int

// The supported comparison predicates.
const (
	LT Comparison = iota
	LE
	GT
	GE
	EQ
)

// If returns thenVal when "lhs cmp rhs" holds and elseVal otherwise. Both value
// arguments are evaluated before the call; a discarded NaN in the unselected
// branch is expected and harmless.
func If(cmp Comparison, lhs, rhs, thenVal, elseVal float64) float64 {
	switch cmp {
	case LT:
		if lhs < rhs {
			return thenVal
		}
	case LE:
		if lhs <= rhs {
			return thenVal
		}
	case GT:
		if lhs > rhs {
			return thenVal
		}
	case GE:
		if lhs >= rhs {
			return thenVal
		}
	case EQ:
		if lhs == rhs {
			return thenVal
		}
	}
	return elseVal
}

// Sign returns 1 when lhs > rhs and -1 otherwise.
func Sign(lhs, rhs float64) float64 {
	return If(GT, lhs, rhs, 1, -1)
}

// TaylorSeriesPrecision returns the small-argument threshold below which a Taylor
// expansion of the given degree is at least as accurate as the closed form in
// float64 arithmetic.
func TaylorSeriesPrecision(degree int) float64 {
	eps := math.Nextafter(1, 2) - 1
	return math.Pow(eps, 1/float64(degree+1))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// SinCos returns sin(x) and cos(x) together.
func SinCos(x float64) (sin, cos float64) {
	return math.Sincos(x)
}
