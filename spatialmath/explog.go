package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/multibody/scalar"
)

// Log3SingularityMargin is the distance below pi at which Log3 abandons the
// antisymmetric-part formula and recovers the rotation vector from the matrix
// diagonal. The value is tuned from observed round-off failures, not derived;
// margins as small as 1e-6 are known to be insufficient for float64.
const Log3SingularityMargin = 1e-2

// taylorPrecision3 is the small-angle threshold for the third-order Taylor
// regimes used throughout the exp/log maps.
var taylorPrecision3 = scalar.TaylorSeriesPrecision(3)

// Exp3 is the exponential map of the rotation group: it returns the rotation of
// |w| radians about the axis w/|w|, via Rodrigues' formula with Taylor-series
// coefficients near zero.
func Exp3(w r3.Vector) RotationMatrix {
	t2 := w.Norm2()
	t := math.Sqrt(t2)
	st, ct := scalar.SinCos(t)

	alphaWxWx := scalar.If(scalar.GT, t, taylorPrecision3, (1-ct)/t2, 0.5-t2/24)
	alphaWx := scalar.If(scalar.GT, t, taylorPrecision3, st/t, 1-t2/6)
	diag := scalar.If(scalar.GT, t, taylorPrecision3, ct, 1-t2/2)

	return RotationMatrix{[9]float64{
		alphaWxWx*w.X*w.X + diag, alphaWxWx*w.X*w.Y - alphaWx*w.Z, alphaWxWx*w.X*w.Z + alphaWx*w.Y,
		alphaWxWx*w.Y*w.X + alphaWx*w.Z, alphaWxWx*w.Y*w.Y + diag, alphaWxWx*w.Y*w.Z - alphaWx*w.X,
		alphaWxWx*w.Z*w.X - alphaWx*w.Y, alphaWxWx*w.Z*w.Y + alphaWx*w.X, alphaWxWx*w.Z*w.Z + diag,
	}}
}

// Log3 is the logarithm map of the rotation group. It returns the rotation angle
// theta in [0, pi] and the rotation vector w with |w| = theta such that
// Exp3(w) reconstructs r.
//
// The angle comes from the trace, clamped so round-off cannot push the acos
// argument out of range. Within Log3SingularityMargin of pi the components are
// recovered from the matrix diagonal with signs taken from the antisymmetric
// part, since (r - rT) vanishes at the singularity. Elsewhere the antisymmetric
// part is scaled by theta/(2 sin theta), with the Taylor value used for small
// angles. All switching goes through scalar.If.
//
// theta is never NaN for an orthonormal input; other inputs are undefined
// behavior.
func Log3(r RotationMatrix) (float64, r3.Vector) {
	tr := r.Trace()
	trClamped := scalar.Clamp(tr, -1, 3)
	theta := scalar.If(scalar.GE, tr, 3,
		0,
		scalar.If(scalar.LE, tr, -1,
			math.Pi,
			math.Acos((trClamped-1)/2)))

	piLower := math.Pi - Log3SingularityMargin
	t := scalar.If(scalar.GT, theta, taylorPrecision3, theta/math.Sin(theta), 1) / 2

	cphi := -(trClamped - 1) / 2
	beta := theta * theta / (1 + cphi)
	tmpX := (r.At(0, 0) + cphi) * beta
	tmpY := (r.At(1, 1) + cphi) * beta
	tmpZ := (r.At(2, 2) + cphi) * beta

	w := r3.Vector{
		X: scalar.If(scalar.GE, theta, piLower,
			scalar.Sign(r.At(2, 1), r.At(1, 2))*scalar.If(scalar.GT, tmpX, 0, math.Sqrt(tmpX), 0),
			t*(r.At(2, 1)-r.At(1, 2))),
		Y: scalar.If(scalar.GE, theta, piLower,
			scalar.Sign(r.At(0, 2), r.At(2, 0))*scalar.If(scalar.GT, tmpY, 0, math.Sqrt(tmpY), 0),
			t*(r.At(0, 2)-r.At(2, 0))),
		Z: scalar.If(scalar.GE, theta, piLower,
			scalar.Sign(r.At(1, 0), r.At(0, 1))*scalar.If(scalar.GT, tmpZ, 0, math.Sqrt(tmpZ), 0),
			t*(r.At(1, 0)-r.At(0, 1))),
	}
	return theta, w
}

// Jlog3Into writes the 3x3 differential of Log3 at the rotation with angle theta
// and rotation vector w into dst, with respect to a right-multiplicative
// perturbation of the rotation. dst must be 3x3.
func Jlog3Into(theta float64, w r3.Vector, dst *mat.Dense) {
	if r, c := dst.Dims(); r != 3 || c != 3 {
		panic(mat.ErrShape)
	}
	st, ct := scalar.SinCos(theta)
	st1mct := st / (1 - ct)
	t2 := theta * theta

	alpha := scalar.If(scalar.LT, theta, taylorPrecision3,
		1.0/12+t2/720,
		1/t2-st1mct/(2*theta))
	diagValue := scalar.If(scalar.LT, theta, taylorPrecision3,
		0.5*(2-t2/6),
		0.5*(theta*st1mct))

	wv := []float64{w.X, w.Y, w.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dst.Set(i, j, alpha*wv[i]*wv[j])
		}
		dst.Set(i, i, dst.At(i, i)+diagValue)
	}
	addSkew(w.Mul(0.5), dst, 0, 0)
}

// Jlog3 is Jlog3Into with a freshly allocated result.
func Jlog3(theta float64, w r3.Vector) *mat.Dense {
	dst := mat.NewDense(3, 3, nil)
	Jlog3Into(theta, w, dst)
	return dst
}

// Exp6 is the exponential map of the rigid-motion group, taking a twist to a
// transform by integrating it for unit time.
func Exp6(tw Twist) Transform {
	w := tw.Angular
	v := tw.Linear
	t2 := w.Norm2()
	t := math.Sqrt(t2)
	st, ct := scalar.SinCos(t)

	alphaWxV := scalar.If(scalar.GT, t, taylorPrecision3, (1-ct)/t2, 0.5-t2/24)
	alphaV := scalar.If(scalar.GT, t, taylorPrecision3, st/t, 1-t2/6)
	alphaW := scalar.If(scalar.GT, t, taylorPrecision3, (1-alphaV)/t2, 1.0/6-t2/120)

	p := v.Mul(alphaV).
		Add(w.Mul(alphaW * w.Dot(v))).
		Add(w.Cross(v).Mul(alphaWxV))
	return Transform{R: Exp3(w), P: p}
}

// Log6 is the logarithm map of the rigid-motion group: it returns the twist
// whose unit-time integral is m. The angular part is Log3 of the rotation; the
// linear part is the closed-form integral of the adjoint action along the
// geodesic, with sixth-order Taylor coefficients below the precision threshold
// since the direct formula divides by theta^2 and sin(theta).
func Log6(m Transform) Twist {
	theta, w := Log3(m.R)
	t2 := theta * theta
	st, ct := scalar.SinCos(theta)

	alpha := scalar.If(scalar.LT, theta, taylorPrecision3,
		1-t2/12-t2*t2/720,
		theta*st/(2*(1-ct)))
	beta := scalar.If(scalar.LT, theta, taylorPrecision3,
		1.0/12+t2/720,
		1/t2-st/(2*theta*(1-ct)))

	p := m.P
	lin := p.Mul(alpha).
		Sub(w.Cross(p).Mul(0.5)).
		Add(w.Mul(beta * w.Dot(p)))
	return Twist{Linear: lin, Angular: w}
}

// Jlog6Into writes the 6x6 differential of Log6 at m into dst, with respect to a
// right-multiplicative perturbation of the transform. dst must be 6x6.
//
// The result has block form [[A, C*A], [0, A]] with A = Jlog3 of the rotation
// part and C a coupling block built from the translation; C is a scratch
// quantity and does not appear in the output.
func Jlog6Into(m Transform, dst *mat.Dense) {
	if r, c := dst.Dims(); r != 6 || c != 6 {
		panic(mat.ErrShape)
	}
	theta, w := Log3(m.R)

	a := mat.NewDense(3, 3, nil)
	Jlog3Into(theta, w, a)

	t2 := theta * theta
	tinv := 1 / theta
	t2inv := tinv * tinv
	st, ct := scalar.SinCos(theta)
	inv22ct := 1 / (2 * (1 - ct))

	beta := scalar.If(scalar.LT, theta, taylorPrecision3,
		1.0/12+t2/720,
		t2inv-st*tinv*inv22ct)
	betaDotOverTheta := scalar.If(scalar.LT, theta, taylorPrecision3,
		1.0/360,
		-2*t2inv*t2inv+(1+st*tinv)*t2inv*inv22ct)

	p := m.P
	wTp := w.Dot(p)
	v3Tmp := w.Mul(betaDotOverTheta * wTp).Sub(p.Mul(t2*betaDotOverTheta + 2*beta))

	// C is an explicit local temporary rather than an aliased output block; B is
	// formed from it before it goes out of scope.
	c := mat.NewDense(3, 3, nil)
	wv := []float64{w.X, w.Y, w.Z}
	pv := []float64{p.X, p.Y, p.Z}
	v3v := []float64{v3Tmp.X, v3Tmp.Y, v3Tmp.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.Set(i, j, v3v[i]*wv[j]+beta*wv[i]*pv[j])
		}
		c.Set(i, i, c.At(i, i)+wTp*beta)
	}
	addSkew(p.Mul(0.5), c, 0, 0)

	b := mat.NewDense(3, 3, nil)
	b.Mul(c, a)

	dst.Zero()
	copyBlock(a, dst, 0, 0)
	copyBlock(b, dst, 0, 3)
	copyBlock(a, dst, 3, 3)
}

// Jlog6 is Jlog6Into with a freshly allocated result.
func Jlog6(m Transform) *mat.Dense {
	dst := mat.NewDense(6, 6, nil)
	Jlog6Into(m, dst)
	return dst
}

// addSkew adds the skew-symmetric generator of v to the 3x3 block of dst whose
// top-left corner is (row, col).
func addSkew(v r3.Vector, dst *mat.Dense, row, col int) {
	dst.Set(row, col+1, dst.At(row, col+1)-v.Z)
	dst.Set(row, col+2, dst.At(row, col+2)+v.Y)
	dst.Set(row+1, col, dst.At(row+1, col)+v.Z)
	dst.Set(row+1, col+2, dst.At(row+1, col+2)-v.X)
	dst.Set(row+2, col, dst.At(row+2, col)-v.Y)
	dst.Set(row+2, col+1, dst.At(row+2, col+1)+v.X)
}

// copyBlock writes the 3x3 matrix src into dst at the given top-left corner.
func copyBlock(src *mat.Dense, dst *mat.Dense, row, col int) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dst.Set(row+i, col+j, src.At(i, j))
		}
	}
}
