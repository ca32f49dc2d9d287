package colorspace

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// mat3 is a 3x3 matrix in row-major order, the shape every builder
// function below produces and consumes in double precision before
// quantisation.
type mat3 [3][3]float64

func newMat3() mat3 { return mat3{} }

func (m mat3) dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

func fromDense(d mat.Matrix) mat3 {
	var m mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = d.At(i, j)
		}
	}
	return m
}

// invert3x3 inverts a 3x3 matrix in double precision using gonum's dense
// LU-based inverse, replacing a hand-rolled cofactor expansion.
func invert3x3(m mat3) (mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return mat3{}, newError(CodeUnsupportedTag,
			"matrix not invertible: %v", err)
	}
	return fromDense(&inv), nil
}

// multiplyMat3 returns a*b.
func multiplyMat3(a, b mat3) mat3 {
	var out mat.Dense
	out.Mul(a.dense(), b.dense())
	return fromDense(&out)
}

// mulVec3 returns m*v.
func (m mat3) mulVec3(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func identity3() mat3 {
	return mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// clipInt16 saturates v into the int16 range, the numeric primitive every
// fixed-point quantisation step below relies on.
func clipInt16(v float64) int16 {
	r := math.Round(v)
	switch {
	case r > 32767:
		return 32767
	case r < -32768:
		return -32768
	default:
		return int16(r)
	}
}

// clipUint15 saturates an int index into [0, 32767], used by apply_lut to
// clamp the biased lookup index.
func clipUint15(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 32767:
		return 32767
	default:
		return v
	}
}

// xyToXYZ converts a chromaticity (x,y) into unscaled XYZ tristimulus
// values (x/y, 1, (1-x-y)/y), per spec section 4.2.
func xyToXYZ(x, y float64) [3]float64 {
	return [3]float64{x / y, 1, (1 - x - y) / y}
}

// rgbToXYZMatrix builds the RGB->XYZ matrix for a given primaries entry:
// solve for per-channel scale factors such that M*(1,1,1)^T equals the
// whitepoint's XYZ, then scale each primary's XYZ column accordingly.
func rgbToXYZMatrix(p primariesEntry) (mat3, error) {
	xr := xyToXYZ(p.rx, p.ry)
	xg := xyToXYZ(p.gx, p.gy)
	xb := xyToXYZ(p.bx, p.by)
	w := xyToXYZ(p.wx, p.wy)

	cols := mat3{
		{xr[0], xg[0], xb[0]},
		{xr[1], xg[1], xb[1]},
		{xr[2], xg[2], xb[2]},
	}
	inv, err := invert3x3(cols)
	if err != nil {
		return mat3{}, err
	}
	s := inv.mulVec3(w)

	return mat3{
		{xr[0] * s[0], xg[0] * s[1], xb[0] * s[2]},
		{xr[1] * s[0], xg[1] * s[1], xb[1] * s[2]},
		{xr[2] * s[0], xg[2] * s[1], xb[2] * s[2]},
	}, nil
}

// cone-response matrices for chromatic adaptation. Bradford is the
// conventional default; Von Kries is the classical alternative.
var bradfordMa = mat3{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

var vonKriesMa = mat3{
	{0.40024, 0.70760, -0.08081},
	{-0.22630, 1.16532, 0.04570},
	{0, 0, 0.91822},
}

// chromaticAdaptationMatrix builds Ma^-1 * diag(Wd_cone/Ws_cone) * Ma for
// the requested algorithm. Identity adaptation always yields the
// identity matrix, even when whitepoints differ, per spec section 9.
func chromaticAdaptationMatrix(wpAdapt WPAdapt, srcWhite, dstWhite [3]float64) (mat3, error) {
	if wpAdapt == WPAdaptIdentity {
		return identity3(), nil
	}

	var ma mat3
	switch wpAdapt {
	case WPAdaptBradford:
		ma = bradfordMa
	case WPAdaptVonKries:
		ma = vonKriesMa
	default:
		return mat3{}, newError(CodeUnsupportedTag,
			"unknown whitepoint adaptation %d", wpAdapt)
	}

	maInv, err := invert3x3(ma)
	if err != nil {
		return mat3{}, err
	}

	sCone := ma.mulVec3(srcWhite)
	dCone := ma.mulVec3(dstWhite)

	diag := mat3{
		{dCone[0] / sCone[0], 0, 0},
		{0, dCone[1] / sCone[1], 0},
		{0, 0, dCone[2] / sCone[2]},
	}

	return multiplyMat3(multiplyMat3(maInv, diag), ma), nil
}

// rgbToYUVMatrix builds the RGB->YUV matrix from luma coefficients
// (Kr, Kb), per the formula in spec section 4.2.
func rgbToYUVMatrix(kr, kb float64) mat3 {
	kg := 1 - kr - kb
	return mat3{
		{kr, kg, kb},
		{-kr / (2 * (1 - kb)), -kg / (2 * (1 - kb)), 0.5},
		{0.5, -kg / (2 * (1 - kr)), -kb / (2 * (1 - kr))},
	}
}

// rgbToRGBMatrix composes primaries conversion with chromatic adaptation:
// srcXYZ -> adapted XYZ -> dstRGB.
func rgbToRGBMatrix(srcPrm, dstPrm primariesEntry, wpAdapt WPAdapt) (mat3, error) {
	srcToXYZ, err := rgbToXYZMatrix(srcPrm)
	if err != nil {
		return mat3{}, err
	}
	dstToXYZ, err := rgbToXYZMatrix(dstPrm)
	if err != nil {
		return mat3{}, err
	}
	xyzToDst, err := invert3x3(dstToXYZ)
	if err != nil {
		return mat3{}, err
	}

	adapt, err := chromaticAdaptationMatrix(wpAdapt,
		xyToXYZ(srcPrm.wx, srcPrm.wy), xyToXYZ(dstPrm.wx, dstPrm.wy))
	if err != nil {
		return mat3{}, err
	}

	return multiplyMat3(xyzToDst, multiplyMat3(adapt, srcToXYZ)), nil
}

// quantizeLRGB2LRGB quantises a linear-RGB->linear-RGB matrix at 14-bit
// fixed point scale (2^14 = 16384).
func quantizeLRGB2LRGB(m mat3) [3][3]int16 {
	var q [3][3]int16
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q[i][j] = clipInt16(m[i][j] * 16384)
		}
	}
	return q
}

// quantizeYUV2RGB quantises a YUV->RGB matrix per
// round(28672 * 2^(d-1) * c / range), range being y_rng or uv_rng
// depending on column.
func quantizeYUV2RGB(m mat3, depth int, yRng, uvRng int) [3][3]int16 {
	var q [3][3]int16
	bits := math.Pow(2, float64(depth-1))
	for i := 0; i < 3; i++ {
		rng := float64(yRng)
		for j := 0; j < 3; j++ {
			if j > 0 {
				rng = float64(uvRng)
			}
			q[i][j] = clipInt16(28672 * bits * m[i][j] / rng)
		}
	}
	return q
}

// quantizeRGB2YUV quantises an RGB->YUV matrix per
// round(2^(29-d) * range * c / 28672).
func quantizeRGB2YUV(m mat3, depth int, yRng, uvRng int) [3][3]int16 {
	var q [3][3]int16
	bits := math.Pow(2, float64(29-depth))
	for i := 0; i < 3; i++ {
		rng := yRng
		if i > 0 {
			rng = uvRng
		}
		for j := 0; j < 3; j++ {
			q[i][j] = clipInt16(bits * float64(rng) * m[i][j] / 28672)
		}
	}
	return q
}

// quantizeYUV2YUV quantises the fused fast-path matrix per
// round(16384 * c * out_range * 2^d_in / (in_range * 2^d_out)).
func quantizeYUV2YUV(m mat3, inDepth, outDepth int, inYRng, inUVRng, outYRng, outUVRng int) [3][3]int16 {
	var q [3][3]int16
	scale := math.Pow(2, float64(inDepth)) / math.Pow(2, float64(outDepth))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			colInRng, colOutRng := float64(inYRng), float64(outYRng)
			if j > 0 {
				colInRng, colOutRng = float64(inUVRng), float64(outUVRng)
			}
			q[i][j] = clipInt16(16384 * m[i][j] * colOutRng * scale / colInRng)
		}
	}
	return q
}
