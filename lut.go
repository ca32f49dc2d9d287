package colorspace

import "math"

// Fixed-point LUT geometry: the linear interval [0,1] occupies 28672
// codes, centred at index 2048 in a 32768-entry table, leaving headroom
// above and below for matrix-multiply overshoot (design note, spec
// section 9).
const (
	lutCenter   = 2048
	lutScale    = 28672.0
	lutSizeInt  = 32768
	lutSizeHalf = 65536
)

// delinearize and linearize evaluate a transfer characteristic at a
// linear or delinearized value v. linearize maps delinearized->linear (f_lin);
// delinearize maps linear->delinearized (f_delin).

func delinearize(e transferEntry, v float64) float64 {
	if !e.parametric {
		// Non-parametric transfers (PQ, HLG, log curves) carry no
		// parameters here and no provider function is wired in:
		// both delinearize and linearize return v unchanged for them.
		return v
	}
	av := math.Abs(v)
	sign := 1.0
	if v < 0 {
		sign = -1.0
	}
	if e.beta > 0 && av < e.beta {
		return e.delta * v
	}
	return sign * (e.alpha*math.Pow(av, 1.0/e.gamma) - (e.alpha - 1))
}

func linearize(e transferEntry, v float64) float64 {
	if !e.parametric {
		return v
	}
	av := math.Abs(v)
	sign := 1.0
	if v < 0 {
		sign = -1.0
	}
	toe := e.beta * e.delta
	if e.delta > 0 && av < toe {
		return v / e.delta
	}
	return sign * math.Pow((av+(e.alpha-1))/e.alpha, e.gamma)
}

// buildIntLUT constructs a 32768-entry int16 LUT for either direction,
// per spec section 4.2. fn is delinearize or linearize bound to the
// relevant transfer entry.
func buildIntLUT(fn func(float64) float64) []int16 {
	lut := make([]int16, lutSizeInt)
	for n := 0; n < lutSizeInt; n++ {
		v := (float64(n) - lutCenter) / lutScale
		lut[n] = clipInt16(math.Round(lutScale * fn(v)))
	}
	return lut
}

// buildHalfLUT constructs a 65536-entry half-float LUT indexed by the
// raw half-float bit pattern. No clipping is applied; half's own
// saturation on overflow suffices.
func buildHalfLUT(fn func(float64) float64) []uint16 {
	lut := make([]uint16, lutSizeHalf)
	for n := 0; n < lutSizeHalf; n++ {
		v := float64(fromHalf(uint16(n)))
		lut[n] = toHalf(float32(fn(v)))
	}
	return lut
}

// lutIndex biases and clamps a pseudo-fixed int16 RGB sample into a LUT
// lookup index, per apply_lut in spec section 4.5.
func lutIndex(v int16) int {
	return clipUint15(lutCenter + int(v))
}
