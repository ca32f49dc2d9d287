package colorspace

import "math"

// toHalf and fromHalf are the half-float conversion primitives spec
// section 1 treats as external functions the core consumes. They are
// implemented here directly (no native float16 in Go) using the
// straightforward bit-manipulation route rather than a lookup table,
// since this package has no pixel-format host supplying one.

// toHalf converts an IEEE-754 single-precision float to its nearest
// half-precision (binary16) bit pattern, rounding to nearest with ties
// away from zero, and saturation to +-infinity on overflow.
func toHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case (bits & 0x7fffffff) == 0:
		return sign
	case int32((bits>>23)&0xff) == 0xff:
		if mant != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // +-Inf
	case exp >= 0x1f:
		return sign | 0x7c00 // overflow -> +-Inf
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		shift := uint(14 - exp)
		half := mant >> shift
		if mant&(1<<(shift-1)) != 0 {
			half++
		}
		return sign | uint16(half)
	default:
		half := uint16(exp)<<10 | uint16(mant>>13)
		if mant&0x1000 != 0 {
			half++
		}
		return sign | half
	}
}

// fromHalf converts a half-precision (binary16) bit pattern to an
// IEEE-754 single-precision float.
func fromHalf(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := (h >> 10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// subnormal half -> normal float32
		e := int32(0)
		m := mant
		for m&0x400 == 0 {
			m <<= 1
			e--
		}
		m &= 0x3ff
		bits := sign | uint32(e+127-15+1)<<23 | (m << 13)
		return math.Float32frombits(bits)
	case exp == 0x1f:
		if mant != 0 {
			return math.Float32frombits(sign | 0x7fc00000)
		}
		return math.Float32frombits(sign | 0x7f800000)
	default:
		bits := sign | uint32(uint32(exp)-15+127)<<23 | (mant << 13)
		return math.Float32frombits(bits)
	}
}
