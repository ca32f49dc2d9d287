package colorspace

// Float pixel kernels (component F): half-float and f32 variants over
// planar GBR(A). Internal ordering matches the integer path: plane 0 =
// G, plane 1 = B, plane 2 = R.

// linearizeHalf applies lin_lut to every sample of a half-float plane,
// indexed by the raw 16-bit bit pattern.
func linearizeHalf(plane []uint16, lut []uint16) {
	for i, v := range plane {
		plane[i] = lut[v]
	}
}

// multiply3x3Half promotes half-float samples to f32, applies the
// floating-point 3x3 matrix, and demotes back to half, per spec section
// 4.6.
func multiply3x3Half(rgb [3][]uint16, m [3][3]float32) {
	n := len(rgb[0])
	for i := 0; i < n; i++ {
		g := float64(fromHalf(rgb[0][i]))
		b := float64(fromHalf(rgb[1][i]))
		r := float64(fromHalf(rgb[2][i]))

		rOut := float64(m[0][0])*r + float64(m[0][1])*g + float64(m[0][2])*b
		gOut := float64(m[1][0])*r + float64(m[1][1])*g + float64(m[1][2])*b
		bOut := float64(m[2][0])*r + float64(m[2][1])*g + float64(m[2][2])*b

		rgb[0][i] = toHalf(float32(gOut))
		rgb[1][i] = toHalf(float32(bOut))
		rgb[2][i] = toHalf(float32(rOut))
	}
}

// convertHalf runs the half-float pipeline over one plane set: lin_lut,
// optional matrix, delin_lut, per spec section 4.6. rgb2rgb_passthrough
// means primaries and transfer are unchanged (or explicitly ignored via
// Fast), so the samples need no recoding at all here. Samples stay
// half-float throughout: neither this function nor convertFrameFloat
// converts between half and f32.
func convertHalf(rgb [3][]uint16, c *Config) {
	if c.rgb2rgbPassthrough {
		return
	}
	for _, p := range rgb {
		linearizeHalf(p, c.linLUTHalf)
	}
	if !c.lrgb2lrgbPassthrough {
		multiply3x3Half(rgb, c.matrixF)
	}
	for _, p := range rgb {
		linearizeHalf(p, c.delinLUTHalf)
	}
}

// linearizeF32 applies the analytic transfer function to every sample of
// an f32 plane, computed directly (no LUT), per spec section 4.6.
func linearizeF32(plane []float32, e transferEntry, fn func(transferEntry, float64) float64) {
	for i, v := range plane {
		plane[i] = float32(fn(e, float64(v)))
	}
}

// multiply3x3F32 applies the floating-point 3x3 matrix in f32.
func multiply3x3F32(rgb [3][]float32, m [3][3]float32) {
	n := len(rgb[0])
	for i := 0; i < n; i++ {
		g, b, r := rgb[0][i], rgb[1][i], rgb[2][i]
		rOut := m[0][0]*r + m[0][1]*g + m[0][2]*b
		gOut := m[1][0]*r + m[1][1]*g + m[1][2]*b
		bOut := m[2][0]*r + m[2][1]*g + m[2][2]*b
		rgb[0][i] = gOut
		rgb[1][i] = bOut
		rgb[2][i] = rOut
	}
}

// convertF32 runs the f32 pipeline: analytic linearize, matrix,
// analytic delinearize, per spec section 4.6. rgb2rgb_passthrough means
// primaries and transfer are unchanged (or explicitly ignored via Fast),
// so samples pass through untouched.
func convertF32(rgb [3][]float32, c *Config) {
	if c.rgb2rgbPassthrough {
		return
	}

	inT := transferTable[c.inTransfer]
	outT := transferTable[c.outTransfer]
	for _, p := range rgb {
		linearizeF32(p, inT, linearize)
	}
	if !c.lrgb2lrgbPassthrough {
		multiply3x3F32(rgb, c.matrixF)
	}
	for _, p := range rgb {
		linearizeF32(p, outT, delinearize)
	}
}

// copyAlphaHalf copies an alpha plane byte-exact, per spec section 4.6.
func copyAlphaHalf(dst, src []uint16) { copy(dst, src) }

// copyAlphaF32 copies an alpha plane byte-exact, per spec section 4.6.
func copyAlphaF32(dst, src []float32) { copy(dst, src) }
