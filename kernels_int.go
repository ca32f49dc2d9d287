package colorspace

// Integer pixel kernels (component E). All kernels operate on a row
// range [y0, y1) aligned to 2, to accommodate 4:2:0 chroma, over a
// single Frame's planes. Internal RGB ordering is G, B, R (plane 0 = G,
// plane 1 = B, plane 2 = R), matching the GBR plane order a planar RGB
// frame carries so no channel shuffle is needed at the boundary.

// planeU16 is a minimal view over one plane's samples for a row range,
// used by every kernel below; width/height and linesize come from the
// owning Frame.
type planeU16 struct {
	data     []uint16
	linesize int // elements per row
}

func (p planeU16) at(x, y int) uint16 { return p.data[y*p.linesize+x] }
func (p planeU16) set(x, y int, v uint16) { p.data[y*p.linesize+x] = v }

// yuv2rgb converts one row range of a planar YUV frame to the pseudo
// fixed-point intermediate RGB planes, per spec section 4.5. Chroma is
// sampled nearest-neighbour at (x>>logCW, y>>logCH). yOff is the range
// floor (get_range_off's off); uvOff is the chroma mid-point 2^(d-1),
// which does not depend on range. The coefficients carry a 2^(d-1)
// scale (quantizeYUV2RGB), so products are divided by uvOff, landing
// [0,1] on [0, 28672].
func yuv2rgb(y0, y1 int, width int, logCW, logCH int,
	yPlane, uPlane, vPlane planeU16, rgb [3][]int16, rgbStride int,
	coeffs [3][3]int16, yOff, uvOff int) {

	div := float64(uvOff)
	for y := y0; y < y1; y++ {
		cy := y >> logCH
		for x := 0; x < width; x++ {
			cx := x >> logCW
			yy := int64(yPlane.at(x, y)) - int64(yOff)
			uu := int64(uPlane.at(cx, cy)) - int64(uvOff)
			vv := int64(vPlane.at(cx, cy)) - int64(uvOff)

			idx := y*rgbStride + x
			// coeffs rows are R, G, B (matching spec's C[0]=R row); rgb
			// planes are stored G, B, R, so row and plane index differ.
			// C[0][1] (R's U term) and C[2][2] (B's V term) are known
			// zero, per the coefficient invariant of spec 8.2.
			rVal := clipInt16(float64(int64(coeffs[0][0])*yy+int64(coeffs[0][2])*vv) / div)
			gVal := clipInt16(float64(int64(coeffs[1][0])*yy+
				int64(coeffs[1][1])*uu+int64(coeffs[1][2])*vv) / div)
			bVal := clipInt16(float64(int64(coeffs[2][0])*yy+int64(coeffs[2][1])*uu) / div)
			rgb[0][idx] = gVal
			rgb[1][idx] = bVal
			rgb[2][idx] = rVal
		}
	}
}

// applyLUT maps every sample of an intermediate RGB plane through lut,
// biasing and clamping the index per spec section 4.5/9.
func applyLUT(plane []int16, lut []int16) {
	for i, v := range plane {
		plane[i] = lut[lutIndex(v)]
	}
}

// multiply3x3Int performs the fixed-point 3x3 matrix-vector product over
// one pixel range of the three RGB planes in place, per spec section
// 4.5: round((M[i][0]*r + M[i][1]*g + M[i][2]*b) / 16384).
func multiply3x3Int(rgb [3][]int16, m [3][3]int16) {
	n := len(rgb[0])
	for i := 0; i < n; i++ {
		// m's rows/columns are R, G, B; rgb planes are stored G, B, R.
		g, b, r := int64(rgb[0][i]), int64(rgb[1][i]), int64(rgb[2][i])
		rOut := int64(m[0][0])*r + int64(m[0][1])*g + int64(m[0][2])*b
		gOut := int64(m[1][0])*r + int64(m[1][1])*g + int64(m[1][2])*b
		bOut := int64(m[2][0])*r + int64(m[2][1])*g + int64(m[2][2])*b
		rgb[0][i] = roundDiv16384(gOut)
		rgb[1][i] = roundDiv16384(bOut)
		rgb[2][i] = roundDiv16384(rOut)
	}
}

func roundDiv16384(v int64) int16 {
	return clipInt16(float64(v) / 16384)
}

// applyDepthShift rescales a matrix-transformed sample from the input
// bit depth's magnitude into the output bit depth's magnitude; shift is
// outDepth-inDepth. The 14-bit fixed-point coefficients above only carry
// the matrix and range-type conversion, not the depth conversion itself,
// since a depth delta of more than a couple of bits would overflow the
// int16 coefficient range.
func applyDepthShift(v int64, shift int) int64 {
	switch {
	case shift > 0:
		return v << uint(shift)
	case shift < 0:
		n := uint(-shift)
		if v >= 0 {
			return (v + 1<<(n-1)) >> n
		}
		return -((-v + 1<<(n-1)) >> n)
	default:
		return v
	}
}

// rgb2yuv converts the intermediate RGB planes back to planar YUV over
// one row range, writing subsampled chroma from the top-left
// luma-aligned source sample, per spec section 4.5.
func rgb2yuv(y0, y1 int, width int, logCW, logCH int,
	rgb [3][]int16, rgbStride int,
	yPlane, uPlane, vPlane planeU16, coeffs [3][3]int16, yOff, uvOff int, depth int) {

	maxVal := uint16((1 << depth) - 1)
	// The coefficients carry a 2^(29-d) scale (quantizeRGB2YUV).
	div := int64(1) << uint(29-depth)
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			idx := y*rgbStride + x
			g, b, r := int64(rgb[0][idx]), int64(rgb[1][idx]), int64(rgb[2][idx])

			yVal := (int64(coeffs[0][0])*r + int64(coeffs[0][1])*g + int64(coeffs[0][2])*b) / div
			yPlane.set(x, y, clampU16(yVal+int64(yOff), maxVal))

			if x%(1<<logCW) == 0 && y%(1<<logCH) == 0 {
				cx, cy := x>>logCW, y>>logCH
				uVal := (int64(coeffs[1][0])*r + int64(coeffs[1][1])*g + int64(coeffs[1][2])*b) / div
				vVal := (int64(coeffs[2][0])*r + int64(coeffs[2][1])*g + int64(coeffs[2][2])*b) / div
				uPlane.set(cx, cy, clampU16(uVal+int64(uvOff), maxVal))
				vPlane.set(cx, cy, clampU16(vVal+int64(uvOff), maxVal))
			}
		}
	}
}

func clampU16(v int64, maxVal uint16) uint16 {
	switch {
	case v < 0:
		return 0
	case v > int64(maxVal):
		return maxVal
	default:
		return uint16(v)
	}
}

// fsbScratch is the Floyd-Steinberg error-diffusion scratch: a two-row
// ring buffer of accumulated error per plane, width+4 wide for slack at
// the edges. Confined per-slice, per spec section 5/9.
type fsbScratch struct {
	rows [2][]int32
	cur  int
}

func newFSBScratch(width int) *fsbScratch {
	return &fsbScratch{rows: [2][]int32{
		make([]int32, width+4),
		make([]int32, width+4),
	}}
}

func (s *fsbScratch) nextRow() {
	s.cur ^= 1
	for i := range s.rows[s.cur^1] {
		s.rows[s.cur^1][i] = 0
	}
}

// rgb2yuvFSB is identical to rgb2yuv but quantises each output sample
// with Floyd-Steinberg error diffusion (7/16 right, 3/16 below-left,
// 5/16 below, 1/16 below-right), per spec section 4.5.
func rgb2yuvFSB(y0, y1 int, width int, logCW, logCH int,
	rgb [3][]int16, rgbStride int,
	yPlane, uPlane, vPlane planeU16, coeffs [3][3]int16, yOff, uvOff int, depth int,
	yScratch, uScratch, vScratch *fsbScratch) {

	maxVal := uint16((1 << depth) - 1)
	const slack = 2

	// Error diffused during an earlier call does not carry into this one.
	for _, s := range []*fsbScratch{yScratch, uScratch, vScratch} {
		s.cur = 0
		clear(s.rows[1])
	}

	for y := y0; y < y1; y++ {
		yScratch.nextRow()
		diffuseRow(y, width, rgbStride, rgb, coeffs[0], yOff, maxVal, yPlane, yScratch, slack, 1, 1)

		if y%(1<<logCH) == 0 {
			uScratch.nextRow()
			vScratch.nextRow()
			cw := width >> logCW
			diffuseRow(y>>logCH, cw, rgbStride, subsampledView(rgb, logCW), coeffs[1], uvOff, maxVal, uPlane, uScratch, slack, 1<<logCW, 1<<logCH)
			diffuseRow(y>>logCH, cw, rgbStride, subsampledView(rgb, logCW), coeffs[2], uvOff, maxVal, vPlane, vScratch, slack, 1<<logCW, 1<<logCH)
		}
	}
}

// subsampledView returns the same RGB planes unchanged: chroma dithering
// reads them at the top-left luma-aligned source coordinate by scaling
// strideX/strideY in diffuseRow, so no separate buffer is needed.
func subsampledView(rgb [3][]int16, _ int) [3][]int16 { return rgb }

func diffuseRow(row, width, stride int, rgb [3][]int16, coeffRow [3]int16, off int,
	maxVal uint16, plane planeU16, scratch *fsbScratch, slack, strideX, strideY int) {

	next := scratch.cur ^ 1
	// exact and the diffused error are kept in 1/16ths of an output code,
	// so the rounding remainder is diffused rather than dropped. The
	// coefficients carry a 2^(29-d) scale (quantizeRGB2YUV).
	div := (int64(1) << 29) / ((int64(maxVal) + 1) << 4)
	for x := 0; x < width; x++ {
		idx := (row*strideY)*stride + x*strideX
		if idx >= len(rgb[0]) {
			continue
		}
		g, b, r := int64(rgb[0][idx]), int64(rgb[1][idx]), int64(rgb[2][idx])
		exact := (int64(coeffRow[0])*r + int64(coeffRow[1])*g + int64(coeffRow[2])*b) / div
		exact += int64(off) << 4

		errAcc := int64(scratch.rows[scratch.cur][x+slack])
		withErr := exact + errAcc
		q := clampU16((withErr+8)>>4, maxVal)
		plane.set(x, row, q)

		e := withErr - int64(q)<<4
		scratch.rows[scratch.cur][x+slack+1] += int32(e * 7 / 16)
		scratch.rows[next][x+slack-1] += int32(e * 3 / 16)
		scratch.rows[next][x+slack] += int32(e * 5 / 16)
		scratch.rows[next][x+slack+1] += int32(e * 1 / 16)
	}
}

// yuv2yuv is the fused fast-path kernel used when yuv2yuv_fastmode is
// set: a direct 3x3 fixed-point transform including range/offset
// adjustment and bit-depth shift, with no intermediate RGB pass. Chroma
// is sampled nearest-neighbour at (x>>logCW, y>>logCH), same as
// yuv2rgb; the Y row reads that same chroma sample since the fused
// matrix may mix matrices that differ between sides (spec section 4.4
// only requires primaries/transfer/subsampling to agree for fastmode).
func yuv2yuv(y0, y1 int, width int, logCW, logCH int,
	inY, inU, inV, outY, outU, outV planeU16,
	coeffs [3][3]int16, inOff, outOff, inUVOff, outUVOff, inDepth, outDepth int) {

	maxVal := uint16((1 << outDepth) - 1)
	shift := outDepth - inDepth
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			cx, cy := x>>logCW, y>>logCH
			yy := int64(inY.at(x, y)) - int64(inOff)
			uu := int64(inU.at(cx, cy)) - int64(inUVOff)
			vv := int64(inV.at(cx, cy)) - int64(inUVOff)

			yRaw := (int64(coeffs[0][0])*yy + int64(coeffs[0][1])*uu + int64(coeffs[0][2])*vv) / 16384
			yVal := applyDepthShift(yRaw, shift) + int64(outOff)
			outY.set(x, y, clampU16(yVal, maxVal))

			if x%(1<<logCW) == 0 && y%(1<<logCH) == 0 {
				// coeffs[1][0]/[2][0] are known zero (checkCoefficientInvariants).
				uRaw := (int64(coeffs[1][1])*uu + int64(coeffs[1][2])*vv) / 16384
				vRaw := (int64(coeffs[2][1])*uu + int64(coeffs[2][2])*vv) / 16384
				uVal := applyDepthShift(uRaw, shift) + int64(outUVOff)
				vVal := applyDepthShift(vRaw, shift) + int64(outUVOff)
				outU.set(cx, cy, clampU16(uVal, maxVal))
				outV.set(cx, cy, clampU16(vVal, maxVal))
			}
		}
	}
}
