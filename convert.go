package colorspace

// Convert transforms in into out according to c, dispatching slice work
// across c.WorkerCount() workers (component G). in and out must already
// be allocated to the dimensions c was built for; Convert only reads
// from in and writes to out.
//
// A frame completes synchronously before Convert returns, per spec
// section 5.
func Convert(c *Config, in, out *Frame) error {
	if in.Width != c.In.Width || in.Height != c.In.Height {
		return newError(CodeInvalidDimensions, "input frame does not match configured geometry")
	}

	if c.yuv2yuvPassthrough {
		return convertPassthrough(in, out)
	}

	if c.isFloat {
		return convertFrameFloat(c, in, out)
	}
	return convertFrameInt(c, in, out)
}

// convertPassthrough performs a direct byte-exact copy, used whenever
// yuv2yuv_passthrough is set: range, matrix, depth and subsampling agree,
// and so do primaries and transfer unless Fast is set. The Dither option
// is not consulted (spec section 4.4/8 property 4).
func convertPassthrough(in, out *Frame) error {
	for i := 0; i < in.planeCount() && i < len(out.Planes); i++ {
		switch {
		case len(in.Planes[i].U16) > 0:
			copy(out.Planes[i].U16, in.Planes[i].U16)
		case len(in.Planes[i].Half) > 0:
			copy(out.Planes[i].Half, in.Planes[i].Half)
		case len(in.Planes[i].F32) > 0:
			copy(out.Planes[i].F32, in.Planes[i].F32)
		}
	}
	return nil
}

// convertFrameInt runs the integer pipeline (spec section 4.5): either
// the fused yuv2yuv fast path, or the full yuv2rgb -> LUT -> matrix ->
// LUT -> rgb2yuv chain, dithered or not.
func convertFrameInt(c *Config, in, out *Frame) error {
	y := in.Planes[0].view16()
	u := in.Planes[1].view16()
	v := in.Planes[2].view16()
	oy := out.Planes[0].view16()
	ou := out.Planes[1].view16()
	ov := out.Planes[2].view16()

	logCW, logCH := in.ChromaSubsamplingWidth, in.ChromaSubsamplingHeight
	width, height := in.Width, in.Height

	inUVOff := 1 << (c.inDepth - 1)
	outUVOff := 1 << (c.outDepth - 1)

	// Floyd-Steinberg needs the full yuv2rgb->rgb2yuv_fsb chain to diffuse
	// error; skip the fused fast path when dithering a depth reduction.
	useFastmode := c.yuv2yuvFastmode &&
		!(c.opts.Dither == DitherFSB && c.outDepth < c.inDepth)

	if useFastmode {
		ranges := sliceRanges(height, c.WorkerCount())
		dispatch(ranges, c.WorkerCount(), func(y0, y1 int) {
			yuv2yuv(y0, y1, width, logCW, logCH, y, u, v, oy, ou, ov,
				c.yuv2yuvCoeffs, c.inOff, c.outOff, inUVOff, outUVOff,
				c.inDepth, c.outDepth)
		})
		return copyAlphaIfPresent(in, out)
	}

	c.ensureScratch(width, height)

	useDither := c.opts.Dither == DitherFSB
	var ranges [][2]int
	if useDither {
		// Floyd-Steinberg diffuses rows within a slice only; confine
		// the dithered path to a single slice (spec section 5/9).
		ranges = [][2]int{{0, height}}
	} else {
		ranges = sliceRanges(height, c.WorkerCount())
	}

	dispatch(ranges, c.WorkerCount(), func(y0, y1 int) {
		yuv2rgb(y0, y1, width, logCW, logCH, y, u, v, c.rgbScratch, width,
			c.yuv2rgbCoeffs, c.inOff, inUVOff)

		if !c.rgb2rgbPassthrough {
			for _, p := range c.rgbScratch {
				applyLUT(p[y0*width:y1*width], c.linLUT)
			}
			if !c.lrgb2lrgbPassthrough {
				var sliced [3][]int16
				for i, p := range c.rgbScratch {
					sliced[i] = p[y0*width : y1*width]
				}
				multiply3x3Int(sliced, c.lrgb2lrgbCoeffs)
			}
			for _, p := range c.rgbScratch {
				applyLUT(p[y0*width:y1*width], c.delinLUT)
			}
		}

		if useDither {
			t := c.fsbScratchFor(width, logCW)
			rgb2yuvFSB(y0, y1, width, logCW, logCH, c.rgbScratch, width,
				oy, ou, ov, c.rgb2yuvCoeffs, c.outOff, outUVOff, c.outDepth,
				t.y, t.u, t.v)
			c.putFSBScratch(t)
		} else {
			rgb2yuv(y0, y1, width, logCW, logCH, c.rgbScratch, width,
				oy, ou, ov, c.rgb2yuvCoeffs, c.outOff, outUVOff, c.outDepth)
		}
	})

	return copyAlphaIfPresent(in, out)
}

// convertFrameFloat runs the half-float or f32 pipeline (spec section
// 4.6) over planar GBR(A).
func convertFrameFloat(c *Config, in, out *Frame) error {
	height := in.Height
	ranges := sliceRanges(height, c.WorkerCount())

	if c.isHalfFloat {
		var rgb [3][]uint16
		for i := 0; i < 3; i++ {
			rgb[i] = append([]uint16(nil), in.Planes[i].Half...)
		}
		dispatch(ranges, c.WorkerCount(), func(y0, y1 int) {
			width := in.Width
			var sliced [3][]uint16
			for i := range rgb {
				sliced[i] = rgb[i][y0*width : y1*width]
			}
			convertHalf(sliced, c)
		})
		for i := 0; i < 3; i++ {
			copy(out.Planes[i].Half, rgb[i])
		}
	} else {
		var rgb [3][]float32
		for i := 0; i < 3; i++ {
			rgb[i] = append([]float32(nil), in.Planes[i].F32...)
		}
		dispatch(ranges, c.WorkerCount(), func(y0, y1 int) {
			width := in.Width
			var sliced [3][]float32
			for i := range rgb {
				sliced[i] = rgb[i][y0*width : y1*width]
			}
			convertF32(sliced, c)
		})
		for i := 0; i < 3; i++ {
			copy(out.Planes[i].F32, rgb[i])
		}
	}

	return copyAlphaIfPresent(in, out)
}

func copyAlphaIfPresent(in, out *Frame) error {
	if !in.HasAlpha || !out.HasAlpha {
		return nil
	}
	ai, ao := len(in.Planes)-1, len(out.Planes)-1
	switch {
	case len(in.Planes[ai].Half) > 0:
		copyAlphaHalf(out.Planes[ao].Half, in.Planes[ai].Half)
	case len(in.Planes[ai].F32) > 0:
		copyAlphaF32(out.Planes[ao].F32, in.Planes[ai].F32)
	default:
		copy(out.Planes[ao].U16, in.Planes[ai].U16)
	}
	return nil
}
