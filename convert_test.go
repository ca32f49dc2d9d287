package colorspace_test

import (
	"testing"

	cspace "github.com/colorpipe/colorspace"
)

func yuv420Colorspace(width, height int, depth cspace.SamplingFormat, rng cspace.Range) cspace.Colorspace {
	var cs cspace.Colorspace
	cs.SetDefaults(width, height, depth)
	cs.ColorRange = rng
	return cs
}

func fillFrame(cs cspace.Colorspace, y, u, v uint16) *cspace.Frame {
	cw := cs.Width >> cs.ChromaSubsamplingWidth
	ch := cs.Height >> cs.ChromaSubsamplingHeight

	yPlane := make([]uint16, cs.Width*cs.Height)
	for i := range yPlane {
		yPlane[i] = y
	}
	uPlane := make([]uint16, cw*ch)
	vPlane := make([]uint16, cw*ch)
	for i := range uPlane {
		uPlane[i] = u
		vPlane[i] = v
	}

	return &cspace.Frame{
		Colorspace: cs,
		Planes: []cspace.Plane{
			{Linesize: cs.Width, U16: yPlane},
			{Linesize: cw, U16: uPlane},
			{Linesize: cw, U16: vPlane},
		},
	}
}

func allocLike(f *cspace.Frame) *cspace.Frame {
	out := &cspace.Frame{Colorspace: f.Colorspace, Planes: make([]cspace.Plane, len(f.Planes))}
	for i, p := range f.Planes {
		out.Planes[i] = cspace.Plane{Linesize: p.Linesize, U16: make([]uint16, len(p.U16))}
	}
	return out
}

func framesEqual(a, b *cspace.Frame) bool {
	if len(a.Planes) != len(b.Planes) {
		return false
	}
	for i := range a.Planes {
		if len(a.Planes[i].U16) != len(b.Planes[i].U16) {
			return false
		}
		for j, v := range a.Planes[i].U16 {
			if b.Planes[i].U16[j] != v {
				return false
			}
		}
	}
	return true
}

// Test_S1_Identity: identical tags both sides must yield byte-exact
// passthrough output (spec S1 and property 4).
func Test_S1_Identity(t *testing.T) {
	cs := yuv420Colorspace(96, 96, cspace.SamplingFormatUInt8, cspace.RangeLimited)
	in := fillFrame(cs, 100, 120, 140)
	out := allocLike(in)

	cfg, err := cspace.NewConfig(cs, cs, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := cspace.Convert(cfg, in, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !framesEqual(in, out) {
		t.Error("identity conversion must reproduce the input exactly")
	}
}

// Test_S2_MatrixOnly: changing only the matrix on a uniform mid-gray
// patch should move each plane by at most one code.
func Test_S2_MatrixOnly(t *testing.T) {
	cs := yuv420Colorspace(32, 32, cspace.SamplingFormatUInt8, cspace.RangeFull)
	cs.ChromaSubsamplingWidth, cs.ChromaSubsamplingHeight = 0, 0 // 4:4:4
	in := fillFrame(cs, 128, 128, 128)
	out := allocLike(in)

	outCS := cs
	outCS.ColorMatrix = cspace.MatrixBT470BG

	cfg, err := cspace.NewConfig(cs, outCS, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := cspace.Convert(cfg, in, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	for i, p := range out.Planes {
		for _, v := range p.U16 {
			want := in.Planes[i].U16[0]
			diff := int(v) - int(want)
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				t.Errorf("plane %d: |%d - %d| = %d > 1", i, v, want, diff)
			}
		}
	}
}

// Test_S4_RangeExpansion: limited-to-full range conversion on the same
// matrix must map Y=16 to 0 and Y=235 to 255, within 1 code.
func Test_S4_RangeExpansion(t *testing.T) {
	cs := yuv420Colorspace(16, 16, cspace.SamplingFormatUInt8, cspace.RangeLimited)
	cs.ChromaSubsamplingWidth, cs.ChromaSubsamplingHeight = 1, 0 // 4:2:2

	outCS := cs
	outCS.ColorRange = cspace.RangeFull

	cfg, err := cspace.NewConfig(cs, outCS, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	for _, tc := range []struct{ yIn, yWant uint16 }{{16, 0}, {235, 255}} {
		in := fillFrame(cs, tc.yIn, 128, 128)
		out := allocLike(in)
		if err := cspace.Convert(cfg, in, out); err != nil {
			t.Fatalf("Convert: %v", err)
		}
		got := out.Planes[0].U16[0]
		diff := int(got) - int(tc.yWant)
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Errorf("Y=%d: got %d, want %d +-1", tc.yIn, got, tc.yWant)
		}
	}
}

// Test_Property5_YUV2YUVIdempotence: applying a depth-changing fast-mode
// conversion then its inverse must recover the original values within a
// small rounding bound.
func Test_Property5_YUV2YUVIdempotence(t *testing.T) {
	cs8 := yuv420Colorspace(16, 16, cspace.SamplingFormatUInt8, cspace.RangeLimited)
	cs10 := yuv420Colorspace(16, 16, cspace.SamplingFormatUInt10, cspace.RangeLimited)

	fwdCfg, err := cspace.NewConfig(cs8, cs10, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig forward: %v", err)
	}
	revCfg, err := cspace.NewConfig(cs10, cs8, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig reverse: %v", err)
	}

	in := fillFrame(cs8, 100, 120, 140)
	mid := allocLike(&cspace.Frame{Colorspace: cs10, Planes: []cspace.Plane{
		{Linesize: cs10.Width, U16: make([]uint16, cs10.Width*cs10.Height)},
		{Linesize: cs10.Width >> 1, U16: make([]uint16, (cs10.Width>>1)*(cs10.Height>>1))},
		{Linesize: cs10.Width >> 1, U16: make([]uint16, (cs10.Width>>1)*(cs10.Height>>1))},
	}})
	back := allocLike(in)

	if err := cspace.Convert(fwdCfg, in, mid); err != nil {
		t.Fatalf("forward Convert: %v", err)
	}
	if err := cspace.Convert(revCfg, mid, back); err != nil {
		t.Fatalf("reverse Convert: %v", err)
	}

	for i, p := range back.Planes {
		for j, v := range p.U16 {
			diff := int(v) - int(in.Planes[i].U16[j])
			if diff < 0 {
				diff = -diff
			}
			if diff > 2 {
				t.Errorf("plane %d[%d]: |%d - %d| = %d > 2", i, j, v, in.Planes[i].U16[j], diff)
			}
		}
	}
}

// Test_Property6_SliceInvariance: the non-dithered pipeline must produce
// bit-identical output regardless of worker/slice count.
func Test_Property6_SliceInvariance(t *testing.T) {
	cs := yuv420Colorspace(64, 64, cspace.SamplingFormatUInt8, cspace.RangeLimited)
	outCS := cs
	outCS.ColorPrimaries = cspace.PrimariesBT2020
	outCS.ColorTransfer = cspace.TransferBT2020_12
	outCS.ColorMatrix = cspace.MatrixBT2020NCL

	in := fillFrame(cs, 90, 110, 150)

	var results []*cspace.Frame
	for _, workers := range []int{1, 3, 7} {
		cfg, err := cspace.NewConfig(cs, outCS, cspace.Options{WorkerCount: workers})
		if err != nil {
			t.Fatalf("NewConfig workers=%d: %v", workers, err)
		}
		out := allocLike(in)
		if err := cspace.Convert(cfg, in, out); err != nil {
			t.Fatalf("Convert workers=%d: %v", workers, err)
		}
		results = append(results, out)
	}

	for i := 1; i < len(results); i++ {
		if !framesEqual(results[0], results[i]) {
			t.Errorf("output with different worker counts diverged at index %d", i)
		}
	}
}

// Test_S3_PrimariesAndTransfer covers spec scenario S3: a pure red
// patch encoded as BT.2020 YUV (matrix/primaries/transfer all BT.2020)
// converted to BT.709 must decode back to close to the BT.709 red
// reference, even though BT.2020's red primary lies outside the
// BT.709 gamut and gets clamped in the process.
func Test_S3_PrimariesAndTransfer(t *testing.T) {
	outCS := yuv420Colorspace(32, 32, cspace.SamplingFormatUInt10, cspace.RangeLimited)

	inCS := outCS
	inCS.ColorMatrix = cspace.MatrixBT2020NCL
	inCS.ColorPrimaries = cspace.PrimariesBT2020
	inCS.ColorTransfer = cspace.TransferBT2020_10

	cfg, err := cspace.NewConfig(inCS, outCS, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	// get_range_off(10, limited): off=16<<2, yRng=219<<2, uvRng=224<<2.
	const off, yRng, uvRng, uvMid = 64, 876, 896, 512

	// BT.2020 non-constant luma coefficients, encoding R'G'B'=(1,0,0).
	inKr, inKb := 0.2627, 0.0593
	inY := inKr
	inCb := -inKr / (2 * (1 - inKb))
	inCr := 0.5

	in := fillFrame(inCS,
		uint16(off+inY*yRng+0.5),
		uint16(uvMid+inCb*uvRng+0.5),
		uint16(uvMid+inCr*uvRng+0.5))
	out := allocLike(in)

	if err := cspace.Convert(cfg, in, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// BT.709 reference: how a pure red patch native to BT.709 would
	// itself encode, for comparison against the converted output.
	outKr, outKb := 0.2126, 0.0722
	refY := off + outKr*yRng
	refCb := uvMid + (-outKr/(2*(1-outKb)))*uvRng
	refCr := uvMid + 0.5*uvRng

	const tol = 20 // codes out of a 10-bit range, allowing for gamut clamping
	check := func(name string, got uint16, want float64) {
		diff := float64(got) - want
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			t.Errorf("%s: got %d, want %v +-%d", name, got, want, tol)
		}
	}
	check("Y", out.Planes[0].U16[0], refY)
	check("Cb", out.Planes[1].U16[0], refCb)
	check("Cr", out.Planes[2].U16[0], refCr)
}

// Test_S6_DitherIncreasesDistinctValues checks that Floyd-Steinberg
// dithering produces more distinct output codes than no dithering on a
// smooth gradient, the banding-reduction scenario.
func Test_S6_DitherIncreasesDistinctValues(t *testing.T) {
	cs12 := yuv420Colorspace(64, 2, cspace.SamplingFormatUInt12, cspace.RangeLimited)
	cs8 := yuv420Colorspace(64, 2, cspace.SamplingFormatUInt8, cspace.RangeLimited)

	gradient := func() *cspace.Frame {
		f := fillFrame(cs12, 0, 2048, 2048)
		for x := 0; x < cs12.Width; x++ {
			v := uint16(512 + x*8) // smooth limited-range ramp
			f.Planes[0].U16[x] = v
			f.Planes[0].U16[cs12.Width+x] = v
		}
		return f
	}

	countDistinct := func(f *cspace.Frame) int {
		seen := map[uint16]bool{}
		for _, v := range f.Planes[0].U16 {
			seen[v] = true
		}
		return len(seen)
	}

	plainCfg, err := cspace.NewConfig(cs12, cs8, cspace.Options{})
	if err != nil {
		t.Fatalf("NewConfig (no dither): %v", err)
	}
	ditherCfg, err := cspace.NewConfig(cs12, cs8, cspace.Options{Dither: cspace.DitherFSB})
	if err != nil {
		t.Fatalf("NewConfig (dither): %v", err)
	}

	plainOut := allocLike(&cspace.Frame{Colorspace: cs8, Planes: []cspace.Plane{
		{Linesize: cs8.Width, U16: make([]uint16, cs8.Width*cs8.Height)},
		{Linesize: cs8.Width >> 1, U16: make([]uint16, (cs8.Width>>1)*(cs8.Height>>1))},
		{Linesize: cs8.Width >> 1, U16: make([]uint16, (cs8.Width>>1)*(cs8.Height>>1))},
	}})
	ditherOut := allocLike(plainOut)

	in := gradient()
	if err := cspace.Convert(plainCfg, in, plainOut); err != nil {
		t.Fatalf("Convert (no dither): %v", err)
	}
	if err := cspace.Convert(ditherCfg, in, ditherOut); err != nil {
		t.Fatalf("Convert (dither): %v", err)
	}

	plainDistinct := countDistinct(plainOut)
	ditherDistinct := countDistinct(ditherOut)
	if float64(ditherDistinct) < float64(plainDistinct)*1.3 {
		t.Errorf("dithered output has %d distinct values, want >= 30%% more than plain's %d",
			ditherDistinct, plainDistinct)
	}
}
