package colorspace

import (
	"sync"
)

// Options are the external-facing configuration knobs, mirroring the
// option table a filter-graph host exposes to its caller.
type Options struct {
	All, IAll             All
	Space, ISpace         Matrix
	Primaries, IPrimaries Primaries
	TRC, ITRC             Transfer
	Range, IRange         Range

	// Format pins the output pixel sampling format. Unspecified keeps
	// the out Colorspace's SamplingFormat.
	Format SamplingFormat

	// Fast forces rgb2rgb_passthrough, ignoring primaries and gamma.
	Fast bool

	Dither  Dither
	WPAdapt WPAdapt

	// WorkerCount sizes the slice scheduler's worker pool (component
	// G). Zero defaults to 1.
	WorkerCount int

	Logger *Logger
}

// Config is the effective, resolved configuration: cached coefficient
// matrices, LUTs, offsets and passthrough flags for one (in, out)
// Colorspace pair. NewConfig builds it once: Config has no method that
// changes its tags, and its coefficients and LUTs are not rebuilt
// afterwards. Only the intermediate scratch buffers are allocated
// later, on first use.
type Config struct {
	opts Options
	log  *Logger

	In, Out Colorspace

	// resolved tags, after tag resolution order is applied
	inPrimaries, outPrimaries Primaries
	inTransfer, outTransfer   Transfer
	inMatrix, outMatrix       Matrix
	inRange, outRange         Range

	inDepth, outDepth int

	isFloat     bool
	isHalfFloat bool

	// fixed-point coefficient matrices, one int16 per entry (not
	// replicated per lane)
	lrgb2lrgbCoeffs [3][3]int16
	yuv2rgbCoeffs   [3][3]int16
	rgb2yuvCoeffs   [3][3]int16
	yuv2yuvCoeffs   [3][3]int16

	// floating-point linear-RGB->linear-RGB matrix for the float kernels
	matrixF [3][3]float32

	linLUT   []int16
	delinLUT []int16

	linLUTHalf   []uint16
	delinLUTHalf []uint16

	inOff, outOff         int
	inYRng, inUVRng       int
	outYRng, outUVRng     int

	lrgb2lrgbPassthrough bool
	rgb2rgbPassthrough   bool
	yuv2yuvFastmode      bool
	yuv2yuvPassthrough   bool

	warnRangeOnce sync.Once

	// scratch intermediate RGB planes, reallocated when frame geometry
	// changes (spec section 3 "Scratch state" / section 4.3 "allocate
	// scratch buffers").
	scratchW, scratchH int
	rgbScratch         [3][]int16
	rgbScratchHalf     [3][]uint16
	rgbScratchF32      [3][]float32

	// fsbPool hands out the dither scratch rows reused across frames
	// instead of reallocating them on every call (component G scratch
	// reuse, spec section 5).
	fsbPool  *BlockingPool[*fsbTriplet]
	fsbPoolW int
}

// fsbTriplet bundles the three per-plane Floyd-Steinberg scratch rows
// dithering a single frame needs at once.
type fsbTriplet struct {
	y, u, v *fsbScratch
}

// fsbScratchFor returns a reusable fsbTriplet sized for width, building
// the pool on first use and rebuilding it if the frame width changes.
func (c *Config) fsbScratchFor(width, logCW int) *fsbTriplet {
	if c.fsbPool == nil || c.fsbPoolW != width {
		c.fsbPoolW = width
		c.fsbPool = NewBlockingPool(1, func() *fsbTriplet {
			return &fsbTriplet{
				y: newFSBScratch(width),
				u: newFSBScratch(width >> logCW),
				v: newFSBScratch(width >> logCW),
			}
		})
	}
	return c.fsbPool.Get()
}

func (c *Config) putFSBScratch(t *fsbTriplet) {
	c.fsbPool.Put(t)
}

// ensureScratch (re)allocates the intermediate RGB planes when the
// frame's dimensions differ from the last call.
func (c *Config) ensureScratch(width, height int) {
	if c.scratchW == width && c.scratchH == height && c.rgbScratch[0] != nil {
		return
	}
	c.scratchW, c.scratchH = width, height
	n := width * height
	switch {
	case c.isHalfFloat:
		for i := range c.rgbScratchHalf {
			c.rgbScratchHalf[i] = make([]uint16, n)
		}
	case c.isFloat:
		for i := range c.rgbScratchF32 {
			c.rgbScratchF32[i] = make([]float32, n)
		}
	default:
		for i := range c.rgbScratch {
			c.rgbScratch[i] = make([]int16, n)
		}
	}
}

// NewConfig resolves in and out tags against opts and builds the
// effective configuration: coefficient matrices, LUTs, offsets and
// passthrough flags. All failures are returned synchronously, before any
// pixel is touched, per spec section 7.
func NewConfig(in, out Colorspace, opts Options) (*Config, error) {
	c := &Config{opts: opts, In: in, Out: out}
	c.log = opts.Logger
	if c.log == nil {
		c.log = discardLogger
	}

	if err := c.validateGeometry(); err != nil {
		return nil, err
	}
	if err := c.resolveTags(); err != nil {
		return nil, err
	}
	if err := c.validateFormat(); err != nil {
		return nil, err
	}
	c.detectFloat()
	if err := c.rebuild(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validateGeometry() error {
	if c.In.Width%2 != 0 || c.In.Height%2 != 0 {
		return newError(CodeInvalidDimensions,
			"input %dx%d must be even", c.In.Width, c.In.Height)
	}
	if c.Out.Width%2 != 0 || c.Out.Height%2 != 0 {
		return newError(CodeInvalidDimensions,
			"output %dx%d must be even", c.Out.Width, c.Out.Height)
	}
	return nil
}

// resolveTags applies the tag resolution order of spec section 4.3 to
// primaries, transfer, matrix and range on each side.
func (c *Config) resolveTags() error {
	c.log.Debug("resolving color tags")

	// "all" presets apply first as a baseline, then per-field side
	// overrides win over them.
	inPreset, inHasPreset := allPresetTable[c.opts.IAll]
	outPreset, outHasPreset := allPresetTable[c.opts.All]

	var err error
	c.inPrimaries, err = resolveEnum("input primaries", c.opts.IPrimaries,
		pick(inHasPreset, inPreset.primaries), c.In.ColorPrimaries, true)
	if err != nil {
		return err
	}
	c.outPrimaries, err = resolveEnum("output primaries", c.opts.Primaries,
		pick(outHasPreset, outPreset.primaries), c.Out.ColorPrimaries, true)
	if err != nil {
		return err
	}

	c.inTransfer, err = resolveEnum("input transfer", c.opts.ITRC,
		pick(inHasPreset, inPreset.transfer), c.In.ColorTransfer, true)
	if err != nil {
		return err
	}
	c.outTransfer, err = resolveEnum("output transfer", c.opts.TRC,
		pick(outHasPreset, outPreset.transfer), c.Out.ColorTransfer, true)
	if err != nil {
		return err
	}

	c.inMatrix, err = resolveEnum("input matrix", c.opts.ISpace,
		pick(inHasPreset, inPreset.matrix), c.In.ColorMatrix, true)
	if err != nil {
		return err
	}
	c.outMatrix, err = resolveEnum("output matrix", c.opts.Space,
		pick(outHasPreset, outPreset.matrix), c.Out.ColorMatrix, true)
	if err != nil {
		return err
	}

	if err := c.resolveRange(); err != nil {
		return err
	}

	c.log.Debug("tags resolved",
		"inPrimaries", c.inPrimaries, "outPrimaries", c.outPrimaries,
		"inTransfer", c.inTransfer, "outTransfer", c.outTransfer,
		"inMatrix", c.inMatrix, "outMatrix", c.outMatrix,
		"inRange", c.inRange, "outRange", c.outRange)
	return nil
}

// resolveRange applies the same resolution order as the other tags, but
// unspecified never errors: it warns once and proceeds as limited.
func (c *Config) resolveRange() error {
	c.inRange = firstSet(c.opts.IRange, RangeUnspecified, c.In.ColorRange)
	c.outRange = firstSet(c.opts.Range, RangeUnspecified, c.Out.ColorRange)

	if c.inRange == RangeUnspecified {
		c.warnRangeOnce.Do(func() {
			c.log.Info("input range unspecified, assuming limited")
		})
		c.inRange = RangeLimited
	}
	if c.outRange == RangeUnspecified {
		c.warnRangeOnce.Do(func() {
			c.log.Info("output range unspecified, assuming limited")
		})
		c.outRange = RangeLimited
	}
	return nil
}

// pick returns v if ok, else the zero value, used to fold an absent
// "all" preset lookup into the resolution chain below.
func pick[T any](ok bool, v T) T {
	if ok {
		return v
	}
	var zero T
	return zero
}

// firstSet returns the first argument that is not its type's
// "unspecified" zero value. unspecified must be the sentinel value for
// T (always 0 for this package's enums).
func firstSet[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// resolveEnum implements the four-step resolution order of spec section
// 4.3 for a single field: side override, "all" preset, frame-carried,
// else fail if required.
func resolveEnum[T comparable](name string, override, preset, carried T, required bool) (T, error) {
	v := firstSet(override, preset, carried)
	var zero T
	if v == zero && required {
		return zero, newError(CodeUnsupportedTag, "%s has no value", name)
	}
	return v, nil
}

func (c *Config) validateFormat() error {
	if c.In.ColorFamily != c.Out.ColorFamily {
		return newError(CodeUnsupportedFormat,
			"cannot mix RGB and non-RGB sides (in=%v out=%v)",
			c.In.ColorFamily, c.Out.ColorFamily)
	}

	inFmt := c.In.SamplingFormat
	outFmt := c.Out.SamplingFormat
	if c.opts.Format != SamplingFormatUnspecified {
		outFmt = c.opts.Format
	}
	c.Out.SamplingFormat = outFmt

	if !supportedFormat(inFmt) {
		return newError(CodeUnsupportedFormat, "unsupported input format %v", inFmt)
	}
	if !supportedFormat(outFmt) {
		return newError(CodeUnsupportedFormat, "unsupported output format %v", outFmt)
	}

	if c.In.ColorFamily == ColorFamilyYUV {
		if !supportedSubsampling(c.In.ChromaSubsamplingWidth, c.In.ChromaSubsamplingHeight) {
			return newError(CodeUnsupportedFormat, "unsupported input chroma subsampling")
		}
		if !supportedSubsampling(c.Out.ChromaSubsamplingWidth, c.Out.ChromaSubsamplingHeight) {
			return newError(CodeUnsupportedFormat, "unsupported output chroma subsampling")
		}
	}

	c.inDepth = inFmt.Depth()
	c.outDepth = outFmt.Depth()
	return nil
}

func supportedFormat(f SamplingFormat) bool {
	switch f {
	case SamplingFormatUInt8, SamplingFormatUInt10, SamplingFormatUInt12,
		SamplingFormatHalf, SamplingFormatFloat:
		return true
	default:
		return false
	}
}

func supportedSubsampling(logCW, logCH int) bool {
	switch {
	case logCW == 0 && logCH == 0: // 4:4:4
		return true
	case logCW == 1 && logCH == 0: // 4:2:2
		return true
	case logCW == 1 && logCH == 1: // 4:2:0
		return true
	default:
		return false
	}
}

func (c *Config) detectFloat() {
	c.isFloat = c.In.SamplingFormat.IsFloat() || c.Out.SamplingFormat.IsFloat()
	c.isHalfFloat = c.In.SamplingFormat == SamplingFormatHalf ||
		c.Out.SamplingFormat == SamplingFormatHalf
}

// getRangeOff computes the offset and usable Y/UV range widths for one
// side, per spec section 4.2/4.5 and the get_range_off formula it's
// grounded on.
func getRangeOff(depth int, rng Range) (off, yRng, uvRng int) {
	if rng == RangeFull {
		return 0, (1 << depth) - 1, (1 << depth) - 1
	}
	shift := depth - 8
	return 16 << shift, 219 << shift, 224 << shift
}

// rebuild computes every coefficient matrix, LUT and passthrough flag
// from the resolved tags. It recomputes all of them each time it runs;
// NewConfig is its only caller.
func (c *Config) rebuild() error {
	c.computePassthrough()

	c.inOff, c.inYRng, c.inUVRng = getRangeOff(c.inDepth, c.inRange)
	c.outOff, c.outYRng, c.outUVRng = getRangeOff(c.outDepth, c.outRange)

	if c.isFloat {
		return c.rebuildFloat()
	}
	return c.rebuildInt()
}

// computePassthrough determines the four flags of spec section 4.4.
// yuv2yuv_passthrough implies yuv2yuv_fastmode, which implies
// rgb2rgb_passthrough; rgb2rgb_passthrough implies lrgb2lrgb_passthrough
// unless Fast forces it.
func (c *Config) computePassthrough() {
	c.lrgb2lrgbPassthrough = c.inPrimaries == c.outPrimaries

	sameTransferParams := transferTable[c.inTransfer] == transferTable[c.outTransfer]
	outEntry := transferTable[c.outTransfer]
	c.rgb2rgbPassthrough = c.opts.Fast ||
		(c.lrgb2lrgbPassthrough && sameTransferParams && outEntry.parametric)

	sameSubsampling := c.In.ChromaSubsamplingWidth == c.Out.ChromaSubsamplingWidth &&
		c.In.ChromaSubsamplingHeight == c.Out.ChromaSubsamplingHeight
	c.yuv2yuvFastmode = c.rgb2rgbPassthrough && sameSubsampling

	c.yuv2yuvPassthrough = c.yuv2yuvFastmode &&
		c.inRange == c.outRange &&
		c.inMatrix == c.outMatrix &&
		c.inDepth == c.outDepth
}

func (c *Config) rebuildInt() error {
	yuv2rgb, rgb2yuv, err := c.buildYUVMatrices()
	if err != nil {
		return err
	}
	c.yuv2rgbCoeffs = quantizeYUV2RGB(yuv2rgb, c.inDepth, c.inYRng, c.inUVRng)
	c.rgb2yuvCoeffs = quantizeRGB2YUV(rgb2yuv, c.outDepth, c.outYRng, c.outUVRng)

	lrgb2lrgb, err := c.buildLRGB2LRGBMatrix()
	if err != nil {
		return err
	}
	c.lrgb2lrgbCoeffs = quantizeLRGB2LRGB(lrgb2lrgb)

	if c.yuv2yuvFastmode {
		fused := multiplyMat3(rgbToYUVMatrix(matrixTable[c.outMatrix].kr, matrixTable[c.outMatrix].kb),
			invertOrIdentity(rgbToYUVMatrix(matrixTable[c.inMatrix].kr, matrixTable[c.inMatrix].kb)))
		c.yuv2yuvCoeffs = quantizeYUV2YUV(fused, c.inDepth, c.outDepth,
			c.inYRng, c.inUVRng, c.outYRng, c.outUVRng)
	}

	if !c.rgb2rgbPassthrough {
		c.buildIntLUTs()
	}

	return c.checkCoefficientInvariants()
}

func invertOrIdentity(m mat3) mat3 {
	inv, err := invert3x3(m)
	if err != nil {
		return identity3()
	}
	return inv
}

func (c *Config) buildYUVMatrices() (yuv2rgb, rgb2yuv mat3, err error) {
	inM, ok := matrixTable[c.inMatrix]
	if !ok {
		return mat3{}, mat3{}, newError(CodeUnsupportedTag, "unknown input matrix %d", c.inMatrix)
	}
	outM, ok := matrixTable[c.outMatrix]
	if !ok {
		return mat3{}, mat3{}, newError(CodeUnsupportedTag, "unknown output matrix %d", c.outMatrix)
	}
	rgb2yuvM := rgbToYUVMatrix(outM.kr, outM.kb)
	yuv2rgbM, err := invert3x3(rgbToYUVMatrix(inM.kr, inM.kb))
	if err != nil {
		return mat3{}, mat3{}, err
	}
	return yuv2rgbM, rgb2yuvM, nil
}

func (c *Config) buildLRGB2LRGBMatrix() (mat3, error) {
	if c.lrgb2lrgbPassthrough {
		return identity3(), nil
	}
	inP, ok := primariesTable[c.inPrimaries]
	if !ok {
		return mat3{}, newError(CodeUnsupportedTag, "unknown input primaries %d", c.inPrimaries)
	}
	outP, ok := primariesTable[c.outPrimaries]
	if !ok {
		return mat3{}, newError(CodeUnsupportedTag, "unknown output primaries %d", c.outPrimaries)
	}
	return rgbToRGBMatrix(inP, outP, c.opts.WPAdapt)
}

func (c *Config) buildIntLUTs() {
	inT := transferTable[c.inTransfer]
	outT := transferTable[c.outTransfer]
	c.delinLUT = buildIntLUT(func(v float64) float64 { return delinearize(outT, v) })
	c.linLUT = buildIntLUT(func(v float64) float64 { return linearize(inT, v) })
}

func (c *Config) rebuildFloat() error {
	lrgb2lrgb, err := c.buildLRGB2LRGBMatrix()
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.matrixF[i][j] = float32(lrgb2lrgb[i][j])
		}
	}

	if !c.rgb2rgbPassthrough {
		inT := transferTable[c.inTransfer]
		outT := transferTable[c.outTransfer]
		if c.isHalfFloat {
			c.delinLUTHalf = buildHalfLUT(func(v float64) float64 { return delinearize(outT, v) })
			c.linLUTHalf = buildHalfLUT(func(v float64) float64 { return linearize(inT, v) })
		}
	}
	return nil
}

// checkCoefficientInvariants verifies the structural invariants spec
// section 8 property 2 names, which the integer kernels rely on to
// skip known-zero terms.
func (c *Config) checkCoefficientInvariants() error {
	if c.yuv2rgbCoeffs[0][1] != 0 {
		return newError(CodeUnsupportedTag, "yuv2rgb[0][1] must be zero")
	}
	if c.yuv2rgbCoeffs[2][2] != 0 {
		return newError(CodeUnsupportedTag, "yuv2rgb[2][2] must be zero")
	}
	if c.yuv2rgbCoeffs[0][0] != c.yuv2rgbCoeffs[1][0] || c.yuv2rgbCoeffs[1][0] != c.yuv2rgbCoeffs[2][0] {
		return newError(CodeUnsupportedTag, "yuv2rgb column 0 must agree across rows")
	}
	if c.rgb2yuvCoeffs[1][2] != c.rgb2yuvCoeffs[2][0] {
		return newError(CodeUnsupportedTag, "rgb2yuv[1][2] must equal rgb2yuv[2][0]")
	}
	if c.yuv2yuvFastmode {
		if c.yuv2yuvCoeffs[1][0] != 0 || c.yuv2yuvCoeffs[2][0] != 0 {
			return newError(CodeUnsupportedTag, "yuv2yuv column 0 rows 1,2 must be zero")
		}
	}
	return nil
}

// WorkerCount returns the configured worker pool size, defaulting to 1.
func (c *Config) WorkerCount() int {
	if c.opts.WorkerCount <= 0 {
		return 1
	}
	return c.opts.WorkerCount
}
