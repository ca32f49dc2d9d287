package colorspace

// This file holds pure data: per-enum lookups for primaries, luma
// coefficients and transfer-characteristic parameters, plus the "all"
// preset table. Values are taken from the ITU/SMPTE definitions
// a colorspace filter graph resolves against.

// primariesEntry is the (x,y) chromaticity of R, G, B and the whitepoint
// for one Primaries enum value.
type primariesEntry struct {
	rx, ry float64
	gx, gy float64
	bx, by float64
	wx, wy float64
}

var primariesTable = map[Primaries]primariesEntry{
	PrimariesBT709: {
		rx: 0.640, ry: 0.330,
		gx: 0.300, gy: 0.600,
		bx: 0.150, by: 0.060,
		wx: 0.3127, wy: 0.3290,
	},
	PrimariesBT470M: {
		rx: 0.670, ry: 0.330,
		gx: 0.210, gy: 0.710,
		bx: 0.140, by: 0.080,
		wx: 0.310, wy: 0.316,
	},
	PrimariesBT470BG: {
		rx: 0.640, ry: 0.330,
		gx: 0.290, gy: 0.600,
		bx: 0.150, by: 0.060,
		wx: 0.3127, wy: 0.3290,
	},
	PrimariesSMPTE170M: {
		rx: 0.630, ry: 0.340,
		gx: 0.310, gy: 0.595,
		bx: 0.155, by: 0.070,
		wx: 0.3127, wy: 0.3290,
	},
	PrimariesSMPTE240M: {
		rx: 0.630, ry: 0.340,
		gx: 0.310, gy: 0.595,
		bx: 0.155, by: 0.070,
		wx: 0.3127, wy: 0.3290,
	},
	PrimariesBT2020: {
		rx: 0.708, ry: 0.292,
		gx: 0.170, gy: 0.797,
		bx: 0.131, by: 0.046,
		wx: 0.3127, wy: 0.3290,
	},
	PrimariesSMPTE428: {
		rx: 1.0, ry: 0.0,
		gx: 0.0, gy: 1.0,
		bx: 0.0, by: 0.0,
		wx: 1.0 / 3.0, wy: 1.0 / 3.0,
	},
}

// matrixEntry holds the two independent luma coefficients (Kr, Kb); Kg
// follows as 1 - Kr - Kb.
type matrixEntry struct {
	kr, kb float64
}

var matrixTable = map[Matrix]matrixEntry{
	MatrixBT709:     {kr: 0.2126, kb: 0.0722},
	MatrixFCC:       {kr: 0.30, kb: 0.11},
	MatrixBT470BG:   {kr: 0.299, kb: 0.114},
	MatrixSMPTE170M: {kr: 0.299, kb: 0.114},
	MatrixSMPTE240M: {kr: 0.212, kb: 0.087},
	MatrixBT2020NCL: {kr: 0.2627, kb: 0.0593},
	// BT.2020 constant luminance shares the non-constant-luminance
	// coefficients: frames tagged with it run through the same
	// non-constant-luminance pipeline.
	MatrixBT2020CL: {kr: 0.2627, kb: 0.0593},
}

// transferEntry holds the piecewise parametric transfer parameters
// (alpha, beta, gamma, delta) of
//
//	delinearize(v) = delta*v                         |v| < beta
//	                 sign(v) * (alpha*|v|^(1/gamma) - (alpha-1))  otherwise
//
// An entry with alpha == 0 is not parametric (PQ, HLG, log curves): no
// curve for it is wired into this package, and linearize/delinearize in
// lut.go pass its values through unchanged.
type transferEntry struct {
	alpha, beta, gamma, delta float64
	parametric                bool
}

var transferTable = map[Transfer]transferEntry{
	TransferBT709: {
		alpha: 1.099, beta: 0.018, gamma: 1.0 / 0.45, delta: 4.5,
		parametric: true,
	},
	// Gamma 2.2/2.8: pure power law, no toe. Per the open question in
	// design notes, beta/delta are left zero rather than hard-coded
	// branches so a future revision can supply real toe parameters.
	TransferGamma22: {
		alpha: 1.0, beta: 0, gamma: 2.2, delta: 0,
		parametric: true,
	},
	TransferGamma28: {
		alpha: 1.0, beta: 0, gamma: 2.8, delta: 0,
		parametric: true,
	},
	TransferSMPTE170M: {
		alpha: 1.099, beta: 0.018, gamma: 1.0 / 0.45, delta: 4.5,
		parametric: true,
	},
	TransferSMPTE240M: {
		alpha: 1.1115, beta: 0.0228, gamma: 1.0 / 0.45, delta: 4.0,
		parametric: true,
	},
	TransferLinear: {
		alpha: 1.0, beta: 0, gamma: 1.0, delta: 1.0,
		parametric: true,
	},
	TransferIEC61966_2_1: {
		alpha: 1.055, beta: 0.0031308, gamma: 2.4, delta: 12.92,
		parametric: true,
	},
	TransferIEC61966_2_4: {
		alpha: 1.099, beta: 0.018, gamma: 1.0 / 0.45, delta: 4.5,
		parametric: true,
	},
	TransferBT2020_10: {
		alpha: 1.099, beta: 0.018, gamma: 1.0 / 0.45, delta: 4.5,
		parametric: true,
	},
	TransferBT2020_12: {
		alpha: 1.0993, beta: 0.0181, gamma: 1.0 / 0.45, delta: 4.5,
		parametric: true,
	},
	TransferSMPTE2084:  {parametric: false},
	TransferSMPTE428:   {parametric: false},
	TransferARIBSTDB67: {parametric: false},
	TransferLog:        {parametric: false},
	TransferLogSqrt:    {parametric: false},
}

// allPreset is the (space, primaries, trc) tuple a convenience "all"
// enum expands to.
type allPreset struct {
	matrix    Matrix
	primaries Primaries
	transfer  Transfer
}

var allPresetTable = map[All]allPreset{
	AllBT470M:      {MatrixBT470BG, PrimariesBT470M, TransferGamma22},
	AllBT470BG:     {MatrixBT470BG, PrimariesBT470BG, TransferGamma28},
	AllBT601_6_525: {MatrixSMPTE170M, PrimariesSMPTE170M, TransferSMPTE170M},
	AllBT601_6_625: {MatrixBT470BG, PrimariesBT470BG, TransferSMPTE170M},
	AllBT709:       {MatrixBT709, PrimariesBT709, TransferBT709},
	AllSMPTE170M:   {MatrixSMPTE170M, PrimariesSMPTE170M, TransferSMPTE170M},
	AllSMPTE240M:   {MatrixSMPTE240M, PrimariesSMPTE240M, TransferSMPTE240M},
	AllBT2020:      {MatrixBT2020NCL, PrimariesBT2020, TransferBT2020_10},
}
