package main

import (
	"fmt"
	"strings"

	cspace "github.com/colorpipe/colorspace"
)

var matrixNames = map[string]cspace.Matrix{
	"":        cspace.MatrixUnspecified,
	"rgb":     cspace.MatrixRGB,
	"bt709":   cspace.MatrixBT709,
	"fcc":     cspace.MatrixFCC,
	"bt470bg": cspace.MatrixBT470BG,
	"smpte170m": cspace.MatrixSMPTE170M,
	"smpte240m": cspace.MatrixSMPTE240M,
	"bt2020ncl": cspace.MatrixBT2020NCL,
	"bt2020cl":  cspace.MatrixBT2020CL,
}

var primariesNames = map[string]cspace.Primaries{
	"":          cspace.PrimariesUnspecified,
	"bt709":     cspace.PrimariesBT709,
	"bt470m":    cspace.PrimariesBT470M,
	"bt470bg":   cspace.PrimariesBT470BG,
	"smpte170m": cspace.PrimariesSMPTE170M,
	"smpte240m": cspace.PrimariesSMPTE240M,
	"bt2020":    cspace.PrimariesBT2020,
	"smpte428":  cspace.PrimariesSMPTE428,
}

var transferNames = map[string]cspace.Transfer{
	"":             cspace.TransferUnspecified,
	"bt709":        cspace.TransferBT709,
	"gamma22":      cspace.TransferGamma22,
	"gamma28":      cspace.TransferGamma28,
	"smpte170m":    cspace.TransferSMPTE170M,
	"smpte240m":    cspace.TransferSMPTE240M,
	"linear":       cspace.TransferLinear,
	"srgb":         cspace.TransferIEC61966_2_1,
	"iec61966-2-4": cspace.TransferIEC61966_2_4,
	"bt2020-10":    cspace.TransferBT2020_10,
	"bt2020-12":    cspace.TransferBT2020_12,
	"smpte2084":    cspace.TransferSMPTE2084,
	"smpte428":     cspace.TransferSMPTE428,
	"arib-std-b67": cspace.TransferARIBSTDB67,
	"log":          cspace.TransferLog,
	"log-sqrt":     cspace.TransferLogSqrt,
}

var rangeNames = map[string]cspace.Range{
	"":        cspace.RangeUnspecified,
	"limited": cspace.RangeLimited,
	"tv":      cspace.RangeLimited,
	"full":    cspace.RangeFull,
	"pc":      cspace.RangeFull,
}

var allNames = map[string]cspace.All{
	"":           cspace.AllUnspecified,
	"bt470m":     cspace.AllBT470M,
	"bt470bg":    cspace.AllBT470BG,
	"bt601-525":  cspace.AllBT601_6_525,
	"bt601-625":  cspace.AllBT601_6_625,
	"bt709":      cspace.AllBT709,
	"smpte170m":  cspace.AllSMPTE170M,
	"smpte240m":  cspace.AllSMPTE240M,
	"bt2020":     cspace.AllBT2020,
}

var formatNames = map[string]cspace.SamplingFormat{
	"":      cspace.SamplingFormatUnspecified,
	"yuv8":  cspace.SamplingFormatUInt8,
	"yuv10": cspace.SamplingFormatUInt10,
	"yuv12": cspace.SamplingFormatUInt12,
	"half":  cspace.SamplingFormatHalf,
	"float": cspace.SamplingFormatFloat,
}

var wpAdaptNames = map[string]cspace.WPAdapt{
	"bradford": cspace.WPAdaptBradford,
	"vonkries": cspace.WPAdaptVonKries,
	"identity": cspace.WPAdaptIdentity,
}

var ditherNames = map[string]cspace.Dither{
	"none": cspace.DitherNone,
	"fsb":  cspace.DitherFSB,
}

func lookup[T any](m map[string]T, key, flag string) (T, error) {
	v, ok := m[strings.ToLower(key)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown value %q for --%s", key, flag)
	}
	return v, nil
}
