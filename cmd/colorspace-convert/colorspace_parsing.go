package main

import (
	"fmt"

	"github.com/GreatValueCreamSoda/gopixfmts"

	cspace "github.com/colorpipe/colorspace"
)

// deriveColorspace builds a colorspace.Colorspace from a decoded video's
// first frame, the way a real filter graph reads AVFrame side data before
// a caller ever touches -space/-primaries/-trc on the command line.
func deriveColorspace(video *openedVideo) (cspace.Colorspace, error) {
	var cs cspace.Colorspace
	cs.Width = video.firstFrame.ScaledWidth
	cs.Height = video.firstFrame.ScaledHeight

	desc, err := gopixfmts.PixFmtDescGet(gopixfmts.PixelFormat(
		video.firstFrame.ConvertedPixelFormat))
	if err != nil {
		return cs, fmt.Errorf("pixel format descriptor: %w", err)
	}

	comp, err := desc.Component(0)
	if err != nil {
		return cs, fmt.Errorf("pixel format component: %w", err)
	}

	switch comp.Depth {
	case 8:
		cs.SamplingFormat = cspace.SamplingFormatUInt8
	case 10:
		cs.SamplingFormat = cspace.SamplingFormatUInt10
	case 12:
		cs.SamplingFormat = cspace.SamplingFormatUInt12
	default:
		return cs, fmt.Errorf("unsupported bit depth %d in pixel format %s",
			comp.Depth, desc.Name())
	}

	if desc.Flags()&uint64(gopixfmts.PixFmtFlagRGB) != 0 {
		cs.ColorFamily = cspace.ColorFamilyRGB
	} else {
		cs.ColorFamily = cspace.ColorFamilyYUV
	}

	cs.ChromaSubsamplingWidth = desc.Log2ChromaW()
	cs.ChromaSubsamplingHeight = desc.Log2ChromaH()

	if video.firstFrame.ColorRange == int(gopixfmts.ColorRangeMPEG) ||
		video.firstFrame.ColorRange == 0 {
		cs.ColorRange = cspace.RangeLimited
	} else {
		cs.ColorRange = cspace.RangeFull
	}

	if video.firstFrame.ColorSpace > 0 {
		cs.ColorMatrix = cspace.Matrix(video.firstFrame.ColorSpace)
	}
	if video.firstFrame.TransferCharateristics > 0 {
		cs.ColorTransfer = cspace.Transfer(video.firstFrame.TransferCharateristics)
	}
	if video.firstFrame.ColorPrimaries > 0 {
		cs.ColorPrimaries = cspace.Primaries(video.firstFrame.ColorPrimaries)
	}

	return cs, nil
}
