package main

import (
	"encoding/binary"
	"io"

	ffms "github.com/GreatValueCreamSoda/goffms2"

	cspace "github.com/colorpipe/colorspace"
)

// frameToColorspaceFrame unpacks one decoded ffms2 frame's raw byte planes
// into the uint16-per-sample planes colorspace.Frame expects, widening
// 8-bit samples and reading 10/12-bit samples as little-endian uint16s
// (ffms2's native storage for sub-16-bit depths).
func frameToColorspaceFrame(f *ffms.Frame, cs cspace.Colorspace) *cspace.Frame {
	out := &cspace.Frame{Colorspace: cs}
	planeCount := 3
	if cs.HasAlpha {
		planeCount = 4
	}
	out.Planes = make([]cspace.Plane, planeCount)

	for i := 0; i < planeCount; i++ {
		logCW, logCH := 0, 0
		if i == 1 || i == 2 {
			logCW, logCH = cs.ChromaSubsamplingWidth, cs.ChromaSubsamplingHeight
		}
		w := cs.Width >> logCW
		h := cs.Height >> logCH

		data := f.Data[i]
		linesize := int(f.Linesize[i])
		samples := make([]uint16, w*h)
		depth := cs.SamplingFormat.Depth()
		for y := 0; y < h; y++ {
			row := data[y*linesize:]
			for x := 0; x < w; x++ {
				var v uint16
				if depth == 8 {
					v = uint16(row[x])
				} else {
					v = binary.LittleEndian.Uint16(row[x*2:])
				}
				samples[y*w+x] = v
			}
		}
		out.Planes[i] = cspace.Plane{Linesize: w, U16: samples}
	}
	return out
}

// allocateOutputFrame allocates a colorspace.Frame matching out's geometry
// and format, for Convert to write into.
func allocateOutputFrame(cs cspace.Colorspace) *cspace.Frame {
	planeCount := 3
	if cs.HasAlpha {
		planeCount = 4
	}
	f := &cspace.Frame{Colorspace: cs, Planes: make([]cspace.Plane, planeCount)}
	for i := 0; i < planeCount; i++ {
		logCW, logCH := 0, 0
		if i == 1 || i == 2 {
			logCW, logCH = cs.ChromaSubsamplingWidth, cs.ChromaSubsamplingHeight
		}
		w := cs.Width >> logCW
		h := cs.Height >> logCH
		f.Planes[i] = cspace.Plane{Linesize: w, U16: make([]uint16, w*h)}
	}
	return f
}

// writeRawFrame serialises a converted frame back to its native sample
// width (1 byte for 8-bit, little-endian 2 bytes otherwise), matching the
// rawvideo layout ffmpeg -f rawvideo produces.
func writeRawFrame(w io.Writer, f *cspace.Frame) error {
	depth := f.SamplingFormat.Depth()
	for _, p := range f.Planes {
		if depth == 8 {
			buf := make([]byte, len(p.U16))
			for i, v := range p.U16 {
				buf[i] = byte(v)
			}
			if _, err := w.Write(buf); err != nil {
				return err
			}
			continue
		}
		buf := make([]byte, len(p.U16)*2)
		for i, v := range p.U16 {
			binary.LittleEndian.PutUint16(buf[i*2:], v)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
