package main

import (
	"fmt"
	"runtime"

	ffms "github.com/GreatValueCreamSoda/goffms2"
)

// openedVideo bundles the indexed video source, its properties and its
// first decoded frame, as openVideo returns them.
type openedVideo struct {
	video      *ffms.VideoSource
	props      *ffms.VideoProperties
	firstFrame *ffms.Frame
}

func openVideo(path string) (openedVideo, error) {
	indexer, _, err := ffms.CreateIndexer(path)
	if err != nil {
		return openedVideo{}, fmt.Errorf("create indexer: %w", err)
	}

	index, _, err := indexer.DoIndexing(ffms.IEHAbort)
	if err != nil {
		return openedVideo{}, fmt.Errorf("index: %w", err)
	}

	track, _, err := index.GetFirstTrackOfType(ffms.TypeVideo)
	if err != nil {
		return openedVideo{}, fmt.Errorf("no video track: %w", err)
	}

	video, _, err := ffms.CreateVideoSource(path, index, track,
		runtime.NumCPU()/2, ffms.SeekNormal)
	if err != nil {
		return openedVideo{}, fmt.Errorf("create video source: %w", err)
	}

	props, err := video.GetVideoProperties()
	if err != nil {
		return openedVideo{}, fmt.Errorf("video properties: %w", err)
	}

	firstFrame, _, err := video.GetFrame(0)
	if err != nil {
		return openedVideo{}, fmt.Errorf("get frame 0: %w", err)
	}

	return openedVideo{video: video, props: &props, firstFrame: &firstFrame}, nil
}

// frameAt decodes frame n. firstFrame is left unchanged.
func (v *openedVideo) frameAt(n int) (*ffms.Frame, error) {
	frame, _, err := v.video.GetFrame(n)
	if err != nil {
		return nil, fmt.Errorf("get frame %d: %w", n, err)
	}
	return &frame, nil
}

func (v *openedVideo) numFrames() int {
	return v.props.NumFrames
}
