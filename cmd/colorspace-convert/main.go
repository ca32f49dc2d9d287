// Command colorspace-convert converts one video file's colorspace into
// another, frame by frame, decoding the file with goffms2 and writing
// raw planar output.
//
// Usage:
//
//	colorspace-convert --in input.mp4 --out output.yuv --space bt2020ncl \
//	    --primaries bt2020 --trc smpte2084 --range full
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	cspace "github.com/colorpipe/colorspace"
)

const (
	logPath     = "colorspace-convert.log"
	logMaxSize  = 50 // megabytes
	logMaxBackup = 3
	logMaxAge   = 28 // days
)

func main() {
	var (
		inPath, outPath string
		space, ispace   string
		primaries, iprimaries string
		trc, itrc       string
		rng, irange     string
		all, iall       string
		format          string
		wpAdapt         string
		dither          string
		fast            bool
		workers         int
		logLevel        string
	)

	pflag.StringVar(&inPath, "in", "", "input video path (required)")
	pflag.StringVar(&outPath, "out", "", "output raw planar path (required)")
	pflag.StringVar(&space, "space", "", "output matrix tag")
	pflag.StringVar(&ispace, "ispace", "", "input matrix tag override")
	pflag.StringVar(&primaries, "primaries", "", "output primaries tag")
	pflag.StringVar(&iprimaries, "iprimaries", "", "input primaries tag override")
	pflag.StringVar(&trc, "trc", "", "output transfer tag")
	pflag.StringVar(&itrc, "itrc", "", "input transfer tag override")
	pflag.StringVar(&rng, "range", "", "output range: limited|full")
	pflag.StringVar(&irange, "irange", "", "input range override")
	pflag.StringVar(&all, "all", "", "output all-in-one preset")
	pflag.StringVar(&iall, "iall", "", "input all-in-one preset override")
	pflag.StringVar(&format, "format", "", "output sampling format: yuv8|yuv10|yuv12|half|float")
	pflag.StringVar(&wpAdapt, "wp-adapt", "bradford", "whitepoint adaptation: bradford|vonkries|identity")
	pflag.StringVar(&dither, "dither", "none", "quantisation dither: none|fsb")
	pflag.BoolVar(&fast, "fast", false, "force rgb2rgb passthrough, ignoring primaries/gamma")
	pflag.IntVar(&workers, "workers", 4, "slice scheduler worker count")
	pflag.StringVar(&logLevel, "loglevel", "info", "log level: debug|info|warn|error")
	pflag.Parse()

	if inPath == "" || outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: both --in and --out are required")
		pflag.Usage()
		os.Exit(1)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	level, err := parseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log := cspace.NewLogger(fileLog, level)

	opts, err := buildOptions(optionFlags{
		space: space, ispace: ispace,
		primaries: primaries, iprimaries: iprimaries,
		trc: trc, itrc: itrc,
		rng: rng, irange: irange,
		all: all, iall: iall,
		format: format, wpAdapt: wpAdapt, dither: dither,
		fast: fast, workers: workers,
	}, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := run(inPath, outPath, opts, log); err != nil {
		log.Error("conversion failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func parseLevel(s string) (cspace.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return cspace.LevelDebug, nil
	case "info":
		return cspace.LevelInfo, nil
	case "warn":
		return cspace.LevelWarn, nil
	case "error":
		return cspace.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

type optionFlags struct {
	space, ispace         string
	primaries, iprimaries string
	trc, itrc             string
	rng, irange           string
	all, iall             string
	format                string
	wpAdapt, dither       string
	fast                  bool
	workers               int
}

func buildOptions(f optionFlags, log *cspace.Logger) (cspace.Options, error) {
	var opts cspace.Options
	var err error

	if opts.Space, err = lookup(matrixNames, f.space, "space"); err != nil {
		return opts, err
	}
	if opts.ISpace, err = lookup(matrixNames, f.ispace, "ispace"); err != nil {
		return opts, err
	}
	if opts.Primaries, err = lookup(primariesNames, f.primaries, "primaries"); err != nil {
		return opts, err
	}
	if opts.IPrimaries, err = lookup(primariesNames, f.iprimaries, "iprimaries"); err != nil {
		return opts, err
	}
	if opts.TRC, err = lookup(transferNames, f.trc, "trc"); err != nil {
		return opts, err
	}
	if opts.ITRC, err = lookup(transferNames, f.itrc, "itrc"); err != nil {
		return opts, err
	}
	if opts.Range, err = lookup(rangeNames, f.rng, "range"); err != nil {
		return opts, err
	}
	if opts.IRange, err = lookup(rangeNames, f.irange, "irange"); err != nil {
		return opts, err
	}
	if opts.All, err = lookup(allNames, f.all, "all"); err != nil {
		return opts, err
	}
	if opts.IAll, err = lookup(allNames, f.iall, "iall"); err != nil {
		return opts, err
	}
	if opts.Format, err = lookup(formatNames, f.format, "format"); err != nil {
		return opts, err
	}
	if opts.WPAdapt, err = lookup(wpAdaptNames, f.wpAdapt, "wp-adapt"); err != nil {
		return opts, err
	}
	if opts.Dither, err = lookup(ditherNames, f.dither, "dither"); err != nil {
		return opts, err
	}
	opts.Fast = f.fast
	opts.WorkerCount = f.workers
	opts.Logger = log
	return opts, nil
}

func run(inPath, outPath string, opts cspace.Options, log *cspace.Logger) error {
	log.Info("opening input video", "path", inPath)
	video, err := openVideo(inPath)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}

	inCS, err := deriveColorspace(&video)
	if err != nil {
		return fmt.Errorf("derive colorspace: %w", err)
	}
	log.Debug("input colorspace derived", "width", inCS.Width, "height", inCS.Height)

	outCS := inCS
	cfg, err := cspace.NewConfig(inCS, outCS, opts)
	if err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	n := video.numFrames()
	log.Info("starting conversion", "frames", n, "workers", cfg.WorkerCount())

	outFrame := allocateOutputFrame(cfg.Out)
	for i := 0; i < n; i++ {
		raw, err := video.frameAt(i)
		if err != nil {
			return fmt.Errorf("decode frame %d: %w", i, err)
		}
		inFrame := frameToColorspaceFrame(raw, cfg.In)

		if err := cspace.Convert(cfg, inFrame, outFrame); err != nil {
			return fmt.Errorf("convert frame %d: %w", i, err)
		}
		if err := writeRawFrame(out, outFrame); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	log.Info("conversion complete", "frames", n)
	return nil
}
