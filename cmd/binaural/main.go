// Command binaural renders a mono WAV file into a binaural stereo WAV file.
//
// The source is placed in an optional shoebox room and spatialized with the
// MIT KEMAR HRTF set (compact layout, elev<E>/H<E>e<AAA>a.wav).
//
// Usage:
//
//	binaural [flags] input.wav output.wav
//
// Examples:
//
//	binaural -hrtf ./kemar/compact speech.wav speech_3d.wav
//	binaural -hrtf ./kemar/compact -source 2,1,0 -box 6x4x3 -order 2 in.wav out.wav
//	binaural -hrtf ./kemar/compact -orbit 45 -reverb 0.8 -reverb-level -12 in.wav out.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/resample"
	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/geom"
	"github.com/cwbudde/algo-binaural/spatial/hrtf"
	"github.com/cwbudde/algo-binaural/spatial/render"
	"github.com/cwbudde/algo-binaural/spatial/reverb"
)

type options struct {
	hrtfDir     string
	input       string
	output      string
	blockSize   int
	order       int
	box         string
	damping     float64
	source      geom.Vec3
	listener    geom.Vec3
	orbit       float64
	reverb      float64
	reverbLevel float64
	maxDistance float64
	resolution  float64
	quality     resample.Quality
	bitDepth    int
	ditherLSB   float64
	verbose     bool
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.WithError(err).Fatal("Invalid arguments")
	}
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts, logger); err != nil {
		logger.WithError(err).Fatal("Rendering failed")
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("binaural", flag.ContinueOnError)

	var o options
	var source, listener, quality string
	fs.StringVar(&o.hrtfDir, "hrtf", "", "directory of the MIT KEMAR compact HRTF set (required)")
	fs.IntVar(&o.blockSize, "block", config.Default().BlockSize, "block size in samples (power of two)")
	fs.IntVar(&o.order, "order", config.DefaultReflectionOrder, "reflection order")
	fs.StringVar(&o.box, "box", "", "shoebox room WxHxD in meters, centered at the origin (empty: free field)")
	fs.Float64Var(&o.damping, "damping", 0.6, "amplitude surviving one wall reflection, 0..1")
	fs.StringVar(&source, "source", "1.5,0.5,0", "source position x,y,z in meters (x forward, y right, z up)")
	fs.StringVar(&listener, "listener", "0,0,0", "listener position x,y,z in meters")
	fs.Float64Var(&o.orbit, "orbit", 0, "rotate the source around the listener, degrees per second")
	fs.Float64Var(&o.reverb, "reverb", 0, "reverb time in seconds (0 disables the tail)")
	fs.Float64Var(&o.reverbLevel, "reverb-level", -10, "reverb tail energy in dB relative to the direct path")
	fs.Float64Var(&o.maxDistance, "max-distance", config.DefaultMaxDistance, "largest rendered distance in meters; the HRTF table grows linearly with it (about 3 GB at the defaults)")
	fs.Float64Var(&o.resolution, "resolution", config.DefaultDistanceResolution, "distance bucket size in meters; smaller buckets grow the HRTF table")
	fs.StringVar(&quality, "quality", "balanced", "HRTF resampling quality: fast, balanced, best")
	fs.IntVar(&o.bitDepth, "bits", 16, "output bit depth: 16, 24 or 32")
	fs.Float64Var(&o.ditherLSB, "dither", 1, "TPDF dither amplitude in LSB (0 disables)")
	fs.BoolVar(&o.verbose, "v", false, "verbose output")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: binaural [flags] input.wav output.wav\n\n")
		fmt.Fprintf(fs.Output(), "Renders a mono WAV file into binaural stereo.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return o, fmt.Errorf("expected input and output files, got %d arguments", fs.NArg())
	}
	o.input, o.output = fs.Arg(0), fs.Arg(1)

	if o.hrtfDir == "" {
		return o, errors.New("-hrtf is required")
	}

	var err error
	if o.source, err = parseVec(source); err != nil {
		return o, fmt.Errorf("-source: %w", err)
	}
	if o.listener, err = parseVec(listener); err != nil {
		return o, fmt.Errorf("-listener: %w", err)
	}
	if o.quality, err = parseQuality(quality); err != nil {
		return o, fmt.Errorf("-quality: %w", err)
	}
	switch o.bitDepth {
	case 16, 24, 32:
	default:
		return o, fmt.Errorf("-bits: unsupported bit depth %d", o.bitDepth)
	}

	return o, nil
}

func run(o options, logger *logrus.Logger) error {
	start := time.Now()

	signal, rate, err := readMono(o.input)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"function":    "run",
		"file":        o.input,
		"sample_rate": rate,
		"frames":      len(signal),
	}).Info("Loaded input")

	cfg, err := config.New(
		config.WithSampleRate(float64(rate)),
		config.WithBlockSize(o.blockSize),
		config.WithReflectionOrder(o.order),
		config.WithMaxDistance(o.maxDistance),
		config.WithDistanceResolution(o.resolution),
		config.WithReverbTime(o.reverb),
	)
	if err != nil {
		return err
	}

	ds, err := hrtf.LoadKEMAR(os.DirFS(o.hrtfDir), hrtf.WithLoadLogger(logger))
	if err != nil {
		return err
	}

	sinc, err := resample.NewSinc(resample.WithQuality(o.quality), resample.WithInputRate(ds.SampleRate))
	if err != nil {
		return err
	}
	bank, err := hrtf.NewBank(ds, cfg, hrtf.WithResampler(sinc), hrtf.WithLogger(logger))
	if err != nil {
		return err
	}

	renderOpts := []render.Option{render.WithLogger(logger)}
	if cfg.ReverbTime > 0 {
		level := core.DBToLinear(o.reverbLevel)
		tail, err := reverb.NewTail(cfg.BlockSize, cfg.SampleRate, cfg.ReverbTime,
			reverb.WithGain(level*level), reverb.WithLogger(logger))
		if err != nil {
			return err
		}
		renderOpts = append(renderOpts, render.WithReverb(tail))
	}

	r, err := render.New(cfg, bank, renderOpts...)
	if err != nil {
		return err
	}
	if err := setupRoom(r, o); err != nil {
		return err
	}

	left, right := renderSignal(r, signal, o, float64(rate))

	if err := writeStereo(o.output, left, right, rate, o.bitDepth, o.ditherLSB); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"function": "run",
		"file":     o.output,
		"frames":   len(left),
		"elapsed":  time.Since(start).String(),
	}).Info("Wrote binaural output")

	return nil
}

func setupRoom(r *render.Renderer, o options) error {
	m := r.Model()
	if o.box != "" {
		w, h, d, err := parseBox(o.box)
		if err != nil {
			return fmt.Errorf("-box: %w", err)
		}
		if err := m.DefineBox(w, h, d, o.damping); err != nil {
			return err
		}
	}
	m.SetListenerPosition(o.listener)
	m.SetSourcePosition(o.source)
	return nil
}

// renderSignal runs the renderer over signal block by block. The last block
// is zero padded and one extra block flushes the reverb tail.
func renderSignal(r *render.Renderer, signal []float64, o options, rate float64) (left, right []float64) {
	n := r.BlockSize()
	blocks := (len(signal)+n-1)/n + 1

	left = make([]float64, blocks*n)
	right = make([]float64, blocks*n)
	in := make([]float64, n)

	rel := o.source.Sub(o.listener)
	radius := math.Hypot(rel.X, rel.Y)
	phase := math.Atan2(rel.Y, rel.X)
	step := o.orbit * math.Pi / 180 * float64(n) / rate

	for b := 0; b < blocks; b++ {
		if o.orbit != 0 && b > 0 {
			angle := phase + step*float64(b)
			r.Model().SetSourcePosition(geom.V(
				o.listener.X+radius*math.Cos(angle),
				o.listener.Y+radius*math.Sin(angle),
				o.source.Z,
			))
		}

		clear(in)
		if lo := b * n; lo < len(signal) {
			copy(in, signal[lo:])
		}
		r.RenderBlock(in, left[b*n:(b+1)*n], right[b*n:(b+1)*n])
	}

	return left, right
}
