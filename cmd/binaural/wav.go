package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-binaural/dsp/dither"
)

// readMono decodes a PCM WAV file and averages its channels.
func readMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%s: missing format", path)
	}

	bits := int(dec.BitDepth)
	if bits < 16 || bits > 32 {
		return nil, 0, fmt.Errorf("%s: unsupported bit depth %d", path, bits)
	}

	channels := buf.Format.NumChannels
	scale := 1 / (math.Exp2(float64(bits-1)) * float64(channels))
	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := range mono {
		var sum int
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		mono[i] = float64(sum) * scale
	}

	return mono, buf.Format.SampleRate, nil
}

// writeStereo encodes left and right as interleaved dithered PCM. Samples
// beyond full scale saturate.
func writeStereo(path string, left, right []float64, rate, bits int, ditherLSB float64) (err error) {
	if len(left) != len(right) {
		return errors.New("channel length mismatch")
	}

	q, err := dither.NewQuantizer(dither.WithBitDepth(bits), dither.WithAmplitude(ditherLSB))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	pcm := make([][]int, 2)
	for ch, src := range [2][]float64{left, right} {
		pcm[ch] = make([]int, len(src))
		q.Quantize(pcm[ch], src)
	}

	data := make([]int, 2*len(left))
	for i := range left {
		data[2*i] = pcm[0][i]
		data[2*i+1] = pcm[1][i]
	}

	enc := wav.NewEncoder(f, rate, bits, 2, 1)
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return enc.Close()
}
