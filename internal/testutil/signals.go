package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns length samples of amplitude·sin(2π·freqHz·i/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude).
// The same seed always yields the same sequence.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns a unit impulse at pos. An out-of-range pos yields silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.0.
func Ones(n int) []float64 {
	return DC(1, n)
}

// SplitBlocks cuts signal into consecutive blocks of n samples. A trailing
// partial block is dropped. The blocks share memory with signal.
func SplitBlocks(signal []float64, n int) [][]float64 {
	if n <= 0 {
		return nil
	}
	blocks := make([][]float64, 0, len(signal)/n)
	for start := 0; start+n <= len(signal); start += n {
		blocks = append(blocks, signal[start:start+n])
	}
	return blocks
}
