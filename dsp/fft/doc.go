// Package fft provides a fixed-size real FFT engine on top of algo-fft
// complex plans.
//
// The engine transforms real signals of up to Size samples (zero-padded) into
// the non-redundant half spectrum of Size/2+1 bins, and back. The inverse
// transform is normalized, so Inverse(Forward(x)) reproduces x.
//
//	e, err := fft.NewEngine(1024)
//	spec := make([]complex128, e.Bins())
//	e.Forward(spec, signal)
//	out := make([]float64, e.Size())
//	e.Inverse(out, spec)
//
// An Engine owns scratch buffers and must not be shared between goroutines.
package fft
