// Package dither converts floating-point audio to integer PCM.
//
// A Quantizer scales samples in [-1, 1] to a signed integer range, adds
// triangular (TPDF) dither of a configurable amplitude in LSB and rounds with
// saturation. The noise sequence is seeded, so equal seeds give equal output.
package dither
