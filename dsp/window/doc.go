// Package window provides the complementary fade windows used when an
// output switches from one filter kernel to another within a single block.
//
// The fade-in curve is a squared raised sine
//
//	w[i] = sin²(π/2 · i/(n-1))
//
// which rises monotonically from 0 to 1. The fade-out curve is the fade-in
// reversed. Both are built so that w[i] + w[n-1-i] is exactly 1.0 in
// floating point at every index, hence a crossfade between two equal signals
// reproduces the signal.
package window
