// Package conv provides linear convolution routines for block-based audio
// rendering.
//
// Two strategies are offered:
//
//   - Direct convolution: O(N*M) time-domain reference, used for verification
//     and very short kernels.
//   - [OverlapAddFilter]: streaming FFT convolution with a fixed block length N
//     and an FFT size of 2N. Kernels up to N samples are convolved without
//     wraparound, and the kernel can be exchanged between blocks.
//
// # Streaming usage
//
//	f, err := conv.NewOverlapAddFilter(512)
//	f.SetTimeDomainKernel(kernel)
//	for each block {
//		f.AddSignalBlock(block)
//		f.GetResult(out)
//	}
//
// AddSignalBlock and GetResult must alternate. The filter keeps the previous
// block's circular convolution result so that GetResult can add its tail,
// which reconstructs the linear convolution of the concatenated input.
//
// Frequency-domain kernels are half spectra of length N+1 produced by
// [OverlapAddFilter.ForwardTransform] (or any [fft.Engine] of size 2N), so a
// caller can precompute and mix spectra offline and hand them to
// [OverlapAddFilter.SetFrequencyDomainKernel].
//
// Shape violations on the streaming path panic: they indicate caller bugs and
// the real-time path has no error return.
package conv
