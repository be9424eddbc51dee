// Package resample converts impulse responses between sample rates.
//
// [Resampler] is the narrow interface consumed by the HRTF bank: a pure
// function from a signal and a ratio (output rate / input rate) to a new
// signal. [Sinc] implements it with the polyphase sinc engine of
// github.com/tphakala/go-audio-resampler and fixes the output length to
// [OutputLen], so every impulse response of a dataset ends up with the same
// length after conversion.
//
// Quality modes:
//   - QualityFast: short filters, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: long filters, higher attenuation
package resample
