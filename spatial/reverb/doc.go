// Package reverb adds a diffuse late reverberation tail to a binaural mix.
//
// The tail is a short stereo burst of exponentially decaying noise, generated
// once from a fixed seed and convolved with the dry input through its own
// overlap-add filters. The envelope starts one block into the decay and the
// output is delayed by one block, so the tail behaves as if the diffuse field
// arrived after a pre-delay of one block.
package reverb
