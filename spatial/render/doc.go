// Package render turns a mono block stream into binaural stereo.
//
// Renderer drives a room.Model: on every block it picks up geometry changes,
// resolves an HRTF filter pair for each direct and mirrored source, sums the
// pairs weighted by the wall damping along each path and convolves the input
// with the result. Source renders a single free-field source from a direction
// or a listener-relative position.
//
// Both share one state machine. While the filters are unchanged a block is
// convolved directly (StateStable). When the filters change, the block is
// rendered through the old and the new filters and the two results are
// crossfaded with complementary squared-sine windows (StateTransitioning). The
// new filters are primed with the previous input block first, so after the
// crossfade their overlap state equals that of filters that were active all
// along.
//
// Neither type is safe for concurrent use. Geometry setters only record the
// change; the next RenderBlock applies it.
package render
