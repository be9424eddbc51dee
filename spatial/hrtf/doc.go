// Package hrtf turns a measured head-related impulse response dataset into a
// table of frequency-domain filter pairs and maps listener-relative source
// positions onto that table.
//
// A [Dataset] covers one azimuthal hemisphere (azimuth 0° to 180°, positive
// to the listener's right). Sources on the left are rendered with the mirrored
// direction and the ear channels exchanged, which assumes a left/right
// symmetric head.
//
// [NewBank] resamples every impulse response to the runtime rate, then for
// every orientation and distance bucket delays it by the propagation time,
// scales it by recordingDistance/bucketDistance and stores the 2N-point half
// spectrum, N being the render block size. The table holds
//
//	orientations × buckets × 2 × (N+1)
//
// complex64 values, so large block sizes combined with fine distance
// resolution get expensive. All of this runs once at startup; lookups
// afterwards are allocation free.
//
// Coordinates follow the listener frame: x forward, y right, z up. Elevation
// is measured from the horizontal plane, azimuth clockwise from the front
// when seen from above.
package hrtf
