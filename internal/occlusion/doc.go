// Package occlusion finds the two tape markers that interrupt the reference
// color signal and reconstructs ball-color profiles through them.
//
// The playing field carries two pieces of white tape at known approximate
// horizontal zones. Where a tape piece crosses the strip, balls behind it are
// invisible to the column profiler, leaving a dip in every color profile.
// Locate scans the white reference profile for the two tape spans; Reconstruct
// then bridges each span in a ball-color profile by linear interpolation
// between robust (median) height estimates sampled just outside its edges.
//
// The reconstructed profile is rasterized into an occupancy Grid, the 2-D
// binary input of the blob segmenter. The grid is also the persistence
// format: it can be exported as a grayscale image and re-segmented later
// without recomputing the profile or the interpolation.
package occlusion
