// Package segment splits an occupancy grid into discrete ball detections.
//
// Balls resting against each other rasterize into one merged shape in the
// occupancy grid, so plain connected-component counting undercounts. This
// package applies marker-controlled watershed segmentation: the distance
// transform of the binarized grid peaks once per ball, the peaks become
// markers, and watershed expansion from the markers splits the merged shape
// at the ridge lines between peaks. Each accepted region yields one Ball
// with its centroid and pixel area.
//
// All thresholds are resolution-adaptive. Params carries base values tuned
// at one reference resolution; ScaleFor derives the working values for the
// actual grid size so that the same physical scene produces a comparable
// ball count regardless of input resolution.
package segment
