// Package profile turns a field image into per-column color-height signals.
//
// For each pixel column of a rectified field photo, the profiler counts the
// pixels matching each configured color class (the two ball colors plus the
// white reference tape), producing one ColorProfile per class. A ColorProfile
// is the 1-D height signal every later pipeline stage works on: the occlusion
// locator scans the reference profile, and the interpolator/rasterizer turns
// ball profiles into 2-D occupancy grids.
//
// Classification is purely per-pixel and per-class. Classes are checked
// independently, not mutually exclusively: a pixel may in principle count
// toward more than one class, and the thresholds are tuned so that in
// practice it does not.
//
// Columns are independent, so profiling runs across a bounded worker pool
// with each worker owning a disjoint column range; no shared mutable state.
package profile
