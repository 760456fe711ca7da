// Package imaging provides image loading, saving, and resolution handling
// for the ball detection pipeline.
//
// This package owns everything that touches the filesystem or an image codec:
// decoding input photos, caching decoded images for reuse across pipeline
// stages, writing PNG artifacts, and normalizing input resolution before the
// profiling stage. All operations work with standard Go image.Image types and
// use a coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual operations are
// stateless and can be called concurrently on different images.
//
// # Resolution Normalization
//
// Detection thresholds downstream were tuned at one reference resolution.
// Normalize shrinks oversized inputs by an integer divisor using
// nearest-neighbor resampling so that hard color-block edges survive;
// interpolating filters would blend ball colors at region boundaries and
// corrupt the per-column color counts.
package imaging
