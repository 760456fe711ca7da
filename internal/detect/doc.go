// Package detect orchestrates the detection pipeline and batch runs.
//
// Detector wires the pure stages together for one image: resolution
// normalization, column profiling, tape location, per-color reconstruction
// and rasterization, and watershed segmentation. Batch walks an input
// directory, runs a Detector per image on a worker pool, writes the
// visualization and occupancy artifacts, and aggregates counts.
//
// A Detector holds only immutable configuration and an explicit logger, so
// runs are reproducible and testable in isolation; there is no process-wide
// debug state. Per-image failures are local: the batch logs them and moves
// on, never aborting the run.
package detect
