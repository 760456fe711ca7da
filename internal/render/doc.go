// Package render draws the pipeline's visualization artifacts.
//
// None of these images feed back into detection; they exist so a human can
// audit a run: color maps with the reconstructed tape spans, the reference
// map with the located tape tinted, and detection images with a marker per
// accepted ball and a running count.
package render
