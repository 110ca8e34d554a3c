// Package yolo runs YOLOv8-family detection models exported to ONNX through the
// ONNX Runtime shared library.
//
// # Model Contract
//
// The exported graph takes one float32 tensor shaped [1, 3, S, S] holding an RGB
// image scaled to [0, 1], and produces one float32 tensor shaped
// [1, 4+C, N]: for each of N candidate anchors, the box center, width and height
// in input pixels followed by C per-class scores. Graphs exported with the
// transposed [1, N, 4+C] layout are recognized from their shape.
//
// # Pre- and Post-processing
//
// Images are letterboxed to S x S with gray padding. Candidates whose best class
// score falls below the confidence threshold are dropped, the survivors are
// mapped back to source pixel coordinates, clamped to the image, and filtered
// with class-aware non-maximum suppression.
//
// # Runtime
//
// The runtime library is loaded from an explicit path (see Loader.Runtime). The
// environment is process-global; a Model that initialized it tears it down on
// Close.
package yolo
