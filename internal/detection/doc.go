// Package detection defines the object-detection vocabulary shared by the
// pipeline and its model backends.
//
// # Capability Interfaces
//
// The model is opaque to the rest of the program. It is reached through two
// small interfaces:
//
//   - Loader: Load(path) opens a model artifact and returns a Detector
//   - Detector: Detect(image) runs one forward pass; Close releases it
//
// Real backends (see package yolo) and test fakes implement the same pair, so
// the pipeline, its error handling and its tests never depend on a runtime.
//
// # Coordinate System
//
// Boxes use floating-point pixel coordinates of the original input image:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward, Y increases downward
//   - XMin <= XMax and YMin <= YMax
//
// # Ordering
//
// A Detector returns detections in its own order. NMS emits them by descending
// confidence; consumers must preserve whatever order they receive.
package detection
