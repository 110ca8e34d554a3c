// Package imaging implements the input stage of the detector: it turns the raw
// bytes received on stdin into a canonical three-channel image.
//
// # Pipeline
//
// Decode performs, in order:
//
//  1. Empty check ("No image data received.")
//  2. Data URL unwrapping: a "data:image/<type>;base64," prefix is stripped and the
//     payload decoded, so hosts that forward browser uploads verbatim still work
//  3. Format sniffing with mimetype; anything that is not image/* is rejected
//  4. Dimension check via image.DecodeConfig, before any pixel memory is allocated
//  5. Full decode (PNG, JPEG, GIF, BMP, TIFF, WebP)
//  6. Normalization to RGB, dropping alpha and expanding gray and palette modes
//
// Every failure is an errdefs.KindInvalidInput error. A failed decode never
// reaches the inference stage.
//
// # Coordinate System
//
// Normalized images always start at (0,0): X increases rightward and Y downward,
// matching the pixel coordinates the detector reports.
//
// # Geometry
//
// The input stage never resizes, crops or rotates. Letterbox is provided for model
// backends that need a fixed square input; it returns a Transform that maps model
// coordinates back onto the original image.
package imaging
