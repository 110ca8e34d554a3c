// Package result turns raw detections into the process's JSON output.
//
// # Output Schemas
//
// A deployment picks one of two record shapes, fixed by Serializer.Enriched:
//
// Minimal:
//
//	{"xmin": 1.0, "ymin": 2.0, "xmax": 3.0, "ymax": 4.0, "confidence": 0.9, "class": 0}
//
// Enriched, which adds the catalog label and metadata:
//
//	{..., "class_name": "Leaf Blast", "description": "...", "treatments": ["..."]}
//
// Records keep the order the model produced; nothing is re-sorted. The whole
// list is written as one compact JSON array followed by a newline.
//
// # Numbers
//
// Coordinates and confidence always carry a decimal point or exponent (12.0,
// never 12) so hosts that type-check floats see floats. The class id is an
// integer. NaN and infinities cannot be encoded and fail serialization.
//
// # Errors
//
// Failures are written as a single Envelope, {"error": "<message>"}.
package result
