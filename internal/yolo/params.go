package yolo

// Params tunes pre- and post-processing.
type Params struct {
	// InputSize is the square model input edge in pixels. A static model
	// input shape takes precedence.
	InputSize int

	// Confidence is the minimum class score a candidate must reach.
	Confidence float64

	// IoU is the overlap above which a lower-scoring box of the same class is
	// suppressed.
	IoU float64

	// MaxDetections caps the result count; zero means no cap.
	MaxDetections int

	// Threads bounds ONNX Runtime intra-op parallelism; zero lets the runtime
	// decide.
	Threads int

	// NumClasses is used when the output shape is dynamic.
	NumClasses int
}

// DefaultParams mirrors the Ultralytics prediction defaults.
func DefaultParams() Params {
	return Params{
		InputSize:     640,
		Confidence:    0.25,
		IoU:           0.7,
		MaxDetections: 300,
		Threads:       1,
		NumClasses:    3,
	}
}
