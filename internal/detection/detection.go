package detection

import (
	"image"
	"math"
	"os"

	"github.com/ironsheep/rice-detect/internal/errdefs"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// Width is XMax - XMin, never negative.
func (b Box) Width() float64 { return math.Max(0, b.XMax-b.XMin) }

// Height is YMax - YMin, never negative.
func (b Box) Height() float64 { return math.Max(0, b.YMax-b.YMin) }

// Area is Width × Height.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// IoU returns the intersection over union of b and o, in [0, 1].
func (b Box) IoU(o Box) float64 {
	ix := math.Min(b.XMax, o.XMax) - math.Max(b.XMin, o.XMin)
	iy := math.Min(b.YMax, o.YMax) - math.Max(b.YMin, o.YMin)
	if ix <= 0 || iy <= 0 {
		return 0
	}
	inter := ix * iy
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Clamp restricts the box to [0,w] × [0,h] and orders its corners.
func (b Box) Clamp(w, h float64) Box {
	if b.XMin > b.XMax {
		b.XMin, b.XMax = b.XMax, b.XMin
	}
	if b.YMin > b.YMax {
		b.YMin, b.YMax = b.YMax, b.YMin
	}
	return Box{
		XMin: math.Min(math.Max(b.XMin, 0), w),
		YMin: math.Min(math.Max(b.YMin, 0), h),
		XMax: math.Min(math.Max(b.XMax, 0), w),
		YMax: math.Min(math.Max(b.YMax, 0), h),
	}
}

// Detection is one predicted object instance.
type Detection struct {
	// Box locates the object in the input image.
	Box Box `json:"box"`

	// Confidence is the model score, conventionally in [0, 1].
	Confidence float64 `json:"confidence"`

	// Class is the index into the model's class list. Values outside the
	// catalog are legal and are labeled with a placeholder downstream.
	Class int `json:"class"`
}

// Detector runs a loaded model over images.
//
// Implementations need not be safe for concurrent use.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
	Close() error
}

// Loader opens a model artifact.
type Loader interface {
	Load(path string) (Detector, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Detector, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (Detector, error) { return f(path) }

// CheckArtifact reports errdefs.KindModelNotFound when path does not name an
// existing regular file.
func CheckArtifact(path string) error {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return errdefs.ModelNotFound(path)
	}
	return nil
}
