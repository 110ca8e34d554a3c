package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// PadColor is the fill used around a letterboxed image.
var PadColor = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// Transform maps coordinates between a letterboxed canvas and the source image.
type Transform struct {
	Scale float64 // source pixels * Scale = canvas pixels
	PadX  int     // left padding on the canvas
	PadY  int     // top padding on the canvas
	SrcW  int
	SrcH  int
}

// Unmap converts a canvas coordinate into source image coordinates, clamped to
// the source bounds.
func (t Transform) Unmap(x, y float64) (float64, float64) {
	sx := (x - float64(t.PadX)) / t.Scale
	sy := (y - float64(t.PadY)) / t.Scale
	return clamp(sx, 0, float64(t.SrcW)), clamp(sy, 0, float64(t.SrcH))
}

// Letterbox scales img to fit a size x size canvas while keeping its aspect
// ratio, centering it on a PadColor background.
func Letterbox(img image.Image, size int) (*image.NRGBA, Transform) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	padX := int(math.Round(float64(size-newW)/2 - 0.1))
	padY := int(math.Round(float64(size-newH)/2 - 0.1))

	var resized *image.NRGBA
	if newW == w && newH == h {
		resized = imaging.Clone(img)
	} else {
		resized = imaging.Resize(img, newW, newH, imaging.Linear)
	}

	canvas := imaging.New(size, size, PadColor)
	canvas = imaging.Paste(canvas, resized, image.Pt(padX, padY))

	return canvas, Transform{Scale: scale, PadX: padX, PadY: padY, SrcW: w, SrcH: h}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
