package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestLetterbox_Landscape(t *testing.T) {
	src := createSolidRGBA(200, 100, color.RGBA{255, 0, 0, 255})

	canvas, tr := Letterbox(src, 64)

	if canvas.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("canvas bounds: got %v", canvas.Bounds())
	}
	if tr.Scale != 0.32 {
		t.Errorf("Scale: got %v, want 0.32", tr.Scale)
	}
	if tr.PadX != 0 || tr.PadY != 16 {
		t.Errorf("padding: got (%d,%d), want (0,16)", tr.PadX, tr.PadY)
	}

	// Padding rows keep the fill color, the image area is red.
	if got := canvas.NRGBAAt(32, 2); got != PadColor {
		t.Errorf("pad pixel: got %v, want %v", got, PadColor)
	}
	if got := canvas.NRGBAAt(32, 32); got.R < 250 || got.G > 5 {
		t.Errorf("image pixel: got %v, want red", got)
	}
}

func TestLetterbox_NoResizeNeeded(t *testing.T) {
	src := createSolidRGBA(32, 32, color.RGBA{0, 0, 255, 255})

	canvas, tr := Letterbox(src, 32)

	if tr.Scale != 1 || tr.PadX != 0 || tr.PadY != 0 {
		t.Errorf("unexpected transform: %+v", tr)
	}
	if got := canvas.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("got %v", got)
	}
}

func TestTransform_Unmap(t *testing.T) {
	tr := Transform{Scale: 0.5, PadX: 0, PadY: 10, SrcW: 100, SrcH: 60}

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"origin of image", 0, 10, 0, 0},
		{"middle", 25, 25, 50, 30},
		{"clamped top", 10, 0, 20, 0},
		{"clamped far corner", 80, 80, 100, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tr.Unmap(tt.x, tt.y)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("Unmap(%v,%v): got (%v,%v), want (%v,%v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
