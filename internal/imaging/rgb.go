package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RGB is an in-memory image with exactly three 8-bit channels per pixel.
//
// Pix holds the pixels in R, G, B order; the pixel at (x, y) starts at
// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
type RGB struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGB allocates a black RGB image with bounds r.
func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	return &RGB{
		Pix:    make([]uint8, 3*w*h),
		Stride: 3 * w,
		Rect:   r,
	}
}

// ColorModel reports color.RGBAModel; every pixel is fully opaque.
func (p *RGB) ColorModel() color.Model { return color.RGBAModel }

// Bounds returns the image bounds.
func (p *RGB) Bounds() image.Rectangle { return p.Rect }

// At returns the color of the pixel at (x, y).
func (p *RGB) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

// RGBAt returns the pixel at (x, y) as an opaque color.RGBA.
func (p *RGB) RGBAt(x, y int) color.RGBA {
	if !image.Pt(x, y).In(p.Rect) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 0xff}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// Set stores c at (x, y), ignoring its alpha.
func (p *RGB) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(p.Rect) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := p.PixOffset(x, y)
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = n.R, n.G, n.B
}

// ToRGB converts any decoded image to the canonical RGB form.
//
// The source is first cloned into non-premultiplied NRGBA, which expands gray,
// palette, CMYK and YCbCr sources. Alpha is then dropped without compositing,
// so a translucent pixel keeps its stored color. The result starts at (0,0).
func ToRGB(src image.Image) *RGB {
	if rgb, ok := src.(*RGB); ok && rgb.Rect.Min == (image.Point{}) {
		return rgb
	}

	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	dst := NewRGB(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		s := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*b.Dx()]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+3*b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			d[3*x] = s[4*x]
			d[3*x+1] = s[4*x+1]
			d[3*x+2] = s[4*x+2]
		}
	}

	return dst
}
