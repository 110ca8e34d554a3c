package yolo

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/rice-detect/internal/detection"
	"github.com/ironsheep/rice-detect/internal/imaging"
)

// layout describes how the raw output tensor is arranged.
type layout struct {
	Classes    int
	Anchors    int
	Transposed bool // [1, N, 4+C] instead of [1, 4+C, N]
}

// at returns attribute attr (0..3 box, 4.. class scores) of anchor i.
func (l layout) at(data []float32, attr, i int) float64 {
	if l.Transposed {
		return float64(data[i*(4+l.Classes)+attr])
	}
	return float64(data[attr*l.Anchors+i])
}

// decodeOutput converts a raw output tensor into source-image detections before
// suppression. Candidates are emitted in anchor order.
func decodeOutput(data []float32, l layout, conf float64, t imaging.Transform) []detection.Detection {
	if l.Classes <= 0 || l.Anchors <= 0 || len(data) < (4+l.Classes)*l.Anchors {
		return nil
	}

	scores := make([]float64, l.Classes)
	var dets []detection.Detection

	for i := 0; i < l.Anchors; i++ {
		for c := range scores {
			scores[c] = l.at(data, 4+c, i)
		}
		best := floats.MaxIdx(scores)
		score := scores[best]
		if score < conf || math.IsNaN(score) {
			continue
		}

		cx, cy := l.at(data, 0, i), l.at(data, 1, i)
		w, h := l.at(data, 2, i), l.at(data, 3, i)

		x1, y1 := t.Unmap(cx-w/2, cy-h/2)
		x2, y2 := t.Unmap(cx+w/2, cy+h/2)

		box := detection.Box{XMin: x1, YMin: y1, XMax: x2, YMax: y2}.
			Clamp(float64(t.SrcW), float64(t.SrcH))

		dets = append(dets, detection.Detection{
			Box:        box,
			Confidence: score,
			Class:      best,
		})
	}
	return dets
}

// fillCHW writes img into dst as planar RGB scaled to [0, 1].
func fillCHW(dst []float32, pix []uint8, stride, size int) {
	plane := size * size
	for y := 0; y < size; y++ {
		row := pix[y*stride:]
		for x := 0; x < size; x++ {
			o := x * 4
			i := y*size + x
			dst[i] = float32(row[o]) / 255
			dst[plane+i] = float32(row[o+1]) / 255
			dst[2*plane+i] = float32(row[o+2]) / 255
		}
	}
}
