package detection

import "sort"

// NMS applies class-aware non-maximum suppression.
//
// Detections are ordered by descending confidence (ties keep their input order),
// then each one suppresses later detections of the same class whose IoU with it
// exceeds iouThreshold. At most maxDetections survive; zero or less means no cap.
// The input slice is not modified.
func NMS(dets []Detection, iouThreshold float64, maxDetections int) []Detection {
	if len(dets) == 0 {
		return []Detection{}
	}

	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	suppressed := make([]bool, len(sorted))
	kept := make([]Detection, 0, len(sorted))

	for i := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, sorted[i])
		if maxDetections > 0 && len(kept) == maxDetections {
			break
		}
		for j := i + 1; j < len(sorted); j++ {
			if suppressed[j] || sorted[j].Class != sorted[i].Class {
				continue
			}
			if sorted[i].Box.IoU(sorted[j].Box) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}
