package result

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/ironsheep/rice-detect/internal/catalog"
	"github.com/ironsheep/rice-detect/internal/detection"
	"github.com/ironsheep/rice-detect/internal/errdefs"
)

// Record is one serialized detection.
type Record struct {
	XMin       Float `json:"xmin"`
	YMin       Float `json:"ymin"`
	XMax       Float `json:"xmax"`
	YMax       Float `json:"ymax"`
	Confidence Float `json:"confidence"`
	Class      int   `json:"class"`

	// Enriched schema only.
	ClassName   string   `json:"class_name,omitempty"`
	Description string   `json:"description,omitempty"`
	Treatments  []string `json:"treatments,omitempty"`
}

// Serializer builds output records. Enriched selects the schema for the whole
// deployment; Catalog is required when Enriched is set.
type Serializer struct {
	Enriched bool
	Catalog  *catalog.Catalog
}

// Records maps detections to records in input order.
func (s Serializer) Records(dets []detection.Detection) []Record {
	records := make([]Record, 0, len(dets))
	for _, d := range dets {
		rec := Record{
			XMin:       Float(d.Box.XMin),
			YMin:       Float(d.Box.YMin),
			XMax:       Float(d.Box.XMax),
			YMax:       Float(d.Box.YMax),
			Confidence: Float(d.Confidence),
			Class:      d.Class,
		}
		if s.Enriched {
			name := s.Catalog.Name(d.Class)
			entry := s.Catalog.Describe(name)
			rec.ClassName = name
			rec.Description = entry.Description
			rec.Treatments = entry.Treatments
		}
		records = append(records, rec)
	}
	return records
}

// Marshal encodes the detections as a single JSON array line, newline included.
// Encoding failures are reported as errdefs.KindSerializationFailure.
func (s Serializer) Marshal(dets []detection.Detection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.Records(dets)); err != nil {
		return nil, errdefs.SerializationFailure(err)
	}
	return buf.Bytes(), nil
}

// Envelope is the failure-path output shape.
type Envelope struct {
	Error string `json:"error"`
}

// WriteError writes err as one Envelope line to w.
func WriteError(w io.Writer, err error) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(Envelope{Error: err.Error()})
}
