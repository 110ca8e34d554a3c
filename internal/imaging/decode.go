package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/rice-detect/internal/errdefs"
)

const (
	// DefaultMaxBytes bounds the raw input, matching the 50 MB body limit of the
	// host service that feeds this process.
	DefaultMaxBytes int64 = 50 << 20

	// DefaultMaxPixels bounds width*height of the decoded image (40 MP).
	DefaultMaxPixels = 40_000_000
)

// Messages reported for invalid input.
const (
	MsgNoImageData  = "No image data received."
	MsgInvalidImage = "Invalid image data provided."
)

// Limits bounds the resources a single input may consume.
type Limits struct {
	// MaxBytes is the largest accepted input stream, in bytes.
	MaxBytes int64
	// MaxPixels is the largest accepted width*height after decoding.
	MaxPixels int
}

// DefaultLimits returns the limits used when the deployment configures none.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, MaxPixels: DefaultMaxPixels}
}

// Info describes a decoded input image.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the name reported by the image decoder ("png", "jpeg", ...).
	Format string `json:"format"`

	// MIME is the sniffed media type of the input bytes.
	MIME string `json:"mime"`

	// SourceModel names the color layout before normalization ("gray", "paletted",
	// "nrgba", "ycbcr", ...).
	SourceModel string `json:"source_model"`

	// DataURL is true when the input arrived as a base64 data URL.
	DataURL bool `json:"data_url"`
}

// ReadAll consumes the entire input stream. Streams larger than limits.MaxBytes
// are rejected as invalid input.
func ReadAll(r io.Reader, limits Limits) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return nil, errdefs.InvalidInput(err, "Failed to read image data: %v", err)
	}
	if int64(len(data)) > limits.MaxBytes {
		return nil, errdefs.InvalidInput(nil, "Image data exceeds %d bytes", limits.MaxBytes)
	}
	return data, nil
}

// Decode validates raw input bytes and returns them as a normalized RGB image.
//
// Returns:
//   - *RGB: the decoded image in canonical three-channel form, origin at (0,0).
//   - *Info: metadata about the source, useful for logging.
//   - error: an errdefs.KindInvalidInput error when the bytes are empty, exceed
//     the limits, or are not a decodable image.
func Decode(data []byte, limits Limits) (*RGB, *Info, error) {
	if len(data) == 0 {
		return nil, nil, errdefs.InvalidInput(nil, MsgNoImageData)
	}

	info := &Info{}

	payload, isDataURL, err := unwrapDataURL(data)
	if err != nil {
		return nil, nil, errdefs.InvalidInput(err, MsgInvalidImage)
	}
	info.DataURL = isDataURL
	if len(payload) == 0 {
		return nil, nil, errdefs.InvalidInput(nil, MsgNoImageData)
	}

	mtype := mimetype.Detect(payload)
	info.MIME = mtype.String()
	if !strings.HasPrefix(info.MIME, "image/") {
		return nil, info, errdefs.InvalidInput(fmt.Errorf("detected %s", info.MIME), MsgInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, info, errdefs.InvalidInput(err, MsgInvalidImage)
	}
	info.Width, info.Height, info.Format = cfg.Width, cfg.Height, format

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, info, errdefs.InvalidInput(nil, MsgInvalidImage)
	}
	if limits.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(limits.MaxPixels) {
		return nil, info, errdefs.InvalidInput(nil, "Image dimensions %dx%d exceed the %d pixel limit",
			cfg.Width, cfg.Height, limits.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, info, errdefs.InvalidInput(err, MsgInvalidImage)
	}
	info.SourceModel = sourceModel(img)

	return ToRGB(img), info, nil
}

// unwrapDataURL strips a "data:image/...;base64," prefix and decodes the payload.
// Inputs without the prefix are returned untouched.
func unwrapDataURL(data []byte) ([]byte, bool, error) {
	if !bytes.HasPrefix(data, []byte("data:image/")) {
		return data, false, nil
	}
	comma := bytes.IndexByte(data, ',')
	if comma < 0 || !bytes.HasSuffix(data[:comma], []byte(";base64")) {
		return nil, true, fmt.Errorf("malformed data URL header")
	}

	encoded := bytes.TrimSpace(data[comma+1:])
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(decoded, encoded)
	if err != nil {
		return nil, true, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return decoded[:n], true, nil
}

func sourceModel(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.Paletted:
		return "paletted"
	case *image.RGBA:
		return "rgba"
	case *image.RGBA64:
		return "rgba64"
	case *image.NRGBA:
		return "nrgba"
	case *image.NRGBA64:
		return "nrgba64"
	case *image.YCbCr:
		return "ycbcr"
	case *image.NYCbCrA:
		return "nycbcra"
	case *image.CMYK:
		return "cmyk"
	default:
		return "unknown"
	}
}
