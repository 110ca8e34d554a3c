package yolo

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/ironsheep/rice-detect/internal/detection"
	"github.com/ironsheep/rice-detect/internal/imaging"
)

// Loader opens ONNX models with ONNX Runtime.
type Loader struct {
	// Runtime is the path to the ONNX Runtime shared library.
	Runtime string

	Params Params
}

// Model is a loaded YOLO session. It implements detection.Detector.
type Model struct {
	params  Params
	layout  layout
	size    int
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	ownsEnv   bool
	closeOnce sync.Once
	closeErr  error
}

// Load implements detection.Loader. A missing artifact is reported before the
// runtime is touched.
func (l Loader) Load(path string) (detection.Detector, error) {
	if err := detection.CheckArtifact(path); err != nil {
		return nil, err
	}

	ownsEnv := false
	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(l.Runtime)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrapf(err, "failed to initialize onnxruntime from %s", l.Runtime)
		}
		ownsEnv = true
	}

	m, err := newModel(path, l.Params)
	if err != nil {
		if ownsEnv {
			_ = ort.DestroyEnvironment()
		}
		return nil, err
	}
	m.ownsEnv = ownsEnv
	return m, nil
}

func newModel(path string, p Params) (*Model, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model %s", path)
	}
	if len(inputs) != 1 || len(outputs) < 1 {
		return nil, errors.Errorf("model %s has %d inputs and %d outputs, want 1 and at least 1",
			path, len(inputs), len(outputs))
	}

	size := p.InputSize
	if d := inputs[0].Dimensions; len(d) == 4 && d[2] > 0 && d[2] == d[3] {
		size = int(d[2])
	}
	if size <= 0 {
		return nil, errors.Errorf("model %s has no usable input size", path)
	}

	l, err := resolveLayout(outputs[0].Dimensions, size, p.NumClasses)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(size), int64(size)), make([]float32, 3*size*size))
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate input tensor")
	}

	outShape := ort.NewShape(1, int64(4+l.Classes), int64(l.Anchors))
	if l.Transposed {
		outShape = ort.NewShape(1, int64(l.Anchors), int64(4+l.Classes))
	}
	output, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		_ = input.Destroy()
		return nil, errors.Wrap(err, "failed to allocate output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	if p.Threads > 0 {
		if err := options.SetIntraOpNumThreads(p.Threads); err != nil {
			_ = input.Destroy()
			_ = output.Destroy()
			return nil, errors.Wrap(err, "failed to set thread count")
		}
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.Value{input}, []ort.Value{output}, options)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, errors.Wrapf(err, "failed to create session for %s", path)
	}

	return &Model{
		params:  p,
		layout:  l,
		size:    size,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// resolveLayout infers the output arrangement from its static shape, falling
// back to the configured class count and the anchor count implied by strides
// 8, 16 and 32.
func resolveLayout(dims ort.Shape, size, numClasses int) (layout, error) {
	anchors := 0
	for _, stride := range []int{8, 16, 32} {
		g := size / stride
		anchors += g * g
	}

	if len(dims) != 3 {
		return layout{}, errors.Errorf("unexpected output rank %d", len(dims))
	}
	a, b := int(dims[1]), int(dims[2])

	switch {
	case a > 4 && b > 0 && b > a:
		return layout{Classes: a - 4, Anchors: b}, nil
	case b > 4 && a > 0 && a > b:
		return layout{Classes: b - 4, Anchors: a, Transposed: true}, nil
	case a > 4:
		return layout{Classes: a - 4, Anchors: anchors}, nil
	case numClasses > 0:
		return layout{Classes: numClasses, Anchors: anchors}, nil
	}
	return layout{}, errors.Errorf("cannot infer output layout from shape %v", dims)
}

// Detect runs one forward pass over img.
func (m *Model) Detect(img image.Image) ([]detection.Detection, error) {
	if m.session == nil {
		return nil, errors.New("model is closed")
	}

	canvas, t := imaging.Letterbox(img, m.size)
	fillCHW(m.input.GetData(), canvas.Pix, canvas.Stride, m.size)

	if err := m.session.Run(); err != nil {
		return nil, errors.Wrap(err, "onnxruntime run failed")
	}

	candidates := decodeOutput(m.output.GetData(), m.layout, m.params.Confidence, t)
	return detection.NMS(candidates, m.params.IoU, m.params.MaxDetections), nil
}

// Close releases the session, its tensors and, when this model created it, the
// runtime environment. Later calls return the first result.
func (m *Model) Close() error {
	m.closeOnce.Do(func() {
		var errs []error
		if err := m.session.Destroy(); err != nil {
			errs = append(errs, err)
		}
		if err := m.input.Destroy(); err != nil {
			errs = append(errs, err)
		}
		if err := m.output.Destroy(); err != nil {
			errs = append(errs, err)
		}
		if m.ownsEnv {
			if err := ort.DestroyEnvironment(); err != nil {
				errs = append(errs, err)
			}
		}
		m.session = nil
		if len(errs) > 0 {
			m.closeErr = errors.Wrapf(errs[0], "close model (%d errors)", len(errs))
		}
	})
	return m.closeErr
}
