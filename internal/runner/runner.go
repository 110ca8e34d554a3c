// Package runner wires the input, inference and output stages into the single
// request the process serves.
package runner

import (
	"fmt"
	"image"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/rice-detect/internal/detection"
	"github.com/ironsheep/rice-detect/internal/errdefs"
	"github.com/ironsheep/rice-detect/internal/imaging"
	"github.com/ironsheep/rice-detect/internal/quiet"
	"github.com/ironsheep/rice-detect/internal/result"
)

// Runner handles one invocation.
type Runner struct {
	Limits     imaging.Limits
	ModelPath  string
	Loader     detection.Loader
	Serializer result.Serializer
	Logger     *zap.Logger

	// Silence runs fn with the process's standard streams muted. Defaults to
	// quiet.Do.
	Silence func(fn func() error) error
}

// Run reads one image from stdin and writes either the detection array to
// stdout (returning 0) or an error envelope to stderr (returning 1). Nothing is
// written to stdout on failure.
func (r *Runner) Run(stdin io.Reader, stdout, stderr io.Writer) int {
	log := r.logger()
	start := time.Now()

	out, err := r.process(stdin)
	if err == nil {
		if _, werr := stdout.Write(out); werr != nil {
			err = errdefs.SerializationFailure(werr)
		}
	}

	if err != nil {
		log.Error("request failed",
			zap.Stringer("kind", errdefs.KindOf(err)),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		if werr := result.WriteError(stderr, err); werr != nil {
			log.Error("failed to write error envelope", zap.Error(werr))
		}
		return 1
	}

	log.Info("request complete", zap.Duration("elapsed", time.Since(start)))
	return 0
}

// process runs the pipeline up to the encoded output line. Panics anywhere in
// the pipeline become inference failures.
func (r *Runner) process(stdin io.Reader) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errdefs.InferenceFailure(fmt.Errorf("panic: %v", p))
		}
	}()

	log := r.logger()

	data, err := imaging.ReadAll(stdin, r.Limits)
	if err != nil {
		return nil, err
	}

	img, info, err := imaging.Decode(data, r.Limits)
	if err != nil {
		return nil, err
	}
	log.Debug("decoded image",
		zap.Int("bytes", len(data)),
		zap.String("format", info.Format),
		zap.String("source_model", info.SourceModel),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Bool("data_url", info.DataURL))

	dets, err := r.infer(img)
	if err != nil {
		return nil, err
	}
	log.Debug("inference complete", zap.Int("detections", len(dets)))

	return r.Serializer.Marshal(dets)
}

// infer loads the model and runs it once with the standard streams muted.
func (r *Runner) infer(img image.Image) ([]detection.Detection, error) {
	silence := r.Silence
	if silence == nil {
		silence = quiet.Do
	}

	var dets []detection.Detection
	err := silence(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()

		model, err := r.Loader.Load(r.ModelPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := model.Close(); cerr != nil {
				r.logger().Warn("failed to release model", zap.Error(cerr))
			}
		}()

		dets, err = model.Detect(img)
		return err
	})
	if err != nil {
		if errdefs.KindOf(err) != errdefs.KindUnknown {
			return nil, err
		}
		return nil, errdefs.InferenceFailure(err)
	}
	return dets, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
