package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/rice-detect/internal/catalog"
	"github.com/ironsheep/rice-detect/internal/config"
	"github.com/ironsheep/rice-detect/internal/imaging"
	"github.com/ironsheep/rice-detect/internal/logger"
	"github.com/ironsheep/rice-detect/internal/result"
	"github.com/ironsheep/rice-detect/internal/runner"
	"github.com/ironsheep/rice-detect/internal/yolo"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := 0
	cmd := newRootCmd(stdin, stdout, stderr, &code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		_ = result.WriteError(stderr, err)
		return 1
	}
	return code
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rice-detect",
		Short: "Detect rice leaf diseases in an image read from stdin",
		Long: `rice-detect reads one encoded image from standard input, runs the bundled
detection model and prints the detections as a single JSON array line.

On failure it prints {"error": "<message>"} to standard error and exits 1.
The model is loaded from pal-ai-model/ next to the executable; an optional
rice-detect.yaml in the same directory overrides the defaults.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			*code = r.Run(stdin, stdout, stderr)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// setup builds the runner from the deployment configuration.
func setup() (*runner.Runner, *zap.Logger, error) {
	root, err := config.InstallRoot()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	return build(cfg)
}

func build(cfg *config.AppConfig) (*runner.Runner, *zap.Logger, error) {
	log, err := logger.New(cfg.Log, cfg.Resolve(cfg.Log.File))
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.Default()
	if cfg.Catalog.File != "" {
		cat, err = catalog.Load(cfg.Resolve(cfg.Catalog.File))
		if err != nil {
			return nil, nil, err
		}
	}

	log.Debug("configuration loaded",
		zap.String("version", Version),
		zap.String("root", cfg.Root),
		zap.String("model", cfg.ModelPath()),
		zap.Bool("enriched", cfg.Output.Enriched),
		zap.Int("classes", cat.Len()))

	r := &runner.Runner{
		Limits: imaging.Limits{
			MaxBytes:  cfg.Input.MaxBytes,
			MaxPixels: cfg.Input.MaxPixels,
		},
		ModelPath: cfg.ModelPath(),
		Loader: yolo.Loader{
			Runtime: cfg.RuntimePath(),
			Params: yolo.Params{
				InputSize:     cfg.Model.InputSize,
				Confidence:    cfg.Model.Confidence,
				IoU:           cfg.Model.IoU,
				MaxDetections: cfg.Model.MaxDetections,
				Threads:       cfg.Model.Threads,
				NumClasses:    cat.Len(),
			},
		},
		Serializer: result.Serializer{Enriched: cfg.Output.Enriched, Catalog: cat},
		Logger:     log,
	}
	return r, log, nil
}
