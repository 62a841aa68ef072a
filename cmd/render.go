package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/df07/go-metropolis-raytracer/pkg/display"
	"github.com/df07/go-metropolis-raytracer/pkg/integrator"
	"github.com/df07/go-metropolis-raytracer/pkg/job"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
)

// RenderOptions holds everything the render command needs
type RenderOptions struct {
	Scene  string
	Width  int
	Height int

	Sampler          string // metropolis or direct
	Samples          int
	InitialMutations int
	Bootstrap        int
	Tasks            int
	Workers          int
	Seed             int64

	Strategy      string // mis or single
	Heuristic     string // balance or power
	Exponent      float64
	MaxEyeDepth   int
	MaxLightDepth int
	EyeDepth      int
	LightDepth    int

	Color       string // rgb or single
	Progressive bool
	Exposure    float64
	Caption     bool
	Out         string
}

// RenderFlags are the flags accepted by the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{Name: "scene", Value: "cornell", Usage: "built-in scene to render"},
	cli.IntFlag{Name: "width", Value: 256, Usage: "frame width"},
	cli.IntFlag{Name: "height", Value: 256, Usage: "frame height"},
	cli.StringFlag{Name: "sampler", Value: "metropolis", Usage: "metropolis or direct"},
	cli.IntFlag{Name: "samples", Value: 256 * 256 * 16, Usage: "total samples or mutations for the whole image"},
	cli.IntFlag{Name: "initial-mutations", Value: 1000, Usage: "warm-up mutations discarded at the start of each task"},
	cli.IntFlag{Name: "bootstrap", Value: 1024, Usage: "fresh paths per task used to normalise metropolis brightness; 0 disables"},
	cli.IntFlag{Name: "tasks", Value: 64, Usage: "number of tasks the sample budget is split into"},
	cli.IntFlag{Name: "workers", Value: 0, Usage: "worker goroutines; 0 uses every CPU"},
	cli.Int64Flag{Name: "seed", Value: 1, Usage: "random seed"},
	cli.StringFlag{Name: "strategy", Value: "mis", Usage: "mis or single"},
	cli.StringFlag{Name: "heuristic", Value: "power", Usage: "balance or power"},
	cli.Float64Flag{Name: "exponent", Value: 2, Usage: "power heuristic exponent"},
	cli.IntFlag{Name: "max-eye-depth", Value: 8, Usage: "longest eye sub-path for the mis strategy"},
	cli.IntFlag{Name: "max-light-depth", Value: 8, Usage: "longest light sub-path for the mis strategy"},
	cli.IntFlag{Name: "eye-depth", Value: 2, Usage: "eye sub-path length for the single strategy"},
	cli.IntFlag{Name: "light-depth", Value: 1, Usage: "light sub-path length for the single strategy"},
	cli.StringFlag{Name: "color", Value: "rgb", Usage: "rgb or single (one channel per path)"},
	cli.BoolFlag{Name: "progressive", Usage: "blend partial results and rewrite the image as tasks finish"},
	cli.Float64Flag{Name: "exposure", Value: 1.0, Usage: "camera exposure for tone-mapping"},
	cli.BoolFlag{Name: "caption", Usage: "stamp the sampler and sample count onto the image"},
	cli.StringFlag{Name: "out, o", Usage: "image filename (.png, .tiff or .bmp); defaults to output/<scene>/render_<job>.png"},
	cli.StringFlag{Name: "metrics-addr", Usage: "serve prometheus metrics on this address while rendering"},
}

func renderOptions(ctx *cli.Context) RenderOptions {
	return RenderOptions{
		Scene:            ctx.String("scene"),
		Width:            ctx.Int("width"),
		Height:           ctx.Int("height"),
		Sampler:          ctx.String("sampler"),
		Samples:          ctx.Int("samples"),
		InitialMutations: ctx.Int("initial-mutations"),
		Bootstrap:        ctx.Int("bootstrap"),
		Tasks:            ctx.Int("tasks"),
		Workers:          ctx.Int("workers"),
		Seed:             ctx.Int64("seed"),
		Strategy:         ctx.String("strategy"),
		Heuristic:        ctx.String("heuristic"),
		Exponent:         ctx.Float64("exponent"),
		MaxEyeDepth:      ctx.Int("max-eye-depth"),
		MaxLightDepth:    ctx.Int("max-light-depth"),
		EyeDepth:         ctx.Int("eye-depth"),
		LightDepth:       ctx.Int("light-depth"),
		Color:            ctx.String("color"),
		Progressive:      ctx.Bool("progressive"),
		Exposure:         ctx.Float64("exposure"),
		Caption:          ctx.Bool("caption"),
		Out:              ctx.String("out"),
	}
}

// RenderScene renders a built-in scene to an image file.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)
	opts := renderOptions(ctx)

	registry := prometheus.NewRegistry()
	metrics := job.NewMetrics(registry)
	if addr := ctx.String("metrics-addr"); addr != "" {
		server := &http.Server{
			Addr:    addr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warningf("metrics server: %v", err)
			}
		}()
		defer server.Close()
		logger.Noticef("serving metrics on %s", addr)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, out, err := Render(runCtx, opts, metrics)
	if len(stats) > 0 {
		displayTaskStats(stats, time.Since(start))
	}
	if err != nil {
		return err
	}

	logger.Noticef("render saved as %s", out)
	return nil
}

// Render runs a complete job and returns the per-task statistics and the
// file the image was written to. metrics may be nil.
func Render(ctx context.Context, opts RenderOptions, metrics *job.Metrics) ([]*job.TaskStat, string, error) {
	sc, err := scene.Load(opts.Scene, opts.Width, opts.Height)
	if err != nil {
		return nil, "", err
	}

	runner, err := newRunner(opts, sc)
	if err != nil {
		return nil, "", err
	}

	id := uuid.New()
	out := opts.Out
	if out == "" {
		out = filepath.Join("output", opts.Scene, fmt.Sprintf("render_%s.png", id.String()[:8]))
	}

	file := display.NewFile(out)
	file.Exposure = opts.Exposure
	file.Rewrite = opts.Progressive
	if opts.Caption {
		file.Caption = fmt.Sprintf("%s %d samples", opts.Sampler, opts.Samples)
	}

	coordinator, err := job.NewCoordinatorWithID(id, job.Config{
		Width:       opts.Width,
		Height:      opts.Height,
		Samples:     opts.Samples,
		Tasks:       opts.Tasks,
		Progressive: opts.Progressive,
	}, file, metrics)
	if err != nil {
		return nil, "", err
	}

	pool := job.NewWorkerPool(coordinator, runner, opts.Workers, opts.Seed, metrics)
	logger.Noticef("rendering %s at %dx%d with the %s sampler on %d workers",
		opts.Scene, opts.Width, opts.Height, opts.Sampler, pool.NumWorkers())

	stats, err := pool.Run(ctx)
	if err != nil {
		return stats, "", err
	}

	if _, err := coordinator.Finish(); err != nil {
		return stats, "", err
	}
	return stats, out, nil
}

func newRunner(opts RenderOptions, sc path.Scene) (job.TaskRunner, error) {
	strategy, err := newStrategy(opts)
	if err != nil {
		return nil, err
	}
	colorModel, err := newColorModel(opts.Color)
	if err != nil {
		return nil, err
	}

	switch opts.Sampler {
	case "metropolis":
		config := integrator.DefaultMetropolisConfig()
		config.InitialMutations = opts.InitialMutations
		config.BootstrapSamples = opts.Bootstrap
		m, err := integrator.NewMetropolis(sc, strategy, colorModel, config)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "direct":
		return integrator.NewDirect(sc, strategy, colorModel), nil
	default:
		return nil, fmt.Errorf("unknown sampler %q", opts.Sampler)
	}
}

func newStrategy(opts RenderOptions) (integrator.Strategy, error) {
	switch opts.Strategy {
	case "mis":
		var heuristic integrator.Heuristic
		switch opts.Heuristic {
		case "balance":
			heuristic = integrator.BalanceHeuristic
		case "power":
			h, err := integrator.PowerHeuristic(opts.Exponent)
			if err != nil {
				return nil, err
			}
			heuristic = h
		default:
			return nil, fmt.Errorf("unknown heuristic %q", opts.Heuristic)
		}
		s, err := integrator.NewMISStrategy(opts.MaxLightDepth, opts.MaxEyeDepth, heuristic)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "single":
		s, err := integrator.NewSingleContributionStrategy(opts.LightDepth, opts.EyeDepth)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", opts.Strategy)
	}
}

func newColorModel(name string) (path.ColorModel, error) {
	switch name {
	case "rgb":
		return path.RGB{}, nil
	case "single":
		return path.SingleChannel{}, nil
	default:
		return nil, fmt.Errorf("unknown color model %q", name)
	}
}
