package job

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// sampleRunner adds one draw per sample to the pixel picked by the draw
var sampleRunner = TaskRunnerFunc(func(ctx context.Context, tc *TaskContext) error {
	if tc.Log == nil {
		return errors.New("task context has no logger")
	}
	tc.Log.Debugf("%d samples", tc.Task.Samples)
	for i := 0; i < tc.Task.Samples; i++ {
		u := tc.Source.Next()
		x := int(u * float64(tc.Raster.Width))
		tc.Raster.Add(x, 0, core.NewVec3(u, u, u))
		tc.Stat.Record("new-path", u < 0.5)
	}
	return nil
})

func TestWorkerPool_Run(t *testing.T) {
	config := Config{Width: 4, Height: 1, Samples: 1000, Tasks: 10}
	metrics := NewMetrics(prometheus.NewRegistry())
	c, err := NewCoordinator(config, nil, metrics)
	if err != nil {
		t.Fatalf("Failed to create coordinator: %v", err)
	}

	pool := NewWorkerPool(c, sampleRunner, 3, 1, metrics)
	if pool.NumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.NumWorkers())
	}

	stats, err := pool.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(stats) != config.Tasks {
		t.Errorf("Expected %d task stats, got %d", config.Tasks, len(stats))
	}
	if !c.Complete() {
		t.Error("Expected every task to be submitted")
	}

	proposals := 0
	for _, stat := range stats {
		proposals += stat.Accepted["new-path"] + stat.Rejected["new-path"]
	}
	if proposals != config.Samples {
		t.Errorf("Expected %d proposals, got %d", config.Samples, proposals)
	}
	if got := testutil.ToFloat64(metrics.SamplesSubmitted); got != float64(config.Samples) {
		t.Errorf("Expected %d samples submitted, got %f", config.Samples, got)
	}

	if _, err := c.Finish(); err != nil {
		t.Errorf("Unexpected error finishing: %v", err)
	}
}

func TestWorkerPool_SeededRunsMatch(t *testing.T) {
	config := Config{Width: 4, Height: 1, Samples: 400, Tasks: 8}

	render := func(workers int) []float64 {
		c, err := NewCoordinator(config, nil, nil)
		if err != nil {
			t.Fatalf("Failed to create coordinator: %v", err)
		}
		if _, err := NewWorkerPool(c, sampleRunner, workers, 99, nil).Run(context.Background()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		result, err := c.Finish()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		var pixels []float64
		for x := 0; x < config.Width; x++ {
			pixels = append(pixels, result.At(x, 0).X)
		}
		return pixels
	}

	one := render(1)
	four := render(4)
	for i := range one {
		if math.Abs(one[i]-four[i]) > 1e-9 {
			t.Errorf("Expected pixel %d to match across worker counts, got %f and %f", i, one[i], four[i])
		}
	}
}

func TestWorkerPool_PanicFailsTask(t *testing.T) {
	config := Config{Width: 1, Height: 1, Samples: 4, Tasks: 4}
	metrics := NewMetrics(prometheus.NewRegistry())
	c, err := NewCoordinator(config, nil, metrics)
	if err != nil {
		t.Fatalf("Failed to create coordinator: %v", err)
	}

	runner := TaskRunnerFunc(func(ctx context.Context, tc *TaskContext) error {
		if tc.Task.ID == 2 {
			panic("bad sample")
		}
		return nil
	})

	_, err = NewWorkerPool(c, runner, 2, 1, metrics).Run(context.Background())
	if !errors.Is(err, ErrTaskFailed) {
		t.Fatalf("Expected ErrTaskFailed, got %v", err)
	}
	if c.Complete() {
		t.Error("Expected the job to be incomplete")
	}
	if got := testutil.ToFloat64(metrics.TasksFailed); got != 1 {
		t.Errorf("Expected one failed task, got %f", got)
	}
}

func TestWorkerPool_RunnerError(t *testing.T) {
	c, err := NewCoordinator(Config{Width: 1, Height: 1, Samples: 2, Tasks: 2}, nil, nil)
	if err != nil {
		t.Fatalf("Failed to create coordinator: %v", err)
	}

	boom := errors.New("boom")
	runner := TaskRunnerFunc(func(ctx context.Context, tc *TaskContext) error {
		return boom
	})

	if _, err := NewWorkerPool(c, runner, 1, 1, nil).Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected runner error, got %v", err)
	}
}

func TestWorkerPool_CancelRequeuesTasks(t *testing.T) {
	config := Config{Width: 1, Height: 1, Samples: 6, Tasks: 6}
	metrics := NewMetrics(prometheus.NewRegistry())
	c, err := NewCoordinator(config, nil, metrics)
	if err != nil {
		t.Fatalf("Failed to create coordinator: %v", err)
	}

	started := make(chan struct{})
	var once sync.Once
	blocking := TaskRunnerFunc(func(ctx context.Context, tc *TaskContext) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = NewWorkerPool(c, blocking, 2, 1, metrics).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if done, _ := c.Progress(); done != 0 {
		t.Errorf("Expected no submitted tasks, got %d", done)
	}
	if got := testutil.ToFloat64(metrics.TasksRequeued); got < 1 {
		t.Errorf("Expected cancelled tasks to be requeued, got %f", got)
	}

	// A later run picks the requeued tasks up again
	stats, err := NewWorkerPool(c, sampleRunner, 2, 1, metrics).Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error resuming: %v", err)
	}
	if len(stats) != config.Tasks || !c.Complete() {
		t.Errorf("Expected all %d tasks to complete on resume, got %d", config.Tasks, len(stats))
	}
}
