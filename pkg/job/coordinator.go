package job

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/df07/go-metropolis-raytracer/pkg/display"
	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// Coordinator splits a sample budget into tasks and merges the rasters they
// return. One coordinator serves one job; every method is safe for
// concurrent use.
type Coordinator struct {
	ID uuid.UUID

	config  Config
	display display.Display
	metrics *Metrics
	logger  log.Logger

	minPerTask int
	extra      int

	mu               sync.Mutex
	issued           int
	pending          []Task
	outstanding      map[int]Task
	submitted        int
	samplesSubmitted int
	accumulator      *raster.Raster

	// Serialises display updates, which happen outside mu. Always taken
	// after mu, never before it.
	displayMu sync.Mutex
}

// NewCoordinator validates config and prepares an empty accumulator. The
// display and metrics may be nil.
func NewCoordinator(config Config, d display.Display, metrics *Metrics) (*Coordinator, error) {
	return NewCoordinatorWithID(uuid.New(), config, d, metrics)
}

// NewCoordinatorWithID is NewCoordinator for a job whose identifier was chosen up front
func NewCoordinatorWithID(id uuid.UUID, config Config, d display.Display, metrics *Metrics) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		ID:          id,
		config:      config,
		display:     d,
		metrics:     metrics,
		logger:      log.NewWithPrefix("job", id.String()[:8]),
		minPerTask:  config.Samples / config.Tasks,
		outstanding: make(map[int]Task),
		accumulator: raster.New(config.Width, config.Height),
	}
	c.extra = config.Samples - c.minPerTask*config.Tasks

	if config.Progressive && d != nil {
		if err := d.Initialize(config.Width, config.Height); err != nil {
			return nil, fmt.Errorf("initializing display: %w", err)
		}
	}

	c.logger.Infof("%d samples over %d tasks (%d per task, %d with one extra)",
		config.Samples, config.Tasks, c.minPerTask, c.extra)
	return c, nil
}

func (c *Coordinator) Config() Config {
	return c.config
}

// NextTask hands out the next task. Requeued tasks are reissued first.
// Returns false once every task has been issued.
func (c *Coordinator) NextTask() (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var task Task
	switch {
	case len(c.pending) > 0:
		task = c.pending[0]
		c.pending = c.pending[1:]
	case c.issued < c.config.Tasks:
		samples := c.minPerTask
		if c.issued < c.extra {
			samples++
		}
		task = Task{ID: c.issued, Samples: samples}
		c.issued++
	default:
		return Task{}, false
	}

	c.outstanding[task.ID] = task
	if c.metrics != nil {
		c.metrics.TasksIssued.Inc()
	}
	return task, true
}

// Requeue returns an unfinished task so it will be issued again
func (c *Coordinator) Requeue(task Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.outstanding[task.ID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, task.ID)
	}
	delete(c.outstanding, task.ID)
	c.pending = append(c.pending, task)

	if c.metrics != nil {
		c.metrics.TasksRequeued.Inc()
	}
	c.logger.Debugf("task %d requeued", task.ID)
	return nil
}

// Submit merges the partial raster of a finished task and takes ownership of it.
// In progressive mode the partial raster is normalised by its own sample
// count and blended with weight task samples / samples submitted so far, so
// the accumulator is always a normalised running average.
func (c *Coordinator) Submit(task Task, partial *raster.Raster) error {
	if !c.accumulator.SameSize(partial) {
		return ErrRasterSize
	}

	var snapshot *raster.Raster

	c.mu.Lock()
	if _, ok := c.outstanding[task.ID]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownTask, task.ID)
	}
	delete(c.outstanding, task.ID)

	c.samplesSubmitted += task.Samples
	if c.config.Progressive {
		partial.Scale(float64(c.config.Width*c.config.Height) / float64(task.Samples))
		alpha := float64(task.Samples) / float64(c.samplesSubmitted)
		c.accumulator.Blend(partial, alpha)
		if c.display != nil {
			snapshot = c.accumulator.Clone()
		}
	} else {
		c.accumulator.Merge(partial)
	}
	c.submitted++
	submitted := c.submitted
	if snapshot != nil {
		// Held across the unlock so snapshots reach the display in merge order
		c.displayMu.Lock()
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.TasksSubmitted.Inc()
		c.metrics.SamplesSubmitted.Add(float64(task.Samples))
	}
	c.logger.Debugf("task %d submitted (%d/%d)", task.ID, submitted, c.config.Tasks)

	if snapshot != nil {
		defer c.displayMu.Unlock()
		if err := c.display.SetPixels(0, 0, snapshot); err != nil {
			c.logger.Warningf("display update failed: %v", err)
		}
	}
	return nil
}

// Complete reports whether every task has been submitted
func (c *Coordinator) Complete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted == c.config.Tasks
}

// Progress returns the number of submitted tasks and the total
func (c *Coordinator) Progress() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted, c.config.Tasks
}

// Finish produces the final image and hands it to the display. In additive
// mode every pixel is divided by the samples per pixel.
func (c *Coordinator) Finish() (*raster.Raster, error) {
	c.mu.Lock()
	if c.submitted != c.config.Tasks {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d of %d", ErrIncomplete, c.submitted, c.config.Tasks)
	}
	result := c.accumulator.Clone()
	c.mu.Unlock()

	if !c.config.Progressive {
		result.Scale(1.0 / c.config.SamplesPerPixel())
	}

	if c.display != nil {
		c.displayMu.Lock()
		defer c.displayMu.Unlock()
		if !c.config.Progressive {
			if err := c.display.Initialize(c.config.Width, c.config.Height); err != nil {
				return nil, fmt.Errorf("initializing display: %w", err)
			}
		}
		if err := c.display.SetPixels(0, 0, result); err != nil {
			return nil, fmt.Errorf("writing final image: %w", err)
		}
		if err := c.display.Finish(); err != nil {
			return nil, fmt.Errorf("finishing display: %w", err)
		}
	}

	c.logger.Noticef("job finished: %d samples over %d tasks", c.config.Samples, c.config.Tasks)
	return result, nil
}
