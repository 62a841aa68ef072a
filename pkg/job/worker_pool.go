package job

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// TaskResult is what a worker hands back after running a task
type TaskResult struct {
	Task   Task
	Raster *raster.Raster
	Stat   *TaskStat
	Err    error
}

// WorkerPool runs a job's tasks in parallel until the coordinator has none left
type WorkerPool struct {
	coordinator *Coordinator
	runner      TaskRunner
	metrics     *Metrics
	logger      log.Logger
	seed        int64

	taskQueue   chan Task
	resultQueue chan TaskResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker runs tasks on its own raster and random source
type Worker struct {
	ID          int
	pool        *WorkerPool
	taskQueue   chan Task
	resultQueue chan TaskResult
}

// NewWorkerPool creates a pool with numWorkers workers; 0 uses every CPU.
// Each task gets a random source derived from seed and the task id, so a
// seeded job renders the same image regardless of scheduling.
func NewWorkerPool(coordinator *Coordinator, runner TaskRunner, numWorkers int, seed int64, metrics *Metrics) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		coordinator: coordinator,
		runner:      runner,
		metrics:     metrics,
		logger:      log.NewWithPrefix("job", coordinator.ID.String()[:8]),
		seed:        seed,
		taskQueue:   make(chan Task),
		resultQueue: make(chan TaskResult, numWorkers),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			pool:        wp,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run issues every task, merges results as they arrive and returns the
// per-task statistics. The first task error cancels the remaining work.
// Cancelled tasks are requeued on the coordinator and ctx.Err() is returned.
func (wp *WorkerPool) Run(ctx context.Context) ([]*TaskStat, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}

	go wp.dispatch(ctx)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()

	var (
		stats    []*TaskStat
		firstErr error
	)
	for result := range wp.resultQueue {
		switch {
		case result.Err == nil:
			if err := wp.coordinator.Submit(result.Task, result.Raster); err != nil && firstErr == nil {
				firstErr = err
				cancel()
			}
			wp.metrics.ObserveTask(result.Stat)
			stats = append(stats, result.Stat)
			done, total := wp.coordinator.Progress()
			wp.logger.Infof("task %d done in %v on worker %d (%d/%d)", result.Task.ID, result.Stat.Duration, result.Stat.Worker, done, total)

		case errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded):
			if err := wp.coordinator.Requeue(result.Task); err != nil {
				wp.logger.Warningf("requeue task %d: %v", result.Task.ID, err)
			}

		default:
			if wp.metrics != nil {
				wp.metrics.TasksFailed.Inc()
			}
			wp.logger.Errorf("task %d failed: %v", result.Task.ID, result.Err)
			if firstErr == nil {
				firstErr = result.Err
				cancel()
			}
		}
	}

	if firstErr != nil {
		return stats, firstErr
	}
	if !wp.coordinator.Complete() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		return stats, ErrIncomplete
	}
	return stats, nil
}

// dispatch feeds tasks from the coordinator to idle workers
func (wp *WorkerPool) dispatch(ctx context.Context) {
	defer close(wp.taskQueue)
	for ctx.Err() == nil {
		task, ok := wp.coordinator.NextTask()
		if !ok {
			return
		}
		select {
		case wp.taskQueue <- task:
		case <-ctx.Done():
			_ = wp.coordinator.Requeue(task)
			return
		}
	}
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.runTask(ctx, task)
	}
}

// runTask executes one task on fresh per-task state, turning panics into errors
func (w *Worker) runTask(ctx context.Context, task Task) (result TaskResult) {
	config := w.pool.coordinator.Config()
	tc := &TaskContext{
		Task:   task,
		Raster: raster.New(config.Width, config.Height),
		Source: random.NewSource(w.pool.seed + int64(task.ID)*7919),
		Stat:   NewTaskStat(task, w.ID),
		Log:    log.NewWithPrefix("job", fmt.Sprintf("%s task %d", w.pool.coordinator.ID.String()[:8], task.ID)),
	}

	result = TaskResult{Task: task, Stat: tc.Stat}
	start := time.Now()
	defer func() {
		tc.Stat.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("%w: task %d: %v", ErrTaskFailed, task.ID, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	if err := w.pool.runner.Run(ctx, tc); err != nil {
		result.Err = err
		return result
	}
	result.Raster = tc.Raster
	return result
}
