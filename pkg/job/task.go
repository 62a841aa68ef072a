package job

import (
	"context"
	"time"

	"github.com/df07/go-metropolis-raytracer/pkg/log"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// Task is one unit of work: a sample budget for a single worker
type Task struct {
	ID      int
	Samples int
}

// TaskContext carries everything a runner owns for the duration of one task.
// Nothing in it is shared with other workers.
type TaskContext struct {
	Task   Task
	Raster *raster.Raster
	Source random.Source
	Stat   *TaskStat
	Log    log.Logger // prefixed with the job and task
}

// TaskRunner fills the task raster. Returning an error abandons the raster.
type TaskRunner interface {
	Run(ctx context.Context, tc *TaskContext) error
}

// TaskRunnerFunc adapts a function to TaskRunner
type TaskRunnerFunc func(ctx context.Context, tc *TaskContext) error

func (f TaskRunnerFunc) Run(ctx context.Context, tc *TaskContext) error {
	return f(ctx, tc)
}

// TaskStat records how one task went
type TaskStat struct {
	Task     Task
	Worker   int
	Duration time.Duration

	// Proposals accepted and rejected, keyed by mutation kind
	Accepted map[string]int
	Rejected map[string]int
}

// NewTaskStat creates an empty record for task
func NewTaskStat(task Task, worker int) *TaskStat {
	return &TaskStat{
		Task:     task,
		Worker:   worker,
		Accepted: make(map[string]int),
		Rejected: make(map[string]int),
	}
}

// Record counts one proposal of the given kind
func (s *TaskStat) Record(kind string, accepted bool) {
	if accepted {
		s.Accepted[kind]++
	} else {
		s.Rejected[kind]++
	}
}

// AcceptanceRatio is the fraction of proposals accepted; 0 with no proposals
func (s *TaskStat) AcceptanceRatio() float64 {
	accepted, total := 0, 0
	for _, n := range s.Accepted {
		accepted += n
		total += n
	}
	for _, n := range s.Rejected {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(accepted) / float64(total)
}
