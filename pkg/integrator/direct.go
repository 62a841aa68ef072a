package integrator

import (
	"context"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/job"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
)

// Direct renders tasks with plain bidirectional path tracing: every sample
// builds a fresh path and records all of its contributions at weight 1
type Direct struct {
	generator
	lightImageWeight float64
}

// NewDirect creates a direct task runner for scene
func NewDirect(scene path.Scene, strategy Strategy, colorModel path.ColorModel) *Direct {
	return &Direct{
		generator: generator{
			scene:      scene,
			strategy:   strategy,
			joiner:     NewJoiner(strategy),
			colorModel: colorModel,
		},
		lightImageWeight: 1,
	}
}

// Sample builds one path through image point p and returns its contributions
func (d *Direct) Sample(p core.Vec2, src random.Source) ContributionList {
	var contributions ContributionList

	info := path.NewInfo(d.scene, d.colorModel.Sample(src))
	eyeTail := d.strategy.TraceEyePath(d.scene.Lens(), p, info, src)
	lightTail := d.strategy.TraceLightPath(d.scene.Light(), info, src)

	score := d.joiner.Join(lightTail, eyeTail, d.lightImageWeight, &contributions)
	if !score.IsZero() {
		contributions.Add(Contribution{Point: p, Color: score})
	}
	return contributions
}

func (d *Direct) Run(ctx context.Context, tc *job.TaskContext) error {
	for i := 0; i < tc.Task.Samples; i++ {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p := core.NewVec2(random.Canonical2(tc.Source))
		d.Sample(p, tc.Source).Record(tc.Raster, 1)
	}
	tc.Log.Debugf("%d samples", tc.Task.Samples)
	return nil
}
