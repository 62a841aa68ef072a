package integrator

import (
	"context"
	"fmt"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/job"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// MutationKind selects how a Metropolis proposal is derived from the current path
type MutationKind int

const (
	NewPath    MutationKind = iota // regenerate from fresh draws
	ImagePoint                     // perturb the image point, keep the light sub-path
	AllDraws                       // perturb every draw
)

func (k MutationKind) String() string {
	switch k {
	case NewPath:
		return "new-path"
	case ImagePoint:
		return "image-point"
	case AllDraws:
		return "all"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// cancellation is checked once per this many steps
const checkInterval = 1024

// MetropolisConfig controls the Markov chain
type MetropolisConfig struct {
	InitialMutations int        // warm-up steps discarded from the image
	MutationWidth    float64    // perturbation width for mutated draws
	MutationWeights  [3]float64 // relative odds of NewPath, ImagePoint, AllDraws
	LightImageWeight float64    // scale for contributions joined directly to the lens

	// Fresh paths averaged per task to estimate the mean importance b. The
	// chain's image is proportional to the true image divided by b; a positive
	// count rescales each task's raster by the estimate. 0 leaves it unscaled.
	BootstrapSamples int
}

// DefaultMetropolisConfig returns the standard Kelemen settings
func DefaultMetropolisConfig() MetropolisConfig {
	return MetropolisConfig{
		InitialMutations: 1000,
		MutationWidth:    0.22,
		MutationWeights:  [3]float64{40, 0, 60},
		LightImageWeight: 1,
	}
}

func (c MetropolisConfig) Validate() error {
	if c.InitialMutations < 0 {
		return fmt.Errorf("%w: initial mutations %d", ErrInvalidConfig, c.InitialMutations)
	}
	if c.MutationWidth <= 0 || c.MutationWidth > 1 {
		return fmt.Errorf("%w: mutation width %v", ErrInvalidConfig, c.MutationWidth)
	}
	if c.BootstrapSamples < 0 {
		return fmt.Errorf("%w: bootstrap samples %d", ErrInvalidConfig, c.BootstrapSamples)
	}
	if c.LightImageWeight < 0 {
		return fmt.Errorf("%w: light image weight %v", ErrInvalidConfig, c.LightImageWeight)
	}
	if _, err := random.NewCategorical(c.MutationWeights[:]...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// generator builds complete paths from a sequence of draws
type generator struct {
	scene      path.Scene
	strategy   Strategy
	joiner     *Joiner
	colorModel path.ColorModel
}

// Metropolis renders tasks with Kelemen-style Metropolis light transport over
// the stream of random draws that builds each path
type Metropolis struct {
	generator
	config    MetropolisConfig
	mutations *random.Categorical
}

// NewMetropolis creates a task runner for scene
func NewMetropolis(scene path.Scene, strategy Strategy, colorModel path.ColorModel, config MetropolisConfig) (*Metropolis, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	mutations, _ := random.NewCategorical(config.MutationWeights[:]...)
	return &Metropolis{
		generator: generator{
			scene:      scene,
			strategy:   strategy,
			joiner:     NewJoiner(strategy),
			colorModel: colorModel,
		},
		config:    config,
		mutations: mutations,
	}, nil
}

// Run advances a fresh chain for the warm-up and then records exactly
// Samples steps, matching the per-pixel normalisation the coordinator applies
func (m *Metropolis) Run(ctx context.Context, tc *job.TaskContext) error {
	sampler := NewMetropolisSampler(m, tc.Source, tc.Raster, tc.Stat)

	b := 1.0
	if m.config.BootstrapSamples > 0 {
		var err error
		if b, err = sampler.Normalization(ctx, m.config.BootstrapSamples); err != nil {
			return err
		}
		if b == 0 {
			tc.Log.Warning("no bootstrap path carried light")
		}
	}

	steps := tc.Task.Samples + m.config.InitialMutations
	for i := 0; i < steps; i++ {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				tc.Log.Debugf("cancelled at step %d", i)
				return err
			}
		}
		sampler.Step(i)
	}
	if m.config.BootstrapSamples > 0 {
		tc.Raster.Scale(b)
	}

	if tc.Stat != nil {
		tc.Log.Debugf("%d steps, acceptance %.3f", steps, tc.Stat.AcceptanceRatio())
	}
	return nil
}

// proposal is a candidate state of the chain
type proposal struct {
	kind          MutationKind
	seq           *random.Sequence
	path          path.Path
	contributions ContributionList
	importance    float64
}

// MetropolisSampler is the per-task state of one Markov chain. It is owned
// by a single worker and never shared.
type MetropolisSampler struct {
	m      *Metropolis
	src    random.Source
	raster *raster.Raster
	stat   *job.TaskStat

	seq     *random.Sequence // draws of the current path
	current *proposal
}

// NewMetropolisSampler starts a chain in the no-current-path state. stat may be nil.
func NewMetropolisSampler(m *Metropolis, src random.Source, r *raster.Raster, stat *job.TaskStat) *MetropolisSampler {
	return &MetropolisSampler{
		m:      m,
		src:    src,
		raster: r,
		stat:   stat,
		seq:    random.NewSequence(src.Compatible()),
	}
}

// Importance is the saturated luminance sum of a path's contributions
func Importance(contributions ContributionList) float64 {
	x := contributions.Luminance()
	return x / (1 + x)
}

// Accept decides whether the proposal replaces the current state. When fy is
// at least fx it accepts without consuming a draw; otherwise it consumes one.
func Accept(fx, fy float64, src random.Source) (bool, float64) {
	if fy >= fx {
		return true, 1
	}
	a := fy / fx
	return random.Bernoulli(a, src), a
}

// Step proposes, scores, records and accepts or rejects one transition.
// Steps below the warm-up count are not recorded.
func (s *MetropolisSampler) Step(i int) bool {
	var y *proposal
	if s.current == nil {
		y = s.generateNewPath()
	} else {
		y = s.mutate()
	}

	s.score(y)

	var x ContributionList
	fx := 0.0
	if s.current != nil {
		x = s.current.contributions
		fx = s.current.importance
	}
	fy := y.importance

	accept, a := Accept(fx, fy, s.src)
	if i >= s.m.config.InitialMutations {
		recordTransition(s.raster, x, y.contributions, fx, fy, a)
	}

	if s.stat != nil {
		s.stat.Record(y.kind.String(), accept)
	}

	if accept {
		s.seq = y.seq
		s.current = y
	}
	return accept
}

// recordTransition adds the expected value of one step from x to y, with a
// the probability of accepting y. Uphill steps record y alone at 1/fy.
// Downhill steps record y at a/fy and x at (1-a)/fx whatever the draw.
func recordTransition(r *raster.Raster, x, y ContributionList, fx, fy, a float64) {
	if fy >= fx {
		if fy > 0 {
			y.Record(r, 1/fy)
		}
		return
	}
	// 1/fx rather than a/fy; equal, and stabler since fx > fy
	if fy > 0 {
		y.Record(r, 1/fx)
	}
	x.Record(r, (1-a)/fx)
}

// Normalization averages the importance of n independent fresh paths. It
// leaves the chain state untouched.
func (s *MetropolisSampler) Normalization(ctx context.Context, n int) (float64, error) {
	sum := 0.0
	for i := 0; i < n; i++ {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		y := s.generateNewPath()
		s.score(y)
		sum += y.importance
	}
	return sum / float64(n), nil
}

// score joins the proposal's sub-paths and sets its contributions and importance
func (s *MetropolisSampler) score(y *proposal) {
	score := s.m.joiner.Join(y.path.LightTail, y.path.EyeTail, s.m.config.LightImageWeight, &y.contributions)
	if !score.IsZero() {
		y.contributions.Add(Contribution{Point: y.path.ImagePoint, Color: score})
	}
	y.importance = Importance(y.contributions)
}

// Current returns the accepted path and its importance
func (s *MetropolisSampler) Current() (path.Path, float64, bool) {
	if s.current == nil {
		return path.Path{}, 0, false
	}
	return s.current.path, s.current.importance, true
}

func (s *MetropolisSampler) mutate() *proposal {
	switch kind := MutationKind(s.m.mutations.Sample(s.src)); kind {
	case NewPath:
		return s.generateNewPath()
	case ImagePoint:
		return s.mutateImagePoint(s.m.config.MutationWidth)
	case AllDraws:
		return s.mutateAll(s.m.config.MutationWidth)
	default:
		panic(fmt.Sprintf("integrator: unknown mutation kind %v", kind))
	}
}

func (s *MetropolisSampler) generateNewPath() *proposal {
	seq := s.seq.Fresh()

	p := core.NewVec2(random.Canonical2(seq))
	seq.Mark()

	info := path.NewInfo(s.m.scene, s.m.colorModel.Sample(seq))
	seq.Mark()

	eyeTail := s.m.strategy.TraceEyePath(s.m.scene.Lens(), p, info, seq)
	seq.Mark()

	lightTail := s.m.strategy.TraceLightPath(s.m.scene.Light(), info, seq)
	seq.Mark()

	return &proposal{
		kind: NewPath,
		seq:  seq,
		path: path.Path{LightTail: lightTail, EyeTail: eyeTail, ImagePoint: p},
	}
}

func (s *MetropolisSampler) mutateImagePoint(width float64) *proposal {
	seq := s.seq.Clone()
	seq.Reset()

	seq.Mutate(width)
	p := core.NewVec2(random.Canonical2(seq))
	seq.Mark()

	info := path.NewInfo(s.m.scene, s.m.colorModel.Sample(seq))
	seq.Mark()

	eyeTail := s.m.strategy.TraceEyePath(s.m.scene.Lens(), p, info, seq)
	seq.Mark()

	lightTail := s.current.path.LightTail
	seq.Mark()

	return &proposal{
		kind: ImagePoint,
		seq:  seq,
		path: path.Path{LightTail: lightTail, EyeTail: eyeTail, ImagePoint: p},
	}
}

func (s *MetropolisSampler) mutateAll(width float64) *proposal {
	seq := s.seq.Clone()
	seq.Reset()

	seq.Mutate(width)
	p := core.NewVec2(random.Canonical2(seq))
	seq.Mark()

	seq.Mutate(width)
	info := path.NewInfo(s.m.scene, s.m.colorModel.Sample(seq))
	seq.Mark()

	seq.Mutate(width)
	eyeTail := s.m.strategy.TraceEyePath(s.m.scene.Lens(), p, info, seq)
	seq.Mark()

	seq.Mutate(width)
	lightTail := s.m.strategy.TraceLightPath(s.m.scene.Light(), info, seq)
	seq.Mark()

	return &proposal{
		kind: AllDraws,
		seq:  seq,
		path: path.Path{LightTail: lightTail, EyeTail: eyeTail, ImagePoint: p},
	}
}
