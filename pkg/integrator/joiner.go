package integrator

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// Contribution is a colour that lands on a specific image point
type Contribution struct {
	Point core.Vec2
	Color core.Vec3
}

// Sink receives contributions that reproject onto the image
type Sink interface {
	Add(c Contribution)
}

// ContributionList collects the contributions of one path
type ContributionList []Contribution

func (l *ContributionList) Add(c Contribution) {
	*l = append(*l, c)
}

// Luminance sums the luminance of every contribution
func (l ContributionList) Luminance() float64 {
	sum := 0.0
	for _, c := range l {
		sum += c.Color.Luminance()
	}
	return sum
}

// Record adds every contribution, scaled by weight, into r
func (l ContributionList) Record(r *raster.Raster, weight float64) {
	for _, c := range l {
		r.AddPoint(c.Point, c.Color.Multiply(weight))
	}
}

// Joiner scores every way of connecting a light sub-path to an eye sub-path
type Joiner struct {
	Strategy Strategy
	Measure  path.Measure
}

// NewJoiner creates a joiner using the bidirectional path measure
func NewJoiner(strategy Strategy) *Joiner {
	return &Joiner{Strategy: strategy, Measure: path.BidiMeasure{}}
}

// Join enumerates every pair of nodes from the two sub-paths, including the
// empty prefix of each, and returns the summed estimate for the image point
// the eye path was traced through. Joins to the lens itself land elsewhere on
// the image and go to sink, scaled by lightImageWeight.
func (j *Joiner) Join(lightTail, eyeTail *path.Node, lightImageWeight float64, sink Sink) core.Vec3 {
	var score core.Vec3

	// nil stands for the empty prefix
	lightNodes := append(path.Chain(lightTail), nil)
	eyeNodes := append(path.Chain(eyeTail), nil)

	for _, lightNode := range lightNodes {
		for _, eyeNode := range eyeNodes {
			score = score.Add(j.joinAt(lightNode, eyeNode, lightImageWeight, sink))
		}
	}

	return score
}

func (j *Joiner) joinAt(lightNode, eyeNode *path.Node, lightImageWeight float64, sink Sink) core.Vec3 {
	l, e := -1, -1
	if lightNode != nil {
		l = lightNode.Depth()
	}
	if eyeNode != nil {
		e = eyeNode.Depth()
	}

	switch {
	case e == 0 && l == 0:
		return j.joinInnerToEye(lightNode, eyeNode, lightImageWeight, sink)
	case e <= 0 && l <= 0:
		return core.Vec3{}
	case e < 0:
		// The aperture is not part of the scene, so light paths never land on it
		return core.Vec3{}
	case l < 0:
		return j.eyePathOnLight(eyeNode)
	case e == 0:
		return j.joinInnerToEye(lightNode, eyeNode, lightImageWeight, sink)
	default:
		// Emitter roots join like any other light vertex
		return j.joinInnerToInner(lightNode, eyeNode)
	}
}

func (j *Joiner) joinInnerToInner(lightNode, eyeNode *path.Node) core.Vec3 {
	w := j.Strategy.Weight(lightNode, eyeNode)
	if w <= 0 {
		return core.Vec3{}
	}
	return j.Measure.Evaluate(lightNode, eyeNode).Multiply(w)
}

func (j *Joiner) joinInnerToEye(lightNode, eyeNode *path.Node, weight float64, sink Sink) core.Vec3 {
	w := j.Strategy.Weight(lightNode, eyeNode)
	if w <= 0 {
		return core.Vec3{}
	}
	p, ok := eyeNode.Project(lightNode.Position())
	if !ok {
		return core.Vec3{}
	}
	c := j.Measure.Evaluate(lightNode, eyeNode)
	if !c.IsZero() {
		sink.Add(Contribution{Point: p, Color: c.Multiply(weight * w)})
	}
	return core.Vec3{}
}

func (j *Joiner) eyePathOnLight(eyeNode *path.Node) core.Vec3 {
	if !eyeNode.IsOnLightSource() {
		return core.Vec3{}
	}
	w := j.Strategy.Weight(nil, eyeNode)
	if w <= 0 {
		return core.Vec3{}
	}
	return j.Measure.Evaluate(nil, eyeNode).Multiply(w)
}
