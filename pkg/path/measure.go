package path

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Measure evaluates the unweighted contribution of joining a light node to an
// eye node. Either may be nil when that sub-path contributes no vertices.
type Measure interface {
	Evaluate(lightNode, eyeNode *Node) core.Vec3
}

// BidiMeasure is the standard bidirectional path measure: sub-path
// throughputs, the scattering at both join vertices and the geometric factor
// of the connecting edge, gated on visibility.
type BidiMeasure struct{}

func (BidiMeasure) Evaluate(lightNode, eyeNode *Node) core.Vec3 {
	if eyeNode == nil {
		return core.Vec3{}
	}

	var c core.Vec3
	if lightNode == nil {
		if !eyeNode.IsOnLightSource() {
			return core.Vec3{}
		}
		c = eyeNode.Weight().MultiplyVec(eyeNode.SourceRadiance())
	} else {
		if !connectable(lightNode, eyeNode) {
			return core.Vec3{}
		}
		g := GeometricFactor(lightNode, eyeNode)
		if g == 0 {
			return core.Vec3{}
		}

		v := Direction(lightNode, eyeNode)
		fl := lightNode.Scatter(v)
		if fl.IsZero() {
			return core.Vec3{}
		}
		fe := eyeNode.Scatter(v.Negate())
		if fe.IsZero() {
			return core.Vec3{}
		}

		c = lightNode.Weight().MultiplyVec(fl).MultiplyVec(fe).MultiplyVec(eyeNode.Weight()).Multiply(g)
	}

	return c.MultiplyVec(eyeNode.Info().Sample)
}

// connectable checks the edge between two join vertices for occlusion
func connectable(a, b *Node) bool {
	if a.AtInfinity() && b.AtInfinity() {
		return false
	}
	scene := a.Info().Scene
	switch {
	case a.AtInfinity():
		_, radius := scene.BoundingSphere()
		return scene.Visible(b.Position(), b.Position().Add(a.Position().Normalize().Multiply(2*radius)))
	case b.AtInfinity():
		_, radius := scene.BoundingSphere()
		return scene.Visible(a.Position(), a.Position().Add(b.Position().Normalize().Multiply(2*radius)))
	default:
		return scene.Visible(a.Position(), b.Position())
	}
}
