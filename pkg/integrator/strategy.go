package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
)

// Strategy builds sub-paths and weights each way of joining them
type Strategy interface {
	// TraceEyePath samples an eye sub-path through the image point. Returns nil
	// when eye paths are disabled.
	TraceEyePath(lens path.Lens, imagePoint core.Vec2, info *path.Info, src random.Source) *path.Node

	// TraceLightPath samples a light sub-path. Returns nil when light paths are disabled.
	TraceLightPath(light path.Light, info *path.Info, src random.Source) *path.Node

	// Weight returns the weight in [0,1] for the technique that joins exactly
	// these two nodes. Either node may be nil.
	Weight(lightNode, eyeNode *path.Node) float64
}

// Heuristic maps technique densities before they are normalised
type Heuristic func(x float64) float64

// BalanceHeuristic weights techniques in proportion to their densities
func BalanceHeuristic(x float64) float64 {
	return x
}

// PowerHeuristic raises densities to exp before normalising
func PowerHeuristic(exp float64) (Heuristic, error) {
	if exp <= 0 || math.IsNaN(exp) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExponent, exp)
	}
	if exp == 2 {
		return func(x float64) float64 { return x * x }, nil
	}
	return func(x float64) float64 { return math.Pow(x, exp) }, nil
}

// MISStrategy weights every (s,t) technique with multiple importance sampling
type MISStrategy struct {
	MaxLightDepth int
	MaxEyeDepth   int
	Heuristic     Heuristic
}

// NewMISStrategy creates a strategy; a nil heuristic selects the balance heuristic
func NewMISStrategy(maxLightDepth, maxEyeDepth int, heuristic Heuristic) (*MISStrategy, error) {
	if maxLightDepth < 0 || maxEyeDepth < 0 {
		return nil, fmt.Errorf("%w: light %d, eye %d", ErrInvalidDepth, maxLightDepth, maxEyeDepth)
	}
	if maxEyeDepth == 0 {
		return nil, fmt.Errorf("%w: eye paths are required", ErrInvalidDepth)
	}
	if heuristic == nil {
		heuristic = BalanceHeuristic
	}
	return &MISStrategy{MaxLightDepth: maxLightDepth, MaxEyeDepth: maxEyeDepth, Heuristic: heuristic}, nil
}

func (s *MISStrategy) TraceEyePath(lens path.Lens, imagePoint core.Vec2, info *path.Info, src random.Source) *path.Node {
	return traceEyePath(lens, imagePoint, info, src, s.MaxEyeDepth)
}

func (s *MISStrategy) TraceLightPath(light path.Light, info *path.Info, src random.Source) *path.Node {
	return traceLightPath(light, info, src, s.MaxLightDepth)
}

// Weight compares the density of the technique that produced the joined path
// against every other technique that could have produced the same vertices.
//
// The combined path is x_0 .. x_k with x_0 on the light. pdf[i] is the
// density of the technique using i light vertices, relative to pdf[s] = 1.
func (s *MISStrategy) Weight(lightNode, eyeNode *path.Node) float64 {
	ls := nodeCount(lightNode)
	t := nodeCount(eyeNode)
	k := ls + t - 1

	// The lens is never part of the scene, so techniques without eye vertices do not exist
	if k < 0 || eyeNode == nil {
		return 0
	}

	gle := 1.0
	if lightNode != nil {
		gle = path.GeometricFactor(lightNode, eyeNode)
	}

	pdf := make([]float64, k+2)
	pdf[ls] = 1

	// Longer light sub-paths, shorter eye sub-paths
	if ls < s.MaxLightDepth {
		if lightNode != nil {
			v := path.Direction(lightNode, eyeNode)
			pdf[ls+1] = pdf[ls] * ratio(lightNode.PDFToward(v)*gle, eyeNode)
		} else if eyeNode.Kind() == path.ScatteringKind {
			pdf[ls+1] = pdf[ls] * ratio(eyeNode.SourcePDF(), eyeNode)
		}
	}

	zjp2 := lightNode
	zjp1 := eyeNode
	for i := ls + 1; i <= k; i++ {
		if i+1 > s.MaxLightDepth {
			break
		}

		zj := zjp1.Parent()
		var rpdf float64
		if zjp2 != nil {
			rpdf = zjp1.ReversePDF(path.Direction(zjp1, zjp2))
		} else {
			rpdf = zjp1.SourcePDFToward(path.Direction(zjp1, zj))
		}
		pdf[i+1] = pdf[i] * ratio(rpdf*zjp1.GeometricFactor(), zj)

		zjp2 = zjp1
		zjp1 = zj
	}

	// Shorter light sub-paths, longer eye sub-paths
	if lightNode != nil {
		if t < s.MaxEyeDepth {
			v := path.Direction(eyeNode, lightNode)
			pdf[ls-1] = pdf[ls] * ratio(eyeNode.PDFToward(v)*gle, lightNode)
		}

		yip1 := eyeNode
		yi := lightNode
		for i := ls - 1; i > 0; i-- {
			if k+2-i > s.MaxEyeDepth {
				break
			}

			yim1 := yi.Parent()
			rpdf := yi.ReversePDF(path.Direction(yi, yip1))
			pdf[i-1] = pdf[i] * ratio(rpdf*yi.GeometricFactor(), yim1)

			yip1 = yi
			yi = yim1
		}
	}

	// A specular vertex cannot be joined through, so every technique whose
	// connecting edge ends at one has zero density
	j := ls
	for n := eyeNode; n != nil; n, j = n.Parent(), j+1 {
		if n.IsSpecular() {
			zeroTechniques(pdf, j, ls)
		}
	}
	j = ls - 1
	for n := lightNode; n != nil; n, j = n.Parent(), j-1 {
		if n.IsSpecular() {
			zeroTechniques(pdf, j, ls)
		}
	}

	total := 0.0
	for i := range pdf {
		pdf[i] = s.Heuristic(pdf[i])
		total += pdf[i]
	}

	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return pdf[ls] / total
}

// ratio divides a candidate area density by the area density the eye- or
// light-side node was actually generated with. Roots that the opposite
// sub-path cannot land on make the candidate technique impossible.
func ratio(numerator float64, generated *path.Node) float64 {
	if generated.Terminal() && !generated.Hittable() {
		return 0
	}
	denominator := generated.PDF() * generated.GeometricFactor()
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// zeroTechniques clears the techniques that connect at vertex j, leaving the
// technique that was actually used alone
func zeroTechniques(pdf []float64, j, used int) {
	for _, i := range []int{j, j + 1} {
		if i >= 0 && i < len(pdf) && i != used {
			pdf[i] = 0
		}
	}
}

// SingleContributionStrategy keeps exactly one (s,t) technique with weight 1
type SingleContributionStrategy struct {
	LightDepth int
	EyeDepth   int
}

// NewSingleContributionStrategy keeps the technique with lightDepth light
// vertices and eyeDepth eye vertices
func NewSingleContributionStrategy(lightDepth, eyeDepth int) (*SingleContributionStrategy, error) {
	if lightDepth < 0 || eyeDepth <= 0 {
		return nil, fmt.Errorf("%w: light %d, eye %d", ErrInvalidDepth, lightDepth, eyeDepth)
	}
	return &SingleContributionStrategy{LightDepth: lightDepth, EyeDepth: eyeDepth}, nil
}

func (s *SingleContributionStrategy) TraceEyePath(lens path.Lens, imagePoint core.Vec2, info *path.Info, src random.Source) *path.Node {
	return traceEyePath(lens, imagePoint, info, src, s.EyeDepth)
}

func (s *SingleContributionStrategy) TraceLightPath(light path.Light, info *path.Info, src random.Source) *path.Node {
	return traceLightPath(light, info, src, s.LightDepth)
}

func (s *SingleContributionStrategy) Weight(lightNode, eyeNode *path.Node) float64 {
	if nodeCount(lightNode) == s.LightDepth && nodeCount(eyeNode) == s.EyeDepth {
		return 1
	}
	return 0
}

// nodeCount is the number of vertices from node back to its root
func nodeCount(node *path.Node) int {
	if node == nil {
		return 0
	}
	return node.Depth() + 1
}

func traceEyePath(lens path.Lens, imagePoint core.Vec2, info *path.Info, src random.Source, maxDepth int) *path.Node {
	if maxDepth <= 0 {
		return nil
	}
	head := lens.Sample(imagePoint, info, src.Next(), src.Next(), src.Next())
	return expand(head, maxDepth-1, src)
}

func traceLightPath(light path.Light, info *path.Info, src random.Source, maxDepth int) *path.Node {
	if maxDepth <= 0 {
		return nil
	}
	head := light.Sample(info, src.Next(), src.Next(), src.Next())
	return expand(head, maxDepth-1, src)
}

// expand extends node up to depth times and returns the last vertex reached
func expand(node *path.Node, depth int, src random.Source) *path.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < depth; i++ {
		next := node.Expand(src)
		if next == nil {
			break
		}
		node = next
	}
	return node
}
