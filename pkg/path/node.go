package path

import (
	"fmt"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
)

// Kind discriminates the variants of Node
type Kind int

const (
	EyeKind Kind = iota
	LightKind
	ScatteringKind
)

func (k Kind) String() string {
	switch k {
	case EyeKind:
		return "eye"
	case LightKind:
		return "light"
	case ScatteringKind:
		return "scattering"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one vertex of a light or eye sub-path. Nodes are immutable once
// built and link to their parent only, so a sub-path is a singly linked list
// from its tail back to the root at depth 0. Whoever holds the tail owns the
// chain.
type Node struct {
	kind        Kind
	parent      *Node
	depth       int
	info        *Info
	onLightPath bool

	// Roots
	endpoint Endpoint

	// Scattering nodes
	hit *core.HitRecord
	wIn core.Vec3 // unit direction toward the parent

	pdf    float64   // density this node was generated with
	weight core.Vec3 // throughput of the sub-path up to this node
}

// NewEyeNode creates the root of an eye sub-path
func NewEyeNode(endpoint Endpoint, info *Info) *Node {
	return newRoot(EyeKind, endpoint, info)
}

// NewLightNode creates the root of a light sub-path
func NewLightNode(endpoint Endpoint, info *Info) *Node {
	return newRoot(LightKind, endpoint, info)
}

func newRoot(kind Kind, endpoint Endpoint, info *Info) *Node {
	pdf := endpoint.PositionPDF()
	weight := core.Vec3{}
	if pdf > 0 {
		weight = core.NewVec3(1, 1, 1).Multiply(1.0 / pdf)
	}
	return &Node{
		kind:        kind,
		info:        info,
		onLightPath: kind == LightKind,
		endpoint:    endpoint,
		pdf:         pdf,
		weight:      weight,
	}
}

// NewScatteringNode extends parent with a surface interaction reached by
// sampling a direction with the given projected solid angle density
func NewScatteringNode(parent *Node, hit *core.HitRecord, pdf float64, weight core.Vec3) *Node {
	wIn := parent.Position().Subtract(hit.Point).Normalize()
	if parent.AtInfinity() {
		wIn = parent.Position().Normalize()
	}
	return &Node{
		kind:        ScatteringKind,
		parent:      parent,
		depth:       parent.depth + 1,
		info:        parent.info,
		onLightPath: parent.onLightPath,
		hit:         hit,
		wIn:         wIn,
		pdf:         pdf,
		weight:      weight,
	}
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Depth() int        { return n.depth }
func (n *Node) Info() *Info       { return n.info }
func (n *Node) OnLightPath() bool { return n.onLightPath }

// Terminal reports whether the node is a lens or emitter root
func (n *Node) Terminal() bool { return n.kind != ScatteringKind }

// Hit returns the surface interaction of a scattering node
func (n *Node) Hit() *core.HitRecord { return n.hit }

// Weight is the throughput of the sub-path up to and including this vertex,
// excluding the scattering at the vertex itself
func (n *Node) Weight() core.Vec3 { return n.weight }

// PDF is the density with which this node was generated: positional for
// roots, projected solid angle from the parent otherwise
func (n *Node) PDF() float64 { return n.pdf }

func (n *Node) Position() core.Vec3 {
	if n.kind == ScatteringKind {
		return n.hit.Point
	}
	return n.endpoint.Position()
}

func (n *Node) AtInfinity() bool {
	if n.kind == ScatteringKind {
		return false
	}
	return n.endpoint.AtInfinity()
}

// Normal returns the zero vector for vertices that are not on a surface
func (n *Node) Normal() core.Vec3 {
	if n.kind == ScatteringKind {
		return n.hit.Normal
	}
	return n.endpoint.Normal()
}

func (n *Node) IsSpecular() bool {
	if n.kind == ScatteringKind {
		return n.hit.Material != nil && n.hit.Material.Specular()
	}
	return n.endpoint.Specular()
}

// Hittable reports whether a sub-path from the other end can reach this vertex
func (n *Node) Hittable() bool {
	if n.kind == ScatteringKind {
		return true
	}
	return n.endpoint.Hittable()
}

func (n *Node) IsOnLightSource() bool {
	switch n.kind {
	case LightKind:
		return true
	case ScatteringKind:
		_, ok := n.hit.Material.(core.Emitter)
		return ok
	default:
		return false
	}
}

// GeometricFactor couples this node to its parent; 1 for roots
func (n *Node) GeometricFactor() float64 {
	if n.parent == nil {
		return 1
	}
	return GeometricFactor(n, n.parent)
}

// Scatter returns the BSDF, emitted radiance or importance toward v
func (n *Node) Scatter(v core.Vec3) core.Vec3 {
	if n.kind != ScatteringKind {
		return n.endpoint.Evaluate(v)
	}
	if n.hit.Material == nil {
		return core.Vec3{}
	}
	return n.hit.Material.Evaluate(n.hit, n.wIn, v)
}

// PDFToward is the density of continuing the sub-path from this node toward v.
// Specular vertices report 1 so ratios through them stay finite.
func (n *Node) PDFToward(v core.Vec3) float64 {
	if n.kind != ScatteringKind {
		return n.endpoint.PDF(v)
	}
	if n.IsSpecular() {
		return 1
	}
	if n.hit.Material == nil {
		return 0
	}
	return n.hit.Material.PDF(n.hit, n.wIn, v)
}

// ReversePDF is the density of scattering toward the parent had the path
// arrived from direction v instead
func (n *Node) ReversePDF(v core.Vec3) float64 {
	if n.kind != ScatteringKind {
		return 0
	}
	if n.IsSpecular() {
		return 1
	}
	if n.hit.Material == nil {
		return 0
	}
	return n.hit.Material.PDF(n.hit, v, n.wIn)
}

// SourcePDF is the area density with which the light would sample this point
func (n *Node) SourcePDF() float64 {
	switch n.kind {
	case LightKind:
		return n.endpoint.PositionPDF()
	case ScatteringKind:
		if !n.IsOnLightSource() {
			return 0
		}
		return n.info.Scene.Light().PositionPDF(n.hit)
	default:
		return 0
	}
}

// SourcePDFToward is the density with which the light would emit toward v from this point
func (n *Node) SourcePDFToward(v core.Vec3) float64 {
	switch n.kind {
	case LightKind:
		return n.endpoint.PDF(v)
	case ScatteringKind:
		if !n.IsOnLightSource() {
			return 0
		}
		return n.info.Scene.Light().DirectionPDF(n.hit, v)
	default:
		return 0
	}
}

// SourceRadiance is the radiance emitted from this point back toward the parent
func (n *Node) SourceRadiance() core.Vec3 {
	if n.kind != ScatteringKind {
		return core.Vec3{}
	}
	emitter, ok := n.hit.Material.(core.Emitter)
	if !ok {
		return core.Vec3{}
	}
	return emitter.Emitted(n.hit, n.wIn)
}

// Project maps a world point onto the image through an eye root
func (n *Node) Project(p core.Vec3) (core.Vec2, bool) {
	if n.kind != EyeKind {
		return core.Vec2{}, false
	}
	projector, ok := n.endpoint.(Projector)
	if !ok {
		return core.Vec2{}, false
	}
	return projector.Project(p)
}

// Expand samples the next vertex using three draws from src. Returns nil
// when the path is absorbed or escapes the scene.
func (n *Node) Expand(src random.Source) *Node {
	ru, rv, rj := src.Next(), src.Next(), src.Next()

	var (
		direction core.Vec3
		pdf       float64
		weight    core.Vec3
	)

	if n.kind == ScatteringKind {
		if n.hit.Material == nil {
			return nil
		}
		result, ok := n.hit.Material.Scatter(n.hit, n.wIn, ru, rv, rj)
		if !ok || result.PDF <= 0 {
			return nil
		}
		direction, pdf = result.Direction, result.PDF
		weight = n.weight.MultiplyVec(result.Weight)
	} else {
		var ok bool
		direction, pdf, ok = n.endpoint.Sample(ru, rv, rj)
		if !ok || pdf <= 0 {
			return nil
		}
		weight = n.weight.MultiplyVec(n.endpoint.Evaluate(direction)).Multiply(1.0 / pdf)
	}

	if weight.IsZero() {
		return nil
	}

	hit, ok := n.info.Scene.Intersect(core.NewRay(n.Position(), direction))
	if !ok {
		return nil
	}
	return NewScatteringNode(n, hit, pdf, weight)
}

// Chain returns the nodes from tail back to the root; empty for nil
func Chain(tail *Node) []*Node {
	var nodes []*Node
	for n := tail; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}
	return nodes
}

// Path is one bidirectional sample: a light and an eye sub-path sharing no nodes
type Path struct {
	LightTail  *Node
	EyeTail    *Node
	ImagePoint core.Vec2
}
