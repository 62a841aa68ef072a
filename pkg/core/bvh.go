package core

import (
	"sort"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Copy so sorting during the build does not reorder the caller's slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH recursively builds the tree with a median split along the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	box := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Shapes: shapes}
	}

	a := box.LongestAxis()
	sort.Slice(shapes, func(i, j int) bool {
		return axis(shapes[i].BoundingBox().Center(), a) < axis(shapes[j].BoundingBox().Center(), a)
	})

	mid := len(shapes) / 2
	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(shapes[:mid]),
		Right:       buildBVH(shapes[mid:]),
	}
}

// Hit returns the closest intersection in (tMin, tMax)
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	hit := bvh.hitNode(bvh.Root, ray, tMin, tMax)
	return hit, hit != nil
}

func (bvh *BVH) hitNode(node *BVHNode, ray Ray, tMin, tMax float64) *HitRecord {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil
	}

	var closest *HitRecord
	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, tMax); ok {
				closest = hit
				tMax = hit.T
			}
		}
		return closest
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit := bvh.hitNode(child, ray, tMin, tMax); hit != nil {
			closest = hit
			tMax = hit.T
		}
	}
	return closest
}

// BoundingBox returns the bounds of everything in the tree
func (bvh *BVH) BoundingBox() AABB {
	if bvh.Root == nil {
		return AABB{}
	}
	return bvh.Root.BoundingBox
}
