package layout

import (
	"slices"

	"github.com/1broseidon/whim/internal/geometry"
	"github.com/1broseidon/whim/internal/platform"
)

// node is either a *leafNode or a *splitNode. Nodes are never modified once
// built; updates rebuild the path from the changed node to the root and
// share everything else.
type node interface {
	isNode()
}

type leafNode struct {
	window  platform.WindowHandle
	phantom bool
}

type splitNode struct {
	// direction is DirectionRight (children side by side) or DirectionDown
	// (children stacked).
	direction   geometry.Direction
	children    []node
	weights     []float64
	equalWeight bool
}

func (*leafNode) isNode()  {}
func (*splitNode) isNode() {}

// path addresses a node by child indices from the root.
type path []int

func newEqualSplit(direction geometry.Direction, children ...node) *splitNode {
	return &splitNode{direction: direction, children: children, equalWeight: true}
}

func (s *splitNode) weight(i int) float64 {
	if s.equalWeight {
		return 1 / float64(len(s.children))
	}
	return s.weights[i]
}

// explicitWeights returns a copy of the effective weights.
func (s *splitNode) explicitWeights() []float64 {
	out := make([]float64, len(s.children))
	for i := range s.children {
		out[i] = s.weight(i)
	}
	return out
}

func (s *splitNode) withChild(i int, child node) *splitNode {
	next := *s
	next.children = slices.Clone(s.children)
	next.children[i] = child
	return &next
}

// insertChild places child at index i. Equal-weight splits stay equal;
// otherwise the new child takes half of donor's weight.
func (s *splitNode) insertChild(i, donor int, child node) *splitNode {
	next := *s
	next.children = slices.Insert(slices.Clone(s.children), i, child)
	if !s.equalWeight {
		weights := slices.Clone(s.weights)
		half := weights[donor] / 2
		weights[donor] = half
		next.weights = slices.Insert(weights, i, half)
	}
	return &next
}

// removeChild drops child i. Explicit weight goes to the last remaining
// sibling.
func (s *splitNode) removeChild(i int) *splitNode {
	next := *s
	next.children = slices.Delete(slices.Clone(s.children), i, i+1)
	if !s.equalWeight {
		removed := s.weights[i]
		weights := slices.Delete(slices.Clone(s.weights), i, i+1)
		if len(weights) > 0 {
			weights[len(weights)-1] += removed
		}
		next.weights = weights
	}
	return &next
}

func (s *splitNode) childRect(rect geometry.UnitRect, i int) geometry.UnitRect {
	offset := 0.0
	for j := 0; j < i; j++ {
		offset += s.weight(j)
	}
	w := s.weight(i)
	if s.direction == geometry.DirectionRight {
		return geometry.UnitRect{X: rect.X + offset*rect.Width, Y: rect.Y, Width: w * rect.Width, Height: rect.Height}
	}
	return geometry.UnitRect{X: rect.X, Y: rect.Y + offset*rect.Height, Width: rect.Width, Height: w * rect.Height}
}

func nodeAt(root node, p path) node {
	n := root
	for _, i := range p {
		n = n.(*splitNode).children[i]
	}
	return n
}

// rectAt accumulates weight-scaled offsets from the root down to p.
func rectAt(root node, p path) geometry.UnitRect {
	rect := geometry.UnitSquare
	n := root
	for _, i := range p {
		s := n.(*splitNode)
		rect = s.childRect(rect, i)
		n = s.children[i]
	}
	return rect
}

// replaceAt rebuilds the spine from root to p with repl at p.
func replaceAt(root node, p path, repl node) node {
	if len(p) == 0 {
		return repl
	}
	s := root.(*splitNode)
	return s.withChild(p[0], replaceAt(s.children[p[0]], p[1:], repl))
}

func findLeaf(root node, window platform.WindowHandle) (path, bool) {
	switch n := root.(type) {
	case *leafNode:
		if n.window == window {
			return path{}, true
		}
	case *splitNode:
		for i, child := range n.children {
			if p, ok := findLeaf(child, window); ok {
				return append(path{i}, p...), true
			}
		}
	}
	return nil, false
}

// leaves walks the tree depth first.
func leaves(root node, yield func(path, *leafNode, geometry.UnitRect) bool) {
	var walk func(n node, p path, rect geometry.UnitRect) bool
	walk = func(n node, p path, rect geometry.UnitRect) bool {
		switch n := n.(type) {
		case *leafNode:
			return yield(p, n, rect)
		case *splitNode:
			for i, child := range n.children {
				if !walk(child, append(slices.Clone(p), i), n.childRect(rect, i)) {
					return false
				}
			}
		}
		return true
	}
	if root != nil {
		walk(root, path{}, geometry.UnitSquare)
	}
}

// leafAtPoint descends into whichever child contains point.
func leafAtPoint(root node, point geometry.UnitPoint) (path, bool) {
	if root == nil || !geometry.UnitSquare.Contains(point) {
		return nil, false
	}
	p := path{}
	rect := geometry.UnitSquare
	n := root
	for {
		s, ok := n.(*splitNode)
		if !ok {
			return p, true
		}
		next := -1
		for i := range s.children {
			cr := s.childRect(rect, i)
			if cr.Contains(point) {
				next = i
				rect = cr
				break
			}
		}
		if next < 0 {
			// Rounding can leave the far edge uncovered.
			next = len(s.children) - 1
			rect = s.childRect(rect, next)
		}
		p = append(p, next)
		n = s.children[next]
	}
}

func commonPrefix(a, b path) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// insertLeaf places leaf next to the node at anchor. When the anchor's
// parent already splits along direction the leaf becomes a sibling;
// otherwise the anchor is wrapped in a new split holding both.
func insertLeaf(root node, anchor path, leaf node, direction geometry.Direction) node {
	if root == nil {
		return leaf
	}
	axis := geometry.DirectionRight
	if direction.IsVertical() {
		axis = geometry.DirectionDown
	}
	before := direction == geometry.DirectionLeft || direction == geometry.DirectionUp

	if len(anchor) > 0 {
		parentPath := anchor[:len(anchor)-1]
		idx := anchor[len(anchor)-1]
		parent := nodeAt(root, parentPath).(*splitNode)
		if parent.direction == axis {
			at := idx + 1
			if before {
				at = idx
			}
			return replaceAt(root, parentPath, parent.insertChild(at, idx, leaf))
		}
	}

	target := nodeAt(root, anchor)
	wrapper := newEqualSplit(axis, target, leaf)
	if before {
		wrapper = newEqualSplit(axis, leaf, target)
	}
	return replaceAt(root, anchor, wrapper)
}

// removeAt deletes the node at p, splicing out a parent left with one child.
func removeAt(root node, p path) node {
	if len(p) == 0 {
		return nil
	}
	parentPath := p[:len(p)-1]
	parent := nodeAt(root, parentPath).(*splitNode).removeChild(p[len(p)-1])
	if len(parent.children) == 1 {
		return replaceAt(root, parentPath, parent.children[0])
	}
	return replaceAt(root, parentPath, parent)
}
