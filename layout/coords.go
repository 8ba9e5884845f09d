// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/js-arias/phylodraw/tree"
	"gonum.org/v1/gonum/stat"
)

// Coordinates assigns a position to every node of a tree.
//
// The x position of a node is the branch length
// accumulated from the root,
// so it grows from the root to the terminals.
//
// The y positions of the terminals are consecutive
// multiples of the spacing unit,
// in declaration order;
// an internal node is placed among its children
// by the configured policy.
func coordinates(t *tree.Tree, opt Options) (coords map[int]Point, maxX float64, err error) {
	xs := make([]float64, t.Len())
	for _, id := range t.Nodes() {
		p := t.Parent(id)
		if p < 0 {
			continue
		}
		bl, ok := t.BranchLength(id)
		if !ok {
			bl = opt.BranchLengthDefault
		}
		if bl < 0 {
			return nil, 0, fmt.Errorf("tree %q: %w: %.6f [node %d]", t.Name(), ErrBranchLength, bl, id)
		}
		xs[id] = xs[p] + bl
		if xs[id] > maxX {
			maxX = xs[id]
		}
	}

	ys := yCoords(t, opt)

	coords = make(map[int]Point, t.Len())
	for _, id := range t.Nodes() {
		coords[id] = Point{X: xs[id], Y: ys[id]}
	}
	return coords, maxX, nil
}

// YCoords makes a post-order traversal
// with an explicit stack,
// ranking the terminals as they are found.
func yCoords(t *tree.Tree, opt Options) []float64 {
	ys := make([]float64, t.Len())

	type frame struct {
		id   int
		open bool
	}

	var nextY float64
	stack := []frame{{id: t.Root()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := t.Children(f.id)
		if len(children) == 0 {
			ys[f.id] = nextY
			nextY += opt.SpacingUnit
			continue
		}

		if !f.open {
			stack = append(stack, frame{id: f.id, open: true})
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: children[i]})
			}
			continue
		}

		cy := make([]float64, 0, len(children))
		for _, c := range children {
			cy = append(cy, ys[c])
		}
		switch opt.YPolicy {
		case Extremes:
			ys[f.id] = (cy[0] + cy[len(cy)-1]) / 2
		default:
			ys[f.id] = stat.Mean(cy, nil)
		}
	}
	return ys
}

// Segments builds the line segments of the dendrogram:
// for every internal node,
// a vertical segment spanning its children,
// and a horizontal segment
// from the node to each child.
// The root has no incoming branch,
// so no segment is emitted for it.
func segments(t *tree.Tree, coords map[int]Point) []Segment {
	var segs []Segment
	for _, id := range t.Nodes() {
		children := t.Children(id)
		if len(children) == 0 {
			continue
		}

		minY := coords[children[0]].Y
		maxY := minY
		for _, c := range children[1:] {
			y := coords[c].Y
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}

		x := coords[id].X
		segs = append(segs, Segment{X0: x, Y0: minY, X1: x, Y1: maxY})
		for _, c := range children {
			pt := coords[c]
			segs = append(segs, Segment{X0: x, Y0: pt.Y, X1: pt.X, Y1: pt.Y})
		}
	}
	return segs
}
