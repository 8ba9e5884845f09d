// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"github.com/js-arias/timetree"
)

// FromTimeTree creates a tree from a dated phylogenetic tree.
// Branch lengths are the time elapsed
// between a node and its parent,
// in years,
// divided by the indicated scale
// (for example, use 1_000_000 for lengths
// in million years).
func FromTimeTree(t *timetree.Tree, scale float64) (*Tree, error) {
	if scale <= 0 {
		scale = 1
	}

	clades := make(map[int]*Clade, len(t.Nodes()))
	var root *Clade
	for _, id := range t.Nodes() {
		c := &Clade{
			Name: t.Taxon(id),
		}

		p := t.Parent(id)
		if p < 0 {
			root = c
			clades[id] = c
			continue
		}
		c.Length = float64(t.Age(p)-t.Age(id)) / scale
		c.HasLength = true
		anc := clades[p]
		anc.Children = append(anc.Children, c)
		clades[id] = c
	}

	return New(t.Name(), root)
}
