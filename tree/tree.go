// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree provides a rooted phylogenetic tree
// with branch lengths and support values.
//
// The tree is read-only after construction:
// nodes are identified by integer IDs
// assigned in pre-order,
// so the ID of a parent is always smaller
// than the IDs of its descendants.
package tree

import (
	"errors"
	"fmt"
	"slices"
)

// Usual errors of an invalid tree.
var (
	// ErrTreeMalformed is used when the input structure
	// is not a valid rooted tree,
	// either because it contains a cycle,
	// or a terminal without a name.
	ErrTreeMalformed = errors.New("malformed tree")

	// ErrDupTerm is used when two terminals
	// have the same name.
	ErrDupTerm = errors.New("duplicated terminal name")
)

// A Clade is a node of a parsed phylogenetic tree,
// as delivered by an external parser.
type Clade struct {
	// Name of the node.
	// It is required for terminals
	// and usually empty for internal nodes.
	Name string

	// Length of the branch that connects the node
	// with its parent.
	// It is only valid if HasLength is true.
	Length    float64
	HasLength bool

	// Support is a confidence value for the node
	// (for example a bootstrap proportion).
	// It is only valid if HasSupport is true.
	Support    float64
	HasSupport bool

	// Children of the node,
	// in declaration order.
	Children []*Clade
}

type node struct {
	id       int
	parent   int
	children []int

	name    string
	brLen   float64
	defLen  bool // true if the branch length is undefined
	support float64
	hasSup  bool
}

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	name  string
	nodes []node
	terms map[string]int
}

// New creates a new tree from a parsed clade structure.
// It returns an error if the structure contains a cycle,
// an unnamed terminal,
// or two terminals with the same name.
func New(name string, root *Clade) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("tree %q: %w: empty tree", name, ErrTreeMalformed)
	}

	t := &Tree{
		name:  name,
		terms: make(map[string]int),
	}

	type frame struct {
		c      *Clade
		parent int
	}

	seen := make(map[*Clade]bool)
	stack := []frame{{c: root, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[f.c] {
			return nil, fmt.Errorf("tree %q: %w: cycle at %q", name, ErrTreeMalformed, f.c.Name)
		}
		seen[f.c] = true

		id := len(t.nodes)
		n := node{
			id:      id,
			parent:  f.parent,
			name:    f.c.Name,
			brLen:   f.c.Length,
			support: f.c.Support,
			hasSup:  f.c.HasSupport,
		}
		if !f.c.HasLength {
			n.brLen = 0
			n.defLen = true
		}
		if len(f.c.Children) == 0 {
			if n.name == "" {
				return nil, fmt.Errorf("tree %q: %w: unnamed terminal [node %d]", name, ErrTreeMalformed, id)
			}
			if _, dup := t.terms[n.name]; dup {
				return nil, fmt.Errorf("tree %q: %w: %q", name, ErrDupTerm, n.name)
			}
			t.terms[n.name] = id
		}
		if f.parent >= 0 {
			p := &t.nodes[f.parent]
			p.children = append(p.children, id)
		}
		t.nodes = append(t.nodes, n)

		// push children in reverse
		// so they pop in declaration order
		for i := len(f.c.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{c: f.c.Children[i], parent: id})
		}
	}

	return t, nil
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Len returns the number of nodes of the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return 0
}

// Parent returns the ID of the parent
// of the indicated node.
// It returns -1 for the root
// or an invalid node ID.
func (t *Tree) Parent(id int) int {
	if id < 0 || id >= len(t.nodes) {
		return -1
	}
	return t.nodes[id].parent
}

// Children returns the IDs of the children
// of the indicated node,
// in declaration order.
func (t *Tree) Children(id int) []int {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// IsTerm returns true if the indicated node
// is a terminal of the tree.
func (t *Tree) IsTerm(id int) bool {
	if id < 0 || id >= len(t.nodes) {
		return false
	}
	return len(t.nodes[id].children) == 0
}

// Taxon returns the name of the indicated node.
// Internal nodes are usually unnamed.
func (t *Tree) Taxon(id int) string {
	if id < 0 || id >= len(t.nodes) {
		return ""
	}
	return t.nodes[id].name
}

// TaxNode returns the ID of a terminal node
// with a given name.
// It returns false if the name is not a terminal
// of the tree.
func (t *Tree) TaxNode(name string) (int, bool) {
	id, ok := t.terms[name]
	return id, ok
}

// BranchLength returns the length of the branch
// that connects the node with its parent.
// It returns false if the length is undefined
// (or the node is the root).
func (t *Tree) BranchLength(id int) (float64, bool) {
	if id <= 0 || id >= len(t.nodes) {
		return 0, false
	}
	n := t.nodes[id]
	if n.defLen {
		return 0, false
	}
	return n.brLen, true
}

// Support returns the support value
// (for example a bootstrap proportion)
// of the indicated node.
// It returns false if the node has no support value.
func (t *Tree) Support(id int) (float64, bool) {
	if id < 0 || id >= len(t.nodes) {
		return 0, false
	}
	n := t.nodes[id]
	return n.support, n.hasSup
}

// Nodes returns the node IDs of the tree
// in pre-order.
func (t *Tree) Nodes() []int {
	ids := make([]int, len(t.nodes))
	for i := range t.nodes {
		ids[i] = i
	}
	return ids
}

// LevelOrder returns the node IDs of the tree
// in a breadth-first traversal,
// the root first.
func (t *Tree) LevelOrder() []int {
	ids := make([]int, 0, len(t.nodes))
	queue := []int{t.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ids = append(ids, id)
		queue = append(queue, t.nodes[id].children...)
	}
	return ids
}

// Terms returns the names of the terminals of the tree,
// in declaration (left to right) order.
func (t *Tree) Terms() []string {
	terms := make([]string, 0, len(t.terms))
	for _, n := range t.nodes {
		if len(n.children) == 0 {
			terms = append(terms, n.name)
		}
	}
	return terms
}

// NumTerms returns the number of terminals of the tree.
func (t *Tree) NumTerms() int {
	return len(t.terms)
}
