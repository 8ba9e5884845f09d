// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

type edge struct {
	to  int
	w   float64
	def bool // true if the branch length is defined
}

// Midpoint returns a copy of the tree
// re-rooted at the midpoint of the longest path
// between two terminals.
// Undefined branch lengths are treated as zero.
// If the tree has less than two terminals,
// or all its branches are of zero length,
// it returns the tree unmodified.
func (t *Tree) Midpoint() (*Tree, error) {
	if len(t.terms) < 2 {
		return t, nil
	}

	adj := t.adjacency()

	// the terminal most distant from any node
	// is an endpoint of a longest path
	du, _ := pathsFrom(adj, t.Root())
	u := t.farthestTerm(du)

	dv, prev := pathsFrom(adj, u)
	v := t.farthestTerm(dv)
	diameter := dv[v]
	if diameter == 0 {
		return t, nil
	}
	half := diameter / 2

	// walk the path from v towards u;
	// the distance from v of a path node x
	// is diameter - dv[x],
	// growing from zero at v
	// up to the diameter at u
	x := v
	for {
		n := prev[x]
		dx := diameter - dv[x]
		dn := diameter - dv[n]
		if dn == half {
			if n == t.Root() {
				return t, nil
			}
			return t.reroot(adj, n, -1, 0, 0)
		}
		if dn > half {
			// the midpoint is inside the edge x-n
			return t.reroot(adj, x, n, half-dx, dn-half)
		}
		x = n
	}
}

// Adjacency returns the tree as an undirected graph:
// for each node,
// the list of its neighbors with branch lengths.
func (t *Tree) adjacency() [][]edge {
	adj := make([][]edge, len(t.nodes))
	for _, n := range t.nodes {
		if n.parent < 0 {
			continue
		}
		adj[n.parent] = append(adj[n.parent], edge{to: n.id, w: n.brLen, def: !n.defLen})
		adj[n.id] = append(adj[n.id], edge{to: n.parent, w: n.brLen, def: !n.defLen})
	}
	return adj
}

// PathsFrom returns the distance from a source node
// to every node of the tree,
// and the previous node on each path.
func pathsFrom(adj [][]edge, src int) (dist []float64, prev []int) {
	dist = make([]float64, len(adj))
	prev = make([]int, len(adj))
	for i := range prev {
		prev[i] = -1
	}

	visited := make([]bool, len(adj))
	stack := []int{src}
	visited[src] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range adj[n] {
			if visited[e.to] {
				continue
			}
			visited[e.to] = true
			dist[e.to] = dist[n] + e.w
			prev[e.to] = n
			stack = append(stack, e.to)
		}
	}
	return dist, prev
}

// FarthestTerm returns the terminal
// with the largest distance value.
// Ties are broken by the smallest node ID.
func (t *Tree) farthestTerm(dist []float64) int {
	far := -1
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			continue
		}
		if far < 0 || dist[n.id] > dist[far] {
			far = n.id
		}
	}
	return far
}

// Reroot builds a new tree rooted at node a,
// or, if b is a valid node ID,
// at a new node placed inside the edge a-b,
// at distance wa from a and wb from b.
func (t *Tree) reroot(adj [][]edge, a, b int, wa, wb float64) (*Tree, error) {
	var root *Clade
	if b < 0 {
		root = t.expand(adj, a, -1)
	} else {
		ca := t.expand(adj, a, b)
		ca.Length = wa
		ca.HasLength = true
		cb := t.expand(adj, b, a)
		cb.Length = wb
		cb.HasLength = true
		root = &Clade{
			Children: []*Clade{ca, cb},
		}
	}
	collapse(root)
	return New(t.name, root)
}

// Expand builds a clade for node id,
// descending through every neighbor except skip.
func (t *Tree) expand(adj [][]edge, id, skip int) *Clade {
	type frame struct {
		id, skip int
		c        *Clade
	}

	mk := func(id int) *Clade {
		n := t.nodes[id]
		c := &Clade{
			Name:       n.name,
			Support:    n.support,
			HasSupport: n.hasSup,
		}
		return c
	}

	root := mk(id)
	stack := []frame{{id: id, skip: skip, c: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// push in reverse to keep neighbor order
		ne := adj[f.id]
		for i := len(ne) - 1; i >= 0; i-- {
			e := ne[i]
			if e.to == f.skip {
				continue
			}
			c := mk(e.to)
			if e.def {
				c.Length = e.w
				c.HasLength = true
			}
			f.c.Children = append([]*Clade{c}, f.c.Children...)
			stack = append(stack, frame{id: e.to, skip: f.id, c: c})
		}
	}
	return root
}

// Collapse removes unnamed internal nodes
// with a single child
// (usually the old root after a re-rooting),
// adding their branch length to the child.
func collapse(root *Clade) {
	stack := []*Clade{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, d := range c.Children {
			for len(d.Children) == 1 && d.Name == "" {
				g := d.Children[0]
				if d.HasLength || g.HasLength {
					sum := 0.0
					if d.HasLength {
						sum += d.Length
					}
					if g.HasLength {
						sum += g.Length
					}
					g.Length = sum
					g.HasLength = true
				}
				c.Children[i] = g
				d = g
			}
			stack = append(stack, d)
		}
	}
}
