// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/phylodraw/metadata"
	"github.com/js-arias/phylodraw/tree"
)

// Join joins the terminals of the tree
// with the metadata table,
// producing the colored tip markers
// and the legends.
//
// Colors are given by first-occurrence order:
// while scanning the terminals in declaration order,
// the first unseen value of a field
// takes the next color of the field palette,
// cycling the palette when it is exhausted.
// Terminals without a metadata row,
// or with the field unset,
// take the Unknown value.
func (l *Layout) join(t *tree.Tree, md *metadata.Data, opt Options) error {
	var fields []string
	if len(opt.Fields) > 0 {
		for _, f := range opt.Fields {
			fields = append(fields, strings.ToLower(strings.TrimSpace(f)))
		}
	} else if md != nil {
		fields = md.Fields()
	}

	for _, f := range fields {
		if md == nil || !md.HasField(f) {
			return fmt.Errorf("tree %q: field %q: %w", t.Name(), f, metadata.ErrMissingColumn)
		}
	}
	l.Fields = fields

	step := opt.HeatmapStep
	if step <= 0 {
		step = l.MaxX / 20
		if step <= 0 {
			step = opt.SpacingUnit
		}
	}

	for i, f := range fields {
		pal := opt.Palettes[f]
		if len(pal) == 0 {
			pal = DefaultPalette()
		}

		colX := l.MaxX + float64(i)*step
		if i > 0 {
			l.HeatmapX[f] = colX
		}

		seen := make(map[string]color.RGBA, len(pal))
		for _, id := range t.Nodes() {
			if !t.IsTerm(id) {
				continue
			}
			tax := t.Taxon(id)
			v := md.Value(tax, f)
			if v == "" {
				v = Unknown
			}

			c, ok := seen[v]
			if !ok {
				c = pal[len(seen)%len(pal)]
				seen[v] = c
				l.Legends[f] = append(l.Legends[f], LegendEntry{Value: v, Color: c})
			}

			pt := l.Coords[id]
			x := pt.X
			if i > 0 {
				x = colX
			}
			l.TipMarkers = append(l.TipMarkers, Marker{
				Taxon:  tax,
				Field:  f,
				Value:  v,
				X:      x,
				Y:      pt.Y,
				Color:  c,
				Legend: !ok,
			})
		}
	}
	return nil
}

// Annotate marks the internal nodes
// with a support value over the threshold.
// Support values are checked against the declared scale,
// as a mixed scale silently flags
// all the nodes or none.
func (l *Layout) annotate(t *tree.Tree, opt Options) error {
	if opt.SupportScale == NoScale {
		return nil
	}

	maxVal := 1.0
	if opt.SupportScale == Percentage {
		maxVal = 100
	}

	for _, id := range t.Nodes() {
		if t.IsTerm(id) {
			continue
		}
		v, ok := t.Support(id)
		if !ok {
			continue
		}
		if v < 0 || v > maxVal {
			return fmt.Errorf("tree %q: %w: support %.3f [node %d]", t.Name(), ErrSupportScale, v, id)
		}
		if v <= opt.SupportThreshold {
			continue
		}
		pt := l.Coords[id]
		l.SupportMarkers = append(l.SupportMarkers, SupportMarker{
			Node:    id,
			X:       pt.X,
			Y:       pt.Y,
			Support: v,
		})
	}
	return nil
}

// DefaultPalette returns the palette used for fields
// without a configured palette:
// twelve color-blind safe colors
// sampled from the iridescent scheme,
// interleaved to keep consecutive categories apart.
func DefaultPalette() []color.RGBA {
	pos := []int{0, 6, 3, 9, 1, 7, 4, 10, 2, 8, 5, 11}
	pal := make([]color.RGBA, 0, len(pos))
	for _, p := range pos {
		pal = append(pal, blind.Sequential(blind.Iridescent, float64(p)/11))
	}
	return pal
}
