// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements the layout of a phylogenetic tree
// as a rectangular dendrogram.
//
// The layout is a pure computation:
// it reads a tree and a metadata table,
// and produces the geometry of the drawing
// (node coordinates,
// branch segments,
// colored tip markers,
// support markers,
// and legends)
// ready for any rendering back end.
// A single call keeps no shared state,
// so different layouts can be run concurrently
// as long as each call has its own inputs.
package layout

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/js-arias/phylodraw/metadata"
	"github.com/js-arias/phylodraw/tree"
)

// Unknown is the category value used for terminals
// without a metadata row,
// or with an unset field value.
const Unknown = "Unknown"

// Usual errors of an invalid layout request.
var (
	// ErrBranchLength is used when a tree
	// has a branch with a negative length.
	ErrBranchLength = errors.New("invalid branch length")

	// ErrSupportScale is used when support values,
	// or the support threshold,
	// do not match the declared support scale.
	ErrSupportScale = errors.New("invalid support scale")
)

// YPolicy defines the vertical placement
// of an internal node.
type YPolicy int

const (
	// Mean places an internal node at the mean
	// of the positions of all its children.
	Mean YPolicy = iota

	// Extremes places an internal node midway
	// between its first and last children.
	Extremes
)

// Scale defines the unit of the support values
// of a tree.
type Scale int

const (
	// NoScale indicates that the scale is undeclared;
	// support annotation is skipped.
	NoScale Scale = iota

	// Fraction for support values in the range 0-1.
	Fraction

	// Percentage for support values in the range 0-100.
	Percentage
)

// Options is the configuration of a layout request.
// The zero value is a valid configuration.
type Options struct {
	// SpacingUnit is the vertical distance
	// between two consecutive terminals.
	// Default 1.
	SpacingUnit float64

	// BranchLengthDefault is the length used
	// for branches with an undefined length.
	// Default 0.
	BranchLengthDefault float64

	// MidpointRoot re-roots the tree
	// at the midpoint of its longest
	// terminal-to-terminal path
	// before the layout.
	MidpointRoot bool

	// YPolicy for internal nodes.
	// Default Mean.
	YPolicy YPolicy

	// Fields is the list of categorical metadata fields
	// used for tip markers,
	// the first field at the tips,
	// any other as a heatmap column.
	// If empty,
	// all the fields of the metadata table are used.
	Fields []string

	// Palettes are ordered color lists
	// per categorical field.
	// Fields without a palette use DefaultPalette.
	Palettes map[string][]color.RGBA

	// SupportThreshold is the minimum support value
	// (exclusive)
	// for an internal node to be marked.
	// SupportScale must be declared
	// to use the threshold.
	SupportThreshold float64
	SupportScale     Scale

	// ShowTipLabels adds the terminal names
	// to the layout.
	ShowTipLabels bool

	// LabelWrapWidth is the number of characters
	// before a tip label is wrapped
	// into a new line.
	// Default 75.
	LabelWrapWidth int

	// HeatmapStep is the horizontal distance
	// between heatmap columns.
	// If zero,
	// 5% of the maximum tree depth is used.
	HeatmapStep float64

	// Canvas sizing:
	// the height is at least MinHeight,
	// and grows RowHeight per terminal;
	// the width is at least MinWidth,
	// and grows from BaseWidth
	// by CharWidth per character
	// of the longest terminal name.
	// Defaults 1000, 25, 1200, 0, and 10.
	MinHeight float64
	RowHeight float64
	MinWidth  float64
	BaseWidth float64
	CharWidth float64
}

func (o Options) withDefaults() Options {
	if o.SpacingUnit <= 0 {
		o.SpacingUnit = 1
	}
	if o.LabelWrapWidth <= 0 {
		o.LabelWrapWidth = 75
	}
	if o.MinHeight <= 0 {
		o.MinHeight = 1000
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 25
	}
	if o.MinWidth <= 0 {
		o.MinWidth = 1200
	}
	if o.BaseWidth < 0 {
		o.BaseWidth = 0
	}
	if o.CharWidth <= 0 {
		o.CharWidth = 10
	}
	return o
}

// A Point is a position in the layout plane:
// x is the accumulated branch length from the root,
// y the vertical placement of the node.
type Point struct {
	X float64
	Y float64
}

// A Segment is an axis-aligned line segment
// of the dendrogram.
type Segment struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// A Marker is a colored mark for a terminal,
// for a given categorical field.
type Marker struct {
	Taxon string
	Field string
	Value string
	X     float64
	Y     float64
	Color color.RGBA

	// Legend is true on the first marker
	// that shows the value of the field;
	// markers repeating an already seen value
	// are suppressed from the legend.
	Legend bool
}

// A LegendEntry is a value-color pair
// of a categorical field.
type LegendEntry struct {
	Value string
	Color color.RGBA
}

// A SupportMarker is a mark for an internal node
// with a support value over the threshold.
type SupportMarker struct {
	Node    int
	X       float64
	Y       float64
	Support float64
}

// A TipLabel is the wrapped name of a terminal.
type TipLabel struct {
	Taxon string
	X     float64
	Y     float64
	Lines []string
}

// A Layout is the geometry of a dendrogram,
// ready for rendering.
// It is a plain immutable value:
// a new layout is built on every request.
type Layout struct {
	// Coords maps node IDs to their positions.
	Coords map[int]Point

	// Segments of the dendrogram,
	// in pre-order of their defining internal node,
	// the vertical segment first.
	Segments []Segment

	// TipMarkers in terminal declaration order,
	// field by field.
	TipMarkers []Marker

	// SupportMarkers in pre-order.
	SupportMarkers []SupportMarker

	// Labels of the terminals,
	// empty unless tip labels were requested.
	Labels []TipLabel

	// Legends per categorical field,
	// entries in first-occurrence order.
	Legends map[string][]LegendEntry

	// Fields used for the markers,
	// in layout order.
	Fields []string

	// HeatmapX is the column position
	// of each field drawn as a heatmap column.
	HeatmapX map[string]float64

	// MaxX is the maximum accumulated branch length.
	MaxX float64

	// Canvas size.
	Height float64
	Width  float64
}

// New computes the layout of a tree
// as a rectangular dendrogram,
// joining the terminals with a metadata table
// (that can be nil).
func New(t *tree.Tree, md *metadata.Data, opt Options) (*Layout, error) {
	opt = opt.withDefaults()
	if opt.BranchLengthDefault < 0 {
		return nil, fmt.Errorf("tree %q: %w: default length %.6f", t.Name(), ErrBranchLength, opt.BranchLengthDefault)
	}
	if err := opt.validScale(); err != nil {
		return nil, fmt.Errorf("tree %q: %w", t.Name(), err)
	}

	if opt.MidpointRoot {
		mt, err := t.Midpoint()
		if err != nil {
			return nil, fmt.Errorf("tree %q: %w", t.Name(), err)
		}
		t = mt
	}

	coords, maxX, err := coordinates(t, opt)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Coords:   coords,
		Segments: segments(t, coords),
		Legends:  make(map[string][]LegendEntry),
		HeatmapX: make(map[string]float64),
		MaxX:     maxX,
	}

	if err := l.join(t, md, opt); err != nil {
		return nil, err
	}
	if err := l.annotate(t, opt); err != nil {
		return nil, err
	}
	l.labels(t, opt)
	l.size(t, opt)

	return l, nil
}

func (o Options) validScale() error {
	switch o.SupportScale {
	case NoScale:
		if o.SupportThreshold != 0 {
			return fmt.Errorf("%w: threshold %.3f without a declared scale", ErrSupportScale, o.SupportThreshold)
		}
	case Fraction:
		if o.SupportThreshold < 0 || o.SupportThreshold > 1 {
			return fmt.Errorf("%w: threshold %.3f out of fraction range", ErrSupportScale, o.SupportThreshold)
		}
	case Percentage:
		if o.SupportThreshold < 0 || o.SupportThreshold > 100 {
			return fmt.Errorf("%w: threshold %.3f out of percentage range", ErrSupportScale, o.SupportThreshold)
		}
	default:
		return fmt.Errorf("%w: unknown scale %d", ErrSupportScale, o.SupportScale)
	}
	return nil
}

func (l *Layout) size(t *tree.Tree, opt Options) {
	maxLabel := 0
	for _, term := range t.Terms() {
		if sz := len([]rune(term)); sz > maxLabel {
			maxLabel = sz
		}
	}

	l.Height = max(opt.MinHeight, float64(t.NumTerms())*opt.RowHeight)
	l.Width = max(opt.MinWidth, opt.BaseWidth+float64(maxLabel)*opt.CharWidth)
}

func (l *Layout) labels(t *tree.Tree, opt Options) {
	if !opt.ShowTipLabels {
		return
	}

	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		tax := t.Taxon(id)
		pt := l.Coords[id]
		l.Labels = append(l.Labels, TipLabel{
			Taxon: tax,
			X:     pt.X,
			Y:     pt.Y,
			Lines: wrap(tax, opt.LabelWrapWidth),
		})
	}
}

func wrap(s string, width int) []string {
	r := []rune(s)
	var lines []string
	for len(r) > width {
		lines = append(lines, string(r[:width]))
		r = r[width:]
	}
	return append(lines, string(r))
}
