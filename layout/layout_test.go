// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout_test

import (
	"errors"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/phylodraw/layout"
	"github.com/js-arias/phylodraw/metadata"
	"github.com/js-arias/phylodraw/tree"
)

// newTree returns the tree
// "(A:1.0,(B:1.0,C:1.0)0.95:1.0);".
// Node IDs in pre-order:
// 0 root, 1 "A", 2 internal, 3 "B", 4 "C".
func newTree(t testing.TB) *tree.Tree {
	t.Helper()

	c := &tree.Clade{
		Children: []*tree.Clade{
			{Name: "A", Length: 1, HasLength: true},
			{
				Length:     1,
				HasLength:  true,
				Support:    0.95,
				HasSupport: true,
				Children: []*tree.Clade{
					{Name: "B", Length: 1, HasLength: true},
					{Name: "C", Length: 1, HasLength: true},
				},
			},
		},
	}
	p, err := tree.New("test", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	return p
}

func newData() *metadata.Data {
	d := metadata.New()
	d.Add("A", "location", "Paris")
	d.Add("B", "location", "Paris")
	d.Add("C", "location", "Tokyo")
	d.Add("A", "mlst", "ST-131")
	d.Add("B", "mlst", "ST-69")
	return d
}

var palette = []color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
}

func TestCoordinates(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, nil, layout.Options{})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	want := map[int]layout.Point{
		0: {X: 0, Y: 0.75},
		1: {X: 1, Y: 0},
		2: {X: 1, Y: 1.5},
		3: {X: 2, Y: 1},
		4: {X: 2, Y: 2},
	}
	for id, w := range want {
		g := l.Coords[id]
		if math.Abs(g.X-w.X) > 1e-9 || math.Abs(g.Y-w.Y) > 1e-9 {
			t.Errorf("node %d: got (%.3f, %.3f), want (%.3f, %.3f)", id, g.X, g.Y, w.X, w.Y)
		}
	}
	if l.MaxX != 2 {
		t.Errorf("max depth: got %.3f, want %.3f", l.MaxX, 2.0)
	}

	// x-additivity
	for _, id := range p.Nodes() {
		pr := p.Parent(id)
		if pr < 0 {
			continue
		}
		bl, _ := p.BranchLength(id)
		if d := l.Coords[id].X - l.Coords[pr].X; math.Abs(d-bl) > 1e-9 {
			t.Errorf("node %d: x difference %.6f, want branch length %.6f", id, d, bl)
		}
	}
}

func TestCoordinatesSpacing(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, nil, layout.Options{SpacingUnit: 10})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	// terminal rows must be multiples of the spacing unit
	want := []float64{0, 10, 20}
	var got []float64
	for _, id := range p.Nodes() {
		if !p.IsTerm(id) {
			continue
		}
		got = append(got, l.Coords[id].Y)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terminal rows: got %v, want %v", got, want)
	}
}

func TestYPolicies(t *testing.T) {
	// "((A,B),C,D);" with unit lengths:
	// the children of the root are at 0.5, 2, and 3
	c := &tree.Clade{
		Children: []*tree.Clade{
			{
				Length:    1,
				HasLength: true,
				Children: []*tree.Clade{
					{Name: "A", Length: 1, HasLength: true},
					{Name: "B", Length: 1, HasLength: true},
				},
			},
			{Name: "C", Length: 1, HasLength: true},
			{Name: "D", Length: 1, HasLength: true},
		},
	}
	p, err := tree.New("policies", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}

	lm, err := layout.New(p, nil, layout.Options{YPolicy: layout.Mean})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if g, w := lm.Coords[p.Root()].Y, (0.5+2.0+3.0)/3; math.Abs(g-w) > 1e-9 {
		t.Errorf("mean policy: root at %.6f, want %.6f", g, w)
	}

	le, err := layout.New(p, nil, layout.Options{YPolicy: layout.Extremes})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if g, w := le.Coords[p.Root()].Y, (0.5+3.0)/2; math.Abs(g-w) > 1e-9 {
		t.Errorf("extremes policy: root at %.6f, want %.6f", g, w)
	}
}

func TestSegments(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, nil, layout.Options{})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	want := []layout.Segment{
		{X0: 0, Y0: 0, X1: 0, Y1: 1.5},
		{X0: 0, Y0: 0, X1: 1, Y1: 0},
		{X0: 0, Y0: 1.5, X1: 1, Y1: 1.5},
		{X0: 1, Y0: 1, X1: 1, Y1: 2},
		{X0: 1, Y0: 1, X1: 2, Y1: 1},
		{X0: 1, Y0: 2, X1: 2, Y1: 2},
	}
	if !reflect.DeepEqual(l.Segments, want) {
		t.Errorf("segments: got %v, want %v", l.Segments, want)
	}

	// an internal node with k children
	// produces 1+k segments
	wantN := 0
	for _, id := range p.Nodes() {
		if k := len(p.Children(id)); k > 0 {
			wantN += 1 + k
		}
	}
	if len(l.Segments) != wantN {
		t.Errorf("segments: got %d, want %d", len(l.Segments), wantN)
	}
}

func TestJoin(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, newData(), layout.Options{
		Fields: []string{"location"},
		Palettes: map[string][]color.RGBA{
			"location": palette,
		},
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	want := []layout.Marker{
		{Taxon: "A", Field: "location", Value: "Paris", X: 1, Y: 0, Color: palette[0], Legend: true},
		{Taxon: "B", Field: "location", Value: "Paris", X: 2, Y: 1, Color: palette[0], Legend: false},
		{Taxon: "C", Field: "location", Value: "Tokyo", X: 2, Y: 2, Color: palette[1], Legend: true},
	}
	if !reflect.DeepEqual(l.TipMarkers, want) {
		t.Errorf("tip markers: got %v, want %v", l.TipMarkers, want)
	}

	legend := []layout.LegendEntry{
		{Value: "Paris", Color: palette[0]},
		{Value: "Tokyo", Color: palette[1]},
	}
	if !reflect.DeepEqual(l.Legends["location"], legend) {
		t.Errorf("legend: got %v, want %v", l.Legends["location"], legend)
	}
}

func TestJoinUnknown(t *testing.T) {
	p := newTree(t)

	d := metadata.New()
	d.Add("A", "location", "Paris")

	l, err := layout.New(p, d, layout.Options{
		Palettes: map[string][]color.RGBA{
			"location": palette,
		},
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	legend := []layout.LegendEntry{
		{Value: "Paris", Color: palette[0]},
		{Value: layout.Unknown, Color: palette[1]},
	}
	if !reflect.DeepEqual(l.Legends["location"], legend) {
		t.Errorf("legend: got %v, want %v", l.Legends["location"], legend)
	}

	// "B" is the first terminal without metadata
	m := l.TipMarkers[1]
	if m.Value != layout.Unknown || !m.Legend {
		t.Errorf("marker for %q: got {%s %v}, want a legend-visible %q", m.Taxon, m.Value, m.Legend, layout.Unknown)
	}
	m = l.TipMarkers[2]
	if m.Value != layout.Unknown || m.Legend {
		t.Errorf("marker for %q: got {%s %v}, want a legend-suppressed %q", m.Taxon, m.Value, m.Legend, layout.Unknown)
	}
}

func TestJoinWraparound(t *testing.T) {
	p := newTree(t)

	d := metadata.New()
	d.Add("A", "location", "Paris")
	d.Add("B", "location", "Tokyo")
	d.Add("C", "location", "Lima")

	l, err := layout.New(p, d, layout.Options{
		Palettes: map[string][]color.RGBA{
			"location": palette[:2],
		},
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	// with a two color palette,
	// the third value cycles to the first color
	legend := []layout.LegendEntry{
		{Value: "Paris", Color: palette[0]},
		{Value: "Tokyo", Color: palette[1]},
		{Value: "Lima", Color: palette[0]},
	}
	if !reflect.DeepEqual(l.Legends["location"], legend) {
		t.Errorf("legend: got %v, want %v", l.Legends["location"], legend)
	}
}

func TestJoinHeatmap(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, newData(), layout.Options{
		Fields:      []string{"location", "mlst"},
		HeatmapStep: 0.5,
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	if g, w := l.HeatmapX["mlst"], 2.5; g != w {
		t.Errorf("heatmap column: got %.3f, want %.3f", g, w)
	}
	if _, ok := l.HeatmapX["location"]; ok {
		t.Errorf("the first field should not be a heatmap column")
	}

	// six markers: two fields on three terminals
	if len(l.TipMarkers) != 6 {
		t.Fatalf("tip markers: got %d, want %d", len(l.TipMarkers), 6)
	}
	for _, m := range l.TipMarkers[3:] {
		if m.Field != "mlst" {
			t.Errorf("marker for %q: got field %q, want %q", m.Taxon, m.Field, "mlst")
		}
		if m.X != 2.5 {
			t.Errorf("marker for %q: got x %.3f, want %.3f", m.Taxon, m.X, 2.5)
		}
	}

	// independent legends per field:
	// "C" has no mlst row
	legend := []layout.LegendEntry{
		{Value: "ST-131", Color: layout.DefaultPalette()[0]},
		{Value: "ST-69", Color: layout.DefaultPalette()[1]},
		{Value: layout.Unknown, Color: layout.DefaultPalette()[2]},
	}
	if !reflect.DeepEqual(l.Legends["mlst"], legend) {
		t.Errorf("mlst legend: got %v, want %v", l.Legends["mlst"], legend)
	}
}

func TestSupport(t *testing.T) {
	p := newTree(t)
	l, err := layout.New(p, nil, layout.Options{
		SupportThreshold: 0.90,
		SupportScale:     layout.Fraction,
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	want := []layout.SupportMarker{
		{Node: 2, X: 1, Y: 1.5, Support: 0.95},
	}
	if !reflect.DeepEqual(l.SupportMarkers, want) {
		t.Errorf("support markers: got %v, want %v", l.SupportMarkers, want)
	}

	// under the threshold
	l, err = layout.New(p, nil, layout.Options{
		SupportThreshold: 0.95,
		SupportScale:     layout.Fraction,
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if len(l.SupportMarkers) != 0 {
		t.Errorf("support markers: got %v, want none", l.SupportMarkers)
	}

	// no declared scale
	l, err = layout.New(p, nil, layout.Options{})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if len(l.SupportMarkers) != 0 {
		t.Errorf("support markers: got %v, want none", l.SupportMarkers)
	}
}

func TestSupportScaleErrors(t *testing.T) {
	p := newTree(t)

	// threshold without a declared scale
	if _, err := layout.New(p, nil, layout.Options{SupportThreshold: 0.9}); !errors.Is(err, layout.ErrSupportScale) {
		t.Errorf("undeclared scale: got error %q, want %q", err, layout.ErrSupportScale)
	}

	// threshold out of the fraction range
	opt := layout.Options{
		SupportThreshold: 90,
		SupportScale:     layout.Fraction,
	}
	if _, err := layout.New(p, nil, opt); !errors.Is(err, layout.ErrSupportScale) {
		t.Errorf("fraction threshold 90: got error %q, want %q", err, layout.ErrSupportScale)
	}

	// percentage support values with a fraction threshold
	c := &tree.Clade{
		Children: []*tree.Clade{
			{Name: "A", Length: 1, HasLength: true},
			{
				Length:     1,
				HasLength:  true,
				Support:    95,
				HasSupport: true,
				Children: []*tree.Clade{
					{Name: "B", Length: 1, HasLength: true},
					{Name: "C", Length: 1, HasLength: true},
				},
			},
		},
	}
	pp, err := tree.New("percentage", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	opt = layout.Options{
		SupportThreshold: 0.9,
		SupportScale:     layout.Fraction,
	}
	if _, err := layout.New(pp, nil, opt); !errors.Is(err, layout.ErrSupportScale) {
		t.Errorf("mixed scales: got error %q, want %q", err, layout.ErrSupportScale)
	}

	// the same tree with the right scale
	opt = layout.Options{
		SupportThreshold: 90,
		SupportScale:     layout.Percentage,
	}
	l, err := layout.New(pp, nil, opt)
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if len(l.SupportMarkers) != 1 {
		t.Errorf("support markers: got %v, want one marker", l.SupportMarkers)
	}
}

func TestLayoutErrors(t *testing.T) {
	// a parser-delivered negative branch length
	c := &tree.Clade{
		Children: []*tree.Clade{
			{Name: "A", Length: -2.5, HasLength: true},
			{Name: "B", Length: 1, HasLength: true},
		},
	}
	p, err := tree.New("negative", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	if _, err := layout.New(p, nil, layout.Options{}); !errors.Is(err, layout.ErrBranchLength) {
		t.Errorf("negative length: got error %q, want %q", err, layout.ErrBranchLength)
	}

	// a negative default for undefined lengths
	u := &tree.Clade{
		Children: []*tree.Clade{
			{Name: "A"},
			{Name: "B", Length: 1, HasLength: true},
		},
	}
	pu, err := tree.New("undef", u)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	opt := layout.Options{BranchLengthDefault: -1}
	if _, err := layout.New(pu, nil, opt); !errors.Is(err, layout.ErrBranchLength) {
		t.Errorf("negative default length: got error %q, want %q", err, layout.ErrBranchLength)
	}

	pt := newTree(t)
	opt = layout.Options{Fields: []string{"location"}}
	if _, err := layout.New(pt, nil, opt); !errors.Is(err, metadata.ErrMissingColumn) {
		t.Errorf("no metadata: got error %q, want %q", err, metadata.ErrMissingColumn)
	}

	opt = layout.Options{Fields: []string{"serotype"}}
	if _, err := layout.New(pt, newData(), opt); !errors.Is(err, metadata.ErrMissingColumn) {
		t.Errorf("absent field: got error %q, want %q", err, metadata.ErrMissingColumn)
	}
}

func TestLayoutDeterminism(t *testing.T) {
	p := newTree(t)
	opt := layout.Options{
		MidpointRoot:     true,
		SupportThreshold: 0.9,
		SupportScale:     layout.Fraction,
		ShowTipLabels:    true,
	}

	l1, err := layout.New(p, newData(), opt)
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	l2, err := layout.New(p, newData(), opt)
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if !reflect.DeepEqual(l1, l2) {
		t.Errorf("two layouts of the same input are different")
	}
}

func TestLayoutSize(t *testing.T) {
	p := newTree(t)

	// small trees take the minimum size
	l, err := layout.New(p, nil, layout.Options{})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if l.Height != 1000 {
		t.Errorf("height: got %.1f, want %.1f", l.Height, 1000.0)
	}
	if l.Width != 1200 {
		t.Errorf("width: got %.1f, want %.1f", l.Width, 1200.0)
	}

	// with small minimums,
	// the size grows with the tree
	opt := layout.Options{
		MinHeight: 1,
		RowHeight: 25,
		MinWidth:  1,
		BaseWidth: 100,
		CharWidth: 10,
	}
	l, err = layout.New(p, nil, opt)
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if w := 3 * 25.0; l.Height != w {
		t.Errorf("height: got %.1f, want %.1f", l.Height, w)
	}
	// the longest terminal name has a single character
	if w := 100 + 10.0; l.Width != w {
		t.Errorf("width: got %.1f, want %.1f", l.Width, w)
	}
}

func TestTipLabels(t *testing.T) {
	c := &tree.Clade{
		Children: []*tree.Clade{
			{Name: "sample-virus-strain", Length: 1, HasLength: true},
			{Name: "B", Length: 1, HasLength: true},
		},
	}
	p, err := tree.New("labels", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}

	l, err := layout.New(p, nil, layout.Options{
		ShowTipLabels:  true,
		LabelWrapWidth: 8,
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	want := []layout.TipLabel{
		{Taxon: "sample-virus-strain", X: 1, Y: 0, Lines: []string{"sample-v", "irus-str", "ain"}},
		{Taxon: "B", X: 1, Y: 1, Lines: []string{"B"}},
	}
	if !reflect.DeepEqual(l.Labels, want) {
		t.Errorf("labels: got %v, want %v", l.Labels, want)
	}

	l, err = layout.New(p, nil, layout.Options{})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}
	if len(l.Labels) != 0 {
		t.Errorf("labels: got %v, want none", l.Labels)
	}
}
