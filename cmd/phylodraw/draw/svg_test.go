// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/js-arias/phylodraw/layout"
	"github.com/js-arias/phylodraw/tree"
)

func TestScalesWideLabels(t *testing.T) {
	// a label column wider than the canvas
	// must not mirror the drawing
	c := &tree.Clade{
		Children: []*tree.Clade{
			{Name: strings.Repeat("x", 80), Length: 1, HasLength: true},
			{Name: "B", Length: 1, HasLength: true},
		},
	}
	p, err := tree.New("wide", c)
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}

	l, err := layout.New(p, nil, layout.Options{
		ShowTipLabels: true,
		MinWidth:      50,
		CharWidth:     0.1,
	})
	if err != nil {
		t.Fatalf("unable to make layout: %v", err)
	}

	s := scales(l)
	if s.xScale <= 0 {
		t.Errorf("x scale: got %.3f, want a positive value", s.xScale)
	}

	var buf bytes.Buffer
	if err := drawSVG(&buf, l); err != nil {
		t.Fatalf("unable to draw tree: %v", err)
	}
}
