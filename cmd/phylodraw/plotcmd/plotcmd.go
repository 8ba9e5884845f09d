// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plotcmd implements a command to render
// the trees of a PhyloDraw project as PNG images.
package plotcmd

import (
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylodraw/layout"
	"github.com/js-arias/phylodraw/project"
	"github.com/js-arias/phylodraw/tree"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var Command = &command.Command{
	Usage: `plot [--tree <tree>]
	[--fields <field>[,<field>...]]
	[--midpoint] [--policy <policy>]
	[--support <value>] [--scale <scale>]
	[--labels] [--deflen <value>]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "render project trees as PNG images",
	Long: `
Command plot reads the trees of a PhyloDraw project and renders each tree as
a rectangular dendrogram into a PNG image, with the terminals colored by the
categorical fields of the project metadata, and a legend with the colors of
each field.

The argument of the command is the name of the project file.

The flags of the command are the same as the flags of the draw command; see
"phylodraw help draw" for their description.

By default, the names of the trees will be used as the output file names. Use
the flag -o, or --output, to define a prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var fieldsFlag string
var midpoint bool
var policyFlag string
var supportFlag float64
var scaleFlag string
var labelsFlag bool
var defLen float64
var treeName string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&fieldsFlag, "fields", "", "")
	c.Flags().BoolVar(&midpoint, "midpoint", false, "")
	c.Flags().StringVar(&policyFlag, "policy", "", "")
	c.Flags().Float64Var(&supportFlag, "support", 0, "")
	c.Flags().StringVar(&scaleFlag, "scale", "", "")
	c.Flags().BoolVar(&labelsFlag, "labels", false, "")
	c.Flags().Float64Var(&defLen, "deflen", 0, "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

const millionYears = 1_000_000

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	tc, err := p.TreeCollection()
	if err != nil {
		return err
	}
	md, err := p.Metadata()
	if err != nil {
		return err
	}
	keys, err := p.ColorKeys()
	if err != nil {
		return err
	}

	opt := layout.Options{
		BranchLengthDefault: defLen,
		MidpointRoot:        midpoint,
		Fields:              parseFields(fieldsFlag),
		Palettes:            keys.Palettes(),
		SupportThreshold:    supportFlag,
		ShowTipLabels:       labelsFlag,
	}
	opt.YPolicy, err = parsePolicy(policyFlag)
	if err != nil {
		return err
	}
	opt.SupportScale, err = parseScale(scaleFlag)
	if err != nil {
		return err
	}

	for _, tn := range tc.Names() {
		if treeName != "" && tn != treeName {
			continue
		}
		t, err := tree.FromTimeTree(tc.Tree(tn), millionYears)
		if err != nil {
			return err
		}
		l, err := layout.New(t, md, opt)
		if err != nil {
			return err
		}
		if err := writePNG(tn, l); err != nil {
			return err
		}
	}
	return nil
}

func parseFields(s string) []string {
	if s == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func parsePolicy(s string) (layout.YPolicy, error) {
	switch strings.ToLower(s) {
	case "", "mean":
		return layout.Mean, nil
	case "extremes":
		return layout.Extremes, nil
	}
	return 0, fmt.Errorf("invalid --policy value: %q", s)
}

func parseScale(s string) (layout.Scale, error) {
	switch strings.ToLower(s) {
	case "":
		return layout.NoScale, nil
	case "fraction":
		return layout.Fraction, nil
	case "percentage":
		return layout.Percentage, nil
	}
	return 0, fmt.Errorf("invalid --scale value: %q", s)
}

// A treePlot draws the dendrogram geometry
// on a gonum plot.
// The vertical axis is negated,
// so the first terminal is drawn at the top.
type treePlot struct {
	l     *layout.Layout
	style draw.LineStyle
}

// DataRange implements the plot.DataRanger interface.
func (tp *treePlot) DataRange() (xMin, xMax, yMin, yMax float64) {
	xMax = tp.l.MaxX
	for _, m := range tp.l.TipMarkers {
		if m.X > xMax {
			xMax = m.X
		}
	}
	if xMax == 0 {
		xMax = 1
	}

	var maxY float64
	for _, pt := range tp.l.Coords {
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	return 0, xMax * 1.35, -maxY - 1, 1
}

// Plot implements the plot.Plotter interface.
func (tp *treePlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	c.SetLineStyle(tp.style)
	for _, sg := range tp.l.Segments {
		var p vg.Path
		p.Move(vg.Point{X: trX(sg.X0), Y: trY(-sg.Y0)})
		p.Line(vg.Point{X: trX(sg.X1), Y: trY(-sg.Y1)})
		c.Stroke(p)
	}

	for _, m := range tp.l.TipMarkers {
		sty := draw.GlyphStyle{
			Color:  m.Color,
			Radius: vg.Points(4),
			Shape:  draw.CircleGlyph{},
		}
		c.DrawGlyph(sty, vg.Point{X: trX(m.X), Y: trY(-m.Y)})
	}

	for _, m := range tp.l.SupportMarkers {
		sty := draw.GlyphStyle{
			Color:  plotter.DefaultLineStyle.Color,
			Radius: vg.Points(4),
			Shape:  draw.PyramidGlyph{},
		}
		c.DrawGlyph(sty, vg.Point{X: trX(m.X), Y: trY(-m.Y)})
	}
}

func writePNG(name string, l *layout.Layout) error {
	p := plot.New()
	p.HideAxes()

	tp := &treePlot{
		l:     l,
		style: plotter.DefaultLineStyle,
	}
	p.Add(tp)

	if len(l.Labels) > 0 {
		xys := make(plotter.XYs, 0, len(l.Labels))
		names := make([]string, 0, len(l.Labels))
		for _, lb := range l.Labels {
			xys = append(xys, plotter.XY{X: lb.X, Y: -lb.Y})
			names = append(names, lb.Taxon)
		}
		lbs, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    xys,
			Labels: names,
		})
		if err != nil {
			return err
		}
		p.Add(lbs)
	}

	for _, f := range l.Fields {
		for _, le := range l.Legends[f] {
			sc, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
			if err != nil {
				return err
			}
			sc.GlyphStyle = draw.GlyphStyle{
				Color:  le.Color,
				Radius: vg.Points(4),
				Shape:  draw.CircleGlyph{},
			}
			p.Legend.Add(fmt.Sprintf("%s: %s", f, le.Value), sc)
		}
	}

	if outPrefix != "" {
		name = fmt.Sprintf("%s-%s.png", outPrefix, name)
	} else {
		name += ".png"
	}
	if err := p.Save(vg.Points(l.Width), vg.Points(l.Height), name); err != nil {
		return err
	}
	return nil
}
