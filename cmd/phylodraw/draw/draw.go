// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// the trees of a PhyloDraw project as SVG files.
package draw

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylodraw/layout"
	"github.com/js-arias/phylodraw/project"
	"github.com/js-arias/phylodraw/tree"
)

var Command = &command.Command{
	Usage: `draw [--tree <tree>]
	[--fields <field>[,<field>...]]
	[--midpoint] [--policy <policy>]
	[--support <value>] [--scale <scale>]
	[--labels] [--deflen <value>]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "draw project trees as SVG files",
	Long: `
Command draw reads the trees of a PhyloDraw project and draws each tree as a
rectangular dendrogram into an SVG-encoded file, with the terminals colored
by the categorical fields of the project metadata.

The argument of the command is the name of the project file.

By default, all trees in the project will be drawn. If the flag --tree is
set, only the indicated tree will be drawn.

If the project has a metadata file, the terminals of the tree will be colored
by the values of the categorical fields of the metadata. The first field is
drawn at the tips of the tree, and any additional field is drawn as a heatmap
column by the side of the tree. By default, all fields of the metadata will
be used; use the flag --fields with a comma-separated list of fields to
select particular fields. Terminals without metadata will be drawn with the
"Unknown" category. A legend with the colors of each field will be added at
the bottom of the drawing.

If the flag --midpoint is given, the tree will be re-rooted at the midpoint
of the longest path between two terminals before the layout.

By default, internal nodes are placed at the mean of the vertical position of
all their children. Use the flag --policy to select the placement policy:
"mean" or "extremes" (midway between the first and last children).

If the flag --support is given, internal nodes with a support value greater
than the indicated value will be marked. The scale of the support values must
be declared with the flag --scale, either "fraction" (values in 0-1) or
"percentage" (values in 0-100).

If the flag --labels is given, the names of the terminals will be drawn by
the tips of the tree.

Branches without a defined length are drawn with a zero length. Use the flag
--deflen to set a different default length, in million years.

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

	ls := tc.Names()
	for _, tn := range ls {
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
		if err := writeSVG(tn, l); err != nil {
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

func writeSVG(name string, l *layout.Layout) (err error) {
	if outPrefix != "" {
		name = fmt.Sprintf("%s-%s.svg", outPrefix, name)
	} else {
		name += ".svg"
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := drawSVG(bw, l); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
