// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package legend implements a command to print
// the color legends of the trees in a PhyloDraw project.
package legend

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylodraw/layout"
	"github.com/js-arias/phylodraw/project"
	"github.com/js-arias/phylodraw/tree"
)

var Command = &command.Command{
	Usage: `legend [--tree <tree>]
	[--fields <field>[,<field>...]]
	<project-file>`,
	Short: "print the color legends of the project trees",
	Long: `
Command legend reads the trees and the metadata of a PhyloDraw project, and
prints the color assigned to each value of the categorical metadata fields as
a TSV table in the standard output.

The argument of the command is the name of the project file.

As colors are assigned by the order in which the values are found on the
terminals of a tree, the legend is reported per tree. By default, all trees
of the project are reported; use the flag --tree to report only the
indicated tree.

By default, all the fields of the project metadata are reported; use the
flag --fields with a comma-separated list of fields to select particular
fields.

The output has the following columns:

	tree	the name of the tree
	field	the categorical metadata field
	value	a value of the field
	color	the assigned color, as an RGB value
	        separated by commas
`,
	SetFlags: setFlags,
	Run:      run,
}

var fieldsFlag string
var treeName string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&fieldsFlag, "fields", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
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
		Fields:   parseFields(fieldsFlag),
		Palettes: keys.Palettes(),
	}

	tab := csv.NewWriter(c.Stdout())
	tab.Comma = '\t'
	if err := tab.Write([]string{"tree", "field", "value", "color"}); err != nil {
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

		for _, f := range l.Fields {
			for _, le := range l.Legends[f] {
				row := []string{
					tn,
					f,
					le.Value,
					fmt.Sprintf("%d,%d,%d", le.Color.R, le.Color.G, le.Color.B),
				}
				if err := tab.Write(row); err != nil {
					return err
				}
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return err
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
