// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to set
// the data files of a PhyloDraw project.
package set

import (
	"errors"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylodraw/project"
)

var Command = &command.Command{
	Usage: `set [--trees <tree-file>]
	[--metadata <metadata-file>] [--keys <key-file>]
	<project-file>`,
	Short: "set the data files of a PhyloDraw project",
	Long: `
Command set defines the data files of a PhyloDraw project. If the project
file does not exist, a new project will be created.

The argument of the command is the name of the project file.

The flag --trees sets the tree file of the project, a tab-delimited file with
one or more time calibrated trees. The tree file is required by most of the
PhyloDraw commands.

The flag --metadata sets the metadata file of the project, a tab-delimited
file with a "taxa" column matching the tree terminals, and any number of
categorical columns (for example the sampling location, or the strain type).

The flag --keys sets a color key file, a tab-delimited file that defines the
color palettes used for the categorical fields of the metadata.

An empty path removes the dataset from the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var metaFile string
var keyFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "trees", "", "")
	c.Flags().StringVar(&metaFile, "metadata", "", "")
	c.Flags().StringVar(&keyFile, "keys", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	if treeFile != "" {
		p.Add(project.Trees, treeFile)
	}
	if metaFile != "" {
		p.Add(project.Metadata, metaFile)
	}
	if keyFile != "" {
		p.Add(project.Keys, keyFile)
	}

	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p = project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
