// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyloDraw is a tool to draw phylogenetic trees
// as rectangular dendrograms
// with sample metadata.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylodraw/cmd/phylodraw/draw"
	"github.com/js-arias/phylodraw/cmd/phylodraw/legend"
	"github.com/js-arias/phylodraw/cmd/phylodraw/list"
	"github.com/js-arias/phylodraw/cmd/phylodraw/plotcmd"
	"github.com/js-arias/phylodraw/cmd/phylodraw/set"
)

var app = &command.Command{
	Usage: "phylodraw <command> [<argument>...]",
	Short: "a tool to draw phylogenetic trees with sample metadata",
}

func init() {
	app.Add(draw.Command)
	app.Add(legend.Command)
	app.Add(list.Command)
	app.Add(plotcmd.Command)
	app.Add(set.Command)
}

func main() {
	app.Main()
}
