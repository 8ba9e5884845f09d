// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/phylodraw/colorkey"
	"github.com/js-arias/phylodraw/metadata"
	"github.com/js-arias/timetree"
)

// ColorKeys reads a color key file
// as defined in a project.
// If the project has no key file,
// it returns an empty key set.
func (p *Project) ColorKeys() (*colorkey.Keys, error) {
	name := p.Path(Keys)
	if name == "" {
		return colorkey.New(), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	k, err := colorkey.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return k, nil
}

// Metadata reads a metadata table
// as defined in a project.
// If the project has no metadata file,
// it returns a nil table.
func (p *Project) Metadata() (*metadata.Data, error) {
	name := p.Path(Metadata)
	if name == "" {
		return nil, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := metadata.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return d, nil
}

// TreeCollection reads a tree collection file
// as defined in a project.
func (p *Project) TreeCollection() (*timetree.Collection, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}
