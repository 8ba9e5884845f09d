// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package colorkey implements color palettes
// for categorical metadata fields,
// stored as key files.
package colorkey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Keys stores an ordered color palette
// per categorical field.
type Keys struct {
	fields []string
	pal    map[string][]color.RGBA
}

// New creates a new empty set of keys.
func New() *Keys {
	return &Keys{
		pal: make(map[string][]color.RGBA),
	}
}

// Add appends a color to the palette
// of the given field.
func (k *Keys) Add(field string, c color.RGBA) {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return
	}
	if !slices.Contains(k.fields, field) {
		k.fields = append(k.fields, field)
	}
	k.pal[field] = append(k.pal[field], c)
}

// Fields returns the fields with a defined palette,
// in the order in which they were first added.
func (k *Keys) Fields() []string {
	return slices.Clone(k.fields)
}

// Palette returns the ordered color list
// of the given field.
func (k *Keys) Palette(field string) []color.RGBA {
	field = strings.ToLower(strings.TrimSpace(field))
	return slices.Clone(k.pal[field])
}

// Palettes returns all the palettes of the key set,
// indexed by field.
func (k *Keys) Palettes() map[string][]color.RGBA {
	p := make(map[string][]color.RGBA, len(k.pal))
	for _, f := range k.fields {
		p[f] = slices.Clone(k.pal[f])
	}
	return p
}

// Read reads a key file used to define the palettes
// for categorical metadata fields.
//
// A key file is a tab-delimited file
// with the following required columns:
//
//   - field	the name of the categorical field
//   - color	an RGB value separated by commas,
//     for example "125,132,148"
//
// The colors of a field are assigned
// in the order in which they appear in the file.
// Any other column will be ignored.
// Here is an example of a key file:
//
//	field	color	comment
//	location	0, 84, 119	first sampled location
//	location	255, 165, 0
//	mlst	68, 167, 196
//	mlst	251, 236, 93
func Read(r io.Reader) (*Keys, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"field", "color"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting column %q", h)
		}
	}

	k := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		field := row[fields["field"]]
		c, err := parseColor(row[fields["color"]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		k.Add(field, c)
	}
	return k, nil
}

// TSV writes the keys as a TSV file.
func (k *Keys) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write([]string{"field", "color"}); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, f := range k.fields {
		for _, c := range k.pal[f] {
			row := []string{
				f,
				fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B),
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("unable to write data: %v", err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

func parseColor(s string) (color.RGBA, error) {
	vals := strings.Split(s, ",")
	if len(vals) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid color value: %q", s)
	}

	rgb := make([]uint8, 3)
	for i, v := range vals {
		x, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color value: %q: %v", s, err)
		}
		if x < 0 || x > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color value: %q", s)
		}
		rgb[i] = uint8(x)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
