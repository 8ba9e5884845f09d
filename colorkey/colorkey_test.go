// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package colorkey_test

import (
	"bytes"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phylodraw/colorkey"
)

func newKeys() *colorkey.Keys {
	k := colorkey.New()
	k.Add("location", color.RGBA{0, 84, 119, 255})
	k.Add("location", color.RGBA{255, 165, 0, 255})
	k.Add("mlst", color.RGBA{68, 167, 196, 255})
	k.Add("mlst", color.RGBA{251, 236, 93, 255})
	return k
}

func TestKeys(t *testing.T) {
	k := newKeys()

	if fields := k.Fields(); !reflect.DeepEqual(fields, []string{"location", "mlst"}) {
		t.Errorf("fields: got %v, want %v", fields, []string{"location", "mlst"})
	}

	pal := []color.RGBA{
		{0, 84, 119, 255},
		{255, 165, 0, 255},
	}
	if g := k.Palette("Location"); !reflect.DeepEqual(g, pal) {
		t.Errorf("palette: got %v, want %v", g, pal)
	}
	if g := k.Palette("serotype"); len(g) != 0 {
		t.Errorf("palette: got %v, want an empty palette", g)
	}

	all := k.Palettes()
	if len(all) != 2 {
		t.Errorf("palettes: got %d fields, want %d", len(all), 2)
	}
	if !reflect.DeepEqual(all["location"], pal) {
		t.Errorf("palettes: got %v, want %v", all["location"], pal)
	}
}

var keyBlob = `# the colors of the outbreak report
field	color	comment
location	0, 84, 119	first sampled location
location	255, 165, 0	
mlst	68, 167, 196	
mlst	251, 236, 93	
`

func TestRead(t *testing.T) {
	k, err := colorkey.Read(strings.NewReader(keyBlob))
	if err != nil {
		t.Fatalf("unable to read keys: %v", err)
	}
	if !reflect.DeepEqual(k, newKeys()) {
		t.Errorf("got %v, want %v", k, newKeys())
	}
}

func TestReadErrors(t *testing.T) {
	blobs := map[string]string{
		"no field column": "key\tcolor\nlocation\t0,84,119\n",
		"no color column": "field\trgb\nlocation\t0,84,119\n",
		"bad color":       "field\tcolor\nlocation\t0,84\n",
		"out of range":    "field\tcolor\nlocation\t0,84,300\n",
		"not a number":    "field\tcolor\nlocation\t0,84,blue\n",
	}
	for name, blob := range blobs {
		if _, err := colorkey.Read(strings.NewReader(blob)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestKeysTSV(t *testing.T) {
	k := newKeys()

	var buf bytes.Buffer
	if err := k.TSV(&buf); err != nil {
		t.Fatalf("unable to write keys: %v", err)
	}
	nk, err := colorkey.Read(&buf)
	if err != nil {
		t.Fatalf("unable to read keys: %v", err)
	}
	if !reflect.DeepEqual(nk, k) {
		t.Errorf("got %v, want %v", nk, k)
	}
}
