// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phylodraw/metadata"
)

func newData() *metadata.Data {
	d := metadata.New()
	d.Add("sample-01", "location", "Paris")
	d.Add("sample-02", "location", "Paris")
	d.Add("sample-03", "location", "Tokyo")
	d.Add("sample-01", "MLST", "ST-131")
	d.Add("sample-02", "mlst", "ST-69")
	return d
}

func TestData(t *testing.T) {
	d := newData()

	if fields := d.Fields(); !reflect.DeepEqual(fields, []string{"location", "mlst"}) {
		t.Errorf("fields: got %v, want %v", fields, []string{"location", "mlst"})
	}
	if !d.HasField("Location") {
		t.Errorf("field %q not found", "location")
	}
	if d.HasField("serotype") {
		t.Errorf("unexpected field %q", "serotype")
	}

	taxa := []string{"sample-01", "sample-02", "sample-03"}
	if g := d.Taxa(); !reflect.DeepEqual(g, taxa) {
		t.Errorf("taxa: got %v, want %v", g, taxa)
	}

	if v := d.Value("sample-01", "mlst"); v != "ST-131" {
		t.Errorf("value: got %q, want %q", v, "ST-131")
	}
	if v := d.Value("sample-03", "mlst"); v != "" {
		t.Errorf("value: got %q, want an empty string", v)
	}
	if v := d.Value("sample-99", "location"); v != "" {
		t.Errorf("value: got %q, want an empty string", v)
	}
}

var metadataBlob = `# metadata of an imaginary outbreak
taxa	location	mlst
sample-01	Paris	ST-131
sample-02	Paris	ST-69
sample-03	Tokyo	
`

func TestReadTSV(t *testing.T) {
	d, err := metadata.ReadTSV(strings.NewReader(metadataBlob))
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	if !reflect.DeepEqual(d, newData()) {
		t.Errorf("got %v, want %v", d, newData())
	}
}

func TestReadTSVNoTaxa(t *testing.T) {
	blob := "name\tlocation\nsample-01\tParis\n"
	if _, err := metadata.ReadTSV(strings.NewReader(blob)); !errors.Is(err, metadata.ErrMissingColumn) {
		t.Errorf("got error %q, want %q", err, metadata.ErrMissingColumn)
	}
}

func TestTSV(t *testing.T) {
	d := newData()

	var buf bytes.Buffer
	if err := d.TSV(&buf); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	nd, err := metadata.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	if !reflect.DeepEqual(nd, d) {
		t.Errorf("got %v, want %v", nd, d)
	}
}
