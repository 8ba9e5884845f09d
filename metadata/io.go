// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadTSV reads a metadata table from a TSV file.
//
// The TSV file must contain a "taxa" column
// with the name of the terminal of each row.
// Any other column is read as an independent
// categorical field.
// Empty values are valid
// and read as unset.
//
// Here is an example file:
//
//	taxa	location	mlst
//	sample-01	Paris	ST-131
//	sample-02	Paris	ST-69
//	sample-03	Tokyo	ST-131
func ReadTSV(r io.Reader) (*Data, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	cols := make([]string, 0, len(head))
	for i, h := range head {
		h = canon(h)
		if _, dup := fields[h]; dup {
			continue
		}
		fields[h] = i
		if h != "taxa" {
			cols = append(cols, h)
		}
	}
	if _, ok := fields["taxa"]; !ok {
		return nil, fmt.Errorf("%w: expecting column %q", ErrMissingColumn, "taxa")
	}

	d := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		tax := strings.TrimSpace(row[fields["taxa"]])
		if tax == "" {
			continue
		}
		for _, f := range cols {
			d.Add(tax, f, row[fields[f]])
		}
	}
	return d, nil
}

// TSV writes a metadata table as a TSV file.
func (d *Data) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"taxa"}, d.fields...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, tx := range d.Taxa() {
		row := make([]string, 0, len(header))
		row = append(row, tx)
		for _, f := range d.fields {
			row = append(row, d.Value(tx, f))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("unable to write data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
