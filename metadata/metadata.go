// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package metadata provides a table of categorical observations
// (for example the sampling location,
// or the strain type)
// for the terminals of a phylogenetic tree.
package metadata

import (
	"errors"
	"slices"
	"strings"
)

// ErrMissingColumn is used when a required column
// is absent from a metadata table.
var ErrMissingColumn = errors.New("missing metadata column")

// Data is a collection of categorical values
// observed in a set of taxa.
// Each field is an independent category
// (for example "location" or "mlst").
type Data struct {
	fields []string
	vals   map[string]map[string]string
}

// New creates a new empty data set.
func New() *Data {
	return &Data{
		vals: make(map[string]map[string]string),
	}
}

// Add adds a value of a categorical field
// for a given taxon.
// Empty taxon names,
// field names,
// or values are ignored.
func (d *Data) Add(taxon, field, value string) {
	taxon = strings.TrimSpace(taxon)
	if taxon == "" {
		return
	}
	field = canon(field)
	if field == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	if !slices.Contains(d.fields, field) {
		d.fields = append(d.fields, field)
	}
	obs, ok := d.vals[taxon]
	if !ok {
		obs = make(map[string]string)
		d.vals[taxon] = obs
	}
	obs[field] = value
}

// Fields returns the names of the categorical fields
// of the data set,
// in the order in which they were first added.
func (d *Data) Fields() []string {
	return slices.Clone(d.fields)
}

// HasField returns true if the given field
// is defined in the data set.
func (d *Data) HasField(field string) bool {
	return slices.Contains(d.fields, canon(field))
}

// Taxa returns the taxon names of the data set,
// sorted alphabetically.
func (d *Data) Taxa() []string {
	taxa := make([]string, 0, len(d.vals))
	for tx := range d.vals {
		taxa = append(taxa, tx)
	}
	slices.Sort(taxa)
	return taxa
}

// Value returns the value of a categorical field
// for a given taxon.
// It returns an empty string
// if the taxon or the field are not in the data set.
func (d *Data) Value(taxon, field string) string {
	obs, ok := d.vals[strings.TrimSpace(taxon)]
	if !ok {
		return ""
	}
	return obs[canon(field)]
}

func canon(field string) string {
	return strings.ToLower(strings.TrimSpace(field))
}
