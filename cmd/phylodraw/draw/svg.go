// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/js-arias/phylodraw/layout"
)

const margin = 10

// assume that each character has 6 pixels wide
const charWidth = 6

// vertical pixels used by a legend row
const legendStep = 14

// minimum horizontal span of the tree,
// for drawings with a label column
// wider than the canvas
const minSpan = 10

type svgCanvas struct {
	l *layout.Layout

	xScale float64
	yScale float64
	taxSz  int
}

// Scales maps the layout plane onto the canvas
// defined by the layout sizing:
// the tree spans the width left
// after the margins and the label column,
// and the terminal rows span the height.
func scales(l *layout.Layout) svgCanvas {
	taxSz := 0
	for _, lb := range l.Labels {
		for _, ln := range lb.Lines {
			if len(ln) > taxSz {
				taxSz = len(ln)
			}
		}
	}

	extX := l.MaxX
	for _, m := range l.TipMarkers {
		if m.X > extX {
			extX = m.X
		}
	}
	if extX == 0 {
		extX = 1
	}

	maxY := 0.0
	for _, pt := range l.Coords {
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	if maxY == 0 {
		maxY = 1
	}

	avail := l.Width - 2*margin - float64(taxSz*charWidth)
	if avail < minSpan {
		avail = minSpan
	}

	return svgCanvas{
		l:      l,
		xScale: avail / extX,
		yScale: (l.Height - 2*margin) / maxY,
		taxSz:  taxSz,
	}
}

func (s svgCanvas) x(v float64) float64 { return margin + v*s.xScale }
func (s svgCanvas) y(v float64) float64 { return margin + v*s.yScale }

func drawSVG(w io.Writer, l *layout.Layout) error {
	s := scales(l)

	legendRows := 0
	for _, f := range l.Fields {
		legendRows += len(l.Legends[f]) + 1
	}
	height := int(l.Height) + legendRows*legendStep + margin

	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(height)},
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(l.Width))},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	s.branches(e)
	s.markers(e)
	s.supports(e)
	s.labels(e)
	s.legend(e, int(l.Height))

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (s svgCanvas) branches(e *xml.Encoder) {
	for _, sg := range s.l.Segments {
		ln := xml.StartElement{
			Name: xml.Name{Local: "line"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(s.x(sg.X0)))},
				{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(int(s.y(sg.Y0)))},
				{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(s.x(sg.X1)))},
				{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(int(s.y(sg.Y1)))},
			},
		}
		e.EncodeToken(ln)
		e.EncodeToken(ln.End())
	}
}

func (s svgCanvas) markers(e *xml.Encoder) {
	for _, m := range s.l.TipMarkers {
		c := xml.StartElement{
			Name: xml.Name{Local: "circle"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "cx"}, Value: strconv.Itoa(int(s.x(m.X)))},
				{Name: xml.Name{Local: "cy"}, Value: strconv.Itoa(int(s.y(m.Y)))},
				{Name: xml.Name{Local: "r"}, Value: "5"},
				{Name: xml.Name{Local: "fill"}, Value: rgb(m.Color)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "1"},
			},
		}
		e.EncodeToken(c)
		e.EncodeToken(c.End())
	}
}

func (s svgCanvas) supports(e *xml.Encoder) {
	for _, m := range s.l.SupportMarkers {
		x := s.x(m.X)
		y := s.y(m.Y)
		pts := fmt.Sprintf("%d,%d %d,%d %d,%d %d,%d",
			int(x), int(y-5),
			int(x+5), int(y),
			int(x), int(y+5),
			int(x-5), int(y))
		d := xml.StartElement{
			Name: xml.Name{Local: "polygon"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "points"}, Value: pts},
				{Name: xml.Name{Local: "fill"}, Value: "black"},
			},
		}
		e.EncodeToken(d)
		e.EncodeToken(d.End())
	}
}

func (s svgCanvas) labels(e *xml.Encoder) {
	for _, lb := range s.l.Labels {
		for i, ln := range lb.Lines {
			tx := xml.StartElement{
				Name: xml.Name{Local: "text"},
				Attr: []xml.Attr{
					{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(s.x(lb.X)) + 10)},
					{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(int(s.y(lb.Y)) + 5 + i*12)},
					{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
					{Name: xml.Name{Local: "font-style"}, Value: "italic"},
				},
			}
			e.EncodeToken(tx)
			e.EncodeToken(xml.CharData(ln))
			e.EncodeToken(tx.End())
		}
	}
}

func (s svgCanvas) legend(e *xml.Encoder, top int) {
	y := top + legendStep
	for _, f := range s.l.Fields {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(margin)},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(y)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "font-weight"}, Value: "bold"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(f))
		e.EncodeToken(tx.End())
		y += legendStep

		for _, le := range s.l.Legends[f] {
			r := xml.StartElement{
				Name: xml.Name{Local: "rect"},
				Attr: []xml.Attr{
					{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(margin)},
					{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(y - 10)},
					{Name: xml.Name{Local: "width"}, Value: "10"},
					{Name: xml.Name{Local: "height"}, Value: "10"},
					{Name: xml.Name{Local: "fill"}, Value: rgb(le.Color)},
					{Name: xml.Name{Local: "stroke-width"}, Value: "1"},
				},
			}
			e.EncodeToken(r)
			e.EncodeToken(r.End())

			tx := xml.StartElement{
				Name: xml.Name{Local: "text"},
				Attr: []xml.Attr{
					{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(margin + 16)},
					{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(y)},
					{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				},
			}
			e.EncodeToken(tx)
			e.EncodeToken(xml.CharData(le.Value))
			e.EncodeToken(tx.End())
			y += legendStep
		}
	}
}

func rgb(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
