// Package table draws fixed-column tables on a canvas.
//
// Every row has exactly one cell per column, cells are bordered and sized by
// their column, and a row is emitted in one pass so an automatic page break
// can only happen before its first cell. Header rows are redrawn by the
// canvas page-start function, not by the table itself.
package table

import "github.com/lvillar/reportes/canvas"

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Style string  // "", "B", "I", "BI"
	Size  float64 // in points
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Header       FontSpec
	HeaderHeight float64
	Body         FontSpec
	RowHeight    float64
	Border       bool
}

// DefaultStyle is a bordered table with bold 10pt labels in 7-unit rows and
// 8pt body text in 6-unit rows.
func DefaultStyle() TableStyle {
	return TableStyle{
		Header:       FontSpec{Style: canvas.StyleBold, Size: 10},
		HeaderHeight: 7,
		Body:         FontSpec{Style: canvas.StyleRegular, Size: 8},
		RowHeight:    6,
		Border:       true,
	}
}
