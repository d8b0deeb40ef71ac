// Package canvas is the drawing surface the report layouts write to.
//
// Two implementations are provided: PDF, backed by go-pdf/fpdf, which produces
// the printable document, and Recorder, which lays out the same content in
// memory and keeps every drawing operation for inspection. Both break pages
// automatically when a cell would overflow the printable height, and both
// call the page-start and page-end functions supplied through options instead
// of relying on subclassing.
package canvas

import (
	"fmt"
	"strings"
)

// Alignment values for cells and paragraphs.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Font styles.
const (
	StyleRegular = ""
	StyleBold    = "B"
	StyleItalic  = "I"
)

// CellOpts controls a single cell.
type CellOpts struct {
	Border bool
	Align  string
	// Break moves the cursor to the start of the next line after the cell.
	Break bool
	// Size overrides the current font size for this cell only.
	Size float64
}

// ParagraphStyle controls an absolutely positioned paragraph.
type ParagraphStyle struct {
	Style   string
	Size    float64
	Leading float64
	Indent  float64
	Align   string
}

// Canvas is an append-only page-oriented drawing surface.
type Canvas interface {
	// StringWidth measures text in the current font style at size.
	StringWidth(text string, size float64) float64

	SetFont(style string, size float64)
	// Cell draws a cell of width w (0 extends to the right margin) and
	// advances the cursor horizontally, or to the next line when
	// opts.Break is set. A page break happens before the cell when it
	// would cross the bottom margin.
	Cell(w, h float64, text string, opts CellOpts)
	// Ln moves to the start of the next line, h below the current one. A
	// negative h uses the height of the last cell.
	Ln(h float64)
	// Paragraph places text with its top-left corner at (x, y), wrapping
	// at width w.
	Paragraph(x, y, w float64, text string, style ParagraphStyle)
	// Barcode draws a verification stamp encoding code.
	Barcode(kind Stamp, code string, x, y, w, h float64)

	AddPage()
	PageNo() int
	PageSize() (w, h float64)
	Margins() (left, top, right, bottom float64)
	Y() float64
	// SetY moves the cursor to y and back to the left margin. A negative
	// y is measured from the bottom of the page.
	SetY(y float64)

	// Err reports the first drawing error, if any.
	Err() error
}

// Stamp selects the barcode symbology used for verification stamps.
type Stamp string

// Supported stamps.
const (
	StampNone    Stamp = "none"
	StampQR      Stamp = "qr"
	StampPDF417  Stamp = "pdf417"
	StampCode128 Stamp = "code128"
)

// ParseStamp parses a stamp name; the empty string means StampNone.
func ParseStamp(s string) (Stamp, error) {
	switch st := Stamp(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StampNone, nil
	case StampNone, StampQR, StampPDF417, StampCode128:
		return st, nil
	default:
		return StampNone, fmt.Errorf("canvas: unknown stamp %q", s)
	}
}
