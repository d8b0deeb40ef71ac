package table

import (
	"errors"
	"fmt"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/textfit"
)

// ErrCellCount is returned when a row does not have one cell per column.
var ErrCellCount = errors.New("table: cell count does not match column count")

// Column defines the properties of a table column.
type Column struct {
	Label string
	Width float64
	Align string // Default alignment for this column ("L", "C", "R").
}

// Table is a fixed-column table drawn row by row onto a canvas.
type Table struct {
	c       canvas.Canvas
	columns []Column
	style   TableStyle
}

// New creates a new Table drawing onto c.
func New(c canvas.Canvas, cols ...Column) *Table {
	return &Table{
		c:       c,
		columns: cols,
		style:   DefaultStyle(),
	}
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// Style returns the table-wide style.
func (t *Table) Style() TableStyle { return t.style }

// Columns returns the column definitions.
func (t *Table) Columns() []Column { return t.columns }

// Width is the sum of the column widths.
func (t *Table) Width() float64 {
	var w float64
	for _, col := range t.columns {
		w += col.Width
	}
	return w
}

// Header draws the column labels in the header font and leaves the body font
// selected.
func (t *Table) Header() error {
	cells := make([]Cell, len(t.columns))
	for i, col := range t.columns {
		cells[i] = Text(col.Label).SetAlign(canvas.AlignCenter)
	}
	t.c.SetFont(t.style.Header.Style, t.style.Header.Size)
	err := t.draw(cells, t.style.HeaderHeight)
	t.c.SetFont(t.style.Body.Style, t.style.Body.Size)
	return err
}

// Row draws one body row. cells must hold exactly one cell per column.
func (t *Table) Row(cells ...Cell) error {
	t.c.SetFont(t.style.Body.Style, t.style.Body.Size)
	return t.draw(cells, t.style.RowHeight)
}

func (t *Table) draw(cells []Cell, h float64) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: got %d, want %d", ErrCellCount, len(cells), len(t.columns))
	}

	last := len(cells) - 1
	for i, cell := range cells {
		col := t.columns[i]
		align := cell.Align
		if align == "" {
			align = col.Align
		}
		t.c.Cell(col.Width, h, cell.Text, canvas.CellOpts{
			Border: t.style.Border,
			Align:  align,
			Size:   cell.Size,
			Break:  i == last,
		})
	}
	return t.c.Err()
}

// Fit fits text to the width of column i using f.
func (t *Table) Fit(f *textfit.Fitter, i int, text string) Cell {
	return Fitted(f.Fit(text, t.columns[i].Width))
}
