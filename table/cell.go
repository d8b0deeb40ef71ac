package table

import (
	"fmt"

	"github.com/lvillar/reportes/textfit"
)

// Cell represents a single cell in a table row.
type Cell struct {
	Text string
	// Size overrides the body font size. Zero keeps the table's.
	Size float64
	// Align overrides the column alignment.
	Align string
}

// Text is a plain text cell.
func Text(s string) Cell {
	return Cell{Text: s}
}

// Textf is a formatted text cell.
func Textf(format string, args ...any) Cell {
	return Text(fmt.Sprintf(format, args...))
}

// Empty is a blank cell.
func Empty() Cell {
	return Cell{}
}

// Fitted is a cell holding text already fitted to its column.
func Fitted(f textfit.Fitted) Cell {
	return Cell{Text: f.Text, Size: f.Size}
}

// SetAlign returns a copy of the cell with the given alignment.
func (c Cell) SetAlign(align string) Cell {
	c.Align = align
	return c
}
