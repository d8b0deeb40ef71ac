// Package flow lays out labelled lists of lines into fixed columns, moving to
// the next column when the current one is full and to a new page after the
// last column.
package flow

import (
	"iter"
	"slices"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/textfit"
)

// Section is a bold label followed by its lines.
type Section struct {
	Label string
	Lines iter.Seq[string]
}

// NewSection builds a Section over a fixed list of lines.
func NewSection(label string, lines ...string) Section {
	return Section{Label: label, Lines: slices.Values(lines)}
}

// Config holds the geometry of a flow layout. Y values grow downwards from the
// top of the page.
type Config struct {
	// Columns are the x positions of the columns, left to right.
	Columns []float64
	// ColumnWidth is the wrap and fitting width of every column.
	ColumnWidth float64
	// Top is where every column starts.
	Top float64
	// Bottom is the lowest y a line may reach.
	Bottom float64

	Label        canvas.ParagraphStyle
	LabelAdvance float64
	Line         canvas.ParagraphStyle
	LineAdvance  float64
}

// DefaultConfig is four columns at 30, w/4, w/2 and 3w/4 on a page of width w
// and height h in points, starting 80pt from the top and stopping 50pt from
// the bottom.
func DefaultConfig(w, h float64) Config {
	return Config{
		Columns:      []float64{30, w / 4, w / 2, 3 * w / 4},
		ColumnWidth:  w / 4,
		Top:          80,
		Bottom:       h - 50,
		Label:        canvas.ParagraphStyle{Style: canvas.StyleBold, Size: 12, Leading: 14},
		LabelAdvance: 20,
		Line:         canvas.ParagraphStyle{Style: canvas.StyleRegular, Size: 11, Leading: 12, Indent: 15},
		LineAdvance:  15,
	}
}

// Layout places sections column by column. The caller owns the first page;
// Layout adds pages as needed, so page headers belong in the canvas
// page-start function.
type Layout struct {
	c   canvas.Canvas
	cfg Config
	fit *textfit.Fitter

	col   int
	y     float64
	lines int
}

// New creates a Layout drawing onto c. Lines are shrunk and then truncated to
// the column width, starting at the line style's size.
func New(c canvas.Canvas, cfg Config) *Layout {
	fit := textfit.New(c)
	size := cfg.Line.Size
	fit.Sizes = []float64{size, size - 1, size - 2}
	return &Layout{
		c:   c,
		cfg: cfg,
		fit: fit,
		y:   cfg.Top,
	}
}

// Place lays out every section in order.
func (l *Layout) Place(sections iter.Seq[Section]) error {
	for s := range sections {
		if err := l.Section(s); err != nil {
			return err
		}
	}
	return nil
}

// Section lays out one section: its label, then each of its lines.
func (l *Layout) Section(s Section) error {
	// a label is never the last thing in a column
	l.place(s.Label, l.cfg.Label, l.cfg.LabelAdvance, l.cfg.LabelAdvance+l.cfg.LineAdvance)
	for line := range s.Lines {
		l.c.SetFont(l.cfg.Line.Style, l.cfg.Line.Size)
		fitted := l.fit.Fit(line, l.cfg.ColumnWidth-l.cfg.Line.Indent)
		style := l.cfg.Line
		style.Size = fitted.Size
		l.place(fitted.Text, style, l.cfg.LineAdvance, l.cfg.LineAdvance)
	}
	return l.c.Err()
}

// place draws text at the current position, first moving on when less than
// need remains above Bottom.
func (l *Layout) place(text string, style canvas.ParagraphStyle, advance, need float64) {
	if l.y+need > l.cfg.Bottom && l.y > l.cfg.Top {
		l.nextColumn()
	}
	l.c.Paragraph(l.cfg.Columns[l.col], l.y, l.cfg.ColumnWidth, text, style)
	l.y += advance
	l.lines++
}

func (l *Layout) nextColumn() {
	l.col++
	l.y = l.cfg.Top
	if l.col >= len(l.cfg.Columns) {
		l.c.AddPage()
		l.col = 0
	}
}

// Column returns the index of the current column.
func (l *Layout) Column() int { return l.col }

// Lines returns the number of lines placed so far, labels included.
func (l *Layout) Lines() int { return l.lines }
