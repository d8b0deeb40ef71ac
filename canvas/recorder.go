package canvas

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpPage OpKind = iota
	OpCell
	OpParagraph
	OpBarcode
)

func (k OpKind) String() string {
	switch k {
	case OpPage:
		return "page"
	case OpCell:
		return "cell"
	case OpParagraph:
		return "paragraph"
	case OpBarcode:
		return "barcode"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one drawing operation captured by a Recorder.
type Op struct {
	Kind   OpKind
	Page   int
	X, Y   float64
	W, H   float64
	Text   string
	Style  string
	Size   float64
	Border bool
	Align  string
}

// Recorder is a Canvas that keeps every operation in memory. Text is measured
// with the same font metrics the PDF canvas uses, so layouts driven through a
// Recorder make the same fitting and paging decisions.
type Recorder struct {
	cfg *config
	m   *fpdf.Fpdf

	ops []Op

	page       int
	x, y       float64
	lasth      float64
	style      string
	size       float64
	inCallback bool
	closed     bool

	pageW, pageH float64
}

var _ Canvas = (*Recorder)(nil)

// NewRecorder creates an empty recorder. Letterhead and metadata options are
// accepted and ignored.
func NewRecorder(opts ...Option) *Recorder {
	cfg := newConfig(opts)

	m := fpdf.New(cfg.orientation, cfg.unit, cfg.size, "")
	m.SetFont(cfg.family, StyleRegular, cfg.fontSize)
	w, h := m.GetPageSize()

	return &Recorder{
		cfg:   cfg,
		m:     m,
		size:  cfg.fontSize,
		x:     cfg.left,
		y:     cfg.top,
		pageW: w,
		pageH: h,
	}
}

// StringWidth implements Canvas.
func (r *Recorder) StringWidth(text string, size float64) float64 {
	r.m.SetFont(r.cfg.family, r.style, size)
	return r.m.GetStringWidth(toWinAnsi(text))
}

// SetFont implements Canvas.
func (r *Recorder) SetFont(style string, size float64) {
	r.style = style
	r.size = size
}

// Cell implements Canvas.
func (r *Recorder) Cell(w, h float64, text string, opts CellOpts) {
	if r.cfg.autoBreak && !r.inCallback && r.page > 0 && r.y+h > r.pageH-r.cfg.breakMargin {
		x := r.x
		r.AddPage()
		r.x = x
	}
	if w == 0 {
		w = r.pageW - r.cfg.right - r.x
	}
	size := r.size
	if opts.Size > 0 {
		size = opts.Size
	}

	r.ops = append(r.ops, Op{
		Kind:   OpCell,
		Page:   r.page,
		X:      r.x,
		Y:      r.y,
		W:      w,
		H:      h,
		Text:   text,
		Style:  r.style,
		Size:   size,
		Border: opts.Border,
		Align:  alignOrLeft(opts.Align),
	})

	r.lasth = h
	if opts.Break {
		r.x = r.cfg.left
		r.y += h
	} else {
		r.x += w
	}
}

// Ln implements Canvas.
func (r *Recorder) Ln(h float64) {
	r.x = r.cfg.left
	if h < 0 {
		r.y += r.lasth
		return
	}
	r.y += h
}

// Paragraph implements Canvas.
func (r *Recorder) Paragraph(x, y, w float64, text string, style ParagraphStyle) {
	r.m.SetFont(r.cfg.family, style.Style, style.Size)
	lines := len(r.m.SplitLines([]byte(toWinAnsi(text)), w-style.Indent))
	if lines == 0 {
		lines = 1
	}

	r.ops = append(r.ops, Op{
		Kind:  OpParagraph,
		Page:  r.page,
		X:     x + style.Indent,
		Y:     y,
		W:     w - style.Indent,
		H:     float64(lines) * style.Leading,
		Text:  text,
		Style: style.Style,
		Size:  style.Size,
		Align: alignOrLeft(style.Align),
	})
	r.x = r.cfg.left
	r.y = y + float64(lines)*style.Leading
}

// Barcode implements Canvas.
func (r *Recorder) Barcode(kind Stamp, code string, x, y, w, h float64) {
	if kind == StampNone || kind == "" {
		return
	}
	r.ops = append(r.ops, Op{Kind: OpBarcode, Page: r.page, X: x, Y: y, W: w, H: h, Text: code, Style: string(kind)})
}

// AddPage implements Canvas.
func (r *Recorder) AddPage() {
	if r.page > 0 {
		r.endPage()
	}

	r.page++
	r.x, r.y = r.cfg.left, r.cfg.top
	r.ops = append(r.ops, Op{Kind: OpPage, Page: r.page})

	if r.cfg.pageStart != nil {
		style, size := r.style, r.size
		r.inCallback = true
		r.cfg.pageStart(r)
		r.inCallback = false
		r.style, r.size = style, size
	}
}

func (r *Recorder) endPage() {
	if r.cfg.pageEnd == nil {
		return
	}
	style, size := r.style, r.size
	r.inCallback = true
	r.cfg.pageEnd(r)
	r.inCallback = false
	r.style, r.size = style, size
}

// Close runs the page-end function for the last page. Later calls do nothing.
func (r *Recorder) Close() {
	if r.closed || r.page == 0 {
		return
	}
	r.closed = true
	r.endPage()
}

// PageNo implements Canvas.
func (r *Recorder) PageNo() int { return r.page }

// PageCount returns the number of pages started.
func (r *Recorder) PageCount() int { return r.page }

// PageSize implements Canvas.
func (r *Recorder) PageSize() (w, h float64) { return r.pageW, r.pageH }

// Margins implements Canvas.
func (r *Recorder) Margins() (left, top, right, bottom float64) {
	return r.cfg.left, r.cfg.top, r.cfg.right, r.cfg.breakMargin
}

// Y implements Canvas.
func (r *Recorder) Y() float64 { return r.y }

// SetY implements Canvas.
func (r *Recorder) SetY(y float64) {
	r.x = r.cfg.left
	if y < 0 {
		r.y = r.pageH + y
		return
	}
	r.y = y
}

// Err implements Canvas.
func (r *Recorder) Err() error { return r.m.Error() }

// Ops returns the recorded operations in drawing order.
func (r *Recorder) Ops() []Op { return r.ops }

// Texts returns the text of every cell and paragraph in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == OpCell || op.Kind == OpParagraph {
			out = append(out, op.Text)
		}
	}
	return out
}

// Rows groups cells that share a page and a vertical position into rows,
// in drawing order.
func (r *Recorder) Rows() [][]string {
	type line struct {
		page int
		y    float64
	}
	var (
		rows [][]string
		cur  line
		open bool
	)
	for _, op := range r.ops {
		if op.Kind != OpCell {
			continue
		}
		at := line{op.Page, op.Y}
		if !open || at != cur {
			rows = append(rows, nil)
			cur, open = at, true
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], op.Text)
	}
	return rows
}

// WriteText writes a plain-text rendition of the recorded pages to w.
func (r *Recorder) WriteText(w io.Writer) error {
	var b strings.Builder
	page := 0
	var row []string
	var rowY float64
	flush := func() {
		if len(row) > 0 {
			b.WriteString(strings.TrimRight(strings.Join(row, " | "), " "))
			b.WriteByte('\n')
			row = row[:0]
		}
	}
	for _, op := range r.ops {
		switch op.Kind {
		case OpPage:
			flush()
			page = op.Page
			fmt.Fprintf(&b, "--- página %d ---\n", page)
		case OpCell:
			if len(row) > 0 && op.Y != rowY {
				flush()
			}
			rowY = op.Y
			row = append(row, strings.TrimSpace(op.Text))
		case OpParagraph:
			flush()
			b.WriteString(op.Text)
			b.WriteByte('\n')
		case OpBarcode:
			flush()
			fmt.Fprintf(&b, "[%s %s]\n", op.Style, op.Text)
		}
	}
	flush()
	_, err := io.WriteString(w, b.String())
	return err
}
