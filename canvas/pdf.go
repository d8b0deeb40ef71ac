package canvas

import (
	"errors"
	"fmt"
	"io"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// PDF is a Canvas that renders to a PDF document.
type PDF struct {
	f     *fpdf.Fpdf
	cfg   *config
	style string

	imp        *gofpdi.Importer
	letterhead int
}

var _ Canvas = (*PDF)(nil)

// NewPDF creates an empty document. No page exists until AddPage is called.
func NewPDF(opts ...Option) (*PDF, error) {
	cfg := newConfig(opts)

	f := fpdf.New(cfg.orientation, cfg.unit, cfg.size, "")
	f.SetMargins(cfg.left, cfg.top, cfg.right)
	f.SetAutoPageBreak(cfg.autoBreak, cfg.breakMargin)
	f.SetFont(cfg.family, StyleRegular, cfg.fontSize)
	if cfg.title != "" {
		f.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		f.SetAuthor(cfg.author, true)
		f.SetCreator(cfg.author, true)
	}
	if !cfg.created.IsZero() {
		f.SetCreationDate(cfg.created)
		f.SetModificationDate(cfg.created)
	}

	p := &PDF{f: f, cfg: cfg}
	if cfg.letterhead != "" {
		if err := p.importLetterhead(cfg.letterhead); err != nil {
			return nil, err
		}
	}

	// fpdf restores the font after both callbacks; keep the tracked style
	// in step with it
	f.SetHeaderFunc(func() {
		p.drawLetterhead()
		if cfg.pageStart != nil {
			style := p.style
			cfg.pageStart(p)
			p.style = style
		}
	})
	if cfg.pageEnd != nil {
		f.SetFooterFunc(func() {
			style := p.style
			cfg.pageEnd(p)
			p.style = style
		})
	}
	return p, f.Error()
}

func (p *PDF) importLetterhead(path string) (err error) {
	// gofpdi panics on unreadable or malformed sources
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("canvas: importing letterhead %s: %v", path, r)
		}
	}()

	p.imp = gofpdi.NewImporter()
	p.letterhead = p.imp.ImportPage(p.f, path, 1, "/MediaBox")
	if err := p.f.Error(); err != nil {
		return fmt.Errorf("canvas: importing letterhead %s: %w", path, err)
	}
	return nil
}

func (p *PDF) drawLetterhead() {
	if p.imp == nil {
		return
	}
	w, h := p.f.GetPageSize()
	p.imp.UseImportedTemplate(p.f, p.letterhead, 0, 0, w, h)
}

// StringWidth implements Canvas.
func (p *PDF) StringWidth(text string, size float64) float64 {
	prev, _ := p.f.GetFontSize()
	if size == prev {
		return p.f.GetStringWidth(toWinAnsi(text))
	}
	p.f.SetFontSize(size)
	w := p.f.GetStringWidth(toWinAnsi(text))
	p.f.SetFontSize(prev)
	return w
}

// SetFont implements Canvas.
func (p *PDF) SetFont(style string, size float64) {
	p.style = style
	p.f.SetFont(p.cfg.family, style, size)
}

// Cell implements Canvas.
func (p *PDF) Cell(w, h float64, text string, opts CellOpts) {
	if opts.Size > 0 {
		prev, _ := p.f.GetFontSize()
		p.f.SetFontSize(opts.Size)
		defer p.f.SetFontSize(prev)
	}

	border := ""
	if opts.Border {
		border = "1"
	}
	ln := 0
	if opts.Break {
		ln = 1
	}
	p.f.CellFormat(w, h, toWinAnsi(text), border, ln, alignOrLeft(opts.Align), false, 0, "")
}

// Ln implements Canvas.
func (p *PDF) Ln(h float64) { p.f.Ln(h) }

// Paragraph implements Canvas.
func (p *PDF) Paragraph(x, y, w float64, text string, style ParagraphStyle) {
	prevStyle := p.style
	prevSize, _ := p.f.GetFontSize()
	p.f.SetFont(p.cfg.family, style.Style, style.Size)

	p.f.SetXY(x+style.Indent, y)
	p.f.MultiCell(w-style.Indent, style.Leading, toWinAnsi(text), "", alignOrLeft(style.Align), false)

	p.f.SetFont(p.cfg.family, prevStyle, prevSize)
}

// Barcode implements Canvas.
func (p *PDF) Barcode(kind Stamp, code string, x, y, w, h float64) {
	var key string
	switch kind {
	case StampQR:
		key = barcode.RegisterQR(p.f, code, qr.M, qr.Unicode)
	case StampPDF417:
		key = barcode.RegisterPdf417(p.f, code, 8, 2)
	case StampCode128:
		key = barcode.RegisterCode128(p.f, code)
	default:
		return
	}
	barcode.Barcode(p.f, key, x, y, w, h, false)
}

// AddPage implements Canvas.
func (p *PDF) AddPage() { p.f.AddPage() }

// PageNo implements Canvas.
func (p *PDF) PageNo() int { return p.f.PageNo() }

// PageCount returns the number of pages in the document.
func (p *PDF) PageCount() int { return p.f.PageCount() }

// PageSize implements Canvas.
func (p *PDF) PageSize() (w, h float64) { return p.f.GetPageSize() }

// Margins implements Canvas.
func (p *PDF) Margins() (left, top, right, bottom float64) { return p.f.GetMargins() }

// Y implements Canvas.
func (p *PDF) Y() float64 { return p.f.GetY() }

// SetY implements Canvas.
func (p *PDF) SetY(y float64) { p.f.SetY(y) }

// Err implements Canvas.
func (p *PDF) Err() error { return p.f.Error() }

// Output closes the document, running the last page-end function, and writes
// it to w.
func (p *PDF) Output(w io.Writer) error {
	if p.f.PageCount() == 0 {
		return errors.New("canvas: document has no pages")
	}
	return p.f.Output(w)
}

func alignOrLeft(a string) string {
	if a == "" {
		return AlignLeft
	}
	return a
}
