package reportes

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/flow"
	"github.com/lvillar/reportes/group"
	"github.com/lvillar/reportes/ingest"
	"github.com/lvillar/reportes/normalize"
)

const inch = 72.0

type anniversaryReport struct {
	title string
	stamp canvas.Stamp
	id    string

	groups []group.Anniversary
	total  int
}

func (g *Generator) prepareAniversarios(ctx context.Context, log *slog.Logger, tbl *ingest.Table, res *Result) *anniversaryReport {
	rows := make([]group.AnniversaryRow, 0, len(tbl.Rows))
	var rejected []int
	for _, r := range tbl.Rows {
		years, ok := normalize.Years(r.Get("ANIVERSARIO"))
		if !ok {
			rejected = append(rejected, r.Line)
			continue
		}
		rows = append(rows, group.AnniversaryRow{
			Line:   r.Line,
			Years:  years,
			Nombre: normalize.Name(r.Get("NOMBRE")),
		})
	}
	if len(rejected) > 0 {
		log.WarnContext(ctx, "rows without a readable anniversary left out",
			slog.Int("count", len(rejected)),
			slog.Any("rows", rejected))
	}

	groups := group.Anniversaries(rows)
	res.Groups = len(groups)
	res.Rejected = len(rejected)
	res.Festejados = len(rows)

	return &anniversaryReport{
		title:  g.cfg.anniversaryTitle,
		stamp:  g.cfg.stamp,
		id:     res.RenderID,
		groups: groups,
		total:  len(rows),
	}
}

func (r *anniversaryReport) canvasOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithOrientation("portrait"),
		canvas.WithUnit("pt"),
		canvas.WithPageSize("Letter"),
		canvas.WithFont("Helvetica", 11),
		canvas.WithAutoPageBreak(false, 0),
		canvas.WithPageStart(r.header),
		canvas.WithPageEnd(pageFooter(-30, 10)),
	}
}

// heading is the summary line repeated at the top of every page.
func (r *anniversaryReport) heading() string {
	return fmt.Sprintf("%s - TOTAL: %d FESTEJADOS", r.title, r.total)
}

// header draws the summary heading, centred between one-inch side margins
// with its baseline half an inch from the top.
func (r *anniversaryReport) header(c canvas.Canvas) {
	w, _ := c.PageSize()
	style := canvas.ParagraphStyle{
		Style:   canvas.StyleBold,
		Size:    14,
		Leading: 16,
		Align:   canvas.AlignCenter,
	}
	c.Paragraph(inch, inch/2-style.Leading, w-2*inch, r.heading(), style)
}

func (r *anniversaryReport) sections() iter.Seq[flow.Section] {
	return func(yield func(flow.Section) bool) {
		for _, a := range r.groups {
			if !yield(flow.Section{Label: a.Label(), Lines: a.Names()}) {
				return
			}
		}
	}
}

func (r *anniversaryReport) draw(c canvas.Canvas, _ *Result) error {
	c.AddPage()
	w, h := c.PageSize()
	if err := flow.New(c, flow.DefaultConfig(w, h)).Place(r.sections()); err != nil {
		return err
	}

	if r.stamp != canvas.StampNone {
		sw, sh := stampSize(r.stamp, inch/25.4)
		c.Barcode(r.stamp, stampCode(Aniversarios, r.id, strconv.Itoa(r.total)), w-30-sw, h-8-sh, sw, sh)
	}
	return c.Err()
}

// stampSize is the size of a verification stamp, scaled from millimetres by
// perMM canvas units.
func stampSize(kind canvas.Stamp, perMM float64) (w, h float64) {
	switch kind {
	case canvas.StampQR:
		w, h = 14, 14
	case canvas.StampPDF417:
		w, h = 42, 10
	case canvas.StampCode128:
		w, h = 42, 7
	}
	return w * perMM, h * perMM
}

// stampCode is the text encoded in a verification stamp.
func stampCode(kind Kind, id, total string) string {
	return strings.Join([]string{string(kind), id, total}, "|")
}

// pageFooter returns a page-end function that centres "Página N" in italics,
// y units from the top (or from the bottom when negative).
func pageFooter(y, h float64) func(canvas.Canvas) {
	return func(c canvas.Canvas) {
		c.SetY(y)
		c.SetFont(canvas.StyleItalic, 8)
		c.Cell(0, h, "Página "+strconv.Itoa(c.PageNo()), canvas.CellOpts{Align: canvas.AlignCenter})
	}
}
