package reportes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/group"
	"github.com/lvillar/reportes/ingest"
	"github.com/lvillar/reportes/normalize"
	"github.com/lvillar/reportes/table"
	"github.com/lvillar/reportes/textfit"
)

// detailsPerRow is how many BONO/MONTO pairs share one table row.
const detailsPerRow = 5

var bonusColumns = []table.Column{
	{Label: "GRUPO", Width: 30},
	{Label: "GUIA", Width: 20},
	{Label: "BON1", Width: 12},
	{Label: "BON2", Width: 12},
	{Label: "BON3", Width: 12},
	{Label: "BON4", Width: 12},
	{Label: "BON5", Width: 12},
	{Label: "MONT1", Width: 18},
	{Label: "MONT2", Width: 18},
	{Label: "MONT3", Width: 18},
	{Label: "MONT4", Width: 18},
	{Label: "MONT5", Width: 18},
	{Label: "ASIST.", Width: 12},
	{Label: "TOTAL", Width: 18},
}

const (
	colGrupo = 0
	colGuia  = 1
	colBono  = 2
)

// Totals is the running grand total of one bonus render. It starts at zero and
// grows by one group total per group.
type Totals struct {
	Sum    decimal.Decimal
	Groups int
}

// Add returns t with the total of g added.
func (t Totals) Add(g group.Bonus) Totals {
	return Totals{Sum: t.Sum.Add(g.Total), Groups: t.Groups + 1}
}

type bonusReport struct {
	title string
	date  string
	stamp canvas.Stamp
	id    string

	groups []group.Bonus

	tbl       *table.Table
	fit       *textfit.Fitter
	headerErr error
}

func (g *Generator) prepareBonos(ctx context.Context, log *slog.Logger, tbl *ingest.Table, res *Result) *bonusReport {
	rows := make([]group.BonusRow, 0, len(tbl.Rows))
	var badMonto, badAsistentes []int
	for _, r := range tbl.Rows {
		rawMonto := r.Get("MONTO")
		monto, ok := normalize.AmountOK(rawMonto)
		blank := strings.TrimSpace(rawMonto) == ""
		if !ok && !blank {
			badMonto = append(badMonto, r.Line)
		}

		rawAsist := r.Get("ASISTENTES")
		asist, ok := normalize.AmountOK(rawAsist)
		if !ok && strings.TrimSpace(rawAsist) != "" {
			badAsistentes = append(badAsistentes, r.Line)
		}

		rows = append(rows, group.BonusRow{
			Line:       r.Line,
			Grupo:      r.Get("GRUPO"),
			Guia:       r.Get("GUIA"),
			Bono:       strings.TrimSpace(r.Get("BONO")),
			Monto:      decimal.NewFromFloat(monto),
			MontoBlank: blank,
			Asistentes: asist,
		})
	}
	warnDegraded(ctx, log, "MONTO", badMonto)
	warnDegraded(ctx, log, "ASISTENTES", badAsistentes)

	groups := group.Bonuses(rows)
	res.Groups = len(groups)
	res.Degraded = len(badMonto) + len(badAsistentes)

	return &bonusReport{
		title:  g.cfg.bonusTitle,
		date:   res.CreatedAt.Format("02/01/2006"),
		stamp:  g.cfg.stamp,
		id:     res.RenderID,
		groups: groups,
	}
}

func (r *bonusReport) canvasOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithOrientation("landscape"),
		canvas.WithUnit("mm"),
		canvas.WithPageSize("Letter"),
		canvas.WithFont("Helvetica", 9),
		canvas.WithAutoPageBreak(true, 15),
		canvas.WithPageStart(r.header),
		canvas.WithPageEnd(pageFooter(-15, 10)),
	}
}

// header draws the title, the date and the column labels.
func (r *bonusReport) header(c canvas.Canvas) {
	c.SetFont(canvas.StyleBold, 10)
	c.Cell(0, 5, r.title, canvas.CellOpts{Align: canvas.AlignCenter, Break: true})
	c.Cell(0, 5, r.date, canvas.CellOpts{Align: canvas.AlignCenter, Break: true})
	c.Ln(5)
	if err := r.tbl.Header(); err != nil && r.headerErr == nil {
		r.headerErr = fmt.Errorf("page %d header: %w", c.PageNo(), err)
	}
}

func (r *bonusReport) draw(c canvas.Canvas, res *Result) error {
	r.tbl = table.New(c, bonusColumns...)
	r.fit = textfit.New(c)

	c.AddPage()
	acc := Totals{Sum: decimal.Zero}
	for _, g := range r.groups {
		var err error
		if acc, err = r.emitGroup(acc, g); err != nil {
			return err
		}
	}
	if err := r.close(c, acc); err != nil {
		return err
	}
	if r.headerErr != nil {
		return r.headerErr
	}
	res.GrandTotal = acc.Sum
	return nil
}

// emitGroup draws one row per chunk of the group's details. Only the first
// row carries GRUPO, GUIA, ASIST. and TOTAL, and the group total is added to
// acc once, right after that row.
func (r *bonusReport) emitGroup(acc Totals, g group.Bonus) (Totals, error) {
	details := g.Details()
	for i, chunk := range table.Chunks(details, detailsPerRow) {
		cells := make([]table.Cell, 0, len(bonusColumns))
		if i == 0 {
			cells = append(cells,
				r.tbl.Fit(r.fit, colGrupo, g.Grupo),
				r.tbl.Fit(r.fit, colGuia, g.Guia))
		} else {
			cells = append(cells, table.Empty(), table.Empty())
		}

		for j, d := range chunk {
			cells = append(cells, r.tbl.Fit(r.fit, colBono+j, d.Bono))
		}
		for j, d := range chunk {
			if i*detailsPerRow+j >= len(details) || d.Blank {
				cells = append(cells, table.Empty())
				continue
			}
			cells = append(cells, table.Text(normalize.Currency(d.Monto)))
		}

		if i == 0 {
			cells = append(cells,
				table.Text(normalize.Attendance(g.Attendance)),
				table.Text(normalize.Currency(g.Total)))
		} else {
			cells = append(cells, table.Empty(), table.Empty())
		}

		if err := r.tbl.Row(cells...); err != nil {
			return acc, fmt.Errorf("group %s/%s: %w", g.Grupo, g.Guia, err)
		}
		if i == 0 {
			acc = acc.Add(g)
		}
	}
	return acc, nil
}

// close draws the TOTAL GENERAL line and the verification stamp.
func (r *bonusReport) close(c canvas.Canvas, acc Totals) error {
	c.Ln(10)
	c.SetFont(canvas.StyleBold, 10)
	c.Cell(0, 8, "TOTAL GENERAL: "+normalize.Currency(acc.Sum), canvas.CellOpts{Align: canvas.AlignRight, Break: true})

	if r.stamp != canvas.StampNone {
		w, h := stampSize(r.stamp, 1)
		pageW, pageH := c.PageSize()
		_, _, right, bottom := c.Margins()
		y := c.Y() + 3
		if y+h > pageH-bottom {
			c.AddPage()
			y = c.Y()
		}
		c.Barcode(r.stamp, stampCode(Bonos, r.id, acc.Sum.StringFixed(2)), pageW-right-w, y, w, h)
	}
	return c.Err()
}
