package reportes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/group"
	"github.com/lvillar/reportes/ingest"
	"github.com/lvillar/reportes/table"
	"github.com/lvillar/reportes/textfit"
)

var fixedNow = time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC)

func newTestGenerator(opts ...Option) *Generator {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithIDGenerator(func() string { return "test-id" }),
	}
	return NewGenerator(append(base, opts...)...)
}

func readCSV(t *testing.T, s string) *ingest.Table {
	t.Helper()
	tbl, err := ingest.ReadCSV(strings.NewReader(s))
	require.NoError(t, err)
	return tbl
}

func rowStarting(rows [][]string, prefix string) []string {
	for _, r := range rows {
		if len(r) > 0 && strings.HasPrefix(r[0], prefix) {
			return r
		}
	}
	return nil
}

const bonusCSV = `GRUPO,GUIA,BONO,MONTO,ASISTENTES
Alfa,Ana,B1,"1.234,50 DLS",3
Beta,Luis,B2,500,2
alfa ,Ana,B3,1 000,1
`

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Bonos ")
	require.NoError(t, err)
	assert.Equal(t, Bonos, k)

	_, err = ParseKind("ventas")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "reporte_bonos_20251201_0930.pdf", Bonos.Filename(fixedNow))
	assert.Equal(t, "aniversarios_20251201_0930.pdf", Aniversarios.Filename(fixedNow))
}

func TestGenerateBonosGrandTotal(t *testing.T) {
	gen := newTestGenerator()
	tbl := readCSV(t, bonusCSV)

	res, err := gen.Generate(context.Background(), Bonos, tbl)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF-")))
	assert.Equal(t, "reporte_bonos_20251201_0930.pdf", res.Filename)
	assert.Equal(t, "test-id", res.RenderID)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 3, res.Rows)
	assert.Zero(t, res.Degraded)

	// 1234.50 + 1000 for ALFA/Ana, 500 for BETA/Luis
	assert.True(t, decimal.RequireFromString("2734.5").Equal(res.GrandTotal), res.GrandTotal.String())
}

func TestPreviewBonosRows(t *testing.T) {
	gen := newTestGenerator()
	res, rec, err := gen.Preview(context.Background(), Bonos, readCSV(t, bonusCSV))
	require.NoError(t, err)
	assert.Nil(t, res.PDF)

	rows := rec.Rows()
	assert.Equal(t, []string{"CONGRESO 2025 - RESUMEN DE BONOS"}, rows[0])
	assert.Equal(t, []string{"01/12/2025"}, rows[1])
	assert.Equal(t, "GRUPO", rows[2][0])
	assert.Len(t, rows[2], 14)

	assert.Equal(t, []string{
		"ALFA", "Ana",
		"B1", "B3", "", "", "",
		"1 234 ", "1 000 ", "", "", "",
		"4,00", "2 234 ",
	}, rows[3])
	assert.Equal(t, []string{
		"BETA", "Luis",
		"B2", "", "", "", "",
		"500 ", "", "", "", "",
		"2,00", "500 ",
	}, rows[4])

	// banker's rounding: 2734.5 -> 2734
	assert.Equal(t, []string{"TOTAL GENERAL: 2 734 "}, rowStarting(rows, "TOTAL GENERAL"))
	assert.Equal(t, []string{"Página 1"}, rows[len(rows)-1])
}

func TestGrandTotalAddedOncePerGroup(t *testing.T) {
	rows := make([]group.BonusRow, 12)
	for i := range rows {
		rows[i] = group.BonusRow{
			Grupo:      "ALFA",
			Guia:       "Ana",
			Bono:       fmt.Sprintf("B%d", i+1),
			Monto:      decimal.NewFromInt(10),
			Asistentes: 1,
		}
	}
	groups := group.Bonuses(rows)
	require.Len(t, groups, 1)

	r := &bonusReport{title: "T", date: "01/12/2025", stamp: canvas.StampNone}
	rec := canvas.NewRecorder(r.canvasOptions()...)
	r.tbl = table.New(rec, bonusColumns...)
	r.fit = textfit.New(rec)
	rec.AddPage()

	start := Totals{Sum: decimal.NewFromInt(5)}
	acc, err := r.emitGroup(start, groups[0])
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(125).Equal(acc.Sum), acc.Sum.String())
	assert.Equal(t, 1, acc.Groups)

	data := rec.Rows()[3:]
	require.Len(t, data, 3)
	assert.Equal(t, "ALFA", data[0][0])
	assert.Equal(t, "120 ", data[0][13])
	for _, cont := range data[1:] {
		require.Len(t, cont, 14)
		assert.Equal(t, []string{"", ""}, cont[:2])
		assert.Equal(t, []string{"", ""}, cont[12:])
	}
	assert.Equal(t, []string{"B11", "B12", "", "", ""}, data[2][2:7])
	assert.Equal(t, []string{"10 ", "10 ", "", "", ""}, data[2][7:12])
}

func TestZeroDetailGroupStillEmitsOneRow(t *testing.T) {
	r := &bonusReport{title: "T", date: "d", stamp: canvas.StampNone}
	rec := canvas.NewRecorder(r.canvasOptions()...)
	r.tbl = table.New(rec, bonusColumns...)
	r.fit = textfit.New(rec)
	rec.AddPage()

	acc, err := r.emitGroup(Totals{Sum: decimal.Zero}, group.Bonus{Grupo: "VACIO", Guia: "Nadie", Total: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Groups)
	assert.True(t, acc.Sum.IsZero())

	data := rec.Rows()[3:]
	require.Len(t, data, 1)
	assert.Equal(t, "VACIO", data[0][0])
	assert.Equal(t, []string{"", "", "", "", "", "", "", "", "", ""}, data[0][2:12])
	assert.Equal(t, "0 ", data[0][13])
}

func TestBonosPageHeaderRepeats(t *testing.T) {
	var b strings.Builder
	b.WriteString("GRUPO,GUIA,BONO,MONTO,ASISTENTES\n")
	for i := range 80 {
		fmt.Fprintf(&b, "G%02d,Guia %02d,B1,100,1\n", i, i)
	}

	gen := newTestGenerator()
	res, rec, err := gen.Preview(context.Background(), Bonos, readCSV(t, b.String()))
	require.NoError(t, err)
	require.Greater(t, res.Pages, 1)

	headers, footers := 0, 0
	for _, row := range rec.Rows() {
		switch {
		case row[0] == "GRUPO":
			headers++
		case strings.HasPrefix(row[0], "Página "):
			footers++
		case strings.HasPrefix(row[0], "G"):
			// a data row is never split across pages
			assert.Len(t, row, 14, row[0])
		}
	}
	assert.Equal(t, res.Pages, headers)
	assert.Equal(t, res.Pages, footers)
	assert.True(t, decimal.NewFromInt(8000).Equal(res.GrandTotal))
}

// flakyCanvas reports an error for its first fails Err calls only.
type flakyCanvas struct {
	*canvas.Recorder
	fails int
}

func (f *flakyCanvas) Err() error {
	if f.fails > 0 {
		f.fails--
		return errors.New("font metrics unavailable")
	}
	return nil
}

func TestBonosHeaderErrorIsReturned(t *testing.T) {
	r := &bonusReport{title: "BONOS", date: "01/12/2025", stamp: canvas.StampNone, id: "test-id"}
	c := &flakyCanvas{Recorder: canvas.NewRecorder(r.canvasOptions()...), fails: 1}

	err := r.draw(c, &Result{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 1 header")
	assert.Contains(t, err.Error(), "font metrics unavailable")
}

func TestBonosDegradedValues(t *testing.T) {
	in := "GRUPO,GUIA,BONO,MONTO,ASISTENTES\n" +
		"Alfa,Ana,B1,abc,x\n" +
		"Alfa,Ana,B2,,2\n" +
		"Alfa,Ana,B3,300,1\n"

	gen := newTestGenerator()
	res, rec, err := gen.Preview(context.Background(), Bonos, readCSV(t, in))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Degraded)

	data := rec.Rows()[3]
	// the unreadable amount shows as zero, the blank one stays blank
	assert.Equal(t, []string{"0 ", "", "300 ", "", ""}, data[7:12])
	assert.Equal(t, "3,00", data[12])
	assert.Equal(t, "300 ", data[13])
}

func TestBonosStamp(t *testing.T) {
	gen := newTestGenerator(WithStamp(canvas.StampQR))
	_, rec, err := gen.Preview(context.Background(), Bonos, readCSV(t, bonusCSV))
	require.NoError(t, err)

	var stamps []canvas.Op
	for _, op := range rec.Ops() {
		if op.Kind == canvas.OpBarcode {
			stamps = append(stamps, op)
		}
	}
	require.Len(t, stamps, 1)
	assert.Equal(t, "bonos|test-id|2734.50", stamps[0].Text)
	assert.Equal(t, "qr", stamps[0].Style)

	res, err := gen.Generate(context.Background(), Bonos, readCSV(t, bonusCSV))
	require.NoError(t, err)
	assert.NotEmpty(t, res.PDF)
}

const anniversaryCSV = `ANIVERSARIO,NOMBRE
3 años,Carla
1 año,Ana
sin dato,Nadie
1 año, Beto
`

func TestAniversarios(t *testing.T) {
	gen := newTestGenerator()
	tbl := readCSV(t, anniversaryCSV)

	res, rec, err := gen.Preview(context.Background(), Aniversarios, tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 3, res.Festejados)
	assert.Equal(t, 1, res.Pages)

	assert.Equal(t, []string{
		"ANIVERSARIO DICIEMBRE 2025 - TOTAL: 3 FESTEJADOS",
		"1 AÑO", "Ana", "Beto",
		"3 AÑOS", "Carla",
		"Página 1",
	}, rec.Texts())

	pdf, err := gen.Generate(context.Background(), Aniversarios, tbl)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.PDF, []byte("%PDF-")))
	assert.Equal(t, "aniversarios_20251201_0930.pdf", pdf.Filename)
}

func TestAniversariosManyPages(t *testing.T) {
	var b strings.Builder
	b.WriteString("ANIVERSARIO,NOMBRE\n")
	for i := range 400 {
		fmt.Fprintf(&b, "%d años,Persona %d\n", i%7+1, i)
	}

	gen := newTestGenerator(WithAnniversaryTitle("FIESTA"))
	res, rec, err := gen.Preview(context.Background(), Aniversarios, readCSV(t, b.String()))
	require.NoError(t, err)
	require.Greater(t, res.Pages, 1)

	headings := 0
	for _, text := range rec.Texts() {
		if text == "FIESTA - TOTAL: 400 FESTEJADOS" {
			headings++
		}
	}
	assert.Equal(t, res.Pages, headings)
}

func TestInputErrors(t *testing.T) {
	gen := newTestGenerator()
	ctx := context.Background()

	_, err := gen.Generate(ctx, Bonos, nil)
	assert.ErrorIs(t, err, ErrMissingInput)

	tbl := readCSV(t, "GRUPO,MONTO\nAlfa,1\n")
	_, err = gen.Generate(ctx, Bonos, tbl)
	require.ErrorIs(t, err, ErrSchema)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"GUIA", "BONO", "ASISTENTES"}, se.Missing)
	assert.Equal(t, Bonos.RequiredColumns(), se.Required)

	_, err = gen.Generate(ctx, Kind("ventas"), tbl)
	assert.ErrorIs(t, err, ErrUnknownKind)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = gen.Generate(cancelled, Bonos, readCSV(t, bonusCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate(t *testing.T) {
	res, err := newTestGenerator().Validate(context.Background(), Aniversarios, readCSV(t, anniversaryCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rejected)
	assert.Zero(t, res.Pages)
	assert.Nil(t, res.PDF)
}

func TestProtectRecoversPanics(t *testing.T) {
	err := protect("layout", func() error { panic("boom") })
	require.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "boom")

	inner := errors.New("disk full")
	err = protect("output", func() error { return inner })
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, inner)

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "output", re.Op)
}

func TestLetterheadMissingIsRenderError(t *testing.T) {
	gen := newTestGenerator(WithLetterhead("/nonexistent/membrete.pdf"))
	_, err := gen.Generate(context.Background(), Bonos, readCSV(t, bonusCSV))
	assert.ErrorIs(t, err, ErrRender)
}
