package reportes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/ingest"
)

// Kind selects a report layout.
type Kind string

// Report kinds.
const (
	Bonos        Kind = "bonos"
	Aniversarios Kind = "aniversarios"
)

// Kinds lists every report kind.
func Kinds() []Kind {
	return []Kind{Bonos, Aniversarios}
}

// ParseKind parses a report kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Bonos, Aniversarios:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// RequiredColumns returns the columns the input of a report must have.
func (k Kind) RequiredColumns() []string {
	switch k {
	case Bonos:
		return []string{"GRUPO", "GUIA", "BONO", "MONTO", "ASISTENTES"}
	case Aniversarios:
		return []string{"ANIVERSARIO", "NOMBRE"}
	default:
		return nil
	}
}

// Filename is the download name of a report rendered at t, e.g.
// reporte_bonos_20251201_0930.pdf.
func (k Kind) Filename(t time.Time) string {
	stamp := t.Format("20060102_1504")
	if k == Bonos {
		return "reporte_bonos_" + stamp + ".pdf"
	}
	return string(k) + "_" + stamp + ".pdf"
}

// Result describes a finished render.
type Result struct {
	Kind     Kind
	RenderID string
	Filename string
	// PDF holds the document. It is empty for previews and validations.
	PDF []byte

	Pages  int
	Rows   int
	Groups int
	// Degraded counts values that could not be read and were replaced by
	// zero.
	Degraded int
	// Rejected counts rows left out of the report.
	Rejected int

	// GrandTotal is the sum of every bonus group total.
	GrandTotal decimal.Decimal
	// Festejados is the number of people listed in an anniversary report.
	Festejados int

	CreatedAt time.Time
}

// document is a prepared report ready to be drawn on a canvas.
type document interface {
	canvasOptions() []canvas.Option
	draw(c canvas.Canvas, res *Result) error
}

// Generator turns tables into reports. A Generator holds no per-render state
// and is safe for concurrent use.
type Generator struct {
	cfg *generatorConfig
	log *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	cfg := newGeneratorConfig(opts)
	return &Generator{
		cfg: cfg,
		log: cfg.logger.With(slog.String("component", "generator")),
	}
}

// Generate renders tbl as a PDF report of the given kind. Missing input and
// schema problems are reported before anything is drawn; any failure after
// that is a *RenderError and no document is returned.
func (g *Generator) Generate(ctx context.Context, kind Kind, tbl *ingest.Table) (*Result, error) {
	doc, res, err := g.prepare(ctx, kind, tbl)
	if err != nil {
		return nil, err
	}

	pdf, err := canvas.NewPDF(append(g.documentOptions(res), doc.canvasOptions()...)...)
	if err != nil {
		return nil, newRenderError("open", err)
	}
	if err := protect("layout", func() error { return drawOn(doc, pdf, res) }); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := protect("output", func() error { return pdf.Output(&buf) }); err != nil {
		return nil, err
	}
	res.PDF = buf.Bytes()
	res.Pages = pdf.PageCount()

	g.log.InfoContext(ctx, "report rendered",
		slog.String("kind", string(kind)),
		slog.String("render_id", res.RenderID),
		slog.Int("rows", res.Rows),
		slog.Int("groups", res.Groups),
		slog.Int("pages", res.Pages),
		slog.Int("bytes", len(res.PDF)))
	return res, nil
}

// Preview lays the report out on a recording canvas instead of a PDF. The
// returned recorder holds every drawn row and page.
func (g *Generator) Preview(ctx context.Context, kind Kind, tbl *ingest.Table) (*Result, *canvas.Recorder, error) {
	doc, res, err := g.prepare(ctx, kind, tbl)
	if err != nil {
		return nil, nil, err
	}

	rec := canvas.NewRecorder(doc.canvasOptions()...)
	if err := protect("layout", func() error { return drawOn(doc, rec, res) }); err != nil {
		return nil, nil, err
	}
	rec.Close()
	res.Pages = rec.PageCount()
	return res, rec, nil
}

// Validate checks and normalizes tbl without drawing it. The result carries
// the row, group and degradation counts a render would produce.
func (g *Generator) Validate(ctx context.Context, kind Kind, tbl *ingest.Table) (*Result, error) {
	_, res, err := g.prepare(ctx, kind, tbl)
	return res, err
}

func (g *Generator) prepare(ctx context.Context, kind Kind, tbl *ingest.Table) (document, *Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if kind != Bonos && kind != Aniversarios {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if tbl == nil || len(tbl.Rows) == 0 {
		return nil, nil, ErrMissingInput
	}
	if err := tbl.Require(kind.RequiredColumns()...); err != nil {
		var missing *ingest.MissingColumnsError
		if errors.As(err, &missing) {
			return nil, nil, &SchemaError{Kind: kind, Required: missing.Required, Missing: missing.Missing}
		}
		return nil, nil, err
	}

	now := g.cfg.now().In(g.cfg.location)
	res := &Result{
		Kind:      kind,
		RenderID:  g.cfg.newID(),
		Filename:  kind.Filename(now),
		Rows:      len(tbl.Rows),
		CreatedAt: now,
	}

	log := g.log.With(slog.String("kind", string(kind)), slog.String("render_id", res.RenderID))
	var doc document
	switch kind {
	case Bonos:
		doc = g.prepareBonos(ctx, log, tbl, res)
	case Aniversarios:
		doc = g.prepareAniversarios(ctx, log, tbl, res)
	}
	return doc, res, nil
}

func (g *Generator) documentOptions(res *Result) []canvas.Option {
	title := g.cfg.bonusTitle
	if res.Kind == Aniversarios {
		title = g.cfg.anniversaryTitle
	}
	opts := []canvas.Option{
		canvas.WithMetadata(title, g.cfg.author),
		canvas.WithCreationDate(res.CreatedAt),
	}
	if g.cfg.letterhead != "" {
		opts = append(opts, canvas.WithLetterhead(g.cfg.letterhead))
	}
	return opts
}

func drawOn(doc document, c canvas.Canvas, res *Result) error {
	if err := doc.draw(c, res); err != nil {
		return err
	}
	return c.Err()
}

// protect runs fn, turning both its error and any panic into a *RenderError.
func protect(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newRenderError(op, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			return err
		}
		return newRenderError(op, err)
	}
	return nil
}

// warnDegraded logs, once per column, the rows whose values were replaced.
func warnDegraded(ctx context.Context, log *slog.Logger, column string, lines []int) {
	if len(lines) == 0 {
		return
	}
	log.WarnContext(ctx, "unreadable values replaced by zero",
		slog.String("column", column),
		slog.Int("count", len(lines)),
		slog.Any("rows", lines))
}
