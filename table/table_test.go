package table_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/table"
	"github.com/lvillar/reportes/textfit"
)

func newTestCanvas() *canvas.Recorder {
	rec := canvas.NewRecorder(canvas.WithOrientation("landscape"))
	rec.AddPage()
	return rec
}

func testColumns() []table.Column {
	return []table.Column{
		{Label: "GRUPO", Width: 30},
		{Label: "GUIA", Width: 20},
		{Label: "TOTAL", Width: 18, Align: canvas.AlignRight},
	}
}

func TestBasicTable(t *testing.T) {
	rec := newTestCanvas()

	tb := table.New(rec, testColumns()...)
	if err := tb.Header(); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := tb.Row(table.Text("ALFA"), table.Text("Ana"), table.Text("100 ")); err != nil {
		t.Fatalf("row: %v", err)
	}

	want := [][]string{{"GRUPO", "GUIA", "TOTAL"}, {"ALFA", "Ana", "100 "}}
	if got := rec.Rows(); !slices.EqualFunc(got, want, slices.Equal) {
		t.Fatalf("rows = %q, want %q", got, want)
	}
	if w := tb.Width(); w != 68 {
		t.Errorf("width = %v, want 68", w)
	}
}

func TestCellAttributes(t *testing.T) {
	rec := newTestCanvas()

	tb := table.New(rec, testColumns()...)
	_ = tb.Header()
	_ = tb.Row(table.Cell{Text: "x", Size: 6}, table.Empty(), table.Textf("%d", 7))

	var header, body []canvas.Op
	for _, op := range rec.Ops() {
		if op.Kind != canvas.OpCell {
			continue
		}
		if op.Style == canvas.StyleBold {
			header = append(header, op)
		} else {
			body = append(body, op)
		}
	}
	if len(header) != 3 || len(body) != 3 {
		t.Fatalf("got %d header and %d body cells", len(header), len(body))
	}
	for _, op := range header {
		if op.Align != canvas.AlignCenter || !op.Border {
			t.Errorf("header cell %q: align %q border %v", op.Text, op.Align, op.Border)
		}
	}
	if body[0].Size != 6 || body[1].Size != 8 {
		t.Errorf("sizes = %v, %v", body[0].Size, body[1].Size)
	}
	if body[2].Align != canvas.AlignRight {
		t.Errorf("column alignment not applied: %q", body[2].Align)
	}
	if body[0].H != 6 {
		t.Errorf("row height = %v, want 6", body[0].H)
	}
}

func TestCellCountMismatch(t *testing.T) {
	rec := newTestCanvas()
	tb := table.New(rec, testColumns()...)

	err := tb.Row(table.Text("only one"))
	if !errors.Is(err, table.ErrCellCount) {
		t.Fatalf("err = %v, want ErrCellCount", err)
	}
	if len(rec.Rows()) != 0 {
		t.Error("nothing should be drawn for a rejected row")
	}
}

func TestFit(t *testing.T) {
	rec := newTestCanvas()
	tb := table.New(rec, testColumns()...)
	f := textfit.New(rec)

	short := tb.Fit(f, 0, "ALFA")
	if short.Text != "ALFA" || short.Size != 8 {
		t.Errorf("short = %+v", short)
	}

	long := tb.Fit(f, 1, "MARIA GUADALUPE HERNANDEZ DE LA CRUZ")
	if long.Size != 6 {
		t.Errorf("long size = %v, want 6", long.Size)
	}
	if got := rec.StringWidth(long.Text, long.Size); got > 20 {
		t.Errorf("fitted text %q is %v wide", long.Text, got)
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n, chunks int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 2},
		{12, 3},
	}
	for _, tt := range tests {
		items := make([]int, tt.n)
		for i := range items {
			items[i] = i + 1
		}
		got := table.Chunks(items, 5)
		if len(got) != tt.chunks {
			t.Errorf("n=%d: %d chunks, want %d", tt.n, len(got), tt.chunks)
			continue
		}
		var flat []int
		for _, c := range got {
			if len(c) != 5 {
				t.Errorf("n=%d: chunk length %d", tt.n, len(c))
			}
			flat = append(flat, c...)
		}
		// items in order, then trailing zero padding
		for i, v := range flat {
			want := 0
			if i < tt.n {
				want = i + 1
			}
			if v != want {
				t.Errorf("n=%d: flat[%d] = %d, want %d", tt.n, i, v, want)
			}
		}
	}
}

func TestChunksInvalidSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for size 0")
		}
	}()
	table.Chunks([]int{1}, 0)
}
