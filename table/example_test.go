package table_test

import (
	"fmt"
	"os"

	"github.com/lvillar/reportes/canvas"
	"github.com/lvillar/reportes/table"
)

// ExampleTable draws a header and one row per chunk of bonuses, leaving the
// guide blank on continuation rows.
func ExampleTable() {
	rec := canvas.NewRecorder(canvas.WithOrientation("landscape"))
	rec.AddPage()

	tbl := table.New(rec,
		table.Column{Label: "GUIA", Width: 20},
		table.Column{Label: "BON1", Width: 12},
		table.Column{Label: "BON2", Width: 12},
	)
	if err := tbl.Header(); err != nil {
		fmt.Println(err)
		return
	}

	for i, chunk := range table.Chunks([]string{"B1", "B2", "B3", "B4"}, 2) {
		guia := ""
		if i == 0 {
			guia = "Ana"
		}
		if err := tbl.Row(table.Text(guia), table.Text(chunk[0]), table.Text(chunk[1])); err != nil {
			fmt.Println(err)
			return
		}
	}

	if err := rec.WriteText(os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// --- página 1 ---
	// GUIA | BON1 | BON2
	// Ana | B1 | B2
	//  | B3 | B4
}
