package reportes_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/ingest"
)

// ExampleGenerator_Preview lays out a bonus report without producing a PDF
// and prints the rows it would draw.
func ExampleGenerator_Preview() {
	csv := "GRUPO,GUIA,BONO,MONTO,ASISTENTES\n" +
		"Alfa,Ana,B1,1200,3\n" +
		"alfa,Ana,B2,\"34,5\",2\n"

	tbl, err := ingest.ReadCSV(strings.NewReader(csv))
	if err != nil {
		fmt.Println(err)
		return
	}

	gen := reportes.NewGenerator(
		reportes.WithClock(func() time.Time { return time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC) }),
		reportes.WithLocation(time.UTC),
	)
	res, rec, err := gen.Preview(context.Background(), reportes.Bonos, tbl)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Filename)
	if err := rec.WriteText(os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// reporte_bonos_20251201_0930.pdf
	// --- página 1 ---
	// CONGRESO 2025 - RESUMEN DE BONOS
	// 01/12/2025
	// GRUPO | GUIA | BON1 | BON2 | BON3 | BON4 | BON5 | MONT1 | MONT2 | MONT3 | MONT4 | MONT5 | ASIST. | TOTAL
	// ALFA | Ana | B1 | B2 |  |  |  | 1 200 | 34 |  |  |  | 5,00 | 1 234
	// TOTAL GENERAL: 1 234
	// Página 1
}
