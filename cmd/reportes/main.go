// Command reportes serves the report upload page or renders a single report
// from the command line.
//
// # Usage
//
//	reportes [serve]
//	reportes render -kind bonos -in datos.csv [-out reporte.pdf] [-dry-run]
//
// serve listens on REPORTES_SERVER_PORT (or PORT, default 5000). Settings are
// read from reportes.yaml, or the file named by REPORTES_CONFIG, and
// REPORTES_* environment variables.
//
// render writes the PDF to -out, or to the default report file name when -out
// is omitted. With -dry-run nothing is written; the laid-out pages are
// printed as text instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/ingest"
	"github.com/lvillar/reportes/internal/config"
	"github.com/lvillar/reportes/internal/logging"
	"github.com/lvillar/reportes/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "reportes: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(stderr, cfg.Logging)
	slog.SetDefault(log)

	opts, err := cfg.Report.GeneratorOptions(log)
	if err != nil {
		return err
	}
	gen := reportes.NewGenerator(opts...)

	switch cmd {
	case "serve":
		return server.New(cfg, gen, log).Run(ctx)
	case "render":
		return render(ctx, gen, args, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q (want serve or render)", cmd)
	}
}

func render(ctx context.Context, gen *reportes.Generator, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kindName := fs.String("kind", "", "report kind: bonos or aniversarios")
	in := fs.String("in", "", "input .csv or .xlsx file")
	out := fs.String("out", "", "output PDF path (default: report file name in the current directory)")
	dryRun := fs.Bool("dry-run", false, "print the laid-out pages instead of writing a PDF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("render: -in is required")
	}

	kind, err := reportes.ParseKind(*kindName)
	if err != nil {
		return err
	}
	tbl, err := readTable(*in)
	if err != nil {
		return err
	}

	if *dryRun {
		_, rec, err := gen.Preview(ctx, kind, tbl)
		if err != nil {
			return err
		}
		return rec.WriteText(stdout)
	}

	res, err := gen.Generate(ctx, kind, tbl)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = res.Filename
	}
	if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d páginas, %d valores ilegibles, %d filas omitidas\n",
		filepath.Base(path), res.Pages, res.Degraded, res.Rejected)
	return nil
}

func readTable(path string) (*ingest.Table, error) {
	format, err := ingest.FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Read(f, format)
}
