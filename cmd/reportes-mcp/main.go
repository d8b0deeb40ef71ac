// Command reportes-mcp is an MCP (Model Context Protocol) server that exposes
// report generation to AI assistants over stdio.
//
// # Installation
//
//	go install github.com/lvillar/reportes/cmd/reportes-mcp@latest
//
// # Available Tools
//
//   - generar_bonos: Render the bonus summary PDF
//   - generar_aniversarios: Render the anniversary PDF
//   - validar_datos: Check columns and count unreadable values
//   - vista_previa: Lay out a report as plain text
//
// # Available Resources
//
//   - reportes://columnas : Required columns per report kind
//   - reportes://plantillas : CSV header lines per report kind
//
// Logs go to stderr; stdout carries only protocol messages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/internal/config"
	"github.com/lvillar/reportes/internal/logging"
	"github.com/lvillar/reportes/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportes-mcp: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Logging)

	opts, err := cfg.Report.GeneratorOptions(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportes-mcp: %v\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(log)
	mcp.RegisterTools(server, reportes.NewGenerator(opts...))
	mcp.RegisterResources(server)

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "reportes-mcp: %v\n", err)
		os.Exit(1)
	}
}
