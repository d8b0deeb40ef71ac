package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/ingest"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// dataArgs selects the spreadsheet a tool works on: a file on disk or CSV
// text passed inline.
type dataArgs struct {
	Path string `json:"path" validate:"required_without=CSV,excluded_with=CSV"`
	CSV  string `json:"csv" validate:"required_without=Path"`
}

type generateArgs struct {
	dataArgs
	OutputPath string `json:"outputPath"`
}

type kindArgs struct {
	dataArgs
	Kind string `json:"kind" validate:"required,oneof=bonos aniversarios"`
}

// decodeArgs unmarshals and validates tool arguments into dst.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, ", "))
		}
		return err
	}
	return nil
}

func (a dataArgs) table() (*ingest.Table, error) {
	if a.CSV != "" {
		return ingest.ReadCSV(strings.NewReader(a.CSV))
	}
	format, err := ingest.FormatOf(a.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Read(f, format)
}

var dataProperties = map[string]any{
	"path": map[string]any{
		"type":        "string",
		"description": "Path to a .csv or .xlsx file",
	},
	"csv": map[string]any{
		"type":        "string",
		"description": "CSV content with a header row, used instead of path",
	},
}

func schema(extra map[string]any, required ...string) map[string]any {
	props := make(map[string]any, len(dataProperties)+len(extra))
	for k, v := range dataProperties {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var kindProperty = map[string]any{
	"kind": map[string]any{
		"type":        "string",
		"enum":        []string{string(reportes.Bonos), string(reportes.Aniversarios)},
		"description": "Report kind",
	},
}

// RegisterTools adds the report tools to the server. Every tool renders
// with gen.
func RegisterTools(s *Server, gen *reportes.Generator) {
	s.AddTool(generateTool(gen, reportes.Bonos,
		"Generate the bonus summary PDF (columns GRUPO, GUIA, BONO, MONTO, ASISTENTES). Rows are grouped by group and guide, five bonuses per table row, with a grand total."))
	s.AddTool(generateTool(gen, reportes.Aniversarios,
		"Generate the anniversary PDF (columns ANIVERSARIO, NOMBRE). People are grouped by years celebrated and listed in four columns per page."))
	s.AddTool(validateTool(gen))
	s.AddTool(previewTool(gen))
}

func generateTool(gen *reportes.Generator, kind reportes.Kind, description string) Tool {
	return Tool{
		Name:        "generar_" + string(kind),
		Description: description + " Returns the PDF as base64 unless outputPath is given.",
		InputSchema: schema(map[string]any{
			"outputPath": map[string]any{
				"type":        "string",
				"description": "Optional file path to save the PDF. If omitted, returns base64.",
			},
		}),
		Handler: func(ctx context.Context, raw json.RawMessage) (ToolResult, error) {
			var args generateArgs
			if err := decodeArgs(raw, &args); err != nil {
				return ToolResult{}, err
			}
			tbl, err := args.table()
			if err != nil {
				return ToolResult{}, fmt.Errorf("reading data: %w", err)
			}
			res, err := gen.Generate(ctx, kind, tbl)
			if err != nil {
				return ToolResult{}, err
			}

			summary := fmt.Sprintf("%s: %d pages, %d rows, %d unreadable values, %d rows left out",
				res.Filename, res.Pages, res.Rows, res.Degraded, res.Rejected)

			if args.OutputPath != "" {
				if err := os.WriteFile(args.OutputPath, res.PDF, 0o644); err != nil {
					return ToolResult{}, fmt.Errorf("writing file: %w", err)
				}
				return TextResult("PDF saved to %s (%d bytes). %s", args.OutputPath, len(res.PDF), summary), nil
			}

			encoded := base64.StdEncoding.EncodeToString(res.PDF)
			return TextResult("%s (%d bytes). Base64 data:\n%s", summary, len(res.PDF), encoded), nil
		},
	}
}

func validateTool(gen *reportes.Generator) Tool {
	return Tool{
		Name:        "validar_datos",
		Description: "Check that a spreadsheet has the columns a report needs and count the rows, groups and values that could not be read, without rendering.",
		InputSchema: schema(kindProperty, "kind"),
		Handler: func(ctx context.Context, raw json.RawMessage) (ToolResult, error) {
			var args kindArgs
			if err := decodeArgs(raw, &args); err != nil {
				return ToolResult{}, err
			}
			tbl, err := args.table()
			if err != nil {
				return ToolResult{}, fmt.Errorf("reading data: %w", err)
			}

			report := map[string]any{"kind": args.Kind, "columns": tbl.Columns}
			res, err := gen.Validate(ctx, reportes.Kind(args.Kind), tbl)
			var schemaErr *reportes.SchemaError
			switch {
			case errors.As(err, &schemaErr):
				report["valid"] = false
				report["missing"] = schemaErr.Missing
			case err != nil:
				return ToolResult{}, err
			default:
				report["valid"] = true
				report["rows"] = res.Rows
				report["groups"] = res.Groups
				report["degraded"] = res.Degraded
				report["rejected"] = res.Rejected
			}

			out, _ := json.MarshalIndent(report, "", "  ")
			return TextResult("%s", out), nil
		},
	}
}

func previewTool(gen *reportes.Generator) Tool {
	return Tool{
		Name:        "vista_previa",
		Description: "Lay out a report without producing a PDF and return its pages as plain text, one line per table row or paragraph.",
		InputSchema: schema(kindProperty, "kind"),
		Handler: func(ctx context.Context, raw json.RawMessage) (ToolResult, error) {
			var args kindArgs
			if err := decodeArgs(raw, &args); err != nil {
				return ToolResult{}, err
			}
			tbl, err := args.table()
			if err != nil {
				return ToolResult{}, fmt.Errorf("reading data: %w", err)
			}
			_, rec, err := gen.Preview(ctx, reportes.Kind(args.Kind), tbl)
			if err != nil {
				return ToolResult{}, err
			}

			var buf bytes.Buffer
			if err := rec.WriteText(&buf); err != nil {
				return ToolResult{}, err
			}
			return TextResult("%s", buf.String()), nil
		},
	}
}
