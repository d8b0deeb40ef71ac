package mcp

import (
	"encoding/json"
	"strings"

	"github.com/lvillar/reportes"
)

// RegisterResources adds the report reference resources to the server.
func RegisterResources(s *Server) {
	s.AddResource(Resource{
		URI:         "reportes://columnas",
		Name:        "Required columns",
		Description: "Columns each report kind needs in its input file.",
		MIMEType:    "application/json",
		Handler:     handleColumnsResource,
	})

	s.AddResource(Resource{
		URI:         "reportes://plantillas",
		Name:        "Input templates",
		Description: "A header line per report kind, ready to be used as the first row of a CSV file.",
		MIMEType:    "text/csv",
		Handler:     handleTemplatesResource,
	})
}

func handleColumnsResource(uri string) ([]ResourceContent, error) {
	cols := make(map[string][]string, len(reportes.Kinds()))
	for _, k := range reportes.Kinds() {
		cols[string(k)] = k.RequiredColumns()
	}

	jsonBytes, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}

func handleTemplatesResource(uri string) ([]ResourceContent, error) {
	var b strings.Builder
	for _, k := range reportes.Kinds() {
		b.WriteString("# ")
		b.WriteString(string(k))
		b.WriteByte('\n')
		b.WriteString(strings.Join(k.RequiredColumns(), ","))
		b.WriteByte('\n')
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "text/csv",
		Text:     b.String(),
	}}, nil
}
