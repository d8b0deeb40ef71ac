package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "datos.csv")
	require.NoError(t, os.WriteFile(path, []byte("GRUPO,GUIA,BONO,MONTO,ASISTENTES\nAlfa,Ana,B1,100,2\n"), 0o644))
	return path
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REPORTES_CONFIG", filepath.Join(dir, "none.yaml"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "none.yaml"), []byte("{}\n"), 0o644))
	t.Setenv("REPORTES_LOGGING_LEVEL", "error")
	return dir
}

func TestRenderWritesPDF(t *testing.T) {
	dir := setupEnv(t)
	in := writeInput(t, dir)
	out := filepath.Join(dir, "salida.pdf")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"render", "-kind", "bonos", "-in", in, "-out", out}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "salida.pdf: 1 páginas, 0 valores ilegibles, 0 filas omitidas\n", stdout.String())
}

func TestRenderDryRun(t *testing.T) {
	dir := setupEnv(t)
	in := writeInput(t, dir)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"render", "-kind", "bonos", "-in", in, "-dry-run"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.True(t, strings.HasPrefix(stdout.String(), "--- página 1 ---\n"))
	assert.Contains(t, stdout.String(), "ALFA | Ana | B1")
	assert.Contains(t, stdout.String(), "TOTAL GENERAL: 100")
}

func TestRenderErrors(t *testing.T) {
	dir := setupEnv(t)
	in := writeInput(t, dir)

	tests := [][]string{
		{"render", "-kind", "bonos"},
		{"render", "-kind", "ventas", "-in", in},
		{"render", "-kind", "bonos", "-in", filepath.Join(dir, "datos.txt")},
		{"render", "-kind", "aniversarios", "-in", in},
		{"render", "-nope"},
		{"publish"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), args, &stdout, &stderr)
		assert.Error(t, err, strings.Join(args, " "))
	}
}
