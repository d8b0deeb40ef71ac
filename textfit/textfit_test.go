package textfit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monospace measures every rune as half the font size wide.
var monospace = MeasurerFunc(func(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
})

func TestFitUnchanged(t *testing.T) {
	f := New(monospace)

	got := f.Fit("Short", 100)
	assert.Equal(t, "Short", got.Text)
	assert.Equal(t, 8.0, got.Size)
	assert.False(t, got.Truncated)
}

func TestFitShrinks(t *testing.T) {
	f := New(monospace)

	// 10 runes: 40 at size 8, 35 at size 7, 30 at size 6
	got := f.Fit("ABCDEFGHIJ", 36)
	assert.Equal(t, "ABCDEFGHIJ", got.Text)
	assert.Equal(t, 7.0, got.Size)

	got = f.Fit("ABCDEFGHIJ", 30)
	assert.Equal(t, "ABCDEFGHIJ", got.Text)
	assert.Equal(t, 6.0, got.Size)
}

func TestFitTruncatesAtWords(t *testing.T) {
	f := New(monospace)
	in := "A very long name that cannot possibly fit"

	got := f.Fit(in, 20)
	require.True(t, got.Truncated)
	assert.True(t, strings.HasSuffix(got.Text, ".."))
	assert.Less(t, len(got.Text), len(in))
	assert.Equal(t, "A..", got.Text)
	assert.Equal(t, 6.0, got.Size)

	// 3 per rune at size 6, 45 - 5 leaves room for "A very long" (33)
	got = f.Fit(in, 45)
	assert.Equal(t, "A very long..", got.Text)
}

func TestFitFallsBackToPrefix(t *testing.T) {
	f := New(monospace)

	got := f.Fit("Supercalifragilistico", 21)
	assert.Equal(t, "Superca..", got.Text)
	assert.True(t, got.Truncated)
}

func TestFitEmptyAndMultibyte(t *testing.T) {
	f := New(monospace)

	assert.Equal(t, "", f.Fit("", 10).Text)

	got := f.Fit("ÑÑÑÑÑÑÑÑÑÑÑÑ", 12)
	assert.Equal(t, "ÑÑÑÑ..", got.Text)
	assert.True(t, utf8.ValidString(got.Text))
}

func TestFitCustomSizes(t *testing.T) {
	f := New(monospace)
	f.Sizes = []float64{10}
	f.Ellipsis = "…"

	got := f.Fit("uno dos tres cuatro", 40)
	assert.Equal(t, 10.0, got.Size)
	assert.Equal(t, "uno dos…", got.Text)
}
