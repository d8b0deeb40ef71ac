// Package textfit shrinks or truncates text so that it fits a fixed-width
// table cell.
package textfit

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the width of text set at the given font size, in the same
// unit as the widths passed to Fit.
type Measurer interface {
	StringWidth(text string, size float64) float64
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, size float64) float64

// StringWidth implements Measurer.
func (f MeasurerFunc) StringWidth(text string, size float64) float64 {
	return f(text, size)
}

// Defaults used by New.
var (
	DefaultSizes         = []float64{8, 7, 6}
	DefaultMargin        = 5.0
	DefaultEllipsis      = ".."
	DefaultFallbackRatio = 3.0
)

// Fitted is the result of fitting a string: the text to draw and the font
// size to draw it at.
type Fitted struct {
	Text      string
	Size      float64
	Truncated bool
}

// Fitter fits text into a maximum width.
type Fitter struct {
	m Measurer

	// Sizes are tried in order; the first is the default size and the last
	// is used for truncation.
	Sizes []float64
	// Margin is reserved on the right when truncating at word boundaries.
	Margin float64
	// Ellipsis is appended to truncated text.
	Ellipsis string
	// FallbackRatio divides maxWidth to get the rune count kept when not even
	// one word fits.
	FallbackRatio float64
}

// New returns a Fitter using m and the package defaults.
func New(m Measurer) *Fitter {
	return &Fitter{
		m:             m,
		Sizes:         append([]float64(nil), DefaultSizes...),
		Margin:        DefaultMargin,
		Ellipsis:      DefaultEllipsis,
		FallbackRatio: DefaultFallbackRatio,
	}
}

// Fit returns text unchanged at the first size in f.Sizes where it fits
// maxWidth. When no size fits, it keeps whole words at the smallest size
// while they fit maxWidth minus f.Margin and appends f.Ellipsis if anything
// was dropped. If not even the first word fits, the first maxWidth/FallbackRatio
// runes are kept instead.
//
// The returned size is the one the caller must draw with; Fit never changes
// any canvas state.
func (f *Fitter) Fit(text string, maxWidth float64) Fitted {
	sizes := f.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}

	for _, size := range sizes {
		if f.m.StringWidth(text, size) <= maxWidth {
			return Fitted{Text: text, Size: size}
		}
	}

	smallest := sizes[len(sizes)-1]
	shortened := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if shortened != "" {
			candidate = shortened + " " + word
		}
		if f.m.StringWidth(candidate, smallest) > maxWidth-f.Margin {
			break
		}
		shortened = candidate
	}

	if shortened == "" {
		shortened = prefix(text, int(maxWidth/f.ratio()))
	}

	if utf8.RuneCountInString(shortened) < utf8.RuneCountInString(text) {
		return Fitted{Text: shortened + f.Ellipsis, Size: smallest, Truncated: true}
	}
	return Fitted{Text: shortened, Size: smallest}
}

func (f *Fitter) ratio() float64 {
	if f.FallbackRatio <= 0 {
		return DefaultFallbackRatio
	}
	return f.FallbackRatio
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
