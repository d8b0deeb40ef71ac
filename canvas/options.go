package canvas

import "time"

// Option is a functional option for configuring a canvas via NewPDF or
// NewRecorder.
type Option func(*config)

type config struct {
	orientation string
	unit        string
	size        string
	family      string
	fontSize    float64

	left, top, right float64
	autoBreak        bool
	breakMargin      float64

	pageStart func(Canvas)
	pageEnd   func(Canvas)

	letterhead string

	title   string
	author  string
	created time.Time
}

func defaultConfig() *config {
	return &config{
		orientation: "portrait",
		unit:        "mm",
		size:        "Letter",
		family:      "Helvetica",
		fontSize:    9,
		left:        10,
		top:         10,
		right:       10,
		autoBreak:   true,
		breakMargin: 15,
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithOrientation sets the page orientation: "portrait" or "landscape".
func WithOrientation(orientation string) Option {
	return func(c *config) {
		c.orientation = orientation
	}
}

// WithUnit sets the measurement unit: "pt", "mm", "cm" or "in".
func WithUnit(unit string) Option {
	return func(c *config) {
		c.unit = unit
	}
}

// WithPageSize sets the page size by name, e.g. "Letter" or "A4".
func WithPageSize(size string) Option {
	return func(c *config) {
		c.size = size
	}
}

// WithFont sets the font family and the initial size.
func WithFont(family string, size float64) Option {
	return func(c *config) {
		c.family = family
		c.fontSize = size
	}
}

// WithMargins sets the left, top and right margins.
func WithMargins(left, top, right float64) Option {
	return func(c *config) {
		c.left, c.top, c.right = left, top, right
	}
}

// WithAutoPageBreak enables or disables automatic page breaks, triggered when
// content would come closer than margin to the bottom of the page.
func WithAutoPageBreak(auto bool, margin float64) Option {
	return func(c *config) {
		c.autoBreak = auto
		c.breakMargin = margin
	}
}

// WithPageStart sets the function called at the start of every page, after
// the page exists and before any content. It typically draws headers.
func WithPageStart(fn func(Canvas)) Option {
	return func(c *config) {
		c.pageStart = fn
	}
}

// WithPageEnd sets the function called when a page is finished. It typically
// draws footers.
func WithPageEnd(fn func(Canvas)) Option {
	return func(c *config) {
		c.pageEnd = fn
	}
}

// WithLetterhead uses the first page of the PDF at path as the background of
// every page.
func WithLetterhead(path string) Option {
	return func(c *config) {
		c.letterhead = path
	}
}

// WithMetadata sets the document title and author.
func WithMetadata(title, author string) Option {
	return func(c *config) {
		c.title = title
		c.author = author
	}
}

// WithCreationDate sets the document creation date.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}
