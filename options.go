package reportes

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/reportes/canvas"
)

// Default report titles.
const (
	DefaultBonusTitle       = "CONGRESO 2025 - RESUMEN DE BONOS"
	DefaultAnniversaryTitle = "ANIVERSARIO DICIEMBRE 2025"
	DefaultAuthor           = "reportes"
)

// Option is a functional option for configuring a Generator via NewGenerator.
type Option func(*generatorConfig)

type generatorConfig struct {
	now      func() time.Time
	location *time.Location
	newID    func() string
	logger   *slog.Logger

	bonusTitle       string
	anniversaryTitle string
	author           string
	letterhead       string
	stamp            canvas.Stamp
}

// WithClock sets the function used for report dates and file names.
func WithClock(now func() time.Time) Option {
	return func(c *generatorConfig) {
		c.now = now
	}
}

// WithLocation sets the time zone report dates are shown in.
func WithLocation(loc *time.Location) Option {
	return func(c *generatorConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithIDGenerator sets the function that names each render.
func WithIDGenerator(fn func() string) Option {
	return func(c *generatorConfig) {
		c.newID = fn
	}
}

// WithLogger sets the logger for render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *generatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBonusTitle sets the title printed on every page of the bonus report.
func WithBonusTitle(title string) Option {
	return func(c *generatorConfig) {
		c.bonusTitle = title
	}
}

// WithAnniversaryTitle sets the title of the anniversary summary header.
func WithAnniversaryTitle(title string) Option {
	return func(c *generatorConfig) {
		c.anniversaryTitle = title
	}
}

// WithAuthor sets the author and creator recorded in the PDF metadata.
func WithAuthor(author string) Option {
	return func(c *generatorConfig) {
		c.author = author
	}
}

// WithLetterhead draws the first page of the PDF at path behind every page.
func WithLetterhead(path string) Option {
	return func(c *generatorConfig) {
		c.letterhead = path
	}
}

// WithStamp adds a verification barcode to the last page of every report.
func WithStamp(s canvas.Stamp) Option {
	if s == "" {
		s = canvas.StampNone
	}
	return func(c *generatorConfig) {
		c.stamp = s
	}
}

func newGeneratorConfig(opts []Option) *generatorConfig {
	cfg := &generatorConfig{
		now:              time.Now,
		location:         time.Local,
		newID:            uuid.NewString,
		logger:           slog.Default(),
		bonusTitle:       DefaultBonusTitle,
		anniversaryTitle: DefaultAnniversaryTitle,
		author:           DefaultAuthor,
		stamp:            canvas.StampNone,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
