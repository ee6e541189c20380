package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

const (
	DefaultReportKind      = "Reference_Check"
	DefaultExtension       = "pdf"
	DefaultTitle           = "Reference Check Report"
	DefaultConfidentiality = "CONFIDENTIAL"
)

// Config controls the fixed text and geometry of every report a Compositor produces
type Config struct {
	ReportKind      string // filename prefix, e.g. "Reference_Check"
	Extension       string
	Title           string // cover title and running header
	Confidentiality string // footer label
	Author          string
	Layout          Layout
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		ReportKind:      DefaultReportKind,
		Extension:       DefaultExtension,
		Title:           DefaultTitle,
		Confidentiality: DefaultConfidentiality,
		Layout:          DefaultLayout(),
	}
}

// Result describes a completed render
type Result struct {
	Filename    string
	Pages       int
	Footers     int
	Sections    []string
	GeneratedAt time.Time
}

// Compositor lays out a ReportContentModel onto a drawing surface.
// It holds no per-render state and may be shared between goroutines.
type Compositor struct {
	cfg    Config
	logger arbor.ILogger
	now    func() time.Time
}

// NewCompositor creates a compositor; empty config fields fall back to defaults
func NewCompositor(cfg Config, logger arbor.ILogger) *Compositor {
	def := DefaultConfig()
	if cfg.ReportKind == "" {
		cfg.ReportKind = def.ReportKind
	}
	if cfg.Extension == "" {
		cfg.Extension = def.Extension
	}
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if cfg.Layout == (Layout{}) {
		cfg.Layout = def.Layout
	}
	return &Compositor{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for dates and filenames
func (c *Compositor) WithClock(now func() time.Time) *Compositor {
	c.now = now
	return c
}

// Config returns the effective configuration
func (c *Compositor) Config() Config {
	return c.cfg
}

// composer carries the per-render state shared by the section renderers
type composer struct {
	pm              *PageManager
	model           *models.ReportContentModel
	opts            models.ExportOptions
	title           string
	confidentiality string
	generatedAt     time.Time
}

// Compose renders the model onto surface: cover, then every enabled section in
// fixed order on one page manager, then the final footer. The model is never
// modified. Validation failures return ErrMissingRequiredData before any page is
// started; anything failing later returns ErrExportFailed and the surface must be
// discarded.
func (c *Compositor) Compose(surface interfaces.DrawingSurface, m *models.ReportContentModel, opts models.ExportOptions) (res *Result, err error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingRequiredData, err)
	}

	layout := c.cfg.Layout.WithPageSize(surface.PageSize())
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid layout: %w", ErrExportFailed, err)
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Str("panic", fmt.Sprintf("%v", r)).Str("subject", m.Subject.Name).Msg("Report render panicked")
			res = nil
			err = fmt.Errorf("%w: %v", ErrExportFailed, r)
		}
	}()

	generatedAt := c.now()
	surface.SetDocumentInfo(interfaces.DocumentInfo{
		Title:   fmt.Sprintf("%s - %s", c.cfg.Title, m.Subject.Name),
		Subject: fmt.Sprintf("Reference check for %s", m.Subject.Name),
		Author:  c.cfg.Author,
		Creator: "refcheck",
	})

	pm := NewPageManager(surface, layout, PageChrome{
		Title:           c.cfg.Title,
		SubjectName:     m.Subject.Name,
		DateLabel:       generatedAt.Format("2 Jan 2006"),
		Confidentiality: c.cfg.Confidentiality,
	})
	cmp := &composer{
		pm:              pm,
		model:           m,
		opts:            opts,
		title:           c.cfg.Title,
		confidentiality: c.cfg.Confidentiality,
		generatedAt:     generatedAt,
	}

	renderCover(cmp)
	pm.BreakPage()
	rendered := []string{"cover"}

	for i, sec := range pipeline {
		if sec.enabled != nil && !sec.enabled(opts) {
			continue
		}
		if i > 0 {
			pm.Gap(sectionGap)
		}
		if err := sectionTitle(pm, sec.title).Place(pm); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrExportFailed, sec.name, err)
		}
		if err := sec.render(cmp); err != nil {
			c.logger.Warn().Err(err).Str("section", sec.name).Str("subject", m.Subject.Name).Msg("Report section failed to render")
			return nil, fmt.Errorf("%w: %s: %w", ErrExportFailed, sec.name, err)
		}
		rendered = append(rendered, sec.name)
	}
	pm.FinalizePage()

	c.logger.Debug().
		Str("subject", m.Subject.Name).
		Int("pages", pm.PageIndex()).
		Bool("transcript", opts.IncludeTranscript).
		Bool("signature", opts.IncludeSignature).
		Msg("Report composed")

	return &Result{
		Filename:    Filename(c.cfg.ReportKind, m.Subject.Name, generatedAt, c.cfg.Extension),
		Pages:       pm.PageIndex(),
		Footers:     pm.Footers(),
		Sections:    rendered,
		GeneratedAt: generatedAt,
	}, nil
}

// Filename builds "{kind}_{subject with spaces as underscores}_{YYYY-MM-DD}.{ext}"
func Filename(kind, subjectName string, date time.Time, ext string) string {
	name := strings.TrimSpace(subjectName)
	name = strings.NewReplacer(" ", "_", "/", "-", "\\", "-").Replace(name)
	return fmt.Sprintf("%s_%s_%s.%s", kind, name, date.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
