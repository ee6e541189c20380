package report

import (
	"fmt"

	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Layout is the fixed page geometry of a report, in millimetres
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64 // reserved footer region
	MarginLeft   float64
	MarginRight  float64
	HeaderHeight float64 // running header drawn below MarginTop on content pages
}

// DefaultLayout returns A4 portrait geometry
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		MarginTop:    16,
		MarginBottom: 22,
		MarginLeft:   20,
		MarginRight:  20,
		HeaderHeight: 14,
	}
}

// WithPageSize returns a copy of l sized to the given page
func (l Layout) WithPageSize(width, height float64) Layout {
	l.PageWidth = width
	l.PageHeight = height
	return l
}

// ContentWidth is the usable width between the side margins
func (l Layout) ContentWidth() float64 {
	return l.PageWidth - l.MarginLeft - l.MarginRight
}

// ContentTop is where the cursor starts on a content page
func (l Layout) ContentTop() float64 {
	return l.MarginTop + l.HeaderHeight
}

// ContentBottom is the lowest point any body block may reach
func (l Layout) ContentBottom() float64 {
	return l.PageHeight - l.MarginBottom
}

// UsableHeight is the full body height of a content page
func (l Layout) UsableHeight() float64 {
	return l.ContentBottom() - l.ContentTop()
}

const (
	minUsableHeight = 40 // a section title plus a few lines of text
	minHeaderHeight = 10
	minFooterHeight = 14
)

// Validate rejects geometries the compositor cannot lay out
func (l Layout) Validate() error {
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		return fmt.Errorf("invalid page size %.1fx%.1f", l.PageWidth, l.PageHeight)
	}
	if l.MarginTop < 0 || l.MarginBottom < 0 || l.MarginLeft < 0 || l.MarginRight < 0 || l.HeaderHeight < 0 {
		return fmt.Errorf("margins and header height must not be negative")
	}
	if l.HeaderHeight < minHeaderHeight {
		return fmt.Errorf("header height %.1fmm is below the %dmm minimum", l.HeaderHeight, minHeaderHeight)
	}
	if l.MarginBottom < minFooterHeight {
		return fmt.Errorf("bottom margin %.1fmm cannot hold the footer (%dmm)", l.MarginBottom, minFooterHeight)
	}
	if l.ContentWidth() < 60 {
		return fmt.Errorf("content width %.1fmm is too narrow", l.ContentWidth())
	}
	if l.UsableHeight() < minUsableHeight {
		return fmt.Errorf("usable page height %.1fmm is below the %dmm minimum", l.UsableHeight(), minUsableHeight)
	}
	if l.ContentBottom() < coverMinContentBottom {
		return fmt.Errorf("content bottom %.1fmm leaves no room for the cover (needs %.1fmm)", l.ContentBottom(), coverMinContentBottom)
	}
	return nil
}

// Palette
var (
	colorText        = interfaces.Color{R: 31, G: 41, B: 55}
	colorMuted       = interfaces.Color{R: 107, G: 114, B: 128}
	colorBorder      = interfaces.Color{R: 209, G: 213, B: 219}
	colorTrack       = interfaces.Color{R: 229, G: 231, B: 235}
	colorPanel       = interfaces.Color{R: 243, G: 244, B: 246}
	colorRowAlt      = interfaces.Color{R: 249, G: 250, B: 251}
	colorWhite       = interfaces.Color{R: 255, G: 255, B: 255}
	colorBrand       = interfaces.Color{R: 30, G: 58, B: 138}
	colorPrimary     = interfaces.Color{R: 37, G: 99, B: 235}
	colorSuccess     = interfaces.Color{R: 22, G: 163, B: 74}
	colorWarning     = interfaces.Color{R: 217, G: 119, B: 6}
	colorCritical    = interfaces.Color{R: 220, G: 38, B: 38}
	colorSevCritical = interfaces.Color{R: 185, G: 28, B: 28}
	colorSevModerate = interfaces.Color{R: 234, G: 88, B: 12}
	colorSevMinor    = interfaces.Color{R: 202, G: 138, B: 4}
)

// Text styles and their line heights
var (
	styleBody        = interfaces.TextStyle{Size: 10, Color: colorText}
	styleBodyBold    = interfaces.TextStyle{Size: 10, Bold: true, Color: colorText}
	styleQuote       = interfaces.TextStyle{Size: 9.5, Italic: true, Color: colorMuted}
	stylePlaceholder = interfaces.TextStyle{Size: 10, Italic: true, Color: colorMuted}
	styleSmall       = interfaces.TextStyle{Size: 8, Color: colorMuted}
	styleSectionHead = interfaces.TextStyle{Size: 14, Bold: true, Color: colorBrand}
	styleSubHead     = interfaces.TextStyle{Size: 11, Bold: true, Color: colorText}
	styleTranscript  = interfaces.TextStyle{Size: 9, Color: colorText}
	styleChrome      = interfaces.TextStyle{Size: 8, Color: colorMuted}
	styleChromeBold  = interfaces.TextStyle{Size: 8, Bold: true, Color: colorMuted}
)

const (
	lineHeight           = 5.0
	lineHeightSmall      = 4.2
	lineHeightTranscript = 4.5
	sectionGap           = 6.0
	itemGap              = 4.0
	paragraphGap         = 2.0
)
