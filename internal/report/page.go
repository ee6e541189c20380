package report

import (
	"fmt"

	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Layers tag draw commands by page region on surfaces that support it
const (
	LayerBody   = "body"
	LayerHeader = "header"
	LayerFooter = "footer"
	LayerCover  = "cover"
)

// layerMarker is implemented by surfaces that record which page region a command belongs to
type layerMarker interface {
	SetLayer(layer string)
}

// PageChrome is the text repeated in running headers and footers
type PageChrome struct {
	Title           string
	SubjectName     string
	DateLabel       string
	Confidentiality string
}

// PageManager owns the write cursor and decides where page breaks go.
// It is created for a single export and never shared.
type PageManager struct {
	surface interfaces.DrawingSurface
	layout  Layout
	chrome  PageChrome

	pageIndex int     // pages started so far, the cover included
	footers   int     // footers drawn so far; the number printed on the last one
	cursorY   float64 // next free vertical position on the current page
	fresh     bool    // nothing has been placed on the current page yet
	finalized bool    // current page already carries its footer
}

// NewPageManager creates a page manager for one render
func NewPageManager(surface interfaces.DrawingSurface, layout Layout, chrome PageChrome) *PageManager {
	return &PageManager{
		surface: surface,
		layout:  layout,
		chrome:  chrome,
	}
}

// Surface returns the drawing surface blocks draw on
func (pm *PageManager) Surface() interfaces.DrawingSurface {
	return pm.surface
}

// Layout returns the page geometry
func (pm *PageManager) Layout() Layout {
	return pm.layout
}

// Cursor returns the current vertical write position
func (pm *PageManager) Cursor() float64 {
	return pm.cursorY
}

// PageIndex returns the 1-based number of the current page (0 before the first page)
func (pm *PageManager) PageIndex() int {
	return pm.pageIndex
}

// Footers returns how many footers have been drawn
func (pm *PageManager) Footers() int {
	return pm.footers
}

// Remaining returns the body space left on the current page
func (pm *PageManager) Remaining() float64 {
	return pm.layout.ContentBottom() - pm.cursorY
}

// StartCover opens the cover page. The cover is laid out with absolute
// coordinates and never goes through EnsureSpace.
func (pm *PageManager) StartCover() {
	pm.surface.NewPage()
	pm.pageIndex++
	pm.cursorY = pm.layout.MarginTop
	pm.fresh = true
	pm.finalized = false
	pm.setLayer(LayerCover)
}

// EnsureSpace guarantees that a block of the given height fits below the cursor,
// breaking to a new page when it does not. A block taller than a whole page is
// placed on a fresh page of its own instead of looping. Returns the cursor.
func (pm *PageManager) EnsureSpace(required float64) float64 {
	if pm.pageIndex == 0 {
		pm.startContentPage()
	}
	if pm.cursorY+required <= pm.layout.ContentBottom() {
		return pm.cursorY
	}
	if pm.fresh && required > pm.layout.UsableHeight() {
		return pm.cursorY
	}
	pm.BreakPage()
	return pm.cursorY
}

// Advance moves the cursor down after a block has been drawn
func (pm *PageManager) Advance(height float64) {
	if height <= 0 {
		return
	}
	pm.cursorY += height
	pm.fresh = false
}

// Gap adds vertical space between blocks. Gaps are dropped at the top of a page.
func (pm *PageManager) Gap(height float64) {
	if pm.fresh {
		return
	}
	pm.Advance(height)
}

// BreakPage finalizes the current page and starts a new content page
func (pm *PageManager) BreakPage() {
	pm.FinalizePage()
	pm.startContentPage()
}

// FinalizePage draws the footer of the current page. Calling it again on the
// same page is a no-op.
func (pm *PageManager) FinalizePage() {
	if pm.pageIndex == 0 || pm.finalized {
		return
	}
	pm.footers++
	pm.drawFooter(pm.footers)
	pm.finalized = true
	pm.setLayer(LayerBody)
}

// Measure wraps text through the surface, converting failures into MeasurementError
func (pm *PageManager) Measure(text string, width float64, style interfaces.TextStyle) ([]string, error) {
	lines, err := pm.surface.Measure(text, width, style)
	if err != nil {
		return nil, &MeasurementError{Snippet: snippet(text), Err: err}
	}
	return lines, nil
}

func (pm *PageManager) startContentPage() {
	pm.surface.NewPage()
	pm.pageIndex++
	pm.finalized = false
	pm.drawHeader()
	pm.cursorY = pm.layout.ContentTop()
	pm.fresh = true
}

func (pm *PageManager) drawHeader() {
	pm.setLayer(LayerHeader)
	l := pm.layout
	s := pm.surface
	s.DrawText(l.MarginLeft, l.MarginTop, l.ContentWidth(), 5, pm.chrome.Title, styleChromeBold, interfaces.AlignLeft)
	if pm.chrome.SubjectName != "" {
		s.DrawText(l.MarginLeft, l.MarginTop, l.ContentWidth(), 5, pm.chrome.SubjectName, styleChrome, interfaces.AlignRight)
	}
	ruleY := l.MarginTop + l.HeaderHeight - 5
	s.DrawLine(l.MarginLeft, ruleY, l.MarginLeft+l.ContentWidth(), ruleY, colorBorder, 0.3)
	pm.setLayer(LayerBody)
}

func (pm *PageManager) drawFooter(number int) {
	pm.setLayer(LayerFooter)
	l := pm.layout
	s := pm.surface
	ruleY := l.ContentBottom() + 6
	textY := ruleY + 2
	s.DrawLine(l.MarginLeft, ruleY, l.MarginLeft+l.ContentWidth(), ruleY, colorBorder, 0.2)
	if pm.chrome.DateLabel != "" {
		s.DrawText(l.MarginLeft, textY, l.ContentWidth(), 5, pm.chrome.DateLabel, styleChrome, interfaces.AlignLeft)
	}
	if pm.chrome.Confidentiality != "" {
		s.DrawText(l.MarginLeft, textY, l.ContentWidth(), 5, pm.chrome.Confidentiality, styleChromeBold, interfaces.AlignCenter)
	}
	s.DrawText(l.MarginLeft, textY, l.ContentWidth(), 5, fmt.Sprintf("Page %d", number), styleChrome, interfaces.AlignRight)
}

func (pm *PageManager) setLayer(layer string) {
	if m, ok := pm.surface.(layerMarker); ok {
		m.SetLayer(layer)
	}
}
