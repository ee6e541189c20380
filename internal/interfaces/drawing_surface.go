// -----------------------------------------------------------------------
// Drawing Surface Interface - primitive page drawing used by the report compositor
// -----------------------------------------------------------------------

package interfaces

import "io"

// Color is an RGB color with 0-255 components
type Color struct {
	R, G, B int
}

// Align is the horizontal alignment of text inside its cell
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextStyle selects font size, weight and color for measured or drawn text
type TextStyle struct {
	Size   float64 // points
	Bold   bool
	Italic bool
	Color  Color
}

// DocumentInfo carries document properties written into the output
type DocumentInfo struct {
	Title   string
	Subject string
	Author  string
	Creator string
}

// DrawingSurface is the primitive capability set the report compositor draws on.
// All coordinates are in millimetres from the top-left corner of the current page.
// Implementations are single-use: one surface per export.
type DrawingSurface interface {
	// PageSize returns the width and height of every page
	PageSize() (width, height float64)

	// NewPage starts a new empty page; subsequent drawing targets it
	NewPage()

	// Measure wraps text to maxWidth using style and returns the ordered lines.
	// Explicit newlines always start a new line. An error means the content
	// cannot be rendered by this surface.
	Measure(text string, maxWidth float64, style TextStyle) ([]string, error)

	// TextWidth returns the rendered width of a single line of text
	TextWidth(text string, style TextStyle) float64

	// DrawText draws one line of text inside the cell (x, y, w, h), vertically centred
	DrawText(x, y, w, h float64, text string, style TextStyle, align Align)

	// DrawRect fills a rectangle; radius > 0 rounds its corners
	DrawRect(x, y, w, h float64, fill Color, radius float64)

	// DrawLine strokes a straight line
	DrawLine(x1, y1, x2, y2 float64, color Color, width float64)

	// DrawCircleSegment strokes an arc of a circle centred on (cx, cy), starting at
	// startDeg (0 = 12 o'clock) and sweeping clockwise by sweepDeg degrees
	DrawCircleSegment(cx, cy, radius, startDeg, sweepDeg float64, color Color, width float64)

	// SetDocumentInfo records document properties
	SetDocumentInfo(info DocumentInfo)

	// Output serializes every page drawn so far
	Output(w io.Writer) error
}
