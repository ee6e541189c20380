// -----------------------------------------------------------------------
// PDF Surface - fpdf backed drawing surface for the report compositor
// -----------------------------------------------------------------------

package pdf

import (
	"fmt"
	"io"
	"math"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

const fontFamily = "Helvetica"

// Surface implements interfaces.DrawingSurface on top of fpdf using the core
// Helvetica font. Text is translated to cp1252; runes outside it print as '.'.
type Surface struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	logger arbor.ILogger
	width  float64
	height float64
	pages  int
}

// Compile-time assertion
var _ interfaces.DrawingSurface = (*Surface)(nil)

// NewSurface creates a portrait surface with pages of the given size in millimetres
func NewSurface(width, height float64, logger arbor.ILogger) *Surface {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	// Page breaks are decided by the compositor, never by fpdf
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetFont(fontFamily, "", 10)

	return &Surface{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		logger: logger,
		width:  width,
		height: height,
	}
}

// NewA4Surface creates an A4 portrait surface
func NewA4Surface(logger arbor.ILogger) *Surface {
	return NewSurface(210, 297, logger)
}

// WithCreationDate pins the document creation date, making output reproducible
func (s *Surface) WithCreationDate(t time.Time) *Surface {
	s.pdf.SetCreationDate(t)
	s.pdf.SetModificationDate(t)
	return s
}

// PageSize implements interfaces.DrawingSurface
func (s *Surface) PageSize() (float64, float64) {
	return s.width, s.height
}

// NewPage implements interfaces.DrawingSurface
func (s *Surface) NewPage() {
	s.pdf.AddPage()
	s.pages++
}

// Pages returns how many pages have been added
func (s *Surface) Pages() int {
	return s.pages
}

// Measure implements interfaces.DrawingSurface
func (s *Surface) Measure(text string, maxWidth float64, style interfaces.TextStyle) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("text is not valid UTF-8")
	}
	if maxWidth <= 0 {
		return nil, fmt.Errorf("invalid wrap width %.2f", maxWidth)
	}
	s.setFont(style)
	lines := common.WrapText(text, maxWidth, func(line string) float64 {
		return s.pdf.GetStringWidth(s.tr(line))
	})
	if err := s.pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf measurement failed: %w", err)
	}
	return lines, nil
}

// TextWidth implements interfaces.DrawingSurface
func (s *Surface) TextWidth(text string, style interfaces.TextStyle) float64 {
	s.setFont(style)
	return s.pdf.GetStringWidth(s.tr(text))
}

// DrawText implements interfaces.DrawingSurface
func (s *Surface) DrawText(x, y, w, h float64, text string, style interfaces.TextStyle, align interfaces.Align) {
	if text == "" {
		return
	}
	s.setFont(style)
	s.pdf.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	s.pdf.SetXY(x, y)
	s.pdf.CellFormat(w, h, s.tr(text), "", 0, string(align), false, 0, "")
}

// DrawRect implements interfaces.DrawingSurface
func (s *Surface) DrawRect(x, y, w, h float64, fill interfaces.Color, radius float64) {
	if w <= 0 || h <= 0 {
		return
	}
	s.pdf.SetFillColor(fill.R, fill.G, fill.B)
	if radius > 0 {
		// corner radius cannot exceed half the shorter side
		r := math.Min(radius, math.Min(w, h)/2)
		s.pdf.RoundedRect(x, y, w, h, r, "1234", "F")
		return
	}
	s.pdf.Rect(x, y, w, h, "F")
}

// DrawLine implements interfaces.DrawingSurface
func (s *Surface) DrawLine(x1, y1, x2, y2 float64, color interfaces.Color, width float64) {
	s.pdf.SetDrawColor(color.R, color.G, color.B)
	s.pdf.SetLineWidth(width)
	s.pdf.Line(x1, y1, x2, y2)
}

// DrawCircleSegment implements interfaces.DrawingSurface. fpdf measures arc
// angles counter-clockwise from 3 o'clock, so the clockwise sweep from 12
// o'clock is drawn backwards from its end point.
func (s *Surface) DrawCircleSegment(cx, cy, radius, startDeg, sweepDeg float64, color interfaces.Color, width float64) {
	if sweepDeg <= 0 || radius <= 0 {
		return
	}
	s.pdf.SetDrawColor(color.R, color.G, color.B)
	s.pdf.SetLineWidth(width)
	if sweepDeg >= 360 {
		s.pdf.Circle(cx, cy, radius, "D")
		return
	}
	s.pdf.SetLineCapStyle("round")
	s.pdf.Arc(cx, cy, radius, radius, 0, 90-startDeg-sweepDeg, 90-startDeg, "D")
	s.pdf.SetLineCapStyle("butt")
}

// SetDocumentInfo implements interfaces.DrawingSurface
func (s *Surface) SetDocumentInfo(info interfaces.DocumentInfo) {
	s.pdf.SetTitle(info.Title, true)
	s.pdf.SetSubject(info.Subject, true)
	s.pdf.SetAuthor(info.Author, true)
	s.pdf.SetCreator(info.Creator, true)
}

// Output implements interfaces.DrawingSurface
func (s *Surface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		s.logger.Error().Err(err).Int("pages", s.pages).Msg("Failed to generate PDF output")
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return nil
}

func (s *Surface) setFont(style interfaces.TextStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle += "B"
	}
	if style.Italic {
		fontStyle += "I"
	}
	size := style.Size
	if size <= 0 {
		size = 10
	}
	s.pdf.SetFont(fontFamily, fontStyle, size)
}
