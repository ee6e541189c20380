package report

import (
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Recorded drawing operations
const (
	OpPage = "page"
	OpText = "text"
	OpRect = "rect"
	OpLine = "line"
	OpArc  = "arc"
)

// ptToMM converts a font size in points to millimetres
const ptToMM = 0.3528

// Command is one recorded drawing operation
type Command struct {
	Page   int              `json:"page"`
	Layer  string           `json:"layer"`
	Op     string           `json:"op"`
	X      float64          `json:"x"`
	Y      float64          `json:"y"`
	W      float64          `json:"w,omitempty"`
	H      float64          `json:"h,omitempty"`
	Text   string           `json:"text,omitempty"`
	Bold   bool             `json:"bold,omitempty"`
	Italic bool             `json:"italic,omitempty"`
	Sweep  float64          `json:"sweep,omitempty"`
	Color  interfaces.Color `json:"color"`
}

// Bottom is the lowest vertical point the command touches
func (c Command) Bottom() float64 {
	return c.Y + c.H
}

// Plan is the serialized form of a recorded render
type Plan struct {
	PageWidth  float64                `json:"page_width"`
	PageHeight float64                `json:"page_height"`
	Pages      int                    `json:"pages"`
	Info       interfaces.DocumentInfo `json:"info"`
	Commands   []Command              `json:"commands"`
}

// Recorder is a DrawingSurface that records draw commands instead of producing a
// document. Text width is approximated from the font size, so layouts are stable
// and comparable without any font metrics.
type Recorder struct {
	width, height float64
	page          int
	layer         string
	info          interfaces.DocumentInfo
	commands      []Command

	// FailMeasure, when set, is consulted before each measurement; a non-nil
	// return is reported as a measurement failure
	FailMeasure func(text string) error
}

// NewRecorder creates a recorder with the given page size in millimetres
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height, layer: LayerBody}
}

// PageSize implements DrawingSurface
func (r *Recorder) PageSize() (float64, float64) {
	return r.width, r.height
}

// NewPage implements DrawingSurface
func (r *Recorder) NewPage() {
	r.page++
	r.commands = append(r.commands, Command{Page: r.page, Layer: r.layer, Op: OpPage, W: r.width, H: r.height})
}

// SetLayer tags subsequent commands with a page region
func (r *Recorder) SetLayer(layer string) {
	r.layer = layer
}

// Measure implements DrawingSurface
func (r *Recorder) Measure(text string, maxWidth float64, style interfaces.TextStyle) ([]string, error) {
	if r.FailMeasure != nil {
		if err := r.FailMeasure(text); err != nil {
			return nil, err
		}
	}
	return common.WrapText(text, maxWidth, func(s string) float64 { return r.TextWidth(s, style) }), nil
}

// TextWidth implements DrawingSurface; every rune is half an em wide
func (r *Recorder) TextWidth(text string, style interfaces.TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * style.Size * ptToMM * 0.5
}

// DrawText implements DrawingSurface
func (r *Recorder) DrawText(x, y, w, h float64, text string, style interfaces.TextStyle, align interfaces.Align) {
	r.record(Command{Op: OpText, X: x, Y: y, W: w, H: h, Text: text, Bold: style.Bold, Italic: style.Italic, Color: style.Color})
}

// DrawRect implements DrawingSurface
func (r *Recorder) DrawRect(x, y, w, h float64, fill interfaces.Color, radius float64) {
	r.record(Command{Op: OpRect, X: x, Y: y, W: w, H: h, Color: fill})
}

// DrawLine implements DrawingSurface. Lines are stored as their bounding box.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, color interfaces.Color, width float64) {
	x, y := min(x1, x2), min(y1, y2)
	r.record(Command{Op: OpLine, X: x, Y: y, W: max(x1, x2) - x, H: max(y1, y2) - y, Color: color})
}

// DrawCircleSegment implements DrawingSurface. Arcs are stored as the bounding
// box of the full circle.
func (r *Recorder) DrawCircleSegment(cx, cy, radius, startDeg, sweepDeg float64, color interfaces.Color, width float64) {
	r.record(Command{Op: OpArc, X: cx - radius, Y: cy - radius, W: 2 * radius, H: 2 * radius, Sweep: sweepDeg, Color: color})
}

// SetDocumentInfo implements DrawingSurface
func (r *Recorder) SetDocumentInfo(info interfaces.DocumentInfo) {
	r.info = info
}

// Output writes the recorded plan as JSON
func (r *Recorder) Output(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Plan())
}

// Plan returns a snapshot of everything recorded so far
func (r *Recorder) Plan() Plan {
	return Plan{
		PageWidth:  r.width,
		PageHeight: r.height,
		Pages:      r.page,
		Info:       r.info,
		Commands:   r.Commands(),
	}
}

// Pages returns how many pages were started
func (r *Recorder) Pages() int {
	return r.page
}

// Commands returns a copy of the recorded commands in draw order
func (r *Recorder) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Info returns the recorded document properties
func (r *Recorder) Info() interfaces.DocumentInfo {
	return r.info
}

func (r *Recorder) record(c Command) {
	c.Page = r.page
	c.Layer = r.layer
	r.commands = append(r.commands, c)
}
