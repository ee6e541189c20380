package report

import (
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Placeable is anything the page manager can place: it knows its height,
// draws itself and advances the cursor.
type Placeable interface {
	Place(pm *PageManager) error
}

// AtomicBlock is drawn in one piece on a single page and never split.
// KeepWithNext reserves extra room below the block for whatever follows it,
// so a heading or badge is not stranded at the bottom of a page.
type AtomicBlock struct {
	Height       float64
	KeepWithNext float64
	Draw         func(top float64)
}

// Place implements Placeable
func (b AtomicBlock) Place(pm *PageManager) error {
	top := pm.EnsureSpace(b.Height + b.KeepWithNext)
	if b.Draw != nil {
		b.Draw(top)
	}
	pm.Advance(b.Height)
	return nil
}

// FlowBlock is wrapped text placed line by line, so it may continue on the
// next page between any two lines. Marker (a bullet) is drawn beside the first line only.
type FlowBlock struct {
	Text        string
	Lines       []string // pre-measured lines; Text is measured when nil
	Style       interfaces.TextStyle
	LineHeight  float64
	Indent      float64
	RightIndent float64
	Marker      string
	MarkerWidth float64
	SpaceAfter  float64
}

// Place implements Placeable
func (b FlowBlock) Place(pm *PageManager) error {
	l := pm.Layout()
	x := l.MarginLeft + b.Indent
	textX := x + b.MarkerWidth
	width := b.textWidth(l)
	lh := b.LineHeight
	if lh <= 0 {
		lh = lineHeight
	}

	lines := b.Lines
	if lines == nil {
		var err error
		if lines, err = pm.Measure(b.Text, width, b.Style); err != nil {
			return err
		}
	}
	if len(lines) == 0 {
		return nil
	}

	s := pm.Surface()
	for i, line := range lines {
		y := pm.EnsureSpace(lh)
		if i == 0 && b.Marker != "" {
			s.DrawText(x, y, b.MarkerWidth, lh, b.Marker, b.Style, interfaces.AlignLeft)
		}
		if line != "" {
			s.DrawText(textX, y, width, lh, line, b.Style, interfaces.AlignLeft)
		}
		pm.Advance(lh)
	}
	pm.Advance(b.SpaceAfter)
	return nil
}

func (b FlowBlock) textWidth(l Layout) float64 {
	return l.ContentWidth() - b.Indent - b.RightIndent - b.MarkerWidth
}

// paragraph is a body text flow block
func paragraph(text string) FlowBlock {
	return FlowBlock{Text: text, Style: styleBody, LineHeight: lineHeight, SpaceAfter: paragraphGap}
}

// bullet is a body text flow block with a leading marker
func bullet(text string) FlowBlock {
	return FlowBlock{
		Text:        text,
		Style:       styleBody,
		LineHeight:  lineHeight,
		Indent:      2,
		Marker:      "•",
		MarkerWidth: 5,
		SpaceAfter:  1.5,
	}
}

// quote is an indented italic flow block
func quote(text string) FlowBlock {
	return FlowBlock{
		Text:       "“" + text + "”",
		Style:      styleQuote,
		LineHeight: lineHeightSmall + 0.3,
		Indent:     6,
		SpaceAfter: 1.5,
	}
}

// placeholder is the one-line note rendered in place of an empty list
func placeholder(text string) FlowBlock {
	return FlowBlock{Text: text, Style: stylePlaceholder, LineHeight: lineHeight, SpaceAfter: paragraphGap}
}

// placeAll places blocks in order, stopping at the first error
func placeAll(pm *PageManager, blocks ...Placeable) error {
	for _, b := range blocks {
		if err := b.Place(pm); err != nil {
			return err
		}
	}
	return nil
}
