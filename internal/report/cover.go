package report

import (
	"fmt"

	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

// Cover geometry. Everything on the cover is absolutely positioned; with at most
// coverMaxRows single-line rows it fits any page whose ContentBottom is at least
// coverMinContentBottom, which Layout.Validate enforces.
const (
	coverBandHeight = 62.0
	coverTableTop   = 80.0
	coverRowHeight  = 9.0
	coverLabelWidth = 52.0
	coverMaxRows    = 14
	coverNoteOffset = 12.0 // confidentiality note sits this far above ContentBottom
	coverNoteGap    = 2.0

	coverMinContentBottom = coverTableTop + coverMaxRows*coverRowHeight + coverNoteGap + coverNoteOffset
)

type coverRow struct {
	label string
	value string
}

// renderCover draws the cover page. It never calls EnsureSpace.
func renderCover(c *composer) {
	pm := c.pm
	pm.StartCover()

	l := pm.Layout()
	s := pm.Surface()
	m := c.model
	cw := l.ContentWidth()

	s.DrawRect(0, 0, l.PageWidth, coverBandHeight, colorBrand, 0)
	s.DrawText(l.MarginLeft, 18, cw, 12, c.title, interfaces.TextStyle{Size: 24, Bold: true, Color: colorWhite}, interfaces.AlignLeft)
	nameStyle := interfaces.TextStyle{Size: 16, Color: colorWhite}
	s.DrawText(l.MarginLeft, 33, cw, 9, fit(s, m.Subject.Name, cw, nameStyle), nameStyle, interfaces.AlignLeft)
	if m.Subject.Role != "" {
		roleStyle := interfaces.TextStyle{Size: 11, Color: colorWhite}
		s.DrawText(l.MarginLeft, 43, cw, 6, fit(s, m.Subject.Role, cw, roleStyle), roleStyle, interfaces.AlignLeft)
	}

	s.DrawText(l.MarginLeft, coverTableTop-10, cw, 7, "Report Details", styleSubHead, interfaces.AlignLeft)
	rows := coverRows(c)
	if len(rows) > coverMaxRows {
		rows = rows[:coverMaxRows]
	}
	valueWidth := cw - coverLabelWidth - 4
	for i, row := range rows {
		y := coverTableTop + float64(i)*coverRowHeight
		if i%2 == 0 {
			s.DrawRect(l.MarginLeft, y, cw, coverRowHeight, colorRowAlt, 0)
		}
		s.DrawText(l.MarginLeft+2, y, coverLabelWidth, coverRowHeight, row.label, styleBodyBold, interfaces.AlignLeft)
		s.DrawText(l.MarginLeft+coverLabelWidth+2, y, valueWidth, coverRowHeight, fit(s, row.value, valueWidth, styleBody), styleBody, interfaces.AlignLeft)
	}
	tableBottom := coverTableTop + float64(len(rows))*coverRowHeight
	s.DrawLine(l.MarginLeft, tableBottom, l.MarginLeft+cw, tableBottom, colorBorder, 0.3)

	if c.confidentiality != "" {
		noteY := l.ContentBottom() - coverNoteOffset
		s.DrawText(l.MarginLeft, noteY, cw, 5, "This report is "+c.confidentiality+" and intended solely for the hiring team.", stylePlaceholder, interfaces.AlignCenter)
	}
}

func coverRows(c *composer) []coverRow {
	m := c.model
	rows := []coverRow{
		{"Candidate", m.Subject.Name},
		{"Role", orNA(m.Subject.Role)},
		{"Reference", m.Counterpart.Name},
		{"Relationship", orNA(m.Counterpart.Relationship)},
		{"Organization", orNA(m.Counterpart.Organization)},
	}
	if m.Counterpart.Tenure != "" {
		rows = append(rows, coverRow{"Tenure", m.Counterpart.Tenure})
	}
	completed := "n/a"
	if !m.SessionDetails.CompletedAt.IsZero() {
		completed = m.SessionDetails.CompletedAt.Format("2 January 2006, 15:04")
	}
	rows = append(rows,
		coverRow{"Interview Mode", orNA(titleCase(m.SessionDetails.Mode))},
		coverRow{"Duration", formatDuration(m.SessionDetails.DurationSeconds)},
		coverRow{"Conversation Turns", fmt.Sprintf("%d", m.SessionDetails.TurnsCount)},
		coverRow{"Completed", completed},
		coverRow{"Overall Score", formatScore(m.Recommendation.OverallScore, 100)},
		coverRow{"Recommendation", m.Recommendation.Label.DisplayName()},
		coverRow{"Generated", c.generatedAt.Format("2 January 2006")},
	)
	return rows
}

// fit truncates text with an ellipsis so it stays on one line of the given width
func fit(s interfaces.DrawingSurface, text string, width float64, style interfaces.TextStyle) string {
	return common.Truncate(text, width, func(t string) float64 { return s.TextWidth(t, style) })
}

func orNA(v string) string {
	if v == "" {
		return "n/a"
	}
	return v
}
