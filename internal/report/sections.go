package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

// section is one stage of the fixed rendering pipeline
type section struct {
	name    string
	title   string
	enabled func(opts models.ExportOptions) bool
	render  func(c *composer) error
}

// pipeline is the fixed section order after the cover page
var pipeline = []section{
	{name: "executive_summary", title: "Executive Summary", render: renderExecutiveSummary},
	{name: "key_findings", title: "Key Findings", render: renderKeyFindings},
	{name: "category_breakdown", title: "Category Breakdown", render: renderCategoryBreakdown},
	{name: "conversation_highlights", title: "Conversation Highlights", render: renderHighlights},
	{name: "red_flags", title: "Red Flags", render: renderRedFlags},
	{name: "verification_items", title: "Verification Items", render: renderVerification},
	{name: "final_recommendation", title: "Final Recommendation", render: renderRecommendation},
	{
		name:    "transcript_appendix",
		title:   "Transcript Appendix",
		enabled: func(opts models.ExportOptions) bool { return opts.IncludeTranscript },
		render:  renderTranscript,
	},
	{
		name:    "signature",
		title:   "Review & Sign-off",
		enabled: func(opts models.ExportOptions) bool { return opts.IncludeSignature },
		render:  renderSignature,
	},
}

const sectionTitleHeight = 14.0

// sectionTitle is the heading + underline rule that opens every section
func sectionTitle(pm *PageManager, title string) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	return AtomicBlock{
		Height:       sectionTitleHeight,
		KeepWithNext: lineHeight,
		Draw: func(top float64) {
			s.DrawText(l.MarginLeft, top, l.ContentWidth(), 8, title, styleSectionHead, interfaces.AlignLeft)
			s.DrawLine(l.MarginLeft, top+9.5, l.MarginLeft+l.ContentWidth(), top+9.5, colorPrimary, 0.5)
		},
	}
}

// subHeading is a bold single line kept together with the first line after it
func subHeading(pm *PageManager, text string, color interfaces.Color) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	style := styleSubHead
	style.Color = color
	return AtomicBlock{
		Height:       7,
		KeepWithNext: lineHeight,
		Draw: func(top float64) {
			s.DrawText(l.MarginLeft, top, l.ContentWidth(), 6, fit(s, text, l.ContentWidth(), style), style, interfaces.AlignLeft)
		},
	}
}

func renderExecutiveSummary(c *composer) error {
	pm := c.pm
	m := c.model
	if err := paragraph(m.ExecutiveSummary).Place(pm); err != nil {
		return err
	}
	pm.Gap(paragraphGap)

	l := pm.Layout()
	s := pm.Surface()
	rec := m.Recommendation
	gauge := ScoreGauge(pm, rec.OverallScore, 100)
	textX := l.MarginLeft + gaugeDiameter + 12
	textW := l.ContentWidth() - gaugeDiameter - 12
	row := AtomicBlock{
		Height: gauge.Height,
		Draw: func(top float64) {
			gauge.Draw(top)
			labelStyle := interfaces.TextStyle{Size: 13, Bold: true, Color: labelColor(rec.Label)}
			s.DrawText(textX, top+5, textW, 5, "Recommendation", styleSmall, interfaces.AlignLeft)
			s.DrawText(textX, top+10, textW, 7, rec.Label.DisplayName(), labelStyle, interfaces.AlignLeft)
			s.DrawText(textX, top+19, textW, 5, fmt.Sprintf("Confidence: %.0f%%", rec.ConfidenceLevel*100), styleBody, interfaces.AlignLeft)
			s.DrawText(textX, top+24, textW, 5, "Overall score: "+formatScore(rec.OverallScore, 100), styleBody, interfaces.AlignLeft)
		},
	}
	return row.Place(pm)
}

func renderKeyFindings(c *composer) error {
	pm := c.pm
	kf := c.model.KeyFindings
	groups := []struct {
		heading string
		color   interfaces.Color
		items   []string
		empty   string
	}{
		{"Strengths", colorSuccess, kf.Strengths, "No specific strengths were noted."},
		{"Concerns", colorWarning, kf.Concerns, "No significant concerns were identified."},
		{"Neutral Observations", colorMuted, kf.NeutralObservations, "No additional observations were recorded."},
	}

	for i, g := range groups {
		if i > 0 {
			pm.Gap(itemGap)
		}
		if err := subHeading(pm, g.heading, g.color).Place(pm); err != nil {
			return err
		}
		if len(g.items) == 0 {
			if err := placeholder(g.empty).Place(pm); err != nil {
				return err
			}
			continue
		}
		for _, item := range g.items {
			if err := bullet(item).Place(pm); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderCategoryBreakdown(c *composer) error {
	pm := c.pm
	if len(c.model.CategoryBreakdown) == 0 {
		return placeholder("No category scores were provided.").Place(pm)
	}
	for i, cat := range c.model.CategoryBreakdown {
		if i > 0 {
			pm.Gap(itemGap + 1)
		}
		heading := subHeading(pm, fmt.Sprintf("%d. %s", i+1, cat.Category), colorText)
		heading.KeepWithNext = scoreBarHeight
		blocks := []Placeable{heading, ScoreBar(pm, "Score", cat.Score, cat.MaxScore)}
		if cat.Summary != "" {
			blocks = append(blocks, paragraph(cat.Summary))
		}
		for _, ev := range cat.Evidence {
			blocks = append(blocks, quote(ev))
		}
		if err := placeAll(pm, blocks...); err != nil {
			return err
		}
	}
	return nil
}

func renderHighlights(c *composer) error {
	pm := c.pm
	if len(c.model.ConversationHighlights) == 0 {
		return placeholder("No conversation highlights were selected.").Place(pm)
	}
	for i, h := range c.model.ConversationHighlights {
		if i > 0 {
			pm.Gap(itemGap)
		}
		heading := subHeading(pm, fmt.Sprintf("Highlight %d  ·  %s", i+1, formatTimestamp(h.TimestampSeconds)), colorPrimary)
		q := paragraph("Q: " + h.Question)
		q.Style = styleBodyBold
		q.SpaceAfter = 1
		blocks := []Placeable{heading, q}
		if h.Answer != "" {
			blocks = append(blocks, paragraph("A: "+h.Answer))
		}
		if h.Significance != "" {
			note := quote(h.Significance)
			note.Text = "Why it matters: " + h.Significance
			note.Indent = 0
			blocks = append(blocks, note)
		}
		if err := placeAll(pm, blocks...); err != nil {
			return err
		}
	}
	return nil
}

func renderRedFlags(c *composer) error {
	pm := c.pm
	if len(c.model.RedFlags) == 0 {
		return placeholder("No red flags were identified during this reference check.").Place(pm)
	}
	for i, rf := range c.model.RedFlags {
		if i > 0 {
			pm.Gap(itemGap)
		}
		badge := SeverityBadge(pm, rf.Severity)
		badge.KeepWithNext = lineHeight
		blocks := []Placeable{badge, paragraph(rf.Description)}
		if rf.Evidence != "" {
			blocks = append(blocks, quote(rf.Evidence))
		}
		if err := placeAll(pm, blocks...); err != nil {
			return err
		}
	}
	return nil
}

// Verification row geometry
const (
	checkboxSize    = 4.0
	checkColumn     = 8.0
	statusColumn    = 24.0
	verifyRowPad    = 1.5
	verifyNotesLead = checkColumn
)

func renderVerification(c *composer) error {
	pm := c.pm
	if len(c.model.VerificationItems) == 0 {
		return placeholder("No verification items were recorded.").Place(pm)
	}
	l := pm.Layout()
	claimWidth := l.ContentWidth() - checkColumn - statusColumn
	for _, item := range c.model.VerificationItems {
		lines, err := pm.Measure(item.Claim, claimWidth, styleBody)
		if err != nil {
			return err
		}
		if err := checklistRow(pm, item, lines).Place(pm); err != nil {
			return err
		}
		if item.Notes != "" {
			notes := FlowBlock{
				Text:       "Note: " + item.Notes,
				Style:      styleQuote,
				LineHeight: lineHeightSmall,
				Indent:     verifyNotesLead,
				SpaceAfter: verifyRowPad,
			}
			if err := notes.Place(pm); err != nil {
				return err
			}
		}
	}
	return nil
}

// checklistRow is an atomic row: checkbox glyph, wrapped claim and status column
func checklistRow(pm *PageManager, item models.VerificationItem, lines []string) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	n := len(lines)
	if n == 0 {
		n = 1
	}
	return AtomicBlock{
		Height: float64(n)*lineHeight + verifyRowPad,
		Draw: func(top float64) {
			bx := l.MarginLeft + 1
			by := top + (lineHeight-checkboxSize)/2
			if item.Verified {
				s.DrawRect(bx, by, checkboxSize, checkboxSize, colorSuccess, 0.6)
				s.DrawLine(bx+0.8, by+2.1, bx+1.7, by+3.1, colorWhite, 0.5)
				s.DrawLine(bx+1.7, by+3.1, bx+3.3, by+0.9, colorWhite, 0.5)
			} else {
				s.DrawRect(bx, by, checkboxSize, checkboxSize, colorMuted, 0.6)
				s.DrawRect(bx+0.4, by+0.4, checkboxSize-0.8, checkboxSize-0.8, colorWhite, 0.4)
			}

			x := l.MarginLeft + checkColumn
			w := l.ContentWidth() - checkColumn - statusColumn
			for i, line := range lines {
				s.DrawText(x, top+float64(i)*lineHeight, w, lineHeight, line, styleBody, interfaces.AlignLeft)
			}

			status, color := "Unverified", colorWarning
			if item.Verified {
				status, color = "Verified", colorSuccess
			}
			s.DrawText(l.MarginLeft+l.ContentWidth()-statusColumn, top, statusColumn, lineHeight, status,
				interfaces.TextStyle{Size: 9, Bold: true, Color: color}, interfaces.AlignRight)
		},
	}
}

// Recommendation panel geometry. The box is sized for panelMaxLines of
// reasoning; longer reasoning keeps flowing below the box.
const (
	panelPad      = 4.0
	panelHeadRows = 17.0
	panelMaxLines = 8
	panelAccent   = 1.5
)

func renderRecommendation(c *composer) error {
	pm := c.pm
	l := pm.Layout()
	s := pm.Surface()
	rec := c.model.Recommendation

	reasoning := FlowBlock{
		Style:       styleBody,
		LineHeight:  lineHeight,
		Indent:      panelPad + panelAccent,
		RightIndent: panelPad,
	}
	lines, err := pm.Measure(rec.ReasoningSummary, reasoning.textWidth(l), styleBody)
	if err != nil {
		return err
	}
	if lines == nil {
		lines = []string{}
	}
	reasoning.Lines = lines

	boxLines := len(lines)
	if boxLines > panelMaxLines {
		boxLines = panelMaxLines
	}
	boxHeight := panelPad + panelHeadRows + float64(boxLines)*lineHeight + panelPad
	accent := labelColor(rec.Label)

	top := pm.EnsureSpace(boxHeight)
	page := pm.PageIndex()
	x := l.MarginLeft
	cw := l.ContentWidth()
	s.DrawRect(x, top, cw, boxHeight, colorPanel, 2)
	s.DrawRect(x, top, panelAccent, boxHeight, accent, 0)

	inner := x + panelPad + panelAccent
	innerW := cw - 2*panelPad - panelAccent
	s.DrawText(inner, top+panelPad, innerW, 5, "Overall Score", styleSmall, interfaces.AlignLeft)
	s.DrawText(inner, top+panelPad+5, innerW, 8, formatScore(rec.OverallScore, 100),
		interfaces.TextStyle{Size: 16, Bold: true, Color: tierColor(scoreRatio(rec.OverallScore, 100))}, interfaces.AlignLeft)
	s.DrawText(inner, top+panelPad, innerW, 5, "Recommendation", styleSmall, interfaces.AlignRight)
	s.DrawText(inner, top+panelPad+5, innerW, 8, rec.Label.DisplayName(),
		interfaces.TextStyle{Size: 13, Bold: true, Color: accent}, interfaces.AlignRight)
	s.DrawText(inner, top+panelPad+12, innerW, 5, fmt.Sprintf("Confidence: %.0f%%", rec.ConfidenceLevel*100), styleSmall, interfaces.AlignRight)
	pm.Advance(panelPad + panelHeadRows)

	if err := reasoning.Place(pm); err != nil {
		return err
	}
	if pm.PageIndex() == page {
		if rest := top + boxHeight - pm.Cursor(); rest > 0 {
			pm.Advance(rest)
		}
	}
	return nil
}

func renderTranscript(c *composer) error {
	pm := c.pm
	if !c.model.HasTranscript() {
		return placeholder("No transcript was captured for this session.").Place(pm)
	}
	for i, turn := range c.model.Transcript {
		if i > 0 {
			pm.Gap(paragraphGap)
		}
		heading := turnHeading(pm, fmt.Sprintf("%s  ·  %s", speakerLabel(turn.SpeakerRole), formatTimestamp(turn.TimestampSeconds)))
		body := FlowBlock{Text: turn.Text, Style: styleTranscript, LineHeight: lineHeightTranscript}
		if err := placeAll(pm, heading, body); err != nil {
			return err
		}
	}
	return nil
}

// turnHeading is the bold speaker/timestamp line above a transcript turn
func turnHeading(pm *PageManager, text string) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	style := interfaces.TextStyle{Size: 9, Bold: true, Color: colorBrand}
	return AtomicBlock{
		Height:       lineHeightTranscript + 0.5,
		KeepWithNext: lineHeightTranscript,
		Draw: func(top float64) {
			s.DrawText(l.MarginLeft, top, l.ContentWidth(), lineHeightTranscript, text, style, interfaces.AlignLeft)
		},
	}
}

const signatureHeight = 30.0

func renderSignature(c *composer) error {
	pm := c.pm
	l := pm.Layout()
	s := pm.Surface()
	block := AtomicBlock{
		Height: signatureHeight,
		Draw: func(top float64) {
			ruleY := top + 20
			left := l.MarginLeft
			split := l.MarginLeft + l.ContentWidth()*0.58
			dateStart := l.MarginLeft + l.ContentWidth()*0.68
			right := l.MarginLeft + l.ContentWidth()
			s.DrawLine(left, ruleY, split, ruleY, colorText, 0.3)
			s.DrawLine(dateStart, ruleY, right, ruleY, colorText, 0.3)
			s.DrawText(left, ruleY+1.5, split-left, 5, "Reviewed By", styleSmall, interfaces.AlignLeft)
			s.DrawText(dateStart, ruleY+1.5, right-dateStart, 5, "Date", styleSmall, interfaces.AlignLeft)
		},
	}
	return block.Place(pm)
}

func speakerLabel(role string) string {
	if role == "" {
		return "Speaker"
	}
	return titleCase(role)
}

// titleCase turns "ai_interviewer" into "Ai Interviewer"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// formatTimestamp renders seconds as m:ss, or h:mm:ss past the hour
func formatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, sec := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "n/a"
	}
	h, m, sec := seconds/3600, (seconds%3600)/60, seconds%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
