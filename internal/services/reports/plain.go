package reports

import (
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/ternarybob/refcheck/internal/services/pdf"
)

// plainModel returns a copy of m with markdown flattened in every narrative field.
// Slices are copied so the caller's model is left untouched.
func plainModel(m *models.ReportContentModel) *models.ReportContentModel {
	out := *m

	out.ExecutiveSummary = plainRequired(m.ExecutiveSummary)
	out.KeyFindings = models.KeyFindings{
		Strengths:           plainList(m.KeyFindings.Strengths),
		Concerns:            plainList(m.KeyFindings.Concerns),
		NeutralObservations: plainList(m.KeyFindings.NeutralObservations),
	}

	if m.CategoryBreakdown != nil {
		out.CategoryBreakdown = make([]models.CategoryScore, len(m.CategoryBreakdown))
		for i, c := range m.CategoryBreakdown {
			c.Summary = pdf.PlainText(c.Summary)
			c.Evidence = plainList(c.Evidence)
			out.CategoryBreakdown[i] = c
		}
	}

	if m.ConversationHighlights != nil {
		out.ConversationHighlights = make([]models.ConversationHighlight, len(m.ConversationHighlights))
		for i, h := range m.ConversationHighlights {
			h.Answer = pdf.PlainText(h.Answer)
			h.Significance = pdf.PlainText(h.Significance)
			out.ConversationHighlights[i] = h
		}
	}

	if m.RedFlags != nil {
		out.RedFlags = make([]models.RedFlag, len(m.RedFlags))
		for i, f := range m.RedFlags {
			f.Description = plainRequired(f.Description)
			f.Evidence = pdf.PlainText(f.Evidence)
			out.RedFlags[i] = f
		}
	}

	if m.VerificationItems != nil {
		out.VerificationItems = make([]models.VerificationItem, len(m.VerificationItems))
		for i, v := range m.VerificationItems {
			v.Notes = pdf.PlainText(v.Notes)
			out.VerificationItems[i] = v
		}
	}

	out.Recommendation.ReasoningSummary = pdf.PlainText(m.Recommendation.ReasoningSummary)

	if m.Transcript != nil {
		out.Transcript = make([]models.TranscriptTurn, len(m.Transcript))
		for i, t := range m.Transcript {
			t.Text = pdf.PlainText(t.Text)
			out.Transcript[i] = t
		}
	}

	return &out
}

// plainRequired flattens a required field but keeps the original when
// flattening would leave it empty, so validation sees the same presence
func plainRequired(s string) string {
	if p := pdf.PlainText(s); p != "" {
		return p
	}
	return s
}

func plainList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = pdf.PlainText(item)
	}
	return out
}
