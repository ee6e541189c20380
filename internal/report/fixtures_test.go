package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestCompositor() *Compositor {
	return NewCompositor(DefaultConfig(), arbor.NewLogger()).WithClock(func() time.Time { return fixedNow })
}

// compose renders m onto a fresh A4 recorder
func compose(t *testing.T, m *models.ReportContentModel, opts models.ExportOptions) (*Result, *Recorder) {
	t.Helper()
	rec := NewRecorder(210, 297)
	res, err := newTestCompositor().Compose(rec, m, opts)
	require.NoError(t, err)
	return res, rec
}

// janeDoe is a complete, realistic report model
func janeDoe() *models.ReportContentModel {
	return &models.ReportContentModel{
		Subject: models.Subject{Name: "Jane Doe", Role: "Senior Software Engineer"},
		Counterpart: models.Counterpart{
			Name:         "Mark Ellis",
			Relationship: "Former manager",
			Organization: "Northwind Analytics",
			Tenure:       "2019-2023",
		},
		SessionDetails: models.SessionDetails{
			Mode:            "voice",
			DurationSeconds: 1520,
			TurnsCount:      34,
			CompletedAt:     time.Date(2025, 3, 12, 15, 4, 0, 0, time.UTC),
		},
		ExecutiveSummary: "Mark worked with Jane for four years and describes her as one of the strongest engineers on the platform team. " +
			"She led the migration of the billing pipeline, mentored three junior engineers and was trusted with on-call escalation. " +
			"The only recurring theme of concern was a tendency to take on too much work personally during crunch periods.",
		KeyFindings: models.KeyFindings{
			Strengths: []string{
				"Deep ownership of production systems and incident response.",
				"Clear written communication, particularly in design reviews.",
				"Consistently mentored junior engineers.",
			},
			Concerns: []string{
				"Sometimes reluctant to delegate under deadline pressure.",
			},
			NeutralObservations: []string{
				"Prefers asynchronous collaboration over frequent meetings.",
			},
		},
		CategoryBreakdown: []models.CategoryScore{
			{Category: "Technical Skills", Score: 9, MaxScore: 10, Summary: "Strong systems design and debugging ability.", Evidence: []string{"She rewrote the retry layer in a weekend and it has not paged since."}},
			{Category: "Communication", Score: 8, MaxScore: 10, Summary: "Writes clear design documents.", Evidence: []string{"Her RFCs became the template for the team."}},
			{Category: "Leadership", Score: 7, MaxScore: 10, Summary: "Leads by example, growing into formal leadership.", Evidence: []string{"She ran the on-call rotation for a year."}},
			{Category: "Teamwork", Score: 8.5, MaxScore: 10, Summary: "Well liked and dependable.", Evidence: []string{"People sought her out for pairing."}},
			{Category: "Reliability", Score: 9, MaxScore: 10, Summary: "Delivers what she commits to.", Evidence: []string{"I cannot remember a missed deadline."}},
		},
		ConversationHighlights: []models.ConversationHighlight{
			{Question: "How did Jane handle the billing migration?", Answer: "She planned it in phases and kept stakeholders informed weekly.", Significance: "Shows planning and stakeholder management at scale.", TimestampSeconds: 245},
			{Question: "What would you change about how she works?", Answer: "I would want her to hand off more work earlier.", Significance: "Consistent with the delegation concern.", TimestampSeconds: 812},
			{Question: "Would you hire her again?", Answer: "Without hesitation.", Significance: "Strong endorsement from a direct manager.", TimestampSeconds: 1380},
		},
		RedFlags: []models.RedFlag{
			{Description: "Worked long hours during releases which raised burnout risk.", Severity: models.SeverityMinor, Evidence: "There were a couple of weeks where she was online at midnight."},
		},
		VerificationItems: []models.VerificationItem{
			{Claim: "Employed at Northwind Analytics from 2019 to 2023", Verified: true},
			{Claim: "Led the billing pipeline migration", Verified: true, Notes: "Confirmed by the reference as project lead."},
			{Claim: "Managed a team of five engineers", Verified: false, Notes: "Reference described mentoring, not formal management."},
		},
		Recommendation: models.Recommendation{
			OverallScore:     84,
			Label:            models.LabelStronglyRecommend,
			ConfidenceLevel:  0.85,
			ReasoningSummary: "Consistent, specific praise from a direct manager with four years of overlap. The only concern is minor and common among high performers.",
		},
	}
}

// transcript builds n alternating turns of a few sentences each
func transcript(n int) []models.TranscriptTurn {
	turns := make([]models.TranscriptTurn, 0, n)
	for i := 0; i < n; i++ {
		role := "interviewer"
		if i%2 == 1 {
			role = "reference"
		}
		turns = append(turns, models.TranscriptTurn{
			SpeakerRole:      role,
			Text:             fmt.Sprintf("Turn %d. %s", i+1, strings.Repeat("This is a representative sentence from the interview. ", 6)),
			TimestampSeconds: i * 40,
		})
	}
	return turns
}

// bodyTexts returns the text commands drawn on the body layer of content pages
func bodyTexts(rec *Recorder) []Command {
	var out []Command
	for _, c := range rec.Commands() {
		if c.Op == OpText && c.Layer == LayerBody {
			out = append(out, c)
		}
	}
	return out
}

func hasText(rec *Recorder, text string) bool {
	for _, c := range rec.Commands() {
		if c.Op == OpText && c.Text == text {
			return true
		}
	}
	return false
}
