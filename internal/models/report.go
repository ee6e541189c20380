package models

import (
	"strings"
	"time"
)

// Severity is the closed set of red flag severities
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// IsValid reports whether s is one of the known severities
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityModerate, SeverityMinor:
		return true
	}
	return false
}

// RecommendationLabel is the closed set of hiring recommendations
type RecommendationLabel string

const (
	LabelStronglyRecommend RecommendationLabel = "strongly-recommend"
	LabelRecommend         RecommendationLabel = "recommend"
	LabelNeutral           RecommendationLabel = "neutral"
	LabelConcerns          RecommendationLabel = "concerns"
	LabelNotRecommend      RecommendationLabel = "not-recommend"
)

// IsValid reports whether l is one of the known recommendation labels
func (l RecommendationLabel) IsValid() bool {
	switch l {
	case LabelStronglyRecommend, LabelRecommend, LabelNeutral, LabelConcerns, LabelNotRecommend:
		return true
	}
	return false
}

// DisplayName returns the human readable form used in rendered reports
func (l RecommendationLabel) DisplayName() string {
	switch l {
	case LabelStronglyRecommend:
		return "Strongly Recommend"
	case LabelRecommend:
		return "Recommend"
	case LabelNeutral:
		return "Neutral"
	case LabelConcerns:
		return "Some Concerns"
	case LabelNotRecommend:
		return "Do Not Recommend"
	}
	return strings.ReplaceAll(string(l), "-", " ")
}

// ReportContentModel is the fully analyzed reference check record consumed by the
// report compositor. It is built upstream and treated as read-only.
type ReportContentModel struct {
	Subject                Subject                 `json:"subject" yaml:"subject"`
	Counterpart            Counterpart             `json:"counterpart" yaml:"counterpart"`
	SessionDetails         SessionDetails          `json:"session_details" yaml:"session_details"`
	ExecutiveSummary       string                  `json:"executive_summary" yaml:"executive_summary" validate:"required,notblank"`
	KeyFindings            KeyFindings             `json:"key_findings" yaml:"key_findings"`
	CategoryBreakdown      []CategoryScore         `json:"category_breakdown" yaml:"category_breakdown" validate:"dive"`
	ConversationHighlights []ConversationHighlight `json:"conversation_highlights" yaml:"conversation_highlights" validate:"dive"`
	RedFlags               []RedFlag               `json:"red_flags" yaml:"red_flags" validate:"dive"`
	VerificationItems      []VerificationItem      `json:"verification_items" yaml:"verification_items" validate:"dive"`
	Recommendation         Recommendation          `json:"recommendation" yaml:"recommendation"`
	Transcript             []TranscriptTurn        `json:"transcript,omitempty" yaml:"transcript,omitempty" validate:"dive"`
}

// Subject is the candidate the reference check is about
type Subject struct {
	Name string `json:"name" yaml:"name" validate:"required,notblank"`
	Role string `json:"role" yaml:"role"`
}

// Counterpart is the reference who was interviewed
type Counterpart struct {
	Name         string `json:"name" yaml:"name" validate:"required,notblank"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Organization string `json:"organization" yaml:"organization"`
	Tenure       string `json:"tenure,omitempty" yaml:"tenure,omitempty"`
}

// SessionDetails describes how the interview was conducted
type SessionDetails struct {
	Mode            string    `json:"mode" yaml:"mode"` // e.g. "voice", "chat"
	DurationSeconds int       `json:"duration_seconds" yaml:"duration_seconds" validate:"gte=0"`
	TurnsCount      int       `json:"turns_count" yaml:"turns_count" validate:"gte=0"`
	CompletedAt     time.Time `json:"completed_at" yaml:"completed_at"`
}

// KeyFindings groups the headline observations
type KeyFindings struct {
	Strengths           []string `json:"strengths" yaml:"strengths"`
	Concerns            []string `json:"concerns" yaml:"concerns"`
	NeutralObservations []string `json:"neutral_observations" yaml:"neutral_observations"`
}

// CategoryScore is one scored competency
type CategoryScore struct {
	Category string   `json:"category" yaml:"category" validate:"required,notblank"`
	Score    float64  `json:"score" yaml:"score" validate:"gte=0"`
	MaxScore float64  `json:"max_score" yaml:"max_score" validate:"gt=0"`
	Summary  string   `json:"summary" yaml:"summary"`
	Evidence []string `json:"evidence" yaml:"evidence"`
}

// ConversationHighlight is a notable question/answer exchange
type ConversationHighlight struct {
	Question         string `json:"question" yaml:"question" validate:"required,notblank"`
	Answer           string `json:"answer" yaml:"answer"`
	Significance     string `json:"significance" yaml:"significance"`
	TimestampSeconds int    `json:"timestamp_seconds" yaml:"timestamp_seconds" validate:"gte=0"`
}

// RedFlag is a concern raised during the interview
type RedFlag struct {
	Description string   `json:"description" yaml:"description" validate:"required,notblank"`
	Severity    Severity `json:"severity" yaml:"severity" validate:"severity"`
	Evidence    string   `json:"evidence" yaml:"evidence"`
}

// VerificationItem is a factual claim checked against the reference
type VerificationItem struct {
	Claim    string `json:"claim" yaml:"claim" validate:"required,notblank"`
	Verified bool   `json:"verified" yaml:"verified"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Recommendation is the overall outcome
type Recommendation struct {
	OverallScore     float64             `json:"overall_score" yaml:"overall_score" validate:"gte=0,lte=100"`
	Label            RecommendationLabel `json:"label" yaml:"label" validate:"recommendation_label"`
	ConfidenceLevel  float64             `json:"confidence_level" yaml:"confidence_level" validate:"gte=0,lte=1"`
	ReasoningSummary string              `json:"reasoning_summary" yaml:"reasoning_summary"`
}

// TranscriptTurn is one utterance of the interview transcript
type TranscriptTurn struct {
	SpeakerRole      string `json:"speaker_role" yaml:"speaker_role"`
	Text             string `json:"text" yaml:"text"`
	TimestampSeconds int    `json:"timestamp_seconds" yaml:"timestamp_seconds" validate:"gte=0"`
}

// HasTranscript reports whether the model carries any transcript turns
func (m *ReportContentModel) HasTranscript() bool {
	return len(m.Transcript) > 0
}

// ExportOptions are the caller supplied toggles for an export
type ExportOptions struct {
	IncludeTranscript bool `json:"include_transcript"`
	IncludeSignature  bool `json:"include_signature"`
}
