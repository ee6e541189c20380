package report

import (
	"fmt"
	"strings"

	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

// Widget geometry
const (
	scoreBarHeight  = 12.0
	scoreBarTrack   = 3.5
	gaugeDiameter   = 30.0
	gaugeRingWidth  = 3.5
	gaugeBlockPad   = 2.0
	badgeWidth      = 26.0
	badgeHeight     = 6.0
	badgeBlockSpace = 1.5
)

// scoreRatio clamps score/max into [0, 1]; a non-positive max yields 0
func scoreRatio(score, max float64) float64 {
	if max <= 0 || score <= 0 {
		return 0
	}
	if score >= max {
		return 1
	}
	return score / max
}

// tierColor maps a score ratio onto the four threshold tones
func tierColor(ratio float64) interfaces.Color {
	switch {
	case ratio >= 0.8:
		return colorSuccess
	case ratio >= 0.6:
		return colorPrimary
	case ratio >= 0.4:
		return colorWarning
	default:
		return colorCritical
	}
}

// ScoreBar is a labelled horizontal bar filled in proportion to score/max
func ScoreBar(pm *PageManager, label string, score, max float64) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	ratio := scoreRatio(score, max)
	return AtomicBlock{
		Height: scoreBarHeight,
		Draw: func(top float64) {
			s.DrawText(l.MarginLeft, top, l.ContentWidth(), 5, label, styleSmall, interfaces.AlignLeft)
			s.DrawText(l.MarginLeft, top, l.ContentWidth(), 5, formatScore(score, max), styleBodyBold, interfaces.AlignRight)

			trackY := top + 6
			s.DrawRect(l.MarginLeft, trackY, l.ContentWidth(), scoreBarTrack, colorTrack, scoreBarTrack/2)
			if fill := l.ContentWidth() * ratio; fill > 0 {
				s.DrawRect(l.MarginLeft, trackY, fill, scoreBarTrack, tierColor(ratio), scoreBarTrack/2)
			}
		},
	}
}

// ScoreGauge is a ring whose filled arc sweeps 360 degrees times score/max,
// drawn at the left edge of the content area
func ScoreGauge(pm *PageManager, score, max float64) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	ratio := scoreRatio(score, max)
	radius := gaugeDiameter / 2
	return AtomicBlock{
		Height: gaugeDiameter + 2*gaugeBlockPad,
		Draw: func(top float64) {
			cx := l.MarginLeft + radius + gaugeRingWidth/2
			cy := top + gaugeBlockPad + radius
			s.DrawCircleSegment(cx, cy, radius, 0, 360, colorTrack, gaugeRingWidth)
			if sweep := 360 * ratio; sweep > 0 {
				s.DrawCircleSegment(cx, cy, radius, 0, sweep, tierColor(ratio), gaugeRingWidth)
			}
			s.DrawText(cx-radius, cy-6, 2*radius, 8, trimFloat(score), interfaces.TextStyle{Size: 18, Bold: true, Color: colorText}, interfaces.AlignCenter)
			s.DrawText(cx-radius, cy+2, 2*radius, 4, "of "+trimFloat(max), styleSmall, interfaces.AlignCenter)
		},
	}
}

// SeverityBadge is a small rounded pill labelled with the severity
func SeverityBadge(pm *PageManager, severity models.Severity) AtomicBlock {
	l := pm.Layout()
	s := pm.Surface()
	return AtomicBlock{
		Height: badgeHeight + badgeBlockSpace,
		Draw: func(top float64) {
			s.DrawRect(l.MarginLeft, top, badgeWidth, badgeHeight, severityColor(severity), 1.5)
			s.DrawText(l.MarginLeft, top, badgeWidth, badgeHeight, strings.ToUpper(string(severity)),
				interfaces.TextStyle{Size: 7.5, Bold: true, Color: colorWhite}, interfaces.AlignCenter)
		},
	}
}

func severityColor(severity models.Severity) interfaces.Color {
	switch severity {
	case models.SeverityCritical:
		return colorSevCritical
	case models.SeverityModerate:
		return colorSevModerate
	default:
		return colorSevMinor
	}
}

func labelColor(label models.RecommendationLabel) interfaces.Color {
	switch label {
	case models.LabelStronglyRecommend, models.LabelRecommend:
		return colorSuccess
	case models.LabelNeutral:
		return colorPrimary
	case models.LabelConcerns:
		return colorWarning
	default:
		return colorCritical
	}
}

func formatScore(score, max float64) string {
	return fmt.Sprintf("%s / %s", trimFloat(score), trimFloat(max))
}

// trimFloat prints whole numbers without decimals and everything else with one
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
