package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

var bodyStyle = interfaces.TextStyle{Size: 10}

func TestSurface_MeasureWrapsToWidth(t *testing.T) {
	s := NewA4Surface(arbor.NewLogger())

	text := "Jane consistently delivered complex projects on time and mentored junior engineers along the way."
	lines, err := s.Measure(text, 60, bodyStyle)
	require.NoError(t, err)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, s.TextWidth(line, bodyStyle), 60.0, line)
	}
}

func TestSurface_MeasureKeepsNewlines(t *testing.T) {
	s := NewA4Surface(arbor.NewLogger())
	lines, err := s.Measure("first\nsecond", 100, bodyStyle)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)
}

func TestSurface_MeasureRejectsInvalidUTF8(t *testing.T) {
	s := NewA4Surface(arbor.NewLogger())
	_, err := s.Measure("bad \xff\xfe bytes", 100, bodyStyle)
	assert.Error(t, err)
}

func TestSurface_BoldIsWider(t *testing.T) {
	s := NewA4Surface(arbor.NewLogger())
	bold := bodyStyle
	bold.Bold = true
	assert.Greater(t, s.TextWidth("Reference Check", bold), s.TextWidth("Reference Check", bodyStyle))
}

func TestSurface_Output(t *testing.T) {
	s := NewA4Surface(arbor.NewLogger()).WithCreationDate(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	s.SetDocumentInfo(interfaces.DocumentInfo{Title: "Reference Check Report", Creator: "refcheck"})

	s.NewPage()
	s.DrawText(20, 20, 170, 6, "Café “quotes” • bullet", bodyStyle, interfaces.AlignLeft)
	s.DrawRect(20, 30, 50, 4, interfaces.Color{R: 229, G: 231, B: 235}, 2)
	s.DrawRect(20, 40, 50, 4, interfaces.Color{R: 22, G: 163, B: 74}, 0)
	s.DrawLine(20, 50, 190, 50, interfaces.Color{}, 0.3)
	s.DrawCircleSegment(50, 80, 15, 0, 360, interfaces.Color{R: 229, G: 231, B: 235}, 3.5)
	s.DrawCircleSegment(50, 80, 15, 0, 250, interfaces.Color{R: 37, G: 99, B: 235}, 3.5)
	s.NewPage()
	s.DrawText(20, 20, 170, 6, "Second page", bodyStyle, interfaces.AlignRight)

	var buf bytes.Buffer
	require.NoError(t, s.Output(&buf))
	assert.Equal(t, "%PDF", buf.String()[:4])
	assert.Equal(t, 2, s.Pages())
	w, h := s.PageSize()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)
}
