package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/interfaces"
)

func renderPages(t *testing.T, n int) []byte {
	t.Helper()
	s := NewA4Surface(arbor.NewLogger())
	for i := 0; i < n; i++ {
		s.NewPage()
		s.DrawText(20, 20, 170, 6, "Page body", interfaces.TextStyle{Size: 10}, interfaces.AlignLeft)
	}
	var buf bytes.Buffer
	require.NoError(t, s.Output(&buf))
	return buf.Bytes()
}

func TestInspector_PageCount(t *testing.T) {
	inspector := NewInspector(arbor.NewLogger())

	content := renderPages(t, 3)
	meta, err := inspector.Inspect(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, 3, meta.PageCount)
	assert.Equal(t, int64(len(content)), meta.FileSize)
	assert.False(t, meta.IsEncrypted)
	assert.True(t, meta.Valid)
}

func TestInspector_RejectsGarbage(t *testing.T) {
	inspector := NewInspector(arbor.NewLogger())

	_, err := inspector.Inspect(context.Background(), nil)
	assert.Error(t, err)

	_, err = inspector.Inspect(context.Background(), []byte("not a pdf document"))
	assert.Error(t, err)
}
