package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPageManager() (*PageManager, *Recorder) {
	rec := NewRecorder(210, 297)
	pm := NewPageManager(rec, DefaultLayout(), PageChrome{Title: "Report", SubjectName: "Jane Doe", DateLabel: "14 Mar 2025"})
	return pm, rec
}

func TestPageManager_FirstPlacementStartsContentPage(t *testing.T) {
	pm, rec := newTestPageManager()
	assert.Equal(t, 0, pm.PageIndex())

	top := pm.EnsureSpace(10)

	assert.Equal(t, 1, pm.PageIndex())
	assert.Equal(t, 1, rec.Pages())
	assert.Equal(t, DefaultLayout().ContentTop(), top)
	assert.True(t, hasText(rec, "Report"), "running header drawn")
}

func TestPageManager_BreaksWhenBlockDoesNotFit(t *testing.T) {
	pm, _ := newTestPageManager()
	l := DefaultLayout()

	require.NoError(t, AtomicBlock{Height: l.UsableHeight() - 10}.Place(pm))
	assert.Equal(t, 1, pm.PageIndex())

	top := pm.EnsureSpace(20)
	assert.Equal(t, 2, pm.PageIndex())
	assert.Equal(t, l.ContentTop(), top)
	assert.Equal(t, 1, pm.Footers())
}

func TestPageManager_KeepWithNextMovesBlock(t *testing.T) {
	pm, _ := newTestPageManager()
	l := DefaultLayout()

	require.NoError(t, AtomicBlock{Height: l.UsableHeight() - 9}.Place(pm))
	// the block itself fits, but not together with the reserved follow-up
	require.NoError(t, AtomicBlock{Height: 7, KeepWithNext: 5}.Place(pm))

	assert.Equal(t, 2, pm.PageIndex())
	assert.InDelta(t, l.ContentTop()+7, pm.Cursor(), 1e-9)
}

func TestPageManager_OversizedBlockGetsOwnPage(t *testing.T) {
	pm, rec := newTestPageManager()
	l := DefaultLayout()

	require.NoError(t, paragraph("A short opening line.").Place(pm))
	assert.Equal(t, 1, pm.PageIndex())

	drawnAt := -1.0
	huge := AtomicBlock{Height: l.UsableHeight() + 50, Draw: func(top float64) { drawnAt = top }}
	require.NoError(t, huge.Place(pm))

	assert.Equal(t, 2, pm.PageIndex(), "oversized block breaks once then stays on the fresh page")
	assert.Equal(t, l.ContentTop(), drawnAt)

	require.NoError(t, paragraph("After the oversized block.").Place(pm))
	assert.Equal(t, 3, pm.PageIndex())

	pm.FinalizePage()
	assert.Equal(t, 3, pm.Footers())
	assert.Equal(t, 3, rec.Pages())
}

func TestPageManager_GapDroppedAtTopOfPage(t *testing.T) {
	pm, _ := newTestPageManager()
	top := pm.EnsureSpace(5)

	pm.Gap(sectionGap)
	assert.Equal(t, top, pm.Cursor())

	pm.Advance(5)
	pm.Gap(sectionGap)
	assert.InDelta(t, top+5+sectionGap, pm.Cursor(), 1e-9)
}

func TestPageManager_FinalizeIsIdempotent(t *testing.T) {
	pm, rec := newTestPageManager()
	pm.EnsureSpace(5)

	pm.FinalizePage()
	pm.FinalizePage()

	assert.Equal(t, 1, pm.Footers())
	footers := 0
	for _, c := range rec.Commands() {
		if c.Layer == LayerFooter && c.Text == "Page 1" {
			footers++
		}
	}
	assert.Equal(t, 1, footers)
}

func TestPageManager_FinalizeBeforeAnyPage(t *testing.T) {
	pm, rec := newTestPageManager()
	pm.FinalizePage()
	assert.Zero(t, pm.Footers())
	assert.Empty(t, rec.Commands())
}

func TestPageManager_CoverIsPageOne(t *testing.T) {
	pm, rec := newTestPageManager()
	pm.StartCover()
	pm.BreakPage()

	assert.Equal(t, 2, pm.PageIndex())
	assert.Equal(t, 1, pm.Footers())
	assert.True(t, hasText(rec, "Page 1"))

	for _, c := range rec.Commands() {
		if c.Page == 1 && c.Layer == LayerHeader {
			t.Fatalf("cover page must not carry a running header: %+v", c)
		}
	}
}

func TestFlowBlock_SplitsBetweenLines(t *testing.T) {
	pm, rec := newTestPageManager()
	l := DefaultLayout()

	// leave room for exactly two body lines
	require.NoError(t, AtomicBlock{Height: l.UsableHeight() - 2*lineHeight}.Place(pm))
	block := FlowBlock{Lines: []string{"one", "two", "three", "four"}, Style: styleBody, LineHeight: lineHeight}
	require.NoError(t, block.Place(pm))

	pages := map[string]int{}
	for _, c := range bodyTexts(rec) {
		pages[c.Text] = c.Page
	}
	assert.Equal(t, map[string]int{"one": 1, "two": 1, "three": 2, "four": 2}, pages)
}

func TestFlowBlock_MarkerOnFirstLineOnly(t *testing.T) {
	pm, rec := newTestPageManager()
	b := bullet("first line")
	b.Lines = []string{"first line", "second line"}
	require.NoError(t, b.Place(pm))

	markers := 0
	for _, c := range bodyTexts(rec) {
		if c.Text == "•" {
			markers++
		}
	}
	assert.Equal(t, 1, markers)
}

func TestFlowBlock_EmptyTextPlacesNothing(t *testing.T) {
	pm, rec := newTestPageManager()
	require.NoError(t, paragraph("   ").Place(pm))
	assert.Empty(t, bodyTexts(rec))
}
