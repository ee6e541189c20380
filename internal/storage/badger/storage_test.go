package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func TestReportStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	reports := newTestManager(t).ReportStorage()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Jane Doe", "John Roe", "Ana Silva"} {
		rec := &models.ReportRecord{
			ID:        "rpt_" + name,
			Model:     models.ReportContentModel{Subject: models.Subject{Name: name}, ExecutiveSummary: "summary"},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, reports.SaveReport(ctx, rec))
	}

	got, err := reports.GetReport(ctx, "rpt_Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Model.Subject.Name)
	assert.True(t, got.CreatedAt.Equal(base))

	list, err := reports.ListReports(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ana Silva", list[0].Model.Subject.Name, "newest first")

	page, err := reports.ListReports(ctx, &interfaces.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "John Roe", page[0].Model.Subject.Name)

	count, err := reports.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, reports.DeleteReport(ctx, "rpt_John Roe"))
	_, err = reports.GetReport(ctx, "rpt_John Roe")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.ErrorIs(t, reports.DeleteReport(ctx, "rpt_John Roe"), interfaces.ErrNotFound)
}

func TestReportStorage_RequiresID(t *testing.T) {
	reports := newTestManager(t).ReportStorage()
	assert.Error(t, reports.SaveReport(context.Background(), &models.ReportRecord{}))
}

func TestExportStorage_History(t *testing.T) {
	ctx := context.Background()
	exports := newTestManager(t).ExportStorage()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []*models.ExportRecord{
		{ID: "exp_1", ReportID: "rpt_a", Filename: "a1.pdf", CreatedAt: base},
		{ID: "exp_2", ReportID: "rpt_b", Filename: "b1.pdf", CreatedAt: base.Add(24 * time.Hour)},
		{ID: "exp_3", ReportID: "rpt_a", Filename: "a2.pdf", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "exp_4", Filename: "adhoc.pdf", CreatedAt: base.Add(72 * time.Hour)},
	}
	for _, r := range records {
		require.NoError(t, exports.SaveExport(ctx, r))
	}

	all, err := exports.ListExports(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "exp_4", all[0].ID)

	byReport, err := exports.ListExportsByReport(ctx, "rpt_a")
	require.NoError(t, err)
	require.Len(t, byReport, 2)
	assert.Equal(t, "a2.pdf", byReport[0].Filename)

	old, err := exports.ListExportsBefore(ctx, base.Add(36*time.Hour))
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.Equal(t, "exp_1", old[0].ID)
	assert.Equal(t, "exp_2", old[1].ID)

	require.NoError(t, exports.DeleteExport(ctx, "exp_1"))
	require.NoError(t, exports.DeleteExport(ctx, "exp_1"), "deleting twice is not an error")
	_, err = exports.GetExport(ctx, "exp_1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestExportStorage_CountByPath(t *testing.T) {
	ctx := context.Background()
	exports := newTestManager(t).ExportStorage()

	shared := "/srv/exports/Reference_Check_Jane_Doe_2025-03-14.pdf"
	require.NoError(t, exports.SaveExport(ctx, &models.ExportRecord{ID: "exp_1", OutputPath: shared, CreatedAt: time.Now()}))
	require.NoError(t, exports.SaveExport(ctx, &models.ExportRecord{ID: "exp_2", OutputPath: shared, CreatedAt: time.Now()}))
	require.NoError(t, exports.SaveExport(ctx, &models.ExportRecord{ID: "exp_3", OutputPath: "/srv/exports/other.pdf", CreatedAt: time.Now()}))
	require.NoError(t, exports.SaveExport(ctx, &models.ExportRecord{ID: "exp_4", CreatedAt: time.Now()}))

	n, err := exports.CountExportsByPath(ctx, shared)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = exports.CountExportsByPath(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n, "in-memory exports share no file")

	total, err := exports.CountExports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestManager_Stats(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db")
	manager, err := Open(arbor.NewLogger(), &common.StorageConfig{Badger: common.BadgerConfig{Path: path}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	require.NoError(t, manager.ReportStorage().SaveReport(ctx, &models.ReportRecord{ID: "rpt_1"}))
	require.NoError(t, manager.ExportStorage().SaveExport(ctx, &models.ExportRecord{ID: "exp_1"}))
	require.NoError(t, manager.ExportStorage().SaveExport(ctx, &models.ExportRecord{ID: "exp_2"}))

	stats, err := manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &interfaces.StorageStats{Backend: "badger", Path: path, Reports: 1, Exports: 2}, stats)
}

func TestOpen_RejectsUnknownBackend(t *testing.T) {
	_, err := Open(arbor.NewLogger(), &common.StorageConfig{Type: "sqlite", Badger: common.BadgerConfig{Path: t.TempDir()}})
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestNewBadgerDB_ResetOnStartup(t *testing.T) {
	ctx := context.Background()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}

	first, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	require.NoError(t, first.ReportStorage().SaveReport(ctx, &models.ReportRecord{ID: "rpt_1"}))
	require.NoError(t, first.Close())

	config.ResetOnStartup = true
	second, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	stats, err := second.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Reports)
}
