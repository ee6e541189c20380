package reports

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refcheck/internal/common"
	"github.com/ternarybob/refcheck/internal/interfaces"
	"github.com/ternarybob/refcheck/internal/models"
	"github.com/ternarybob/refcheck/internal/report"
	"github.com/ternarybob/refcheck/internal/services/pdf"
	"github.com/ternarybob/refcheck/internal/storage/badger"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type testEnv struct {
	service   *Service
	storage   interfaces.StorageManager
	outputDir string
}

func newTestEnv(t *testing.T, mutate func(*common.RenderConfig)) *testEnv {
	t.Helper()
	logger := arbor.NewLogger()

	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	config := common.NewDefaultConfig().Render
	config.OutputDir = filepath.Join(t.TempDir(), "exports")
	if mutate != nil {
		mutate(&config)
	}

	compositor, err := NewCompositor(config, logger)
	require.NoError(t, err)
	compositor.WithClock(clock)

	service := NewService(compositor, storage, pdf.NewInspector(logger), config, logger).WithClock(clock)
	return &testEnv{service: service, storage: storage, outputDir: config.OutputDir}
}

func sampleModel() *models.ReportContentModel {
	return &models.ReportContentModel{
		Subject:     models.Subject{Name: "Jane Doe", Role: "Senior Software Engineer"},
		Counterpart: models.Counterpart{Name: "Mark Ellis", Relationship: "Former manager", Organization: "Northwind Analytics"},
		SessionDetails: models.SessionDetails{
			Mode:            "voice",
			DurationSeconds: 1520,
			TurnsCount:      34,
			CompletedAt:     time.Date(2025, 3, 12, 15, 4, 0, 0, time.UTC),
		},
		ExecutiveSummary: "Mark describes Jane as one of the **strongest** engineers on the platform team.",
		KeyFindings: models.KeyFindings{
			Strengths: []string{"Deep *ownership* of production systems."},
			Concerns:  []string{"Sometimes reluctant to delegate."},
		},
		CategoryBreakdown: []models.CategoryScore{
			{Category: "Technical Skills", Score: 9, MaxScore: 10, Summary: "Strong systems design.", Evidence: []string{"Led the billing migration."}},
			{Category: "Communication", Score: 8, MaxScore: 10, Summary: "Clear in design reviews."},
		},
		ConversationHighlights: []models.ConversationHighlight{
			{Question: "How did Jane handle incidents?", Answer: "Calmly, and she wrote the runbooks afterwards.", TimestampSeconds: 312},
		},
		VerificationItems: []models.VerificationItem{
			{Claim: "Worked at Northwind from 2019 to 2023", Verified: true},
		},
		Recommendation: models.Recommendation{
			OverallScore:     84,
			Label:            models.LabelStronglyRecommend,
			ConfidenceLevel:  0.85,
			ReasoningSummary: "Consistently strong evidence across categories.",
		},
		Transcript: []models.TranscriptTurn{
			{SpeakerRole: "interviewer", Text: "Thanks for joining.", TimestampSeconds: 0},
			{SpeakerRole: "reference", Text: "Happy to help.", TimestampSeconds: 4},
		},
	}
}

func TestService_ExportWritesDocumentAndHistory(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	artifact, err := env.service.Export(ctx, sampleModel(), models.ExportOptions{IncludeSignature: true})
	require.NoError(t, err)

	assert.Equal(t, "Reference_Check_Jane_Doe_2025-03-14.pdf", artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.True(t, bytes.HasPrefix(artifact.Content, []byte("%PDF-")))
	assert.GreaterOrEqual(t, artifact.PageCount, 2)
	assert.NotEmpty(t, artifact.ExportID)

	require.Equal(t, filepath.Join(env.outputDir, artifact.Filename), artifact.OutputPath)
	onDisk, err := os.ReadFile(artifact.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, artifact.Content, onDisk)

	entries, err := os.ReadDir(env.outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	history, err := env.service.ListExports(ctx, nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, artifact.ExportID, history[0].ID)
	assert.Equal(t, "Jane Doe", history[0].SubjectName)
	assert.Equal(t, artifact.PageCount, history[0].PageCount)
	assert.Equal(t, int64(len(artifact.Content)), history[0].SizeBytes)
	assert.True(t, history[0].IncludeSignature)
	assert.Empty(t, history[0].ReportID)
}

func TestService_ExportRejectsIncompleteModel(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	m := sampleModel()
	m.Subject.Name = ""

	artifact, err := env.service.Export(ctx, m, models.ExportOptions{})
	require.Error(t, err)
	assert.Nil(t, artifact)
	assert.True(t, errors.Is(err, report.ErrMissingRequiredData))

	_, statErr := os.Stat(env.outputDir)
	assert.True(t, os.IsNotExist(statErr), "nothing written on failure")

	history, err := env.service.ListExports(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_ExportHonoursCancelledContext(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.service.Export(ctx, sampleModel(), models.ExportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ExportWithoutOutputDir(t *testing.T) {
	env := newTestEnv(t, func(c *common.RenderConfig) { c.OutputDir = "" })

	artifact, err := env.service.Export(context.Background(), sampleModel(), models.ExportOptions{})
	require.NoError(t, err)
	assert.Empty(t, artifact.OutputPath)
	assert.NotEmpty(t, artifact.Content)
}

func TestService_TranscriptAddsPages(t *testing.T) {
	env := newTestEnv(t, func(c *common.RenderConfig) { c.OutputDir = "" })
	ctx := context.Background()

	m := sampleModel()
	for i := 0; i < 30; i++ {
		m.Transcript = append(m.Transcript, models.TranscriptTurn{
			SpeakerRole:      "reference",
			Text:             "She was dependable through every release and kept the team informed about risks well ahead of deadlines.",
			TimestampSeconds: 10 + i*30,
		})
	}

	without, err := env.service.Export(ctx, m, models.ExportOptions{})
	require.NoError(t, err)
	with, err := env.service.Export(ctx, m, models.ExportOptions{IncludeTranscript: true})
	require.NoError(t, err)

	assert.Greater(t, with.PageCount, without.PageCount)
}

func TestService_StoredReportLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	record, err := env.service.CreateReport(ctx, sampleModel())
	require.NoError(t, err)
	assert.Contains(t, record.ID, "rpt_")
	assert.True(t, record.CreatedAt.Equal(fixedNow))

	updated := sampleModel()
	updated.Subject.Name = "Jane Q. Doe"
	_, err = env.service.UpdateReport(ctx, record.ID, updated)
	require.NoError(t, err)

	artifact, err := env.service.ExportStored(ctx, record.ID, models.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Reference_Check_Jane_Q._Doe_2025-03-14.pdf", artifact.Filename)

	export, err := env.service.GetExport(ctx, artifact.ExportID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, export.ReportID)

	list, err := env.service.ListReports(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.service.DeleteReport(ctx, record.ID))
	_, err = env.service.GetReport(ctx, record.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = env.service.ExportStored(ctx, record.ID, models.ExportOptions{})
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestService_CreateReportValidates(t *testing.T) {
	env := newTestEnv(t, nil)

	m := sampleModel()
	m.ExecutiveSummary = ""
	_, err := env.service.CreateReport(context.Background(), m)
	assert.ErrorIs(t, err, report.ErrMissingRequiredData)

	_, err = env.service.UpdateReport(context.Background(), "rpt_missing", sampleModel())
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestService_PreviewLayoutMatchesExport(t *testing.T) {
	env := newTestEnv(t, func(c *common.RenderConfig) { c.OutputDir = "" })
	ctx := context.Background()
	opts := models.ExportOptions{IncludeTranscript: true, IncludeSignature: true}

	preview, err := env.service.PreviewLayout(ctx, sampleModel(), opts)
	require.NoError(t, err)
	artifact, err := env.service.Export(ctx, sampleModel(), opts)
	require.NoError(t, err)

	assert.Equal(t, artifact.PageCount, preview.Pages)
	assert.Equal(t, artifact.Filename, preview.Filename)
	assert.Contains(t, preview.Sections, "transcript_appendix")

	plan, ok := preview.Plan.(report.Plan)
	require.True(t, ok)
	assert.Equal(t, preview.Pages, plan.Pages)
}

func TestService_WithoutStorage(t *testing.T) {
	logger := arbor.NewLogger()
	config := common.NewDefaultConfig().Render
	config.OutputDir = ""
	compositor, err := NewCompositor(config, logger)
	require.NoError(t, err)

	service := NewService(compositor, nil, nil, config, logger)

	artifact, err := service.Export(context.Background(), sampleModel(), models.ExportOptions{})
	require.NoError(t, err)
	assert.Empty(t, artifact.ExportID)

	_, err = service.CreateReport(context.Background(), sampleModel())
	assert.Error(t, err)
}

func TestNewCompositor_RejectsBadLayout(t *testing.T) {
	config := common.NewDefaultConfig().Render
	config.MarginBottom = 2
	_, err := NewCompositor(config, arbor.NewLogger())
	assert.Error(t, err)

	config = common.NewDefaultConfig().Render
	config.PageSize = "A3"
	_, err = NewCompositor(config, arbor.NewLogger())
	assert.Error(t, err)
}

func TestPlainModel_FlattensCopy(t *testing.T) {
	m := sampleModel()
	m.RedFlags = []models.RedFlag{{Description: "Missed a **critical** deadline", Severity: models.SeverityMinor}}

	out := plainModel(m)

	assert.Equal(t, "Mark describes Jane as one of the strongest engineers on the platform team.", out.ExecutiveSummary)
	assert.Equal(t, "Deep ownership of production systems.", out.KeyFindings.Strengths[0])
	assert.Equal(t, "Missed a critical deadline", out.RedFlags[0].Description)

	assert.Contains(t, m.ExecutiveSummary, "**strongest**", "input untouched")
	assert.Contains(t, m.KeyFindings.Strengths[0], "*ownership*")
	assert.Contains(t, m.RedFlags[0].Description, "**critical**")
}

func TestWriteAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := writeAtomic(dir, "a.pdf", []byte("first"))
	require.NoError(t, err)
	_, err = writeAtomic(dir, "a.pdf", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
