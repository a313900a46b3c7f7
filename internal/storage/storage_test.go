package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrt/internal/config"
	"vrt/internal/domain"
)

func sampleSummary() domain.RunSummary {
	hello := domain.TestCase{Name: "Hello Triangle", Folder: "../Hello Triangle", Window: "Hello Triangle"}
	compute := domain.TestCase{Name: "Compute Pass", Folder: "../Compute Pass", Window: "Compute Pass"}
	vrs := domain.TestCase{Name: "Variable Rate Shading", Folder: "../Variable Rate Shading", Window: "Variable Rate Shading"}

	return domain.RunSummary{
		Started:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Duration: 4 * time.Second,
		Aborted:  true,
		Results: []domain.CaseResult{
			{Case: hello, Passed: true, CaptureDigest: "aa", ReferenceDigest: "aa", Duration: time.Second},
			{
				Case:            compute,
				Err:             fmt.Errorf("%w: differs", domain.ErrImageMismatch),
				CapturePath:     "/x/Compute Pass/graphicTestExecution.jpg",
				ReferencePath:   "/x/Compute Pass/referenceGraphicTest.jpg",
				CaptureDigest:   "bb",
				ReferenceDigest: "cc",
				CaptureKept:     true,
				Duration:        2 * time.Second,
			},
		},
		Skipped: []domain.TestCase{vrs},
	}
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)

	require.NoError(t, st.Save(sampleSummary()))

	out, err := st.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, out.Meta.TotalCases)
	assert.Equal(t, 1, out.Meta.PassedCases)
	assert.Equal(t, 1, out.Meta.FailedCases)
	assert.Equal(t, 1, out.Meta.SkippedCases)
	assert.True(t, out.Meta.Aborted)
	assert.Equal(t, 4.0, out.Meta.DurationSeconds)
	assert.Equal(t, "2026-10-19T12:00:00Z", out.Meta.Timestamp)

	require.Len(t, out.Details, 1)
	f := out.Details[0]
	assert.Equal(t, "Compute Pass", f.TestName)
	assert.Equal(t, "image-mismatch", f.Kind)
	assert.Equal(t, "/x/Compute Pass/graphicTestExecution.jpg", f.CapturePath)
	assert.Equal(t, "bb", f.CaptureDigest)
}

func TestJSONStorage_SaveOutputPersistsResolved(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)
	require.NoError(t, st.Save(sampleSummary()))

	out, err := st.Load()
	require.NoError(t, err)
	out.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(out))

	again, err := st.Load()
	require.NoError(t, err)
	assert.True(t, again.Details[0].Resolved)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()

	_, err := NewJSONStorage(cfg).Load()
	assert.Error(t, err)
}

func TestBuildOutput_AllPassedHasEmptyDetails(t *testing.T) {
	out := BuildOutput(domain.RunSummary{Results: []domain.CaseResult{{Passed: true}}})
	assert.NotNil(t, out.Details)
	assert.Empty(t, out.Details)
	assert.Equal(t, 1, out.Meta.PassedCases)
}

func TestSQLHistory_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenHistory(ctx, "sqlite", dsn)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Record(ctx, sampleSummary()))

	rows, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, "Compute Pass", rows[0].CaseName)
	assert.False(t, rows[0].Passed)
	assert.Equal(t, "image-mismatch", rows[0].Kind)
	assert.Equal(t, 2*time.Second, rows[0].Duration)
	assert.Equal(t, "Hello Triangle", rows[1].CaseName)
	assert.True(t, rows[1].Passed)
	assert.Equal(t, rows[0].RunID, rows[1].RunID)
	assert.True(t, rows[0].StartedAt.Equal(sampleSummary().Started))

	limited, err := h.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpenHistory_UnknownDriver(t *testing.T) {
	_, err := OpenHistory(context.Background(), "postgres", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported history driver")
}
