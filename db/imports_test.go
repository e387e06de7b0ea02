package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "nested", "imports.sqlite"), false)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpen_AppliesMigrations(t *testing.T) {
	d := openTestDB(t)

	version, err := d.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// Reopening must not re-run migrations
	require.NoError(t, d.Close())
	d2, err := Open(d.Path(), false)
	require.NoError(t, err)
	defer d2.Close()
	version, err = d2.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestJournal_Lifecycle(t *testing.T) {
	j := NewJournal(openTestDB(t))
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	run := models.ImportRun{
		ID:         "run-1",
		Source:     models.SourceAutopilot,
		ProjectRef: "abc123",
		Status:     models.ImportRunning,
		StartedAt:  started,
	}
	j.ImportStarted(run)

	got, err := j.Get("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ImportRunning, got.Status)
	assert.Nil(t, got.FinishedAt)
	assert.Empty(t, got.ProjectName)

	finished := started.Add(1500 * time.Millisecond)
	run.Status = models.ImportCompleted
	run.ProjectName = "Landing Page"
	run.FileCount = 3
	run.CommandCount = 1
	run.FinishedAt = &finished
	j.ImportFinished(run)

	got, err = j.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)
}

func TestJournal_ListNewestFirst(t *testing.T) {
	j := NewJournal(openTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.Record(models.ImportRun{
			ID:         id,
			Source:     models.SourceFolder,
			ProjectRef: "demo",
			Status:     models.ImportFailed,
			Error:      "failed to decode file",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := j.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, "failed to decode file", runs[0].Error)

	n, err := j.CountByStatus(models.ImportFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestJournal_EmptyAndMissing(t *testing.T) {
	j := NewJournal(openTestDB(t))

	runs, err := j.List(0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	got, err := j.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}
