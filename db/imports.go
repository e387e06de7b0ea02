package db

import (
	"database/sql"
	"time"

	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// Journal records import runs. It implements importer.Observer.
type Journal struct {
	db *DB
}

// NewJournal returns a journal backed by d
func NewJournal(d *DB) *Journal {
	return &Journal{db: d}
}

// DefaultListLimit is used when List is called without a positive limit
const DefaultListLimit = 50

const importColumns = `id, source, project_ref, project_name, file_count, skipped_binary,
	command_count, status, error, started_at, finished_at`

// Record inserts or replaces a run
func (j *Journal) Record(run models.ImportRun) error {
	var finishedAt interface{}
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UnixMilli()
	}

	_, err := j.db.Run(`
		INSERT INTO imports (`+importColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_name = excluded.project_name,
			file_count = excluded.file_count,
			skipped_binary = excluded.skipped_binary,
			command_count = excluded.command_count,
			status = excluded.status,
			error = excluded.error,
			finished_at = excluded.finished_at
	`,
		run.ID,
		string(run.Source),
		run.ProjectRef,
		nullString(run.ProjectName),
		run.FileCount,
		run.SkippedBinary,
		run.CommandCount,
		string(run.Status),
		nullString(run.Error),
		run.StartedAt.UnixMilli(),
		finishedAt,
	)
	return err
}

// Get returns one run, or nil if no run has that id
func (j *Journal) Get(id string) (*models.ImportRun, error) {
	return SelectOne(j.db, "SELECT "+importColumns+" FROM imports WHERE id = ?", []QueryParam{id},
		func(row *sql.Row) (models.ImportRun, error) {
			return scanImport(row)
		})
}

// List returns the most recent runs, newest first
func (j *Journal) List(limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	runs, err := Select(j.db, "SELECT "+importColumns+" FROM imports ORDER BY started_at DESC, id LIMIT ?",
		[]QueryParam{limit},
		func(rows *sql.Rows) (models.ImportRun, error) {
			return scanImport(rows)
		})
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []models.ImportRun{}
	}
	return runs, nil
}

// CountByStatus returns how many runs are in the given state
func (j *Journal) CountByStatus(status models.ImportStatus) (int64, error) {
	return j.db.Count("SELECT COUNT(*) FROM imports WHERE status = ?", string(status))
}

// ImportStarted records a run as running
func (j *Journal) ImportStarted(run models.ImportRun) {
	if err := j.Record(run); err != nil {
		log.Error().Err(err).Str("id", run.ID).Msg("failed to record import start")
	}
}

// ImportFinished records a run's outcome
func (j *Journal) ImportFinished(run models.ImportRun) {
	if err := j.Record(run); err != nil {
		log.Error().Err(err).Str("id", run.ID).Msg("failed to record import result")
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImport(s scanner) (models.ImportRun, error) {
	var (
		run         models.ImportRun
		source      string
		status      string
		projectName sql.NullString
		errText     sql.NullString
		startedAt   int64
		finishedAt  sql.NullInt64
	)
	err := s.Scan(
		&run.ID,
		&source,
		&run.ProjectRef,
		&projectName,
		&run.FileCount,
		&run.SkippedBinary,
		&run.CommandCount,
		&status,
		&errText,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return run, err
	}

	run.Source = models.ImportSource(source)
	run.Status = models.ImportStatus(status)
	run.ProjectName = projectName.String
	run.Error = errText.String
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		run.FinishedAt = &t
	}
	return run, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
