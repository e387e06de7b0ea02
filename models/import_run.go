package models

import "time"

// ImportSource identifies where an import's files came from
type ImportSource string

const (
	SourceAutopilot ImportSource = "autopilot"
	SourceFolder    ImportSource = "folder"
	SourceArchive   ImportSource = "archive"
)

// ImportStatus is the lifecycle state of an import run
type ImportStatus string

const (
	ImportRunning   ImportStatus = "running"
	ImportCompleted ImportStatus = "completed"
	ImportFailed    ImportStatus = "failed"
)

// ImportRun is the journal record of one import. It carries counts only,
// never file contents or messages.
type ImportRun struct {
	ID            string       `json:"id" yaml:"id"`
	Source        ImportSource `json:"source" yaml:"source"`
	ProjectRef    string       `json:"projectRef" yaml:"projectRef"`
	ProjectName   string       `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	FileCount     int          `json:"fileCount" yaml:"fileCount"`
	SkippedBinary int          `json:"skippedBinary" yaml:"skippedBinary"`
	CommandCount  int          `json:"commandCount" yaml:"commandCount"`
	Status        ImportStatus `json:"status" yaml:"status"`
	Error         string       `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt     time.Time    `json:"startedAt" yaml:"startedAt"`
	FinishedAt    *time.Time   `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}
