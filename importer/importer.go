// Package importer turns a local folder, an uploaded archive or a remote
// autopilot project into a chat history that replays the project's files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xiaoyuanzhu-com/project-import/artifact"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// Config wires an Importer. Only the remote collaborators are required, and
// only for remote imports.
type Config struct {
	Resolver ProjectResolver
	Lister   DocumentLister
	Blobs    BlobFetcher

	Concurrency int
	Detector    CommandDetector
	Assembler   *Assembler
	Observer    Observer
}

// Importer runs imports end to end. It holds no per-import state and is
// safe for concurrent use.
type Importer struct {
	resolver    ProjectResolver
	lister      DocumentLister
	blobs       BlobFetcher
	concurrency int
	detector    CommandDetector
	assembler   *Assembler
	observer    Observer
}

// New creates an Importer, filling unset options with defaults
func New(cfg Config) *Importer {
	imp := &Importer{
		resolver:    cfg.Resolver,
		lister:      cfg.Lister,
		blobs:       cfg.Blobs,
		concurrency: cfg.Concurrency,
		detector:    cfg.Detector,
		assembler:   cfg.Assembler,
		observer:    cfg.Observer,
	}
	if imp.concurrency <= 0 {
		imp.concurrency = DefaultConcurrency
	}
	if imp.detector == nil {
		imp.detector = HeuristicDetector{}
	}
	if imp.assembler == nil {
		imp.assembler = NewAssembler()
	}
	if imp.observer == nil {
		imp.observer = Observers(nil)
	}
	return imp
}

// FolderRequest is a local import: picked file handles plus the names of
// files already classified as binary
type FolderRequest struct {
	Name        string
	Handles     []FileHandle
	BinaryFiles []string
	Source      models.ImportSource
}

// FetchRemoteProject resolves a project and downloads all of its files
func (i *Importer) FetchRemoteProject(ctx context.Context, projectHex string) (*models.ImportResult, error) {
	if strings.TrimSpace(projectHex) == "" {
		return nil, fmt.Errorf("%w: missing projectHex", models.ErrInvalidRequest)
	}

	run := i.begin(models.SourceAutopilot, projectHex)
	result, err := i.fetchRemote(ctx, projectHex)
	if result != nil {
		run.ProjectName = result.ProjectName
		run.FileCount = len(result.Files)
	}
	i.finish(run, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ImportRemote builds the chat history for a remote project. The history is
// keyed by the project identifier so re-importing replaces the same chat.
func (i *Importer) ImportRemote(ctx context.Context, projectHex string) (*models.ChatHistoryItem, error) {
	if strings.TrimSpace(projectHex) == "" {
		return nil, fmt.Errorf("%w: missing projectHex", models.ErrInvalidRequest)
	}

	run := i.begin(models.SourceAutopilot, projectHex)
	item, err := i.importRemote(ctx, projectHex, run)
	i.finish(run, err)
	return item, err
}

func (i *Importer) importRemote(ctx context.Context, projectHex string, run *models.ImportRun) (*models.ChatHistoryItem, error) {
	result, err := i.fetchRemote(ctx, projectHex)
	if err != nil {
		return nil, err
	}
	run.ProjectName = result.ProjectName

	files := WithIndexRedirect(result.Files)
	messages := i.assemble(result.ProjectName, files, nil, run)

	return &models.ChatHistoryItem{
		ID:          projectHex,
		URLID:       projectHex,
		Description: result.ProjectName,
		Messages:    messages,
		Timestamp:   i.assembler.Now().UTC(),
	}, nil
}

func (i *Importer) fetchRemote(ctx context.Context, projectHex string) (*models.ImportResult, error) {
	if i.resolver == nil || i.lister == nil || i.blobs == nil {
		return nil, fmt.Errorf("%w: remote import is not configured", models.ErrUnreachable)
	}

	project, err := i.resolver.ResolveProject(ctx, projectHex)
	if err != nil {
		return nil, err
	}

	docs, err := i.lister.ListDocuments(ctx, projectHex)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: project %s has no documents", models.ErrNotFound, projectHex)
	}

	files, err := FetchFiles(ctx, i.blobs, docs, i.concurrency)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("projectHex", projectHex).
		Str("name", project.ProjectName).
		Int("files", len(files)).
		Msg("remote project fetched")

	return &models.ImportResult{ProjectName: project.ProjectName, Files: files}, nil
}

// ImportFolder builds the chat history for locally picked files
func (i *Importer) ImportFolder(ctx context.Context, req FolderRequest) ([]models.Message, error) {
	name := req.Name
	if name == "" {
		name = folderName(req.Handles)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: missing folder name", models.ErrInvalidRequest)
	}

	source := req.Source
	if source == "" {
		source = models.SourceFolder
	}

	run := i.begin(source, name)
	run.ProjectName = name
	run.SkippedBinary = len(req.BinaryFiles)

	files, err := ReadFolder(ctx, req.Handles, i.concurrency)
	if err != nil {
		i.finish(run, err)
		return nil, err
	}

	messages := i.assemble(name, files, req.BinaryFiles, run)
	i.finish(run, nil)

	log.Info().
		Str("name", name).
		Int("files", len(files)).
		Int("binary", len(req.BinaryFiles)).
		Int("messages", len(messages)).
		Msg("folder imported")

	return messages, nil
}

func (i *Importer) assemble(name string, files []models.ImportedFile, binaries []string, run *models.ImportRun) []models.Message {
	commands := i.detector.Detect(files)
	run.FileCount = len(files)
	run.CommandCount = len(commands.Commands)

	return i.assembler.Assemble(AssembleInput{
		Name:        name,
		BinaryFiles: binaries,
		Artifact:    artifact.Encode(files),
		FileCount:   len(files),
		Commands:    commands,
	})
}

func (i *Importer) begin(source models.ImportSource, ref string) *models.ImportRun {
	run := &models.ImportRun{
		ID:         uuid.NewString(),
		Source:     source,
		ProjectRef: ref,
		Status:     models.ImportRunning,
		StartedAt:  i.assembler.Now().UTC(),
	}
	i.observer.ImportStarted(*run)
	return run
}

func (i *Importer) finish(run *models.ImportRun, err error) {
	finished := i.assembler.Now().UTC()
	run.FinishedAt = &finished
	run.Status = models.ImportCompleted
	if err != nil {
		run.Status = models.ImportFailed
		run.Error = err.Error()
		ev := log.Warn()
		if errors.Is(err, context.Canceled) {
			ev = log.Debug()
		}
		ev.Err(err).
			Str("source", string(run.Source)).
			Str("ref", run.ProjectRef).
			Dur("elapsed", finished.Sub(run.StartedAt)).
			Msg("import failed")
	}
	i.observer.ImportFinished(*run)
}

// folderName is the picked root folder shared by the handles' relative paths
func folderName(handles []FileHandle) string {
	for _, h := range handles {
		if first, _, ok := strings.Cut(strings.ReplaceAll(h.RelativePath(), "\\", "/"), "/"); ok && first != "" {
			return first
		}
	}
	return ""
}
