package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyuanzhu-com/project-import/artifact"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

type fakeAutopilot struct {
	project *models.ProjectDescriptor
	docs    []models.DocumentDescriptor
	resErr  error
	listErr error
}

func (f *fakeAutopilot) ResolveProject(ctx context.Context, hex string) (*models.ProjectDescriptor, error) {
	if f.resErr != nil {
		return nil, f.resErr
	}
	return f.project, nil
}

func (f *fakeAutopilot) ListDocuments(ctx context.Context, hex string) ([]models.DocumentDescriptor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []models.ImportRun
	finished []models.ImportRun
}

func (r *recordingObserver) ImportStarted(run models.ImportRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, run)
}

func (r *recordingObserver) ImportFinished(run models.ImportRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, run)
}

func newRemoteImporter(ap *fakeAutopilot, blobs BlobFetcher, obs Observer) *Importer {
	return New(Config{
		Resolver:    ap,
		Lister:      ap,
		Blobs:       blobs,
		Concurrency: 4,
		Assembler:   testAssembler(),
		Observer:    obs,
	})
}

func TestImportRemote(t *testing.T) {
	ap := &fakeAutopilot{
		project: &models.ProjectDescriptor{ProjectName: "Landing Page"},
		docs: []models.DocumentDescriptor{
			{FileName: "index.html", BlobDir: "b/1"},
			{FileName: "style.css", BlobDir: "b/2"},
		},
	}
	blobs := &fakeBlobs{contents: map[string]string{"b/1": "<h1>Hi</h1>", "b/2": "body{}"}}
	obs := &recordingObserver{}

	item, err := newRemoteImporter(ap, blobs, obs).ImportRemote(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", item.ID)
	assert.Equal(t, "abc123", item.URLID)
	assert.Equal(t, "Landing Page", item.Description)
	assert.Equal(t, fixedTime, item.Timestamp)

	// index.html present, so the static heuristic adds the start pair
	require.Len(t, item.Messages, 4)
	assert.Equal(t, `Import the "Landing Page" project`, item.Messages[0].Content)

	decoded, err := artifact.Decode(item.Messages[1].Content)
	require.NoError(t, err)
	assert.Equal(t, []models.ImportedFile{
		{Path: "index.html", Content: "<h1>Hi</h1>"},
		{Path: "style.css", Content: "body{}"},
	}, decoded.Files())

	require.Len(t, obs.finished, 1)
	run := obs.finished[0]
	assert.Equal(t, models.ImportCompleted, run.Status)
	assert.Equal(t, models.SourceAutopilot, run.Source)
	assert.Equal(t, "Landing Page", run.ProjectName)
	assert.Equal(t, 2, run.FileCount)
	assert.Equal(t, 1, run.CommandCount)
	assert.Equal(t, obs.started[0].ID, run.ID)
}

func TestImportRemote_AddsIndexRedirect(t *testing.T) {
	ap := &fakeAutopilot{
		project: &models.ProjectDescriptor{ProjectName: "Docs"},
		docs:    []models.DocumentDescriptor{{FileName: "home.html", BlobDir: "b/1"}},
	}
	blobs := &fakeBlobs{contents: map[string]string{"b/1": "<p>home</p>"}}

	item, err := newRemoteImporter(ap, blobs, nil).ImportRemote(context.Background(), "ff")
	require.NoError(t, err)

	decoded, err := artifact.Decode(item.Messages[1].Content)
	require.NoError(t, err)
	require.Len(t, decoded.Actions, 2)
	assert.Equal(t, "index.html", decoded.Actions[1].FilePath)
}

func TestImportRemote_Errors(t *testing.T) {
	tests := []struct {
		name string
		ap   *fakeAutopilot
		blob *fakeBlobs
		want error
	}{
		{
			name: "project not found",
			ap:   &fakeAutopilot{resErr: fmt.Errorf("%w: abc", models.ErrNotFound)},
			want: models.ErrNotFound,
		},
		{
			name: "upstream down",
			ap:   &fakeAutopilot{resErr: &models.UpstreamError{URL: "u", StatusCode: 502, Kind: models.ErrUnreachable}},
			want: models.ErrUnreachable,
		},
		{
			name: "no documents",
			ap:   &fakeAutopilot{project: &models.ProjectDescriptor{ProjectName: "p"}},
			want: models.ErrNotFound,
		},
		{
			name: "blob failure",
			ap: &fakeAutopilot{
				project: &models.ProjectDescriptor{ProjectName: "p"},
				docs:    []models.DocumentDescriptor{{FileName: "a.html", BlobDir: "missing"}},
			},
			blob: &fakeBlobs{},
			want: models.ErrFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := tt.blob
			if blobs == nil {
				blobs = &fakeBlobs{}
			}
			obs := &recordingObserver{}

			item, err := newRemoteImporter(tt.ap, blobs, obs).ImportRemote(context.Background(), "abc")
			assert.Nil(t, item)
			assert.ErrorIs(t, err, tt.want)

			require.Len(t, obs.finished, 1)
			assert.Equal(t, models.ImportFailed, obs.finished[0].Status)
			assert.NotEmpty(t, obs.finished[0].Error)
		})
	}
}

func TestImportRemote_MissingHex(t *testing.T) {
	_, err := New(Config{}).ImportRemote(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestImportRemote_NotConfigured(t *testing.T) {
	_, err := New(Config{}).ImportRemote(context.Background(), "abc")
	assert.ErrorIs(t, err, models.ErrUnreachable)
}

func TestFetchRemoteProject(t *testing.T) {
	ap := &fakeAutopilot{
		project: &models.ProjectDescriptor{ProjectName: "Shop"},
		docs:    []models.DocumentDescriptor{{FileName: "cart.html", BlobDir: "b/1"}},
	}
	blobs := &fakeBlobs{contents: map[string]string{"b/1": "<cart/>"}}

	res, err := newRemoteImporter(ap, blobs, nil).FetchRemoteProject(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{
		ProjectName: "Shop",
		Files:       []models.ImportedFile{{Path: "cart.html", Content: "<cart/>"}},
	}, res)
}

func TestImportFolder(t *testing.T) {
	obs := &recordingObserver{}
	imp := New(Config{Detector: NoCommands, Assembler: testAssembler(), Observer: obs})

	msgs, err := imp.ImportFolder(context.Background(), FolderRequest{
		Handles: []FileHandle{
			handle("demo/index.html", "<h1>Hi</h1>"),
			handle("demo/style.css", "body{}"),
		},
		BinaryFiles: []string{"logo.png"},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, `Import the "demo" project`, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "Skipped 1 binary files:\n- logo.png")

	decoded, err := artifact.Decode(msgs[1].Content)
	require.NoError(t, err)
	assert.Equal(t, []models.ImportedFile{
		{Path: "index.html", Content: "<h1>Hi</h1>"},
		{Path: "style.css", Content: "body{}"},
	}, decoded.Files())

	require.Len(t, obs.finished, 1)
	assert.Equal(t, models.SourceFolder, obs.finished[0].Source)
	assert.Equal(t, 1, obs.finished[0].SkippedBinary)
}

func TestImportFolder_StartCommands(t *testing.T) {
	imp := New(Config{Assembler: testAssembler()})

	msgs, err := imp.ImportFolder(context.Background(), FolderRequest{
		Name: "web",
		Handles: []FileHandle{
			handle("web/package.json", `{"scripts":{"dev":"vite"}}`),
			handle("web/src/main.ts", "console.log('hi')"),
		},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[3].Content, "npm install && npm run dev")
}

func TestImportFolder_AllOrNothing(t *testing.T) {
	imp := New(Config{Assembler: testAssembler()})

	msgs, err := imp.ImportFolder(context.Background(), FolderRequest{
		Name: "demo",
		Handles: []FileHandle{
			handle("demo/a.txt", "ok"),
			failingHandle{rel: "demo/b.txt"},
		},
	})
	assert.Nil(t, msgs)
	assert.ErrorIs(t, err, models.ErrDecode)
}

func TestImportFolder_MissingName(t *testing.T) {
	_, err := New(Config{}).ImportFolder(context.Background(), FolderRequest{})
	assert.True(t, errors.Is(err, models.ErrInvalidRequest))
}
