package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

func buildZip(t *testing.T, files map[string][]byte, order []string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func readHandle(t *testing.T, h FileHandle) string {
	t.Helper()
	rc, err := h.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestArchiveHandles_SharedRoot(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}
	files := map[string][]byte{
		"demo/index.html":              []byte("<h1>Hi</h1>"),
		"demo/img/logo.png":            png,
		"demo/node_modules/x/index.js": []byte("x"),
		"demo/src/app.js":              []byte("app"),
	}
	order := []string{"demo/index.html", "demo/img/logo.png", "demo/node_modules/x/index.js", "demo/src/app.js"}

	src, err := ArchiveHandles(context.Background(), "upload.zip", buildZip(t, files, order), ArchiveLimits{})
	require.NoError(t, err)

	assert.Equal(t, "demo", src.Name)
	assert.Equal(t, []string{"img/logo.png"}, src.BinaryFiles)
	require.Len(t, src.Handles, 2)
	assert.Equal(t, "demo/index.html", src.Handles[0].RelativePath())
	assert.Equal(t, "demo/src/app.js", src.Handles[1].RelativePath())
	assert.Equal(t, "app", readHandle(t, src.Handles[1]))
}

func TestArchiveHandles_FlatArchiveNestedUnderName(t *testing.T) {
	files := map[string][]byte{
		"index.html": []byte("i"),
		"css/a.css":  []byte("a"),
	}
	src, err := ArchiveHandles(context.Background(), "My Site.zip", buildZip(t, files, []string{"index.html", "css/a.css"}), ArchiveLimits{})
	require.NoError(t, err)

	assert.Equal(t, "My Site", src.Name)
	require.Len(t, src.Handles, 2)
	assert.Equal(t, "My Site/index.html", src.Handles[0].RelativePath())

	imp := New(Config{Detector: NoCommands, Assembler: testAssembler()})
	msgs, err := imp.ImportFolder(context.Background(), FolderRequest{
		Name:    src.Name,
		Handles: src.Handles,
		Source:  models.SourceArchive,
	})
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, `filePath="css/a.css"`)
}

func TestArchiveHandles_SkipsOversized(t *testing.T) {
	files := map[string][]byte{
		"p/big.txt": bytes.Repeat([]byte("a"), 100),
		"p/ok.txt":  []byte("ok"),
	}
	src, err := ArchiveHandles(context.Background(), "p.zip", buildZip(t, files, []string{"p/big.txt", "p/ok.txt"}), ArchiveLimits{MaxFileSize: 10})
	require.NoError(t, err)
	require.Len(t, src.Handles, 1)
	assert.Equal(t, "p/ok.txt", src.Handles[0].RelativePath())
}

func TestArchiveHandles_TotalSizeLimit(t *testing.T) {
	files := map[string][]byte{
		"p/a.txt": bytes.Repeat([]byte("a"), 8),
		"p/b.txt": bytes.Repeat([]byte("b"), 8),
		"p/c.txt": bytes.Repeat([]byte("c"), 8),
	}
	order := []string{"p/a.txt", "p/b.txt", "p/c.txt"}

	_, err := ArchiveHandles(context.Background(), "p.zip", buildZip(t, files, order), ArchiveLimits{MaxFileSize: 10, MaxTotalSize: 20})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "expands beyond 20 bytes")

	src, err := ArchiveHandles(context.Background(), "p.zip", buildZip(t, files, order), ArchiveLimits{MaxFileSize: 10, MaxTotalSize: 24})
	require.NoError(t, err)
	assert.Len(t, src.Handles, 3)
}

func TestReadLimited(t *testing.T) {
	tests := []struct {
		in       string
		limit    int64
		want     string
		wantOver bool
	}{
		{"hello", -1, "hello", false},
		{"hello", 5, "hello", false},
		{"hello", 3, "hel", true},
		{"hello", 0, "", true},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		data, over, err := readLimited(strings.NewReader(tt.in), tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data), tt.in)
		assert.Equal(t, tt.wantOver, over, tt.in)
	}
}

func TestArchiveHandles_NotAnArchive(t *testing.T) {
	_, err := ArchiveHandles(context.Background(), "notes.txt", bytes.NewReader([]byte("just text")), ArchiveLimits{})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestArchiveBaseName(t *testing.T) {
	tests := map[string]string{
		"site.zip":      "site",
		"site.tar.gz":   "site",
		"dir/app.tgz":   "app",
		`C:\x\proj.tar`: "proj",
		"noext":         "noext",
		"":              "archive",
	}
	for in, want := range tests {
		assert.Equal(t, want, archiveBaseName(in), in)
	}
}
