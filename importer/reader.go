package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

// FileHandle is one file picked for a local import. RelativePath starts with
// the picked root folder, e.g. "demo/src/app.js".
type FileHandle interface {
	RelativePath() string
	Name() string
	Open() (io.ReadCloser, error)
}

// DefaultConcurrency bounds fan-out when the caller passes zero
const DefaultConcurrency = 8

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadFolder decodes every handle as text. The result is index-aligned with
// handles. The first unreadable or undecodable file cancels the remaining
// reads and is the error returned.
func ReadFolder(ctx context.Context, handles []FileHandle, concurrency int) ([]models.ImportedFile, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	files := make([]models.ImportedFile, len(handles))
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(concurrency)

	for i, handle := range handles {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			path := DerivePath(handle.RelativePath(), handle.Name())
			content, err := readText(handle)
			if err != nil {
				return &models.FileError{Path: path, Kind: models.ErrDecode, Err: err}
			}
			files[i] = models.ImportedFile{Path: path, Content: content}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// DerivePath drops the picked root folder from a relative path. A file with
// no folder part keeps its bare name.
func DerivePath(relativePath, name string) string {
	relativePath = strings.ReplaceAll(relativePath, "\\", "/")
	if _, rest, ok := strings.Cut(relativePath, "/"); ok && rest != "" {
		return rest
	}
	return name
}

func readText(h FileHandle) (string, error) {
	rc, err := h.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// decodeText accepts UTF-8 (with or without BOM) and BOM-marked UTF-16
func decodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data, unicode.LittleEndian)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data, unicode.BigEndian)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	return string(data), nil
}

func decodeUTF16(data []byte, order unicode.Endianness) (string, error) {
	dec := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16: %w", err)
	}
	return string(out), nil
}
