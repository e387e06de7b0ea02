package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mholt/archives"

	"github.com/xiaoyuanzhu-com/project-import/fs"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// ArchiveSource is an uploaded archive unpacked into file handles
type ArchiveSource struct {
	Name        string
	Handles     []FileHandle
	BinaryFiles []string
}

// memFile is an archive entry held in memory; archive entries can only be
// opened while the extractor is positioned on them.
type memFile struct {
	rel  string
	data []byte
}

func (f *memFile) RelativePath() string { return f.rel }
func (f *memFile) Name() string         { return path.Base(f.rel) }
func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// ArchiveLimits bounds how much an archive may expand to. Zero means no limit.
type ArchiveLimits struct {
	// MaxFileSize skips larger entries
	MaxFileSize int64
	// MaxTotalSize rejects the archive once the kept entries exceed it
	MaxTotalSize int64
}

// ArchiveHandles unpacks a zip, tar or compressed tar into file handles.
// Entries are filtered like a folder walk and classified as text or binary.
// When the entries do not share a single top-level folder they are nested
// under one named after the archive so path derivation stays uniform.
func ArchiveHandles(ctx context.Context, filename string, r io.Reader, limits ArchiveLimits) (*ArchiveSource, error) {
	format, stream, err := archives.Identify(ctx, filename, r)
	if err != nil {
		if errors.Is(err, archives.NoMatch) {
			return nil, fmt.Errorf("%w: %s is not a supported archive", models.ErrInvalidRequest, filename)
		}
		return nil, err
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is compressed but not an archive", models.ErrInvalidRequest, filename)
	}

	filter := fs.DefaultPathFilter()
	var entries []*memFile
	var binaries []string
	var total int64
	var limitErr error

	err = extractor.Extract(ctx, stream, func(ctx context.Context, info archives.FileInfo) error {
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		rel, err := fs.ValidatePathForImport(info.NameInArchive, filter)
		if err != nil {
			if errors.Is(err, fs.ErrInvalidPath) {
				log.Warn().Str("entry", info.NameInArchive).Msg("skipping archive entry with unsafe path")
			}
			return nil
		}
		if limits.MaxFileSize > 0 && info.Size() > limits.MaxFileSize {
			log.Warn().Str("entry", rel).Int64("size", info.Size()).Msg("skipping oversized archive entry")
			return nil
		}

		f, err := info.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", rel, err)
		}
		defer f.Close()

		// Declared sizes can lie, so reads are bounded as well
		readCap, perEntry := int64(-1), true
		if limits.MaxFileSize > 0 {
			readCap = limits.MaxFileSize
		}
		if limits.MaxTotalSize > 0 {
			if remaining := limits.MaxTotalSize - total; readCap < 0 || remaining < readCap {
				readCap, perEntry = remaining, false
			}
		}
		data, over, err := readLimited(f, readCap)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if over {
			if perEntry {
				log.Warn().Str("entry", rel).Msg("skipping oversized archive entry")
				return nil
			}
			limitErr = fmt.Errorf("%w: %s expands beyond %d bytes", models.ErrInvalidRequest, filename, limits.MaxTotalSize)
			return limitErr
		}
		total += int64(len(data))

		if fs.IsBinary(rel, data) {
			binaries = append(binaries, rel)
			return nil
		}
		entries = append(entries, &memFile{rel: rel, data: data})
		return nil
	})
	if limitErr != nil {
		return nil, limitErr
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}

	src := &ArchiveSource{Name: archiveBaseName(filename)}
	root, shared := sharedRoot(entries)
	if shared {
		src.Name = root
		for i, b := range binaries {
			binaries[i] = strings.TrimPrefix(b, root+"/")
		}
	} else {
		for _, e := range entries {
			e.rel = src.Name + "/" + e.rel
		}
	}
	src.BinaryFiles = binaries

	src.Handles = make([]FileHandle, len(entries))
	for i, e := range entries {
		src.Handles[i] = e
	}
	return src, nil
}

// readLimited reads r up to limit bytes and reports whether more remained.
// A negative limit reads everything; zero only checks for any data.
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	if limit < 0 {
		data, err := io.ReadAll(r)
		return data, false, err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// sharedRoot reports the top-level folder every entry lives under, if any
func sharedRoot(entries []*memFile) (string, bool) {
	root := ""
	for _, e := range entries {
		first, _, ok := strings.Cut(e.rel, "/")
		if !ok {
			return "", false
		}
		if root == "" {
			root = first
		} else if root != first {
			return "", false
		}
	}
	return root, root != ""
}

var archiveExtensions = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tar.zst", ".tgz", ".tar", ".zip"}

func archiveBaseName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return "archive"
	}
	lower := strings.ToLower(base)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
