package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/xiaoyuanzhu-com/project-import/log"
)

// WalkOptions controls which files of a directory become import candidates
type WalkOptions struct {
	// Filter drops well-known noise (VCS, dependencies, build output).
	// Nil means DefaultPathFilter.
	Filter *PathFilter

	// RespectGitignore honors the .gitignore at the root of the walk
	RespectGitignore bool

	// MaxFileSize skips larger files; zero means no limit
	MaxFileSize int64
}

// LocalFile is a text file found on disk. Its relative path starts with the
// walked folder's own name, the same shape a browser folder picker reports.
type LocalFile struct {
	abs string
	rel string
}

// RelativePath returns the slash separated path including the root folder name
func (f *LocalFile) RelativePath() string { return f.rel }

// Name returns the base name of the file
func (f *LocalFile) Name() string { return path.Base(f.rel) }

// Open opens the file for reading
func (f *LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.abs) }

// WalkResult is the outcome of scanning a folder for import
type WalkResult struct {
	Name        string
	Files       []*LocalFile
	BinaryFiles []string
	Oversized   []string
	Excluded    int
}

// Walk scans root and classifies every regular file as text or binary.
// Files come back in lexical order.
func Walk(root string, opts WalkOptions) (*WalkResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	filter := opts.Filter
	if filter == nil {
		filter = DefaultPathFilter()
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi, err = ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore"))
		if err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("root", abs).Msg("failed to parse .gitignore, ignoring it")
		}
	}

	result := &WalkResult{Name: filepath.Base(abs)}

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == abs {
				return walkErr
			}
			log.Warn().Err(walkErr).Str("path", p).Msg("skipping unreadable entry")
			return nil
		}
		if p == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if filter.IsExcludedName(d.Name()) || isIgnored(gi, rel, d.IsDir()) {
			result.Excluded++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if opts.MaxFileSize > 0 {
			fi, err := d.Info()
			if err == nil && fi.Size() > opts.MaxFileSize {
				result.Oversized = append(result.Oversized, rel)
				return nil
			}
		}

		binary, err := sniffFile(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skipping unreadable file")
			return nil
		}
		if binary {
			result.BinaryFiles = append(result.BinaryFiles, rel)
			return nil
		}

		result.Files = append(result.Files, &LocalFile{
			abs: p,
			rel: result.Name + "/" + rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func isIgnored(gi *ignore.GitIgnore, rel string, dir bool) bool {
	if gi == nil {
		return false
	}
	if dir && gi.MatchesPath(rel+"/") {
		return true
	}
	return gi.MatchesPath(rel)
}

func sniffFile(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return IsBinaryReader(filepath.Base(p), f)
}
