package importer

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

// ProjectResolver looks up a remote project's metadata
type ProjectResolver interface {
	ResolveProject(ctx context.Context, projectHex string) (*models.ProjectDescriptor, error)
}

// DocumentLister lists the documents that make up a remote project
type DocumentLister interface {
	ListDocuments(ctx context.Context, projectHex string) ([]models.DocumentDescriptor, error)
}

// BlobFetcher returns the text stored under a blob locator
type BlobFetcher interface {
	FetchBlob(ctx context.Context, blobDir string) (string, error)
}

// FetchFiles downloads every document's content with at most concurrency
// requests in flight. The result keeps the order of docs. The first failure
// cancels the outstanding fetches and is returned as ErrFetchFailed naming
// the file.
func FetchFiles(ctx context.Context, blobs BlobFetcher, docs []models.DocumentDescriptor, concurrency int) ([]models.ImportedFile, error) {
	paths, err := DocumentPaths(docs)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	files := make([]models.ImportedFile, len(docs))
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(concurrency)

	for i, doc := range docs {
		p.Go(func(ctx context.Context) error {
			content, err := blobs.FetchBlob(ctx, doc.BlobDir)
			if err != nil {
				return &models.FileError{Path: paths[i], Kind: models.ErrFetchFailed, Err: err}
			}
			files[i] = models.ImportedFile{Path: paths[i], Content: content}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// DocumentPaths names each document by its file_name. Names shared by more
// than one document are qualified with their sub_dir; a clash that survives
// qualification means the listing is unusable.
func DocumentPaths(docs []models.DocumentDescriptor) ([]string, error) {
	counts := make(map[string]int, len(docs))
	for _, d := range docs {
		counts[d.FileName]++
	}

	paths := make([]string, len(docs))
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		p := d.FileName
		if counts[p] > 1 {
			if sub := strings.Trim(d.SubDir, "/"); sub != "" {
				p = path.Join(sub, d.FileName)
			}
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate file path %q", models.ErrMalformedResponse, p)
		}
		seen[p] = true
		paths[i] = p
	}
	return paths, nil
}

const indexRedirectTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="refresh" content="0; url=%s">
    <title></title>
</head>
<body>
</body>
</html>
`

// WithIndexRedirect adds a root index.html that redirects to the project's
// home page when the project has HTML pages but no index of its own. The
// home page is the first page named home.html, else the first .html file
// in sorted order.
func WithIndexRedirect(files []models.ImportedFile) []models.ImportedFile {
	var pages []string
	for _, f := range files {
		if strings.EqualFold(f.Path, "index.html") {
			return files
		}
		if strings.EqualFold(path.Ext(f.Path), ".html") {
			pages = append(pages, f.Path)
		}
	}
	if len(pages) == 0 {
		return files
	}

	sort.Strings(pages)
	home := pages[0]
	for _, p := range pages {
		if strings.EqualFold(path.Base(p), "home.html") {
			home = p
			break
		}
	}

	out := make([]models.ImportedFile, 0, len(files)+1)
	out = append(out, files...)
	return append(out, models.ImportedFile{
		Path:    "index.html",
		Content: fmt.Sprintf(indexRedirectTemplate, home),
	})
}
