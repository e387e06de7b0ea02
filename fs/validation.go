package fs

import (
	"path"
	"strings"
)

// CleanRelativePath normalizes an uploaded relative path (multipart filename
// or archive entry) and rejects anything that could escape the import root.
func CleanRelativePath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") || hasDrivePrefix(p) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// ValidatePathForImport is CleanRelativePath plus the exclusion filter
func ValidatePathForImport(p string, filter *PathFilter) (string, error) {
	cleaned, err := CleanRelativePath(p)
	if err != nil {
		return "", err
	}
	if filter == nil {
		filter = DefaultPathFilter()
	}
	if filter.IsExcluded(cleaned) {
		return "", ErrExcludedPath
	}
	return cleaned, nil
}

func hasDrivePrefix(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
