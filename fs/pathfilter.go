package fs

import (
	"path/filepath"
	"strings"
)

// Category represents a category of files/directories to exclude
type Category int

const (
	// CategoryHidden - dotfiles and dotdirs (.env, .eslintrc, etc.)
	CategoryHidden Category = 1 << iota

	// CategoryBackup - backup and temporary files (~file, *.bak, *.swp, etc.)
	CategoryBackup

	// CategoryVCS - version control directories (.git, .svn, .hg, etc.)
	CategoryVCS

	// CategoryIDE - IDE and editor configs (.idea, .vscode, etc.)
	CategoryIDE

	// CategoryDependencies - package manager directories (node_modules, vendor, etc.)
	CategoryDependencies

	// CategoryCache - build and runtime caches (__pycache__, .cache, etc.)
	CategoryCache

	// CategoryBuild - build output directories (dist, build, target, etc.)
	CategoryBuild

	// CategoryVirtualEnv - virtual environment directories (venv, .venv, etc.)
	CategoryVirtualEnv

	// CategoryOS - OS-generated files (.DS_Store, Thumbs.db, etc.)
	CategoryOS

	// CategoryLogs - log files
	CategoryLogs
)

const (
	// ExcludeNone - no exclusions
	ExcludeNone Category = 0

	// ExcludeForImport drops everything a chat assistant can regenerate or
	// should never see. Hidden files stay: .env.example, .eslintrc and friends
	// are part of a project.
	ExcludeForImport = CategoryBackup | CategoryVCS | CategoryIDE | CategoryDependencies |
		CategoryCache | CategoryBuild | CategoryVirtualEnv | CategoryOS | CategoryLogs

	// ExcludeAll - all categories
	ExcludeAll = CategoryHidden | ExcludeForImport
)

// PathFilter handles file/directory exclusion checks
type PathFilter struct {
	exclusions Category
}

// NewPathFilter creates a new PathFilter with the specified exclusion categories
func NewPathFilter(exclusions Category) *PathFilter {
	return &PathFilter{exclusions: exclusions}
}

// DefaultPathFilter returns the filter used for project imports
func DefaultPathFilter() *PathFilter {
	return NewPathFilter(ExcludeForImport)
}

// IsExcluded checks if a slash or OS separated relative path should be
// excluded based on any of its components
func (f *PathFilter) IsExcluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." {
			continue
		}
		if f.IsExcludedName(part) {
			return true
		}
	}
	return false
}

// IsExcludedName checks a single directory entry name
func (f *PathFilter) IsExcludedName(name string) bool {
	lower := strings.ToLower(name)

	if f.exclusions&CategoryHidden != 0 {
		if strings.HasPrefix(name, ".") && name != "." {
			return true
		}
	}

	if f.exclusions&CategoryVCS != 0 && vcsNames[lower] {
		return true
	}

	if f.exclusions&CategoryIDE != 0 {
		if ideNames[lower] || hasAnySuffix(lower, ideSuffixes) {
			return true
		}
	}

	if f.exclusions&CategoryBackup != 0 {
		if strings.HasPrefix(name, "~") || strings.HasSuffix(name, "~") {
			return true
		}
		if hasAnySuffix(lower, backupSuffixes) {
			return true
		}
	}

	if f.exclusions&CategoryDependencies != 0 && dependencyNames[lower] {
		return true
	}

	if f.exclusions&CategoryCache != 0 {
		if cacheNames[lower] || hasAnySuffix(lower, cacheSuffixes) {
			return true
		}
	}

	if f.exclusions&CategoryBuild != 0 {
		if buildNames[lower] || hasAnySuffix(lower, buildSuffixes) {
			return true
		}
	}

	if f.exclusions&CategoryVirtualEnv != 0 && venvNames[lower] {
		return true
	}

	if f.exclusions&CategoryOS != 0 {
		if osNames[lower] || hasAnyPrefix(name, osPrefixes) || hasAnySuffix(lower, osSuffixes) {
			return true
		}
	}

	if f.exclusions&CategoryLogs != 0 && hasAnySuffix(lower, logSuffixes) {
		return true
	}

	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// =============================================================================
// Exclusion patterns organized by category
// =============================================================================

var vcsNames = map[string]bool{
	".git":    true,
	".svn":    true,
	".hg":     true,
	".bzr":    true,
	".fossil": true,
	"_darcs":  true,
}

var ideNames = map[string]bool{
	".idea":    true,
	".vscode":  true,
	".vs":      true,
	".fleet":   true,
	".cursor":  true,
	".history": true,
}

var ideSuffixes = []string{
	".suo",
	".userosscache",
	".sln.docstates",
}

var backupSuffixes = []string{
	".bak",
	".swp",
	".swo",
	".tmp",
	".orig",
	".rej",
}

// Only names that are unambiguous in a web project. "packages" and "deps"
// are real source directories in monorepos and stay importable.
var dependencyNames = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"jspm_packages":    true,
	".npm":             true,
	".yarn":            true,
	".pnpm-store":      true,
	"vendor":           true,
	".cargo":           true,
	".m2":              true,
	".gradle":          true,
	"pods":             true,
	".dart_tool":       true,
	".pub-cache":       true,
	"site-packages":    true,
}

var cacheNames = map[string]bool{
	".cache":          true,
	"__pycache__":     true,
	".pytest_cache":   true,
	".mypy_cache":     true,
	".ruff_cache":     true,
	".tox":            true,
	".eslintcache":    true,
	".stylelintcache": true,
	".parcel-cache":   true,
	".sass-cache":     true,
	".turbo":          true,
	".next":           true,
	".nuxt":           true,
	".svelte-kit":     true,
	".output":         true,
	".vercel":         true,
	".netlify":        true,
	".terraform":      true,
	"coverage":        true,
	".nyc_output":     true,
}

var cacheSuffixes = []string{
	".pyc",
	".pyo",
	".class",
	".tsbuildinfo",
}

var buildNames = map[string]bool{
	"dist":   true,
	"build":  true,
	"target": true,
	"_build": true,
	"out":    true,
}

var buildSuffixes = []string{
	".egg-info",
	".so",
	".dylib",
	".dll",
	".o",
	".exe",
	".jar",
}

var venvNames = map[string]bool{
	"venv":        true,
	".venv":       true,
	"virtualenv":  true,
	".virtualenv": true,
	".conda":      true,
}

var osNames = map[string]bool{
	".ds_store":       true,
	".appledouble":    true,
	".spotlight-v100": true,
	".trashes":        true,
	".fseventsd":      true,
	"thumbs.db":       true,
	"ehthumbs.db":     true,
	"desktop.ini":     true,
	"$recycle.bin":    true,
}

var osPrefixes = []string{
	"._",
	"~$",
}

var osSuffixes = []string{
	".lnk",
}

// npm-debug.log, yarn-error.log, app.log
var logSuffixes = []string{
	".log",
}
