package fs

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of a file is read to classify it
const sniffLen = 3072

// Extensions that are always source text, regardless of content sniffing
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".mdx": true, ".json": true,
	".jsonc": true, ".yaml": true, ".yml": true, ".xml": true, ".html": true,
	".htm": true, ".css": true, ".scss": true, ".sass": true, ".less": true,
	".js": true, ".mjs": true, ".cjs": true, ".ts": true, ".mts": true,
	".jsx": true, ".tsx": true, ".vue": true, ".svelte": true, ".astro": true,
	".py": true, ".go": true, ".rs": true, ".java": true, ".kt": true,
	".c": true, ".cpp": true, ".h": true, ".hpp": true, ".cs": true,
	".rb": true, ".php": true, ".swift": true, ".dart": true, ".lua": true,
	".sh": true, ".bash": true, ".zsh": true, ".fish": true, ".ps1": true,
	".sql": true, ".graphql": true, ".prisma": true, ".toml": true,
	".ini": true, ".cfg": true, ".conf": true, ".env": true, ".lock": true,
	".gitignore": true, ".dockerignore": true, ".npmrc": true, ".editorconfig": true,
	".svg": true, ".csv": true, ".tsv": true,
}

// Extensions that are never imported as text
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".ico": true, ".bmp": true, ".tiff": true, ".heic": true, ".avif": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".mp3": true, ".mp4": true, ".wav": true, ".ogg": true, ".webm": true,
	".mov": true, ".pdf": true, ".zip": true, ".gz": true, ".tgz": true,
	".tar": true, ".7z": true, ".rar": true, ".wasm": true, ".bin": true,
	".sqlite": true, ".db": true,
}

// IsBinary classifies a file by name and the first bytes of its content.
// Known extensions short-circuit; everything else is sniffed and counts as
// text only when its MIME type descends from text/plain.
func IsBinary(name string, head []byte) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if textExtensions[ext] {
		return false
	}
	if binaryExtensions[ext] {
		return true
	}

	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}

// IsBinaryReader sniffs the start of r. Read errors other than EOF are
// returned so callers can decide whether to skip the file.
func IsBinaryReader(name string, r io.Reader) (bool, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return IsBinary(name, head[:n]), nil
}
