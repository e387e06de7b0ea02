package artifact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

// ErrMalformed is returned by Decode when the text is not a well-formed artifact
var ErrMalformed = errors.New("malformed artifact")

// Artifact is a decoded artifact envelope
type Artifact struct {
	ID      string
	Title   string
	Type    string
	Actions []Action
}

// Action is one decoded action block with its content unescaped
type Action struct {
	Type     string
	FilePath string
	Content  string
}

var (
	attrRe       = regexp.MustCompile(`(\w+)="([^"]*)"`)
	artifactOpen = "<" + artifactTag + " "
	artifactEnd  = "</" + artifactTag + ">"
	actionOpen   = "<" + actionTag + " "
	actionEnd    = "\n</" + actionTag + ">"
)

// Decode parses the first artifact found in text. Text before the artifact
// (such as the assistant's prose) is ignored.
func Decode(text string) (*Artifact, error) {
	start := strings.Index(text, artifactOpen)
	if start < 0 {
		return nil, fmt.Errorf("%w: no %s found", ErrMalformed, artifactTag)
	}
	rest := text[start:]

	headEnd := strings.Index(rest, ">")
	if headEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated %s tag", ErrMalformed, artifactTag)
	}
	attrs := parseAttrs(rest[len(artifactOpen):headEnd])
	a := &Artifact{ID: attrs["id"], Title: attrs["title"], Type: attrs["type"]}

	body := strings.TrimPrefix(rest[headEnd+1:], "\n")
	for {
		body = strings.TrimLeft(body, "\n")
		if strings.HasPrefix(body, artifactEnd) {
			return a, nil
		}
		if !strings.HasPrefix(body, actionOpen) {
			return nil, fmt.Errorf("%w: expected %s or %s", ErrMalformed, actionTag, artifactEnd)
		}

		tagEnd := strings.Index(body, ">\n")
		if tagEnd < 0 {
			return nil, fmt.Errorf("%w: unterminated %s tag", ErrMalformed, actionTag)
		}
		actionAttrs := parseAttrs(body[len(actionOpen):tagEnd])
		body = body[tagEnd+2:]

		end := strings.Index(body, actionEnd)
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed %s", ErrMalformed, actionTag)
		}
		a.Actions = append(a.Actions, Action{
			Type:     actionAttrs["type"],
			FilePath: unescapeAttr(actionAttrs["filePath"]),
			Content:  Unescape(body[:end]),
		})
		body = body[end+len(actionEnd):]
	}
}

// Files returns the file actions of the artifact as imported files
func (a *Artifact) Files() []models.ImportedFile {
	var files []models.ImportedFile
	for _, act := range a.Actions {
		if act.Type == ActionFile {
			files = append(files, models.ImportedFile{Path: act.FilePath, Content: act.Content})
		}
	}
	return files
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}
