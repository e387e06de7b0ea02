// Package artifact renders imported files and startup commands in the bolt
// inline markup protocol understood by the chat renderer, and parses it back.
package artifact

import (
	"fmt"
	"strings"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

const (
	// ImportedFilesID is the artifact id used for every import
	ImportedFilesID    = "imported-files"
	ImportedFilesTitle = "Imported Files"
	ImportedFilesType  = "bundled"

	ProjectSetupID    = "project-setup"
	ProjectSetupTitle = "Project Setup"

	ActionFile  = "file"
	ActionShell = "shell"
)

// Encode wraps every file in a file action and all actions in one
// "imported-files" artifact. Content is escaped so no file can close a block early.
func Encode(files []models.ImportedFile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<%s id=%q title=%q type=%q>\n", artifactTag, ImportedFilesID, ImportedFilesTitle, ImportedFilesType)
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "<%s type=\"%s\" filePath=\"%s\">\n", actionTag, ActionFile, escapeAttr(f.Path))
		b.WriteString(Escape(f.Content))
		fmt.Fprintf(&b, "\n</%s>", actionTag)
	}
	if len(files) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "</%s>", artifactTag)

	return b.String()
}

// EncodeCommands renders startup commands as shell actions of a
// "project-setup" artifact. It returns "" when there is nothing to run.
func EncodeCommands(commands []string) string {
	if len(commands) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%s id=%q title=%q>\n", artifactTag, ProjectSetupID, ProjectSetupTitle)
	for i, cmd := range commands {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "<%s type=\"%s\">\n%s\n</%s>", actionTag, ActionShell, Escape(cmd), actionTag)
	}
	fmt.Fprintf(&b, "\n</%s>", artifactTag)

	return b.String()
}
