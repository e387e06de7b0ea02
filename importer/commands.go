package importer

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

// CommandDetector inspects imported files and decides how to start the project
type CommandDetector interface {
	Detect(files []models.ImportedFile) models.ProjectCommands
}

// CommandDetectorFunc adapts a function to CommandDetector
type CommandDetectorFunc func(files []models.ImportedFile) models.ProjectCommands

func (f CommandDetectorFunc) Detect(files []models.ImportedFile) models.ProjectCommands {
	return f(files)
}

// NoCommands never proposes a start command
var NoCommands = CommandDetectorFunc(func([]models.ImportedFile) models.ProjectCommands {
	return models.ProjectCommands{}
})

// Project types reported by HeuristicDetector
const (
	ProjectTypeNode   = "Node.js"
	ProjectTypeStatic = "Static"
)

var preferredScripts = []string{"dev", "start", "preview"}

// HeuristicDetector recognizes npm projects by package.json and static sites
// by a root index.html
type HeuristicDetector struct{}

func (HeuristicDetector) Detect(files []models.ImportedFile) models.ProjectCommands {
	if pkg, ok := shallowest(files, "package.json"); ok {
		return detectNode(pkg)
	}
	if _, ok := shallowest(files, "index.html"); ok {
		return models.ProjectCommands{
			Type:     ProjectTypeStatic,
			Commands: []string{"npx --yes serve"},
		}
	}
	return models.ProjectCommands{}
}

func detectNode(pkg models.ImportedFile) models.ProjectCommands {
	prefix := ""
	if dir := path.Dir(pkg.Path); dir != "." {
		prefix = fmt.Sprintf("cd %s && ", dir)
	}

	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	// An unparsable manifest still means npm install is the right first step
	_ = json.Unmarshal([]byte(pkg.Content), &manifest)

	for _, script := range preferredScripts {
		if strings.TrimSpace(manifest.Scripts[script]) == "" {
			continue
		}
		return models.ProjectCommands{
			Type:     ProjectTypeNode,
			Commands: []string{fmt.Sprintf("%snpm install && npm run %s", prefix, script)},
			FollowupMessage: fmt.Sprintf(
				"Found %q script in package.json. Running \"npm run %s\" after installation.", script, script),
		}
	}

	return models.ProjectCommands{
		Type:            ProjectTypeNode,
		Commands:        []string{prefix + "npm install"},
		FollowupMessage: "Would you like me to inspect package.json to determine the available scripts for running this project?",
	}
}

// shallowest returns the file with the given base name closest to the root.
// Ties keep import order.
func shallowest(files []models.ImportedFile, base string) (models.ImportedFile, bool) {
	var best models.ImportedFile
	bestDepth := -1
	for _, f := range files {
		if path.Base(f.Path) != base {
			continue
		}
		depth := strings.Count(f.Path, "/")
		if bestDepth == -1 || depth < bestDepth {
			best, bestDepth = f, depth
		}
	}
	return best, bestDepth >= 0
}
