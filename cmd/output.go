package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}

// encode writes v to w in the chosen format
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
}

// writeResult encodes v to the output file, or to fallback when path is empty
func writeResult(path string, fallback io.Writer, format string, v any) error {
	if path == "" {
		return encode(fallback, format, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encode(f, format, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// importSummary is the human readable report printed next to a result
type importSummary struct {
	Name      string
	Files     int
	Binary    []string
	Oversized []string
	Excluded  int
	Messages  int
}

func (s importSummary) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Imported "+s.Name) + "\n")
	row := func(label string, value int) {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value))))
	}
	row("text files:", s.Files)
	row("binary skipped:", len(s.Binary))
	if s.Excluded > 0 {
		row("excluded:", s.Excluded)
	}
	row("messages:", s.Messages)
	for _, p := range s.Oversized {
		b.WriteString("  " + warnStyle.Render("too large: "+p) + "\n")
	}
	return b.String()
}

// renderRuns formats journal entries as an aligned listing
func renderRuns(runs []models.ImportRun) string {
	if len(runs) == 0 {
		return labelStyle.Render("No imports recorded") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d import(s)", len(runs))) + "\n")
	for _, r := range runs {
		status := valueStyle.Render(string(r.Status))
		switch r.Status {
		case models.ImportFailed:
			status = errStyle.Render(string(r.Status))
		case models.ImportRunning:
			status = warnStyle.Render(string(r.Status))
		}

		name := r.ProjectName
		if name == "" {
			name = r.ProjectRef
		}
		b.WriteString(fmt.Sprintf("  %s  %-9s %-10s %s  %s\n",
			labelStyle.Render(r.StartedAt.Local().Format("2006-01-02 15:04")),
			string(r.Source),
			status,
			name,
			labelStyle.Render(fmt.Sprintf("(%d files)", r.FileCount)),
		))
		if r.Error != "" {
			b.WriteString("    " + errStyle.Render(r.Error) + "\n")
		}
	}
	return b.String()
}
