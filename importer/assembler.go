package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xiaoyuanzhu-com/project-import/artifact"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// Assembler turns an encoded artifact into the ordered conversation history
type Assembler struct {
	NewID func() string
	Now   func() time.Time
}

// NewAssembler returns an Assembler with random ids and the wall clock
func NewAssembler() *Assembler {
	return &Assembler{NewID: uuid.NewString, Now: time.Now}
}

// AssembleInput is everything the Assembler needs from one import
type AssembleInput struct {
	Name        string
	BinaryFiles []string
	Artifact    string
	FileCount   int
	Commands    models.ProjectCommands
}

// Assemble returns two messages, or four when a start command was detected:
// import request, imported files, start request, setup commands.
func (a *Assembler) Assemble(in AssembleInput) []models.Message {
	now := a.Now()

	messages := []models.Message{
		{
			ID:        a.NewID(),
			Role:      models.RoleUser,
			Content:   fmt.Sprintf("Import the \"%s\" project", in.Name),
			CreatedAt: &now,
		},
		{
			ID:        a.NewID(),
			Role:      models.RoleAssistant,
			Content:   filesMessage(in),
			CreatedAt: &now,
		},
	}

	if in.Commands.IsEmpty() {
		return messages
	}

	content := artifact.EncodeCommands(in.Commands.Commands)
	if in.Commands.FollowupMessage != "" {
		content += "\n\n" + in.Commands.FollowupMessage
	}

	return append(messages,
		models.Message{
			ID:      a.NewID(),
			Role:    models.RoleUser,
			Content: "Start the application",
		},
		models.Message{
			ID:        a.NewID(),
			Role:      models.RoleAssistant,
			Content:   content,
			CreatedAt: &now,
		},
	)
}

func filesMessage(in AssembleInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I've imported the contents of the \"%s\" project (%d files).", in.Name, in.FileCount)
	if len(in.BinaryFiles) > 0 {
		fmt.Fprintf(&b, "\n\nSkipped %d binary files:", len(in.BinaryFiles))
		for _, name := range in.BinaryFiles {
			b.WriteString("\n- ")
			b.WriteString(name)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(in.Artifact)
	return b.String()
}
