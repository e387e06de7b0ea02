package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyuanzhu-com/project-import/artifact"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testAssembler() *Assembler {
	n := 0
	return &Assembler{
		NewID: func() string {
			n++
			return fmt.Sprintf("msg-%d", n)
		},
		Now: func() time.Time { return fixedTime },
	}
}

func TestAssemble_WithoutCommands(t *testing.T) {
	files := []models.ImportedFile{
		{Path: "index.html", Content: "<h1>Hi</h1>"},
		{Path: "style.css", Content: "body{}"},
	}
	blob := artifact.Encode(files)

	msgs := testAssembler().Assemble(AssembleInput{
		Name:      "demo",
		Artifact:  blob,
		FileCount: len(files),
	})

	require.Len(t, msgs, 2)

	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, `Import the "demo" project`, msgs[0].Content)
	assert.Equal(t, "msg-1", msgs[0].ID)
	require.NotNil(t, msgs[0].CreatedAt)
	assert.Equal(t, fixedTime, *msgs[0].CreatedAt)

	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "I've imported the contents of the \"demo\" project (2 files).\n\n"+blob, msgs[1].Content)

	decoded, err := artifact.Decode(msgs[1].Content)
	require.NoError(t, err)
	assert.Equal(t, files, decoded.Files())
}

func TestAssemble_WithCommands(t *testing.T) {
	msgs := testAssembler().Assemble(AssembleInput{
		Name:      "app",
		Artifact:  artifact.Encode(nil),
		FileCount: 0,
		Commands: models.ProjectCommands{
			Commands:        []string{"npm install && npm run dev"},
			FollowupMessage: "Running dev.",
		},
	})

	require.Len(t, msgs, 4)
	assert.Equal(t, []models.Role{models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleAssistant},
		[]models.Role{msgs[0].Role, msgs[1].Role, msgs[2].Role, msgs[3].Role})

	assert.Equal(t, "Start the application", msgs[2].Content)
	assert.Nil(t, msgs[2].CreatedAt)

	want := "<boltArtifact id=\"project-setup\" title=\"Project Setup\">\n" +
		"<boltAction type=\"shell\">\nnpm install && npm run dev\n</boltAction>\n" +
		"</boltArtifact>\n\nRunning dev."
	assert.Equal(t, want, msgs[3].Content)

	ids := map[string]bool{}
	for _, m := range msgs {
		ids[m.ID] = true
	}
	assert.Len(t, ids, 4)
}

func TestAssemble_BinaryNotice(t *testing.T) {
	msgs := testAssembler().Assemble(AssembleInput{
		Name:        "site",
		BinaryFiles: []string{"logo.png", "fonts/a.woff2"},
		Artifact:    "ART",
		FileCount:   3,
	})

	want := "I've imported the contents of the \"site\" project (3 files).\n\n" +
		"Skipped 2 binary files:\n- logo.png\n- fonts/a.woff2\n\nART"
	assert.Equal(t, want, msgs[1].Content)
}

func TestNewAssembler_RandomIDs(t *testing.T) {
	a := NewAssembler()
	msgs := a.Assemble(AssembleInput{Name: "x", Artifact: "A"})
	require.Len(t, msgs, 2)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	assert.False(t, strings.Contains(msgs[0].ID, " "))
}
