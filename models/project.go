package models

// ProjectDescriptor is the project record returned by the autopilot service.
// Only ProjectName is used downstream; the rest is kept for the journal and logs.
type ProjectDescriptor struct {
	ClientID          string `json:"client_id"`
	UniqueProjectName string `json:"unique_projectname"`
	ProjectName       string `json:"project_name"`
	Status            string `json:"status"`
	LastUpdateTime    string `json:"last_update_time"`
	Icon              string `json:"icon,omitempty"`
	OriginalIdea      string `json:"original_idea,omitempty"`
	Idea              string `json:"idea,omitempty"`
	Autopilot         bool   `json:"autopilot"`
	ProjectMode       string `json:"project_mode,omitempty"`
}

// DocumentDescriptor points at one remote file's content
type DocumentDescriptor struct {
	Action       string `json:"action,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	SubDir       string `json:"sub_dir,omitempty"`
	FileName     string `json:"file_name"`
	Agent        string `json:"agent,omitempty"`
	Datetime     string `json:"datetime,omitempty"`
	DocumentID   int64  `json:"document_id"`
	FileDir      string `json:"file_dir,omitempty"`
	BlobDir      string `json:"blob_dir"`
	ArtifactDir  string `json:"artifact_dir,omitempty"`
}

// ImportedFile is a resolved file ready to be embedded in an artifact.
// Path is unique within one import.
type ImportedFile struct {
	Path    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// ImportResult is the payload of a successful remote project fetch
type ImportResult struct {
	ProjectName string         `json:"project_name" yaml:"project_name"`
	Files       []ImportedFile `json:"files" yaml:"files"`
}

// ProjectCommands describes how to start an imported project
type ProjectCommands struct {
	Type            string   `json:"type,omitempty"`
	Commands        []string `json:"commands,omitempty"`
	FollowupMessage string   `json:"followupMessage,omitempty"`
}

// IsEmpty reports whether no startup command was detected
func (c ProjectCommands) IsEmpty() bool {
	return len(c.Commands) == 0
}
