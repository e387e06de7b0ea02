package models

import "time"

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the synthetic conversation history
type Message struct {
	ID        string     `json:"id" yaml:"id"`
	Role      Role       `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// ChatHistoryItem is an importable chat session built from a remote project
type ChatHistoryItem struct {
	ID          string    `json:"id" yaml:"id"`
	URLID       string    `json:"urlId" yaml:"urlId"`
	Description string    `json:"description" yaml:"description"`
	Messages    []Message `json:"messages" yaml:"messages"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}
