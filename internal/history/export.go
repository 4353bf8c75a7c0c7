// Package history provides conversation transcript export.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Elijahuni/chatbot-1/internal/models"
)

// Conversation is a point-in-time copy of a chat session
type Conversation struct {
	ID        string           `json:"id"`
	Profile   string           `json:"profile"`
	Title     string           `json:"title"`
	Model     string           `json:"model"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []models.Message `json:"messages"`
}

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	if f == ExportFormatJSON {
		return "json"
	}
	return "md"
}

// ParseExportFormat accepts "markdown", "md" or "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
}

// ExportOptions configures how conversations are exported
type ExportOptions struct {
	Format        ExportFormat
	IncludeSystem bool // include the profile's system prompt
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:        ExportFormatMarkdown,
		IncludeSystem: false,
	}
}

func exportedMessages(conv *Conversation, opts ExportOptions) []models.Message {
	if opts.IncludeSystem {
		return conv.Messages
	}
	return models.Visible(conv.Messages)
}

// ExportToMarkdown exports a conversation to Markdown format
func ExportToMarkdown(conv *Conversation, opts ExportOptions) string {
	var sb strings.Builder

	// Header
	title := conv.Title
	if title == "" {
		title = fmt.Sprintf("Chat %s", conv.CreatedAt.Format("2006-01-02 15:04"))
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	// Metadata
	sb.WriteString("**Profile:** ")
	sb.WriteString(conv.Profile)
	sb.WriteString("\n")
	sb.WriteString("**Model:** ")
	sb.WriteString(conv.Model)
	sb.WriteString("\n")
	sb.WriteString("**Created:** ")
	sb.WriteString(conv.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")

	messages := exportedMessages(conv, opts)
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(roleHeader(msg.Role))
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

func roleHeader(role models.Role) string {
	switch role {
	case models.RoleSystem:
		return "System"
	case models.RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}

// ExportToJSON exports a conversation to JSON format
func ExportToJSON(conv *Conversation, opts ExportOptions) ([]byte, error) {
	export := *conv
	export.Messages = exportedMessages(conv, opts)
	if export.Messages == nil {
		export.Messages = []models.Message{}
	}
	return json.MarshalIndent(export, "", "  ")
}

// Export renders a conversation in the format named by opts
func Export(conv *Conversation, opts ExportOptions) ([]byte, error) {
	if opts.Format == ExportFormatJSON {
		return ExportToJSON(conv, opts)
	}
	return []byte(ExportToMarkdown(conv, opts)), nil
}

// FileName returns the export file name for a conversation, e.g. chat-1a2b3c4d.md
func FileName(conv *Conversation, format ExportFormat) string {
	id := conv.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = conv.CreatedAt.Format("20060102-150405")
	}
	return fmt.Sprintf("chat-%s.%s", id, format.Extension())
}

// WriteExport writes the conversation into dir and returns the file path
func WriteExport(dir string, conv *Conversation, opts ExportOptions) (string, error) {
	data, err := Export(conv, opts)
	if err != nil {
		return "", fmt.Errorf("failed to export conversation: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(conv, opts.Format))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
