package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/wxmsg/internal"
	"gopkg.in/yaml.v3"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", transcript.ConversationID)

	if transcript.ExportedAt != "" {
		_, _ = fmt.Fprintf(w, "**Exported:** %s  \n", transcript.ExportedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, rec := range transcript.Messages {
		_, _ = fmt.Fprintf(w, "**%s** (%s, %s)\n\n%s\n\n",
			rec.Talker, rec.CreateTime, rec.TypeName, escapeMarkdown(rec.Content.Text))

		if err := writeSource(w, rec.Content.Source); err != nil {
			return fmt.Errorf("failed to render source of message %d: %w", i, err)
		}

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// writeSource prints a string source inline and any other non-empty
// source as a fenced YAML block
func writeSource(w io.Writer, source interface{}) error {
	switch src := source.(type) {
	case nil:
		return nil
	case string:
		if src != "" {
			_, _ = fmt.Fprintf(w, "> source: `%s`\n\n", src)
		}
		return nil
	case internal.Markup:
		if len(src) == 0 {
			return nil
		}
	}

	data, err := yaml.Marshal(source)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "> source:\n\n```yaml\n%s```\n\n", data)
	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
