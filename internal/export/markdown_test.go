package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/wxmsg/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		notWant    []string
		wantErr    bool
	}{
		{
			name:       "basic transcript",
			transcript: internal.CreateTestTranscript("wxid_a"),
			want: []string{
				"# Conversation wxid_a",
				"**Exported:** 2023-11-14 22:13:20",
				"**Messages:** 2",
				"## Messages",
				"**wxid_a** (",
				"Hello, how are you?",
				"**me** (",
			},
			wantErr: false,
		},
		{
			name: "message with source",
			transcript: internal.CreateTestTranscriptWithMessages("wxid_b", []internal.MessageRecord{
				{
					TypeName:   "image",
					Talker:     "wxid_b",
					Content:    internal.Content{Source: "FileStorage/Image/a.dat", Text: "image"},
					CreateTime: "2023-11-14 22:13:20",
				},
			}),
			want: []string{
				"**wxid_b** (2023-11-14 22:13:20, image)",
				"> source: `FileStorage/Image/a.dat`",
			},
			wantErr: false,
		},
		{
			name: "structured source as yaml block",
			transcript: internal.CreateTestTranscriptWithMessages("wxid_c", []internal.MessageRecord{
				{
					TypeName: "chat record",
					Talker:   "wxid_c",
					Content: internal.Content{
						Source: internal.Markup{"title": "Group"},
						Text:   "Chat history\nAlice: hi",
					},
				},
			}),
			want:    []string{"Chat history\nAlice: hi", "> source:\n\n```yaml\ntitle: Group\n```"},
			notWant: []string{"> source: `"},
			wantErr: false,
		},
		{
			name: "empty structured source is not printed",
			transcript: internal.CreateTestTranscriptWithMessages("wxid_c", []internal.MessageRecord{
				{
					TypeName: "chat record",
					Talker:   "wxid_c",
					Content:  internal.Content{Source: internal.Markup{}, Text: "title"},
				},
			}),
			want:    []string{"title"},
			notWant: []string{"> source:"},
			wantErr: false,
		},
		{
			name: "no export time",
			transcript: &internal.Transcript{
				ConversationID: "wxid_d",
				Messages:       []internal.MessageRecord{},
			},
			want:    []string{"# Conversation wxid_d", "**Messages:** 0"},
			notWant: []string{"**Exported:**"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			err := exporter.Export(tt.transcript, &buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("MarkdownExporter.Export() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		notWant  []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:    "This is **bold** text",
			want:     []string{"\\*\\*bold\\*\\*"},
			notWant:  []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:    "This is __underlined__ text",
			want:     []string{"\\_\\_underlined\\_\\_"},
			notWant:  []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
		{
			name:    "mixed content",
			input:    "Regular text **bold** and ```code```",
			want:     []string{"\\*\\*bold\\*\\*", "```code```"},
			notWant:  []string{"**bold**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}


