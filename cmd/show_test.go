package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/wxmsg/internal"
	"github.com/iksnae/wxmsg/testutil"
)

func TestShowCommand(t *testing.T) {
	db := sampleDB(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    []string
		notWant []string
	}{
		{
			name:    "show without local id",
			args:    []string{"--db", db, "show"},
			wantErr: true,
		},
		{
			name:    "show with invalid local id",
			args:    []string{"--db", db, "show", "abc"},
			wantErr: true,
		},
		{
			name:    "show missing message",
			args:    []string{"--db", db, "show", "99"},
			wantErr: true,
		},
		{
			name:    "show group message",
			args:    []string{"--db", db, "show", "3"},
			want:    []string{"Message 3", testutil.SampleRoom, "1003", testutil.SampleMember, "morning all", "#3"},
			notWant: []string{"Raw row"},
		},
		{
			name: "show raw",
			args: []string{"--db", db, "show", "3", "--raw"},
			want: []string{"Raw row", "bytes_extra:", "local_id: 3", "server_msg_id: \"1003\"", testutil.SampleMember},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("show error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output should contain %q, got:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q, got:\n%s", w, out)
				}
			}
		})
	}
}

func TestRawView(t *testing.T) {
	compressed := testutil.CompressBlock(t, []byte("<msg><appmsg><title>shared</title><des>shared shared shared</des></appmsg></msg>\x00\x00\x00\x00"))
	row := internal.MessageRow{
		LocalID:         7,
		Type:            49,
		SubType:         57,
		Content:         "<msg><emoji cdnurl=\"http://x\"/></msg>",
		CompressContent: compressed,
		BytesExtra:      testutil.SenderExtra("wxid_a"),
	}

	view := rawView(row)
	for _, key := range []string{"local_id", "content_markup", "compress_content", "bytes_extra"} {
		if _, ok := view[key]; !ok {
			t.Errorf("rawView() missing %q", key)
		}
	}

	compressedView, ok := view["compress_content"].(map[string]interface{})
	if !ok {
		t.Fatalf("compress_content = %T, want map", view["compress_content"])
	}
	if text, _ := compressedView["text"].(string); strings.Contains(text, "\x00") {
		t.Errorf("compress_content text should have NUL bytes stripped, got %q", text)
	}

	var buf bytes.Buffer
	if err := writeYAML(&buf, view); err != nil {
		t.Fatalf("writeYAML() error = %v", err)
	}
	if !strings.Contains(buf.String(), "wxid_a") {
		t.Errorf("YAML dump should contain the sender, got:\n%s", buf.String())
	}
}

func TestRawView_EmptyBlobs(t *testing.T) {
	view := rawView(internal.MessageRow{LocalID: 1, Type: 1, Content: "plain"})
	for _, key := range []string{"content_markup", "compress_content", "bytes_extra"} {
		if _, ok := view[key]; ok {
			t.Errorf("rawView() should omit %q for a plain row", key)
		}
	}
}
