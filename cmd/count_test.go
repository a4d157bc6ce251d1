package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/wxmsg/internal"
	"github.com/iksnae/wxmsg/testutil"
)

func TestCountCommand(t *testing.T) {
	db := sampleDB(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all conversations",
			args: []string{"--db", db, "count"},
			want: []string{testutil.SampleFriend, testutil.SampleRoom, "group", "direct", "Total: 5 message(s)"},
		},
		{
			name:    "single conversation",
			args:    []string{"--db", db, "count", "--talker", testutil.SampleRoom},
			want:    []string{testutil.SampleRoom, "1 conversation(s)"},
			notWant: []string{testutil.SampleFriend},
		},
		{
			name: "unknown conversation reports zero",
			args: []string{"--db", db, "count", "--talker", "wxid_nobody"},
			want: []string{"wxid_nobody"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("count error = %v", err)
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

func TestDisplayCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts []internal.ConversationCount
		total  int64
		want   []string
	}{
		{
			name:   "empty",
			counts: nil,
			want:   []string{"No messages found"},
		},
		{
			name: "large counts are grouped",
			counts: []internal.ConversationCount{
				{ConversationID: "wxid_a", Count: 1234567},
				{ConversationID: "1@chatroom", Count: 12},
			},
			total: 1234579,
			want:  []string{"1,234,567", "wxid_a", "1@chatroom", "1,234,579"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displayCounts(&buf, tt.counts, tt.total)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output should contain %q, got:\n%s", w, buf.String())
				}
			}
		})
	}
}
