package internal

import (
	"reflect"
	"testing"
)

func TestMessageRow_Kind(t *testing.T) {
	row := MessageRow{Type: 49, SubType: 57}
	if got := row.Kind(); got != (MessageKind{Type: 49, SubType: 57}) {
		t.Errorf("Kind() = %+v", got)
	}
}

func TestContent_SourceString(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{"string source", Content{Source: "FileStorage/Image/a.dat"}, "FileStorage/Image/a.dat"},
		{"empty source", Content{Source: ""}, ""},
		{"nil source", Content{}, ""},
		{"markup source", Content{Source: Markup{"title": "x"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.SourceString(); got != tt.want {
				t.Errorf("SourceString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupTranscripts(t *testing.T) {
	records := []MessageRecord{
		CreateTestRecord("wxid_b", 1, "wxid_b", "first b"),
		CreateTestRecord("room@chatroom", 1, "wxid_x", "first room"),
		CreateTestRecord("wxid_b", 2, "me", "second b"),
		CreateTestRecord("room@chatroom", 2, "wxid_y", "second room"),
		CreateTestRecord("wxid_a", 1, "wxid_a", "only a"),
	}

	transcripts := GroupTranscripts(records)

	var ids []string
	for _, tr := range transcripts {
		ids = append(ids, tr.ConversationID)
	}
	if want := []string{"wxid_b", "room@chatroom", "wxid_a"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("conversation order = %v, want %v", ids, want)
	}

	var texts []string
	for _, rec := range transcripts[0].Messages {
		texts = append(texts, rec.Content.Text)
	}
	if want := []string{"first b", "second b"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("wxid_b messages = %v, want %v", texts, want)
	}
}

func TestGroupTranscripts_Empty(t *testing.T) {
	if got := GroupTranscripts(nil); len(got) != 0 {
		t.Errorf("GroupTranscripts(nil) = %v, want none", got)
	}
}
