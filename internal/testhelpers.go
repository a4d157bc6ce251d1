package internal

import (
	"fmt"
	"time"
)

// CreateTestRecord creates a decoded text record with sample data
func CreateTestRecord(conversationID string, rowIndex int64, talker, text string) MessageRecord {
	return MessageRecord{
		ServerMsgID:    fmt.Sprintf("%d", 1000+rowIndex),
		TypeName:       TypeName(1, 0),
		IsSender:       talker == selfTalker,
		Talker:         talker,
		ConversationID: conversationID,
		Content:        Content{Source: "", Text: text},
		CreateTime:     FormatTimestamp(1700000000+rowIndex*60, time.UTC),
		RowIndex:       rowIndex,
	}
}

// CreateTestTranscript creates a transcript with two text messages
func CreateTestTranscript(conversationID string) *Transcript {
	return CreateTestTranscriptWithMessages(conversationID, []MessageRecord{
		CreateTestRecord(conversationID, 1, conversationID, "Hello, how are you?"),
		CreateTestRecord(conversationID, 2, selfTalker, "I'm doing well, thank you!"),
	})
}

// CreateTestTranscriptWithMessages creates a transcript with custom records
func CreateTestTranscriptWithMessages(conversationID string, records []MessageRecord) *Transcript {
	return &Transcript{
		ConversationID: conversationID,
		ExportedAt:     "2023-11-14 22:13:20",
		Messages:       records,
	}
}
