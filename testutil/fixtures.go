package testutil

import (
	"testing"

	"github.com/pierrec/lz4/v4"
	"google.golang.org/protobuf/encoding/protowire"
)

// Conversation ids used by SampleMessages
const (
	SampleFriend = "wxid_friend"
	SampleRoom   = "12345678@chatroom"
	SampleMember = "wxid_member"
	SampleOther  = "wxid_other"
)

// SampleMessages returns five messages: three in a direct chat and two in
// a group, with two of them sharing a CreateTime
func SampleMessages() []Message {
	return []Message{
		{IsSender: 0, Talker: SampleFriend, Type: 1, CreateTime: 1700000000, ServerID: 1001, Content: "hello"},
		{IsSender: 1, Talker: SampleFriend, Type: 1, CreateTime: 1700000060, ServerID: 1002, Content: "hi there"},
		{IsSender: 0, Talker: SampleRoom, Type: 1, CreateTime: 1700000060, ServerID: 1003, Content: "morning all",
			BytesExtra: SenderExtra(SampleMember)},
		{IsSender: 0, Talker: SampleRoom, Type: 1, CreateTime: 1700000120, ServerID: 1004, Content: "hey",
			BytesExtra: SenderExtra(SampleOther)},
		{IsSender: 0, Talker: SampleFriend, Type: 1, CreateTime: 1700000180, ServerID: 1005, Content: "bye"},
	}
}

// CreateSQLiteFixture creates a message database file at dbPath holding SampleMessages
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	db := OpenMessageDB(t, dbPath)
	for _, m := range SampleMessages() {
		InsertMessage(t, db, m)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close fixture database: %v", err)
	}
}

// VarintField encodes a varint field
func VarintField(num int, v uint64) []byte {
	b := protowire.AppendTag(nil, protowire.Number(num), protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// BytesField encodes a length-delimited field
func BytesField(num int, payload []byte) []byte {
	b := protowire.AppendTag(nil, protowire.Number(num), protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

// StringField encodes a length-delimited string field
func StringField(num int, s string) []byte {
	return BytesField(num, []byte(s))
}

// MessageField encodes a nested message built from already encoded fields
func MessageField(num int, fields ...[]byte) []byte {
	var payload []byte
	for _, f := range fields {
		payload = append(payload, f...)
	}
	return BytesField(num, payload)
}

// Concat joins encoded fields into one blob
func Concat(fields ...[]byte) []byte {
	var out []byte
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

// ExtraEntry encodes one BytesExtra entry: field 3 holding {1: kind, 2: value}
func ExtraEntry(kind uint64, value string) []byte {
	return MessageField(3, VarintField(1, kind), StringField(2, value))
}

// SenderExtra builds a BytesExtra blob whose first entry names the group sender
func SenderExtra(sender string) []byte {
	return Concat(
		MessageField(1, VarintField(1, 0), VarintField(2, 0)),
		ExtraEntry(1, sender),
		ExtraEntry(7, "<msgsource><silence>0</silence></msgsource>"),
	)
}

// AttachmentExtra builds a BytesExtra blob with a sender entry followed by
// one entry per path
func AttachmentExtra(sender string, paths ...string) []byte {
	fields := [][]byte{ExtraEntry(1, sender)}
	for i, p := range paths {
		fields = append(fields, ExtraEntry(uint64(3+i), p))
	}
	return Concat(fields...)
}

// CompressBlock lz4-compresses data as a single raw block
func CompressBlock(t *testing.T, data []byte) []byte {
	t.Helper()
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		t.Fatalf("Failed to compress block: %v", err)
	}
	if n == 0 {
		t.Fatalf("Data is not compressible: %q", data)
	}
	return dst[:n]
}
