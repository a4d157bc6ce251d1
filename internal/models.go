package internal

// MessageRow is one row of the MSG table as read from the store
type MessageRow struct {
	LocalID         int64
	IsSender        int64
	Content         string // StrContent
	TalkerID        string // StrTalker: a user id, or a group id ending in GroupSuffix
	Sequence        int64
	Type            int64
	SubType         int64
	CreateTime      int64 // epoch seconds
	ServerMsgID     string
	DisplayContent  string
	CompressContent []byte // nil when the column is NULL
	BytesExtra      []byte // nil when the column is NULL
	RowIndex        int64  // 1-based rank by CreateTime
}

// Kind returns the (Type, SubType) pair of the row
func (r MessageRow) Kind() MessageKind {
	return MessageKind{Type: r.Type, SubType: r.SubType}
}

// Content is the decoded payload of a message. Source is a path, URL,
// nested Markup or "" depending on the message kind; Text is always readable.
type Content struct {
	Source interface{} `json:"source" yaml:"source"`
	Text   string      `json:"text" yaml:"text"`
}

// SourceString returns Source when it is a string, otherwise ""
func (c Content) SourceString() string {
	s, _ := c.Source.(string)
	return s
}

// MessageRecord is the normalized form of a stored message
type MessageRecord struct {
	ServerMsgID    string  `json:"server_msg_id" yaml:"server_msg_id"`
	TypeName       string  `json:"type_name" yaml:"type_name"`
	IsSender       bool    `json:"is_sender" yaml:"is_sender"`
	Talker         string  `json:"talker" yaml:"talker"`
	ConversationID string  `json:"conversation_id" yaml:"conversation_id"`
	Content        Content `json:"content" yaml:"content"`
	CreateTime     string  `json:"create_time" yaml:"create_time"`
	RowIndex       int64   `json:"row_index" yaml:"row_index"`
}

// ConversationCount is the number of stored messages for one conversation
type ConversationCount struct {
	ConversationID string `json:"conversation_id" yaml:"conversation_id"`
	Count          int64  `json:"count" yaml:"count"`
}

// Transcript groups the records of one conversation for export
type Transcript struct {
	ConversationID string          `json:"conversation_id" yaml:"conversation_id"`
	ExportedAt     string          `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Messages       []MessageRecord `json:"messages" yaml:"messages"`
}

// GroupTranscripts splits records by conversation, keeping the order in
// which conversations first appear and the record order within each
func GroupTranscripts(records []MessageRecord) []*Transcript {
	index := make(map[string]*Transcript)
	var transcripts []*Transcript
	for _, rec := range records {
		t, ok := index[rec.ConversationID]
		if !ok {
			t = &Transcript{ConversationID: rec.ConversationID}
			index[rec.ConversationID] = t
			transcripts = append(transcripts, t)
		}
		t.Messages = append(t.Messages, rec)
	}
	return transcripts
}
