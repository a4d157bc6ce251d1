package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// MSGSchema is the message table layout of a decrypted MSG*.db shard
const MSGSchema = `
CREATE TABLE IF NOT EXISTS MSG (
	localId INTEGER PRIMARY KEY AUTOINCREMENT,
	TalkerId INT DEFAULT 0,
	MsgSvrID INT,
	Type INT,
	SubType INT,
	IsSender INT,
	CreateTime INT,
	Sequence INT DEFAULT 0,
	StatusEx INT DEFAULT 0,
	FlagEx INT,
	Status INT,
	MsgServerSeq INT,
	MsgSequence INT,
	StrTalker TEXT,
	StrContent TEXT DEFAULT '',
	DisplayContent TEXT,
	Reserved0 INT DEFAULT 0,
	Reserved1 INT DEFAULT 0,
	Reserved2 INT DEFAULT 0,
	Reserved3 INT DEFAULT 0,
	Reserved4 TEXT,
	Reserved5 TEXT,
	Reserved6 TEXT,
	CompressContent BLOB,
	BytesExtra BLOB,
	BytesTrans BLOB
)`

// Message is a row to insert into the MSG table. A zero LocalID lets
// SQLite assign one.
type Message struct {
	LocalID         int64
	IsSender        int64
	Talker          string
	Type            int64
	SubType         int64
	CreateTime      int64
	ServerID        int64
	Sequence        int64
	Content         string
	DisplayContent  string
	CompressContent []byte
	BytesExtra      []byte
}

// CreateMessageDB creates an empty message database in a temp directory.
// The database is closed when the test ends.
func CreateMessageDB(t *testing.T) *sql.DB {
	t.Helper()
	return OpenMessageDB(t, filepath.Join(t.TempDir(), "MSG0.db"))
}

// OpenMessageDB opens (creating if needed) a message database at path
func OpenMessageDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(MSGSchema); err != nil {
		t.Fatalf("Failed to create MSG table: %v", err)
	}
	return db
}

// InsertMessage inserts a message and returns its localId
func InsertMessage(t *testing.T, db *sql.DB, m Message) int64 {
	t.Helper()
	var localID interface{}
	if m.LocalID != 0 {
		localID = m.LocalID
	}

	res, err := db.Exec(`INSERT INTO MSG
		(localId, MsgSvrID, Type, SubType, IsSender, CreateTime, Sequence,
		 StrTalker, StrContent, DisplayContent, CompressContent, BytesExtra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		localID, m.ServerID, m.Type, m.SubType, m.IsSender, m.CreateTime, m.Sequence,
		m.Talker, m.Content, m.DisplayContent, m.CompressContent, m.BytesExtra)
	if err != nil {
		t.Fatalf("Failed to insert message: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read inserted id: %v", err)
	}
	return id
}

// CreateTestDB creates a message database with a direct chat and a group chat
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateMessageDB(t)
	for _, m := range SampleMessages() {
		InsertMessage(t, db, m)
	}
	return db
}
