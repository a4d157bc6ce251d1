package internal

import (
	"database/sql"
	"errors"
	"fmt"
)

// DefaultPageSize is the page size ListMessages uses when given zero or less
const DefaultPageSize = 500

// messageColumns is the column list every message query selects, in
// scanMessageRow order; the rank column is appended by each query
const messageColumns = "localId, IsSender, StrContent, StrTalker, Sequence, Type, SubType, " +
	"CreateTime, MsgSvrID, DisplayContent, CompressContent, BytesExtra"

// messageOrder breaks CreateTime ties by localId so ranks are stable across queries
const messageOrder = "CreateTime ASC, localId ASC"

// Storage reads and decodes messages from the MSG table
type Storage struct {
	db      Querier
	decoder *Decoder
}

// NewStorage creates a new Storage instance
func NewStorage(db Querier, decoder *Decoder) *Storage {
	if decoder == nil {
		decoder = NewDecoder(nil)
	}
	return &Storage{db: db, decoder: decoder}
}

// Decoder returns the decoder used to build records
func (s *Storage) Decoder() *Decoder {
	return s.decoder
}

// CountByConversation returns message counts per conversation, highest
// first. With a non-empty conversationID only that conversation is counted,
// and it is reported even when it has no messages.
func (s *Storage) CountByConversation(conversationID string) ([]ConversationCount, error) {
	if conversationID != "" {
		var count int64
		err := s.db.QueryRow("SELECT COUNT(*) FROM MSG WHERE StrTalker = ?", conversationID).Scan(&count)
		if err != nil {
			return nil, &QueryError{Op: "count", Err: err}
		}
		return []ConversationCount{{ConversationID: conversationID, Count: count}}, nil
	}

	rows, err := s.db.Query("SELECT StrTalker, COUNT(*) FROM MSG GROUP BY StrTalker ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, &QueryError{Op: "count", Err: err}
	}
	defer rows.Close()

	var counts []ConversationCount
	for rows.Next() {
		var talker sql.NullString
		var c ConversationCount
		if err := rows.Scan(&talker, &c.Count); err != nil {
			return nil, &QueryError{Op: "count", Err: fmt.Errorf("scan failed: %w", err)}
		}
		c.ConversationID = talker.String
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "count", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return counts, nil
}

// TotalCount returns the number of stored messages
func (s *Storage) TotalCount() (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow("SELECT COUNT(*) FROM MSG").Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, &QueryError{Op: "count", Err: err}
	}
	return total.Int64, nil
}

// ListRows fetches one page of raw rows ordered by creation time. RowIndex is
// the rank within the whole (optionally conversation-filtered) set, so it does
// not depend on offset.
func (s *Storage) ListRows(conversationID string, offset, pageSize int) ([]MessageRow, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var rows *sql.Rows
	var err error
	if conversationID != "" {
		rows, err = s.db.Query(
			"SELECT "+messageColumns+", ROW_NUMBER() OVER (ORDER BY "+messageOrder+") AS id "+
				"FROM MSG WHERE StrTalker = ? "+
				"ORDER BY "+messageOrder+" LIMIT ? OFFSET ?",
			conversationID, pageSize, offset)
	} else {
		rows, err = s.db.Query(
			"SELECT "+messageColumns+", ROW_NUMBER() OVER (ORDER BY "+messageOrder+") AS id "+
				"FROM MSG ORDER BY "+messageOrder+" LIMIT ? OFFSET ?",
			pageSize, offset)
	}
	if err != nil {
		return nil, &QueryError{Op: "list", Err: err}
	}
	defer rows.Close()

	out := make([]MessageRow, 0)
	for rows.Next() {
		row, err := scanMessageRow(rows)
		if err != nil {
			return nil, &QueryError{Op: "list", Err: err}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return out, nil
}

// ListMessages fetches one page of messages and decodes each row in fetch order
func (s *Storage) ListMessages(conversationID string, offset, pageSize int) ([]MessageRecord, error) {
	rows, err := s.ListRows(conversationID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	records := make([]MessageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.decoder.BuildDetail(row))
	}
	return records, nil
}

// GetRow fetches a single raw row by localId. RowIndex is its rank over the whole store.
func (s *Storage) GetRow(localID int64) (MessageRow, error) {
	rows, err := s.db.Query(
		"SELECT * FROM (SELECT "+messageColumns+", ROW_NUMBER() OVER (ORDER BY "+messageOrder+") AS id FROM MSG) "+
			"WHERE localId = ?",
		localID)
	if err != nil {
		return MessageRow{}, &QueryError{Op: "get", Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return MessageRow{}, &QueryError{Op: "get", Err: err}
		}
		return MessageRow{}, fmt.Errorf("local id %d: %w", localID, ErrMessageNotFound)
	}
	row, err := scanMessageRow(rows)
	if err != nil {
		return MessageRow{}, &QueryError{Op: "get", Err: err}
	}
	return row, nil
}

// GetMessage fetches and decodes a single message by localId
func (s *Storage) GetMessage(localID int64) (*MessageRecord, error) {
	row, err := s.GetRow(localID)
	if err != nil {
		return nil, err
	}
	rec := s.decoder.BuildDetail(row)
	return &rec, nil
}

// ListRoomTalkers returns the distinct senders of a group conversation in
// order of first appearance. Own messages, system publishers and rows whose
// BytesExtra carries no sender are skipped.
func (s *Storage) ListRoomTalkers(roomID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT IsSender, BytesExtra FROM MSG WHERE StrTalker = ? ORDER BY "+messageOrder,
		roomID)
	if err != nil {
		return nil, &QueryError{Op: "talkers", Err: err}
	}
	defer rows.Close()

	seen := make(map[string]bool)
	talkers := make([]string, 0)
	for rows.Next() {
		var isSender sql.NullInt64
		var extra []byte
		if err := rows.Scan(&isSender, &extra); err != nil {
			return nil, &QueryError{Op: "talkers", Err: fmt.Errorf("scan failed: %w", err)}
		}
		if isSender.Int64 != 0 {
			continue
		}
		talker, ok := groupSender(DecodeAttributes(extra))
		if !ok || talker == "" || containsPublisher(talker) || seen[talker] {
			continue
		}
		seen[talker] = true
		talkers = append(talkers, talker)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "talkers", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return talkers, nil
}

// scanMessageRow scans messageColumns followed by the rank column
func scanMessageRow(rows *sql.Rows) (MessageRow, error) {
	var (
		row                                    MessageRow
		localID, isSender, sequence            sql.NullInt64
		msgType, subType, createTime, rank     sql.NullInt64
		content, talker, svrID, displayContent sql.NullString
	)
	err := rows.Scan(
		&localID, &isSender, &content, &talker, &sequence, &msgType, &subType,
		&createTime, &svrID, &displayContent, &row.CompressContent, &row.BytesExtra, &rank,
	)
	if err != nil {
		return MessageRow{}, fmt.Errorf("scan failed: %w", err)
	}

	row.LocalID = localID.Int64
	row.IsSender = isSender.Int64
	row.Content = content.String
	row.TalkerID = talker.String
	row.Sequence = sequence.Int64
	row.Type = msgType.Int64
	row.SubType = subType.Int64
	row.CreateTime = createTime.Int64
	row.ServerMsgID = svrID.String
	row.DisplayContent = displayContent.String
	row.RowIndex = rank.Int64
	return row, nil
}
