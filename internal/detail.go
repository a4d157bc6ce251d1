package internal

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	// GroupSuffix marks a conversation id as a group chat
	GroupSuffix = "@chatroom"

	selfTalker      = "me"
	unknownTalker   = "unknown"
	systemTalker    = "system"
	publisherMarker = "publisher-id"

	// attachment path preferences for image and video rows
	imageMarker = "Image"
	videoMarker = "mp4"
)

// contentHandler decodes the payload of one message kind. created is the
// row's CreateTime already formatted.
type contentHandler func(d *Decoder, row MessageRow, created string) Content

// contentHandlers maps each specially decoded kind to its handler. Kinds not
// listed fall back to familyHandlers by Type, then to passthroughContent.
var contentHandlers = map[MessageKind]contentHandler{
	{1, 0}:     textContent,
	{3, 0}:     imageContent,
	{34, 0}:    voiceContent,
	{43, 0}:    videoContent,
	{47, 0}:    stickerContent,
	{49, 0}:    fileContent,
	{49, 19}:   chatRecordContent,
	{49, 57}:   quoteContent,
	{49, 2000}: transferContent,
	{50, 0}:    callContent,
}

// familyHandlers catch every remaining subtype of a Type
var familyHandlers = map[int64]contentHandler{
	49: appMessageContent,
}

// Decoder turns MessageRows into MessageRecords. It holds no mutable state
// and is safe for concurrent use.
type Decoder struct {
	loc *time.Location
}

// NewDecoder creates a Decoder that formats timestamps in loc (local time when nil)
func NewDecoder(loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.Local
	}
	return &Decoder{loc: loc}
}

// Location returns the zone timestamps are formatted in
func (d *Decoder) Location() *time.Location {
	return d.loc
}

// handlerFor returns the handler for a message kind
func handlerFor(kind MessageKind) contentHandler {
	if h, ok := contentHandlers[kind]; ok {
		return h
	}
	if h, ok := familyHandlers[kind.Type]; ok && kind.SubType != 0 {
		return h
	}
	return passthroughContent
}

// BuildDetail decodes one row. It never fails: any part that cannot be
// decoded degrades to an empty or raw value.
func (d *Decoder) BuildDetail(row MessageRow) MessageRecord {
	created := FormatTimestamp(row.CreateTime, d.loc)
	content := handlerFor(row.Kind())(d, row, created)

	return MessageRecord{
		ServerMsgID:    row.ServerMsgID,
		TypeName:       TypeName(row.Type, row.SubType),
		IsSender:       row.IsSender != 0,
		Talker:         ResolveTalker(row),
		ConversationID: row.TalkerID,
		Content:        content,
		CreateTime:     created,
		RowIndex:       row.RowIndex,
	}
}

// ResolveTalker returns who sent the row: "me" for own messages, the peer
// for direct chats, and the sender id stored in BytesExtra for groups
func ResolveTalker(row MessageRow) string {
	if row.IsSender != 0 {
		return selfTalker
	}
	if !isGroup(row.TalkerID) {
		return row.TalkerID
	}
	talker, ok := groupSender(DecodeAttributes(row.BytesExtra))
	if !ok {
		return unknownTalker
	}
	if containsPublisher(talker) {
		return systemTalker
	}
	return talker
}

// groupSender reads the sender id of a group message: field 3, first entry, field 2
func groupSender(attrs *Attributes) (string, bool) {
	b, ok := attrs.Get("3").Index(0).Get("2").Bytes()
	if !ok {
		return "", false
	}
	return lenientUTF8(b), true
}

func isGroup(conversationID string) bool {
	return strings.HasSuffix(conversationID, GroupSuffix)
}

func containsPublisher(talker string) bool {
	return strings.Contains(talker, publisherMarker)
}

func passthroughContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{Source: "", Text: row.Content}
}

func textContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{Source: "", Text: row.Content}
}

func imageContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{
		Source: MediaPath(DecodeAttributes(row.BytesExtra), imageMarker),
		Text:   "image",
	}
}

func videoContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{
		Source: MediaPath(DecodeAttributes(row.BytesExtra), videoMarker),
		Text:   "video",
	}
}

func voiceContent(_ *Decoder, row MessageRow, created string) Content {
	m := ParseMarkup(row.Content)
	length := m.Map("voicemsg").String("voicelength")
	translated := m.Map("voicetrans").String("transtext")

	if isDigits(length) {
		ms, err := strconv.ParseInt(length, 10, 64)
		if err == nil {
			length = strconv.FormatFloat(float64(ms)/1000, 'f', 2, 64)
		}
	}

	text := fmt.Sprintf("duration: %ss", length)
	if translated != "" {
		text += "\ntranslation: " + translated
	}

	src := path.Join("audio", row.TalkerID,
		fmt.Sprintf("%s_%d_%s.wav", FileSafeTime(created), row.IsSender, row.ServerMsgID))
	return Content{Source: src, Text: text}
}

func stickerContent(_ *Decoder, row MessageRow, _ string) Content {
	cdnURL := ParseMarkup(row.Content).Map("emoji").String("cdnurl")
	if cdnURL == "" {
		return Content{Source: "", Text: row.Content}
	}
	return Content{Source: cdnURL, Text: "sticker"}
}

func fileContent(_ *Decoder, row MessageRow, _ string) Content {
	url := ExtractURL(DecodeAttributes(row.BytesExtra))
	return Content{Source: url, Text: baseName(url)}
}

func appMessageContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{
		Source: ExtractURL(DecodeAttributes(row.BytesExtra)),
		Text:   TypeName(row.Type, row.SubType),
	}
}

// compressedMarkup decompresses CompressContent and parses it as markup
func compressedMarkup(row MessageRow) Markup {
	text, ok := DecompressContent(row.CompressContent)
	if !ok {
		return Markup{}
	}
	return ParseMarkup(text)
}

func chatRecordContent(_ *Decoder, row MessageRow, _ string) Content {
	appmsg := compressedMarkup(row).Map("appmsg")
	title := appmsg.String("title")
	des := appmsg.String("des")
	record := ParseMarkup(appmsg.String("recorditem"))
	return Content{Source: record, Text: title + "\n" + des}
}

func quoteContent(d *Decoder, row MessageRow, _ string) Content {
	appmsg := compressedMarkup(row).Map("appmsg")
	title := appmsg.String("title")
	refer := appmsg.Map("refermsg")
	sender := refer.String("displayname")
	quoted := refer.String("content")
	quotedAt := refer.String("createtime")
	if isDigits(quotedAt) {
		if sec, err := strconv.ParseInt(quotedAt, 10, 64); err == nil {
			quotedAt = FormatTimestamp(sec, d.loc)
		}
	}
	return Content{
		Source: "",
		Text:   fmt.Sprintf("%s\n\n[quote](%s)%s: %s", title, quotedAt, sender, quoted),
	}
}

func transferContent(_ *Decoder, row MessageRow, _ string) Content {
	feeDesc := compressedMarkup(row).Map("appmsg").Map("wcpayinfo").String("feedesc")
	return Content{Source: "", Text: "transfer: " + feeDesc}
}

func callContent(_ *Decoder, row MessageRow, _ string) Content {
	return Content{Source: "", Text: fmt.Sprintf("call[%s]", row.DisplayContent)}
}

// isDigits reports whether s is non-empty and made only of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
