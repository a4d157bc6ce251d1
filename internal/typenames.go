package internal

// MessageKind is the (Type, SubType) pair that selects how a row is decoded
type MessageKind struct {
	Type    int64
	SubType int64
}

// UnknownTypeName is returned by TypeName for pairs missing from the table
const UnknownTypeName = "unknown"

var typeNames = map[MessageKind]string{
	{1, 0}:        "text",
	{3, 0}:        "image",
	{34, 0}:       "voice",
	{37, 0}:       "friend request",
	{42, 0}:       "contact card",
	{43, 0}:       "video",
	{47, 0}:       "sticker",
	{48, 0}:       "location",
	{49, 0}:       "file",
	{49, 1}:       "pasted text",
	{49, 3}:       "shared music",
	{49, 4}:       "shared link card",
	{49, 5}:       "shared link card",
	{49, 6}:       "file",
	{49, 7}:       "game",
	{49, 8}:       "uploaded gif",
	{49, 15}:      "unknown-49,15",
	{49, 17}:      "live location",
	{49, 19}:      "forwarded chat record",
	{49, 24}:      "shared note",
	{49, 33}:      "shared mini program",
	{49, 36}:      "shared mini program",
	{49, 40}:      "shared favorites",
	{49, 44}:      "shared novel",
	{49, 50}:      "channels profile card",
	{49, 51}:      "channels video",
	{49, 53}:      "group solitaire",
	{49, 57}:      "quoted reply",
	{49, 63}:      "channels live",
	{49, 74}:      "file upload",
	{49, 87}:      "group announcement",
	{49, 88}:      "channels live replay",
	{49, 2000}:    "transfer",
	{49, 2003}:    "red packet cover",
	{50, 0}:       "call",
	{65, 0}:       "work account greeting",
	{66, 0}:       "work account friend request",
	{10000, 0}:    "system notice",
	{10000, 1}:    "recalled message",
	{10000, 4}:    "pat",
	{10000, 5}:    "recalled message",
	{10000, 6}:    "recalled message",
	{10000, 33}:   "recalled message",
	{10000, 36}:   "recalled message",
	{10000, 57}:   "recalled message",
	{10000, 8000}: "group invitation",
	{11000, 0}:    "unknown-11000,0",
}

// TypeName returns the display name of a (type, subtype) pair
func TypeName(msgType, subType int64) string {
	if name, ok := typeNames[MessageKind{msgType, subType}]; ok {
		return name
	}
	return UnknownTypeName
}
