package internal

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// maxMessageDepth bounds recursion into length-delimited fields that look like nested messages
const maxMessageDepth = 32

var errMessageTooDeep = errors.New("nested message exceeds depth limit")

// DecodeAttributes decodes a BytesExtra blob without a schema.
//
// The blob is read as protobuf wire format: every field is keyed by its
// decimal tag, repeated tags collapse into a KindList value, and
// length-delimited payloads are classified as nested message, text or raw
// bytes. A nil blob, or one that is not valid wire format, yields nil.
func DecodeAttributes(blob []byte) *Attributes {
	if blob == nil {
		return nil
	}
	attrs, err := decodeMessage(blob, 0)
	if err != nil {
		LogDebug("attribute blob decode failed (%d bytes): %v", len(blob), err)
		return nil
	}
	return attrs
}

// decodeMessage reads every field of a single message. Trailing garbage,
// invalid tags and unsupported wire types fail the whole message.
func decodeMessage(data []byte, depth int) (*Attributes, error) {
	if depth > maxMessageDepth {
		return nil, errMessageTooDeep
	}

	attrs := newAttributes()
	offset := 0
	for offset < len(data) {
		num, wireType, n := protowire.ConsumeTag(data[offset:])
		if n < 0 {
			return nil, fmt.Errorf("invalid tag at offset %d: %w", offset, protowire.ParseError(n))
		}
		if num > protowire.MaxValidNumber {
			return nil, fmt.Errorf("field number %d out of range at offset %d", num, offset)
		}
		offset += n

		var value Value
		switch wireType {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data[offset:])
			if n < 0 {
				return nil, fmt.Errorf("invalid varint at offset %d: %w", offset, protowire.ParseError(n))
			}
			value = Value{Kind: KindVarint, Uint: v}
			offset += n

		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data[offset:])
			if n < 0 {
				return nil, fmt.Errorf("not enough data for 32-bit at offset %d", offset)
			}
			value = Value{Kind: KindFixed32, Uint: uint64(v)}
			offset += n

		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data[offset:])
			if n < 0 {
				return nil, fmt.Errorf("not enough data for 64-bit at offset %d", offset)
			}
			value = Value{Kind: KindFixed64, Uint: v}
			offset += n

		case protowire.BytesType:
			payload, n := protowire.ConsumeBytes(data[offset:])
			if n < 0 {
				return nil, fmt.Errorf("not enough data for length-delimited field at offset %d", offset)
			}
			value = classifyPayload(payload, depth)
			offset += n

		default:
			return nil, fmt.Errorf("unsupported wire type %d at offset %d", wireType, offset-n)
		}

		attrs.add(strconv.FormatInt(int64(num), 10), value)
	}

	return attrs, nil
}

// classifyPayload guesses what a length-delimited field holds: a nested
// message that parses cleanly wins, then readable text, then opaque bytes
func classifyPayload(payload []byte, depth int) Value {
	if len(payload) == 0 {
		return Value{Kind: KindBytes, Raw: payload}
	}
	if nested, err := decodeMessage(payload, depth+1); err == nil && nested.Len() > 0 {
		return Value{Kind: KindMessage, Message: nested}
	}
	if isReadableText(payload) {
		return Value{Kind: KindString, Raw: payload}
	}
	return Value{Kind: KindBytes, Raw: payload}
}

// isReadableText reports whether b is valid UTF-8 without control characters
// other than tab, newline and carriage return
func isReadableText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r < 0x20 || r == 0x7f:
			return false
		}
	}
	return true
}
