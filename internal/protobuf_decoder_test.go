package internal

import (
	"testing"

	"github.com/iksnae/wxmsg/testutil"
)

func TestDecodeAttributes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"nil blob", nil},
		{"truncated varint", []byte{0x08, 0x80}},
		{"length past end", []byte{0x0a, 0x05, 'a', 'b'}},
		{"group wire type", []byte{0x0b, 0x0c}},
		{"zero field number", []byte{0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeAttributes(tt.blob); got != nil {
				t.Errorf("DecodeAttributes() = %v, want nil", got.Interface())
			}
		})
	}
}

func TestDecodeAttributes_Empty(t *testing.T) {
	attrs := DecodeAttributes([]byte{})
	if attrs == nil {
		t.Fatal("DecodeAttributes() = nil for an empty blob, want empty attributes")
	}
	if attrs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", attrs.Len())
	}
}

func TestDecodeAttributes_Scalars(t *testing.T) {
	blob := []byte{
		0x08, 0x2a, // 1: varint 42
		0x15, 0x01, 0x00, 0x00, 0x00, // 2: fixed32 1
		0x19, 0x02, 0, 0, 0, 0, 0, 0, 0, // 3: fixed64 2
		0x22, 0x05, 'H', 'e', 'l', 'l', 'o', // 4: "Hello"
	}

	attrs := DecodeAttributes(blob)
	if attrs == nil {
		t.Fatal("DecodeAttributes() = nil")
	}

	tests := []struct {
		tag      string
		wantKind ValueKind
		wantUint uint64
	}{
		{"1", KindVarint, 42},
		{"2", KindFixed32, 1},
		{"3", KindFixed64, 2},
		{"4", KindString, 0},
	}
	for _, tt := range tests {
		t.Run("tag "+tt.tag, func(t *testing.T) {
			v := attrs.Get(tt.tag)
			if v.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.wantKind)
			}
			if v.Uint != tt.wantUint {
				t.Errorf("Uint = %d, want %d", v.Uint, tt.wantUint)
			}
		})
	}

	if got := attrs.Get("4").Text(); got != "Hello" {
		t.Errorf("Text() = %q, want Hello", got)
	}
}

func TestDecodeAttributes_NestedAndRepeated(t *testing.T) {
	blob := testutil.SenderExtra(testutil.SampleMember)

	attrs := DecodeAttributes(blob)
	if attrs == nil {
		t.Fatal("DecodeAttributes() = nil")
	}

	if got := attrs.Get("1").Kind; got != KindMessage {
		t.Errorf("field 1 kind = %v, want message", got)
	}

	entries := attrs.Get("3")
	if entries.Kind != KindList {
		t.Fatalf("field 3 kind = %v, want list", entries.Kind)
	}
	if len(entries.Items) != 2 {
		t.Fatalf("field 3 has %d entries, want 2", len(entries.Items))
	}

	if got := entries.Index(0).Get("2").Text(); got != testutil.SampleMember {
		t.Errorf("first entry = %q, want %q", got, testutil.SampleMember)
	}
	if got := entries.Index(1).Get("1").Uint; got != 7 {
		t.Errorf("second entry kind = %d, want 7", got)
	}
}

func TestClassifyPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    ValueKind
	}{
		{"empty", []byte{}, KindBytes},
		{"readable text", []byte("wxid_abc"), KindString},
		{"text with newline", []byte("line one\nline two"), KindString},
		{"nested message", testutil.VarintField(1, 5), KindMessage},
		{"binary", []byte{0xff, 0x00, 0x01}, KindBytes},
		// field 4 varint 65
		{"printable wire format", []byte(" A"), KindMessage},
		{"field number out of range", []byte{0x80, 0x80, 0x80, 0x80, 0x10, 0x01}, KindBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPayload(tt.payload, 0).Kind; got != tt.want {
				t.Errorf("classifyPayload() kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeAttributes_PrintableEntry(t *testing.T) {
	// every byte of this entry is printable: tag 0x22, then a length of 46 ('.')
	path := `FileStorage\Image\2024-01\0123456789abcdef.dat`
	blob := testutil.BytesField(3, testutil.StringField(4, path))

	attrs := DecodeAttributes(blob)
	if attrs == nil {
		t.Fatal("DecodeAttributes() = nil")
	}
	entry := attrs.Get("3")
	if entry.Kind != KindMessage {
		t.Fatalf("entry kind = %v, want %v", entry.Kind, KindMessage)
	}
	if got := entry.Get("4").Text(); got != path {
		t.Errorf("entry field 4 = %q, want %q", got, path)
	}
}

func TestDecodeAttributes_DepthLimit(t *testing.T) {
	inner := testutil.VarintField(1, 1)
	for i := 0; i < maxMessageDepth+5; i++ {
		inner = testutil.BytesField(1, inner)
	}

	attrs := DecodeAttributes(inner)
	if attrs == nil {
		t.Fatal("DecodeAttributes() = nil, want a partially nested tree")
	}

	depth := 0
	v := attrs.Get("1")
	for v.Kind == KindMessage {
		depth++
		v = v.Get("1")
	}
	if depth > maxMessageDepth+1 {
		t.Errorf("nested depth = %d, want at most %d", depth, maxMessageDepth+1)
	}
	if v.Kind != KindBytes {
		t.Errorf("innermost kind = %v, want bytes", v.Kind)
	}
}
