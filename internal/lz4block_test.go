package internal

import (
	"strings"
	"testing"

	"github.com/iksnae/wxmsg/testutil"
)

func TestDecompressContent(t *testing.T) {
	appmsg := "<msg><appmsg><title>weekly report</title><des>see attachment</des></appmsg></msg>"
	padded := append([]byte(strings.Repeat(appmsg, 4)), 0, 0, 0)

	tests := []struct {
		name   string
		blob   []byte
		want   string
		wantOK bool
	}{
		{
			name:   "nil blob",
			blob:   nil,
			want:   "",
			wantOK: false,
		},
		{
			name:   "empty blob",
			blob:   []byte{},
			want:   "",
			wantOK: true,
		},
		{
			name:   "compressed markup with padding",
			blob:   testutil.CompressBlock(t, padded),
			want:   strings.Repeat(appmsg, 4),
			wantOK: true,
		},
		{
			name:   "uncompressed content falls back to raw text",
			blob:   []byte("plain text"),
			want:   "plain text",
			wantOK: true,
		},
		{
			name:   "invalid utf-8 in fallback is dropped",
			blob:   []byte{'o', 'k', 0xff, 0xfe},
			want:   "ok",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecompressContent(tt.blob)
			if ok != tt.wantOK {
				t.Errorf("DecompressContent() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("DecompressContent() = %q, want %q", got, tt.want)
			}
			if strings.ContainsRune(got, 0) {
				t.Errorf("DecompressContent() result contains NUL: %q", got)
			}
		})
	}
}

func TestDecompressContent_Idempotent(t *testing.T) {
	blob := testutil.CompressBlock(t, []byte(strings.Repeat("<recorditem/>", 20)))

	first, _ := DecompressContent(blob)
	second, _ := DecompressContent(blob)
	if first != second {
		t.Errorf("DecompressContent() not stable: %q vs %q", first, second)
	}
}

func TestDecompressBound(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"small input", 10, 10 * decompressRatio},
		{"at the cap", maxDecompressedSize / decompressRatio, maxDecompressedSize},
		{"above the cap", maxDecompressedSize, maxDecompressedSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decompressBound(tt.n); got != tt.want {
				t.Errorf("decompressBound(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
