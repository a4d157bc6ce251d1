package internal

import (
	"bytes"
	"strings"

	"github.com/pierrec/lz4/v4"
)

const (
	// decompressRatio is the uncompressed size estimate as a multiple of the input size
	decompressRatio = 256
	// maxDecompressedSize caps the output buffer no matter how large the input is
	maxDecompressedSize = 32 << 20
)

// DecompressContent reverses the lz4 block compression applied to the
// CompressContent column and returns the payload as text.
//
// ok is false only when blob is nil (a NULL column). Any decompression failure
// falls back to reading blob itself as text, since some rows store content
// uncompressed in this column.
func DecompressContent(blob []byte) (text string, ok bool) {
	if blob == nil {
		return "", false
	}
	if len(blob) == 0 {
		return "", true
	}

	dst := make([]byte, decompressBound(len(blob)))
	n, err := lz4.UncompressBlock(blob, dst)
	if err != nil {
		LogDebug("lz4 block decode failed (%d bytes), using raw content: %v", len(blob), err)
		return lenientUTF8(blob), true
	}

	// Padding NULs left behind by the writer break markup parsing downstream
	out := bytes.ReplaceAll(dst[:n], []byte{0}, nil)
	return lenientUTF8(out), true
}

// decompressBound returns the output buffer size for an input of n bytes
func decompressBound(n int) int {
	if n > maxDecompressedSize/decompressRatio {
		return maxDecompressedSize
	}
	return n * decompressRatio
}

// lenientUTF8 decodes b as UTF-8, dropping invalid sequences
func lenientUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
