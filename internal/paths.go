package internal

import (
	"path"
	"strings"
)

// storageMarker is the directory every attachment path in BytesExtra starts from
const storageMarker = "FileStorage"

// NormalizePath converts a backslash-separated Windows path into a relative
// slash-separated one, dropping empty segments
func NormalizePath(p string) string {
	segments := strings.Split(p, `\`)
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

// storageCandidates returns, in wire order, every string leaf that contains
// the storage marker, trimmed to start at the marker
func storageCandidates(attrs *Attributes) []string {
	var candidates []string
	for _, s := range attrs.Strings() {
		if idx := strings.Index(s, storageMarker); idx >= 0 {
			candidates = append(candidates, s[idx:])
		}
	}
	return candidates
}

// MediaPath picks the attachment path for an image or video message.
// Candidates containing prefer win; otherwise the first candidate is used.
// Returns "" when attrs holds no storage path.
func MediaPath(attrs *Attributes, prefer string) string {
	candidates := storageCandidates(attrs)
	if len(candidates) == 0 {
		return ""
	}
	chosen := candidates[0]
	for _, c := range candidates {
		if strings.Contains(c, prefer) {
			chosen = c
			break
		}
	}
	return NormalizePath(chosen)
}

// ExtractURL returns the first storage path among the string leaves of
// attrs, normalized. Only when there is none is the first http(s) URL
// returned as-is. Returns "" when nothing matches.
func ExtractURL(attrs *Attributes) string {
	if candidates := storageCandidates(attrs); len(candidates) > 0 {
		return NormalizePath(candidates[0])
	}
	for _, s := range attrs.Strings() {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return s
		}
	}
	return ""
}

// baseName returns the last slash-separated element of p, or "" for an empty path
func baseName(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
