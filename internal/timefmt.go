package internal

import (
	"strings"
	"time"
)

// TimestampLayout has exactly one space, between date and time, and colons
// only between time fields; FileSafeTime depends on that
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp formats epoch seconds in loc, or in the local zone when loc is nil
func FormatTimestamp(sec int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(sec, 0).In(loc).Format(TimestampLayout)
}

// FileSafeTime turns a FormatTimestamp result into a token usable in file names
func FileSafeTime(formatted string) string {
	return strings.NewReplacer(":", "-", " ", "_").Replace(formatted)
}
