package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Maximum byte lengths of the bounded text fields. Each persisted field
// reserves one extra byte for its terminator.
const (
	MaxCodeLen               = 19
	MaxProductNameLen        = 99
	MaxProductDescriptionLen = 199
	MaxGroupNameLen          = 49
	MaxGroupDescriptionLen   = 199
)

// TimestampLayout is the layout of persisted creation and update times.
const TimestampLayout = "2006-01-02 15:04:05"

const emptyTextPlaceholder = "-"

// Truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// clip trims surrounding whitespace and bounds s to limit bytes.
func clip(s string, limit int) string {
	return strings.TrimSpace(Truncate(strings.TrimSpace(s), limit))
}

// FoldName returns the case-folded form of a name used for
// case-insensitive comparison.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether two names are equal ignoring case.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// ContainsFold reports whether substr occurs in s ignoring case.
// An empty substr matches every s.
func ContainsFold(s, substr string) bool {
	return strings.Contains(cases.Fold().String(s), cases.Fold().String(substr))
}

// FormatTimestamp renders t in the persisted timestamp layout.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp parses the persisted timestamp layout in local time.
// Empty or malformed input yields the zero time.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DisplayText returns s, or a placeholder when s is empty.
func DisplayText(s string) string {
	if s == "" {
		return emptyTextPlaceholder
	}
	return s
}
