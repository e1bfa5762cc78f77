// Package dateutil parses the heterogeneous date strings found in session
// data and formats them for document display.
package dateutil

import (
	"strings"
	"time"
)

// Display formats used on generated documents.
const (
	DisplayFormat  = "02/01/2006" // dd/mm/yyyy, zero-padded
	FileNameFormat = "02-01-2006" // dd-mm-yyyy, safe in file names
)

// acceptedLayouts lists input layouts in match order. Session data arrives
// either as a bare ISO date or as a full RFC 3339 timestamp depending on
// which backend endpoint produced it.
var acceptedLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parse attempts to parse a date string against the accepted layouts.
// Returns false for empty or unrecognized input.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Display formats a date string as dd/mm/yyyy. Absent or malformed input
// formats as the empty string, never as an error or a literal
// "Invalid Date" artifact.
func Display(s string) string {
	t, ok := Parse(s)
	if !ok {
		return ""
	}
	return t.Format(DisplayFormat)
}

// FileName formats a date string as dd-mm-yyyy for use inside generated
// file names. Falls back to the empty string like Display.
func FileName(s string) string {
	t, ok := Parse(s)
	if !ok {
		return ""
	}
	return t.Format(FileNameFormat)
}
