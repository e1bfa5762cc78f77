package formadoc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yleroy/go-formadoc/internal/dateutil"
)

// File naming conventions for generated artifacts.
const (
	// ArchiveFileName is the fixed name of a batch archive.
	ArchiveFileName = "attestations.zip"

	attestationSuffix = "_attestation.pdf"
)

// FormatDate renders a raw date string as dd/mm/yyyy. Empty or malformed
// input renders as the empty string.
func FormatDate(raw string) string {
	return dateutil.Display(raw)
}

// FullName joins a first and last name with a single space. Empty parts
// render as empty strings rather than a placeholder, so a missing first
// name yields just the last name with no stray separator.
func FullName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// DurationHours computes a session duration in hours from its bounds.
// Sessions where end precedes start report zero rather than a negative
// duration.
func DurationHours(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Seconds() / 3600
}

// FormatHours renders a numeric duration the way the template expects:
// whole values without a decimal part, fractional values with up to two
// decimals.
func FormatHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return strconv.FormatInt(int64(hours), 10)
	}
	s := strconv.FormatFloat(hours, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// AttestationFileName derives the artifact name for one recipient:
// {lastName}_{firstName}_attestation.pdf. Casing is preserved as supplied,
// with no locale-dependent transformation.
func AttestationFileName(r Recipient) string {
	return r.LastName + "_" + r.FirstName + attestationSuffix
}

// ConventionFileName derives the artifact name for a convention:
// Convention_{company}_{course}_{dd-mm-yyyy}.pdf.
func ConventionFileName(company, course, rawDate string) string {
	date := dateutil.FileName(rawDate)
	return fmt.Sprintf("Convention_%s_%s_%s.pdf", company, course, date)
}
