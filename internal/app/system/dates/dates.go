// Package dates holds the date formats used across the app.
//
// Two representations exist and must never be mixed: the storage form
// (yyyy-MM-dd), used for comparisons and anything persisted, and the display
// form (dd/mm/yyyy), used only when showing a value to a user. Change request
// payloads always carry the storage form.
package dates

import (
	"strings"
	"time"
)

const (
	// StorageLayout is the canonical persisted form.
	StorageLayout = "2006-01-02"
	// DisplayLayout is the on-screen form.
	DisplayLayout = "02/01/2006"
	// yearMonthLayout covers partial dates coming from month pickers.
	yearMonthLayout = "2006-01"
)

// ParseStorage parses a storage-form date.
func ParseStorage(s string) (time.Time, error) {
	return time.Parse(StorageLayout, strings.TrimSpace(s))
}

// FormatStorage renders t in storage form.
func FormatStorage(t time.Time) string {
	return t.Format(StorageLayout)
}

// FormatDisplay renders t in display form.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Display converts a storage-form value to display form. Values that are not
// storage dates pass through unchanged, so it is safe to run over any field.
func Display(s string) string {
	t, err := ParseStorage(s)
	if err != nil {
		return s
	}
	return FormatDisplay(t)
}

// NormalizeStorage canonicalizes a date value to storage form. It accepts
// storage form, RFC 3339 timestamps (date pickers often submit those), and
// display form. Anything else is returned trimmed and untouched.
func NormalizeStorage(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	if t, err := time.Parse(StorageLayout, v); err == nil {
		return FormatStorage(t)
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return FormatStorage(t)
	}
	if t, err := time.Parse(DisplayLayout, v); err == nil {
		return FormatStorage(t)
	}
	return v
}

// YearMonth extracts the year and month from a storage-form date or a
// yyyy-MM partial. ok is false when the value holds neither.
func YearMonth(s string) (year int, month time.Month, ok bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, 0, false
	}
	if t, err := time.Parse(StorageLayout, v); err == nil {
		return t.Year(), t.Month(), true
	}
	if t, err := time.Parse(yearMonthLayout, v); err == nil {
		return t.Year(), t.Month(), true
	}
	return 0, 0, false
}
