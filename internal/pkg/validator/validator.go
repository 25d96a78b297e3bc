package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Format names a textual timestamp representation accepted by the work-log core.
type Format string

const (
	// DateTimeFormat is the canonical timestamp-string of clock and work order times.
	DateTimeFormat Format = "YYYY-MM-DD HH:mm:ss"
	// DateFormat is the date-only form used by report search.
	DateFormat Format = "YYYY-MM-DD"
)

// Layout returns the Go reference layout for f.
func (f Format) Layout() string {
	switch f {
	case DateTimeFormat:
		return "2006-01-02 15:04:05"
	case DateFormat:
		return "2006-01-02"
	default:
		return ""
	}
}

var (
	dateTimeRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	dateRegex        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	orderNumberRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// MatchesDateTimeFormat reports whether s is shaped like YYYY-MM-DD HH:mm:ss.
// Only the digit pattern is checked, not the calendar.
func MatchesDateTimeFormat(s string) bool {
	return dateTimeRegex.MatchString(s)
}

// MatchesDateFormat reports whether s is shaped like YYYY-MM-DD.
func MatchesDateFormat(s string) bool {
	return dateRegex.MatchString(s)
}

// MatchesOrderNumberFormat reports whether s is a non-empty ASCII alphanumeric string.
func MatchesOrderNumberFormat(s string) bool {
	return orderNumberRegex.MatchString(s)
}

func matchesFormat(s string, f Format) bool {
	switch f {
	case DateTimeFormat:
		return MatchesDateTimeFormat(s)
	case DateFormat:
		return MatchesDateFormat(s)
	default:
		return false
	}
}

// IsValidInstant reports whether s matches f syntactically and names a real
// calendar date and time (no month 13, no February 31st).
func IsValidInstant(s string, f Format) bool {
	if !matchesFormat(s, f) {
		return false
	}
	_, err := time.Parse(f.Layout(), s)
	return err == nil
}

// ToInstant parses s in format f as a UTC instant. Callers must check
// IsValidInstant first; an invalid input yields the zero time.
func ToInstant(s string, f Format) time.Time {
	t, err := time.Parse(f.Layout(), s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatInstant renders t in format f.
func FormatInstant(t time.Time, f Format) string {
	return t.Format(f.Layout())
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	if !IsValidInstant(dateStr, DateFormat) {
		return time.Time{}, false
	}
	return ToInstant(dateStr, DateFormat), true
}
