package report

import (
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

// DayRange returns the half-open [from, to) clock-in string range of a
// YYYY-MM-DD date.
type DayRange func(date string) (from, to string)

// NaiveDayRange bumps the last character of date by one. Dates ending in 9
// produce a non-date bound: "2023-01-09" gives "2023-01-0:", which still sorts
// before "2023-01-10", so only day 09 falls inside.
func NaiveDayRange(date string) (string, string) {
	if date == "" {
		return date, date
	}
	last := date[len(date)-1]
	return date, date[:len(date)-1] + string(last+1)
}

// CalendarDayRange uses the next calendar day as the upper bound.
func CalendarDayRange(date string) (string, string) {
	t, ok := validator.IsValidDate(date)
	if !ok {
		return NaiveDayRange(date)
	}
	return date, validator.FormatInstant(t.AddDate(0, 0, 1), validator.DateFormat)
}
