package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaiveDayRange(t *testing.T) {
	tests := []struct {
		date   string
		wantTo string
	}{
		{"2023-01-01", "2023-01-02"},
		{"2023-01-08", "2023-01-09"},
		{"2023-01-09", "2023-01-0:"},
		{"2023-01-31", "2023-01-32"},
		{"2023-12-19", "2023-12-1:"},
	}

	for _, tt := range tests {
		from, to := NaiveDayRange(tt.date)
		assert.Equal(t, tt.date, from)
		assert.Equal(t, tt.wantTo, to, "date %s", tt.date)
	}

	from, to := NaiveDayRange("")
	assert.Empty(t, from)
	assert.Empty(t, to)
}

func TestNaiveDayRange_DayNineExcludesNextDay(t *testing.T) {
	from, to := NaiveDayRange("2023-01-09")

	inRange := func(ts string) bool { return ts >= from && ts < to }
	assert.True(t, inRange("2023-01-09 00:00:00"))
	assert.True(t, inRange("2023-01-09 23:59:59"))
	assert.False(t, inRange("2023-01-10 08:00:00"))
	assert.False(t, inRange("2023-01-19 08:00:00"))
}

func TestCalendarDayRange(t *testing.T) {
	tests := []struct {
		date   string
		wantTo string
	}{
		{"2023-01-01", "2023-01-02"},
		{"2023-01-09", "2023-01-10"},
		{"2023-01-31", "2023-02-01"},
		{"2023-12-31", "2024-01-01"},
		{"2024-02-28", "2024-02-29"},
		{"2023-02-28", "2023-03-01"},
	}

	for _, tt := range tests {
		from, to := CalendarDayRange(tt.date)
		assert.Equal(t, tt.date, from)
		assert.Equal(t, tt.wantTo, to, "date %s", tt.date)
	}
}
