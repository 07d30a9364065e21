package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeframe_DateRange(t *testing.T) {
	wednesday := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeframe Timeframe
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{name: "Today", timeframe: TimeframeToday, now: wednesday, wantStart: day(2024, 3, 13), wantEnd: day(2024, 3, 13)},
		{name: "ThisWeek", timeframe: TimeframeThisWeek, now: wednesday, wantStart: day(2024, 3, 11), wantEnd: day(2024, 3, 13)},
		{name: "ThisWeekOnSunday", timeframe: TimeframeThisWeek, now: day(2024, 3, 17), wantStart: day(2024, 3, 11), wantEnd: day(2024, 3, 17)},
		{name: "ThisMonth", timeframe: TimeframeThisMonth, now: wednesday, wantStart: day(2024, 3, 1), wantEnd: day(2024, 3, 13)},
		{name: "LastMonthLeapYear", timeframe: TimeframeLastMonth, now: wednesday, wantStart: day(2024, 2, 1), wantEnd: day(2024, 2, 29)},
		{name: "LastMonthInJanuary", timeframe: TimeframeLastMonth, now: day(2024, 1, 10), wantStart: day(2023, 12, 1), wantEnd: day(2023, 12, 31)},
		{name: "All", timeframe: TimeframeAll, now: wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.timeframe.DateRange(tt.now)

			assert.True(t, tt.wantStart.Equal(start), "start = %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end = %s", end)
		})
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := parseRange(" 2024-01-01 ", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), start)
	assert.Equal(t, day(2024, 1, 31), end)

	_, _, err = parseRange("2024-02-01", "2024-01-31")
	assert.EqualError(t, err, "end date is before start date")

	_, _, err = parseRange("01/02/2024", "2024-01-31")
	assert.EqualError(t, err, "invalid start date (YYYY-MM-DD)")

	_, _, err = parseRange("2024-01-01", "")
	assert.EqualError(t, err, "invalid end date (YYYY-MM-DD)")
}
