package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNewLog(t *testing.T) {
	start := time.Date(2025, 11, 9, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	before := start.Add(-time.Minute)
	ok := NewLog{Description: "Work", CategoryIDs: []string{"default-work"}, StartTime: start, EndTime: &end}

	require.NoError(t, ValidateNewLog(ok))

	tests := []struct {
		name   string
		mutate func(*NewLog)
		want   error
	}{
		{"blank description", func(n *NewLog) { n.Description = "  " }, ErrInvalidInput},
		{"long description", func(n *NewLog) { n.Description = strings.Repeat("a", DescriptionMaxLength+1) }, ErrInvalidInput},
		{"long location", func(n *NewLog) { n.Location = strings.Repeat("x", LocationMaxLength+1) }, ErrInvalidInput},
		{"no categories", func(n *NewLog) { n.CategoryIDs = nil }, ErrInvalidInput},
		{"too many categories", func(n *NewLog) { n.CategoryIDs = []string{"a", "b", "c", "d"} }, ErrInvalidInput},
		{"duplicate category", func(n *NewLog) { n.CategoryIDs = []string{"a", "a"} }, ErrInvalidInput},
		{"missing start", func(n *NewLog) { n.StartTime = time.Time{} }, ErrInvalidInput},
		{"end before start", func(n *NewLog) { n.EndTime = &before }, ErrEndBeforeStart},
		{"end equals start", func(n *NewLog) { s := start; n.EndTime = &s }, ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ok
			n.CategoryIDs = append([]string(nil), ok.CategoryIDs...)
			tt.mutate(&n)
			assert.ErrorIs(t, ValidateNewLog(n), tt.want)
		})
	}
}

func TestValidateDescriptionCountsRunes(t *testing.T) {
	assert.NoError(t, ValidateDescription(strings.Repeat("日", DescriptionMaxLength)))
	assert.ErrorIs(t, ValidateDescription(strings.Repeat("日", DescriptionMaxLength+1)), ErrInvalidInput)
}

func TestValidatePatch(t *testing.T) {
	end := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	blank := ""

	assert.NoError(t, ValidatePatch(LogPatch{}))
	assert.ErrorIs(t, ValidatePatch(LogPatch{Description: &blank}), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePatch(LogPatch{CategoryIDs: []string{}}), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePatch(LogPatch{EndTime: &end, ClearEnd: true}), ErrInvalidInput)
	assert.NoError(t, ValidatePatch(LogPatch{Location: &blank}))

	var zero time.Time
	assert.ErrorIs(t, ValidatePatch(LogPatch{StartTime: &zero}), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePatch(LogPatch{EndTime: &zero}), ErrInvalidInput)
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("Reading", "#A8E6CF"))
	assert.ErrorIs(t, ValidateCategory("", "#A8E6CF"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCategory(strings.Repeat("n", CategoryNameMaxLength+1), "#A8E6CF"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCategory("Reading", "red"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCategory("Reading", "#12345"), ErrInvalidInput)
}

func TestDefaultsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range DefaultCategories {
		require.NoError(t, ValidateCategory(c.Name, c.Color), c.Name)
		assert.True(t, c.IsDefault)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	for _, col := range PresetColors {
		assert.NoError(t, ValidateCategory("x", col))
	}
	assert.Contains(t, LongTaskThresholdOptions, DefaultLongTaskThresholdHours)
}

func TestLogEntryDuration(t *testing.T) {
	start := time.Date(2025, 11, 9, 9, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Minute)
	l := LogEntry{StartTime: start}

	assert.Equal(t, StatusActive, l.Status())
	assert.Equal(t, int64(0), l.Duration())
	assert.Equal(t, 90*time.Minute, l.Elapsed(now))

	end := start.Add(time.Hour + 500*time.Millisecond)
	l.EndTime = &end
	assert.Equal(t, StatusCompleted, l.Status())
	assert.Equal(t, int64(3600), l.Duration())
	assert.Equal(t, time.Hour+500*time.Millisecond, l.Elapsed(now))
}

func TestCivilDates(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2025, 11, 8, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-11-09", DateOf(instant, tokyo))
	assert.Equal(t, time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC), Civil(instant, tokyo))

	start, end, err := DayBounds("2025-11-09", tokyo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 8, 15, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = DayBounds("11/09/2025", tokyo)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDayBoundsAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start, end, err := DayBounds("2025-11-02", ny)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, end.Sub(start))
}

func TestDateRanges(t *testing.T) {
	d, err := ParseDate("2025-11-09") // a Sunday
	require.NoError(t, err)

	assert.Equal(t, "2025-11-03", WeekStartDate(d, time.Monday).Format(DateLayout))
	assert.Equal(t, "2025-11-09", WeekStartDate(d, time.Sunday).Format(DateLayout))

	week := WeekDates(d, time.Monday)
	require.Len(t, week, 7)
	assert.Equal(t, "2025-11-03", week[0])
	assert.Equal(t, "2025-11-09", week[6])

	assert.Len(t, MonthDates(2024, time.February), 29)
	assert.Len(t, MonthDates(2025, time.November), 30)

	n, err := DaysBetween("2025-10-30", "2025-11-02")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = DaysBetween("2025-11-02", "2025-10-30")
	require.NoError(t, err)
	assert.Equal(t, -3, n)
}

func TestWeekdaySetting(t *testing.T) {
	for _, s := range []string{"sunday", "Sunday", "0"} {
		d, err := ParseWeekday(s)
		require.NoError(t, err)
		assert.Equal(t, time.Sunday, d)
	}
	d, err := ParseWeekday("1")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	_, err = ParseWeekday("friday")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, "sunday", FormatWeekday(time.Sunday))
	assert.Equal(t, "monday", FormatWeekday(time.Monday))
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2025, 11, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"09:15", time.Date(2025, 11, 9, 9, 15, 0, 0, time.UTC)},
		{" 2025-11-08 22:00 ", time.Date(2025, 11, 8, 22, 0, 0, 0, time.UTC)},
		{"2025-11-08T22:00", time.Date(2025, 11, 8, 22, 0, 0, 0, time.UTC)},
		{"2025-11-08 22:00:30", time.Date(2025, 11, 8, 22, 0, 30, 0, time.UTC)},
		{"2025-11-08T22:00:00+09:00", time.Date(2025, 11, 8, 13, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseWhen(tt.in, now, time.UTC)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: got %v, want %v", tt.in, got, tt.want)
	}

	_, err := ParseWhen("tomorrow", now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseWhenUsesLocationDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on the 8th is already the 9th in Tokyo.
	now := time.Date(2025, 11, 8, 20, 0, 0, 0, time.UTC)

	got, err := ParseWhen("07:30", now, tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-09 07:30", got.In(tokyo).Format("2006-01-02 15:04"))
}
