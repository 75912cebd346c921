package split

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/lifelog/internal/model"
)

func entry(start, end time.Time) model.LogEntry {
	e := model.LogEntry{
		ID:          "log-1",
		StartTime:   start,
		CategoryIDs: []string{"default-work", "default-study"},
		Description: "late shift",
		Location:    "office",
	}
	if !end.IsZero() {
		e.EndTime = &end
	}
	return e
}

func TestSplitAcrossMidnight(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 11, 8, 22, 0, 0, 0, loc)
	end := time.Date(2025, 11, 9, 2, 0, 0, 0, loc)

	segs := Split(entry(start, end), loc)
	require.Len(t, segs, 2)

	assert.Equal(t, "2025-11-08", segs[0].Date)
	assert.Equal(t, start, segs[0].StartTime)
	assert.Equal(t, time.Date(2025, 11, 9, 0, 0, 0, 0, loc), segs[0].EndTime)
	assert.Equal(t, int64(2*3600), segs[0].Duration)
	assert.True(t, segs[0].IsFirst)
	assert.False(t, segs[0].IsLast)

	assert.Equal(t, "2025-11-09", segs[1].Date)
	assert.Equal(t, time.Date(2025, 11, 9, 0, 0, 0, 0, loc), segs[1].StartTime)
	assert.Equal(t, end, segs[1].EndTime)
	assert.Equal(t, int64(2*3600), segs[1].Duration)
	assert.False(t, segs[1].IsFirst)
	assert.True(t, segs[1].IsLast)

	for _, s := range segs {
		assert.Equal(t, "log-1", s.ParentID)
		assert.Equal(t, []string{"default-work", "default-study"}, s.CategoryIDs)
		assert.Equal(t, "late shift", s.Description)
		assert.Equal(t, "office", s.Location)
	}
}

func TestSplitSingleDayAndActive(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 11, 8, 9, 0, 0, 0, loc)

	assert.Nil(t, Split(entry(start, start.Add(3*time.Hour)), loc))
	assert.Nil(t, Split(entry(start, time.Time{}), loc), "active log")
}

func TestSplitEndingAtMidnight(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 11, 8, 20, 0, 0, 0, loc)
	midnight := time.Date(2025, 11, 9, 0, 0, 0, 0, loc)

	assert.Nil(t, Split(entry(start, midnight), loc))

	segs := Split(entry(time.Date(2025, 11, 7, 20, 0, 0, 0, loc), midnight), loc)
	require.Len(t, segs, 2)
	assert.Equal(t, "2025-11-08", segs[1].Date)
	assert.Equal(t, int64(24*3600), segs[1].Duration)
}

func TestSplitMultiDay(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 11, 8, 18, 30, 0, 0, loc)
	end := time.Date(2025, 11, 11, 6, 15, 0, 0, loc)

	segs := Split(entry(start, end), loc)
	require.Len(t, segs, 4)

	var sum int64
	for i, s := range segs {
		sum += s.Duration
		assert.Equal(t, i == 0, s.IsFirst)
		assert.Equal(t, i == len(segs)-1, s.IsLast)
		if i > 0 {
			assert.Equal(t, segs[i-1].EndTime, s.StartTime, "segments must be contiguous")
		}
	}
	assert.Equal(t, int64(end.Sub(start)/time.Second), sum)
	assert.Equal(t, []string{"2025-11-08", "2025-11-09", "2025-11-10", "2025-11-11"},
		[]string{segs[0].Date, segs[1].Date, segs[2].Date, segs[3].Date})
	assert.Equal(t, int64(24*3600), segs[1].Duration)
}

func TestSplitDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 is 23 hours long in New York.
	start := time.Date(2025, 3, 8, 22, 0, 0, 0, loc)
	end := time.Date(2025, 3, 10, 1, 0, 0, 0, loc)

	segs := Split(entry(start, end), loc)
	require.Len(t, segs, 3)
	assert.Equal(t, int64(2*3600), segs[0].Duration)
	assert.Equal(t, int64(23*3600), segs[1].Duration)
	assert.Equal(t, int64(1*3600), segs[2].Duration)
	assert.Equal(t, int64(end.Sub(start)/time.Second), segs[0].Duration+segs[1].Duration+segs[2].Duration)
}

func TestSplitUsesLocationForDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 14:00Z..16:00Z is 23:00..01:00 in UTC+9.
	start := time.Date(2025, 11, 8, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 16, 0, 0, 0, time.UTC)

	assert.Nil(t, Split(entry(start, end), time.UTC))

	segs := Split(entry(start, end), loc)
	require.Len(t, segs, 2)
	assert.Equal(t, "2025-11-08", segs[0].Date)
	assert.Equal(t, "2025-11-09", segs[1].Date)
	assert.Equal(t, int64(3600), segs[0].Duration)
}

func TestSplitIsDeterministic(t *testing.T) {
	loc := time.UTC
	e := entry(time.Date(2025, 11, 8, 22, 0, 0, 0, loc), time.Date(2025, 11, 10, 2, 0, 0, 0, loc))

	a := Split(e, loc)
	b := Split(e, loc)
	assert.Equal(t, a, b)
	assert.Equal(t, SegmentID("log-1", "2025-11-09"), a[1].ID)
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestClip(t *testing.T) {
	loc := time.UTC
	e := entry(time.Date(2025, 11, 8, 22, 0, 0, 0, loc), time.Date(2025, 11, 9, 2, 0, 0, 0, loc))

	s, ok := Clip(e, "2025-11-09", loc)
	require.True(t, ok)
	assert.Equal(t, int64(2*3600), s.Duration)

	_, ok = Clip(e, "2025-11-10", loc)
	assert.False(t, ok)
}
