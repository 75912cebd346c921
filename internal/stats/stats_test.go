package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/split"
)

type fakeSource struct {
	logs     []model.LogEntry
	segments []model.Segment
	cats     []model.Category
}

func (f *fakeSource) LogsForDate(string) ([]model.LogEntry, error) {
	return f.logs, nil
}

func (f *fakeSource) SegmentsForDate(date string) ([]model.Segment, error) {
	var out []model.Segment
	for _, s := range f.segments {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) ListCategories() ([]model.Category, error) {
	return f.cats, nil
}

// add stores a log and, when cache is true, its segments.
func (f *fakeSource) add(id string, start, end time.Time, cache bool, cats ...string) {
	l := model.LogEntry{ID: id, StartTime: start, CategoryIDs: cats, Description: id}
	if !end.IsZero() {
		l.EndTime = &end
	}
	f.logs = append(f.logs, l)
	if cache {
		f.segments = append(f.segments, split.Split(l, time.UTC)...)
	}
}

func newSource() *fakeSource {
	return &fakeSource{cats: model.DefaultCategories}
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, 11, day, hour, min, 0, 0, time.UTC)
}

func statFor(stats []model.CategoryStat, id string) (model.CategoryStat, bool) {
	for _, s := range stats {
		if s.CategoryID == id {
			return s, true
		}
	}
	return model.CategoryStat{}, false
}

// ==========================================================================
// Aggregate
// ==========================================================================

func TestAggregateSplitsEvenly(t *testing.T) {
	items := []Contribution{{CategoryIDs: []string{"default-work", "default-study"}, Duration: 90 * 60}}

	got := Aggregate(items, model.DefaultCategories)
	require.Len(t, got, 2)

	assert.Equal(t, "default-work", got[0].CategoryID)
	assert.Equal(t, "default-study", got[1].CategoryID)
	for _, s := range got {
		assert.InDelta(t, 45*60, s.Duration, 1e-9)
		assert.InDelta(t, 0.5, s.Units, 1e-9)
		assert.Equal(t, 1, s.Count)
		assert.InDelta(t, 50, s.Percentage, 1e-9)
	}
}

func TestAggregateConservesDuration(t *testing.T) {
	items := []Contribution{
		{CategoryIDs: []string{"default-work"}, Duration: 3600},
		{CategoryIDs: []string{"default-work", "default-meal", "default-social"}, Duration: 1000},
		{CategoryIDs: []string{"default-rest", "default-meal"}, Duration: 7},
	}
	got := Aggregate(items, model.DefaultCategories)

	var sum, pct, units float64
	for _, s := range got {
		sum += s.Duration
		pct += s.Percentage
		units += s.Units
	}
	assert.InDelta(t, 4607, sum, 1e-6)
	assert.InDelta(t, 100, pct, 1e-6)
	assert.InDelta(t, 3, units, 1e-9)

	work, ok := statFor(got, "default-work")
	require.True(t, ok)
	assert.Equal(t, 1, work.Count, "1 + 1/3 units rounds to 1")
}

func TestAggregateIgnoresUnknownAndEmpty(t *testing.T) {
	items := []Contribution{
		{CategoryIDs: []string{"deleted-category"}, Duration: 600},
		{CategoryIDs: []string{"default-rest"}, Duration: 0},
	}
	got := Aggregate(items, model.DefaultCategories)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Aggregate(nil, model.DefaultCategories))
}

func TestMergeRecomputesDerivedFields(t *testing.T) {
	a := Aggregate([]Contribution{{CategoryIDs: []string{"default-work", "default-study"}, Duration: 3600}}, model.DefaultCategories)
	b := Aggregate([]Contribution{{CategoryIDs: []string{"default-work", "default-study"}, Duration: 3600}}, model.DefaultCategories)

	got := Merge([][]model.CategoryStat{a, b}, model.DefaultCategories)
	require.Len(t, got, 2)
	for _, s := range got {
		assert.InDelta(t, 3600, s.Duration, 1e-9)
		assert.InDelta(t, 1, s.Units, 1e-9)
		assert.Equal(t, 1, s.Count)
		assert.InDelta(t, 50, s.Percentage, 1e-9)
	}
}

// ==========================================================================
// Day
// ==========================================================================

func TestDayCrossMidnight(t *testing.T) {
	src := newSource()
	src.add("night", at(8, 22, 0), at(9, 2, 0), true, "default-rest")
	e := New(src, time.UTC)

	for _, date := range []string{"2025-11-08", "2025-11-09"} {
		ds, err := e.Day(date)
		require.NoError(t, err)
		assert.Equal(t, int64(2*3600), ds.TotalDuration, date)
		assert.Equal(t, 1, ds.LogCount, date)
		require.Len(t, ds.Segments, 1)
		assert.Equal(t, date, ds.Segments[0].Date)
	}

	ds, err := e.Day("2025-11-10")
	require.NoError(t, err)
	assert.Zero(t, ds.TotalDuration)
	assert.Empty(t, ds.Logs)
}

func TestDayFallsBackWithoutSegments(t *testing.T) {
	cached := newSource()
	cached.add("night", at(8, 22, 0), at(9, 2, 0), true, "default-rest", "default-work")
	bare := newSource()
	bare.add("night", at(8, 22, 0), at(9, 2, 0), false, "default-rest", "default-work")

	for _, date := range []string{"2025-11-08", "2025-11-09"} {
		want, err := New(cached, time.UTC).Day(date)
		require.NoError(t, err)
		got, err := New(bare, time.UTC).Day(date)
		require.NoError(t, err)
		assert.Equal(t, want.TotalDuration, got.TotalDuration)
		assert.Equal(t, want.CategoryStats, got.CategoryStats)
	}
}

func TestDayActiveLogsAreListedNotCounted(t *testing.T) {
	src := newSource()
	src.add("done", at(8, 9, 0), at(8, 10, 0), true, "default-work")
	src.add("running", at(8, 11, 0), time.Time{}, true, "default-study")
	src.add("yesterday", at(7, 9, 0), time.Time{}, true, "default-social")

	ds, err := New(src, time.UTC).Day("2025-11-08")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), ds.TotalDuration)
	assert.Equal(t, 1, ds.LogCount)
	require.Len(t, ds.Logs, 3)
	assert.Equal(t, "yesterday", ds.Logs[0].ID)
	assert.Equal(t, "done", ds.Logs[1].ID)
}

func TestDayEndingAtMidnightDoesNotTouchNextDay(t *testing.T) {
	src := newSource()
	src.add("evening", at(8, 20, 0), at(9, 0, 0), true, "default-work")

	ds, err := New(src, time.UTC).Day("2025-11-09")
	require.NoError(t, err)
	assert.Empty(t, ds.Logs)
	assert.Zero(t, ds.LogCount)
}

func TestDayDeduplicates(t *testing.T) {
	src := newSource()
	src.add("a", at(8, 9, 0), at(8, 10, 0), true, "default-work")
	src.logs = append(src.logs, src.logs[0])

	ds, err := New(src, time.UTC).Day("2025-11-08")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), ds.TotalDuration)
	assert.Equal(t, 1, ds.LogCount)
}

func TestDayRejectsBadDate(t *testing.T) {
	_, err := New(newSource(), time.UTC).Day("08/11/2025")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// ==========================================================================
// Week / Month
// ==========================================================================

func TestWeekIsSumOfDays(t *testing.T) {
	src := newSource()
	src.add("a", at(3, 9, 0), at(3, 17, 30), true, "default-work")
	src.add("b", at(5, 22, 0), at(6, 7, 0), true, "default-rest")
	src.add("c", at(8, 12, 0), at(8, 12, 45), true, "default-meal", "default-social")
	src.add("outside", at(10, 12, 0), at(10, 13, 0), true, "default-meal")
	e := New(src, time.UTC)

	w, err := e.Week("2025-11-05", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-03", w.WeekStart)
	assert.Equal(t, "2025-11-09", w.WeekEnd)
	require.Len(t, w.DayStats, 7)

	var total int64
	byCat := map[string]float64{}
	for _, d := range w.DayStats {
		total += d.TotalDuration
		for _, s := range d.CategoryStats {
			byCat[s.CategoryID] += s.Duration
		}
	}
	assert.Equal(t, total, w.TotalDuration)
	assert.Equal(t, int64((8*60+30+9*60+45)*60), w.TotalDuration)
	assert.InDelta(t, float64(w.TotalDuration)/7, w.AveragePerDay, 1e-9)
	for _, s := range w.CategoryStats {
		assert.InDelta(t, byCat[s.CategoryID], s.Duration, 1e-6, s.CategoryID)
	}
	rest, ok := statFor(w.CategoryStats, "default-rest")
	require.True(t, ok)
	assert.Equal(t, 2, rest.Count, "a log split over two days counts on each day")
}

func TestWeekStartsOnSunday(t *testing.T) {
	w, err := New(newSource(), time.UTC).Week("2025-11-05", time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-02", w.WeekStart)
	assert.Equal(t, "2025-11-08", w.WeekEnd)
}

func TestMonth(t *testing.T) {
	src := newSource()
	src.add("first", at(1, 9, 0), at(1, 10, 0), true, "default-work")
	src.add("last", at(30, 23, 0), time.Date(2025, 12, 1, 1, 0, 0, 0, time.UTC), true, "default-rest")
	e := New(src, time.UTC)

	m, err := e.Month(2025, time.November)
	require.NoError(t, err)
	require.Len(t, m.DayStats, 30)
	assert.Equal(t, int64(2*3600), m.TotalDuration)
	assert.Equal(t, 2, m.LogCount)
	assert.InDelta(t, float64(2*3600)/30, m.AveragePerDay, 1e-9)

	_, err = e.Month(2025, 13)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRollupIsDeterministic(t *testing.T) {
	src := newSource()
	src.add("a", at(3, 9, 0), at(3, 9, 7), true, "default-work", "default-study", "default-meal")
	src.add("b", at(4, 9, 0), at(4, 9, 11), true, "default-study", "default-meal")
	e := New(src, time.UTC)

	first, err := e.Week("2025-11-03", time.Monday)
	require.NoError(t, err)
	second, err := e.Week("2025-11-03", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// ==========================================================================
// Trend / Heatmap
// ==========================================================================

func TestTrend(t *testing.T) {
	src := newSource()
	src.add("a", at(3, 9, 0), at(3, 10, 0), true, "default-work")
	e := New(src, time.UTC)

	got, err := e.Trend("2025-11-02", "2025-11-04")
	require.NoError(t, err)
	assert.Equal(t, []model.DayTotal{
		{Date: "2025-11-02"},
		{Date: "2025-11-03", Duration: 3600},
		{Date: "2025-11-04"},
	}, got)

	_, err = e.Trend("2025-11-04", "2025-11-02")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		minutes int64
		want    int
	}{
		{0, 0},
		{1, 1},
		{59, 1},
		{179, 1},
		{180, 2},
		{360, 3},
		{539, 3},
		{540, 4},
		{1440, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HeatLevel(tt.minutes*60), "%d minutes", tt.minutes)
	}
}

func TestHeatmap(t *testing.T) {
	src := newSource()
	src.add("long", at(12, 8, 0), at(12, 18, 0), true, "default-work")
	cells, err := New(src, time.UTC).Heatmap(2025, time.November)
	require.NoError(t, err)
	require.Len(t, cells, 30)
	assert.Equal(t, 4, cells[11].Level)
	assert.Equal(t, 0, cells[0].Level)
}
