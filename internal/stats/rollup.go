package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/split"
)

// Source is the read side of the log repository the engine needs.
type Source interface {
	LogsForDate(date string) ([]model.LogEntry, error)
	SegmentsForDate(date string) ([]model.Segment, error)
	ListCategories() ([]model.Category, error)
}

// HeatmapThresholds are the minute totals at which a day reaches levels 1..4.
var HeatmapThresholds = [4]int64{60, 180, 360, 540}

type Engine struct {
	src    Source
	loc    *time.Location
	logger hclog.Logger
}

type Option func(*Engine)

func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine that resolves calendar days in loc.
func New(src Source, loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{src: src, loc: loc, logger: hclog.NewNullLogger()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Day computes the statistics of one calendar date.
func (e *Engine) Day(date string) (*model.DayStatistics, error) {
	cats, err := e.src.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return e.day(date, cats)
}

func (e *Engine) day(date string, cats []model.Category) (*model.DayStatistics, error) {
	dayStart, dayEnd, err := model.DayBounds(date, e.loc)
	if err != nil {
		return nil, err
	}

	logs, err := e.src.LogsForDate(date)
	if err != nil {
		return nil, fmt.Errorf("logs for %s: %w", date, err)
	}
	segs, err := e.src.SegmentsForDate(date)
	if err != nil {
		return nil, fmt.Errorf("segments for %s: %w", date, err)
	}
	byParent := make(map[string]model.Segment, len(segs))
	for _, s := range segs {
		byParent[s.ParentID] = s
	}

	seen := make(map[string]bool, len(logs))
	stat := &model.DayStatistics{Date: date}
	var items []Contribution
	for _, l := range logs {
		if seen[l.ID] || !belongs(l, dayStart, dayEnd) {
			continue
		}
		seen[l.ID] = true
		stat.Logs = append(stat.Logs, l)
		if !l.Completed() {
			continue
		}
		stat.LogCount++

		c, seg, ok := e.contribution(l, date, byParent)
		if !ok {
			continue
		}
		if seg != nil {
			stat.Segments = append(stat.Segments, *seg)
		}
		items = append(items, c)
		stat.TotalDuration += c.Duration
	}
	sort.SliceStable(stat.Logs, func(i, j int) bool {
		return stat.Logs[i].StartTime.Before(stat.Logs[j].StartTime)
	})

	stat.CategoryStats = Aggregate(items, cats)
	e.warnUnknown(items, cats)
	return stat, nil
}

// contribution picks what a completed log adds to date: its stored segment,
// its whole duration when it fits in one day, or a clip computed on the fly
// when the segment cache is missing.
func (e *Engine) contribution(l model.LogEntry, date string, byParent map[string]model.Segment) (Contribution, *model.Segment, bool) {
	if s, ok := byParent[l.ID]; ok {
		return Contribution{CategoryIDs: s.CategoryIDs, Duration: s.Duration}, &s, true
	}
	if !split.Spans(l, e.loc) {
		return Contribution{CategoryIDs: l.CategoryIDs, Duration: l.Duration()}, nil, true
	}
	s, ok := split.Clip(l, date, e.loc)
	if !ok {
		return Contribution{}, nil, false
	}
	e.logger.Warn("segment missing, clipping log", "log", l.ID, "date", date)
	return Contribution{CategoryIDs: s.CategoryIDs, Duration: s.Duration}, &s, true
}

func (e *Engine) warnUnknown(items []Contribution, cats []model.Category) {
	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	for _, it := range items {
		for _, id := range it.CategoryIDs {
			if !known[id] {
				e.logger.Debug("ignoring unknown category", "category", id)
			}
		}
	}
}

// belongs reports whether the log touches [dayStart, dayEnd). A log started on
// an earlier day belongs while it is still running or ends after dayStart.
func belongs(l model.LogEntry, dayStart, dayEnd time.Time) bool {
	if !l.StartTime.Before(dayStart) {
		return l.StartTime.Before(dayEnd)
	}
	return l.EndTime == nil || l.EndTime.After(dayStart)
}

// Week composes the seven days of the week containing date.
func (e *Engine) Week(date string, weekStart time.Weekday) (*model.WeekStatistics, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, err
	}
	dates := model.WeekDates(d, weekStart)
	days, merged, total, count, err := e.rollup(dates)
	if err != nil {
		return nil, err
	}
	return &model.WeekStatistics{
		WeekStart:     dates[0],
		WeekEnd:       dates[len(dates)-1],
		TotalDuration: total,
		LogCount:      count,
		AveragePerDay: float64(total) / float64(len(dates)),
		CategoryStats: merged,
		DayStats:      days,
	}, nil
}

// Month composes every day of the month.
func (e *Engine) Month(year int, month time.Month) (*model.MonthStatistics, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", model.ErrInvalidInput, month)
	}
	dates := model.MonthDates(year, month)
	days, merged, total, count, err := e.rollup(dates)
	if err != nil {
		return nil, err
	}
	return &model.MonthStatistics{
		Year:          year,
		Month:         month,
		TotalDuration: total,
		LogCount:      count,
		AveragePerDay: float64(total) / float64(len(dates)),
		CategoryStats: merged,
		DayStats:      days,
	}, nil
}

func (e *Engine) rollup(dates []string) ([]model.DayStatistics, []model.CategoryStat, int64, int, error) {
	cats, err := e.src.ListCategories()
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("list categories: %w", err)
	}
	days := make([]model.DayStatistics, 0, len(dates))
	periods := make([][]model.CategoryStat, 0, len(dates))
	var total int64
	var count int
	for _, date := range dates {
		ds, err := e.day(date, cats)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		days = append(days, *ds)
		periods = append(periods, ds.CategoryStats)
		total += ds.TotalDuration
		count += ds.LogCount
	}
	return days, Merge(periods, cats), total, count, nil
}

// Trend returns the daily totals from..to inclusive.
func (e *Engine) Trend(from, to string) ([]model.DayTotal, error) {
	f, err := model.ParseDate(from)
	if err != nil {
		return nil, err
	}
	t, err := model.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if t.Before(f) {
		return nil, fmt.Errorf("%w: range %s..%s is reversed", model.ErrInvalidInput, from, to)
	}
	cats, err := e.src.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var out []model.DayTotal
	for _, date := range model.DatesBetween(f, t) {
		ds, err := e.day(date, cats)
		if err != nil {
			return nil, err
		}
		out = append(out, model.DayTotal{Date: date, Duration: ds.TotalDuration})
	}
	return out, nil
}

// Heatmap returns one cell per day of the month with its intensity level.
func (e *Engine) Heatmap(year int, month time.Month) ([]model.HeatCell, error) {
	m, err := e.Month(year, month)
	if err != nil {
		return nil, err
	}
	cells := make([]model.HeatCell, 0, len(m.DayStats))
	for _, d := range m.DayStats {
		cells = append(cells, model.HeatCell{
			Date:     d.Date,
			Duration: d.TotalDuration,
			Level:    HeatLevel(d.TotalDuration),
		})
	}
	return cells, nil
}

// HeatLevel maps a day total in seconds to 0..4. Any tracked time is at least level 1.
func HeatLevel(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	minutes := seconds / 60
	level := 1
	for i := len(HeatmapThresholds) - 1; i > 0; i-- {
		if minutes >= HeatmapThresholds[i] {
			level = i + 1
			break
		}
	}
	return level
}
