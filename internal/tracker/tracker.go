// Package tracker ties the store and the statistics engines together for the
// command line and the TUI.
package tracker

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/stats"
	"github.com/sadopc/lifelog/internal/store"
	"github.com/sadopc/lifelog/internal/streak"
)

type Tracker struct {
	store  *store.Store
	stats  *stats.Engine
	logger hclog.Logger
	now    func() time.Time
}

type Option func(*Tracker)

func WithLogger(l hclog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.Named("tracker")
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func New(s *store.Store, opts ...Option) *Tracker {
	t := &Tracker{store: s, logger: hclog.NewNullLogger(), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	t.stats = stats.New(s, s.Location(), stats.WithLogger(t.logger))
	return t
}

func (t *Tracker) Store() *store.Store { return t.store }

func (t *Tracker) Location() *time.Location { return t.store.Location() }

// Today is the current calendar date in the store's time zone.
func (t *Tracker) Today() string {
	return model.DateOf(t.now(), t.store.Location())
}

func (t *Tracker) Now() time.Time { return t.now() }

// Start begins an active log. A zero StartTime means now.
func (t *Tracker) Start(n model.NewLog) (*model.LogEntry, error) {
	if n.StartTime.IsZero() {
		n.StartTime = t.now()
	}
	n.EndTime = nil
	if err := model.ValidateNewLog(n); err != nil {
		return nil, err
	}
	return t.store.CreateLog(n)
}

// Create records a log, possibly already completed. A completed log counts
// toward the streak.
func (t *Tracker) Create(n model.NewLog) (*model.LogEntry, error) {
	if n.StartTime.IsZero() {
		n.StartTime = t.now()
	}
	if err := model.ValidateNewLog(n); err != nil {
		return nil, err
	}
	l, err := t.store.CreateLog(n)
	if err != nil {
		return nil, err
	}
	if l.Completed() {
		t.completed(l)
	}
	return l, nil
}

// End completes an active log. A zero end means now.
func (t *Tracker) End(id string, end time.Time, location *string) (*model.LogEntry, error) {
	if end.IsZero() {
		end = t.now()
	}
	l, err := t.store.EndLog(id, end, location)
	if err != nil {
		return nil, err
	}
	t.completed(l)
	return l, nil
}

// Update applies a patch. Giving an active log its end time counts as a
// completion for the streak.
func (t *Tracker) Update(id string, p model.LogPatch) (*model.LogEntry, error) {
	if err := model.ValidatePatch(p); err != nil {
		return nil, err
	}
	prev, err := t.store.GetLog(id)
	if err != nil {
		return nil, err
	}
	l, err := t.store.UpdateLog(id, p)
	if err != nil {
		return nil, err
	}
	if !prev.Completed() && l.Completed() {
		t.completed(l)
	}
	return l, nil
}

func (t *Tracker) Delete(id string) error {
	return t.store.DeleteLog(id)
}

// completed advances the streak once per calendar day. A streak failure is
// logged; the log itself is already stored.
func (t *Tracker) completed(l *model.LogEntry) {
	if _, err := t.advanceStreak(); err != nil {
		t.logger.Error("streak update failed", "log", l.ID, "error", err)
	}
}

func (t *Tracker) advanceStreak() (model.StreakState, error) {
	st, err := t.store.LoadStreak()
	if err != nil {
		return st, err
	}
	next, changed := streak.Advance(st, t.Today())
	if !changed {
		return st, nil
	}
	if err := t.store.SaveStreak(next); err != nil {
		return st, err
	}
	t.logger.Debug("streak advanced", "current", next.Current, "longest", next.Longest)
	return next, nil
}

// StreakStatus is the displayed streak as of today.
type StreakStatus struct {
	Current int
	Longest int
	Last    string
}

func (t *Tracker) Streak() (StreakStatus, error) {
	st, err := t.store.LoadStreak()
	if err != nil {
		return StreakStatus{}, err
	}
	return StreakStatus{
		Current: streak.Status(st, t.Today()),
		Longest: st.Longest,
		Last:    st.LastActiveDate,
	}, nil
}

func (t *Tracker) Day(date string) (*model.DayStatistics, error) {
	if date == "" {
		date = t.Today()
	}
	return t.stats.Day(date)
}

// Week uses the week start from settings.
func (t *Tracker) Week(date string) (*model.WeekStatistics, error) {
	if date == "" {
		date = t.Today()
	}
	set, err := t.store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return t.stats.Week(date, set.WeekStart)
}

func (t *Tracker) Month(year int, month time.Month) (*model.MonthStatistics, error) {
	return t.stats.Month(year, month)
}

func (t *Tracker) Trend(from, to string) ([]model.DayTotal, error) {
	return t.stats.Trend(from, to)
}

func (t *Tracker) Heatmap(year int, month time.Month) ([]model.HeatCell, error) {
	return t.stats.Heatmap(year, month)
}

func (t *Tracker) ActiveLogs() ([]model.LogEntry, error) {
	return t.store.ActiveLogs()
}

func (t *Tracker) Categories() ([]model.Category, error) {
	return t.store.ListCategories()
}

func (t *Tracker) Settings() (model.Settings, error) {
	return t.store.LoadSettings()
}

func (t *Tracker) RebuildSegments() (store.RebuildReport, error) {
	return t.store.RebuildSegments()
}

// SetSetting validates and stores one user preference. Week start values are
// normalized to "monday" or "sunday".
func (t *Tracker) SetSetting(key, value string) error {
	switch key {
	case store.SettingWeekStart:
		d, err := model.ParseWeekday(value)
		if err != nil {
			return err
		}
		value = model.FormatWeekday(d)
	case store.SettingLongTaskThreshold:
		h, err := strconv.Atoi(value)
		if err != nil || !slices.Contains(model.LongTaskThresholdOptions, h) {
			return fmt.Errorf("%w: long task threshold %q: expected one of %v hours",
				model.ErrInvalidInput, value, model.LongTaskThresholdOptions)
		}
	case store.SettingExportFormat:
		if value != "csv" && value != "json" {
			return fmt.Errorf("%w: export format %q: expected csv or json", model.ErrInvalidInput, value)
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", model.ErrInvalidInput, key)
	}
	return t.store.SetSetting(key, value)
}

func (t *Tracker) Logs(f model.LogFilter) ([]model.LogEntry, error) {
	return t.store.ListLogs(f)
}

// LogsBetween returns the logs starting on the calendar dates from..to
// inclusive, oldest first. Empty bounds are open.
func (t *Tracker) LogsBetween(from, to string) ([]model.LogEntry, time.Time, time.Time, error) {
	var f model.LogFilter
	var start, end time.Time
	if from != "" {
		d, err := model.ParseDate(from)
		if err != nil {
			return nil, start, end, err
		}
		start = model.DayStart(d, t.Location())
		f.From = &start
	}
	if to != "" {
		d, err := model.ParseDate(to)
		if err != nil {
			return nil, start, end, err
		}
		end = model.DayStart(model.NextDay(d), t.Location())
		f.To = &end
	}
	if f.From != nil && f.To != nil && !end.After(start) {
		return nil, start, end, fmt.Errorf("%w: range %s..%s is reversed", model.ErrInvalidInput, from, to)
	}
	logs, err := t.store.ListLogs(f)
	if err != nil {
		return nil, start, end, err
	}
	slices.Reverse(logs)
	return logs, start, end, nil
}
