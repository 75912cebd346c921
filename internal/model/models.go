package model

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Category struct {
	ID          string
	Name        string
	Color       string
	Icon        string
	Description string
	IsDefault   bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LogEntry is one tracked interval. A nil EndTime means the log is still running.
type LogEntry struct {
	ID          string
	StartTime   time.Time
	EndTime     *time.Time
	CategoryIDs []string
	Description string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e LogEntry) Status() Status {
	if e.EndTime == nil {
		return StatusActive
	}
	return StatusCompleted
}

func (e LogEntry) Completed() bool { return e.EndTime != nil }

// Duration returns the length of a completed log in whole seconds, 0 while active.
func (e LogEntry) Duration() int64 {
	if e.EndTime == nil {
		return 0
	}
	return int64(e.EndTime.Sub(e.StartTime) / time.Second)
}

// Elapsed is the running time of a log as of now.
func (e LogEntry) Elapsed(now time.Time) time.Duration {
	if e.EndTime != nil {
		return e.EndTime.Sub(e.StartTime)
	}
	return now.Sub(e.StartTime)
}

// Segment is the slice of a multi-day log that falls on one calendar day.
// StartTime is inclusive and EndTime exclusive.
type Segment struct {
	ID          string
	ParentID    string
	Date        string // 2006-01-02
	StartTime   time.Time
	EndTime     time.Time
	Duration    int64 // seconds
	CategoryIDs []string
	Description string
	Location    string
	IsFirst     bool
	IsLast      bool
}

// NewLog carries the fields accepted when a log is created.
type NewLog struct {
	Description string
	CategoryIDs []string
	StartTime   time.Time
	EndTime     *time.Time
	Location    string
}

// LogPatch is a partial update; nil fields are left untouched.
// ClearEnd reopens a completed log.
type LogPatch struct {
	Description *string
	CategoryIDs []string
	StartTime   *time.Time
	EndTime     *time.Time
	ClearEnd    bool
	Location    *string
}

func (p LogPatch) TouchesSegments() bool {
	return p.Description != nil || p.CategoryIDs != nil || p.StartTime != nil ||
		p.EndTime != nil || p.ClearEnd || p.Location != nil
}

// LogFilter is used to filter logs in list queries.
type LogFilter struct {
	CategoryID string
	Status     Status // empty = all
	From       *time.Time
	To         *time.Time
	Limit      int
}

type CategoryStat struct {
	CategoryID string  `json:"category_id"`
	Duration   float64 `json:"duration_seconds"`
	Units      float64 `json:"units"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DayStatistics struct {
	Date          string         `json:"date"`
	TotalDuration int64          `json:"total_duration_seconds"`
	LogCount      int            `json:"log_count"`
	CategoryStats []CategoryStat `json:"category_stats"`
	Logs          []LogEntry     `json:"-"`
	Segments      []Segment      `json:"-"`
}

type WeekStatistics struct {
	WeekStart     string          `json:"week_start"`
	WeekEnd       string          `json:"week_end"`
	TotalDuration int64           `json:"total_duration_seconds"`
	LogCount      int             `json:"log_count"`
	AveragePerDay float64         `json:"average_per_day_seconds"`
	CategoryStats []CategoryStat  `json:"category_stats"`
	DayStats      []DayStatistics `json:"day_stats"`
}

type MonthStatistics struct {
	Year          int             `json:"year"`
	Month         time.Month      `json:"month"`
	TotalDuration int64           `json:"total_duration_seconds"`
	LogCount      int             `json:"log_count"`
	AveragePerDay float64         `json:"average_per_day_seconds"`
	CategoryStats []CategoryStat  `json:"category_stats"`
	DayStats      []DayStatistics `json:"day_stats"`
}

// DayTotal is one point of a daily trend series.
type DayTotal struct {
	Date     string
	Duration int64
}

// HeatCell is one day of a month heatmap; Level runs 0 (nothing) to 4.
type HeatCell struct {
	Date     string
	Duration int64
	Level    int
}

type StreakState struct {
	Current        int
	Longest        int
	LastActiveDate string // 2006-01-02, empty before the first completion
}

type Setting struct {
	Key   string
	Value string
}

type Settings struct {
	WeekStart         time.Weekday
	LongTaskThreshold time.Duration
	ExportFormat      string
}
