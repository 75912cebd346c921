package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/tracker"
)

type reportMode int

const (
	reportDay reportMode = iota
	reportWeek
	reportMonth
)

var reportModeNames = []string{"Day", "Week", "Month"}

type reportsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	mode   reportMode
	offset int // days, weeks or months back from today (0 = current)

	categories []model.Category
	weekStart  time.Weekday
	day        *model.DayStatistics
	week       *model.WeekStatistics
	month      *model.MonthStatistics
	heat       []model.HeatCell

	chart barchart.Model
}

func newReportsModel(t *tracker.Tracker) reportsModel {
	return reportsModel{
		tracker:   t,
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	mode       reportMode
	offset     int
	categories []model.Category
	weekStart  time.Weekday
	day        *model.DayStatistics
	week       *model.WeekStatistics
	month      *model.MonthStatistics
	heat       []model.HeatCell
}

// anchor returns the civil date the current mode and offset point at.
func (r reportsModel) anchor() time.Time {
	today := model.Civil(r.tracker.Now(), r.tracker.Location())
	switch r.mode {
	case reportWeek:
		return today.AddDate(0, 0, -7*r.offset)
	case reportMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, -r.offset, 0)
	default:
		return today.AddDate(0, 0, -r.offset)
	}
}

func (r reportsModel) refresh() tea.Cmd {
	mode, offset, date := r.mode, r.offset, r.anchor()
	return func() tea.Msg {
		msg := reportsDataMsg{mode: mode, offset: offset}
		cats, err := r.tracker.Categories()
		if err != nil {
			return errStatus("Load categories", err)
		}
		set, err := r.tracker.Settings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		msg.categories, msg.weekStart = cats, set.WeekStart

		switch mode {
		case reportDay:
			msg.day, err = r.tracker.Day(date.Format(model.DateLayout))
		case reportWeek:
			msg.week, err = r.tracker.Week(date.Format(model.DateLayout))
		case reportMonth:
			if msg.month, err = r.tracker.Month(date.Year(), date.Month()); err == nil {
				msg.heat, err = r.tracker.Heatmap(date.Year(), date.Month())
			}
		}
		if err != nil {
			return errStatus("Load report", err)
		}
		return msg
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		// Drop results for a period the user already navigated away from.
		if msg.mode != r.mode || msg.offset != r.offset {
			return r, nil
		}
		r.categories = msg.categories
		r.weekStart = msg.weekStart
		r.day, r.week, r.month, r.heat = msg.day, msg.week, msg.month, msg.heat
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Tab):
			r.mode = (r.mode + 1) % reportMode(len(reportModeNames))
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) stats() []model.CategoryStat {
	switch {
	case r.mode == reportDay && r.day != nil:
		return r.day.CategoryStats
	case r.mode == reportWeek && r.week != nil:
		return r.week.CategoryStats
	case r.mode == reportMonth && r.month != nil:
		return r.month.CategoryStats
	}
	return nil
}

func (r reportsModel) categoryValues(stats []model.CategoryStat) []barchart.BarValue {
	values := make([]barchart.BarValue, 0, len(stats))
	for _, s := range stats {
		c, _ := categoryByID(r.categories, s.CategoryID)
		values = append(values, barchart.BarValue{
			Name:  c.Name,
			Value: s.Duration / 3600,
			Style: lipgloss.NewStyle().Foreground(lipgloss.Color(categoryColor(r.categories, s.CategoryID))),
		})
	}
	return values
}

func (r *reportsModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	empty := []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
	var bars []barchart.BarData
	switch r.mode {
	case reportDay:
		if r.day == nil || r.day.TotalDuration == 0 {
			return
		}
		for _, v := range r.categoryValues(r.day.CategoryStats) {
			bars = append(bars, barchart.BarData{Label: truncate(v.Name, 8), Values: []barchart.BarValue{v}})
		}
	case reportWeek:
		if r.week == nil || r.week.TotalDuration == 0 {
			return
		}
		for _, d := range r.week.DayStats {
			label := d.Date
			if t, err := model.ParseDate(d.Date); err == nil {
				label = t.Format("Mon 02")
			}
			values := r.categoryValues(d.CategoryStats)
			if len(values) == 0 {
				values = empty
			}
			bars = append(bars, barchart.BarData{Label: label, Values: values})
		}
	default:
		return
	}
	if len(bars) == 0 {
		return
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) periodLabel() string {
	date := r.anchor()
	switch r.mode {
	case reportWeek:
		if r.week != nil {
			return r.week.WeekStart + " .. " + r.week.WeekEnd
		}
		start := model.WeekStartDate(date, r.weekStart)
		return start.Format(model.DateLayout) + " .. " + start.AddDate(0, 0, 6).Format(model.DateLayout)
	case reportMonth:
		return date.Format("January 2006")
	default:
		return date.Format("Mon, 2006-01-02")
	}
}

func (r reportsModel) total() int64 {
	switch {
	case r.mode == reportDay && r.day != nil:
		return r.day.TotalDuration
	case r.mode == reportWeek && r.week != nil:
		return r.week.TotalDuration
	case r.mode == reportMonth && r.month != nil:
		return r.month.TotalDuration
	}
	return 0
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, name := range reportModeNames {
		if reportMode(i) == r.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "  ",
		mutedStyle.Render(r.periodLabel()), "  ",
		highlightStyle.Render(formatHours(r.total())),
	)

	var body string
	if r.mode == reportMonth {
		body = renderHeatmap(r.heat, r.weekStart)
	} else {
		body = r.chart.View()
	}

	nav := mutedStyle.Render("  ←/→: previous/next  tab: day/week/month")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", body, "", r.renderCategoryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderCategoryTable(w int) string {
	stats := r.stats()
	if len(stats) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %s %10s %8s %7s", pad("Category", 22), "Duration", "Logs", "Share")),
		mutedStyle.Render("  " + strings.Repeat("─", min(max(0, w-6), 50))),
	}
	for _, s := range stats {
		c, ok := categoryByID(r.categories, s.CategoryID)
		name := s.CategoryID
		if ok {
			name = c.Icon + " " + c.Name
		}
		rows = append(rows, fmt.Sprintf("  %s %s %10s %8d %6.1f%%",
			colorDot(categoryColor(r.categories, s.CategoryID)), pad(name, 20), formatSeconds(int64(s.Duration)), s.Count, s.Percentage))
	}
	return strings.Join(rows, "\n")
}

var heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

// renderHeatmap lays the month out as a calendar with one row per week.
func renderHeatmap(cells []model.HeatCell, weekStart time.Weekday) string {
	if len(cells) == 0 {
		return mutedStyle.Render("  No data for this month")
	}

	var b strings.Builder
	b.WriteString("  ")
	for i := range 7 {
		b.WriteString(mutedStyle.Render(time.Weekday((int(weekStart)+i)%7).String()[:2]) + " ")
	}

	col := 0
	if first, err := model.ParseDate(cells[0].Date); err == nil {
		col = (int(first.Weekday()) - int(weekStart) + 7) % 7
	}
	b.WriteString("\n  " + strings.Repeat("   ", col))
	for _, c := range cells {
		level := min(max(c.Level, 0), len(heatGlyphs)-1)
		b.WriteString(heatStyles[level].Render(strings.Repeat(heatGlyphs[level], 2)) + " ")
		col++
		if col == 7 {
			col = 0
			b.WriteString("\n  ")
		}
	}
	b.WriteString("\n  " + mutedStyle.Render("less "+strings.Join(heatGlyphs, " ")+" more"))
	return b.String()
}
