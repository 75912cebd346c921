package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/tracker"
)

type dashboardModel struct {
	tracker *tracker.Tracker
	timer   timerModel
	width   int
	height  int

	day        *model.DayStatistics
	categories []model.Category
	streak     tracker.StreakStatus
	threshold  time.Duration
	exportFmt  string
	cursor     int // selected running log

	formActive bool
	form       *huh.Form
	formKind   logFormKind
	values     *logFormValues
	endingID   string
}

func newDashboardModel(t *tracker.Tracker) dashboardModel {
	return dashboardModel{
		tracker:   t,
		timer:     newTimerModel(),
		threshold: model.DefaultLongTaskThresholdHours * time.Hour,
		exportFmt: model.DefaultExportFormat,
		values:    &logFormValues{},
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.refresh()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	day        *model.DayStatistics
	active     []model.LogEntry
	categories []model.Category
	streak     tracker.StreakStatus
	threshold  time.Duration
	exportFmt  string
}

func (d dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		day, err := d.tracker.Day("")
		if err != nil {
			return errStatus("Load today", err)
		}
		active, err := d.tracker.ActiveLogs()
		if err != nil {
			return errStatus("Load active logs", err)
		}
		cats, err := d.tracker.Categories()
		if err != nil {
			return errStatus("Load categories", err)
		}
		st, err := d.tracker.Streak()
		if err != nil {
			return errStatus("Load streak", err)
		}
		set, err := d.tracker.Settings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		return dashboardDataMsg{
			day:        day,
			active:     active,
			categories: cats,
			streak:     st,
			threshold:  set.LongTaskThreshold,
			exportFmt:  set.ExportFormat,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.day = msg.day
		d.categories = msg.categories
		d.streak = msg.streak
		d.threshold = msg.threshold
		d.exportFmt = msg.exportFmt
		d.timer.set(msg.active, d.tracker.Now())
		if d.cursor >= d.timer.count() {
			d.cursor = max(0, d.timer.count()-1)
		}
		return d, nil

	case tickMsg:
		d.timer.tick(d.tracker.Now())
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.New):
			return d.showForm(logFormStart)
		case key.Matches(msg, keys.Stop):
			if !d.timer.running() {
				return d, func() tea.Msg { return statusMsg{text: "Nothing is running"} }
			}
			l := d.timer.active[d.cursor]
			d.endingID = l.ID
			d.values.reset()
			d.values.location = l.Location
			return d.showForm(logFormEnd)
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < d.timer.count()-1 {
				d.cursor++
			}
		}
	}
	return d, nil
}

func (d dashboardModel) showForm(kind logFormKind) (dashboardModel, tea.Cmd) {
	if kind == logFormStart {
		d.values.reset()
	}
	d.formKind = kind
	d.form = buildLogForm(kind, d.values, d.categories, d.tracker.Location())
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.form = nil
		switch d.formKind {
		case logFormStart:
			n, err := d.values.newLog(d.tracker.Now(), d.tracker.Location())
			if err != nil {
				return d, func() tea.Msg { return errStatus("Start", err) }
			}
			return d.startLog(n)
		case logFormEnd:
			location := d.values.location
			return d.endLog(d.endingID, &location)
		}
	}
	return d, cmd
}

func (d dashboardModel) startLog(n model.NewLog) (dashboardModel, tea.Cmd) {
	l, err := d.tracker.Start(n)
	if err != nil {
		return d, func() tea.Msg { return errStatus("Start", err) }
	}
	return d, tea.Batch(
		d.refresh(),
		func() tea.Msg { return logStartedMsg{entry: l} },
	)
}

func (d dashboardModel) endLog(id string, location *string) (dashboardModel, tea.Cmd) {
	l, err := d.tracker.End(id, time.Time{}, location)
	if err != nil {
		return d, func() tea.Msg { return errStatus("End", err) }
	}
	return d, tea.Batch(
		d.refresh(),
		func() tea.Msg { return logEndedMsg{entry: l} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Start activity")
		if d.formKind == logFormEnd {
			title = titleStyle.Render("End activity")
		}
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderSummaryPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if !d.timer.running() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			clockStyle.Width(w-6).Render("00:00:00"),
			mutedStyle.Render("■  NOTHING RUNNING"),
			mutedStyle.Render("Press s to start an activity"),
		)
		return panelStyle.Width(w).Render(content)
	}

	_, longest, _ := d.timer.longest()
	rows := []string{
		clockRunningStyle.Width(w - 6).Render(formatDuration(longest)),
		successStyle.Render(fmt.Sprintf("●  %d RUNNING", d.timer.count())),
		"",
	}
	descWidth := max(10, w-40)
	for i, l := range d.timer.active {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		elapsed := d.timer.elapsedFor(l.ID)
		line := fmt.Sprintf("%s%s  %s  %s", cursor, formatDuration(elapsed),
			pad(l.Description, descWidth), mutedStyle.Render(categoryNames(d.categories, l.CategoryIDs)))
		if elapsed >= d.threshold {
			line = warningStyle.Render(line)
		} else {
			line = style.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", mutedStyle.Render("  s: start  x: end selected  ↑/↓: select"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	var total int64
	var stats []model.CategoryStat
	date := ""
	if d.day != nil {
		total, stats, date = d.day.TotalDuration, d.day.CategoryStats, d.day.Date
	}
	header := fmt.Sprintf("%s  %s  %s", titleStyle.Render("Today"), mutedStyle.Render(date),
		highlightStyle.Render(formatSeconds(total)))
	streak := accentStyle.Render(fmt.Sprintf("streak %d days", d.streak.Current)) +
		mutedStyle.Render(fmt.Sprintf("  (longest %d)", d.streak.Longest))

	if len(stats) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("Nothing finished today"),
			streak,
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{header}
	for _, s := range stats {
		c, _ := categoryByID(d.categories, s.CategoryID)
		rows = append(rows, fmt.Sprintf("  %s %s %s %5.1f%%  (%d logs)",
			colorDot(categoryColor(d.categories, s.CategoryID)),
			pad(c.Icon+" "+c.Name, 20),
			formatSeconds(int64(s.Duration)),
			s.Percentage,
			s.Count,
		))
	}
	rows = append(rows, streak)
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Finished Today")
	var done []model.LogEntry
	if d.day != nil {
		for _, l := range d.day.Logs {
			if l.Completed() {
				done = append(done, l)
			}
		}
	}
	if len(done) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No finished logs yet"),
		))
	}
	if len(done) > 5 {
		done = done[len(done)-5:]
	}

	loc := d.tracker.Location()
	rows := []string{title}
	for _, l := range done {
		span := l.StartTime.In(loc).Format("15:04") + "–" + l.EndTime.In(loc).Format("15:04")
		rows = append(rows, fmt.Sprintf("  ✓ %s  %s %s", span,
			pad(l.Description, max(10, w-40)), formatSeconds(l.Duration())))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
