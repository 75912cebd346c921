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

const logsPageSize = 50

type logsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	logs       []model.LogEntry
	categories []model.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formKind   logFormKind
	values     *logFormValues
	target     model.LogEntry // log being edited, ended or deleted
}

func newLogsModel(t *tracker.Tracker) logsModel {
	return logsModel{tracker: t, values: &logFormValues{}}
}

func (m *logsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type logsDataMsg struct {
	logs       []model.LogEntry
	categories []model.Category
}

func (m logsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		logs, err := m.tracker.Logs(model.LogFilter{Limit: logsPageSize})
		if err != nil {
			return errStatus("Load logs", err)
		}
		cats, err := m.tracker.Categories()
		if err != nil {
			return errStatus("Load categories", err)
		}
		return logsDataMsg{logs: logs, categories: cats}
	}
}

func (m logsModel) selected() (model.LogEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.logs) {
		return model.LogEntry{}, false
	}
	return m.logs[m.cursor], true
}

func (m logsModel) update(msg tea.Msg) (logsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case logsDataMsg:
		m.logs = msg.logs
		m.categories = msg.categories
		if m.cursor >= len(m.logs) {
			m.cursor = max(0, len(m.logs)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.logs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			m.values.reset()
			m.values.start = m.tracker.Now().In(m.tracker.Location()).Add(-time.Hour).Format("2006-01-02 15:04")
			return m.showForm(logFormAdd)
		case key.Matches(msg, keys.Start):
			m.values.reset()
			return m.showForm(logFormStart)
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if l, ok := m.selected(); ok {
				m.target = l
				m.values.fill(l, m.tracker.Location())
				return m.showForm(logFormEdit)
			}
		case key.Matches(msg, keys.Stop):
			if l, ok := m.selected(); ok {
				if l.Completed() {
					return m, func() tea.Msg { return statusMsg{text: "Log already ended"} }
				}
				m.target = l
				m.values.reset()
				m.values.location = l.Location
				return m.showForm(logFormEnd)
			}
		case key.Matches(msg, keys.Delete):
			if l, ok := m.selected(); ok {
				m.target = l
				m.values.reset()
				return m.showForm(logFormDelete)
			}
		}
	}
	return m, nil
}

func (m logsModel) showForm(kind logFormKind) (logsModel, tea.Cmd) {
	m.formKind = kind
	m.form = buildLogForm(kind, m.values, m.categories, m.tracker.Location())
	m.formActive = true
	return m, m.form.Init()
}

func (m logsModel) updateForm(msg tea.Msg) (logsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		return m.submit()
	}
	return m, cmd
}

// submit applies the completed form to the store.
func (m logsModel) submit() (logsModel, tea.Cmd) {
	now, loc := m.tracker.Now(), m.tracker.Location()
	var status string
	var err error

	switch m.formKind {
	case logFormAdd, logFormStart:
		var n model.NewLog
		if n, err = m.values.newLog(now, loc); err == nil {
			var l *model.LogEntry
			if m.formKind == logFormStart {
				l, err = m.tracker.Start(n)
			} else {
				l, err = m.tracker.Create(n)
			}
			if err == nil {
				status = fmt.Sprintf("Saved %q", l.Description)
			}
		}
	case logFormEdit:
		var p model.LogPatch
		if p, err = m.values.patch(m.target, now, loc); err == nil {
			if _, err = m.tracker.Update(m.target.ID, p); err == nil {
				status = "Log updated"
			}
		}
	case logFormEnd:
		location := m.values.location
		var l *model.LogEntry
		if l, err = m.tracker.End(m.target.ID, time.Time{}, &location); err == nil {
			status = fmt.Sprintf("Ended %q after %s", l.Description, formatSeconds(l.Duration()))
		}
	case logFormDelete:
		if !m.values.confirm {
			return m, nil
		}
		if err = m.tracker.Delete(m.target.ID); err == nil {
			status = "Log deleted"
		}
	}

	if err != nil {
		return m, func() tea.Msg { return errStatus("Save", err) }
	}
	return m, tea.Batch(m.refresh(), func() tea.Msg { return statusMsg{text: status} })
}

func (m logsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		titles := map[logFormKind]string{
			logFormStart:  "Start Activity",
			logFormAdd:    "Add Finished Activity",
			logFormEdit:   "Edit Log",
			logFormEnd:    "End Activity",
			logFormDelete: "Delete Log",
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(titles[m.formKind]), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Logs")
	if len(m.logs) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No logs yet. Press n to add one or s to start one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	loc := m.tracker.Location()
	now := m.tracker.Now()
	descWidth := max(12, w-72)

	rows := []string{title, ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s %s %s %s %s",
		pad("Start", 16), pad("End", 11), pad("Duration", 9), pad("Categories", 24), "Description")))

	// Keep the cursor visible when the list is taller than the panel.
	visible := max(5, m.height-10)
	first := 0
	if m.cursor >= visible {
		first = m.cursor - visible + 1
	}
	last := min(len(m.logs), first+visible)

	for i := first; i < last; i++ {
		l := m.logs[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		start := l.StartTime.In(loc)
		end := successStyle.Render(pad("● running", 11))
		if l.EndTime != nil {
			e := l.EndTime.In(loc)
			if model.DateOf(e, loc) == model.DateOf(start, loc) {
				end = pad(e.Format("15:04"), 11)
			} else {
				end = pad(e.Format("01-02 15:04"), 11)
			}
		}
		dur := formatDuration(l.Elapsed(now))
		rows = append(rows, style.Render(cursor+pad(start.Format("2006-01-02 15:04"), 16)+" ")+end+
			style.Render(" "+pad(dur, 9)+" "+pad(categoryNames(m.categories, l.CategoryIDs), 24)+" "+truncate(l.Description, descWidth)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add  s: start  e: edit  x: end  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
