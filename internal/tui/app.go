package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	"github.com/sadopc/lifelog/internal/export"
	"github.com/sadopc/lifelog/internal/notify"
	"github.com/sadopc/lifelog/internal/tracker"
	"github.com/sadopc/lifelog/internal/watch"
)

const longTaskInterval = time.Minute

var exportFormats = []string{"csv", "json"}

// Options configures the optional collaborators of the App.
type Options struct {
	Notifier notify.Notifier
	Watcher  *watch.Watcher
	Logger   hclog.Logger
	// ExportDir receives export files; the home directory when empty.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	logger  hclog.Logger
	checker *notify.LongTaskChecker
	changes <-chan struct{}
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard  dashboardModel
	logs       logsModel
	categories categoriesModel
	reports    reportsModel
	settings   settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(t *tracker.Tracker, opts Options) App {
	h := help.New()
	h.ShowAll = false

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	n := opts.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	var changes <-chan struct{}
	if opts.Watcher != nil {
		changes = opts.Watcher.Events()
	}

	return App{
		tracker:    t,
		logger:     logger.Named("tui"),
		checker:    notify.NewLongTaskChecker(n, logger),
		changes:    changes,
		exportDir:  opts.ExportDir,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(t),
		logs:       newLogsModel(t),
		categories: newCategoriesModel(t),
		reports:    newReportsModel(t),
		settings:   newSettingsModel(t),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
		a.checkLongTasks(),
		longTaskTickCmd(),
		waitForChange(a.changes),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func longTaskTickCmd() tea.Cmd {
	return tea.Tick(longTaskInterval, func(time.Time) tea.Msg {
		return longTaskCheckMsg{}
	})
}

// waitForChange blocks until the database changes on disk. A nil or closed
// channel ends the wait loop.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}

// checkLongTasks notifies about active logs running past the threshold.
func (a App) checkLongTasks() tea.Cmd {
	return func() tea.Msg {
		active, err := a.tracker.ActiveLogs()
		if err != nil {
			return errStatus("Check running logs", err)
		}
		set, err := a.tracker.Settings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		return longTaskMsg{ids: a.checker.Check(active, set.LongTaskThreshold, a.tracker.Now())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.logs.setSize(a.width, contentHeight)
		a.categories.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			if a.dashboard.exportFmt == "json" {
				a.exportCursor = 1
			}
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewLogs)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewCategories)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			// The reports view uses tab to cycle its own modes.
			if a.activeView != viewReports {
				return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
			}
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Always route ticks to dashboard timer
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case longTaskCheckMsg:
		return a, tea.Batch(a.checkLongTasks(), longTaskTickCmd())

	case longTaskMsg:
		if len(msg.ids) > 0 {
			a.setStatus(fmt.Sprintf("%d %s past the reminder threshold", len(msg.ids), pluralize(len(msg.ids), "activity", "activities")), false)
		}
		return a, nil

	case dbChangedMsg:
		a.logger.Debug("database changed on disk")
		cmds = append(cmds, a.dashboard.refresh(), waitForChange(a.changes))
		if a.activeView != viewDashboard {
			cmds = append(cmds, a.refreshCurrentView())
		}
		return a, tea.Batch(cmds...)

	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case logsDataMsg:
		var cmd tea.Cmd
		a.logs, cmd = a.logs.update(msg)
		return a, cmd

	case categoriesDataMsg:
		var cmd tea.Cmd
		a.categories, cmd = a.categories.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case logStartedMsg:
		a.setStatus(fmt.Sprintf("Started %q", msg.entry.Description), false)
		return a, nil

	case logEndedMsg:
		a.setStatus(fmt.Sprintf("Ended %q after %s", msg.entry.Description, formatSeconds(msg.entry.Duration())), false)
		return a, a.checkLongTasks()

	case exportDoneMsg:
		a.setStatus(fmt.Sprintf("Exported %d logs to %s", msg.count, msg.path), false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusError = isError
	if isError {
		a.logger.Warn("status", "message", text)
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewLogs:
		a.logs, cmd = a.logs.update(msg)
	case viewCategories:
		a.categories, cmd = a.categories.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewLogs:
		return a.logs.formActive
	case viewCategories:
		return a.categories.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.refresh()
	case viewLogs:
		return a.logs.refresh()
	case viewCategories:
		return a.categories.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewLogs:
		content = a.logs.view()
	case viewCategories:
		content = a.categories.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("lifelog")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	timerInfo := ""
	if a.dashboard.timer.running() {
		_, longest, _ := a.dashboard.timer.longest()
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %d running  %s", a.dashboard.timer.count(), formatDuration(longest)))
		if longest >= a.dashboard.threshold {
			timerInfo = warningStyle.Render(fmt.Sprintf(" ● %d running  %s", a.dashboard.timer.count(), formatDuration(longest)))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+formatSettingValue("export_format", f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes every log to <dir>/lifelog-export-<today>.<format>.
func (a App) doExport(format string) tea.Cmd {
	return func() tea.Msg {
		logs, start, end, err := a.tracker.LogsBetween("", "")
		if err != nil {
			return errStatus("Export", err)
		}
		cats, err := a.tracker.Categories()
		if err != nil {
			return errStatus("Export", err)
		}

		dir := a.exportDir
		if dir == "" {
			if dir, err = os.UserHomeDir(); err != nil {
				return errStatus("Export", err)
			}
		}
		path := filepath.Join(dir, fmt.Sprintf("lifelog-export-%s.%s", a.tracker.Today(), format))

		loc := a.tracker.Location()
		if format == "json" {
			err = export.ToJSON(logs, cats, export.Range{From: start, To: end}, path, loc)
		} else {
			err = export.ToCSV(logs, cats, path, loc)
		}
		if err != nil {
			return errStatus("Export", err)
		}
		a.logger.Info("exported logs", "path", path, "format", format, "count", len(logs))
		return exportDoneMsg{path: path, count: len(logs)}
	}
}
