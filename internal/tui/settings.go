package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/store"
	"github.com/sadopc/lifelog/internal/tracker"
)

type settingsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	settings   model.Settings
	loaded     bool
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekStart    *string
	threshold    *string
	exportFormat *string
}

func newSettingsModel(t *tracker.Tracker) settingsModel {
	ws, th, ef := "", "", ""
	return settingsModel{
		tracker:      t,
		weekStart:    &ws,
		threshold:    &th,
		exportFormat: &ef,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings model.Settings
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		set, err := s.tracker.Settings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		return settingsDataMsg{settings: set}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func thresholdOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.LongTaskThresholdOptions))
	for i, h := range model.LongTaskThresholdOptions {
		v := strconv.Itoa(h)
		opts[i] = huh.NewOption(formatSettingValue(store.SettingLongTaskThreshold, v), v)
	}
	return opts
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.weekStart = model.FormatWeekday(s.settings.WeekStart)
	*s.threshold = strconv.Itoa(int(s.settings.LongTaskThreshold.Hours()))
	*s.exportFormat = s.settings.ExportFormat
	if *s.exportFormat == "" {
		*s.exportFormat = model.DefaultExportFormat
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
			huh.NewSelect[string]().Title("Remind me about activities running longer than").
				Options(thresholdOptions()...).
				Value(s.threshold),
			huh.NewSelect[string]().Title("Default export format").
				Options(
					huh.NewOption("CSV", "csv"),
					huh.NewOption("JSON", "json"),
				).Value(s.exportFormat),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), func() tea.Msg { return errStatus("Save settings", err) })
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return statusMsg{text: "Settings saved"} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	return errors.Join(
		s.tracker.SetSetting(store.SettingWeekStart, *s.weekStart),
		s.tracker.SetSetting(store.SettingLongTaskThreshold, *s.threshold),
		s.tracker.SetSetting(store.SettingExportFormat, *s.exportFormat),
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	if !s.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")))
	}

	values := []struct{ key, value string }{
		{store.SettingWeekStart, model.FormatWeekday(s.settings.WeekStart)},
		{store.SettingLongTaskThreshold, strconv.Itoa(int(s.settings.LongTaskThreshold.Hours()))},
		{store.SettingExportFormat, s.settings.ExportFormat},
	}
	rows := []string{title, ""}
	for _, kv := range values {
		label := lipgloss.NewStyle().Width(24).Render(kv.key)
		value := highlightStyle.Render(formatSettingValue(kv.key, kv.value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingLongTaskThreshold:
		if h, err := strconv.Atoi(v); err == nil {
			if h == 1 {
				return "1 hour"
			}
			return fmt.Sprintf("%d hours", h)
		}
	case store.SettingWeekStart:
		if d, err := model.ParseWeekday(v); err == nil {
			return d.String()
		}
	case store.SettingExportFormat:
		if v == "json" {
			return "JSON"
		}
		if v == "csv" {
			return "CSV"
		}
	}
	return v
}
