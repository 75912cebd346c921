package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/sadopc/lifelog/internal/model"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewLogs
	viewCategories
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Logs", "Categories", "Reports", "Settings"}

// --- Messages ---

type logStartedMsg struct {
	entry *model.LogEntry
}

type logEndedMsg struct {
	entry *model.LogEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// dbChangedMsg is sent when another process wrote to the database.
type dbChangedMsg struct{}

type longTaskCheckMsg struct{}

type longTaskMsg struct {
	ids []string
}

type exportDoneMsg struct {
	path  string
	count int
}

func errStatus(prefix string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// pad truncates and right-pads s to exactly width cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func categoryByID(cats []model.Category, id string) (model.Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func categoryNames(cats []model.Category, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := categoryByID(cats, id); ok {
			names = append(names, c.Icon+" "+c.Name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, ", ")
}

func categoryColor(cats []model.Category, id string) string {
	if c, ok := categoryByID(cats, id); ok {
		return c.Color
	}
	return string(colorMuted)
}
