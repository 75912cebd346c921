package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/sadopc/lifelog/internal/model"
)

const defaultWidth = 100

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// fit truncates s to width display cells and pads it on the right.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveCategories maps ids or case-insensitive names to category ids.
func resolveCategories(cats []model.Category, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		c, ok := findCategory(cats, ref)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", model.ErrInvalidInput, ref)
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func findCategory(cats []model.Category, ref string) (model.Category, bool) {
	for _, c := range cats {
		if c.ID == ref {
			return c, true
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

func categoryLabel(cats []model.Category, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := findCategory(cats, id); ok {
			names = append(names, c.Name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, ", ")
}

func categoryName(cats []model.Category, id string) string {
	if c, ok := findCategory(cats, id); ok {
		if c.Icon != "" {
			return c.Icon + " " + c.Name
		}
		return c.Name
	}
	return id
}

// bar draws a proportional bar of at most width cells.
func bar(pct float64, width int) string {
	n := int(pct / 100 * float64(width))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}
