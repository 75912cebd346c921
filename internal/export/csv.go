package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sadopc/lifelog/internal/model"
)

var csvHeader = []string{"Start", "End", "Minutes", "Duration", "Categories", "Location", "Description"}

// ToCSV writes logs to a new file at path.
func ToCSV(logs []model.LogEntry, categories []model.Category, path string, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, logs, categories, loc)
}

// WriteCSV writes one row per log. Active logs have an empty end and zero duration.
func WriteCSV(out io.Writer, logs []model.LogEntry, categories []model.Category, loc *time.Location) error {
	names := categoryNames(categories)
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range logs {
		endStr := ""
		if l.EndTime != nil {
			endStr = l.EndTime.In(loc).Format(time.RFC3339)
		}
		secs := l.Duration()
		row := []string{
			l.StartTime.In(loc).Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", secs/60),
			formatDuration(secs),
			strings.Join(resolveNames(l.CategoryIDs, names), ";"),
			l.Location,
			l.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func categoryNames(categories []model.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// resolveNames maps ids to names; unknown ids are kept as-is.
func resolveNames(ids []string, names map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, id)
		}
	}
	return out
}
