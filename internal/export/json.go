package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/stats"
)

const formatVersion = "1.0.0"

// Range is the period an export covers; zero values are omitted.
type Range struct {
	From time.Time
	To   time.Time
}

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Version    string      `json:"version"`
	From       string      `json:"from,omitempty"`
	To         string      `json:"to,omitempty"`
	Count      int         `json:"count"`
	Summary    jsonSummary `json:"summary"`
	Logs       []jsonLog   `json:"logs"`
}

type jsonSummary struct {
	Completed     int                  `json:"completed"`
	TotalSeconds  int64                `json:"total_seconds"`
	Total         string               `json:"total"`
	CategoryStats []model.CategoryStat `json:"category_stats"`
}

type jsonLog struct {
	ID          string   `json:"id"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time,omitempty"`
	DurationSec int64    `json:"duration_seconds"`
	Duration    string   `json:"duration"`
	CategoryIDs []string `json:"category_ids"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Status      string   `json:"status"`
}

// ToJSON writes logs and their summary to a new file at path.
func ToJSON(logs []model.LogEntry, categories []model.Category, r Range, path string, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, logs, categories, r, time.Now(), loc)
}

// WriteJSON encodes the export document. The summary covers completed logs only.
func WriteJSON(w io.Writer, logs []model.LogEntry, categories []model.Category, r Range, now time.Time, loc *time.Location) error {
	names := categoryNames(categories)
	doc := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Version:    formatVersion,
		Count:      len(logs),
		Logs:       make([]jsonLog, 0, len(logs)),
	}
	if !r.From.IsZero() {
		doc.From = r.From.In(loc).Format(time.RFC3339)
	}
	if !r.To.IsZero() {
		doc.To = r.To.In(loc).Format(time.RFC3339)
	}

	var items []stats.Contribution
	for _, l := range logs {
		endStr := ""
		if l.EndTime != nil {
			endStr = l.EndTime.In(loc).Format(time.RFC3339)
			items = append(items, stats.Contribution{CategoryIDs: l.CategoryIDs, Duration: l.Duration()})
			doc.Summary.Completed++
			doc.Summary.TotalSeconds += l.Duration()
		}
		doc.Logs = append(doc.Logs, jsonLog{
			ID:          l.ID,
			StartTime:   l.StartTime.In(loc).Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: l.Duration(),
			Duration:    formatDuration(l.Duration()),
			CategoryIDs: l.CategoryIDs,
			Categories:  resolveNames(l.CategoryIDs, names),
			Description: l.Description,
			Location:    l.Location,
			Status:      string(l.Status()),
		})
	}
	doc.Summary.Total = formatDuration(doc.Summary.TotalSeconds)
	doc.Summary.CategoryStats = stats.Aggregate(items, categories)

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
