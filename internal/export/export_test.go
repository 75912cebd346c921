package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/lifelog/internal/model"
)

func sampleData() ([]model.LogEntry, []model.Category) {
	start := time.Date(2025, 11, 8, 9, 0, 0, 0, time.UTC)
	end1 := start.Add(90 * time.Minute)
	end2 := start.Add(3 * time.Hour)

	logs := []model.LogEntry{
		{
			ID:          "a",
			StartTime:   start,
			EndTime:     &end1,
			CategoryIDs: []string{"default-work", "default-study"},
			Description: "worked on feature",
			Location:    "office",
		},
		{
			ID:          "b",
			StartTime:   start.Add(2 * time.Hour),
			EndTime:     &end2,
			CategoryIDs: []string{"default-meal"},
			Description: `lunch, "quoted"`,
		},
		{
			ID:          "c",
			StartTime:   start.Add(4 * time.Hour),
			CategoryIDs: []string{"gone"},
			Description: "still running",
		},
	}
	return logs, model.DefaultCategories
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	logs, cats := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(logs, cats, path, time.UTC)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2025-11-08T09:00:00Z" {
		t.Fatalf("Start = %q", row[0])
	}
	if row[2] != "90" {
		t.Fatalf("Minutes = %q, want 90", row[2])
	}
	if row[3] != "01:30:00" {
		t.Fatalf("Duration = %q, want 01:30:00", row[3])
	}
	if row[4] != "Work;Study" {
		t.Fatalf("Categories = %q, want Work;Study", row[4])
	}
	if row[5] != "office" || row[6] != "worked on feature" {
		t.Fatalf("unexpected location/description %q %q", row[5], row[6])
	}

	if records[2][6] != `lunch, "quoted"` {
		t.Fatalf("description not escaped correctly: %q", records[2][6])
	}

	// Running log has an empty end and keeps unknown category ids
	running := records[3]
	if running[1] != "" || running[2] != "0" {
		t.Fatalf("running log should have empty end and 0 minutes, got %q %q", running[1], running[2])
	}
	if running[4] != "gone" {
		t.Fatalf("unknown category should be kept as id, got %q", running[4])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, nil, path, time.UTC)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestWriteCSVUsesLocation(t *testing.T) {
	logs, cats := sampleData()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, logs[:1], cats, time.FixedZone("UTC+9", 9*3600)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2025-11-08T18:00:00+09:00") {
		t.Fatalf("expected local start time, got %s", buf.String())
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, nil, filepath.Join(t.TempDir(), "missing", "x.csv"), time.UTC)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	logs, cats := sampleData()
	now := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)
	r := Range{From: time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC), To: now}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, logs, cats, r, now, time.UTC); err != nil {
		t.Fatal(err)
	}

	var doc jsonExport
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.ExportedAt != "2025-11-09T00:00:00Z" || doc.Version != formatVersion {
		t.Fatalf("unexpected header %+v", doc)
	}
	if doc.From != "2025-11-08T00:00:00Z" || doc.To != "2025-11-09T00:00:00Z" {
		t.Fatalf("unexpected range %q..%q", doc.From, doc.To)
	}
	if doc.Count != 3 || len(doc.Logs) != 3 {
		t.Fatalf("expected 3 logs, got %d/%d", doc.Count, len(doc.Logs))
	}
	if doc.Summary.Completed != 2 {
		t.Fatalf("expected 2 completed, got %d", doc.Summary.Completed)
	}
	if doc.Summary.TotalSeconds != 90*60+60*60 {
		t.Fatalf("total = %d", doc.Summary.TotalSeconds)
	}
	if doc.Summary.Total != "02:30:00" {
		t.Fatalf("total formatted = %q", doc.Summary.Total)
	}
	if len(doc.Summary.CategoryStats) != 3 {
		t.Fatalf("expected 3 category stats, got %d", len(doc.Summary.CategoryStats))
	}
	if doc.Logs[2].Status != "active" || doc.Logs[2].EndTime != "" {
		t.Fatalf("unexpected running log %+v", doc.Logs[2])
	}
	if doc.Logs[0].Categories[1] != "Study" {
		t.Fatalf("expected category names, got %v", doc.Logs[0].Categories)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, Range{}, path, time.UTC); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc jsonExport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Count != 0 || doc.Logs == nil || len(doc.Logs) != 0 {
		t.Fatalf("expected an empty logs array, got %s", data)
	}
	if doc.From != "" {
		t.Fatalf("zero range should be omitted, got %q", doc.From)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Fatalf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
