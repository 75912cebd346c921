package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/split"
)

const segmentColumns = `id, parent_id, date, start_time, end_time, duration, category_ids, description, location, is_first, is_last`

// RebuildFailure records a parent whose segments could not be regenerated.
type RebuildFailure struct {
	LogID string
	Err   error
}

// RebuildReport summarises a RebuildSegments run.
type RebuildReport struct {
	Logs     int
	Segments int
	Failures []RebuildFailure
}

func (s *Store) SegmentsForParent(parentID string) ([]model.Segment, error) {
	return s.querySegments(`SELECT `+segmentColumns+` FROM segments WHERE parent_id = ? ORDER BY date`, parentID)
}

func (s *Store) SegmentsForDate(date string) ([]model.Segment, error) {
	return s.querySegments(`SELECT `+segmentColumns+` FROM segments WHERE date = ? ORDER BY start_time, parent_id`, date)
}

// ReplaceSegments swaps the parent's segments for segs in one transaction.
// Readers see either the old set or the new one.
func (s *Store) ReplaceSegments(parentID string, segs []model.Segment) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.replaceSegments(tx, parentID, segs)
	})
}

func (s *Store) replaceSegments(tx *sql.Tx, parentID string, segs []model.Segment) error {
	if _, err := tx.Exec(`DELETE FROM segments WHERE parent_id = ?`, parentID); err != nil {
		return fmt.Errorf("delete segments of %s: %w", parentID, err)
	}
	for _, sg := range segs {
		if sg.ParentID != parentID {
			return fmt.Errorf("%w: segment %s belongs to %s, not %s", model.ErrInvalidInput, sg.ID, sg.ParentID, parentID)
		}
		_, err := tx.Exec(
			`INSERT INTO segments (`+segmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sg.ID, sg.ParentID, sg.Date, formatTime(sg.StartTime), formatTime(sg.EndTime), sg.Duration,
			strings.Join(sg.CategoryIDs, ","), sg.Description, sg.Location, boolInt(sg.IsFirst), boolInt(sg.IsLast),
		)
		if err != nil {
			return fmt.Errorf("insert segment %s/%s: %w", parentID, sg.Date, err)
		}
	}
	s.logger.Debug("segments replaced", "log", parentID, "count", len(segs))
	return nil
}

// RebuildSegments regenerates the segments of every completed log. Each log is
// rebuilt in its own transaction, so a failure leaves the others intact and
// the run can simply be repeated.
func (s *Store) RebuildSegments() (RebuildReport, error) {
	var report RebuildReport

	rows, err := s.db.Query(`SELECT id FROM logs WHERE end_time IS NOT NULL ORDER BY start_time, id`)
	if err != nil {
		return report, fmt.Errorf("list completed logs: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return report, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return report, err
	}

	// Segments of active logs are stale by definition.
	if _, err := s.db.Exec(`DELETE FROM segments WHERE parent_id IN (SELECT id FROM logs WHERE end_time IS NULL)`); err != nil {
		return report, fmt.Errorf("clear active segments: %w", err)
	}

	for _, id := range ids {
		var n int
		err := s.withTx(func(tx *sql.Tx) error {
			l, err := getLog(tx, id)
			if err != nil {
				return err
			}
			segs := split.Split(*l, s.loc)
			n = len(segs)
			return s.replaceSegments(tx, id, segs)
		})
		if err != nil {
			s.logger.Warn("segment rebuild failed", "log", id, "error", err)
			report.Failures = append(report.Failures, RebuildFailure{LogID: id, Err: err})
			continue
		}
		report.Logs++
		report.Segments += n
	}
	s.logger.Info("segments rebuilt", "logs", report.Logs, "segments", report.Segments, "failures", len(report.Failures))
	return report, nil
}

func (s *Store) querySegments(query string, args ...any) ([]model.Segment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segs []model.Segment
	for rows.Next() {
		var sg model.Segment
		var startTime, endTime, categoryIDs string
		var isFirst, isLast int
		if err := rows.Scan(&sg.ID, &sg.ParentID, &sg.Date, &startTime, &endTime, &sg.Duration,
			&categoryIDs, &sg.Description, &sg.Location, &isFirst, &isLast); err != nil {
			return nil, err
		}
		sg.StartTime = parseTime(startTime)
		sg.EndTime = parseTime(endTime)
		if categoryIDs != "" {
			sg.CategoryIDs = strings.Split(categoryIDs, ",")
		}
		sg.IsFirst = isFirst == 1
		sg.IsLast = isLast == 1
		segs = append(segs, sg)
	}
	return segs, rows.Err()
}
