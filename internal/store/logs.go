package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/split"
)

const logColumns = `id, start_time, end_time, description, location, created_at, updated_at`

// CreateLog inserts a log. When an end time is given the log is stored
// completed and its day segments are written in the same transaction.
func (s *Store) CreateLog(n model.NewLog) (*model.LogEntry, error) {
	if err := model.ValidateNewLog(n); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	now := formatTime(s.now())

	var end any
	if n.EndTime != nil {
		end = formatTime(*n.EndTime)
	}
	err := s.withTx(func(tx *sql.Tx) error {
		if err := checkCategories(tx, n.CategoryIDs); err != nil {
			return err
		}
		_, err := tx.Exec(
			`INSERT INTO logs (id, start_time, end_time, description, location, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, formatTime(n.StartTime), end, n.Description, n.Location, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		if err := setLogCategories(tx, id, n.CategoryIDs); err != nil {
			return err
		}
		return s.resplit(tx, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("log created", "log", id, "completed", n.EndTime != nil)
	return s.GetLog(id)
}

// EndLog completes an active log, optionally recording where it ended.
func (s *Store) EndLog(id string, end time.Time, location *string) (*model.LogEntry, error) {
	if location != nil {
		if err := model.ValidateLocation(*location); err != nil {
			return nil, err
		}
	}
	err := s.withTx(func(tx *sql.Tx) error {
		l, err := getLog(tx, id)
		if err != nil {
			return fmt.Errorf("end log %s: %w", id, err)
		}
		if l.EndTime != nil {
			return fmt.Errorf("end log %s: %w", id, model.ErrAlreadyEnded)
		}
		if !end.Truncate(time.Second).After(l.StartTime) {
			return fmt.Errorf("end log %s: %w", id, model.ErrEndBeforeStart)
		}
		loc := l.Location
		if location != nil {
			loc = *location
		}
		_, err = tx.Exec(
			`UPDATE logs SET end_time = ?, location = ?, updated_at = ? WHERE id = ?`,
			formatTime(end), loc, formatTime(s.now()), id,
		)
		if err != nil {
			return fmt.Errorf("end log %s: %w", id, err)
		}
		return s.resplit(tx, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("log ended", "log", id)
	return s.GetLog(id)
}

// UpdateLog applies a partial edit and regenerates the log's segments in the
// same transaction.
func (s *Store) UpdateLog(id string, p model.LogPatch) (*model.LogEntry, error) {
	if err := model.ValidatePatch(p); err != nil {
		return nil, err
	}
	err := s.withTx(func(tx *sql.Tx) error {
		l, err := getLog(tx, id)
		if err != nil {
			return fmt.Errorf("update log %s: %w", id, err)
		}
		if p.Description != nil {
			l.Description = *p.Description
		}
		if p.Location != nil {
			l.Location = *p.Location
		}
		if p.StartTime != nil {
			l.StartTime = p.StartTime.Truncate(time.Second)
		}
		if p.EndTime != nil {
			e := p.EndTime.Truncate(time.Second)
			l.EndTime = &e
		}
		if p.ClearEnd {
			l.EndTime = nil
		}
		if l.EndTime != nil && !l.EndTime.After(l.StartTime) {
			return fmt.Errorf("update log %s: %w", id, model.ErrEndBeforeStart)
		}

		var end any
		if l.EndTime != nil {
			end = formatTime(*l.EndTime)
		}
		_, err = tx.Exec(
			`UPDATE logs SET start_time = ?, end_time = ?, description = ?, location = ?, updated_at = ? WHERE id = ?`,
			formatTime(l.StartTime), end, l.Description, l.Location, formatTime(s.now()), id,
		)
		if err != nil {
			return fmt.Errorf("update log %s: %w", id, err)
		}
		if p.CategoryIDs != nil {
			if err := checkCategories(tx, p.CategoryIDs); err != nil {
				return err
			}
			if err := setLogCategories(tx, id, p.CategoryIDs); err != nil {
				return err
			}
		}
		if !p.TouchesSegments() {
			return nil
		}
		return s.resplit(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.GetLog(id)
}

// DeleteLog removes a log; its segments and category links go with it.
func (s *Store) DeleteLog(id string) error {
	res, err := s.db.Exec(`DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete log %s: %w", id, model.ErrNotFound)
	}
	s.logger.Debug("log deleted", "log", id)
	return nil
}

func (s *Store) GetLog(id string) (*model.LogEntry, error) {
	l, err := getLog(s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get log %s: %w", id, err)
	}
	return l, nil
}

// ActiveLogs returns every log without an end time, oldest first.
func (s *Store) ActiveLogs() ([]model.LogEntry, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM logs WHERE end_time IS NULL ORDER BY start_time, id`)
}

// LogsInRange returns logs starting in [from, to), oldest first.
func (s *Store) LogsInRange(from, to time.Time) ([]model.LogEntry, error) {
	return s.queryLogs(
		`SELECT `+logColumns+` FROM logs WHERE start_time >= ? AND start_time < ? ORDER BY start_time, id`,
		formatTime(from), formatTime(to),
	)
}

// LogsForDate returns the logs that touch the calendar date: those starting on
// it, plus earlier ones still running or ending after its first instant.
func (s *Store) LogsForDate(date string) ([]model.LogEntry, error) {
	start, end, err := model.DayBounds(date, s.loc)
	if err != nil {
		return nil, err
	}
	from, to := formatTime(start), formatTime(end)
	return s.queryLogs(
		`SELECT `+logColumns+` FROM logs
		 WHERE (start_time >= ? AND start_time < ?)
		    OR (start_time < ? AND (end_time IS NULL OR end_time > ?))
		 ORDER BY start_time, id`,
		from, to, from, from,
	)
}

// ListLogs returns logs matching the filter, newest first.
func (s *Store) ListLogs(f model.LogFilter) ([]model.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE 1=1`
	var args []any

	if f.CategoryID != "" {
		query += ` AND EXISTS (SELECT 1 FROM log_categories lc WHERE lc.log_id = logs.id AND lc.category_id = ?)`
		args = append(args, f.CategoryID)
	}
	switch f.Status {
	case model.StatusActive:
		query += ` AND end_time IS NULL`
	case model.StatusCompleted:
		query += ` AND end_time IS NOT NULL`
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY start_time DESC, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}
	return s.queryLogs(query, args...)
}

func (s *Store) queryLogs(query string, args ...any) ([]model.LogEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	var logs []model.LogEntry
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		logs = append(logs, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadCategoryIDs(s.db, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func scanLog(row interface{ Scan(...any) error }) (model.LogEntry, error) {
	var l model.LogEntry
	var startTime, createdAt, updatedAt string
	var endTime sql.NullString
	if err := row.Scan(&l.ID, &startTime, &endTime, &l.Description, &l.Location, &createdAt, &updatedAt); err != nil {
		return l, err
	}
	l.StartTime = parseTime(startTime)
	if endTime.Valid {
		t := parseTime(endTime.String)
		l.EndTime = &t
	}
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return l, nil
}

func getLog(q querier, id string) (*model.LogEntry, error) {
	l, err := scanLog(q.QueryRow(`SELECT `+logColumns+` FROM logs WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	logs := []model.LogEntry{l}
	if err := loadCategoryIDs(q, logs); err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// loadCategoryIDs fills CategoryIDs of each log in tag order.
func loadCategoryIDs(q querier, logs []model.LogEntry) error {
	if len(logs) == 0 {
		return nil
	}
	index := make(map[string]int, len(logs))
	args := make([]any, len(logs))
	for i, l := range logs {
		index[l.ID] = i
		args[i] = l.ID
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(logs)), ",")
	rows, err := q.Query(
		`SELECT log_id, category_id FROM log_categories WHERE log_id IN (`+placeholders+`) ORDER BY log_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("load log categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var logID, catID string
		if err := rows.Scan(&logID, &catID); err != nil {
			return err
		}
		i := index[logID]
		logs[i].CategoryIDs = append(logs[i].CategoryIDs, catID)
	}
	return rows.Err()
}

func setLogCategories(tx *sql.Tx, id string, categoryIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM log_categories WHERE log_id = ?`, id); err != nil {
		return fmt.Errorf("clear log categories: %w", err)
	}
	for i, c := range categoryIDs {
		if _, err := tx.Exec(`INSERT INTO log_categories (log_id, category_id, position) VALUES (?, ?, ?)`, id, c, i); err != nil {
			return fmt.Errorf("link category %s: %w", c, err)
		}
	}
	return nil
}

// resplit rereads the log inside tx and replaces its segments.
func (s *Store) resplit(tx *sql.Tx, id string) error {
	l, err := getLog(tx, id)
	if err != nil {
		return fmt.Errorf("reload log %s: %w", id, err)
	}
	return s.replaceSegments(tx, id, split.Split(*l, s.loc))
}
