package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/lifelog/internal/model"
)

const (
	SettingWeekStart         = "week_start"
	SettingLongTaskThreshold = "long_task_threshold"
	SettingExportFormat      = "export_format"
	SettingStreakCurrent     = "streak_current"
	SettingStreakLongest     = "streak_longest"
	SettingStreakLastActive  = "streak_last_active"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, notFound(err))
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetAllSettings() ([]model.Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (s *Store) settingsMap() (map[string]string, error) {
	all, err := s.GetAllSettings()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(all))
	for _, kv := range all {
		m[kv.Key] = kv.Value
	}
	return m, nil
}

// LoadSettings reads the user preferences, falling back to defaults for
// missing or unparsable values.
func (s *Store) LoadSettings() (model.Settings, error) {
	out := model.Settings{
		WeekStart:         time.Monday,
		LongTaskThreshold: model.DefaultLongTaskThresholdHours * time.Hour,
		ExportFormat:      model.DefaultExportFormat,
	}
	m, err := s.settingsMap()
	if err != nil {
		return out, err
	}
	if v, ok := m[SettingWeekStart]; ok {
		if d, err := model.ParseWeekday(v); err == nil {
			out.WeekStart = d
		} else {
			s.logger.Warn("bad setting", "key", SettingWeekStart, "value", v)
		}
	}
	if v, ok := m[SettingLongTaskThreshold]; ok {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			out.LongTaskThreshold = time.Duration(h) * time.Hour
		} else {
			s.logger.Warn("bad setting", "key", SettingLongTaskThreshold, "value", v)
		}
	}
	if v, ok := m[SettingExportFormat]; ok && (v == "csv" || v == "json") {
		out.ExportFormat = v
	}
	return out, nil
}

// LoadStreak returns the persisted streak; a fresh database yields the zero state.
func (s *Store) LoadStreak() (model.StreakState, error) {
	var st model.StreakState
	m, err := s.settingsMap()
	if err != nil {
		return st, err
	}
	st.Current, _ = strconv.Atoi(m[SettingStreakCurrent])
	st.Longest, _ = strconv.Atoi(m[SettingStreakLongest])
	st.LastActiveDate = m[SettingStreakLastActive]
	return st, nil
}

func (s *Store) SaveStreak(st model.StreakState) error {
	return s.withTx(func(tx *sql.Tx) error {
		for k, v := range map[string]string{
			SettingStreakCurrent:    strconv.Itoa(st.Current),
			SettingStreakLongest:    strconv.Itoa(st.Longest),
			SettingStreakLastActive: st.LastActiveDate,
		} {
			_, err := tx.Exec(
				`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				k, v,
			)
			if err != nil {
				return fmt.Errorf("save streak: %w", err)
			}
		}
		return nil
	})
}
