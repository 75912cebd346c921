package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/lifelog/internal/model"
)

const categoryColumns = `id, name, color, icon, description, is_default, sort_order, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	var createdAt, updatedAt string
	var isDefault int
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Description, &isDefault, &c.SortOrder, &createdAt, &updatedAt); err != nil {
		return c, err
	}
	c.IsDefault = isDefault == 1
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

// CreateCategory adds a custom category at the end of the sort order.
func (s *Store) CreateCategory(name, color, icon, description string) (*model.Category, error) {
	if err := model.ValidateCategory(name, color); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	now := formatTime(s.now())
	_, err := s.db.Exec(
		`INSERT INTO categories (id, name, color, icon, description, is_default, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM categories), ?, ?)`,
		id, name, color, icon, description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	s.logger.Debug("category created", "category", id, "name", name)
	return s.GetCategory(id)
}

func (s *Store) GetCategory(id string) (*model.Category, error) {
	c, err := scanCategory(s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, notFound(err))
	}
	return &c, nil
}

// ListCategories returns the catalog in display order.
func (s *Store) ListCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory rewrites name, color, icon and description. Presets may be
// renamed and recoloured; their ids stay fixed.
func (s *Store) UpdateCategory(c model.Category) error {
	if err := model.ValidateCategory(c.Name, c.Color); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE categories SET name = ?, color = ?, icon = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Color, c.Icon, c.Description, formatTime(s.now()), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update category %s: %w", c.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteCategory removes a custom category that no log references.
func (s *Store) DeleteCategory(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		var isDefault int
		err := tx.QueryRow(`SELECT is_default FROM categories WHERE id = ?`, id).Scan(&isDefault)
		if err != nil {
			return fmt.Errorf("delete category %s: %w", id, notFound(err))
		}
		if isDefault == 1 {
			return fmt.Errorf("delete category %s: %w", id, model.ErrDefaultCategory)
		}
		var used int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM log_categories WHERE category_id = ?`, id).Scan(&used); err != nil {
			return fmt.Errorf("count category usage: %w", err)
		}
		if used > 0 {
			return fmt.Errorf("delete category %s (%d logs): %w", id, used, model.ErrCategoryInUse)
		}
		if _, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		s.logger.Debug("category deleted", "category", id)
		return nil
	})
}

// checkCategories verifies every id exists in the catalog.
func checkCategories(q querier, ids []string) error {
	for _, id := range ids {
		var n int
		if err := q.QueryRow(`SELECT COUNT(*) FROM categories WHERE id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("check category %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: unknown category %q", model.ErrInvalidInput, id)
		}
	}
	return nil
}
