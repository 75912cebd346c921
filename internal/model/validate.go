package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DescriptionMaxLength  = 140
	LocationMaxLength     = 50
	CategoryNameMaxLength = 20
	MinCategoriesPerLog   = 1
	MaxCategoriesPerLog   = 3
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func ValidateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return invalid("description must not be blank")
	}
	if n := utf8.RuneCountInString(s); n > DescriptionMaxLength {
		return invalid("description is %d characters, max %d", n, DescriptionMaxLength)
	}
	return nil
}

func ValidateLocation(s string) error {
	if n := utf8.RuneCountInString(s); n > LocationMaxLength {
		return invalid("location is %d characters, max %d", n, LocationMaxLength)
	}
	return nil
}

// ValidateCategoryIDs checks the 1..3 unique ids rule.
func ValidateCategoryIDs(ids []string) error {
	if len(ids) < MinCategoriesPerLog || len(ids) > MaxCategoriesPerLog {
		return invalid("a log needs %d to %d categories, got %d", MinCategoriesPerLog, MaxCategoriesPerLog, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return invalid("empty category id")
		}
		if seen[id] {
			return invalid("category %q listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

func ValidateNewLog(n NewLog) error {
	if err := ValidateDescription(n.Description); err != nil {
		return err
	}
	if err := ValidateLocation(n.Location); err != nil {
		return err
	}
	if err := ValidateCategoryIDs(n.CategoryIDs); err != nil {
		return err
	}
	if n.StartTime.IsZero() {
		return invalid("start time is required")
	}
	if n.EndTime != nil && !n.EndTime.After(n.StartTime) {
		return ErrEndBeforeStart
	}
	return nil
}

func ValidatePatch(p LogPatch) error {
	if p.Description != nil {
		if err := ValidateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Location != nil {
		if err := ValidateLocation(*p.Location); err != nil {
			return err
		}
	}
	if p.CategoryIDs != nil {
		if err := ValidateCategoryIDs(p.CategoryIDs); err != nil {
			return err
		}
	}
	if p.StartTime != nil && p.StartTime.IsZero() {
		return invalid("start time is required")
	}
	if p.EndTime != nil && p.EndTime.IsZero() {
		return invalid("end time must not be empty")
	}
	if p.ClearEnd && p.EndTime != nil {
		return invalid("cannot set and clear the end time at once")
	}
	return nil
}

func ValidateCategory(name, color string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("category name must not be blank")
	}
	if n := utf8.RuneCountInString(name); n > CategoryNameMaxLength {
		return invalid("category name is %d characters, max %d", n, CategoryNameMaxLength)
	}
	if !colorPattern.MatchString(color) {
		return invalid("color %q is not #RRGGBB", color)
	}
	return nil
}
