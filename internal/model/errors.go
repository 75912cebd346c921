package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDefaultCategory = errors.New("preset category cannot be deleted")
	ErrCategoryInUse   = errors.New("category is used by logs")
	ErrAlreadyEnded    = errors.New("log already ended")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
)
