package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/lifelog/internal/model"
)

type logFormKind int

const (
	logFormStart logFormKind = iota // begin an active log
	logFormAdd                      // record a finished log
	logFormEdit
	logFormEnd
	logFormDelete
)

const whenPlaceholder = "HH:MM or YYYY-MM-DD HH:MM"

// logFormValues holds the form fields behind a pointer so they survive the
// value copies of the bubbletea update loop.
type logFormValues struct {
	description string
	categories  []string
	location    string
	start       string
	end         string
	confirm     bool
}

func (v *logFormValues) reset() {
	*v = logFormValues{}
}

// fill loads an existing log into the form.
func (v *logFormValues) fill(l model.LogEntry, loc *time.Location) {
	v.description = l.Description
	v.categories = append([]string(nil), l.CategoryIDs...)
	v.location = l.Location
	v.start = l.StartTime.In(loc).Format("2006-01-02 15:04")
	v.end = ""
	if l.EndTime != nil {
		v.end = l.EndTime.In(loc).Format("2006-01-02 15:04")
	}
}

func categoryOptions(cats []model.Category) []huh.Option[string] {
	opts := make([]huh.Option[string], len(cats))
	for i, c := range cats {
		opts[i] = huh.NewOption(c.Icon+" "+c.Name, c.ID)
	}
	return opts
}

func validWhen(required bool, loc *time.Location) func(string) error {
	return func(s string) error {
		t, err := model.ParseWhen(s, time.Now(), loc)
		if err != nil {
			return err
		}
		if required && t.IsZero() {
			return errors.New("required")
		}
		return nil
	}
}

func buildLogForm(kind logFormKind, v *logFormValues, cats []model.Category, loc *time.Location) *huh.Form {
	description := huh.NewInput().Title("What are you doing?").
		CharLimit(model.DescriptionMaxLength).
		Validate(model.ValidateDescription).
		Value(&v.description)
	categories := huh.NewMultiSelect[string]().Title("Categories").
		Options(categoryOptions(cats)...).
		Limit(model.MaxCategoriesPerLog).
		Validate(model.ValidateCategoryIDs).
		Value(&v.categories)
	location := huh.NewInput().Title("Location (optional)").
		CharLimit(model.LocationMaxLength).
		Validate(model.ValidateLocation).
		Value(&v.location)

	var fields []huh.Field
	switch kind {
	case logFormStart:
		fields = []huh.Field{description, categories, location}
	case logFormAdd, logFormEdit:
		fields = []huh.Field{
			description, categories, location,
			huh.NewInput().Title("Start").Placeholder(whenPlaceholder).
				Validate(validWhen(true, loc)).Value(&v.start),
			huh.NewInput().Title("End").Placeholder(whenPlaceholder).
				Validate(validWhen(kind == logFormAdd, loc)).Value(&v.end),
		}
	case logFormEnd:
		fields = []huh.Field{location}
	case logFormDelete:
		fields = []huh.Field{
			huh.NewConfirm().Title("Delete this log?").
				Description("Its day segments are removed too.").
				Affirmative("Delete").Negative("Cancel").
				Value(&v.confirm),
		}
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
}

// newLog converts submitted add/start values into a NewLog.
func (v *logFormValues) newLog(now time.Time, loc *time.Location) (model.NewLog, error) {
	n := model.NewLog{
		Description: v.description,
		CategoryIDs: v.categories,
		Location:    v.location,
	}
	start, err := model.ParseWhen(v.start, now, loc)
	if err != nil {
		return n, err
	}
	n.StartTime = start
	end, err := model.ParseWhen(v.end, now, loc)
	if err != nil {
		return n, err
	}
	if !end.IsZero() {
		n.EndTime = &end
	}
	return n, nil
}

// patch converts submitted edit values into a LogPatch against the original.
// Times are shown to the minute, so an untouched field is left alone.
// Clearing the end of a completed log reopens it.
func (v *logFormValues) patch(orig model.LogEntry, now time.Time, loc *time.Location) (model.LogPatch, error) {
	desc, where := v.description, v.location
	p := model.LogPatch{
		Description: &desc,
		CategoryIDs: v.categories,
		Location:    &where,
	}
	start, err := model.ParseWhen(v.start, now, loc)
	if err != nil {
		return p, err
	}
	if !start.Equal(orig.StartTime.Truncate(time.Minute)) {
		p.StartTime = &start
	}
	end, err := model.ParseWhen(v.end, now, loc)
	if err != nil {
		return p, err
	}
	switch {
	case end.IsZero() && orig.EndTime != nil:
		p.ClearEnd = true
	case !end.IsZero() && (orig.EndTime == nil || !end.Equal(orig.EndTime.Truncate(time.Minute))):
		p.EndTime = &end
	}
	return p, nil
}
