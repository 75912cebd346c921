package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/lifelog/internal/model"
)

func newStartCmd(g *globals) *cobra.Command {
	var categories []string
	var location, at string

	cmd := &cobra.Command{
		Use:   "start <description>",
		Short: "Start an activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			ids, err := resolveCategories(cats, categories)
			if err != nil {
				return err
			}
			start, err := model.ParseWhen(at, a.tracker.Now(), a.tracker.Location())
			if err != nil {
				return err
			}
			l, err := a.tracker.Start(model.NewLog{
				Description: strings.Join(args, " "),
				CategoryIDs: ids,
				StartTime:   start,
				Location:    location,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s %q at %s\n",
				shortID(l.ID), l.Description, l.StartTime.In(a.tracker.Location()).Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category names or ids (1-3)")
	cmd.Flags().StringVar(&location, "location", "", "where the activity happens")
	cmd.Flags().StringVar(&at, "at", "", "start time (default now)")
	return cmd
}

func newEndCmd(g *globals) *cobra.Command {
	var location, at string

	cmd := &cobra.Command{
		Use:   "end [id]",
		Short: "End an active activity (the only one when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			var id string
			if len(args) == 1 {
				if id, err = resolveLogID(a, args[0]); err != nil {
					return err
				}
			} else {
				active, err := a.tracker.ActiveLogs()
				if err != nil {
					return err
				}
				switch len(active) {
				case 0:
					return errors.New("no active activity")
				case 1:
					id = active[0].ID
				default:
					return fmt.Errorf("%d activities are running; pass an id", len(active))
				}
			}

			end, err := model.ParseWhen(at, a.tracker.Now(), a.tracker.Location())
			if err != nil {
				return err
			}
			var loc *string
			if cmd.Flags().Changed("location") {
				loc = &location
			}
			l, err := a.tracker.End(id, end, loc)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ended %s %q after %s\n",
				shortID(l.ID), l.Description, formatDuration(l.Duration()))
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "set the location while ending")
	cmd.Flags().StringVar(&at, "at", "", "end time (default now)")
	return cmd
}

func newAddCmd(g *globals) *cobra.Command {
	var categories []string
	var location, from, to string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a finished activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			ids, err := resolveCategories(cats, categories)
			if err != nil {
				return err
			}
			now, loc := a.tracker.Now(), a.tracker.Location()
			start, err := model.ParseWhen(from, now, loc)
			if err != nil {
				return err
			}
			end, err := model.ParseWhen(to, now, loc)
			if err != nil {
				return err
			}
			if start.IsZero() || end.IsZero() {
				return fmt.Errorf("%w: --from and --to are required", model.ErrInvalidInput)
			}
			l, err := a.tracker.Create(model.NewLog{
				Description: strings.Join(args, " "),
				CategoryIDs: ids,
				StartTime:   start,
				EndTime:     &end,
				Location:    location,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q (%s)\n",
				shortID(l.ID), l.Description, formatDuration(l.Duration()))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category names or ids (1-3)")
	cmd.Flags().StringVar(&location, "location", "", "where the activity happened")
	cmd.Flags().StringVar(&from, "from", "", "start time")
	cmd.Flags().StringVar(&to, "to", "", "end time")
	return cmd
}

func newEditCmd(g *globals) *cobra.Command {
	var categories []string
	var description, location, start, end string
	var reopen bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveLogID(a, args[0])
			if err != nil {
				return err
			}
			now, loc := a.tracker.Now(), a.tracker.Location()
			var p model.LogPatch
			flags := cmd.Flags()
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("location") {
				p.Location = &location
			}
			if flags.Changed("category") {
				cats, err := a.tracker.Categories()
				if err != nil {
					return err
				}
				if p.CategoryIDs, err = resolveCategories(cats, categories); err != nil {
					return err
				}
			}
			if flags.Changed("start") {
				t, err := model.ParseWhen(start, now, loc)
				if err != nil {
					return err
				}
				p.StartTime = &t
			}
			if flags.Changed("end") {
				t, err := model.ParseWhen(end, now, loc)
				if err != nil {
					return err
				}
				p.EndTime = &t
			}
			p.ClearEnd = reopen
			if !p.TouchesSegments() {
				return errors.New("nothing to change")
			}

			l, err := a.tracker.Update(id, p)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q (%s)\n", shortID(l.ID), l.Description, l.Status())
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "replace categories")
	cmd.Flags().StringVar(&location, "location", "", "new location")
	cmd.Flags().StringVar(&start, "start", "", "new start time")
	cmd.Flags().StringVar(&end, "end", "", "new end time")
	cmd.Flags().BoolVar(&reopen, "reopen", false, "clear the end time")
	return cmd
}

func newListCmd(g *globals) *cobra.Command {
	var limit int
	var category, status, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			f := model.LogFilter{Limit: limit}
			if category != "" {
				c, ok := findCategory(cats, category)
				if !ok {
					return fmt.Errorf("%w: unknown category %q", model.ErrInvalidInput, category)
				}
				f.CategoryID = c.ID
			}
			switch model.Status(status) {
			case "", model.StatusActive, model.StatusCompleted:
				f.Status = model.Status(status)
			default:
				return fmt.Errorf("%w: status %q: expected active or completed", model.ErrInvalidInput, status)
			}
			loc := a.tracker.Location()
			if from != "" {
				d, err := model.ParseDate(from)
				if err != nil {
					return err
				}
				t := model.DayStart(d, loc)
				f.From = &t
			}
			if to != "" {
				d, err := model.ParseDate(to)
				if err != nil {
					return err
				}
				t := model.DayStart(model.NextDay(d), loc)
				f.To = &t
			}

			logs, err := a.tracker.Logs(f)
			if err != nil {
				return err
			}
			writeLogTable(cmd.OutOrStdout(), logs, cats, a.tracker.Now(), loc)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of rows (0 for all)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().StringVar(&status, "status", "", "active or completed")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func writeLogTable(out io.Writer, logs []model.LogEntry, cats []model.Category, now time.Time, loc *time.Location) {
	if len(logs) == 0 {
		_, _ = fmt.Fprintln(out, "no activities")
		return
	}
	const idW, startW, endW, durW, catW = 8, 16, 11, 9, 22
	descW := terminalWidth(out) - idW - startW - endW - durW - catW - 5
	if descW < 12 {
		descW = 12
	}

	_, _ = fmt.Fprintf(out, "%s %s %s %s %s %s\n",
		fit("ID", idW), fit("START", startW), fit("END", endW), fit("DURATION", durW), fit("CATEGORIES", catW), "DESCRIPTION")
	for _, l := range logs {
		start := l.StartTime.In(loc)
		endCol := "running"
		if l.EndTime != nil {
			end := l.EndTime.In(loc)
			if model.DateOf(end, loc) == model.DateOf(start, loc) {
				endCol = end.Format("15:04")
			} else {
				endCol = end.Format("01-02 15:04")
			}
		}
		dur := formatDuration(int64(l.Elapsed(now) / time.Second))
		_, _ = fmt.Fprintf(out, "%s %s %s %s %s %s\n",
			fit(shortID(l.ID), idW),
			fit(start.Format("2006-01-02 15:04"), startW),
			fit(endCol, endW),
			fit(dur, durW),
			fit(categoryLabel(cats, l.CategoryIDs), catW),
			fit(l.Description, descW),
		)
	}
}

func newDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity and its day segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveLogID(a, args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.Delete(id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(id))
			return nil
		},
	}
}

// resolveLogID accepts a full id or a unique prefix of one.
func resolveLogID(a *app, ref string) (string, error) {
	l, err := a.tracker.Store().GetLog(ref)
	if err == nil {
		return l.ID, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", err
	}
	if len(ref) < 4 {
		return "", fmt.Errorf("log %s: %w", ref, model.ErrNotFound)
	}
	logs, err := a.tracker.Logs(model.LogFilter{})
	if err != nil {
		return "", err
	}
	var match string
	for _, l := range logs {
		if strings.HasPrefix(l.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: id prefix %q is ambiguous", model.ErrInvalidInput, ref)
			}
			match = l.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("log %s: %w", ref, model.ErrNotFound)
	}
	return match, nil
}
