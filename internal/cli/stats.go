package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/sadopc/lifelog/internal/model"
)

func newStatsCmd(g *globals) *cobra.Command {
	var asJSON bool

	statsCmd := &cobra.Command{Use: "stats", Short: "Time spent per category"}
	statsCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON")

	statsCmd.AddCommand(&cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Statistics for one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			if asJSON {
				day, err := a.tracker.Day(date)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), day)
			}
			return printDay(cmd.OutOrStdout(), a, date)
		},
	})

	statsCmd.AddCommand(&cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "Statistics for the week containing a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			week, err := a.tracker.Week(date)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), week)
			}
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Week %s .. %s\n", week.WeekStart, week.WeekEnd)
			writePeriod(out, week.TotalDuration, week.LogCount, week.AveragePerDay, week.DayStats, week.CategoryStats, cats)
			return nil
		},
	})

	statsCmd.AddCommand(&cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Statistics for a calendar month (default this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			year, month, err := parseMonthArg(args, a.tracker.Now().In(a.tracker.Location()))
			if err != nil {
				return err
			}
			ms, err := a.tracker.Month(year, month)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ms)
			}
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %d\n", ms.Month, ms.Year)
			writePeriod(out, ms.TotalDuration, ms.LogCount, ms.AveragePerDay, nil, ms.CategoryStats, cats)
			return nil
		},
	})

	var from, to string
	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Daily totals over a range (default the last 7 days)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			if to == "" {
				to = a.tracker.Today()
			}
			if from == "" {
				end, err := model.ParseDate(to)
				if err != nil {
					return err
				}
				from = end.AddDate(0, 0, -6).Format(model.DateLayout)
			}
			days, err := a.tracker.Trend(from, to)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), days)
			}
			var peak int64
			for _, d := range days {
				peak = max(peak, d.Duration)
			}
			out := cmd.OutOrStdout()
			for _, d := range days {
				pct := 0.0
				if peak > 0 {
					pct = float64(d.Duration) / float64(peak) * 100
				}
				_, _ = fmt.Fprintf(out, "%s %s %s\n", d.Date, fit(formatDuration(d.Duration), 9), bar(pct, 40))
			}
			return nil
		},
	}
	trendCmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	trendCmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD, default today)")
	statsCmd.AddCommand(trendCmd)

	statsCmd.AddCommand(&cobra.Command{
		Use:   "heatmap [YYYY-MM]",
		Short: "Activity calendar for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			year, month, err := parseMonthArg(args, a.tracker.Now().In(a.tracker.Location()))
			if err != nil {
				return err
			}
			cells, err := a.tracker.Heatmap(year, month)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cells)
			}
			set, err := a.tracker.Settings()
			if err != nil {
				return err
			}
			writeHeatmap(cmd.OutOrStdout(), year, month, cells, set.WeekStart)
			return nil
		},
	})
	return statsCmd
}

func newStreakCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Consecutive days with a finished activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			st, err := a.tracker.Streak()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "current streak: %s\n", plural(st.Current, "day"))
			_, _ = fmt.Fprintf(out, "longest streak: %s\n", plural(st.Longest, "day"))
			if st.Last != "" {
				_, _ = fmt.Fprintf(out, "last active:    %s\n", st.Last)
			}
			return nil
		},
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func parseMonthArg(args []string, now time.Time) (int, time.Month, error) {
	if len(args) == 0 {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q: expected YYYY-MM", model.ErrInvalidInput, args[0])
	}
	return t.Year(), t.Month(), nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// printDay writes the day summary, active logs and streak for date ("" is today).
func printDay(out io.Writer, a *app, date string) error {
	day, err := a.tracker.Day(date)
	if err != nil {
		return err
	}
	cats, err := a.tracker.Categories()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s  total %s  %s\n", day.Date, formatDuration(day.TotalDuration), plural(day.LogCount, "log"))
	writeCategoryStats(out, day.CategoryStats, cats)

	now := a.tracker.Now()
	var running []model.LogEntry
	for _, l := range day.Logs {
		if !l.Completed() {
			running = append(running, l)
		}
	}
	if len(running) > 0 {
		_, _ = fmt.Fprintln(out, "running:")
		for _, l := range running {
			_, _ = fmt.Fprintf(out, "  %s %s (%s) %s\n", shortID(l.ID), l.Description,
				categoryLabel(cats, l.CategoryIDs), formatDuration(int64(l.Elapsed(now)/time.Second)))
		}
	}

	st, err := a.tracker.Streak()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "streak: %s (longest %d)\n", plural(st.Current, "day"), st.Longest)
	return nil
}

func writeCategoryStats(out io.Writer, rows []model.CategoryStat, cats []model.Category) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(out, "  nothing recorded")
		return
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(out, "  %s %s %6.1f%% %3dx %s\n",
			fit(categoryName(cats, r.CategoryID), 18),
			fit(formatDuration(int64(r.Duration)), 9),
			r.Percentage, r.Count, bar(r.Percentage, 30))
	}
}

func writePeriod(out io.Writer, total int64, count int, avg float64, days []model.DayStatistics, rows []model.CategoryStat, cats []model.Category) {
	_, _ = fmt.Fprintf(out, "total %s  %s  avg %s/day\n", formatDuration(total), plural(count, "log"), formatDuration(int64(avg)))
	for _, d := range days {
		_, _ = fmt.Fprintf(out, "  %s %s\n", d.Date, formatDuration(d.TotalDuration))
	}
	writeCategoryStats(out, rows, cats)
}

var heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

func writeHeatmap(out io.Writer, year int, month time.Month, cells []model.HeatCell, weekStart time.Weekday) {
	_, _ = fmt.Fprintf(out, "%s %d\n", month, year)
	var header []string
	for i := 0; i < 7; i++ {
		header = append(header, time.Weekday((int(weekStart)+i)%7).String()[:2])
	}
	_, _ = fmt.Fprintln(out, strings.Join(header, " "))

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	line := strings.Repeat("   ", offset)
	col := offset
	for _, c := range cells {
		line += fit(heatGlyphs[c.Level], 2) + " "
		col++
		if col == 7 {
			_, _ = fmt.Fprintln(out, strings.TrimRight(line, " "))
			line, col = "", 0
		}
	}
	if line != "" {
		_, _ = fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}
