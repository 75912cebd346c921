package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/lifelog/internal/export"
	"github.com/sadopc/lifelog/internal/model"
)

func newSplitsCmd(g *globals) *cobra.Command {
	splits := &cobra.Command{Use: "splits", Short: "Maintain the per-day segments of multi-day activities"}
	splits.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate segments for every finished activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			report, err := a.tracker.RebuildSegments()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "rebuilt %s for %s\n", plural(report.Segments, "segment"), plural(report.Logs, "log"))
			for _, f := range report.Failures {
				_, _ = fmt.Fprintf(out, "  failed %s: %v\n", shortID(f.LogID), f.Err)
			}
			if len(report.Failures) > 0 {
				return fmt.Errorf("%d logs could not be rebuilt; run again to retry", len(report.Failures))
			}
			return nil
		},
	})
	return splits
}

func newExportCmd(g *globals) *cobra.Command {
	var outPath, from, to string

	cmd := &cobra.Command{
		Use:       "export [csv|json]",
		Short:     "Export activities (format defaults to the export_format setting)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "json"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			format := ""
			if len(args) == 1 {
				format = args[0]
			} else {
				set, err := a.tracker.Settings()
				if err != nil {
					return err
				}
				format = set.ExportFormat
			}
			if outPath == "" {
				outPath = fmt.Sprintf("lifelog-%s.%s", a.tracker.Today(), format)
			}

			logs, start, end, err := a.tracker.LogsBetween(from, to)
			if err != nil {
				return err
			}
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			loc := a.tracker.Location()
			switch format {
			case "json":
				err = export.ToJSON(logs, cats, export.Range{From: start, To: end}, outPath, loc)
			default:
				err = export.ToCSV(logs, cats, outPath, loc)
			}
			if err != nil {
				return err
			}
			a.logger.Info("exported", "format", format, "path", outPath, "logs", len(logs))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", plural(len(logs), "log"), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default lifelog-<today>.<format>)")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func newSettingsCmd(g *globals) *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			set, err := a.tracker.Settings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "week_start:          %s\n", model.FormatWeekday(set.WeekStart))
			_, _ = fmt.Fprintf(out, "long_task_threshold: %d\n", int(set.LongTaskThreshold.Hours()))
			_, _ = fmt.Fprintf(out, "export_format:       %s\n", set.ExportFormat)
			return nil
		},
	}

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference (week_start, long_task_threshold, export_format)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.tracker.SetSetting(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	})
	return settings
}
