// Package cli is the lifelog command tree. Without a subcommand it opens the
// TUI on a terminal and prints today's summary otherwise.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/sadopc/lifelog/internal/config"
	"github.com/sadopc/lifelog/internal/logging"
	"github.com/sadopc/lifelog/internal/notify"
	"github.com/sadopc/lifelog/internal/store"
	"github.com/sadopc/lifelog/internal/tracker"
	"github.com/sadopc/lifelog/internal/tui"
	"github.com/sadopc/lifelog/internal/watch"
)

const watchDebounce = 300 * time.Millisecond

type globals struct {
	configPath string
	debug      bool
	now        func() time.Time
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return newRootCmd(time.Now).Execute()
}

func newRootCmd(now func() time.Time) *cobra.Command {
	g := &globals{now: now}

	root := &cobra.Command{
		Use:           "lifelog",
		Short:         "Track what you spend your days on",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			if isTerminal(cmd.OutOrStdout()) {
				return a.runTUI()
			}
			return printDay(cmd.OutOrStdout(), a, "")
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default is the user config dir)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "log at debug level to stderr")

	root.AddCommand(newStartCmd(g))
	root.AddCommand(newEndCmd(g))
	root.AddCommand(newAddCmd(g))
	root.AddCommand(newEditCmd(g))
	root.AddCommand(newListCmd(g))
	root.AddCommand(newDeleteCmd(g))
	root.AddCommand(newStatsCmd(g))
	root.AddCommand(newStreakCmd(g))
	root.AddCommand(newCategoryCmd(g))
	root.AddCommand(newSplitsCmd(g))
	root.AddCommand(newExportCmd(g))
	root.AddCommand(newSettingsCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newTUICmd(g))
	return root
}

type app struct {
	cfg     *config.Config
	logger  hclog.Logger
	tracker *tracker.Tracker
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *globals) resolveConfigPath() (string, error) {
	if g.configPath != "" {
		return g.configPath, nil
	}
	return config.DefaultPath()
}

func loadApp(g *globals) (*app, error) {
	path, err := g.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if g.debug {
		level = "debug"
	}
	logger, logCloser, err := logging.New(logging.Options{Level: level, File: cfg.LogFile, Stderr: g.debug})
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath,
		store.WithLocation(loc),
		store.WithLogger(logger),
		store.WithClock(g.now),
	)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", "path", cfg.DBPath, "timezone", loc.String())

	return &app{
		cfg:     cfg,
		logger:  logger,
		tracker: tracker.New(s, tracker.WithLogger(logger), tracker.WithClock(g.now)),
		closers: []io.Closer{logCloser, s},
	}, nil
}

func (a *app) runTUI() error {
	var n notify.Notifier = notify.Nop{}
	if a.cfg.Notifications {
		n = notify.NewDesktop()
	}

	w, err := watch.New(a.cfg.DBPath, watchDebounce, a.logger)
	if err != nil {
		a.logger.Warn("database watch disabled", "error", err)
	} else {
		defer w.Close()
	}

	m := tui.NewApp(a.tracker, tui.Options{Notifier: n, Watcher: w, Logger: a.logger})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newTUICmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.runTUI()
		},
	}
}

func newConfigCmd(g *globals) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Inspect or create the config file"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := g.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "config:        %s\n", path)
			_, _ = fmt.Fprintf(out, "db_path:       %s\n", cfg.DBPath)
			_, _ = fmt.Fprintf(out, "log_file:      %s\n", cfg.LogFile)
			_, _ = fmt.Fprintf(out, "log_level:     %s\n", cfg.LogLevel)
			_, _ = fmt.Fprintf(out, "timezone:      %s\n", cfg.Timezone)
			_, _ = fmt.Fprintf(out, "notifications: %t\n", cfg.Notifications)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := g.resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}
