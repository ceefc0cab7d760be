// Package cmd implements the CLI command structure for taskmaster.
package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/taskmaster/internal/config"
	"github.com/nibzard/taskmaster/internal/logging"
	"github.com/nibzard/taskmaster/internal/storage"
	"github.com/nibzard/taskmaster/internal/store"
	"github.com/nibzard/taskmaster/internal/task"
	"github.com/nibzard/taskmaster/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskmaster CLI.
func Run(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskmaster",
		Short:         "taskmaster - full-screen terminal task manager",
		Long:          "taskmaster manages a local task list. Run it bare for the full-screen interface, or use the subcommands for scripting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.PersistentFlags().String("data", "", "path to the data file (overrides config)")
	root.PersistentFlags().Bool("ephemeral", false, "keep tasks in memory only, never touch disk")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newDoneCmd(),
		newRmCmd(),
		newDueCmd(),
		newArchiveCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)
	return root
}

// app bundles what every command needs: configuration, the opened
// store, and a logger.
type app struct {
	cfg    *config.Config
	store  *store.Store
	logger *log.Logger
	close  func()
}

// openApp loads config, opens the repository, and surfaces any data
// file warning without failing: a corrupt file degrades to an empty
// collection per the persistence contract.
func openApp(cmd *cobra.Command, headless bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataFile, _ := cmd.Flags().GetString("data"); dataFile != "" {
		cfg.DataFile = dataFile
	}

	a := &app{cfg: cfg, close: func() {}}

	if headless {
		a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
			Level:  log.WarnLevel,
			Prefix: "taskmaster",
		})
	} else {
		logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.close = func() { closeLog() }
	}

	var repo storage.Repository
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		repo = storage.NewMemoryRepository()
	} else {
		fileRepo, err := storage.NewFileRepository(cfg.DataFile)
		if err != nil {
			a.close()
			return nil, err
		}
		repo = fileRepo
	}

	st, warn := store.Open(repo, time.Now)
	if warn != nil {
		a.logger.Warn("starting with an empty collection", "reason", warn)
	}
	a.store = st
	return a, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()
	a.logger.Info("session started", "data_file", a.cfg.DataFile, "tasks", a.store.Len())
	return ui.Run(cmd.Context(), a.store, a.cfg.DueSoonHorizon(), a.logger)
}

// resolveID expands a unique id prefix typed on the command line to the
// full task id.
func resolveID(st *store.Store, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty task id")
	}
	var match string
	for _, t := range st.Tasks() {
		if t.ID == prefix {
			return t.ID, nil
		}
		if len(prefix) <= len(t.ID) && t.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", &task.NotFoundError{ID: prefix}
	}
	return match, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskmaster %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
