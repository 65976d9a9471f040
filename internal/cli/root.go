package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sadopc/efficia/internal/config"
	"github.com/sadopc/efficia/internal/store"
	"github.com/spf13/cobra"
)

// env is the state shared by every subcommand once flags are parsed.
type env struct {
	configPath string
	dbPath     string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd creates the top-level "efficia" command. Running it without a
// subcommand opens the dashboard.
func NewRootCmd(version string) *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "efficia",
		Short: "Desktop activity tracker",
		Long: `efficia samples the foreground window, stores the samples through a
local REST service and summarises where each day went, per application.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, e)
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", config.DefaultPath(), "Path to configuration file")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "Override the database path")

	root.AddCommand(
		newServeCmd(e),
		newTrackCmd(e),
		newMigrateCmd(e),
		newSummaryCmd(e),
		newRecentCmd(e),
		newExportCmd(e),
		newDashboardCmd(e),
	)

	return root
}

// Execute runs the root command and reports errors on stderr.
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (e *env) load(logOut io.Writer) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.Database.Path = e.dbPath
	}
	e.cfg = cfg
	e.logger = setupLogger(cfg.Logging, logOut)
	return nil
}

// openStore opens the configured database and brings its schema up to date.
func (e *env) openStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(e.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}
