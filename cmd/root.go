package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/config"
	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/metrics"
	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/report"
	"github.com/roadready/roadready/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "roadready",
	Short:        "Driving school skill tracking and test readiness",
	Long:         "roadready keeps each student's driving skill ratings and tells the teacher when a student is ready for the driving test.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database file or DSN (overrides db_dsn and ROADREADY_DB)")
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides ROADREADY_CONFIG)")
	rootCmd.PersistentFlags().String("teacher", "", "Teacher ID (overrides teacher_id)")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// env holds everything a command needs once config is loaded and the
// store is open.
type env struct {
	cfg       *config.Config
	log       logger.Logger
	store     *store.Store
	metrics   *metrics.Manager
	progress  *progress.Service
	teacherID string
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) renderer(cmd *cobra.Command) *report.Renderer {
	return report.New(cmd.OutOrStdout())
}

// openEnv loads configuration, opens the store and seeds the built-in
// catalog for a teacher that has none.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(ctx, cfgPath)
	if err != nil {
		return nil, err
	}
	if t, _ := cmd.Flags().GetString("teacher"); t != "" {
		cfg.TeacherID = t
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := metrics.NewManager()
	svc := progress.NewService(st,
		progress.WithLogger(log),
		progress.WithRecorder(m),
		progress.WithSnapshotKeep(cfg.SnapshotKeep),
	)

	if seeded, err := svc.EnsureCatalog(ctx, cfg.TeacherID); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	} else if seeded {
		log.Info(ctx, "installed built-in catalog", logger.String("teacher_id", cfg.TeacherID))
	}

	return &env{
		cfg:       cfg,
		log:       log,
		store:     st,
		metrics:   m,
		progress:  svc,
		teacherID: cfg.TeacherID,
	}, nil
}

// resolveDSN returns the database location using --db (highest priority),
// then db_dsn from config, then the default SQLite path.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if cfg.DBDriver == config.DriverSQLite {
			return p, store.EnsureDir(p)
		}
		return p, nil
	}
	if cfg.DBDSN != "" {
		return cfg.DBDSN, nil
	}
	return store.DefaultDBPath()
}
