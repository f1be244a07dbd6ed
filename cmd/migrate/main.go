package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/quotevoice/backend/internal/infrastructure/logger"
	"github.com/quotevoice/backend/internal/infrastructure/migration"
	"github.com/quotevoice/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type options struct {
	path     string
	logLevel string
}

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "QuoteVoice database migration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.path, "path", "", "migrations directory (default: migrations embedded in the binary)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		dbCommand(opts, "up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() }),
		dbCommand(opts, "down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() }),
		dbCommand(opts, "step <n>", "Apply n migrations (positive=up, negative=down)", cobra.ExactArgs(1),
			func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		dbCommand(opts, "version", "Show the current migration version", cobra.NoArgs,
			func(m *migration.Migrator, log *zap.Logger, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		dbCommand(opts, "force <version>", "Force the recorded version after a failed migration", cobra.ExactArgs(1),
			func(m *migration.Migrator, log *zap.Logger, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				log.Warn("Forcing migration version", zap.Int("version", version))
				return m.Force(version)
			}),
		createCommand(opts),
		listCommand(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(opts *options) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      opts.logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// dbCommand wraps a migrator action with configuration, logging and a
// database connection
func dbCommand(opts *options, use, short string, args cobra.PositionalArgs, run func(*migration.Migrator, *zap.Logger, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(opts)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync(log) }()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			var m *migration.Migrator
			if opts.path != "" {
				abs, err := filepath.Abs(opts.path)
				if err != nil {
					return err
				}
				log.Info("Using migrations from disk", zap.String("path", abs))
				m, err = migration.New(db, abs, log)
				if err != nil {
					return err
				}
			} else {
				m, err = migration.NewFromFS(db, migrations.FS, log)
				if err != nil {
					return err
				}
			}
			defer m.Close()

			return run(m, log, args)
		},
	}
}

func migrationsDir(opts *options) string {
	if opts.path != "" {
		return opts.path
	}
	return defaultMigrationsPath
}

func createCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new migration file pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			log, err := newLogger(opts)
			if err != nil {
				return err
			}
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(migrationsDir(opts), args[0], description)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func listCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migrations on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := migration.ListMigrations(migrationsDir(opts))
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), "  -", name)
			}
			return nil
		},
	}
}
