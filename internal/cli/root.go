// Package cli wires configuration, logging and the database into the
// artist-portfolio commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"artist-portfolio/config"
	"artist-portfolio/database"
	"artist-portfolio/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	cfg *config.Config
	log *zap.Logger

	openDB  func(ctx context.Context, cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error)
	closeDB func(db *gorm.DB) error
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{openDB: database.Open, closeDB: database.Close})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "artist-portfolio",
		Short:        "Backend of the artist portfolio site",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				a.cfg = cfg
			}
			if a.log == nil {
				log, err := logging.New(a.cfg.Log.Level, a.cfg.Log.Format)
				if err != nil {
					return err
				}
				a.log = log
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.seedCmd(),
		a.pruneCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return root
}

// withDB opens the pool for the duration of fn.
func (a *app) withDB(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, err := a.openDB(ctx, a.cfg.DB, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.closeDB(db); err != nil {
			a.log.Warn("close database", zap.Error(err))
		}
	}()
	return fn(db)
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and insert default rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withDB(ctx, func(db *gorm.DB) error {
				if err := database.Migrate(ctx, db, a.log); err != nil {
					return err
				}
				return database.Seed(ctx, db, a.cfg, a.log)
			})
		},
	}
}
