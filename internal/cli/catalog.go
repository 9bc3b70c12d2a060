package cli

import (
	"context"
	"fmt"
	"io"

	"artist-portfolio/internal/catalog"
	"artist-portfolio/internal/domain/works"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *app) resolver() (*catalog.Resolver, catalog.Layout) {
	return catalog.NewResolver(a.cfg.Images.Roots), catalog.Layout{Base: a.cfg.Images.Base}
}

func (a *app) seedCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the works table with the images found on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return a.withDB(ctx, func(db *gorm.DB) error {
				resolver, layout := a.resolver()
				r := catalog.NewReconciler(db, catalog.NewScanner(resolver, a.log), layout, a.log)

				report, err := r.Reconcile(ctx)
				if err != nil {
					return err
				}
				printReport(out, report)
				if !watch {
					return nil
				}

				var dirs []string
				for _, t := range works.Types {
					if dir, ok := resolver.Dir(layout.Dir(t)); ok {
						dirs = append(dirs, dir)
					}
				}
				w := catalog.NewWatcher(dirs, catalog.DefaultDebounce, func(ctx context.Context) error {
					report, err := r.Reconcile(ctx)
					if err != nil {
						return err
					}
					a.log.Info("works reconciled", zap.Int("total", report.Total()))
					return nil
				}, a.log)
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reconcile again when images change")
	return cmd
}

func printReport(out io.Writer, r catalog.Report) {
	fmt.Fprintf(out, "removed %d existing works\n", r.Deleted)
	for _, t := range works.Types {
		fmt.Fprintf(out, "%-11s %d\n", t, r.Counts[t])
	}
	fmt.Fprintf(out, "total       %d\n", r.Total())
}

func (a *app) pruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete works whose image is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return a.withDB(ctx, func(db *gorm.DB) error {
				resolver, _ := a.resolver()
				report, err := catalog.NewPruner(db, resolver, a.log).Prune(ctx, dryRun)
				if err != nil {
					return err
				}

				for _, w := range report.Removed {
					fmt.Fprintf(out, "#%d %s %q %s (%s)\n", w.ID, w.Type, w.Titre, w.Image, w.Reason)
				}
				verb := "removed"
				if dryRun {
					verb = "would remove"
				}
				fmt.Fprintf(out, "%s %d works\n", verb, len(report.Removed))
				for _, t := range works.Types {
					if n := report.ByType[t]; n > 0 {
						fmt.Fprintf(out, "  %s: %d\n", t, n)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the works without deleting them")
	return cmd
}
