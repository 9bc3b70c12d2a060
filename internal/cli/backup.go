package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"artist-portfolio/internal/backup"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const defaultExportFile = "data-export.json"

func (a *app) exportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the content tables to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withDB(ctx, func(db *gorm.DB) error {
				snap, err := backup.Export(ctx, db)
				if err != nil {
					return err
				}

				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := backup.Write(f, snap); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}

				printCounts(cmd.OutOrStdout(), snap.Counts())
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", defaultExportFile, "output file")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Restore a JSON export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultExportFile
			if len(args) == 1 {
				path = args[0]
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			snap, err := backup.Read(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return a.withDB(ctx, func(db *gorm.DB) error {
				opts := backup.Options{Clear: clearFirst}
				if err := backup.Import(ctx, db, snap, opts, a.log); err != nil {
					return err
				}
				printCounts(cmd.OutOrStdout(), snap.Counts())
				fmt.Fprintf(cmd.OutOrStdout(), "imported from %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "delete contacts, works and settings before importing")
	return cmd
}

func printCounts(out io.Writer, counts map[string]int) {
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(out, "%-14s %d\n", t, counts[t])
	}
}
