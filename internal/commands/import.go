package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/project"
)

func newImportCommand(opts *options) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "import [directory]",
		Short: "Import collection CSV files into the event source",
		Long: "Reads every <collection>.csv in the directory (default <project>/import), " +
			"merges the records into the configured event source and moves the files to processed/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			dir := filepath.Join(p.Root, "import")
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}
			return runImport(ctx, cmd.OutOrStdout(), p, dir, keep)
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave imported files in place")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, p *project.Project, dir string, keep bool) error {
	log := logger.FromContext(ctx)
	reg := importer.DefaultRegistry()

	files, err := reg.Scan(dir)
	if err != nil {
		return err
	}

	incoming := &model.Snapshot{}
	var loaded []importer.FileInfo
	for _, fi := range files {
		if fi.Collection == "" {
			log.Warn().Str("file", fi.Name).Msg("no collection reads this file, skipping")
			continue
		}
		if err := reg.LoadFile(fi, incoming); err != nil {
			return err
		}
		loaded = append(loaded, fi)
	}
	if len(loaded) == 0 {
		fmt.Fprintln(out, "No files to import")
		return nil
	}

	n := recordCount(incoming)
	if db := p.Store(); db != nil {
		if n, err = db.Append(ctx, incoming); err != nil {
			return err
		}
	} else {
		existing, err := p.Source.Snapshot(ctx)
		if err != nil {
			return err
		}
		existing.Merge(incoming)
		if err := reg.WriteDir(p.DataDir(), existing); err != nil {
			return err
		}
	}

	if !keep {
		for _, fi := range loaded {
			if err := importer.MarkProcessed(dir, fi.Name); err != nil {
				return err
			}
		}
	}

	log.Info().Int("records", n).Int("files", len(loaded)).Msg("import complete")
	fmt.Fprintf(out, "Imported %d records from %d file(s)\n", n, len(loaded))
	return nil
}

func recordCount(s *model.Snapshot) int {
	return len(s.Transactions) + len(s.Sales) + len(s.Purchases) + len(s.Expenses) +
		len(s.Receipts) + len(s.Payments) + len(s.Rates) + len(s.Inventory) +
		len(s.Customers) + len(s.Suppliers)
}
