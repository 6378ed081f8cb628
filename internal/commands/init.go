package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/classify"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/store"
)

const classificationFile = "classification.yaml"

func newInitCommand() *cobra.Command {
	var name, businessType, base, source string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, businessType, base, source)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&businessType, "type", "trading", "business type, selects the default chart")
	cmd.Flags().StringVar(&base, "base", "SAR", "base currency")
	cmd.Flags().StringVar(&source, "source", config.SourceCSV, "event source: csv or sqlite")

	return cmd
}

func runInit(out io.Writer, dir, name, businessType, base, source string) error {
	cfg := config.Default(name, businessType)
	cfg.Currency.Base = base
	cfg.Source.Kind = source
	cfg.Classification.Table = classificationFile
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"accounts",
		cfg.Source.DataDir,
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write tally.yaml.
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart(businessType))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write the default classification table for editing.
	if err := classify.SaveTable(filepath.Join(dir, classificationFile), classify.DefaultTable()); err != nil {
		return err
	}

	if source == config.SourceSQLite {
		db, err := store.Open(filepath.Join(dir, cfg.Source.Database))
		if err != nil {
			return fmt.Errorf("creating event store: %w", err)
		}
		if err := db.Close(); err != nil {
			return err
		}
	}

	// Write .gitignore.
	gitignore := "logs/\nexports/\nimport/processed/\n" + cfg.Source.Database + "*\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally project at %s\n", dir)
	return nil
}
