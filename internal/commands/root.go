package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/project"
	"github.com/cleared-dev/tally/internal/render"
)

// options are the flags shared by every project command.
type options struct {
	dir      string
	logLevel string
	json     bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Ledger, trial balance and reports derived from business events",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides tally.yaml")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(opts),
		newLedgerCommand(opts),
		newTrialCommand(opts),
		newBalancesCommand(opts),
		newReportCommand(opts),
		newCheckCommand(opts),
		newExportCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}

// open loads the project and returns a context carrying its logger.
func (o *options) open(cmd *cobra.Command) (*project.Project, context.Context, error) {
	root, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving path: %w", err)
	}
	p, err := project.Open(root)
	if err != nil {
		return nil, nil, err
	}

	level := o.logLevel
	if level == "" {
		level = p.Config.Log.Level
	}
	log, err := logger.New(level)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return p, logger.WithContext(cmd.Context(), log), nil
}

func (o *options) renderer(cmd *cobra.Command, p *project.Project) *render.Renderer {
	return render.New(cmd.OutOrStdout(), p.Precision, p.Config.Currency.Base)
}

// emit prints v as JSON when --json is set, otherwise calls table.
func (o *options) emit(w io.Writer, v any, table func()) error {
	if !o.json {
		table()
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
