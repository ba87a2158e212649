// Package cli implements the roster command-line tool.
//
// The commands run the same ingestion pipeline as the HTTP server against
// local files or standard input, without sessions:
//
//	roster ingest crews/ extra.csv --source "Obra Norte"
//	roster ingest --paste < names.txt
//	roster ingest crews/ --counts --category painter
//	roster classify "Maestro de obra" Soldador
//	roster categories
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	taxonomyFile string
	logLevel     string
	logFormat    string

	logger *slog.Logger
}

// NewRootCmd builds the roster command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Build a worker roster from spreadsheets, lists and pasted text",
		Long: `roster reads worker lists exported as CSV, TSV or plain text,
maps their columns to name, phone, email, address and job, and sorts
every worker into one job category.

Examples:
  roster ingest crews/                       # Every file in a directory
  roster ingest a.csv b.txt --source Obra    # Label records with a source
  roster ingest --paste < list.txt           # Read pasted text from stdin
  roster ingest crews/ --counts              # Workers per category
  roster classify Soldador "Maestro pintor"  # Category for job labels
  roster categories                          # List all categories`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.taxonomyFile, "taxonomy", os.Getenv("TAXONOMY_FILE"), "YAML file with extra header aliases and job keywords")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format: text or json")

	cmd.AddCommand(newIngestCmd(opts))
	cmd.AddCommand(newClassifyCmd(opts))
	cmd.AddCommand(newCategoriesCmd())

	return cmd
}

// pipeline returns the pipeline for the --taxonomy file, or the built-in one.
func (o *rootOptions) pipeline() (*core.Pipeline, error) {
	if o.taxonomyFile == "" {
		return core.DefaultPipeline(), nil
	}
	t, err := core.LoadTaxonomyFile(o.taxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	o.log().Debug("taxonomy loaded", "file", o.taxonomyFile)
	return core.NewPipeline(t), nil
}

func (o *rootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
