package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

const (
	defaultFileSource  = "Archivo"
	defaultPasteSource = "Manual"
)

var errNoInput = errors.New("no input: pass files or directories, or use --paste")

type ingestOptions struct {
	source   string
	category string
	paste    bool
	counts   bool
	json     bool
	maxSize  int64
}

// ingestResult is what one ingest run produces, before formatting.
type ingestResult struct {
	Records   []core.WorkerRecord      `json:"records"`
	Counts    core.CategoryCounts      `json:"counts"`
	Selection string                   `json:"selection,omitempty"`
	Total     int                      `json:"total"`
	Unparsed  []core.UnparsedFileEntry `json:"unparsed"`
	Messages  []string                 `json:"messages"`
}

func newIngestCmd(root *rootOptions) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest [PATH...]",
		Short: "Parse roster files and print the normalized records",
		Long: `Parse CSV, TSV and TXT files into worker records.

Directories are read one level deep, in file-name order. Files of other
types are listed as unparsed and do not stop the run. With --paste,
standard input is read as pasted text after any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Source label for the records (default \"Archivo\", or \"Manual\" for --paste)")
	cmd.Flags().StringVar(&opts.category, "category", "", "Only show workers in this category")
	cmd.Flags().BoolVar(&opts.paste, "paste", false, "Read pasted text from standard input")
	cmd.Flags().BoolVar(&opts.counts, "counts", false, "Print workers per category instead of records")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results in JSON format")
	cmd.Flags().Int64Var(&opts.maxSize, "max-size", core.DefaultMaxFileSize, "Maximum bytes read from one file")

	return cmd
}

func runIngest(cmd *cobra.Command, root *rootOptions, opts *ingestOptions, args []string) error {
	if len(args) == 0 && !opts.paste {
		return errNoInput
	}

	sel := core.NoSelection
	if opts.category != "" {
		c, ok := core.ParseCategory(opts.category)
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, opts.category)
		}
		sel = core.Select(c)
	}

	p, err := root.pipeline()
	if err != nil {
		return err
	}

	files, err := expandPaths(args)
	if err != nil {
		return err
	}

	logger := root.log()
	store := core.NewStore()
	var messages []string

	if len(files) > 0 {
		report := p.IngestBatch(store, files, core.SourceLabel(opts.source, defaultFileSource), opts.maxSize)
		for _, f := range report.Failures {
			logger.Warn("file read failed", "file", f.Name, "error", f.Err)
		}
		logger.Info("files ingested", "files", report.Files, "added", report.Added, "unparsed", len(report.Unparsed))
		messages = append(messages, report.Message())
	}

	if opts.paste {
		text, err := core.ReadText(cmd.InOrStdin(), opts.maxSize)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			messages = append(messages, "Nothing to parse.")
		} else {
			records, mode := p.IngestPaste(text, core.SourceLabel(opts.source, defaultPasteSource))
			store.Append(records)
			logger.Info("paste ingested", "added", len(records), "mode", mode.String())
			messages = append(messages, fmt.Sprintf("Parsed %d row(s) from paste.", len(records)))
		}
	}

	all := store.All()
	counts := core.Counts(all, sel)
	result := ingestResult{
		Records:   core.Filter(all, sel),
		Counts:    counts,
		Selection: sel.String(),
		Total:     counts.Total(),
		Unparsed:  store.Unparsed(),
		Messages:  messages,
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, result)
	}
	if opts.counts {
		if err := writeCounts(out, result.Counts, sel); err != nil {
			return err
		}
	} else if err := writeRecords(out, result.Records); err != nil {
		return err
	}
	return writeSummary(out, result)
}

// expandPaths turns arguments into file sources. A directory contributes
// its regular files in name order; subdirectories are skipped.
func expandPaths(args []string) ([]core.FileSource, error) {
	var files []core.FileSource
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, core.LocalFile(arg))
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			files = append(files, core.LocalFile(filepath.Join(arg, entry.Name())))
		}
	}
	return files, nil
}
