package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

type classification struct {
	Label    string        `json:"label"`
	Slug     string        `json:"slug"`
	Category core.Category `json:"category"`
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify LABEL...",
		Short: "Show the category assigned to job labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.pipeline()
			if err != nil {
				return err
			}

			out := make([]classification, 0, len(args))
			for _, label := range args {
				out = append(out, classification{
					Label:    label,
					Slug:     core.Slugify(label),
					Category: p.Classify(label),
				})
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeClassifications(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results in JSON format")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the job categories in chart order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), core.Canon())
			}
			for _, c := range core.Canon() {
				if _, err := cmd.OutOrStdout().Write([]byte(string(c) + "\n")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results in JSON format")
	return cmd
}
