package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/roster/internal/core"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func writeRecords(w io.Writer, records []core.WorkerRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tPHONE\tEMAIL\tADDRESS\tCATEGORY\tSOURCE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			dash(r.Name), dash(r.Phone), dash(r.Email), dash(r.Address), r.Category, r.Source)
	}
	return tw.Flush()
}

// writeCounts prints one row per category. The selected category is marked.
func writeCounts(w io.Writer, counts core.CategoryCounts, sel core.Selection) error {
	selected, _ := sel.Category()
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\t")
	for _, c := range counts {
		mark := ""
		if sel.IsSet() && c.Category == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Category, c.Count, mark)
	}
	fmt.Fprintf(tw, "total\t%d\t\n", counts.Total())
	return tw.Flush()
}

func writeClassifications(w io.Writer, items []classification) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "LABEL\tCATEGORY")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\n", dash(c.Label), c.Category)
	}
	return tw.Flush()
}

// writeSummary prints unparsed files with their explanation, then the
// one-line messages for each input.
func writeSummary(w io.Writer, res ingestResult) error {
	if len(res.Unparsed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Unparsed files:")
		for _, u := range res.Unparsed {
			msg := core.MapReason(u.Reason)
			fmt.Fprintf(w, "  %s [%s] %s. %s (Code: %s)\n", u.Name, dash(u.Extension), msg.Message, msg.Action, msg.Code)
		}
	}
	if len(res.Messages) > 0 {
		fmt.Fprintln(w)
	}
	for _, m := range res.Messages {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
