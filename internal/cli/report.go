package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/reconcile"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Soll/Ist-Übersicht des Projekts anzeigen",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		p := s.Project()
		sum := reconcile.Summarize(p)

		fmt.Printf("Projekt: %s\n\n", p.Name)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Gewerk\tUnterkategorie\tPosten\tSoll\tIst\tDifferenz\tStatus")
		for _, cat := range reconcile.Overview(p) {
			label := cat.Category
			if cat.Unknown {
				label += " (unbekannt)"
			}
			fmt.Fprintf(tw, "%s\t\t\t%s\t%s\t%s\t\n",
				label, cat.Planned.StringFixed(2), cat.Actual.StringFixed(2), cat.Variance.StringFixed(2))
			for _, sub := range cat.Subs {
				for _, iv := range sub.Items {
					fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\t%s\t%s\n",
						sub.Sub, iv.Item.Name,
						iv.Item.Total.StringFixed(2), iv.Actual.StringFixed(2),
						iv.Variance.StringFixed(2), iv.Status)
				}
			}
		}
		tw.Flush()

		fmt.Printf("\nSoll gesamt:      %s\n", sum.Planned.StringFixed(2))
		fmt.Printf("Ist gesamt:       %s\n", sum.Actual.StringFixed(2))
		fmt.Printf("Differenz:        %s\n", sum.Variance.StringFixed(2))
		fmt.Printf("Nicht zugeordnet: %s (%d von %d Positionen zugeordnet)\n",
			sum.Unallocated.StringFixed(2), sum.Allocated, sum.Lines)

		for _, r := range p.Receipts {
			rs, err := reconcile.SummarizeReceipt(p, r.ID)
			if err != nil {
				continue
			}
			if rs.Discrepancy {
				fmt.Printf("\nHinweis: Beleg %s (%s) weicht um %s vom Belegbetrag ab\n",
					r.Number, r.Supplier, rs.Delta.StringFixed(2))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
