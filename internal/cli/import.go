package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/extract"
	"github.com/avkosten/kostentracker/internal/ingest"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <rechnung.pdf>",
	Short: "PDF-Rechnung einlesen und als Beleg übernehmen",
	Long: `Liest den Text einer PDF-Rechnung aus, extrahiert Lieferant, Datum,
Betrag und Positionen und legt daraus einen Beleg mit Positionen an.
Alle importierten Positionen sind zunächst keinem Posten zugeordnet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := loadStore()
		if err != nil {
			return err
		}

		pipe := ingest.New(extract.NewPDFExtractor(), newParser(), log)
		if err := pipe.Start(cmd.Context(), args[0], doc); err != nil {
			return err
		}
		pv, err := pipe.Preview()
		if err != nil {
			return err
		}

		fmt.Printf("Lieferant: %s\nDatum:     %s\nNummer:    %s\nBetrag:    %s\n\n",
			pv.Supplier, pv.Date, pv.Number, pv.TotalGross.StringFixed(2))
		for _, l := range pv.Lines {
			fmt.Printf("  %-40s %8s x %10s = %10s\n",
				l.Description, l.Qty.String(), l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2))
		}
		included := pipe.IncludedTotal()
		if !included.Equal(pv.TotalGross) {
			fmt.Printf("\nHinweis: Positionssumme %s weicht vom Belegbetrag %s ab\n",
				included.StringFixed(2), pv.TotalGross.StringFixed(2))
		}

		if importDryRun {
			pipe.Cancel()
			fmt.Println("\nTestlauf, es wurde nichts übernommen.")
			return nil
		}

		receiptID, err := pipe.Commit(s)
		if err != nil {
			return err
		}
		if err := saveStore(s); err != nil {
			return err
		}
		fmt.Printf("\nBeleg %s übernommen.\n", receiptID)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "nur anzeigen, nichts übernehmen")
	rootCmd.AddCommand(importCmd)
}
