// Package export renders budget reports as spreadsheet files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/avkosten/kostentracker/internal/domain"
	"github.com/avkosten/kostentracker/internal/reconcile"
)

var reportHeader = []string{
	"Gewerk", "Unterkategorie", "Bezeichnung", "Menge", "Einzelpreis", "Soll", "Ist", "Differenz",
}

// WriteCSV renders the per-item budget report with semicolon separators.
// The UTF-8 BOM keeps umlauts intact when the file lands in Excel.
func WriteCSV(w io.Writer, p domain.Project) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, row := range reportRows(p) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// reportRows flattens the reconciliation overview into item rows, in the
// same order the overview presents them.
func reportRows(p domain.Project) [][]string {
	var rows [][]string
	for _, cat := range reconcile.Overview(p) {
		for _, sub := range cat.Subs {
			for _, iv := range sub.Items {
				rows = append(rows, []string{
					cat.Category,
					sub.Sub,
					iv.Item.Name,
					strconv.Itoa(iv.Item.Qty),
					iv.Item.UnitPrice.StringFixed(2),
					iv.Item.Total.StringFixed(2),
					iv.Actual.StringFixed(2),
					iv.Variance.StringFixed(2),
				})
			}
		}
	}
	return rows
}
