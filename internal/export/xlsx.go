package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/avkosten/kostentracker/internal/domain"
	"github.com/avkosten/kostentracker/internal/reconcile"
)

const reportSheet = "Kostenübersicht"

// WriteXLSX renders the budget report as a workbook: the item rows of the
// CSV report plus a totals block underneath.
func WriteXLSX(w io.Writer, p domain.Project) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(reportSheet, cell, title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(reportSheet, "A1", "H1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, r := range reportRows(p) {
		for col, val := range r {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(reportSheet, cell, val); err != nil {
				return err
			}
		}
		row++
	}

	s := reconcile.Summarize(p)
	totals := [][2]string{
		{"Soll gesamt", s.Planned.StringFixed(2)},
		{"Ist gesamt", s.Actual.StringFixed(2)},
		{"Differenz", s.Variance.StringFixed(2)},
		{"Nicht zugeordnet", s.Unallocated.StringFixed(2)},
	}
	row++
	for _, t := range totals {
		if err := f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), t[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, fmt.Sprintf("F%d", row), t[1]); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(reportSheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(reportSheet, "D", "H", 14); err != nil {
		return err
	}
	return f.Write(w)
}
