package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/avkosten/kostentracker/internal/domain"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, domain.DemoProject()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{reportSheet}, f.GetSheetList())

	got, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Gewerk", got)

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	// header + 10 items + blank + 4 totals
	require.GreaterOrEqual(t, len(rows), 15)

	var foundTotal bool
	for _, row := range rows {
		if len(row) >= 6 && row[0] == "Soll gesamt" {
			require.Equal(t, "10698.00", row[5])
			foundTotal = true
		}
	}
	require.True(t, foundTotal)
}
