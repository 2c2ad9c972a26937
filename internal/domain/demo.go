package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemoProject returns the conference-room fixture used by the demo command
// and as a realistic dataset in tests.
func DemoProject() Project {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return Project{
		ID:       uuid.NewString(),
		Name:     "Demo: Festinstallation Konferenzraum",
		Taxonomy: DefaultTaxonomy(),
		Items: []PlannedItem{
			{ID: "d1", Name: "JBL Control 25-1", Category: "Audio", Sub: "Lautsprecher", Qty: 8, UnitPrice: d("189"), Total: d("1512"), Notes: "Deckenmontage"},
			{ID: "d2", Name: "Crown CDi 1000", Category: "Audio", Sub: "Verstärker", Qty: 2, UnitPrice: d("890"), Total: d("1780")},
			{ID: "d3", Name: "Sommer SC-Club 225", Category: "Audio", Sub: "Kabel & Stecker", Qty: 200, UnitPrice: d("1.20"), Total: d("240"), Notes: "Meterware"},
			{ID: "d4", Name: "Neutrik NL4FX", Category: "Audio", Sub: "Kabel & Stecker", Qty: 16, UnitPrice: d("4.50"), Total: d("72"), Notes: "Speakon"},
			{ID: "d5", Name: "BSS BLU-50", Category: "Audio", Sub: "DSP/Controller", Qty: 1, UnitPrice: d("1250"), Total: d("1250")},
			{ID: "d6", Name: "K&M 24471", Category: "Audio", Sub: "Montage", Qty: 8, UnitPrice: d("35"), Total: d("280"), Notes: "Wandhalter"},
			{ID: "d7", Name: "Samsung QB65R", Category: "Video", Sub: "Displays", Qty: 2, UnitPrice: d("1450"), Total: d("2900"), Notes: "65 Zoll"},
			{ID: "d8", Name: "HDMI 2.0 Kabel 10m", Category: "Video", Sub: "Kabel & Stecker", Qty: 4, UnitPrice: d("28"), Total: d("112")},
			{ID: "d9", Name: "Cameo ZENIT W600", Category: "Licht", Sub: "Hardware", Qty: 4, UnitPrice: d("620"), Total: d("2480"), Notes: "LED Wash"},
			{ID: "d10", Name: "DMX Kabel 10m", Category: "Licht", Sub: "Kabel & Stecker", Qty: 6, UnitPrice: d("12"), Total: d("72")},
		},
		Receipts: []Receipt{
			{ID: "r1", Supplier: "Thomann", Date: "2026-02-15", Number: "TH-2026-44821", TotalGross: d("3572")},
			{ID: "r2", Supplier: "Kabelscheune", Date: "2026-02-18", Number: "KS-10234", TotalGross: d("316.50")},
			{ID: "r3", Supplier: "Samsung Direct", Date: "2026-02-20", Number: "SD-88102", TotalGross: d("2788")},
		},
		Lines: []ReceiptLine{
			{ID: "rl1", ReceiptID: "r1", Description: "JBL Control 25-1 (8 Stk)", Qty: d("8"), UnitPrice: d("185"), LineTotal: d("1480"), ItemID: "d1"},
			{ID: "rl2", ReceiptID: "r1", Description: "Crown CDi 1000 (2 Stk)", Qty: d("2"), UnitPrice: d("859"), LineTotal: d("1718"), ItemID: "d2"},
			{ID: "rl3", ReceiptID: "r1", Description: "BSS BLU-50", Qty: d("1"), UnitPrice: d("1199"), LineTotal: d("1199"), ItemID: "d5"},
			{ID: "rl4", ReceiptID: "r2", Description: "SC-Club 225 (200m)", Qty: d("200"), UnitPrice: d("1.15"), LineTotal: d("230"), ItemID: "d3"},
			{ID: "rl5", ReceiptID: "r2", Description: "Neutrik NL4FX (16 Stk)", Qty: d("16"), UnitPrice: d("4.20"), LineTotal: d("67.20"), ItemID: "d4"},
			{ID: "rl6", ReceiptID: "r2", Description: "Versandkosten", Qty: d("1"), UnitPrice: d("19.30"), LineTotal: d("19.30")},
			{ID: "rl7", ReceiptID: "r3", Description: "Samsung QB65R (2 Stk)", Qty: d("2"), UnitPrice: d("1394"), LineTotal: d("2788"), ItemID: "d7"},
		},
	}
}
