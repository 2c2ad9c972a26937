package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"supplier\":\"Thomann\",\"totalGross\":180}\n```"
	var inv Invoice
	require.NoError(t, decodeJSON(raw, &inv))
	require.Equal(t, "Thomann", inv.Supplier)
	require.Equal(t, 180.0, inv.TotalGross)
}

func TestDecodeJSONStripsLeadingProse(t *testing.T) {
	raw := "Hier ist das Ergebnis:\n{\"supplier\":\"X\",\"lines\":[{\"description\":\"Kabel\",\"qty\":2,\"unitPrice\":5,\"lineTotal\":10}]}"
	var inv Invoice
	require.NoError(t, decodeJSON(raw, &inv))
	require.Len(t, inv.Lines, 1)
	require.Equal(t, "Kabel", inv.Lines[0].Description)
	require.Equal(t, 10.0, inv.Lines[0].LineTotal)
}

func TestDecodeJSONMalformed(t *testing.T) {
	var inv Invoice
	require.Error(t, decodeJSON("kein json", &inv))
}

func TestOpenAIParserRequiresKey(t *testing.T) {
	p := NewOpenAIParser("", "", 0)
	_, err := p.ParseInvoice(context.Background(), "Rechnung")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

const sampleInvoiceText = `Thomann GmbH
Treppendorf 30, 96138 Burgebrach

Rechnungs-Nr: TH-2026-44821
Datum: 15.02.2026

Pos  Artikel
JBL Control 25-1  8 x 185,00  1480,00
Crown CDi 1000  2 x 859,00  1718,00
Versandkosten  1 x 19,30  19,30

Gesamtbetrag: 3.217,30 EUR`

func TestRulesParser(t *testing.T) {
	inv, err := NewRulesParser().ParseInvoice(context.Background(), sampleInvoiceText)
	require.NoError(t, err)
	require.Equal(t, "Thomann GmbH", inv.Supplier)
	require.Equal(t, "2026-02-15", inv.Date)
	require.Equal(t, "TH-2026-44821", inv.InvoiceNumber)
	require.Equal(t, 3217.30, inv.TotalGross)
	require.Len(t, inv.Lines, 3)
	require.Equal(t, "JBL Control 25-1", inv.Lines[0].Description)
	require.Equal(t, 8.0, inv.Lines[0].Qty)
	require.Equal(t, 185.0, inv.Lines[0].UnitPrice)
	require.Equal(t, 1480.0, inv.Lines[0].LineTotal)
}

func TestRulesParserSkipsSummaryRows(t *testing.T) {
	text := `Lieferant AG
Kabel  2 x 5,00  10,00
Zwischensumme  1 x 10,00  10,00
Gesamt: 10,00`
	inv, err := NewRulesParser().ParseInvoice(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	require.Equal(t, "Kabel", inv.Lines[0].Description)
}

func TestRulesParserDefaultsDate(t *testing.T) {
	inv, err := NewRulesParser().ParseInvoice(context.Background(), "Lieferant ohne Datum")
	require.NoError(t, err)
	require.NotEmpty(t, inv.Date)
}

func TestParseNumFormats(t *testing.T) {
	require.Equal(t, 1480.0, parseNum("1.480,00"))
	require.Equal(t, 19.3, parseNum("19,30"))
	require.Equal(t, 19.3, parseNum("19.30"))
	require.Equal(t, 0.0, parseNum("abc"))
}
