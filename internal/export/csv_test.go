package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avkosten/kostentracker/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, domain.DemoProject()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "BOM missing")

	lines := strings.Split(strings.TrimSpace(string(raw[3:])), "\n")
	require.Equal(t, "Gewerk;Unterkategorie;Bezeichnung;Menge;Einzelpreis;Soll;Ist;Differenz", lines[0])
	require.Len(t, lines, 11) // header + 10 items

	// first data row follows taxonomy order: Licht before Audio
	require.True(t, strings.HasPrefix(lines[1], "Licht;"), "got %q", lines[1])

	// the JBL row carries planned, actual and variance with two decimals
	var jbl string
	for _, l := range lines {
		if strings.Contains(l, "JBL Control 25-1") {
			jbl = l
		}
	}
	require.Equal(t, "Audio;Lautsprecher;JBL Control 25-1;8;189.00;1512.00;1480.00;32.00", jbl)
}

func TestWriteCSVEmptyProject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, domain.NewProject("Leer")))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "only the header")
}
