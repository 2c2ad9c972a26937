package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avkosten/kostentracker/internal/domain"
)

func TestSuggestAllocationsRanksByName(t *testing.T) {
	p := domain.DemoProject()
	line, ok := p.Line("rl6") // "Versandkosten", matches nothing
	require.True(t, ok)
	require.Empty(t, SuggestAllocations(p, line, 3))

	line.Description = "JBL Control 25-1 Deckenlautsprecher"
	sugs := SuggestAllocations(p, line, 3)
	require.NotEmpty(t, sugs)
	require.Equal(t, "d1", sugs[0].Item.ID)
	for i := 1; i < len(sugs); i++ {
		require.LessOrEqual(t, sugs[i].Similarity, sugs[i-1].Similarity)
	}
}

func TestSuggestAllocationsExactContainment(t *testing.T) {
	p := domain.DemoProject()
	line := domain.ReceiptLine{Description: "2x Crown CDi 1000 Endstufe"}
	sugs := SuggestAllocations(p, line, 1)
	require.Len(t, sugs, 1)
	require.Equal(t, "d2", sugs[0].Item.ID)
	require.Equal(t, 1.0, sugs[0].Similarity)
}

func TestSuggestAllocationsEmptyDescription(t *testing.T) {
	p := domain.DemoProject()
	require.Nil(t, SuggestAllocations(p, domain.ReceiptLine{Description: "  "}, 5))
}

func TestSuggestAllocationsLimit(t *testing.T) {
	p := domain.DemoProject()
	line := domain.ReceiptLine{Description: "Kabel 10m"}
	sugs := SuggestAllocations(p, line, 1)
	require.LessOrEqual(t, len(sugs), 1)
}
