package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2(t *testing.T) {
	require.True(t, Round2(d("1.005")).Equal(d("1.01")))
	require.True(t, Round2(d("1.004")).Equal(d("1.00")))
	require.True(t, Round2(d("756")).Equal(d("756")))
}

func TestLineAmount(t *testing.T) {
	// 2.5 m cable at 3.333 rounds once, on the product
	require.True(t, LineAmount(d("2.5"), d("3.333")).Equal(d("8.33")))
	require.True(t, LineAmount(d("4"), d("189")).Equal(d("756")))
}

func TestPlannedItemValidate(t *testing.T) {
	item := PlannedItem{Name: "Moving Head", Qty: 4, UnitPrice: d("189")}
	require.NoError(t, item.Validate())

	item.Name = "   "
	require.ErrorIs(t, item.Validate(), ErrValidation)

	item.Name = "Moving Head"
	item.Qty = 0
	require.ErrorIs(t, item.Validate(), ErrValidation)

	item.Qty = 4
	item.UnitPrice = d("-1")
	require.ErrorIs(t, item.Validate(), ErrValidation)
}

func TestReceiptValidate(t *testing.T) {
	require.ErrorIs(t, Receipt{}.Validate(), ErrValidation)
	require.NoError(t, Receipt{Supplier: "Thomann"}.Validate())
}

func TestReceiptLineValidate(t *testing.T) {
	require.ErrorIs(t, ReceiptLine{}.Validate(), ErrValidation)
	require.NoError(t, ReceiptLine{Description: "Kabel"}.Validate())
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject("")
	require.Equal(t, "Neues AV-Projekt", p.Name)
	require.NotEmpty(t, p.ID)
	require.NotEmpty(t, p.Taxonomy)
	require.Empty(t, p.Items)
}

func TestCloneDeepCopies(t *testing.T) {
	p := DemoProject()
	clone := p.Clone()

	clone.Items[0].Name = "geändert"
	clone.Taxonomy[0].Subs[0] = "geändert"
	clone.Lines[0].ItemID = "geändert"

	require.NotEqual(t, p.Items[0].Name, clone.Items[0].Name)
	require.NotEqual(t, p.Taxonomy[0].Subs[0], clone.Taxonomy[0].Subs[0])
	require.NotEqual(t, p.Lines[0].ItemID, clone.Lines[0].ItemID)
}

func TestDemoProjectConsistency(t *testing.T) {
	p := DemoProject()
	require.Len(t, p.Items, 10)
	require.Len(t, p.Receipts, 3)
	require.Len(t, p.Lines, 7)

	// every item total matches qty * unit price
	for _, it := range p.Items {
		want := LineAmount(decimal.NewFromInt(int64(it.Qty)), it.UnitPrice)
		require.True(t, it.Total.Equal(want), "item %s total", it.Name)
		require.True(t, p.Taxonomy.HasPair(it.Category, it.Sub), "item %s taxonomy", it.Name)
	}
	// every allocation and receipt reference resolves
	unallocated := 0
	for _, l := range p.Lines {
		_, ok := p.Receipt(l.ReceiptID)
		require.True(t, ok, "line %s receipt", l.ID)
		if !l.Allocated() {
			unallocated++
			continue
		}
		_, ok = p.Item(l.ItemID)
		require.True(t, ok, "line %s item", l.ID)
	}
	require.Equal(t, 1, unallocated)
}
