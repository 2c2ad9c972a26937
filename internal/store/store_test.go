package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avkosten/kostentracker/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(domain.NewProject("Test"))
}

func TestProjectReturnsCopy(t *testing.T) {
	s := New(domain.DemoProject())
	p := s.Project()
	p.Items[0].Name = "geändert"
	p.Taxonomy[0].Name = "geändert"
	require.NotEqual(t, "geändert", s.Project().Items[0].Name)
	require.NotEqual(t, "geändert", s.Project().Taxonomy[0].Name)
}

func TestRename(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Rename("Messe 2026"))
	require.Equal(t, "Messe 2026", s.Project().Name)
	require.ErrorIs(t, s.Rename("   "), domain.ErrValidation)
}

func TestCreateItem(t *testing.T) {
	s := newStore(t)
	item, err := s.CreateItem(ItemDraft{
		Name: "JBL Control 25-1", Category: "Audio", Sub: "Lautsprecher",
		Qty: 4, UnitPrice: d("189"),
	})
	require.NoError(t, err)
	require.True(t, item.Total.Equal(d("756")))

	got, ok := s.Project().Item(item.ID)
	require.True(t, ok)
	require.Equal(t, item, got)
}

func TestCreateItemRejectsUnknownTaxonomyPair(t *testing.T) {
	s := newStore(t)
	_, err := s.CreateItem(ItemDraft{
		Name: "Posten", Category: "Audio", Sub: "Gibtesnicht", Qty: 1, UnitPrice: d("1"),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Empty(t, s.Project().Items)
}

func TestUpdateItemRecomputesTotalAndKeepsAllocations(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.UpdateItem("d1", ItemDraft{
		Name: "JBL Control 25-1", Category: "Audio", Sub: "Lautsprecher",
		Qty: 10, UnitPrice: d("189"),
	}))
	p := s.Project()
	item, _ := p.Item("d1")
	require.True(t, item.Total.Equal(d("1890")))

	line, _ := p.Line("rl1")
	require.Equal(t, "d1", line.ItemID)
}

func TestDeleteItemPurgesAllocatedLines(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.DeleteItem("d1"))
	p := s.Project()
	_, ok := p.Item("d1")
	require.False(t, ok)
	_, ok = p.Line("rl1")
	require.False(t, ok, "line allocated to d1 must be removed")
	// lines of other items stay
	_, ok = p.Line("rl2")
	require.True(t, ok)
}

func TestDeleteReceiptCascadesLines(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.DeleteReceipt("r2"))
	p := s.Project()
	for _, id := range []string{"rl4", "rl5", "rl6"} {
		_, ok := p.Line(id)
		require.False(t, ok, "line %s", id)
	}
	require.Len(t, p.Receipts, 2)
}

func TestCreateReceiptDefaultsDate(t *testing.T) {
	s := newStore(t)
	r, err := s.CreateReceipt(ReceiptDraft{Supplier: "Thomann"})
	require.NoError(t, err)
	require.NotEmpty(t, r.Date)

	_, err = s.CreateReceipt(ReceiptDraft{Supplier: "  "})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAttachDocument(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.AttachDocument("r1", "rechnung.pdf", []byte("%PDF-1.4")))
	r, _ := s.Project().Receipt("r1")
	require.True(t, r.HasDocument())
	require.Equal(t, "rechnung.pdf", r.DocumentName)

	err := s.AttachDocument("r1", "nochmal.pdf", []byte("x"))
	require.Error(t, err)
}

func TestAddLineRequiresReceipt(t *testing.T) {
	s := newStore(t)
	_, err := s.AddLine("fehlt", LineDraft{Description: "Kabel", Qty: d("1"), UnitPrice: d("2")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateLineRecomputesTotal(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.UpdateLine("rl6", LineDraft{Description: "Versandkosten", Qty: d("2"), UnitPrice: d("19.30")}))
	l, _ := s.Project().Line("rl6")
	require.True(t, l.LineTotal.Equal(d("38.60")))
}

func TestAllocate(t *testing.T) {
	s := New(domain.DemoProject())

	// reassign rl1 from d1 to d2
	require.NoError(t, s.Allocate("rl1", "d2"))
	l, _ := s.Project().Line("rl1")
	require.Equal(t, "d2", l.ItemID)

	// clear
	require.NoError(t, s.Allocate("rl1", ""))
	l, _ = s.Project().Line("rl1")
	require.False(t, l.Allocated())

	// unknown target rejected, line unchanged
	require.ErrorIs(t, s.Allocate("rl1", "fehlt"), domain.ErrNotFound)
	l, _ = s.Project().Line("rl1")
	require.False(t, l.Allocated())
}

func TestAdjustLineVATCompounds(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.AdjustLineVAT("rl6"))
	l, _ := s.Project().Line("rl6")
	require.True(t, l.UnitPrice.Equal(d("22.97")), "got %s", l.UnitPrice)
	require.True(t, l.LineTotal.Equal(d("22.97")))

	// a second application compounds, it is not idempotent
	require.NoError(t, s.AdjustLineVAT("rl6"))
	l, _ = s.Project().Line("rl6")
	require.True(t, l.UnitPrice.Equal(d("27.33")), "got %s", l.UnitPrice)
}

func TestAdjustReceiptVAT(t *testing.T) {
	s := New(domain.DemoProject())
	require.NoError(t, s.AdjustReceiptVAT("r2"))
	p := s.Project()
	for _, id := range []string{"rl4", "rl5", "rl6"} {
		l, _ := p.Line(id)
		require.True(t, l.LineTotal.Equal(domain.LineAmount(l.Qty, l.UnitPrice)), "line %s", id)
	}
	// other receipts untouched
	l, _ := p.Line("rl1")
	require.True(t, l.UnitPrice.Equal(d("185")))
}

func TestImportReceiptAtomic(t *testing.T) {
	s := newStore(t)
	r := domain.Receipt{ID: "imp1", Supplier: "Thomann", Date: "2026-03-01", Notes: domain.PipelineImportNote}
	lines := []domain.ReceiptLine{
		{ID: "l1", ReceiptID: "imp1", Description: "Kabel", Qty: d("2"), UnitPrice: d("5"), LineTotal: d("10")},
		{ID: "l2", ReceiptID: "anders", Description: "Stecker", Qty: d("1"), UnitPrice: d("3"), LineTotal: d("3")},
	}
	require.ErrorIs(t, s.ImportReceipt(r, lines), domain.ErrValidation)
	require.Empty(t, s.Project().Receipts, "nothing may be written on a rejected import")

	lines[1].ReceiptID = "imp1"
	require.NoError(t, s.ImportReceipt(r, lines))
	p := s.Project()
	require.Len(t, p.Receipts, 1)
	require.Len(t, p.Lines, 2)
	require.True(t, p.Receipts[0].PipelineImported())
}

func TestTaxonomyOps(t *testing.T) {
	s := newStore(t)
	s.AddCategory("Rigging")
	s.AddSubcategory("Rigging", "Traversen")
	p := s.Project()
	require.True(t, p.Taxonomy.HasPair("Rigging", "Traversen"))
	require.True(t, p.Taxonomy.HasPair("Rigging", "Sonstiges"))

	s.RemoveSubcategory("Rigging", "Traversen")
	s.RemoveCategory("Rigging")
	require.False(t, s.Project().Taxonomy.HasCategory("Rigging"))
}

func TestReset(t *testing.T) {
	s := New(domain.DemoProject())
	s.Reset("Neuanfang")
	p := s.Project()
	require.Equal(t, "Neuanfang", p.Name)
	require.Empty(t, p.Items)
	require.Empty(t, p.Receipts)
	require.Empty(t, p.Lines)
}
