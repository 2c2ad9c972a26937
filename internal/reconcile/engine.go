// Package reconcile computes the read-side aggregates: actual cost,
// variance, rollups and statuses. Everything here is a pure function over
// a Project snapshot; nothing is cached between reads.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/avkosten/kostentracker/internal/domain"
)

// ItemStatus classifies a planned item against its actual spend.
type ItemStatus string

const (
	// StatusOpen: nothing spent against the item yet.
	StatusOpen ItemStatus = "Offen"
	// StatusWithinBudget: spend is at or below plan. Equality counts as
	// within budget, not over.
	StatusWithinBudget ItemStatus = "Im Budget"
	// StatusOverBudget: spend exceeds plan.
	StatusOverBudget ItemStatus = "Über Budget"
)

// Status applies the classification precedence: zero spend wins over the
// budget comparison.
func Status(planned, actual decimal.Decimal) ItemStatus {
	switch {
	case actual.IsZero():
		return StatusOpen
	case actual.Cmp(planned) <= 0:
		return StatusWithinBudget
	default:
		return StatusOverBudget
	}
}

// ActualByItem maps planned-item id to the sum of allocated line totals.
// This is the allocation index, rebuilt from the lines on every call.
func ActualByItem(p domain.Project) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for _, l := range p.Lines {
		if l.Allocated() {
			m[l.ItemID] = m[l.ItemID].Add(l.LineTotal)
		}
	}
	return m
}

// LinesByItem maps planned-item id to its allocated lines, in insertion order.
func LinesByItem(p domain.Project) map[string][]domain.ReceiptLine {
	m := make(map[string][]domain.ReceiptLine)
	for _, l := range p.Lines {
		if l.Allocated() {
			m[l.ItemID] = append(m[l.ItemID], l)
		}
	}
	return m
}

// ActualCost returns the actual spend attributed to one item.
func ActualCost(p domain.Project, itemID string) decimal.Decimal {
	var sum decimal.Decimal
	if itemID == "" {
		return sum
	}
	for _, l := range p.Lines {
		if l.ItemID == itemID {
			sum = sum.Add(l.LineTotal)
		}
	}
	return sum
}

// UnallocatedTotal sums the line totals of all unallocated lines across
// all receipts.
func UnallocatedTotal(p domain.Project) decimal.Decimal {
	var sum decimal.Decimal
	for _, l := range p.Lines {
		if !l.Allocated() {
			sum = sum.Add(l.LineTotal)
		}
	}
	return sum
}

// Summary is the project-wide KPI block.
type Summary struct {
	Planned     decimal.Decimal
	Actual      decimal.Decimal
	Variance    decimal.Decimal
	Unallocated decimal.Decimal
	Lines       int
	Allocated   int
}

// Summarize computes the project totals. Variance is planned minus actual;
// non-negative means under or on budget.
func Summarize(p domain.Project) Summary {
	var s Summary
	for _, i := range p.Items {
		s.Planned = s.Planned.Add(i.Total)
	}
	for _, l := range p.Lines {
		s.Lines++
		if l.Allocated() {
			s.Allocated++
			s.Actual = s.Actual.Add(l.LineTotal)
		} else {
			s.Unallocated = s.Unallocated.Add(l.LineTotal)
		}
	}
	s.Variance = s.Planned.Sub(s.Actual)
	return s
}

// ItemView is one planned item with its derived figures.
type ItemView struct {
	Item     domain.PlannedItem
	Actual   decimal.Decimal
	Variance decimal.Decimal
	Status   ItemStatus
	Lines    []domain.ReceiptLine
}

// SubRollup aggregates one subcategory. Planned and actual are summed
// independently; variance is their difference, not a sum of item
// variances, so rounding never drifts.
type SubRollup struct {
	Sub      string
	Planned  decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
	Unknown  bool
	Items    []ItemView
}

// CategoryRollup aggregates one category.
type CategoryRollup struct {
	Category string
	Planned  decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
	// Unknown marks a category label no longer present in the taxonomy.
	// Stale references are reported, not hidden and not fatal.
	Unknown bool
	Subs    []SubRollup
}

// Overview builds the category → subcategory → item hierarchy. Categories
// and subcategories still present in the taxonomy come first, in taxonomy
// declaration order; labels that survive only on items (taxonomy edited
// after the fact) are appended in item insertion order and flagged.
func Overview(p domain.Project) []CategoryRollup {
	actual := ActualByItem(p)
	lines := LinesByItem(p)

	catOrder, catKnown := labelOrder(p.Taxonomy.Categories(), itemCategories(p.Items))

	var out []CategoryRollup
	for _, cat := range catOrder {
		catItems := itemsInCategory(p.Items, cat)
		if len(catItems) == 0 && !catKnown[cat] {
			continue
		}
		declared := []string(nil)
		if c, ok := p.Taxonomy.Category(cat); ok {
			declared = c.Subs
		}
		subOrder, subKnown := labelOrder(declared, itemSubs(catItems))

		roll := CategoryRollup{Category: cat, Unknown: !catKnown[cat]}
		for _, sub := range subOrder {
			subItems := itemsInSub(catItems, sub)
			if len(subItems) == 0 {
				continue
			}
			sr := SubRollup{Sub: sub, Unknown: !catKnown[cat] || !subKnown[sub]}
			for _, item := range subItems {
				a := actual[item.ID]
				sr.Items = append(sr.Items, ItemView{
					Item:     item,
					Actual:   a,
					Variance: item.Total.Sub(a),
					Status:   Status(item.Total, a),
					Lines:    lines[item.ID],
				})
				sr.Planned = sr.Planned.Add(item.Total)
				sr.Actual = sr.Actual.Add(a)
			}
			sr.Variance = sr.Planned.Sub(sr.Actual)
			roll.Planned = roll.Planned.Add(sr.Planned)
			roll.Actual = roll.Actual.Add(sr.Actual)
			roll.Subs = append(roll.Subs, sr)
		}
		if len(roll.Subs) == 0 {
			continue
		}
		roll.Variance = roll.Planned.Sub(roll.Actual)
		out = append(out, roll)
	}
	return out
}

// ReceiptSummary reports per-receipt reconciliation figures.
type ReceiptSummary struct {
	Receipt     domain.Receipt
	Lines       int
	Allocated   int
	LinesTotal  decimal.Decimal
	Delta       decimal.Decimal // stated gross minus lines total
	Discrepancy bool            // |delta| beyond a cent
}

// SummarizeReceipt compares a receipt's stated gross total against the sum
// of its lines. A mismatch is surfaced, never enforced.
func SummarizeReceipt(p domain.Project, receiptID string) (ReceiptSummary, error) {
	r, ok := p.Receipt(receiptID)
	if !ok {
		return ReceiptSummary{}, domain.ErrNotFound
	}
	out := ReceiptSummary{Receipt: r}
	for _, l := range p.ReceiptLines(receiptID) {
		out.Lines++
		if l.Allocated() {
			out.Allocated++
		}
		out.LinesTotal = out.LinesTotal.Add(l.LineTotal)
	}
	out.Delta = r.TotalGross.Sub(out.LinesTotal)
	out.Discrepancy = out.Delta.Abs().Cmp(decimal.New(1, -2)) > 0
	return out, nil
}

// labelOrder merges declared labels with labels only present on items:
// declared order first, then stragglers in first-seen order.
func labelOrder(declared, seen []string) ([]string, map[string]bool) {
	known := make(map[string]bool, len(declared))
	order := make([]string, 0, len(declared)+len(seen))
	for _, d := range declared {
		known[d] = true
		order = append(order, d)
	}
	for _, s := range seen {
		if _, ok := known[s]; !ok {
			known[s] = false
			order = append(order, s)
		}
	}
	return order, known
}

func itemCategories(items []domain.PlannedItem) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, i := range items {
		if _, ok := seen[i.Category]; !ok {
			seen[i.Category] = struct{}{}
			out = append(out, i.Category)
		}
	}
	return out
}

func itemSubs(items []domain.PlannedItem) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, i := range items {
		if _, ok := seen[i.Sub]; !ok {
			seen[i.Sub] = struct{}{}
			out = append(out, i.Sub)
		}
	}
	return out
}

func itemsInCategory(items []domain.PlannedItem, cat string) []domain.PlannedItem {
	var out []domain.PlannedItem
	for _, i := range items {
		if i.Category == cat {
			out = append(out, i)
		}
	}
	return out
}

func itemsInSub(items []domain.PlannedItem, sub string) []domain.PlannedItem {
	var out []domain.PlannedItem
	for _, i := range items {
		if i.Sub == sub {
			out = append(out, i)
		}
	}
	return out
}
