package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors shared by the stores.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// PipelineImportNote marks a receipt as created by the invoice import
// pipeline. It doubles as the receipt note so imported receipts are
// recognisable in older project files too.
const PipelineImportNote = "PDF-Import"

// Round2 rounds to currency minor-unit precision. Every persisted money
// amount goes through this.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// LineAmount computes a persisted total from quantity and unit price.
func LineAmount(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(qty.Mul(unitPrice))
}

// PlannedItem is a budgeted line item, classified by a taxonomy pair.
// Total is persisted at write time, never derived lazily.
type PlannedItem struct {
	ID        string
	Name      string
	Category  string
	Sub       string
	Qty       int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Notes     string
}

// Validate applies the item creation/update constraints.
func (i PlannedItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: item name required", ErrValidation)
	}
	if i.Qty <= 0 {
		return fmt.Errorf("%w: item quantity must be positive", ErrValidation)
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: item unit price must not be negative", ErrValidation)
	}
	return nil
}

// Receipt is a purchase document. TotalGross is user-stated, not derived
// from lines. Document holds the retained source file, if any.
type Receipt struct {
	ID           string
	Supplier     string
	Date         string // YYYY-MM-DD
	Number       string
	TotalGross   decimal.Decimal
	Notes        string
	Document     []byte
	DocumentName string
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.Supplier) == "" {
		return fmt.Errorf("%w: receipt supplier required", ErrValidation)
	}
	return nil
}

// HasDocument reports whether a source document is attached.
func (r Receipt) HasDocument() bool { return len(r.Document) > 0 }

// PipelineImported reports whether the receipt came from the import pipeline.
func (r Receipt) PipelineImported() bool { return r.Notes == PipelineImportNote }

// ReceiptLine is one purchased line within a receipt. ItemID is the
// allocation target; empty means unallocated. LineTotal is recomputed from
// Qty and UnitPrice on every mutation, never edited on its own.
type ReceiptLine struct {
	ID          string
	ReceiptID   string
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	ItemID      string
}

func (l ReceiptLine) Validate() error {
	if strings.TrimSpace(l.Description) == "" {
		return fmt.Errorf("%w: line description required", ErrValidation)
	}
	return nil
}

// Allocated reports whether the line is attributed to a planned item.
func (l ReceiptLine) Allocated() bool { return l.ItemID != "" }

// Project is the single persisted aggregate. It is saved and loaded as one
// snapshot, never partially.
type Project struct {
	ID       string
	Name     string
	Taxonomy Taxonomy
	Items    []PlannedItem
	Receipts []Receipt
	Lines    []ReceiptLine
}

// NewProject returns a fresh project with the default taxonomy.
func NewProject(name string) Project {
	if strings.TrimSpace(name) == "" {
		name = "Neues AV-Projekt"
	}
	return Project{
		ID:       uuid.NewString(),
		Name:     name,
		Taxonomy: DefaultTaxonomy(),
	}
}

// Clone returns a deep copy so readers never alias store-owned state.
func (p Project) Clone() Project {
	out := p
	out.Taxonomy = p.Taxonomy.Clone()
	out.Items = append([]PlannedItem(nil), p.Items...)
	out.Receipts = make([]Receipt, len(p.Receipts))
	for i, r := range p.Receipts {
		r.Document = append([]byte(nil), r.Document...)
		out.Receipts[i] = r
	}
	out.Lines = append([]ReceiptLine(nil), p.Lines...)
	return out
}

// Item returns the planned item with the given id.
func (p Project) Item(id string) (PlannedItem, bool) {
	for _, i := range p.Items {
		if i.ID == id {
			return i, true
		}
	}
	return PlannedItem{}, false
}

// Receipt returns the receipt with the given id.
func (p Project) Receipt(id string) (Receipt, bool) {
	for _, r := range p.Receipts {
		if r.ID == id {
			return r, true
		}
	}
	return Receipt{}, false
}

// Line returns the receipt line with the given id.
func (p Project) Line(id string) (ReceiptLine, bool) {
	for _, l := range p.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return ReceiptLine{}, false
}

// ReceiptLines returns the lines owned by one receipt, in insertion order.
func (p Project) ReceiptLines(receiptID string) []ReceiptLine {
	var out []ReceiptLine
	for _, l := range p.Lines {
		if l.ReceiptID == receiptID {
			out = append(out, l)
		}
	}
	return out
}
