// Package store owns the single in-memory Project aggregate. Every
// mutation takes the lock, works on a deep copy and swaps it in whole, so
// readers never observe a half-applied change.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avkosten/kostentracker/internal/domain"
)

// vatRate is the fixed-rate adjustment applied by the +19% helper.
var vatRate = decimal.RequireFromString("1.19")

// Store serialises access to one Project. All mutators are synchronous;
// failed validation leaves the aggregate untouched.
type Store struct {
	mu sync.Mutex
	p  domain.Project
}

func New(p domain.Project) *Store {
	return &Store{p: p.Clone()}
}

// Project returns a deep copy of the current aggregate.
func (s *Store) Project() domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Clone()
}

// Replace swaps in a whole new aggregate, e.g. after loading a snapshot.
func (s *Store) Replace(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p.Clone()
}

// Reset starts a fresh project with the default taxonomy.
func (s *Store) Reset(name string) {
	s.Replace(domain.NewProject(name))
}

// Rename sets the project name.
func (s *Store) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: project name required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Name = name
	return nil
}

// mutate runs fn on a copy and commits it only on success.
func (s *Store) mutate(fn func(p *domain.Project) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.p.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.p = next
	return nil
}

// ---- Taxonomy ----

func (s *Store) AddCategory(name string) {
	_ = s.mutate(func(p *domain.Project) error {
		p.Taxonomy = p.Taxonomy.AddCategory(name)
		return nil
	})
}

// RemoveCategory drops the category without touching planned items; their
// labels go stale and show up as unknown references in reports.
func (s *Store) RemoveCategory(name string) {
	_ = s.mutate(func(p *domain.Project) error {
		p.Taxonomy = p.Taxonomy.RemoveCategory(name)
		return nil
	})
}

func (s *Store) AddSubcategory(category, sub string) {
	_ = s.mutate(func(p *domain.Project) error {
		p.Taxonomy = p.Taxonomy.AddSub(category, sub)
		return nil
	})
}

func (s *Store) RemoveSubcategory(category, sub string) {
	_ = s.mutate(func(p *domain.Project) error {
		p.Taxonomy = p.Taxonomy.RemoveSub(category, sub)
		return nil
	})
}

// ---- Planned items ----

// ItemDraft carries the user-editable item fields.
type ItemDraft struct {
	Name      string
	Category  string
	Sub       string
	Qty       int
	UnitPrice decimal.Decimal
	Notes     string
}

// CreateItem validates the draft against the current taxonomy and stores
// the item with an eagerly computed planned total.
func (s *Store) CreateItem(d ItemDraft) (domain.PlannedItem, error) {
	item := domain.PlannedItem{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(d.Name),
		Category:  d.Category,
		Sub:       d.Sub,
		Qty:       d.Qty,
		UnitPrice: d.UnitPrice,
		Notes:     d.Notes,
	}
	if err := item.Validate(); err != nil {
		return domain.PlannedItem{}, err
	}
	item.Total = domain.LineAmount(decimal.NewFromInt(int64(item.Qty)), item.UnitPrice)
	err := s.mutate(func(p *domain.Project) error {
		if !p.Taxonomy.HasPair(item.Category, item.Sub) {
			return fmt.Errorf("%w: unknown category pair %q/%q", domain.ErrValidation, item.Category, item.Sub)
		}
		p.Items = append(p.Items, item)
		return nil
	})
	if err != nil {
		return domain.PlannedItem{}, err
	}
	return item, nil
}

// UpdateItem re-validates and recomputes the planned total. Allocations
// pointing at the item survive the edit.
func (s *Store) UpdateItem(id string, d ItemDraft) error {
	return s.mutate(func(p *domain.Project) error {
		for i, item := range p.Items {
			if item.ID != id {
				continue
			}
			next := item
			next.Name = strings.TrimSpace(d.Name)
			next.Category = d.Category
			next.Sub = d.Sub
			next.Qty = d.Qty
			next.UnitPrice = d.UnitPrice
			next.Notes = d.Notes
			if err := next.Validate(); err != nil {
				return err
			}
			if !p.Taxonomy.HasPair(next.Category, next.Sub) {
				return fmt.Errorf("%w: unknown category pair %q/%q", domain.ErrValidation, next.Category, next.Sub)
			}
			next.Total = domain.LineAmount(decimal.NewFromInt(int64(next.Qty)), next.UnitPrice)
			p.Items[i] = next
			return nil
		}
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	})
}

// DeleteItem removes the item and purges every receipt line allocated to
// it. The purge is deliberate policy: a line attributed to a deleted
// budget position is treated as spent against nothing and dropped, it is
// not silently moved to the unallocated pool.
func (s *Store) DeleteItem(id string) error {
	return s.mutate(func(p *domain.Project) error {
		idx := -1
		for i, item := range p.Items {
			if item.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
		kept := p.Lines[:0]
		for _, l := range p.Lines {
			if l.ItemID != id {
				kept = append(kept, l)
			}
		}
		p.Lines = kept
		return nil
	})
}

// ---- Receipts ----

// ReceiptDraft carries the user-editable receipt fields.
type ReceiptDraft struct {
	Supplier   string
	Date       string
	Number     string
	TotalGross decimal.Decimal
	Notes      string
}

func (s *Store) CreateReceipt(d ReceiptDraft) (domain.Receipt, error) {
	r := domain.Receipt{
		ID:         uuid.NewString(),
		Supplier:   strings.TrimSpace(d.Supplier),
		Date:       d.Date,
		Number:     d.Number,
		TotalGross: d.TotalGross,
		Notes:      d.Notes,
	}
	if r.Date == "" {
		r.Date = time.Now().Format(time.DateOnly)
	}
	if err := r.Validate(); err != nil {
		return domain.Receipt{}, err
	}
	err := s.mutate(func(p *domain.Project) error {
		p.Receipts = append(p.Receipts, r)
		return nil
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	return r, nil
}

// UpdateReceipt replaces the editable fields by id. The attached document
// is managed separately via AttachDocument.
func (s *Store) UpdateReceipt(id string, d ReceiptDraft) error {
	return s.mutate(func(p *domain.Project) error {
		for i, r := range p.Receipts {
			if r.ID != id {
				continue
			}
			next := r
			next.Supplier = strings.TrimSpace(d.Supplier)
			next.Date = d.Date
			next.Number = d.Number
			next.TotalGross = d.TotalGross
			next.Notes = d.Notes
			if err := next.Validate(); err != nil {
				return err
			}
			p.Receipts[i] = next
			return nil
		}
		return fmt.Errorf("receipt %s: %w", id, domain.ErrNotFound)
	})
}

// DeleteReceipt removes the receipt and hard-deletes all its lines.
func (s *Store) DeleteReceipt(id string) error {
	return s.mutate(func(p *domain.Project) error {
		idx := -1
		for i, r := range p.Receipts {
			if r.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("receipt %s: %w", id, domain.ErrNotFound)
		}
		p.Receipts = append(p.Receipts[:idx], p.Receipts[idx+1:]...)
		kept := p.Lines[:0]
		for _, l := range p.Lines {
			if l.ReceiptID != id {
				kept = append(kept, l)
			}
		}
		p.Lines = kept
		return nil
	})
}

// AttachDocument stores the original source file on a receipt that has
// none yet. Bytes are kept verbatim for later retrieval.
func (s *Store) AttachDocument(receiptID, filename string, data []byte) error {
	return s.mutate(func(p *domain.Project) error {
		for i, r := range p.Receipts {
			if r.ID != receiptID {
				continue
			}
			if r.HasDocument() {
				return fmt.Errorf("%w: receipt %s already has a document", domain.ErrValidation, receiptID)
			}
			p.Receipts[i].Document = append([]byte(nil), data...)
			p.Receipts[i].DocumentName = filename
			return nil
		}
		return fmt.Errorf("receipt %s: %w", receiptID, domain.ErrNotFound)
	})
}

// ---- Receipt lines ----

// LineDraft carries the user-editable receipt line fields.
type LineDraft struct {
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
}

// AddLine appends a line to an existing receipt. Allocation starts empty.
func (s *Store) AddLine(receiptID string, d LineDraft) (domain.ReceiptLine, error) {
	line := domain.ReceiptLine{
		ID:          uuid.NewString(),
		ReceiptID:   receiptID,
		Description: strings.TrimSpace(d.Description),
		Qty:         d.Qty,
		UnitPrice:   d.UnitPrice,
	}
	if err := line.Validate(); err != nil {
		return domain.ReceiptLine{}, err
	}
	line.LineTotal = domain.LineAmount(line.Qty, line.UnitPrice)
	err := s.mutate(func(p *domain.Project) error {
		if _, ok := p.Receipt(receiptID); !ok {
			return fmt.Errorf("receipt %s: %w", receiptID, domain.ErrNotFound)
		}
		p.Lines = append(p.Lines, line)
		return nil
	})
	if err != nil {
		return domain.ReceiptLine{}, err
	}
	return line, nil
}

// UpdateLine replaces description, quantity and unit price and recomputes
// the line total. The owning receipt and the allocation are untouched.
func (s *Store) UpdateLine(id string, d LineDraft) error {
	return s.mutate(func(p *domain.Project) error {
		for i, l := range p.Lines {
			if l.ID != id {
				continue
			}
			next := l
			next.Description = strings.TrimSpace(d.Description)
			next.Qty = d.Qty
			next.UnitPrice = d.UnitPrice
			if err := next.Validate(); err != nil {
				return err
			}
			next.LineTotal = domain.LineAmount(next.Qty, next.UnitPrice)
			p.Lines[i] = next
			return nil
		}
		return fmt.Errorf("line %s: %w", id, domain.ErrNotFound)
	})
}

// DeleteLine removes one line. No cascade.
func (s *Store) DeleteLine(id string) error {
	return s.mutate(func(p *domain.Project) error {
		for i, l := range p.Lines {
			if l.ID == id {
				p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("line %s: %w", id, domain.ErrNotFound)
	})
}

// ---- Allocation ----

// Allocate attributes a line to a planned item, or clears the allocation
// when itemID is empty. A non-empty target must exist right now; the prior
// allocation is always replaced, never added to.
func (s *Store) Allocate(lineID, itemID string) error {
	return s.mutate(func(p *domain.Project) error {
		if itemID != "" {
			if _, ok := p.Item(itemID); !ok {
				return fmt.Errorf("allocation target %s: %w", itemID, domain.ErrNotFound)
			}
		}
		for i, l := range p.Lines {
			if l.ID == lineID {
				p.Lines[i].ItemID = itemID
				return nil
			}
		}
		return fmt.Errorf("line %s: %w", lineID, domain.ErrNotFound)
	})
}

// ---- Rate adjustment ----

// AdjustLineVAT applies the +19% markup to one line's unit price and
// recomputes its total. Calling it again compounds; that is intentional,
// the helper is a manual action, never applied automatically.
func (s *Store) AdjustLineVAT(lineID string) error {
	return s.mutate(func(p *domain.Project) error {
		for i, l := range p.Lines {
			if l.ID == lineID {
				p.Lines[i] = adjustVAT(l)
				return nil
			}
		}
		return fmt.Errorf("line %s: %w", lineID, domain.ErrNotFound)
	})
}

// AdjustReceiptVAT applies the +19% markup to every line of a receipt.
func (s *Store) AdjustReceiptVAT(receiptID string) error {
	return s.mutate(func(p *domain.Project) error {
		if _, ok := p.Receipt(receiptID); !ok {
			return fmt.Errorf("receipt %s: %w", receiptID, domain.ErrNotFound)
		}
		for i, l := range p.Lines {
			if l.ReceiptID == receiptID {
				p.Lines[i] = adjustVAT(l)
			}
		}
		return nil
	})
}

func adjustVAT(l domain.ReceiptLine) domain.ReceiptLine {
	l.UnitPrice = domain.Round2(l.UnitPrice.Mul(vatRate))
	l.LineTotal = domain.LineAmount(l.Qty, l.UnitPrice)
	return l
}

// ---- Pipeline commit ----

// ImportReceipt appends one receipt and its lines in a single transition.
// The pipeline uses this for commit; it is all-or-nothing.
func (s *Store) ImportReceipt(r domain.Receipt, lines []domain.ReceiptLine) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, l := range lines {
		if l.ReceiptID != r.ID {
			return fmt.Errorf("%w: line %s does not belong to receipt %s", domain.ErrValidation, l.ID, r.ID)
		}
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return s.mutate(func(p *domain.Project) error {
		p.Receipts = append(p.Receipts, r)
		p.Lines = append(p.Lines, lines...)
		return nil
	})
}
