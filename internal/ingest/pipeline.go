// Package ingest drives the document import pipeline: extract text from an
// uploaded invoice, parse it into structured data, stage the result for
// review, and commit the reviewed receipt into the project.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avkosten/kostentracker/internal/domain"
	"github.com/avkosten/kostentracker/internal/extract"
	"github.com/avkosten/kostentracker/internal/llm"
	"github.com/avkosten/kostentracker/internal/store"
)

// State names the pipeline phases. A pipeline is busy from Start until
// Commit or Cancel returns it to StateIdle.
type State string

const (
	StateIdle      State = "idle"
	StateReading   State = "reading"
	StateParsing   State = "parsing"
	StatePreview   State = "preview"
	StateCommitted State = "committed"
	StateError     State = "error"
)

// minTextLen is the shortest extraction considered usable. Anything below
// is treated as a scan without a text layer.
const minTextLen = 20

var (
	ErrBusy        = errors.New("import already in progress")
	ErrNotPreview  = errors.New("no staged import to operate on")
	ErrUnsupported = errors.New("only PDF documents are supported")
)

// StagedLine is one parsed invoice position awaiting review. Excluded
// lines stay visible but are skipped on commit.
type StagedLine struct {
	ID          string
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	Include     bool
}

// Preview is a point-in-time copy of the staged import.
type Preview struct {
	Supplier    string
	Date        string
	Number      string
	TotalGross  decimal.Decimal
	Lines       []StagedLine
	SourceName  string
	RawTextSize int
}

// Pipeline holds at most one staged import at a time.
type Pipeline struct {
	extractor extract.TextExtractor
	parser    llm.InvoiceParser
	log       zerolog.Logger

	mu       sync.Mutex
	state    State
	errMsg   string
	supplier string
	date     string
	number   string
	gross    decimal.Decimal
	lines    []StagedLine
	doc      []byte
	docName  string
	textLen  int
}

func New(extractor extract.TextExtractor, parser llm.InvoiceParser, log zerolog.Logger) *Pipeline {
	return &Pipeline{extractor: extractor, parser: parser, log: log, state: StateIdle}
}

// State reports the current phase and, in StateError, the failure message.
func (p *Pipeline) State() (State, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.errMsg
}

// Start runs extraction and parsing for one document and stages the result
// for review. It fails without side effects while another import is staged.
func (p *Pipeline) Start(ctx context.Context, filename string, doc []byte) error {
	p.mu.Lock()
	if p.state != StateIdle && p.state != StateError && p.state != StateCommitted {
		p.mu.Unlock()
		return ErrBusy
	}
	p.reset()
	p.state = StateReading
	p.mu.Unlock()

	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return p.fail(fmt.Errorf("%w: %s", ErrUnsupported, filename))
	}

	text, err := p.extractor.ExtractText(ctx, doc)
	if err != nil {
		return p.fail(fmt.Errorf("read document: %w", err))
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLen {
		return p.fail(errors.New("document contains no readable text, scanned PDFs are not supported"))
	}

	p.setState(StateParsing)
	inv, err := p.parser.ParseInvoice(ctx, text)
	if err != nil {
		return p.fail(fmt.Errorf("parse invoice: %w", err))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.supplier = strings.TrimSpace(inv.Supplier)
	if p.supplier == "" {
		p.supplier = "Unbekannter Lieferant"
	}
	p.date = inv.Date
	p.number = inv.InvoiceNumber
	p.gross = domain.Round2(decimal.NewFromFloat(inv.TotalGross))
	p.doc = doc
	p.docName = filepath.Base(filename)
	p.textLen = len(text)
	for _, l := range inv.Lines {
		qty := decimal.NewFromFloat(l.Qty)
		price := domain.Round2(decimal.NewFromFloat(l.UnitPrice))
		total := domain.Round2(decimal.NewFromFloat(l.LineTotal))
		if total.IsZero() {
			total = domain.LineAmount(qty, price)
		}
		p.lines = append(p.lines, StagedLine{
			ID:          uuid.NewString(),
			Description: strings.TrimSpace(l.Description),
			Qty:         qty,
			UnitPrice:   price,
			LineTotal:   total,
			Include:     true,
		})
	}
	p.state = StatePreview
	p.log.Info().
		Str("file", p.docName).
		Int("lines", len(p.lines)).
		Str("supplier", p.supplier).
		Msg("invoice staged for review")
	return nil
}

// Preview returns a copy of the staged import.
func (p *Pipeline) Preview() (Preview, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return Preview{}, ErrNotPreview
	}
	return Preview{
		Supplier:    p.supplier,
		Date:        p.date,
		Number:      p.number,
		TotalGross:  p.gross,
		Lines:       append([]StagedLine(nil), p.lines...),
		SourceName:  p.docName,
		RawTextSize: p.textLen,
	}, nil
}

// SetMeta overrides the parsed receipt header fields.
func (p *Pipeline) SetMeta(supplier, date, number string, gross decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return ErrNotPreview
	}
	if s := strings.TrimSpace(supplier); s != "" {
		p.supplier = s
	}
	if date != "" {
		p.date = date
	}
	p.number = number
	p.gross = domain.Round2(gross)
	return nil
}

// UpdateLine edits a staged line and recomputes its total.
func (p *Pipeline) UpdateLine(id, description string, qty, unitPrice decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return ErrNotPreview
	}
	for i := range p.lines {
		if p.lines[i].ID != id {
			continue
		}
		p.lines[i].Description = strings.TrimSpace(description)
		p.lines[i].Qty = qty
		p.lines[i].UnitPrice = domain.Round2(unitPrice)
		p.lines[i].LineTotal = domain.LineAmount(qty, p.lines[i].UnitPrice)
		return nil
	}
	return fmt.Errorf("%w: line %s", domain.ErrNotFound, id)
}

// AddLine appends an empty included line for manual entry.
func (p *Pipeline) AddLine() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return "", ErrNotPreview
	}
	id := uuid.NewString()
	p.lines = append(p.lines, StagedLine{ID: id, Qty: decimal.NewFromInt(1), Include: true})
	return id, nil
}

// RemoveLine drops a staged line entirely.
func (p *Pipeline) RemoveLine(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return ErrNotPreview
	}
	for i := range p.lines {
		if p.lines[i].ID == id {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: line %s", domain.ErrNotFound, id)
}

// ToggleLine flips whether a staged line is committed.
func (p *Pipeline) ToggleLine(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return ErrNotPreview
	}
	for i := range p.lines {
		if p.lines[i].ID == id {
			p.lines[i].Include = !p.lines[i].Include
			return nil
		}
	}
	return fmt.Errorf("%w: line %s", domain.ErrNotFound, id)
}

// IncludedTotal sums the included staged lines. Callers compare it against
// the stated gross to surface parsing discrepancies before commit.
func (p *Pipeline) IncludedTotal() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sum decimal.Decimal
	for _, l := range p.lines {
		if l.Include {
			sum = sum.Add(l.LineTotal)
		}
	}
	return domain.Round2(sum)
}

// Commit writes the staged receipt and its included, non-empty lines into
// the project in one step. All committed lines start unallocated.
func (p *Pipeline) Commit(s *store.Store) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreview {
		return "", ErrNotPreview
	}

	receiptID := uuid.NewString()
	receipt := domain.Receipt{
		ID:           receiptID,
		Supplier:     p.supplier,
		Date:         p.date,
		Number:       p.number,
		TotalGross:   p.gross,
		Notes:        domain.PipelineImportNote,
		Document:     p.doc,
		DocumentName: p.docName,
	}
	var lines []domain.ReceiptLine
	for _, l := range p.lines {
		if !l.Include || l.Description == "" {
			continue
		}
		lines = append(lines, domain.ReceiptLine{
			ID:          uuid.NewString(),
			ReceiptID:   receiptID,
			Description: l.Description,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	if err := s.ImportReceipt(receipt, lines); err != nil {
		return "", err
	}
	p.log.Info().Str("receipt", receiptID).Int("lines", len(lines)).Msg("invoice committed")
	p.reset()
	p.state = StateCommitted
	return receiptID, nil
}

// Cancel discards the staged import.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	p.state = StateIdle
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) fail(err error) error {
	p.mu.Lock()
	p.reset()
	p.state = StateError
	p.errMsg = err.Error()
	p.mu.Unlock()
	p.log.Warn().Err(err).Msg("invoice import failed")
	return err
}

// reset clears staged data; callers hold the lock and set the next state.
func (p *Pipeline) reset() {
	p.errMsg = ""
	p.supplier = ""
	p.date = ""
	p.number = ""
	p.gross = decimal.Zero
	p.lines = nil
	p.doc = nil
	p.docName = ""
	p.textLen = 0
}
