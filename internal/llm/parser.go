// Package llm holds the structured-extraction collaborator: the interface
// the import pipeline talks to, an OpenAI-backed implementation and an
// offline rules-based fallback.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Invoice is the fixed extraction contract. The collaborator must fill
// every field, using sensible defaults (qty 1, price 0) for anything it
// cannot determine, and list freight or packaging charges as their own
// line.
type Invoice struct {
	Supplier      string        `json:"supplier"`
	Date          string        `json:"date"` // YYYY-MM-DD
	InvoiceNumber string        `json:"invoiceNumber"`
	TotalGross    float64       `json:"totalGross"`
	Lines         []InvoiceLine `json:"lines"`
}

type InvoiceLine struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// InvoiceParser turns extracted invoice text into the structured contract.
type InvoiceParser interface {
	ParseInvoice(ctx context.Context, text string) (Invoice, error)
}

// decodeJSON strips incidental formatting wrappers (markdown fences,
// leading prose) before unmarshalling the payload.
func decodeJSON(raw string, v any) error {
	clean := strings.TrimSpace(raw)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if start := strings.IndexAny(clean, "{["); start > 0 {
		clean = clean[start:]
	}
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}
