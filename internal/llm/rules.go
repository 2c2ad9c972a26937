package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RulesParser is an offline, heuristic InvoiceParser. It keeps the import
// pipeline usable without an API key and backs the tests; the extraction
// quality is deliberately modest.
type RulesParser struct{}

func NewRulesParser() *RulesParser { return &RulesParser{} }

var (
	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`),
		regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
	}
	numberRe = regexp.MustCompile(`(?i)\b(?:Rechnungs-?(?:Nr\.?|nummer)|Beleg-?Nr\.?|Invoice\s*(?:No\.?|#))\s*:?\s*([A-Za-z0-9][A-Za-z0-9/_-]*)`)
	totalRe  = regexp.MustCompile(`(?i)\b(?:Gesamtbetrag|Rechnungsbetrag|Gesamt|Summe|Total)\b[^0-9-]*(-?\d{1,3}(?:[., ]\d{3})*(?:[.,]\d{1,2})?)`)

	// "desc  4 x 189,00  756,00" and "desc  4  189,00  756,00"
	lineRes = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s{2,}(\d+(?:[.,]\d+)?)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s{1,}(\d+(?:[.,]\d{2}))\s*$`),
		regexp.MustCompile(`^(.+?)\s{2,}(\d+(?:[.,]\d+)?)\s{2,}(\d+(?:[.,]\d{2}))\s{2,}(\d+(?:[.,]\d{2}))\s*$`),
	}
)

// ParseInvoice applies line-format heuristics to the raw text. Fields it
// cannot determine get the contract defaults.
func (p *RulesParser) ParseInvoice(_ context.Context, text string) (Invoice, error) {
	inv := Invoice{Date: guessDate(text), InvoiceNumber: guessNumber(text), TotalGross: guessTotal(text)}
	if inv.Date == "" {
		inv.Date = time.Now().Format(time.DateOnly)
	}
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " \t")
		if inv.Supplier == "" {
			if s := strings.TrimSpace(raw); s != "" && hasLetters(s) {
				inv.Supplier = truncate(s, 64)
			}
		}
		for _, re := range lineRes {
			m := re.FindStringSubmatch(raw)
			if m == nil {
				continue
			}
			desc := strings.TrimSpace(m[1])
			if desc == "" || looksLikeSummary(desc) {
				break
			}
			line := InvoiceLine{
				Description: truncate(desc, 128),
				Qty:         parseNum(m[2]),
				UnitPrice:   parseNum(m[3]),
				LineTotal:   parseNum(m[4]),
			}
			if line.Qty <= 0 {
				line.Qty = 1
			}
			if line.LineTotal == 0 {
				line.LineTotal = line.Qty * line.UnitPrice
			}
			inv.Lines = append(inv.Lines, line)
			break
		}
	}
	return inv, nil
}

func guessDate(text string) string {
	for i, re := range dateRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if i == 0 {
			return m[1] + "-" + m[2] + "-" + m[3]
		}
		return m[3] + "-" + pad2(m[2]) + "-" + pad2(m[1])
	}
	return ""
}

func guessNumber(text string) string {
	if m := numberRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func guessTotal(text string) float64 {
	if m := totalRe.FindStringSubmatch(text); m != nil {
		return parseNum(m[1])
	}
	return 0
}

func looksLikeSummary(desc string) bool {
	l := strings.ToLower(desc)
	for _, word := range []string{"summe", "gesamt", "total", "zwischensumme", "mwst", "ust", "netto", "brutto"} {
		if strings.Contains(l, word) {
			return true
		}
	}
	return false
}

// parseNum handles both German and decimal-point formats.
func parseNum(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") {
		// comma as decimal separator, dots as grouping
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func hasLetters(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
