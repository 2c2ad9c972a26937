package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// promptBudget bounds the invoice text sent to the model.
const promptBudget = 6000

const systemPrompt = `Du bist ein Rechnungsparser für AV-Installationen (Audio, Video, Licht, Steuerung).
Extrahiere aus dem Rechnungstext folgende Informationen:

1. Rechnungsmetadaten:
   - supplier: Lieferant/Firma
   - date: Rechnungsdatum (YYYY-MM-DD)
   - invoiceNumber: Rechnungsnummer
   - totalGross: Gesamtbetrag brutto (Zahl)

2. Einzelpositionen (Array "lines"):
   - description: Artikelbezeichnung (kurz und prägnant)
   - qty: Menge (Zahl)
   - unitPrice: Einzelpreis netto (Zahl)
   - lineTotal: Positionssumme (Zahl)

Antworte NUR mit validem JSON, kein Markdown, keine Backticks, kein sonstiger Text.
Beispiel:
{"supplier":"Thomann","date":"2026-01-15","invoiceNumber":"TH-123","totalGross":1234.56,"lines":[{"description":"JBL Control 25-1","qty":4,"unitPrice":189.00,"lineTotal":756.00}]}

Wenn du Versandkosten, Verpackung oder ähnliche Nebenkosten findest, liste sie als eigene Position.
Benutze Dezimalpunkte, keine Kommas für Zahlen.
Wenn du etwas nicht erkennen kannst, verwende sinnvolle Standardwerte (qty: 1, unitPrice: 0).`

var ErrNoAPIKey = fmt.Errorf("openai: api key not configured")

// OpenAIParser implements InvoiceParser against the chat completions API.
type OpenAIParser struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
}

func NewOpenAIParser(apiKey, model string, timeout time.Duration) *OpenAIParser {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIParser{apiKey: strings.TrimSpace(apiKey), model: strings.TrimSpace(model), timeout: timeout}
}

func (p *OpenAIParser) ensureClient() error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	if p.client == nil {
		p.client = openai.NewClient(p.apiKey)
	}
	return nil
}

// ParseInvoice sends the bounded invoice text and decodes the contract
// JSON. A failed or non-conforming response surfaces as an error, never a
// partial result.
func (p *OpenAIParser) ParseInvoice(ctx context.Context, text string) (Invoice, error) {
	if err := p.ensureClient(); err != nil {
		return Invoice{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if len(text) > promptBudget {
		text = text[:promptBudget]
	}
	model := p.model
	if model == "" {
		model = openai.GPT4oMini
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   1000,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Bitte parse diese Rechnung:\n\n" + text},
		},
	})
	if err != nil {
		return Invoice{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Invoice{}, fmt.Errorf("openai: empty response")
	}
	var out Invoice
	if err := decodeJSON(resp.Choices[0].Message.Content, &out); err != nil {
		return Invoice{}, fmt.Errorf("openai: parse invoice: %w", err)
	}
	return out, nil
}
