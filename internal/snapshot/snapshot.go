// Package snapshot serializes a whole project to and from the
// .avproj.json on-disk format. The wire format keeps the field names of
// earlier releases so old project files keep loading.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avkosten/kostentracker/internal/domain"
)

const (
	// Version is the current snapshot schema version.
	Version = 2
	// TypeTag marks a file as a project snapshot of this application.
	TypeTag = "av-kostentracker-project"
	// Ext is the canonical snapshot file extension.
	Ext = ".avproj.json"
)

type envelope struct {
	Version int        `json:"_version"`
	Type    string     `json:"_type"`
	SavedAt string     `json:"_savedAt"`
	Project projectDTO `json:"project"`
}

type projectDTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Taxonomy orderedTax   `json:"categories"`
	Items    []itemDTO    `json:"items"`
	Receipts []receiptDTO `json:"receipts"`
	Lines    []lineDTO    `json:"receiptLines"`
}

type itemDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Gewerk    string  `json:"gewerk"`
	Sub       string  `json:"sub"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
	Notes     string  `json:"notes"`
}

type receiptDTO struct {
	ID          string  `json:"id"`
	Supplier    string  `json:"supplier"`
	Date        string  `json:"date"`
	Number      string  `json:"number"`
	TotalGross  float64 `json:"totalGross"`
	Notes       string  `json:"notes"`
	PDFBase64   string  `json:"pdfBase64,omitempty"`
	PDFFileName string  `json:"pdfFileName,omitempty"`
}

type lineDTO struct {
	ID          string  `json:"id"`
	ReceiptID   string  `json:"receiptId"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	ItemID      *string `json:"itemId"`
}

// orderedTax marshals the taxonomy as a JSON object whose key order is the
// category declaration order. encoding/json maps would sort keys, so both
// directions go through the token stream.
type orderedTax domain.Taxonomy

func (t orderedTax) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		subs, err := json.Marshal(cat.Subs)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(subs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *orderedTax) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("taxonomy: expected object, got %v", tok)
	}
	var out domain.Taxonomy
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("taxonomy: expected category name, got %v", tok)
		}
		var subs []string
		if err := dec.Decode(&subs); err != nil {
			return fmt.Errorf("taxonomy %q: %w", name, err)
		}
		out = append(out, domain.TaxonomyCategory{Name: name, Subs: subs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = orderedTax(out)
	return nil
}

// Write serializes the project with its envelope.
func Write(w io.Writer, p domain.Project) error {
	env := envelope{
		Version: Version,
		Type:    TypeTag,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Project: toDTO(p),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// Read parses a snapshot and rejects files that are not project snapshots.
// On any error the caller's current project is left untouched.
func Read(r io.Reader) (domain.Project, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return domain.Project{}, fmt.Errorf("snapshot: %w", err)
	}
	if env.Type != TypeTag {
		return domain.Project{}, fmt.Errorf("snapshot: not a project file (type %q)", env.Type)
	}
	if env.Version > Version {
		return domain.Project{}, fmt.Errorf("snapshot: version %d is newer than supported %d", env.Version, Version)
	}
	return fromDTO(env.Project)
}

// SaveFile writes the snapshot to path, creating parent directories as
// needed. The file is owner read/write only, it may embed documents.
func SaveFile(path string, p domain.Project) error {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (domain.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Project{}, err
	}
	defer f.Close()
	return Read(f)
}

// Filename derives the default snapshot filename from the project name.
func Filename(p domain.Project) string {
	name := sanitize(p.Name)
	if name == "" {
		name = "projekt"
	}
	return name + Ext
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == 'ä', r == 'ö', r == 'ü', r == 'Ä', r == 'Ö', r == 'Ü', r == 'ß':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}

func toDTO(p domain.Project) projectDTO {
	dto := projectDTO{
		ID:       p.ID,
		Name:     p.Name,
		Taxonomy: orderedTax(p.Taxonomy),
		Items:    []itemDTO{},
		Receipts: []receiptDTO{},
		Lines:    []lineDTO{},
	}
	for _, it := range p.Items {
		dto.Items = append(dto.Items, itemDTO{
			ID:        it.ID,
			Name:      it.Name,
			Gewerk:    it.Category,
			Sub:       it.Sub,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Total:     it.Total.InexactFloat64(),
			Notes:     it.Notes,
		})
	}
	for _, r := range p.Receipts {
		d := receiptDTO{
			ID:         r.ID,
			Supplier:   r.Supplier,
			Date:       r.Date,
			Number:     r.Number,
			TotalGross: r.TotalGross.InexactFloat64(),
			Notes:      r.Notes,
		}
		if r.HasDocument() {
			d.PDFBase64 = base64.StdEncoding.EncodeToString(r.Document)
			d.PDFFileName = r.DocumentName
		}
		dto.Receipts = append(dto.Receipts, d)
	}
	for _, l := range p.Lines {
		d := lineDTO{
			ID:          l.ID,
			ReceiptID:   l.ReceiptID,
			Description: l.Description,
			Qty:         l.Qty.InexactFloat64(),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			LineTotal:   l.LineTotal.InexactFloat64(),
		}
		if l.Allocated() {
			id := l.ItemID
			d.ItemID = &id
		}
		dto.Lines = append(dto.Lines, d)
	}
	return dto
}

func fromDTO(dto projectDTO) (domain.Project, error) {
	p := domain.Project{
		ID:       dto.ID,
		Name:     dto.Name,
		Taxonomy: domain.Taxonomy(dto.Taxonomy),
	}
	if p.Name == "" {
		return domain.Project{}, fmt.Errorf("snapshot: project name missing")
	}
	for _, it := range dto.Items {
		p.Items = append(p.Items, domain.PlannedItem{
			ID:        it.ID,
			Name:      it.Name,
			Category:  it.Gewerk,
			Sub:       it.Sub,
			Qty:       it.Qty,
			UnitPrice: money(it.UnitPrice),
			Total:     money(it.Total),
			Notes:     it.Notes,
		})
	}
	for _, r := range dto.Receipts {
		rec := domain.Receipt{
			ID:         r.ID,
			Supplier:   r.Supplier,
			Date:       r.Date,
			Number:     r.Number,
			TotalGross: money(r.TotalGross),
			Notes:      r.Notes,
		}
		if r.PDFBase64 != "" {
			doc, err := base64.StdEncoding.DecodeString(r.PDFBase64)
			if err != nil {
				return domain.Project{}, fmt.Errorf("snapshot: receipt %s document: %w", r.ID, err)
			}
			rec.Document = doc
			rec.DocumentName = r.PDFFileName
		}
		p.Receipts = append(p.Receipts, rec)
	}
	for _, l := range dto.Lines {
		line := domain.ReceiptLine{
			ID:          l.ID,
			ReceiptID:   l.ReceiptID,
			Description: l.Description,
			Qty:         decimal.NewFromFloat(l.Qty),
			UnitPrice:   money(l.UnitPrice),
			LineTotal:   money(l.LineTotal),
		}
		if l.ItemID != nil {
			line.ItemID = *l.ItemID
		}
		p.Lines = append(p.Lines, line)
	}
	return p, nil
}

func money(v float64) decimal.Decimal {
	return domain.Round2(decimal.NewFromFloat(v))
}
