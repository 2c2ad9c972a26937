package domain

import "strings"

// Taxonomy is the two-level classification: categories in declaration
// order, each with an ordered subcategory list. Order matters for display,
// so this is a slice rather than a map.
type Taxonomy []TaxonomyCategory

type TaxonomyCategory struct {
	Name string
	Subs []string
}

const fallbackSub = "Sonstiges"

// DefaultTaxonomy returns the trades used for fresh AV projects.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "Licht", Subs: []string{"Hardware", "Kabel & Stecker", "Steuerung", "Montage", "Sonstiges"}},
		{Name: "Audio", Subs: []string{"Lautsprecher", "Verstärker", "Mischpult", "DSP/Controller", "Mikrofone", "Kabel & Stecker", "Montage", "Sonstiges"}},
		{Name: "Video", Subs: []string{"Displays", "Projektion", "Kamera", "Mediensteuerung", "Kabel & Stecker", "Montage", "Sonstiges"}},
		{Name: "Netzwerk", Subs: []string{"Switches", "Kabel & Stecker", "Racks", "Sonstiges"}},
		{Name: "Steuerung", Subs: []string{"Controller", "Panels", "Software/Lizenzen", "Sonstiges"}},
		{Name: "Allgemein", Subs: []string{"Montage & Zubehör", "Verbrauchsmaterial", "Transport", "Sonstiges"}},
	}
}

func (t Taxonomy) Clone() Taxonomy {
	out := make(Taxonomy, len(t))
	for i, c := range t {
		out[i] = TaxonomyCategory{Name: c.Name, Subs: append([]string(nil), c.Subs...)}
	}
	return out
}

// HasCategory reports whether the category exists.
func (t Taxonomy) HasCategory(name string) bool {
	_, ok := t.Category(name)
	return ok
}

// Category returns the category entry by name.
func (t Taxonomy) Category(name string) (TaxonomyCategory, bool) {
	for _, c := range t {
		if c.Name == name {
			return c, true
		}
	}
	return TaxonomyCategory{}, false
}

// HasPair reports whether (category, sub) is a valid pair right now.
// Items created earlier may reference pairs that no longer exist; callers
// use this to surface stale references, not to reject existing data.
func (t Taxonomy) HasPair(category, sub string) bool {
	c, ok := t.Category(category)
	if !ok {
		return false
	}
	for _, s := range c.Subs {
		if s == sub {
			return true
		}
	}
	return false
}

// AddCategory returns a taxonomy with a new category appended, seeded with
// the fallback subcategory. No-op if the name is empty or already present.
// The receiver is never modified; all mutators return fresh slices.
func (t Taxonomy) AddCategory(name string) Taxonomy {
	name = strings.TrimSpace(name)
	if name == "" || t.HasCategory(name) {
		return t
	}
	return append(t.Clone(), TaxonomyCategory{Name: name, Subs: []string{fallbackSub}})
}

// RemoveCategory returns a taxonomy without the named category. Planned
// items keep their labels; stale references are surfaced, not rejected.
func (t Taxonomy) RemoveCategory(name string) Taxonomy {
	if !t.HasCategory(name) {
		return t
	}
	out := make(Taxonomy, 0, len(t)-1)
	for _, c := range t {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}

// AddSub returns a taxonomy with the subcategory appended. No-op if the
// category is missing or the subcategory already exists.
func (t Taxonomy) AddSub(category, sub string) Taxonomy {
	sub = strings.TrimSpace(sub)
	if sub == "" || !t.HasCategory(category) || t.HasPair(category, sub) {
		return t
	}
	out := t.Clone()
	for i, c := range out {
		if c.Name == category {
			out[i].Subs = append(c.Subs, sub)
			break
		}
	}
	return out
}

// RemoveSub returns a taxonomy without the subcategory. No-op if absent.
func (t Taxonomy) RemoveSub(category, sub string) Taxonomy {
	if !t.HasPair(category, sub) {
		return t
	}
	out := t.Clone()
	for i, c := range out {
		if c.Name != category {
			continue
		}
		subs := make([]string, 0, len(c.Subs)-1)
		for _, s := range c.Subs {
			if s != sub {
				subs = append(subs, s)
			}
		}
		out[i].Subs = subs
		break
	}
	return out
}

// Categories returns category names in declaration order.
func (t Taxonomy) Categories() []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = c.Name
	}
	return out
}
