package reconcile

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/avkosten/kostentracker/internal/domain"
)

// minSimilarity is the cutoff for a planned item to count as a plausible
// allocation target (normalised edit distance below 0.4).
const minSimilarity = 0.6

// Suggestion ranks a planned item as an allocation candidate for a line.
type Suggestion struct {
	Item       domain.PlannedItem
	Similarity float64
}

// SuggestAllocations ranks planned items by description similarity for one
// unallocated line. Best match first; items below the threshold are
// dropped. Purely advisory, the caller still decides.
func SuggestAllocations(p domain.Project, line domain.ReceiptLine, limit int) []Suggestion {
	desc := normalize(line.Description)
	if desc == "" {
		return nil
	}
	var out []Suggestion
	for _, item := range p.Items {
		sim := similarity(desc, normalize(item.Name))
		if sim < minSimilarity {
			continue
		}
		out = append(out, Suggestion{Item: item, Similarity: sim})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// similarity is 1 minus the normalised levenshtein distance, with a bonus
// for containment so "JBL Control 25-1 (8 Stk)" still matches the bare
// item name.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return 1 - float64(dist)/float64(maxlen)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
