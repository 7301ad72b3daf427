// Package recs implements the recommendation core: per-pair feature
// extraction, a small supervised classifier set with holdout evaluation,
// TF-IDF content similarity, and deterministic candidate ranking. It is
// intentionally free of persistence and HTTP concerns:
//
//   - No logging in the library (callers decide how/what to log)
//   - Plain-struct inputs (Dataset, UserStats) assembled by the service layer
//   - Deterministic training and scoring (seeded shuffles, stable sorts)
//   - A single Recommender guarded by an RWMutex: training takes the write
//     lock, scoring takes the read lock, so reads never observe a
//     half-swapped model
//
// Scoring falls back to a neutral prediction whenever no trained model is
// available, so the API keeps serving before the first training run.
package recs

import (
	"sort"
	"strings"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// CustomDomainPrefix marks user-defined interest domains outside the
// canonical catalog. Custom domains enter the fitted vocabulary like any
// other domain observed in the corpus.
const CustomDomainPrefix = "custom:"

// catalog lists the canonical interest domains in a fixed order. The order is
// load-bearing: it fixes the fallback feature codes used before a vocabulary
// has been fitted.
var catalog = []string{
	"technology",
	"health",
	"finance",
	"education",
	"entertainment",
	"food",
	"travel",
	"sustainability",
}

// Domains returns a copy of the canonical domain catalog.
func Domains() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// IsKnownDomain reports whether name is either a canonical catalog domain or
// a well-formed custom domain ("custom:" followed by a non-empty label).
func IsKnownDomain(name string) bool {
	if strings.HasPrefix(name, CustomDomainPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(name, CustomDomainPrefix)) != ""
	}
	for _, d := range catalog {
		if d == name {
			return true
		}
	}
	return false
}

// DomainCode maps a domain name to its numeric feature code. Catalog domains
// map to their 1-based index; anything else (custom or unknown) maps to 0.
func DomainCode(name string) float64 {
	for i, d := range catalog {
		if d == name {
			return float64(i + 1)
		}
	}
	return 0
}

// DomainVocabulary is the domain encoding fitted over one training corpus.
// Domains observed at fit time, custom ones included, get codes 1..N in
// sorted order; anything unseen encodes as the zero sentinel.
type DomainVocabulary struct {
	codes map[string]float64
}

// FitDomainVocabulary collects the distinct domains of the given ideas and
// assigns their feature codes.
func FitDomainVocabulary(ideas []domain.Idea) *DomainVocabulary {
	seen := make(map[string]bool, len(ideas))
	for i := range ideas {
		if d := ideas[i].Domain; d != "" {
			seen[d] = true
		}
	}
	names := make([]string, 0, len(seen))
	for d := range seen {
		names = append(names, d)
	}
	sort.Strings(names)
	v := &DomainVocabulary{codes: make(map[string]float64, len(names))}
	for i, d := range names {
		v.codes[d] = float64(i + 1)
	}
	return v
}

// Code returns the fitted code for name, or 0 when the vocabulary never saw
// it. A nil vocabulary falls back to the canonical catalog codes.
func (v *DomainVocabulary) Code(name string) float64 {
	if v == nil {
		return DomainCode(name)
	}
	return v.codes[name]
}

// Size reports how many domains the vocabulary covers.
func (v *DomainVocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.codes)
}
