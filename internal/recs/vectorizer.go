package recs

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxVocabulary caps the TF-IDF vocabulary at the most frequent terms.
const maxVocabulary = 1000

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

// englishStopwords mirrors the usual "english" analyzer stop list for short
// marketing-style text. Terms on this list never enter the vocabulary.
var englishStopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be because
		been before being below between both but by could did do does doing down during each few for from further
		had has have having he her here hers herself him himself his how i if in into is it its itself just me more
		most my myself no nor not now of off on once only or other our ours ourselves out over own same she should
		so some such than that the their theirs them themselves then there these they this those through to too
		under until up very was we were what when where which while who whom why will with you your yours yourself
		yourselves`) {
		englishStopwords[w] = struct{}{}
	}
}

func tokenize(s string) []string {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	out := words[:0]
	for _, w := range words {
		if _, skip := englishStopwords[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Vectorizer turns documents into dense TF-IDF rows over a fixed vocabulary.
// Fit selects the vocabulary; Transform projects any document onto it.
type Vectorizer struct {
	vocab map[string]int // term -> column
	idf   []float64      // per column
	docs  int
}

// Fit builds the vocabulary from docs, keeping at most maxVocabulary terms.
// Terms are ranked by document frequency with an alphabetical tie-break so
// the selection is deterministic, and IDF is computed as log((1+N)/(1+df))+1.
func (v *Vectorizer) Fit(docs []string) {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, t := range tokenize(d) {
			seen[t] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.SliceStable(terms, func(a, b int) bool {
		if df[terms[a]] != df[terms[b]] {
			return df[terms[a]] > df[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}

	v.docs = len(docs)
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log(float64(1+v.docs)/float64(1+df[t])) + 1
	}
}

// Transform projects one document onto the fitted vocabulary, returning an
// L2-normalized TF-IDF row. Unknown terms are ignored; an all-zero row stays
// all-zero.
func (v *Vectorizer) Transform(doc string) []float64 {
	row := make([]float64, len(v.idf))
	if len(v.idf) == 0 {
		return row
	}
	for _, t := range tokenize(doc) {
		if j, ok := v.vocab[t]; ok {
			row[j]++
		}
	}
	var norm float64
	for j := range row {
		row[j] *= v.idf[j]
		norm += row[j] * row[j]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range row {
			row[j] /= norm
		}
	}
	return row
}

// Dim returns the fitted vocabulary size.
func (v *Vectorizer) Dim() int { return len(v.idf) }
