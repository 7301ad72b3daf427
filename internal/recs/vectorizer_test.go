package recs

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize_LowercasesAndDropsStopwords(t *testing.T) {
	got := tokenize("The Robot and the Garden2 grows")
	want := []string{"robot", "garden2", "grows"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenize = %v; want %v", got, want)
	}
}

func TestVectorizer_Fit_RanksByDocumentFrequency(t *testing.T) {
	v := &Vectorizer{}
	v.Fit([]string{
		"solar panels rooftop",
		"solar batteries",
		"solar wind",
	})

	if v.Dim() != 5 {
		t.Fatalf("vocabulary size = %d; want 5", v.Dim())
	}
	// "solar" appears in every document, so it takes column 0.
	if j, ok := v.vocab["solar"]; !ok || j != 0 {
		t.Fatalf("most frequent term should occupy column 0, vocab=%v", v.vocab)
	}
	// df=1 terms tie and fall back to alphabetical order.
	if v.vocab["batteries"] > v.vocab["panels"] || v.vocab["panels"] > v.vocab["rooftop"] {
		t.Fatalf("alphabetical tie-break violated: %v", v.vocab)
	}

	// idf = log((1+N)/(1+df)) + 1
	wantIDF := math.Log(4.0/4.0) + 1
	if !almostEqual(v.idf[0], wantIDF) {
		t.Fatalf("idf for ubiquitous term = %v; want %v", v.idf[0], wantIDF)
	}
}

func TestVectorizer_Transform_L2Normalized(t *testing.T) {
	v := &Vectorizer{}
	v.Fit([]string{"solar panels", "wind turbines"})

	row := v.Transform("solar solar panels")
	var norm float64
	for _, x := range row {
		norm += x * x
	}
	if !almostEqual(norm, 1) {
		t.Fatalf("row norm = %v; want 1", math.Sqrt(norm))
	}

	// Unknown-only document stays all-zero.
	zero := v.Transform("ocean kelp")
	for _, x := range zero {
		if x != 0 {
			t.Fatalf("unknown-term row should be zero, got %v", zero)
		}
	}
}

func TestCosineMatrix_RequiresTwoRows(t *testing.T) {
	if m := cosineMatrix(nil); m != nil {
		t.Fatalf("empty input should yield nil matrix")
	}
	if m := cosineMatrix([][]float64{{1, 0}}); m != nil {
		t.Fatalf("single row should yield nil matrix")
	}
}

func TestCosineMatrix_Values(t *testing.T) {
	m := cosineMatrix([][]float64{
		{1, 0},
		{0, 1},
		{1, 0},
	})
	if m == nil {
		t.Fatalf("expected a matrix")
	}
	if !almostEqual(m.At(0, 0), 1) {
		t.Fatalf("self-similarity = %v; want 1", m.At(0, 0))
	}
	if !almostEqual(m.At(0, 1), 0) {
		t.Fatalf("orthogonal similarity = %v; want 0", m.At(0, 1))
	}
	if !almostEqual(m.At(0, 2), 1) {
		t.Fatalf("identical rows similarity = %v; want 1", m.At(0, 2))
	}
}

func TestTagOverlap(t *testing.T) {
	cases := []struct {
		a, b []string
		want float64
	}{
		{nil, nil, 0},
		{[]string{"ai"}, nil, 0},
		{[]string{"ai", "saas"}, []string{"saas"}, 0.5},
		{[]string{"ai", "saas"}, []string{"saas", "ai"}, 1},
		{[]string{"a", "b", "c", "d"}, []string{"a"}, 0.25},
	}
	for _, c := range cases {
		if got := tagOverlap(c.a, c.b); !almostEqual(got, c.want) {
			t.Fatalf("tagOverlap(%v, %v) = %v; want %v", c.a, c.b, got, c.want)
		}
	}
}
