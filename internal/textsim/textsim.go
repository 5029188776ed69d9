// Package textsim provides TF-IDF vectorization and cosine similarity over
// short texts. It is used for title-based near-duplicate detection and
// cross-reference counting during curation.
package textsim

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxFeatures caps the vocabulary size to bound per-batch cost.
const MaxFeatures = 1000

// ErrEmptyVocabulary is returned when no usable terms remain after
// tokenization (e.g. all-empty or all-stopword input).
var ErrEmptyVocabulary = errors.New("textsim: empty vocabulary")

// Vectorizer holds a TF-IDF model fitted to one batch of documents.
type Vectorizer struct {
	vocab map[string]int // term -> column index
	idf   []float64      // smoothed inverse document frequency per column
}

// tokenize lowercases and splits a document into terms of at least two
// word characters, dropping English stop words.
func tokenize(doc string) []string {
	doc = strings.ToLower(doc)

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() >= 2 {
			tok := b.String()
			if !stopWords[tok] {
				tokens = append(tokens, tok)
			}
		}
		b.Reset()
	}

	for _, r := range doc {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// Keywords extracts up to max distinct keywords from a document, in order
// of appearance. Terms shorter than four characters are dropped along with
// stop words.
func Keywords(doc string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenize(doc) {
		if len(tok) < 4 || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
		if len(out) == max {
			break
		}
	}
	return out
}

// NewVectorizer fits a TF-IDF model to the given documents. The vocabulary
// is capped at MaxFeatures terms, keeping the most frequent across the
// corpus.
func NewVectorizer(docs []string) (*Vectorizer, error) {
	termCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			termCounts[tok]++
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	if len(termCounts) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(termCounts))
	for term := range termCounts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > MaxFeatures {
		terms = terms[:MaxFeatures]
	}

	v := &Vectorizer{vocab: make(map[string]int, len(terms))}
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF, never zero, so every term contributes.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v, nil
}

// Vector returns the L2-normalized TF-IDF vector for a document. Terms
// outside the fitted vocabulary are ignored.
func (v *Vectorizer) Vector(doc string) []float64 {
	vec := make([]float64, len(v.idf))
	for _, tok := range tokenize(doc) {
		if col, ok := v.vocab[tok]; ok {
			vec[col] += v.idf[col]
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two L2-normalized vectors.
func Cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// PairwiseSimilarities fits a vectorizer to the documents and returns the
// full n×n cosine similarity matrix.
func PairwiseSimilarities(docs []string) ([][]float64, error) {
	v, err := NewVectorizer(docs)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = v.Vector(doc)
	}

	sim := make([][]float64, len(docs))
	for i := range docs {
		sim[i] = make([]float64, len(docs))
		sim[i][i] = 1
	}
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			s := Cosine(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim, nil
}
