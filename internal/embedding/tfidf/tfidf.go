package tfidf

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Embedder is a TF-IDF vectorizer that works without any model files. Han
// text is tokenized into character bigrams, since classical Chinese has no
// word delimiters; alphabetic runs are tokenized as whole words. It must be
// fitted on the corpus before encoding.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	fitted     bool
}

// NewEmbedder creates an unfitted TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Dimension returns the vocabulary size once fitted.
func (e *Embedder) Dimension() int { return e.dimension }

// Fit builds the vocabulary and IDF weights from the corpus.
func (e *Embedder) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.fitted = true
	return nil
}

// Encode computes an L2-normalized TF-IDF vector per input text.
func (e *Embedder) Encode(texts []string) ([][]float32, error) {
	if !e.fitted {
		return nil, errors.New("tfidf embedder not fitted")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.encodeOne(text)
	}
	return vectors, nil
}

func (e *Embedder) encodeOne(text string) []float32 {
	vec := make([]float32, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = float32(tfv * e.idf[idx])
	}
	norm := 0.0
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

// tokenize emits Han character bigrams and lowercase alphabetic words.
// A Han run of length one yields the single character itself.
func tokenize(text string) []string {
	var tokens []string
	var hanRun []rune
	var word []rune

	flushHan := func() {
		switch {
		case len(hanRun) == 1:
			tokens = append(tokens, string(hanRun))
		case len(hanRun) > 1:
			for i := 0; i+1 < len(hanRun); i++ {
				tokens = append(tokens, string(hanRun[i:i+2]))
			}
		}
		hanRun = hanRun[:0]
	}
	flushWord := func() {
		if len(word) > 0 {
			tokens = append(tokens, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			hanRun = append(hanRun, r)
		case unicode.IsLetter(r):
			flushHan()
			word = append(word, r)
		default:
			flushHan()
			flushWord()
		}
	}
	flushHan()
	flushWord()
	return tokens
}
