// Package tfidf provides a corpus-fitted TF-IDF embedding provider.
// It needs no external service: Fit builds a vocabulary and IDF table from
// a training corpus, after which embedding any text is a local computation.
package tfidf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/quillnlp/pairtext/pkg/embedding"
)

const modelName = "tfidf"

// Provider implements a simple TF-IDF vectorizer.
// It builds a vocabulary from the corpus and computes IDF values.
type Provider struct {
	vocabulary   map[string]int
	terms        []string
	idf          []float32
	fitted       bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// New creates an unfitted TF-IDF provider.
func New() *Provider {
	return &Provider{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Fit builds the vocabulary and IDF values from the provided corpus.
func (p *Provider) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range p.tokenize(text) {
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
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	p.terms = terms
	p.vocabulary = make(map[string]int, len(terms))
	p.idf = make([]float32, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		p.vocabulary[term] = i
		// Smoothed IDF
		p.idf[i] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1.0)
	}
	p.fitted = true
	return nil
}

// Embed computes the TF-IDF embedding for the given text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.fitted {
		return nil, errors.New("tfidf provider not fitted")
	}
	vec := make([]float32, len(p.terms))
	tf := make(map[int]int)
	total := 0
	for _, tok := range p.tokenize(text) {
		if idx, ok := p.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float32(count) / float32(total) * p.idf[idx]
	}
	return embedding.Normalize(vec), nil
}

// EmbedBatch computes embeddings for multiple texts.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

// Dimension returns the vocabulary size, or 0 before Fit.
func (p *Provider) Dimension() int {
	return len(p.terms)
}

// ModelName returns the identifier of this provider implementation.
func (p *Provider) ModelName() string {
	return modelName
}

// Config returns the provider's serializable description. The fitted
// vocabulary and IDF table count as configuration: they are required to
// reproduce the exact feature space at load time.
func (p *Provider) Config() embedding.ProviderConfig {
	idf := make([]any, len(p.idf))
	for i, v := range p.idf {
		idf[i] = float64(v)
	}
	terms := make([]any, len(p.terms))
	for i, t := range p.terms {
		terms[i] = t
	}
	return embedding.ProviderConfig{
		Type:      "tfidf",
		Model:     modelName,
		Dimension: len(p.terms),
		State: map[string]any{
			"terms": terms,
			"idf":   idf,
		},
	}
}

// FromConfig rebuilds a fitted provider from its serialized description.
func FromConfig(cfg embedding.ProviderConfig) (*Provider, error) {
	p := New()
	rawTerms, ok := cfg.State["terms"].([]any)
	if !ok {
		return nil, fmt.Errorf("tfidf state missing terms")
	}
	rawIDF, ok := cfg.State["idf"].([]any)
	if !ok {
		return nil, fmt.Errorf("tfidf state missing idf")
	}
	if len(rawTerms) != len(rawIDF) {
		return nil, fmt.Errorf("tfidf state has %d terms but %d idf values", len(rawTerms), len(rawIDF))
	}
	p.terms = make([]string, len(rawTerms))
	p.idf = make([]float32, len(rawIDF))
	p.vocabulary = make(map[string]int, len(rawTerms))
	for i := range rawTerms {
		term, ok := rawTerms[i].(string)
		if !ok {
			return nil, fmt.Errorf("tfidf term %d is not a string", i)
		}
		val, ok := rawIDF[i].(float64)
		if !ok {
			return nil, fmt.Errorf("tfidf idf %d is not a number", i)
		}
		p.terms[i] = term
		p.idf[i] = float32(val)
		p.vocabulary[term] = i
	}
	p.fitted = true
	return p, nil
}

func (p *Provider) tokenize(text string) []string {
	raw := p.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := p.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
