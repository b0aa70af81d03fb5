// Package stats provides a word frequency based embedding implementation.
// It uses simple statistical methods to generate embeddings without external
// dependencies, which makes it a deterministic local default.
package stats

import (
	"context"
	"strings"
	"unicode"

	"github.com/quillnlp/pairtext/pkg/embedding"
)

const (
	defaultDimension = 128
	modelName        = "stats-wordfreq"
)

// Provider implements embedding.Provider using hashed word frequencies.
type Provider struct {
	dimension int
}

// New creates a new stats-based embedding provider.
func New(dimension int) *Provider {
	if dimension <= 0 {
		dimension = defaultDimension
	}
	return &Provider{dimension: dimension}
}

// NewDefault creates a stats provider with default dimension (128).
func NewDefault() *Provider {
	return New(defaultDimension)
}

// Embed generates an embedding for a single text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	return generateWordFrequencyEmbedding(text, p.dimension), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = generateWordFrequencyEmbedding(text, p.dimension)
	}
	return result, nil
}

// Dimension returns the embedding dimension.
func (p *Provider) Dimension() int {
	return p.dimension
}

// ModelName returns the model name.
func (p *Provider) ModelName() string {
	return modelName
}

// Config returns the provider's serializable description.
func (p *Provider) Config() embedding.ProviderConfig {
	return embedding.ProviderConfig{
		Type:      "stats",
		Model:     modelName,
		Dimension: p.dimension,
	}
}

// generateWordFrequencyEmbedding creates a hashed word frequency vector.
// Each word contributes its count to one bucket, with a hash-derived sign
// to reduce collision bias.
func generateWordFrequencyEmbedding(text string, dimension int) []float32 {
	words := tokenize(text)
	freq := make(map[string]int)
	for _, word := range words {
		freq[word]++
	}

	vec := make([]float32, dimension)
	for word, count := range freq {
		h := hashString(word)
		idx := h % dimension
		if idx < 0 {
			idx = -idx
		}
		sign := float32(1)
		if (h>>1)&1 == 1 {
			sign = -1
		}
		vec[idx] += sign * float32(count)
	}

	return embedding.Normalize(vec)
}

// tokenize splits text into lowercase words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// hashString computes an FNV-1a style hash of the word.
func hashString(s string) int {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return int(int32(h))
}
