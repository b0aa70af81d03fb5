// Package embedding provides a unified interface for embedding providers.
package embedding

import "context"

// Provider is the unified interface for embedding providers.
type Provider interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimension of embeddings.
	Dimension() int

	// ModelName returns the model identifier.
	ModelName() string
}

// SeparatorTokenProvider is an optional capability of providers whose
// underlying model declares a boundary marker between concatenated texts,
// such as a transformer tokenizer's sep token. Providers without one are
// simply not asserted to this interface and callers fall back to a literal
// default.
type SeparatorTokenProvider interface {
	// SeparatorToken returns the declared separator token, if any.
	SeparatorToken() (string, bool)
}

// DeclaredSeparator returns the provider's separator token when it
// declares one.
func DeclaredSeparator(p Provider) (string, bool) {
	sp, ok := p.(SeparatorTokenProvider)
	if !ok {
		return "", false
	}
	return sp.SeparatorToken()
}
