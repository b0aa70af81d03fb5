package embedding

import (
	"context"
	"fmt"

	"github.com/quillnlp/pairtext/pkg/textdata"
)

// DocumentEmbedder attaches a provider's embeddings to text units. Each
// provider produces exactly one named embedding (its model name); the
// name set keeps the stacked-embedding fetch on textdata.TextUnit usable
// when several embedders act on the same units.
type DocumentEmbedder struct {
	provider Provider
}

// NewDocumentEmbedder wraps a provider. It fails when the provider cannot
// report its dimension up front, since downstream heads size themselves
// from it at construction.
func NewDocumentEmbedder(p Provider) (*DocumentEmbedder, error) {
	if p == nil {
		return nil, fmt.Errorf("nil embedding provider")
	}
	if p.Dimension() <= 0 {
		return nil, fmt.Errorf("provider %q reports no embedding dimension", p.ModelName())
	}
	return &DocumentEmbedder{provider: p}, nil
}

// Names returns the embedding names this embedder attaches.
func (e *DocumentEmbedder) Names() []string {
	return []string{e.provider.ModelName()}
}

// Dimension returns the length of each attached vector.
func (e *DocumentEmbedder) Dimension() int {
	return e.provider.Dimension()
}

// Provider returns the wrapped provider.
func (e *DocumentEmbedder) Provider() Provider {
	return e.provider
}

// SeparatorToken reports the wrapped provider's declared separator token,
// if any.
func (e *DocumentEmbedder) SeparatorToken() (string, bool) {
	return DeclaredSeparator(e.provider)
}

// EmbedUnits computes embeddings for the given units in one batched
// provider call and attaches each vector to its unit in place.
func (e *DocumentEmbedder) EmbedUnits(ctx context.Context, units ...*textdata.TextUnit) error {
	if len(units) == 0 {
		return nil
	}
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.TokenizedString()
	}
	vecs, err := e.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(units) {
		return fmt.Errorf("provider %q returned %d embeddings for %d units", e.provider.ModelName(), len(vecs), len(units))
	}
	name := e.provider.ModelName()
	for i, u := range units {
		u.SetEmbedding(name, vecs[i])
	}
	return nil
}
