package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnlp/pairtext/pkg/textdata"
)

// failingProvider returns an error from every embed call.
type failingProvider struct{ MockProvider }

func (f *failingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

func TestNewDocumentEmbedder(t *testing.T) {
	emb, err := NewDocumentEmbedder(NewMockProvider(16))
	require.NoError(t, err)
	assert.Equal(t, 16, emb.Dimension())
	assert.Equal(t, []string{"mock-provider"}, emb.Names())

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewDocumentEmbedder(nil)
		assert.Error(t, err)
	})

	t.Run("zero dimension is a construction failure", func(t *testing.T) {
		p := &MockProvider{modelName: "unfitted"}
		_, err := NewDocumentEmbedder(p)
		assert.Error(t, err)
	})
}

func TestDocumentEmbedder_EmbedUnits(t *testing.T) {
	ctx := context.Background()
	provider := NewMockProvider(8)
	emb, err := NewDocumentEmbedder(provider)
	require.NoError(t, err)

	first := textdata.NewTextUnit("The cat sat.")
	second := textdata.NewTextUnit("It was hungry.")
	require.NoError(t, emb.EmbedUnits(ctx, first, second))

	v1, err := first.Embedding("mock-provider")
	require.NoError(t, err)
	assert.Len(t, v1, 8)

	want, err := provider.Embed(ctx, "It was hungry.")
	require.NoError(t, err)
	v2, err := second.Embedding("mock-provider")
	require.NoError(t, err)
	assert.Equal(t, textdata.Embedding(want), v2)

	t.Run("no units is a no-op", func(t *testing.T) {
		assert.NoError(t, emb.EmbedUnits(ctx))
	})

	t.Run("provider errors propagate unchanged", func(t *testing.T) {
		failing := &failingProvider{}
		failing.dimension = 8
		femb, err := NewDocumentEmbedder(failing)
		require.NoError(t, err)
		err = femb.EmbedUnits(ctx, textdata.NewTextUnit("x"))
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestDocumentEmbedder_SeparatorToken(t *testing.T) {
	plain := NewMockProvider(4)
	emb, err := NewDocumentEmbedder(plain)
	require.NoError(t, err)
	_, ok := emb.SeparatorToken()
	assert.False(t, ok)

	plain.SetSeparatorToken("[SEP]")
	tok, ok := emb.SeparatorToken()
	require.True(t, ok)
	assert.Equal(t, "[SEP]", tok)
}
