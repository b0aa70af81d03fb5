package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnlp/pairtext/pkg/embedding"
)

func TestNew(t *testing.T) {
	assert.Equal(t, 64, New(64).Dimension())
	assert.Equal(t, defaultDimension, New(0).Dimension())
	assert.Equal(t, defaultDimension, NewDefault().Dimension())
}

func TestProvider_Embed(t *testing.T) {
	ctx := context.Background()
	p := New(64)

	vec, err := p.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	assert.Len(t, vec, 64)

	t.Run("deterministic", func(t *testing.T) {
		again, err := p.Embed(ctx, "the quick brown fox")
		require.NoError(t, err)
		assert.Equal(t, vec, again)
	})

	t.Run("distinguishes texts", func(t *testing.T) {
		other, err := p.Embed(ctx, "a completely different sentence")
		require.NoError(t, err)
		assert.NotEqual(t, vec, other)
	})

	t.Run("unit length", func(t *testing.T) {
		sim := embedding.CosineSimilarity(vec, vec)
		assert.InDelta(t, 1.0, float64(sim), 1e-5)
	})
}

func TestProvider_EmbedBatch(t *testing.T) {
	ctx := context.Background()
	p := New(32)

	vecs, err := p.EmbedBatch(ctx, []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Len(t, v, 32)
	}
}

func TestProvider_Config(t *testing.T) {
	cfg := New(48).Config()
	assert.Equal(t, "stats", cfg.Type)
	assert.Equal(t, 48, cfg.Dimension)
}

func TestProvider_ImplementsProvider(t *testing.T) {
	var _ embedding.Provider = (*Provider)(nil)
	var _ embedding.ConfigurableProvider = (*Provider)(nil)
}
