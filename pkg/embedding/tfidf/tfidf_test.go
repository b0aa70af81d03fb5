package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnlp/pairtext/pkg/embedding"
)

var corpus = []string{
	"cats chase mice around barns",
	"dogs chase cats around yards",
	"stock markets fell sharply today",
	"markets rallied after earnings today",
}

func TestProvider_Fit(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.Dimension())

	require.NoError(t, p.Fit(corpus))
	assert.Greater(t, p.Dimension(), 0)

	t.Run("empty corpus", func(t *testing.T) {
		assert.Error(t, New().Fit(nil))
	})

	t.Run("stopword-only corpus", func(t *testing.T) {
		assert.Error(t, New().Fit([]string{"the and of"}))
	})
}

func TestProvider_Embed(t *testing.T) {
	ctx := context.Background()
	p := New()

	_, err := p.Embed(ctx, "cats")
	require.Error(t, err, "unfitted provider must refuse to embed")

	require.NoError(t, p.Fit(corpus))

	animal, err := p.Embed(ctx, "cats chase mice")
	require.NoError(t, err)
	assert.Len(t, animal, p.Dimension())

	finance, err := p.Embed(ctx, "markets fell today")
	require.NoError(t, err)

	crossDomain := embedding.CosineSimilarity(animal, finance)
	sameDomain, err := p.Embed(ctx, "dogs chase mice")
	require.NoError(t, err)
	assert.Greater(t, embedding.CosineSimilarity(animal, sameDomain), crossDomain)

	t.Run("out-of-vocabulary text is a zero vector", func(t *testing.T) {
		vec, err := p.Embed(ctx, "zyzzyva qwertyuiop")
		require.NoError(t, err)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	})
}

func TestProvider_ConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := New()
	require.NoError(t, p.Fit(corpus))

	restored, err := FromConfig(p.Config())
	require.NoError(t, err)
	assert.Equal(t, p.Dimension(), restored.Dimension())

	want, err := p.Embed(ctx, "cats chase markets")
	require.NoError(t, err)
	got, err := restored.Embed(ctx, "cats chase markets")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromConfig_Invalid(t *testing.T) {
	_, err := FromConfig(embedding.ProviderConfig{Type: "tfidf"})
	assert.Error(t, err)

	_, err = FromConfig(embedding.ProviderConfig{
		Type:  "tfidf",
		State: map[string]any{"terms": []any{"a"}, "idf": []any{}},
	})
	assert.Error(t, err)
}

func TestProvider_ImplementsProvider(t *testing.T) {
	var _ embedding.Provider = (*Provider)(nil)
	var _ embedding.ConfigurableProvider = (*Provider)(nil)
}
