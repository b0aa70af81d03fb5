package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnlp/pairtext/pkg/embedding"
	"github.com/quillnlp/pairtext/pkg/textdata"
)

func newTestClassifier(t *testing.T, mutate func(*embedding.MockProvider), cfg Config) (*PairClassifier, *embedding.MockProvider) {
	t.Helper()
	provider := embedding.NewMockProvider(4)
	if mutate != nil {
		mutate(provider)
	}
	embedder, err := embedding.NewDocumentEmbedder(provider)
	require.NoError(t, err)

	cfg.Embeddings = embedder
	if cfg.LabelType == "" {
		cfg.LabelType = "entailment"
	}
	if cfg.Labels == nil {
		cfg.Labels = textdata.LabelDictionaryOf("entailment", "contradiction", "neutral")
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c, provider
}

func TestNew_Validation(t *testing.T) {
	embedder, err := embedding.NewDocumentEmbedder(embedding.NewMockProvider(4))
	require.NoError(t, err)
	labels := textdata.LabelDictionaryOf("yes", "no")

	_, err = New(Config{LabelType: "t", Labels: labels})
	assert.ErrorContains(t, err, "embedder")

	_, err = New(Config{Embeddings: embedder, Labels: labels})
	assert.ErrorContains(t, err, "label type")

	_, err = New(Config{Embeddings: embedder, LabelType: "t"})
	assert.ErrorContains(t, err, "label dictionary")

	_, err = New(Config{Embeddings: embedder, LabelType: "t", Labels: textdata.NewLabelDictionary()})
	assert.ErrorContains(t, err, "label dictionary")
}

func TestPairClassifier_ThresholdDefault(t *testing.T) {
	c, _ := newTestClassifier(t, nil, Config{MultiLabel: true})
	assert.Equal(t, 0.5, c.MultiLabelThreshold())

	// A zero threshold is coerced to the default, it cannot survive
	// construction.
	c, _ = newTestClassifier(t, nil, Config{MultiLabel: true, MultiLabelThreshold: 0})
	assert.Equal(t, 0.5, c.MultiLabelThreshold())
}

func TestPairClassifier_RepresentationSize(t *testing.T) {
	merged, _ := newTestClassifier(t, nil, Config{})
	assert.Equal(t, 4, merged.RepresentationSize())

	separate, _ := newTestClassifier(t, nil, Config{EmbedSeparately: true})
	assert.Equal(t, 8, separate.RepresentationSize())
	assert.Empty(t, separate.Separator())
}

func TestPairClassifier_DataPoints(t *testing.T) {
	c, _ := newTestClassifier(t, nil, Config{})
	pair := textdata.NewTextPair("a", "b")
	points := c.DataPoints(pair)
	require.Len(t, points, 1)
	assert.Same(t, pair, points[0])
}

func TestPairClassifier_SeparatorResolution(t *testing.T) {
	t.Run("no declared token falls back to literal", func(t *testing.T) {
		c, _ := newTestClassifier(t, nil, Config{})
		assert.Equal(t, " [SEP] ", c.Separator())
	})

	t.Run("declared token is used surrounded by spaces", func(t *testing.T) {
		c, _ := newTestClassifier(t, func(p *embedding.MockProvider) {
			p.SetSeparatorToken("</s>")
		}, Config{})
		assert.Equal(t, " </s> ", c.Separator())
	})
}

func TestPairClassifier_Representation_Merged(t *testing.T) {
	ctx := context.Background()
	pair := textdata.NewTextPair("The cat sat.", "It was hungry.")

	t.Run("fallback separator", func(t *testing.T) {
		c, provider := newTestClassifier(t, nil, Config{})
		repr, err := c.Representation(ctx, pair)
		require.NoError(t, err)
		assert.Len(t, repr, 4)

		want, err := provider.Embed(ctx, "The cat sat. [SEP] It was hungry.")
		require.NoError(t, err)
		assert.Equal(t, textdata.Embedding(want), repr)
	})

	t.Run("declared separator", func(t *testing.T) {
		c, provider := newTestClassifier(t, func(p *embedding.MockProvider) {
			p.SetSeparatorToken("</s>")
		}, Config{})
		repr, err := c.Representation(ctx, pair)
		require.NoError(t, err)

		want, err := provider.Embed(ctx, "The cat sat. </s> It was hungry.")
		require.NoError(t, err)
		assert.Equal(t, textdata.Embedding(want), repr)
	})

	t.Run("merged unit does not mutate the pair", func(t *testing.T) {
		fresh := textdata.NewTextPair("a", "b")
		c, _ := newTestClassifier(t, nil, Config{})
		_, err := c.Representation(ctx, fresh)
		require.NoError(t, err)
		assert.False(t, fresh.First.HasEmbedding("mock-provider"))
		assert.False(t, fresh.Second.HasEmbedding("mock-provider"))
	})
}

func TestPairClassifier_Representation_Separate(t *testing.T) {
	ctx := context.Background()
	c, provider := newTestClassifier(t, nil, Config{EmbedSeparately: true})

	pair := textdata.NewTextPair("The cat sat.", "It was hungry.")
	repr, err := c.Representation(ctx, pair)
	require.NoError(t, err)
	require.Len(t, repr, 8)

	first, err := provider.Embed(ctx, "The cat sat.")
	require.NoError(t, err)
	second, err := provider.Embed(ctx, "It was hungry.")
	require.NoError(t, err)

	assert.Equal(t, textdata.Embedding(first), repr[:4])
	assert.Equal(t, textdata.Embedding(second), repr[4:])

	// Embedding separately mutates the pair's units in place.
	assert.True(t, pair.First.HasEmbedding("mock-provider"))
	assert.True(t, pair.Second.HasEmbedding("mock-provider"))
}

type downProvider struct{ embedding.MockProvider }

func (d *downProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, embedding.ErrUnavailable
}

func TestPairClassifier_ProviderErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	provider := &downProvider{MockProvider: *embedding.NewMockProvider(4)}
	embedder, err := embedding.NewDocumentEmbedder(provider)
	require.NoError(t, err)

	c, err := New(Config{
		Embeddings: embedder,
		LabelType:  "t",
		Labels:     textdata.LabelDictionaryOf("a", "b"),
	})
	require.NoError(t, err)

	_, err = c.Representation(ctx, textdata.NewTextPair("x", "y"))
	assert.True(t, errors.Is(err, embedding.ErrUnavailable))
}

func TestPairClassifier_Predict(t *testing.T) {
	ctx := context.Background()
	pair := textdata.NewTextPair("The cat sat.", "It was hungry.")

	t.Run("single-label returns exactly one label", func(t *testing.T) {
		c, _ := newTestClassifier(t, nil, Config{})
		labels, err := c.Predict(ctx, pair)
		require.NoError(t, err)
		require.Len(t, labels, 1)
		assert.Contains(t, c.Labels().Items(), labels[0].Value)

		scores, err := c.Scores(ctx, pair)
		require.NoError(t, err)
		require.Len(t, scores, 3)
		sum := 0.0
		for _, s := range scores {
			sum += s.Score
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Equal(t, scores[0], labels[0])
	})

	t.Run("multi-label applies the threshold", func(t *testing.T) {
		c, _ := newTestClassifier(t, nil, Config{MultiLabel: true, MultiLabelThreshold: 0.99})
		labels, err := c.Predict(ctx, pair)
		require.NoError(t, err)
		// A freshly initialized head produces near-0.5 sigmoids, all
		// below a 0.99 threshold.
		assert.Empty(t, labels)
	})
}

func TestPairClassifier_PredictBatch(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClassifier(t, nil, Config{})
	pairs := []*textdata.TextPair{
		textdata.NewTextPair("a", "b"),
		textdata.NewTextPair("c", "d"),
	}
	out, err := c.PredictBatch(ctx, pairs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, labels := range out {
		assert.Len(t, labels, 1)
	}
}
