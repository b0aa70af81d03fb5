// Package classifier implements pairwise text classification: a pair of
// text units is turned into one fixed-size representation and scored by a
// linear head. Two embedding strategies are supported, either embedding
// both units and concatenating the vectors, or merging the pair into one
// unit with a separator before embedding.
package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quillnlp/pairtext/pkg/embedding"
	"github.com/quillnlp/pairtext/pkg/textdata"
)

// defaultSeparator is the literal boundary used when the embedding
// provider declares no separator token of its own.
const defaultSeparator = " [SEP] "

// Config holds construction parameters for a PairClassifier.
type Config struct {
	// Embeddings computes the vector representation of text units.
	Embeddings *embedding.DocumentEmbedder

	// LabelType identifies what kind of label this classifier predicts
	// (e.g. "entailment").
	LabelType string

	// Labels is the label vocabulary.
	Labels *textdata.LabelDictionary

	// MultiLabel switches from softmax single-label prediction to
	// per-label sigmoid thresholding.
	MultiLabel bool

	// MultiLabelThreshold is the sigmoid decision threshold for
	// multi-label prediction. Zero and unset are indistinguishable and
	// both resolve to 0.5; a threshold of exactly 0 (accept every label)
	// is not representable, matching the saved-model format.
	MultiLabelThreshold float64

	// LossWeights scales the training loss per label; unspecified labels
	// default to 1.0.
	LossWeights map[string]float64

	// EmbedSeparately embeds both units and concatenates the vectors
	// instead of merging the pair into one unit before embedding.
	EmbedSeparately bool

	// Seed controls head weight initialization.
	Seed int64
}

// PairClassifier scores ordered pairs of text units against a label
// vocabulary. It holds only configuration and head weights; embeddings
// live on the units passed in, so calls are independent of one another.
type PairClassifier struct {
	embeddings      *embedding.DocumentEmbedder
	labelType       string
	labels          *textdata.LabelDictionary
	multiLabel      bool
	threshold       float64
	lossWeights     map[string]float64
	embedSeparately bool
	sep             string
	head            *LinearHead
}

// New constructs a PairClassifier. Construction fails when the embedder or
// label vocabulary is missing, or when the head cannot be sized.
func New(cfg Config) (*PairClassifier, error) {
	if cfg.Embeddings == nil {
		return nil, fmt.Errorf("pair classifier requires an embedder")
	}
	if cfg.LabelType == "" {
		return nil, fmt.Errorf("pair classifier requires a label type")
	}
	if cfg.Labels == nil || cfg.Labels.Size() == 0 {
		return nil, fmt.Errorf("pair classifier requires a non-empty label dictionary")
	}

	threshold := cfg.MultiLabelThreshold
	if threshold == 0 {
		threshold = 0.5
	}

	c := &PairClassifier{
		embeddings:      cfg.Embeddings,
		labelType:       cfg.LabelType,
		labels:          cfg.Labels,
		multiLabel:      cfg.MultiLabel,
		threshold:       threshold,
		lossWeights:     cfg.LossWeights,
		embedSeparately: cfg.EmbedSeparately,
	}

	if !cfg.EmbedSeparately {
		// Separator between the two texts when merging them into one
		// unit: the provider's declared token wins, else the literal
		// default.
		c.sep = defaultSeparator
		if tok, ok := cfg.Embeddings.SeparatorToken(); ok {
			c.sep = " " + tok + " "
		}
	}

	head, err := NewLinearHead(c.RepresentationSize(), cfg.Labels.Size(), cfg.Seed)
	if err != nil {
		return nil, err
	}
	c.head = head
	return c, nil
}

// LabelType returns the kind of label this classifier predicts.
func (c *PairClassifier) LabelType() string { return c.labelType }

// Labels returns the label vocabulary.
func (c *PairClassifier) Labels() *textdata.LabelDictionary { return c.labels }

// EmbedSeparately reports the embedding strategy.
func (c *PairClassifier) EmbedSeparately() bool { return c.embedSeparately }

// MultiLabel reports whether prediction is multi-label.
func (c *PairClassifier) MultiLabel() bool { return c.multiLabel }

// MultiLabelThreshold returns the sigmoid decision threshold.
func (c *PairClassifier) MultiLabelThreshold() float64 { return c.threshold }

// Separator returns the boundary string used when merging pairs, empty
// when embedding separately.
func (c *PairClassifier) Separator() string { return c.sep }

// RepresentationSize is the length of the pair representation: twice the
// embedding length when units are embedded separately, else the embedding
// length itself.
func (c *PairClassifier) RepresentationSize() int {
	if c.embedSeparately {
		return 2 * c.embeddings.Dimension()
	}
	return c.embeddings.Dimension()
}

// DataPoints maps a pair to the data points the loss and prediction logic
// acts on. Pairwise classification treats the whole pair as one prediction
// unit, so this is always the single-element list holding the pair itself.
func (c *PairClassifier) DataPoints(pair *textdata.TextPair) []*textdata.TextPair {
	return []*textdata.TextPair{pair}
}

// Representation converts a pair into its fixed-size vector. Provider
// failures propagate unchanged.
func (c *PairClassifier) Representation(ctx context.Context, pair *textdata.TextPair) (textdata.Embedding, error) {
	names := c.embeddings.Names()
	if c.embedSeparately {
		if err := c.embeddings.EmbedUnits(ctx, pair.First, pair.Second); err != nil {
			return nil, err
		}
		first, err := pair.First.Embedding(names...)
		if err != nil {
			return nil, err
		}
		second, err := pair.Second.Embedding(names...)
		if err != nil {
			return nil, err
		}
		return embedding.Concat(first, second), nil
	}

	merged := c.mergedUnit(pair)
	if err := c.embeddings.EmbedUnits(ctx, merged); err != nil {
		return nil, err
	}
	return merged.Embedding(names...)
}

// mergedUnit builds the pre-tokenized unit
// "first's tokens + separator + second's tokens".
func (c *PairClassifier) mergedUnit(pair *textdata.TextPair) *textdata.TextUnit {
	first := pair.First.Tokens()
	second := pair.Second.Tokens()
	sepTokens := strings.Fields(c.sep)
	tokens := make([]string, 0, len(first)+len(sepTokens)+len(second))
	tokens = append(tokens, first...)
	tokens = append(tokens, sepTokens...)
	tokens = append(tokens, second...)
	return textdata.NewPreTokenized(tokens)
}

// Scores returns the full score distribution over the label vocabulary:
// softmax probabilities in single-label mode, independent sigmoids in
// multi-label mode. Labels come back sorted by descending score.
func (c *PairClassifier) Scores(ctx context.Context, pair *textdata.TextPair) ([]textdata.Label, error) {
	repr, err := c.Representation(ctx, pair)
	if err != nil {
		return nil, err
	}
	logits, err := c.head.Forward(repr)
	if err != nil {
		return nil, err
	}

	labels := make([]textdata.Label, c.labels.Size())
	if c.multiLabel {
		for i := range labels {
			value, _ := c.labels.Label(i)
			labels[i] = textdata.Label{Value: value, Score: Sigmoid(logits[i])}
		}
	} else {
		probs := Softmax(logits)
		for i := range labels {
			value, _ := c.labels.Label(i)
			labels[i] = textdata.Label{Value: value, Score: probs[i]}
		}
	}
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return labels, nil
}

// Predict returns the chosen labels for a pair: the argmax label in
// single-label mode, every label whose sigmoid clears the threshold in
// multi-label mode (possibly none).
func (c *PairClassifier) Predict(ctx context.Context, pair *textdata.TextPair) ([]textdata.Label, error) {
	scores, err := c.Scores(ctx, pair)
	if err != nil {
		return nil, err
	}
	if !c.multiLabel {
		return scores[:1], nil
	}
	var chosen []textdata.Label
	for _, l := range scores {
		if l.Score >= c.threshold {
			chosen = append(chosen, l)
		}
	}
	return chosen, nil
}

// PredictBatch predicts every pair in order.
func (c *PairClassifier) PredictBatch(ctx context.Context, pairs []*textdata.TextPair) ([][]textdata.Label, error) {
	out := make([][]textdata.Label, len(pairs))
	for i, pair := range pairs {
		labels, err := c.Predict(ctx, pair)
		if err != nil {
			return nil, err
		}
		out[i] = labels
	}
	return out, nil
}

// lossWeight returns the training weight for a label (1.0 when unset).
func (c *PairClassifier) lossWeight(label string) float64 {
	if c.lossWeights == nil {
		return 1.0
	}
	if w, ok := c.lossWeights[label]; ok {
		return w
	}
	return 1.0
}
