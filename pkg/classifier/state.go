package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/quillnlp/pairtext/pkg/embedding"
	"github.com/quillnlp/pairtext/pkg/textdata"
)

// StateDict returns the serializable state of the classifier. Field names
// are part of the on-disk format and must stay stable across versions.
// The embedder contributes its configuration only; remote model weights
// are never serialized.
func (c *PairClassifier) StateDict() (map[string]any, error) {
	cp, ok := c.embeddings.Provider().(embedding.ConfigurableProvider)
	if !ok {
		return nil, fmt.Errorf("provider %q cannot describe itself for persistence", c.embeddings.Provider().ModelName())
	}
	return map[string]any{
		"document_embeddings":   cp.Config(),
		"label_dictionary":      c.labels.Items(),
		"label_type":            c.labelType,
		"multi_label":           c.multiLabel,
		"multi_label_threshold": c.threshold,
		"weight_dict":           c.lossWeights,
		"embed_separately":      c.embedSeparately,
		"state_dict":            c.head.stateDict(),
	}, nil
}

// FromStateDict reconstructs a classifier from a state dictionary produced
// by StateDict (possibly after a JSON round trip). A missing
// multi_label_threshold defaults to 0.5.
func FromStateDict(ctx context.Context, state map[string]any) (*PairClassifier, error) {
	provCfg, err := decodeProviderConfig(state["document_embeddings"])
	if err != nil {
		return nil, fmt.Errorf("document_embeddings: %w", err)
	}
	provider, err := providerFromConfig(ctx, provCfg)
	if err != nil {
		return nil, err
	}
	embedder, err := embedding.NewDocumentEmbedder(provider)
	if err != nil {
		return nil, err
	}

	labels, err := decodeLabels(state["label_dictionary"])
	if err != nil {
		return nil, fmt.Errorf("label_dictionary: %w", err)
	}

	labelType, _ := state["label_type"].(string)

	multiLabel := false
	if b, ok := state["multi_label"].(bool); ok {
		multiLabel = b
	}

	// Older saved models stored the threshold under multi_label. Read it
	// from there when the canonical field is absent; this is a
	// compatibility shim for that legacy layout, not intended design.
	threshold := 0.5
	if v, ok := state["multi_label_threshold"].(float64); ok {
		threshold = v
	} else if v, ok := state["multi_label"].(float64); ok {
		threshold = v
	}

	cfg := Config{
		Embeddings:          embedder,
		LabelType:           labelType,
		Labels:              labels,
		MultiLabel:          multiLabel,
		MultiLabelThreshold: threshold,
		LossWeights:         decodeWeightDict(state["weight_dict"]),
	}
	if b, ok := state["embed_separately"].(bool); ok {
		cfg.EmbedSeparately = b
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if raw, ok := state["state_dict"].(map[string]any); ok {
		if err := c.head.loadStateDict(raw); err != nil {
			return nil, fmt.Errorf("head state: %w", err)
		}
	}
	return c, nil
}

// SaveTo writes the classifier state as indented JSON.
func (c *PairClassifier) SaveTo(w io.Writer) error {
	state, err := c.StateDict()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// LoadFrom reads a classifier saved with SaveTo.
func LoadFrom(ctx context.Context, r io.Reader) (*PairClassifier, error) {
	var state map[string]any
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode model state: %w", err)
	}
	return FromStateDict(ctx, state)
}

// decodeProviderConfig accepts either a live ProviderConfig value or the
// map produced by JSON decoding.
func decodeProviderConfig(v any) (embedding.ProviderConfig, error) {
	switch cfg := v.(type) {
	case embedding.ProviderConfig:
		return cfg, nil
	case map[string]any:
		data, err := json.Marshal(cfg)
		if err != nil {
			return embedding.ProviderConfig{}, err
		}
		var out embedding.ProviderConfig
		if err := json.Unmarshal(data, &out); err != nil {
			return embedding.ProviderConfig{}, err
		}
		return out, nil
	default:
		return embedding.ProviderConfig{}, fmt.Errorf("missing or malformed provider config (%T)", v)
	}
}

func decodeLabels(v any) (*textdata.LabelDictionary, error) {
	switch items := v.(type) {
	case []string:
		return textdata.LabelDictionaryOf(items...), nil
	case []any:
		d := textdata.NewLabelDictionary()
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("label %d is %T, not a string", i, item)
			}
			d.Add(s)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("missing or malformed label dictionary (%T)", v)
	}
}

func decodeWeightDict(v any) map[string]float64 {
	switch weights := v.(type) {
	case map[string]float64:
		return weights
	case map[string]any:
		out := make(map[string]float64, len(weights))
		for k, raw := range weights {
			if f, ok := raw.(float64); ok {
				out[k] = f
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}
