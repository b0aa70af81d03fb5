package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/quillnlp/pairtext/pkg/embedding"
)

// LinearHead is a single linear layer mapping a representation vector to
// one logit per label.
type LinearHead struct {
	inputSize int
	numLabels int
	weights   [][]float32 // [label][feature]
	bias      []float32
}

// NewLinearHead creates a head with seeded uniform Glorot initialization,
// so two heads built with the same sizes and seed are identical.
func NewLinearHead(inputSize, numLabels int, seed int64) (*LinearHead, error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("linear head input size must be positive, got %d", inputSize)
	}
	if numLabels <= 0 {
		return nil, fmt.Errorf("linear head needs at least one label, got %d", numLabels)
	}
	rng := rand.New(rand.NewSource(seed))
	bound := float32(math.Sqrt(6.0 / float64(inputSize+numLabels)))
	weights := make([][]float32, numLabels)
	for i := range weights {
		row := make([]float32, inputSize)
		for j := range row {
			row[j] = (rng.Float32()*2 - 1) * bound
		}
		weights[i] = row
	}
	return &LinearHead{
		inputSize: inputSize,
		numLabels: numLabels,
		weights:   weights,
		bias:      make([]float32, numLabels),
	}, nil
}

// InputSize returns the expected representation length.
func (h *LinearHead) InputSize() int { return h.inputSize }

// NumLabels returns the number of output logits.
func (h *LinearHead) NumLabels() int { return h.numLabels }

// Forward computes one logit per label for the given representation.
func (h *LinearHead) Forward(x []float32) ([]float32, error) {
	if len(x) != h.inputSize {
		return nil, fmt.Errorf("representation length %d does not match head input size %d", len(x), h.inputSize)
	}
	logits := make([]float32, h.numLabels)
	for i, row := range h.weights {
		sum := h.bias[i]
		for j, w := range row {
			sum += w * x[j]
		}
		logits[i] = sum
	}
	return logits, nil
}

// Softmax converts logits into a probability distribution.
func Softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		probs[i] = math.Exp(float64(l - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Sigmoid maps a logit to (0, 1).
func Sigmoid(logit float32) float64 {
	return 1.0 / (1.0 + math.Exp(-float64(logit)))
}

// stateDict captures the head weights for the saved-model format.
func (h *LinearHead) stateDict() map[string]any {
	weights := make([]any, h.numLabels)
	for i, row := range h.weights {
		weights[i] = embedding.Float32To64(row)
	}
	return map[string]any{
		"weights": weights,
		"bias":    embedding.Float32To64(h.bias),
	}
}

// loadStateDict restores weights saved by stateDict, accepting both the
// live []float64 shape and the []any shape produced by JSON decoding.
func (h *LinearHead) loadStateDict(state map[string]any) error {
	rows, ok := state["weights"].([]any)
	if !ok {
		return fmt.Errorf("head state missing weights")
	}
	if len(rows) != h.numLabels {
		return fmt.Errorf("head state has %d label rows, expected %d", len(rows), h.numLabels)
	}
	weights := make([][]float32, len(rows))
	for i, raw := range rows {
		row, err := toFloat32Slice(raw)
		if err != nil {
			return fmt.Errorf("head weights row %d: %w", i, err)
		}
		if len(row) != h.inputSize {
			return fmt.Errorf("head weights row %d has length %d, expected %d", i, len(row), h.inputSize)
		}
		weights[i] = row
	}
	bias, err := toFloat32Slice(state["bias"])
	if err != nil {
		return fmt.Errorf("head bias: %w", err)
	}
	if len(bias) != h.numLabels {
		return fmt.Errorf("head bias has length %d, expected %d", len(bias), h.numLabels)
	}
	h.weights = weights
	h.bias = bias
	return nil
}

func toFloat32Slice(v any) ([]float32, error) {
	switch raw := v.(type) {
	case []float64:
		return embedding.Float64To32(raw), nil
	case []any:
		out := make([]float32, len(raw))
		for i, item := range raw {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not a number", i, item)
			}
			out[i] = float32(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected numeric list, got %T", v)
	}
}
