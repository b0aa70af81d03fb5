package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinearHead(t *testing.T) {
	head, err := NewLinearHead(8, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, head.InputSize())
	assert.Equal(t, 3, head.NumLabels())

	t.Run("same seed, same weights", func(t *testing.T) {
		other, err := NewLinearHead(8, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, head.weights, other.weights)
	})

	t.Run("different seed, different weights", func(t *testing.T) {
		other, err := NewLinearHead(8, 3, 2)
		require.NoError(t, err)
		assert.NotEqual(t, head.weights, other.weights)
	})

	t.Run("invalid sizes", func(t *testing.T) {
		_, err := NewLinearHead(0, 3, 1)
		assert.Error(t, err)
		_, err = NewLinearHead(8, 0, 1)
		assert.Error(t, err)
	})
}

func TestLinearHead_Forward(t *testing.T) {
	head, err := NewLinearHead(2, 2, 7)
	require.NoError(t, err)
	head.weights = [][]float32{{1, 0}, {0, -1}}
	head.bias = []float32{0.5, 0}

	logits, err := head.Forward([]float32{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5, -3}, logits)

	_, err = head.Forward([]float32{1})
	assert.Error(t, err)
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float32{1, 1, 1})
	sum := 0.0
	for _, p := range probs {
		assert.InDelta(t, 1.0/3.0, p, 1e-9)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	t.Run("stable for large logits", func(t *testing.T) {
		probs := Softmax([]float32{1000, 0})
		assert.InDelta(t, 1.0, probs[0], 1e-9)
	})

	assert.Nil(t, Softmax(nil))
}

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-9)
	assert.Greater(t, Sigmoid(3), 0.9)
	assert.Less(t, Sigmoid(-3), 0.1)
}

func TestLinearHead_StateRoundTrip(t *testing.T) {
	head, err := NewLinearHead(3, 2, 42)
	require.NoError(t, err)

	restored, err := NewLinearHead(3, 2, 0)
	require.NoError(t, err)
	require.NoError(t, restored.loadStateDict(head.stateDict()))
	assert.Equal(t, head.weights, restored.weights)
	assert.Equal(t, head.bias, restored.bias)

	t.Run("shape mismatch", func(t *testing.T) {
		wrong, err := NewLinearHead(3, 3, 0)
		require.NoError(t, err)
		assert.Error(t, wrong.loadStateDict(head.stateDict()))
	})

	t.Run("missing weights", func(t *testing.T) {
		assert.Error(t, restored.loadStateDict(map[string]any{}))
	})
}
