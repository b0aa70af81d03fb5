package zeroshot

import (
	"context"
	"fmt"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnlp/pairtext/pkg/textdata"
)

// stubMessages records the last request and returns a canned answer.
type stubMessages struct {
	lastParams anthropic.MessageNewParams
	answer     string
	err        error
}

func (s *stubMessages) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: s.answer},
		},
	}, nil
}

func newStubbedClassifier(t *testing.T, answer string) (*Classifier, *stubMessages) {
	t.Helper()
	c, err := New(&Config{
		APIKey:    "test-key",
		LabelType: "entailment",
		Labels:    textdata.LabelDictionaryOf("entailment", "contradiction", "neutral"),
	})
	require.NoError(t, err)
	stub := &stubMessages{answer: answer}
	c.messages = stub
	return c, stub
}

func TestNew_Validation(t *testing.T) {
	labels := textdata.LabelDictionaryOf("a", "b")

	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{LabelType: "t", Labels: labels})
	assert.ErrorContains(t, err, "API key")

	_, err = New(&Config{APIKey: "k", LabelType: "t"})
	assert.ErrorContains(t, err, "label dictionary")

	_, err = New(&Config{APIKey: "k", Labels: labels})
	assert.ErrorContains(t, err, "label type")

	c, err := New(&Config{APIKey: "k", LabelType: "t", Labels: labels})
	require.NoError(t, err)
	assert.Equal(t, "t", c.LabelType())
	assert.Equal(t, defaultModel, c.model)
	assert.EqualValues(t, defaultMaxTokens, c.maxTokens)
}

func TestClassifier_Predict(t *testing.T) {
	ctx := context.Background()
	c, stub := newStubbedClassifier(t, "entailment")

	pair := textdata.NewTextPair("The cat sat.", "It was hungry.")
	labels, err := c.Predict(ctx, pair)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "entailment", labels[0].Value)
	assert.Equal(t, 1.0, labels[0].Score)

	t.Run("prompt carries both texts and the vocabulary", func(t *testing.T) {
		require.Len(t, stub.lastParams.System, 1)
		system := stub.lastParams.System[0].Text
		assert.Contains(t, system, "entailment, contradiction, neutral")

		require.Len(t, stub.lastParams.Messages, 1)
		user := stub.lastParams.Messages[0].Content[0].OfText.Text
		assert.Contains(t, user, "First text: The cat sat.")
		assert.Contains(t, user, "Second text: It was hungry.")
	})
}

func TestClassifier_Predict_ParsesLooseAnswers(t *testing.T) {
	ctx := context.Background()
	pair := textdata.NewTextPair("a", "b")

	c, _ := newStubbedClassifier(t, "  Neutral\n")
	labels, err := c.Predict(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, "neutral", labels[0].Value)
}

func TestClassifier_Predict_RejectsUnknownLabel(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubbedClassifier(t, "maybe")

	_, err := c.Predict(ctx, textdata.NewTextPair("a", "b"))
	assert.ErrorContains(t, err, "not in the label vocabulary")
}

func TestClassifier_Predict_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	c, stub := newStubbedClassifier(t, "")
	stub.err = fmt.Errorf("boom")

	_, err := c.Predict(ctx, textdata.NewTextPair("a", "b"))
	assert.ErrorContains(t, err, "boom")
}
