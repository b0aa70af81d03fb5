// Package zeroshot provides a prompted LLM baseline over the same text
// pair surface as the trained classifier. It asks a chat model to pick one
// label from the vocabulary, which is useful for bootstrapping labels
// before a linear head has been trained.
package zeroshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/quillnlp/pairtext/pkg/textdata"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 64
)

// messageCreator abstracts the SDK message call so tests can stub it.
type messageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Config holds the configuration for the zero-shot classifier.
type Config struct {
	// APIKey is the Anthropic API key.
	APIKey string

	// BaseURL is the base URL for the API (optional, defaults to the
	// official API).
	BaseURL string

	// Model is the model name to use.
	Model string

	// MaxTokens is the response budget (defaults to 64; answers are a
	// single label).
	MaxTokens int

	// LabelType identifies what kind of label is being predicted.
	LabelType string

	// Labels is the allowed label vocabulary.
	Labels *textdata.LabelDictionary
}

// Classifier predicts a pair's label by prompting a chat model.
type Classifier struct {
	messages  messageCreator
	model     string
	maxTokens int64
	labelType string
	labels    *textdata.LabelDictionary
}

// New creates a zero-shot pair classifier.
func New(cfg *Config) (*Classifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Labels == nil || cfg.Labels.Size() == 0 {
		return nil, fmt.Errorf("zero-shot classifier requires a non-empty label dictionary")
	}
	if cfg.LabelType == "" {
		return nil, fmt.Errorf("zero-shot classifier requires a label type")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &Classifier{
		messages:  &client.Messages,
		model:     model,
		maxTokens: int64(maxTokens),
		labelType: cfg.LabelType,
		labels:    cfg.Labels,
	}, nil
}

// LabelType returns the kind of label this classifier predicts.
func (c *Classifier) LabelType() string { return c.labelType }

// Predict asks the model to label the pair. The answer is always a single
// label from the vocabulary; the score is uncalibrated and fixed at 1.0.
func (c *Classifier) Predict(ctx context.Context, pair *textdata.TextPair) ([]textdata.Label, error) {
	msg, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: c.systemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.pairPrompt(pair))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("zero-shot prediction failed: %w", err)
	}

	answer := responseText(msg)
	label, err := c.parseLabel(answer)
	if err != nil {
		return nil, err
	}
	return []textdata.Label{{Value: label, Score: 1.0}}, nil
}

// systemPrompt instructs the model to answer with exactly one label.
func (c *Classifier) systemPrompt() string {
	return fmt.Sprintf(
		"You are a %s classifier for ordered pairs of texts. "+
			"Answer with exactly one of the following labels and nothing else: %s",
		c.labelType, strings.Join(c.labels.Items(), ", "))
}

// pairPrompt renders the pair for the model.
func (c *Classifier) pairPrompt(pair *textdata.TextPair) string {
	return fmt.Sprintf("First text: %s\nSecond text: %s\nLabel:", pair.First.Text(), pair.Second.Text())
}

// parseLabel matches the model's answer against the vocabulary,
// case-insensitively and ignoring surrounding whitespace.
func (c *Classifier) parseLabel(answer string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(answer))
	for _, label := range c.labels.Items() {
		if cleaned == strings.ToLower(label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("model answered %q, which is not in the label vocabulary", strings.TrimSpace(answer))
}

// responseText concatenates the text blocks of a response.
func responseText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
