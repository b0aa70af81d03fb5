// This file contains the OpenAI API provider implementation.
package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultOpenAIModel = "text-embedding-3-small"
)

// Model dimensions
const (
	DimensionSmall = 1536 // text-embedding-3-small
	DimensionLarge = 3072 // text-embedding-3-large
)

// OpenAIConfig holds configuration for the OpenAI API provider.
type OpenAIConfig struct {
	APIKey    string // API key
	BaseURL   string // API base URL (default: OpenAI)
	Model     string // Model name (default: text-embedding-3-small)
	Dimension int    // Embedding dimension (0 = model default)
}

// OpenAIProvider implements Provider via the official OpenAI SDK.
type OpenAIProvider struct {
	client    openai.Client
	baseURL   string
	model     string
	dimension int
}

// NewOpenAIProvider creates a new OpenAI API provider with the given configuration.
func NewOpenAIProvider(cfg *OpenAIConfig) (*OpenAIProvider, error) {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = getDimensionForModel(model)
	}

	return &OpenAIProvider{
		client:    openai.NewClient(opts...),
		baseURL:   cfg.BaseURL,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed generates an embedding for a single text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrInvalidInput
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openai.EmbeddingModel(p.model),
	}

	response, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	// Order by index; the API may return items out of order.
	result := make([][]float32, len(texts))
	for _, item := range response.Data {
		if item.Index < 0 || int(item.Index) >= len(result) {
			continue
		}
		result[item.Index] = Float64To32(item.Embedding)
	}

	// Update dimension from response
	if len(result) > 0 && len(result[0]) > 0 {
		p.dimension = len(result[0])
	}

	return result, nil
}

// Dimension returns the embedding dimension.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// ModelName returns the model name.
func (p *OpenAIProvider) ModelName() string {
	return p.model
}

// Config returns the provider's serializable description. The API key is
// deliberately omitted; reconstruction reads it from the environment.
func (p *OpenAIProvider) Config() ProviderConfig {
	return ProviderConfig{
		Type:      "openai",
		Model:     p.model,
		Dimension: p.dimension,
		BaseURL:   p.baseURL,
	}
}

// getDimensionForModel returns the default dimension for a model.
func getDimensionForModel(model string) int {
	switch model {
	case "text-embedding-3-large":
		return DimensionLarge
	default:
		return DimensionSmall
	}
}
