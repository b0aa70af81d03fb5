package embedding

import (
	"context"
	"hash/fnv"
)

// MockProvider implements the Provider interface for testing.
// Vectors are deterministic functions of the input text, so two different
// texts get different (but repeatable) embeddings. For production, use
// actual providers like OpenAIProvider or SidecarProvider.
type MockProvider struct {
	modelName string
	dimension int
	sepToken  string
}

// NewMockProvider creates a new mock embedding provider.
// If dimension <= 0, defaults to 1536 (OpenAI text-embedding-ada-002 dimension).
func NewMockProvider(dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 1536
	}
	return &MockProvider{
		modelName: "mock-provider",
		dimension: dimension,
	}
}

// Embed generates a deterministic embedding for a single text.
func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.generateEmbedding(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generateEmbedding(text)
	}
	return embeddings, nil
}

// Dimension returns the dimension of the embeddings.
func (m *MockProvider) Dimension() int {
	return m.dimension
}

// ModelName returns the name of the model.
func (m *MockProvider) ModelName() string {
	return m.modelName
}

// SetModelName sets the model name for testing purposes.
func (m *MockProvider) SetModelName(name string) {
	m.modelName = name
}

// SetSeparatorToken makes the mock declare a separator token, exercising
// the SeparatorTokenProvider capability in tests.
func (m *MockProvider) SetSeparatorToken(token string) {
	m.sepToken = token
}

// SeparatorToken returns the declared separator token, if set.
func (m *MockProvider) SeparatorToken() (string, bool) {
	return m.sepToken, m.sepToken != ""
}

// generateEmbedding derives a repeatable vector from the text via FNV
// hashing, one hash round per position.
func (m *MockProvider) generateEmbedding(text string) []float32 {
	embedding := make([]float32, m.dimension)
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()
	for i := 0; i < m.dimension; i++ {
		state = state*6364136223846793005 + 1442695040888963407
		// Map the top bits to [-1, 1).
		embedding[i] = float32(int32(state>>32)) / (1 << 31)
	}
	return Normalize(embedding)
}
