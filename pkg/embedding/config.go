package embedding

// ProviderConfig is a serializable description of a provider, used by the
// saved-model format. It carries configuration only: remote credentials
// and model weights are never serialized. Providers that hold fitted state
// (e.g. a TF-IDF vocabulary) place it under State.
type ProviderConfig struct {
	Type           string         `json:"type"`
	Model          string         `json:"model,omitempty"`
	Dimension      int            `json:"dimension,omitempty"`
	BaseURL        string         `json:"base_url,omitempty"`
	Address        string         `json:"address,omitempty"`
	SeparatorToken string         `json:"separator_token,omitempty"`
	State          map[string]any `json:"state,omitempty"`
}

// ConfigurableProvider is implemented by providers that can describe
// themselves for persistence and be rebuilt from that description.
type ConfigurableProvider interface {
	Config() ProviderConfig
}

// Config returns the mock's serializable description.
func (m *MockProvider) Config() ProviderConfig {
	return ProviderConfig{
		Type:           "mock",
		Model:          m.modelName,
		Dimension:      m.dimension,
		SeparatorToken: m.sepToken,
	}
}
