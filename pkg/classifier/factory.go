package classifier

import (
	"context"
	"fmt"
	"os"

	"github.com/quillnlp/pairtext/pkg/embedding"
	"github.com/quillnlp/pairtext/pkg/embedding/stats"
	"github.com/quillnlp/pairtext/pkg/embedding/tfidf"
)

// providerFromConfig rebuilds an embedding provider from its saved
// description. Credentials are never part of saved state; remote providers
// read their API key from the environment at load time.
func providerFromConfig(ctx context.Context, cfg embedding.ProviderConfig) (embedding.Provider, error) {
	switch cfg.Type {
	case "mock":
		m := embedding.NewMockProvider(cfg.Dimension)
		if cfg.Model != "" {
			m.SetModelName(cfg.Model)
		}
		if cfg.SeparatorToken != "" {
			m.SetSeparatorToken(cfg.SeparatorToken)
		}
		return m, nil
	case "stats":
		return stats.New(cfg.Dimension), nil
	case "tfidf":
		return tfidf.FromConfig(cfg)
	case "openai":
		return embedding.NewOpenAIProvider(&embedding.OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
		})
	case "sidecar":
		return embedding.NewSidecarProvider(ctx, &embedding.SidecarConfig{
			Address:        cfg.Address,
			ModelName:      cfg.Model,
			Dimension:      cfg.Dimension,
			SeparatorToken: cfg.SeparatorToken,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider type %q", cfg.Type)
	}
}
