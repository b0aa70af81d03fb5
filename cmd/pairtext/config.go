package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI embedding provider.
type OpenAIEmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// SidecarEmbedderConfig holds configuration for the gRPC sidecar provider.
type SidecarEmbedderConfig struct {
	Address        string `yaml:"address"`
	Model          string `yaml:"model"`
	Dimension      int    `yaml:"dimension"`
	SeparatorToken string `yaml:"separator_token"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Type      string                 `yaml:"type"`
	Dimension int                    `yaml:"dimension"`
	OpenAI    *OpenAIEmbedderConfig  `yaml:"openai,omitempty"`
	Sidecar   *SidecarEmbedderConfig `yaml:"sidecar,omitempty"`
}

// ClassifierConfig configures the pair classifier.
type ClassifierConfig struct {
	LabelType           string             `yaml:"label_type"`
	Labels              []string           `yaml:"labels"`
	MultiLabel          bool               `yaml:"multi_label"`
	MultiLabelThreshold float64            `yaml:"multi_label_threshold"`
	EmbedSeparately     bool               `yaml:"embed_separately"`
	LossWeights         map[string]float64 `yaml:"loss_weights,omitempty"`
	Seed                int64              `yaml:"seed"`
}

// TrainingConfig configures the trainer.
type TrainingConfig struct {
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Training   TrainingConfig   `yaml:"training"`
}

// LoadConfig reads a config from the given path. If the file does not
// exist, returns defaults.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:   EmbedderConfig{Type: "stats", Dimension: 128},
		Classifier: ClassifierConfig{LabelType: "relatedness", Labels: []string{"related", "unrelated"}},
		Training:   TrainingConfig{Epochs: 25, LearningRate: 0.1},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "stats"
	}
	if cfg.Classifier.LabelType == "" {
		cfg.Classifier.LabelType = "relatedness"
	}
	if cfg.Training.Epochs == 0 {
		cfg.Training.Epochs = 25
	}
	if cfg.Training.LearningRate == 0 {
		cfg.Training.LearningRate = 0.1
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
	}
}
