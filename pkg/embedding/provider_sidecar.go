// This file contains the gRPC sidecar provider implementation.
package embedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultSidecarAddress = "localhost:50051"
	defaultSidecarModel   = "TaylorAI/bge-micro-v2"
	defaultSidecarTimeout = 30 * time.Second
	defaultSidecarDim     = 384

	sidecarEmbedMethod = "/pairtext.Embedder/EmbedBatch"
)

// SidecarConfig holds configuration for the sidecar provider.
type SidecarConfig struct {
	Address        string        // gRPC address (default: localhost:50051)
	ModelName      string        // Model identifier
	Timeout        time.Duration // Request timeout
	Dimension      int           // Embedding dimension (0 = model default)
	SeparatorToken string        // Declared boundary token (default: [SEP])
}

// SidecarProvider implements Provider via a gRPC sidecar running a local
// transformer model. The sidecar speaks a schemaless struct-based protocol:
// requests and responses are structpb payloads invoked on the raw
// connection, and liveness uses the standard gRPC health service.
type SidecarProvider struct {
	conn      *grpc.ClientConn
	modelName string
	dimension int
	timeout   time.Duration
	sepToken  string
}

// NewSidecarProvider creates a new sidecar provider with the given configuration.
func NewSidecarProvider(ctx context.Context, cfg *SidecarConfig) (*SidecarProvider, error) {
	if cfg == nil {
		cfg = &SidecarConfig{}
	}

	address := cfg.Address
	if address == "" {
		address = defaultSidecarAddress
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultSidecarTimeout
	}

	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sidecar at %s: %w", address, err)
	}

	// Check health
	healthCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	health, err := healthpb.NewHealthClient(conn).Check(healthCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sidecar health check failed: %w", err)
	}
	if health.Status != healthpb.HealthCheckResponse_SERVING {
		conn.Close()
		return nil, ErrUnavailable
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = defaultSidecarModel
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = defaultSidecarDim
	}

	sepToken := cfg.SeparatorToken
	if sepToken == "" {
		sepToken = "[SEP]"
	}

	return &SidecarProvider{
		conn:      conn,
		modelName: modelName,
		dimension: dimension,
		timeout:   timeout,
		sepToken:  sepToken,
	}, nil
}

// Embed generates an embedding for a single text.
func (p *SidecarProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrInvalidInput
	}
	embeddings, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one sidecar call.
func (p *SidecarProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{
		"model": p.modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	inputs := make([]any, len(texts))
	for i, t := range texts {
		inputs[i] = t
	}
	inputList, err := structpb.NewList(inputs)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Fields["texts"] = structpb.NewListValue(inputList)

	resp := &structpb.Struct{}
	if err := p.conn.Invoke(ctx, sidecarEmbedMethod, req, resp); err != nil {
		return nil, fmt.Errorf("sidecar embed failed: %w", err)
	}

	embVal, ok := resp.Fields["embeddings"]
	if !ok {
		return nil, fmt.Errorf("sidecar response missing embeddings")
	}
	rows := embVal.GetListValue().GetValues()
	if len(rows) != len(texts) {
		return nil, fmt.Errorf("sidecar returned %d embeddings for %d texts", len(rows), len(texts))
	}

	result := make([][]float32, len(rows))
	for i, row := range rows {
		values := row.GetListValue().GetValues()
		vec := make([]float32, len(values))
		for j, v := range values {
			vec[j] = float32(v.GetNumberValue())
		}
		result[i] = vec
	}

	// Update dimension from response
	if len(result) > 0 && len(result[0]) > 0 {
		p.dimension = len(result[0])
	}

	return result, nil
}

// Dimension returns the embedding dimension.
func (p *SidecarProvider) Dimension() int {
	return p.dimension
}

// ModelName returns the model identifier.
func (p *SidecarProvider) ModelName() string {
	return p.modelName
}

// SeparatorToken returns the transformer tokenizer's declared sep token.
func (p *SidecarProvider) SeparatorToken() (string, bool) {
	return p.sepToken, p.sepToken != ""
}

// Config returns the provider's serializable description.
func (p *SidecarProvider) Config() ProviderConfig {
	return ProviderConfig{
		Type:           "sidecar",
		Model:          p.modelName,
		Dimension:      p.dimension,
		Address:        p.conn.Target(),
		SeparatorToken: p.sepToken,
	}
}

// Close releases the underlying connection.
func (p *SidecarProvider) Close() error {
	return p.conn.Close()
}
