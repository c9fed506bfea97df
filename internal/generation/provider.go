package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/flashdeck/backend/internal/config"
	"github.com/flashdeck/backend/internal/models"
	"go.uber.org/zap"
)

// ErrProvider is returned when the LLM provider call fails
var ErrProvider = errors.New("llm provider request failed")

// Provider completes a prompt into JSON constrained by schema
type Provider interface {
	// Complete sends the prompts and returns the raw JSON text of the reply
	Complete(ctx context.Context, systemPrompt, userPrompt string, schema map[string]any) (string, error)
	// Model returns the model identifier used for requests
	Model() string
}

// NewProvider creates the provider selected by configuration
func NewProvider(ctx context.Context, cfg config.LLMConfig, appURL string) (Provider, error) {
	switch cfg.Provider {
	case "openrouter":
		return NewOpenRouterProvider(cfg, appURL), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// Generator asks a provider for pairs and validates the reply
type Generator struct {
	provider Provider
	logger   *zap.Logger
}

// NewGenerator creates a new generator
func NewGenerator(provider Provider, logger *zap.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// Model returns the model identifier of the underlying provider
func (g *Generator) Model() string {
	return g.provider.Model()
}

// Generate returns exactly req.Count pairs or an error. There are no retries.
func (g *Generator) Generate(ctx context.Context, req Request) ([]models.PairInput, error) {
	schema, err := BuildPairsSchema(req.Count)
	if err != nil {
		return nil, err
	}

	raw, err := g.provider.Complete(ctx, systemPrompt, buildUserPrompt(req), schema)
	if err != nil {
		g.logger.Error("llm request failed", zap.String("model", g.provider.Model()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	pairs, err := ParsePairsResponse(raw, req.Count)
	if err != nil {
		g.logger.Warn("llm response rejected",
			zap.String("model", g.provider.Model()),
			zap.Int("count", req.Count),
			zap.Error(err),
		)
		return nil, err
	}

	return pairs, nil
}
