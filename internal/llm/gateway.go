package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/startupops/backend/internal/config"
)

// Gateway routes chat requests to a configured provider with retries and an
// optional fallback provider. Callers that can live without a narrative
// (analytics) substitute static text when Chat errors.
type Gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	defaultModel     string
	fallbackProvider string
	maxRetries       int
}

func NewGateway(cfg config.LLMConfig) *Gateway {
	g := &Gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		defaultModel:     cfg.DefaultModel,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
	}
	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	return g
}

// Enabled reports whether any provider is configured.
func (g *Gateway) Enabled() bool {
	return len(g.providers) > 0
}

func (g *Gateway) provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	name := req.Provider
	if name == "" {
		name = g.defaultProvider
	}
	if req.Model == "" {
		req.Model = g.defaultModel
	}

	resp, err := g.chatWithRetry(ctx, name, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != name {
		slog.Warn("primary provider failed, trying fallback",
			"primary", name, "fallback", g.fallbackProvider, "error", err)
		return g.chatWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *Gateway) chatWithRetry(ctx context.Context, name string, req ChatRequest) (*ChatResponse, error) {
	p, err := g.provider(name)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying LLM call", "provider", name, "attempt", attempt)
		}
		resp, err := p.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", name, lastErr)
}
