package llm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/investor-scout/internal/model"
	"github.com/fleveque/investor-scout/internal/storage"
)

// Gateway is the single entry point for provider calls. It holds a registry
// of configured clients, enforces a per-provider token-bucket rate limit and
// a hard per-call timeout, and records every call for cost tracking.
//
// No retries happen here: a failed call fails. The orchestrator decides what
// a failure means for the session (per-category failures never abort it).
type Gateway struct {
	clients  map[string]Client
	limiters map[string]*rate.Limiter
	timeout  time.Duration
	calls    storage.CallRepository // nil disables call tracking
	logger   *zap.Logger
}

// NewGateway builds a gateway from an ordered list of clients. ratePerMinute
// applies per provider; timeout is the hard upper bound for one call.
func NewGateway(clients []Client, ratePerMinute int, timeout time.Duration, calls storage.CallRepository, logger *zap.Logger) *Gateway {
	if ratePerMinute <= 0 {
		ratePerMinute = 10
	}
	rps := rate.Every(time.Minute / time.Duration(ratePerMinute))

	g := &Gateway{
		clients:  make(map[string]Client, len(clients)),
		limiters: make(map[string]*rate.Limiter, len(clients)),
		timeout:  timeout,
		calls:    calls,
		logger:   logger,
	}
	for _, c := range clients {
		g.clients[c.ProviderName()] = c
		g.limiters[c.ProviderName()] = rate.NewLimiter(rps, 1) // burst of 1 — strict
	}
	return g
}

// Providers returns the sorted ids of all configured providers.
func (g *Gateway) Providers() []string {
	ids := make([]string, 0, len(g.clients))
	for id := range g.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a provider id is configured.
func (g *Gateway) Has(provider string) bool {
	_, ok := g.clients[provider]
	return ok
}

// Generate routes one prompt to the named provider. The call is bounded by
// the gateway timeout; rate limiting blocks until a token is available or
// ctx is cancelled.
func (g *Gateway) Generate(ctx context.Context, provider, prompt string, maxTokens int) (*Response, error) {
	client, ok := g.clients[provider]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", provider)
	}

	if err := g.limiters[provider].Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := client.Generate(callCtx, prompt, maxTokens)
	duration := time.Since(start)

	g.recordCall(client, err, duration)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// recordCall writes the call to the audit log. Recording is fire-and-forget:
// a tracking failure is logged and swallowed, never surfaced to the pipeline.
func (g *Gateway) recordCall(client Client, callErr error, duration time.Duration) {
	if g.calls == nil {
		return
	}

	call := &model.LLMCall{
		Provider:   client.ProviderName(),
		Model:      client.ModelName(),
		Success:    callErr == nil,
		DurationMs: duration.Milliseconds(),
	}
	if callErr != nil {
		msg := callErr.Error()
		call.Error = &msg
	}

	// Tracking uses its own short-lived context so a cancelled or timed-out
	// call still gets logged.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.calls.Create(ctx, call); err != nil {
		g.logger.Error("recording LLM call", zap.Error(err))
	}
}
