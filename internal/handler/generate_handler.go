package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/llm"
)

// GenerateHandler exposes the raw provider gateway: one prompt in, one text
// response out, provider chosen by path. This is the provider-agnostic
// boundary the search pipeline itself consumes — useful for debugging
// prompts and for clients that run their own aggregation.
type GenerateHandler struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(gateway *llm.Gateway, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{gateway: gateway, logger: logger}
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"maxTokens"`
}

// Generate proxies one generation call to the named provider.
// Route: POST /api/v1/generate/:provider
func (h *GenerateHandler) Generate(c *gin.Context) {
	provider := c.Param("provider")
	if !h.gateway.Has(provider) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown provider: " + provider,
		})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt required"})
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 8000
	}

	resp, err := h.gateway.Generate(c.Request.Context(), provider, req.Prompt, req.MaxTokens)
	if err != nil {
		h.logger.Warn("generate call failed",
			zap.String("provider", provider),
			zap.Error(err),
		)

		// Provider rejections keep their upstream status; transport-level
		// failures map to 502.
		status := http.StatusBadGateway
		var perr *llm.ProviderError
		if errors.As(err, &perr) && perr.StatusCode >= 400 && perr.StatusCode < 600 {
			status = perr.StatusCode
		}
		c.JSON(status, gin.H{
			"error":   "provider call failed",
			"details": err.Error(),
		})
		return
	}

	body := gin.H{
		"success":  true,
		"text":     resp.Text,
		"provider": provider,
	}
	if len(resp.Citations) > 0 {
		body["citations"] = resp.Citations
	}
	c.JSON(http.StatusOK, body)
}
