package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/storage"
)

// AdminHandler serves usage statistics off the persistent audit tables.
type AdminHandler struct {
	calls     storage.CallRepository
	searches  storage.SearchRepository
	providers []string
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. providers is the list of
// configured provider names to break call counts down by.
func NewAdminHandler(calls storage.CallRepository, searches storage.SearchRepository, providers []string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{calls: calls, searches: searches, providers: providers, logger: logger}
}

// Stats returns call and search totals.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	totalCalls, err := h.calls.Count(ctx)
	if err != nil {
		h.logger.Error("counting llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	failedCalls, err := h.calls.FailureCount(ctx)
	if err != nil {
		h.logger.Error("counting failed llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	byProvider := make(map[string]int64, len(h.providers))
	for _, p := range h.providers {
		n, err := h.calls.CountByProvider(ctx, p)
		if err != nil {
			h.logger.Error("counting llm calls by provider",
				zap.String("provider", p), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
			return
		}
		byProvider[p] = n
	}

	totalSearches, err := h.searches.Count(ctx)
	if err != nil {
		h.logger.Error("counting searches", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	recent, err := h.searches.ListRecent(ctx, 10)
	if err != nil {
		h.logger.Error("listing recent searches", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"llmCalls": gin.H{
			"total":      totalCalls,
			"failed":     failedCalls,
			"byProvider": byProvider,
		},
		"searches": gin.H{
			"total":  totalSearches,
			"recent": recent,
		},
	})
}
