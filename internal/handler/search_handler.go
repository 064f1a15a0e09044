package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/aggregate"
	"github.com/fleveque/investor-scout/internal/export"
	"github.com/fleveque/investor-scout/internal/model"
	"github.com/fleveque/investor-scout/internal/search"
)

// SearchHandler drives investor searches over HTTP. A POST starts the
// pipeline in a background goroutine and returns the session id; clients
// poll the session until it is done, then fetch results or the CSV.
type SearchHandler struct {
	store        *search.Store
	orchestrator *search.Orchestrator
	logger       *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(store *search.Store, orchestrator *search.Orchestrator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{store: store, orchestrator: orchestrator, logger: logger}
}

type startSearchRequest struct {
	Query    string `json:"query"`
	DealType string `json:"dealType"`
}

// Start launches a search session.
// Route: POST /api/v1/searches
func (h *SearchHandler) Start(c *gin.Context) {
	var req startSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": search.ErrInvalidInput.Error()})
		return
	}

	dealType := model.DealType(req.DealType)
	if req.DealType == "" {
		dealType = model.DealMajority
	} else if !model.ValidDealType(req.DealType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "dealType must be one of: majority, full, minority",
		})
		return
	}

	sess := h.store.Create(req.Query, dealType)

	// The request context dies with this handler; the pipeline runs for
	// minutes, so it gets its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := h.orchestrator.Run(ctx, sess); err != nil {
			h.logger.Warn("search session failed",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"id":       sess.ID,
		"query":    sess.Query,
		"dealType": string(sess.DealType),
		"state":    string(sess.State()),
	})
}

// Get returns the session state and progress log for polling.
// Route: GET /api/v1/searches/:id
func (h *SearchHandler) Get(c *gin.Context) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search not found"})
		return
	}

	body := gin.H{
		"id":       sess.ID,
		"query":    sess.Query,
		"dealType": string(sess.DealType),
		"state":    string(sess.State()),
		"progress": sess.Progress(),
	}
	if p := sess.Profile(); p != nil {
		body["profile"] = p
	}
	if msg := sess.ErrMsg(); msg != "" {
		body["error"] = msg
	}
	if agg := sess.Aggregated(); agg != nil {
		body["summary"] = agg.Summary
	}
	c.JSON(http.StatusOK, body)
}

// Results returns the aggregated roster, optionally filtered by the
// minConsensus, type, and hasNews query params.
// Route: GET /api/v1/searches/:id/results
func (h *SearchHandler) Results(c *gin.Context) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search not found"})
		return
	}

	agg := sess.Aggregated()
	if agg == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "search not finished",
			"state": string(sess.State()),
		})
		return
	}

	opts := aggregate.FilterOptions{Type: c.Query("type")}
	if v := c.Query("minConsensus"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minConsensus must be an integer"})
			return
		}
		opts.MinConsensus = n
	}
	if v := c.Query("hasNews"); v != "" {
		opts.HasNews = v == "true" || v == "1"
	}

	c.JSON(http.StatusOK, gin.H{
		"investors": aggregate.Filter(agg.Investors, opts),
		"summary":   agg.Summary,
	})
}

// ExportCSV streams the full roster as a CSV download.
// Route: GET /api/v1/searches/:id/export.csv
func (h *SearchHandler) ExportCSV(c *gin.Context) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search not found"})
		return
	}

	agg := sess.Aggregated()
	if agg == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "search not finished",
			"state": string(sess.State()),
		})
		return
	}

	var companyName string
	if p := sess.Profile(); p != nil {
		companyName = p.Name
	}
	filename := export.Filename(companyName, time.Now())

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(export.CSV(agg.Investors)))
}
