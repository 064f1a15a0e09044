// Package profile turns one exploratory provider call into a structured
// CompanyProfile. This is the only session-fatal step of the pipeline: with
// no profile there is nothing to plan category searches around, so a miss
// here ends the session instead of degrading it.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/extract"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/model"
)

// ErrProfileNotFound means the provider's response contained no parseable
// JSON object. Terminal for the session — the user must retry, no fallback
// profile is synthesized.
var ErrProfileNotFound = errors.New("no company profile found in provider response")

// Generator is the slice of the provider gateway the extractor needs.
type Generator interface {
	Generate(ctx context.Context, provider, prompt string, maxTokens int) (*llm.Response, error)
}

// Extractor issues the profiling query against one configured provider.
type Extractor struct {
	gateway   Generator
	provider  string
	maxTokens int
	logger    *zap.Logger
}

// NewExtractor creates an extractor bound to the profiling provider.
func NewExtractor(gateway Generator, provider string, maxTokens int, logger *zap.Logger) *Extractor {
	return &Extractor{
		gateway:   gateway,
		provider:  provider,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Extract profiles the company identified by query (name or VAT number).
// One call, no retry: a provider failure or unparseable answer is
// ErrProfileNotFound.
func (e *Extractor) Extract(ctx context.Context, query string) (*model.CompanyProfile, error) {
	resp, err := e.gateway.Generate(ctx, e.provider, buildProfilePrompt(query), e.maxTokens)
	if err != nil {
		e.logger.Warn("profiling call failed",
			zap.String("provider", e.provider),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}

	raw, err := extract.Object(resp.Text)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	var profile model.CompanyProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		e.logger.Debug("profile JSON did not unmarshal", zap.Error(err))
		return nil, ErrProfileNotFound
	}

	return &profile, nil
}

// buildProfilePrompt instructs the provider to return a single JSON object
// with the fixed profile schema. The field names are the structural contract
// with model.CompanyProfile's json tags.
func buildProfilePrompt(query string) string {
	return fmt.Sprintf(`Research "%s" (this may be an Italian company name or VAT number).

FIND AND REPORT in structured form:
1. IDENTITY: legal name, headquarters, VAT number, founding year
2. SECTOR: main sector, sub-sector, business description
3. FINANCIALS: latest revenues, EBITDA or margin, employee count
4. BUSINESS: main clients, export share, strengths
5. OWNERSHIP: current owners, corporate structure
6. RECENT NEWS: latest company news

Reply ONLY with a valid JSON object:
{
  "name": "...",
  "legalName": "...",
  "vatNumber": "...",
  "headquarters": "...",
  "region": "...",
  "founded": "...",
  "sector": "...",
  "subSector": "...",
  "description": "...",
  "revenues": "€...M",
  "revenuesNum": 0,
  "ebitda": "€...M",
  "ebitdaMargin": "...%%",
  "employees": 0,
  "exportPct": "...%%",
  "mainClients": ["..."],
  "owners": "...",
  "strengths": ["..."],
  "recentNews": ["..."],
  "sources": ["..."]
}`, query)
}
