package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/aggregate"
	"github.com/fleveque/investor-scout/internal/extract"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/model"
	"github.com/fleveque/investor-scout/internal/planner"
	"github.com/fleveque/investor-scout/internal/storage"
)

// ErrInvalidInput means the query was empty or whitespace. Surfaced before
// any network call — the session never leaves Idle.
var ErrInvalidInput = errors.New("company name or VAT number required")

// Generator is the slice of the provider gateway the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, provider, prompt string, maxTokens int) (*llm.Response, error)
}

// ProfileExtractor abstracts the profiling step for testability.
type ProfileExtractor interface {
	Extract(ctx context.Context, query string) (*model.CompanyProfile, error)
}

// Orchestrator sequences one session: Profiling, then each category of
// Searching with a fixed inter-request delay, then Aggregating. Per-category
// failures are recorded and swallowed so that partial data always reaches
// aggregation.
type Orchestrator struct {
	gateway   Generator
	extractor ProfileExtractor
	searches  storage.SearchRepository // nil disables the audit row
	delay     time.Duration
	maxTokens int
	policy    aggregate.ScorePolicy
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline. delay is the pause between category
// queries; maxTokens is the per-category token budget.
func NewOrchestrator(
	gateway Generator,
	extractor ProfileExtractor,
	searches storage.SearchRepository,
	delay time.Duration,
	maxTokens int,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		gateway:   gateway,
		extractor: extractor,
		searches:  searches,
		delay:     delay,
		maxTokens: maxTokens,
		policy:    aggregate.DefaultPolicy,
		logger:    logger,
	}
}

// Run drives the session to Done or Failed. The returned error is non-nil
// only for session-level failures (ErrInvalidInput, profile.ErrProfileNotFound
// wrapped); category-level failures never surface here.
func (o *Orchestrator) Run(ctx context.Context, sess *Session) error {
	if strings.TrimSpace(sess.Query) == "" {
		// Stay in Idle: the caller returns the user to the input state.
		return ErrInvalidInput
	}

	// Profiling
	sess.setState(StateProfiling)
	idx, start := sess.startStep("Profiling company", "")
	profile, err := o.extractor.Extract(ctx, sess.Query)
	if err != nil {
		sess.finishStep(idx, start, ProgressError, 0)
		sess.fail(err.Error())
		o.recordSearch(sess, "failed", nil)
		return fmt.Errorf("profiling %q: %w", sess.Query, err)
	}
	sess.finishStep(idx, start, ProgressDone, 1)

	sess.mu.Lock()
	sess.profile = profile
	sess.mu.Unlock()

	// Searching: strictly sequential, one category at a time.
	sess.setState(StateSearching)
	queries := planner.Plan(profile, sess.DealType)
	for i, q := range queries {
		result := o.runCategory(ctx, sess, q)

		sess.mu.Lock()
		sess.results = append(sess.results, result)
		sess.mu.Unlock()

		if o.delay > 0 && i < len(queries)-1 {
			select {
			case <-time.After(o.delay):
			case <-ctx.Done():
			}
		}
	}

	// Aggregating: unconditional once all categories have been attempted.
	// There is no failure path from here — an empty roster is a valid
	// terminal state.
	sess.setState(StateAggregating)
	idx, start = sess.startStep("Aggregating and scoring", "")
	aggregated := aggregate.Aggregate(sess.Results(), o.policy)
	sess.finishStep(idx, start, ProgressDone, aggregated.Summary.Total)

	sess.mu.Lock()
	sess.aggregated = aggregated
	sess.state = StateDone
	sess.mu.Unlock()

	o.recordSearch(sess, "done", aggregated)
	return nil
}

// runCategory executes one planned query. Provider, transport, and parse
// failures all collapse into a CategoryResult with zero mentions — the raw
// text is kept for diagnostics and the sequence continues.
func (o *Orchestrator) runCategory(ctx context.Context, sess *Session, q planner.Query) model.CategoryResult {
	idx, start := sess.startStep(q.Category.Name, q.Category.Provider)

	result := model.CategoryResult{
		Category: q.Category.ID,
		Provider: q.Category.Provider,
	}

	resp, err := o.gateway.Generate(ctx, q.Category.Provider, q.Prompt, o.maxTokens)
	if err != nil {
		o.logger.Warn("category query failed",
			zap.String("category", string(q.Category.ID)),
			zap.String("provider", q.Category.Provider),
			zap.Error(err),
		)
		result.Err = err.Error()
		sess.finishStep(idx, start, ProgressError, 0)
		return result
	}

	result.RawText = resp.Text
	mentions, err := parseMentions(resp.Text)
	if err != nil {
		o.logger.Debug("no parseable investor array",
			zap.String("category", string(q.Category.ID)),
			zap.Error(err),
		)
		// Non-fatal: zero mentions, raw text preserved.
		sess.finishStep(idx, start, ProgressDone, 0)
		return result
	}

	result.Mentions = mentions
	sess.finishStep(idx, start, ProgressDone, len(mentions))
	return result
}

// parseMentions extracts the first balanced JSON array from the response and
// drops mentions without a name.
func parseMentions(text string) ([]model.InvestorMention, error) {
	raw, err := extract.Array(text)
	if err != nil {
		return nil, err
	}

	var mentions []model.InvestorMention
	if err := json.Unmarshal([]byte(raw), &mentions); err != nil {
		return nil, fmt.Errorf("unmarshaling investor array: %w", err)
	}

	named := mentions[:0]
	for _, m := range mentions {
		if m.Name != "" {
			named = append(named, m)
		}
	}
	return named, nil
}

// recordSearch writes the audit row. Fire-and-forget: failures are logged,
// never propagated.
func (o *Orchestrator) recordSearch(sess *Session, status string, aggregated *model.AggregatedResults) {
	if o.searches == nil {
		return
	}

	rec := &model.SearchRecord{
		Query:    sess.Query,
		DealType: string(sess.DealType),
		Status:   status,
	}
	if p := sess.Profile(); p != nil {
		rec.CompanyName = p.Name
	}
	if aggregated != nil {
		rec.TotalInvestors = aggregated.Summary.Total
		rec.AvgScore = aggregated.Summary.AvgScore
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := o.searches.Create(ctx, rec); err != nil {
		o.logger.Error("recording search", zap.Error(err))
	}
}
