package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/model"
)

// fakeGenerator serves canned category responses keyed by provider and counts
// every call.
type fakeGenerator struct {
	mu        sync.Mutex
	responses map[string]string // provider -> response text
	errs      map[string]error  // provider -> forced error
	calls     int
}

func (f *fakeGenerator) Generate(ctx context.Context, provider, prompt string, maxTokens int) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[provider]; err != nil {
		return nil, err
	}
	text, ok := f.responses[provider]
	if !ok {
		text = "[]"
	}
	return &llm.Response{Text: text}, nil
}

type fakeExtractor struct {
	profile *model.CompanyProfile
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(ctx context.Context, query string) (*model.CompanyProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func newTestOrchestrator(gen *fakeGenerator, ext *fakeExtractor) *Orchestrator {
	// Zero delay keeps the tests fast; nil repository skips the audit row.
	return NewOrchestrator(gen, ext, nil, 0, 8000, zap.NewNop())
}

func TestRun_EmptyQuery(t *testing.T) {
	gen := &fakeGenerator{}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "X"}}
	sess := NewSession("s1", "   ", model.DealMajority)

	err := newTestOrchestrator(gen, ext).Run(context.Background(), sess)

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if sess.State() != StateIdle {
		t.Errorf("session must stay idle, got %s", sess.State())
	}
	if gen.calls != 0 || ext.calls != 0 {
		t.Errorf("no network calls expected, got gen=%d ext=%d", gen.calls, ext.calls)
	}
}

func TestRun_ProfileFailureEndsSession(t *testing.T) {
	gen := &fakeGenerator{}
	ext := &fakeExtractor{err: errors.New("no profile found")}
	sess := NewSession("s1", "Ghost Srl", model.DealMajority)

	err := newTestOrchestrator(gen, ext).Run(context.Background(), sess)

	if err == nil {
		t.Fatal("expected error")
	}
	if sess.State() != StateFailed {
		t.Errorf("expected failed state, got %s", sess.State())
	}
	if sess.ErrMsg() == "" {
		t.Error("expected a failure message")
	}
	if gen.calls != 0 {
		t.Errorf("no category calls expected after failed profiling, got %d", gen.calls)
	}
}

func TestRun_HappyPath(t *testing.T) {
	gen := &fakeGenerator{
		responses: map[string]string{
			"anthropic":  `Found these: [{"name": "Investindustrial", "type": "PE"}]`,
			"openai":     `[{"name": "Investindustrial", "type": "PE"}, {"name": "CVC", "type": "PE"}]`,
			"gemini":     `[{"name": "KKR", "type": "PE"}]`,
			"perplexity": `[]`,
			"mistral":    `[]`,
		},
	}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "Rossi Meccanica", Sector: "mechanics"}}
	sess := NewSession("s1", "Rossi Meccanica", model.DealMajority)

	if err := newTestOrchestrator(gen, ext).Run(context.Background(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sess.State() != StateDone {
		t.Fatalf("expected done, got %s", sess.State())
	}
	if gen.calls != len(model.Categories) {
		t.Errorf("expected %d category calls, got %d", len(model.Categories), gen.calls)
	}

	agg := sess.Aggregated()
	if agg == nil {
		t.Fatal("expected aggregated results")
	}
	// Investindustrial from two categories, CVC and KKR from one each.
	if agg.Summary.Total != 3 {
		t.Errorf("expected 3 investors, got %d", agg.Summary.Total)
	}
	if top := agg.Investors[0]; top.Name != "Investindustrial" || top.Consensus < 2 {
		t.Errorf("expected Investindustrial on top with consensus >= 2, got %+v", top)
	}
}

func TestRun_CategoryErrorsAreNonFatal(t *testing.T) {
	gen := &fakeGenerator{
		errs: map[string]error{
			"openai":     errors.New("rate limited"),
			"gemini":     errors.New("timeout"),
			"perplexity": errors.New("500"),
			"mistral":    errors.New("503"),
		},
		responses: map[string]string{
			"anthropic": `[{"name": "Clessidra", "type": "PE"}]`,
		},
	}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "X"}}
	sess := NewSession("s1", "X Srl", model.DealMajority)

	if err := newTestOrchestrator(gen, ext).Run(context.Background(), sess); err != nil {
		t.Fatalf("category failures must not surface, got %v", err)
	}

	if sess.State() != StateDone {
		t.Fatalf("expected done, got %s", sess.State())
	}
	if total := sess.Aggregated().Summary.Total; total != 1 {
		t.Errorf("expected the surviving category's investor, got %d", total)
	}

	// Failed categories keep their error in the results.
	failed := 0
	for _, r := range sess.Results() {
		if r.Err != "" {
			failed++
		}
	}
	if failed == 0 {
		t.Error("expected per-category errors recorded")
	}
}

func TestRun_AllCategoriesFailStillDone(t *testing.T) {
	gen := &fakeGenerator{
		errs: map[string]error{
			"anthropic":  errors.New("down"),
			"openai":     errors.New("down"),
			"gemini":     errors.New("down"),
			"perplexity": errors.New("down"),
			"mistral":    errors.New("down"),
		},
	}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "X"}}
	sess := NewSession("s1", "X Srl", model.DealMajority)

	if err := newTestOrchestrator(gen, ext).Run(context.Background(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sess.State() != StateDone {
		t.Errorf("expected done with empty roster, got %s", sess.State())
	}
	agg := sess.Aggregated()
	if agg.Summary.Total != 0 || agg.Summary.AvgScore != 0 {
		t.Errorf("expected empty roster summary, got %+v", agg.Summary)
	}
}

func TestRun_UnparseableResponseYieldsZeroMentions(t *testing.T) {
	gen := &fakeGenerator{
		responses: map[string]string{
			"anthropic":  "I'm sorry, I cannot find any investors for this company.",
			"openai":     `[]`,
			"gemini":     `[]`,
			"perplexity": `[]`,
			"mistral":    `[]`,
		},
	}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "X"}}
	sess := NewSession("s1", "X Srl", model.DealMajority)

	if err := newTestOrchestrator(gen, ext).Run(context.Background(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range sess.Results() {
		if r.Err != "" {
			t.Errorf("prose without JSON is not an error, got %q for %s", r.Err, r.Category)
		}
		if len(r.Mentions) != 0 {
			t.Errorf("expected zero mentions for %s", r.Category)
		}
	}
}

func TestRun_ProgressLog(t *testing.T) {
	gen := &fakeGenerator{}
	ext := &fakeExtractor{profile: &model.CompanyProfile{Name: "X"}}
	sess := NewSession("s1", "X Srl", model.DealMajority)

	var events []ProgressEvent
	sess.OnProgress(func(ev ProgressEvent) { events = append(events, ev) })

	if err := newTestOrchestrator(gen, ext).Run(context.Background(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Profiling + categories + aggregation, each with a start and a finish.
	wantSteps := 1 + len(model.Categories) + 1
	if len(sess.Progress()) != wantSteps {
		t.Errorf("expected %d progress entries, got %d", wantSteps, len(sess.Progress()))
	}
	if len(events) != 2*wantSteps {
		t.Errorf("expected %d emitted events, got %d", 2*wantSteps, len(events))
	}
	for _, ev := range sess.Progress() {
		if ev.Status == ProgressRunning {
			t.Errorf("step %q left running", ev.Label)
		}
	}
}

func TestParseMentions_DropsNameless(t *testing.T) {
	mentions, err := parseMentions(`[{"name": "KKR"}, {"type": "PE"}, {"name": "EQT"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mentions) != 2 {
		t.Errorf("expected 2 named mentions, got %d", len(mentions))
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore()

	sess := store.Create("Acme Srl", model.DealFull)
	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if sess.State() != StateIdle {
		t.Errorf("new session should be idle, got %s", sess.State())
	}

	if got := store.Get(sess.ID); got != sess {
		t.Error("Get returned a different session")
	}
	if got := store.Get("missing"); got != nil {
		t.Error("expected nil for unknown id")
	}

	store.Delete(sess.ID)
	if got := store.Get(sess.ID); got != nil {
		t.Error("expected nil after delete")
	}
}
