package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/model"
	"github.com/fleveque/investor-scout/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator answers every category query with one investor named after
// the provider, so aggregation yields a predictable roster.
type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, provider, prompt string, maxTokens int) (*llm.Response, error) {
	return &llm.Response{Text: `[{"name": "Fund ` + provider + `", "type": "PE"}]`}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, query string) (*model.CompanyProfile, error) {
	return &model.CompanyProfile{Name: "Acme Srl", Sector: "packaging"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *search.Store) {
	t.Helper()

	store := search.NewStore()
	orchestrator := search.NewOrchestrator(stubGenerator{}, stubExtractor{}, nil, 0, 8000, zap.NewNop())
	h := NewSearchHandler(store, orchestrator, zap.NewNop())

	router := gin.New()
	router.POST("/searches", h.Start)
	router.GET("/searches/:id", h.Get)
	router.GET("/searches/:id/results", h.Results)
	router.GET("/searches/:id/export.csv", h.ExportCSV)
	return router, store
}

// waitDone polls the store until the session finishes or the deadline hits.
func waitDone(t *testing.T, store *search.Store, id string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		sess := store.Get(id)
		if sess != nil && (sess.State() == search.StateDone || sess.State() == search.StateFailed) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session did not finish in time")
}

func startSearch(t *testing.T, router *gin.Engine, body string) string {
	t.Helper()

	req := httptest.NewRequest("POST", "/searches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected a session id")
	}
	return resp.ID
}

func TestStart_EmptyQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/searches", strings.NewReader(`{"query": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStart_InvalidDealType(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/searches",
		strings.NewReader(`{"query": "Acme Srl", "dealType": "hostile"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStart_DefaultsToMajority(t *testing.T) {
	router, store := newTestRouter(t)

	id := startSearch(t, router, `{"query": "Acme Srl"}`)

	if sess := store.Get(id); sess.DealType != model.DealMajority {
		t.Errorf("expected majority default, got %s", sess.DealType)
	}
}

func TestGet_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/searches/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSearchLifecycle(t *testing.T) {
	router, store := newTestRouter(t)

	id := startSearch(t, router, `{"query": "Acme Srl", "dealType": "full"}`)
	waitDone(t, store, id)

	// Poll endpoint reports done with profile and summary.
	req := httptest.NewRequest("GET", "/searches/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var poll struct {
		State   string          `json:"state"`
		Profile json.RawMessage `json:"profile"`
		Summary json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &poll); err != nil {
		t.Fatalf("decoding poll response: %v", err)
	}
	if poll.State != "done" {
		t.Errorf("expected done, got %s", poll.State)
	}
	if len(poll.Profile) == 0 || len(poll.Summary) == 0 {
		t.Error("expected profile and summary in poll response")
	}

	// Results: five providers, one distinct fund each.
	req = httptest.NewRequest("GET", "/searches/"+id+"/results", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var results struct {
		Investors []model.AggregatedInvestor `json:"investors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	if len(results.Investors) != 5 {
		t.Errorf("expected 5 investors, got %d", len(results.Investors))
	}
}

func TestResults_FilterMinConsensus(t *testing.T) {
	router, store := newTestRouter(t)

	id := startSearch(t, router, `{"query": "Acme Srl"}`)
	waitDone(t, store, id)

	// Each provider serves 2 categories except mistral (1), so every fund
	// has consensus >= 1 and four have consensus 2.
	req := httptest.NewRequest("GET", "/searches/"+id+"/results?minConsensus=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var results struct {
		Investors []model.AggregatedInvestor `json:"investors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	for _, inv := range results.Investors {
		if inv.Consensus < 2 {
			t.Errorf("investor %q below min consensus: %d", inv.Name, inv.Consensus)
		}
	}
	if len(results.Investors) != 4 {
		t.Errorf("expected 4 investors with consensus >= 2, got %d", len(results.Investors))
	}
}

func TestResults_BadMinConsensus(t *testing.T) {
	router, store := newTestRouter(t)

	id := startSearch(t, router, `{"query": "Acme Srl"}`)
	waitDone(t, store, id)

	req := httptest.NewRequest("GET", "/searches/"+id+"/results?minConsensus=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestResults_NotFinished(t *testing.T) {
	router, store := newTestRouter(t)

	// A session that was created but never run.
	sess := store.Create("Acme Srl", model.DealMajority)

	req := httptest.NewRequest("GET", "/searches/"+sess.ID+"/results", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for unfinished search, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	router, store := newTestRouter(t)

	id := startSearch(t, router, `{"query": "Acme Srl"}`)
	waitDone(t, store, id)

	req := httptest.NewRequest("GET", "/searches/"+id+"/export.csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "investors_Acme Srl_") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Nome,Tipo,Paese") {
		t.Error("expected CSV header in body")
	}
}
